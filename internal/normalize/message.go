package normalize

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/pulse-analytics/internal/domain"
)

// reviewMessageDelimiter joins the logical message segments that review
// platforms store in one field. Only the first segment is displayed.
const reviewMessageDelimiter = "|||"

// cleanMessage resolves the per-platform message text quirks.
//
// GoogleMyBusiness and Glassdoor store several logical messages joined by a
// literal delimiter; the first segment is the review body, and its newlines
// become line breaks for display. Every other platform gets HTML stripped.
// A missing message yields an empty string, never an error.
func cleanMessage(source, message string) string {
	if message == "" {
		return ""
	}

	switch source {
	case domain.SourceGoogleMyBusiness, domain.SourceGlassdoor:
		segment := message
		if idx := strings.Index(message, reviewMessageDelimiter); idx >= 0 {
			segment = message[:idx]
		}
		segment = strings.TrimSpace(segment)
		return strings.ReplaceAll(segment, "\n", "<br>")
	default:
		return stripHTML(message)
	}
}

// stripHTML removes markup and returns the text content. Unparseable input
// falls back to the raw string.
func stripHTML(message string) string {
	if !strings.ContainsAny(message, "<>") {
		return strings.TrimSpace(message)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(message))
	if err != nil {
		return strings.TrimSpace(message)
	}
	return strings.TrimSpace(doc.Text())
}
