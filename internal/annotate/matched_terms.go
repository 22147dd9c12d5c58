// Package annotate reports which resolved terms actually appear in a
// normalized post.
package annotate

import (
	"strings"

	"github.com/jonesrussell/pulse-analytics/internal/domain"
	"github.com/jonesrussell/pulse-analytics/internal/query"
)

// extraScanFields are text-bearing display fields scanned in addition to the
// compiler's match fields.
var extraScanFields = []string{"source", "p_url", "u_fullname"}

// MatchedTerms returns the terms whose case-insensitive substring appears in
// any text-bearing field of the post. Array fields are checked element-wise.
//
// This is a transparency feature, not a correctness boundary: an empty
// result on a post the query matched indicates field-mapping drift, not an
// error. The scan set is derived from query.MatchFields so the two lists
// cannot drift independently.
func MatchedTerms(post domain.Post, terms []string) []string {
	if len(terms) == 0 {
		return []string{}
	}

	haystacks := scanValues(post)
	matched := make([]string, 0, len(terms))
	seen := make(map[string]struct{}, len(terms))

	for _, term := range terms {
		needle := strings.ToLower(strings.TrimSpace(term))
		if needle == "" {
			continue
		}
		if _, dup := seen[needle]; dup {
			continue
		}
		for _, haystack := range haystacks {
			if strings.Contains(haystack, needle) {
				matched = append(matched, term)
				seen[needle] = struct{}{}
				break
			}
		}
	}
	return matched
}

// Annotate fills the post's matched-terms list in place.
func Annotate(post *domain.Post, terms []string) {
	post.MatchedTerms = MatchedTerms(*post, terms)
}

// scanValues collects lower-cased haystacks for every scan field.
func scanValues(post domain.Post) []string {
	fields := make([]string, 0, len(query.MatchFields)+len(extraScanFields))
	fields = append(fields, query.MatchFields...)
	fields = append(fields, extraScanFields...)

	values := make([]string, 0, len(fields)+2)
	for _, field := range fields {
		for _, v := range fieldValues(post, field) {
			if v == "" {
				continue
			}
			values = append(values, strings.ToLower(v))
		}
	}
	return values
}

// fieldValues maps an index field name to the post values it feeds.
func fieldValues(post domain.Post, field string) []string {
	switch field {
	case "p_message_text", "p_message":
		return []string{post.MessageText}
	case "keywords":
		return post.Keywords
	case "title":
		return []string{post.Title}
	case "hashtags":
		return post.Hashtags
	case "u_username":
		return []string{post.Handle}
	case "u_source", "p_url":
		return []string{post.URL}
	case "source":
		return []string{post.Source}
	case "u_fullname":
		return []string{post.DisplayName}
	default:
		return nil
	}
}
