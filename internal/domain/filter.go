package domain

import (
	"strconv"
	"strings"
	"time"
)

// Timestamp layouts accepted on filter input. IndexTimeLayout is what the
// document index stores and what compiled range bounds must use.
const (
	IndexTimeLayout = "2006-01-02 15:04:05"
	DateOnlyLayout  = "2006-01-02"
)

// FilterCriteria captures every request-level filter dimension. It is built
// once per request and never mutated by the pipeline.
type FilterCriteria struct {
	TopicID     int64    `json:"topic_id" form:"topic_id"`
	Category    string   `json:"category" form:"category"`
	Sentiment   string   `json:"sentiment" form:"sentiment"` // single or comma-separated
	Sources     []string `json:"sources" form:"sources"`
	Rating      int      `json:"rating" form:"rating"` // 1-5, GoogleMyBusiness only; 0 = unset
	MentionType string   `json:"mention_type" form:"mention_type"`
	Emotion     string   `json:"emotion" form:"emotion"`
	FromDate    string   `json:"from_date" form:"from_date"`
	ToDate      string   `json:"to_date" form:"to_date"`
}

// SentimentValues splits the sentiment filter into its individual values,
// trimmed and empty-filtered. Absent filter yields nil.
func (c *FilterCriteria) SentimentValues() []string {
	return splitTerms(c.Sentiment, ",")
}

// HasExplicitSources reports whether the caller supplied a source whitelist.
// An explicit list always beats any topic-derived default.
func (c *FilterCriteria) HasExplicitSources() bool {
	return len(CleanTerms(c.Sources)) > 0
}

// SourceList returns the caller whitelist, trimmed and empty-filtered.
func (c *FilterCriteria) SourceList() []string {
	return CleanTerms(c.Sources)
}

// HasValidRating reports whether the rating filter is set and in band.
func (c *FilterCriteria) HasValidRating() bool {
	return c.Rating >= RatingMin && c.Rating <= RatingMax
}

// NormalizeDateRange resolves the request's date range into inclusive index
// bounds formatted with IndexTimeLayout. Bare dates get a start-of-day lower
// bound and an end-of-day upper bound so same-day documents are included.
// Unparseable or absent input degrades to the trailing defaultDays window;
// this never errors because dashboards must render, not fail.
func NormalizeDateRange(from, to string, defaultDays int, now time.Time) (string, string) {
	lower, okFrom := parseDateBound(from, false, now)
	upper, okTo := parseDateBound(to, true, now)
	if !okFrom {
		lower = now.AddDate(0, 0, -defaultDays)
	}
	if !okTo {
		upper = endOfDay(now)
	}
	if upper.Before(lower) {
		lower, upper = upper, lower
	}
	return lower.Format(IndexTimeLayout), upper.Format(IndexTimeLayout)
}

// parseDateBound accepts a bare date, a full timestamp, an RFC3339
// timestamp, or a relative now-<n>d expression.
func parseDateBound(value string, end bool, now time.Time) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}

	if days, ok := parseRelativeDays(value); ok {
		t := now.AddDate(0, 0, -days)
		if end {
			return endOfDay(t), true
		}
		return startOfDay(t), true
	}

	if t, err := time.Parse(DateOnlyLayout, value); err == nil {
		if end {
			return endOfDay(t), true
		}
		return t, true
	}
	if t, err := time.Parse(IndexTimeLayout, value); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// parseRelativeDays parses "now" and "now-<n>d" expressions.
func parseRelativeDays(value string) (int, bool) {
	if value == "now" {
		return 0, true
	}
	if !strings.HasPrefix(value, "now-") || !strings.HasSuffix(value, "d") {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(value, "now-"), "d"))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}
