package domain

import "strings"

// Topic is tenant-scoped monitoring configuration. It is read-only to the
// analytics core; admin tooling owns its lifecycle.
type Topic struct {
	ID              int64  `db:"id" json:"id"`
	Name            string `db:"name" json:"name"`
	Keywords        string `db:"keywords" json:"keywords"`                 // comma-delimited
	Hashtags        string `db:"hashtags" json:"hashtags"`                 // pipe-delimited
	URLs            string `db:"urls" json:"urls"`                         // pipe-delimited
	GoogleURLs      string `db:"google_urls" json:"google_urls"`           // pipe-delimited, GoogleMyBusiness only
	ExcludeWords    string `db:"exclude_words" json:"exclude_words"`       // comma-delimited
	ExcludeAccounts string `db:"exclude_accounts" json:"exclude_accounts"` // comma-delimited
	DataSources     string `db:"data_sources" json:"data_sources"`         // comma-delimited
	Languages       string `db:"languages" json:"languages"`               // comma-delimited
	Locations       string `db:"locations" json:"locations"`               // comma-delimited
}

// KeywordList returns the topic keywords, trimmed and empty-filtered.
func (t *Topic) KeywordList() []string { return splitTerms(t.Keywords, ",") }

// HashtagList returns the topic hashtags, trimmed and empty-filtered.
func (t *Topic) HashtagList() []string { return splitTerms(t.Hashtags, "|") }

// URLList returns the topic URLs, trimmed and empty-filtered.
func (t *Topic) URLList() []string { return splitTerms(t.URLs, "|") }

// GoogleURLList returns the GoogleMyBusiness-only URL subset.
func (t *Topic) GoogleURLList() []string { return splitTerms(t.GoogleURLs, "|") }

// ExcludeWordList returns the exclusion words.
func (t *Topic) ExcludeWordList() []string { return splitTerms(t.ExcludeWords, ",") }

// ExcludeAccountList returns the excluded author accounts.
func (t *Topic) ExcludeAccountList() []string { return splitTerms(t.ExcludeAccounts, ",") }

// DataSourceList returns the sources the topic is allowed to monitor.
func (t *Topic) DataSourceList() []string { return splitTerms(t.DataSources, ",") }

// Category is a named sub-grouping within a topic's taxonomy.
type Category struct {
	Title    string   `json:"title"`
	Keywords []string `json:"keywords"`
	Hashtags []string `json:"hashtags"`
	URLs     []string `json:"urls"`
}

// Taxonomy maps category titles (as stored) to their term sets.
type Taxonomy map[string]Category

// TermSet is the resolved union of keywords, hashtags and URLs for a topic
// or category.
type TermSet struct {
	Keywords []string `json:"keywords"`
	Hashtags []string `json:"hashtags"`
	URLs     []string `json:"urls"`
}

// Merge appends another term set into this one.
func (s *TermSet) Merge(other TermSet) {
	s.Keywords = append(s.Keywords, other.Keywords...)
	s.Hashtags = append(s.Hashtags, other.Hashtags...)
	s.URLs = append(s.URLs, other.URLs...)
}

// IsEmpty reports whether the set holds no terms at all.
func (s *TermSet) IsEmpty() bool {
	return len(s.Keywords) == 0 && len(s.Hashtags) == 0 && len(s.URLs) == 0
}

// All returns every term in the set as one flat list.
func (s *TermSet) All() []string {
	out := make([]string, 0, len(s.Keywords)+len(s.Hashtags)+len(s.URLs))
	out = append(out, s.Keywords...)
	out = append(out, s.Hashtags...)
	out = append(out, s.URLs...)
	return out
}

// splitTerms splits a delimited term string, trimming whitespace and
// dropping empty entries.
func splitTerms(raw, sep string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// CleanTerms trims and empty-filters an already-split term list.
func CleanTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		out = append(out, t)
	}
	return out
}
