// Package taxonomy resolves stored topic and category configuration into
// normalized term sets.
package taxonomy

import (
	"strings"

	"github.com/jonesrussell/pulse-analytics/internal/domain"
)

// CategoryAll is the synthetic category meaning "union of every category".
const CategoryAll = "all"

// CategoryCustom marks requests that carry their own terms instead of a
// stored category.
const CategoryCustom = "custom"

// Resolver converts topic/taxonomy configuration into term sets.
type Resolver struct{}

// NewResolver creates a resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// TopicTerms returns the topic-level term set (keywords, hashtags, urls),
// trimmed and empty-filtered.
func (r *Resolver) TopicTerms(topic *domain.Topic) domain.TermSet {
	if topic == nil {
		return domain.TermSet{}
	}
	return domain.TermSet{
		Keywords: topic.KeywordList(),
		Hashtags: topic.HashtagList(),
		URLs:     topic.URLList(),
	}
}

// CategoryTerms resolves one category's term set from the taxonomy.
//
// Returns nil when no category matches. Callers must decide to fall back to
// AllTerms rather than filtering to nothing: compiling an unmatched category
// into an empty clause silently empties the whole result set.
func (r *Resolver) CategoryTerms(taxonomy domain.Taxonomy, category string) *domain.TermSet {
	if len(taxonomy) == 0 {
		return nil
	}
	if strings.EqualFold(strings.TrimSpace(category), CategoryAll) {
		all := r.AllTerms(taxonomy)
		return &all
	}

	if c, ok := matchCategory(taxonomy, category); ok {
		set := termSetOf(c)
		return &set
	}
	return nil
}

// AllTerms unions every category's term arrays.
func (r *Resolver) AllTerms(taxonomy domain.Taxonomy) domain.TermSet {
	var set domain.TermSet
	for _, c := range taxonomy {
		other := termSetOf(c)
		set.Merge(other)
	}
	return set
}

// matchCategory finds a category by title using, in priority order:
// exact match, case-insensitive match, whitespace-normalized match, then
// substring containment in either direction. Stored titles frequently carry
// stray whitespace and casing differences the dashboard must tolerate.
func matchCategory(taxonomy domain.Taxonomy, wanted string) (domain.Category, bool) {
	if c, ok := taxonomy[wanted]; ok {
		return c, true
	}

	for title, c := range taxonomy {
		if strings.EqualFold(title, wanted) {
			return c, true
		}
	}

	squashedWanted := squash(wanted)
	for title, c := range taxonomy {
		if squash(title) == squashedWanted {
			return c, true
		}
	}

	for title, c := range taxonomy {
		st := squash(title)
		if strings.Contains(st, squashedWanted) || strings.Contains(squashedWanted, st) {
			return c, true
		}
	}

	return domain.Category{}, false
}

// squash lower-cases and removes all whitespace.
func squash(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "")
}

func termSetOf(c domain.Category) domain.TermSet {
	return domain.TermSet{
		Keywords: domain.CleanTerms(c.Keywords),
		Hashtags: domain.CleanTerms(c.Hashtags),
		URLs:     domain.CleanTerms(c.URLs),
	}
}
