// Package query compiles filter criteria and resolved term sets into
// Elasticsearch boolean query trees.
package query

import (
	"strings"
	"time"

	"github.com/jonesrussell/pulse-analytics/internal/domain"
	"github.com/jonesrussell/pulse-analytics/internal/taxonomy"
)

// Compiler assembles boolean query trees. It is a pure transformation: same
// input, same tree. It never errors on filter shape; malformed input
// degrades to safe defaults.
type Compiler struct {
	defaultRangeDays int
}

// NewCompiler creates a compiler. defaultRangeDays is the trailing window
// applied when the request carries no usable date range.
func NewCompiler(defaultRangeDays int) *Compiler {
	return &Compiler{defaultRangeDays: defaultRangeDays}
}

// Input carries everything one compilation needs.
type Input struct {
	Criteria domain.FilterCriteria
	// Terms is the resolved term set for the request's category (or topic).
	// nil means the category selector did not resolve; the compiler then
	// falls back to a phrase search for the raw category string.
	Terms *domain.TermSet
	// ExcludeWords and ExcludeAccounts come from topic configuration.
	ExcludeWords    []string
	ExcludeAccounts []string
	// Now anchors relative and defaulted date bounds.
	Now time.Time
}

// Compile builds the boolean query tree for one request.
func (c *Compiler) Compile(in Input) map[string]any {
	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}

	must := []any{
		c.dateRangeClause(in.Criteria, now),
		c.sourceClause(in.Criteria),
	}

	if termClause := c.termClause(in); termClause != nil {
		must = append(must, termClause)
	}
	if sentimentClause := c.sentimentClause(in.Criteria); sentimentClause != nil {
		must = append(must, sentimentClause)
	}
	if ratingClause := c.ratingClause(in.Criteria); ratingClause != nil {
		must = append(must, ratingClause)
	}
	if in.Criteria.Emotion != "" {
		must = append(must, matchPhrase(FieldEmotion, in.Criteria.Emotion))
	}
	if in.Criteria.MentionType != "" {
		must = append(must, matchPhrase(FieldMentionType, in.Criteria.MentionType))
	}

	override, hasOverride := OverrideForTopic(in.Criteria.TopicID)
	if hasOverride {
		if override.GeoBox != nil {
			must = append(must, geoBoxClause(*override.GeoBox))
		}
		if override.RequirePublicOpinion {
			must = append(must, map[string]any{
				"term": map[string]any{FieldIsPublicOpinion: true},
			})
		}
	}

	return map[string]any{
		"bool": map[string]any{
			"must":     must,
			"must_not": c.exclusionClauses(in),
		},
	}
}

// dateRangeClause builds the inclusive created_at range. Both bounds are
// format-normalized; a bare end date gets end-of-day appended so same-day
// documents are not excluded.
func (c *Compiler) dateRangeClause(criteria domain.FilterCriteria, now time.Time) map[string]any {
	lower, upper := domain.NormalizeDateRange(criteria.FromDate, criteria.ToDate, c.defaultRangeDays, now)
	return map[string]any{
		"range": map[string]any{
			FieldCreatedAt: map[string]any{
				"gte":    lower,
				"lte":    upper,
				"format": "yyyy-MM-dd HH:mm:ss",
			},
		},
	}
}

// sourceClause picks the source whitelist: caller list first, then the
// tenant override, then every known source.
func (c *Compiler) sourceClause(criteria domain.FilterCriteria) map[string]any {
	sources := criteria.SourceList()
	if len(sources) == 0 {
		if override, ok := OverrideForTopic(criteria.TopicID); ok && len(override.SourceWhitelist) > 0 {
			sources = override.SourceWhitelist
		} else {
			sources = domain.AllSources
		}
	}

	should := make([]any, 0, len(sources))
	for _, s := range sources {
		should = append(should, matchPhrase(FieldSource, s))
	}
	return shouldClause(should)
}

// termClause builds the category/term should-list across MatchFields.
//
// A resolved category with zero terms compiles to match_none: omitting the
// clause would silently turn an empty category into an unfiltered query.
// An unresolved category (Terms == nil) that is not "all"/"custom" falls
// back to a phrase search for the raw selector string.
func (c *Compiler) termClause(in Input) map[string]any {
	if in.Terms == nil {
		category := strings.TrimSpace(in.Criteria.Category)
		if category == "" ||
			strings.EqualFold(category, taxonomy.CategoryAll) ||
			strings.EqualFold(category, taxonomy.CategoryCustom) {
			return nil
		}
		return c.phraseSearchClause([]string{category})
	}

	if in.Terms.IsEmpty() {
		return map[string]any{"match_none": map[string]any{}}
	}

	return c.phraseSearchClause(in.Terms.All())
}

// phraseSearchClause builds a should-list of phrase matches for every term
// against every match field.
func (c *Compiler) phraseSearchClause(terms []string) map[string]any {
	should := make([]any, 0, len(terms)*len(MatchFields))
	for _, term := range terms {
		for _, field := range MatchFields {
			should = append(should, matchPhrase(field, term))
		}
	}
	return shouldClause(should)
}

// sentimentClause builds a single term match or a should-list for
// comma-separated multi-value input.
func (c *Compiler) sentimentClause(criteria domain.FilterCriteria) map[string]any {
	values := criteria.SentimentValues()
	switch len(values) {
	case 0:
		return nil
	case 1:
		return matchPhrase(FieldSentiment, values[0])
	default:
		should := make([]any, 0, len(values))
		for _, v := range values {
			should = append(should, matchPhrase(FieldSentiment, v))
		}
		return shouldClause(should)
	}
}

// ratingClause applies to review-platform queries only: exact rating when
// provided, else the sentiment-derived band. Rating is the ground truth on
// review platforms, so band and literal sentiment filters must agree.
func (c *Compiler) ratingClause(criteria domain.FilterCriteria) map[string]any {
	if !targetsReviewPlatform(criteria) {
		return nil
	}

	if criteria.HasValidRating() {
		return map[string]any{
			"term": map[string]any{FieldRating: criteria.Rating},
		}
	}

	values := criteria.SentimentValues()
	if len(values) != 1 {
		return nil
	}
	minRating, maxRating, ok := domain.RatingRangeForSentiment(values[0])
	if !ok {
		return nil
	}
	return map[string]any{
		"range": map[string]any{
			FieldRating: map[string]any{"gte": minRating, "lte": maxRating},
		},
	}
}

// exclusionClauses drops administrative source tags, manually-entered review
// records, and topic-configured exclusions.
func (c *Compiler) exclusionClauses(in Input) []any {
	mustNot := make([]any, 0, 2+len(in.ExcludeWords)+len(in.ExcludeAccounts))
	for _, tag := range internalSourceTags {
		mustNot = append(mustNot, matchPhrase(FieldSource, tag))
	}
	mustNot = append(mustNot, map[string]any{
		"term": map[string]any{FieldManualEntry: true},
	})

	for _, word := range domain.CleanTerms(in.ExcludeWords) {
		for _, field := range MatchFields {
			mustNot = append(mustNot, matchPhrase(field, word))
		}
	}
	for _, account := range domain.CleanTerms(in.ExcludeAccounts) {
		mustNot = append(mustNot, matchPhrase(FieldUsername, account))
	}
	return mustNot
}

// targetsReviewPlatform reports whether the effective source set consists
// solely of review platforms.
func targetsReviewPlatform(criteria domain.FilterCriteria) bool {
	sources := criteria.SourceList()
	if len(sources) == 0 {
		return false
	}
	for _, s := range sources {
		if !domain.IsReviewPlatform(s) {
			return false
		}
	}
	return true
}

func geoBoxClause(box GeoBox) map[string]any {
	return map[string]any{
		"bool": map[string]any{
			"must": []any{
				map[string]any{
					"range": map[string]any{
						FieldLatitude: map[string]any{"gte": box.MinLat, "lte": box.MaxLat},
					},
				},
				map[string]any{
					"range": map[string]any{
						FieldLongitude: map[string]any{"gte": box.MinLon, "lte": box.MaxLon},
					},
				},
			},
		},
	}
}

func matchPhrase(field, value string) map[string]any {
	return map[string]any{
		"match_phrase": map[string]any{field: value},
	}
}

func shouldClause(should []any) map[string]any {
	return map[string]any{
		"bool": map[string]any{
			"should":               should,
			"minimum_should_match": 1,
		},
	}
}
