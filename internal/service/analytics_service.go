// Package service orchestrates the query compilation and result
// normalization pipeline.
package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonesrussell/pulse-analytics/internal/annotate"
	"github.com/jonesrussell/pulse-analytics/internal/config"
	"github.com/jonesrussell/pulse-analytics/internal/domain"
	"github.com/jonesrussell/pulse-analytics/internal/elastic"
	"github.com/jonesrussell/pulse-analytics/internal/logger"
	"github.com/jonesrussell/pulse-analytics/internal/normalize"
	"github.com/jonesrussell/pulse-analytics/internal/query"
	"github.com/jonesrussell/pulse-analytics/internal/store"
	"github.com/jonesrussell/pulse-analytics/internal/taxonomy"
	"github.com/jonesrussell/pulse-analytics/internal/telemetry"
)

// Executor issues operations against the document index.
type Executor interface {
	Count(ctx context.Context, q map[string]any) (int64, error)
	Search(ctx context.Context, q map[string]any, opts elastic.Options) (*elastic.Result, error)
	CountThenSearch(ctx context.Context, q map[string]any, opts elastic.Options) (*elastic.Result, error)
}

// TopicStore reads topic and taxonomy configuration.
type TopicStore interface {
	GetTopic(ctx context.Context, id int64) (*domain.Topic, error)
	GetTaxonomy(ctx context.Context, topicID int64) (domain.Taxonomy, error)
}

// OverrideStore reads manual sentiment overrides, reduced to the winner per
// document id.
type OverrideStore interface {
	LatestByDocumentIDs(ctx context.Context, documentIDs []string) (map[string]domain.SentimentOverride, error)
}

// PostsResult is the response of the posts pipeline.
type PostsResult struct {
	Posts []domain.Post `json:"posts"`
	Total int64         `json:"total"`
}

// SentimentCount is one sentiment's share of matching posts.
type SentimentCount struct {
	Sentiment string `json:"sentiment"`
	Count     int64  `json:"count"`
}

// KeywordStat is one keyword's count plus a bounded post sample.
type KeywordStat struct {
	Keyword string        `json:"keyword"`
	Count   int64         `json:"count"`
	Posts   []domain.Post `json:"posts"`
}

// TrendPoint is one date-histogram bucket.
type TrendPoint struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// SourceCount is one source's share of matching posts.
type SourceCount struct {
	Source string `json:"source"`
	Count  int64  `json:"count"`
}

// AnalyticsService composes resolver, compiler, executor, normalizer and
// annotator into the per-view operations exposed to the HTTP layer.
type AnalyticsService struct {
	executor   Executor
	topics     TopicStore
	overrides  OverrideStore
	cache      *taxonomy.Cache
	resolver   *taxonomy.Resolver
	compiler   *query.Compiler
	normalizer *normalize.Normalizer
	metrics    *telemetry.Metrics
	cfg        config.AnalyticsConfig
	log        logger.Logger
}

// NewAnalyticsService creates the orchestrator. cache and metrics may be nil.
func NewAnalyticsService(
	executor Executor,
	topics TopicStore,
	overrides OverrideStore,
	cache *taxonomy.Cache,
	metrics *telemetry.Metrics,
	cfg config.AnalyticsConfig,
	log logger.Logger,
) *AnalyticsService {
	return &AnalyticsService{
		executor:   executor,
		topics:     topics,
		overrides:  overrides,
		cache:      cache,
		resolver:   taxonomy.NewResolver(),
		compiler:   query.NewCompiler(cfg.DefaultRangeDays),
		normalizer: normalize.NewNormalizer(),
		metrics:    metrics,
		cfg:        cfg,
		log:        log,
	}
}

// requestContext is the per-request configuration snapshot.
type requestContext struct {
	topic    *domain.Topic
	taxonomy domain.Taxonomy
	terms    *domain.TermSet
}

// loadContext resolves topic, taxonomy and term set for one request.
// A missing topic is configuration absence, not an error: the pipeline
// renders a zero state.
func (s *AnalyticsService) loadContext(ctx context.Context, criteria domain.FilterCriteria) (*requestContext, error) {
	rc := &requestContext{}

	topic, err := s.topics.GetTopic(ctx, criteria.TopicID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.log.Warn("topic not configured, rendering zero state",
				logger.Int64("topic_id", criteria.TopicID),
			)
			return rc, nil
		}
		return nil, err
	}
	rc.topic = topic

	rc.taxonomy = s.cache.Get(ctx, criteria.TopicID)
	if rc.taxonomy == nil {
		rc.taxonomy, err = s.topics.GetTaxonomy(ctx, criteria.TopicID)
		if err != nil {
			return nil, err
		}
		s.cache.Set(ctx, criteria.TopicID, rc.taxonomy)
	}

	rc.terms = s.resolveTerms(rc, criteria.Category)
	return rc, nil
}

// resolveTerms picks the term set for the request's category selector.
//
// No selector or "all" unions the taxonomy with the topic-level terms; the
// union fallback is load-bearing, since resolving to nothing would silently
// empty the result set. A named category that fails the matching chain
// yields nil so the compiler applies its raw phrase-search fallback.
func (s *AnalyticsService) resolveTerms(rc *requestContext, category string) *domain.TermSet {
	category = strings.TrimSpace(category)

	if category == "" || strings.EqualFold(category, taxonomy.CategoryAll) {
		set := s.resolver.AllTerms(rc.taxonomy)
		set.Merge(s.resolver.TopicTerms(rc.topic))
		return &set
	}
	if strings.EqualFold(category, taxonomy.CategoryCustom) {
		return nil
	}
	return s.resolver.CategoryTerms(rc.taxonomy, category)
}

func (s *AnalyticsService) compileInput(rc *requestContext, criteria domain.FilterCriteria) query.Input {
	in := query.Input{
		Criteria: criteria,
		Terms:    rc.terms,
	}
	if rc.topic != nil {
		in.ExcludeWords = rc.topic.ExcludeWordList()
		in.ExcludeAccounts = rc.topic.ExcludeAccountList()
	}
	return in
}

// CompileAndRun executes the full posts pipeline: resolve, compile,
// count-then-cap fetch, batched override overlay, normalize, annotate.
func (s *AnalyticsService) CompileAndRun(ctx context.Context, criteria domain.FilterCriteria) (*PostsResult, error) {
	rc, err := s.loadContext(ctx, criteria)
	if err != nil {
		return nil, err
	}
	if rc.topic == nil {
		s.countEmptyResult()
		return &PostsResult{Posts: []domain.Post{}, Total: 0}, nil
	}

	compiled := s.compiler.Compile(s.compileInput(rc, criteria))

	result, err := s.executor.CountThenSearch(ctx, compiled, elastic.Options{
		Sort: []elastic.SortField{{Field: query.FieldCreatedAt, Order: "desc"}},
	})
	if err != nil {
		return nil, err
	}
	if result.Total == 0 {
		s.countEmptyResult()
		return &PostsResult{Posts: []domain.Post{}, Total: 0}, nil
	}

	posts := s.normalizeHits(ctx, result.Hits, rc.terms)
	return &PostsResult{Posts: posts, Total: result.Total}, nil
}

// normalizeHits overlays overrides (one batched lookup for the whole page),
// normalizes, and annotates matched terms. Override fetch failure degrades
// to raw fields only.
func (s *AnalyticsService) normalizeHits(ctx context.Context, hits []elastic.Hit, terms *domain.TermSet) []domain.Post {
	ids := make([]string, 0, len(hits))
	raw := make([]domain.RawHit, 0, len(hits))
	for _, h := range hits {
		ids = append(ids, h.Source.PID)
		raw = append(raw, h.Source)
	}

	overrides := s.fetchOverrides(ctx, ids)

	var termList []string
	if terms != nil {
		termList = terms.All()
	}

	posts := s.normalizer.NormalizeAll(raw, overrides)
	for i := range posts {
		annotate.Annotate(&posts[i], termList)
	}
	if s.metrics != nil {
		s.metrics.PostsNormalizedTotal.Add(float64(len(posts)))
	}
	return posts
}

func (s *AnalyticsService) fetchOverrides(ctx context.Context, ids []string) map[string]domain.SentimentOverride {
	if len(ids) == 0 {
		return map[string]domain.SentimentOverride{}
	}
	if s.metrics != nil {
		s.metrics.OverrideLookupsTotal.Inc()
		s.metrics.OverrideBatchSize.Observe(float64(len(ids)))
	}

	overrides, err := s.overrides.LatestByDocumentIDs(ctx, ids)
	if err != nil {
		if s.metrics != nil {
			s.metrics.OverrideLookupFailures.Inc()
		}
		s.log.Warn("override batch lookup failed, continuing with raw sentiment",
			logger.Int("documents", len(ids)),
			logger.Error(err),
		)
		return map[string]domain.SentimentOverride{}
	}
	return overrides
}

// SentimentSummary counts matching posts per sentiment, fanning the counts
// out concurrently.
func (s *AnalyticsService) SentimentSummary(ctx context.Context, criteria domain.FilterCriteria) ([]SentimentCount, error) {
	rc, err := s.loadContext(ctx, criteria)
	if err != nil {
		return nil, err
	}
	if rc.topic == nil {
		s.countEmptyResult()
		return []SentimentCount{}, nil
	}

	sentiments := []string{domain.SentimentPositive, domain.SentimentNegative, domain.SentimentNeutral}
	counts := make([]SentimentCount, len(sentiments))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.FanoutLimit)
	for i, sentiment := range sentiments {
		g.Go(func() error {
			c := criteria
			c.Sentiment = sentiment
			compiled := s.compiler.Compile(s.compileInput(rc, c))
			count, countErr := s.executor.Count(gctx, compiled)
			if countErr != nil {
				return countErr
			}
			counts[i] = SentimentCount{Sentiment: sentiment, Count: count}
			return nil
		})
	}
	if waitErr := g.Wait(); waitErr != nil {
		return nil, waitErr
	}
	return counts, nil
}

// KeywordBreakdown returns, per resolved keyword, the matching post count
// and a small post sample. Counts and samples are fetched concurrently; one
// keyword's failure degrades to a zero row instead of failing the response.
// Override lookups for every sample are batched into a single query.
func (s *AnalyticsService) KeywordBreakdown(ctx context.Context, criteria domain.FilterCriteria) ([]KeywordStat, error) {
	rc, err := s.loadContext(ctx, criteria)
	if err != nil {
		return nil, err
	}
	if rc.topic == nil || rc.terms == nil || rc.terms.IsEmpty() {
		s.countEmptyResult()
		return []KeywordStat{}, nil
	}

	keywords := rc.terms.All()
	stats := make([]KeywordStat, len(keywords))
	samples := make([][]domain.RawHit, len(keywords))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.FanoutLimit)
	for i, keyword := range keywords {
		g.Go(func() error {
			count, hits := s.keywordSample(gctx, rc, criteria, keyword)
			stats[i] = KeywordStat{Keyword: keyword, Count: count, Posts: []domain.Post{}}
			samples[i] = hits
			return nil
		})
	}
	if waitErr := g.Wait(); waitErr != nil {
		return nil, waitErr
	}

	// One override batch across every keyword's sample.
	ids := make([]string, 0, len(keywords)*s.cfg.KeywordSampleSize)
	for _, hits := range samples {
		for _, h := range hits {
			ids = append(ids, h.PID)
		}
	}
	overrides := s.fetchOverrides(ctx, ids)

	termList := rc.terms.All()
	for i, hits := range samples {
		posts := s.normalizer.NormalizeAll(hits, overrides)
		for j := range posts {
			annotate.Annotate(&posts[j], termList)
		}
		stats[i].Posts = posts
	}

	sort.SliceStable(stats, func(a, b int) bool { return stats[a].Count > stats[b].Count })
	return stats, nil
}

// keywordSample fetches one keyword's count and capped hit sample.
// Failures are local: log, degrade to zero.
func (s *AnalyticsService) keywordSample(ctx context.Context, rc *requestContext, criteria domain.FilterCriteria, keyword string) (int64, []domain.RawHit) {
	in := s.compileInput(rc, criteria)
	in.Terms = &domain.TermSet{Keywords: []string{keyword}}
	compiled := s.compiler.Compile(in)

	count, err := s.executor.Count(ctx, compiled)
	if err != nil {
		s.log.Warn("keyword count failed, degrading to empty sample",
			logger.String("keyword", keyword),
			logger.Error(err),
		)
		return 0, nil
	}
	if count == 0 {
		return 0, nil
	}

	result, err := s.executor.Search(ctx, compiled, elastic.Options{
		Size: s.cfg.KeywordSampleSize,
		Sort: []elastic.SortField{{Field: query.FieldCreatedAt, Order: "desc"}},
	})
	if err != nil {
		s.log.Warn("keyword sample fetch failed, returning count only",
			logger.String("keyword", keyword),
			logger.Error(err),
		)
		return count, nil
	}

	hits := make([]domain.RawHit, 0, len(result.Hits))
	for _, h := range result.Hits {
		hits = append(hits, h.Source)
	}
	return count, hits
}

// MentionTrend returns the date histogram of matching posts over the
// request's range. Extended bounds keep zero-count intervals present.
func (s *AnalyticsService) MentionTrend(ctx context.Context, criteria domain.FilterCriteria, interval string) ([]TrendPoint, error) {
	rc, err := s.loadContext(ctx, criteria)
	if err != nil {
		return nil, err
	}
	if rc.topic == nil {
		s.countEmptyResult()
		return []TrendPoint{}, nil
	}

	if interval == "" {
		interval = "day"
	}
	lower, upper := domain.NormalizeDateRange(criteria.FromDate, criteria.ToDate, s.cfg.DefaultRangeDays, time.Now())
	// Extended bounds are parsed with the histogram's yyyy-MM-dd format.
	lower = dateOnly(lower)
	upper = dateOnly(upper)

	compiled := s.compiler.Compile(s.compileInput(rc, criteria))
	result, err := s.executor.Search(ctx, compiled, elastic.Options{
		Aggs: map[string]any{
			"mention_trend": elastic.DateHistogramAgg(query.FieldCreatedAt, interval, lower, upper),
		},
	})
	if err != nil {
		return nil, err
	}

	agg, ok := result.Aggregations["mention_trend"]
	if !ok {
		return []TrendPoint{}, nil
	}
	points := make([]TrendPoint, 0, len(agg.Buckets))
	for _, b := range agg.Buckets {
		points = append(points, TrendPoint{Date: b.KeyAsString, Count: b.DocCount})
	}
	return points, nil
}

// SourceDistribution returns matching post counts per source.
func (s *AnalyticsService) SourceDistribution(ctx context.Context, criteria domain.FilterCriteria) ([]SourceCount, error) {
	rc, err := s.loadContext(ctx, criteria)
	if err != nil {
		return nil, err
	}
	if rc.topic == nil {
		s.countEmptyResult()
		return []SourceCount{}, nil
	}

	compiled := s.compiler.Compile(s.compileInput(rc, criteria))
	result, err := s.executor.Search(ctx, compiled, elastic.Options{
		Aggs: map[string]any{
			"sources": elastic.TermsAgg("source.keyword", len(domain.AllSources)),
		},
	})
	if err != nil {
		return nil, err
	}

	agg, ok := result.Aggregations["sources"]
	if !ok {
		return []SourceCount{}, nil
	}
	counts := make([]SourceCount, 0, len(agg.Buckets))
	for _, b := range agg.Buckets {
		key := b.KeyAsString
		if key == "" {
			if s, isString := b.Key.(string); isString {
				key = s
			}
		}
		counts = append(counts, SourceCount{Source: key, Count: b.DocCount})
	}
	return counts, nil
}

func dateOnly(bound string) string {
	if len(bound) > len(domain.DateOnlyLayout) {
		return bound[:len(domain.DateOnlyLayout)]
	}
	return bound
}

func (s *AnalyticsService) countEmptyResult() {
	if s.metrics != nil {
		s.metrics.EmptyResultsTotal.Inc()
	}
}
