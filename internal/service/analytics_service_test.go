package service_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/jonesrussell/pulse-analytics/internal/config"
	"github.com/jonesrussell/pulse-analytics/internal/domain"
	"github.com/jonesrussell/pulse-analytics/internal/elastic"
	"github.com/jonesrussell/pulse-analytics/internal/logger"
	"github.com/jonesrussell/pulse-analytics/internal/service"
	"github.com/jonesrussell/pulse-analytics/internal/store"
)

type fakeExecutor struct {
	count       int64
	countErr    error
	hits        []elastic.Hit
	searchErr   error
	countCalls  atomic.Int64
	searchCalls atomic.Int64
}

func (f *fakeExecutor) Count(_ context.Context, _ map[string]any) (int64, error) {
	f.countCalls.Add(1)
	return f.count, f.countErr
}

func (f *fakeExecutor) Search(_ context.Context, _ map[string]any, _ elastic.Options) (*elastic.Result, error) {
	f.searchCalls.Add(1)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return &elastic.Result{Total: f.count, Hits: f.hits}, nil
}

func (f *fakeExecutor) CountThenSearch(ctx context.Context, q map[string]any, opts elastic.Options) (*elastic.Result, error) {
	count, err := f.Count(ctx, q)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return &elastic.Result{Total: 0, Hits: []elastic.Hit{}}, nil
	}
	return f.Search(ctx, q, opts)
}

type fakeTopics struct {
	topic    *domain.Topic
	taxonomy domain.Taxonomy
}

func (f *fakeTopics) GetTopic(context.Context, int64) (*domain.Topic, error) {
	if f.topic == nil {
		return nil, store.ErrNotFound
	}
	return f.topic, nil
}

func (f *fakeTopics) GetTaxonomy(context.Context, int64) (domain.Taxonomy, error) {
	return f.taxonomy, nil
}

type fakeOverrides struct {
	overrides map[string]domain.SentimentOverride
	err       error
	calls     atomic.Int64
	lastIDs   []string
}

func (f *fakeOverrides) LatestByDocumentIDs(_ context.Context, ids []string) (map[string]domain.SentimentOverride, error) {
	f.calls.Add(1)
	f.lastIDs = ids
	if f.err != nil {
		return nil, f.err
	}
	return f.overrides, nil
}

func testConfig() config.AnalyticsConfig {
	return config.AnalyticsConfig{
		IndexCap:          10000,
		KeywordSampleSize: 5,
		FanoutLimit:       2,
		DefaultRangeDays:  90,
	}
}

func testTopic() *domain.Topic {
	return &domain.Topic{
		ID:       1,
		Name:     "Acme",
		Keywords: "acme,acme inc",
	}
}

func newService(executor *fakeExecutor, topics *fakeTopics, overrides *fakeOverrides) *service.AnalyticsService {
	return service.NewAnalyticsService(
		executor, topics, overrides, nil, nil, testConfig(), logger.NewNop(),
	)
}

func TestCompileAndRun_ZeroCountSkipsOverrideFetch(t *testing.T) {
	executor := &fakeExecutor{count: 0}
	overrides := &fakeOverrides{}
	svc := newService(executor, &fakeTopics{topic: testTopic()}, overrides)

	result, err := svc.CompileAndRun(context.Background(), domain.FilterCriteria{TopicID: 1})
	if err != nil {
		t.Fatalf("CompileAndRun() error: %v", err)
	}

	if result.Total != 0 {
		t.Errorf("total = %d, want 0", result.Total)
	}
	if result.Posts == nil || len(result.Posts) != 0 {
		t.Errorf("posts = %v, want empty list", result.Posts)
	}
	if calls := executor.searchCalls.Load(); calls != 0 {
		t.Errorf("search issued %d times on zero count", calls)
	}
	if calls := overrides.calls.Load(); calls != 0 {
		t.Errorf("override lookup issued %d times on zero count", calls)
	}
}

func TestCompileAndRun_MissingTopicRendersZeroState(t *testing.T) {
	executor := &fakeExecutor{count: 10}
	svc := newService(executor, &fakeTopics{topic: nil}, &fakeOverrides{})

	result, err := svc.CompileAndRun(context.Background(), domain.FilterCriteria{TopicID: 404})
	if err != nil {
		t.Fatalf("missing topic must not error, got: %v", err)
	}
	if result.Total != 0 || len(result.Posts) != 0 {
		t.Errorf("result = %+v, want zero state", result)
	}
	if calls := executor.countCalls.Load(); calls != 0 {
		t.Errorf("index queried %d times for unconfigured topic", calls)
	}
}

func TestCompileAndRun_AppliesOverridesAndAnnotates(t *testing.T) {
	executor := &fakeExecutor{
		count: 2,
		hits: []elastic.Hit{
			{ID: "d1", Source: domain.RawHit{PID: "d1", Source: domain.SourceTwitter, MessageText: "acme rocks", PredictedSentiment: "Negative"}},
			{ID: "d2", Source: domain.RawHit{PID: "d2", Source: domain.SourceTwitter, MessageText: "nothing relevant", PredictedSentiment: "Neutral"}},
		},
	}
	overrides := &fakeOverrides{
		overrides: map[string]domain.SentimentOverride{
			"d1": {DocumentID: "d1", RequestedSentiment: "Positive", LabelID: 5},
		},
	}
	svc := newService(executor, &fakeTopics{topic: testTopic()}, overrides)

	result, err := svc.CompileAndRun(context.Background(), domain.FilterCriteria{TopicID: 1})
	if err != nil {
		t.Fatalf("CompileAndRun() error: %v", err)
	}
	if len(result.Posts) != 2 {
		t.Fatalf("got %d posts, want 2", len(result.Posts))
	}

	if got := result.Posts[0].Sentiment; got != "Positive" {
		t.Errorf("overridden sentiment = %q, want Positive", got)
	}
	if got := result.Posts[1].Sentiment; got != "Neutral" {
		t.Errorf("untouched sentiment = %q, want Neutral", got)
	}

	// One batched lookup for the whole page.
	if calls := overrides.calls.Load(); calls != 1 {
		t.Errorf("override lookups = %d, want 1", calls)
	}
	if len(overrides.lastIDs) != 2 {
		t.Errorf("override batch ids = %v, want both documents", overrides.lastIDs)
	}

	if got := result.Posts[0].MatchedTerms; len(got) != 1 || got[0] != "acme" {
		t.Errorf("matched terms = %v, want [acme]", got)
	}
	if got := result.Posts[1].MatchedTerms; len(got) != 0 {
		t.Errorf("matched terms on unrelated post = %v, want none", got)
	}
}

func TestCompileAndRun_OverrideFailureDegrades(t *testing.T) {
	executor := &fakeExecutor{
		count: 1,
		hits: []elastic.Hit{
			{ID: "d1", Source: domain.RawHit{PID: "d1", Source: domain.SourceTwitter, PredictedSentiment: "Negative"}},
		},
	}
	overrides := &fakeOverrides{err: errors.New("connection refused")}
	svc := newService(executor, &fakeTopics{topic: testTopic()}, overrides)

	result, err := svc.CompileAndRun(context.Background(), domain.FilterCriteria{TopicID: 1})
	if err != nil {
		t.Fatalf("override failure must degrade, got error: %v", err)
	}
	if got := result.Posts[0].Sentiment; got != "Negative" {
		t.Errorf("sentiment = %q, want raw predicted value", got)
	}
}

func TestSentimentSummary_CountsEverySentiment(t *testing.T) {
	executor := &fakeExecutor{count: 4}
	svc := newService(executor, &fakeTopics{topic: testTopic()}, &fakeOverrides{})

	counts, err := svc.SentimentSummary(context.Background(), domain.FilterCriteria{TopicID: 1})
	if err != nil {
		t.Fatalf("SentimentSummary() error: %v", err)
	}
	if len(counts) != 3 {
		t.Fatalf("got %d rows, want 3", len(counts))
	}

	seen := map[string]bool{}
	for _, c := range counts {
		seen[c.Sentiment] = true
		if c.Count != 4 {
			t.Errorf("%s count = %d, want 4", c.Sentiment, c.Count)
		}
	}
	for _, s := range []string{domain.SentimentPositive, domain.SentimentNegative, domain.SentimentNeutral} {
		if !seen[s] {
			t.Errorf("sentiment %s missing from summary", s)
		}
	}

	if calls := executor.countCalls.Load(); calls != 3 {
		t.Errorf("count calls = %d, want one per sentiment", calls)
	}
}

func TestKeywordBreakdown_DegradesPerKeyword(t *testing.T) {
	executor := &fakeExecutor{countErr: errors.New("index timeout")}
	svc := newService(executor, &fakeTopics{topic: testTopic()}, &fakeOverrides{})

	stats, err := svc.KeywordBreakdown(context.Background(), domain.FilterCriteria{TopicID: 1})
	if err != nil {
		t.Fatalf("per-keyword failure must not fail the response: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("got %d rows, want one per topic keyword", len(stats))
	}
	for _, s := range stats {
		if s.Count != 0 {
			t.Errorf("keyword %q count = %d, want degraded 0", s.Keyword, s.Count)
		}
		if s.Posts == nil {
			t.Errorf("keyword %q posts is nil, want empty list", s.Keyword)
		}
	}
}

func TestKeywordBreakdown_EmptyTermsYieldsEmptyResult(t *testing.T) {
	executor := &fakeExecutor{count: 5}
	topics := &fakeTopics{topic: &domain.Topic{ID: 1, Name: "Bare"}}
	svc := newService(executor, topics, &fakeOverrides{})

	stats, err := svc.KeywordBreakdown(context.Background(), domain.FilterCriteria{TopicID: 1})
	if err != nil {
		t.Fatalf("KeywordBreakdown() error: %v", err)
	}
	if len(stats) != 0 {
		t.Errorf("got %d rows for termless topic, want 0", len(stats))
	}
	if calls := executor.countCalls.Load(); calls != 0 {
		t.Errorf("index queried %d times with no terms", calls)
	}
}

func TestMentionTrend_MissingTopic(t *testing.T) {
	svc := newService(&fakeExecutor{}, &fakeTopics{topic: nil}, &fakeOverrides{})

	points, err := svc.MentionTrend(context.Background(), domain.FilterCriteria{TopicID: 404}, "day")
	if err != nil {
		t.Fatalf("MentionTrend() error: %v", err)
	}
	if len(points) != 0 {
		t.Errorf("got %d points for unconfigured topic, want 0", len(points))
	}
}
