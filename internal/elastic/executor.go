package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/jonesrussell/pulse-analytics/internal/domain"
	"github.com/jonesrussell/pulse-analytics/internal/logger"
	"github.com/jonesrussell/pulse-analytics/internal/telemetry"
)

// IndexCap is the maximum number of ranked hits one search may request.
// Deep pagination past this limit is refused by the index; narrow the query
// instead.
const IndexCap = 10000

// SortField is one field+direction pair in a sort clause.
type SortField struct {
	Field string
	Order string // "asc" or "desc"
}

// Options shape one search call.
type Options struct {
	Size         int
	From         int
	Sort         []SortField
	Aggs         map[string]any
	SourceFields []string
}

// Hit is one decoded search hit.
type Hit struct {
	ID     string
	Source domain.RawHit
}

// Bucket is one aggregation bucket.
type Bucket struct {
	Key         any    `json:"key"`
	KeyAsString string `json:"key_as_string"`
	DocCount    int64  `json:"doc_count"`
}

// Aggregation holds the buckets of one named aggregation.
type Aggregation struct {
	Buckets []Bucket `json:"buckets"`
}

// Result is a decoded search response.
type Result struct {
	Total        int64
	Hits         []Hit
	Aggregations map[string]Aggregation
}

// Executor issues count, search and aggregation operations against the
// posts index.
type Executor struct {
	client  *Client
	index   string
	timeout time.Duration
	cap     int
	metrics *telemetry.Metrics
	log     logger.Logger
}

// NewExecutor creates an executor. cap bounds count-then-fetch sizing and
// is clamped to IndexCap. metrics may be nil.
func NewExecutor(client *Client, index string, timeout time.Duration, resultCap int, metrics *telemetry.Metrics, log logger.Logger) *Executor {
	if resultCap <= 0 || resultCap > IndexCap {
		resultCap = IndexCap
	}
	return &Executor{
		client:  client,
		index:   index,
		timeout: timeout,
		cap:     resultCap,
		metrics: metrics,
		log:     log,
	}
}

// observe records one index operation. Safe with nil metrics.
func (e *Executor) observe(operation string, start time.Time, err error) {
	if e.metrics == nil {
		return
	}
	e.metrics.IndexQueriesTotal.WithLabelValues(operation).Inc()
	e.metrics.IndexQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil {
		e.metrics.IndexQueryFailures.WithLabelValues(operation).Inc()
	}
}

// Count returns the number of documents matching the query.
func (e *Executor) Count(ctx context.Context, query map[string]any) (count int64, err error) {
	start := time.Now()
	defer func() { e.observe("count", start, err) }()

	body, err := encodeBody(map[string]any{"query": query})
	if err != nil {
		return 0, err
	}

	esClient := e.client.GetESClient()
	res, err := esClient.Count(
		esClient.Count.WithContext(ctx),
		esClient.Count.WithIndex(e.index),
		esClient.Count.WithBody(body),
	)
	if err != nil {
		return 0, fmt.Errorf("elasticsearch count failed: %w", err)
	}
	defer func() {
		_ = res.Body.Close()
	}()

	if res.IsError() {
		raw, _ := io.ReadAll(res.Body)
		return 0, fmt.Errorf("count returned error [%d]: %s", res.StatusCode, string(raw))
	}

	var countResponse struct {
		Count int64 `json:"count"`
	}
	if decodeErr := json.NewDecoder(res.Body).Decode(&countResponse); decodeErr != nil {
		return 0, fmt.Errorf("decode count response: %w", decodeErr)
	}
	return countResponse.Count, nil
}

// Search executes one search call with the given options.
func (e *Executor) Search(ctx context.Context, query map[string]any, opts Options) (result *Result, err error) {
	start := time.Now()
	defer func() { e.observe("search", start, err) }()

	requestBody := map[string]any{
		"query":            query,
		"track_total_hits": true,
	}
	if opts.Size > 0 {
		requestBody["size"] = opts.Size
	}
	if opts.From > 0 {
		requestBody["from"] = opts.From
	}
	if len(opts.Sort) > 0 {
		requestBody["sort"] = buildSort(opts.Sort)
	}
	if len(opts.Aggs) > 0 {
		requestBody["aggs"] = opts.Aggs
	}
	if len(opts.SourceFields) > 0 {
		requestBody["_source"] = opts.SourceFields
	}

	body, err := encodeBody(requestBody)
	if err != nil {
		return nil, err
	}

	esClient := e.client.GetESClient()
	res, err := esClient.Search(
		esClient.Search.WithContext(ctx),
		esClient.Search.WithIndex(e.index),
		esClient.Search.WithBody(body),
		esClient.Search.WithTimeout(e.timeout),
		esClient.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch search failed: %w", err)
	}
	defer func() {
		_ = res.Body.Close()
	}()

	if res.IsError() {
		raw, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("search returned error [%d]: %s", res.StatusCode, string(raw))
	}

	return decodeSearchResponse(res.Body)
}

// CountThenSearch implements the count-then-cap pattern for "all matching
// posts" endpoints: count first, then fetch size = min(count, cap). A zero
// count short-circuits without issuing the search at all.
func (e *Executor) CountThenSearch(ctx context.Context, query map[string]any, opts Options) (*Result, error) {
	count, err := e.Count(ctx, query)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return &Result{Total: 0, Hits: []Hit{}}, nil
	}

	size := count
	if size > int64(e.cap) {
		e.log.Warn("result set exceeds index cap, truncating",
			logger.Int64("count", count),
			logger.Int("cap", e.cap),
		)
		size = int64(e.cap)
	}
	opts.Size = int(size)

	result, err := e.Search(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	// Aggregation counts stay consistent with the capped page: Total carries
	// the real count even when Hits is truncated.
	result.Total = count
	return result, nil
}

// DateHistogramAgg builds a calendar-interval date histogram with explicit
// extended bounds. Bounds must match the request's range; omitting them
// silently drops zero-count intervals.
func DateHistogramAgg(field, interval, lowerBound, upperBound string) map[string]any {
	return map[string]any{
		"date_histogram": map[string]any{
			"field":             field,
			"calendar_interval": interval,
			"format":            "yyyy-MM-dd",
			"min_doc_count":     0,
			"extended_bounds": map[string]any{
				"min": lowerBound,
				"max": upperBound,
			},
		},
	}
}

// TermsAgg builds a terms aggregation.
func TermsAgg(field string, size int) map[string]any {
	return map[string]any{
		"terms": map[string]any{
			"field": field,
			"size":  size,
		},
	}
}

func buildSort(sort []SortField) []any {
	out := make([]any, 0, len(sort))
	for _, s := range sort {
		order := s.Order
		if order == "" {
			order = "desc"
		}
		out = append(out, map[string]any{
			s.Field: map[string]any{"order": order},
		})
	}
	return out
}

func encodeBody(body map[string]any) (*bytes.Buffer, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}
	return &buf, nil
}

func decodeSearchResponse(body io.Reader) (*Result, error) {
	var esResponse struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				ID     string        `json:"_id"`
				Source domain.RawHit `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
		Aggregations map[string]Aggregation `json:"aggregations,omitempty"`
	}

	if err := json.NewDecoder(body).Decode(&esResponse); err != nil {
		return nil, fmt.Errorf("failed to decode elasticsearch response: %w", err)
	}

	result := &Result{
		Total:        esResponse.Hits.Total.Value,
		Hits:         make([]Hit, 0, len(esResponse.Hits.Hits)),
		Aggregations: esResponse.Aggregations,
	}
	for i := range esResponse.Hits.Hits {
		hit := &esResponse.Hits.Hits[i]
		source := hit.Source
		if source.PID == "" {
			source.PID = hit.ID
		}
		result.Hits = append(result.Hits, Hit{ID: hit.ID, Source: source})
	}
	return result, nil
}
