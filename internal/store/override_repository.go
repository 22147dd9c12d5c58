package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/jonesrussell/pulse-analytics/internal/domain"
)

// OverrideRepository reads manual sentiment override records.
type OverrideRepository struct {
	db *sqlx.DB
}

// NewOverrideRepository creates a new override repository.
func NewOverrideRepository(db *sqlx.DB) *OverrideRepository {
	return &OverrideRepository{db: db}
}

// FindByDocumentIDs fetches every override for the given document ids in one
// batched query. Callers pass the full id list for a page of hits; per-hit
// queries exhaust the connection pool under load.
func (r *OverrideRepository) FindByDocumentIDs(ctx context.Context, documentIDs []string) ([]domain.SentimentOverride, error) {
	if len(documentIDs) == 0 {
		return []domain.SentimentOverride{}, nil
	}

	overrides := []domain.SentimentOverride{}
	query := `
		SELECT document_id, requested_sentiment, label_id
		FROM sentiment_overrides
		WHERE document_id = ANY($1)
	`

	err := r.db.SelectContext(ctx, &overrides, query, pq.Array(documentIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sentiment overrides: %w", err)
	}

	return overrides, nil
}

// LatestByDocumentIDs fetches overrides for the ids and reduces to the
// highest-label-id winner per document.
func (r *OverrideRepository) LatestByDocumentIDs(ctx context.Context, documentIDs []string) (map[string]domain.SentimentOverride, error) {
	overrides, err := r.FindByDocumentIDs(ctx, documentIDs)
	if err != nil {
		return nil, err
	}
	return domain.LatestByDocument(overrides), nil
}
