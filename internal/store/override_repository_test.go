package store_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/pulse-analytics/internal/store"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestOverrideRepository_FindByDocumentIDs(t *testing.T) {
	db, mock := newMockDB(t)
	repo := store.NewOverrideRepository(db)
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"document_id", "requested_sentiment", "label_id"}).
		AddRow("doc-1", "Positive", 7).
		AddRow("doc-1", "Negative", 3).
		AddRow("doc-2", "Neutral", 1)

	mock.ExpectQuery("SELECT document_id, requested_sentiment, label_id").
		WillReturnRows(rows)

	overrides, err := repo.FindByDocumentIDs(ctx, []string{"doc-1", "doc-2"})
	if err != nil {
		t.Fatalf("FindByDocumentIDs() error: %v", err)
	}
	if len(overrides) != 3 {
		t.Errorf("got %d overrides, want 3", len(overrides))
	}

	if expectErr := mock.ExpectationsWereMet(); expectErr != nil {
		t.Errorf("unfulfilled expectations: %v", expectErr)
	}
}

func TestOverrideRepository_FindByDocumentIDs_EmptyInput(t *testing.T) {
	db, mock := newMockDB(t)
	repo := store.NewOverrideRepository(db)

	// No query must be issued for an empty id list.
	overrides, err := repo.FindByDocumentIDs(context.Background(), nil)
	if err != nil {
		t.Fatalf("FindByDocumentIDs(nil) error: %v", err)
	}
	if len(overrides) != 0 {
		t.Errorf("got %d overrides, want 0", len(overrides))
	}

	if expectErr := mock.ExpectationsWereMet(); expectErr != nil {
		t.Errorf("unexpected query issued: %v", expectErr)
	}
}

func TestOverrideRepository_LatestByDocumentIDs(t *testing.T) {
	db, mock := newMockDB(t)
	repo := store.NewOverrideRepository(db)

	rows := sqlmock.NewRows([]string{"document_id", "requested_sentiment", "label_id"}).
		AddRow("doc-1", "Negative", 3).
		AddRow("doc-1", "Positive", 7)

	mock.ExpectQuery("SELECT document_id, requested_sentiment, label_id").
		WillReturnRows(rows)

	latest, err := repo.LatestByDocumentIDs(context.Background(), []string{"doc-1"})
	if err != nil {
		t.Fatalf("LatestByDocumentIDs() error: %v", err)
	}
	if got := latest["doc-1"].RequestedSentiment; got != "Positive" {
		t.Errorf("winner = %q, want Positive (label id 7 beats 3)", got)
	}
}

func TestOverrideRepository_QueryError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := store.NewOverrideRepository(db)

	mock.ExpectQuery("SELECT document_id, requested_sentiment, label_id").
		WillReturnError(sql.ErrConnDone)

	if _, err := repo.FindByDocumentIDs(context.Background(), []string{"doc-1"}); err == nil {
		t.Error("database error not propagated")
	}
}
