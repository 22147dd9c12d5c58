package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/pulse-analytics/internal/domain"
)

// ErrNotFound is returned when a topic does not exist. Callers treat it as
// "render a zero state", not as a failure.
var ErrNotFound = errors.New("not found")

// TopicRepository reads topic and taxonomy configuration. The analytics core
// never writes either; admin tooling owns them.
type TopicRepository struct {
	db *sqlx.DB
}

// NewTopicRepository creates a new topic repository.
func NewTopicRepository(db *sqlx.DB) *TopicRepository {
	return &TopicRepository{db: db}
}

// GetTopic retrieves one topic by id.
func (r *TopicRepository) GetTopic(ctx context.Context, id int64) (*domain.Topic, error) {
	topic := &domain.Topic{}
	query := `
		SELECT id, name, keywords, hashtags, urls, google_urls,
		       exclude_words, exclude_accounts, data_sources, languages, locations
		FROM topics
		WHERE id = $1
	`

	err := r.db.GetContext(ctx, topic, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get topic: %w", err)
	}

	return topic, nil
}

// categoryRow is the stored shape of one taxonomy category; term columns are
// delimited strings.
type categoryRow struct {
	Title    string `db:"title"`
	Keywords string `db:"keywords"`
	Hashtags string `db:"hashtags"`
	URLs     string `db:"urls"`
}

// GetTaxonomy retrieves the category taxonomy for a topic, keyed by title
// exactly as stored. An empty taxonomy is a valid result.
func (r *TopicRepository) GetTaxonomy(ctx context.Context, topicID int64) (domain.Taxonomy, error) {
	rows := []categoryRow{}
	query := `
		SELECT title, keywords, hashtags, urls
		FROM topic_categories
		WHERE topic_id = $1
	`

	err := r.db.SelectContext(ctx, &rows, query, topicID)
	if err != nil {
		return nil, fmt.Errorf("failed to get taxonomy: %w", err)
	}

	taxonomy := make(domain.Taxonomy, len(rows))
	for _, row := range rows {
		taxonomy[row.Title] = domain.Category{
			Title:    row.Title,
			Keywords: splitStored(row.Keywords, ","),
			Hashtags: splitStored(row.Hashtags, "|"),
			URLs:     splitStored(row.URLs, "|"),
		}
	}
	return taxonomy, nil
}

func splitStored(raw, sep string) []string {
	if raw == "" {
		return nil
	}
	return domain.CleanTerms(strings.Split(raw, sep))
}
