package domain

// SentimentOverride is a manually-requested sentiment correction for one
// indexed document. Label IDs are monotonically increasing.
type SentimentOverride struct {
	DocumentID         string `db:"document_id" json:"document_id"`
	RequestedSentiment string `db:"requested_sentiment" json:"requested_sentiment"`
	LabelID            int64  `db:"label_id" json:"label_id"`
}

// LatestByDocument reduces override records to the winner per document id.
// The highest label id wins regardless of slice order; this is last-write-wins
// on the monotonic label id, not on any timestamp.
func LatestByDocument(overrides []SentimentOverride) map[string]SentimentOverride {
	latest := make(map[string]SentimentOverride, len(overrides))
	for _, o := range overrides {
		if cur, ok := latest[o.DocumentID]; !ok || o.LabelID > cur.LabelID {
			latest[o.DocumentID] = o
		}
	}
	return latest
}
