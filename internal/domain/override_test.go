package domain_test

import (
	"testing"

	"github.com/jonesrussell/pulse-analytics/internal/domain"
)

func TestLatestByDocument(t *testing.T) {
	overrides := []domain.SentimentOverride{
		{DocumentID: "doc-1", RequestedSentiment: "Negative", LabelID: 3},
		{DocumentID: "doc-1", RequestedSentiment: "Positive", LabelID: 7},
		{DocumentID: "doc-2", RequestedSentiment: "Neutral", LabelID: 1},
	}

	latest := domain.LatestByDocument(overrides)

	if len(latest) != 2 {
		t.Fatalf("got %d documents, want 2", len(latest))
	}
	if got := latest["doc-1"].RequestedSentiment; got != "Positive" {
		t.Errorf("doc-1 winner = %q, want Positive (highest label id)", got)
	}
	if got := latest["doc-1"].LabelID; got != 7 {
		t.Errorf("doc-1 label id = %d, want 7", got)
	}
	if got := latest["doc-2"].RequestedSentiment; got != "Neutral" {
		t.Errorf("doc-2 winner = %q, want Neutral", got)
	}
}

func TestLatestByDocument_OrderIndependent(t *testing.T) {
	forward := []domain.SentimentOverride{
		{DocumentID: "doc-1", RequestedSentiment: "Negative", LabelID: 3},
		{DocumentID: "doc-1", RequestedSentiment: "Positive", LabelID: 7},
	}
	reversed := []domain.SentimentOverride{forward[1], forward[0]}

	a := domain.LatestByDocument(forward)
	b := domain.LatestByDocument(reversed)

	if a["doc-1"] != b["doc-1"] {
		t.Errorf("winner depends on record order: %+v vs %+v", a["doc-1"], b["doc-1"])
	}
}

func TestDisplayNumber(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{n: 0, want: ""},
		{n: -1, want: ""},
		{n: 1, want: "1"},
		{n: 1500, want: "1500"},
	}

	for _, tt := range tests {
		if got := domain.DisplayNumber(tt.n); got != tt.want {
			t.Errorf("DisplayNumber(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
