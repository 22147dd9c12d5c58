package domain_test

import (
	"testing"
	"time"

	"github.com/jonesrussell/pulse-analytics/internal/domain"
)

func testNow() time.Time {
	return time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)
}

func TestNormalizeDateRange(t *testing.T) {
	now := testNow()

	tests := []struct {
		name      string
		from      string
		to        string
		wantLower string
		wantUpper string
	}{
		{
			name:      "bare dates expand to full day bounds",
			from:      "2026-01-01",
			to:        "2026-01-31",
			wantLower: "2026-01-01 00:00:00",
			wantUpper: "2026-01-31 23:59:59",
		},
		{
			name:      "same day is inclusive",
			from:      "2026-02-10",
			to:        "2026-02-10",
			wantLower: "2026-02-10 00:00:00",
			wantUpper: "2026-02-10 23:59:59",
		},
		{
			name:      "full timestamps pass through",
			from:      "2026-01-01 08:15:00",
			to:        "2026-01-02 09:45:30",
			wantLower: "2026-01-01 08:15:00",
			wantUpper: "2026-01-02 09:45:30",
		},
		{
			name:      "relative window",
			from:      "now-7d",
			to:        "now",
			wantLower: "2026-03-08 00:00:00",
			wantUpper: "2026-03-15 23:59:59",
		},
		{
			name:      "absent range degrades to trailing default window",
			from:      "",
			to:        "",
			wantLower: "2025-12-15 14:30:00",
			wantUpper: "2026-03-15 23:59:59",
		},
		{
			name:      "unparseable input degrades like absent input",
			from:      "not-a-date",
			to:        "also-bad",
			wantLower: "2025-12-15 14:30:00",
			wantUpper: "2026-03-15 23:59:59",
		},
		{
			name:      "inverted bounds are swapped",
			from:      "2026-02-20",
			to:        "2026-02-01",
			wantLower: "2026-02-01 23:59:59",
			wantUpper: "2026-02-20 00:00:00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lower, upper := domain.NormalizeDateRange(tt.from, tt.to, 90, now)
			if lower != tt.wantLower {
				t.Errorf("lower bound = %q, want %q", lower, tt.wantLower)
			}
			if upper != tt.wantUpper {
				t.Errorf("upper bound = %q, want %q", upper, tt.wantUpper)
			}
		})
	}
}

func TestFilterCriteria_SentimentValues(t *testing.T) {
	tests := []struct {
		name      string
		sentiment string
		want      []string
	}{
		{name: "single value", sentiment: "Positive", want: []string{"Positive"}},
		{name: "comma separated", sentiment: "Positive,Negative", want: []string{"Positive", "Negative"}},
		{name: "whitespace trimmed", sentiment: " Positive , Neutral ", want: []string{"Positive", "Neutral"}},
		{name: "empty segments dropped", sentiment: "Positive,,", want: []string{"Positive"}},
		{name: "absent filter", sentiment: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := domain.FilterCriteria{Sentiment: tt.sentiment}
			got := c.SentimentValues()
			if len(got) != len(tt.want) {
				t.Fatalf("SentimentValues() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("SentimentValues()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestFilterCriteria_HasExplicitSources(t *testing.T) {
	c := domain.FilterCriteria{}
	if c.HasExplicitSources() {
		t.Error("empty criteria reports explicit sources")
	}

	c.Sources = []string{"  ", ""}
	if c.HasExplicitSources() {
		t.Error("whitespace-only sources count as explicit")
	}

	c.Sources = []string{"Facebook"}
	if !c.HasExplicitSources() {
		t.Error("caller whitelist not detected")
	}
}

func TestFilterCriteria_HasValidRating(t *testing.T) {
	for rating, want := range map[int]bool{0: false, 1: true, 3: true, 5: true, 6: false, -1: false} {
		c := domain.FilterCriteria{Rating: rating}
		if got := c.HasValidRating(); got != want {
			t.Errorf("HasValidRating() with rating %d = %v, want %v", rating, got, want)
		}
	}
}
