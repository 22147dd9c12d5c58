package taxonomy_test

import (
	"testing"

	"github.com/jonesrussell/pulse-analytics/internal/domain"
	"github.com/jonesrussell/pulse-analytics/internal/taxonomy"
)

func testTaxonomy() domain.Taxonomy {
	return domain.Taxonomy{
		"Marketing ": {
			Title:    "Marketing ",
			Keywords: []string{"campaign", "launch"},
			Hashtags: []string{"#brand"},
		},
		"Customer Support": {
			Title:    "Customer Support",
			Keywords: []string{"refund", "complaint"},
			URLs:     []string{"help.example.com"},
		},
	}
}

func TestResolver_CategoryTerms_MatchingChain(t *testing.T) {
	r := taxonomy.NewResolver()
	tax := testTaxonomy()

	tests := []struct {
		name     string
		category string
		wantKw   string
	}{
		// Stored title carries a trailing space; every lookup form must
		// still land on it.
		{name: "exact stored title", category: "Marketing ", wantKw: "campaign"},
		{name: "case insensitive", category: "marketing ", wantKw: "campaign"},
		{name: "whitespace normalized", category: "Marketing", wantKw: "campaign"},
		{name: "substring", category: "Support", wantKw: "refund"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := r.CategoryTerms(tax, tt.category)
			if set == nil {
				t.Fatalf("CategoryTerms(%q) = nil, want a match", tt.category)
			}
			found := false
			for _, kw := range set.Keywords {
				if kw == tt.wantKw {
					found = true
				}
			}
			if !found {
				t.Errorf("CategoryTerms(%q) keywords = %v, want to contain %q", tt.category, set.Keywords, tt.wantKw)
			}
		})
	}
}

func TestResolver_CategoryTerms_NoMatchReturnsNil(t *testing.T) {
	r := taxonomy.NewResolver()

	if set := r.CategoryTerms(testTaxonomy(), "Logistics"); set != nil {
		t.Errorf("unmatched category resolved to %+v, want nil", set)
	}
	if set := r.CategoryTerms(nil, "Marketing"); set != nil {
		t.Errorf("empty taxonomy resolved to %+v, want nil", set)
	}
}

func TestResolver_CategoryTerms_All(t *testing.T) {
	r := taxonomy.NewResolver()

	set := r.CategoryTerms(testTaxonomy(), "all")
	if set == nil {
		t.Fatal("'all' selector returned nil")
	}
	if len(set.Keywords) != 4 {
		t.Errorf("union keywords = %v, want 4 entries", set.Keywords)
	}
	if len(set.Hashtags) != 1 || len(set.URLs) != 1 {
		t.Errorf("union hashtags/urls = %v / %v", set.Hashtags, set.URLs)
	}
}

func TestResolver_TopicTerms(t *testing.T) {
	r := taxonomy.NewResolver()

	topic := &domain.Topic{
		Keywords: "acme, acme inc ,",
		Hashtags: "#acme|#acmeinc",
		URLs:     "acme.com",
	}

	set := r.TopicTerms(topic)
	if len(set.Keywords) != 2 {
		t.Errorf("keywords = %v, want trimmed pair", set.Keywords)
	}
	if len(set.Hashtags) != 2 {
		t.Errorf("hashtags = %v, want 2", set.Hashtags)
	}
	if len(set.URLs) != 1 {
		t.Errorf("urls = %v, want 1", set.URLs)
	}

	empty := r.TopicTerms(nil)
	if !empty.IsEmpty() {
		t.Errorf("nil topic yields %+v, want empty set", empty)
	}
}
