package normalize_test

import (
	"reflect"
	"testing"

	"github.com/jonesrussell/pulse-analytics/internal/domain"
	"github.com/jonesrussell/pulse-analytics/internal/normalize"
)

func TestNormalizer_ReviewSentimentFromRating(t *testing.T) {
	n := normalize.NewNormalizer()

	hit := domain.RawHit{
		PID:     "rev-1",
		Source:  domain.SourceGoogleMyBusiness,
		Rating:  5,
		Message: "Great place",
	}

	post := n.Normalize(hit, nil)

	if post.Sentiment != domain.SentimentPositive {
		t.Errorf("sentiment = %q, want Positive from rating 5", post.Sentiment)
	}
	if post.Emotion != domain.EmotionSupportive {
		t.Errorf("emotion = %q, want Supportive from rating 5", post.Emotion)
	}
	if post.Rating != "5" {
		t.Errorf("rating display = %q, want \"5\"", post.Rating)
	}
}

func TestNormalizer_SentimentPriorityChain(t *testing.T) {
	n := normalize.NewNormalizer()

	tests := []struct {
		name      string
		hit       domain.RawHit
		overrides map[string]domain.SentimentOverride
		want      string
	}{
		{
			name: "override beats predicted value",
			hit:  domain.RawHit{PID: "d1", PredictedSentiment: "Negative"},
			overrides: map[string]domain.SentimentOverride{
				"d1": {DocumentID: "d1", RequestedSentiment: "Positive", LabelID: 9},
			},
			want: "Positive",
		},
		{
			name: "predicted value beats rating band",
			hit: domain.RawHit{
				PID: "d2", Source: domain.SourceGoogleMyBusiness,
				PredictedSentiment: "Negative", Rating: 5,
			},
			want: "Negative",
		},
		{
			name: "rating band only on review platforms",
			hit:  domain.RawHit{PID: "d3", Source: domain.SourceTwitter, Rating: 5},
			want: "",
		},
		{
			name: "override for another document is ignored",
			hit:  domain.RawHit{PID: "d4", PredictedSentiment: "Neutral"},
			overrides: map[string]domain.SentimentOverride{
				"other": {DocumentID: "other", RequestedSentiment: "Positive", LabelID: 1},
			},
			want: "Neutral",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			post := n.Normalize(tt.hit, tt.overrides)
			if post.Sentiment != tt.want {
				t.Errorf("sentiment = %q, want %q", post.Sentiment, tt.want)
			}
		})
	}
}

func TestNormalizer_ReviewMessageSegments(t *testing.T) {
	n := normalize.NewNormalizer()

	hit := domain.RawHit{
		PID:     "rev-2",
		Source:  domain.SourceGlassdoor,
		Message: "Good pay\nNice team|||Cons here|||Advice here",
	}

	post := n.Normalize(hit, nil)
	if post.MessageText != "Good pay<br>Nice team" {
		t.Errorf("message = %q, want first segment with <br> line breaks", post.MessageText)
	}
}

func TestNormalizer_StripsHTML(t *testing.T) {
	n := normalize.NewNormalizer()

	hit := domain.RawHit{
		PID:         "p1",
		Source:      domain.SourceWeb,
		MessageText: "<p>Breaking <b>news</b> today</p>",
	}

	post := n.Normalize(hit, nil)
	if post.MessageText != "Breaking news today" {
		t.Errorf("message = %q, want markup stripped", post.MessageText)
	}
}

func TestNormalizer_DisplayNumbers(t *testing.T) {
	n := normalize.NewNormalizer()

	post := n.Normalize(domain.RawHit{
		PID:        "p2",
		Source:     domain.SourceTwitter,
		LikeCount:  10,
		ShareCount: 0,
	}, nil)

	if post.Likes != "10" {
		t.Errorf("likes = %q", post.Likes)
	}
	if post.Shares != "" {
		t.Errorf("zero shares rendered as %q, want empty string", post.Shares)
	}
	if post.Engagements != "10" {
		t.Errorf("engagements = %q, want sum of counts", post.Engagements)
	}
	if post.Followers != "" {
		t.Errorf("absent followers rendered as %q", post.Followers)
	}
}

func TestNormalizer_YoutubeEmbedURL(t *testing.T) {
	n := normalize.NewNormalizer()

	t.Run("stored embed url wins", func(t *testing.T) {
		post := n.Normalize(domain.RawHit{
			PID:           "vid-1",
			Source:        domain.SourceYoutube,
			VideoEmbedURL: "https://www.youtube.com/embed/abc",
			Picture:       "thumb.jpg",
		}, nil)
		if post.VideoURL != "https://www.youtube.com/embed/abc" {
			t.Errorf("video url = %q", post.VideoURL)
		}
		if post.ProfileImage90 != "" {
			t.Error("video platform still assigned the picture fallback")
		}
	})

	t.Run("constructed from post id", func(t *testing.T) {
		post := n.Normalize(domain.RawHit{
			PID:    "vid-2",
			Source: domain.SourceYoutube,
		}, nil)
		if post.VideoURL != "https://www.youtube.com/embed/vid-2" {
			t.Errorf("video url = %q", post.VideoURL)
		}
	})

	t.Run("other platforms keep picture", func(t *testing.T) {
		post := n.Normalize(domain.RawHit{
			PID:     "p3",
			Source:  domain.SourceInstagram,
			Picture: "photo.jpg",
		}, nil)
		if post.ProfileImage90 != "photo.jpg" {
			t.Errorf("profile image 90 = %q", post.ProfileImage90)
		}
		if post.VideoURL != "" {
			t.Errorf("unexpected video url %q", post.VideoURL)
		}
	})
}

func TestNormalizer_Deterministic(t *testing.T) {
	n := normalize.NewNormalizer()

	hit := domain.RawHit{
		PID:       "p4",
		Source:    domain.SourceFacebook,
		Message:   "hello",
		LikeCount: 3,
		Keywords:  domain.StringList{"acme"},
	}
	overrides := map[string]domain.SentimentOverride{
		"p4": {DocumentID: "p4", RequestedSentiment: "Positive", LabelID: 2},
	}

	first := n.Normalize(hit, overrides)
	second := n.Normalize(hit, overrides)
	if !reflect.DeepEqual(first, second) {
		t.Error("identical input normalized differently")
	}
}

func TestNormalizer_MatchedTermsNeverNil(t *testing.T) {
	n := normalize.NewNormalizer()

	post := n.Normalize(domain.RawHit{PID: "p5", Source: domain.SourceTwitter}, nil)
	if post.MatchedTerms == nil {
		t.Error("matched terms must serialize as an empty array, not null")
	}
}
