// Package normalize maps raw index documents into the canonical Post view
// model.
package normalize

import (
	"fmt"

	"github.com/jonesrussell/pulse-analytics/internal/domain"
)

// Normalizer converts raw hits into canonical posts. It is deterministic:
// identical input always yields byte-identical output.
type Normalizer struct{}

// NewNormalizer creates a normalizer.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize converts one raw hit, overlaying the pre-fetched override map
// (document id -> winning override). The map covers a whole page of hits;
// override absence is never fatal.
func (n *Normalizer) Normalize(hit domain.RawHit, overrides map[string]domain.SentimentOverride) domain.Post {
	post := domain.Post{
		ID:           hit.PID,
		Source:       hit.Source,
		SourceIcon:   domain.SourceIcon(hit.Source),
		MessageText:  cleanMessage(hit.Source, messageOf(hit)),
		CreatedAt:    hit.CreatedAt,
		Sentiment:    n.resolveSentiment(hit, overrides),
		Emotion:      n.resolveEmotion(hit),
		Rating:       domain.DisplayNumber(int64(hit.Rating)),
		DisplayName:  hit.FullName,
		Handle:       hit.Username,
		ProfileImage: hit.ProfilePhoto,
		Followers:    domain.DisplayNumber(hit.Followers),
		Following:    domain.DisplayNumber(hit.Following),
		Posts:        domain.DisplayNumber(hit.Posts),
		Likes:        domain.DisplayNumber(hit.LikeCount),
		Shares:       domain.DisplayNumber(hit.ShareCount),
		Comments:     domain.DisplayNumber(hit.CommentCount),
		Engagements:  domain.DisplayNumber(hit.LikeCount + hit.ShareCount + hit.CommentCount),
		URL:          permalinkOf(hit),
		Title:        hit.Title,
		Keywords:     hit.Keywords,
		Hashtags:     hit.Hashtags,
		MatchedTerms: []string{},
	}

	// Video platforms get an embeddable URL; everything else gets the post
	// picture as a secondary profile image.
	if hit.Source == domain.SourceYoutube {
		post.VideoURL = videoURLOf(hit)
	} else {
		post.ProfileImage90 = hit.Picture
	}

	return post
}

// NormalizeAll converts a page of hits with one shared override map.
func (n *Normalizer) NormalizeAll(hits []domain.RawHit, overrides map[string]domain.SentimentOverride) []domain.Post {
	posts := make([]domain.Post, 0, len(hits))
	for _, hit := range hits {
		posts = append(posts, n.Normalize(hit, overrides))
	}
	return posts
}

// resolveSentiment applies the sentiment priority chain: manual override
// first, then the predicted value, then the review-platform rating band.
func (n *Normalizer) resolveSentiment(hit domain.RawHit, overrides map[string]domain.SentimentOverride) string {
	if o, ok := overrides[hit.PID]; ok && o.RequestedSentiment != "" {
		return o.RequestedSentiment
	}
	if hit.PredictedSentiment != "" {
		return hit.PredictedSentiment
	}
	if domain.IsReviewPlatform(hit.Source) {
		return domain.SentimentFromRating(hit.Rating)
	}
	return ""
}

// resolveEmotion prefers the enriched emotion label, falling back to the
// rating-derived label on review platforms.
func (n *Normalizer) resolveEmotion(hit domain.RawHit) string {
	if hit.Emotion != "" {
		return hit.Emotion
	}
	if domain.IsReviewPlatform(hit.Source) && hit.Rating > 0 {
		return domain.EmotionFromRating(hit.Rating)
	}
	return ""
}

func messageOf(hit domain.RawHit) string {
	if hit.MessageText != "" {
		return hit.MessageText
	}
	return hit.Message
}

func permalinkOf(hit domain.RawHit) string {
	if hit.PermalinkURL != "" {
		return hit.PermalinkURL
	}
	return hit.URL
}

// videoURLOf derives an embeddable video URL from the stored embed URL or,
// failing that, constructs one from the post id.
func videoURLOf(hit domain.RawHit) string {
	if hit.VideoEmbedURL != "" {
		return hit.VideoEmbedURL
	}
	if hit.PID == "" {
		return ""
	}
	return fmt.Sprintf("https://www.youtube.com/embed/%s", hit.PID)
}
