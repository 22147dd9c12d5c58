package domain

// Known data source labels as stored on indexed documents.
const (
	SourceFacebook         = "Facebook"
	SourceTwitter          = "Twitter"
	SourceInstagram        = "Instagram"
	SourceLinkedIn         = "LinkedIn"
	SourceYoutube          = "Youtube"
	SourcePinterest        = "Pinterest"
	SourceReddit           = "Reddit"
	SourceTumblr           = "Tumblr"
	SourceBlogs            = "Blogs"
	SourceWeb              = "Web"
	SourceNews             = "News"
	SourceGoogleMyBusiness = "GoogleMyBusiness"
	SourceGlassdoor        = "Glassdoor"
)

// Sentiment labels.
const (
	SentimentPositive = "Positive"
	SentimentNegative = "Negative"
	SentimentNeutral  = "Neutral"
)

// Emotion labels derived from review ratings.
const (
	EmotionSupportive = "Supportive"
	EmotionFrustrated = "Frustrated"
	EmotionNeutral    = "Neutral"
)

// AllSources is the generic default whitelist when neither the caller nor a
// tenant override narrows the source set.
var AllSources = []string{
	SourceFacebook,
	SourceTwitter,
	SourceInstagram,
	SourceLinkedIn,
	SourceYoutube,
	SourcePinterest,
	SourceReddit,
	SourceTumblr,
	SourceBlogs,
	SourceWeb,
	SourceNews,
	SourceGoogleMyBusiness,
}

var reviewPlatforms = map[string]struct{}{
	SourceGoogleMyBusiness: {},
	SourceGlassdoor:        {},
}

// IsReviewPlatform reports whether a source is a business-review platform,
// where rating is the sentiment ground truth.
func IsReviewPlatform(source string) bool {
	_, ok := reviewPlatforms[source]
	return ok
}

// Rating band thresholds. These are business rules duplicated across the
// legacy dashboard; they live here and nowhere else.
const (
	ratingPositiveMin = 4
	ratingNegativeMax = 2
	ratingNeutral     = 3
	RatingMin         = 1
	RatingMax         = 5
)

// SentimentFromRating maps a review rating to a sentiment label.
// Returns "" for a missing (zero) rating.
func SentimentFromRating(rating int) string {
	switch {
	case rating >= ratingPositiveMin:
		return SentimentPositive
	case rating == 0:
		return ""
	case rating <= ratingNegativeMax:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// RatingRangeForSentiment returns the inclusive rating band for a sentiment
// label. ok is false for unknown labels.
func RatingRangeForSentiment(sentiment string) (minRating, maxRating int, ok bool) {
	switch sentiment {
	case SentimentPositive:
		return ratingPositiveMin, RatingMax, true
	case SentimentNegative:
		return RatingMin, ratingNegativeMax, true
	case SentimentNeutral:
		return ratingNeutral, ratingNeutral, true
	default:
		return 0, 0, false
	}
}

// EmotionFromRating maps a review rating to an emotion label.
// Returns "" for a missing (zero) rating.
func EmotionFromRating(rating int) string {
	switch {
	case rating >= ratingPositiveMin:
		return EmotionSupportive
	case rating == 0:
		return ""
	case rating <= ratingNegativeMax:
		return EmotionFrustrated
	default:
		return EmotionNeutral
	}
}

// sourceIcons is the many-to-one mapping from raw source label to the icon
// category shown by dashboard UIs. Unmapped labels pass through unchanged.
var sourceIcons = map[string]string{
	SourceBlogs:  "Blog",
	SourceTumblr: "Blog",
	SourceReddit: "Reddit",
	SourceWeb:    "News",
	SourceNews:   "News",
}

// SourceIcon classifies a raw source label into an icon category.
func SourceIcon(source string) string {
	if icon, ok := sourceIcons[source]; ok {
		return icon
	}
	return source
}
