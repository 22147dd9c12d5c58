package query

// Index field names used across compiled queries.
const (
	FieldCreatedAt       = "created_at"
	FieldSource          = "source"
	FieldSentiment       = "predicted_sentiment_value"
	FieldEmotion         = "llm_emotion"
	FieldMentionType     = "llm_mention_type"
	FieldRating          = "rating"
	FieldUsername        = "u_username"
	FieldLatitude        = "p_latitude"
	FieldLongitude       = "p_longitude"
	FieldManualEntry     = "manual_entry"
	FieldIsPublicOpinion = "is_public_opinion"
)

// MatchFields is the field set every keyword/hashtag/url phrase match
// targets. The matched-terms annotator derives its scan set from this list;
// keep it the single source of truth so query matching and annotation cannot
// drift apart.
var MatchFields = []string{
	"p_message_text",
	"p_message",
	"keywords",
	"title",
	"hashtags",
	"u_username",
	"u_source",
}

// internalSourceTags are administrative source labels that must never appear
// in dashboard results.
var internalSourceTags = []string{"DM"}
