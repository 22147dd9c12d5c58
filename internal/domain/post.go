package domain

import (
	"encoding/json"
	"strconv"
	"strings"
)

// StringList unmarshals an index field that may arrive as a single string,
// an array of strings, or null, depending on the originating platform.
type StringList []string

// UnmarshalJSON implements json.Unmarshaler.
func (l *StringList) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" || trimmed == `""` {
		*l = nil
		return nil
	}
	if strings.HasPrefix(trimmed, "[") {
		var arr []string
		if err := json.Unmarshal(data, &arr); err != nil {
			return err
		}
		*l = arr
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*l = StringList{s}
	return nil
}

// RawHit is one heterogeneous document from the search index. Field presence
// varies by originating platform; the normalizer owns every quirk.
type RawHit struct {
	PID                string     `json:"p_id"`
	Message            string     `json:"p_message"`
	MessageText        string     `json:"p_message_text"`
	CreatedAt          string     `json:"created_at"`
	Source             string     `json:"source"`
	PredictedSentiment string     `json:"predicted_sentiment_value"`
	Emotion            string     `json:"llm_emotion"`
	Rating             int        `json:"rating"`
	LikeCount          int64      `json:"like_count"`
	ShareCount         int64      `json:"share_count"`
	CommentCount       int64      `json:"comment_count"`
	Title              string     `json:"title"`
	Keywords           StringList `json:"keywords"`
	Hashtags           StringList `json:"hashtags"`
	URL                string     `json:"u_source"`
	PermalinkURL       string     `json:"p_url"`
	Username           string     `json:"u_username"`
	FullName           string     `json:"u_fullname"`
	ProfilePhoto       string     `json:"u_profile_photo"`
	Followers          int64      `json:"u_followers"`
	Following          int64      `json:"u_following"`
	Posts              int64      `json:"u_posts"`
	Picture            string     `json:"p_picture"`
	VideoEmbedURL      string     `json:"video_embed_url"`
	Latitude           float64    `json:"p_latitude"`
	Longitude          float64    `json:"p_longitude"`
	ManualEntry        bool       `json:"manual_entry"`
	IsPublicOpinion    bool       `json:"is_public_opinion"`
}

// Post is the canonical normalized view model returned to dashboard UIs.
// Constructed fresh per hit, never persisted.
//
// Numeric fields are display strings: "" for zero or absent, the decimal
// rendering otherwise. Consuming UIs depend on this convention exactly.
type Post struct {
	ID             string   `json:"id"`
	Source         string   `json:"source"`
	SourceIcon     string   `json:"source_icon"`
	MessageText    string   `json:"message_text"`
	CreatedAt      string   `json:"created_at"`
	Sentiment      string   `json:"sentiment"`
	Emotion        string   `json:"emotion"`
	Rating         string   `json:"rating"`
	DisplayName    string   `json:"display_name"`
	Handle         string   `json:"handle"`
	ProfileImage   string   `json:"profile_image"`
	ProfileImage90 string   `json:"profile_image_90,omitempty"`
	Followers      string   `json:"followers"`
	Following      string   `json:"following"`
	Posts          string   `json:"posts"`
	Likes          string   `json:"likes"`
	Shares         string   `json:"shares"`
	Comments       string   `json:"comments"`
	Engagements    string   `json:"engagements"`
	URL            string   `json:"url"`
	VideoURL       string   `json:"video_url,omitempty"`
	Title          string   `json:"title,omitempty"`
	Keywords       []string `json:"keywords,omitempty"`
	Hashtags       []string `json:"hashtags,omitempty"`
	MatchedTerms   []string `json:"matched_terms"`
}

// DisplayNumber renders a count for the UI: empty string when zero or
// negative, decimal string otherwise.
func DisplayNumber(n int64) string {
	if n <= 0 {
		return ""
	}
	return strconv.FormatInt(n, 10)
}
