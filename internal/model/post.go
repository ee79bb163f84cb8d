package model

import "time"

const (
	PlatformTikTok    = "tiktok"
	PlatformInstagram = "instagram"
	PlatformFacebook  = "facebook"
	PlatformYouTube   = "youtube"

	// SourceLocal marks trend results computed from the org's own imported
	// posts, as opposed to a platform API feed.
	SourceLocal = "local"
)

type Post struct {
	ID             string
	OrgID          string
	Platform       string
	PlatformPostID string
	CreatedTime    *time.Time
	Caption        *string
	Permalink      *string
	MediaType      *string
}

// DailyMetric is one day's counter snapshot for a post. Counters are pointers
// because an export that never reports a column is different from a zero.
type DailyMetric struct {
	PostID   string
	Date     string // YYYY-MM-DD
	Views    *float64
	Likes    *float64
	Comments *float64
	Shares   *float64
	Saves    *float64
}

// ParsedPost is one normalized row out of a CSV export, before upload.
type ParsedPost struct {
	PlatformPostID string
	CreatedTime    *string
	Date           *string // YYYY-MM-DD
	Caption        *string
	Permalink      *string
	Views          *float64
	Likes          *float64
	Comments       *float64
	Shares         *float64
	Saves          *float64
}

type SavedInspiration struct {
	ID        string
	OrgID     string
	Platform  string
	Permalink string
	Tags      map[string]any
	CreatedAt time.Time
}

type ConnectedAccount struct {
	ID                string
	OrgID             string
	Platform          string
	PlatformAccountID string
	DisplayName       *string
}
