package model

import "time"

const (
	Window24h = "24h"
	Window72h = "72h"
	Window7d  = "7d"
)

// TrendItem is one ranked search result. It is never persisted on its own,
// only inside a cache entry's payload.
type TrendItem struct {
	Platform       string   `json:"platform"`
	Title          string   `json:"title"`
	Permalink      *string  `json:"permalink"`
	Score          float64  `json:"score"`
	Views          *float64 `json:"views"`
	Likes          *float64 `json:"likes"`
	Comments       *float64 `json:"comments"`
	Shares         *float64 `json:"shares"`
	Saves          *float64 `json:"saves"`
	EngagementRate *float64 `json:"engagement_rate"`
	Date           *string  `json:"date"`
	PostID         string   `json:"post_id"`
}

// CacheEntry is a stored result set for one (source, query-key, time-window)
// triple. A read is only valid while now < ExpiresAt.
type CacheEntry struct {
	Source     string
	Query      string
	TimeWindow string
	Results    []TrendItem
	ExpiresAt  time.Time
}
