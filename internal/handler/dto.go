package handler

import "trendscope/internal/model"

type ImportRequest struct {
	Platform string `json:"platform" validate:"required,oneof=tiktok instagram facebook youtube"`
	CSV      string `json:"csv" validate:"required"`
}

type ImportResponse struct {
	Parsed          int    `json:"parsed"`
	Matched         int    `json:"matched"`
	PostsUpserted   int    `json:"posts_upserted"`
	MetricsUpserted int    `json:"metrics_upserted"`
	Status          string `json:"status"`
}

type MetricResponse struct {
	Date     string   `json:"date"`
	Views    *float64 `json:"views"`
	Likes    *float64 `json:"likes"`
	Comments *float64 `json:"comments"`
	Shares   *float64 `json:"shares"`
	Saves    *float64 `json:"saves"`
}

type StrategyResponse struct {
	HookType     *string `json:"hook_type"`
	CTAType      *string `json:"cta_type"`
	FormatType   *string `json:"format_type"`
	PacingBucket *string `json:"pacing_bucket"`
}

type PostResponse struct {
	ID             string            `json:"id"`
	Platform       string            `json:"platform"`
	PlatformPostID string            `json:"platform_post_id"`
	CreatedTime    *string           `json:"created_time"`
	Caption        *string           `json:"caption"`
	Permalink      *string           `json:"permalink"`
	Latest         *MetricResponse   `json:"latest"`
	Strategy       *StrategyResponse `json:"strategy"`
}

type PostListResponse struct {
	Posts []PostResponse `json:"posts"`
	Total int            `json:"total"`
}

type StrategyRequest struct {
	HookType     *string `json:"hook_type" validate:"omitempty,oneof=question_hook bold_claim shock_visual teaser story_start"`
	CTAType      *string `json:"cta_type" validate:"omitempty,oneof=follow comment save share link_in_bio"`
	FormatType   *string `json:"format_type" validate:"omitempty,oneof=talking_head edit_montage voiceover text_only screen_recording"`
	PacingBucket *string `json:"pacing_bucket" validate:"omitempty,oneof=slow medium fast very_fast"`
}

type TrendSearchResponse struct {
	Items  []model.TrendItem `json:"items"`
	Total  int               `json:"total"`
	Cached bool              `json:"cached"`
	Status string            `json:"status"`
}

type SaveRequest struct {
	Platform  string         `json:"platform" validate:"required,oneof=tiktok instagram facebook youtube"`
	Permalink *string        `json:"permalink"`
	PostID    *string        `json:"post_id"`
	Tags      map[string]any `json:"tags"`
}

type SavedItemResponse struct {
	ID        string         `json:"id"`
	Platform  string         `json:"platform"`
	Permalink string         `json:"permalink"`
	Tags      map[string]any `json:"tags"`
	CreatedAt string         `json:"created_at"`
}

type SavedListResponse struct {
	Items []SavedItemResponse `json:"items"`
	Total int                 `json:"total"`
}
