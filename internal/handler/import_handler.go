package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"trendscope/internal/model"
	"trendscope/pkg/csvimport"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type ImportStore interface {
	UpsertPosts(posts []model.Post) (map[string]string, error)
	UpsertMetrics(metrics []model.DailyMetric) error
}

type ImportHandler struct {
	store    ImportStore
	validate *validator.Validate
}

func NewImportHandler(store ImportStore) *ImportHandler {
	return &ImportHandler{store: store, validate: validator.New()}
}

// Import maps a CSV export into posts plus daily metrics and upserts both.
// A file that yields no rows with a post id is a zero-count response, not an
// error.
func (h *ImportHandler) Import(c *gin.Context) {
	tenant := tenantFrom(c)

	var req ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := csvimport.ParseAndMap(req.CSV)
	if len(result.Rows) == 0 {
		c.JSON(http.StatusOK, ImportResponse{
			Status: "No rows with a post id found",
		})
		return
	}

	posts := make([]model.Post, 0, len(result.Rows))
	for _, row := range result.Rows {
		posts = append(posts, model.Post{
			OrgID:          tenant.OrgID,
			Platform:       req.Platform,
			PlatformPostID: row.PlatformPostID,
			CreatedTime:    parseCreatedTime(row.CreatedTime),
			Caption:        row.Caption,
			Permalink:      row.Permalink,
			MediaType:      mediaTypeFor(req.Platform),
		})
	}

	idMap, err := h.store.UpsertPosts(posts)
	if err != nil {
		slog.Error("error upserting posts", "error", err, "org_id", tenant.OrgID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Posts upsert failed: " + err.Error()})
		return
	}

	today := time.Now().Format("2006-01-02")
	var metrics []model.DailyMetric
	for _, row := range result.Rows {
		postID, ok := idMap[row.PlatformPostID]
		if !ok {
			continue
		}

		date := today
		if row.Date != nil && *row.Date != "" {
			date = *row.Date
		}

		metrics = append(metrics, model.DailyMetric{
			PostID:   postID,
			Date:     date,
			Views:    row.Views,
			Likes:    row.Likes,
			Comments: row.Comments,
			Shares:   row.Shares,
			Saves:    row.Saves,
		})
	}

	if len(metrics) > 0 {
		if err := h.store.UpsertMetrics(metrics); err != nil {
			slog.Error("error upserting metrics", "error", err, "org_id", tenant.OrgID)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Metrics upsert failed: " + err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, ImportResponse{
		Parsed:          len(result.Rows),
		Matched:         result.Matched,
		PostsUpserted:   len(posts),
		MetricsUpserted: len(metrics),
		Status:          fmt.Sprintf("Uploaded %d posts and %d daily metric rows", len(posts), len(metrics)),
	})
}

var createdTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseCreatedTime tries the timestamp shapes seen across export tools; an
// unrecognized value imports as no created time rather than failing the row.
func parseCreatedTime(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}

	for _, layout := range createdTimeLayouts {
		if t, err := time.Parse(layout, *s); err == nil {
			return &t
		}
	}

	return nil
}

func mediaTypeFor(platform string) *string {
	if platform == model.PlatformYouTube {
		video := "video"
		return &video
	}
	return nil
}
