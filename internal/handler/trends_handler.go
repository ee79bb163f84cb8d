package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"trendscope/internal/model"
	"trendscope/pkg/trends"

	"github.com/gin-gonic/gin"
)

type TrendPostStore interface {
	Search(orgID, query, platform string, limit int) ([]model.Post, error)
}

type TrendMetricStore interface {
	LatestByPostIDs(postIDs []string) (map[string]model.DailyMetric, error)
}

// TrendCache is the result-set cache keyed by (source, derived query key,
// time window). Backed by either Postgres or Redis.
type TrendCache interface {
	Get(source, query, timeWindow string) (*model.CacheEntry, error)
	Put(entry model.CacheEntry) error
}

type TrendsHandler struct {
	posts   TrendPostStore
	metrics TrendMetricStore
	cache   TrendCache
	now     func() time.Time
}

func NewTrendsHandler(posts TrendPostStore, metrics TrendMetricStore, cache TrendCache) *TrendsHandler {
	return &TrendsHandler{posts: posts, metrics: metrics, cache: cache, now: time.Now}
}

const (
	searchLimit = 80
	cacheTTL    = 30 * time.Minute
)

// Search runs the trend pipeline: cache read, caption search, batched latest
// metrics, rank, cache write. A cache read failure is a miss; a cache write
// failure is logged and the freshly computed results are served anyway.
func (h *TrendsHandler) Search(c *gin.Context) {
	tenant := tenantFrom(c)

	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing search query"})
		return
	}

	timeWindow := c.DefaultQuery("window", model.Window7d)
	if timeWindow != model.Window24h && timeWindow != model.Window72h && timeWindow != model.Window7d {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid time window"})
		return
	}

	platformFilter := c.DefaultQuery("platform", "all")
	switch platformFilter {
	case "all", model.PlatformTikTok, model.PlatformInstagram, model.PlatformFacebook, model.PlatformYouTube:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid platform filter"})
		return
	}

	minViews := 0
	if v := c.Query("min_views"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid min_views"})
			return
		}
		minViews = parsed
	}

	sortMode := trends.SortMode(c.DefaultQuery("sort", string(trends.SortScore)))
	if sortMode != trends.SortScore && sortMode != trends.SortViews && sortMode != trends.SortER {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sort mode"})
		return
	}

	key := trends.CacheKey(q, platformFilter, minViews, sortMode)

	cached, err := h.cache.Get(model.SourceLocal, key, timeWindow)
	if err != nil {
		slog.Warn("trend cache read failed, recomputing", "error", err, "key", key)
	}
	if cached != nil && h.now().Before(cached.ExpiresAt) {
		c.JSON(http.StatusOK, TrendSearchResponse{
			Items:  cached.Results,
			Total:  len(cached.Results),
			Cached: true,
			Status: "Loaded from cache",
		})
		return
	}

	posts, err := h.posts.Search(tenant.OrgID, q, platformFilter, searchLimit)
	if err != nil {
		slog.Error("error searching posts", "error", err, "org_id", tenant.OrgID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed: " + err.Error()})
		return
	}

	var ids []string
	for _, p := range posts {
		ids = append(ids, p.ID)
	}

	metricMap, err := h.metrics.LatestByPostIDs(ids)
	if err != nil {
		slog.Error("error fetching latest metrics", "error", err, "org_id", tenant.OrgID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed: " + err.Error()})
		return
	}

	candidates := make([]trends.Candidate, 0, len(posts))
	for _, p := range posts {
		cand := trends.Candidate{
			ID:        p.ID,
			Platform:  p.Platform,
			Caption:   p.Caption,
			Permalink: p.Permalink,
		}
		if m, ok := metricMap[p.ID]; ok {
			cand.Latest = &m
		}
		candidates = append(candidates, cand)
	}

	items := trends.Rank(candidates, minViews, sortMode)

	entry := model.CacheEntry{
		Source:     model.SourceLocal,
		Query:      key,
		TimeWindow: timeWindow,
		Results:    items,
		ExpiresAt:  h.now().Add(cacheTTL),
	}
	if err := h.cache.Put(entry); err != nil {
		slog.Error("trend cache write failed", "error", err, "key", key)
	}

	c.JSON(http.StatusOK, TrendSearchResponse{
		Items:  items,
		Total:  len(items),
		Status: fmt.Sprintf("Found %d items", len(items)),
	})
}
