package handler

import (
	"log/slog"
	"net/http"

	"trendscope/pkg/trends"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	posts      PostStore
	metrics    MetricStore
	strategies StrategyStore
}

func NewAnalyticsHandler(posts PostStore, metrics MetricStore, strategies StrategyStore) *AnalyticsHandler {
	return &AnalyticsHandler{posts: posts, metrics: metrics, strategies: strategies}
}

const analyticsPostLimit = 200

// GetStrategyBreakdown averages latest counters per strategy dimension so
// tagged posts can be compared against each other (and the untagged bucket).
func (h *AnalyticsHandler) GetStrategyBreakdown(c *gin.Context) {
	tenant := tenantFrom(c)

	posts, err := h.posts.ListByOrg(tenant.OrgID, analyticsPostLimit)
	if err != nil {
		slog.Error("error fetching posts", "error", err, "org_id", tenant.OrgID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	var ids []string
	for _, p := range posts {
		ids = append(ids, p.ID)
	}

	metricMap, err := h.metrics.LatestByPostIDs(ids)
	if err != nil {
		slog.Error("error fetching latest metrics", "error", err, "org_id", tenant.OrgID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	strategyMap, err := h.strategies.ListByPostIDs(ids)
	if err != nil {
		slog.Error("error fetching strategies", "error", err, "org_id", tenant.OrgID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	tagged := make([]trends.TaggedPost, 0, len(posts))
	for _, p := range posts {
		tp := trends.TaggedPost{PostID: p.ID}

		if s, ok := strategyMap[p.ID]; ok {
			tp.HookType = s.HookType
			tp.CTAType = s.CTAType
			tp.FormatType = s.FormatType
			tp.PacingBucket = s.PacingBucket
		}

		if m, ok := metricMap[p.ID]; ok {
			tp.Views = orZero(m.Views)
			tp.Likes = orZero(m.Likes)
			tp.Comments = orZero(m.Comments)
			tp.Shares = orZero(m.Shares)
			tp.Saves = orZero(m.Saves)
		}

		tagged = append(tagged, tp)
	}

	c.JSON(http.StatusOK, trends.BreakdownByStrategy(tagged))
}

func orZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
