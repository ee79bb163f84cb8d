package handler

import (
	"log/slog"
	"net/http"
	"time"

	"trendscope/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type PostStore interface {
	ListByOrg(orgID string, limit int) ([]model.Post, error)
	GetByID(id, orgID string) (*model.Post, error)
	Total() (int, error)
}

type MetricStore interface {
	LatestByPostIDs(postIDs []string) (map[string]model.DailyMetric, error)
	LatestByPostID(postID string) (*model.DailyMetric, error)
}

type StrategyStore interface {
	ListByPostIDs(postIDs []string) (map[string]model.Strategy, error)
	GetByPostID(postID string) (*model.Strategy, error)
	Upsert(s *model.Strategy) error
}

type PostsHandler struct {
	posts      PostStore
	metrics    MetricStore
	strategies StrategyStore
	validate   *validator.Validate
}

func NewPostsHandler(posts PostStore, metrics MetricStore, strategies StrategyStore) *PostsHandler {
	return &PostsHandler{
		posts:      posts,
		metrics:    metrics,
		strategies: strategies,
		validate:   validator.New(),
	}
}

const postListLimit = 50

func (h *PostsHandler) GetPosts(c *gin.Context) {
	tenant := tenantFrom(c)

	posts, err := h.posts.ListByOrg(tenant.OrgID, postListLimit)
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

	res := PostListResponse{Total: len(posts)}
	for _, p := range posts {
		pr := postResponse(p)

		if m, ok := metricMap[p.ID]; ok {
			pr.Latest = metricResponse(m)
		}
		if s, ok := strategyMap[p.ID]; ok {
			pr.Strategy = strategyResponse(s)
		}

		res.Posts = append(res.Posts, pr)
	}

	c.JSON(http.StatusOK, res)
}

func (h *PostsHandler) GetPost(c *gin.Context) {
	tenant := tenantFrom(c)
	id := c.Param("id")

	post, err := h.posts.GetByID(id, tenant.OrgID)
	if err != nil {
		slog.Error("error fetching post", "error", err, "post_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if post == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	pr := postResponse(*post)

	latest, err := h.metrics.LatestByPostID(post.ID)
	if err != nil {
		slog.Error("error fetching latest metric", "error", err, "post_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if latest != nil {
		pr.Latest = metricResponse(*latest)
	}

	strategy, err := h.strategies.GetByPostID(post.ID)
	if err != nil {
		slog.Error("error fetching strategy", "error", err, "post_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if strategy != nil {
		pr.Strategy = strategyResponse(*strategy)
	}

	c.JSON(http.StatusOK, pr)
}

// UpdateStrategy replaces the post's full tag set. Values outside the fixed
// vocabulary are rejected; nil clears a dimension.
func (h *PostsHandler) UpdateStrategy(c *gin.Context) {
	tenant := tenantFrom(c)
	id := c.Param("id")

	var req StrategyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := h.posts.GetByID(id, tenant.OrgID)
	if err != nil {
		slog.Error("error fetching post", "error", err, "post_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if post == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	s := model.Strategy{
		PostID:       post.ID,
		HookType:     req.HookType,
		CTAType:      req.CTAType,
		FormatType:   req.FormatType,
		PacingBucket: req.PacingBucket,
	}

	if err := h.strategies.Upsert(&s); err != nil {
		slog.Error("error saving strategy", "error", err, "post_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, strategyResponse(s))
}

func (h *PostsHandler) GetHealth(c *gin.Context) {
	_, err := h.posts.Total()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": "disconnected",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": "connected",
	})
}

func postResponse(p model.Post) PostResponse {
	pr := PostResponse{
		ID:             p.ID,
		Platform:       p.Platform,
		PlatformPostID: p.PlatformPostID,
		Caption:        p.Caption,
		Permalink:      p.Permalink,
	}

	if p.CreatedTime != nil {
		created := p.CreatedTime.Format(time.RFC3339)
		pr.CreatedTime = &created
	}

	return pr
}

func metricResponse(m model.DailyMetric) *MetricResponse {
	return &MetricResponse{
		Date:     m.Date,
		Views:    m.Views,
		Likes:    m.Likes,
		Comments: m.Comments,
		Shares:   m.Shares,
		Saves:    m.Saves,
	}
}

func strategyResponse(s model.Strategy) *StrategyResponse {
	return &StrategyResponse{
		HookType:     s.HookType,
		CTAType:      s.CTAType,
		FormatType:   s.FormatType,
		PacingBucket: s.PacingBucket,
	}
}
