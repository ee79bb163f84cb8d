package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"trendscope/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"
)

type fakePostStore struct {
	posts []model.Post
	post  *model.Post
	total int

	metricMap map[string]model.DailyMetric
	metric    *model.DailyMetric

	strategyMap map[string]model.Strategy
	strategy    *model.Strategy
	upserted    *model.Strategy

	err error
}

func (f *fakePostStore) ListByOrg(orgID string, limit int) ([]model.Post, error) {
	return f.posts, f.err
}

func (f *fakePostStore) GetByID(id, orgID string) (*model.Post, error) {
	return f.post, f.err
}

func (f *fakePostStore) Total() (int, error) {
	return f.total, f.err
}

func (f *fakePostStore) LatestByPostIDs(postIDs []string) (map[string]model.DailyMetric, error) {
	return f.metricMap, f.err
}

func (f *fakePostStore) LatestByPostID(postID string) (*model.DailyMetric, error) {
	return f.metric, f.err
}

func (f *fakePostStore) ListByPostIDs(postIDs []string) (map[string]model.Strategy, error) {
	return f.strategyMap, f.err
}

func (f *fakePostStore) GetByPostID(postID string) (*model.Strategy, error) {
	return f.strategy, f.err
}

func (f *fakePostStore) Upsert(s *model.Strategy) error {
	f.upserted = s
	return f.err
}

func newPostsRouter(store *fakePostStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewPostsHandler(store, store, store)
	auth := TenantMiddleware(&fakeResolver{orgID: "org-1"})
	r.GET("/api/posts", auth, h.GetPosts)
	r.GET("/api/posts/:id", auth, h.GetPost)
	r.PUT("/api/posts/:id/strategy", auth, h.UpdateStrategy)
	r.GET("/health", h.GetHealth)
	return r
}

func authedReq(method, target, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-User-ID", "user-1")
	return req
}

func TestGetPosts_JoinsMetricsAndStrategies(t *testing.T) {
	caption := "my caption"
	hook := "teaser"
	store := &fakePostStore{
		posts: []model.Post{{ID: "p1", Platform: "tiktok", PlatformPostID: "v1", Caption: &caption}},
		metricMap: map[string]model.DailyMetric{
			"p1": {PostID: "p1", Date: "2026-08-30", Views: fp(100)},
		},
		strategyMap: map[string]model.Strategy{
			"p1": {PostID: "p1", HookType: &hook},
		},
	}
	r := newPostsRouter(store)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedReq("GET", "/api/posts", ""))

	assert.Equal(t, http.StatusOK, w.Code)

	var res PostListResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, 1, res.Total)
	assert.Equal(t, "v1", res.Posts[0].PlatformPostID)
	assert.Equal(t, "2026-08-30", res.Posts[0].Latest.Date)
	assert.Equal(t, 100.0, *res.Posts[0].Latest.Views)
	assert.Equal(t, "teaser", *res.Posts[0].Strategy.HookType)
}

func TestGetPost_NotFound(t *testing.T) {
	r := newPostsRouter(&fakePostStore{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedReq("GET", "/api/posts/missing", ""))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetPost_NoMetricsStillReturns(t *testing.T) {
	store := &fakePostStore{
		post: &model.Post{ID: "p1", Platform: "tiktok", PlatformPostID: "v1"},
	}
	r := newPostsRouter(store)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedReq("GET", "/api/posts/p1", ""))

	assert.Equal(t, http.StatusOK, w.Code)

	var res PostResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, (*MetricResponse)(nil), res.Latest)
	assert.Equal(t, (*StrategyResponse)(nil), res.Strategy)
}

func TestUpdateStrategy_Valid(t *testing.T) {
	store := &fakePostStore{
		post: &model.Post{ID: "p1", Platform: "tiktok", PlatformPostID: "v1"},
	}
	r := newPostsRouter(store)

	body := `{"hook_type":"bold_claim","pacing_bucket":"fast"}`

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedReq("PUT", "/api/posts/p1/strategy", body))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "bold_claim", *store.upserted.HookType)
	assert.Equal(t, "fast", *store.upserted.PacingBucket)
	assert.Equal(t, (*string)(nil), store.upserted.CTAType)
}

func TestUpdateStrategy_RejectsUnknownValue(t *testing.T) {
	store := &fakePostStore{
		post: &model.Post{ID: "p1"},
	}
	r := newPostsRouter(store)

	body := `{"hook_type":"clickbait"}`

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedReq("PUT", "/api/posts/p1/strategy", body))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealth_Unhealthy(t *testing.T) {
	r := newPostsRouter(&fakePostStore{err: errors.New("DB down")})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHealth_Healthy(t *testing.T) {
	r := newPostsRouter(&fakePostStore{total: 3})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
