package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"trendscope/internal/model"
	"trendscope/pkg/trends"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"
)

type fakeTrendStore struct {
	posts     []model.Post
	searchErr error

	metricMap map[string]model.DailyMetric
	metricErr error
}

func (f *fakeTrendStore) Search(orgID, query, platform string, limit int) ([]model.Post, error) {
	return f.posts, f.searchErr
}

func (f *fakeTrendStore) LatestByPostIDs(postIDs []string) (map[string]model.DailyMetric, error) {
	return f.metricMap, f.metricErr
}

type fakeTrendCache struct {
	entry  *model.CacheEntry
	getErr error
	putErr error

	puts []model.CacheEntry
}

func (f *fakeTrendCache) Get(source, query, timeWindow string) (*model.CacheEntry, error) {
	return f.entry, f.getErr
}

func (f *fakeTrendCache) Put(entry model.CacheEntry) error {
	f.puts = append(f.puts, entry)
	return f.putErr
}

type fakeResolver struct {
	orgID string
	err   error
}

func (f *fakeResolver) OrgForUser(userID string) (string, error) {
	return f.orgID, f.err
}

func newTrendsRouter(store *fakeTrendStore, cache *fakeTrendCache) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewTrendsHandler(store, store, cache)
	r.GET("/api/trends/search", TenantMiddleware(&fakeResolver{orgID: "org-1"}), h.Search)
	return r
}

func searchReq(target string) *http.Request {
	req := httptest.NewRequest("GET", target, nil)
	req.Header.Set("X-User-ID", "user-1")
	return req
}

func fp(v float64) *float64 { return &v }

func TestTrendSearch_ComputesAndCaches(t *testing.T) {
	caption := "nfl playoffs highlight"
	store := &fakeTrendStore{
		posts: []model.Post{
			{ID: "p1", Platform: "tiktok", Caption: &caption},
		},
		metricMap: map[string]model.DailyMetric{
			"p1": {PostID: "p1", Date: "2026-08-30", Views: fp(100), Likes: fp(10), Comments: fp(5), Shares: fp(4), Saves: fp(2)},
		},
	}
	cache := &fakeTrendCache{}
	r := newTrendsRouter(store, cache)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, searchReq("/api/trends/search?q=nfl"))

	assert.Equal(t, http.StatusOK, w.Code)

	var res TrendSearchResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, 1, res.Total)
	assert.Equal(t, false, res.Cached)
	assert.Equal(t, 336.0, res.Items[0].Score)
	assert.Equal(t, 0.21, *res.Items[0].EngagementRate)

	// the recomputed set was written back under the derived key
	assert.Equal(t, 1, len(cache.puts))
	assert.Equal(t, "local", cache.puts[0].Source)
	assert.Equal(t, trends.CacheKey("nfl", "all", 0, trends.SortScore), cache.puts[0].Query)
	assert.Equal(t, model.Window7d, cache.puts[0].TimeWindow)
	assert.Equal(t, true, cache.puts[0].ExpiresAt.After(time.Now()))
}

func TestTrendSearch_FreshCacheHitSkipsRecompute(t *testing.T) {
	stored := []model.TrendItem{{PostID: "cached-post", Platform: "tiktok", Title: "cached", Score: 42}}
	cache := &fakeTrendCache{
		entry: &model.CacheEntry{
			Results:   stored,
			ExpiresAt: time.Now().Add(10 * time.Minute),
		},
	}
	store := &fakeTrendStore{searchErr: errors.New("search must not run on cache hit")}
	r := newTrendsRouter(store, cache)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, searchReq("/api/trends/search?q=nfl"))

	assert.Equal(t, http.StatusOK, w.Code)

	var res TrendSearchResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, true, res.Cached)
	assert.Equal(t, "cached-post", res.Items[0].PostID)
	assert.Equal(t, 42.0, res.Items[0].Score)
	assert.Equal(t, 0, len(cache.puts))
}

func TestTrendSearch_ExpiredEntryRecomputes(t *testing.T) {
	cache := &fakeTrendCache{
		entry: &model.CacheEntry{
			Results:   []model.TrendItem{{PostID: "stale"}},
			ExpiresAt: time.Now().Add(-time.Minute),
		},
	}
	store := &fakeTrendStore{metricMap: map[string]model.DailyMetric{}}
	r := newTrendsRouter(store, cache)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, searchReq("/api/trends/search?q=nfl"))

	assert.Equal(t, http.StatusOK, w.Code)

	var res TrendSearchResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, false, res.Cached)
	assert.Equal(t, 1, len(cache.puts))
}

func TestTrendSearch_CacheReadFailureIsAMiss(t *testing.T) {
	cache := &fakeTrendCache{getErr: errors.New("redis down")}
	store := &fakeTrendStore{metricMap: map[string]model.DailyMetric{}}
	r := newTrendsRouter(store, cache)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, searchReq("/api/trends/search?q=nfl"))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTrendSearch_CacheWriteFailureStillServes(t *testing.T) {
	caption := "gym edit"
	store := &fakeTrendStore{
		posts:     []model.Post{{ID: "p1", Platform: "tiktok", Caption: &caption}},
		metricMap: map[string]model.DailyMetric{},
	}
	cache := &fakeTrendCache{putErr: errors.New("cache write failed")}
	r := newTrendsRouter(store, cache)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, searchReq("/api/trends/search?q=gym"))

	assert.Equal(t, http.StatusOK, w.Code)

	var res TrendSearchResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, 1, res.Total)
}

func TestTrendSearch_MissingQuery(t *testing.T) {
	r := newTrendsRouter(&fakeTrendStore{}, &fakeTrendCache{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, searchReq("/api/trends/search"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTrendSearch_InvalidWindow(t *testing.T) {
	r := newTrendsRouter(&fakeTrendStore{}, &fakeTrendCache{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, searchReq("/api/trends/search?q=nfl&window=48h"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTrendSearch_SearchError(t *testing.T) {
	store := &fakeTrendStore{searchErr: errors.New("DB down")}
	r := newTrendsRouter(store, &fakeTrendCache{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, searchReq("/api/trends/search?q=nfl"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestTenantMiddleware_NoIdentity(t *testing.T) {
	r := newTrendsRouter(&fakeTrendStore{}, &fakeTrendCache{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/trends/search?q=nfl", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTenantMiddleware_NoMembership(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewTrendsHandler(&fakeTrendStore{}, &fakeTrendStore{}, &fakeTrendCache{})
	r.GET("/api/trends/search", TenantMiddleware(&fakeResolver{orgID: ""}), h.Search)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, searchReq("/api/trends/search?q=nfl"))

	assert.Equal(t, http.StatusForbidden, w.Code)
}
