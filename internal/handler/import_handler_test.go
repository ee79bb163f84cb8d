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

type fakeImportStore struct {
	posts    []model.Post
	metrics  []model.DailyMetric
	idMap    map[string]string
	postsErr error
}

func (f *fakeImportStore) UpsertPosts(posts []model.Post) (map[string]string, error) {
	f.posts = posts
	return f.idMap, f.postsErr
}

func (f *fakeImportStore) UpsertMetrics(metrics []model.DailyMetric) error {
	f.metrics = metrics
	return nil
}

func newImportRouter(store ImportStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewImportHandler(store)
	r.POST("/api/import", TenantMiddleware(&fakeResolver{orgID: "org-1"}), h.Import)
	return r
}

func importReq(body string) *http.Request {
	req := httptest.NewRequest("POST", "/api/import", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "user-1")
	return req
}

func TestImport_UploadsPostsAndMetrics(t *testing.T) {
	store := &fakeImportStore{idMap: map[string]string{"v1": "uuid-1", "v2": "uuid-2"}}
	r := newImportRouter(store)

	csv := "Video ID,Date,Views,Likes\\nv1,2026-08-29,100,10\\nv2,2026-08-30,200,20\\n"
	body := `{"platform":"tiktok","csv":"` + csv + `"}`

	w := httptest.NewRecorder()
	r.ServeHTTP(w, importReq(body))

	assert.Equal(t, http.StatusOK, w.Code)

	var res ImportResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, 2, res.Parsed)
	assert.Equal(t, 2, res.Matched)
	assert.Equal(t, 2, res.PostsUpserted)
	assert.Equal(t, 2, res.MetricsUpserted)

	assert.Equal(t, "org-1", store.posts[0].OrgID)
	assert.Equal(t, "tiktok", store.posts[0].Platform)
	assert.Equal(t, "v1", store.posts[0].PlatformPostID)

	assert.Equal(t, "uuid-1", store.metrics[0].PostID)
	assert.Equal(t, "2026-08-29", store.metrics[0].Date)
	assert.Equal(t, 100.0, *store.metrics[0].Views)
}

func TestImport_NoResolvableRowsIsZeroCount(t *testing.T) {
	store := &fakeImportStore{}
	r := newImportRouter(store)

	body := `{"platform":"tiktok","csv":"Foo,Bar\n1,2\n"}`

	w := httptest.NewRecorder()
	r.ServeHTTP(w, importReq(body))

	assert.Equal(t, http.StatusOK, w.Code)

	var res ImportResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, 0, res.Parsed)
	assert.Equal(t, 0, res.PostsUpserted)
	assert.Equal(t, 0, len(store.posts))
}

func TestImport_InvalidPlatform(t *testing.T) {
	r := newImportRouter(&fakeImportStore{})

	body := `{"platform":"myspace","csv":"id,Views\np1,1\n"}`

	w := httptest.NewRecorder()
	r.ServeHTTP(w, importReq(body))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestImport_PostsUpsertFailure(t *testing.T) {
	store := &fakeImportStore{postsErr: errors.New("DB down")}
	r := newImportRouter(store)

	body := `{"platform":"tiktok","csv":"id,Views\np1,1\n"}`

	w := httptest.NewRecorder()
	r.ServeHTTP(w, importReq(body))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestImport_MetricDateFallsBackToToday(t *testing.T) {
	store := &fakeImportStore{idMap: map[string]string{"p1": "uuid-1"}}
	r := newImportRouter(store)

	body := `{"platform":"instagram","csv":"post_id,Views\np1,50\n"}`

	w := httptest.NewRecorder()
	r.ServeHTTP(w, importReq(body))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, len(store.metrics))
	assert.NotEqual(t, "", store.metrics[0].Date)
}
