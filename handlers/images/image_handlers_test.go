package images

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"compsite/services"
	"compsite/storage"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const imageKey = "competition-images/spring-cup-1733822400000.png"

var imageBytes = []byte{0x89, 'P', 'N', 'G', 1, 2, 3}

func newRouter(t *testing.T) (*gin.Engine, *miniredis.Miniredis) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	blobs := storage.NewRedisBlobStore(client, "blob:")
	require.NoError(t, blobs.Put(context.Background(), imageKey, imageBytes, "image/png"))

	router := gin.New()
	RegisterRoutes(router, &Handler{Service: &services.CompetitionService{Images: blobs}})
	return router, server
}

func get(router *gin.Engine, target string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGetImageByPath(t *testing.T) {
	router, _ := newRouter(t)

	w := get(router, "/r2-images/"+imageKey, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, imageBytes, w.Body.Bytes())
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, CacheControl, w.Header().Get("Cache-Control"))
	assert.Equal(t, "7", w.Header().Get("Content-Length"))
	assert.Regexp(t, `^".+"$`, w.Header().Get("ETag"))
}

func TestGetImageByQuery(t *testing.T) {
	router, _ := newRouter(t)

	w := get(router, "/r2-images?key="+imageKey, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, imageBytes, w.Body.Bytes())
}

func TestGetImageNotModified(t *testing.T) {
	router, _ := newRouter(t)

	etag := get(router, "/r2-images/"+imageKey, nil).Header().Get("ETag")
	require.NotEmpty(t, etag)

	w := get(router, "/r2-images/"+imageKey, http.Header{"If-None-Match": {etag}})
	assert.Equal(t, http.StatusNotModified, w.Code)
	assert.Empty(t, w.Body.Bytes())
}

func TestGetImageMissing(t *testing.T) {
	router, _ := newRouter(t)

	assert.Equal(t, http.StatusNotFound, get(router, "/r2-images/competition-images/nope.png", nil).Code)
	assert.Equal(t, http.StatusNotFound, get(router, "/r2-images?key=nope.png", nil).Code)
}

func TestGetImageWithoutKey(t *testing.T) {
	router, _ := newRouter(t)

	assert.Equal(t, http.StatusBadRequest, get(router, "/r2-images", nil).Code)
	assert.Equal(t, http.StatusBadRequest, get(router, "/r2-images/", nil).Code)
}

func TestGetImageStoreFailure(t *testing.T) {
	router, server := newRouter(t)
	server.Close()

	assert.Equal(t, http.StatusInternalServerError, get(router, "/r2-images/"+imageKey, nil).Code)
}

func TestGetImageNotModifiedForTagLists(t *testing.T) {
	router, _ := newRouter(t)
	etag := get(router, "/r2-images/"+imageKey, nil).Header().Get("ETag")
	require.NotEmpty(t, etag)

	for _, header := range []string{
		`"other", ` + etag,
		"W/" + etag,
		"*",
	} {
		w := get(router, "/r2-images/"+imageKey, http.Header{"If-None-Match": {header}})
		assert.Equal(t, http.StatusNotModified, w.Code, header)
	}

	w := get(router, "/r2-images/"+imageKey, http.Header{"If-None-Match": {`"other", W/"stale"`}})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestEtagMatches(t *testing.T) {
	tests := []struct {
		header string
		want   bool
	}{
		{`"abc"`, true},
		{`W/"abc"`, true},
		{`"x", "abc"`, true},
		{`"x",W/"abc"`, true},
		{`*`, true},
		{`"x"`, false},
		{``, false},
		{`abc`, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, etagMatches(tt.header, `"abc"`), tt.header)
	}
}
