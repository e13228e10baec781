package recommender

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dewey/blog-functions/blob"
)

func TestRecommendationsHandler(t *testing.T) {
	c := &clock{t: published}
	upstream := &fakeUpstream{recos: twoHits}
	s := newTestService(blob.NewMemoryRepository("recommendations"), upstream, c)
	h := NewHandler(log.NewNopLogger(), s)

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?path=/2024/01/01/some-post", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		var got []map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Len(t, got, 2)
		assert.Equal(t, "First", got[0]["title"])
		assert.Equal(t, baseURL+"/2023/03/04/first", got[0]["url"])
		assert.Equal(t, "2023-03-04T00:00:00Z", got[0]["date"])
		c.t = c.t.Add(time.Hour)
	}
	assert.Equal(t, 1, upstream.Calls())
}

func TestRecommendationsHandlerMissingPath(t *testing.T) {
	upstream := &fakeUpstream{recos: twoHits}
	h := NewHandler(log.NewNopLogger(), newTestService(blob.NewMemoryRepository("recommendations"), upstream, &clock{t: published}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No path!", rec.Body.String())
	assert.Equal(t, 0, upstream.Calls())
}

func TestRecommendationsHandlerEmptyResult(t *testing.T) {
	h := NewHandler(log.NewNopLogger(), newTestService(blob.NewMemoryRepository("recommendations"), &fakeUpstream{}, &clock{t: published}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?path=/lonely", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}
