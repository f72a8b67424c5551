package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/bookshelf/internal/config"
	"github.com/listenupapp/bookshelf/internal/search"
)

func TestSearch(t *testing.T) {
	ts := setupTestServer(t)
	ts.createTag(t, "t1", "Classics")
	roseID := ts.createBook(t, "The Name of the Rose", "t1")
	ts.createBook(t, "Baudolino")

	resp := ts.api.Get("/api/v1/search?q=rose")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	result := decode[search.SearchResult](t, resp).Data
	require.Equal(t, uint64(1), result.Total)
	assert.Equal(t, roseID, result.Hits[0].ID)

	resp = ts.api.Get("/api/v1/search?tag=t1")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, uint64(1), decode[search.SearchResult](t, resp).Data.Total)

	resp = ts.api.Get("/api/v1/search")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, uint64(2), decode[search.SearchResult](t, resp).Data.Total)
}

func TestSearch_FollowsRenameAndDelete(t *testing.T) {
	ts := setupTestServer(t)
	ts.createTag(t, "t1", "Classics")
	bookID := ts.createBook(t, "Baudolino", "t1")

	require.Equal(t, http.StatusOK, ts.api.Patch("/api/v1/tags/t1", map[string]any{"label": "Picaresque"}).Code)

	result := decode[search.SearchResult](t, ts.api.Get("/api/v1/search?q=Picaresque")).Data
	require.Equal(t, uint64(1), result.Total)
	assert.Equal(t, []string{"Picaresque"}, result.Hits[0].Tags)

	require.Equal(t, http.StatusOK, ts.api.Delete("/api/v1/books/"+bookID).Code)

	result = decode[search.SearchResult](t, ts.api.Get("/api/v1/search")).Data
	assert.Zero(t, result.Total)
}

func TestSearch_InvalidParams(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/search?sort=popularity")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	assert.Equal(t, "VALIDATION", decode[any](t, resp).Code)
}

func TestSearch_Disabled(t *testing.T) {
	ts := setupTestServer(t, func(cfg *config.Config) {
		cfg.Search.Enabled = false
	})

	assert.Equal(t, http.StatusNotFound, ts.api.Get("/api/v1/search?q=rose").Code)
}
