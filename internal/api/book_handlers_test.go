package api

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/bookshelf/internal/domain"
)

func TestBooks_CreateAndGet(t *testing.T) {
	ts := setupTestServer(t)
	ts.createTag(t, "t1", "Classics")

	resp := ts.api.Post("/api/v1/books", bookBody("The Name of the Rose", "t1"))
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	created := decode[BookResponseForTest](t, resp)
	assert.True(t, created.Success)
	assert.NotEmpty(t, created.Data.ID)
	require.Len(t, created.Data.Tags, 1)
	assert.Equal(t, "Classics", created.Data.Tags[0].Label)

	resp = ts.api.Get("/api/v1/books/" + created.Data.ID)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "The Name of the Rose", decode[BookResponseForTest](t, resp).Data.Title)
}

func TestBooks_GetMissing(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/books/book-missing")
	assert.Equal(t, http.StatusNotFound, resp.Code)

	env := decode[any](t, resp)
	assert.False(t, env.Success)
	assert.Equal(t, "book book-missing not found", env.Error)
}

func TestBooks_Validation(t *testing.T) {
	ts := setupTestServer(t)

	tests := []struct {
		name     string
		body     map[string]any
		wantCode int
	}{
		{
			name:     "blank title",
			body:     bookBody("   "),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "unknown tag",
			body:     bookBody("Foucault's Pendulum", "nope"),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "missing field",
			body:     map[string]any{"title": "Only a title"},
			wantCode: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Post("/api/v1/books", tt.body)
			assert.Equal(t, tt.wantCode, resp.Code, resp.Body.String())

			env := decode[any](t, resp)
			assert.False(t, env.Success)
			assert.Equal(t, "VALIDATION", env.Code)
			assert.NotNil(t, env.Details)
		})
	}

	assert.Empty(t, ts.catalog.RawBooks())
}

func TestBooks_List(t *testing.T) {
	ts := setupTestServer(t)
	ts.createTag(t, "t1", "Classics")
	ts.createTag(t, "t2", "Italian")

	ts.createBook(t, "Foo", "t1")
	ts.createBook(t, "Bar", "t1", "t2")
	ts.createBook(t, "Baz")

	tests := []struct {
		name   string
		query  url.Values
		titles []string
	}{
		{name: "all", query: url.Values{}, titles: []string{"Foo", "Bar", "Baz"}},
		{name: "title folds case", query: url.Values{"title": {"foo"}}, titles: []string{"Foo"}},
		{name: "title substring", query: url.Values{"title": {"a"}}, titles: []string{"Bar", "Baz"}},
		{name: "single tag", query: url.Values{"tag": {"t1"}}, titles: []string{"Foo", "Bar"}},
		{name: "every tag", query: url.Values{"tag": {"t1,t2"}}, titles: []string{"Bar"}},
		{name: "title and tag", query: url.Values{"title": {"ba"}, "tag": {"t1"}}, titles: []string{"Bar"}},
		{name: "expression", query: url.Values{"q": {`"Italian" in tags`}}, titles: []string{"Bar"}},
		{name: "no match", query: url.Values{"title": {"qux"}}, titles: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Get("/api/v1/books?" + tt.query.Encode())
			require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

			env := decode[ListBooksResponse](t, resp)
			titles := make([]string, 0, len(env.Data.Books))
			for _, b := range env.Data.Books {
				titles = append(titles, b.Title)
			}
			assert.Equal(t, tt.titles, titles)
			assert.Equal(t, len(tt.titles), env.Data.Total)
		})
	}
}

func TestBooks_ListInvalidQuery(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/books?" + url.Values{"q": {"year >"}}.Encode())
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "VALIDATION", decode[any](t, resp).Code)
}

func TestBooks_UpdateClearsTags(t *testing.T) {
	ts := setupTestServer(t)
	ts.createTag(t, "t1", "Classics")
	bookID := ts.createBook(t, "Foo", "t1")

	resp := ts.api.Put("/api/v1/books/"+bookID, bookBody("Foo (revised)"))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	updated := decode[BookResponseForTest](t, resp).Data
	assert.Equal(t, bookID, updated.ID)
	assert.Equal(t, "Foo (revised)", updated.Title)
	assert.Empty(t, updated.Tags)

	raw := ts.catalog.RawBooks()
	require.Len(t, raw, 1)
	assert.Empty(t, raw[0].TagIDs)

	resp = ts.api.Put("/api/v1/books/book-missing", bookBody("Ghost"))
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestBooks_Delete(t *testing.T) {
	ts := setupTestServer(t)
	bookID := ts.createBook(t, "Foo")

	resp := ts.api.Delete("/api/v1/books/" + bookID)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "Book deleted", decode[MessageResponse](t, resp).Data.Message)

	resp = ts.api.Delete("/api/v1/books/" + bookID)
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Empty(t, ts.catalog.RawBooks())
}

func TestBooks_DeletedTagIsHiddenButReferenced(t *testing.T) {
	ts := setupTestServer(t)
	ts.createTag(t, "t1", "Classics")
	bookID := ts.createBook(t, "Foo", "t1")

	resp := ts.api.Delete("/api/v1/tags/t1")
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/books/" + bookID)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, decode[domain.Book](t, resp).Data.Tags)

	assert.Equal(t, []string{"t1"}, ts.catalog.RawBooks()[0].TagIDs)
}
