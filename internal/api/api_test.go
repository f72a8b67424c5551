package api

import (
	"context"
	"encoding/json/v2"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/bookshelf/internal/backup"
	"github.com/listenupapp/bookshelf/internal/catalog"
	"github.com/listenupapp/bookshelf/internal/config"
	"github.com/listenupapp/bookshelf/internal/search"
	"github.com/listenupapp/bookshelf/internal/service"
	"github.com/listenupapp/bookshelf/internal/store"
)

// testEnvelope decodes either envelope shape.
type testEnvelope[T any] struct {
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details"`
}

// testServer wraps the API server for testing.
type testServer struct {
	*Server
	api     humatest.TestAPI
	catalog *catalog.Catalog
}

// setupTestServer creates a test server over an in-memory catalog.
// Options adjust the config before the server is built.
func setupTestServer(t *testing.T, opts ...func(*config.Config)) *testServer {
	t.Helper()
	ctx := context.Background()
	logger := slog.New(slog.DiscardHandler)

	cfg := &config.Config{
		App:       config.AppConfig{Environment: "development", Version: "test"},
		Server:    config.ServerConfig{Name: "Bookshelf Test", CORSOrigins: []string{"*"}},
		Search:    config.SearchConfig{Enabled: true},
		RateLimit: config.RateLimitConfig{PerMinute: 0},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	c, err := catalog.Open(ctx, store.NewMemory(), logger)
	require.NoError(t, err)

	services := &Services{
		Catalog: c,
		Book:    service.NewBookService(c, logger),
		Tag:     service.NewTagService(c, logger),
		Backup:  backup.NewBackupService(c, t.TempDir(), "test", logger),
		Restore: backup.NewRestoreService(c, logger),
	}

	if cfg.Search.Enabled {
		index, err := search.NewSearchIndex(search.Options{Logger: logger})
		require.NoError(t, err)
		t.Cleanup(func() { _ = index.Close() })

		services.Search = service.NewSearchService(index, c, logger)
		c.SetSearchIndexer(services.Search)
	}

	s := NewServer(cfg, services, logger)
	t.Cleanup(s.Close)

	return &testServer{
		Server:  s,
		api:     humatest.Wrap(t, s.API()),
		catalog: c,
	}
}

// decode unmarshals a response into an envelope.
func decode[T any](t *testing.T, resp *httptest.ResponseRecorder) testEnvelope[T] {
	t.Helper()
	var env testEnvelope[T]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env), "body: %s", resp.Body.String())
	return env
}

func bookBody(title string, tagIDs ...string) map[string]any {
	body := map[string]any{
		"title":     title,
		"author":    "Umberto Eco",
		"publisher": "Bompiani",
		"year":      "1980",
		"synopsis":  "Murders in a medieval abbey.",
		"image":     "https://example.com/rose.jpg",
	}
	if tagIDs != nil {
		body["tagIds"] = tagIDs
	}
	return body
}

// createTag creates a tag through the API.
func (ts *testServer) createTag(t *testing.T, id, label string) {
	t.Helper()
	resp := ts.api.Post("/api/v1/tags", map[string]any{"id": id, "label": label})
	require.Equal(t, 201, resp.Code, resp.Body.String())
}

// createBook creates a book through the API and returns its ID.
func (ts *testServer) createBook(t *testing.T, title string, tagIDs ...string) string {
	t.Helper()
	resp := ts.api.Post("/api/v1/books", bookBody(title, tagIDs...))
	require.Equal(t, 201, resp.Code, resp.Body.String())
	return decode[BookResponseForTest](t, resp).Data.ID
}

// BookResponseForTest mirrors the resolved book JSON.
type BookResponseForTest struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Year   string `json:"year"`
	Tags   []struct {
		ID    string `json:"id"`
		Label string `json:"label"`
	} `json:"tags"`
}
