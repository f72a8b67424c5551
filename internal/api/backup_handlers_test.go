package api

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/bookshelf/internal/backup"
)

func TestBackup_ExportFormats(t *testing.T) {
	ts := setupTestServer(t)
	ts.createTag(t, "t1", "Classics")
	ts.createBook(t, "Foo", "t1")

	tests := []struct {
		format      string
		contentType string
		ext         string
	}{
		{format: "json", contentType: "application/json", ext: ".json\""},
		{format: "msgpack", contentType: "application/vnd.msgpack", ext: ".msgpack\""},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			resp := ts.api.Get("/api/v1/backup?format=" + tt.format)
			require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
			assert.Equal(t, tt.contentType, resp.Header().Get("Content-Type"))
			assert.Contains(t, resp.Header().Get("Content-Disposition"), "attachment; filename=\"bookshelf-")
			assert.True(t, bytes.HasSuffix([]byte(resp.Header().Get("Content-Disposition")), []byte(tt.ext)))

			doc, err := backup.Decode(resp.Body.Bytes(), backup.Format(tt.format))
			require.NoError(t, err)
			assert.Equal(t, backup.EntityCounts{Books: 1, Tags: 1}, doc.Counts)
			require.Len(t, doc.Books, 1)
			assert.Equal(t, []string{"t1"}, doc.Books[0].TagIDs)
		})
	}
}

func TestBackup_RestoreRoundTrip(t *testing.T) {
	src := setupTestServer(t)
	src.createTag(t, "t1", "Classics")
	src.createBook(t, "Foo", "t1")
	src.createBook(t, "Bar")

	exported := src.api.Get("/api/v1/backup?format=msgpack")
	require.Equal(t, http.StatusOK, exported.Code)

	dst := setupTestServer(t)
	dst.createBook(t, "Will be replaced")

	resp := dst.api.Post("/api/v1/backup/restore?mode=full",
		"Content-Type: application/vnd.msgpack",
		bytes.NewReader(exported.Body.Bytes()))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	result := decode[backup.RestoreResult](t, resp).Data
	assert.Equal(t, backup.EntityCounts{Books: 2, Tags: 1}, result.Imported)
	assert.Empty(t, result.Dangling)

	assert.Equal(t, src.catalog.RawBooks(), dst.catalog.RawBooks())
	assert.Equal(t, src.catalog.Tags(), dst.catalog.Tags())

	// The search index follows the restore.
	search := decode[struct {
		Total uint64 `json:"total"`
	}](t, dst.api.Get("/api/v1/search?q=replaced"))
	assert.Zero(t, search.Data.Total)
}

func TestBackup_RestoreMergeDryRun(t *testing.T) {
	ts := setupTestServer(t)
	ts.createTag(t, "t1", "Classics")

	doc := `{"version":"1.0","id":"b","exported_at":"2026-01-02T03:04:05Z",
		"tags":[{"id":"t1","label":"Other"},{"id":"t2","label":"New"}],
		"books":[{"id":"x","title":"X","author":"A","publisher":"P","year":"1","synopsis":"S","image":"I","tagIds":["t2","gone"]}]}`

	resp := ts.api.Post("/api/v1/backup/restore?mode=merge&dry_run=true",
		"Content-Type: application/json", bytes.NewReader([]byte(doc)))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	assert.Contains(t, resp.Body.String(), `"duration_ms":`)
	result := decode[backup.RestoreResult](t, resp).Data
	assert.True(t, result.DryRun)
	assert.Equal(t, backup.EntityCounts{Books: 1, Tags: 1}, result.Imported)
	assert.Equal(t, backup.EntityCounts{Tags: 1}, result.Skipped)
	assert.Equal(t, []string{"gone"}, result.Dangling)

	assert.Empty(t, ts.catalog.RawBooks())
	assert.Len(t, ts.catalog.Tags(), 1)
}

func TestBackup_RestoreRejects(t *testing.T) {
	ts := setupTestServer(t)

	tests := []struct {
		name string
		path string
		body string
	}{
		{name: "unknown mode", path: "/api/v1/backup/restore?mode=append", body: `{}`},
		{name: "unknown strategy", path: "/api/v1/backup/restore?mode=merge&strategy=newest", body: `{}`},
		{name: "empty body", path: "/api/v1/backup/restore", body: ``},
		{name: "malformed", path: "/api/v1/backup/restore", body: `{"tags": 42}`},
		{name: "wrong version", path: "/api/v1/backup/restore", body: `{"version":"9.0","tags":[],"books":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Post(tt.path, "Content-Type: application/json", bytes.NewReader([]byte(tt.body)))
			assert.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())
		})
	}
}

func TestBackup_Validate(t *testing.T) {
	ts := setupTestServer(t)

	doc := `{"version":"1.0","tags":[{"id":"t1","label":"A"},{"id":"t1","label":"B"}],"books":[]}`
	resp := ts.api.Post("/api/v1/backup/validate", "Content-Type: application/json", bytes.NewReader([]byte(doc)))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	result := decode[backup.ValidationResult](t, resp).Data
	assert.False(t, result.Valid)
	assert.NotEmpty(t, result.Errors)
	assert.Equal(t, 2, result.Counts.Tags)
}

func TestBackup_Files(t *testing.T) {
	ts := setupTestServer(t)
	ts.createTag(t, "t1", "Classics")
	ts.createBook(t, "Foo", "t1")

	resp := ts.api.Post("/api/v1/backups", map[string]any{"format": "msgpack"})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	created := decode[BackupResponse](t, resp).Data
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "msgpack", created.Format)
	assert.Len(t, created.Checksum, 64)
	require.NotNil(t, created.Books)
	assert.Equal(t, 1, *created.Books)

	resp = ts.api.Get("/api/v1/backups")
	require.Equal(t, http.StatusOK, resp.Code)
	list := decode[[]BackupResponse](t, resp).Data
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)
	assert.Equal(t, created.Size, list[0].Size)

	ts.createBook(t, "Added after backup")
	require.Len(t, ts.catalog.RawBooks(), 2)

	resp = ts.api.Post("/api/v1/backups/" + created.ID + "/restore")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	require.Len(t, ts.catalog.RawBooks(), 1)
	assert.Equal(t, "Foo", ts.catalog.RawBooks()[0].Title)

	resp = ts.api.Delete("/api/v1/backups/" + created.ID)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "Backup deleted", decode[MessageResponse](t, resp).Data.Message)

	assert.Equal(t, http.StatusNotFound, ts.api.Delete("/api/v1/backups/"+created.ID).Code)
	assert.Equal(t, http.StatusNotFound, ts.api.Post("/api/v1/backups/missing/restore").Code)
}

func TestBackup_CreateWithoutBody(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/backups")
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	assert.Equal(t, "json", decode[BackupResponse](t, resp).Data.Format)
}
