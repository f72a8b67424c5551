package backup_test

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/bookshelf/internal/backup"
	"github.com/listenupapp/bookshelf/internal/catalog"
	"github.com/listenupapp/bookshelf/internal/domain"
	"github.com/listenupapp/bookshelf/internal/store"
)

// testSetup creates a catalog and backup/restore services over it.
func testSetup(t *testing.T) (*catalog.Catalog, *backup.BackupService, *backup.RestoreService, string) {
	t.Helper()

	backupDir := filepath.Join(t.TempDir(), "backups")
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))

	c, err := catalog.Open(context.Background(), store.NewMemory(), logger)
	require.NoError(t, err)

	backupSvc := backup.NewBackupService(c, backupDir, "test", logger)
	restoreSvc := backup.NewRestoreService(c, logger)

	return c, backupSvc, restoreSvc, backupDir
}

// createTestEntities adds two tags and two books, one of them tagged.
func createTestEntities(t *testing.T, c *catalog.Catalog) {
	t.Helper()
	ctx := context.Background()

	fiction, err := c.AddTagWithID(ctx, domain.Tag{ID: "t1", Label: "Fiction"})
	require.NoError(t, err)
	_, err = c.AddTagWithID(ctx, domain.Tag{ID: "t2", Label: "Classic"})
	require.NoError(t, err)

	_, err = c.CreateBook(ctx, domain.BookData{Title: "Dune", Author: "Frank Herbert", Year: "1965", Tags: []domain.Tag{fiction}})
	require.NoError(t, err)
	_, err = c.CreateBook(ctx, domain.BookData{Title: "Walden", Author: "Henry David Thoreau", Year: "1854"})
	require.NoError(t, err)
}

func TestExportRestore_RoundTrip(t *testing.T) {
	for _, format := range []backup.Format{backup.FormatJSON, backup.FormatMsgpack} {
		t.Run(string(format), func(t *testing.T) {
			ctx := context.Background()
			source, backupSvc, _, _ := testSetup(t)
			createTestEntities(t, source)

			doc, data, err := backupSvc.Export(ctx, format)
			require.NoError(t, err)
			assert.Equal(t, backup.FormatVersion, doc.Version)
			assert.NotEmpty(t, doc.ID)
			assert.Equal(t, backup.EntityCounts{Books: 2, Tags: 2}, doc.Counts)

			target, _, restoreSvc, _ := testSetup(t)
			result, err := restoreSvc.Restore(ctx, data, backup.RestoreOptions{})
			require.NoError(t, err)
			assert.Equal(t, backup.EntityCounts{Books: 2, Tags: 2}, result.Imported)

			assert.Equal(t, source.Tags(), target.Tags())
			assert.Equal(t, source.RawBooks(), target.RawBooks())
			assert.Equal(t, source.Books(), target.Books())
		})
	}
}

func TestDecode_DetectsFormat(t *testing.T) {
	doc := &backup.Document{Version: backup.FormatVersion, ID: "x", Tags: []domain.Tag{{ID: "t1", Label: "A"}}}

	for _, format := range []backup.Format{backup.FormatJSON, backup.FormatMsgpack} {
		data, err := backup.Encode(doc, format)
		require.NoError(t, err)
		assert.Equal(t, format, backup.Detect(data))

		decoded, err := backup.Decode(data, "")
		require.NoError(t, err)
		assert.Equal(t, doc.Tags, decoded.Tags)
	}

	_, err := backup.Encode(doc, "xml")
	assert.ErrorIs(t, err, backup.ErrUnknownFormat)
}

func TestRestore_LocalStorageDump(t *testing.T) {
	ctx := context.Background()
	c, _, restoreSvc, _ := testSetup(t)

	dump := `{
		"BOOKS": "[{\"id\":\"b1\",\"title\":\"Foo\",\"author\":\"A\",\"publisher\":\"P\",\"year\":\"2001\",\"synopsis\":\"S\",\"image\":\"I\",\"tagIds\":[\"t1\",\"t9\"]}]",
		"TAGS": "[{\"id\":\"t1\",\"label\":\"Fiction\"}]"
	}`

	result, err := restoreSvc.Restore(ctx, []byte(dump), backup.RestoreOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"t9"}, result.Dangling)

	books := c.Books()
	require.Len(t, books, 1)
	assert.Equal(t, "Foo", books[0].Title)
	assert.Equal(t, []domain.Tag{{ID: "t1", Label: "Fiction"}}, books[0].Tags)
}

func TestRestore_Invalid(t *testing.T) {
	ctx := context.Background()
	c, _, restoreSvc, _ := testSetup(t)
	createTestEntities(t, c)

	tests := []struct {
		name string
		data string
	}{
		{name: "not json", data: `{"version":`},
		{name: "wrong version", data: `{"version":"2.0","tags":[],"books":[]}`},
		{name: "duplicate tag", data: `{"version":"1.0","tags":[{"id":"t1","label":"a"},{"id":"t1","label":"b"}],"books":[]}`},
		{name: "empty book id", data: `{"version":"1.0","tags":[],"books":[{"id":"","title":"x"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := restoreSvc.Restore(ctx, []byte(tt.data), backup.RestoreOptions{})
			assert.ErrorIs(t, err, backup.ErrInvalidDocument)
		})
	}

	// The catalog is untouched.
	assert.Len(t, c.RawBooks(), 2)
	assert.Len(t, c.Tags(), 2)
}

func TestRestore_DryRun(t *testing.T) {
	ctx := context.Background()
	c, _, restoreSvc, _ := testSetup(t)
	createTestEntities(t, c)

	data := `{"version":"1.0","tags":[],"books":[]}`
	result, err := restoreSvc.Restore(ctx, []byte(data), backup.RestoreOptions{DryRun: true})
	require.NoError(t, err)
	assert.True(t, result.DryRun)
	assert.Len(t, c.RawBooks(), 2)
}

func TestValidate_Warnings(t *testing.T) {
	_, _, restoreSvc, _ := testSetup(t)

	data := `{"version":"1.3","counts":{"books":5,"tags":0},"tags":[],"books":[{"id":"b1","tagIds":["gone"]}]}`
	result := restoreSvc.Validate([]byte(data), backup.FormatJSON)

	assert.True(t, result.Valid)
	assert.Len(t, result.Warnings, 2)
	assert.Equal(t, backup.EntityCounts{Books: 1}, result.Counts)
}

func TestCreateListDelete(t *testing.T) {
	ctx := context.Background()
	c, backupSvc, restoreSvc, backupDir := testSetup(t)
	createTestEntities(t, c)

	result, err := backupSvc.Create(ctx, backup.BackupOptions{Format: backup.FormatMsgpack})
	require.NoError(t, err)
	assert.FileExists(t, result.Path)
	assert.Equal(t, backupDir, filepath.Dir(result.Path))
	assert.Len(t, result.Checksum, 64)
	assert.Equal(t, backup.EntityCounts{Books: 2, Tags: 2}, result.Counts)

	list, err := backupSvc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, result.ID, list[0].ID)
	assert.Equal(t, backup.FormatMsgpack, list[0].Format)

	info, err := backupSvc.Get(ctx, result.ID)
	require.NoError(t, err)
	assert.Equal(t, result.Path, info.Path)

	// Restore from the file after emptying the catalog.
	require.NoError(t, c.Replace(ctx, nil, nil))
	_, err = restoreSvc.RestoreFile(ctx, info.Path, backup.RestoreOptions{})
	require.NoError(t, err)
	assert.Len(t, c.RawBooks(), 2)

	require.NoError(t, backupSvc.Delete(ctx, result.ID))
	_, err = backupSvc.Get(ctx, result.ID)
	assert.ErrorIs(t, err, backup.ErrBackupNotFound)

	_, err = backupSvc.Get(ctx, "../etc/passwd")
	assert.ErrorIs(t, err, backup.ErrBackupNotFound)
}

func TestList_MissingDir(t *testing.T) {
	_, backupSvc, _, _ := testSetup(t)

	list, err := backupSvc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}
