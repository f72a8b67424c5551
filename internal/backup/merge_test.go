package backup_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/bookshelf/internal/backup"
	"github.com/listenupapp/bookshelf/internal/domain"
)

const mergeDoc = `{
	"version": "1.0",
	"tags": [{"id":"t1","label":"Backup Fiction"},{"id":"t3","label":"Poetry"}],
	"books": [{"id":"b-new","title":"Leaves of Grass","tagIds":["t3"]}]
}`

// TestMergeMode_KeepLocal tests merge mode with keep_local strategy.
func TestMergeMode_KeepLocal(t *testing.T) {
	ctx := context.Background()
	c, _, restoreSvc, _ := testSetup(t)
	createTestEntities(t, c)

	result, err := restoreSvc.Restore(ctx, []byte(mergeDoc), backup.RestoreOptions{
		Mode:          backup.RestoreModeMerge,
		MergeStrategy: backup.MergeKeepLocal,
	})
	require.NoError(t, err)

	assert.Equal(t, backup.EntityCounts{Books: 1, Tags: 1}, result.Imported)
	assert.Equal(t, backup.EntityCounts{Tags: 1}, result.Skipped)

	assert.Equal(t, []domain.Tag{
		{ID: "t1", Label: "Fiction"},
		{ID: "t2", Label: "Classic"},
		{ID: "t3", Label: "Poetry"},
	}, c.Tags())

	books := c.RawBooks()
	require.Len(t, books, 3)
	assert.Equal(t, "b-new", books[2].ID)
}

// TestMergeMode_KeepBackup tests merge mode with keep_backup strategy.
func TestMergeMode_KeepBackup(t *testing.T) {
	ctx := context.Background()
	c, _, restoreSvc, _ := testSetup(t)
	createTestEntities(t, c)

	result, err := restoreSvc.Restore(ctx, []byte(mergeDoc), backup.RestoreOptions{
		Mode:          backup.RestoreModeMerge,
		MergeStrategy: backup.MergeKeepBackup,
	})
	require.NoError(t, err)

	assert.Equal(t, backup.EntityCounts{Books: 1, Tags: 2}, result.Imported)
	assert.Zero(t, result.Skipped)

	// Conflicts are replaced in place.
	tag, ok := c.Tag("t1")
	require.True(t, ok)
	assert.Equal(t, "Backup Fiction", tag.Label)
	assert.Equal(t, "t1", c.Tags()[0].ID)
}

func TestRestore_InvalidOptions(t *testing.T) {
	_, _, restoreSvc, _ := testSetup(t)
	ctx := context.Background()

	_, err := restoreSvc.Restore(ctx, []byte(mergeDoc), backup.RestoreOptions{Mode: "events_only"})
	assert.Error(t, err)

	_, err = restoreSvc.Restore(ctx, []byte(mergeDoc), backup.RestoreOptions{Mode: backup.RestoreModeMerge, MergeStrategy: "newest"})
	assert.Error(t, err)
}
