package providers

import (
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/listenupapp/bookshelf/internal/backup"
	"github.com/listenupapp/bookshelf/internal/catalog"
	"github.com/listenupapp/bookshelf/internal/config"
	"github.com/listenupapp/bookshelf/internal/logger"
	"github.com/listenupapp/bookshelf/internal/service"
)

// attachSearchIndexer resolves the search service so the catalog indexer is
// installed before any service can mutate the catalog.
func attachSearchIndexer(i do.Injector) error {
	_, err := do.Invoke[*service.SearchService](i)
	return err
}

// ProvideBookService provides the book service.
func ProvideBookService(i do.Injector) (*service.BookService, error) {
	if err := attachSearchIndexer(i); err != nil {
		return nil, err
	}
	c := do.MustInvoke[*catalog.Catalog](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewBookService(c, log.Component("books")), nil
}

// ProvideTagService provides the tag service.
func ProvideTagService(i do.Injector) (*service.TagService, error) {
	if err := attachSearchIndexer(i); err != nil {
		return nil, err
	}
	c := do.MustInvoke[*catalog.Catalog](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewTagService(c, log.Component("tags")), nil
}

// ProvideBackupService provides the backup service.
func ProvideBackupService(i do.Injector) (*backup.BackupService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	c := do.MustInvoke[*catalog.Catalog](i)
	log := do.MustInvoke[*logger.Logger](i)

	backupDir := cfg.Storage.BackupPath
	if backupDir == "" {
		// Memory backend without a data path; keep backups beside the binary.
		backupDir = filepath.Join(".", "backups")
	}

	return backup.NewBackupService(c, backupDir, cfg.App.Version, log.Component("backup")), nil
}

// ProvideRestoreService provides the restore service.
func ProvideRestoreService(i do.Injector) (*backup.RestoreService, error) {
	if err := attachSearchIndexer(i); err != nil {
		return nil, err
	}
	c := do.MustInvoke[*catalog.Catalog](i)
	log := do.MustInvoke[*logger.Logger](i)
	return backup.NewRestoreService(c, log.Component("restore")), nil
}
