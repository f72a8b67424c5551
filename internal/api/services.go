package api

import (
	"github.com/listenupapp/bookshelf/internal/backup"
	"github.com/listenupapp/bookshelf/internal/catalog"
	"github.com/listenupapp/bookshelf/internal/service"
)

// Services groups the business logic used by the API server.
type Services struct {
	Catalog *catalog.Catalog
	Book    *service.BookService
	Tag     *service.TagService
	Search  *service.SearchService // nil when search is disabled
	Backup  *backup.BackupService
	Restore *backup.RestoreService
}
