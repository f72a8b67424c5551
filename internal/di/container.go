// Package di provides dependency injection configuration for the Bookshelf server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/listenupapp/bookshelf/internal/backup"
	"github.com/listenupapp/bookshelf/internal/catalog"
	"github.com/listenupapp/bookshelf/internal/config"
	"github.com/listenupapp/bookshelf/internal/di/providers"
	"github.com/listenupapp/bookshelf/internal/logger"
	"github.com/listenupapp/bookshelf/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Storage layer
	do.Provide(injector, providers.ProvideBlobs)
	do.Provide(injector, providers.ProvideCatalog)

	// Search layer
	do.Provide(injector, providers.ProvideSearchIndex)
	do.Provide(injector, providers.ProvideSearchService)

	// Business services
	do.Provide(injector, providers.ProvideBookService)
	do.Provide(injector, providers.ProvideTagService)
	do.Provide(injector, providers.ProvideBackupService)
	do.Provide(injector, providers.ProvideRestoreService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	for _, invoke := range []func(do.Injector) error{
		invokeAs[*config.Config],
		invokeAs[*logger.Logger],
		invokeAs[*providers.BlobsHandle],
		invokeAs[*catalog.Catalog],
		invokeAs[*providers.SearchIndexHandle],
		invokeAs[*service.SearchService],
		invokeAs[*service.BookService],
		invokeAs[*service.TagService],
		invokeAs[*backup.BackupService],
		invokeAs[*backup.RestoreService],
		invokeAs[*providers.HTTPServerHandle],
	} {
		if err := invoke(injector); err != nil {
			return err
		}
	}

	// Trigger search reindex if needed
	providers.TriggerSearchReindexIfNeeded(injector)

	return nil
}

func invokeAs[T any](i do.Injector) error {
	_, err := do.Invoke[T](i)
	return err
}
