package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/listenupapp/bookshelf/internal/catalog"
	"github.com/listenupapp/bookshelf/internal/config"
	"github.com/listenupapp/bookshelf/internal/logger"
	"github.com/listenupapp/bookshelf/internal/search"
	"github.com/listenupapp/bookshelf/internal/service"
)

// SearchIndexHandle wraps the search index with shutdown capability.
// SearchIndex is nil when search is disabled.
type SearchIndexHandle struct {
	*search.SearchIndex
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	if h.SearchIndex == nil {
		return nil
	}
	return h.Close()
}

// ProvideSearchIndex provides the Bleve search index. It lives next to the
// catalog, or in memory when the catalog has no data directory.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !cfg.Search.Enabled {
		log.Info("Search disabled by configuration")
		return &SearchIndexHandle{}, nil
	}

	index, err := search.NewSearchIndex(search.Options{
		DataPath: cfg.Storage.DataPath,
		Logger:   log.Component("search"),
	})
	if err != nil {
		return nil, err
	}

	docCount, _ := index.DocumentCount()
	log.Info("Search index initialized", "documents", docCount)

	return &SearchIndexHandle{SearchIndex: index}, nil
}

// ProvideSearchService provides the search service and installs it as the
// catalog's indexer. It returns nil when search is disabled.
func ProvideSearchService(i do.Injector) (*service.SearchService, error) {
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	if indexHandle.SearchIndex == nil {
		return nil, nil
	}

	c := do.MustInvoke[*catalog.Catalog](i)
	log := do.MustInvoke[*logger.Logger](i)

	svc := service.NewSearchService(indexHandle.SearchIndex, c, log.Component("search"))

	// Wire to catalog for automatic indexing
	c.SetSearchIndexer(svc)

	return svc, nil
}

// TriggerSearchReindexIfNeeded rebuilds the index when it is out of step
// with the catalog. Should be called after all services are wired.
func TriggerSearchReindexIfNeeded(i do.Injector) {
	searchService := do.MustInvoke[*service.SearchService](i)
	if searchService == nil {
		return
	}

	c := do.MustInvoke[*catalog.Catalog](i)
	log := do.MustInvoke[*logger.Logger](i)

	docCount, _ := searchService.DocumentCount()
	books := len(c.RawBooks())
	if docCount == uint64(books) {
		return
	}

	log.Info("Search index out of step with catalog, triggering reindex",
		"documents", docCount,
		"book_count", books,
	)

	go func() {
		if err := searchService.ReindexAll(context.Background()); err != nil {
			log.Error("Search reindex failed", "error", err)
			return
		}
		count, _ := searchService.DocumentCount()
		log.Info("Search reindex completed", "documents", count)
	}()
}
