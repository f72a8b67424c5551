package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/listenupapp/bookshelf/internal/catalog"
	"github.com/listenupapp/bookshelf/internal/config"
	"github.com/listenupapp/bookshelf/internal/logger"
	"github.com/listenupapp/bookshelf/internal/store"
	"github.com/listenupapp/bookshelf/internal/store/backend"
)

// BlobsHandle wraps the storage backend with shutdown capability.
type BlobsHandle struct {
	store.Blobs
	Kind backend.Kind
}

// Shutdown implements do.Shutdownable.
func (h *BlobsHandle) Shutdown() error {
	return h.Close()
}

// ProvideBlobs opens the configured storage backend.
func ProvideBlobs(i do.Injector) (*BlobsHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	blobs, err := backend.Open(cfg.Storage.Backend, cfg.Storage.DataPath, log.Component("store"))
	if err != nil {
		return nil, err
	}

	log.Info("Storage initialized",
		"backend", cfg.Storage.Backend,
		"path", backend.Path(cfg.Storage.Backend, cfg.Storage.DataPath),
	)

	return &BlobsHandle{Blobs: blobs, Kind: cfg.Storage.Backend}, nil
}

// ProvideCatalog loads both collections from storage, falling back to
// empty ones when a blob is missing or unreadable.
func ProvideCatalog(i do.Injector) (*catalog.Catalog, error) {
	log := do.MustInvoke[*logger.Logger](i)
	blobs := do.MustInvoke[*BlobsHandle](i)

	c, err := catalog.Open(context.Background(), blobs.Blobs, log.Component("catalog"))
	if err != nil {
		return nil, err
	}

	log.Info("Catalog loaded",
		"books", len(c.RawBooks()),
		"tags", len(c.Tags()),
	)

	if dangling := c.DanglingTagIDs(); len(dangling) > 0 {
		log.Warn("Books reference tags missing from the registry",
			"count", len(dangling),
			"tag_ids", dangling,
		)
	}

	return c, nil
}
