package catalog

import (
	"context"

	"github.com/listenupapp/bookshelf/internal/domain"
	"github.com/listenupapp/bookshelf/internal/view"
)

// SearchIndexer keeps a search index in step with the catalog.
// Calls are best effort: failures are logged and never undo a mutation.
type SearchIndexer interface {
	IndexBook(ctx context.Context, book *domain.Book) error
	DeleteBook(ctx context.Context, bookID string) error
	Rebuild(ctx context.Context, books []domain.Book) error
}

// NoopSearchIndexer is a no-op implementation for testing.
type NoopSearchIndexer struct{}

func (NoopSearchIndexer) IndexBook(context.Context, *domain.Book) error { return nil }
func (NoopSearchIndexer) DeleteBook(context.Context, string) error      { return nil }
func (NoopSearchIndexer) Rebuild(context.Context, []domain.Book) error  { return nil }

// RebuildIndex replaces the content of indexer with the resolved catalog.
// Mutations wait until it returns, so none is lost between reading the
// books and rebuilding.
func (c *Catalog) RebuildIndex(ctx context.Context, indexer SearchIndexer) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return indexer.Rebuild(ctx, c.resolvedLocked())
}

// indexBooks reindexes the resolved form of every book in raw.
func (c *Catalog) indexBooks(ctx context.Context, raw []domain.RawBook) {
	if len(raw) == 0 {
		return
	}
	tags := c.tags.Get()
	for _, b := range raw {
		resolved := view.ResolveBook(b, tags)
		if err := c.indexer.IndexBook(ctx, &resolved); err != nil {
			c.logger.Warn("failed to index book", "book_id", b.ID, "error", err)
		}
	}
}

func (c *Catalog) unindexBook(ctx context.Context, bookID string) {
	if err := c.indexer.DeleteBook(ctx, bookID); err != nil {
		c.logger.Warn("failed to remove book from index", "book_id", bookID, "error", err)
	}
}
