// Package catalog owns the book collection and the tag registry.
//
// Both collections are held in store cells under the keys BOOKS and TAGS and
// are written back in full after every change. Books reference tags by ID.
// Deleting a tag leaves its ID in every book that carried it: such dangling
// IDs are skipped when books are resolved and reported by DanglingTagIDs,
// but are never removed automatically.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/listenupapp/bookshelf/internal/domain"
	"github.com/listenupapp/bookshelf/internal/store"
	"github.com/listenupapp/bookshelf/internal/view"
)

// Storage keys.
const (
	BooksKey = "BOOKS"
	TagsKey  = "TAGS"
)

var (
	// ErrTagExists is returned when a caller-chosen tag ID is already in use.
	ErrTagExists = errors.New("tag id already in use")

	// ErrDuplicateID is returned by Replace when a collection repeats an ID.
	ErrDuplicateID = errors.New("duplicate id")

	// ErrEmptyID is returned by Replace for a record without an ID.
	ErrEmptyID = errors.New("empty id")
)

// Catalog is the in-memory book collection and tag registry, persisted
// through a store.Blobs backend.
//
// Mutations are serialized. Every successful mutation performs exactly one
// write per collection it changes; operations on unknown IDs report false
// and write nothing.
type Catalog struct {
	books  *store.Cell[[]domain.RawBook]
	tags   *store.Cell[[]domain.Tag]
	logger *slog.Logger

	mu      sync.RWMutex
	gen     uint64
	indexer SearchIndexer

	memoMu  sync.Mutex
	memoGen uint64
	memo    []domain.Book
}

// Open loads both collections from blobs, starting empty where nothing has
// been stored yet.
func Open(ctx context.Context, blobs store.Blobs, logger *slog.Logger) (*Catalog, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	tags, err := store.NewCellFunc(ctx, blobs, TagsKey, func() []domain.Tag { return []domain.Tag{} }, logger)
	if err != nil {
		return nil, fmt.Errorf("load tags: %w", err)
	}

	books, err := store.NewCellFunc(ctx, blobs, BooksKey, func() []domain.RawBook { return []domain.RawBook{} }, logger)
	if err != nil {
		return nil, fmt.Errorf("load books: %w", err)
	}

	c := &Catalog{
		books:   books,
		tags:    tags,
		logger:  logger,
		gen:     1,
		indexer: NoopSearchIndexer{},
	}

	logger.Debug("catalog loaded",
		"books", len(books.Get()),
		"tags", len(tags.Get()),
	)

	return c, nil
}

// SetSearchIndexer installs the index notified after each mutation.
func (c *Catalog) SetSearchIndexer(indexer SearchIndexer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if indexer == nil {
		indexer = NoopSearchIndexer{}
	}
	c.indexer = indexer
}

// Tags returns the tag registry in insertion order. The slice is shared and
// must not be modified.
func (c *Catalog) Tags() []domain.Tag {
	return c.tags.Get()
}

// Tag returns the tag with the given ID.
func (c *Catalog) Tag(tagID string) (domain.Tag, bool) {
	tags := c.tags.Get()
	if i := domain.IndexOfTag(tags, tagID); i >= 0 {
		return tags[i], true
	}
	return domain.Tag{}, false
}

// RawBooks returns the stored book collection. The slice is shared and must
// not be modified.
func (c *Catalog) RawBooks() []domain.RawBook {
	return c.books.Get()
}

// Books returns every book resolved against the tag registry. The result is
// computed once per change to either collection; it is shared between
// callers and must not be modified.
func (c *Catalog) Books() []domain.Book {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.resolvedLocked()
}

func (c *Catalog) resolvedLocked() []domain.Book {
	c.memoMu.Lock()
	defer c.memoMu.Unlock()

	if c.memo != nil && c.memoGen == c.gen {
		return c.memo
	}
	c.memo = view.Resolve(c.books.Get(), c.tags.Get())
	c.memoGen = c.gen
	return c.memo
}

// Book returns the resolved book with the given ID.
func (c *Catalog) Book(bookID string) (domain.Book, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	raw, ok := findBook(c.books.Get(), bookID)
	if !ok {
		return domain.Book{}, false
	}
	return view.ResolveBook(raw, c.tags.Get()), true
}

// Find returns the resolved books matching criteria, in collection order.
func (c *Catalog) Find(criteria view.Criteria) ([]domain.Book, error) {
	return view.Apply(c.Books(), criteria)
}

// DanglingTagIDs returns tag IDs referenced by books but missing from the
// registry.
func (c *Catalog) DanglingTagIDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return view.Dangling(c.books.Get(), c.tags.Get())
}

// Replace swaps both collections for the given ones, as a restore does.
// IDs must be non-empty and unique within each collection; tag references
// are not checked.
func (c *Catalog) Replace(ctx context.Context, books []domain.RawBook, tags []domain.Tag) error {
	return c.Update(ctx, func([]domain.RawBook, []domain.Tag) ([]domain.RawBook, []domain.Tag, error) {
		return books, tags, nil
	})
}

// Update swaps both collections for what fn derives from the current ones.
// fn runs under the catalog lock, so no mutation lands between reading and
// replacing; it must not call back into the catalog or modify the slices it
// is given. An error from fn
// leaves the catalog untouched.
func (c *Catalog) Update(ctx context.Context, fn func(books []domain.RawBook, tags []domain.Tag) ([]domain.RawBook, []domain.Tag, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	books, tags, err := fn(c.books.Get(), c.tags.Get())
	if err != nil {
		return err
	}
	if err := checkIDs(books, tags); err != nil {
		return err
	}

	nextBooks := make([]domain.RawBook, len(books))
	for i, b := range books {
		nextBooks[i] = b.Clone()
	}
	nextTags := append([]domain.Tag{}, tags...)

	prevTags := c.tags.Get()
	if err := c.tags.Set(ctx, nextTags); err != nil {
		return fmt.Errorf("replace tags: %w", err)
	}
	if err := c.books.Set(ctx, nextBooks); err != nil {
		// Keep the pair consistent with what is stored for books.
		if rerr := c.tags.Set(context.WithoutCancel(ctx), prevTags); rerr != nil {
			c.logger.Error("failed to roll back tags after restore failure", "error", rerr)
		}
		c.gen++
		return fmt.Errorf("replace books: %w", err)
	}
	c.gen++

	c.logger.Info("catalog replaced", "books", len(nextBooks), "tags", len(nextTags))

	if err := c.indexer.Rebuild(ctx, c.resolvedLocked()); err != nil {
		c.logger.Warn("failed to rebuild search index", "error", err)
	}
	return nil
}

func checkIDs(books []domain.RawBook, tags []domain.Tag) error {
	seen := make(map[string]struct{}, len(tags))
	for i, t := range tags {
		if t.ID == "" {
			return fmt.Errorf("tag %d: %w", i, ErrEmptyID)
		}
		if _, dup := seen[t.ID]; dup {
			return fmt.Errorf("tag %s: %w", t.ID, ErrDuplicateID)
		}
		seen[t.ID] = struct{}{}
	}

	clear(seen)
	for i, b := range books {
		if b.ID == "" {
			return fmt.Errorf("book %d: %w", i, ErrEmptyID)
		}
		if _, dup := seen[b.ID]; dup {
			return fmt.Errorf("book %s: %w", b.ID, ErrDuplicateID)
		}
		seen[b.ID] = struct{}{}
	}
	return nil
}
