package catalog

import (
	"context"
	"slices"

	"github.com/listenupapp/bookshelf/internal/domain"
	"github.com/listenupapp/bookshelf/internal/id"
)

// CreateBook appends a book built from data under a fresh ID. Its tag IDs
// are the IDs of data.Tags, in order.
func (c *Catalog) CreateBook(ctx context.Context, data domain.BookData) (domain.RawBook, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	current := c.books.Get()
	bookID, err := id.GenerateUnique(id.PrefixBook, func(candidate string) bool {
		_, ok := findBook(current, candidate)
		return ok
	})
	if err != nil {
		return domain.RawBook{}, err
	}

	book := data.ToRawBook(bookID)
	_, err = c.books.Update(ctx, func(prev []domain.RawBook) []domain.RawBook {
		return append(slices.Clip(prev), book)
	})
	if err != nil {
		return domain.RawBook{}, err
	}
	c.gen++

	c.indexBooks(ctx, []domain.RawBook{book})
	return book.Clone(), nil
}

// UpdateBook replaces every field of a book except its ID with data,
// recomputing its tag IDs from data.Tags. It reports false, writing nothing,
// if no book has the ID.
func (c *Catalog) UpdateBook(ctx context.Context, bookID string, data domain.BookData) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := findBook(c.books.Get(), bookID); !ok {
		return false, nil
	}

	book := data.ToRawBook(bookID)
	_, err := c.books.Update(ctx, func(prev []domain.RawBook) []domain.RawBook {
		next := slices.Clone(prev)
		next[indexOfBook(next, bookID)] = book
		return next
	})
	if err != nil {
		return false, err
	}
	c.gen++

	c.indexBooks(ctx, []domain.RawBook{book})
	return true, nil
}

// DeleteBook removes a book. It reports false, writing nothing, if no book
// has the ID.
func (c *Catalog) DeleteBook(ctx context.Context, bookID string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := findBook(c.books.Get(), bookID); !ok {
		return false, nil
	}

	_, err := c.books.Update(ctx, func(prev []domain.RawBook) []domain.RawBook {
		return slices.DeleteFunc(slices.Clone(prev), func(b domain.RawBook) bool {
			return b.ID == bookID
		})
	})
	if err != nil {
		return false, err
	}
	c.gen++

	c.unindexBook(ctx, bookID)
	return true, nil
}

func indexOfBook(books []domain.RawBook, bookID string) int {
	return slices.IndexFunc(books, func(b domain.RawBook) bool { return b.ID == bookID })
}

func findBook(books []domain.RawBook, bookID string) (domain.RawBook, bool) {
	if i := indexOfBook(books, bookID); i >= 0 {
		return books[i], true
	}
	return domain.RawBook{}, false
}
