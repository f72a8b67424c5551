// Package view derives the read model of the catalog: raw books joined with
// the tag registry, then narrowed by title, tags or a query expression.
//
// Everything here is pure. Inputs are never modified and every result is
// freshly allocated.
package view

import "github.com/listenupapp/bookshelf/internal/domain"

// Resolve joins every book with the tag registry.
//
// A book's resolved tags are the registry entries whose ID appears in its
// tag IDs, in registry order. IDs with no registry entry are dropped, and a
// repeated ID yields its tag once.
func Resolve(books []domain.RawBook, tags []domain.Tag) []domain.Book {
	out := make([]domain.Book, 0, len(books))
	for _, b := range books {
		out = append(out, ResolveBook(b, tags))
	}
	return out
}

// ResolveBook joins a single book with the tag registry.
func ResolveBook(b domain.RawBook, tags []domain.Tag) domain.Book {
	ids := make(map[string]struct{}, len(b.TagIDs))
	for _, id := range b.TagIDs {
		ids[id] = struct{}{}
	}

	resolved := make([]domain.Tag, 0, len(ids))
	for _, t := range tags {
		if _, ok := ids[t.ID]; ok {
			resolved = append(resolved, t)
		}
	}

	return domain.Book{
		ID:        b.ID,
		Title:     b.Title,
		Author:    b.Author,
		Publisher: b.Publisher,
		Year:      b.Year,
		Synopsis:  b.Synopsis,
		Image:     b.Image,
		Tags:      resolved,
	}
}

// Dangling returns the tag IDs referenced by books that have no registry
// entry, each once, in order of first reference.
func Dangling(books []domain.RawBook, tags []domain.Tag) []string {
	known := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		known[t.ID] = struct{}{}
	}

	seen := make(map[string]struct{})
	var out []string
	for _, b := range books {
		for _, id := range b.TagIDs {
			if _, ok := known[id]; ok {
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}

// Simplify maps books to their listing form.
func Simplify(books []domain.Book) []domain.SimplifiedBook {
	out := make([]domain.SimplifiedBook, 0, len(books))
	for _, b := range books {
		out = append(out, b.Simplified())
	}
	return out
}
