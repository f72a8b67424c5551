// Package search provides full-text search over the catalog using Bleve.
// Books are indexed in their resolved form, so tag labels are searchable
// and filterable alongside the book's own text.
package search

import (
	"strconv"
	"strings"

	"github.com/listenupapp/bookshelf/internal/domain"
)

// SearchDocument is the indexed form of a book.
type SearchDocument struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Author    string   `json:"author,omitempty"`
	Publisher string   `json:"publisher,omitempty"`
	Synopsis  string   `json:"synopsis,omitempty"`
	Year      int      `json:"year,omitempty"`
	Tags      []string `json:"tags,omitempty"`    // Resolved tag labels
	TagIDs    []string `json:"tag_ids,omitempty"` // Resolved tag IDs
}

// ToMap converts the document to a map with the field names used by the
// index mapping.
func (d *SearchDocument) ToMap() map[string]any {
	m := map[string]any{
		"id":    d.ID,
		"title": d.Title,
	}

	if d.Author != "" {
		m["author"] = d.Author
		m["author_exact"] = d.Author
	}
	if d.Publisher != "" {
		m["publisher"] = d.Publisher
	}
	if d.Synopsis != "" {
		m["synopsis"] = d.Synopsis
	}
	if d.Year > 0 {
		m["year"] = d.Year
	}
	if len(d.Tags) > 0 {
		m["tags"] = d.Tags
	}
	if len(d.TagIDs) > 0 {
		m["tag_ids"] = d.TagIDs
	}

	return m
}

// BookToSearchDocument converts a resolved book to a SearchDocument.
// Dangling tag references are already gone from a resolved book and are
// therefore never indexed.
func BookToSearchDocument(book *domain.Book) *SearchDocument {
	doc := &SearchDocument{
		ID:        book.ID,
		Title:     book.Title,
		Author:    book.Author,
		Publisher: book.Publisher,
		Synopsis:  book.Synopsis,
	}

	// Year is free text; index it only when it is a plain number.
	if year, err := strconv.Atoi(strings.TrimSpace(book.Year)); err == nil && year > 0 {
		doc.Year = year
	}

	for _, t := range book.Tags {
		doc.Tags = append(doc.Tags, t.Label)
		doc.TagIDs = append(doc.TagIDs, t.ID)
	}

	return doc
}
