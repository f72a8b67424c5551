package view

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/listenupapp/bookshelf/internal/domain"
)

// Filter keeps the books whose title contains titleQuery, ignoring case,
// and that carry every tag in tagQuery. An empty titleQuery or tagQuery
// matches everything. Collection order is preserved.
//
// Tags are compared by ID only; labels in tagQuery are ignored.
func Filter(books []domain.Book, titleQuery string, tagQuery []domain.Tag) []domain.Book {
	fold := cases.Fold()
	needle := fold.String(titleQuery)

	out := make([]domain.Book, 0, len(books))
	for _, b := range books {
		if needle != "" && !strings.Contains(fold.String(b.Title), needle) {
			continue
		}
		if !hasAllTags(b, tagQuery) {
			continue
		}
		out = append(out, b)
	}
	return out
}

func hasAllTags(b domain.Book, tagQuery []domain.Tag) bool {
	for _, t := range tagQuery {
		if !b.HasTag(t.ID) {
			return false
		}
	}
	return true
}
