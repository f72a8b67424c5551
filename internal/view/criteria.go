package view

import "github.com/listenupapp/bookshelf/internal/domain"

// Criteria combines every way a listing can be narrowed.
type Criteria struct {
	Title string
	Tags  []domain.Tag
	Query string
}

// IsZero reports whether c matches every book.
func (c Criteria) IsZero() bool {
	return c.Title == "" && len(c.Tags) == 0 && c.Query == ""
}

// Apply runs Filter and then, if set, the query expression.
func Apply(books []domain.Book, c Criteria) ([]domain.Book, error) {
	filtered := Filter(books, c.Title, c.Tags)
	if c.Query == "" {
		return filtered, nil
	}

	q, err := CompileQuery(c.Query)
	if err != nil {
		return nil, err
	}
	return q.Select(filtered)
}
