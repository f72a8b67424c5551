package view

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/listenupapp/bookshelf/internal/domain"
)

// bookEnv is the environment a query expression sees for one book.
type bookEnv struct {
	ID        string   `expr:"id"`
	Title     string   `expr:"title"`
	Author    string   `expr:"author"`
	Publisher string   `expr:"publisher"`
	Year      string   `expr:"year"`
	Synopsis  string   `expr:"synopsis"`
	Image     string   `expr:"image"`
	Tags      []string `expr:"tags"`
	TagIDs    []string `expr:"tagIds"`
}

func newBookEnv(b domain.Book) bookEnv {
	labels := make([]string, len(b.Tags))
	for i, t := range b.Tags {
		labels[i] = t.Label
	}
	return bookEnv{
		ID:        b.ID,
		Title:     b.Title,
		Author:    b.Author,
		Publisher: b.Publisher,
		Year:      b.Year,
		Synopsis:  b.Synopsis,
		Image:     b.Image,
		Tags:      labels,
		TagIDs:    domain.TagIDs(b.Tags),
	}
}

// Query is a compiled boolean expression over a single book, for example
//
//	year >= "1960" && "Fiction" in tags
//
// Variables are the book fields by their JSON names. tags holds the resolved
// tag labels and tagIds their IDs.
type Query struct {
	source  string
	program *vm.Program
}

// CompileQuery parses and type-checks source.
func CompileQuery(source string) (*Query, error) {
	if source == "" {
		return nil, fmt.Errorf("query must not be empty")
	}

	program, err := expr.Compile(source, expr.Env(bookEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile query: %w", err)
	}
	return &Query{source: source, program: program}, nil
}

// String returns the query source.
func (q *Query) String() string {
	return q.source
}

// Match reports whether b satisfies the query.
func (q *Query) Match(b domain.Book) (bool, error) {
	out, err := expr.Run(q.program, newBookEnv(b))
	if err != nil {
		return false, fmt.Errorf("run query %q on book %s: %w", q.source, b.ID, err)
	}
	ok, _ := out.(bool)
	return ok, nil
}

// Select keeps the books matching q, in order.
func (q *Query) Select(books []domain.Book) ([]domain.Book, error) {
	out := make([]domain.Book, 0, len(books))
	for _, b := range books {
		ok, err := q.Match(b)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, b)
		}
	}
	return out, nil
}
