package view

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/listenupapp/bookshelf/internal/domain"
)

var (
	tagFiction = domain.Tag{ID: "t1", Label: "Fiction"}
	tagClassic = domain.Tag{ID: "t2", Label: "Classic"}
	tagSciFi   = domain.Tag{ID: "t3", Label: "Sci-Fi"}
)

func rawBook(id, title string, tagIDs ...string) domain.RawBook {
	if tagIDs == nil {
		tagIDs = []string{}
	}
	return domain.RawBook{ID: id, Title: title, Author: "Author " + id, TagIDs: tagIDs}
}

func TestResolve_RegistryOrder(t *testing.T) {
	tags := []domain.Tag{tagFiction, tagClassic, tagSciFi}
	books := []domain.RawBook{rawBook("b1", "Dune", "t3", "t1")}

	got := Resolve(books, tags)

	assert.Len(t, got, 1)
	assert.Equal(t, []domain.Tag{tagFiction, tagSciFi}, got[0].Tags)
	assert.Equal(t, "Author b1", got[0].Author)
}

func TestResolve_DanglingAndDuplicateIDs(t *testing.T) {
	tags := []domain.Tag{tagFiction}
	books := []domain.RawBook{rawBook("b1", "Dune", "t1", "gone", "t1")}

	got := Resolve(books, tags)

	assert.Equal(t, []domain.Tag{tagFiction}, got[0].Tags)
}

func TestResolve_DoesNotMutateInputs(t *testing.T) {
	tags := []domain.Tag{tagFiction, tagClassic}
	books := []domain.RawBook{rawBook("b1", "Dune", "t2", "t1")}

	got := Resolve(books, tags)
	got[0].Tags[0].Label = "changed"

	assert.Equal(t, []string{"t2", "t1"}, books[0].TagIDs)
	assert.Equal(t, "Fiction", tags[0].Label)
}

func TestResolve_Empty(t *testing.T) {
	got := Resolve(nil, nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	book := ResolveBook(rawBook("b1", "Dune"), []domain.Tag{tagFiction})
	assert.NotNil(t, book.Tags)
	assert.Empty(t, book.Tags)
}

func TestDangling(t *testing.T) {
	tags := []domain.Tag{tagFiction}
	books := []domain.RawBook{
		rawBook("b1", "A", "x", "t1"),
		rawBook("b2", "B", "y", "x"),
	}

	assert.Equal(t, []string{"x", "y"}, Dangling(books, tags))
	assert.Empty(t, Dangling(books[:0], tags))
}

func TestSimplify(t *testing.T) {
	books := Resolve([]domain.RawBook{rawBook("b1", "Dune", "t1")}, []domain.Tag{tagFiction})
	books[0].Image = "cover.jpg"

	got := Simplify(books)

	assert.Equal(t, []domain.SimplifiedBook{{
		ID:     "b1",
		Title:  "Dune",
		Author: "Author b1",
		Image:  "cover.jpg",
		Tags:   []domain.Tag{tagFiction},
	}}, got)
}
