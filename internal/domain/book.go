package domain

import "slices"

// RawBook is the persisted book record. Tags are referenced by ID only;
// an ID may outlive the tag it names (see catalog.Catalog.DeleteTag).
//
// JSON field names match the stored blob format.
type RawBook struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Author    string   `json:"author"`
	Publisher string   `json:"publisher"`
	Year      string   `json:"year"`
	Synopsis  string   `json:"synopsis"`
	Image     string   `json:"image"`
	TagIDs    []string `json:"tagIds"`
}

// HasTag reports whether the book references tagID.
func (b RawBook) HasTag(tagID string) bool {
	return slices.Contains(b.TagIDs, tagID)
}

// Clone returns a copy that shares no slices with b.
func (b RawBook) Clone() RawBook {
	b.TagIDs = slices.Clone(b.TagIDs)
	if b.TagIDs == nil {
		b.TagIDs = []string{}
	}
	return b
}

// BookData is the user-entered content of a book: every RawBook field except
// the ID, with tags given as full objects.
type BookData struct {
	Title     string `json:"title"`
	Author    string `json:"author"`
	Publisher string `json:"publisher"`
	Year      string `json:"year"`
	Synopsis  string `json:"synopsis"`
	Image     string `json:"image"`
	Tags      []Tag  `json:"tags"`
}

// ToRawBook builds the persisted form of data under the given ID.
func (d BookData) ToRawBook(bookID string) RawBook {
	return RawBook{
		ID:        bookID,
		Title:     d.Title,
		Author:    d.Author,
		Publisher: d.Publisher,
		Year:      d.Year,
		Synopsis:  d.Synopsis,
		Image:     d.Image,
		TagIDs:    TagIDs(d.Tags),
	}
}

// Book is a RawBook with its tag IDs resolved against the tag registry.
type Book struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Publisher string `json:"publisher"`
	Year      string `json:"year"`
	Synopsis  string `json:"synopsis"`
	Image     string `json:"image"`
	Tags      []Tag  `json:"tags"`
}

// HasTag reports whether tagID is among the resolved tags.
func (b Book) HasTag(tagID string) bool {
	return IndexOfTag(b.Tags, tagID) >= 0
}

// Data returns the editable content of the book.
func (b Book) Data() BookData {
	return BookData{
		Title:     b.Title,
		Author:    b.Author,
		Publisher: b.Publisher,
		Year:      b.Year,
		Synopsis:  b.Synopsis,
		Image:     b.Image,
		Tags:      slices.Clone(b.Tags),
	}
}

// Simplified returns the list-card form of the book.
func (b Book) Simplified() SimplifiedBook {
	return SimplifiedBook{
		ID:     b.ID,
		Title:  b.Title,
		Author: b.Author,
		Image:  b.Image,
		Tags:   b.Tags,
	}
}

// SimplifiedBook is the subset of Book shown in catalog listings.
type SimplifiedBook struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Image  string `json:"image"`
	Tags   []Tag  `json:"tags"`
}
