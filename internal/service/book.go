// Package service provides the business logic layer over the catalog:
// request validation, domain errors for missing records, and logging.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/listenupapp/bookshelf/internal/catalog"
	"github.com/listenupapp/bookshelf/internal/domain"
	"github.com/listenupapp/bookshelf/internal/errors"
	"github.com/listenupapp/bookshelf/internal/validation"
	"github.com/listenupapp/bookshelf/internal/view"
)

// BookService orchestrates book operations.
type BookService struct {
	catalog   *catalog.Catalog
	logger    *slog.Logger
	validator *validation.Validator
}

// NewBookService creates a new book service.
func NewBookService(catalog *catalog.Catalog, logger *slog.Logger) *BookService {
	return &BookService{
		catalog:   catalog,
		logger:    logger,
		validator: validation.New(),
	}
}

// ListBooksRequest narrows a book listing.
type ListBooksRequest struct {
	Title  string   `json:"title" validate:"max=500"`
	TagIDs []string `json:"tagIds" validate:"dive,required"`
	Query  string   `json:"q" validate:"max=1000"`
}

// ListBooks returns the books matching req in their listing form, in
// catalog order.
func (s *BookService) ListBooks(ctx context.Context, req ListBooksRequest) ([]domain.SimplifiedBook, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	tags := make([]domain.Tag, len(req.TagIDs))
	for i, tagID := range req.TagIDs {
		tags[i] = domain.Tag{ID: tagID}
	}

	if req.Query != "" {
		if _, err := view.CompileQuery(req.Query); err != nil {
			return nil, errors.ValidationWithDetails("invalid query", map[string]string{"q": err.Error()})
		}
	}

	books, err := s.catalog.Find(view.Criteria{Title: req.Title, Tags: tags, Query: req.Query})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeValidation, "query failed")
	}

	return view.Simplify(books), nil
}

// GetBook returns a resolved book.
func (s *BookService) GetBook(_ context.Context, bookID string) (domain.Book, error) {
	book, ok := s.catalog.Book(bookID)
	if !ok {
		return domain.Book{}, errors.NotFoundf("book %s not found", bookID)
	}
	return book, nil
}

// BookRequest contains the fields of a book as entered by a user.
// Every text field is required.
type BookRequest struct {
	Title     string   `json:"title" validate:"notblank,max=500"`
	Author    string   `json:"author" validate:"notblank,max=500"`
	Publisher string   `json:"publisher" validate:"notblank,max=500"`
	Year      string   `json:"year" validate:"notblank,max=32"`
	Synopsis  string   `json:"synopsis" validate:"notblank,max=20000"`
	Image     string   `json:"image" validate:"notblank,max=2048"`
	TagIDs    []string `json:"tagIds" validate:"dive,required"`
}

// bookData validates req and resolves its tag IDs against the registry.
func (s *BookService) bookData(req BookRequest) (domain.BookData, error) {
	if err := s.validator.Validate(req); err != nil {
		return domain.BookData{}, err
	}

	// Checked outside the catalog lock: a tag deleted before the write
	// lands leaves a dangling ID, which reads already tolerate.
	tags := make([]domain.Tag, 0, len(req.TagIDs))
	unknown := make(map[string]string)
	for i, tagID := range req.TagIDs {
		tag, ok := s.catalog.Tag(tagID)
		if !ok {
			unknown[fmt.Sprintf("tagIds[%d]", i)] = "unknown tag " + tagID
			continue
		}
		tags = append(tags, tag)
	}
	if len(unknown) > 0 {
		return domain.BookData{}, errors.ValidationWithDetails("validation failed", unknown)
	}

	return domain.BookData{
		Title:     req.Title,
		Author:    req.Author,
		Publisher: req.Publisher,
		Year:      req.Year,
		Synopsis:  req.Synopsis,
		Image:     req.Image,
		Tags:      tags,
	}, nil
}

// CreateBook validates req and adds a new book.
func (s *BookService) CreateBook(ctx context.Context, req BookRequest) (domain.Book, error) {
	data, err := s.bookData(req)
	if err != nil {
		return domain.Book{}, err
	}

	raw, err := s.catalog.CreateBook(ctx, data)
	if err != nil {
		return domain.Book{}, fmt.Errorf("create book: %w", err)
	}

	s.logger.Info("book created",
		"book_id", raw.ID,
		"title", raw.Title,
		"tags", len(raw.TagIDs),
	)

	return s.GetBook(ctx, raw.ID)
}

// UpdateBook replaces every field of a book with req.
func (s *BookService) UpdateBook(ctx context.Context, bookID string, req BookRequest) (domain.Book, error) {
	data, err := s.bookData(req)
	if err != nil {
		return domain.Book{}, err
	}

	found, err := s.catalog.UpdateBook(ctx, bookID, data)
	if err != nil {
		return domain.Book{}, fmt.Errorf("update book: %w", err)
	}
	if !found {
		return domain.Book{}, errors.NotFoundf("book %s not found", bookID)
	}

	s.logger.Info("book updated", "book_id", bookID, "title", data.Title)

	return s.GetBook(ctx, bookID)
}

// DeleteBook removes a book.
func (s *BookService) DeleteBook(ctx context.Context, bookID string) error {
	found, err := s.catalog.DeleteBook(ctx, bookID)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if !found {
		return errors.NotFoundf("book %s not found", bookID)
	}

	s.logger.Info("book deleted", "book_id", bookID)
	return nil
}
