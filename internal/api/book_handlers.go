package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/bookshelf/internal/domain"
	"github.com/listenupapp/bookshelf/internal/service"
)

func (s *Server) registerBookRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/books",
		Summary:     "List books",
		Description: "Returns the catalog in listing form, optionally filtered by title, tags and a query expression",
		Tags:        []string{"Books"},
	}, s.handleListBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBook",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}",
		Summary:     "Get book",
		Description: "Returns a book with its tags resolved",
		Tags:        []string{"Books"},
	}, s.handleGetBook)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createBook",
		Method:        http.MethodPost,
		Path:          "/api/v1/books",
		Summary:       "Create book",
		Description:   "Adds a book with a generated ID",
		Tags:          []string{"Books"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateBook",
		Method:      http.MethodPut,
		Path:        "/api/v1/books/{id}",
		Summary:     "Update book",
		Description: "Replaces every field of a book except its ID",
		Tags:        []string{"Books"},
	}, s.handleUpdateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteBook",
		Method:      http.MethodDelete,
		Path:        "/api/v1/books/{id}",
		Summary:     "Delete book",
		Description: "Removes a book from the catalog",
		Tags:        []string{"Books"},
	}, s.handleDeleteBook)
}

// === DTOs ===

// ListBooksInput contains parameters for listing books.
type ListBooksInput struct {
	Title string `query:"title" maxLength:"500" doc:"Case-insensitive title substring"`
	Tags  string `query:"tag" doc:"Comma-separated tag IDs; books must carry all of them"`
	Query string `query:"q" maxLength:"1000" doc:"Query expression, e.g. year >= \"1950\" && \"Classics\" in tags"`
}

// ListBooksResponse contains a list of books in listing form.
type ListBooksResponse struct {
	Books []domain.SimplifiedBook `json:"books" doc:"Matching books in catalog order"`
	Total int                     `json:"total" doc:"Number of matching books"`
}

// ListBooksOutput wraps the list books response for Huma.
type ListBooksOutput struct {
	Body ListBooksResponse
}

// BookIDInput addresses a single book.
type BookIDInput struct {
	ID string `path:"id" doc:"Book ID"`
}

// BookBody is the request body for creating or updating a book.
type BookBody struct {
	Title     string   `json:"title" maxLength:"500" doc:"Title"`
	Author    string   `json:"author" maxLength:"500" doc:"Author"`
	Publisher string   `json:"publisher" maxLength:"500" doc:"Publisher"`
	Year      string   `json:"year" maxLength:"32" doc:"Publication year as entered"`
	Synopsis  string   `json:"synopsis" maxLength:"20000" doc:"Synopsis"`
	Image     string   `json:"image" maxLength:"2048" doc:"Cover image URL"`
	TagIDs    []string `json:"tagIds,omitempty" doc:"IDs of registry tags to attach"`
}

func (b BookBody) request() service.BookRequest {
	return service.BookRequest{
		Title:     b.Title,
		Author:    b.Author,
		Publisher: b.Publisher,
		Year:      b.Year,
		Synopsis:  b.Synopsis,
		Image:     b.Image,
		TagIDs:    b.TagIDs,
	}
}

// CreateBookInput wraps the create book request for Huma.
type CreateBookInput struct {
	Body BookBody
}

// UpdateBookInput wraps the update book request for Huma.
type UpdateBookInput struct {
	ID   string `path:"id" doc:"Book ID"`
	Body BookBody
}

// BookOutput wraps a resolved book for Huma.
type BookOutput struct {
	Body domain.Book
}

// === Handlers ===

func (s *Server) handleListBooks(ctx context.Context, input *ListBooksInput) (*ListBooksOutput, error) {
	books, err := s.services.Book.ListBooks(ctx, service.ListBooksRequest{
		Title:  input.Title,
		TagIDs: splitIDs(input.Tags),
		Query:  input.Query,
	})
	if err != nil {
		return nil, err
	}

	return &ListBooksOutput{Body: ListBooksResponse{Books: books, Total: len(books)}}, nil
}

func (s *Server) handleGetBook(ctx context.Context, input *BookIDInput) (*BookOutput, error) {
	book, err := s.services.Book.GetBook(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: book}, nil
}

func (s *Server) handleCreateBook(ctx context.Context, input *CreateBookInput) (*BookOutput, error) {
	book, err := s.services.Book.CreateBook(ctx, input.Body.request())
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: book}, nil
}

func (s *Server) handleUpdateBook(ctx context.Context, input *UpdateBookInput) (*BookOutput, error) {
	book, err := s.services.Book.UpdateBook(ctx, input.ID, input.Body.request())
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: book}, nil
}

func (s *Server) handleDeleteBook(ctx context.Context, input *BookIDInput) (*MessageOutput, error) {
	if err := s.services.Book.DeleteBook(ctx, input.ID); err != nil {
		return nil, err
	}

	return message("Book deleted"), nil
}
