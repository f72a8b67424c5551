package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/listenupapp/bookshelf/internal/catalog"
	"github.com/listenupapp/bookshelf/internal/domain"
	"github.com/listenupapp/bookshelf/internal/search"
)

// Search limits.
const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

// SearchService bridges the search index with the catalog. It is installed
// as the catalog's SearchIndexer so the index follows every mutation.
type SearchService struct {
	index   *search.SearchIndex
	catalog *catalog.Catalog
	logger  *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(index *search.SearchIndex, catalog *catalog.Catalog, logger *slog.Logger) *SearchService {
	return &SearchService{
		index:   index,
		catalog: catalog,
		logger:  logger,
	}
}

// Search runs a full-text query over the catalog.
func (s *SearchService) Search(ctx context.Context, params search.SearchParams) (*search.SearchResult, error) {
	if params.Limit <= 0 {
		params.Limit = defaultSearchLimit
	}
	params.Limit = min(params.Limit, maxSearchLimit)
	params.Offset = max(params.Offset, 0)

	return s.index.Search(ctx, params)
}

// IndexBook indexes a single resolved book.
func (s *SearchService) IndexBook(_ context.Context, book *domain.Book) error {
	if err := s.index.IndexDocument(search.BookToSearchDocument(book)); err != nil {
		return fmt.Errorf("index document: %w", err)
	}

	s.logger.Debug("indexed book", "id", book.ID, "title", book.Title)
	return nil
}

// DeleteBook removes a book from the index.
func (s *SearchService) DeleteBook(_ context.Context, bookID string) error {
	if err := s.index.DeleteDocument(bookID); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

// Rebuild replaces the index content with books.
func (s *SearchService) Rebuild(_ context.Context, books []domain.Book) error {
	docs := make([]*search.SearchDocument, len(books))
	for i := range books {
		docs[i] = search.BookToSearchDocument(&books[i])
	}

	if err := s.index.Reset(docs); err != nil {
		return fmt.Errorf("rebuild index: %w", err)
	}

	s.logger.Info("search index rebuilt", "books", len(docs))
	return nil
}

// ReindexAll rebuilds the index from the current catalog.
func (s *SearchService) ReindexAll(ctx context.Context) error {
	return s.catalog.RebuildIndex(ctx, s)
}

// DocumentCount returns the number of indexed books.
func (s *SearchService) DocumentCount() (uint64, error) {
	return s.index.DocumentCount()
}

var _ catalog.SearchIndexer = (*SearchService)(nil)
