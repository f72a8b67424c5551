package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/bookshelf/internal/search"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "search",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search catalog",
		Description: "Full-text search over titles, authors, publishers, synopses and tag labels",
		Tags:        []string{"Search"},
	}, s.handleSearch)
}

// === DTOs ===

// SearchInput contains parameters for searching the catalog.
type SearchInput struct {
	Query   string `query:"q" maxLength:"200" doc:"Search query; empty matches every book"`
	Tags    string `query:"tag" doc:"Comma-separated tag IDs to filter by"`
	MinYear int    `query:"min_year" minimum:"0" doc:"Earliest publication year"`
	MaxYear int    `query:"max_year" minimum:"0" doc:"Latest publication year"`
	Limit   int    `query:"limit" minimum:"0" maximum:"100" doc:"Max results (default 20)"`
	Offset  int    `query:"offset" minimum:"0" doc:"Pagination offset"`
	Sort    string `query:"sort" enum:"relevance,title,author,year" default:"relevance" doc:"Sort field"`
	Order   string `query:"order" enum:"asc,desc" default:"desc" doc:"Sort order"`
	Facets  bool   `query:"facets" doc:"Include tag and author facets"`
}

// SearchOutput wraps the search response for Huma.
type SearchOutput struct {
	Body *search.SearchResult
}

// === Handlers ===

func (s *Server) handleSearch(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	s.logger.Debug("search request received",
		"query", input.Query,
		"tags", input.Tags,
		"limit", input.Limit,
	)

	params := search.DefaultSearchParams()
	params.Query = input.Query
	params.TagIDs = splitIDs(input.Tags)
	params.MinYear = input.MinYear
	params.MaxYear = input.MaxYear
	params.Limit = input.Limit
	params.Offset = input.Offset
	params.SortBy = input.Sort
	params.SortOrder = input.Order
	params.IncludeFacets = input.Facets

	result, err := s.services.Search.Search(ctx, params)
	if err != nil {
		s.logger.Error("search failed", "error", err, "query", input.Query)
		return nil, huma.Error500InternalServerError("search failed", err)
	}

	return &SearchOutput{Body: result}, nil
}
