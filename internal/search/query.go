package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// SearchParams configures a search query.
type SearchParams struct {
	Query string // User's search query

	// Filters
	TagIDs  []string // Books must carry every listed tag
	MinYear int      // Minimum publication year
	MaxYear int      // Maximum publication year

	// Pagination
	Limit  int
	Offset int

	// Sorting
	SortBy    string // "relevance", "title", "author", "year"
	SortOrder string // "asc", "desc"

	// Options
	IncludeFacets bool // Include tag and author facet counts
	Highlight     bool // Include match highlighting
}

// DefaultSearchParams returns sensible defaults.
func DefaultSearchParams() SearchParams {
	return SearchParams{
		Limit:         20,
		Offset:        0,
		SortBy:        "relevance",
		SortOrder:     "desc",
		IncludeFacets: true,
		Highlight:     true,
	}
}

// SearchResult represents the search results.
type SearchResult struct {
	Query  string       `json:"query"`
	Total  uint64       `json:"total"`
	TookMs int64        `json:"took_ms"`
	Hits   []SearchHit  `json:"hits"`
	Facets SearchFacets `json:"facets,omitzero"`
}

// SearchHit represents a single matching book.
type SearchHit struct {
	ID         string            `json:"id"`
	Score      float64           `json:"score"`
	Title      string            `json:"title"`
	Author     string            `json:"author,omitempty"`
	Publisher  string            `json:"publisher,omitempty"`
	Year       int               `json:"year,omitempty"`
	Tags       []string          `json:"tags,omitempty"`
	Highlights map[string]string `json:"highlights,omitempty"`
}

// SearchFacets contains facet counts.
type SearchFacets struct {
	Tags    []FacetCount `json:"tags,omitempty"`
	Authors []FacetCount `json:"authors,omitempty"`
}

// FacetCount represents a facet value and its count.
type FacetCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Search executes a search query.
func (s *SearchIndex) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	searchQuery := buildSearchQuery(params)

	searchRequest := bleve.NewSearchRequestOptions(searchQuery, params.Limit, params.Offset, false)

	addSorting(searchRequest, params)

	if params.IncludeFacets {
		searchRequest.AddFacet("tags", bleve.NewFacetRequest("tags", 20))
		searchRequest.AddFacet("author_exact", bleve.NewFacetRequest("author_exact", 20))
	}

	if params.Highlight {
		searchRequest.Highlight = bleve.NewHighlight()
		searchRequest.Highlight.AddField("title")
		searchRequest.Highlight.AddField("author")
	}

	searchRequest.Fields = []string{"title", "author", "publisher", "year", "tags"}

	searchResult, err := s.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result := &SearchResult{
		Query:  params.Query,
		Total:  searchResult.Total,
		TookMs: searchResult.Took.Milliseconds(),
		Hits:   make([]SearchHit, 0, len(searchResult.Hits)),
	}

	for _, hit := range searchResult.Hits {
		searchHit := SearchHit{
			ID:    hit.ID,
			Score: hit.Score,
			Tags:  stringsField(hit.Fields["tags"]),
		}

		if t, ok := hit.Fields["title"].(string); ok {
			searchHit.Title = t
		}
		if a, ok := hit.Fields["author"].(string); ok {
			searchHit.Author = a
		}
		if p, ok := hit.Fields["publisher"].(string); ok {
			searchHit.Publisher = p
		}
		if y, ok := hit.Fields["year"].(float64); ok {
			searchHit.Year = int(y)
		}

		if len(hit.Fragments) > 0 {
			searchHit.Highlights = make(map[string]string)
			for field, fragments := range hit.Fragments {
				if len(fragments) > 0 {
					searchHit.Highlights[field] = fragments[0]
				}
			}
		}

		result.Hits = append(result.Hits, searchHit)
	}

	if params.IncludeFacets {
		result.Facets = extractFacets(searchResult)
	}

	return result, nil
}

// stringsField normalizes a stored field that holds one or many strings.
func stringsField(v any) []string {
	switch v := v.(type) {
	case string:
		return []string{v}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// buildSearchQuery constructs the Bleve query from params.
func buildSearchQuery(params SearchParams) query.Query {
	var queries []query.Query

	if params.Query != "" {
		textQueries := []query.Query{}

		// Title match with highest boost
		titleMatch := bleve.NewMatchQuery(params.Query)
		titleMatch.SetField("title")
		titleMatch.SetBoost(3.0)
		textQueries = append(textQueries, titleMatch)

		authorMatch := bleve.NewMatchQuery(params.Query)
		authorMatch.SetField("author")
		authorMatch.SetBoost(2.0)
		textQueries = append(textQueries, authorMatch)

		// Tag label, exact
		tagMatch := bleve.NewTermQuery(params.Query)
		tagMatch.SetField("tags")
		tagMatch.SetBoost(1.5)
		textQueries = append(textQueries, tagMatch)

		publisherMatch := bleve.NewMatchQuery(params.Query)
		publisherMatch.SetField("publisher")
		textQueries = append(textQueries, publisherMatch)

		synopsisMatch := bleve.NewMatchQuery(params.Query)
		synopsisMatch.SetField("synopsis")
		synopsisMatch.SetBoost(0.5)
		textQueries = append(textQueries, synopsisMatch)

		// Add fuzzy matching for typo tolerance on title
		fuzzyQuery := bleve.NewFuzzyQuery(strings.ToLower(params.Query))
		fuzzyQuery.SetFuzziness(1)
		fuzzyQuery.SetField("title")
		fuzzyQuery.SetBoost(0.8)
		textQueries = append(textQueries, fuzzyQuery)

		// Prefix query for autocomplete (minimum 2 chars)
		if len(params.Query) >= 2 {
			prefixQuery := bleve.NewPrefixQuery(strings.ToLower(params.Query))
			prefixQuery.SetField("title")
			prefixQuery.SetBoost(0.5)
			textQueries = append(textQueries, prefixQuery)
		}

		queries = append(queries, bleve.NewDisjunctionQuery(textQueries...))
	}

	// Tag filter (exact match, AND across tags)
	for _, tagID := range params.TagIDs {
		tq := bleve.NewTermQuery(tagID)
		tq.SetField("tag_ids")
		queries = append(queries, tq)
	}

	// Year range filter
	if params.MinYear > 0 || params.MaxYear > 0 {
		minYear := float64(params.MinYear)
		maxYear := float64(params.MaxYear)
		if params.MaxYear == 0 {
			maxYear = 3000 // Far future
		}
		inclusive := true
		rangeQuery := bleve.NewNumericRangeInclusiveQuery(&minYear, &maxYear, &inclusive, &inclusive)
		rangeQuery.SetField("year")
		queries = append(queries, rangeQuery)
	}

	// Combine all queries with AND
	if len(queries) == 0 {
		return bleve.NewMatchAllQuery()
	}
	if len(queries) == 1 {
		return queries[0]
	}
	return bleve.NewConjunctionQuery(queries...)
}

// addSorting configures sort order.
func addSorting(req *bleve.SearchRequest, params SearchParams) {
	desc := params.SortOrder == "desc"
	switch params.SortBy {
	case "title":
		if desc {
			req.SortBy([]string{"-title"})
		} else {
			req.SortBy([]string{"title"})
		}
	case "author":
		if desc {
			req.SortBy([]string{"-author_exact", "-title"})
		} else {
			req.SortBy([]string{"author_exact", "title"})
		}
	case "year":
		if desc {
			req.SortBy([]string{"-year"})
		} else {
			req.SortBy([]string{"year"})
		}
	default:
		// Relevance (score) is default - Bleve handles this
		req.SortBy([]string{"-_score"})
	}
}

// extractFacets converts Bleve facets to our format.
func extractFacets(result *bleve.SearchResult) SearchFacets {
	facets := SearchFacets{}

	if tagFacet, ok := result.Facets["tags"]; ok && tagFacet.Terms != nil {
		for _, term := range tagFacet.Terms.Terms() {
			facets.Tags = append(facets.Tags, FacetCount{Value: term.Term, Count: term.Count})
		}
	}

	if authorFacet, ok := result.Facets["author_exact"]; ok && authorFacet.Terms != nil {
		for _, term := range authorFacet.Terms.Terms() {
			facets.Authors = append(facets.Authors, FacetCount{Value: term.Term, Count: term.Count})
		}
	}

	return facets
}
