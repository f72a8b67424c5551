package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/bookshelf/internal/service"
)

func (s *Server) registerTagRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listTags",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags",
		Summary:     "List tags",
		Description: "Returns the tag registry in creation order",
		Tags:        []string{"Tags"},
	}, s.handleListTags)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createTag",
		Method:        http.MethodPost,
		Path:          "/api/v1/tags",
		Summary:       "Create tag",
		Description:   "Adds a tag to the registry",
		Tags:          []string{"Tags"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "getTag",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags/{id}",
		Summary:     "Get tag",
		Description: "Returns a tag by ID",
		Tags:        []string{"Tags"},
	}, s.handleGetTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateTag",
		Method:      http.MethodPatch,
		Path:        "/api/v1/tags/{id}",
		Summary:     "Rename tag",
		Description: "Changes the label of a tag; every book carrying it shows the new label",
		Tags:        []string{"Tags"},
	}, s.handleUpdateTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteTag",
		Method:      http.MethodDelete,
		Path:        "/api/v1/tags/{id}",
		Summary:     "Delete tag",
		Description: "Removes a tag from the registry. Books keep the reference but no longer show the tag.",
		Tags:        []string{"Tags"},
	}, s.handleDeleteTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "getTagBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags/{id}/books",
		Summary:     "Get tag books",
		Description: "Returns the books carrying this tag",
		Tags:        []string{"Tags"},
	}, s.handleGetTagBooks)
}

// === DTOs ===

// TagResponse contains tag data in API responses.
type TagResponse struct {
	ID        string `json:"id" doc:"Tag ID"`
	Label     string `json:"label" doc:"Display label"`
	BookCount int    `json:"bookCount" doc:"Number of books carrying the tag"`
}

// ListTagsResponse contains a list of tags.
type ListTagsResponse struct {
	Tags []TagResponse `json:"tags" doc:"List of tags"`
}

// ListTagsOutput wraps the list tags response for Huma.
type ListTagsOutput struct {
	Body ListTagsResponse
}

// CreateTagBody is the request body for creating a tag.
type CreateTagBody struct {
	ID    string `json:"id,omitempty" maxLength:"64" doc:"Client-chosen ID; generated when omitted"`
	Label string `json:"label" maxLength:"100" doc:"Display label"`
}

// CreateTagInput wraps the create tag request for Huma.
type CreateTagInput struct {
	Body CreateTagBody
}

// TagOutput wraps the tag response for Huma.
type TagOutput struct {
	Body TagResponse
}

// TagIDInput addresses a single tag.
type TagIDInput struct {
	ID string `path:"id" doc:"Tag ID"`
}

// UpdateTagBody is the request body for renaming a tag.
type UpdateTagBody struct {
	Label string `json:"label" maxLength:"100" doc:"New label; may be empty"`
}

// UpdateTagInput wraps the update tag request for Huma.
type UpdateTagInput struct {
	ID   string `path:"id" doc:"Tag ID"`
	Body UpdateTagBody
}

// === Handlers ===

func toTagResponse(t service.TagSummary) TagResponse {
	return TagResponse{ID: t.ID, Label: t.Label, BookCount: t.BookCount}
}

func (s *Server) handleListTags(ctx context.Context, _ *struct{}) (*ListTagsOutput, error) {
	tags := s.services.Tag.ListTags(ctx)

	resp := make([]TagResponse, len(tags))
	for i, t := range tags {
		resp[i] = toTagResponse(t)
	}

	return &ListTagsOutput{Body: ListTagsResponse{Tags: resp}}, nil
}

func (s *Server) handleCreateTag(ctx context.Context, input *CreateTagInput) (*TagOutput, error) {
	t, err := s.services.Tag.CreateTag(ctx, service.CreateTagRequest{
		ID:    input.Body.ID,
		Label: input.Body.Label,
	})
	if err != nil {
		return nil, err
	}

	return &TagOutput{Body: TagResponse{ID: t.ID, Label: t.Label}}, nil
}

func (s *Server) handleGetTag(ctx context.Context, input *TagIDInput) (*TagOutput, error) {
	t, err := s.services.Tag.GetTag(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &TagOutput{Body: toTagResponse(t)}, nil
}

func (s *Server) handleUpdateTag(ctx context.Context, input *UpdateTagInput) (*TagOutput, error) {
	if _, err := s.services.Tag.UpdateTag(ctx, input.ID, service.UpdateTagRequest{
		Label: input.Body.Label,
	}); err != nil {
		return nil, err
	}

	t, err := s.services.Tag.GetTag(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &TagOutput{Body: toTagResponse(t)}, nil
}

func (s *Server) handleDeleteTag(ctx context.Context, input *TagIDInput) (*MessageOutput, error) {
	if err := s.services.Tag.DeleteTag(ctx, input.ID); err != nil {
		return nil, err
	}

	return message("Tag deleted"), nil
}

func (s *Server) handleGetTagBooks(ctx context.Context, input *TagIDInput) (*ListBooksOutput, error) {
	if _, err := s.services.Tag.GetTag(ctx, input.ID); err != nil {
		return nil, err
	}

	books, err := s.services.Book.ListBooks(ctx, service.ListBooksRequest{TagIDs: []string{input.ID}})
	if err != nil {
		return nil, err
	}

	return &ListBooksOutput{Body: ListBooksResponse{Books: books, Total: len(books)}}, nil
}
