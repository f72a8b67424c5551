package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/listenupapp/bookshelf/internal/catalog"
	"github.com/listenupapp/bookshelf/internal/domain"
	"github.com/listenupapp/bookshelf/internal/errors"
	"github.com/listenupapp/bookshelf/internal/validation"
)

// TagService orchestrates tag registry operations.
type TagService struct {
	catalog   *catalog.Catalog
	logger    *slog.Logger
	validator *validation.Validator
}

// NewTagService creates a new tag service.
func NewTagService(catalog *catalog.Catalog, logger *slog.Logger) *TagService {
	return &TagService{
		catalog:   catalog,
		logger:    logger,
		validator: validation.New(),
	}
}

// TagSummary is a registry entry with the number of books referencing it.
type TagSummary struct {
	domain.Tag
	BookCount int `json:"bookCount"`
}

// ListTags returns the registry in insertion order.
func (s *TagService) ListTags(_ context.Context) []TagSummary {
	usage := s.catalog.TagUsage()
	tags := s.catalog.Tags()

	out := make([]TagSummary, len(tags))
	for i, t := range tags {
		out[i] = TagSummary{Tag: t, BookCount: usage[t.ID]}
	}
	return out
}

// GetTag returns a registry entry with its usage count.
func (s *TagService) GetTag(_ context.Context, tagID string) (TagSummary, error) {
	tag, ok := s.catalog.Tag(tagID)
	if !ok {
		return TagSummary{}, errors.NotFoundf("tag %s not found", tagID)
	}
	return TagSummary{Tag: tag, BookCount: s.catalog.TagUsage()[tagID]}, nil
}

// CreateTagRequest contains fields for creating a tag. ID is optional; a
// client may pick it to reference the tag before the response arrives.
type CreateTagRequest struct {
	ID    string `json:"id,omitempty" validate:"omitempty,max=64"`
	Label string `json:"label" validate:"notblank,max=100"`
}

// CreateTag adds a tag to the registry.
func (s *TagService) CreateTag(ctx context.Context, req CreateTagRequest) (domain.Tag, error) {
	if err := s.validator.Validate(req); err != nil {
		return domain.Tag{}, err
	}

	tag, err := s.catalog.AddTagWithID(ctx, domain.Tag{ID: req.ID, Label: req.Label})
	if errors.Is(err, catalog.ErrTagExists) {
		return domain.Tag{}, errors.AlreadyExistsf("tag %s already exists", req.ID)
	}
	if err != nil {
		return domain.Tag{}, fmt.Errorf("create tag: %w", err)
	}

	s.logger.Info("tag created", "tag_id", tag.ID, "label", tag.Label)
	return tag, nil
}

// UpdateTagRequest renames a tag. An empty label is accepted so editors can
// save on every keystroke.
type UpdateTagRequest struct {
	Label string `json:"label" validate:"max=100"`
}

// UpdateTag renames a tag.
func (s *TagService) UpdateTag(ctx context.Context, tagID string, req UpdateTagRequest) (domain.Tag, error) {
	if err := s.validator.Validate(req); err != nil {
		return domain.Tag{}, err
	}

	found, err := s.catalog.UpdateTag(ctx, tagID, req.Label)
	if err != nil {
		return domain.Tag{}, fmt.Errorf("update tag: %w", err)
	}
	if !found {
		return domain.Tag{}, errors.NotFoundf("tag %s not found", tagID)
	}

	s.logger.Info("tag updated", "tag_id", tagID, "label", req.Label)
	return domain.Tag{ID: tagID, Label: req.Label}, nil
}

// DeleteTag removes a tag from the registry. Books that reference it keep
// the reference.
func (s *TagService) DeleteTag(ctx context.Context, tagID string) error {
	found, err := s.catalog.DeleteTag(ctx, tagID)
	if err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	if !found {
		return errors.NotFoundf("tag %s not found", tagID)
	}

	s.logger.Info("tag deleted", "tag_id", tagID)
	return nil
}
