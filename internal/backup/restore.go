package backup

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/listenupapp/bookshelf/internal/catalog"
	"github.com/listenupapp/bookshelf/internal/domain"
	"github.com/listenupapp/bookshelf/internal/view"
)

// RestoreService restores from backups.
type RestoreService struct {
	catalog *catalog.Catalog
	logger  *slog.Logger
}

// NewRestoreService creates a RestoreService.
func NewRestoreService(c *catalog.Catalog, logger *slog.Logger) *RestoreService {
	return &RestoreService{
		catalog: c,
		logger:  logger,
	}
}

// RestoreFile restores from a backup file on disk.
func (s *RestoreService) RestoreFile(ctx context.Context, path string, opts RestoreOptions) (*RestoreResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read backup: %w", err)
	}
	return s.Restore(ctx, data, opts)
}

// Restore restores the catalog from serialized backup data.
func (s *RestoreService) Restore(ctx context.Context, data []byte, opts RestoreOptions) (*RestoreResult, error) {
	start := time.Now()

	if opts.Mode == "" {
		opts.Mode = RestoreModeFull
	}
	if !opts.Mode.Valid() {
		return nil, fmt.Errorf("invalid restore mode %q", opts.Mode)
	}
	if !opts.MergeStrategy.Valid() {
		return nil, fmt.Errorf("invalid merge strategy %q", opts.MergeStrategy)
	}

	s.logger.Info("starting restore",
		"mode", opts.Mode,
		"merge_strategy", opts.MergeStrategy,
		"dry_run", opts.DryRun)

	validation := s.Validate(data, opts.Format)
	if !validation.Valid {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDocument, strings.Join(validation.Errors, "; "))
	}
	doc := validation.Document

	result := &RestoreResult{DryRun: opts.DryRun}
	plan := func(localBooks []domain.RawBook, localTags []domain.Tag) ([]domain.RawBook, []domain.Tag, error) {
		var books []domain.RawBook
		var tags []domain.Tag
		switch opts.Mode {
		case RestoreModeMerge:
			keepBackup := opts.MergeStrategy == MergeKeepBackup
			var imported, skipped int
			tags, imported, skipped = merge(localTags, doc.Tags, func(t domain.Tag) string { return t.ID }, keepBackup)
			result.Imported.Tags, result.Skipped.Tags = imported, skipped
			books, imported, skipped = merge(localBooks, doc.Books, func(b domain.RawBook) string { return b.ID }, keepBackup)
			result.Imported.Books, result.Skipped.Books = imported, skipped
		default:
			tags, books = doc.Tags, doc.Books
			result.Imported = EntityCounts{Books: len(books), Tags: len(tags)}
		}
		result.Dangling = view.Dangling(books, tags)
		return books, tags, nil
	}

	if opts.DryRun {
		plan(s.catalog.RawBooks(), s.catalog.Tags())
	} else if err := s.catalog.Update(ctx, plan); err != nil {
		return nil, fmt.Errorf("replace catalog: %w", err)
	}

	elapsed := time.Since(start)
	result.DurationMs = elapsed.Milliseconds()

	s.logger.Info("restore complete",
		"backup_id", doc.ID,
		"imported", result.Imported,
		"skipped", result.Skipped,
		"dangling", len(result.Dangling),
		"dry_run", opts.DryRun,
		"duration", elapsed)

	return result, nil
}

// Validate decodes data and checks it can be restored.
func (s *RestoreService) Validate(data []byte, format Format) *ValidationResult {
	result := &ValidationResult{}

	doc, err := Decode(data, format)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return result
	}
	result.Document = doc
	result.Counts = EntityCounts{Books: len(doc.Books), Tags: len(doc.Tags)}

	if !compatible(doc.Version) {
		result.Errors = append(result.Errors, fmt.Sprintf("%v: %q", ErrVersionMismatch, doc.Version))
	}

	if doc.Counts != (EntityCounts{}) && doc.Counts != result.Counts {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"counts mismatch: manifest says %d books and %d tags, found %d and %d",
			doc.Counts.Books, doc.Counts.Tags, result.Counts.Books, result.Counts.Tags))
	}

	result.Errors = append(result.Errors, checkUnique("tag", doc.Tags, func(t domain.Tag) string { return t.ID })...)
	result.Errors = append(result.Errors, checkUnique("book", doc.Books, func(b domain.RawBook) string { return b.ID })...)

	if dangling := view.Dangling(doc.Books, doc.Tags); len(dangling) > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("books reference %d unknown tags", len(dangling)))
	}

	result.Valid = len(result.Errors) == 0
	return result
}

func checkUnique[T any](kind string, items []T, id func(T) string) []string {
	var errs []string
	seen := make(map[string]struct{}, len(items))
	for i, item := range items {
		key := id(item)
		if key == "" {
			errs = append(errs, fmt.Sprintf("%s %d has an empty id", kind, i))
			continue
		}
		if _, dup := seen[key]; dup {
			errs = append(errs, fmt.Sprintf("duplicate %s id %s", kind, key))
			continue
		}
		seen[key] = struct{}{}
	}
	return errs
}

// merge combines local and incoming records by ID. Local order is kept and
// new records are appended in backup order. On conflict the local record
// wins unless keepBackup is set.
func merge[T any](local, incoming []T, id func(T) string, keepBackup bool) (out []T, imported, skipped int) {
	out = slices.Clone(local)
	index := make(map[string]int, len(out))
	for i, item := range out {
		index[id(item)] = i
	}

	for _, item := range incoming {
		i, exists := index[id(item)]
		switch {
		case !exists:
			index[id(item)] = len(out)
			out = append(out, item)
			imported++
		case keepBackup:
			out[i] = item
			imported++
		default:
			skipped++
		}
	}
	return out, imported, skipped
}
