package backup

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/listenupapp/bookshelf/internal/catalog"
	"github.com/listenupapp/bookshelf/internal/domain"
)

// fileMarker separates a backup ID from its format extension.
const fileMarker = ".bookshelf"

// BackupService manages backup creation and listing.
type BackupService struct {
	catalog   *catalog.Catalog
	backupDir string
	version   string
	logger    *slog.Logger
}

// NewBackupService creates a BackupService.
func NewBackupService(c *catalog.Catalog, backupDir, version string, logger *slog.Logger) *BackupService {
	return &BackupService{
		catalog:   c,
		backupDir: backupDir,
		version:   version,
		logger:    logger,
	}
}

// Snapshot captures the current catalog as a Document.
func (s *BackupService) Snapshot(_ context.Context) *Document {
	tags := slices.Clone(s.catalog.Tags())
	raw := s.catalog.RawBooks()
	books := make([]domain.RawBook, len(raw))
	for i, b := range raw {
		books[i] = b.Clone()
	}

	return &Document{
		Version:    FormatVersion,
		ID:         uuid.NewString(),
		ExportedAt: time.Now().UTC(),
		AppVersion: s.version,
		Counts:     EntityCounts{Books: len(books), Tags: len(tags)},
		Tags:       tags,
		Books:      books,
	}
}

// Export serializes a fresh snapshot of the catalog.
func (s *BackupService) Export(ctx context.Context, format Format) (*Document, []byte, error) {
	if format == "" {
		format = FormatJSON
	}
	if !format.Valid() {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	doc := s.Snapshot(ctx)
	data, err := Encode(doc, format)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("catalog exported",
		"backup_id", doc.ID,
		"format", format,
		"books", doc.Counts.Books,
		"tags", doc.Counts.Tags,
		"size", len(data),
	)

	return doc, data, nil
}

// Create writes a new backup file.
func (s *BackupService) Create(ctx context.Context, opts BackupOptions) (*BackupResult, error) {
	start := time.Now()

	format := opts.Format
	if format == "" {
		format = FormatJSON
	}

	// Ensure backup directory exists
	if err := os.MkdirAll(s.backupDir, 0o755); err != nil {
		return nil, fmt.Errorf("create backup dir: %w", err)
	}

	// Generate output path if not specified
	outputPath := opts.OutputPath
	if outputPath == "" {
		timestamp := time.Now().Format("2006-01-02-150405")
		outputPath = filepath.Join(s.backupDir, "backup-"+timestamp+fileMarker+format.Ext())
	}

	s.logger.Info("creating backup", "output", outputPath, "format", format)

	doc, data, err := s.Export(ctx, format)
	if err != nil {
		return nil, err
	}

	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return nil, fmt.Errorf("write backup: %w", err)
	}

	sum := sha256.Sum256(data)
	elapsed := time.Since(start)
	result := &BackupResult{
		ID:         backupID(filepath.Base(outputPath)),
		Path:       outputPath,
		Size:       int64(len(data)),
		Format:     format,
		Counts:     doc.Counts,
		Checksum:   hex.EncodeToString(sum[:]),
		DurationMs: elapsed.Milliseconds(),
	}

	s.logger.Info("backup complete",
		"path", result.Path,
		"size", result.Size,
		"duration", elapsed,
		"checksum", result.Checksum)

	return result, nil
}

// backupID strips the marker and format extension from a file name.
func backupID(name string) string {
	if i := strings.LastIndex(name, fileMarker+"."); i >= 0 {
		return name[:i]
	}
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// formatOf returns the format of a backup file name, if it is one.
func formatOf(name string) (Format, bool) {
	for _, f := range []Format{FormatJSON, FormatMsgpack} {
		if strings.HasSuffix(name, fileMarker+f.Ext()) {
			return f, true
		}
	}
	return "", false
}

// List returns all available backups.
func (s *BackupService) List(_ context.Context) ([]BackupInfo, error) {
	entries, err := os.ReadDir(s.backupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var backups []BackupInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		format, ok := formatOf(entry.Name())
		if !ok {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		backups = append(backups, BackupInfo{
			ID:        backupID(entry.Name()),
			Path:      filepath.Join(s.backupDir, entry.Name()),
			Size:      info.Size(),
			Format:    format,
			CreatedAt: info.ModTime(),
		})
	}

	// Sort by creation time, newest first
	slices.SortFunc(backups, func(a, b BackupInfo) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	return backups, nil
}

// Get returns a backup by ID.
func (s *BackupService) Get(_ context.Context, id string) (*BackupInfo, error) {
	if id == "" || filepath.Base(id) != id {
		return nil, ErrBackupNotFound
	}

	for _, format := range []Format{FormatJSON, FormatMsgpack} {
		path := filepath.Join(s.backupDir, id+fileMarker+format.Ext())
		info, err := os.Stat(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return &BackupInfo{
			ID:        id,
			Path:      path,
			Size:      info.Size(),
			Format:    format,
			CreatedAt: info.ModTime(),
		}, nil
	}

	return nil, ErrBackupNotFound
}

// Delete removes a backup.
func (s *BackupService) Delete(ctx context.Context, id string) error {
	info, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	return os.Remove(info.Path)
}
