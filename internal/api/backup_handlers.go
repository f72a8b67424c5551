package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/bookshelf/internal/backup"
	domainerrors "github.com/listenupapp/bookshelf/internal/errors"
)

func (s *Server) registerBackupRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "exportCatalog",
		Method:      http.MethodGet,
		Path:        "/api/v1/backup",
		Summary:     "Export catalog",
		Description: "Downloads the whole catalog as a backup document",
		Tags:        []string{"Backup"},
	}, s.handleExport)

	huma.Register(s.api, huma.Operation{
		OperationID: "restoreCatalog",
		Method:      http.MethodPost,
		Path:        "/api/v1/backup/restore",
		Summary:     "Restore catalog",
		Description: "Replaces or merges the catalog from an uploaded backup document",
		Tags:        []string{"Backup"},
	}, s.handleRestore)

	huma.Register(s.api, huma.Operation{
		OperationID: "validateBackup",
		Method:      http.MethodPost,
		Path:        "/api/v1/backup/validate",
		Summary:     "Validate backup",
		Description: "Checks an uploaded backup document without restoring it",
		Tags:        []string{"Backup"},
	}, s.handleValidateBackup)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createBackup",
		Method:        http.MethodPost,
		Path:          "/api/v1/backups",
		Summary:       "Create backup",
		Description:   "Writes a backup file to the server's backup directory",
		Tags:          []string{"Backup"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateBackup)

	huma.Register(s.api, huma.Operation{
		OperationID: "listBackups",
		Method:      http.MethodGet,
		Path:        "/api/v1/backups",
		Summary:     "List backups",
		Description: "Lists backup files, newest first",
		Tags:        []string{"Backup"},
	}, s.handleListBackups)

	huma.Register(s.api, huma.Operation{
		OperationID: "restoreBackupFile",
		Method:      http.MethodPost,
		Path:        "/api/v1/backups/{id}/restore",
		Summary:     "Restore backup file",
		Description: "Restores the catalog from a stored backup file",
		Tags:        []string{"Backup"},
	}, s.handleRestoreBackupFile)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteBackup",
		Method:      http.MethodDelete,
		Path:        "/api/v1/backups/{id}",
		Summary:     "Delete backup",
		Description: "Deletes a stored backup file",
		Tags:        []string{"Backup"},
	}, s.handleDeleteBackup)
}

// === DTOs ===

// ExportInput selects the export format.
type ExportInput struct {
	Format string `query:"format" enum:"json,msgpack" default:"json" doc:"Serialization format"`
}

// ExportOutput is the raw backup document as a download.
type ExportOutput struct {
	ContentType        string `header:"Content-Type"`
	ContentDisposition string `header:"Content-Disposition"`
	Body               []byte
}

// RestoreParams are the restore options shared by upload and file restores.
type RestoreParams struct {
	Mode     string `query:"mode" doc:"Restore mode: full (default) or merge"`
	Strategy string `query:"strategy" doc:"Merge conflict resolution: keep_local (default) or keep_backup"`
	Format   string `query:"format" doc:"Document format: json or msgpack; detected when omitted"`
	DryRun   bool   `query:"dry_run" doc:"Report what would change without writing"`
}

func (p RestoreParams) options() (backup.RestoreOptions, error) {
	opts := backup.RestoreOptions{
		Mode:          backup.RestoreMode(p.Mode),
		MergeStrategy: backup.MergeStrategy(p.Strategy),
		Format:        backup.Format(p.Format),
		DryRun:        p.DryRun,
	}
	if opts.Mode == "" {
		opts.Mode = backup.RestoreModeFull
	}

	details := map[string]string{}
	if !opts.Mode.Valid() {
		details["mode"] = fmt.Sprintf("unknown restore mode %q", p.Mode)
	}
	if !opts.MergeStrategy.Valid() {
		details["strategy"] = fmt.Sprintf("unknown merge strategy %q", p.Strategy)
	}
	if opts.Format != "" && !opts.Format.Valid() {
		details["format"] = fmt.Sprintf("unknown format %q", p.Format)
	}
	if len(details) > 0 {
		return opts, domainerrors.ValidationWithDetails("invalid restore options", details)
	}
	return opts, nil
}

// RestoreInput carries an uploaded backup document.
type RestoreInput struct {
	RestoreParams
	RawBody []byte
}

// RestoreOutput wraps the restore result for Huma.
type RestoreOutput struct {
	Body *backup.RestoreResult
}

// ValidateBackupInput carries an uploaded backup document.
type ValidateBackupInput struct {
	Format  string `query:"format" doc:"Document format: json or msgpack; detected when omitted"`
	RawBody []byte
}

// ValidateBackupOutput wraps the validation result for Huma.
type ValidateBackupOutput struct {
	Body *backup.ValidationResult
}

// CreateBackupBody is the request body for creating a backup file.
type CreateBackupBody struct {
	Format string `json:"format,omitempty" enum:"json,msgpack" doc:"Serialization format (default json)"`
}

// CreateBackupInput is the Huma input for creating a backup file.
type CreateBackupInput struct {
	Body *CreateBackupBody
}

// BackupResponse represents a backup file in API responses.
type BackupResponse struct {
	ID        string    `json:"id" doc:"Backup identifier"`
	Format    string    `json:"format" doc:"Serialization format"`
	Size      int64     `json:"size" doc:"File size in bytes"`
	CreatedAt time.Time `json:"created_at" doc:"When the backup was written"`
	Checksum  string    `json:"checksum,omitempty" doc:"SHA-256 checksum"`
	Books     *int      `json:"books,omitempty" doc:"Books in the backup"`
	Tags      *int      `json:"tags,omitempty" doc:"Tags in the backup"`
}

// BackupOutput wraps a backup file for Huma.
type BackupOutput struct {
	Body BackupResponse
}

// ListBackupsOutput is the Huma output for listing backups.
type ListBackupsOutput struct {
	Body []BackupResponse
}

// BackupIDInput addresses a stored backup file.
type BackupIDInput struct {
	ID string `path:"id" doc:"Backup identifier"`
}

// RestoreBackupFileInput restores a stored backup file.
type RestoreBackupFileInput struct {
	ID string `path:"id" doc:"Backup identifier"`
	RestoreParams
}

// === Handlers ===

func (s *Server) handleExport(ctx context.Context, input *ExportInput) (*ExportOutput, error) {
	format := backup.Format(input.Format)
	if format == "" {
		format = backup.FormatJSON
	}

	doc, data, err := s.services.Backup.Export(ctx, format)
	if err != nil {
		return nil, err
	}

	filename := fmt.Sprintf("bookshelf-%s%s", doc.ExportedAt.UTC().Format("2006-01-02-150405"), format.Ext())

	return &ExportOutput{
		ContentType:        format.ContentType(),
		ContentDisposition: `attachment; filename="` + filename + `"`,
		Body:               data,
	}, nil
}

func (s *Server) handleRestore(ctx context.Context, input *RestoreInput) (*RestoreOutput, error) {
	opts, err := input.options()
	if err != nil {
		return nil, err
	}
	if len(input.RawBody) == 0 {
		return nil, domainerrors.Validation("backup document is empty")
	}

	result, err := s.services.Restore.Restore(ctx, input.RawBody, opts)
	if err != nil {
		return nil, err
	}

	return &RestoreOutput{Body: result}, nil
}

func (s *Server) handleValidateBackup(_ context.Context, input *ValidateBackupInput) (*ValidateBackupOutput, error) {
	format := backup.Format(input.Format)
	if format != "" && !format.Valid() {
		return nil, domainerrors.Validationf("unknown format %q", input.Format)
	}

	return &ValidateBackupOutput{Body: s.services.Restore.Validate(input.RawBody, format)}, nil
}

func (s *Server) handleCreateBackup(ctx context.Context, input *CreateBackupInput) (*BackupOutput, error) {
	opts := backup.DefaultBackupOptions()
	if input.Body != nil && input.Body.Format != "" {
		opts.Format = backup.Format(input.Body.Format)
	}

	result, err := s.services.Backup.Create(ctx, opts)
	if err != nil {
		return nil, err
	}

	info, err := s.services.Backup.Get(ctx, result.ID)
	if err != nil {
		return nil, err
	}

	resp := toBackupResponse(*info)
	resp.Checksum = result.Checksum
	resp.Books = &result.Counts.Books
	resp.Tags = &result.Counts.Tags

	return &BackupOutput{Body: resp}, nil
}

func (s *Server) handleListBackups(ctx context.Context, _ *struct{}) (*ListBackupsOutput, error) {
	backups, err := s.services.Backup.List(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]BackupResponse, len(backups))
	for i, b := range backups {
		resp[i] = toBackupResponse(b)
	}

	return &ListBackupsOutput{Body: resp}, nil
}

func (s *Server) handleRestoreBackupFile(ctx context.Context, input *RestoreBackupFileInput) (*RestoreOutput, error) {
	opts, err := input.options()
	if err != nil {
		return nil, err
	}

	info, err := s.services.Backup.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if opts.Format == "" {
		opts.Format = info.Format
	}

	result, err := s.services.Restore.RestoreFile(ctx, info.Path, opts)
	if err != nil {
		return nil, err
	}

	return &RestoreOutput{Body: result}, nil
}

func (s *Server) handleDeleteBackup(ctx context.Context, input *BackupIDInput) (*MessageOutput, error) {
	if err := s.services.Backup.Delete(ctx, input.ID); err != nil {
		return nil, err
	}

	return message("Backup deleted"), nil
}

func toBackupResponse(b backup.BackupInfo) BackupResponse {
	return BackupResponse{
		ID:        b.ID,
		Format:    string(b.Format),
		Size:      b.Size,
		CreatedAt: b.CreatedAt,
	}
}
