package backup

import "time"

// BackupOptions configures backup creation.
type BackupOptions struct {
	Format     Format // Serialization format (default json)
	OutputPath string // Where to write the backup file (default: backup dir)
}

// DefaultBackupOptions returns sensible defaults.
func DefaultBackupOptions() BackupOptions {
	return BackupOptions{Format: FormatJSON}
}

// RestoreOptions configures restoration.
type RestoreOptions struct {
	Mode          RestoreMode
	MergeStrategy MergeStrategy
	Format        Format // Empty detects the format from the content
	DryRun        bool   // Validate without writing
}

// RestoreMode determines how to handle existing data.
type RestoreMode string

const (
	// RestoreModeFull replaces the catalog with the backup.
	RestoreModeFull RestoreMode = "full"

	// RestoreModeMerge adds backup records to the existing catalog.
	RestoreModeMerge RestoreMode = "merge"
)

// Valid returns true if the restore mode is recognized.
func (m RestoreMode) Valid() bool {
	switch m {
	case RestoreModeFull, RestoreModeMerge:
		return true
	default:
		return false
	}
}

// MergeStrategy determines conflict resolution in merge mode.
type MergeStrategy string

const (
	// MergeKeepLocal keeps local version on conflict.
	MergeKeepLocal MergeStrategy = "keep_local"

	// MergeKeepBackup uses backup version on conflict.
	MergeKeepBackup MergeStrategy = "keep_backup"
)

// Valid returns true if the merge strategy is recognized.
func (s MergeStrategy) Valid() bool {
	switch s {
	case MergeKeepLocal, MergeKeepBackup:
		return true
	case "": // Empty is valid (not needed for non-merge modes)
		return true
	default:
		return false
	}
}

// BackupResult contains the outcome of a backup operation.
type BackupResult struct {
	ID         string       `json:"id"`
	Path       string       `json:"path"`
	Size       int64        `json:"size"`
	Format     Format       `json:"format"`
	Counts     EntityCounts `json:"counts"`
	Checksum   string       `json:"checksum"`
	DurationMs int64        `json:"duration_ms"`
}

// BackupInfo describes an existing backup file.
type BackupInfo struct {
	ID        string    `json:"id"`
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	Format    Format    `json:"format"`
	CreatedAt time.Time `json:"created_at"`
}

// RestoreResult contains the outcome of a restore operation.
type RestoreResult struct {
	Imported   EntityCounts `json:"imported"`
	Skipped    EntityCounts `json:"skipped"`
	Dangling   []string     `json:"dangling,omitempty"` // Tag IDs books reference but the result lacks
	DryRun     bool         `json:"dry_run"`
	DurationMs int64        `json:"duration_ms"`
}

// ValidationResult describes backup validity.
type ValidationResult struct {
	Valid    bool      `json:"valid"`
	Document *Document `json:"-"`
	Counts   EntityCounts `json:"counts"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}
