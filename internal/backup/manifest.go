package backup

import (
	"strings"
	"time"

	"github.com/listenupapp/bookshelf/internal/domain"
)

// FormatVersion is the backup format version. Increment major on breaking changes.
const FormatVersion = "1.0"

// Document is a complete catalog snapshot.
type Document struct {
	Version    string    `json:"version"`
	ID         string    `json:"id"`
	ExportedAt time.Time `json:"exported_at"`
	AppVersion string    `json:"app_version,omitempty"`

	Counts EntityCounts `json:"counts"`

	Tags  []domain.Tag     `json:"tags"`
	Books []domain.RawBook `json:"books"`
}

// EntityCounts tracks entity counts for validation and reporting.
type EntityCounts struct {
	Books int `json:"books"`
	Tags  int `json:"tags"`
}

// compatible reports whether a document version can be read by this build.
// Only the major component has to match.
func compatible(version string) bool {
	major, _, _ := strings.Cut(version, ".")
	current, _, _ := strings.Cut(FormatVersion, ".")
	return major == current
}
