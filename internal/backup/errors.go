// Package backup exports the catalog as a single document and restores it.
package backup

import "errors"

var (
	// ErrInvalidDocument indicates the backup document is missing or malformed.
	ErrInvalidDocument = errors.New("invalid backup document")

	// ErrVersionMismatch indicates the backup version is not supported.
	ErrVersionMismatch = errors.New("backup version not supported")

	// ErrUnknownFormat indicates an unsupported serialization format.
	ErrUnknownFormat = errors.New("unknown backup format")

	// ErrBackupNotFound indicates the requested backup does not exist.
	ErrBackupNotFound = errors.New("backup not found")
)
