// Package backend opens the configured store.Blobs implementation.
package backend

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/listenupapp/bookshelf/internal/store"
	"github.com/listenupapp/bookshelf/internal/store/sqlite"
)

// Kind names a storage backend.
type Kind string

// Supported backends.
const (
	Badger Kind = "badger"
	Bolt   Kind = "bolt"
	SQLite Kind = "sqlite"
	Memory Kind = "memory"
)

// Kinds lists every supported backend.
var Kinds = []Kind{Badger, Bolt, SQLite, Memory}

// Valid reports whether k is a supported backend.
func (k Kind) Valid() bool {
	switch k {
	case Badger, Bolt, SQLite, Memory:
		return true
	}
	return false
}

// Path returns the location a backend of kind k uses under dataPath.
// It is empty for the memory backend.
func Path(k Kind, dataPath string) string {
	switch k {
	case Badger:
		return filepath.Join(dataPath, "db")
	case Bolt:
		return filepath.Join(dataPath, "bookshelf.bolt")
	case SQLite:
		return filepath.Join(dataPath, "bookshelf.db")
	default:
		return ""
	}
}

// Open creates dataPath if needed and opens a backend of kind k in it.
func Open(k Kind, dataPath string, logger *slog.Logger) (store.Blobs, error) {
	if k == Memory {
		return store.NewMemory(), nil
	}
	if !k.Valid() {
		return nil, fmt.Errorf("unknown storage backend %q", k)
	}

	if err := os.MkdirAll(dataPath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	path := Path(k, dataPath)
	switch k {
	case Badger:
		return store.NewBadger(path, logger)
	case Bolt:
		return store.NewBolt(path, logger)
	default:
		return sqlite.Open(path, logger)
	}
}
