// Package store persists the catalog as whole-collection blobs in an
// embedded key-value backend.
//
// A backend (Blobs) only knows string keys and opaque byte values. Cell
// layers a typed, JSON-encoded value on top: it loads once, serves reads
// from memory, and writes the full value back on every change.
package store

import "context"

// Blobs is a synchronous string-keyed blob store.
type Blobs interface {
	// Read returns the blob stored under key. found is false if the key
	// has never been written.
	Read(ctx context.Context, key string) (blob []byte, found bool, err error)

	// Write stores blob under key, replacing any previous value.
	Write(ctx context.Context, key string, blob []byte) error

	// Close releases the backend.
	Close() error
}
