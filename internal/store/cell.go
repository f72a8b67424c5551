package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Cell is a typed value persisted under a single key.
//
// The value is loaded once when the cell is created and every Set or Update
// writes the complete value back. Values handed out by Get are shared with
// the cell and must be treated as immutable; Update functions return a new
// value instead of modifying prev.
type Cell[T any] struct {
	blobs  Blobs
	key    string
	logger *slog.Logger

	mu    sync.RWMutex
	value T
}

// NewCell loads the value stored under key, or initial if nothing is stored.
func NewCell[T any](ctx context.Context, blobs Blobs, key string, initial T, logger *slog.Logger) (*Cell[T], error) {
	return NewCellFunc(ctx, blobs, key, func() T { return initial }, logger)
}

// NewCellFunc is NewCell with a lazily produced default. initial runs only
// when the key is absent or its blob is corrupt.
//
// An absent key is initialized by writing the default back. A corrupt blob
// is logged and left in place until the next write, so it can still be
// inspected after startup.
func NewCellFunc[T any](ctx context.Context, blobs Blobs, key string, initial func() T, logger *slog.Logger) (*Cell[T], error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	c := &Cell[T]{
		blobs:  blobs,
		key:    key,
		logger: logger,
	}

	blob, found, err := blobs.Read(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}

	if found {
		value, err := Decode[T](key, blob)
		if err == nil {
			c.value = value
			return c, nil
		}
		logger.Warn("stored value is corrupt, using default", "key", key, "error", err)
		c.value = initial()
		return c, nil
	}

	value := initial()
	if err := c.write(ctx, value); err != nil {
		return nil, err
	}
	c.value = value
	return c, nil
}

// Key returns the storage key of the cell.
func (c *Cell[T]) Key() string {
	return c.key
}

// Get returns the current value.
func (c *Cell[T]) Get() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

// Set replaces the value and writes it back.
func (c *Cell[T]) Set(ctx context.Context, value T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.write(ctx, value); err != nil {
		return err
	}
	c.value = value
	return nil
}

// Update applies fn to the most recently committed value and stores the
// result. fn runs under the cell lock, so concurrent updates never observe
// the same prev. If the write fails the in-memory value is left unchanged.
func (c *Cell[T]) Update(ctx context.Context, fn func(prev T) T) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := fn(c.value)
	if err := c.write(ctx, next); err != nil {
		var zero T
		return zero, err
	}
	c.value = next
	return next, nil
}

func (c *Cell[T]) write(ctx context.Context, value T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := Encode(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", c.key, err)
	}

	if err := c.blobs.Write(ctx, c.key, data); err != nil {
		return fmt.Errorf("write %s: %w", c.key, err)
	}
	return nil
}
