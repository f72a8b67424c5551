package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.etcd.io/bbolt"
)

// boltBucket holds every catalog key.
var boltBucket = []byte("bookshelf")

// Bolt is a Blobs backend stored in a single bbolt file.
type Bolt struct {
	db     *bbolt.DB
	logger *slog.Logger
}

// NewBolt opens (or creates) a bbolt database file at path.
func NewBolt(path string, logger *slog.Logger) (*Bolt, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(boltBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create bucket: %w", err)
	}

	if logger != nil {
		logger.Info("bolt database opened", "path", path)
	}

	return &Bolt{db: db, logger: logger}, nil
}

// Read implements Blobs.
func (s *Bolt) Read(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	var blob []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		val := tx.Bucket(boltBucket).Get([]byte(key))
		if val != nil {
			// Bolt values are only valid for the life of the transaction.
			blob = append([]byte(nil), val...)
		}
		return nil
	})
	if errors.Is(err, bbolt.ErrDatabaseNotOpen) {
		return nil, false, ErrClosed
	}
	if err != nil {
		return nil, false, err
	}
	return blob, blob != nil, nil
}

// Write implements Blobs.
func (s *Bolt) Write(ctx context.Context, key string, blob []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(boltBucket).Put([]byte(key), blob)
	})
	if errors.Is(err, bbolt.ErrDatabaseNotOpen) {
		return ErrClosed
	}
	return err
}

// Close closes the database file.
func (s *Bolt) Close() error {
	if s.logger != nil {
		s.logger.Info("closing bolt database")
	}
	return s.db.Close()
}
