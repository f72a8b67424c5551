package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
)

// Badger is the default Blobs backend, a Badger database directory.
type Badger struct {
	db     *badger.DB
	logger *slog.Logger
}

// NewBadger opens (or creates) a Badger database at path.
func NewBadger(path string, logger *slog.Logger) (*Badger, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Every catalog write is a full snapshot; sync it
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	return openBadger(opts, path, logger)
}

// NewBadgerInMemory opens a Badger database that lives only in memory.
func NewBadgerInMemory(logger *slog.Logger) (*Badger, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil

	return openBadger(opts, ":memory:", logger)
}

func openBadger(opts badger.Options, path string, logger *slog.Logger) (*Badger, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	if logger != nil {
		logger.Info("badger database opened", "path", path)
	}

	return &Badger{db: db, logger: logger}, nil
}

// Read implements Blobs.
func (s *Badger) Read(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	var blob []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		blob, err = item.ValueCopy(nil)
		return err
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if errors.Is(err, badger.ErrDBClosed) {
		return nil, false, ErrClosed
	}
	if err != nil {
		return nil, false, err
	}
	return blob, true, nil
}

// Write implements Blobs.
func (s *Badger) Write(ctx context.Context, key string, blob []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), blob)
	})
	if errors.Is(err, badger.ErrDBClosed) {
		return ErrClosed
	}
	return err
}

// Close gracefully closes the database.
func (s *Badger) Close() error {
	if s.logger != nil {
		s.logger.Info("closing badger database")
	}
	return s.db.Close()
}
