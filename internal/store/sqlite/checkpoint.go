package sqlite

import (
	"context"
	"fmt"
	"time"
)

// Checkpoint returns when any catalog blob was last written. It returns a
// zero time.Time for an empty database.
//
// updated_at is RFC 3339 with trimmed fractions, which does not sort
// lexically, so the maximum is taken after parsing.
func (s *Store) Checkpoint(ctx context.Context) (time.Time, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, updated_at FROM kv`)
	if err != nil {
		return time.Time{}, fmt.Errorf("query checkpoint: %w", err)
	}
	defer rows.Close()

	var latest time.Time
	for rows.Next() {
		var key, raw string
		if err := rows.Scan(&key, &raw); err != nil {
			return time.Time{}, fmt.Errorf("scan checkpoint: %w", err)
		}
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return time.Time{}, fmt.Errorf("parse updated_at %s: %w", key, err)
		}
		if t.After(latest) {
			latest = t
		}
	}
	if err := rows.Err(); err != nil {
		return time.Time{}, fmt.Errorf("iterate checkpoint: %w", err)
	}

	return latest, nil
}
