package storage

import (
	"context"
	"fmt"
)

// NextSequence atomically increments and returns the per-prefix job id
// counter. The conflict-resolving upsert makes concurrent generations for the
// same prefix serialize at the storage layer instead of racing on a
// read-then-increment.
func (s *SQLiteStorage) NextSequence(ctx context.Context, prefix string) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateString(prefix, "prefix"); err != nil {
		return 0, err
	}
	return s.nextSequenceTx(ctx, s.db, prefix)
}

func (s *SQLiteStorage) nextSequenceTx(ctx context.Context, q queryable, prefix string) (int64, error) {
	var value int64
	err := q.QueryRowContext(ctx, `
		INSERT INTO job_sequences (prefix, value)
		VALUES (?, 1)
		ON CONFLICT(prefix) DO UPDATE SET value = value + 1
		RETURNING value
	`, prefix).Scan(&value)
	if err != nil {
		return 0, fmt.Errorf("failed to advance sequence %q: %w", prefix, err)
	}
	return value, nil
}
