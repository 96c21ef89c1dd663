package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/fixhub/fixhub/internal/model"
	"github.com/google/uuid"
)

// LogActivity appends one audit entry. Entries are never updated or deleted.
func (s *SQLiteStorage) LogActivity(ctx context.Context, entry *model.ActivityEntry) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if entry == nil {
		return fmt.Errorf("%w: entry", ErrNilParameter)
	}
	return s.logActivityTx(ctx, s.db, entry)
}

func (s *SQLiteStorage) logActivityTx(ctx context.Context, q queryable, entry *model.ActivityEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if err := validateString(entry.Action, "action"); err != nil {
		return err
	}

	_, err := q.ExecContext(ctx, `
		INSERT INTO activity_logs (id, actor, action, description, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, entry.ID.String(), entry.Actor, entry.Action, entry.Description, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert activity entry: %w", err)
	}
	return nil
}
