package model

import (
	"time"

	"github.com/google/uuid"
)

// ActivityEntry is one append-only audit log row.
type ActivityEntry struct {
	CreatedAt   time.Time
	Actor       string
	Action      string
	Description string
	ID          uuid.UUID
}

// NewActivityEntry stamps a new audit entry with an ID and timestamp.
func NewActivityEntry(actor, action, description string) *ActivityEntry {
	return &ActivityEntry{
		ID:          uuid.New(),
		Actor:       actor,
		Action:      action,
		Description: description,
		CreatedAt:   time.Now(),
	}
}
