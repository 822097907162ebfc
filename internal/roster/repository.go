package roster

import (
	"context"
	"time"
)

// Repository defines the storage interface for slot assignments.
type Repository interface {
	// QueryRange returns every assignment whose date falls in [start, end],
	// ordered by date, hour and arrival.
	QueryRange(ctx context.Context, start, end time.Time) ([]Record, error)

	// WriteSlotAssignment upserts the record keyed by (date, hour, user).
	WriteSlotAssignment(ctx context.Context, rec Record) error

	// DeleteSlotAssignment removes the assignment keyed by ref.
	// Deleting a missing assignment is not an error.
	DeleteSlotAssignment(ctx context.Context, ref SlotRef) error

	// Close releases any resources held by the repository.
	Close() error
}

// Identity resolves the acting user.
type Identity interface {
	CurrentActingUser() Actor
}

// StaticIdentity is an Identity fixed for the whole session.
type StaticIdentity Actor

// CurrentActingUser returns the fixed actor.
func (s StaticIdentity) CurrentActingUser() Actor {
	return Actor(s)
}
