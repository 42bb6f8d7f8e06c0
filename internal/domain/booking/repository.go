package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the persistence contract for booking aggregates.
type Repository interface {
	// FindByID retrieves a booking by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// FindByCode retrieves a booking by its human-readable booking code.
	FindByCode(ctx context.Context, code string) (*Booking, error)

	// ListAll retrieves all bookings with pagination (admin).
	ListAll(ctx context.Context, page, limit int) ([]*Booking, int64, error)

	// FindActiveByRoom retrieves the PENDING and CONFIRMED bookings that
	// reference the given room.
	FindActiveByRoom(ctx context.Context, roomID uuid.UUID) ([]*Booking, error)

	// FindConfirmedCheckedOutBefore retrieves CONFIRMED bookings whose
	// check-out date is on or before the given day.
	FindConfirmedCheckedOutBefore(ctx context.Context, day time.Time) ([]*Booking, error)

	// CountByStatus returns booking counts grouped by status (admin).
	CountByStatus(ctx context.Context) (map[string]int64, error)

	// Save persists a new booking after re-checking, atomically with the
	// insert, that no concurrent non-terminal booking overlaps any of its
	// rooms. Losing that race returns a conflict error.
	Save(ctx context.Context, booking *Booking) error

	// Update persists changes to an existing booking with optimistic locking.
	Update(ctx context.Context, booking *Booking) error

	// Delete removes a booking by id (admin).
	Delete(ctx context.Context, id uuid.UUID) error
}
