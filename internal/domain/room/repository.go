package room

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence contract for room aggregates.
type Repository interface {
	// FindByID retrieves a room by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Room, error)

	// List retrieves all rooms ordered by hotel and room number.
	List(ctx context.Context) ([]*Room, error)

	// ListByHotel retrieves the rooms of one hotel ordered by room number.
	ListByHotel(ctx context.Context, hotelID uuid.UUID) ([]*Room, error)

	// Save persists a new room.
	Save(ctx context.Context, room *Room) error

	// Update persists changes to an existing room with optimistic locking.
	Update(ctx context.Context, room *Room) error

	// Delete removes a room by id.
	Delete(ctx context.Context, id uuid.UUID) error
}
