package hotel

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence contract for hotel aggregates.
type Repository interface {
	// FindByID retrieves a hotel by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Hotel, error)

	// List retrieves all hotels ordered by name.
	List(ctx context.Context) ([]*Hotel, error)

	// Save persists a new hotel.
	Save(ctx context.Context, hotel *Hotel) error

	// Update persists changes to an existing hotel with optimistic locking.
	Update(ctx context.Context, hotel *Hotel) error

	// Delete removes a hotel by id.
	Delete(ctx context.Context, id uuid.UUID) error
}
