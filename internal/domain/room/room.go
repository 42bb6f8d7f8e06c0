package room

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JeremyNakano12/nakanostay-backend/internal/domain"
)

// Room is the aggregate root for a bookable hotel room. Available is a
// room-level switch independent of date-specific bookings: a room switched
// off cannot be booked for any date.
type Room struct {
	id         uuid.UUID
	hotelID    uuid.UUID
	number     string
	roomType   string
	priceCents int64
	available  bool

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewRoom creates an available room with validated fields. The nightly
// price is an integer amount of cents; it must be positive.
func NewRoom(hotelID uuid.UUID, number, roomType string, priceCents int64) (*Room, error) {
	if err := validate(hotelID, number, priceCents); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Room{
		id:         uuid.New(),
		hotelID:    hotelID,
		number:     strings.TrimSpace(number),
		roomType:   strings.TrimSpace(roomType),
		priceCents: priceCents,
		available:  true,
		version:    1,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

// Reconstruct rebuilds a Room from persistence data (no validation).
func Reconstruct(id, hotelID uuid.UUID, number, roomType string, priceCents int64, available bool, version int64, createdAt, updatedAt time.Time) *Room {
	return &Room{
		id:         id,
		hotelID:    hotelID,
		number:     number,
		roomType:   roomType,
		priceCents: priceCents,
		available:  available,
		version:    version,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

// ID returns the room's unique identifier.
func (r *Room) ID() uuid.UUID { return r.id }

// HotelID returns the owning hotel's identifier.
func (r *Room) HotelID() uuid.UUID { return r.hotelID }

// Number returns the room number, unique within the hotel.
func (r *Room) Number() string { return r.number }

// RoomType returns the room-type label, or empty if not set.
func (r *Room) RoomType() string { return r.roomType }

// PriceCents returns the current nightly price in cents.
func (r *Room) PriceCents() int64 { return r.priceCents }

// Available reports whether the room can be booked at all.
func (r *Room) Available() bool { return r.available }

// Version returns the entity version for optimistic locking.
func (r *Room) Version() int64 { return r.version }

// CreatedAt returns the creation timestamp.
func (r *Room) CreatedAt() time.Time { return r.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (r *Room) UpdatedAt() time.Time { return r.updatedAt }

// Update replaces the room's mutable fields after validating them. Changing
// the price only affects future bookings; existing bookings keep the price
// snapshotted at booking time.
func (r *Room) Update(number, roomType string, priceCents int64) error {
	if err := validate(r.hotelID, number, priceCents); err != nil {
		return err
	}
	r.number = strings.TrimSpace(number)
	r.roomType = strings.TrimSpace(roomType)
	r.priceCents = priceCents
	r.updatedAt = time.Now().UTC()
	return nil
}

// MakeAvailable switches the room on for booking.
func (r *Room) MakeAvailable() {
	r.available = true
	r.updatedAt = time.Now().UTC()
}

// MakeUnavailable switches the room off; no date can be booked while off.
func (r *Room) MakeUnavailable() {
	r.available = false
	r.updatedAt = time.Now().UTC()
}

// IncrementVersion bumps the version for optimistic locking.
func (r *Room) IncrementVersion() {
	r.version++
	r.updatedAt = time.Now().UTC()
}

func validate(hotelID uuid.UUID, number string, priceCents int64) error {
	verr := &domain.ValidationError{}
	if hotelID == uuid.Nil {
		verr.Add("hotel_id", "is required")
	}
	if strings.TrimSpace(number) == "" {
		verr.Add("room_number", "must not be blank")
	}
	if priceCents <= 0 {
		verr.Add("price_cents", "must be positive")
	}
	if verr.HasViolations() {
		return verr
	}
	return nil
}
