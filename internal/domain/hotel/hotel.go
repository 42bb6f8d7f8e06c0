package hotel

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JeremyNakano12/nakanostay-backend/internal/domain"
)

// Hotel is the aggregate root for a hotel managed by administrators.
type Hotel struct {
	id      uuid.UUID
	name    string
	address string
	city    string
	stars   *int
	email   string

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewHotel creates a hotel with validated fields. City and stars are
// optional; stars, when set, must be between 1 and 5.
func NewHotel(name, address, city string, stars *int, email string) (*Hotel, error) {
	if err := validate(name, address, stars, email); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Hotel{
		id:        uuid.New(),
		name:      strings.TrimSpace(name),
		address:   strings.TrimSpace(address),
		city:      strings.TrimSpace(city),
		stars:     stars,
		email:     strings.TrimSpace(email),
		version:   1,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Reconstruct rebuilds a Hotel from persistence data (no validation).
func Reconstruct(id uuid.UUID, name, address, city string, stars *int, email string, version int64, createdAt, updatedAt time.Time) *Hotel {
	return &Hotel{
		id:        id,
		name:      name,
		address:   address,
		city:      city,
		stars:     stars,
		email:     email,
		version:   version,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// ID returns the hotel's unique identifier.
func (h *Hotel) ID() uuid.UUID { return h.id }

// Name returns the hotel name.
func (h *Hotel) Name() string { return h.name }

// Address returns the street address.
func (h *Hotel) Address() string { return h.address }

// City returns the city, or empty if not set.
func (h *Hotel) City() string { return h.city }

// Stars returns the star rating (1-5), or nil if unrated.
func (h *Hotel) Stars() *int { return h.stars }

// Email returns the hotel contact email.
func (h *Hotel) Email() string { return h.email }

// Version returns the entity version for optimistic locking.
func (h *Hotel) Version() int64 { return h.version }

// CreatedAt returns the creation timestamp.
func (h *Hotel) CreatedAt() time.Time { return h.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (h *Hotel) UpdatedAt() time.Time { return h.updatedAt }

// Update replaces the hotel's mutable fields after validating them.
func (h *Hotel) Update(name, address, city string, stars *int, email string) error {
	if err := validate(name, address, stars, email); err != nil {
		return err
	}
	h.name = strings.TrimSpace(name)
	h.address = strings.TrimSpace(address)
	h.city = strings.TrimSpace(city)
	h.stars = stars
	h.email = strings.TrimSpace(email)
	h.updatedAt = time.Now().UTC()
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (h *Hotel) IncrementVersion() {
	h.version++
	h.updatedAt = time.Now().UTC()
}

func validate(name, address string, stars *int, email string) error {
	verr := &domain.ValidationError{}
	if strings.TrimSpace(name) == "" {
		verr.Add("name", "must not be blank")
	}
	if strings.TrimSpace(address) == "" {
		verr.Add("address", "must not be blank")
	}
	if stars != nil && (*stars < 1 || *stars > 5) {
		verr.Add("stars", "must be between 1 and 5")
	}
	if strings.TrimSpace(email) == "" {
		verr.Add("email", "must not be blank")
	} else if _, err := mail.ParseAddress(email); err != nil {
		verr.Add("email", "must be a valid email address")
	}
	if verr.HasViolations() {
		return verr
	}
	return nil
}
