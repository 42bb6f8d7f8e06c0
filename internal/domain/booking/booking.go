package booking

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JeremyNakano12/nakanostay-backend/internal/domain"
)

const bookingCodeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// bookingCodePrefix is the stable prefix of every NakanoStay booking code.
const bookingCodePrefix = "NKS-"

// Detail is one room line of a booking. PriceAtBookingCents snapshots the
// room's nightly price at booking time; later room price changes never
// alter historical bookings.
type Detail struct {
	RoomID              uuid.UUID `json:"room_id"`
	Guests              int       `json:"guests"`
	PriceAtBookingCents int64     `json:"price_at_booking_cents"`
}

// CandidateLine is one requested room line of a prospective booking.
type CandidateLine struct {
	RoomID uuid.UUID
	Guests int
}

// Candidate is a prospective booking as submitted by a guest, before any
// availability check or price snapshot.
type Candidate struct {
	GuestName  string
	GuestDNI   string
	GuestEmail string
	GuestPhone string
	CheckIn    string
	CheckOut   string
	Lines      []CandidateLine
}

// Validate checks the candidate's guest data, identity number, date range
// and requested lines against the admission rules, collecting every
// violation instead of failing on the first. It returns the parsed stay
// range on success. Availability is checked separately, against storage.
func (c Candidate) Validate(now time.Time) (StayRange, *domain.ValidationError) {
	verr := &domain.ValidationError{}

	if strings.TrimSpace(c.GuestName) == "" {
		verr.Add("guest_name", "must not be blank")
	}
	if strings.TrimSpace(c.GuestEmail) == "" {
		verr.Add("guest_email", "must not be blank")
	} else if _, err := mail.ParseAddress(c.GuestEmail); err != nil {
		verr.Add("guest_email", "must be a valid email address")
	}
	if err := ValidateCedula(c.GuestDNI); err != nil {
		verr.Add("guest_dni", err.Error())
	}

	stay, err := ParseStayRange(c.CheckIn, c.CheckOut)
	if err != nil {
		verr.Add("check_in", err.Error())
	} else if stay.CheckIn.Before(Today(now)) {
		verr.Add("check_in", "must not be before today")
	}

	if len(c.Lines) == 0 {
		verr.Add("details", "must request at least one room")
	}
	for i, line := range c.Lines {
		if line.RoomID == uuid.Nil {
			verr.Add(fmt.Sprintf("details[%d].room_id", i), "is required")
		}
		if line.Guests < 1 {
			verr.Add(fmt.Sprintf("details[%d].guests", i), "must be at least 1")
		}
	}

	if verr.HasViolations() {
		return StayRange{}, verr
	}
	return stay, nil
}

// Booking is the aggregate root for the booking domain. The booking code
// plus the guest's cédula is the sole guest credential; there are no guest
// accounts.
type Booking struct {
	id          uuid.UUID
	code        string
	guestName   string
	guestDNI    string
	guestEmail  string
	guestPhone  string
	stay        StayRange
	status      Status
	totalCents  int64
	details     []Detail
	bookedAt    time.Time
	cancelledAt *time.Time

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// generateBookingCode creates a booking code in the format "NKS-XXXXXX".
func generateBookingCode() (string, error) {
	result := make([]byte, 6)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(bookingCodeChars))))
		if err != nil {
			return "", fmt.Errorf("failed to generate booking code: %w", err)
		}
		result[i] = bookingCodeChars[n.Int64()]
	}
	return bookingCodePrefix + string(result), nil
}

// TotalCents computes the booking total: the sum over detail lines of the
// snapshotted nightly price times the number of nights.
func TotalCents(details []Detail, nights int) int64 {
	var total int64
	for _, d := range details {
		total += d.PriceAtBookingCents * int64(nights)
	}
	return total
}

// NewBooking creates a PENDING booking from an already-validated candidate
// and its priced detail lines. The caller is responsible for having run
// Candidate.Validate and the availability checks first.
func NewBooking(c Candidate, stay StayRange, details []Detail, now time.Time) (*Booking, error) {
	if len(details) == 0 {
		return nil, domain.NewValidationError("details", "must contain at least one room")
	}

	code, err := generateBookingCode()
	if err != nil {
		return nil, err
	}

	now = now.UTC()
	return &Booking{
		id:         uuid.New(),
		code:       code,
		guestName:  strings.TrimSpace(c.GuestName),
		guestDNI:   c.GuestDNI,
		guestEmail: strings.TrimSpace(c.GuestEmail),
		guestPhone: strings.TrimSpace(c.GuestPhone),
		stay:       stay,
		status:     StatusPending,
		totalCents: TotalCents(details, stay.Nights()),
		details:    details,
		bookedAt:   now,
		version:    1,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

// Reconstruct rebuilds a Booking from persistence data (no validation).
func Reconstruct(
	id uuid.UUID,
	code string,
	guestName, guestDNI, guestEmail, guestPhone string,
	stay StayRange,
	status Status,
	totalCents int64,
	details []Detail,
	bookedAt time.Time,
	cancelledAt *time.Time,
	version int64,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:          id,
		code:        code,
		guestName:   guestName,
		guestDNI:    guestDNI,
		guestEmail:  guestEmail,
		guestPhone:  guestPhone,
		stay:        stay,
		status:      status,
		totalCents:  totalCents,
		details:     details,
		bookedAt:    bookedAt,
		cancelledAt: cancelledAt,
		version:     version,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// ID returns the booking's unique identifier.
func (b *Booking) ID() uuid.UUID { return b.id }

// Code returns the human-readable booking code.
func (b *Booking) Code() string { return b.code }

// GuestName returns the guest's full name.
func (b *Booking) GuestName() string { return b.guestName }

// GuestDNI returns the guest's national identity number.
func (b *Booking) GuestDNI() string { return b.guestDNI }

// GuestEmail returns the guest's contact email.
func (b *Booking) GuestEmail() string { return b.guestEmail }

// GuestPhone returns the guest's phone number, if provided.
func (b *Booking) GuestPhone() string { return b.guestPhone }

// Stay returns the booked date range.
func (b *Booking) Stay() StayRange { return b.stay }

// Status returns the current booking status.
func (b *Booking) Status() Status { return b.status }

// TotalCents returns the booking total in cents.
func (b *Booking) TotalCents() int64 { return b.totalCents }

// Details returns the booking's room lines.
func (b *Booking) Details() []Detail { return b.details }

// BookedAt returns the booking creation timestamp.
func (b *Booking) BookedAt() time.Time { return b.bookedAt }

// CancelledAt returns the time the booking was cancelled, or nil.
func (b *Booking) CancelledAt() *time.Time { return b.cancelledAt }

// Version returns the entity version for optimistic locking.
func (b *Booking) Version() int64 { return b.version }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// OccupiesRoom reports whether one of the booking's detail lines references
// the given room.
func (b *Booking) OccupiesRoom(roomID uuid.UUID) bool {
	for _, d := range b.details {
		if d.RoomID == roomID {
			return true
		}
	}
	return false
}

// MatchesCredentials reports whether the given code and identity number both
// match this booking. Callers must treat any mismatch as not-found so the
// response never reveals which of the two fields was wrong.
func (b *Booking) MatchesCredentials(code, dni string) bool {
	return b.code == code && b.guestDNI == dni
}

// Confirm transitions the booking from PENDING to CONFIRMED.
func (b *Booking) Confirm() error {
	if !b.status.CanTransitionTo(StatusConfirmed) {
		return domain.NewInvalidStateError(string(b.status), string(StatusConfirmed))
	}
	b.status = StatusConfirmed
	b.updatedAt = time.Now().UTC()
	return nil
}

// Cancel transitions the booking to CANCELLED if it is not in a terminal state.
func (b *Booking) Cancel() error {
	if !b.status.CanTransitionTo(StatusCancelled) {
		return domain.NewInvalidStateError(string(b.status), string(StatusCancelled))
	}
	now := time.Now().UTC()
	b.status = StatusCancelled
	b.cancelledAt = &now
	b.updatedAt = now
	return nil
}

// Complete transitions the booking from CONFIRMED to COMPLETED.
func (b *Booking) Complete() error {
	if !b.status.CanTransitionTo(StatusCompleted) {
		return domain.NewInvalidStateError(string(b.status), string(StatusCompleted))
	}
	b.status = StatusCompleted
	b.updatedAt = time.Now().UTC()
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}
