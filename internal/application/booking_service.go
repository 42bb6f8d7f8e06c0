package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/JeremyNakano12/nakanostay-backend/internal/domain"
	bookingDomain "github.com/JeremyNakano12/nakanostay-backend/internal/domain/booking"
	roomDomain "github.com/JeremyNakano12/nakanostay-backend/internal/domain/room"
	"github.com/JeremyNakano12/nakanostay-backend/internal/events"
)

// Publisher publishes booking lifecycle events.
type Publisher interface {
	PublishEvent(ctx context.Context, key, eventType string, data interface{}) error
}

// CreateBookingRequest holds the data needed to create a new booking.
type CreateBookingRequest struct {
	GuestName  string                 `json:"guest_name"`
	GuestDNI   string                 `json:"guest_dni"`
	GuestEmail string                 `json:"guest_email"`
	GuestPhone string                 `json:"guest_phone"`
	CheckIn    string                 `json:"check_in"`
	CheckOut   string                 `json:"check_out"`
	Details    []BookingDetailRequest `json:"details"`
}

// BookingDetailRequest is one requested room line.
type BookingDetailRequest struct {
	RoomID uuid.UUID `json:"room_id"`
	Guests int       `json:"guests"`
}

// BookingDetailDTO is the response representation of one booking line.
type BookingDetailDTO struct {
	RoomID              uuid.UUID `json:"room_id"`
	Guests              int       `json:"guests"`
	PriceAtBookingCents int64     `json:"price_at_booking_cents"`
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID          uuid.UUID          `json:"id"`
	Code        string             `json:"code"`
	GuestName   string             `json:"guest_name"`
	GuestDNI    string             `json:"guest_dni"`
	GuestEmail  string             `json:"guest_email"`
	GuestPhone  string             `json:"guest_phone,omitempty"`
	CheckIn     string             `json:"check_in"`
	CheckOut    string             `json:"check_out"`
	Status      string             `json:"status"`
	TotalCents  int64              `json:"total_cents"`
	Details     []BookingDetailDTO `json:"details"`
	BookedAt    time.Time          `json:"booked_at"`
	CancelledAt *time.Time         `json:"cancelled_at,omitempty"`
	Version     int64              `json:"version"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// BookingStatsDTO holds booking statistics for the admin dashboard.
type BookingStatsDTO struct {
	TotalBookings int64            `json:"total_bookings"`
	ByStatus      map[string]int64 `json:"by_status"`
}

// BookingService is the application service orchestrating booking use cases.
type BookingService struct {
	bookings bookingDomain.Repository
	rooms    roomDomain.Repository
	producer Publisher
	logger   *zap.Logger
	now      func() time.Time
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	bookings bookingDomain.Repository,
	rooms roomDomain.Repository,
	producer Publisher,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		bookings: bookings,
		rooms:    rooms,
		producer: producer,
		logger:   logger,
		now:      time.Now,
	}
}

// CreateBooking validates the request, checks room availability, snapshots
// prices and persists a new PENDING booking. Validation runs in order:
// request fields first, then room existence, then availability; the first
// failing stage determines the error.
func (s *BookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*BookingDTO, error) {
	candidate := bookingDomain.Candidate{
		GuestName:  req.GuestName,
		GuestDNI:   req.GuestDNI,
		GuestEmail: req.GuestEmail,
		GuestPhone: req.GuestPhone,
		CheckIn:    req.CheckIn,
		CheckOut:   req.CheckOut,
		Lines:      toCandidateLines(req.Details),
	}

	stay, verr := candidate.Validate(s.now())
	if verr != nil {
		return nil, verr
	}

	seen := make(map[uuid.UUID]bool, len(req.Details))
	details := make([]bookingDomain.Detail, len(req.Details))
	for i, line := range req.Details {
		if seen[line.RoomID] {
			return nil, domain.NewValidationError(
				fmt.Sprintf("details[%d].room_id", i), "room requested more than once",
			)
		}
		seen[line.RoomID] = true

		rm, err := s.rooms.FindByID(ctx, line.RoomID)
		if err != nil {
			return nil, err
		}
		if !rm.Available() {
			return nil, domain.NewConflictError(
				fmt.Sprintf("room %s is not available for booking", rm.ID()),
			)
		}

		active, err := s.bookings.FindActiveByRoom(ctx, rm.ID())
		if err != nil {
			return nil, fmt.Errorf("failed to load active bookings: %w", err)
		}
		if !bookingDomain.IsRangeFree(rm.ID(), stay, active, uuid.Nil) {
			return nil, domain.NewConflictError(
				fmt.Sprintf("room %s is already booked for the requested dates", rm.ID()),
			)
		}

		details[i] = bookingDomain.Detail{
			RoomID:              rm.ID(),
			Guests:              line.Guests,
			PriceAtBookingCents: rm.PriceCents(),
		}
	}

	bk, err := bookingDomain.NewBooking(candidate, stay, details, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.bookings.Save(ctx, bk); err != nil {
		return nil, err
	}

	s.publishLifecycleEvent(ctx, events.BookingCreated, bk)

	s.logger.Info("booking created",
		zap.String("booking_code", bk.Code()),
		zap.String("check_in", bk.Stay().CheckIn.Format(bookingDomain.DateLayout)),
		zap.Int("rooms", len(details)),
	)

	result := toBookingDTO(bk)
	return &result, nil
}

// GetByCodeAndDNI retrieves a booking by its code and the guest's identity
// number. Any mismatch, wrong code or wrong number, returns not-found so the
// response never reveals which side was wrong.
func (s *BookingService) GetByCodeAndDNI(ctx context.Context, code, dni string) (*BookingDTO, error) {
	bk, err := s.bookings.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if !bk.MatchesCredentials(code, dni) {
		return nil, domain.NewNotFoundError("Booking", code)
	}

	result := toBookingDTO(bk)
	return &result, nil
}

// CancelByCodeAndDNI cancels a booking on behalf of its guest, authenticated
// by code plus identity number.
func (s *BookingService) CancelByCodeAndDNI(ctx context.Context, code, dni string) (*BookingDTO, error) {
	bk, err := s.bookings.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if !bk.MatchesCredentials(code, dni) {
		return nil, domain.NewNotFoundError("Booking", code)
	}

	if err := bk.Cancel(); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.bookings.Update(ctx, bk); err != nil {
		return nil, err
	}

	s.publishLifecycleEvent(ctx, events.BookingCancelled, bk)

	result := toBookingDTO(bk)
	return &result, nil
}

// ConfirmBooking transitions a booking to CONFIRMED (admin).
func (s *BookingService) ConfirmBooking(ctx context.Context, code string) (*BookingDTO, error) {
	bk, err := s.bookings.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if err := bk.Confirm(); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.bookings.Update(ctx, bk); err != nil {
		return nil, err
	}

	s.publishLifecycleEvent(ctx, events.BookingConfirmed, bk)

	result := toBookingDTO(bk)
	return &result, nil
}

// CompleteBooking transitions a booking to COMPLETED (admin).
func (s *BookingService) CompleteBooking(ctx context.Context, code string) (*BookingDTO, error) {
	bk, err := s.bookings.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if err := bk.Complete(); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.bookings.Update(ctx, bk); err != nil {
		return nil, err
	}

	s.publishLifecycleEvent(ctx, events.BookingCompleted, bk)

	result := toBookingDTO(bk)
	return &result, nil
}

// ListAllBookings returns a page of bookings, optionally narrowed by status
// and a free-text term over code, identity number and guest name (admin).
func (s *BookingService) ListAllBookings(ctx context.Context, page, limit int, filter bookingDomain.Filter) (domain.PaginatedResult[BookingDTO], error) {
	bookings, total, err := s.bookings.ListAll(ctx, page, limit)
	if err != nil {
		return domain.PaginatedResult[BookingDTO]{}, fmt.Errorf("failed to list bookings: %w", err)
	}

	filtered := filter.Apply(bookings)

	dtos := make([]BookingDTO, len(filtered))
	for i, bk := range filtered {
		dtos[i] = toBookingDTO(bk)
	}

	return domain.NewPaginatedResult(dtos, total, page, limit), nil
}

// DeleteBooking removes a booking permanently (admin).
func (s *BookingService) DeleteBooking(ctx context.Context, id uuid.UUID) error {
	return s.bookings.Delete(ctx, id)
}

// GetBookingStats returns aggregate booking statistics (admin).
func (s *BookingService) GetBookingStats(ctx context.Context) (*BookingStatsDTO, error) {
	counts, err := s.bookings.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking stats: %w", err)
	}

	var total int64
	for _, c := range counts {
		total += c
	}

	return &BookingStatsDTO{
		TotalBookings: total,
		ByStatus:      counts,
	}, nil
}

// CompleteElapsedStays completes every CONFIRMED booking whose check-out date
// has passed. It returns the number of bookings completed; individual
// failures are logged and skipped so one stuck booking cannot stall the rest.
func (s *BookingService) CompleteElapsedStays(ctx context.Context) (int, error) {
	today := bookingDomain.Today(s.now())
	elapsed, err := s.bookings.FindConfirmedCheckedOutBefore(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("failed to find elapsed stays: %w", err)
	}

	completed := 0
	for _, bk := range elapsed {
		if err := bk.Complete(); err != nil {
			s.logger.Warn("skipping elapsed booking",
				zap.String("booking_code", bk.Code()),
				zap.Error(err),
			)
			continue
		}

		bk.IncrementVersion()
		if err := s.bookings.Update(ctx, bk); err != nil {
			s.logger.Warn("failed to complete elapsed booking",
				zap.String("booking_code", bk.Code()),
				zap.Error(err),
			)
			continue
		}

		s.publishLifecycleEvent(ctx, events.BookingCompleted, bk)
		completed++
	}

	return completed, nil
}

// --- Helpers ---

func (s *BookingService) publishLifecycleEvent(ctx context.Context, eventType string, bk *bookingDomain.Booking) {
	if s.producer == nil {
		return
	}

	evt := events.BookingEvent{
		BookingID:  bk.ID(),
		Code:       bk.Code(),
		GuestName:  bk.GuestName(),
		GuestEmail: bk.GuestEmail(),
		Status:     string(bk.Status()),
		CheckIn:    bk.Stay().CheckIn.Format(bookingDomain.DateLayout),
		CheckOut:   bk.Stay().CheckOut.Format(bookingDomain.DateLayout),
		TotalCents: bk.TotalCents(),
		OccurredAt: time.Now().UTC(),
	}

	if err := s.producer.PublishEvent(ctx, bk.ID().String(), eventType, evt); err != nil {
		s.logger.Error("failed to publish booking event",
			zap.String("type", eventType),
			zap.String("booking_code", bk.Code()),
			zap.Error(err),
		)
	}
}

func toCandidateLines(details []BookingDetailRequest) []bookingDomain.CandidateLine {
	lines := make([]bookingDomain.CandidateLine, len(details))
	for i, d := range details {
		lines[i] = bookingDomain.CandidateLine{RoomID: d.RoomID, Guests: d.Guests}
	}
	return lines
}

func toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	details := make([]BookingDetailDTO, len(bk.Details()))
	for i, d := range bk.Details() {
		details[i] = BookingDetailDTO{
			RoomID:              d.RoomID,
			Guests:              d.Guests,
			PriceAtBookingCents: d.PriceAtBookingCents,
		}
	}

	return BookingDTO{
		ID:          bk.ID(),
		Code:        bk.Code(),
		GuestName:   bk.GuestName(),
		GuestDNI:    bk.GuestDNI(),
		GuestEmail:  bk.GuestEmail(),
		GuestPhone:  bk.GuestPhone(),
		CheckIn:     bk.Stay().CheckIn.Format(bookingDomain.DateLayout),
		CheckOut:    bk.Stay().CheckOut.Format(bookingDomain.DateLayout),
		Status:      string(bk.Status()),
		TotalCents:  bk.TotalCents(),
		Details:     details,
		BookedAt:    bk.BookedAt(),
		CancelledAt: bk.CancelledAt(),
		Version:     bk.Version(),
		CreatedAt:   bk.CreatedAt(),
		UpdatedAt:   bk.UpdatedAt(),
	}
}
