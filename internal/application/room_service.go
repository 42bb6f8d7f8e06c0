package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/JeremyNakano12/nakanostay-backend/internal/cache"
	"github.com/JeremyNakano12/nakanostay-backend/internal/domain"
	bookingDomain "github.com/JeremyNakano12/nakanostay-backend/internal/domain/booking"
	hotelDomain "github.com/JeremyNakano12/nakanostay-backend/internal/domain/hotel"
	roomDomain "github.com/JeremyNakano12/nakanostay-backend/internal/domain/room"
)

// RoomRequest holds the data for creating or updating a room.
type RoomRequest struct {
	HotelID    uuid.UUID `json:"hotel_id"`
	RoomNumber string    `json:"room_number"`
	RoomType   string    `json:"room_type"`
	PriceCents int64     `json:"price_cents"`
}

// RoomDTO is the response representation of a room.
type RoomDTO struct {
	ID         uuid.UUID `json:"id"`
	HotelID    uuid.UUID `json:"hotel_id"`
	RoomNumber string    `json:"room_number"`
	RoomType   string    `json:"room_type,omitempty"`
	PriceCents int64     `json:"price_cents"`
	Available  bool      `json:"available"`
	Version    int64     `json:"version"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// RoomAvailabilityDTO is the response representation of a room's free and
// occupied nights within a queried window.
type RoomAvailabilityDTO struct {
	RoomID         uuid.UUID          `json:"room_id"`
	AvailableDates []string           `json:"available_dates"`
	OccupiedRanges []OccupiedRangeDTO `json:"occupied_ranges"`
}

// OccupiedRangeDTO is one half-open occupied interval, clipped to the window.
type OccupiedRangeDTO struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// RoomService is the application service orchestrating room use cases.
type RoomService struct {
	rooms    roomDomain.Repository
	hotels   hotelDomain.Repository
	bookings bookingDomain.Repository
	cache    *cache.Cache
	logger   *zap.Logger
	now      func() time.Time
}

// NewRoomService creates a new RoomService.
func NewRoomService(
	rooms roomDomain.Repository,
	hotels hotelDomain.Repository,
	bookings bookingDomain.Repository,
	c *cache.Cache,
	logger *zap.Logger,
) *RoomService {
	return &RoomService{
		rooms:    rooms,
		hotels:   hotels,
		bookings: bookings,
		cache:    c,
		logger:   logger,
		now:      time.Now,
	}
}

// CreateRoom registers a new room under an existing hotel (admin).
func (s *RoomService) CreateRoom(ctx context.Context, req RoomRequest) (*RoomDTO, error) {
	if _, err := s.hotels.FindByID(ctx, req.HotelID); err != nil {
		return nil, err
	}

	rm, err := roomDomain.NewRoom(req.HotelID, req.RoomNumber, req.RoomType, req.PriceCents)
	if err != nil {
		return nil, err
	}

	if err := s.rooms.Save(ctx, rm); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, roomCachePattern)

	result := toRoomDTO(rm)
	return &result, nil
}

// GetRoom retrieves a single room by id.
func (s *RoomService) GetRoom(ctx context.Context, id uuid.UUID) (*RoomDTO, error) {
	rm, err := s.rooms.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := toRoomDTO(rm)
	return &result, nil
}

// ListRooms retrieves all rooms, served from cache when possible.
func (s *RoomService) ListRooms(ctx context.Context) ([]RoomDTO, error) {
	const key = "rooms:list"

	var cached []RoomDTO
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return cached, nil
	} else if !errors.Is(err, cache.ErrMiss) {
		s.logger.Warn("room list cache read failed", zap.Error(err))
	}

	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return nil, err
	}

	dtos := make([]RoomDTO, len(rooms))
	for i, rm := range rooms {
		dtos[i] = toRoomDTO(rm)
	}

	s.cache.Set(ctx, key, dtos)
	return dtos, nil
}

// ListRoomsByHotel retrieves one hotel's rooms, served from cache when possible.
func (s *RoomService) ListRoomsByHotel(ctx context.Context, hotelID uuid.UUID) ([]RoomDTO, error) {
	key := fmt.Sprintf("rooms:hotel:%s", hotelID)

	var cached []RoomDTO
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return cached, nil
	} else if !errors.Is(err, cache.ErrMiss) {
		s.logger.Warn("room list cache read failed", zap.Error(err))
	}

	if _, err := s.hotels.FindByID(ctx, hotelID); err != nil {
		return nil, err
	}

	rooms, err := s.rooms.ListByHotel(ctx, hotelID)
	if err != nil {
		return nil, err
	}

	dtos := make([]RoomDTO, len(rooms))
	for i, rm := range rooms {
		dtos[i] = toRoomDTO(rm)
	}

	s.cache.Set(ctx, key, dtos)
	return dtos, nil
}

// GetAvailability reports which nights of the window are free for a room.
// The window dates use the wire date format; the range is half-open, so the
// end date itself is never reported.
func (s *RoomService) GetAvailability(ctx context.Context, roomID uuid.UUID, from, to string) (*RoomAvailabilityDTO, error) {
	window, err := bookingDomain.ParseStayRange(from, to)
	if err != nil {
		return nil, domain.NewValidationError("date_range", err.Error())
	}

	rm, err := s.rooms.FindByID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	active, err := s.bookings.FindActiveByRoom(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to load active bookings: %w", err)
	}

	avail := bookingDomain.ComputeAvailability(roomID, window, rm.Available(), active)
	result := toAvailabilityDTO(avail)
	return &result, nil
}

// UpdateRoom replaces a room's mutable fields (admin). Price changes never
// touch existing bookings; they keep their snapshotted price.
func (s *RoomService) UpdateRoom(ctx context.Context, id uuid.UUID, req RoomRequest) (*RoomDTO, error) {
	rm, err := s.rooms.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := rm.Update(req.RoomNumber, req.RoomType, req.PriceCents); err != nil {
		return nil, err
	}

	rm.IncrementVersion()
	if err := s.rooms.Update(ctx, rm); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, roomCachePattern)

	result := toRoomDTO(rm)
	return &result, nil
}

// SetRoomAvailability switches a room on or off for booking (admin).
// Switching a room off does not touch bookings already admitted.
func (s *RoomService) SetRoomAvailability(ctx context.Context, id uuid.UUID, available bool) (*RoomDTO, error) {
	rm, err := s.rooms.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if available {
		rm.MakeAvailable()
	} else {
		rm.MakeUnavailable()
	}

	rm.IncrementVersion()
	if err := s.rooms.Update(ctx, rm); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, roomCachePattern)

	result := toRoomDTO(rm)
	return &result, nil
}

// DeleteRoom removes a room (admin).
func (s *RoomService) DeleteRoom(ctx context.Context, id uuid.UUID) error {
	if err := s.rooms.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, roomCachePattern)
	return nil
}

func toRoomDTO(rm *roomDomain.Room) RoomDTO {
	return RoomDTO{
		ID:         rm.ID(),
		HotelID:    rm.HotelID(),
		RoomNumber: rm.Number(),
		RoomType:   rm.RoomType(),
		PriceCents: rm.PriceCents(),
		Available:  rm.Available(),
		Version:    rm.Version(),
		CreatedAt:  rm.CreatedAt(),
		UpdatedAt:  rm.UpdatedAt(),
	}
}

func toAvailabilityDTO(avail bookingDomain.RoomAvailability) RoomAvailabilityDTO {
	dates := make([]string, len(avail.AvailableDates))
	for i, d := range avail.AvailableDates {
		dates[i] = d.Format(bookingDomain.DateLayout)
	}

	ranges := make([]OccupiedRangeDTO, len(avail.OccupiedRanges))
	for i, r := range avail.OccupiedRanges {
		ranges[i] = OccupiedRangeDTO{
			Start: r.Start.Format(bookingDomain.DateLayout),
			End:   r.End.Format(bookingDomain.DateLayout),
		}
	}

	return RoomAvailabilityDTO{
		RoomID:         avail.RoomID,
		AvailableDates: dates,
		OccupiedRanges: ranges,
	}
}
