package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/JeremyNakano12/nakanostay-backend/internal/cache"
	hotelDomain "github.com/JeremyNakano12/nakanostay-backend/internal/domain/hotel"
)

const (
	hotelListCacheKey = "hotels:list"
	hotelCachePattern = "hotels:*"
	roomCachePattern  = "rooms:*"
)

// HotelRequest holds the data for creating or updating a hotel.
type HotelRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	Stars   *int   `json:"stars"`
	Email   string `json:"email"`
}

// HotelDTO is the response representation of a hotel.
type HotelDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	City      string    `json:"city,omitempty"`
	Stars     *int      `json:"stars,omitempty"`
	Email     string    `json:"email"`
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HotelService is the application service orchestrating hotel use cases.
type HotelService struct {
	hotels hotelDomain.Repository
	cache  *cache.Cache
	logger *zap.Logger
}

// NewHotelService creates a new HotelService.
func NewHotelService(hotels hotelDomain.Repository, c *cache.Cache, logger *zap.Logger) *HotelService {
	return &HotelService{hotels: hotels, cache: c, logger: logger}
}

// CreateHotel registers a new hotel (admin).
func (s *HotelService) CreateHotel(ctx context.Context, req HotelRequest) (*HotelDTO, error) {
	h, err := hotelDomain.NewHotel(req.Name, req.Address, req.City, req.Stars, req.Email)
	if err != nil {
		return nil, err
	}

	if err := s.hotels.Save(ctx, h); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, hotelCachePattern)

	result := toHotelDTO(h)
	return &result, nil
}

// GetHotel retrieves a single hotel by id.
func (s *HotelService) GetHotel(ctx context.Context, id uuid.UUID) (*HotelDTO, error) {
	h, err := s.hotels.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := toHotelDTO(h)
	return &result, nil
}

// ListHotels retrieves all hotels, served from cache when possible.
func (s *HotelService) ListHotels(ctx context.Context) ([]HotelDTO, error) {
	var cached []HotelDTO
	if err := s.cache.Get(ctx, hotelListCacheKey, &cached); err == nil {
		return cached, nil
	} else if !errors.Is(err, cache.ErrMiss) {
		s.logger.Warn("hotel list cache read failed", zap.Error(err))
	}

	hotels, err := s.hotels.List(ctx)
	if err != nil {
		return nil, err
	}

	dtos := make([]HotelDTO, len(hotels))
	for i, h := range hotels {
		dtos[i] = toHotelDTO(h)
	}

	s.cache.Set(ctx, hotelListCacheKey, dtos)
	return dtos, nil
}

// UpdateHotel replaces a hotel's mutable fields (admin).
func (s *HotelService) UpdateHotel(ctx context.Context, id uuid.UUID, req HotelRequest) (*HotelDTO, error) {
	h, err := s.hotels.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := h.Update(req.Name, req.Address, req.City, req.Stars, req.Email); err != nil {
		return nil, err
	}

	h.IncrementVersion()
	if err := s.hotels.Update(ctx, h); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, hotelCachePattern)

	result := toHotelDTO(h)
	return &result, nil
}

// DeleteHotel removes a hotel (admin).
func (s *HotelService) DeleteHotel(ctx context.Context, id uuid.UUID) error {
	if err := s.hotels.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, hotelCachePattern, roomCachePattern)
	return nil
}

func toHotelDTO(h *hotelDomain.Hotel) HotelDTO {
	return HotelDTO{
		ID:        h.ID(),
		Name:      h.Name(),
		Address:   h.Address(),
		City:      h.City(),
		Stars:     h.Stars(),
		Email:     h.Email(),
		Version:   h.Version(),
		CreatedAt: h.CreatedAt(),
		UpdatedAt: h.UpdatedAt(),
	}
}
