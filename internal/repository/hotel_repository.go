package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/JeremyNakano12/nakanostay-backend/internal/domain"
	hotelDomain "github.com/JeremyNakano12/nakanostay-backend/internal/domain/hotel"
)

// HotelModel is the GORM model for the hotels table.
type HotelModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"not null;size:200"`
	Address   string    `gorm:"not null;size:300"`
	City      string    `gorm:"size:100;index"`
	Stars     *int      `gorm:""`
	Email     string    `gorm:"not null;size:320"`
	Version   int64     `gorm:"not null;default:1"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (HotelModel) TableName() string {
	return "hotels"
}

// GormHotelRepository is the GORM-based implementation of hotel.Repository.
type GormHotelRepository struct {
	db *gorm.DB
}

// NewGormHotelRepository creates a new GormHotelRepository.
func NewGormHotelRepository(db *gorm.DB) *GormHotelRepository {
	return &GormHotelRepository{db: db}
}

// FindByID retrieves a hotel by its unique identifier.
func (r *GormHotelRepository) FindByID(ctx context.Context, id uuid.UUID) (*hotelDomain.Hotel, error) {
	var model HotelModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Hotel", id.String())
		}
		return nil, fmt.Errorf("failed to find hotel by ID: %w", err)
	}
	return toDomainHotel(&model), nil
}

// List retrieves all hotels ordered by name.
func (r *GormHotelRepository) List(ctx context.Context) ([]*hotelDomain.Hotel, error) {
	var models []HotelModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list hotels: %w", err)
	}

	hotels := make([]*hotelDomain.Hotel, len(models))
	for i, m := range models {
		hotels[i] = toDomainHotel(&m)
	}
	return hotels, nil
}

// Save persists a new hotel.
func (r *GormHotelRepository) Save(ctx context.Context, h *hotelDomain.Hotel) error {
	if err := r.db.WithContext(ctx).Create(toHotelModel(h)).Error; err != nil {
		return fmt.Errorf("failed to save hotel: %w", err)
	}
	return nil
}

// Update persists changes to an existing hotel with optimistic locking.
func (r *GormHotelRepository) Update(ctx context.Context, h *hotelDomain.Hotel) error {
	model := toHotelModel(h)

	expectedVersion := h.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&HotelModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"name":       model.Name,
			"address":    model.Address,
			"city":       model.City,
			"stars":      model.Stars,
			"email":      model.Email,
			"version":    model.Version,
			"updated_at": model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update hotel: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("hotel was modified by another transaction")
	}
	return nil
}

// Delete removes a hotel by id. Rooms and their bookings are protected by
// foreign keys; deleting a hotel with rooms fails with a conflict.
func (r *GormHotelRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&HotelModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete hotel: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Hotel", id.String())
	}
	return nil
}

func toHotelModel(h *hotelDomain.Hotel) *HotelModel {
	return &HotelModel{
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

func toDomainHotel(m *HotelModel) *hotelDomain.Hotel {
	return hotelDomain.Reconstruct(
		m.ID,
		m.Name,
		m.Address,
		m.City,
		m.Stars,
		m.Email,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	)
}
