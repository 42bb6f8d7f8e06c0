package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/JeremyNakano12/nakanostay-backend/internal/domain"
	bookingDomain "github.com/JeremyNakano12/nakanostay-backend/internal/domain/booking"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Code        string          `gorm:"uniqueIndex;not null;size:20"`
	GuestName   string          `gorm:"not null;size:200"`
	GuestDNI    string          `gorm:"not null;size:10;index"`
	GuestEmail  string          `gorm:"not null;size:320"`
	GuestPhone  string          `gorm:"size:30"`
	CheckIn     time.Time       `gorm:"type:date;not null;index"`
	CheckOut    time.Time       `gorm:"type:date;not null;index"`
	Status      string          `gorm:"not null;size:20;index"`
	TotalCents  int64           `gorm:"not null"`
	Details     json.RawMessage `gorm:"type:jsonb;not null"`
	BookedAt    time.Time       `gorm:"not null"`
	CancelledAt *time.Time      `gorm:""`
	Version     int64           `gorm:"not null;default:1"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of booking.Repository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID retrieves a booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", id.String())
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model)
}

// FindByCode retrieves a booking by its booking code.
func (r *GormBookingRepository) FindByCode(ctx context.Context, code string) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", code)
		}
		return nil, fmt.Errorf("failed to find booking by code: %w", err)
	}
	return toDomainBooking(&model)
}

// ListAll retrieves all bookings with pagination (admin).
func (r *GormBookingRepository) ListAll(ctx context.Context, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Order("booked_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	bookings := make([]*bookingDomain.Booking, len(models))
	for i, m := range models {
		bk, err := toDomainBooking(&m)
		if err != nil {
			return nil, 0, err
		}
		bookings[i] = bk
	}

	return bookings, total, nil
}

// FindActiveByRoom retrieves the PENDING and CONFIRMED bookings referencing
// the given room. The details column is jsonb, so the room filter uses the
// containment operator.
func (r *GormBookingRepository) FindActiveByRoom(ctx context.Context, roomID uuid.UUID) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := r.db.WithContext(ctx).
		Where("status IN ?", activeStatuses()).
		Where("details @> ?", roomContainmentJSON(roomID)).
		Order("check_in ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find active bookings by room: %w", err)
	}

	bookings := make([]*bookingDomain.Booking, len(models))
	for i, m := range models {
		bk, err := toDomainBooking(&m)
		if err != nil {
			return nil, err
		}
		bookings[i] = bk
	}

	return bookings, nil
}

// FindConfirmedCheckedOutBefore retrieves CONFIRMED bookings whose check-out
// date is on or before the given day.
func (r *GormBookingRepository) FindConfirmedCheckedOutBefore(ctx context.Context, day time.Time) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", string(bookingDomain.StatusConfirmed)).
		Where("check_out <= ?", day).
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find elapsed bookings: %w", err)
	}

	bookings := make([]*bookingDomain.Booking, len(models))
	for i, m := range models {
		bk, err := toDomainBooking(&m)
		if err != nil {
			return nil, err
		}
		bookings[i] = bk
	}

	return bookings, nil
}

// CountByStatus returns booking counts grouped by status (admin).
func (r *GormBookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}

	counts := make(map[string]int64)
	for _, sc := range results {
		counts[sc.Status] = sc.Count
	}
	return counts, nil
}

// Save persists a new booking. The availability re-check and the insert run
// in one transaction: the referenced room rows are locked first, so two
// overlapping requests for the same room serialize and the loser sees the
// winner's row.
func (r *GormBookingRepository) Save(ctx context.Context, bk *bookingDomain.Booking) error {
	model, err := toBookingModel(bk)
	if err != nil {
		return fmt.Errorf("failed to convert booking to model: %w", err)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		roomIDs := make([]uuid.UUID, len(bk.Details()))
		for i, d := range bk.Details() {
			roomIDs[i] = d.RoomID
		}

		var locked []RoomModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id IN ?", roomIDs).
			Order("id ASC").
			Find(&locked).Error; err != nil {
			return fmt.Errorf("failed to lock rooms: %w", err)
		}
		if len(locked) != len(roomIDs) {
			return domain.NewNotFoundError("Room", "one or more requested rooms")
		}

		for _, roomID := range roomIDs {
			var count int64
			if err := tx.Model(&BookingModel{}).
				Where("status IN ?", activeStatuses()).
				Where("details @> ?", roomContainmentJSON(roomID)).
				Where("check_in < ? AND ? < check_out", model.CheckOut, model.CheckIn).
				Count(&count).Error; err != nil {
				return fmt.Errorf("failed to re-check availability: %w", err)
			}
			if count > 0 {
				return domain.NewConflictError(
					fmt.Sprintf("room %s is no longer available for the requested dates", roomID),
				)
			}
		}

		if err := tx.Create(model).Error; err != nil {
			return fmt.Errorf("failed to save booking: %w", err)
		}
		return nil
	})
}

// Update persists changes to an existing booking with optimistic locking.
func (r *GormBookingRepository) Update(ctx context.Context, bk *bookingDomain.Booking) error {
	model, err := toBookingModel(bk)
	if err != nil {
		return fmt.Errorf("failed to convert booking to model: %w", err)
	}

	// Optimistic locking: only update if the version matches (current version - 1 since IncrementVersion was called)
	expectedVersion := bk.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"status":       model.Status,
			"total_cents":  model.TotalCents,
			"details":      model.Details,
			"cancelled_at": model.CancelledAt,
			"version":      model.Version,
			"updated_at":   model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update booking: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return domain.NewConflictError("booking was modified by another transaction")
	}

	return nil
}

// Delete removes a booking by id (admin).
func (r *GormBookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&BookingModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Booking", id.String())
	}
	return nil
}

func activeStatuses() []string {
	return []string{
		string(bookingDomain.StatusPending),
		string(bookingDomain.StatusConfirmed),
	}
}

func roomContainmentJSON(roomID uuid.UUID) string {
	return fmt.Sprintf(`[{"room_id":%q}]`, roomID.String())
}

// --- Conversion Helpers ---

func toBookingModel(bk *bookingDomain.Booking) (*BookingModel, error) {
	detailsJSON, err := json.Marshal(bk.Details())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal booking details: %w", err)
	}

	return &BookingModel{
		ID:          bk.ID(),
		Code:        bk.Code(),
		GuestName:   bk.GuestName(),
		GuestDNI:    bk.GuestDNI(),
		GuestEmail:  bk.GuestEmail(),
		GuestPhone:  bk.GuestPhone(),
		CheckIn:     bk.Stay().CheckIn,
		CheckOut:    bk.Stay().CheckOut,
		Status:      string(bk.Status()),
		TotalCents:  bk.TotalCents(),
		Details:     detailsJSON,
		BookedAt:    bk.BookedAt(),
		CancelledAt: bk.CancelledAt(),
		Version:     bk.Version(),
		CreatedAt:   bk.CreatedAt(),
		UpdatedAt:   bk.UpdatedAt(),
	}, nil
}

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	var details []bookingDomain.Detail
	if err := json.Unmarshal(m.Details, &details); err != nil {
		return nil, fmt.Errorf("failed to unmarshal booking details: %w", err)
	}

	stay, err := bookingDomain.NewStayRange(m.CheckIn, m.CheckOut)
	if err != nil {
		return nil, fmt.Errorf("stored stay range is invalid: %w", err)
	}

	status, err := bookingDomain.ParseStatus(m.Status)
	if err != nil {
		return nil, fmt.Errorf("stored status is invalid: %w", err)
	}

	return bookingDomain.Reconstruct(
		m.ID,
		m.Code,
		m.GuestName,
		m.GuestDNI,
		m.GuestEmail,
		m.GuestPhone,
		stay,
		status,
		m.TotalCents,
		details,
		m.BookedAt,
		m.CancelledAt,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}
