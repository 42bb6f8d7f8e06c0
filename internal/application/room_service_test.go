package application

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/JeremyNakano12/nakanostay-backend/internal/domain"
	bookingDomain "github.com/JeremyNakano12/nakanostay-backend/internal/domain/booking"
	hotelDomain "github.com/JeremyNakano12/nakanostay-backend/internal/domain/hotel"
)

type MockHotelRepository struct {
	mock.Mock
}

func (m *MockHotelRepository) FindByID(ctx context.Context, id uuid.UUID) (*hotelDomain.Hotel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hotelDomain.Hotel), args.Error(1)
}

func (m *MockHotelRepository) List(ctx context.Context) ([]*hotelDomain.Hotel, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*hotelDomain.Hotel), args.Error(1)
}

func (m *MockHotelRepository) Save(ctx context.Context, h *hotelDomain.Hotel) error {
	args := m.Called(ctx, h)
	return args.Error(0)
}

func (m *MockHotelRepository) Update(ctx context.Context, h *hotelDomain.Hotel) error {
	args := m.Called(ctx, h)
	return args.Error(0)
}

func (m *MockHotelRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newTestRoomService(rooms *MockRoomRepository, hotels *MockHotelRepository, bookings *MockBookingRepository) *RoomService {
	s := NewRoomService(rooms, hotels, bookings, nil, zap.NewNop())
	s.now = func() time.Time { return testNow }
	return s
}

func TestRoomService_CreateRoom_HotelMustExist(t *testing.T) {
	rooms := &MockRoomRepository{}
	hotels := &MockHotelRepository{}
	bookings := &MockBookingRepository{}
	service := newTestRoomService(rooms, hotels, bookings)

	hotelID := uuid.New()
	hotels.On("FindByID", mock.Anything, hotelID).Return(nil, domain.NewNotFoundError("Hotel", hotelID.String()))

	result, err := service.CreateRoom(context.Background(), RoomRequest{
		HotelID:    hotelID,
		RoomNumber: "101",
		PriceCents: 5000,
	})

	require.Nil(t, result)
	assert.True(t, domain.IsNotFound(err))
	rooms.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestRoomService_CreateRoom_Success(t *testing.T) {
	rooms := &MockRoomRepository{}
	hotels := &MockHotelRepository{}
	bookings := &MockBookingRepository{}
	service := newTestRoomService(rooms, hotels, bookings)

	h, err := hotelDomain.NewHotel("Hotel Quito", "Av. Amazonas 123", "Quito", nil, "contact@hotelquito.ec")
	require.NoError(t, err)

	hotels.On("FindByID", mock.Anything, h.ID()).Return(h, nil)
	rooms.On("Save", mock.Anything, mock.AnythingOfType("*room.Room")).Return(nil)

	result, err := service.CreateRoom(context.Background(), RoomRequest{
		HotelID:    h.ID(),
		RoomNumber: "101",
		RoomType:   "DOUBLE",
		PriceCents: 5000,
	})

	require.NoError(t, err)
	assert.True(t, result.Available, "new rooms start available")
	assert.Equal(t, int64(5000), result.PriceCents)
	rooms.AssertExpectations(t)
}

func TestRoomService_GetAvailability_FreeAndOccupied(t *testing.T) {
	rooms := &MockRoomRepository{}
	hotels := &MockHotelRepository{}
	bookings := &MockBookingRepository{}
	service := newTestRoomService(rooms, hotels, bookings)

	rm := availableRoom(t, 5000)
	// Confirmed stay June 12-15 inside the queried June 10-16 window.
	existing := storedBooking(t, bookingDomain.StatusConfirmed, "2024-06-12", "2024-06-15",
		bookingDomain.Detail{RoomID: rm.ID(), Guests: 1, PriceAtBookingCents: 5000})

	rooms.On("FindByID", mock.Anything, rm.ID()).Return(rm, nil)
	bookings.On("FindActiveByRoom", mock.Anything, rm.ID()).Return([]*bookingDomain.Booking{existing}, nil)

	result, err := service.GetAvailability(context.Background(), rm.ID(), "2024-06-10", "2024-06-16")

	require.NoError(t, err)
	assert.Equal(t, []string{"2024-06-10", "2024-06-11", "2024-06-15"}, result.AvailableDates)
	require.Len(t, result.OccupiedRanges, 1)
	assert.Equal(t, "2024-06-12", result.OccupiedRanges[0].Start)
	assert.Equal(t, "2024-06-15", result.OccupiedRanges[0].End)
}

func TestRoomService_GetAvailability_CancelledBookingFreesDates(t *testing.T) {
	rooms := &MockRoomRepository{}
	hotels := &MockHotelRepository{}
	bookings := &MockBookingRepository{}
	service := newTestRoomService(rooms, hotels, bookings)

	rm := availableRoom(t, 5000)
	cancelled := storedBooking(t, bookingDomain.StatusCancelled, "2024-06-12", "2024-06-15",
		bookingDomain.Detail{RoomID: rm.ID(), Guests: 1, PriceAtBookingCents: 5000})

	rooms.On("FindByID", mock.Anything, rm.ID()).Return(rm, nil)
	bookings.On("FindActiveByRoom", mock.Anything, rm.ID()).Return([]*bookingDomain.Booking{cancelled}, nil)

	result, err := service.GetAvailability(context.Background(), rm.ID(), "2024-06-12", "2024-06-15")

	require.NoError(t, err)
	assert.Len(t, result.AvailableDates, 3)
	assert.Empty(t, result.OccupiedRanges)
}

func TestRoomService_GetAvailability_RoomSwitchedOff(t *testing.T) {
	rooms := &MockRoomRepository{}
	hotels := &MockHotelRepository{}
	bookings := &MockBookingRepository{}
	service := newTestRoomService(rooms, hotels, bookings)

	rm := availableRoom(t, 5000)
	rm.MakeUnavailable()

	rooms.On("FindByID", mock.Anything, rm.ID()).Return(rm, nil)
	bookings.On("FindActiveByRoom", mock.Anything, rm.ID()).Return([]*bookingDomain.Booking{}, nil)

	result, err := service.GetAvailability(context.Background(), rm.ID(), "2024-06-10", "2024-06-13")

	require.NoError(t, err)
	assert.Empty(t, result.AvailableDates)
	require.Len(t, result.OccupiedRanges, 1)
	assert.Equal(t, "2024-06-10", result.OccupiedRanges[0].Start)
	assert.Equal(t, "2024-06-13", result.OccupiedRanges[0].End)
}

func TestRoomService_GetAvailability_BadWindow(t *testing.T) {
	rooms := &MockRoomRepository{}
	hotels := &MockHotelRepository{}
	bookings := &MockBookingRepository{}
	service := newTestRoomService(rooms, hotels, bookings)

	result, err := service.GetAvailability(context.Background(), uuid.New(), "2024-06-13", "2024-06-10")

	require.Nil(t, result)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestRoomService_SetRoomAvailability(t *testing.T) {
	rooms := &MockRoomRepository{}
	hotels := &MockHotelRepository{}
	bookings := &MockBookingRepository{}
	service := newTestRoomService(rooms, hotels, bookings)

	rm := availableRoom(t, 5000)

	rooms.On("FindByID", mock.Anything, rm.ID()).Return(rm, nil)
	rooms.On("Update", mock.Anything, rm).Return(nil)

	result, err := service.SetRoomAvailability(context.Background(), rm.ID(), false)

	require.NoError(t, err)
	assert.False(t, result.Available)
	assert.Equal(t, int64(2), result.Version)
}

func TestRoomService_UpdateRoom_PriceChangeLeavesBookingsAlone(t *testing.T) {
	rooms := &MockRoomRepository{}
	hotels := &MockHotelRepository{}
	bookings := &MockBookingRepository{}
	service := newTestRoomService(rooms, hotels, bookings)

	rm := availableRoom(t, 5000)
	existing := storedBooking(t, bookingDomain.StatusConfirmed, "2024-06-10", "2024-06-13",
		bookingDomain.Detail{RoomID: rm.ID(), Guests: 1, PriceAtBookingCents: 5000})

	rooms.On("FindByID", mock.Anything, rm.ID()).Return(rm, nil)
	rooms.On("Update", mock.Anything, rm).Return(nil)

	result, err := service.UpdateRoom(context.Background(), rm.ID(), RoomRequest{
		HotelID:    rm.HotelID(),
		RoomNumber: rm.Number(),
		RoomType:   rm.RoomType(),
		PriceCents: 9000,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(9000), result.PriceCents)
	assert.Equal(t, int64(5000), existing.Details()[0].PriceAtBookingCents,
		"snapshotted prices never move")
	assert.Equal(t, int64(15000), existing.TotalCents())
}
