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
	roomDomain "github.com/JeremyNakano12/nakanostay-backend/internal/domain/room"
	"github.com/JeremyNakano12/nakanostay-backend/internal/events"
)

// --- Mocks ---

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bookingDomain.Booking), args.Error(1)
}

func (m *MockBookingRepository) FindByCode(ctx context.Context, code string) (*bookingDomain.Booking, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bookingDomain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListAll(ctx context.Context, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	args := m.Called(ctx, page, limit)
	return args.Get(0).([]*bookingDomain.Booking), args.Get(1).(int64), args.Error(2)
}

func (m *MockBookingRepository) FindActiveByRoom(ctx context.Context, roomID uuid.UUID) ([]*bookingDomain.Booking, error) {
	args := m.Called(ctx, roomID)
	return args.Get(0).([]*bookingDomain.Booking), args.Error(1)
}

func (m *MockBookingRepository) FindConfirmedCheckedOutBefore(ctx context.Context, day time.Time) ([]*bookingDomain.Booking, error) {
	args := m.Called(ctx, day)
	return args.Get(0).([]*bookingDomain.Booking), args.Error(1)
}

func (m *MockBookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[string]int64), args.Error(1)
}

func (m *MockBookingRepository) Save(ctx context.Context, bk *bookingDomain.Booking) error {
	args := m.Called(ctx, bk)
	return args.Error(0)
}

func (m *MockBookingRepository) Update(ctx context.Context, bk *bookingDomain.Booking) error {
	args := m.Called(ctx, bk)
	return args.Error(0)
}

func (m *MockBookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockRoomRepository struct {
	mock.Mock
}

func (m *MockRoomRepository) FindByID(ctx context.Context, id uuid.UUID) (*roomDomain.Room, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*roomDomain.Room), args.Error(1)
}

func (m *MockRoomRepository) List(ctx context.Context) ([]*roomDomain.Room, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*roomDomain.Room), args.Error(1)
}

func (m *MockRoomRepository) ListByHotel(ctx context.Context, hotelID uuid.UUID) ([]*roomDomain.Room, error) {
	args := m.Called(ctx, hotelID)
	return args.Get(0).([]*roomDomain.Room), args.Error(1)
}

func (m *MockRoomRepository) Save(ctx context.Context, rm *roomDomain.Room) error {
	args := m.Called(ctx, rm)
	return args.Error(0)
}

func (m *MockRoomRepository) Update(ctx context.Context, rm *roomDomain.Room) error {
	args := m.Called(ctx, rm)
	return args.Error(0)
}

func (m *MockRoomRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishEvent(ctx context.Context, key, eventType string, data interface{}) error {
	args := m.Called(ctx, key, eventType, data)
	return args.Error(0)
}

// --- Fixtures ---

var testNow = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

const validDNI = "1710034065"

func newTestService(bookings *MockBookingRepository, rooms *MockRoomRepository, producer *MockPublisher) *BookingService {
	s := NewBookingService(bookings, rooms, producer, zap.NewNop())
	s.now = func() time.Time { return testNow }
	return s
}

func availableRoom(t *testing.T, priceCents int64) *roomDomain.Room {
	t.Helper()
	rm, err := roomDomain.NewRoom(uuid.New(), "101", "DOUBLE", priceCents)
	require.NoError(t, err)
	return rm
}

func validRequest(roomID uuid.UUID) CreateBookingRequest {
	return CreateBookingRequest{
		GuestName:  "Maria Lopez",
		GuestDNI:   validDNI,
		GuestEmail: "maria@example.com",
		GuestPhone: "+593991234567",
		CheckIn:    "2024-06-10",
		CheckOut:   "2024-06-13",
		Details: []BookingDetailRequest{
			{RoomID: roomID, Guests: 2},
		},
	}
}

func storedBooking(t *testing.T, status bookingDomain.Status, stayFrom, stayTo string, detail bookingDomain.Detail) *bookingDomain.Booking {
	t.Helper()
	stay, err := bookingDomain.ParseStayRange(stayFrom, stayTo)
	require.NoError(t, err)
	return bookingDomain.Reconstruct(
		uuid.New(),
		"NKS-ABC234",
		"Maria Lopez", validDNI, "maria@example.com", "",
		stay,
		status,
		detail.PriceAtBookingCents*int64(stay.Nights()),
		[]bookingDomain.Detail{detail},
		testNow, nil, 1, testNow, testNow,
	)
}

// --- CreateBooking ---

func TestBookingService_CreateBooking_Success(t *testing.T) {
	bookings := &MockBookingRepository{}
	rooms := &MockRoomRepository{}
	producer := &MockPublisher{}
	service := newTestService(bookings, rooms, producer)

	rm := availableRoom(t, 5000)
	req := validRequest(rm.ID())

	rooms.On("FindByID", mock.Anything, rm.ID()).Return(rm, nil)
	bookings.On("FindActiveByRoom", mock.Anything, rm.ID()).Return([]*bookingDomain.Booking{}, nil)
	bookings.On("Save", mock.Anything, mock.AnythingOfType("*booking.Booking")).Return(nil)
	producer.On("PublishEvent", mock.Anything, mock.Anything, events.BookingCreated, mock.Anything).Return(nil)

	result, err := service.CreateBooking(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, string(bookingDomain.StatusPending), result.Status)
	assert.Regexp(t, `^NKS-[A-HJ-NP-Z2-9]{6}$`, result.Code)
	assert.Equal(t, int64(15000), result.TotalCents, "3 nights at 5000 cents")
	require.Len(t, result.Details, 1)
	assert.Equal(t, int64(5000), result.Details[0].PriceAtBookingCents)
	bookings.AssertExpectations(t)
	producer.AssertExpectations(t)
}

func TestBookingService_CreateBooking_InvalidRequest(t *testing.T) {
	bookings := &MockBookingRepository{}
	rooms := &MockRoomRepository{}
	producer := &MockPublisher{}
	service := newTestService(bookings, rooms, producer)

	req := validRequest(uuid.New())
	req.GuestDNI = "1710034066" // checksum mismatch
	req.GuestEmail = "not-an-email"

	result, err := service.CreateBooking(context.Background(), req)

	require.Nil(t, result)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.GreaterOrEqual(t, len(verr.Violations), 2)
	bookings.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestBookingService_CreateBooking_RoomSwitchedOff(t *testing.T) {
	bookings := &MockBookingRepository{}
	rooms := &MockRoomRepository{}
	producer := &MockPublisher{}
	service := newTestService(bookings, rooms, producer)

	rm := availableRoom(t, 5000)
	rm.MakeUnavailable()

	rooms.On("FindByID", mock.Anything, rm.ID()).Return(rm, nil)

	result, err := service.CreateBooking(context.Background(), validRequest(rm.ID()))

	require.Nil(t, result)
	assert.True(t, domain.IsConflict(err))
	bookings.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestBookingService_CreateBooking_OverlappingStay(t *testing.T) {
	bookings := &MockBookingRepository{}
	rooms := &MockRoomRepository{}
	producer := &MockPublisher{}
	service := newTestService(bookings, rooms, producer)

	rm := availableRoom(t, 5000)
	existing := storedBooking(t, bookingDomain.StatusConfirmed, "2024-06-12", "2024-06-15",
		bookingDomain.Detail{RoomID: rm.ID(), Guests: 1, PriceAtBookingCents: 5000})

	rooms.On("FindByID", mock.Anything, rm.ID()).Return(rm, nil)
	bookings.On("FindActiveByRoom", mock.Anything, rm.ID()).Return([]*bookingDomain.Booking{existing}, nil)

	result, err := service.CreateBooking(context.Background(), validRequest(rm.ID()))

	require.Nil(t, result)
	assert.True(t, domain.IsConflict(err))
	bookings.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestBookingService_CreateBooking_TouchingStayAccepted(t *testing.T) {
	bookings := &MockBookingRepository{}
	rooms := &MockRoomRepository{}
	producer := &MockPublisher{}
	service := newTestService(bookings, rooms, producer)

	rm := availableRoom(t, 5000)
	// Existing stay checks out on the new stay's check-in day.
	existing := storedBooking(t, bookingDomain.StatusConfirmed, "2024-06-07", "2024-06-10",
		bookingDomain.Detail{RoomID: rm.ID(), Guests: 1, PriceAtBookingCents: 5000})

	rooms.On("FindByID", mock.Anything, rm.ID()).Return(rm, nil)
	bookings.On("FindActiveByRoom", mock.Anything, rm.ID()).Return([]*bookingDomain.Booking{existing}, nil)
	bookings.On("Save", mock.Anything, mock.Anything).Return(nil)
	producer.On("PublishEvent", mock.Anything, mock.Anything, events.BookingCreated, mock.Anything).Return(nil)

	result, err := service.CreateBooking(context.Background(), validRequest(rm.ID()))

	require.NoError(t, err)
	assert.Equal(t, string(bookingDomain.StatusPending), result.Status)
}

func TestBookingService_CreateBooking_DuplicateRoomLine(t *testing.T) {
	bookings := &MockBookingRepository{}
	rooms := &MockRoomRepository{}
	producer := &MockPublisher{}
	service := newTestService(bookings, rooms, producer)

	roomID := uuid.New()
	req := validRequest(roomID)
	req.Details = append(req.Details, BookingDetailRequest{RoomID: roomID, Guests: 1})

	result, err := service.CreateBooking(context.Background(), req)

	require.Nil(t, result)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
}

// --- Guest lookup and cancellation ---

func TestBookingService_GetByCodeAndDNI_Success(t *testing.T) {
	bookings := &MockBookingRepository{}
	rooms := &MockRoomRepository{}
	producer := &MockPublisher{}
	service := newTestService(bookings, rooms, producer)

	bk := storedBooking(t, bookingDomain.StatusPending, "2024-06-10", "2024-06-13",
		bookingDomain.Detail{RoomID: uuid.New(), Guests: 2, PriceAtBookingCents: 5000})

	bookings.On("FindByCode", mock.Anything, bk.Code()).Return(bk, nil)

	result, err := service.GetByCodeAndDNI(context.Background(), bk.Code(), validDNI)

	require.NoError(t, err)
	assert.Equal(t, bk.Code(), result.Code)
}

func TestBookingService_GetByCodeAndDNI_WrongDNI(t *testing.T) {
	bookings := &MockBookingRepository{}
	rooms := &MockRoomRepository{}
	producer := &MockPublisher{}
	service := newTestService(bookings, rooms, producer)

	bk := storedBooking(t, bookingDomain.StatusPending, "2024-06-10", "2024-06-13",
		bookingDomain.Detail{RoomID: uuid.New(), Guests: 2, PriceAtBookingCents: 5000})

	bookings.On("FindByCode", mock.Anything, bk.Code()).Return(bk, nil)

	result, err := service.GetByCodeAndDNI(context.Background(), bk.Code(), "0926687856")

	require.Nil(t, result)
	assert.True(t, domain.IsNotFound(err), "credential mismatch must look like not-found")
}

func TestBookingService_CancelByCodeAndDNI_Success(t *testing.T) {
	bookings := &MockBookingRepository{}
	rooms := &MockRoomRepository{}
	producer := &MockPublisher{}
	service := newTestService(bookings, rooms, producer)

	bk := storedBooking(t, bookingDomain.StatusPending, "2024-06-10", "2024-06-13",
		bookingDomain.Detail{RoomID: uuid.New(), Guests: 2, PriceAtBookingCents: 5000})

	bookings.On("FindByCode", mock.Anything, bk.Code()).Return(bk, nil)
	bookings.On("Update", mock.Anything, bk).Return(nil)
	producer.On("PublishEvent", mock.Anything, bk.ID().String(), events.BookingCancelled, mock.Anything).Return(nil)

	result, err := service.CancelByCodeAndDNI(context.Background(), bk.Code(), validDNI)

	require.NoError(t, err)
	assert.Equal(t, string(bookingDomain.StatusCancelled), result.Status)
	assert.NotNil(t, result.CancelledAt)
	bookings.AssertExpectations(t)
}

func TestBookingService_CancelByCodeAndDNI_CompletedBooking(t *testing.T) {
	bookings := &MockBookingRepository{}
	rooms := &MockRoomRepository{}
	producer := &MockPublisher{}
	service := newTestService(bookings, rooms, producer)

	bk := storedBooking(t, bookingDomain.StatusCompleted, "2024-05-10", "2024-05-13",
		bookingDomain.Detail{RoomID: uuid.New(), Guests: 2, PriceAtBookingCents: 5000})

	bookings.On("FindByCode", mock.Anything, bk.Code()).Return(bk, nil)

	result, err := service.CancelByCodeAndDNI(context.Background(), bk.Code(), validDNI)

	require.Nil(t, result)
	var stateErr *domain.InvalidStateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, string(bookingDomain.StatusCompleted), stateErr.From)
	bookings.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

// --- Admin transitions ---

func TestBookingService_ConfirmBooking_Success(t *testing.T) {
	bookings := &MockBookingRepository{}
	rooms := &MockRoomRepository{}
	producer := &MockPublisher{}
	service := newTestService(bookings, rooms, producer)

	bk := storedBooking(t, bookingDomain.StatusPending, "2024-06-10", "2024-06-13",
		bookingDomain.Detail{RoomID: uuid.New(), Guests: 2, PriceAtBookingCents: 5000})

	bookings.On("FindByCode", mock.Anything, bk.Code()).Return(bk, nil)
	bookings.On("Update", mock.Anything, bk).Return(nil)
	producer.On("PublishEvent", mock.Anything, mock.Anything, events.BookingConfirmed, mock.Anything).Return(nil)

	result, err := service.ConfirmBooking(context.Background(), bk.Code())

	require.NoError(t, err)
	assert.Equal(t, string(bookingDomain.StatusConfirmed), result.Status)
	assert.Equal(t, int64(2), result.Version)
}

func TestBookingService_ConfirmBooking_AlreadyCancelled(t *testing.T) {
	bookings := &MockBookingRepository{}
	rooms := &MockRoomRepository{}
	producer := &MockPublisher{}
	service := newTestService(bookings, rooms, producer)

	bk := storedBooking(t, bookingDomain.StatusCancelled, "2024-06-10", "2024-06-13",
		bookingDomain.Detail{RoomID: uuid.New(), Guests: 2, PriceAtBookingCents: 5000})

	bookings.On("FindByCode", mock.Anything, bk.Code()).Return(bk, nil)

	result, err := service.ConfirmBooking(context.Background(), bk.Code())

	require.Nil(t, result)
	var stateErr *domain.InvalidStateError
	require.ErrorAs(t, err, &stateErr)
}

func TestBookingService_CompleteBooking_FromPending(t *testing.T) {
	bookings := &MockBookingRepository{}
	rooms := &MockRoomRepository{}
	producer := &MockPublisher{}
	service := newTestService(bookings, rooms, producer)

	// PENDING cannot go straight to COMPLETED.
	bk := storedBooking(t, bookingDomain.StatusPending, "2024-06-10", "2024-06-13",
		bookingDomain.Detail{RoomID: uuid.New(), Guests: 2, PriceAtBookingCents: 5000})

	bookings.On("FindByCode", mock.Anything, bk.Code()).Return(bk, nil)

	result, err := service.CompleteBooking(context.Background(), bk.Code())

	require.Nil(t, result)
	var stateErr *domain.InvalidStateError
	require.ErrorAs(t, err, &stateErr)
}

// --- Listing and stats ---

func TestBookingService_ListAllBookings_StatusFilter(t *testing.T) {
	bookings := &MockBookingRepository{}
	rooms := &MockRoomRepository{}
	producer := &MockPublisher{}
	service := newTestService(bookings, rooms, producer)

	pending := storedBooking(t, bookingDomain.StatusPending, "2024-06-10", "2024-06-13",
		bookingDomain.Detail{RoomID: uuid.New(), Guests: 2, PriceAtBookingCents: 5000})
	confirmed := storedBooking(t, bookingDomain.StatusConfirmed, "2024-07-01", "2024-07-04",
		bookingDomain.Detail{RoomID: uuid.New(), Guests: 1, PriceAtBookingCents: 4000})

	bookings.On("ListAll", mock.Anything, 1, 20).
		Return([]*bookingDomain.Booking{pending, confirmed}, int64(2), nil)

	status := bookingDomain.StatusConfirmed
	result, err := service.ListAllBookings(context.Background(), 1, 20, bookingDomain.Filter{Status: &status})

	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, confirmed.Code(), result.Items[0].Code)
}

func TestBookingService_GetBookingStats(t *testing.T) {
	bookings := &MockBookingRepository{}
	rooms := &MockRoomRepository{}
	producer := &MockPublisher{}
	service := newTestService(bookings, rooms, producer)

	bookings.On("CountByStatus", mock.Anything).Return(map[string]int64{
		"PENDING":   3,
		"CONFIRMED": 5,
		"CANCELLED": 2,
	}, nil)

	stats, err := service.GetBookingStats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(10), stats.TotalBookings)
	assert.Equal(t, int64(5), stats.ByStatus["CONFIRMED"])
}

// --- Worker sweep ---

func TestBookingService_CompleteElapsedStays(t *testing.T) {
	bookings := &MockBookingRepository{}
	rooms := &MockRoomRepository{}
	producer := &MockPublisher{}
	service := newTestService(bookings, rooms, producer)

	first := storedBooking(t, bookingDomain.StatusConfirmed, "2024-05-20", "2024-05-23",
		bookingDomain.Detail{RoomID: uuid.New(), Guests: 1, PriceAtBookingCents: 5000})
	second := storedBooking(t, bookingDomain.StatusConfirmed, "2024-05-25", "2024-05-30",
		bookingDomain.Detail{RoomID: uuid.New(), Guests: 2, PriceAtBookingCents: 7000})

	bookings.On("FindConfirmedCheckedOutBefore", mock.Anything, bookingDomain.Today(testNow)).
		Return([]*bookingDomain.Booking{first, second}, nil)
	bookings.On("Update", mock.Anything, first).Return(nil)
	bookings.On("Update", mock.Anything, second).Return(domain.NewConflictError("stale version"))
	producer.On("PublishEvent", mock.Anything, first.ID().String(), events.BookingCompleted, mock.Anything).Return(nil)

	completed, err := service.CompleteElapsedStays(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, completed, "the stale booking is skipped, not fatal")
	assert.Equal(t, bookingDomain.StatusCompleted, first.Status())
	producer.AssertExpectations(t)
}

// Guard against accidental interface drift between the mocks and the domain.
var (
	_ bookingDomain.Repository = (*MockBookingRepository)(nil)
	_ roomDomain.Repository    = (*MockRoomRepository)(nil)
	_ Publisher                = (*MockPublisher)(nil)
	_ hotelDomain.Repository   = (*MockHotelRepository)(nil)
)
