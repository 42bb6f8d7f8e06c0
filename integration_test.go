//go:build integration

package main_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JeremyNakano12/nakanostay-backend/internal/application"
	"github.com/JeremyNakano12/nakanostay-backend/internal/domain"
	bookingDomain "github.com/JeremyNakano12/nakanostay-backend/internal/domain/booking"
	"github.com/JeremyNakano12/nakanostay-backend/internal/events"
)

// TestBookingLifecycle_EndToEnd runs the full path against real PostgreSQL
// and Kafka: create a booking, reject an overlapping one, confirm it, and
// verify the published lifecycle events.
func TestBookingLifecycle_EndToEnd(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupBookingStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()

	ctx := context.Background()
	roomID := seedHotelAndRoom(t, infra.DB, 5000)

	checkIn := time.Now().UTC().AddDate(0, 0, 7).Format(bookingDomain.DateLayout)
	checkOut := time.Now().UTC().AddDate(0, 0, 10).Format(bookingDomain.DateLayout)

	// Create the booking.
	created, err := stack.Bookings.CreateBooking(ctx, application.CreateBookingRequest{
		GuestName:  "Maria Lopez",
		GuestDNI:   "1710034065",
		GuestEmail: "maria@example.com",
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Details: []application.BookingDetailRequest{
			{RoomID: roomID, Guests: 2},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, string(bookingDomain.StatusPending), created.Status)
	assert.Equal(t, int64(15000), created.TotalCents)

	// An overlapping request for the same room must lose.
	_, err = stack.Bookings.CreateBooking(ctx, application.CreateBookingRequest{
		GuestName:  "Carlos Vera",
		GuestDNI:   "0926687856",
		GuestEmail: "carlos@example.com",
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Details: []application.BookingDetailRequest{
			{RoomID: roomID, Guests: 1},
		},
	})
	require.Error(t, err)
	assert.True(t, domain.IsConflict(err), "overlapping booking must conflict, got %v", err)

	// Confirm the booking as admin.
	confirmed, err := stack.Bookings.ConfirmBooking(ctx, created.Code)
	require.NoError(t, err)
	assert.Equal(t, string(bookingDomain.StatusConfirmed), confirmed.Status)

	// The room's availability must show the stay as occupied.
	avail, err := stack.Rooms.GetAvailability(ctx, roomID, checkIn, checkOut)
	require.NoError(t, err)
	assert.Empty(t, avail.AvailableDates)

	// Both lifecycle events must be on the topic.
	ce := consumeOneEvent(t, infra.KafkaBrokers, events.TopicBookingEvents,
		events.BookingCreated, 15*time.Second)
	var evt events.BookingEvent
	require.NoError(t, ce.ParseData(&evt))
	assert.Equal(t, created.Code, evt.Code)
	assert.Equal(t, int64(15000), evt.TotalCents)

	consumeOneEvent(t, infra.KafkaBrokers, events.TopicBookingEvents,
		events.BookingConfirmed, 15*time.Second)
}

// TestElapsedStaySweep_CompletesBooking verifies the worker sweep completes
// CONFIRMED bookings whose check-out date has passed and publishes the event.
func TestElapsedStaySweep_CompletesBooking(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupBookingStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()

	ctx := context.Background()
	roomID := seedHotelAndRoom(t, infra.DB, 5000)

	checkIn := time.Now().UTC().AddDate(0, 0, -5).Truncate(24 * time.Hour)
	checkOut := time.Now().UTC().AddDate(0, 0, -2).Truncate(24 * time.Hour)
	bookingID := seedConfirmedBooking(t, infra.DB, roomID, checkIn, checkOut)

	completed, err := stack.Bookings.CompleteElapsedStays(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, completed)

	model := waitForBookingStatus(t, infra.DB, bookingID,
		string(bookingDomain.StatusCompleted), 10*time.Second)
	assert.Equal(t, int64(2), model.Version)

	consumeOneEvent(t, infra.KafkaBrokers, events.TopicBookingEvents,
		events.BookingCompleted, 15*time.Second)
}
