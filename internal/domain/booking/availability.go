package booking

import (
	"time"

	"github.com/google/uuid"
)

// OccupiedRange is a half-open [Start, End) interval of nights held by a
// non-terminal booking, clipped to the queried window.
type OccupiedRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// RoomAvailability is the availability of one room within a queried window:
// the free nights and the occupied ranges that produced the gaps.
type RoomAvailability struct {
	RoomID         uuid.UUID       `json:"room_id"`
	AvailableDates []time.Time     `json:"available_dates"`
	OccupiedRanges []OccupiedRange `json:"occupied_ranges"`
}

// ComputeAvailability determines which nights of the window are free for
// the given room. Only bookings whose status still occupies nights count;
// CANCELLED and COMPLETED bookings never block a date. A room switched off
// at the room level has no free nights regardless of bookings.
func ComputeAvailability(roomID uuid.UUID, window StayRange, roomAvailable bool, bookings []*Booking) RoomAvailability {
	avail := RoomAvailability{
		RoomID:         roomID,
		AvailableDates: []time.Time{},
		OccupiedRanges: []OccupiedRange{},
	}

	if !roomAvailable {
		avail.OccupiedRanges = append(avail.OccupiedRanges, OccupiedRange{Start: window.CheckIn, End: window.CheckOut})
		return avail
	}

	occupied := occupiedStays(roomID, bookings, uuid.Nil)

	for day := window.CheckIn; day.Before(window.CheckOut); day = day.AddDate(0, 0, 1) {
		taken := false
		for _, stay := range occupied {
			if stay.ContainsNight(day) {
				taken = true
				break
			}
		}
		if !taken {
			avail.AvailableDates = append(avail.AvailableDates, day)
		}
	}

	for _, stay := range occupied {
		if !stay.Overlaps(window) {
			continue
		}
		clipped := OccupiedRange{Start: stay.CheckIn, End: stay.CheckOut}
		if clipped.Start.Before(window.CheckIn) {
			clipped.Start = window.CheckIn
		}
		if clipped.End.After(window.CheckOut) {
			clipped.End = window.CheckOut
		}
		avail.OccupiedRanges = append(avail.OccupiedRanges, clipped)
	}

	return avail
}

// IsRangeFree reports whether no non-terminal booking for the room holds a
// night of the candidate range. excludeID, when non-nil, skips one booking
// so an existing booking can be idempotently re-validated against itself.
func IsRangeFree(roomID uuid.UUID, candidate StayRange, bookings []*Booking, excludeID uuid.UUID) bool {
	for _, stay := range occupiedStays(roomID, bookings, excludeID) {
		if stay.Overlaps(candidate) {
			return false
		}
	}
	return true
}

// occupiedStays collects the stay ranges of non-terminal bookings that
// reference the room, skipping the excluded booking if any.
func occupiedStays(roomID uuid.UUID, bookings []*Booking, excludeID uuid.UUID) []StayRange {
	var stays []StayRange
	for _, b := range bookings {
		if excludeID != uuid.Nil && b.ID() == excludeID {
			continue
		}
		if !b.Status().OccupiesNights() {
			continue
		}
		if !b.OccupiesRoom(roomID) {
			continue
		}
		stays = append(stays, b.Stay())
	}
	return stays
}
