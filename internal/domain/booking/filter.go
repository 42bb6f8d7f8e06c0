package booking

import "strings"

// Filter narrows a booking collection in memory. Status filters by exact
// match when set; FreeText matches case-insensitively as a substring of the
// booking code, the guest's identity number or the guest's name.
type Filter struct {
	Status   *Status
	FreeText string
}

// Apply returns the bookings matching the filter, preserving order.
func (f Filter) Apply(bookings []*Booking) []*Booking {
	query := strings.ToLower(strings.TrimSpace(f.FreeText))

	filtered := make([]*Booking, 0, len(bookings))
	for _, b := range bookings {
		if f.Status != nil && b.Status() != *f.Status {
			continue
		}
		if query != "" && !matchesQuery(b, query) {
			continue
		}
		filtered = append(filtered, b)
	}
	return filtered
}

func matchesQuery(b *Booking, query string) bool {
	return strings.Contains(strings.ToLower(b.Code()), query) ||
		strings.Contains(b.GuestDNI(), query) ||
		strings.Contains(strings.ToLower(b.GuestName()), query)
}
