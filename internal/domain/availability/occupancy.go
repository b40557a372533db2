package availability

// Booked is an existing booking as seen by the ledger. Occupies is false for
// statuses that no longer hold time (cancelled, completed, no-show).
type Booked struct {
	Range    TimeRange
	Occupies bool
}

// OccupiedFor returns the buffered ranges held by occupying bookings.
func OccupiedFor(bookings []Booked, bufferMinutes int) []TimeRange {
	var out []TimeRange
	for _, b := range bookings {
		if !b.Occupies {
			continue
		}
		out = append(out, Expand(b.Range, bufferMinutes))
	}
	return out
}
