package availability

import (
	"time"

	"github.com/BruksfildServices01/booking-site/internal/httperr"
)

// Request is everything the resolver needs for one (profile, service, date).
type Request struct {
	Date            time.Time
	Now             time.Time
	Policy          Policy
	ProfileRules    []WeeklyRule
	ServiceRules    []WeeklyRule
	Blocks          []Block
	Bookings        []Booked
	DurationMinutes int
}

// FreeWindows runs the layering passes in order: weekly union, block
// difference, policy clamp, occupancy difference. Windows are disjoint and
// ascending; windows left adjacent by a cut are kept apart.
func FreeWindows(req Request) []TimeRange {
	clamp := ClampWindow(req.Date, req.Now, req.Policy)
	if clamp == nil {
		return nil
	}

	day := DateOf(req.Date)
	weekly := EffectiveRanges(req.ProfileRules, req.ServiceRules, day.Weekday())
	cuts := BlocksFor(req.Blocks, day)
	occupied := OccupiedFor(req.Bookings, req.Policy.BufferMinutes)

	var out []TimeRange
	for _, w := range weekly {
		pieces := Subtract([]TimeRange{w}, cuts)
		pieces = intersectAll(pieces, *clamp)
		out = append(out, Subtract(pieces, occupied)...)
	}
	return out
}

// Resolve returns every bookable start minute in ascending order. Starts sit
// on a fixed grid of Policy.Step() minutes counted from local midnight, so
// neither rules nor cuts shift it. An empty result means no availability,
// not an error.
func Resolve(req Request) ([]int, error) {
	if req.DurationMinutes <= 0 {
		return nil, httperr.ErrBusiness("invalid_duration")
	}

	step := req.Policy.Step()
	slots := []int{}

	for _, w := range FreeWindows(req) {
		for s := ceilDiv(w.Start, step) * step; s+req.DurationMinutes <= w.End; s += step {
			if n := len(slots); n > 0 && slots[n-1] >= s {
				continue
			}
			slots = append(slots, s)
		}
	}
	return slots, nil
}

// Fits reports whether [start, start+duration) lies wholly inside one free
// window. It does not require grid alignment.
func Fits(req Request, start int) (bool, error) {
	if req.DurationMinutes <= 0 {
		return false, httperr.ErrBusiness("invalid_duration")
	}
	want, err := NewTimeRange(start, start+req.DurationMinutes)
	if err != nil {
		return false, err
	}

	for _, w := range FreeWindows(req) {
		if Contains(w, want) {
			return true, nil
		}
	}
	return false, nil
}

func FormatSlots(slots []int) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, FormatClock(s))
	}
	return out
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
