package availability

import (
	"sort"
	"time"

	"github.com/BruksfildServices01/booking-site/internal/httperr"
)

// WeeklyRule is one recurring window on a day of week (0 = Sunday). It backs
// both profile-level and service-level availability.
type WeeklyRule struct {
	DayOfWeek int
	Range     TimeRange
	Active    bool
}

func NewWeeklyRule(dayOfWeek int, start, end string, active bool) (WeeklyRule, error) {
	if dayOfWeek < 0 || dayOfWeek > 6 {
		return WeeklyRule{}, httperr.ErrBusiness("invalid_day_of_week")
	}
	r, err := ParseRange(start, end)
	if err != nil {
		return WeeklyRule{}, err
	}
	return WeeklyRule{DayOfWeek: dayOfWeek, Range: r, Active: active}, nil
}

// ActiveRangesFor lists the active ranges for a weekday in ascending start
// order. Overlapping rules are returned as-is; use Merge for a union.
func ActiveRangesFor(rules []WeeklyRule, day time.Weekday) []TimeRange {
	var out []TimeRange
	for _, r := range rules {
		if r.Active && r.DayOfWeek == int(day) {
			out = append(out, r.Range)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start < out[j].Start
	})
	return out
}

func HasActiveRule(rules []WeeklyRule, day time.Weekday) bool {
	for _, r := range rules {
		if r.Active && r.DayOfWeek == int(day) {
			return true
		}
	}
	return false
}

// Merge coalesces overlapping or touching ranges into a minimal ascending list.
func Merge(ranges []TimeRange) []TimeRange {
	if len(ranges) == 0 {
		return nil
	}

	sorted := make([]TimeRange, len(ranges))
	copy(sorted, ranges)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Start == sorted[j].Start {
			return sorted[i].End < sorted[j].End
		}
		return sorted[i].Start < sorted[j].Start
	})

	out := []TimeRange{sorted[0]}
	for _, r := range sorted[1:] {
		last := &out[len(out)-1]
		if r.Start <= last.End {
			if r.End > last.End {
				last.End = r.End
			}
			continue
		}
		out = append(out, r)
	}
	return out
}

// EffectiveRanges picks the service rules for the day when any is active,
// the profile rules otherwise, and returns their union.
func EffectiveRanges(profile, service []WeeklyRule, day time.Weekday) []TimeRange {
	if HasActiveRule(service, day) {
		return Merge(ActiveRangesFor(service, day))
	}
	return Merge(ActiveRangesFor(profile, day))
}
