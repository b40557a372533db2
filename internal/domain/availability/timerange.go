package availability

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/BruksfildServices01/booking-site/internal/httperr"
)

const MinutesPerDay = 24 * 60

// TimeRange is a half-open [Start, End) interval of minutes within one day.
type TimeRange struct {
	Start int `json:"start_minute"`
	End   int `json:"end_minute"`
}

func NewTimeRange(start, end int) (TimeRange, error) {
	if start < 0 || end > MinutesPerDay || start >= end {
		return TimeRange{}, httperr.ErrBusiness("invalid_time_range")
	}
	return TimeRange{Start: start, End: end}, nil
}

func FullDay() TimeRange {
	return TimeRange{Start: 0, End: MinutesPerDay}
}

func (r TimeRange) Len() int {
	return r.End - r.Start
}

func (r TimeRange) String() string {
	return FormatClock(r.Start) + "-" + FormatClock(r.End)
}

// Overlaps uses half-open semantics: touching endpoints do not overlap.
func Overlaps(a, b TimeRange) bool {
	return a.Start < b.End && b.Start < a.End
}

// Expand grows both ends by minutes, clamped to the day.
func Expand(r TimeRange, minutes int) TimeRange {
	if minutes <= 0 {
		return r
	}
	out := TimeRange{Start: r.Start - minutes, End: r.End + minutes}
	if out.Start < 0 {
		out.Start = 0
	}
	if out.End > MinutesPerDay {
		out.End = MinutesPerDay
	}
	return out
}

func Contains(outer, inner TimeRange) bool {
	return outer.Start <= inner.Start && inner.End <= outer.End
}

func Intersect(a, b TimeRange) (TimeRange, bool) {
	out := TimeRange{Start: max(a.Start, b.Start), End: min(a.End, b.End)}
	if out.Start >= out.End {
		return TimeRange{}, false
	}
	return out, true
}

// ParseClock reads "HH:MM" as a minute of day. "24:00" is accepted as the end
// of the day.
func ParseClock(s string) (int, error) {
	s = strings.TrimSpace(s)
	hh, mm, ok := strings.Cut(s, ":")
	if !ok || len(hh) != 2 || len(mm) != 2 {
		return 0, httperr.ErrBusiness("invalid_time")
	}

	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, httperr.ErrBusiness("invalid_time")
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, httperr.ErrBusiness("invalid_time")
	}

	if h == 24 && m == 0 {
		return MinutesPerDay, nil
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, httperr.ErrBusiness("invalid_time")
	}
	return h*60 + m, nil
}

func FormatClock(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}

func ParseRange(start, end string) (TimeRange, error) {
	s, err := ParseClock(start)
	if err != nil {
		return TimeRange{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return TimeRange{}, err
	}
	return NewTimeRange(s, e)
}
