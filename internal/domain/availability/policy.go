package availability

import (
	"time"

	"github.com/BruksfildServices01/booking-site/internal/httperr"
)

const DefaultSlotStep = 30

// MaxNoticeHours bounds the lead time and cancellation notice (one year).
const MaxNoticeHours = 8760

type Policy struct {
	BufferMinutes      int
	AdvanceBookingDays int
	MinAdvanceHours    int
	CancellationHours  int
	AutoConfirm        bool
	SlotStepMinutes    int
	Location           *time.Location
}

func (p Policy) Validate() error {
	switch {
	case p.BufferMinutes < 0:
		return httperr.ErrBusiness("invalid_buffer_minutes")
	case p.AdvanceBookingDays < 0:
		return httperr.ErrBusiness("invalid_advance_booking_days")
	case p.MinAdvanceHours < 0 || p.MinAdvanceHours > MaxNoticeHours:
		return httperr.ErrBusiness("invalid_min_advance_hours")
	case p.CancellationHours < 0 || p.CancellationHours > MaxNoticeHours:
		return httperr.ErrBusiness("invalid_cancellation_hours")
	case p.SlotStepMinutes != 0 && (p.SlotStepMinutes < 5 || p.SlotStepMinutes > 240):
		return httperr.ErrBusiness("invalid_slot_step")
	}
	return nil
}

func (p Policy) Step() int {
	if p.SlotStepMinutes <= 0 {
		return DefaultSlotStep
	}
	return p.SlotStepMinutes
}

func (p Policy) Loc() *time.Location {
	if p.Location == nil {
		return time.UTC
	}
	return p.Location
}

// ClampWindow bounds the part of date that may still be booked at now. It
// returns nil when the date is in the past, beyond the advance window, or
// entirely inside the lead time.
func ClampWindow(date, now time.Time, p Policy) *TimeRange {
	localNow := now.In(p.Loc())
	today := DateOf(localNow)
	day := DateOf(date)

	if day.Before(today) {
		return nil
	}
	if DaysBetween(today, day) > p.AdvanceBookingDays {
		return nil
	}

	threshold := localNow.Add(time.Duration(p.MinAdvanceHours) * time.Hour)
	thresholdDay := DateOf(threshold)

	if thresholdDay.After(day) {
		return nil
	}
	if thresholdDay.Before(day) {
		full := FullDay()
		return &full
	}

	minute := threshold.Hour()*60 + threshold.Minute()
	if threshold.Second() > 0 || threshold.Nanosecond() > 0 {
		minute++
	}
	if minute >= MinutesPerDay {
		return nil
	}
	return &TimeRange{Start: minute, End: MinutesPerDay}
}

// CanClientCancel reports whether a client may still cancel a booking
// starting at start.
func CanClientCancel(start, now time.Time, p Policy) bool {
	deadline := start.Add(-time.Duration(p.CancellationHours) * time.Hour)
	return now.Before(deadline)
}
