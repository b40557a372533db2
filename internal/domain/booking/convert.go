package booking

import (
	"github.com/BruksfildServices01/booking-site/internal/domain/availability"
	"github.com/BruksfildServices01/booking-site/internal/models"
	"github.com/BruksfildServices01/booking-site/internal/timezone"
)

// PolicyFrom turns a settings row into the resolver policy. A nil row yields
// the defaults of a freshly created profile.
func PolicyFrom(s *models.BookingSettings, defaultTZ string, defaultStep int) availability.Policy {
	if s == nil {
		d := models.DefaultBookingSettings(0, defaultTZ, defaultStep)
		s = &d
	}

	tz := s.Timezone
	if tz == "" {
		tz = defaultTZ
	}
	step := s.SlotStepMinutes
	if step <= 0 {
		step = defaultStep
	}

	return availability.Policy{
		BufferMinutes:      s.BufferMinutes,
		AdvanceBookingDays: s.AdvanceBookingDays,
		MinAdvanceHours:    s.MinAdvanceHours,
		CancellationHours:  s.CancellationHours,
		AutoConfirm:        s.AutoConfirm,
		SlotStepMinutes:    step,
		Location:           timezone.Location(tz),
	}
}

// Rows that fail validation are skipped; the write paths reject them, so
// they only appear through manual edits.

func WeeklyRulesFrom(rows []models.WeeklyRule) []availability.WeeklyRule {
	out := make([]availability.WeeklyRule, 0, len(rows))
	for _, r := range rows {
		rule, err := availability.NewWeeklyRule(r.DayOfWeek, r.StartTime, r.EndTime, r.Active)
		if err != nil {
			continue
		}
		out = append(out, rule)
	}
	return out
}

func ServiceRulesFrom(rows []models.ServiceAvailabilitySlot) []availability.WeeklyRule {
	out := make([]availability.WeeklyRule, 0, len(rows))
	for _, r := range rows {
		rule, err := availability.NewWeeklyRule(r.DayOfWeek, r.StartTime, r.EndTime, r.Active)
		if err != nil {
			continue
		}
		out = append(out, rule)
	}
	return out
}

func BlocksFrom(rows []models.ScheduleBlock) []availability.Block {
	out := make([]availability.Block, 0, len(rows))
	for _, r := range rows {
		b, err := availability.NewBlock(r.StartDate, r.EndDate, r.IsAllDay, r.StartTime, r.EndTime)
		if err != nil {
			continue
		}
		out = append(out, b)
	}
	return out
}

func BookedFrom(rows []models.Booking) []availability.Booked {
	out := make([]availability.Booked, 0, len(rows))
	for _, r := range rows {
		rng, err := availability.NewTimeRange(r.StartMinute, r.EndMinute)
		if err != nil {
			continue
		}
		out = append(out, availability.Booked{
			Range:    rng,
			Occupies: Status(r.Status).Occupies(),
		})
	}
	return out
}
