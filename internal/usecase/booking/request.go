package booking

import (
	"context"
	"time"

	"github.com/BruksfildServices01/booking-site/internal/domain/availability"
	domain "github.com/BruksfildServices01/booking-site/internal/domain/booking"
	"github.com/BruksfildServices01/booking-site/internal/models"
)

// Defaults fill in settings a profile has not chosen.
type Defaults struct {
	Timezone string
	SlotStep int
}

func (d Defaults) policy(s *models.BookingSettings) availability.Policy {
	return domain.PolicyFrom(s, d.Timezone, d.SlotStep)
}

// loadRequest reads everything the resolver needs for one profile, service
// and date. It returns ok=false without touching the ledger when the policy
// already closes the date.
func loadRequest(
	ctx context.Context,
	repo domain.Repository,
	defaults Defaults,
	profileID uint,
	svc *models.Service,
	date time.Time,
	now time.Time,
) (availability.Request, bool, error) {

	settings, err := repo.GetSettings(ctx, profileID)
	if err != nil {
		return availability.Request{}, false, err
	}

	req := availability.Request{
		Date:            date,
		Now:             now,
		Policy:          defaults.policy(settings),
		DurationMinutes: svc.DurationMinutes,
	}

	if availability.ClampWindow(date, now, req.Policy) == nil {
		return req, false, nil
	}

	dow := int(date.Weekday())
	day := availability.FormatDate(date)

	rules, err := repo.ListWeeklyRules(ctx, profileID, dow)
	if err != nil {
		return req, false, err
	}
	svcSlots, err := repo.ListServiceSlots(ctx, svc.ID, dow)
	if err != nil {
		return req, false, err
	}
	blocks, err := repo.ListBlocksForDate(ctx, profileID, day)
	if err != nil {
		return req, false, err
	}
	bookings, err := repo.ListOccupyingBookings(ctx, profileID, day)
	if err != nil {
		return req, false, err
	}

	req.ProfileRules = domain.WeeklyRulesFrom(rules)
	req.ServiceRules = domain.ServiceRulesFrom(svcSlots)
	req.Blocks = domain.BlocksFrom(blocks)
	req.Bookings = domain.BookedFrom(bookings)

	return req, true, nil
}
