package testfixtures

import (
	"time"

	"github.com/BruksfildServices01/booking-site/internal/models"
)

// ReferenceNow is Thursday 2026-10-15 08:00 UTC; the following Monday is
// 2026-10-19.
func ReferenceNow() time.Time {
	return time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC)
}

const Monday = "2026-10-19"

// Seeded is a profile open Monday 09:00-17:00 with one 30 minute service.
type Seeded struct {
	Profile models.Profile
	Service models.Service
}

func Seed(r *Repository) Seeded {
	p := r.AddProfile(models.Profile{Name: "Ana Studio", Slug: "ana-studio", Email: "ana@example.com"})

	s := models.DefaultBookingSettings(p.ID, "UTC", 30)
	s.BufferMinutes = 10
	r.PutSettings(s)

	svc := r.AddService(models.Service{
		ProfileID:       p.ID,
		Name:            "Consultation",
		DurationMinutes: 30,
		IsActive:        true,
	})

	r.AddWeeklyRule(models.WeeklyRule{
		ProfileID: p.ID,
		DayOfWeek: int(time.Monday),
		StartTime: "09:00",
		EndTime:   "17:00",
		Active:    true,
	})

	return Seeded{Profile: p, Service: svc}
}
