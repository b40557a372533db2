package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/booking-site/internal/domain/availability"
	"github.com/BruksfildServices01/booking-site/internal/httperr"
	"github.com/BruksfildServices01/booking-site/internal/models"
)

func TestCanTransition(t *testing.T) {
	all := []Status{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow}
	allowed := map[[2]Status]bool{
		{StatusPending, StatusConfirmed}:   true,
		{StatusPending, StatusCancelled}:   true,
		{StatusConfirmed, StatusCompleted}: true,
		{StatusConfirmed, StatusCancelled}: true,
		{StatusConfirmed, StatusNoShow}:    true,
	}

	for _, from := range all {
		for _, to := range all {
			err := CanTransition(from, to)
			if allowed[[2]Status{from, to}] {
				assert.NoError(t, err, "%s -> %s", from, to)
				continue
			}
			assert.True(t, httperr.IsKind(err, httperr.KindInvalidTransition), "%s -> %s", from, to)
		}
	}
}

func TestOccupiesAndTerminal(t *testing.T) {
	assert.True(t, StatusPending.Occupies())
	assert.True(t, StatusConfirmed.Occupies())
	assert.False(t, StatusCancelled.Occupies())
	assert.False(t, StatusCompleted.Occupies())
	assert.False(t, StatusNoShow.Occupies())

	assert.False(t, StatusPending.IsTerminal())
	assert.True(t, StatusNoShow.IsTerminal())
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus("NO_SHOW")
	require.NoError(t, err)
	assert.Equal(t, StatusNoShow, st)

	_, err = ParseStatus("done")
	assert.True(t, httperr.IsBusiness(err, "invalid_status"))
}

func TestInitialStatus(t *testing.T) {
	assert.Equal(t, StatusConfirmed, InitialStatus(true))
	assert.Equal(t, StatusPending, InitialStatus(false))
}

func TestTransitionStampsTimestamps(t *testing.T) {
	now := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	b := &models.Booking{Status: string(StatusPending)}

	require.NoError(t, Transition(b, StatusConfirmed, now, ActorOwner))
	assert.Equal(t, string(StatusConfirmed), b.Status)
	require.NotNil(t, b.ConfirmedAt)

	require.NoError(t, Transition(b, StatusCancelled, now, ActorOwner))
	require.NotNil(t, b.CancelledAt)
	assert.Equal(t, "owner", b.CancelledBy)

	err := Transition(b, StatusConfirmed, now, ActorOwner)
	assert.True(t, httperr.IsBusiness(err, "invalid_transition"))
	assert.Equal(t, string(StatusCancelled), b.Status, "state unchanged on rejection")
}

func TestClientCancelWindow(t *testing.T) {
	start := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)
	policy := availability.Policy{CancellationHours: 24, Location: time.UTC}

	b := &models.Booking{Status: string(StatusConfirmed), StartsAt: start}
	err := ClientCancel(b, start.Add(-23*time.Hour), policy)
	assert.True(t, httperr.IsKind(err, httperr.KindForbidden))
	assert.Equal(t, string(StatusConfirmed), b.Status)

	require.NoError(t, ClientCancel(b, start.Add(-25*time.Hour), policy))
	assert.Equal(t, string(StatusCancelled), b.Status)
	assert.Equal(t, "client", b.CancelledBy)

	done := &models.Booking{Status: string(StatusCompleted), StartsAt: start}
	err = ClientCancel(done, start.Add(-48*time.Hour), policy)
	assert.True(t, httperr.IsKind(err, httperr.KindInvalidTransition))
}

func TestConvertSkipsInvalidRows(t *testing.T) {
	rules := WeeklyRulesFrom([]models.WeeklyRule{
		{DayOfWeek: 1, StartTime: "09:00", EndTime: "12:00", Active: true},
		{DayOfWeek: 1, StartTime: "12:00", EndTime: "11:00", Active: true},
	})
	require.Len(t, rules, 1)
	assert.Equal(t, availability.TimeRange{Start: 540, End: 720}, rules[0].Range)

	booked := BookedFrom([]models.Booking{
		{StartMinute: 600, EndMinute: 630, Status: string(StatusPending)},
		{StartMinute: 700, EndMinute: 730, Status: string(StatusCancelled)},
	})
	require.Len(t, booked, 2)
	assert.True(t, booked[0].Occupies)
	assert.False(t, booked[1].Occupies)
}

func TestPolicyFromDefaults(t *testing.T) {
	p := PolicyFrom(nil, "UTC", 30)
	assert.Equal(t, 60, p.AdvanceBookingDays)
	assert.Equal(t, 2, p.MinAdvanceHours)
	assert.Equal(t, 30, p.Step())

	p = PolicyFrom(&models.BookingSettings{Timezone: "America/Sao_Paulo", BufferMinutes: 15}, "UTC", 30)
	assert.Equal(t, "America/Sao_Paulo", p.Loc().String())
	assert.Equal(t, 15, p.BufferMinutes)
	assert.Equal(t, 30, p.Step())
}
