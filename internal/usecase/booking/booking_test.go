package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/booking-site/internal/domain/booking"
	"github.com/BruksfildServices01/booking-site/internal/httperr"
	"github.com/BruksfildServices01/booking-site/internal/locker"
	"github.com/BruksfildServices01/booking-site/internal/models"
	"github.com/BruksfildServices01/booking-site/internal/testfixtures"
)

var defaults = Defaults{Timezone: "UTC", SlotStep: 30}

type harness struct {
	repo  *testfixtures.Repository
	seed  testfixtures.Seeded
	clock *testfixtures.Clock

	availability *GetAvailability
	create       *CreateBooking
	status       *ChangeStatus
	cancel       *CancelByClient
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	repo := testfixtures.NewRepository()
	clock := testfixtures.NewClock(testfixtures.ReferenceNow())

	return &harness{
		repo:         repo,
		seed:         testfixtures.Seed(repo),
		clock:        clock,
		availability: NewGetAvailability(repo, defaults, clock.Now),
		create:       NewCreateBooking(repo, locker.NewLocalLocker(2*time.Second), nil, defaults, clock.Now, zap.NewNop()),
		status:       NewChangeStatus(repo, nil, clock.Now),
		cancel:       NewCancelByClient(repo, nil, defaults, clock.Now),
	}
}

func (h *harness) slots(t *testing.T, date string) []string {
	t.Helper()
	res, err := h.availability.Execute(context.Background(), GetAvailabilityInput{
		ProfileID: h.seed.Profile.ID,
		ServiceID: h.seed.Service.ID,
		Date:      date,
	})
	require.NoError(t, err)
	return res.Slots
}

func (h *harness) book(start string) (*models.Booking, error) {
	return h.create.Execute(context.Background(), CreateBookingInput{
		ProfileID:   h.seed.Profile.ID,
		ServiceID:   h.seed.Service.ID,
		Date:        testfixtures.Monday,
		StartTime:   start,
		ClientName:  "Joana",
		ClientEmail: "joana@example.com",
	})
}

// ---------------------------------------------
// Availability
// ---------------------------------------------

func TestGetAvailabilityAroundExistingBooking(t *testing.T) {
	h := newHarness(t)
	h.repo.AddBooking(models.Booking{
		ProfileID:   h.seed.Profile.ID,
		ServiceID:   h.seed.Service.ID,
		Date:        testfixtures.Monday,
		StartMinute: 600,
		EndMinute:   630,
		Status:      string(domain.StatusPending),
	})

	assert.Equal(t, []string{
		"09:00",
		"11:00", "11:30", "12:00", "12:30", "13:00", "13:30",
		"14:00", "14:30", "15:00", "15:30", "16:00", "16:30",
	}, h.slots(t, testfixtures.Monday))
}

func TestGetAvailabilityErrors(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.availability.Execute(ctx, GetAvailabilityInput{
		ProfileID: h.seed.Profile.ID, ServiceID: h.seed.Service.ID, Date: "19/10/2026",
	})
	assert.True(t, httperr.IsKind(err, httperr.KindValidation))

	_, err = h.availability.Execute(ctx, GetAvailabilityInput{
		ProfileID: h.seed.Profile.ID, ServiceID: 999, Date: testfixtures.Monday,
	})
	assert.True(t, httperr.IsKind(err, httperr.KindNotFound))
}

func TestGetAvailabilityClosedDatesAreEmpty(t *testing.T) {
	h := newHarness(t)

	past := h.slots(t, "2026-10-12")
	assert.NotNil(t, past)
	assert.Empty(t, past)

	assert.Empty(t, h.slots(t, "2027-10-18"), "beyond the advance window")
}

func TestGetAvailabilityHonorsBlocks(t *testing.T) {
	h := newHarness(t)
	start, end := "09:00", "12:00"
	h.repo.AddBlock(models.ScheduleBlock{
		ProfileID: h.seed.Profile.ID,
		StartDate: "2026-10-18",
		EndDate:   "2026-10-20",
		StartTime: &start,
		EndTime:   &end,
	})

	got := h.slots(t, testfixtures.Monday)
	require.NotEmpty(t, got)
	assert.Equal(t, "12:00", got[0])
}

// ---------------------------------------------
// CreateBooking
// ---------------------------------------------

func TestCreateBooking(t *testing.T) {
	h := newHarness(t)

	b, err := h.book("11:00")
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusPending), b.Status)
	assert.Equal(t, 660, b.StartMinute)
	assert.Equal(t, 690, b.EndMinute)
	assert.Equal(t, time.Date(2026, 10, 19, 11, 0, 0, 0, time.UTC), b.StartsAt.UTC())
	assert.NotEmpty(t, b.CancelToken)
	assert.Nil(t, b.ConfirmedAt)

	got := h.slots(t, testfixtures.Monday)
	assert.NotContains(t, got, "10:30")
	assert.NotContains(t, got, "11:00")
	assert.NotContains(t, got, "11:30")
	assert.Contains(t, got, "12:00")
}

func TestCreateBookingAutoConfirm(t *testing.T) {
	h := newHarness(t)
	s := models.DefaultBookingSettings(h.seed.Profile.ID, "UTC", 30)
	s.AutoConfirm = true
	h.repo.PutSettings(s)

	b, err := h.book("09:00")
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusConfirmed), b.Status)
	assert.NotNil(t, b.ConfirmedAt)
}

func TestCreateBookingConflictGuard(t *testing.T) {
	h := newHarness(t)
	_, err := h.book("10:00")
	require.NoError(t, err)

	_, err = h.book("09:30")
	assert.True(t, httperr.IsBusiness(err, "slot_unavailable"))
	assert.True(t, httperr.IsKind(err, httperr.KindConflict))

	// off-grid but fully inside the free window before the buffer
	_, err = h.book("09:20")
	assert.NoError(t, err)

	_, err = h.book("16:45")
	assert.True(t, httperr.IsKind(err, httperr.KindConflict), "runs past closing")

	assert.Equal(t, 2, h.repo.BookingCount())
}

func TestCreateBookingRejectsInvalidInputBeforeLedger(t *testing.T) {
	h := newHarness(t)

	for _, start := range []string{"9am", "25:00", "23:45"} {
		_, err := h.book(start)
		assert.True(t, httperr.IsKind(err, httperr.KindValidation), start)
	}

	_, err := h.create.Execute(context.Background(), CreateBookingInput{
		ProfileID: h.seed.Profile.ID,
		ServiceID: h.seed.Service.ID,
		Date:      testfixtures.Monday,
		StartTime: "11:00",
	})
	assert.True(t, httperr.IsBusiness(err, "client_contact_required"))

	assert.Zero(t, h.repo.BookingCount())
}

func TestCreateBookingRespectsLeadTime(t *testing.T) {
	h := newHarness(t)
	h.clock.Set(time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC))

	_, err := h.book("11:30")
	assert.True(t, httperr.IsKind(err, httperr.KindConflict))

	_, err = h.book("12:00")
	assert.NoError(t, err)
}

func TestCreateBookingConcurrentSameSlot(t *testing.T) {
	h := newHarness(t)
	h.repo.BeforeInsert = func() { time.Sleep(5 * time.Millisecond) }

	starts := []string{"11:00", "11:00", "11:00", "11:15", "10:45", "11:00", "11:15", "10:45"}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var ok, conflicts int

	for _, start := range starts {
		wg.Add(1)
		go func(start string) {
			defer wg.Done()
			_, err := h.book(start)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case httperr.IsKind(err, httperr.KindConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(start)
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, len(starts)-1, conflicts)
	assert.Equal(t, 1, h.repo.BookingCount())
}

// ---------------------------------------------
// Status changes
// ---------------------------------------------

func TestChangeStatus(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	b, err := h.book("11:00")
	require.NoError(t, err)

	confirmed, err := h.status.Execute(ctx, h.seed.Profile.ID, 1, b.ID, "CONFIRMED")
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusConfirmed), confirmed.Status)

	_, err = h.status.Execute(ctx, h.seed.Profile.ID, 1, b.ID, "PENDING")
	assert.True(t, httperr.IsKind(err, httperr.KindInvalidTransition))

	stored, _ := h.repo.Booking(b.ID)
	assert.Equal(t, string(domain.StatusConfirmed), stored.Status)

	_, err = h.status.Execute(ctx, h.seed.Profile.ID+1, 1, b.ID, "COMPLETED")
	assert.True(t, httperr.IsKind(err, httperr.KindNotFound), "other profile")

	_, err = h.status.Execute(ctx, h.seed.Profile.ID, 1, b.ID, "done")
	assert.True(t, httperr.IsKind(err, httperr.KindValidation))
}

func TestOwnerCancelFreesSlotImmediately(t *testing.T) {
	h := newHarness(t)
	h.clock.Set(time.Date(2026, 10, 19, 7, 0, 0, 0, time.UTC))

	b, err := h.book("11:00")
	require.NoError(t, err)
	assert.NotContains(t, h.slots(t, testfixtures.Monday), "11:00")

	// inside the client window; owners are not bound by it
	_, err = h.status.Execute(context.Background(), h.seed.Profile.ID, 1, b.ID, "CANCELLED")
	require.NoError(t, err)

	assert.Contains(t, h.slots(t, testfixtures.Monday), "11:00")
}

func TestCancelByClient(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	b, err := h.book("11:00")
	require.NoError(t, err)

	_, err = h.cancel.Execute(ctx, h.seed.Profile.ID, "nope")
	assert.True(t, httperr.IsKind(err, httperr.KindNotFound))

	h.clock.Set(time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC))
	_, err = h.cancel.Execute(ctx, h.seed.Profile.ID, b.CancelToken)
	assert.True(t, httperr.IsBusiness(err, "cancellation_window_closed"))

	h.clock.Set(time.Date(2026, 10, 18, 10, 59, 0, 0, time.UTC))
	cancelled, err := h.cancel.Execute(ctx, h.seed.Profile.ID, b.CancelToken)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), cancelled.Status)
	assert.Equal(t, "client", cancelled.CancelledBy)

	_, err = h.cancel.Execute(ctx, h.seed.Profile.ID, b.CancelToken)
	assert.True(t, httperr.IsKind(err, httperr.KindInvalidTransition))
}

// ---------------------------------------------
// Listings
// ---------------------------------------------

func TestListBookings(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.book("14:00")
	require.NoError(t, err)
	_, err = h.book("09:00")
	require.NoError(t, err)
	h.repo.AddBooking(models.Booking{ProfileID: h.seed.Profile.ID, Date: "2026-11-02", StartMinute: 600, EndMinute: 630})

	byDate, err := NewListBookingsByDate(h.repo).Execute(ctx, h.seed.Profile.ID, testfixtures.Monday)
	require.NoError(t, err)
	require.Len(t, byDate, 2)
	assert.Equal(t, "09:00", byDate[0].StartTime)
	assert.Equal(t, "09:30", byDate[0].EndTime)
	assert.Equal(t, "Consultation", byDate[0].ServiceName)

	byMonth, err := NewListBookingsByMonth(h.repo).Execute(ctx, h.seed.Profile.ID, 2026, 10)
	require.NoError(t, err)
	assert.Len(t, byMonth, 2)

	_, err = NewListBookingsByMonth(h.repo).Execute(ctx, h.seed.Profile.ID, 2026, 13)
	assert.True(t, httperr.IsKind(err, httperr.KindValidation))

	_, err = NewListBookingsByDate(h.repo).Execute(ctx, h.seed.Profile.ID, "tomorrow")
	assert.True(t, httperr.IsKind(err, httperr.KindValidation))
}
