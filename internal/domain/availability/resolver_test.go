package availability

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2026-10-19 is a Monday.
var monday = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

func baseRequest(t *testing.T) Request {
	t.Helper()
	return Request{
		Date: monday,
		Now:  time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC),
		Policy: Policy{
			BufferMinutes:      10,
			AdvanceBookingDays: 60,
			MinAdvanceHours:    2,
			SlotStepMinutes:    30,
			Location:           time.UTC,
		},
		ProfileRules: []WeeklyRule{
			{DayOfWeek: 1, Range: rng(t, "09:00", "17:00"), Active: true},
		},
		DurationMinutes: 30,
	}
}

func resolveClock(t *testing.T, req Request) []string {
	t.Helper()
	slots, err := Resolve(req)
	require.NoError(t, err)
	return FormatSlots(slots)
}

func TestResolveBufferedBookingScenario(t *testing.T) {
	req := baseRequest(t)
	req.Bookings = []Booked{{Range: rng(t, "10:00", "10:30"), Occupies: true}}

	got := resolveClock(t, req)

	assert.Equal(t, []string{
		"09:00",
		"11:00", "11:30", "12:00", "12:30", "13:00", "13:30",
		"14:00", "14:30", "15:00", "15:30", "16:00", "16:30",
	}, got)
}

func TestResolveIgnoresCancelledBookings(t *testing.T) {
	req := baseRequest(t)
	req.Bookings = []Booked{{Range: rng(t, "10:00", "10:30"), Occupies: false}}

	assert.Len(t, resolveClock(t, req), 16)
}

func TestResolveAllDayBlockEmptiesDay(t *testing.T) {
	req := baseRequest(t)
	block, err := NewBlock("2026-10-19", "2026-10-19", true, nil, nil)
	require.NoError(t, err)
	req.Blocks = []Block{block}
	req.Bookings = []Booked{{Range: rng(t, "10:00", "10:30"), Occupies: true}}

	got, err := Resolve(req)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestResolveDayWithoutRules(t *testing.T) {
	req := baseRequest(t)
	req.Date = monday.AddDate(0, 0, 1)

	assert.Empty(t, resolveClock(t, req))
}

func TestResolveServiceOverride(t *testing.T) {
	req := baseRequest(t)
	req.ServiceRules = []WeeklyRule{{DayOfWeek: 1, Range: rng(t, "13:00", "15:00"), Active: true}}

	assert.Equal(t, []string{"13:00", "13:30", "14:00", "14:30"}, resolveClock(t, req))
}

func TestResolveDurationLongerThanAnyFreeRange(t *testing.T) {
	req := baseRequest(t)
	req.ProfileRules = []WeeklyRule{{DayOfWeek: 1, Range: rng(t, "09:00", "11:00"), Active: true}}
	start, end := "09:45", "10:15"
	block, err := NewBlock("2026-10-19", "2026-10-19", false, &start, &end)
	require.NoError(t, err)
	req.Blocks = []Block{block}
	req.DurationMinutes = 60
	req.Policy.SlotStepMinutes = 15

	assert.Empty(t, resolveClock(t, req), "a slot must not straddle a carved-out range")
}

func TestResolveLeadTimeTrimsToday(t *testing.T) {
	req := baseRequest(t)
	req.Now = time.Date(2026, 10, 19, 10, 7, 0, 0, time.UTC)

	got := resolveClock(t, req)

	require.NotEmpty(t, got)
	assert.Equal(t, "12:30", got[0])
	assert.Equal(t, "16:30", got[len(got)-1])
}

func TestResolveLeadTimeReachesIntoLaterDay(t *testing.T) {
	req := baseRequest(t)
	req.Now = time.Date(2026, 10, 18, 22, 0, 0, 0, time.UTC)
	req.Policy.MinAdvanceHours = 12

	got := resolveClock(t, req)

	require.NotEmpty(t, got)
	assert.Equal(t, "10:00", got[0])
}

func TestResolveUsesProfileTimezone(t *testing.T) {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	req := baseRequest(t)
	req.Policy.Location = loc
	// 12:00 UTC is 09:00 in Sao Paulo.
	req.Now = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	got := resolveClock(t, req)

	require.NotEmpty(t, got)
	assert.Equal(t, "11:00", got[0])
}

func TestResolvePastAndFarDatesAreClosed(t *testing.T) {
	req := baseRequest(t)
	req.Now = time.Date(2026, 10, 20, 8, 0, 0, 0, time.UTC)
	assert.Empty(t, resolveClock(t, req), "past date")

	req = baseRequest(t)
	req.Date = monday.AddDate(0, 0, 63)
	req.Now = monday.AddDate(0, 0, -1)
	req.Policy.AdvanceBookingDays = 60
	assert.Empty(t, resolveClock(t, req), "beyond advance window")

	req.Policy.AdvanceBookingDays = 64
	assert.NotEmpty(t, resolveClock(t, req))
}

func TestResolveGridAlignedToMidnight(t *testing.T) {
	req := baseRequest(t)
	req.ProfileRules = []WeeklyRule{{DayOfWeek: 1, Range: rng(t, "09:15", "11:00"), Active: true}}

	assert.Equal(t, []string{"09:30", "10:00", "10:30"}, resolveClock(t, req))
}

func TestResolveOverlappingRulesAreUnioned(t *testing.T) {
	req := baseRequest(t)
	req.ProfileRules = []WeeklyRule{
		{DayOfWeek: 1, Range: rng(t, "09:00", "10:00"), Active: true},
		{DayOfWeek: 1, Range: rng(t, "09:30", "11:00"), Active: true},
	}

	assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30"}, resolveClock(t, req))
}

func TestResolveRejectsNonPositiveDuration(t *testing.T) {
	req := baseRequest(t)
	req.DurationMinutes = 0

	_, err := Resolve(req)
	assert.Error(t, err)
}

func TestFitsBufferBoundary(t *testing.T) {
	req := baseRequest(t)
	req.Bookings = []Booked{{Range: rng(t, "10:00", "10:30"), Occupies: true}}

	cases := []struct {
		start string
		want  bool
	}{
		{"09:20", true},  // ends at the buffer's outer edge
		{"09:30", false}, // ends where the existing booking starts
		{"10:40", true},
		{"10:35", false},
		{"16:30", true},
		{"16:45", false},
	}

	for _, tc := range cases {
		minute, err := ParseClock(tc.start)
		require.NoError(t, err)
		ok, err := Fits(req, minute)
		require.NoError(t, err)
		assert.Equal(t, tc.want, ok, tc.start)
	}
}

func TestFitsOutOfDay(t *testing.T) {
	req := baseRequest(t)

	_, err := Fits(req, 1430)
	assert.Error(t, err)
}

func randomRequest(t *testing.T, r *rand.Rand) Request {
	req := baseRequest(t)
	req.Policy.BufferMinutes = r.Intn(20)
	req.Policy.SlotStepMinutes = []int{10, 15, 20, 30}[r.Intn(4)]
	req.DurationMinutes = []int{15, 30, 45, 60, 90}[r.Intn(5)]

	req.ProfileRules = nil
	for i := 0; i < r.Intn(4)+1; i++ {
		start := 6*60 + r.Intn(10)*30
		req.ProfileRules = append(req.ProfileRules, WeeklyRule{
			DayOfWeek: 1,
			Range:     TimeRange{Start: start, End: start + 60 + r.Intn(6)*30},
			Active:    true,
		})
	}
	if r.Intn(3) == 0 {
		start := 8*60 + r.Intn(8)*30
		req.ServiceRules = append(req.ServiceRules, WeeklyRule{
			DayOfWeek: 1,
			Range:     TimeRange{Start: start, End: start + 60 + r.Intn(6)*30},
			Active:    r.Intn(4) > 0,
		})
	}
	for i := 0; i < r.Intn(3); i++ {
		start := 6*60 + r.Intn(40)*15
		cut := TimeRange{Start: start, End: start + 15 + r.Intn(6)*15}
		req.Blocks = append(req.Blocks, Block{StartDate: monday, EndDate: monday, Range: &cut})
	}
	for i := 0; i < r.Intn(4); i++ {
		start := 6*60 + r.Intn(24)*15
		req.Bookings = append(req.Bookings, Booked{
			Range:    TimeRange{Start: start, End: start + 30},
			Occupies: r.Intn(4) > 0,
		})
	}
	return req
}

func TestResolveSoundness(t *testing.T) {
	r := rand.New(rand.NewSource(7))

	for i := 0; i < 300; i++ {
		req := randomRequest(t, r)
		slots, err := Resolve(req)
		require.NoError(t, err)

		occupied := OccupiedFor(req.Bookings, req.Policy.BufferMinutes)
		weekly := EffectiveRanges(req.ProfileRules, req.ServiceRules, time.Monday)
		cuts := BlocksFor(req.Blocks, monday)

		for _, s := range slots {
			want := TimeRange{Start: s, End: s + req.DurationMinutes}

			inside := false
			for _, w := range weekly {
				inside = inside || Contains(w, want)
			}
			assert.True(t, inside, "slot %s outside weekly ranges", FormatClock(s))

			for _, o := range occupied {
				assert.False(t, Overlaps(o, want), "slot %s overlaps occupancy %s", FormatClock(s), o)
			}
			for _, c := range cuts {
				assert.False(t, Overlaps(c, want), "slot %s overlaps block %s", FormatClock(s), c)
			}

			ok, err := Fits(req, s)
			require.NoError(t, err)
			assert.True(t, ok)
		}
	}
}

func TestResolveCompleteness(t *testing.T) {
	r := rand.New(rand.NewSource(11))

	for i := 0; i < 300; i++ {
		req := randomRequest(t, r)
		slots, err := Resolve(req)
		require.NoError(t, err)

		set := map[int]bool{}
		for _, s := range slots {
			set[s] = true
		}

		step := req.Policy.Step()
		for _, w := range FreeWindows(req) {
			var aligned []int
			for s := 0; s+req.DurationMinutes <= w.End; s += step {
				if s >= w.Start {
					aligned = append(aligned, s)
				}
			}
			if len(aligned) == 0 {
				continue
			}
			assert.True(t, set[aligned[0]], "first aligned start %s missing", FormatClock(aligned[0]))
			assert.True(t, set[aligned[len(aligned)-1]], "last aligned start %s missing", FormatClock(aligned[len(aligned)-1]))
		}
	}
}

func TestBlockMonotonicity(t *testing.T) {
	r := rand.New(rand.NewSource(3))

	for i := 0; i < 200; i++ {
		req := randomRequest(t, r)
		before, err := Resolve(req)
		require.NoError(t, err)

		start := 6*60 + r.Intn(40)*15
		blockRange := TimeRange{Start: start, End: start + 15 + r.Intn(8)*15}
		req.Blocks = append(req.Blocks, Block{StartDate: monday, EndDate: monday, Range: &blockRange})

		after, err := Resolve(req)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(after), len(before))

		req.Blocks = nil
		extra := 6*60 + r.Intn(20)*30
		req.ProfileRules = append(req.ProfileRules, WeeklyRule{
			DayOfWeek: 1,
			Range:     TimeRange{Start: extra, End: extra + 60},
			Active:    true,
		})
		widened, err := Resolve(req)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(widened), len(before))
	}
}
