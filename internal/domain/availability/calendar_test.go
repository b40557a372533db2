package availability

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/booking-site/internal/httperr"
)

func TestActiveRangesForFiltersAndSorts(t *testing.T) {
	rules := []WeeklyRule{
		{DayOfWeek: 1, Range: rng(t, "14:00", "18:00"), Active: true},
		{DayOfWeek: 1, Range: rng(t, "09:00", "12:00"), Active: true},
		{DayOfWeek: 1, Range: rng(t, "12:00", "13:00"), Active: false},
		{DayOfWeek: 2, Range: rng(t, "08:00", "09:00"), Active: true},
	}

	got := ActiveRangesFor(rules, time.Monday)

	assert.Equal(t, []TimeRange{rng(t, "09:00", "12:00"), rng(t, "14:00", "18:00")}, got)
	assert.Empty(t, ActiveRangesFor(rules, time.Sunday))
}

func TestMerge(t *testing.T) {
	in := []TimeRange{
		rng(t, "13:00", "14:00"),
		rng(t, "09:00", "11:00"),
		rng(t, "10:00", "12:00"),
		rng(t, "12:00", "12:30"),
		rng(t, "15:00", "16:00"),
		rng(t, "15:10", "15:20"),
	}

	assert.Equal(t, []TimeRange{
		rng(t, "09:00", "12:30"),
		rng(t, "13:00", "14:00"),
		rng(t, "15:00", "16:00"),
	}, Merge(in))
	assert.Nil(t, Merge(nil))
}

func TestMergeIsIdempotent(t *testing.T) {
	r := rand.New(rand.NewSource(42))

	for i := 0; i < 200; i++ {
		var ranges []TimeRange
		for j := 0; j < r.Intn(8)+1; j++ {
			start := r.Intn(MinutesPerDay - 1)
			end := start + 1 + r.Intn(MinutesPerDay-start)
			ranges = append(ranges, TimeRange{Start: start, End: end})
		}
		once := Merge(ranges)
		assert.Equal(t, once, Merge(once))

		for k := 1; k < len(once); k++ {
			assert.Less(t, once[k-1].End, once[k].Start, "merged output must be disjoint and non-adjacent")
		}
	}
}

func TestEffectiveRangesServiceOverridesPerDay(t *testing.T) {
	profile := []WeeklyRule{
		{DayOfWeek: 1, Range: rng(t, "09:00", "17:00"), Active: true},
		{DayOfWeek: 2, Range: rng(t, "09:00", "17:00"), Active: true},
	}
	service := []WeeklyRule{
		{DayOfWeek: 1, Range: rng(t, "13:00", "15:00"), Active: true},
		{DayOfWeek: 2, Range: rng(t, "10:00", "11:00"), Active: false},
	}

	assert.Equal(t, []TimeRange{rng(t, "13:00", "15:00")}, EffectiveRanges(profile, service, time.Monday))
	assert.Equal(t, []TimeRange{rng(t, "09:00", "17:00")}, EffectiveRanges(profile, service, time.Tuesday),
		"inactive service rules fall back to the profile")
}

func TestNewWeeklyRule(t *testing.T) {
	_, err := NewWeeklyRule(7, "09:00", "10:00", true)
	assert.True(t, httperr.IsBusiness(err, "invalid_day_of_week"))

	_, err = NewWeeklyRule(1, "10:00", "09:00", true)
	assert.True(t, httperr.IsBusiness(err, "invalid_time_range"))

	rule, err := NewWeeklyRule(0, "18:00", "24:00", true)
	require.NoError(t, err)
	assert.Equal(t, TimeRange{Start: 1080, End: 1440}, rule.Range)
}

func TestNewBlockInvariants(t *testing.T) {
	start, end := "10:00", "12:00"

	_, err := NewBlock("2026-10-20", "2026-10-19", true, nil, nil)
	assert.True(t, httperr.IsBusiness(err, "invalid_date_range"))

	_, err = NewBlock("2026-10-19", "2026-10-19", false, nil, nil)
	assert.True(t, httperr.IsBusiness(err, "block_range_required"))

	_, err = NewBlock("2026-10-19", "2026-10-19", true, &start, &end)
	assert.True(t, httperr.IsBusiness(err, "all_day_block_with_range"))

	b, err := NewBlock("2026-10-19", "2026-10-21", false, &start, &end)
	require.NoError(t, err)
	assert.Equal(t, rng(t, "10:00", "12:00"), *b.Range)
}

func TestBlocksFor(t *testing.T) {
	start, end := "10:00", "12:00"
	partial, err := NewBlock("2026-10-19", "2026-10-21", false, &start, &end)
	require.NoError(t, err)
	allDay, err := NewBlock("2026-10-21", "2026-10-21", true, nil, nil)
	require.NoError(t, err)

	blocks := []Block{partial, allDay}

	day := func(s string) time.Time {
		d, err := ParseDate(s)
		require.NoError(t, err)
		return d
	}

	assert.Empty(t, BlocksFor(blocks, day("2026-10-18")))
	assert.Equal(t, []TimeRange{rng(t, "10:00", "12:00")}, BlocksFor(blocks, day("2026-10-19")))
	assert.Equal(t, []TimeRange{rng(t, "10:00", "12:00"), FullDay()}, BlocksFor(blocks, day("2026-10-21")))
	assert.Empty(t, BlocksFor(blocks, day("2026-10-22")))
}

func TestSubtract(t *testing.T) {
	base := []TimeRange{rng(t, "09:00", "17:00")}

	cases := []struct {
		name string
		cuts []TimeRange
		want []TimeRange
	}{
		{"no cuts", nil, base},
		{"contains base", []TimeRange{FullDay()}, nil},
		{"trim start", []TimeRange{rng(t, "08:00", "10:00")}, []TimeRange{rng(t, "10:00", "17:00")}},
		{"trim end", []TimeRange{rng(t, "16:00", "18:00")}, []TimeRange{rng(t, "09:00", "16:00")}},
		{"split", []TimeRange{rng(t, "12:00", "13:00")}, []TimeRange{rng(t, "09:00", "12:00"), rng(t, "13:00", "17:00")}},
		{"touching", []TimeRange{rng(t, "17:00", "18:00")}, base},
		{
			"several",
			[]TimeRange{rng(t, "10:00", "11:00"), rng(t, "10:30", "12:00"), rng(t, "16:00", "17:00")},
			[]TimeRange{rng(t, "09:00", "10:00"), rng(t, "12:00", "16:00")},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Subtract(base, tc.cuts))
		})
	}
}

func TestOccupiedForExpandsOnlyOccupyingBookings(t *testing.T) {
	bookings := []Booked{
		{Range: rng(t, "10:00", "10:30"), Occupies: true},
		{Range: rng(t, "12:00", "13:00"), Occupies: false},
	}

	assert.Equal(t, []TimeRange{rng(t, "09:50", "10:40")}, OccupiedFor(bookings, 10))
}
