package availability

import (
	"sort"
	"time"

	"github.com/BruksfildServices01/booking-site/internal/httperr"
)

// Block removes availability over an inclusive date span, either the whole
// day or a single range on each day of the span. Blocks never add time.
type Block struct {
	StartDate time.Time
	EndDate   time.Time
	AllDay    bool
	Range     *TimeRange
}

func NewBlock(startDate, endDate string, allDay bool, start, end *string) (Block, error) {
	from, err := ParseDate(startDate)
	if err != nil {
		return Block{}, err
	}
	to, err := ParseDate(endDate)
	if err != nil {
		return Block{}, err
	}
	if to.Before(from) {
		return Block{}, httperr.ErrBusiness("invalid_date_range")
	}

	b := Block{StartDate: from, EndDate: to, AllDay: allDay}
	if allDay {
		if start != nil || end != nil {
			return Block{}, httperr.ErrBusiness("all_day_block_with_range")
		}
		return b, nil
	}

	if start == nil || end == nil {
		return Block{}, httperr.ErrBusiness("block_range_required")
	}
	r, err := ParseRange(*start, *end)
	if err != nil {
		return Block{}, err
	}
	b.Range = &r
	return b, nil
}

func (b Block) Covers(date time.Time) bool {
	d := DateOf(date)
	return !d.Before(b.StartDate) && !d.After(b.EndDate)
}

// BlocksFor returns the ranges removed on date.
func BlocksFor(blocks []Block, date time.Time) []TimeRange {
	var out []TimeRange
	for _, b := range blocks {
		if !b.Covers(date) {
			continue
		}
		if b.AllDay || b.Range == nil {
			out = append(out, FullDay())
			continue
		}
		out = append(out, *b.Range)
	}
	return out
}

// Subtract removes every cut from every base range. A base range may end up
// dropped, trimmed on one side, or split in two.
func Subtract(base, cuts []TimeRange) []TimeRange {
	var out []TimeRange
	for _, b := range base {
		pieces := []TimeRange{b}
		for _, cut := range cuts {
			var next []TimeRange
			for _, p := range pieces {
				if !Overlaps(p, cut) {
					next = append(next, p)
					continue
				}
				if cut.Start > p.Start {
					next = append(next, TimeRange{Start: p.Start, End: cut.Start})
				}
				if cut.End < p.End {
					next = append(next, TimeRange{Start: cut.End, End: p.End})
				}
			}
			pieces = next
		}
		out = append(out, pieces...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start < out[j].Start
	})
	return out
}

func intersectAll(ranges []TimeRange, window TimeRange) []TimeRange {
	var out []TimeRange
	for _, r := range ranges {
		if in, ok := Intersect(r, window); ok {
			out = append(out, in)
		}
	}
	return out
}
