// Package volume implements exact integer interval and cuboid algebra.
// Every bound is inclusive, so an Interval {10, 12} holds the three cells
// 10, 11 and 12.
package volume

import (
	"errors"
	"fmt"
)

// ErrMalformedInterval is returned when an interval is built with start > end.
var ErrMalformedInterval = errors.New("malformed interval")

// Interval is a closed integer range on one axis.
type Interval struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

// NewInterval returns the interval [start, end]. Bounds are never swapped.
func NewInterval(start, end int64) (Interval, error) {
	if start > end {
		return Interval{}, fmt.Errorf("%w: start %d > end %d", ErrMalformedInterval, start, end)
	}
	return Interval{Start: start, End: end}, nil
}

// Valid reports whether the interval is non-empty.
func (i Interval) Valid() bool {
	return i.Start <= i.End
}

// Covers reports whether o lies entirely inside i.
func (i Interval) Covers(o Interval) bool {
	return i.Start <= o.Start && i.End >= o.End
}

// OverlapsWith reports whether i and o share at least one cell.
func (i Interval) OverlapsWith(o Interval) bool {
	return i.End >= o.Start && i.Start <= o.End
}

// Intersect returns the cells shared by i and o.
func (i Interval) Intersect(o Interval) (Interval, bool) {
	if !i.OverlapsWith(o) {
		return Interval{}, false
	}
	return Interval{Start: max(i.Start, o.Start), End: min(i.End, o.End)}, true
}

// CutBy splits i at the boundaries of o. The fragments are ordered, pairwise
// disjoint and their union is exactly i. When o covers i or misses it
// entirely there is nothing to cut and i is returned alone.
func (i Interval) CutBy(o Interval) []Interval {
	if o.Covers(i) || !i.OverlapsWith(o) {
		return []Interval{i}
	}

	out := make([]Interval, 0, 3)
	rest := i
	if rest.Start < o.Start {
		out = append(out, Interval{Start: rest.Start, End: o.Start - 1})
		rest.Start = o.Start
	}
	if o.End < rest.End {
		out = append(out, Interval{Start: rest.Start, End: o.End})
		rest.Start = o.End + 1
	}
	return append(out, rest)
}

// Size returns the number of cells in i.
func (i Interval) Size() int64 {
	return i.End - i.Start + 1
}

// String renders the interval as "start..end".
func (i Interval) String() string {
	return fmt.Sprintf("%d..%d", i.Start, i.End)
}
