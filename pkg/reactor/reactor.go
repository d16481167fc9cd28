// Package reactor tracks the on-region of a reactor core as a set of
// mutually disjoint cuboids. Because members never overlap, the number of
// on cells is the plain sum of member volumes.
package reactor

import (
	"cmp"
	"slices"

	"github.com/chazu/reboot/pkg/volume"
)

// Reactor owns the disjoint cuboid set. The zero value is not usable; call New.
type Reactor struct {
	segments map[volume.Cuboid]struct{}
}

// New returns a reactor with every cell off.
func New() *Reactor {
	return &Reactor{segments: make(map[volume.Cuboid]struct{})}
}

// TurnOn switches every cell of c on.
func (r *Reactor) TurnOn(c volume.Cuboid) {
	r.remove(c)
	r.segments[c] = struct{}{}
	instructionsTotal.WithLabelValues("on").Inc()
	segmentsGauge.Set(float64(len(r.segments)))
}

// TurnOff switches every cell of c off. Members overlapping c are replaced
// by their remainders.
func (r *Reactor) TurnOff(c volume.Cuboid) {
	r.remove(c)
	instructionsTotal.WithLabelValues("off").Inc()
	segmentsGauge.Set(float64(len(r.segments)))
}

func (r *Reactor) remove(c volume.Cuboid) {
	next := make(map[volume.Cuboid]struct{}, len(r.segments))
	for m := range r.segments {
		if !m.OverlapsWith(c) {
			next[m] = struct{}{}
			continue
		}
		rest := m.Subtract(c)
		fragmentsPerSubtract.Observe(float64(len(rest)))
		for _, f := range rest {
			next[f] = struct{}{}
		}
	}
	r.segments = next
}

// CountActive returns the number of cells currently on.
func (r *Reactor) CountActive() int64 {
	var total int64
	for m := range r.segments {
		total += m.Size()
	}
	return total
}

// Len returns the number of cuboids in the representation.
func (r *Reactor) Len() int {
	return len(r.segments)
}

// Cuboids returns a sorted copy of the current members.
func (r *Reactor) Cuboids() []volume.Cuboid {
	out := make([]volume.Cuboid, 0, len(r.segments))
	for m := range r.segments {
		out = append(out, m)
	}
	slices.SortFunc(out, compareCuboids)
	return out
}

// Bounds returns the smallest cuboid enclosing every on cell. It reports
// false when the reactor is empty.
func (r *Reactor) Bounds() (volume.Cuboid, bool) {
	var b volume.Cuboid
	first := true
	for m := range r.segments {
		if first {
			b, first = m, false
			continue
		}
		b.X = span(b.X, m.X)
		b.Y = span(b.Y, m.Y)
		b.Z = span(b.Z, m.Z)
	}
	return b, !first
}

func span(a, b volume.Interval) volume.Interval {
	return volume.Interval{Start: min(a.Start, b.Start), End: max(a.End, b.End)}
}

func compareCuboids(a, b volume.Cuboid) int {
	return cmp.Or(
		cmp.Compare(a.X.Start, b.X.Start),
		cmp.Compare(a.Y.Start, b.Y.Start),
		cmp.Compare(a.Z.Start, b.Z.Start),
		cmp.Compare(a.X.End, b.X.End),
		cmp.Compare(a.Y.End, b.Y.End),
		cmp.Compare(a.Z.End, b.Z.End),
	)
}
