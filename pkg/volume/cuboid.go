package volume

import (
	"fmt"
	"math"
)

// Axis identifies one of the three coordinate axes.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return "unknown"
	}
}

// Cuboid is an axis-aligned box of unit cells. Cuboids are comparable and
// two cuboids are equal iff all three intervals are equal.
type Cuboid struct {
	X Interval `json:"x"`
	Y Interval `json:"y"`
	Z Interval `json:"z"`
}

// NewCuboid validates the three intervals and returns their product.
func NewCuboid(x, y, z Interval) (Cuboid, error) {
	for _, axis := range []struct {
		a Axis
		i Interval
	}{{AxisX, x}, {AxisY, y}, {AxisZ, z}} {
		if !axis.i.Valid() {
			return Cuboid{}, fmt.Errorf("%w: axis %s: start %d > end %d",
				ErrMalformedInterval, axis.a, axis.i.Start, axis.i.End)
		}
	}
	return Cuboid{X: x, Y: y, Z: z}, nil
}

// Box is a shorthand constructor for literal cuboids. It does not validate.
func Box(x0, x1, y0, y1, z0, z1 int64) Cuboid {
	return Cuboid{
		X: Interval{Start: x0, End: x1},
		Y: Interval{Start: y0, End: y1},
		Z: Interval{Start: z0, End: z1},
	}
}

// Axis returns the interval of c along a.
func (c Cuboid) Axis(a Axis) Interval {
	switch a {
	case AxisY:
		return c.Y
	case AxisZ:
		return c.Z
	default:
		return c.X
	}
}

// Valid reports whether all three intervals are non-empty.
func (c Cuboid) Valid() bool {
	return c.X.Valid() && c.Y.Valid() && c.Z.Valid()
}

// Covers reports whether o lies entirely inside c.
func (c Cuboid) Covers(o Cuboid) bool {
	return c.X.Covers(o.X) && c.Y.Covers(o.Y) && c.Z.Covers(o.Z)
}

// OverlapsWith reports whether c and o share at least one cell. Two boxes
// overlap only when they overlap on every axis.
func (c Cuboid) OverlapsWith(o Cuboid) bool {
	return c.X.OverlapsWith(o.X) && c.Y.OverlapsWith(o.Y) && c.Z.OverlapsWith(o.Z)
}

// Intersect returns the cells shared by c and o.
func (c Cuboid) Intersect(o Cuboid) (Cuboid, bool) {
	x, ok := c.X.Intersect(o.X)
	if !ok {
		return Cuboid{}, false
	}
	y, ok := c.Y.Intersect(o.Y)
	if !ok {
		return Cuboid{}, false
	}
	z, ok := c.Z.Intersect(o.Z)
	if !ok {
		return Cuboid{}, false
	}
	return Cuboid{X: x, Y: y, Z: z}, true
}

// CutBy partitions c along every boundary of o. At most 27 fragments are
// returned; they are pairwise disjoint and their union is exactly c.
func (c Cuboid) CutBy(o Cuboid) []Cuboid {
	xs := c.X.CutBy(o.X)
	ys := c.Y.CutBy(o.Y)
	zs := c.Z.CutBy(o.Z)

	out := make([]Cuboid, 0, len(xs)*len(ys)*len(zs))
	for _, x := range xs {
		for _, y := range ys {
			for _, z := range zs {
				out = append(out, Cuboid{X: x, Y: y, Z: z})
			}
		}
	}
	return out
}

// Subtract returns c minus o as a set of disjoint cuboids. Fragments left
// over after the cut are coalesced so the set stays small.
func (c Cuboid) Subtract(o Cuboid) []Cuboid {
	if o.Covers(c) {
		return nil
	}
	if !c.OverlapsWith(o) {
		return []Cuboid{c}
	}

	fragments := c.CutBy(o)
	kept := fragments[:0]
	for _, f := range fragments {
		if !o.Covers(f) {
			kept = append(kept, f)
		}
	}
	return coalesce(kept)
}

// TryJoin merges c and o into one cuboid when they agree on two axes and
// touch end to start on the third.
func (c Cuboid) TryJoin(o Cuboid) (Cuboid, bool) {
	switch {
	case c.X == o.X && c.Y == o.Y:
		if z, ok := joinAdjacent(c.Z, o.Z); ok {
			return Cuboid{X: c.X, Y: c.Y, Z: z}, true
		}
	case c.X == o.X && c.Z == o.Z:
		if y, ok := joinAdjacent(c.Y, o.Y); ok {
			return Cuboid{X: c.X, Y: y, Z: c.Z}, true
		}
	case c.Y == o.Y && c.Z == o.Z:
		if x, ok := joinAdjacent(c.X, o.X); ok {
			return Cuboid{X: x, Y: c.Y, Z: c.Z}, true
		}
	}
	return Cuboid{}, false
}

// joinAdjacent returns the union of a and b when one ends right before the
// other starts. An interval ending at MaxInt64 has no successor.
func joinAdjacent(a, b Interval) (Interval, bool) {
	switch {
	case a.End < math.MaxInt64 && a.End+1 == b.Start:
		return Interval{Start: a.Start, End: b.End}, true
	case b.End < math.MaxInt64 && b.End+1 == a.Start:
		return Interval{Start: b.Start, End: a.End}, true
	}
	return Interval{}, false
}

// coalesce greedily merges adjacent cuboids until no pair can be joined.
// The input must be pairwise disjoint and is consumed.
func coalesce(pieces []Cuboid) []Cuboid {
	var out []Cuboid
	for len(pieces) > 0 {
		current := pieces[0]
		pieces = pieces[1:]
		for i := 0; i < len(pieces); {
			joined, ok := current.TryJoin(pieces[i])
			if !ok {
				i++
				continue
			}
			current = joined
			pieces = append(pieces[:i], pieces[i+1:]...)
			// A grown cuboid may now join a piece skipped earlier.
			i = 0
		}
		out = append(out, current)
	}
	return out
}

// Size returns the number of cells in c.
func (c Cuboid) Size() int64 {
	return c.X.Size() * c.Y.Size() * c.Z.Size()
}

// String renders c in instruction form, e.g. "x=10..12,y=10..12,z=10..12".
func (c Cuboid) String() string {
	return fmt.Sprintf("x=%s,y=%s,z=%s", c.X, c.Y, c.Z)
}
