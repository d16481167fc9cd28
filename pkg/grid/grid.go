// Package grid is a dense boolean model of the reactor initialization
// region. It stores one flag per cell, so it only works for the small
// [-Radius, Radius] cube, but it is simple enough to serve as an exact
// cross-check for the cuboid algebra.
package grid

import "github.com/chazu/reboot/pkg/volume"

// Radius is the default half-width of the initialization region.
const Radius = 50

// Grid holds one flag per cell of a cube centred on the origin.
type Grid struct {
	radius int64
	side   int64
	cells  []bool
	on     int64
}

// New returns an all-off grid covering [-Radius, Radius] on every axis.
func New() *Grid {
	return NewWithRadius(Radius)
}

// NewWithRadius returns an all-off grid covering [-radius, radius].
func NewWithRadius(radius int64) *Grid {
	side := 2*radius + 1
	return &Grid{
		radius: radius,
		side:   side,
		cells:  make([]bool, side*side*side),
	}
}

// Region returns the cuboid the grid covers.
func (g *Grid) Region() volume.Cuboid {
	return Region(g.radius)
}

// TurnOn switches the cells of c inside the grid on. Cells outside are ignored.
func (g *Grid) TurnOn(c volume.Cuboid) { g.set(c, true) }

// TurnOff switches the cells of c inside the grid off. Cells outside are ignored.
func (g *Grid) TurnOff(c volume.Cuboid) { g.set(c, false) }

// CountActive returns the number of cells on.
func (g *Grid) CountActive() int64 { return g.on }

// IsOn reports whether the cell at (x, y, z) is on.
func (g *Grid) IsOn(x, y, z int64) bool {
	if !g.Region().Covers(volume.Box(x, x, y, y, z, z)) {
		return false
	}
	return g.cells[g.index(x, y, z)]
}

func (g *Grid) set(c volume.Cuboid, on bool) {
	clipped, ok := c.Intersect(g.Region())
	if !ok {
		return
	}
	for x := clipped.X.Start; x <= clipped.X.End; x++ {
		for y := clipped.Y.Start; y <= clipped.Y.End; y++ {
			for z := clipped.Z.Start; z <= clipped.Z.End; z++ {
				i := g.index(x, y, z)
				if g.cells[i] != on {
					g.cells[i] = on
					if on {
						g.on++
					} else {
						g.on--
					}
				}
			}
		}
	}
}

func (g *Grid) index(x, y, z int64) int64 {
	return ((x+g.radius)*g.side+(y+g.radius))*g.side + (z + g.radius)
}

// Region returns the cube [-radius, radius] on every axis.
func Region(radius int64) volume.Cuboid {
	return volume.Box(-radius, radius, -radius, radius, -radius, radius)
}

// InRegion reports whether c lies entirely inside Region(radius). Cuboids
// that only partly overlap the region are not in it.
func InRegion(c volume.Cuboid, radius int64) bool {
	return Region(radius).Covers(c)
}
