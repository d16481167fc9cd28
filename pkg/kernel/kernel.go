// Package kernel defines the abstract geometry kernel used to render
// reactor regions. Implementations (sdfx, manifold) build solids from
// axis-aligned boxes and turn them into triangle meshes, so the exporter
// can swap backends without changing the rest of the system.
package kernel

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Box creates a box of the given size with its minimum corner at the origin.
	Box(x, y, z float64) Solid

	// Union returns the union of two solids.
	Union(a, b Solid) Solid

	// Translate moves a solid by (x, y, z).
	Translate(s Solid, x, y, z float64) Solid

	// ToMesh tessellates a solid.
	ToMesh(s Solid) (*Mesh, error)
}
