package kernel

// Mesh is a triangle mesh suitable for rendering.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	PartName string    `json:"partName"` // cuboid or region this came from
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Bounds returns the axis-aligned bounds of the vertices. An empty mesh
// has zero bounds.
func (m *Mesh) Bounds() (lo, hi [3]float32) {
	if m.IsEmpty() {
		return lo, hi
	}
	copy(lo[:], m.Vertices[:3])
	copy(hi[:], m.Vertices[:3])
	for v := 3; v < len(m.Vertices); v += 3 {
		for i := range 3 {
			lo[i] = min(lo[i], m.Vertices[v+i])
			hi[i] = max(hi[i], m.Vertices[v+i])
		}
	}
	return lo, hi
}
