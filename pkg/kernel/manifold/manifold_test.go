//go:build manifold

package manifold

import (
	"math"
	"testing"

	"github.com/chazu/reboot/pkg/kernel"
)

func mustNew(t *testing.T) kernel.Kernel {
	t.Helper()
	k, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return k
}

func checkBounds(t *testing.T, s kernel.Solid, wantMin, wantMax [3]float64) {
	t.Helper()
	min, max := s.BoundingBox()
	for i := 0; i < 3; i++ {
		if math.Abs(min[i]-wantMin[i]) > 1e-6 {
			t.Errorf("min[%d] = %f, want %f", i, min[i], wantMin[i])
		}
		if math.Abs(max[i]-wantMax[i]) > 1e-6 {
			t.Errorf("max[%d] = %f, want %f", i, max[i], wantMax[i])
		}
	}
}

func TestBox(t *testing.T) {
	k := mustNew(t)
	checkBounds(t, k.Box(4, 6, 8), [3]float64{0, 0, 0}, [3]float64{4, 6, 8})
}

func TestTranslate(t *testing.T) {
	k := mustNew(t)
	moved := k.Translate(k.Box(10, 10, 10), 100, -200, 300)
	checkBounds(t, moved, [3]float64{100, -200, 300}, [3]float64{110, -190, 310})
}

func TestUnion(t *testing.T) {
	k := mustNew(t)
	u := k.Union(k.Box(2, 2, 2), k.Translate(k.Box(2, 2, 2), 2, 0, 0))
	checkBounds(t, u, [3]float64{0, 0, 0}, [3]float64{4, 2, 2})

	mesh, err := k.ToMesh(u)
	if err != nil {
		t.Fatalf("ToMesh() error = %v", err)
	}
	// Two face-adjacent boxes merge into one box.
	if mesh.TriangleCount() < 12 {
		t.Errorf("triangle count = %d, want >= 12", mesh.TriangleCount())
	}
}

func TestToMesh(t *testing.T) {
	k := mustNew(t)
	mesh, err := k.ToMesh(k.Box(10, 10, 10))
	if err != nil {
		t.Fatalf("ToMesh() error = %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("ToMesh() returned empty mesh for a box")
	}
	if mesh.TriangleCount() < 12 {
		t.Errorf("ToMesh() triangle count = %d, want >= 12", mesh.TriangleCount())
	}
	if mesh.VertexCount() < 8 {
		t.Errorf("ToMesh() vertex count = %d, want >= 8", mesh.VertexCount())
	}
	if len(mesh.Normals) != len(mesh.Vertices) {
		t.Errorf("normals length = %d, vertices length = %d, want equal",
			len(mesh.Normals), len(mesh.Vertices))
	}
}

func TestVertexNormals(t *testing.T) {
	// One triangle in the XY plane, counter-clockwise: normal +Z.
	n := vertexNormals([]float32{0, 0, 0, 1, 0, 0, 0, 1, 0}, []uint32{0, 1, 2})
	for v := 0; v < 3; v++ {
		if n[v*3] != 0 || n[v*3+1] != 0 || n[v*3+2] != 1 {
			t.Errorf("normal %d = %v, want [0 0 1]", v, n[v*3:v*3+3])
		}
	}
}
