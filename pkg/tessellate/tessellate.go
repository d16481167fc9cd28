// Package tessellate turns the disjoint cuboids of a reactor into triangle
// meshes using a geometry kernel. Either one mesh is produced per cuboid or
// all cuboids are unioned into a single mesh of the on-region.
package tessellate

import (
	"fmt"

	"github.com/chazu/reboot/pkg/kernel"
	"github.com/chazu/reboot/pkg/volume"
)

// RegionName is the PartName of a merged mesh.
const RegionName = "on-region"

// Options controls what is tessellated.
type Options struct {
	// Window clips every cuboid before meshing. Cuboids outside it are skipped.
	Window *volume.Cuboid
	// Merge unions all cuboids into one mesh.
	Merge bool
}

// Solid builds the kernel solid occupying the cells of c. Cell (x, y, z) is
// the unit cube [x, x+1) x [y, y+1) x [z, z+1).
func Solid(k kernel.Kernel, c volume.Cuboid) kernel.Solid {
	box := k.Box(float64(c.X.Size()), float64(c.Y.Size()), float64(c.Z.Size()))
	return k.Translate(box, float64(c.X.Start), float64(c.Y.Start), float64(c.Z.Start))
}

// Tessellate meshes cuboids with k. The input is read-only. An empty
// selection yields no meshes.
func Tessellate(cuboids []volume.Cuboid, k kernel.Kernel, opts Options) ([]*kernel.Mesh, error) {
	parts := clip(cuboids, opts.Window)
	if len(parts) == 0 {
		return nil, nil
	}

	if opts.Merge {
		solid := Solid(k, parts[0])
		for _, c := range parts[1:] {
			solid = k.Union(solid, Solid(k, c))
		}
		mesh, err := k.ToMesh(solid)
		if err != nil {
			return nil, fmt.Errorf("tessellate: ToMesh failed for merged region of %d cuboids: %w", len(parts), err)
		}
		mesh.PartName = RegionName
		return []*kernel.Mesh{mesh}, nil
	}

	meshes := make([]*kernel.Mesh, 0, len(parts))
	for _, c := range parts {
		mesh, err := k.ToMesh(Solid(k, c))
		if err != nil {
			return nil, fmt.Errorf("tessellate: ToMesh failed for %s: %w", c, err)
		}
		mesh.PartName = c.String()
		meshes = append(meshes, mesh)
	}
	return meshes, nil
}

func clip(cuboids []volume.Cuboid, window *volume.Cuboid) []volume.Cuboid {
	if window == nil {
		return cuboids
	}
	var out []volume.Cuboid
	for _, c := range cuboids {
		if part, ok := c.Intersect(*window); ok {
			out = append(out, part)
		}
	}
	return out
}
