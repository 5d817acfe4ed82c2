package export

import (
	"fmt"
	"io"

	csg "github.com/openscad-go/csgcore"
)

// WriteSTL writes g as ASCII STL: a flat sequence of triangles, each
// with a unit normal computed from vertex order (Face3D.Normal,
// Newell's method, normalized). Non-triangular faces are fanned via
// PolySet3D.Triangulated before export.
func WriteSTL(w io.Writer, g csg.Geometry) error {
	if !g.Is3D() {
		return &ErrUnsupportedGeometry{Format: "STL", Shape: g.Shape()}
	}
	mesh := g.PolySet3DValue().Triangulated()

	if err := writeAll(w, "solid csgcore\n"); err != nil {
		return err
	}
	for _, f := range mesh.Faces {
		if len(f.Vertices) != 3 {
			continue
		}
		n := f.Normal().Normalize()
		if _, err := fmt.Fprintf(w, "  facet normal %g %g %g\n    outer loop\n", n.X, n.Y, n.Z); err != nil {
			return err
		}
		for _, v := range f.Vertices {
			if _, err := fmt.Fprintf(w, "      vertex %g %g %g\n", v.X, v.Y, v.Z); err != nil {
				return err
			}
		}
		if err := writeAll(w, "    endloop\n  endfacet\n"); err != nil {
			return err
		}
	}
	return writeAll(w, "endsolid csgcore\n")
}
