package export

import (
	"fmt"
	"io"

	csg "github.com/openscad-go/csgcore"
)

// WriteOFF writes g as an OFF mesh: a shared vertex list followed by a
// face list, each face line giving its vertex count then indices, with
// an optional trailing "r g b a" (0-255 scale) when the face carries a
// color tag.
func WriteOFF(w io.Writer, g csg.Geometry) error {
	if !g.Is3D() {
		return &ErrUnsupportedGeometry{Format: "OFF", Shape: g.Shape()}
	}
	verts, faces, colors := flattenMesh(g.PolySet3DValue())

	if err := writeAll(w, "OFF\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%d %d 0\n", len(verts), len(faces)); err != nil {
		return err
	}
	for _, v := range verts {
		if _, err := fmt.Fprintf(w, "%g %g %g\n", v.X, v.Y, v.Z); err != nil {
			return err
		}
	}
	for i, f := range faces {
		if _, err := fmt.Fprintf(w, "%d", len(f)); err != nil {
			return err
		}
		for _, idx := range f {
			if _, err := fmt.Fprintf(w, " %d", idx); err != nil {
				return err
			}
		}
		if c := colors[i]; c != nil {
			if _, err := fmt.Fprintf(w, "  %d %d %d %d",
				int(c.R*255), int(c.G*255), int(c.B*255), int(c.A*255)); err != nil {
				return err
			}
		}
		if err := writeAll(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}
