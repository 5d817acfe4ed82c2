package export

import (
	"fmt"
	"io"

	csg "github.com/openscad-go/csgcore"
)

// WriteWRL writes g as a minimal VRML 2.0 scene: a single Shape wrapping
// an IndexedFaceSet, with a Color field populated only when at least one
// face carries a color tag. Colors are per face (colorPerVertex FALSE):
// each face's own color index selects into the shared palette.
func WriteWRL(w io.Writer, g csg.Geometry) error {
	if !g.Is3D() {
		return &ErrUnsupportedGeometry{Format: "WRL", Shape: g.Shape()}
	}
	verts, faces, colors := flattenMesh(g.PolySet3DValue())

	if err := writeAll(w, "#VRML V2.0 utf8\n\nShape {\n  geometry IndexedFaceSet {\n"); err != nil {
		return err
	}

	if err := writeAll(w, "    coord Coordinate {\n      point [\n"); err != nil {
		return err
	}
	for _, v := range verts {
		if _, err := fmt.Fprintf(w, "        %g %g %g,\n", v.X, v.Y, v.Z); err != nil {
			return err
		}
	}
	if err := writeAll(w, "      ]\n    }\n"); err != nil {
		return err
	}

	if err := writeAll(w, "    coordIndex [\n"); err != nil {
		return err
	}
	for _, f := range faces {
		for _, idx := range f {
			if _, err := fmt.Fprintf(w, "%d, ", idx); err != nil {
				return err
			}
		}
		if err := writeAll(w, "-1,\n"); err != nil {
			return err
		}
	}
	if err := writeAll(w, "    ]\n"); err != nil {
		return err
	}

	hasColor := false
	for _, c := range colors {
		if c != nil {
			hasColor = true
			break
		}
	}
	if hasColor {
		if err := writeAll(w, "    colorPerVertex FALSE\n    color Color {\n      color [\n"); err != nil {
			return err
		}
		for _, c := range colors {
			if c == nil {
				c = &csg.RGBA{R: 0.8, G: 0.8, B: 0.8, A: 1}
			}
			if _, err := fmt.Fprintf(w, "        %g %g %g,\n", c.R, c.G, c.B); err != nil {
				return err
			}
		}
		if err := writeAll(w, "      ]\n    }\n    colorIndex [\n"); err != nil {
			return err
		}
		for i := range faces {
			if _, err := fmt.Fprintf(w, "%d, ", i); err != nil {
				return err
			}
		}
		if err := writeAll(w, "-1\n    ]\n"); err != nil {
			return err
		}
	}

	return writeAll(w, "  }\n}\n")
}
