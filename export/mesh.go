// Package export writes evaluated Geometry values to the egress formats
// listed in §6: STL, OFF, WRL (VRML 2.0), and a debug SVG projection. All
// writers emit plain text with a period as decimal separator regardless
// of process locale — Go's fmt/strconv package never consults the C
// locale the way printf does, so this falls out of using them directly
// rather than needing any special handling.
package export

import (
	"fmt"
	"io"

	csg "github.com/openscad-go/csgcore"
)

// ErrUnsupportedGeometry is returned by a format-specific writer when
// asked to export a Geometry of the wrong dimensionality (e.g. WriteSTL
// on a 2D Geometry).
type ErrUnsupportedGeometry struct {
	Format string
	Shape  csg.GeometryShape
}

func (e *ErrUnsupportedGeometry) Error() string {
	return fmt.Sprintf("%s export requires a 3D mesh, got shape %v", e.Format, e.Shape)
}

// flattenMesh deduplicates a PolySet3D's per-face vertex loops into a
// single indexed vertex list, for formats (OFF, WRL) that want shared
// vertex indices rather than STL's flat per-triangle vertex soup.
func flattenMesh(ps *csg.PolySet3D) (verts []csg.Vec3, faces [][]int, faceColors []*csg.RGBA) {
	type key struct{ x, y, z float64 }
	index := make(map[key]int)
	for _, f := range ps.Faces {
		idx := make([]int, len(f.Vertices))
		for i, v := range f.Vertices {
			k := key{v.X, v.Y, v.Z}
			id, ok := index[k]
			if !ok {
				id = len(verts)
				index[k] = id
				verts = append(verts, v)
			}
			idx[i] = id
		}
		faces = append(faces, idx)
		faceColors = append(faceColors, f.Color)
	}
	return verts, faces, faceColors
}

func writeAll(w io.Writer, s string) error {
	_, err := io.WriteString(w, s)
	return err
}
