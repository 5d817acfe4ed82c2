package export

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	csg "github.com/openscad-go/csgcore"
)

// unitCube builds a single-face-per-side cube mesh (quads, not
// triangulated) so writers exercise their own triangulation/dedup
// logic rather than relying on pre-split input.
func unitCube() *csg.PolySet3D {
	v := func(x, y, z float64) csg.Vec3 { return csg.V3(x, y, z) }
	face := func(pts ...csg.Vec3) csg.Face3D { return csg.Face3D{Vertices: pts} }
	return csg.NewPolySet3D(
		face(v(0, 0, 0), v(0, 1, 0), v(1, 1, 0), v(1, 0, 0)), // bottom
		face(v(0, 0, 1), v(1, 0, 1), v(1, 1, 1), v(0, 1, 1)), // top
		face(v(0, 0, 0), v(1, 0, 0), v(1, 0, 1), v(0, 0, 1)), // front
		face(v(1, 1, 0), v(0, 1, 0), v(0, 1, 1), v(1, 1, 1)), // back
		face(v(0, 1, 0), v(0, 0, 0), v(0, 0, 1), v(0, 1, 1)), // left
		face(v(1, 0, 0), v(1, 1, 0), v(1, 1, 1), v(1, 0, 1)), // right
	)
}

func TestWriteSTLTriangulatesAndLocaleIndependent(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSTL(&buf, csg.NewPolySet3DGeometry(unitCube())); err != nil {
		t.Fatalf("WriteSTL: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "solid csgcore\n") {
		t.Errorf("missing solid header: %q", out[:min(40, len(out))])
	}
	if !strings.HasSuffix(out, "endsolid csgcore\n") {
		t.Error("missing endsolid trailer")
	}
	if got := strings.Count(out, "facet normal"); got != 12 {
		t.Errorf("expected 12 triangulated facets (6 quads x 2), got %d", got)
	}
	if strings.ContainsAny(out, ",") {
		t.Error("STL output should use '.' as decimal separator, found ','")
	}
}

func TestWriteSTLRejects2D(t *testing.T) {
	square := csg.NewPolygon2D(csg.Outline2D{Points: []csg.Point{csg.Pt(0, 0), csg.Pt(1, 0), csg.Pt(1, 1)}})
	err := WriteSTL(&bytes.Buffer{}, csg.NewPolygon2DGeometry(square))
	if err == nil {
		t.Fatal("expected ErrUnsupportedGeometry for a 2D shape")
	}
	if _, ok := err.(*ErrUnsupportedGeometry); !ok {
		t.Errorf("expected *ErrUnsupportedGeometry, got %T", err)
	}
}

func TestWriteOFFSharesVertices(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOFF(&buf, csg.NewPolySet3DGeometry(unitCube())); err != nil {
		t.Fatalf("WriteOFF: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[0] != "OFF" {
		t.Fatalf("expected OFF header, got %q", lines[0])
	}
	var nv, nf, ne int
	if _, err := fmt.Sscan(lines[1], &nv, &nf, &ne); err != nil {
		t.Fatalf("parsing counts line %q: %v", lines[1], err)
	}
	if nv != 8 {
		t.Errorf("expected 8 shared vertices for a cube, got %d", nv)
	}
	if nf != 6 {
		t.Errorf("expected 6 faces, got %d", nf)
	}
}

func TestWriteWRLHasShapeBlock(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteWRL(&buf, csg.NewPolySet3DGeometry(unitCube())); err != nil {
		t.Fatalf("WriteWRL: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "#VRML V2.0 utf8") {
		t.Error("missing VRML header")
	}
	if !strings.Contains(out, "IndexedFaceSet") {
		t.Error("missing IndexedFaceSet")
	}
	if !strings.Contains(out, "coordIndex") {
		t.Error("missing coordIndex")
	}
}

func TestWriteSVGFixedViewport(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSVG(&buf, csg.NewPolySet3DGeometry(unitCube())); err != nil {
		t.Fatalf("WriteSVG: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `width="480"`) || !strings.Contains(out, `height="480"`) {
		t.Errorf("expected fixed 480x480 viewport, got: %s", out[:min(200, len(out))])
	}
}

func TestWriteSVGEmptyGeometry(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSVG(&buf, csg.Empty); err != nil {
		t.Fatalf("WriteSVG(Empty): %v", err)
	}
	if !strings.Contains(buf.String(), "<svg") {
		t.Error("expected a well-formed (if empty) svg document")
	}
}
