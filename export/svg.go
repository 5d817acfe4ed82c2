package export

import (
	"io"

	"github.com/ajstarks/svgo"
	csg "github.com/openscad-go/csgcore"
)

// svgViewport is the fixed canvas size for the debug SVG projection.
const svgViewport = 480

// WriteSVG writes a debug 2D projection of g into a fixed 480x480
// viewport, scaled and centered to fit g's bounding box. A native 2D
// Geometry is drawn outline-by-outline (holes included, same winding
// the evaluator produced); a 3D Geometry is drawn as an orthographic
// projection onto the XY plane, one polygon outline per face, which is
// enough to eyeball a mesh's silhouette without a full renderer.
func WriteSVG(w io.Writer, g csg.Geometry) error {
	if g.IsEmpty() {
		return writeEmptySVG(w)
	}
	if g.Is2D() {
		return writeSVG2D(w, g.Polygon2DValue())
	}
	if g.Is3D() {
		return writeSVG3D(w, g.PolySet3DValue())
	}
	return &ErrUnsupportedGeometry{Format: "SVG", Shape: g.Shape()}
}

func writeEmptySVG(w io.Writer) error {
	canvas := svg.New(w)
	canvas.Start(svgViewport, svgViewport)
	canvas.End()
	return nil
}

func writeSVG2D(w io.Writer, poly *csg.Polygon2D) error {
	box := poly.BoundingBox()
	proj := newSvgProjector(box)

	canvas := svg.New(w)
	canvas.Start(svgViewport, svgViewport)
	for _, o := range poly.Outlines {
		xs, ys := proj.project(o.Points)
		style := "fill:lightgray;stroke:black;stroke-width:1"
		if signedArea(o.Points) < 0 {
			style = "fill:white;stroke:black;stroke-width:1"
		}
		canvas.Polygon(xs, ys, style)
	}
	canvas.End()
	return nil
}

func writeSVG3D(w io.Writer, mesh *csg.PolySet3D) error {
	bb := mesh.BoundingBox()
	box := csg.Rect{
		Min: csg.Pt(bb.Min.X, bb.Min.Y),
		Max: csg.Pt(bb.Max.X, bb.Max.Y),
	}
	proj := newSvgProjector(box)

	canvas := svg.New(w)
	canvas.Start(svgViewport, svgViewport)
	for _, f := range mesh.Faces {
		pts := make([]csg.Point, len(f.Vertices))
		for i, v := range f.Vertices {
			pts[i] = csg.Pt(v.X, v.Y)
		}
		xs, ys := proj.project(pts)
		canvas.Polygon(xs, ys, "fill:none;stroke:black;stroke-width:0.5")
	}
	canvas.End()
	return nil
}

// svgProjector maps model-space 2D points into the fixed SVG viewport,
// uniformly scaled to fit the model's bounding box with a small margin
// and flipped on Y (SVG's origin is top-left, model space is not).
type svgProjector struct {
	scale  float64
	cx, cy float64
	ox, oy float64
}

func newSvgProjector(box csg.Rect) svgProjector {
	const margin = 0.9
	w := box.Max.X - box.Min.X
	h := box.Max.Y - box.Min.Y
	scale := 1.0
	if w > 0 || h > 0 {
		span := w
		if h > span {
			span = h
		}
		if span > 0 {
			scale = (svgViewport * margin) / span
		}
	}
	return svgProjector{
		scale: scale,
		cx:    (box.Min.X + box.Max.X) / 2,
		cy:    (box.Min.Y + box.Max.Y) / 2,
		ox:    svgViewport / 2,
		oy:    svgViewport / 2,
	}
}

func (p svgProjector) project(pts []csg.Point) ([]int, []int) {
	xs := make([]int, len(pts))
	ys := make([]int, len(pts))
	for i, pt := range pts {
		xs[i] = int(p.ox + (pt.X-p.cx)*p.scale)
		ys[i] = int(p.oy - (pt.Y-p.cy)*p.scale)
	}
	return xs, ys
}

// signedArea returns the shoelace area of a closed 2D loop; positive
// for counter-clockwise winding, negative for clockwise (holes, once
// the polygon has been sanitized by the boolean kernel).
func signedArea(pts []csg.Point) float64 {
	var sum float64
	n := len(pts)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	return sum / 2
}
