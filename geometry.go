package csgcore

// GeometryShape tags which of the three shapes a Geometry holds.
type GeometryShape uint8

const (
	ShapeEmpty GeometryShape = iota
	ShapePolygon2D
	ShapePolySet3D
)

// Geometry is a tagged union over the three shapes a subtree can
// evaluate to: empty, a 2D polygon set, or a 3D polygonal mesh. The
// zero value is the Empty geometry.
type Geometry struct {
	shape GeometryShape
	poly  *Polygon2D
	mesh  *PolySet3D
}

// Empty is the empty geometry, the identity element for union and the
// absorbing element for intersection.
var Empty = Geometry{shape: ShapeEmpty}

// NewPolygon2DGeometry wraps a Polygon2D as a Geometry.
func NewPolygon2DGeometry(p *Polygon2D) Geometry {
	if p == nil || len(p.Outlines) == 0 {
		return Empty
	}
	return Geometry{shape: ShapePolygon2D, poly: p}
}

// NewPolySet3DGeometry wraps a PolySet3D as a Geometry.
func NewPolySet3DGeometry(m *PolySet3D) Geometry {
	if m == nil || len(m.Faces) == 0 {
		return Empty
	}
	return Geometry{shape: ShapePolySet3D, mesh: m}
}

// Shape returns which of the three shapes g holds.
func (g Geometry) Shape() GeometryShape { return g.shape }

// IsEmpty reports whether g is the empty geometry.
func (g Geometry) IsEmpty() bool { return g.shape == ShapeEmpty }

// Is2D reports whether g holds a Polygon2D.
func (g Geometry) Is2D() bool { return g.shape == ShapePolygon2D }

// Is3D reports whether g holds a PolySet3D.
func (g Geometry) Is3D() bool { return g.shape == ShapePolySet3D }

// Polygon2D returns the 2D polygon set, or nil if g is not 2D.
func (g Geometry) Polygon2DValue() *Polygon2D { return g.poly }

// PolySet3D returns the 3D mesh, or nil if g is not 3D.
func (g Geometry) PolySet3DValue() *PolySet3D { return g.mesh }

// ByteSize reports the geometry's memory footprint, used for cache
// budget accounting (implements cache.Sized).
func (g Geometry) ByteSize() int64 {
	switch g.shape {
	case ShapePolygon2D:
		return g.poly.byteSize()
	case ShapePolySet3D:
		return g.mesh.byteSize()
	default:
		return 0
	}
}

// Outline2D is one closed loop of a Polygon2D: a positive (solid)
// outline is wound counter-clockwise, a negative (hole) outline is
// wound clockwise, when the polygon is sanitized.
type Outline2D struct {
	Points []Point
	Color  *RGBA // nil means unset / inherit
}

// Polygon2D is a set of closed 2D outlines with explicit winding. A
// sanitized Polygon2D has no self-intersecting outlines and holes wound
// clockwise; an unsanitized one may still need to pass through the
// boolean kernel to become sanitized.
type Polygon2D struct {
	Outlines  []Outline2D
	Sanitized bool
	Convex    bool // convexity hint; false is always safe
}

// NewPolygon2D creates an (unsanitized, non-convex) polygon set from
// raw outlines.
func NewPolygon2D(outlines ...Outline2D) *Polygon2D {
	return &Polygon2D{Outlines: outlines}
}

func (p *Polygon2D) byteSize() int64 {
	const pointBytes = 16
	const headerBytes = 8
	var total int64 = headerBytes
	for _, o := range p.Outlines {
		total += headerBytes + int64(len(o.Points))*pointBytes
	}
	return total
}

// BoundingBox returns the axis-aligned bounding rectangle of all
// outline points.
func (p *Polygon2D) BoundingBox() Rect {
	var box Rect
	first := true
	for _, o := range p.Outlines {
		for _, pt := range o.Points {
			if first {
				box = Rect{Min: pt, Max: pt}
				first = false
				continue
			}
			box.Min.X = min(box.Min.X, pt.X)
			box.Min.Y = min(box.Min.Y, pt.Y)
			box.Max.X = max(box.Max.X, pt.X)
			box.Max.Y = max(box.Max.Y, pt.Y)
		}
	}
	return box
}

// Clone returns a deep copy of p.
func (p *Polygon2D) Clone() *Polygon2D {
	out := &Polygon2D{Sanitized: p.Sanitized, Convex: p.Convex}
	out.Outlines = make([]Outline2D, len(p.Outlines))
	for i, o := range p.Outlines {
		pts := make([]Point, len(o.Points))
		copy(pts, o.Points)
		var col *RGBA
		if o.Color != nil {
			c := *o.Color
			col = &c
		}
		out.Outlines[i] = Outline2D{Points: pts, Color: col}
	}
	return out
}

// Transformed returns a copy of p with m applied to every point,
// reversing outline winding when m has a negative determinant and p is
// sanitized (the evaluator's Transform rule, §4.5).
func (p *Polygon2D) Transformed(m Matrix) *Polygon2D {
	out := p.Clone()
	reverse := out.Sanitized && m.A*m.E-m.B*m.D < 0
	for i, o := range out.Outlines {
		pts := make([]Point, len(o.Points))
		for j, pt := range o.Points {
			pts[j] = m.TransformPoint(pt)
		}
		if reverse {
			reversePoints(pts)
		}
		out.Outlines[i].Points = pts
	}
	return out
}

func reversePoints(pts []Point) {
	for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
		pts[i], pts[j] = pts[j], pts[i]
	}
}

// Face3D is one polygonal face of a PolySet3D: a triangle when
// len(Vertices)==3, a general polygon otherwise.
type Face3D struct {
	Vertices []Vec3
	Color    *RGBA
}

// Normal returns the face's unit normal computed from vertex order
// (Newell's method, robust for non-planar or concave polygons).
func (f Face3D) Normal() Vec3 {
	var n Vec3
	verts := f.Vertices
	count := len(verts)
	for i := 0; i < count; i++ {
		a := verts[i]
		b := verts[(i+1)%count]
		n.X += (a.Y - b.Y) * (a.Z + b.Z)
		n.Y += (a.Z - b.Z) * (a.X + b.X)
		n.Z += (a.X - b.X) * (a.Y + b.Y)
	}
	return n.Normalize()
}

// PolySet3D is a list of 3D polygonal faces with an optional dimension
// tag: Dim2 marks a slab of 2D faces embedded in 3D (e.g. a projection
// result kept in mesh form for slab rendering).
type PolySet3D struct {
	Faces []Face3D
	Dim2  bool
}

// NewPolySet3D creates a PolySet3D from the given faces.
func NewPolySet3D(faces ...Face3D) *PolySet3D {
	return &PolySet3D{Faces: faces}
}

func (m *PolySet3D) byteSize() int64 {
	const vertBytes = 24
	const headerBytes = 8
	var total int64 = headerBytes
	for _, f := range m.Faces {
		total += headerBytes + int64(len(f.Vertices))*vertBytes
	}
	return total
}

// BoundingBox returns the axis-aligned bounding box of all face
// vertices.
func (m *PolySet3D) BoundingBox() Box3 {
	box := EmptyBox3()
	for _, f := range m.Faces {
		for _, v := range f.Vertices {
			box = box.AddPoint(v)
		}
	}
	return box
}

// Clone returns a deep copy of m.
func (m *PolySet3D) Clone() *PolySet3D {
	out := &PolySet3D{Dim2: m.Dim2}
	out.Faces = make([]Face3D, len(m.Faces))
	for i, f := range m.Faces {
		verts := make([]Vec3, len(f.Vertices))
		copy(verts, f.Vertices)
		var col *RGBA
		if f.Color != nil {
			c := *f.Color
			col = &c
		}
		out.Faces[i] = Face3D{Vertices: verts, Color: col}
	}
	return out
}

// Transformed returns a copy of m with the affine transform applied to
// every vertex.
func (m *PolySet3D) Transformed(a Affine) *PolySet3D {
	out := m.Clone()
	for i, f := range out.Faces {
		verts := make([]Vec3, len(f.Vertices))
		for j, v := range f.Vertices {
			verts[j] = a.TransformPoint(v)
		}
		out.Faces[i].Vertices = verts
	}
	return out
}

// Volume returns the signed volume of the mesh via the divergence
// theorem (sum of signed tetrahedra volumes from the origin to each
// triangular face). Only meaningful for a closed, triangulated mesh.
func (m *PolySet3D) Volume() float64 {
	var vol float64
	for _, f := range m.Faces {
		if len(f.Vertices) < 3 {
			continue
		}
		v0 := f.Vertices[0]
		for i := 1; i < len(f.Vertices)-1; i++ {
			v1 := f.Vertices[i]
			v2 := f.Vertices[i+1]
			vol += v0.Dot(v1.Cross(v2)) / 6
		}
	}
	if vol < 0 {
		vol = -vol
	}
	return vol
}

// Triangulated returns a copy of m with every face split into triangles
// via a triangle fan, leaving already-triangular faces untouched.
func (m *PolySet3D) Triangulated() *PolySet3D {
	out := &PolySet3D{Dim2: m.Dim2}
	for _, f := range m.Faces {
		if len(f.Vertices) <= 3 {
			out.Faces = append(out.Faces, f)
			continue
		}
		for i := 1; i < len(f.Vertices)-1; i++ {
			out.Faces = append(out.Faces, Face3D{
				Vertices: []Vec3{f.Vertices[0], f.Vertices[i], f.Vertices[i+1]},
				Color:    f.Color,
			})
		}
	}
	return out
}
