package csgcore

import "math"

// fragmentCount resolves the fa/fs/fn configuration to a concrete number
// of fragments for a curve of the given radius, following the classic
// OpenSCAD get_fragments_from_r formula: fn takes precedence when set
// to 3 or more; otherwise the angle-based (fa) and length-based (fs)
// minimums are combined and floored at 5.
func fragmentCount(radius float64, cfg Config) int {
	if radius <= 0 {
		return 3
	}
	if cfg.Fn >= 3 {
		return cfg.Fn
	}
	fa := cfg.Fa
	if fa <= 0 {
		fa = defaultFa
	}
	fs := cfg.Fs
	if fs <= 0 {
		fs = defaultFs
	}
	byAngle := 360.0 / fa
	byLength := 2 * math.Pi * radius / fs
	n := math.Ceil(math.Min(byAngle, byLength))
	if n < 5 {
		n = 5
	}
	return int(n)
}

// circlePoints2D returns the vertices of a regular n-gon approximating a
// circle of the given radius, counter-clockwise starting at angle 0.
func circlePoints2D(radius float64, n int) []Point {
	pts := make([]Point, n)
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = Point{X: radius * math.Cos(a), Y: radius * math.Sin(a)}
	}
	return pts
}

// buildSquare tessellates a Primitive2D{Square} leaf.
func buildSquare(p PrimitiveParams) *Polygon2D {
	w, h := p.Size.X, p.Size.Y
	if w <= 0 || h <= 0 {
		return &Polygon2D{}
	}
	var ox, oy float64
	if p.Center {
		ox, oy = -w/2, -h/2
	}
	pts := []Point{
		{X: ox, Y: oy},
		{X: ox + w, Y: oy},
		{X: ox + w, Y: oy + h},
		{X: ox, Y: oy + h},
	}
	return &Polygon2D{Outlines: []Outline2D{{Points: pts}}, Sanitized: true, Convex: true}
}

// buildCircle tessellates a Primitive2D{Circle} leaf.
func buildCircle(p PrimitiveParams, cfg Config) *Polygon2D {
	if p.Radius <= 0 {
		return &Polygon2D{}
	}
	n := fragmentCount(p.Radius, cfg)
	pts := circlePoints2D(p.Radius, n)
	return &Polygon2D{Outlines: []Outline2D{{Points: pts}}, Sanitized: true, Convex: true}
}

// buildPolygon builds a Primitive2D{Polygon} leaf from explicit points
// and (optionally) explicit per-outline index paths. With no paths, all
// points form a single outline in order.
func buildPolygon(p PrimitiveParams) *Polygon2D {
	if len(p.Points2D) == 0 {
		return &Polygon2D{}
	}
	toPoint := func(i int) Point { return Point{X: p.Points2D[i][0], Y: p.Points2D[i][1]} }

	var outlines []Outline2D
	if len(p.Paths) == 0 {
		pts := make([]Point, len(p.Points2D))
		for i := range p.Points2D {
			pts[i] = toPoint(i)
		}
		outlines = append(outlines, Outline2D{Points: pts})
	} else {
		for _, path := range p.Paths {
			pts := make([]Point, len(path))
			for i, idx := range path {
				pts[i] = toPoint(idx)
			}
			outlines = append(outlines, Outline2D{Points: pts})
		}
	}
	return &Polygon2D{Outlines: outlines}
}

// buildCube tessellates a Primitive3D{Cube} leaf as 6 quad faces.
func buildCube(p PrimitiveParams) *PolySet3D {
	sx, sy, sz := p.Size.X, p.Size.Y, p.Size.Z
	if sx <= 0 || sy <= 0 || sz <= 0 {
		return &PolySet3D{}
	}
	var ox, oy, oz float64
	if p.Center {
		ox, oy, oz = -sx/2, -sy/2, -sz/2
	}
	v := func(x, y, z float64) Vec3 { return Vec3{X: ox + x, Y: oy + y, Z: oz + z} }

	corners := [8]Vec3{
		v(0, 0, 0), v(sx, 0, 0), v(sx, sy, 0), v(0, sy, 0),
		v(0, 0, sz), v(sx, 0, sz), v(sx, sy, sz), v(0, sy, sz),
	}
	quad := func(a, b, c, d int) Face3D {
		return Face3D{Vertices: []Vec3{corners[a], corners[b], corners[c], corners[d]}}
	}
	faces := []Face3D{
		quad(0, 3, 2, 1), // bottom, outward normal -Z
		quad(4, 5, 6, 7), // top, outward normal +Z
		quad(0, 1, 5, 4), // front, -Y
		quad(2, 3, 7, 6), // back, +Y
		quad(0, 4, 7, 3), // left, -X
		quad(1, 2, 6, 5), // right, +X
	}
	return &PolySet3D{Faces: faces}
}

// buildSphere tessellates a Primitive3D{Sphere} leaf as a UV sphere:
// equal-angle latitude rings stitched with quads, with triangle fans at
// the poles.
func buildSphere(p PrimitiveParams, cfg Config) *PolySet3D {
	r := p.Radius
	if r <= 0 {
		return &PolySet3D{}
	}
	fragments := fragmentCount(r, cfg)
	rings := fragments / 2
	if rings < 2 {
		rings = 2
	}

	// ring[i] for i in [0, rings], latitude from -pi/2 (south pole) to
	// +pi/2 (north pole); each interior ring has `fragments` vertices.
	vertexAt := func(ring, seg int) Vec3 {
		phi := -math.Pi/2 + math.Pi*float64(ring)/float64(rings)
		theta := 2 * math.Pi * float64(seg) / float64(fragments)
		return Vec3{
			X: r * math.Cos(phi) * math.Cos(theta),
			Y: r * math.Cos(phi) * math.Sin(theta),
			Z: r * math.Sin(phi),
		}
	}

	var faces []Face3D
	for ring := 0; ring < rings; ring++ {
		for seg := 0; seg < fragments; seg++ {
			seg2 := (seg + 1) % fragments
			a := vertexAt(ring, seg)
			b := vertexAt(ring, seg2)
			c := vertexAt(ring+1, seg2)
			d := vertexAt(ring+1, seg)
			switch {
			case ring == 0:
				// South pole: a and b collapse to the same point; emit a
				// single triangle instead of a degenerate quad.
				faces = append(faces, Face3D{Vertices: []Vec3{a, c, d}})
			case ring == rings-1:
				// North pole: c and d collapse to the same point.
				faces = append(faces, Face3D{Vertices: []Vec3{a, b, c}})
			default:
				faces = append(faces, Face3D{Vertices: []Vec3{a, b, c, d}})
			}
		}
	}
	return &PolySet3D{Faces: faces}
}

// buildCylinder tessellates a Primitive3D{Cylinder} leaf. Radius2 equal
// to Radius produces a plain cylinder; Radius2 == 0 produces a cone.
func buildCylinder(p PrimitiveParams, cfg Config) *PolySet3D {
	h := p.Height
	r1, r2 := p.Radius, p.Radius2
	if h <= 0 || (r1 <= 0 && r2 <= 0) {
		return &PolySet3D{}
	}
	maxR := math.Max(r1, r2)
	n := fragmentCount(maxR, cfg)

	var z0, z1 float64
	if p.Center {
		z0, z1 = -h/2, h/2
	} else {
		z0, z1 = 0, h
	}

	bottom := circlePoints2D(r1, n)
	top := circlePoints2D(r2, n)
	toV := func(pt Point, z float64) Vec3 { return Vec3{X: pt.X, Y: pt.Y, Z: z} }

	var faces []Face3D
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		b0, b1 := toV(bottom[i], z0), toV(bottom[j], z0)
		t0, t1 := toV(top[i], z1), toV(top[j], z1)
		switch {
		case r1 <= 0:
			faces = append(faces, Face3D{Vertices: []Vec3{b0, t1, t0}})
		case r2 <= 0:
			faces = append(faces, Face3D{Vertices: []Vec3{b0, b1, t0}})
		default:
			faces = append(faces, Face3D{Vertices: []Vec3{b0, b1, t1, t0}})
		}
	}
	if r1 > 0 {
		bottomFace := make([]Vec3, n)
		for i := 0; i < n; i++ {
			bottomFace[n-1-i] = toV(bottom[i], z0)
		}
		faces = append(faces, Face3D{Vertices: bottomFace})
	}
	if r2 > 0 {
		topFace := make([]Vec3, n)
		for i := 0; i < n; i++ {
			topFace[i] = toV(top[i], z1)
		}
		faces = append(faces, Face3D{Vertices: topFace})
	}
	return &PolySet3D{Faces: faces}
}

// buildPolyhedron builds a Primitive3D{Polyhedron} leaf directly from
// explicit vertex and face-index lists.
func buildPolyhedron(p PrimitiveParams) *PolySet3D {
	if len(p.Points3D) == 0 || len(p.Faces) == 0 {
		return &PolySet3D{}
	}
	faces := make([]Face3D, 0, len(p.Faces))
	for _, face := range p.Faces {
		verts := make([]Vec3, len(face))
		for i, idx := range face {
			verts[i] = p.Points3D[idx]
		}
		faces = append(faces, Face3D{Vertices: verts})
	}
	return &PolySet3D{Faces: faces}
}

// evalPrimitive2D dispatches a Primitive2D leaf to its tessellation.
func evalPrimitive2D(p Primitive2D, cfg Config) *Polygon2D {
	switch p.Kind {
	case Square:
		return buildSquare(p.Params)
	case Circle:
		return buildCircle(p.Params, cfg)
	case Polygon:
		return buildPolygon(p.Params)
	default:
		return &Polygon2D{}
	}
}

// evalPrimitive3D dispatches a Primitive3D leaf to its tessellation.
func evalPrimitive3D(p Primitive3D, cfg Config) *PolySet3D {
	switch p.Kind {
	case Cube:
		return buildCube(p.Params)
	case Sphere:
		return buildSphere(p.Params, cfg)
	case Cylinder:
		return buildCylinder(p.Params, cfg)
	case Polyhedron:
		return buildPolyhedron(p.Params)
	default:
		return &PolySet3D{}
	}
}
