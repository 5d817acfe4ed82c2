package csgcore

import "math"

// evalLinearExtrude unions the node's children to a 2D profile and
// sweeps it along z in p.Slices interpolated steps, applying linear
// twist and scale interpolation between the bottom and top cross-
// sections, then caps both ends via triangulateCap (cap.go).
func (e *Evaluator) evalLinearExtrude(n *Node, p LinearExtrude, children []childResult) evalOutcome {
	g, _ := e.unionChildren(n, children)
	if g.IsEmpty() {
		return evalOutcome{Geom: Empty}
	}
	if !g.Is2D() {
		e.warn(n, DimensionMismatch, "linear_extrude: expected a 2D profile")
		return evalOutcome{Geom: Empty}
	}
	poly := g.Polygon2DValue()
	if len(poly.Outlines) == 0 || p.Height <= 0 {
		return evalOutcome{Geom: Empty}
	}

	slices := p.Slices
	if slices < 1 {
		slices = 1
	}
	var z0 float64
	if p.Center {
		z0 = -p.Height / 2
	}

	// Scale is taken literally: 0 is a genuine degenerate taper to a
	// point/line on that axis, not a stand-in for "no scaling" (§4.5
	// rule 7). Callers wanting no scaling pass Scale{1, 1} explicitly.
	scaleAt := func(i int) (float64, float64) {
		t := float64(i) / float64(slices)
		sx, sy := p.Scale[0], p.Scale[1]
		return 1 + (sx-1)*t, 1 + (sy-1)*t
	}
	rotAt := func(i int) float64 {
		t := float64(i) / float64(slices)
		return p.Twist * t * math.Pi / 180
	}
	ringAt := func(i int, pts []Point) []Vec3 {
		sx, sy := scaleAt(i)
		rot := rotAt(i)
		cos, sin := math.Cos(rot), math.Sin(rot)
		z := z0 + p.Height*float64(i)/float64(slices)
		out := make([]Vec3, len(pts))
		for j, pt := range pts {
			x, y := pt.X*sx, pt.Y*sy
			out[j] = Vec3{X: x*cos - y*sin, Y: x*sin + y*cos, Z: z}
		}
		return out
	}

	var faces []Face3D
	for _, outline := range poly.Outlines {
		pts := outline.Points
		if len(pts) < 3 {
			continue
		}
		rings := make([][]Vec3, slices+1)
		for i := 0; i <= slices; i++ {
			rings[i] = ringAt(i, pts)
		}
		m := len(pts)
		for i := 0; i < slices; i++ {
			// Diagonal choice follows the twisted-quad tie-break: whichever
			// diagonal keeps the quad from folding over itself as the ring
			// rotates between slice i and i+1.
			flip := math.Sin(rotAt(i)-rotAt(i+1)) >= 0
			for j := 0; j < m; j++ {
				j2 := (j + 1) % m
				a, b := rings[i][j], rings[i][j2]
				c, d := rings[i+1][j2], rings[i+1][j]
				if flip {
					faces = append(faces,
						Face3D{Vertices: []Vec3{a, b, c}},
						Face3D{Vertices: []Vec3{a, c, d}})
				} else {
					faces = append(faces,
						Face3D{Vertices: []Vec3{a, b, d}},
						Face3D{Vertices: []Vec3{b, c, d}})
				}
			}
		}
	}

	bottomTris := triangulateCap(poly, z0)
	for _, t := range bottomTris {
		// Reversed so the bottom cap's normal points -Z (outward).
		faces = append(faces, Face3D{Vertices: []Vec3{
			{X: t[2].X, Y: t[2].Y, Z: z0},
			{X: t[1].X, Y: t[1].Y, Z: z0},
			{X: t[0].X, Y: t[0].Y, Z: z0},
		}})
	}

	topSX, topSY := scaleAt(slices)
	if topSX != 0 && topSY != 0 {
		topRot := rotAt(slices)
		cos, sin := math.Cos(topRot), math.Sin(topRot)
		zTop := z0 + p.Height
		for _, t := range triangulateCap(poly, 0) {
			var v [3]Vec3
			for k, pt := range t {
				x, y := pt.X*topSX, pt.Y*topSY
				v[k] = Vec3{X: x*cos - y*sin, Y: x*sin + y*cos, Z: zTop}
			}
			faces = append(faces, Face3D{Vertices: []Vec3{v[0], v[1], v[2]}})
		}
	}

	return evalOutcome{Geom: NewPolySet3DGeometry(&PolySet3D{Faces: faces})}
}

// evalRotateExtrude unions the node's children to a 2D profile and
// revolves it around the Z axis. The profile must lie entirely on one
// side of the axis (all x >= 0 or all x <= 0); a profile straddling the
// axis cannot be swept into a manifold solid.
func (e *Evaluator) evalRotateExtrude(n *Node, p RotateExtrude, children []childResult) evalOutcome {
	g, _ := e.unionChildren(n, children)
	if g.IsEmpty() {
		return evalOutcome{Geom: Empty}
	}
	if !g.Is2D() {
		e.warn(n, DimensionMismatch, "rotate_extrude: expected a 2D profile")
		return evalOutcome{Geom: Empty}
	}
	poly := g.Polygon2DValue()
	if len(poly.Outlines) == 0 {
		return evalOutcome{Geom: Empty}
	}

	allNonNeg, allNonPos := true, true
	for _, o := range poly.Outlines {
		for _, pt := range o.Points {
			if pt.X < 0 {
				allNonNeg = false
			}
			if pt.X > 0 {
				allNonPos = false
			}
		}
	}
	if !allNonNeg && !allNonPos {
		e.warn(n, NonManifoldInput, "rotate_extrude: profile crosses the rotation axis")
		return evalOutcome{Geom: Empty}
	}

	angle := p.Angle
	if angle == 0 {
		angle = 360
	}
	fragments := p.Fragments
	if fragments < 3 {
		fragments = 3
	}
	full := angle == 360 || angle == -360
	// A profile on the negative side presents its outward face inward
	// relative to one on the positive side; flip winding to compensate.
	flip := allNonPos && !allNonNeg

	ringAt := func(r int, pts []Point) []Vec3 {
		a := (float64(r)*angle/float64(fragments) - 90) * math.Pi / 180
		cos, sin := math.Cos(a), math.Sin(a)
		out := make([]Vec3, len(pts))
		for i, pt := range pts {
			out[i] = Vec3{X: pt.X * cos, Y: pt.X * sin, Z: pt.Y}
		}
		return out
	}
	ringCount := fragments
	if !full {
		ringCount = fragments + 1
	}

	var faces []Face3D
	for _, outline := range poly.Outlines {
		pts := outline.Points
		if len(pts) < 3 {
			continue
		}
		rings := make([][]Vec3, ringCount)
		for r := 0; r < ringCount; r++ {
			rings[r] = ringAt(r, pts)
		}
		m := len(pts)
		for j := 0; j < fragments; j++ {
			j2 := j + 1
			if full {
				j2 = (j + 1) % fragments
			}
			for i := 0; i < m; i++ {
				i2 := (i + 1) % m
				a, b := rings[j][i], rings[j][i2]
				c, d := rings[j2][i2], rings[j2][i]
				if flip {
					faces = append(faces,
						Face3D{Vertices: []Vec3{a, c, b}},
						Face3D{Vertices: []Vec3{a, d, c}})
				} else {
					faces = append(faces,
						Face3D{Vertices: []Vec3{a, b, c}},
						Face3D{Vertices: []Vec3{a, c, d}})
				}
			}
		}
	}

	if !full {
		capAt := func(r int, reverseWinding bool) {
			a := (float64(r)*angle/float64(fragments) - 90) * math.Pi / 180
			cos, sin := math.Cos(a), math.Sin(a)
			for _, t := range triangulateCap(poly, 0) {
				var v [3]Vec3
				for k, pt := range t {
					v[k] = Vec3{X: pt.X * cos, Y: pt.X * sin, Z: pt.Y}
				}
				if reverseWinding {
					v[0], v[2] = v[2], v[0]
				}
				faces = append(faces, Face3D{Vertices: []Vec3{v[0], v[1], v[2]}})
			}
		}
		capAt(0, !flip)
		capAt(fragments, flip)
	}

	return evalOutcome{Geom: NewPolySet3DGeometry(&PolySet3D{Faces: faces})}
}

// evalProjection flattens a 3D child to 2D, either by cutting with the
// z=0 plane (p.Cut) or by orthogonal projection onto it.
func (e *Evaluator) evalProjection(n *Node, p Projection, children []childResult) evalOutcome {
	g, _ := e.unionChildren(n, children)
	if g.IsEmpty() {
		return evalOutcome{Geom: Empty}
	}
	if !g.Is3D() {
		e.warn(n, DimensionMismatch, "projection: expected 3D children")
		return evalOutcome{Geom: Empty}
	}
	nef, ok := e.kernel.NefFromPolySet(g.PolySet3DValue())
	if !ok {
		e.warn(n, NonManifoldInput, "projection: non-manifold mesh")
		return evalOutcome{Geom: Empty}
	}
	poly, ok := e.kernel.Project(nef, p.Cut)
	if !ok {
		e.warn(n, KernelFailure, "projection failed")
		return evalOutcome{Geom: Empty}
	}
	return evalOutcome{Geom: NewPolygon2DGeometry(poly)}
}
