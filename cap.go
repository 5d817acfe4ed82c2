package csgcore

// Cap triangulation for linear_extrude and rotate_extrude end faces: a
// simple polygon triangulator (ear clipping) with a hole-bridging step,
// since Face3D only carries a single vertex loop and the kernel's
// Greiner-Hormann clipper (kernel_poly2d.go) works on outlines, not
// triangle meshes. The teacher's own tessellator (internal fan
// triangulation for stencil-buffer fill) is correct only under a
// winding-number stencil and cannot be reused directly for solid caps
// with holes; ear clipping is the textbook adaptation for producing an
// actual triangle mesh.

// triangulateCap triangulates every outer/hole group of poly into 2D
// triangles in the z=0 plane. The z argument is not used: callers embed
// the returned triangles at their own height.
func triangulateCap(poly *Polygon2D, z float64) [][3]Point {
	if poly == nil {
		return nil
	}
	var outers, holes []Outline2D
	for _, o := range poly.Outlines {
		if signedArea(o.Points) >= 0 {
			outers = append(outers, o)
		} else {
			holes = append(holes, o)
		}
	}

	var tris [][3]Point
	for _, outer := range outers {
		ring := append([]Point{}, outer.Points...)
		for _, h := range holes {
			if len(h.Points) == 0 {
				continue
			}
			if pointInPolygon(h.Points[0], outer.Points) {
				ring = bridgeHole(ring, h.Points)
			}
		}
		tris = append(tris, earClip(ring)...)
	}
	_ = z
	return tris
}

// bridgeHole splices hole into ring via the nearest-vertex pair,
// producing a single simple polygon with a zero-width channel.
func bridgeHole(ring, hole []Point) []Point {
	if len(hole) == 0 {
		return ring
	}
	bestI, bestJ := 0, 0
	bestDist := -1.0
	for i, rp := range ring {
		for j, hp := range hole {
			d := rp.Sub(hp).LengthSquared()
			if bestDist < 0 || d < bestDist {
				bestDist = d
				bestI, bestJ = i, j
			}
		}
	}
	out := make([]Point, 0, len(ring)+len(hole)+2)
	out = append(out, ring[:bestI+1]...)
	for k := 0; k <= len(hole); k++ {
		out = append(out, hole[(bestJ+k)%len(hole)])
	}
	out = append(out, ring[bestI:]...)
	return out
}

// earClip triangulates a simple polygon (no holes) via the classic ear-
// clipping algorithm, assuming/forcing counter-clockwise winding.
func earClip(points []Point) [][3]Point {
	if len(points) < 3 {
		return nil
	}
	pts := append([]Point{}, points...)
	if signedArea(pts) < 0 {
		reversePoints(pts)
	}

	idx := make([]int, len(pts))
	for i := range idx {
		idx[i] = i
	}

	var tris [][3]Point
	guard := 0
	for len(idx) > 3 && guard < 10000 {
		guard++
		n := len(idx)
		earFound := false
		for i := 0; i < n; i++ {
			ia, ib, ic := idx[(i-1+n)%n], idx[i], idx[(i+1)%n]
			a, b, c := pts[ia], pts[ib], pts[ic]
			if !isConvexTurn(a, b, c) {
				continue
			}
			ear := true
			for j := 0; j < n; j++ {
				if j == (i-1+n)%n || j == i || j == (i+1)%n {
					continue
				}
				if pointInTriangle(pts[idx[j]], a, b, c) {
					ear = false
					break
				}
			}
			if !ear {
				continue
			}
			tris = append(tris, [3]Point{a, b, c})
			idx = append(idx[:i], idx[i+1:]...)
			earFound = true
			break
		}
		if !earFound {
			break
		}
	}
	for i := 1; i < len(idx)-1; i++ {
		tris = append(tris, [3]Point{pts[idx[0]], pts[idx[i]], pts[idx[i+1]]})
	}
	return tris
}

func isConvexTurn(a, b, c Point) bool {
	return b.Sub(a).Cross(c.Sub(b)) > 0
}

func pointInTriangle(p, a, b, c Point) bool {
	d1 := p.Sub(a).Cross(b.Sub(a))
	d2 := p.Sub(b).Cross(c.Sub(b))
	d3 := p.Sub(c).Cross(a.Sub(c))
	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}
