package csgcore

import (
	"math"
	"sort"
)

// convexHull2 computes the convex hull of a set of 2D points using the
// Andrew monotone-chain algorithm, returning the hull vertices in
// counter-clockwise order. Collinear points on an edge are dropped.
func convexHull2(points []Point) []Point {
	pts := append([]Point{}, points...)
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].X != pts[j].X {
			return pts[i].X < pts[j].X
		}
		return pts[i].Y < pts[j].Y
	})
	pts = dedupPoints(pts)
	n := len(pts)
	if n < 3 {
		return pts
	}

	cross := func(o, a, b Point) float64 {
		return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
	}

	lower := make([]Point, 0, n)
	for _, p := range pts {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}

	upper := make([]Point, 0, n)
	for i := n - 1; i >= 0; i-- {
		p := pts[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}

	return append(lower[:len(lower)-1], upper[:len(upper)-1]...)
}

func dedupPoints(sorted []Point) []Point {
	out := sorted[:0:0]
	for i, p := range sorted {
		if i == 0 || p != sorted[i-1] {
			out = append(out, p)
		}
	}
	return out
}

// quickHull3 computes the convex hull of a set of 3D points and returns
// it as a triangulated PolySet3D. Degenerate inputs (fewer than 4
// non-coplanar points) fail with ok=false.
func quickHull3(points []Vec3) (*PolySet3D, bool) {
	pts := dedupVec3(points)
	if len(pts) < 4 {
		return nil, false
	}

	// Seed tetrahedron: the two points with extreme X, the point farthest
	// from that line, and the point farthest from the plane they define.
	minX, maxX := 0, 0
	for i, p := range pts {
		if p.X < pts[minX].X {
			minX = i
		}
		if p.X > pts[maxX].X {
			maxX = i
		}
	}
	if minX == maxX {
		return nil, false
	}
	a, b := pts[minX], pts[maxX]

	farthestFromLine := -1
	bestDist := -1.0
	for i, p := range pts {
		d := p.Sub(a).Cross(b.Sub(a)).Length()
		if d > bestDist {
			bestDist = d
			farthestFromLine = i
		}
	}
	if bestDist < bspEpsilon {
		return nil, false
	}
	c := pts[farthestFromLine]

	plane, ok := planeFromPoints(a, b, c)
	if !ok {
		return nil, false
	}
	farthestFromPlane := -1
	bestD := -1.0
	for i, p := range pts {
		d := plane.distance(p)
		if abs := math.Abs(d); abs > bestD {
			bestD = abs
			farthestFromPlane = i
		}
	}
	if bestD < bspEpsilon {
		return nil, false
	}
	d := pts[farthestFromPlane]

	faces := []hullFace{
		newHullFace(a, b, c),
		newHullFace(a, c, d),
		newHullFace(a, d, b),
		newHullFace(b, d, c),
	}
	faces = orientOutward(faces, centroid4(a, b, c, d))

	remaining := pts
	for round := 0; round < len(pts)+4; round++ {
		faceIdx, pointIdx := -1, -1
		bestDist := bspEpsilon
		for fi, f := range faces {
			for pi, p := range remaining {
				dist := f.plane.distance(p)
				if dist > bestDist {
					bestDist = dist
					faceIdx, pointIdx = fi, pi
				}
			}
		}
		if faceIdx < 0 {
			break
		}
		apex := remaining[pointIdx]

		var visible []int
		for fi, f := range faces {
			if f.plane.distance(apex) > bspEpsilon {
				visible = append(visible, fi)
			}
		}

		horizon := findHorizon(faces, visible)

		keep := make([]hullFace, 0, len(faces))
		visibleSet := make(map[int]bool, len(visible))
		for _, v := range visible {
			visibleSet[v] = true
		}
		for fi, f := range faces {
			if !visibleSet[fi] {
				keep = append(keep, f)
			}
		}
		for _, e := range horizon {
			keep = append(keep, newHullFace(e[0], e[1], apex))
		}
		faces = keep
	}

	out := &PolySet3D{}
	for _, f := range faces {
		out.Faces = append(out.Faces, Face3D{Vertices: []Vec3{f.a, f.b, f.c}})
	}
	return out, true
}

type hullFace struct {
	a, b, c Vec3
	plane   plane3
}

func newHullFace(a, b, c Vec3) hullFace {
	pl, _ := planeFromPoints(a, b, c)
	return hullFace{a: a, b: b, c: c, plane: pl}
}

func centroid4(a, b, c, d Vec3) Vec3 {
	return a.Add(b).Add(c).Add(d).Mul(0.25)
}

// orientOutward flips any face whose normal points toward the interior
// reference point.
func orientOutward(faces []hullFace, interior Vec3) []hullFace {
	out := make([]hullFace, len(faces))
	for i, f := range faces {
		if f.plane.distance(interior) > 0 {
			f.a, f.b = f.b, f.a
			f.plane = f.plane.flipped()
		}
		out[i] = f
	}
	return out
}

// findHorizon returns the boundary edges of the visible-face region, each
// edge oriented so that a new face (edge[0], edge[1], apex) faces
// outward.
func findHorizon(faces []hullFace, visible []int) [][2]Vec3 {
	visibleSet := make(map[int]bool, len(visible))
	for _, v := range visible {
		visibleSet[v] = true
	}

	type edgeKey struct{ a, b Vec3 }
	count := make(map[edgeKey]int)
	orientationOf := make(map[edgeKey][2]Vec3)
	for _, fi := range visible {
		f := faces[fi]
		edges := [][2]Vec3{{f.a, f.b}, {f.b, f.c}, {f.c, f.a}}
		for _, e := range edges {
			k := edgeKey{e[0], e[1]}
			rk := edgeKey{e[1], e[0]}
			if count[rk] > 0 {
				count[rk]--
				continue
			}
			count[k]++
			orientationOf[k] = e
		}
	}

	var horizon [][2]Vec3
	for k, c := range count {
		if c > 0 {
			horizon = append(horizon, orientationOf[k])
		}
	}
	return horizon
}

func dedupVec3(points []Vec3) []Vec3 {
	seen := make(map[Vec3]bool, len(points))
	out := make([]Vec3, 0, len(points))
	for _, p := range points {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}
