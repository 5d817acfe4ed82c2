package csgcore

import "math"

// Reference 2D boolean kernel: a Greiner-Hormann polygon clipper over
// simple (non-self-intersecting) closed outlines. Polygon2D sets with
// holes are handled by first resolving each operand's own outer/hole
// outlines against each other, then combining operands pairwise; nested
// multi-level hole structures are the known limit of this reference
// kernel (see DESIGN.md).

type clipOp uint8

const (
	opUnion2 clipOp = iota
	opIntersect2
	opDifference2
)

// Union2 implements the 2D union across any number of polygon sets.
func (k referenceKernel) Union2(polys []*Polygon2D) (*Polygon2D, bool) {
	acc := &Polygon2D{}
	for _, p := range polys {
		if p == nil || len(p.Outlines) == 0 {
			continue
		}
		flat := flattenPolygon(p)
		if len(acc.Outlines) == 0 {
			acc = flat
			continue
		}
		acc = combinePolygons(acc, flat, opUnion2)
	}
	acc.Sanitized = true
	return acc, true
}

func (k referenceKernel) Intersect2(a, b *Polygon2D) (*Polygon2D, bool) {
	if a == nil || len(a.Outlines) == 0 || b == nil || len(b.Outlines) == 0 {
		return &Polygon2D{}, true
	}
	result := combinePolygons(flattenPolygon(a), flattenPolygon(b), opIntersect2)
	result.Sanitized = true
	return result, true
}

func (k referenceKernel) Difference2(a, b *Polygon2D) (*Polygon2D, bool) {
	if a == nil || len(a.Outlines) == 0 {
		return &Polygon2D{}, true
	}
	if b == nil || len(b.Outlines) == 0 {
		return a.Clone(), true
	}
	result := combinePolygons(flattenPolygon(a), flattenPolygon(b), opDifference2)
	result.Sanitized = true
	return result, true
}

// flattenPolygon resolves a single operand's own outer/hole outlines
// against each other (holes subtracted from outers) so downstream
// combination only ever has to reason about disjoint-or-overlapping
// outer boundaries.
func flattenPolygon(p *Polygon2D) *Polygon2D {
	var outers, holes []Outline2D
	for _, o := range p.Outlines {
		if signedArea(o.Points) >= 0 {
			outers = append(outers, o)
		} else {
			holes = append(holes, o)
		}
	}
	result := &Polygon2D{Outlines: outers}
	for _, h := range holes {
		result = combineOutlineIntoPolygon(result, h.Points, opDifference2)
	}
	return result
}

func combineOutlineIntoPolygon(p *Polygon2D, clipOutline []Point, op clipOp) *Polygon2D {
	wrapped := &Polygon2D{Outlines: []Outline2D{{Points: clipOutline}}}
	return combinePolygons(p, wrapped, op)
}

// combinePolygons applies op between every outer outline of a and every
// outer outline of b, using bounding-box disjointness as a fast path,
// and falls back to the per-outline Greiner-Hormann clip otherwise.
func combinePolygons(a, b *Polygon2D, op clipOp) *Polygon2D {
	if len(a.Outlines) == 0 {
		if op == opUnion2 {
			return b.Clone()
		}
		return &Polygon2D{}
	}
	if len(b.Outlines) == 0 {
		if op == opIntersect2 {
			return &Polygon2D{}
		}
		return a.Clone()
	}

	var result []Outline2D
	for _, oa := range a.Outlines {
		boxA := outlineBox(oa.Points)
		merged := false
		for _, ob := range b.Outlines {
			boxB := outlineBox(ob.Points)
			if !boxesOverlap(boxA, boxB) {
				continue
			}
			if loops, ok := clipSimple(oa.Points, ob.Points, op); ok {
				result = append(result, pointsToOutlines(loops)...)
				merged = true
				break
			}
			// No edge crossings but the boxes overlap: the smaller
			// outline is either fully contained in the larger one or the
			// overlap is a false positive from the bounding boxes alone.
			if pointInPolygon(oa.Points[0], ob.Points) {
				switch op {
				case opUnion2:
					result = append(result, ob)
				case opIntersect2:
					result = append(result, oa)
				}
				merged = true
				break
			}
			if pointInPolygon(ob.Points[0], oa.Points) {
				switch op {
				case opUnion2:
					result = append(result, oa)
				case opIntersect2:
					result = append(result, ob)
				case opDifference2:
					hole := append([]Point{}, ob.Points...)
					reversePoints(hole)
					result = append(result, oa, Outline2D{Points: hole})
				}
				merged = true
				break
			}
		}
		if !merged {
			switch op {
			case opUnion2, opDifference2:
				result = append(result, oa)
			}
		}
	}

	if op == opUnion2 {
		for _, ob := range b.Outlines {
			boxB := outlineBox(ob.Points)
			overlapsAny := false
			for _, oa := range a.Outlines {
				if boxesOverlap(outlineBox(oa.Points), boxB) {
					overlapsAny = true
					break
				}
			}
			if !overlapsAny {
				result = append(result, ob)
			}
		}
	}

	return &Polygon2D{Outlines: result}
}

func outlineBox(points []Point) Rect {
	var box Rect
	for i, p := range points {
		if i == 0 {
			box = Rect{Min: p, Max: p}
			continue
		}
		box.Min.X = math.Min(box.Min.X, p.X)
		box.Min.Y = math.Min(box.Min.Y, p.Y)
		box.Max.X = math.Max(box.Max.X, p.X)
		box.Max.Y = math.Max(box.Max.Y, p.Y)
	}
	return box
}

func boxesOverlap(a, b Rect) bool {
	return a.Min.X <= b.Max.X && a.Max.X >= b.Min.X && a.Min.Y <= b.Max.Y && a.Max.Y >= b.Min.Y
}

func pointsToOutlines(loops [][]Point) []Outline2D {
	out := make([]Outline2D, 0, len(loops))
	for _, l := range loops {
		if len(l) >= 3 {
			out = append(out, Outline2D{Points: l})
		}
	}
	return out
}

func signedArea(points []Point) float64 {
	var a float64
	n := len(points)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		a += points[i].X*points[j].Y - points[j].X*points[i].Y
	}
	return a / 2
}

// ghVertex is one vertex of a Greiner-Hormann working list: either an
// original polygon vertex or an inserted intersection point.
type ghVertex struct {
	pt           Point
	isIntersect  bool
	interID      int
	entry        bool
	neighborList int // which list (0 subject, 1 clip) the neighbor lives in
	neighborIdx  int
	visited      bool
}

// clipSimple applies a Greiner-Hormann clip between two simple (non-self-
// intersecting) closed outlines. ok is false when the algorithm cannot
// proceed (degenerate input); callers fall back to treating the
// outlines as non-overlapping.
func clipSimple(subject, clip []Point, op clipOp) ([][]Point, bool) {
	if len(subject) < 3 || len(clip) < 3 {
		return nil, false
	}

	type interRec struct {
		id    int
		pt    Point
		param float64
	}
	subjectInts := make(map[int][]interRec)
	clipInts := make(map[int][]interRec)
	nextID := 0

	ns, nc := len(subject), len(clip)
	for i := 0; i < ns; i++ {
		p1, p2 := subject[i], subject[(i+1)%ns]
		for j := 0; j < nc; j++ {
			q1, q2 := clip[j], clip[(j+1)%nc]
			t, u, ok := segmentIntersect(p1, p2, q1, q2)
			if !ok {
				continue
			}
			pt := p1.Lerp(p2, t)
			id := nextID
			nextID++
			subjectInts[i] = append(subjectInts[i], interRec{id, pt, t})
			clipInts[j] = append(clipInts[j], interRec{id, pt, u})
		}
	}

	if nextID == 0 {
		return nil, false // no crossings: caller handles as disjoint/contained
	}

	sortByParam := func(recs []interRec) {
		for i := 1; i < len(recs); i++ {
			for j := i; j > 0 && recs[j].param < recs[j-1].param; j-- {
				recs[j], recs[j-1] = recs[j-1], recs[j]
			}
		}
	}

	buildList := func(points []Point, intsByEdge map[int][]interRec) []ghVertex {
		var list []ghVertex
		n := len(points)
		for i := 0; i < n; i++ {
			list = append(list, ghVertex{pt: points[i], interID: -1})
			recs := intsByEdge[i]
			sortByParam(recs)
			for _, r := range recs {
				list = append(list, ghVertex{pt: r.pt, isIntersect: true, interID: r.id})
			}
		}
		return list
	}

	subjectList := buildList(subject, subjectInts)
	clipList := buildList(clip, clipInts)

	idIndex := func(list []ghVertex) map[int]int {
		m := make(map[int]int, len(list))
		for i, v := range list {
			if v.isIntersect {
				m[v.interID] = i
			}
		}
		return m
	}
	subjectIDIdx := idIndex(subjectList)
	clipIDIdx := idIndex(clipList)

	for id, si := range subjectIDIdx {
		ci := clipIDIdx[id]
		subjectList[si].neighborList = 1
		subjectList[si].neighborIdx = ci
		clipList[ci].neighborList = 0
		clipList[ci].neighborIdx = si
	}

	markEntries := func(list []ghVertex, other []Point) {
		inside := pointInPolygon(list[0].pt, other)
		for i := range list {
			if list[i].isIntersect {
				list[i].entry = !inside
				inside = !inside
			}
		}
	}
	markEntries(subjectList, clip)
	markEntries(clipList, subject)

	vertexAt := func(list int, idx int) *ghVertex {
		if list == 0 {
			return &subjectList[idx]
		}
		return &clipList[idx]
	}
	listLen := func(list int) int {
		if list == 0 {
			return len(subjectList)
		}
		return len(clipList)
	}
	step := func(list, idx int, forward bool) int {
		n := listLen(list)
		if forward {
			return (idx + 1) % n
		}
		return (idx - 1 + n) % n
	}

	forwardFor := func(list int, v *ghVertex) bool {
		switch op {
		case opUnion2:
			return !v.entry
		case opIntersect2:
			return v.entry
		case opDifference2:
			if list == 0 {
				return v.entry
			}
			return !v.entry
		}
		return true
	}

	var loops [][]Point
	visited := make(map[int]bool, nextID)

	for startID := 0; startID < nextID; startID++ {
		if visited[startID] {
			continue
		}
		list, idx := 0, subjectIDIdx[startID]
		var loop []Point
		for {
			v := vertexAt(list, idx)
			if v.isIntersect {
				if visited[v.interID] {
					break
				}
				visited[v.interID] = true
			}
			loop = append(loop, v.pt)

			forward := forwardFor(list, v)
			next := step(list, idx, forward)
			for !vertexAt(list, next).isIntersect {
				loop = append(loop, vertexAt(list, next).pt)
				next = step(list, next, forward)
			}
			cross := vertexAt(list, next)
			nl, ni := cross.neighborList, cross.neighborIdx
			list, idx = nl, ni
			if idx == subjectIDIdx[startID] && list == 0 {
				break
			}
		}
		if len(loop) >= 3 {
			loops = append(loops, loop)
		}
	}

	return loops, true
}

// segmentIntersect returns the parametric intersection point of segments
// p1-p2 and q1-q2 when it exists strictly within both segments.
func segmentIntersect(p1, p2, q1, q2 Point) (t, u float64, ok bool) {
	r := p2.Sub(p1)
	s := q2.Sub(q1)
	denom := r.Cross(s)
	if math.Abs(denom) < 1e-12 {
		return 0, 0, false
	}
	diff := q1.Sub(p1)
	t = diff.Cross(s) / denom
	u = diff.Cross(r) / denom
	const eps = 1e-9
	if t <= eps || t >= 1-eps || u <= eps || u >= 1-eps {
		return 0, 0, false
	}
	return t, u, true
}

// pointInPolygon uses the even-odd ray casting rule.
func pointInPolygon(pt Point, poly []Point) bool {
	inside := false
	n := len(poly)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		pi, pj := poly[i], poly[j]
		if (pi.Y > pt.Y) != (pj.Y > pt.Y) {
			xIntersect := (pj.X-pi.X)*(pt.Y-pi.Y)/(pj.Y-pi.Y) + pi.X
			if pt.X < xIntersect {
				inside = !inside
			}
		}
	}
	return inside
}
