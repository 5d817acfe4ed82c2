package csgcore

// unionChildren implements the union-type node rule (§4.5): Group, Root,
// List, a bare CsgOp{union}, Color, and Render all combine their
// non-background children the same way. Background-tagged children
// (the % modifier) contribute nothing to the result.
//
// A single surviving child is returned unchanged (no-op union). Mixed
// 2D/3D children resolve to the 3D result with a DimensionMismatch
// warning, per the "3D dominates when children disagree" rule.
func (e *Evaluator) unionChildren(n *Node, children []childResult) (Geometry, *Nef3) {
	kept := nonBackground(children)
	if len(kept) == 0 {
		return Empty, nil
	}
	if len(kept) == 1 {
		return kept[0].geom, nil
	}

	var twoD, threeD []childResult
	for _, c := range kept {
		switch {
		case c.geom.Is3D():
			threeD = append(threeD, c)
		case c.geom.Is2D():
			twoD = append(twoD, c)
		}
	}

	switch {
	case len(threeD) > 0 && len(twoD) > 0:
		e.warn(n, DimensionMismatch, "union: mixed 2D/3D children, keeping the 3D result")
		return e.union3D(n, threeD)
	case len(threeD) > 0:
		return e.union3D(n, threeD)
	case len(twoD) > 0:
		return e.union2D(n, twoD), nil
	default:
		return Empty, nil
	}
}

func (e *Evaluator) union2D(n *Node, kept []childResult) Geometry {
	polys := make([]*Polygon2D, len(kept))
	for i, c := range kept {
		polys[i] = c.geom.Polygon2DValue()
	}
	result, ok := e.kernel.Union2(polys)
	if !ok {
		e.warn(n, KernelFailure, "2D union failed")
		return Empty
	}
	return NewPolygon2DGeometry(result)
}

func (e *Evaluator) union3D(n *Node, kept []childResult) (Geometry, *Nef3) {
	nefs := make([]Nef3, 0, len(kept))
	for _, c := range kept {
		nef, ok := e.kernel.NefFromPolySet(c.geom.PolySet3DValue())
		if !ok {
			e.warn(n, NonManifoldInput, "non-manifold mesh excluded from union")
			continue
		}
		nefs = append(nefs, nef)
	}
	if len(nefs) == 0 {
		return Empty, nil
	}
	result, ok := e.kernel.UnionMany(nefs)
	if !ok {
		e.warn(n, KernelFailure, "3D union failed")
		return Empty, nil
	}
	ps, ok := e.kernel.PolySetFromNef(result)
	if !ok {
		e.warn(n, KernelFailure, "3D union result conversion failed")
		return Empty, nil
	}
	return NewPolySet3DGeometry(ps), &result
}

// evalColor tags the union of non-background children with the given
// color wherever no more specific color already applies (innermost
// color wins, §4.5). Color never contributes a Nef3 to cache installation:
// caching the pre-tag union under this node's fingerprint would lose the
// tag on a kernel-cache hit.
func (e *Evaluator) evalColor(n *Node, c Color, children []childResult) evalOutcome {
	g, _ := e.unionChildren(n, children)
	return evalOutcome{Geom: tagColor(g, c.RGBA)}
}

func tagColor(g Geometry, rgba RGBA) Geometry {
	switch {
	case g.Is2D():
		p := g.Polygon2DValue().Clone()
		for i := range p.Outlines {
			if p.Outlines[i].Color == nil {
				c := rgba
				p.Outlines[i].Color = &c
			}
		}
		return NewPolygon2DGeometry(p)
	case g.Is3D():
		m := g.PolySet3DValue().Clone()
		for i := range m.Faces {
			if m.Faces[i].Color == nil {
				c := rgba
				m.Faces[i].Color = &c
			}
		}
		return NewPolySet3DGeometry(m)
	default:
		return g
	}
}

// evalCsgOp handles CsgOp nodes: bare union defers to unionChildren;
// intersection and difference fold their kept children pairwise,
// left-to-right, applying the empty-operand identities and a bounding-
// box disjointness fast path before ever calling the kernel.
func (e *Evaluator) evalCsgOp(n *Node, op CsgOp, children []childResult) evalOutcome {
	kept := nonBackground(children)
	if len(kept) == 0 {
		return evalOutcome{Geom: Empty}
	}
	if op.Op == OpUnion {
		g, nef := e.unionChildren(n, children)
		return evalOutcome{Geom: g, Nef: nef}
	}

	acc := kept[0].geom
	var nef *Nef3
	for i := 1; i < len(kept); i++ {
		acc, nef = e.combinePairwise(n, op.Op, acc, kept[i].geom)
	}
	return evalOutcome{Geom: acc, Nef: nef}
}

// combinePairwise combines a and b under op, applying the identities
// that let most pairings skip the kernel entirely: an empty operand on
// either side of an intersection empties the result; an empty subtrahend
// leaves a difference's minuend untouched.
func (e *Evaluator) combinePairwise(n *Node, op BooleanOp, a, b Geometry) (Geometry, *Nef3) {
	switch op {
	case OpIntersection:
		if a.IsEmpty() || b.IsEmpty() {
			return Empty, nil
		}
	case OpDifference:
		if a.IsEmpty() {
			return Empty, nil
		}
		if b.IsEmpty() {
			return a, nil
		}
	}

	if a.Is2D() && b.Is2D() {
		return e.combine2D(n, op, a.Polygon2DValue(), b.Polygon2DValue()), nil
	}
	if a.Is3D() && b.Is3D() {
		return e.combine3D(n, op, a.PolySet3DValue(), b.PolySet3DValue())
	}

	e.warn(n, DimensionMismatch, "%s: mixed 2D/3D operands, keeping the 3D side", op)
	switch {
	case a.Is3D():
		return a, nil
	case b.Is3D() && op == OpIntersection:
		return b, nil
	default:
		return Empty, nil
	}
}

func (e *Evaluator) combine2D(n *Node, op BooleanOp, a, b *Polygon2D) Geometry {
	if op == OpIntersection && !boxesOverlap(a.BoundingBox(), b.BoundingBox()) {
		return Empty
	}
	var result *Polygon2D
	var ok bool
	switch op {
	case OpIntersection:
		result, ok = e.kernel.Intersect2(a, b)
	case OpDifference:
		result, ok = e.kernel.Difference2(a, b)
	}
	if !ok {
		e.warn(n, KernelFailure, "2D %s failed", op)
		return Empty
	}
	return NewPolygon2DGeometry(result)
}

func (e *Evaluator) combine3D(n *Node, op BooleanOp, a, b *PolySet3D) (Geometry, *Nef3) {
	if op == OpIntersection && !a.BoundingBox().Intersects(b.BoundingBox()) {
		return Empty, nil
	}
	nefA, okA := e.kernel.NefFromPolySet(a)
	nefB, okB := e.kernel.NefFromPolySet(b)
	if !okA || !okB {
		e.warn(n, NonManifoldInput, "non-manifold input to %s", op)
		return Empty, nil
	}
	var result Nef3
	var ok bool
	switch op {
	case OpIntersection:
		result, ok = e.kernel.Intersect(nefA, nefB)
	case OpDifference:
		result, ok = e.kernel.Difference(nefA, nefB)
	}
	if !ok {
		e.warn(n, KernelFailure, "3D %s failed", op)
		return Empty, nil
	}
	ps, ok2 := e.kernel.PolySetFromNef(result)
	if !ok2 {
		e.warn(n, KernelFailure, "3D %s result conversion failed", op)
		return Empty, nil
	}
	return NewPolySet3DGeometry(ps), &result
}
