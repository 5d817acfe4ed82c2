package csgcore

// evalAdvOp dispatches an AdvCsgOp node (minkowski, hull, resize) to its
// handler. All three exclude background-tagged children like every
// other multi-child operator.
func (e *Evaluator) evalAdvOp(n *Node, op AdvCsgOp, children []childResult) evalOutcome {
	switch op.Op {
	case OpMinkowski:
		return e.evalMinkowski(n, children)
	case OpHull:
		return e.evalHull(n, children)
	case OpResize:
		return e.evalResize(n, op, children)
	default:
		return evalOutcome{Geom: Empty}
	}
}

// evalMinkowski folds the children's 3D meshes through the kernel's
// pairwise Minkowski sum. The reference kernel only supports 3D
// operands (§6's minkowski is defined over Nef polyhedra); 2D operands
// degrade to Empty with a DimensionMismatch warning.
func (e *Evaluator) evalMinkowski(n *Node, children []childResult) evalOutcome {
	kept := nonBackground(children)
	if len(kept) == 0 {
		return evalOutcome{Geom: Empty}
	}
	for _, c := range kept {
		if !c.geom.Is3D() {
			e.warn(n, DimensionMismatch, "minkowski: expected 3D operands")
			return evalOutcome{Geom: Empty}
		}
	}

	acc, ok := e.kernel.NefFromPolySet(kept[0].geom.PolySet3DValue())
	if !ok {
		e.warn(n, NonManifoldInput, "minkowski: non-manifold operand")
		return evalOutcome{Geom: Empty}
	}
	for i := 1; i < len(kept); i++ {
		nb, ok := e.kernel.NefFromPolySet(kept[i].geom.PolySet3DValue())
		if !ok {
			e.warn(n, NonManifoldInput, "minkowski: non-manifold operand")
			return evalOutcome{Geom: Empty}
		}
		result, ok := e.kernel.Minkowski(acc, nb)
		if !ok {
			e.warn(n, KernelFailure, "minkowski: kernel failed on a non-convex operand")
			return evalOutcome{Geom: Empty}
		}
		acc = result
	}
	ps, ok := e.kernel.PolySetFromNef(acc)
	if !ok {
		e.warn(n, KernelFailure, "minkowski: result conversion failed")
		return evalOutcome{Geom: Empty}
	}
	return evalOutcome{Geom: NewPolySet3DGeometry(ps), Nef: &acc}
}

// evalHull computes the convex hull of the children, all-2D or all-3D;
// mixing dimensions degrades to Empty with a DimensionMismatch warning.
func (e *Evaluator) evalHull(n *Node, children []childResult) evalOutcome {
	kept := nonBackground(children)
	if len(kept) == 0 {
		return evalOutcome{Geom: Empty}
	}
	has2D, has3D := false, false
	for _, c := range kept {
		has2D = has2D || c.geom.Is2D()
		has3D = has3D || c.geom.Is3D()
	}
	if has2D && has3D {
		e.warn(n, DimensionMismatch, "hull: mixed 2D/3D children")
		return evalOutcome{Geom: Empty}
	}

	if has3D {
		meshes := make([]*PolySet3D, 0, len(kept))
		for _, c := range kept {
			meshes = append(meshes, c.geom.PolySet3DValue())
		}
		ps, ok := e.kernel.Hull3(meshes)
		if !ok {
			e.warn(n, KernelFailure, "hull: degenerate input")
			return evalOutcome{Geom: Empty}
		}
		return evalOutcome{Geom: NewPolySet3DGeometry(ps)}
	}

	var pts []Point
	for _, c := range kept {
		for _, o := range c.geom.Polygon2DValue().Outlines {
			pts = append(pts, o.Points...)
		}
	}
	outline, ok := e.kernel.Hull2(pts)
	if !ok || len(outline) < 3 {
		return evalOutcome{Geom: Empty}
	}
	return evalOutcome{Geom: NewPolygon2DGeometry(&Polygon2D{
		Outlines:  []Outline2D{{Points: outline}},
		Sanitized: true,
		Convex:    true,
	})}
}

// evalResize rescales the union of the node's children so its bounding
// box matches op.NewSize along each axis with a non-zero target; axes
// left at zero either keep their original extent, or (when flagged in
// op.AutoSize) adopt the largest scale factor used on another axis, to
// preserve aspect ratio uniformly.
func (e *Evaluator) evalResize(n *Node, op AdvCsgOp, children []childResult) evalOutcome {
	g, _ := e.unionChildren(n, children)
	if g.IsEmpty() {
		return evalOutcome{Geom: Empty}
	}

	if g.Is3D() {
		box := g.PolySet3DValue().BoundingBox()
		sx := resizeScale(box.Max.X-box.Min.X, op.NewSize.X)
		sy := resizeScale(box.Max.Y-box.Min.Y, op.NewSize.Y)
		sz := resizeScale(box.Max.Z-box.Min.Z, op.NewSize.Z)
		sx, sy, sz = fillAutoSize(op.NewSize, op.AutoSize, sx, sy, sz)
		return evalOutcome{Geom: NewPolySet3DGeometry(g.PolySet3DValue().Transformed(ScaleAffine(sx, sy, sz)))}
	}

	box := g.Polygon2DValue().BoundingBox()
	sx := resizeScale(box.Max.X-box.Min.X, op.NewSize.X)
	sy := resizeScale(box.Max.Y-box.Min.Y, op.NewSize.Y)
	sx, sy, _ = fillAutoSize(op.NewSize, op.AutoSize, sx, sy, 1)
	return evalOutcome{Geom: NewPolygon2DGeometry(g.Polygon2DValue().Transformed(ScaleAffine(sx, sy, 1).To2D()))}
}

// resizeScale returns the factor needed to rescale an axis of the given
// extent to newSize; newSize == 0 requests "leave this axis alone",
// reported as a scale of 1 unless fillAutoSize overrides it.
func resizeScale(extent, newSize float64) float64 {
	if newSize == 0 || extent == 0 {
		return 1
	}
	return newSize / extent
}

// fillAutoSize applies the autosize rule: an axis with NewSize == 0 and
// its AutoSize flag set adopts the largest scale factor computed for any
// axis that did have an explicit target.
func fillAutoSize(newSize Vec3, autoSize [3]bool, sx, sy, sz float64) (float64, float64, float64) {
	largest := 1.0
	found := false
	axes := [3]float64{newSize.X, newSize.Y, newSize.Z}
	scales := [3]float64{sx, sy, sz}
	for i, ns := range axes {
		if ns != 0 && (!found || scales[i] > largest) {
			largest = scales[i]
			found = true
		}
	}
	if newSize.X == 0 && autoSize[0] {
		sx = largest
	}
	if newSize.Y == 0 && autoSize[1] {
		sy = largest
	}
	if newSize.Z == 0 && autoSize[2] {
		sz = largest
	}
	return sx, sy, sz
}
