package csgcore

// evalTransform unions the node's children, then applies the node's
// matrix to the combined geometry. A non-finite or singular matrix
// degrades the subtree to Empty with a DegenerateTransform warning
// rather than propagating NaNs downstream.
func (e *Evaluator) evalTransform(n *Node, t Transform, children []childResult) evalOutcome {
	g, _ := e.unionChildren(n, children)
	if g.IsEmpty() {
		return evalOutcome{Geom: Empty}
	}
	if !t.Matrix.IsFinite() {
		e.warn(n, DegenerateTransform, "transform matrix has non-finite entries")
		return evalOutcome{Geom: Empty}
	}

	switch {
	case g.Is2D():
		m2 := t.Matrix.To2D()
		if m2.A*m2.E-m2.B*m2.D == 0 {
			e.warn(n, DegenerateTransform, "2D transform has zero determinant")
			return evalOutcome{Geom: Empty}
		}
		return evalOutcome{Geom: NewPolygon2DGeometry(g.Polygon2DValue().Transformed(m2))}
	case g.Is3D():
		if t.Matrix.Determinant3() == 0 {
			e.warn(n, DegenerateTransform, "3D transform has zero determinant")
			return evalOutcome{Geom: Empty}
		}
		return evalOutcome{Geom: NewPolySet3DGeometry(g.PolySet3DValue().Transformed(t.Matrix))}
	default:
		return evalOutcome{Geom: Empty}
	}
}
