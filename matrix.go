package csgcore

// Matrix is the 2D affine transformation carried by 2D geometry, in
// row-major form:
//
//	| a  b  c |
//	| d  e  f |
//
// i.e. x' = a*x + b*y + c, y' = d*x + e*y + f. Affine.To2D projects a
// 4x4 transform down to this shape for the 2D side of a Transform node.
type Matrix struct {
	A, B, C float64
	D, E, F float64
}

// TransformPoint applies the transformation to a point.
func (m Matrix) TransformPoint(p Point) Point {
	return Point{
		X: m.A*p.X + m.B*p.Y + m.C,
		Y: m.D*p.X + m.E*p.Y + m.F,
	}
}
