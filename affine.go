package csgcore

import "math"

// Affine represents a 3D affine transformation as a 4x4 matrix in
// row-major order. Only the upper 3x4 block is ever non-trivial for
// the transformations this engine builds (the bottom row is always
// [0 0 0 1]), but the full 4x4 is kept for fidelity with the node
// tree's stated data model.
type Affine struct {
	M [4][4]float64
}

// IdentityAffine returns the 4x4 identity transform.
func IdentityAffine() Affine {
	var a Affine
	for i := 0; i < 4; i++ {
		a.M[i][i] = 1
	}
	return a
}

// TranslateAffine creates a translation transform.
func TranslateAffine(x, y, z float64) Affine {
	a := IdentityAffine()
	a.M[0][3] = x
	a.M[1][3] = y
	a.M[2][3] = z
	return a
}

// ScaleAffine creates a diagonal scaling transform.
func ScaleAffine(x, y, z float64) Affine {
	a := IdentityAffine()
	a.M[0][0] = x
	a.M[1][1] = y
	a.M[2][2] = z
	return a
}

// RotateXAffine creates a rotation about the X axis (radians).
func RotateXAffine(angle float64) Affine {
	a := IdentityAffine()
	c, s := math.Cos(angle), math.Sin(angle)
	a.M[1][1], a.M[1][2] = c, -s
	a.M[2][1], a.M[2][2] = s, c
	return a
}

// RotateYAffine creates a rotation about the Y axis (radians).
func RotateYAffine(angle float64) Affine {
	a := IdentityAffine()
	c, s := math.Cos(angle), math.Sin(angle)
	a.M[0][0], a.M[0][2] = c, s
	a.M[2][0], a.M[2][2] = -s, c
	return a
}

// RotateZAffine creates a rotation about the Z axis (radians).
func RotateZAffine(angle float64) Affine {
	a := IdentityAffine()
	c, s := math.Cos(angle), math.Sin(angle)
	a.M[0][0], a.M[0][1] = c, -s
	a.M[1][0], a.M[1][1] = s, c
	return a
}

// Multiply returns a*b (a applied after b).
func (a Affine) Multiply(b Affine) Affine {
	var r Affine
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += a.M[i][k] * b.M[k][j]
			}
			r.M[i][j] = sum
		}
	}
	return r
}

// TransformPoint applies the affine transform to a point (w=1).
func (a Affine) TransformPoint(p Vec3) Vec3 {
	return Vec3{
		X: a.M[0][0]*p.X + a.M[0][1]*p.Y + a.M[0][2]*p.Z + a.M[0][3],
		Y: a.M[1][0]*p.X + a.M[1][1]*p.Y + a.M[1][2]*p.Z + a.M[1][3],
		Z: a.M[2][0]*p.X + a.M[2][1]*p.Y + a.M[2][2]*p.Z + a.M[2][3],
	}
}

// TransformNormal applies the linear (non-translating) part of the
// transform to a direction vector.
func (a Affine) TransformNormal(v Vec3) Vec3 {
	return Vec3{
		X: a.M[0][0]*v.X + a.M[0][1]*v.Y + a.M[0][2]*v.Z,
		Y: a.M[1][0]*v.X + a.M[1][1]*v.Y + a.M[1][2]*v.Z,
		Z: a.M[2][0]*v.X + a.M[2][1]*v.Y + a.M[2][2]*v.Z,
	}
}

// Determinant3 returns the determinant of the upper-left 3x3 block,
// the part relevant to volume scaling and orientation.
func (a Affine) Determinant3() float64 {
	m := a.M
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

// Determinant2 returns the determinant of the upper-left 2x2 block,
// the part relevant when this transform is applied to 2D geometry.
func (a Affine) Determinant2() float64 {
	return a.M[0][0]*a.M[1][1] - a.M[0][1]*a.M[1][0]
}

// To2D extracts the top-left 2x2 block plus x/y translation as a
// 2D Matrix, per the rule that 2D children of a Transform node only
// see the 2D-relevant portion of a 4x4 affine.
func (a Affine) To2D() Matrix {
	return Matrix{
		A: a.M[0][0], B: a.M[0][1], C: a.M[0][3],
		D: a.M[1][0], E: a.M[1][1], F: a.M[1][3],
	}
}

// IsFinite reports whether every entry is finite (no NaN, no Inf).
func (a Affine) IsFinite() bool {
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			v := a.M[i][j]
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}
