package csgcore

import "math"

// Vec3 represents a 3D point or displacement vector.
type Vec3 struct {
	X, Y, Z float64
}

// V3 is a convenience function to create a Vec3.
func V3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Add returns the sum of two vectors.
func (v Vec3) Add(w Vec3) Vec3 {
	return Vec3{X: v.X + w.X, Y: v.Y + w.Y, Z: v.Z + w.Z}
}

// Sub returns the difference of two vectors.
func (v Vec3) Sub(w Vec3) Vec3 {
	return Vec3{X: v.X - w.X, Y: v.Y - w.Y, Z: v.Z - w.Z}
}

// Mul returns the vector scaled by a scalar.
func (v Vec3) Mul(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Neg returns the negation of the vector.
func (v Vec3) Neg() Vec3 {
	return Vec3{X: -v.X, Y: -v.Y, Z: -v.Z}
}

// Dot returns the dot product of two vectors.
func (v Vec3) Dot(w Vec3) float64 {
	return v.X*w.X + v.Y*w.Y + v.Z*w.Z
}

// Cross returns the 3D cross product.
func (v Vec3) Cross(w Vec3) Vec3 {
	return Vec3{
		X: v.Y*w.Z - v.Z*w.Y,
		Y: v.Z*w.X - v.X*w.Z,
		Z: v.X*w.Y - v.Y*w.X,
	}
}

// Length returns the length (magnitude) of the vector.
func (v Vec3) Length() float64 {
	return math.Sqrt(v.Dot(v))
}

// Normalize returns a unit vector in the same direction.
// Returns the zero vector if v has zero length.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return v.Mul(1 / l)
}

// Lerp performs linear interpolation between two vectors.
func (v Vec3) Lerp(w Vec3, t float64) Vec3 {
	return Vec3{
		X: v.X + (w.X-v.X)*t,
		Y: v.Y + (w.Y-v.Y)*t,
		Z: v.Z + (w.Z-v.Z)*t,
	}
}

// Min returns the component-wise minimum of two vectors.
func (v Vec3) Min(w Vec3) Vec3 {
	return Vec3{X: math.Min(v.X, w.X), Y: math.Min(v.Y, w.Y), Z: math.Min(v.Z, w.Z)}
}

// Max returns the component-wise maximum of two vectors.
func (v Vec3) Max(w Vec3) Vec3 {
	return Vec3{X: math.Max(v.X, w.X), Y: math.Max(v.Y, w.Y), Z: math.Max(v.Z, w.Z)}
}

// Box3 is an axis-aligned 3D bounding box.
type Box3 struct {
	Min, Max Vec3
}

// EmptyBox3 returns a box that is empty (Min > Max on every axis),
// suitable as the identity element when unioning boxes incrementally.
func EmptyBox3() Box3 {
	inf := math.Inf(1)
	return Box3{Min: Vec3{X: inf, Y: inf, Z: inf}, Max: Vec3{X: -inf, Y: -inf, Z: -inf}}
}

// IsEmpty reports whether the box contains no points.
func (b Box3) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Union returns the smallest box containing both b and o.
func (b Box3) Union(o Box3) Box3 {
	if b.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return b
	}
	return Box3{Min: b.Min.Min(o.Min), Max: b.Max.Max(o.Max)}
}

// Intersects reports whether b and o overlap (touching counts as overlap).
func (b Box3) Intersects(o Box3) bool {
	if b.IsEmpty() || o.IsEmpty() {
		return false
	}
	return b.Min.X <= o.Max.X && b.Max.X >= o.Min.X &&
		b.Min.Y <= o.Max.Y && b.Max.Y >= o.Min.Y &&
		b.Min.Z <= o.Max.Z && b.Max.Z >= o.Min.Z
}

// AddPoint grows the box to include p.
func (b Box3) AddPoint(p Vec3) Box3 {
	if b.IsEmpty() {
		return Box3{Min: p, Max: p}
	}
	return Box3{Min: b.Min.Min(p), Max: b.Max.Max(p)}
}
