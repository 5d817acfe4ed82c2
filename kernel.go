package csgcore

// BooleanKernel is the narrow contract the evaluator delegates boolean and
// convex-hull work to (§4.7/§6). It operates on the kernel's own
// intermediate representation (Nef) for 3D meshes so that a chain of
// boolean operations need not round-trip through PolySet3D between every
// step; 2D polygon operations work directly on Polygon2D since the
// reference 2D clipper needs no intermediate form.
//
// Implementations may fail (non-manifold input, degenerate geometry); a
// failed operation returns ok == false and the evaluator substitutes an
// empty geometry at that node rather than propagating the failure.
type BooleanKernel interface {
	// NefFromPolySet converts a triangulated mesh to the kernel's
	// representation. Fails (ok=false) for non-manifold input.
	NefFromPolySet(ps *PolySet3D) (nef Nef3, ok bool)

	// PolySetFromNef converts a Nef representation back to a mesh.
	PolySetFromNef(nef Nef3) (ps *PolySet3D, ok bool)

	// UnionMany unions all of the given Nef solids. Order may be chosen
	// internally to minimize intermediate facet count.
	UnionMany(nefs []Nef3) (result Nef3, ok bool)

	// Intersect and Difference are pairwise, in the given order
	// (difference is not commutative: a is positive, b is negative).
	Intersect(a, b Nef3) (result Nef3, ok bool)
	Difference(a, b Nef3) (result Nef3, ok bool)

	// Minkowski computes the Minkowski sum of two Nef solids.
	Minkowski(a, b Nef3) (result Nef3, ok bool)

	// Hull3 computes the convex hull of a set of meshes.
	Hull3(meshes []*PolySet3D) (ps *PolySet3D, ok bool)

	// Hull2 computes the convex hull of a set of 2D outline points.
	Hull2(points []Point) (outline []Point, ok bool)

	// Project intersects a Nef solid with the z=0 plane (cut=true) or
	// orthogonally projects it to z=0 (cut=false), returning 2D outlines.
	Project(nef Nef3, cut bool) (poly *Polygon2D, ok bool)

	// Union2, Intersect2, Difference2 are the 2D polygon-set analogues,
	// operating directly on sanitized Polygon2D values.
	Union2(polys []*Polygon2D) (result *Polygon2D, ok bool)
	Intersect2(a, b *Polygon2D) (result *Polygon2D, ok bool)
	Difference2(a, b *Polygon2D) (result *Polygon2D, ok bool)
}

// Nef3 is an opaque handle to the kernel's internal 3D representation.
// The reference kernel (kernel_mesh3d.go) backs it with a boundary-
// representation BSP tree; a different BooleanKernel implementation may
// use an exact-arithmetic Nef polyhedron or any other representation, as
// long as it round-trips through NefFromPolySet/PolySetFromNef.
type Nef3 struct {
	bsp *bspNode
}

// IsEmpty reports whether the Nef solid represents no volume.
func (n Nef3) IsEmpty() bool {
	return n.bsp == nil
}

// ByteSize reports n's memory footprint, used for kernel-cache budget
// accounting (implements cache.Sized).
func (n Nef3) ByteSize() int64 {
	const vertBytes = 24
	const headerBytes = 8
	var total int64 = headerBytes
	for _, p := range n.bsp.allPolygons() {
		total += headerBytes + int64(len(p.Vertices))*vertBytes
	}
	return total
}
