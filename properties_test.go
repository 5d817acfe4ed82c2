package csgcore

import (
	"math"
	"testing"

	"pgregory.net/rapid"
)

func randomCube(t *rapid.T, label string) *Node {
	b := NewBuilder()
	size := rapid.Float64Range(1, 20).Draw(t, label+"_size")
	return cubeNode(b, size, true)
}

// TestPropertyFingerprintConsistency covers invariant 1: structurally
// identical subtrees fingerprint identically and evaluate identically.
func TestPropertyFingerprintConsistency(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		size := rapid.Float64Range(1, 20).Draw(t, "size")
		b1 := NewBuilder()
		n1 := cubeNode(b1, size, true)
		b2 := NewBuilder()
		n2 := cubeNode(b2, size, true)

		if Fingerprint(n1) != Fingerprint(n2) {
			t.Fatalf("identical cubes should fingerprint identically")
		}
		g1 := evalTreeNoT(n1)
		g2 := evalTreeNoT(n2)
		if g1.PolySet3DValue().Triangulated().Volume() != g2.PolySet3DValue().Triangulated().Volume() {
			t.Fatalf("identical fingerprints should evaluate to the same volume")
		}
	})
}

// TestPropertyNormalizerIdempotence covers invariant 2.
func TestPropertyNormalizerIdempotence(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 4).Draw(t, "children")
		b := NewBuilder()
		children := make([]*Node, n)
		for i := range children {
			children[i] = cubeNode(b, rapid.Float64Range(1, 5).Draw(t, "size"), true)
		}
		root := b.Node(Root{}, children...)

		once := Normalize(root)
		twice := Normalize(once)
		if Fingerprint(once) != Fingerprint(twice) {
			t.Fatalf("normalize(normalize(T)) should fingerprint-equal normalize(T)")
		}
	})
}

// TestPropertyUnionIdentity covers invariant 3.
func TestPropertyUnionIdentity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		b := NewBuilder()
		cube := cubeNode(b, rapid.Float64Range(1, 20).Draw(t, "size"), true)
		root := b.Node(Root{}, cube)
		g := evalTreeNoT(root)
		if !g.Is3D() {
			t.Fatal("union(G, empty) should still be G")
		}
	})
}

// TestPropertyDifferenceIdentities covers invariant 4.
func TestPropertyDifferenceIdentities(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		size := rapid.Float64Range(1, 20).Draw(t, "size")

		b1 := NewBuilder()
		selfDiff := b1.Node(CsgOp{Op: OpDifference}, cubeNode(b1, size, true), cubeNode(b1, size, true))
		if g := evalTreeNoT(selfDiff); !g.IsEmpty() {
			t.Fatalf("difference(G, G) should be empty")
		}
	})
}

// TestPropertyIntersectionAbsorption covers invariant 5: intersecting
// with a disjoint (hence effectively empty-overlap) operand absorbs to
// empty without the kernel ever running.
func TestPropertyIntersectionAbsorption(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		size := rapid.Float64Range(1, 5).Draw(t, "size")
		offset := rapid.Float64Range(1000, 2000).Draw(t, "offset")

		b := NewBuilder()
		far := b.Node(Transform{Matrix: TranslateAffine(offset, 0, 0)}, cubeNode(b, size, true))
		root := b.Node(CsgOp{Op: OpIntersection}, cubeNode(b, size, true), far)
		if g := evalTreeNoT(root); !g.IsEmpty() {
			t.Fatalf("intersection with a far-disjoint operand should be empty")
		}
	})
}

// TestPropertyTransformComposition covers invariant 6.
func TestPropertyTransformComposition(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tx := rapid.Float64Range(-10, 10).Draw(t, "tx")
		sx := rapid.Float64Range(0.5, 3).Draw(t, "sx")

		b1 := NewBuilder()
		composed := b1.Node(Transform{Matrix: TranslateAffine(tx, 0, 0)},
			b1.Node(Transform{Matrix: ScaleAffine(sx, sx, sx)}, cubeNode(b1, 2, true)))
		g1 := evalTreeNoT(composed)

		b2 := NewBuilder()
		single := TranslateAffine(tx, 0, 0).Multiply(ScaleAffine(sx, sx, sx))
		g2 := evalTreeNoT(b2.Node(Transform{Matrix: single}, cubeNode(b2, 2, true)))

		box1, box2 := g1.PolySet3DValue().BoundingBox(), g2.PolySet3DValue().BoundingBox()
		const eps = 1e-6
		if math.Abs(box1.Min.X-box2.Min.X) > eps || math.Abs(box1.Max.X-box2.Max.X) > eps {
			t.Fatalf("composed transform bbox %+v != single-matrix bbox %+v", box1, box2)
		}
	})
}

// TestPropertyBoundingBoxPruning covers invariant 8 through the full
// Evaluate entry point: an intersection of operands with disjoint
// bounding boxes evaluates to empty geometry.
func TestPropertyBoundingBoxPruning(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		offset := rapid.Float64Range(1000, 5000).Draw(t, "offset")
		b := NewBuilder()
		far := b.Node(Transform{Matrix: TranslateAffine(offset, 0, 0)}, cubeNode(b, 1, true))
		root := b.Node(CsgOp{Op: OpIntersection}, cubeNode(b, 1, true), far)

		tree := NewTree(Normalize(root))
		ev := NewEvaluator(DefaultConfig(), nil)
		g, _ := ev.Evaluate(tree)
		if !g.IsEmpty() {
			t.Fatalf("expected empty result from a bbox-disjoint intersection")
		}
	})
}

func evalTreeNoT(root *Node) Geometry {
	tree := NewTree(Normalize(root))
	ev := NewEvaluator(DefaultConfig(), nil)
	g, _ := ev.Evaluate(tree)
	return g
}
