package csgcore

import (
	"math"
	"testing"
)

func cubeNode(b *Builder, size float64, center bool) *Node {
	return b.Node(Primitive3D{Kind: Cube, Params: PrimitiveParams{Size: V3(size, size, size), Center: center}})
}

func evalTree(t *testing.T, root *Node) Geometry {
	t.Helper()
	tree := NewTree(Normalize(root))
	ev := NewEvaluator(DefaultConfig(), nil)
	g, result := ev.Evaluate(tree)
	if result == AbortTraversal {
		t.Fatal("evaluation unexpectedly aborted")
	}
	return g
}

func TestEvaluateSingleCubeVolume(t *testing.T) {
	b := NewBuilder()
	g := evalTree(t, cubeNode(b, 10, false))
	if !g.Is3D() {
		t.Fatal("expected a 3D result")
	}
	if got, want := g.PolySet3DValue().Triangulated().Volume(), 1000.0; math.Abs(got-want) > 1e-6 {
		t.Errorf("cube(10) volume = %v, want %v", got, want)
	}
}

func TestUnionWithEmptyIsIdentity(t *testing.T) {
	b := NewBuilder()
	root := b.Node(Root{}, cubeNode(b, 5, false))
	g := evalTree(t, root)
	if !g.Is3D() || math.Abs(g.PolySet3DValue().Triangulated().Volume()-125) > 1e-6 {
		t.Errorf("union(cube, <nothing>) should equal cube(5), got %+v", g)
	}
}

func TestDifferenceOfIdenticalCubesIsEmpty(t *testing.T) {
	b := NewBuilder()
	root := b.Node(CsgOp{Op: OpDifference}, cubeNode(b, 10, false), cubeNode(b, 10, false))
	g := evalTree(t, root)
	if !g.IsEmpty() {
		t.Errorf("difference(cube, identical cube) should be empty, got shape %v", g.Shape())
	}
}

func TestIntersectionWithDisjointBoxesIsEmptyWithoutKernel(t *testing.T) {
	b := NewBuilder()
	far := b.Node(Transform{Matrix: TranslateAffine(1000, 0, 0)}, cubeNode(b, 1, false))
	root := b.Node(CsgOp{Op: OpIntersection}, cubeNode(b, 1, false), far)
	g := evalTree(t, root)
	if !g.IsEmpty() {
		t.Errorf("intersection of disjoint cubes should be empty, got shape %v", g.Shape())
	}
}

func TestTransformCompositionMatchesSingleMatrix(t *testing.T) {
	b1 := NewBuilder()
	inner := b1.Node(Transform{Matrix: ScaleAffine(2, 2, 2)}, cubeNode(b1, 1, false))
	composed := b1.Node(Transform{Matrix: TranslateAffine(5, 0, 0)}, inner)
	g1 := evalTree(t, composed)

	b2 := NewBuilder()
	single := TranslateAffine(5, 0, 0).Multiply(ScaleAffine(2, 2, 2))
	g2 := evalTree(t, b2.Node(Transform{Matrix: single}, cubeNode(b2, 1, false)))

	if !g1.Is3D() || !g2.Is3D() {
		t.Fatal("both results should be 3D")
	}
	box1, box2 := g1.PolySet3DValue().BoundingBox(), g2.PolySet3DValue().BoundingBox()
	if box1.Min != box2.Min || box1.Max != box2.Max {
		t.Errorf("composed transform bbox = %+v, single-matrix bbox = %+v, want equal", box1, box2)
	}
}

func TestDegenerateTransformProducesEmptyAndWarns(t *testing.T) {
	b := NewBuilder()
	root := b.Node(Transform{Matrix: Affine{}}, cubeNode(b, 1, false))
	tree := NewTree(Normalize(root))
	ev := NewEvaluator(DefaultConfig(), nil)
	g, _ := ev.Evaluate(tree)
	if !g.IsEmpty() {
		t.Errorf("singular transform should degrade to empty, got shape %v", g.Shape())
	}
	if len(ev.Warnings()) == 0 {
		t.Error("expected a DegenerateTransform warning")
	}
}

func TestGeometryCacheHitOnRepeatedFingerprint(t *testing.T) {
	b := NewBuilder()
	root := b.Node(Root{}, cubeNode(b, 4, false), cubeNode(b, 4, false))
	tree := NewTree(Normalize(root))
	ev := NewEvaluator(DefaultConfig(), nil)
	if _, result := ev.Evaluate(tree); result == AbortTraversal {
		t.Fatal("evaluation aborted")
	}
	stats := ev.GeometryCacheStats()
	if stats.Hits == 0 {
		t.Errorf("expected at least one geometry-cache hit for the two structurally identical cubes, stats=%+v", stats)
	}
}
