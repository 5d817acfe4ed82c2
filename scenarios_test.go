package csgcore

import (
	"math"
	"testing"
	"time"
)

// TestScenarioS1CubeMinusSphere mirrors the cube-minus-sphere seed scenario.
func TestScenarioS1CubeMinusSphere(t *testing.T) {
	b := NewBuilder()
	cube := cubeNode(b, 10, true)
	sphere := b.Node(Primitive3D{Kind: Sphere, Params: PrimitiveParams{Radius: 6, Fn: 32}})
	root := b.Node(CsgOp{Op: OpDifference}, cube, sphere)
	g := evalTree(t, root)

	if !g.Is3D() {
		t.Fatal("expected a non-empty 3D mesh")
	}
	mesh := g.PolySet3DValue().Triangulated()
	box := mesh.BoundingBox()
	const tol = 0.05
	if math.Abs(box.Min.X+5) > tol || math.Abs(box.Max.X-5) > tol ||
		math.Abs(box.Min.Y+5) > tol || math.Abs(box.Max.Y-5) > tol ||
		math.Abs(box.Min.Z+5) > tol || math.Abs(box.Max.Z-5) > tol {
		t.Errorf("bbox = %+v, want roughly [-5,-5,-5]..[5,5,5]", box)
	}
	vol := mesh.Volume()
	if vol <= 0 || vol >= 1000 {
		t.Errorf("volume = %v, want strictly between 0 and 1000", vol)
	}
}

// TestScenarioS2LinearExtrudeTwist mirrors the twisted linear_extrude scenario.
func TestScenarioS2LinearExtrudeTwist(t *testing.T) {
	b := NewBuilder()
	root := b.Node(LinearExtrude{Height: 10, Twist: 90, Scale: [2]float64{1, 1}, Slices: 10}, squareNode(b, 2, true))
	g := evalTree(t, root)
	if !g.Is3D() {
		t.Fatal("expected a 3D mesh")
	}
	box := g.PolySet3DValue().BoundingBox()
	diag := math.Sqrt2
	const tol = 0.02
	if math.Abs(box.Max.X-diag) > tol || math.Abs(box.Max.Y-diag) > tol {
		t.Errorf("bbox = %+v, want XY extent to grow to ~%v (twist sweeps the square's diagonal)", box, diag)
	}
	if box.Min.Z != 0 || box.Max.Z != 10 {
		t.Errorf("bbox Z = [%v, %v], want [0, 10]", box.Min.Z, box.Max.Z)
	}
}

// TestScenarioS3RotateExtrudeTorus mirrors the rotate_extrude torus scenario.
func TestScenarioS3RotateExtrudeTorus(t *testing.T) {
	b := NewBuilder()
	profile := b.Node(Transform{Matrix: TranslateAffine(3, 0, 0)}, squareNode(b, 1, false))
	root := b.Node(RotateExtrude{Angle: 360, Fragments: 48}, profile)
	g := evalTree(t, root)
	if !g.Is3D() {
		t.Fatal("expected a 3D mesh")
	}
	box := g.PolySet3DValue().BoundingBox()
	const tol = 0.03
	if math.Abs(box.Max.X-4) > tol || math.Abs(box.Min.X+4) > tol ||
		math.Abs(box.Max.Y-4) > tol || math.Abs(box.Min.Y+4) > tol {
		t.Errorf("torus bbox XY = %+v, want ~[-4,-4]..[4,4] (outer radius 4)", box)
	}
	if box.Min.Z != 0 || math.Abs(box.Max.Z-1) > 1e-9 {
		t.Errorf("torus bbox Z = [%v, %v], want [0, 1]", box.Min.Z, box.Max.Z)
	}
}

// TestScenarioS4DifferenceOfSelfIsEmptyWithoutPanic mirrors the
// difference-of-self seed scenario: subtracting a volume from itself
// must degrade to empty without panicking or leaking warnings forever.
func TestScenarioS4DifferenceOfSelfIsEmptyWithoutPanic(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("evaluating difference(cube(10), cube(10)) panicked: %v", r)
		}
	}()
	b := NewBuilder()
	root := b.Node(CsgOp{Op: OpDifference}, cubeNode(b, 10, false), cubeNode(b, 10, false))
	g := evalTree(t, root)
	if !g.IsEmpty() {
		t.Errorf("expected empty geometry, got shape %v", g.Shape())
	}
}

// TestScenarioS5DeepNestedUnionFlattensAndStaysFast mirrors the
// depth-100 nested-union scenario: normalization must collapse the
// chain to a single node, and evaluation time must stay close to that
// of a single cube.
func TestScenarioS5DeepNestedUnionFlattensAndStaysFast(t *testing.T) {
	b := NewBuilder()
	n := cubeNode(b, 1, true)
	for i := 0; i < 100; i++ {
		n = b.Node(CsgOp{Op: OpUnion}, n)
	}
	normalized := Normalize(n)

	depth := 0
	for cur := normalized; len(cur.Children) > 0; cur = cur.Children[0] {
		depth++
		if len(cur.Children) != 1 {
			t.Fatalf("expected a single-child chain while measuring depth, got %d children", len(cur.Children))
		}
	}
	if depth > 1 {
		t.Errorf("normalized depth = %d, want <= 1 after flattening 100 nested unions", depth)
	}

	baseline := cubeNode(NewBuilder(), 1, true)
	baseTree := NewTree(Normalize(baseline))
	start := time.Now()
	NewEvaluator(DefaultConfig(), nil).Evaluate(baseTree)
	baseDur := time.Since(start)

	deepTree := NewTree(normalized)
	start = time.Now()
	g, _ := NewEvaluator(DefaultConfig(), nil).Evaluate(deepTree)
	deepDur := time.Since(start)

	if !g.Is3D() {
		t.Fatal("expected the flattened chain to still evaluate to a cube")
	}
	if baseDur > 0 && deepDur > 20*baseDur+time.Millisecond {
		t.Errorf("deep-chain evaluation took %v, baseline took %v, want within 20x plus 1ms (generous margin for timing noise)", deepDur, baseDur)
	}
}

// TestScenarioS6ProjectionOfSphere mirrors the cut-projection scenario.
func TestScenarioS6ProjectionOfSphere(t *testing.T) {
	b := NewBuilder()
	sphere := b.Node(Primitive3D{Kind: Sphere, Params: PrimitiveParams{Radius: 5, Fn: 64}})
	root := b.Node(Projection{Cut: true}, sphere)
	g := evalTree(t, root)
	if !g.Is2D() {
		t.Fatal("expected a 2D polygon")
	}
	outlines := g.Polygon2DValue().Outlines
	if len(outlines) != 1 {
		t.Fatalf("expected exactly one outline, got %d", len(outlines))
	}
	area := math.Abs(signedArea(outlines[0].Points))
	want := math.Pi * 25
	if math.Abs(area-want)/want > 0.05 {
		t.Errorf("area = %v, want ~%v (5%% tolerance)", area, want)
	}
}
