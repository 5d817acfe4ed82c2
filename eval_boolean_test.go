package csgcore

import (
	"math"
	"testing"
)

func TestCubeMinusSphereIsBoundedWithPositiveVolume(t *testing.T) {
	b := NewBuilder()
	cube := cubeNode(b, 10, true)
	sphere := b.Node(Primitive3D{Kind: Sphere, Params: PrimitiveParams{Radius: 6, Fn: 24}})
	root := b.Node(CsgOp{Op: OpDifference}, cube, sphere)
	g := evalTree(t, root)

	if !g.Is3D() {
		t.Fatal("expected a 3D result")
	}
	mesh := g.PolySet3DValue().Triangulated()
	box := mesh.BoundingBox()
	if box.Min.X < -5.01 || box.Max.X > 5.01 {
		t.Errorf("bbox X = [%v, %v], want within [-5, 5]", box.Min.X, box.Max.X)
	}
	vol := mesh.Volume()
	if vol <= 0 || vol >= 1000 {
		t.Errorf("cube-minus-sphere volume = %v, want strictly between 0 and 1000", vol)
	}
}

func TestColorTagsUntaggedOutlines(t *testing.T) {
	b := NewBuilder()
	root := b.Node(Color{RGBA: RGBA{R: 1, A: 1}}, cubeNode(b, 2, true))
	g := evalTree(t, root)
	if !g.Is3D() {
		t.Fatal("expected a 3D result")
	}
	for _, f := range g.PolySet3DValue().Faces {
		if f.Color == nil || f.Color.R != 1 {
			t.Fatalf("expected every face tagged red, got %+v", f.Color)
		}
	}
}

func TestInnerColorWinsOverOuter(t *testing.T) {
	b := NewBuilder()
	inner := b.Node(Color{RGBA: RGBA{G: 1, A: 1}}, cubeNode(b, 2, true))
	outer := b.Node(Color{RGBA: RGBA{R: 1, A: 1}}, inner)
	g := evalTree(t, outer)
	for _, f := range g.PolySet3DValue().Faces {
		if f.Color == nil || f.Color.G != 1 || f.Color.R != 0 {
			t.Fatalf("inner color should win, got %+v", f.Color)
		}
	}
}

func TestBackgroundChildExcludedFromUnion(t *testing.T) {
	b := NewBuilder()
	bg := b.Tagged(Primitive3D{Kind: Cube, Params: PrimitiveParams{Size: V3(100, 100, 100)}}, ModInst{Background: true})
	root := b.Node(Root{}, cubeNode(b, 2, true), bg)
	g := evalTree(t, root)
	box := g.PolySet3DValue().BoundingBox()
	if math.Abs(box.Max.X-1) > 1e-9 {
		t.Errorf("background sibling should not contribute to the union, bbox = %+v", box)
	}
}

func TestMixedDimensionUnionKeeps3DWithWarning(t *testing.T) {
	b := NewBuilder()
	root := b.Node(Root{}, cubeNode(b, 2, true), squareNode(b, 2, true))
	tree := NewTree(Normalize(root))
	ev := NewEvaluator(DefaultConfig(), nil)
	g, _ := ev.Evaluate(tree)
	if !g.Is3D() {
		t.Errorf("mixed-dimension union should resolve to the 3D side, got shape %v", g.Shape())
	}
	if len(ev.Warnings()) == 0 {
		t.Error("expected a DimensionMismatch warning")
	}
}

func TestSingleChildUnionIsNoOp(t *testing.T) {
	b := NewBuilder()
	root := b.Node(Root{}, cubeNode(b, 3, true))
	g := evalTree(t, root)
	if got, want := g.PolySet3DValue().Triangulated().Volume(), 27.0; math.Abs(got-want) > 1e-6 {
		t.Errorf("single-child union volume = %v, want %v", got, want)
	}
}
