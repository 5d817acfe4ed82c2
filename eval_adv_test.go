package csgcore

import (
	"math"
	"testing"
)

func TestHullOfTwoCubesEnclosesBoth(t *testing.T) {
	b := NewBuilder()
	a := cubeNode(b, 2, true)
	far := b.Node(Transform{Matrix: TranslateAffine(10, 0, 0)}, cubeNode(b, 2, true))
	root := b.Node(AdvCsgOp{Op: OpHull}, a, far)
	g := evalTree(t, root)
	if !g.Is3D() {
		t.Fatal("expected a 3D hull")
	}
	box := g.PolySet3DValue().BoundingBox()
	if box.Min.X > -1 || box.Max.X < 11 {
		t.Errorf("hull bbox %+v should span both cubes (roughly [-1..11] on X)", box)
	}
}

func TestHullMixedDimensionsIsEmpty(t *testing.T) {
	b := NewBuilder()
	cube := cubeNode(b, 2, true)
	square := b.Node(Primitive2D{Kind: Square, Params: PrimitiveParams{Size: V3(2, 2, 0)}})
	root := b.Node(AdvCsgOp{Op: OpHull}, cube, square)
	g := evalTree(t, root)
	if !g.IsEmpty() {
		t.Errorf("mixed 2D/3D hull should degrade to empty, got shape %v", g.Shape())
	}
}

func TestResizeScalesToTarget(t *testing.T) {
	b := NewBuilder()
	root := b.Node(AdvCsgOp{Op: OpResize, NewSize: V3(20, 0, 0)}, cubeNode(b, 10, true))
	g := evalTree(t, root)
	if !g.Is3D() {
		t.Fatal("expected a 3D result")
	}
	box := g.PolySet3DValue().BoundingBox()
	if got := box.Max.X - box.Min.X; math.Abs(got-20) > 1e-9 {
		t.Errorf("resized X extent = %v, want 20", got)
	}
	if got := box.Max.Y - box.Min.Y; math.Abs(got-10) > 1e-9 {
		t.Errorf("unresized Y extent = %v, want unchanged 10", got)
	}
}

func TestResizeAutoSizeAdoptsLargestScale(t *testing.T) {
	b := NewBuilder()
	root := b.Node(AdvCsgOp{
		Op:       OpResize,
		NewSize:  V3(40, 0, 0),
		AutoSize: [3]bool{false, true, false},
	}, cubeNode(b, 10, true))
	g := evalTree(t, root)
	box := g.PolySet3DValue().BoundingBox()
	if got := box.Max.Y - box.Min.Y; math.Abs(got-40) > 1e-9 {
		t.Errorf("autosized Y extent = %v, want 40 (adopting X's 4x scale)", got)
	}
}

func TestMinkowskiOfTwoCubesGrowsBoundingBox(t *testing.T) {
	b := NewBuilder()
	root := b.Node(AdvCsgOp{Op: OpMinkowski}, cubeNode(b, 4, true), cubeNode(b, 2, true))
	g := evalTree(t, root)
	if !g.Is3D() {
		t.Fatal("expected a 3D minkowski result")
	}
	box := g.PolySet3DValue().BoundingBox()
	if got := box.Max.X - box.Min.X; math.Abs(got-6) > 1e-6 {
		t.Errorf("minkowski(cube(4), cube(2)) X extent = %v, want 6", got)
	}
}
