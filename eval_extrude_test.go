package csgcore

import (
	"math"
	"testing"
)

func squareNode(b *Builder, side float64, center bool) *Node {
	return b.Node(Primitive2D{Kind: Square, Params: PrimitiveParams{Size: V3(side, side, 0), Center: center}})
}

func TestLinearExtrudeNoTwistIsAPrism(t *testing.T) {
	b := NewBuilder()
	root := b.Node(LinearExtrude{Height: 10, Scale: [2]float64{1, 1}, Slices: 1}, squareNode(b, 2, true))
	g := evalTree(t, root)
	if !g.Is3D() {
		t.Fatal("expected a 3D mesh")
	}
	mesh := g.PolySet3DValue().Triangulated()
	if got, want := mesh.Volume(), 2.0*2.0*10.0; math.Abs(got-want) > 1e-6 {
		t.Errorf("straight prism volume = %v, want %v", got, want)
	}
}

func TestLinearExtrudeTwistGrowsBoundingBox(t *testing.T) {
	b := NewBuilder()
	root := b.Node(LinearExtrude{Height: 10, Twist: 90, Scale: [2]float64{1, 1}, Slices: 10}, squareNode(b, 2, true))
	g := evalTree(t, root)
	box := g.PolySet3DValue().BoundingBox()
	diag := math.Sqrt2
	if box.Max.X < diag-1e-6 || box.Max.Y < diag-1e-6 {
		t.Errorf("twisted extrude bbox %+v should grow to the square's diagonal half-extent %v", box, diag)
	}
	if box.Min.Z != 0 || box.Max.Z != 10 {
		t.Errorf("extrude Z extent = [%v, %v], want [0, 10]", box.Min.Z, box.Max.Z)
	}
}

func TestLinearExtrudeZeroScaleTapersAndOmitsTopCap(t *testing.T) {
	b := NewBuilder()
	root := b.Node(LinearExtrude{Height: 10, Scale: [2]float64{0, 0}, Slices: 10}, squareNode(b, 2, true))
	g := evalTree(t, root)
	if !g.Is3D() {
		t.Fatal("expected a 3D mesh")
	}
	mesh := g.PolySet3DValue()
	box := mesh.BoundingBox()
	if math.Abs(box.Max.Z-10) > 1e-9 {
		t.Errorf("apex Z = %v, want 10", box.Max.Z)
	}
	for _, f := range mesh.Faces {
		allTop := true
		for _, v := range f.Vertices {
			if math.Abs(v.Z-10) > 1e-9 {
				allTop = false
				break
			}
		}
		if allTop {
			t.Errorf("found a face entirely at the tapered apex %+v; a degenerate scale should omit the top cap", f.Vertices)
		}
	}
}

func TestRotateExtrudeFullRevolutionIsATorus(t *testing.T) {
	b := NewBuilder()
	profile := b.Node(Transform{Matrix: TranslateAffine(3, 0, 0)}, squareNode(b, 1, false))
	root := b.Node(RotateExtrude{Angle: 360, Fragments: 32}, profile)
	g := evalTree(t, root)
	if !g.Is3D() {
		t.Fatal("expected a 3D mesh")
	}
	box := g.PolySet3DValue().BoundingBox()
	if math.Abs(box.Max.X-4) > 0.05 || math.Abs(box.Min.X+4) > 0.05 {
		t.Errorf("torus bbox X = [%v, %v], want ~[-4, 4]", box.Min.X, box.Max.X)
	}
	if math.Abs(box.Max.Z-1) > 1e-9 || box.Min.Z != 0 {
		t.Errorf("torus bbox Z = [%v, %v], want [0, 1]", box.Min.Z, box.Max.Z)
	}
}

func TestRotateExtrudeProfileCrossingAxisIsEmpty(t *testing.T) {
	b := NewBuilder()
	profile := squareNode(b, 2, true) // centered square straddles x=0
	root := b.Node(RotateExtrude{Angle: 360, Fragments: 16}, profile)
	g := evalTree(t, root)
	if !g.IsEmpty() {
		t.Errorf("profile crossing the rotation axis should degrade to empty, got shape %v", g.Shape())
	}
}

func TestProjectionOfSphereApproximatesCircleArea(t *testing.T) {
	b := NewBuilder()
	sphere := b.Node(Primitive3D{Kind: Sphere, Params: PrimitiveParams{Radius: 5, Fn: 48}})
	root := b.Node(Projection{Cut: true}, sphere)
	g := evalTree(t, root)
	if !g.Is2D() {
		t.Fatal("expected a 2D projection")
	}
	var area float64
	for _, o := range g.Polygon2DValue().Outlines {
		area += math.Abs(signedArea(o.Points))
	}
	want := math.Pi * 25
	if math.Abs(area-want)/want > 0.05 {
		t.Errorf("projection(cut=true) sphere(r=5) area = %v, want ~%v (5%% tolerance)", area, want)
	}
}
