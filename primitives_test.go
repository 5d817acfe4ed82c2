package csgcore

import (
	"math"
	"testing"
)

func TestFragmentCountForcedByFn(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Fn = 8
	if n := fragmentCount(5, cfg); n != 8 {
		t.Errorf("fragmentCount with Fn=8 = %d, want 8", n)
	}
}

func TestFragmentCountFloorsAtFive(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Fa = 360
	cfg.Fs = 1000
	if n := fragmentCount(1, cfg); n != 5 {
		t.Errorf("fragmentCount with coarse fa/fs = %d, want the floor of 5", n)
	}
}

func TestFragmentCountZeroRadiusIsTriangle(t *testing.T) {
	if n := fragmentCount(0, DefaultConfig()); n != 3 {
		t.Errorf("fragmentCount(0) = %d, want 3", n)
	}
}

func TestCirclePoints2DCounterClockwise(t *testing.T) {
	pts := circlePoints2D(2, 4)
	if len(pts) != 4 {
		t.Fatalf("len(pts) = %d, want 4", len(pts))
	}
	if pts[0].X != 2 || math.Abs(pts[0].Y) > 1e-9 {
		t.Errorf("first point = %+v, want (2, 0)", pts[0])
	}
	if pts[1].Y <= 0 {
		t.Errorf("second point %+v should have positive Y for CCW winding", pts[1])
	}
}

func TestBuildSquareCentered(t *testing.T) {
	sq := buildSquare(PrimitiveParams{Size: V3(4, 2, 0), Center: true})
	box := sq.BoundingBox()
	if box.Min.X != -2 || box.Max.X != 2 || box.Min.Y != -1 || box.Max.Y != 1 {
		t.Errorf("centered square bbox = %+v, want [-2,-1]..[2,1]", box)
	}
}

func TestBuildSquareDegenerate(t *testing.T) {
	sq := buildSquare(PrimitiveParams{Size: V3(0, 2, 0)})
	if len(sq.Outlines) != 0 {
		t.Errorf("zero-width square should produce no outlines, got %d", len(sq.Outlines))
	}
}

func TestBuildCubeVolume(t *testing.T) {
	cube := buildCube(PrimitiveParams{Size: V3(2, 3, 4)})
	mesh := cube.Triangulated()
	if got, want := mesh.Volume(), 24.0; math.Abs(got-want) > 1e-9 {
		t.Errorf("cube(2,3,4) volume = %v, want %v", got, want)
	}
}

func TestBuildSphereApproximatesVolume(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Fn = 32
	sphere := buildSphere(PrimitiveParams{Radius: 3}, cfg)
	mesh := sphere.Triangulated()
	want := 4.0 / 3.0 * math.Pi * 27
	if got := mesh.Volume(); math.Abs(got-want)/want > 0.05 {
		t.Errorf("sphere(r=3) volume = %v, want ~%v (5%% tolerance)", got, want)
	}
}

func TestBuildCylinderTopRadiusZeroIsACone(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Fn = 16
	cyl := buildCylinder(PrimitiveParams{Radius: 2, Radius2: 0, Height: 5}, cfg)
	box := cyl.BoundingBox()
	if box.Max.Z-box.Min.Z != 5 {
		t.Errorf("cylinder height = %v, want 5", box.Max.Z-box.Min.Z)
	}
}
