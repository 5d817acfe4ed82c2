package csgcore

import (
	"math"
	"testing"
)

func triArea(t [3]Point) float64 {
	return math.Abs(t[1].Sub(t[0]).Cross(t[2].Sub(t[0]))) / 2
}

func TestTriangulateCapSquareArea(t *testing.T) {
	square := &Polygon2D{Outlines: []Outline2D{{Points: []Point{
		{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}, {X: 0, Y: 4},
	}}}}
	tris := triangulateCap(square, 0)

	var total float64
	for _, tr := range tris {
		total += triArea(tr)
	}
	if math.Abs(total-16) > 1e-9 {
		t.Errorf("triangulated area = %v, want 16", total)
	}
}

func TestTriangulateCapWithHole(t *testing.T) {
	outer := Outline2D{Points: []Point{
		{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10},
	}}
	// Clockwise hole (negative signed area), centered, side 2.
	hole := Outline2D{Points: []Point{
		{X: 4, Y: 4}, {X: 4, Y: 6}, {X: 6, Y: 6}, {X: 6, Y: 4},
	}}
	poly := &Polygon2D{Outlines: []Outline2D{outer, hole}}

	tris := triangulateCap(poly, 0)
	var total float64
	for _, tr := range tris {
		total += triArea(tr)
	}
	want := 100.0 - 4.0
	if math.Abs(total-want) > 1e-6 {
		t.Errorf("triangulated area with hole = %v, want %v", total, want)
	}
}

func TestEarClipTriangleCount(t *testing.T) {
	pentagon := []Point{
		{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 2}, {X: 1, Y: 3}, {X: -1, Y: 2},
	}
	tris := earClip(pentagon)
	if len(tris) != len(pentagon)-2 {
		t.Errorf("earClip(pentagon) produced %d triangles, want %d", len(tris), len(pentagon)-2)
	}
}

func TestEarClipDegenerateInput(t *testing.T) {
	if tris := earClip([]Point{{X: 0, Y: 0}, {X: 1, Y: 0}}); tris != nil {
		t.Errorf("earClip with < 3 points should return nil, got %v", tris)
	}
}
