package csgcore

import (
	"math"
	"testing"
)

const epsilon = 1e-10

func pointsEqual(p1, p2 Point, eps float64) bool {
	return math.Abs(p1.X-p2.X) < eps && math.Abs(p1.Y-p2.Y) < eps
}

// -------------------------------------------------------------------
// Rect Tests
// -------------------------------------------------------------------

func TestRect_NewRect(t *testing.T) {
	tests := []struct {
		name      string
		p1, p2    Point
		expectMin Point
		expectMax Point
	}{
		{
			name: "normal order",
			p1:   Pt(0, 0), p2: Pt(10, 10),
			expectMin: Pt(0, 0), expectMax: Pt(10, 10),
		},
		{
			name: "reversed order",
			p1:   Pt(10, 10), p2: Pt(0, 0),
			expectMin: Pt(0, 0), expectMax: Pt(10, 10),
		},
		{
			name: "mixed",
			p1:   Pt(5, 0), p2: Pt(0, 5),
			expectMin: Pt(0, 0), expectMax: Pt(5, 5),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRect(tt.p1, tt.p2)
			if !pointsEqual(r.Min, tt.expectMin, epsilon) {
				t.Errorf("Min = %v, want %v", r.Min, tt.expectMin)
			}
			if !pointsEqual(r.Max, tt.expectMax, epsilon) {
				t.Errorf("Max = %v, want %v", r.Max, tt.expectMax)
			}
		})
	}
}

func TestRect_WidthHeight(t *testing.T) {
	r := NewRect(Pt(0, 0), Pt(10, 5))
	if r.Width() != 10 {
		t.Errorf("Width() = %v, want 10", r.Width())
	}
	if r.Height() != 5 {
		t.Errorf("Height() = %v, want 5", r.Height())
	}
}

func TestRect_Union(t *testing.T) {
	r1 := NewRect(Pt(0, 0), Pt(5, 5))
	r2 := NewRect(Pt(3, 3), Pt(10, 10))
	u := r1.Union(r2)

	if !pointsEqual(u.Min, Pt(0, 0), epsilon) {
		t.Errorf("Union Min = %v, want (0, 0)", u.Min)
	}
	if !pointsEqual(u.Max, Pt(10, 10), epsilon) {
		t.Errorf("Union Max = %v, want (10, 10)", u.Max)
	}
}

func TestRect_Contains(t *testing.T) {
	r := NewRect(Pt(0, 0), Pt(10, 10))

	tests := []struct {
		name   string
		p      Point
		expect bool
	}{
		{"inside", Pt(5, 5), true},
		{"corner", Pt(0, 0), true},
		{"edge", Pt(5, 0), true},
		{"outside", Pt(15, 5), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := r.Contains(tt.p)
			if result != tt.expect {
				t.Errorf("Contains(%v) = %v, want %v", tt.p, result, tt.expect)
			}
		})
	}
}
