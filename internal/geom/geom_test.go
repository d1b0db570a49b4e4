package geom

import (
	"math"
	"testing"
)

const eps = 1e-9

func TestDist(t *testing.T) {
	if got := Dist(Point{0, 0}, Point{3, 4}); math.Abs(got-5) > eps {
		t.Errorf("Dist() = %f, want 5", got)
	}
}

func TestBounds(t *testing.T) {
	if _, ok := Bounds(nil); ok {
		t.Fatal("Bounds(nil) should report ok=false")
	}

	b, ok := Bounds([]Point{{10, 20}, {30, 5}, {-4, 12}})
	if !ok {
		t.Fatal("Bounds() ok = false, want true")
	}
	if b.MinX != -4 || b.MinY != 5 || b.MaxX != 30 || b.MaxY != 20 {
		t.Errorf("Bounds() = %+v", b)
	}
	if b.Width() != 34 || b.Height() != 15 {
		t.Errorf("extents = %f x %f, want 34 x 15", b.Width(), b.Height())
	}
	if c := b.Center(); c.X != 13 || c.Y != 12.5 {
		t.Errorf("Center() = %+v, want (13, 12.5)", c)
	}
}

func TestFrame_RoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		frame Frame
		p     Point
	}{
		{"identity", Frame{}, Point{5, 7}},
		{"translated", Frame{Origin: Point{100, 50}}, Point{120, 40}},
		{"quarter turn", Frame{Origin: Point{10, 10}, Angle: math.Pi / 2}, Point{20, 10}},
		{"arbitrary", Frame{Origin: Point{-3, 8}, Angle: 1.234}, Point{42, -17}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			back := tt.frame.ToWorld(tt.frame.ToLocal(tt.p))
			if math.Abs(back.X-tt.p.X) > 1e-9 || math.Abs(back.Y-tt.p.Y) > 1e-9 {
				t.Errorf("round trip = %+v, want %+v", back, tt.p)
			}
		})
	}
}

func TestFrame_ToLocalQuarterTurn(t *testing.T) {
	f := Frame{Origin: Point{10, 10}, Angle: math.Pi / 2}

	// A point one unit along world +x from the origin sits on local -y
	// once the frame is rotated by 90 degrees.
	local := f.ToLocal(Point{11, 10})
	if math.Abs(local.X) > eps || math.Abs(local.Y+1) > eps {
		t.Errorf("ToLocal() = %+v, want (0, -1)", local)
	}
}

func TestCross(t *testing.T) {
	if got := Cross(Point{0, 0}, Point{1, 0}, Point{0, 1}); got != 1 {
		t.Errorf("Cross() = %f, want 1", got)
	}
	if got := Cross(Point{0, 0}, Point{1, 1}, Point{2, 2}); got != 0 {
		t.Errorf("Cross() collinear = %f, want 0", got)
	}
}

func TestRound(t *testing.T) {
	tests := []struct {
		v      float64
		places int
		want   float64
	}{
		{0.123456, 4, 0.1235},
		{1.23456, 2, 1.23},
		{2.5, 0, 3},
	}
	for _, tt := range tests {
		if got := Round(tt.v, tt.places); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Round(%v, %d) = %v, want %v", tt.v, tt.places, got, tt.want)
		}
	}
}
