package game

import (
	"math"
	"testing"
)

// TestNewPathValidation verifies that degenerate waypoint sets are
// rejected instead of producing a broken path.
func TestNewPathValidation(t *testing.T) {
	tests := []struct {
		name      string
		waypoints []Vec2
		wantErr   bool
	}{
		{"two points", []Vec2{{0, 0}, {100, 0}}, false},
		{"many points", []Vec2{{0, 0}, {50, 50}, {100, 0}}, false},
		{"empty", nil, true},
		{"single point", []Vec2{{5, 5}}, true},
		{"all duplicates", []Vec2{{5, 5}, {5, 5}, {5, 5}}, true},
		{"duplicates collapse", []Vec2{{0, 0}, {0, 0}, {100, 0}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPath(tt.waypoints)
			if (err != nil) != tt.wantErr {
				t.Errorf("Expected error=%v, got %v", tt.wantErr, err)
			}
		})
	}
}

// TestPathLength verifies arc length accumulates across segments.
func TestPathLength(t *testing.T) {
	p, err := NewPath([]Vec2{{0, 0}, {100, 0}, {100, 50}})
	if err != nil {
		t.Fatalf("NewPath failed: %v", err)
	}
	if got := p.Length(); math.Abs(got-150) > 1e-9 {
		t.Errorf("Expected length 150, got %v", got)
	}
}

// TestPositionAt verifies point lookup along a two-segment path,
// including clamping past either end.
func TestPositionAt(t *testing.T) {
	p, err := NewPath([]Vec2{{0, 0}, {100, 0}, {100, 100}})
	if err != nil {
		t.Fatalf("NewPath failed: %v", err)
	}

	tests := []struct {
		name string
		d    float64
		want Vec2
	}{
		{"start", 0, Vec2{0, 0}},
		{"mid first segment", 50, Vec2{50, 0}},
		{"segment joint", 100, Vec2{100, 0}},
		{"mid second segment", 150, Vec2{100, 50}},
		{"end", 200, Vec2{100, 100}},
		{"clamped below", -40, Vec2{0, 0}},
		{"clamped above", 1000, Vec2{100, 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.PositionAt(tt.d)
			if got.Dist(tt.want) > 1e-9 {
				t.Errorf("PositionAt(%v): expected %v, got %v", tt.d, tt.want, got)
			}
		})
	}
}

// TestTangentAt verifies the travel direction is a unit vector pointing
// toward the portal end on both segments.
func TestTangentAt(t *testing.T) {
	p, err := NewPath([]Vec2{{0, 0}, {100, 0}, {100, 100}})
	if err != nil {
		t.Fatalf("NewPath failed: %v", err)
	}

	if got := p.TangentAt(50); got.Dist(Vec2{1, 0}) > 1e-9 {
		t.Errorf("First segment tangent: expected {1 0}, got %v", got)
	}
	if got := p.TangentAt(150); got.Dist(Vec2{0, 1}) > 1e-9 {
		t.Errorf("Second segment tangent: expected {0 1}, got %v", got)
	}
}

// TestPathLUTConsistency cross-checks the LUT-accelerated lookup with a
// dense walk: chord steps can never exceed the arc step, and the chords
// of a polyline walk must sum back to the full arc length.
func TestPathLUTConsistency(t *testing.T) {
	p, err := NewPath([]Vec2{{0, 0}, {250, 0}, {250, 80}, {600, 80}})
	if err != nil {
		t.Fatalf("NewPath failed: %v", err)
	}

	steps := 2000
	stepLen := p.Length() / float64(steps)
	prev := p.PositionAt(0)
	sum := 0.0
	for i := 1; i <= steps; i++ {
		pos := p.PositionAt(stepLen * float64(i))
		chord := pos.Dist(prev)
		if chord > stepLen+1e-6 {
			t.Fatalf("Chord %v longer than arc step %v at step %d", chord, stepLen, i)
		}
		sum += chord
		prev = pos
	}

	// The path is a polyline, so with steps much denser than the
	// segment count the chord sum recovers the arc length exactly up
	// to the two corner steps.
	if math.Abs(sum-p.Length()) > 1.0 {
		t.Errorf("Chord sum %v too far from arc length %v", sum, p.Length())
	}
}

// TestPathEndpointsAndWaypoints verifies the exposed geometry accessors
// and that Waypoints returns a defensive copy.
func TestPathEndpointsAndWaypoints(t *testing.T) {
	p, err := NewPath([]Vec2{{1, 2}, {3, 4}, {5, 6}})
	if err != nil {
		t.Fatalf("NewPath failed: %v", err)
	}

	if p.Start() != (Vec2{1, 2}) {
		t.Errorf("Expected start {1 2}, got %v", p.Start())
	}
	if p.End() != (Vec2{5, 6}) {
		t.Errorf("Expected end {5 6}, got %v", p.End())
	}

	wp := p.Waypoints()
	wp[0] = Vec2{99, 99}
	if p.Start() != (Vec2{1, 2}) {
		t.Error("Mutating the returned waypoints changed the path")
	}
}
