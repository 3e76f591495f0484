package game

import (
	"math"
	"math/rand"
	"testing"
)

func newTestShooter() *Shooter {
	return NewShooter(Vec2{683, 668}, testLevelParams(), rand.New(rand.NewSource(1)))
}

// TestNewShooter verifies initial facing and that both queue slots are
// dealt from the level color set.
func TestNewShooter(t *testing.T) {
	s := newTestShooter()

	if s.Angle != -math.Pi/2 {
		t.Errorf("Expected straight-up angle, got %v", s.Angle)
	}
	levelColors := map[OrbColor]bool{ColorRed: true, ColorBlue: true, ColorGreen: true}
	if !levelColors[s.Current] || !levelColors[s.Next] {
		t.Errorf("Queue dealt outside the level set: %s, %s", s.Current, s.Next)
	}
}

// TestShooterAim verifies angle setting and the non-finite input guard.
func TestShooterAim(t *testing.T) {
	s := newTestShooter()

	if !s.Aim(1.0) {
		t.Error("Valid aim rejected")
	}
	if s.Angle != 1.0 {
		t.Errorf("Expected angle 1.0, got %v", s.Angle)
	}

	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if s.Aim(bad) {
			t.Errorf("Non-finite aim %v accepted", bad)
		}
		if s.Angle != 1.0 {
			t.Errorf("Non-finite aim changed the angle to %v", s.Angle)
		}
	}

	// Angles normalize into [-pi, pi]
	s.Aim(3 * math.Pi)
	if math.Abs(s.Angle-math.Pi) > 1e-9 {
		t.Errorf("Expected normalized pi, got %v", s.Angle)
	}
}

// TestShooterAimAt verifies aiming at a board point and the
// zero-distance guard.
func TestShooterAimAt(t *testing.T) {
	s := newTestShooter()

	if !s.AimAt(Vec2{s.Position.X + 100, s.Position.Y}) {
		t.Error("Valid target rejected")
	}
	if math.Abs(s.Angle) > 1e-9 {
		t.Errorf("Expected angle 0 toward +x, got %v", s.Angle)
	}

	if s.AimAt(s.Position) {
		t.Error("Aiming at the shooter's own position should be rejected")
	}
}

// TestShooterFire verifies the projectile spawns at the muzzle moving
// at projectile speed, and the queue promotes.
func TestShooterFire(t *testing.T) {
	s := newTestShooter()
	s.Aim(-math.Pi / 2)
	loaded := s.Current
	next := s.Next

	p := s.Fire(42, []OrbColor{ColorRed})

	if p.ID != 42 || p.Color != loaded {
		t.Errorf("Expected projectile of %s with ID 42, got %s ID %d", loaded, p.Color, p.ID)
	}
	wantPos := Vec2{s.Position.X, s.Position.Y - muzzleOffset}
	if p.Position.Dist(wantPos) > 1e-9 {
		t.Errorf("Expected muzzle spawn at %v, got %v", wantPos, p.Position)
	}
	if math.Abs(p.Velocity.Len()-s.ProjectileSpeed()) > 1e-9 {
		t.Errorf("Expected speed %v, got %v", s.ProjectileSpeed(), p.Velocity.Len())
	}
	if s.Current != next {
		t.Errorf("Queue did not promote: expected %s, got %s", next, s.Current)
	}
	// Replacement must come from the colors present on the chain
	if s.Next != ColorRed {
		t.Errorf("Expected replacement from present colors, got %s", s.Next)
	}
}

// TestShooterFireFallback verifies the queue falls back to the level
// set while the chain is empty.
func TestShooterFireFallback(t *testing.T) {
	s := newTestShooter()
	levelColors := map[OrbColor]bool{ColorRed: true, ColorBlue: true, ColorGreen: true}

	for i := 0; i < 20; i++ {
		s.Fire(uint64(i), nil)
		if !levelColors[s.Next] {
			t.Fatalf("Fallback dealt %s outside the level set", s.Next)
		}
	}
}

// TestShooterSwap verifies swapping the queue slots.
func TestShooterSwap(t *testing.T) {
	s := newTestShooter()
	a, b := s.Current, s.Next
	s.Swap()
	if s.Current != b || s.Next != a {
		t.Errorf("Swap failed: expected %s/%s, got %s/%s", b, a, s.Current, s.Next)
	}
}

// TestShooterRestock verifies both slots redraw from the present set.
func TestShooterRestock(t *testing.T) {
	s := newTestShooter()
	s.Restock([]OrbColor{ColorPurple})
	if s.Current != ColorPurple || s.Next != ColorPurple {
		t.Errorf("Restock ignored the present set: %s/%s", s.Current, s.Next)
	}
}
