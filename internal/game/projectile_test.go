package game

import (
	"math"
	"testing"
)

// TestProjectileUpdate verifies straight-line motion scaled by dt.
func TestProjectileUpdate(t *testing.T) {
	p := NewProjectile(1, ColorRed, Vec2{100, 500}, Vec2{0, -600})
	p.setBounds(1366, 768, 50)

	if !p.Update(0.1) {
		t.Fatal("Projectile died on the first tick")
	}
	if p.Position.Dist(Vec2{100, 440}) > 1e-9 {
		t.Errorf("Expected position {100 440}, got %v", p.Position)
	}

	// dt<=0 is a strict no-op that keeps the projectile alive
	if !p.Update(0) || !p.Update(-1) {
		t.Error("Non-positive dt killed the projectile")
	}
	if p.Position.Dist(Vec2{100, 440}) > 1e-9 {
		t.Errorf("Non-positive dt moved the projectile to %v", p.Position)
	}
}

// TestProjectileBoundsCull verifies flight ends beyond the board plus
// cull margin on every edge.
func TestProjectileBoundsCull(t *testing.T) {
	tests := []struct {
		name string
		pos  Vec2
		vel  Vec2
	}{
		{"off the top", Vec2{683, 10}, Vec2{0, -600}},
		{"off the bottom", Vec2{683, 758}, Vec2{0, 600}},
		{"off the left", Vec2{10, 384}, Vec2{-600, 0}},
		{"off the right", Vec2{1356, 384}, Vec2{600, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProjectile(1, ColorRed, tt.pos, tt.vel)
			p.setBounds(1366, 768, 50)

			alive := true
			for i := 0; i < 60 && alive; i++ {
				alive = p.Update(1.0 / 60.0)
			}
			if alive {
				t.Errorf("Projectile still alive at %v", p.Position)
			}
		})
	}
}

// TestProjectileLifetimeCap verifies the flight-time safety net for
// shots that never leave the board.
func TestProjectileLifetimeCap(t *testing.T) {
	p := NewProjectile(1, ColorRed, Vec2{683, 384}, Vec2{0, 0})
	p.setBounds(1366, 768, 50)

	alive := true
	ticks := 0
	for alive && ticks < 1000 {
		alive = p.Update(1.0 / 60.0)
		ticks++
	}
	if alive {
		t.Fatal("Stationary projectile never expired")
	}
	gotSeconds := float64(ticks) / 60.0
	if math.Abs(gotSeconds-MaxProjectileLifetime) > 0.1 {
		t.Errorf("Expected expiry near %vs, got %.2fs", MaxProjectileLifetime, gotSeconds)
	}
}

// TestProjectileToSnapshot verifies the snapshot copies render state.
func TestProjectileToSnapshot(t *testing.T) {
	p := NewProjectile(9, ColorGreen, Vec2{10, 20}, Vec2{600, 0})
	snap := p.ToSnapshot()

	if snap.ID != 9 || snap.Color != ColorGreen {
		t.Errorf("Snapshot identity mismatch: %+v", snap)
	}
	if snap.Position != p.Position || snap.Radius != p.Radius {
		t.Errorf("Snapshot geometry mismatch: %+v", snap)
	}
	if snap.Rotation != p.Rotation {
		t.Errorf("Expected rotation %v, got %v", p.Rotation, snap.Rotation)
	}
}
