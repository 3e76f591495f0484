package game

import (
	"math"
	"math/rand"
)

// muzzleOffset is how far in front of the shooter a projectile spawns.
const muzzleOffset = 30.0

// Shooter is the fixed launcher at the bottom of the board. It holds
// the loaded orb and a preview of the next one; firing promotes the
// preview and draws a replacement from the colors still on the chain
// so the queue never deals a dead color.
type Shooter struct {
	Position Vec2     `json:"position"`
	Angle    float64  `json:"angle"`
	Current  OrbColor `json:"current"`
	Next     OrbColor `json:"next"`

	projectileSpeed float64
	fallback        []OrbColor // level colors, used while the chain is empty
	rng             *rand.Rand
}

// NewShooter places the shooter and deals the first two orbs from the
// level color set.
func NewShooter(pos Vec2, params LevelParams, rng *rand.Rand) *Shooter {
	s := &Shooter{
		Position:        pos,
		Angle:           -math.Pi / 2, // straight up
		projectileSpeed: params.ProjectileSpeed,
		fallback:        params.Colors,
		rng:             rng,
	}
	if len(s.fallback) == 0 {
		s.fallback = PlayableColors()
	}
	s.Current = s.draw(nil)
	s.Next = s.draw(nil)
	return s
}

// Aim sets the launch angle in radians. Non-finite input is rejected
// as a no-op so bad network input can never poison the state.
func (s *Shooter) Aim(angle float64) bool {
	if math.IsNaN(angle) || math.IsInf(angle, 0) {
		return false
	}
	s.Angle = normalizeAngle(angle)
	return true
}

// AimAt points the shooter at a board position.
func (s *Shooter) AimAt(target Vec2) bool {
	d := target.Sub(s.Position)
	if d.LenSq() == 0 {
		return false
	}
	s.Angle = d.Angle()
	return true
}

// Fire launches the loaded orb in the aimed direction, promotes the
// preview orb, and draws a new preview from the colors present on the
// chain. The caller enforces the one-projectile-in-flight rule.
func (s *Shooter) Fire(id uint64, present []OrbColor) *Projectile {
	color := s.Current
	s.Current = s.Next
	s.Next = s.draw(present)

	dir := VecFromAngle(s.Angle)
	start := s.Position.Add(dir.Scale(muzzleOffset))
	vel := dir.Scale(s.projectileSpeed)
	return NewProjectile(id, color, start, vel)
}

// Swap exchanges the loaded orb with the preview.
func (s *Shooter) Swap() {
	s.Current, s.Next = s.Next, s.Current
}

// Restock redraws both queue slots, used when a new level starts.
func (s *Shooter) Restock(present []OrbColor) {
	s.Current = s.draw(present)
	s.Next = s.draw(present)
}

func (s *Shooter) draw(present []OrbColor) OrbColor {
	pool := present
	if len(pool) == 0 {
		pool = s.fallback
	}
	return pool[s.rng.Intn(len(pool))]
}

// ProjectileSpeed returns the launch speed in px/s.
func (s *Shooter) ProjectileSpeed() float64 { return s.projectileSpeed }
