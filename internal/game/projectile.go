package game

// Projectile is an orb in flight between the shooter and the chain.
// It travels in a straight line over multiple ticks; the collision
// detector sweeps its motion segment each tick so fast shots cannot
// tunnel through the chain.
type Projectile struct {
	ID       uint64   `json:"id"`
	Color    OrbColor `json:"color"`
	Position Vec2     `json:"position"`
	Velocity Vec2     `json:"velocity"`
	Radius   float64  `json:"radius"`
	Rotation float64  `json:"rotation"` // travel angle, for rendering

	// Lifetime in seconds, a safety net for shots that graze every
	// bound check.
	timer float64

	// Cull bounds, set by the engine from the board config.
	boundW, boundH, margin float64
}

// MaxProjectileLifetime caps flight time in seconds.
const MaxProjectileLifetime = 5.0

// NewProjectile creates a projectile already in motion. Velocity is in
// px/s and is applied per effective dt, so danger slow-mo slows shots
// the same way it slows the chain.
func NewProjectile(id uint64, color OrbColor, pos, vel Vec2) *Projectile {
	return &Projectile{
		ID:       id,
		Color:    color,
		Position: pos,
		Velocity: vel,
		Radius:   DefaultOrbRadius,
		Rotation: vel.Angle(),
		timer:    MaxProjectileLifetime,
	}
}

func (p *Projectile) setBounds(w, h, margin float64) {
	p.boundW, p.boundH, p.margin = w, h, margin
}

// Update advances the projectile and returns false once it leaves the
// board (plus cull margin) or its lifetime expires.
func (p *Projectile) Update(dt float64) bool {
	if dt <= 0 {
		return true
	}
	p.Position = p.Position.Add(p.Velocity.Scale(dt))
	p.timer -= dt

	if p.boundW > 0 {
		if p.Position.X < -p.margin || p.Position.X > p.boundW+p.margin ||
			p.Position.Y < -p.margin || p.Position.Y > p.boundH+p.margin {
			return false
		}
	}
	return p.timer > 0
}

// ProjectileSnapshot is an immutable copy of projectile state for
// rendering and the REST/WS surface.
type ProjectileSnapshot struct {
	ID       uint64   `json:"id"`
	Color    OrbColor `json:"color"`
	Position Vec2     `json:"position"`
	Rotation float64  `json:"rotation"`
	Radius   float64  `json:"radius"`
}

// ToSnapshot creates an immutable snapshot for rendering.
func (p *Projectile) ToSnapshot() ProjectileSnapshot {
	return ProjectileSnapshot{
		ID:       p.ID,
		Color:    p.Color,
		Position: p.Position,
		Rotation: p.Rotation,
		Radius:   p.Radius,
	}
}
