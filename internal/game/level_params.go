package game

import "fmt"

// LevelParams carries everything the simulation needs to start a
// level: the path geometry, chain tuning, and spawn table. Produced by
// the level generator or loaded from a level pack; the core never
// computes difficulty itself.
type LevelParams struct {
	Level   int    `yaml:"level" json:"level"`
	Pattern string `yaml:"pattern" json:"pattern"`

	Waypoints []Vec2 `yaml:"waypoints" json:"waypoints"`

	ChainSpeed      float64 `yaml:"chain_speed" json:"chain_speed"`
	SpawnInterval   float64 `yaml:"spawn_interval" json:"spawn_interval"`
	ProjectileSpeed float64 `yaml:"projectile_speed" json:"projectile_speed"`
	GapCloseFactor  float64 `yaml:"gap_close_factor" json:"gap_close_factor"`

	InitialOrbs        int     `yaml:"initial_orbs" json:"initial_orbs"`
	InitialChainOffset float64 `yaml:"initial_chain_offset" json:"initial_chain_offset"`
	MaxOrbs            int     `yaml:"max_orbs" json:"max_orbs"`

	Colors        []OrbColor `yaml:"colors" json:"colors"`
	PowerupChance float64    `yaml:"powerup_chance" json:"powerup_chance"`
	RainbowChance float64    `yaml:"rainbow_chance" json:"rainbow_chance"`
}

// Validate rejects parameter sets the simulation cannot run. Level
// packs are user-supplied so every field is range-checked.
func (p LevelParams) Validate() error {
	if len(p.Waypoints) < 2 {
		return fmt.Errorf("level %d: need at least 2 waypoints, got %d", p.Level, len(p.Waypoints))
	}
	if p.ChainSpeed <= 0 {
		return fmt.Errorf("level %d: chain_speed must be positive, got %.2f", p.Level, p.ChainSpeed)
	}
	if p.SpawnInterval <= 0 {
		return fmt.Errorf("level %d: spawn_interval must be positive, got %.2f", p.Level, p.SpawnInterval)
	}
	if p.ProjectileSpeed <= 0 {
		return fmt.Errorf("level %d: projectile_speed must be positive, got %.2f", p.Level, p.ProjectileSpeed)
	}
	if p.InitialOrbs < 0 || p.InitialOrbs > p.MaxOrbs {
		return fmt.Errorf("level %d: initial_orbs %d outside [0, max_orbs=%d]", p.Level, p.InitialOrbs, p.MaxOrbs)
	}
	if p.MaxOrbs <= 0 {
		return fmt.Errorf("level %d: max_orbs must be positive, got %d", p.Level, p.MaxOrbs)
	}
	if p.PowerupChance < 0 || p.PowerupChance > 0.5 {
		return fmt.Errorf("level %d: powerup_chance %.3f outside [0, 0.5]", p.Level, p.PowerupChance)
	}
	if p.RainbowChance < 0 || p.RainbowChance > 0.5 {
		return fmt.Errorf("level %d: rainbow_chance %.3f outside [0, 0.5]", p.Level, p.RainbowChance)
	}
	for i, c := range p.Colors {
		if c.IsPowerup() || c == ColorRainbow {
			return fmt.Errorf("level %d: colors[%d] must be a playable color, got %s", p.Level, i, c)
		}
	}
	return nil
}
