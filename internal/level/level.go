// Package level produces the per-level tuning the simulation runs on:
// a procedural difficulty curve, path patterns over the board, and
// optional YAML level packs that override the generated values.
package level

import (
	"fmt"

	"chainshot/internal/game"
)

// Default board dimensions when the caller passes none.
const (
	DefaultBoardWidth  = 1366.0
	DefaultBoardHeight = 768.0
)

// Difficulty curve constants. Speed and spawn pressure ramp linearly,
// the spawn interval bottoms out so late levels stay shootable.
const (
	baseChainSpeed  = 12.0
	speedPerLevel   = 2.0
	baseInterval    = 2.5
	intervalStep    = 0.08
	minInterval     = 0.8
	projectileSpeed = 600.0
	gapCloseFactor  = 3.0
	chainOffset     = 200.0
	maxInitialOrbs  = 12
	basePowerup     = 0.03
	powerupStep     = 0.004
	maxPowerup      = 0.08
	rainbowChance   = 0.02
)

// Generator builds level parameters for a board size. Its Generate
// method satisfies game.LevelSource.
type Generator struct {
	width  float64
	height float64
}

// NewGenerator creates a generator for the given board dimensions.
func NewGenerator(width, height float64) *Generator {
	if width <= 0 {
		width = DefaultBoardWidth
	}
	if height <= 0 {
		height = DefaultBoardHeight
	}
	return &Generator{width: width, height: height}
}

// Generate returns the parameters for level n.
func (g *Generator) Generate(n int) (game.LevelParams, error) {
	if n < 1 {
		return game.LevelParams{}, fmt.Errorf("level %d out of range", n)
	}

	interval := baseInterval - intervalStep*float64(n)
	if interval < minInterval {
		interval = minInterval
	}
	initial := 5 + n
	if initial > maxInitialOrbs {
		initial = maxInitialOrbs
	}
	powerup := basePowerup + powerupStep*float64(n)
	if powerup > maxPowerup {
		powerup = maxPowerup
	}

	pattern := patternFor(n)
	params := game.LevelParams{
		Level:              n,
		Pattern:            pattern,
		Waypoints:          Waypoints(pattern, g.width, g.height, segmentsFor(n)),
		ChainSpeed:         baseChainSpeed + speedPerLevel*float64(n),
		SpawnInterval:      interval,
		ProjectileSpeed:    projectileSpeed,
		GapCloseFactor:     gapCloseFactor,
		InitialOrbs:        initial,
		InitialChainOffset: chainOffset,
		MaxOrbs:            spawnBudget(n),
		Colors:             colorSet(n),
		PowerupChance:      powerup,
		RainbowChance:      rainbowChance,
	}
	return params, nil
}

// spawnBudget is the total orbs a level feeds in, by difficulty tier.
func spawnBudget(n int) int {
	switch {
	case n <= 2:
		return 15
	case n <= 4:
		return 20
	case n <= 6:
		return 25
	case n <= 8:
		return 30
	case n <= 11:
		return 40
	default:
		return 50
	}
}

// colorSet ramps from three colors to the full playable five.
func colorSet(n int) []game.OrbColor {
	count := 3
	switch {
	case n > 5:
		count = 5
	case n > 2:
		count = 4
	}
	return append([]game.OrbColor(nil), game.PlayableColors()[:count]...)
}

// segmentsFor scales path complexity with level, capped so the
// polyline stays readable on the board.
func segmentsFor(n int) int {
	capped := n
	if capped > 5 {
		capped = 5
	}
	return 5 + 2*capped
}
