package game

import (
	"fmt"
	"math/rand"
)

// InsertSide selects which side of the struck orb a fired orb is
// spliced on, as decided by the collision detector.
type InsertSide uint8

const (
	InsertFront  InsertSide = iota // portal side of the struck orb
	InsertBehind                   // spawn side of the struck orb
)

// String returns a human-readable side name.
func (s InsertSide) String() string {
	if s == InsertFront {
		return "front"
	}
	return "behind"
}

// Chain is the ordered train of orbs advancing along the path.
// orbs[0] is the head: the orb with the greatest path distance,
// closest to the portal. Distances are non-increasing with index.
//
// Invariants:
//   - order: orbs[i].Distance >= orbs[i+1].Distance, always
//   - spacing: adjacent centers keep at least 2x radius apart except
//     while a gap is actively closing, and pulls never overtake
//   - growth: only the tail spawn timer and projectile insertion add orbs
type Chain struct {
	path    *Path
	orbs    []*Orb
	spacing float64 // minimum center-to-center distance

	speed          float64 // base advance speed in px/s
	gapCloseFactor float64 // gap-closing speed as a multiple of speed

	spawnInterval float64
	spawnTimer    float64
	spawned       int // orbs created so far, counted against maxOrbs
	maxOrbs       int // level spawn budget
	hardCap       int // absolute orb count cap from resource limits

	colors        []OrbColor
	powerupChance float64
	rainbowChance float64

	// Powerup effect timers. Slow scales chain motion, reverse flips it.
	slowTimer    float64
	reverseTimer float64

	rng       *rand.Rand
	nextOrbID uint64
}

// Powerup motion modifiers applied to the chain while the matching
// timer is active.
const (
	SlowPowerFactor      = 0.3 // chain crawls at 30% speed
	ReversePowerFactor   = 1.5 // chain rolls backward at 150% speed
	SlowPowerDuration    = 5.0
	ReversePowerDuration = 3.0
)

// NewChain builds a chain for the given path and level parameters and
// seeds the initial orbs behind the spawn point so they march onto the
// path one by one.
func NewChain(path *Path, params LevelParams, hardCap int, rng *rand.Rand) *Chain {
	c := &Chain{
		path:           path,
		orbs:           make([]*Orb, 0, hardCap),
		spacing:        2 * DefaultOrbRadius,
		speed:          params.ChainSpeed,
		gapCloseFactor: params.GapCloseFactor,
		spawnInterval:  params.SpawnInterval,
		maxOrbs:        params.MaxOrbs,
		hardCap:        hardCap,
		colors:         params.Colors,
		powerupChance:  params.PowerupChance,
		rainbowChance:  params.RainbowChance,
		rng:            rng,
	}
	if len(c.colors) == 0 {
		c.colors = PlayableColors()
	}
	if c.gapCloseFactor < 1 {
		c.gapCloseFactor = 1
	}

	for i := 0; i < params.InitialOrbs; i++ {
		dist := -params.InitialChainOffset - float64(i)*c.spacing
		c.orbs = append(c.orbs, NewOrb(c.allocID(), c.randomPlayable(), dist))
	}
	c.spawned = params.InitialOrbs
	return c
}

func (c *Chain) allocID() uint64 {
	c.nextOrbID++
	return c.nextOrbID
}

// randomPlayable draws a uniform playable color from the level set.
func (c *Chain) randomPlayable() OrbColor {
	return c.colors[c.rng.Intn(len(c.colors))]
}

// rollSpawnColor draws the color for a tail spawn, with small odds of
// a powerup or rainbow orb.
func (c *Chain) rollSpawnColor() OrbColor {
	r := c.rng.Float64()
	if r < c.powerupChance {
		powerups := []OrbColor{PowerBomb, PowerSlow, PowerReverse, PowerAccuracy}
		return powerups[c.rng.Intn(len(powerups))]
	}
	if r < c.powerupChance+c.rainbowChance {
		return ColorRainbow
	}
	return c.randomPlayable()
}

// Advance moves every orb toward the portal and removes orbs that
// crossed it. Returns the breached orbs, head first; each one costs
// the session a life. Negative or zero dt is a no-op.
func (c *Chain) Advance(dt float64) []*Orb {
	if dt <= 0 || len(c.orbs) == 0 {
		c.tickPowerups(dt)
		return nil
	}

	scale := 1.0
	if c.slowTimer > 0 {
		scale *= SlowPowerFactor
	}
	if c.reverseTimer > 0 {
		scale *= -ReversePowerFactor
	}
	c.tickPowerups(dt)

	step := c.speed * scale * dt
	for _, o := range c.orbs {
		o.Distance += step
	}

	var breached []*Orb
	n := 0
	for _, o := range c.orbs {
		if o.Distance >= c.path.Length() {
			breached = append(breached, o)
			continue
		}
		c.orbs[n] = o
		n++
	}
	c.orbs = c.orbs[:n]
	return breached
}

func (c *Chain) tickPowerups(dt float64) {
	if dt <= 0 {
		return
	}
	if c.slowTimer > 0 {
		c.slowTimer -= dt
	}
	if c.reverseTimer > 0 {
		c.reverseTimer -= dt
	}
}

// SpawnTail accumulates the spawn timer and appends a new orb one
// spacing unit behind the backmost orb once the interval elapses.
// Spawning is deferred, with the timer kept primed, while the chain
// sits at the hard cap; it stops for good once the level budget is
// spent. Returns the spawned orb or nil.
func (c *Chain) SpawnTail(dt float64) *Orb {
	if dt <= 0 {
		return nil
	}
	c.spawnTimer += dt
	if c.spawnTimer < c.spawnInterval {
		return nil
	}
	if c.spawned >= c.maxOrbs {
		return nil
	}
	if len(c.orbs) >= c.hardCap {
		return nil // deferred until the chain shrinks
	}

	tail := -c.spacing
	if n := len(c.orbs); n > 0 {
		tail = c.orbs[n-1].Distance - c.spacing
	}

	c.spawnTimer = 0
	orb := NewOrb(c.allocID(), c.rollSpawnColor(), tail)
	c.orbs = append(c.orbs, orb)
	c.spawned++
	return orb
}

// Insert splices a new orb of the given color next to the struck orb.
// The new orb lands at the struck orb's distance offset by one spacing
// unit toward the chosen side, clamped between its new neighbors so the
// order invariant holds immediately. No other orb moves this tick; the
// next CloseGaps pass restores spacing. Returns the orb and its index,
// or (nil, -1) when hitIndex is out of range.
func (c *Chain) Insert(hitIndex int, side InsertSide, color OrbColor) (*Orb, int) {
	if hitIndex < 0 || hitIndex >= len(c.orbs) {
		return nil, -1
	}

	hit := c.orbs[hitIndex]
	dist := hit.Distance - c.spacing
	idx := hitIndex + 1
	if side == InsertFront {
		dist = hit.Distance + c.spacing
		idx = hitIndex
	}

	// Clamp between the orbs that will flank the insertion slot.
	if idx > 0 && dist > c.orbs[idx-1].Distance {
		dist = c.orbs[idx-1].Distance
	}
	if idx < len(c.orbs) && dist < c.orbs[idx].Distance {
		dist = c.orbs[idx].Distance
	}

	orb := NewOrb(c.allocID(), color, dist)
	c.orbs = append(c.orbs, nil)
	copy(c.orbs[idx+1:], c.orbs[idx:])
	c.orbs[idx] = orb
	return orb, idx
}

// RemoveRange removes orbs[start:end] (half-open) and returns them in
// chain order. The resulting gap is restored by CloseGaps over the
// following ticks.
func (c *Chain) RemoveRange(start, end int) []*Orb {
	if start < 0 {
		start = 0
	}
	if end > len(c.orbs) {
		end = len(c.orbs)
	}
	if start >= end {
		return nil
	}

	removed := make([]*Orb, end-start)
	copy(removed, c.orbs[start:end])
	c.orbs = append(c.orbs[:start], c.orbs[end:]...)
	return removed
}

// CloseGaps restores the spacing invariant in two passes. Pass 1
// instantly pushes intruding orbs apart so insertion overlap never
// survives a tick. Pass 2 pulls each trailing orb toward the one ahead
// at gapCloseFactor times the base chain speed, capped so the pull can
// never overtake. Returns how many gaps finished closing this tick.
// Negative or zero dt is a no-op.
func (c *Chain) CloseGaps(dt float64) int {
	if dt <= 0 || len(c.orbs) < 2 {
		return 0
	}

	// Pass 1: minimum spacing. Pushes propagate toward the head.
	for i := len(c.orbs) - 2; i >= 0; i-- {
		min := c.orbs[i+1].Distance + c.spacing
		if c.orbs[i].Distance < min {
			c.orbs[i].Distance = min
		}
	}

	// Pass 2: bounded pull toward the orb ahead.
	closed := 0
	maxStep := c.gapCloseFactor * c.speed * dt
	for i := 1; i < len(c.orbs); i++ {
		gap := c.orbs[i-1].Distance - c.orbs[i].Distance
		if gap <= c.spacing {
			continue
		}
		step := maxStep
		if step >= gap-c.spacing {
			step = gap - c.spacing
			closed++
		}
		c.orbs[i].Distance += step
	}
	return closed
}

// Slow applies the slow powerup to the chain for the given duration.
func (c *Chain) Slow(duration float64) {
	if duration > c.slowTimer {
		c.slowTimer = duration
	}
}

// Reverse rolls the chain backward for the given duration.
func (c *Chain) Reverse(duration float64) {
	if duration > c.reverseTimer {
		c.reverseTimer = duration
	}
}

// DangerRatio is the head orb's fractional progress toward the portal,
// clamped to [0, 1]. An empty chain reports zero danger.
func (c *Chain) DangerRatio() float64 {
	if len(c.orbs) == 0 {
		return 0
	}
	return clampF(c.orbs[0].Distance/c.path.Length(), 0, 1)
}

// Head returns the orb closest to the portal, or nil when empty.
func (c *Chain) Head() *Orb {
	if len(c.orbs) == 0 {
		return nil
	}
	return c.orbs[0]
}

// Len returns the number of orbs in the chain.
func (c *Chain) Len() int { return len(c.orbs) }

// At returns the orb at index i, or nil when out of range.
func (c *Chain) At(i int) *Orb {
	if i < 0 || i >= len(c.orbs) {
		return nil
	}
	return c.orbs[i]
}

// Spacing returns the minimum center-to-center distance.
func (c *Chain) Spacing() float64 { return c.spacing }

// Path returns the path the chain advances along.
func (c *Chain) Path() *Path { return c.path }

// OrbPosition resolves the board position of the orb at index i.
// Orbs still behind the spawn point report the path start.
func (c *Chain) OrbPosition(i int) Vec2 {
	return c.path.PositionAt(c.orbs[i].Distance)
}

// SpawnRemaining returns how many orbs the level budget still allows.
func (c *Chain) SpawnRemaining() int {
	r := c.maxOrbs - c.spawned
	if r < 0 {
		return 0
	}
	return r
}

// Cleared reports whether the level's chain is finished: no orbs left
// and nothing remaining to spawn.
func (c *Chain) Cleared() bool {
	return len(c.orbs) == 0 && c.SpawnRemaining() == 0
}

// ColorsPresent returns the distinct playable colors currently on the
// chain in first-seen head-to-tail order. Rainbow and powerup orbs are
// skipped. Used by the shooter so the queue only offers useful colors.
func (c *Chain) ColorsPresent() []OrbColor {
	var present []OrbColor
	var seen [16]bool
	for _, o := range c.orbs {
		if o.Color.IsPowerup() || o.Color == ColorRainbow {
			continue
		}
		if !seen[o.Color] {
			seen[o.Color] = true
			present = append(present, o.Color)
		}
	}
	return present
}

// checkInvariants verifies the order invariant. Spacing is checked by
// tests separately since gap closing legitimately relaxes it mid-pull.
func (c *Chain) checkInvariants() error {
	for i := 1; i < len(c.orbs); i++ {
		if c.orbs[i].Distance > c.orbs[i-1].Distance {
			return fmt.Errorf("chain: order violated at %d: %.3f > %.3f",
				i, c.orbs[i].Distance, c.orbs[i-1].Distance)
		}
	}
	return nil
}
