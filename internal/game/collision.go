package game

import (
	"math"

	"chainshot/internal/game/spatial"
)

// Hit describes the first contact between a projectile sweep and a
// chain orb.
type Hit struct {
	OrbIndex int        // index into the chain at sweep time
	OrbID    uint64     // stable orb identity for events
	Side     InsertSide // which side of the struck orb to splice on
	Point    Vec2       // projectile center at contact
	SubStep  int        // sub-step that made contact, for diagnostics
}

// CollisionDetector sweeps projectile motion against the chain.
// The per-tick travel is cut into sub-steps no longer than one orb
// radius so a fast projectile cannot tunnel between samples. Broad
// phase is a uniform grid rebuilt per sweep (orb positions change
// every tick); narrow phase is exact circle overlap.
type CollisionDetector struct {
	grid        *spatial.Grid
	maxSubSteps int
	positions   []Vec2 // scratch, orb centers resolved once per sweep
}

// NewCollisionDetector sizes the broad phase for the board. cellSize
// should be around twice the orb diameter; maxSubSteps bounds the
// sweep cost per tick.
func NewCollisionDetector(boardW, boardH, cellSize float64, maxOrbs, maxSubSteps int) *CollisionDetector {
	if maxSubSteps < 1 {
		maxSubSteps = 1
	}
	return &CollisionDetector{
		grid:        spatial.NewGrid(boardW, boardH, cellSize, maxOrbs),
		maxSubSteps: maxSubSteps,
		positions:   make([]Vec2, 0, maxOrbs),
	}
}

// Sweep samples the segment from prev to cur and returns the first
// contact with a chain orb, or nil. Determinism on simultaneous
// contacts: earliest sub-step wins, then smallest center distance,
// then lowest chain index.
//
// The insertion side comes from the approach direction: a projectile
// moving with the path tangent at the struck orb lands on the portal
// side, one moving against it lands on the spawn side.
func (cd *CollisionDetector) Sweep(c *Chain, prev, cur Vec2, projRadius float64, velocity Vec2) *Hit {
	n := c.Len()
	if n == 0 {
		return nil
	}

	cd.positions = cd.positions[:0]
	cd.grid.Clear()
	for i := 0; i < n; i++ {
		pos := c.OrbPosition(i)
		cd.positions = append(cd.positions, pos)
		cd.grid.Insert(uint32(i), pos.X, pos.Y)
	}

	orbR := c.At(0).Radius
	travel := cur.Sub(prev).Len()
	steps := 1
	if travel > orbR {
		steps = int(math.Ceil(travel / orbR))
		if steps > cd.maxSubSteps {
			steps = cd.maxSubSteps
		}
	}

	for k := 1; k <= steps; k++ {
		t := float64(k) / float64(steps)
		point := prev.Lerp(cur, t)

		best := -1
		bestD2 := math.MaxFloat64
		for _, id := range cd.grid.QueryRadius(point.X, point.Y, projRadius+orbR) {
			i := int(id)
			rr := projRadius + c.At(i).Radius
			d2 := point.DistSq(cd.positions[i])
			if d2 >= rr*rr {
				continue
			}
			if d2 < bestD2 || (d2 == bestD2 && i < best) {
				bestD2 = d2
				best = i
			}
		}
		if best < 0 {
			continue
		}

		side := InsertBehind
		if velocity.Dot(c.Path().TangentAt(c.At(best).Distance)) >= 0 {
			side = InsertFront
		}
		return &Hit{
			OrbIndex: best,
			OrbID:    c.At(best).ID,
			Side:     side,
			Point:    point,
			SubStep:  k,
		}
	}
	return nil
}
