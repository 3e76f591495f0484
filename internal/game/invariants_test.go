package game

import (
	"math"
	"math/rand"
	"testing"

	"pgregory.net/rapid"
)

// TestChainInvariantsRandomOps drives a chain through random operation
// sequences and checks the order invariant after every step. Spacing is
// checked right after gap closing, the only point it is guaranteed.
func TestChainInvariantsRandomOps(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		params := testLevelParams()
		params.InitialOrbs = rapid.IntRange(0, 5).Draw(rt, "initialOrbs")
		params.MaxOrbs = rapid.IntRange(params.InitialOrbs, 30).Draw(rt, "maxOrbs")

		path, err := NewPath(params.Waypoints)
		if err != nil {
			rt.Fatalf("NewPath failed: %v", err)
		}
		seed := rapid.Int64().Draw(rt, "seed")
		c := NewChain(path, params, 64, rand.New(rand.NewSource(seed)))

		rt.Repeat(map[string]func(*rapid.T){
			"advance": func(rt *rapid.T) {
				c.Advance(rapid.Float64Range(0, 0.5).Draw(rt, "dt"))
			},
			"spawn": func(rt *rapid.T) {
				c.SpawnTail(rapid.Float64Range(0, 2).Draw(rt, "spawnDt"))
			},
			"insert": func(rt *rapid.T) {
				if c.Len() == 0 {
					return
				}
				idx := rapid.IntRange(0, c.Len()-1).Draw(rt, "hitIndex")
				side := InsertBehind
				if rapid.Bool().Draw(rt, "front") {
					side = InsertFront
				}
				color := rapid.SampledFrom(PlayableColors()).Draw(rt, "color")
				orb, at := c.Insert(idx, side, color)
				if orb == nil || at < 0 || at >= c.Len() {
					rt.Fatalf("Insert at %d returned index %d", idx, at)
				}
				if c.At(at) != orb {
					rt.Fatalf("Inserted orb not found at index %d", at)
				}
			},
			"remove": func(rt *rapid.T) {
				if c.Len() == 0 {
					return
				}
				start := rapid.IntRange(0, c.Len()-1).Draw(rt, "start")
				end := rapid.IntRange(start+1, c.Len()).Draw(rt, "end")
				before := c.Len()
				removed := c.RemoveRange(start, end)
				if c.Len()+len(removed) != before {
					rt.Fatalf("RemoveRange lost orbs: %d + %d != %d",
						c.Len(), len(removed), before)
				}
			},
			"closeGaps": func(rt *rapid.T) {
				c.CloseGaps(rapid.Float64Range(0.001, 0.1).Draw(rt, "gapDt"))
				for i := 1; i < c.Len(); i++ {
					gap := c.At(i-1).Distance - c.At(i).Distance
					if gap < c.Spacing()-1e-6 {
						rt.Fatalf("Gap %d below spacing after CloseGaps: %v", i, gap)
					}
				}
			},
			"slow": func(rt *rapid.T) {
				c.Slow(rapid.Float64Range(0, SlowPowerDuration).Draw(rt, "slowDur"))
			},
			"reverse": func(rt *rapid.T) {
				c.Reverse(rapid.Float64Range(0, ReversePowerDuration).Draw(rt, "revDur"))
			},
			"": func(rt *rapid.T) {
				if err := c.checkInvariants(); err != nil {
					rt.Fatal(err)
				}
				if r := c.DangerRatio(); r < 0 || r > 1 {
					rt.Fatalf("DangerRatio out of range: %v", r)
				}
				if c.spawned > c.maxOrbs {
					rt.Fatalf("Spawn budget exceeded: %d > %d", c.spawned, c.maxOrbs)
				}
			},
		})
	})
}

// TestClockMultiplierProperties checks the slow-motion ramp stays inside
// [floor, 1], runs full speed below the threshold, and never speeds the
// game up as danger grows.
func TestClockMultiplierProperties(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		const threshold, floor = 0.85, 0.6
		dt := rapid.Float64Range(0.001, 0.1).Draw(rt, "dt")
		r1 := rapid.Float64Range(0, 1).Draw(rt, "ratioLow")
		r2 := rapid.Float64Range(0, 1).Draw(rt, "ratioHigh")
		if r1 > r2 {
			r1, r2 = r2, r1
		}

		c1 := NewSimulationClock(threshold, floor)
		c2 := NewSimulationClock(threshold, floor)
		e1, _, _ := c1.Advance(dt, r1)
		c2.Advance(dt, r2)

		if e1 < floor*dt-1e-12 || e1 > dt+1e-12 {
			rt.Fatalf("Effective dt %v out of bounds for raw %v", e1, dt)
		}
		if r1 < threshold && e1 != dt {
			rt.Fatalf("Below threshold should run full speed: %v != %v", e1, dt)
		}
		if c1.Multiplier() < c2.Multiplier()-1e-12 {
			rt.Fatalf("Multiplier rose with danger: %v at ratio %v vs %v at %v",
				c1.Multiplier(), r1, c2.Multiplier(), r2)
		}
	})
}

// TestMatchResolutionProperties checks conservation and the minimum run
// size over random chains: orbs only leave through the result set, and
// a non-empty result removes at least one full run.
func TestMatchResolutionProperties(t *testing.T) {
	playable := []OrbColor{ColorRed, ColorBlue, ColorGreen}
	rapid.Check(t, func(rt *rapid.T) {
		colors := rapid.SliceOfN(rapid.SampledFrom(playable), 1, 24).Draw(rt, "colors")

		params := testLevelParams()
		path, err := NewPath(params.Waypoints)
		if err != nil {
			rt.Fatalf("NewPath failed: %v", err)
		}
		c := NewChain(path, params, 512, rand.New(rand.NewSource(1)))
		distances := make([]float64, len(colors))
		for i := range distances {
			distances[i] = 800 - float64(i)*c.Spacing()
		}
		placeOrbs(c, colors, distances)

		seed := rapid.IntRange(0, len(colors)-1).Draw(rt, "seedIndex")
		before := c.Len()
		res := NewMatchResolver().ResolveAt(c, seed)

		if c.Len()+len(res.Removed) != before {
			rt.Fatalf("Resolution lost orbs: %d + %d != %d",
				c.Len(), len(res.Removed), before)
		}
		if n := len(res.Removed); n != 0 && n < 3 {
			rt.Fatalf("Partial run removed: %d orbs", n)
		}
		if res.Matched() != (len(res.Removed) > 0) {
			rt.Fatalf("Matched() disagrees with %d removed", len(res.Removed))
		}
		if res.Matched() && res.MaxDepth < 1 {
			rt.Fatalf("Matched result reports depth %d", res.MaxDepth)
		}
		if err := c.checkInvariants(); err != nil {
			rt.Fatal(err)
		}
	})
}

// TestPathGeometryProperties checks arc-length lookups stay on the
// polyline: chords never exceed arc length, tangents are unit vectors,
// and distance zero is the first waypoint.
func TestPathGeometryProperties(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(2, 8).Draw(rt, "waypointCount")
		pts := make([]Vec2, n)
		for i := range pts {
			pts[i] = Vec2{
				X: rapid.Float64Range(0, 1366).Draw(rt, "x"),
				Y: rapid.Float64Range(0, 768).Draw(rt, "y"),
			}
		}
		path, err := NewPath(pts)
		if err != nil {
			// Draw collapsed to a single distinct point; nothing to check.
			return
		}

		d1 := rapid.Float64Range(0, path.Length()).Draw(rt, "d1")
		d2 := rapid.Float64Range(0, path.Length()).Draw(rt, "d2")
		if d1 > d2 {
			d1, d2 = d2, d1
		}

		chord := path.PositionAt(d2).Sub(path.PositionAt(d1)).Len()
		if chord > (d2-d1)+1e-6 {
			rt.Fatalf("Chord %v exceeds arc length %v", chord, d2-d1)
		}
		if tan := path.TangentAt(d1); math.Abs(tan.Len()-1) > 1e-9 {
			rt.Fatalf("Tangent at %v is not unit length: %v", d1, tan.Len())
		}
		if start := path.PositionAt(0); start != pts[0] {
			rt.Fatalf("Expected start %v, got %v", pts[0], start)
		}
		if back := path.PositionAt(-10); back != pts[0] {
			rt.Fatalf("Negative distance should clamp to start, got %v", back)
		}
	})
}
