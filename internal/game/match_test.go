package game

import "testing"

// resolveChain builds a chain with the given colors spaced one spacing
// apart and resolves at seed.
func resolveChain(t *testing.T, colors []OrbColor, seed int) (*Chain, MatchResult) {
	t.Helper()
	c := newTestChain(t, testLevelParams())
	distances := make([]float64, len(colors))
	for i := range distances {
		distances[i] = 800 - float64(i)*c.Spacing()
	}
	placeOrbs(c, colors, distances)
	return c, NewMatchResolver().ResolveAt(c, seed)
}

// TestResolveAtBasicMatch verifies the canonical clear: inserting the
// third blue into R R B B B G clears the blues and leaves R R G.
func TestResolveAtBasicMatch(t *testing.T) {
	c, res := resolveChain(t,
		[]OrbColor{ColorRed, ColorRed, ColorBlue, ColorBlue, ColorBlue, ColorGreen}, 3)

	if !res.Matched() {
		t.Fatal("Expected a match")
	}
	if len(res.Removed) != 3 {
		t.Errorf("Expected 3 removed, got %d", len(res.Removed))
	}
	if res.MaxDepth != 1 {
		t.Errorf("Expected depth 1, got %d", res.MaxDepth)
	}
	want := []OrbColor{ColorRed, ColorRed, ColorGreen}
	got := chainColors(c)
	if len(got) != len(want) {
		t.Fatalf("Expected %d survivors, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Survivor %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

// TestResolveAtNoFalseMatch verifies a pair never clears and that
// resolution does not disturb the chain.
func TestResolveAtNoFalseMatch(t *testing.T) {
	c, res := resolveChain(t,
		[]OrbColor{ColorRed, ColorBlue, ColorBlue, ColorGreen}, 1)

	if res.Matched() {
		t.Errorf("Pair of blues cleared: removed %d", len(res.Removed))
	}
	if c.Len() != 4 {
		t.Errorf("Chain disturbed: %d orbs left", c.Len())
	}
}

// TestResolveAtChainReaction verifies cascades across a closed gap:
// clearing the greens from R G G G R R reunites three reds at depth 2.
func TestResolveAtChainReaction(t *testing.T) {
	c, res := resolveChain(t,
		[]OrbColor{ColorRed, ColorGreen, ColorGreen, ColorGreen, ColorRed, ColorRed}, 2)

	if len(res.Removed) != 6 {
		t.Errorf("Expected all 6 removed, got %d", len(res.Removed))
	}
	if res.MaxDepth != 2 {
		t.Errorf("Expected depth 2, got %d", res.MaxDepth)
	}
	if len(res.Runs) != 2 {
		t.Fatalf("Expected 2 runs, got %d", len(res.Runs))
	}
	if res.Runs[0].Color != ColorGreen || res.Runs[0].Depth != 1 {
		t.Errorf("First run: expected green depth 1, got %s depth %d",
			res.Runs[0].Color, res.Runs[0].Depth)
	}
	if res.Runs[1].Color != ColorRed || res.Runs[1].Depth != 2 {
		t.Errorf("Second run: expected red depth 2, got %s depth %d",
			res.Runs[1].Color, res.Runs[1].Depth)
	}
	if c.Len() != 0 {
		t.Errorf("Expected empty chain, got %d orbs", c.Len())
	}
}

// TestResolveAtDeepCascade verifies a triple chain reaction: yellows
// clear, the greens they separated reunite and clear, then the blues.
func TestResolveAtDeepCascade(t *testing.T) {
	_, res := resolveChain(t,
		[]OrbColor{ColorBlue, ColorBlue, ColorGreen, ColorGreen, ColorYellow, ColorYellow, ColorYellow, ColorGreen, ColorBlue}, 4)

	// Yellows clear (depth 1), greens reunite and clear (depth 2),
	// blues reunite into B B + B = 3 and clear (depth 3).
	if res.MaxDepth != 3 {
		t.Errorf("Expected depth 3, got %d", res.MaxDepth)
	}
	if len(res.Removed) != 9 {
		t.Errorf("Expected 9 removed, got %d", len(res.Removed))
	}
}

// TestResolveAtRainbow verifies rainbow wildcard behavior in runs.
func TestResolveAtRainbow(t *testing.T) {
	tests := []struct {
		name        string
		colors      []OrbColor
		seed        int
		wantRemoved int
		wantColor   OrbColor
	}{
		{
			name:        "rainbow completes a pair",
			colors:      []OrbColor{ColorRed, ColorRed, ColorRainbow, ColorBlue},
			seed:        2,
			wantRemoved: 3,
			wantColor:   ColorRed,
		},
		{
			name:        "rainbow seed adopts portal-side color",
			colors:      []OrbColor{ColorBlue, ColorBlue, ColorRainbow, ColorRed, ColorRed},
			seed:        2,
			wantRemoved: 3,
			wantColor:   ColorBlue,
		},
		{
			name:        "rainbow inside a run counts as the run color",
			colors:      []OrbColor{ColorGreen, ColorRainbow, ColorGreen, ColorYellow},
			seed:        0,
			wantRemoved: 3,
			wantColor:   ColorGreen,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, res := resolveChain(t, tt.colors, tt.seed)
			if len(res.Removed) != tt.wantRemoved {
				t.Errorf("Expected %d removed, got %d", tt.wantRemoved, len(res.Removed))
			}
			if len(res.Runs) > 0 && res.Runs[0].Color != tt.wantColor {
				t.Errorf("Expected run color %s, got %s", tt.wantColor, res.Runs[0].Color)
			}
		})
	}
}

// TestResolveAtPowerupCapsRun verifies a powerup orb bounds the run on
// either side and never matches itself.
func TestResolveAtPowerupCapsRun(t *testing.T) {
	// Bomb splits what would be a 4-run into 2 + 2: nothing clears.
	_, res := resolveChain(t,
		[]OrbColor{ColorRed, ColorRed, PowerBomb, ColorRed, ColorRed}, 1)
	if res.Matched() {
		t.Errorf("Run through a powerup cleared %d orbs", len(res.Removed))
	}

	// Powerup seed never matches.
	_, res = resolveChain(t,
		[]OrbColor{ColorRed, PowerBomb, ColorRed}, 1)
	if res.Matched() {
		t.Error("Powerup seed produced a match")
	}
}

// TestResolveAtOutOfRange verifies invalid seeds return an empty result.
func TestResolveAtOutOfRange(t *testing.T) {
	c := newTestChain(t, testLevelParams())
	placeOrbs(c, []OrbColor{ColorRed}, []float64{100})

	r := NewMatchResolver()
	if r.ResolveAt(c, -1).Matched() || r.ResolveAt(c, 5).Matched() {
		t.Error("Out-of-range seed produced a match")
	}
}

// TestResolveGap verifies bomb-style gap probing: removal outside
// normal matching still triggers runs when the exposed neighbors match.
func TestResolveGap(t *testing.T) {
	c := newTestChain(t, testLevelParams())
	colors := []OrbColor{ColorRed, ColorRed, ColorBlue, ColorBlue, ColorRed, ColorGreen}
	distances := make([]float64, len(colors))
	for i := range distances {
		distances[i] = 800 - float64(i)*c.Spacing()
	}
	placeOrbs(c, colors, distances)

	// Remove the blues as a bomb would, then probe the gap at index 2.
	c.RemoveRange(2, 4)
	res := NewMatchResolver().ResolveGap(c, 2)

	if len(res.Removed) != 3 {
		t.Fatalf("Expected the 3 reunited reds to clear, got %d", len(res.Removed))
	}
	if c.Len() != 1 || c.At(0).Color != ColorGreen {
		t.Errorf("Expected only green to survive, got %d orbs", c.Len())
	}
}

// TestResolveGapNoMatch verifies gaps between different colors and gaps
// at the chain edges are quietly ignored.
func TestResolveGapNoMatch(t *testing.T) {
	c := newTestChain(t, testLevelParams())
	placeOrbs(c, []OrbColor{ColorRed, ColorBlue}, []float64{500, 466})

	r := NewMatchResolver()
	if r.ResolveGap(c, 1).Matched() {
		t.Error("Mismatched gap produced a match")
	}
	if r.ResolveGap(c, 0).Matched() {
		t.Error("Gap at head produced a match")
	}
	if r.ResolveGap(c, 2).Matched() {
		t.Error("Gap past tail produced a match")
	}
}
