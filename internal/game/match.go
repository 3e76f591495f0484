package game

// RunRemoval is one contiguous run cleared during match resolution.
// Depth is 1 for the run containing the inserted orb and grows by one
// per chain reaction triggered across a closed gap.
type RunRemoval struct {
	Color OrbColor `json:"color"`
	Orbs  []*Orb   `json:"orbs"`
	Depth int      `json:"depth"`
}

// MatchResult aggregates a full resolution pass: the direct match plus
// every chain reaction it set off.
type MatchResult struct {
	Removed  []*Orb       // all removed orbs, removal order
	Runs     []RunRemoval // one entry per cleared run
	MaxDepth int          // 0 when nothing matched
}

// Matched reports whether the pass removed anything.
func (r MatchResult) Matched() bool { return len(r.Removed) > 0 }

// MatchResolver clears color runs around an insertion point and
// follows up chain reactions. Resolution runs only after an insertion
// or a powerup removal, never on tail spawns, so two same-colored orbs
// spawning next to each other sit harmlessly until a third arrives.
type MatchResolver struct {
	minRun int
}

// NewMatchResolver returns a resolver with the standard 3-orb minimum.
func NewMatchResolver() *MatchResolver {
	return &MatchResolver{minRun: 3}
}

// ResolveAt expands the run containing the orb at seed, removes it if
// it spans at least minRun orbs, then repeatedly probes the closed gap
// for follow-up runs. Rainbow orbs match any playable color; powerups
// never match and cap a run on either side.
func (m *MatchResolver) ResolveAt(c *Chain, seed int) MatchResult {
	if seed < 0 || seed >= c.Len() {
		return MatchResult{}
	}
	ec, ok := effectiveSeedColor(c, seed)
	if !ok {
		return MatchResult{}
	}
	lo, hi := expandRun(c, seed, seed, ec)
	if hi-lo+1 < m.minRun {
		return MatchResult{}
	}
	return m.removeRuns(c, lo, hi, ec)
}

// ResolveGap probes the adjacency created when orbs were removed
// outside normal matching, such as a bomb blast. gap is the index
// where the removal started; if the orbs that met across it form a
// run, it clears like a direct match.
func (m *MatchResolver) ResolveGap(c *Chain, gap int) MatchResult {
	lo, hi, ec, ok := m.probeGap(c, gap)
	if !ok {
		return MatchResult{}
	}
	return m.removeRuns(c, lo, hi, ec)
}

// probeGap checks whether the orbs meeting at [gap-1, gap] form a
// removable run and returns its extent.
func (m *MatchResolver) probeGap(c *Chain, gap int) (lo, hi int, ec OrbColor, ok bool) {
	if gap-1 < 0 || gap >= c.Len() {
		return 0, 0, 0, false
	}
	a, b := c.At(gap-1).Color, c.At(gap).Color
	if !a.Matches(b) {
		return 0, 0, 0, false
	}
	ec = pairColor(a, b)
	lo, hi = expandRun(c, gap-1, gap, ec)
	if hi-lo+1 < m.minRun {
		return 0, 0, 0, false
	}
	return lo, hi, ec, true
}

// removeRuns clears [lo, hi] and keeps clearing while the closed gap
// keeps producing runs, bumping the depth each round.
func (m *MatchResolver) removeRuns(c *Chain, lo, hi int, ec OrbColor) MatchResult {
	var res MatchResult
	depth := 1
	for {
		removed := c.RemoveRange(lo, hi+1)
		res.Removed = append(res.Removed, removed...)
		res.Runs = append(res.Runs, RunRemoval{Color: ec, Orbs: removed, Depth: depth})
		res.MaxDepth = depth

		lo2, hi2, ec2, ok := m.probeGap(c, lo)
		if !ok {
			break
		}
		lo, hi, ec = lo2, hi2, ec2
		depth++
	}
	return res
}

// effectiveSeedColor resolves the color a run around seed is scored
// against. A rainbow seed adopts the first playable color found by
// walking through consecutive rainbows, portal side first; a chain of
// nothing but rainbows matches as rainbow. Powerup seeds never match.
func effectiveSeedColor(c *Chain, seed int) (OrbColor, bool) {
	col := c.At(seed).Color
	if col.IsPowerup() {
		return col, false
	}
	if col != ColorRainbow {
		return col, true
	}
	for j := seed - 1; j >= 0; j-- {
		n := c.At(j).Color
		if n == ColorRainbow {
			continue
		}
		if n.IsPowerup() {
			break
		}
		return n, true
	}
	for j := seed + 1; j < c.Len(); j++ {
		n := c.At(j).Color
		if n == ColorRainbow {
			continue
		}
		if n.IsPowerup() {
			break
		}
		return n, true
	}
	return ColorRainbow, true
}

// pairColor picks the effective color for a run seeded by two adjacent
// matching orbs.
func pairColor(a, b OrbColor) OrbColor {
	if a != ColorRainbow {
		return a
	}
	if b != ColorRainbow {
		return b
	}
	return ColorRainbow
}

// expandRun widens [lo, hi] while neighbors keep matching the
// effective color and returns the widest contiguous run.
func expandRun(c *Chain, lo, hi int, ec OrbColor) (int, int) {
	for lo-1 >= 0 && runMember(c.At(lo-1).Color, ec) {
		lo--
	}
	for hi+1 < c.Len() && runMember(c.At(hi+1).Color, ec) {
		hi++
	}
	return lo, hi
}

// runMember reports whether an orb of the given color belongs to a run
// scored against the effective color.
func runMember(col, ec OrbColor) bool {
	if col.IsPowerup() {
		return false
	}
	if ec == ColorRainbow {
		return col == ColorRainbow
	}
	return col == ec || col == ColorRainbow
}
