package game

// SimulationClock turns raw tick deltas into the single effective dt
// that every gameplay component advances by. Once the chain head
// crosses the danger threshold the multiplier ramps down linearly,
// bottoming out at the floor as the head touches the portal. While
// paused the clock yields zero, which makes the whole update pass a
// strict no-op.
type SimulationClock struct {
	dangerThreshold float64
	minMultiplier   float64

	paused     bool
	multiplier float64
	inDanger   bool
}

// NewSimulationClock builds a clock with the given danger threshold in
// (0, 1) and multiplier floor.
func NewSimulationClock(dangerThreshold, minMultiplier float64) *SimulationClock {
	return &SimulationClock{
		dangerThreshold: dangerThreshold,
		minMultiplier:   minMultiplier,
		multiplier:      1,
	}
}

// Advance computes the effective dt for one tick given the raw delta
// and the chain's current danger ratio. It also reports danger zone
// transitions so the caller can emit enter/exit events exactly once.
func (sc *SimulationClock) Advance(raw, dangerRatio float64) (dt float64, entered, exited bool) {
	sc.multiplier = sc.computeMultiplier(dangerRatio)

	wasDanger := sc.inDanger
	sc.inDanger = dangerRatio >= sc.dangerThreshold
	entered = sc.inDanger && !wasDanger
	exited = !sc.inDanger && wasDanger

	if sc.paused || raw <= 0 {
		return 0, entered, exited
	}
	return raw * sc.multiplier, entered, exited
}

func (sc *SimulationClock) computeMultiplier(ratio float64) float64 {
	if ratio < sc.dangerThreshold {
		return 1
	}
	span := 1 - sc.dangerThreshold
	if span <= 0 {
		return sc.minMultiplier
	}
	t := (ratio - sc.dangerThreshold) / span
	if t > 1 {
		t = 1
	}
	return 1 - t*(1-sc.minMultiplier)
}

// SetPaused flips the pause gate and reports whether the state changed.
func (sc *SimulationClock) SetPaused(paused bool) bool {
	if sc.paused == paused {
		return false
	}
	sc.paused = paused
	return true
}

// Paused reports the pause gate.
func (sc *SimulationClock) Paused() bool { return sc.paused }

// Multiplier returns the danger multiplier computed on the last tick.
func (sc *SimulationClock) Multiplier() float64 { return sc.multiplier }

// InDanger reports whether the head was inside the danger zone on the
// last tick.
func (sc *SimulationClock) InDanger() bool { return sc.inDanger }
