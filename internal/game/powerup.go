package game

// AccuracyPowerDuration is how long the aim guide stays on, seconds.
const AccuracyPowerDuration = 10.0

// PowerupSpec describes the tuning for one powerup orb type.
type PowerupSpec struct {
	Name     string  `json:"name"`
	Radius   int     `json:"radius"`   // bomb: orbs cleared on each side of the impact
	Factor   float64 `json:"factor"`   // slow/reverse: chain speed multiplier
	Duration float64 `json:"duration"` // timed effects, seconds
	Bonus    int     `json:"bonus"`    // bomb: score per cleared orb
}

// PowerupSpecs maps powerup orb colors to their tuning.
var PowerupSpecs = map[OrbColor]PowerupSpec{
	PowerBomb:     {Name: "bomb", Radius: 2, Bonus: 50},
	PowerSlow:     {Name: "slow", Factor: SlowPowerFactor, Duration: SlowPowerDuration},
	PowerReverse:  {Name: "reverse", Factor: ReversePowerFactor, Duration: ReversePowerDuration},
	PowerAccuracy: {Name: "accuracy", Duration: AccuracyPowerDuration},
}

// GetPowerup returns the tuning for a powerup orb color. Non-powerup
// colors return a zero spec; callers gate on IsPowerup first.
func GetPowerup(kind OrbColor) PowerupSpec {
	return PowerupSpecs[kind]
}

// PowerupActivation records one triggered powerup for scoring and
// events. GapIndex is where the blast opened the chain, -1 when the
// effect removed nothing.
type PowerupActivation struct {
	Kind     OrbColor `json:"kind"`
	Removed  []*Orb   `json:"removed,omitempty"` // bomb blast victims
	Bonus    int      `json:"bonus"`             // flat score bonus
	Duration float64  `json:"duration"`          // timed effects
	GapIndex int      `json:"-"`
}

// PowerupManager applies powerup effects to the chain and tracks the
// one timer that does not live on the chain itself: the accuracy aim
// guide, which is a shooter-side flag surfaced in snapshots.
type PowerupManager struct {
	accuracyTimer float64
}

// NewPowerupManager returns a manager with no active effects.
func NewPowerupManager() *PowerupManager {
	return &PowerupManager{}
}

// Trigger applies the effect of the given powerup orb. center is the
// chain index the effect originates from; the bomb clears orbs around
// it, the others ignore it.
func (pm *PowerupManager) Trigger(kind OrbColor, c *Chain, center int) PowerupActivation {
	spec := GetPowerup(kind)
	act := PowerupActivation{Kind: kind, Duration: spec.Duration, GapIndex: -1}

	switch kind {
	case PowerBomb:
		start := center - spec.Radius
		if start < 0 {
			start = 0
		}
		act.Removed = c.RemoveRange(start, center+spec.Radius+1)
		act.Bonus = len(act.Removed) * spec.Bonus
		if len(act.Removed) > 0 {
			act.GapIndex = start
		}
	case PowerSlow:
		c.Slow(spec.Duration)
	case PowerReverse:
		c.Reverse(spec.Duration)
	case PowerAccuracy:
		if spec.Duration > pm.accuracyTimer {
			pm.accuracyTimer = spec.Duration
		}
	}
	return act
}

// Update ticks the accuracy timer by the effective dt.
func (pm *PowerupManager) Update(dt float64) {
	if dt <= 0 {
		return
	}
	if pm.accuracyTimer > 0 {
		pm.accuracyTimer -= dt
	}
}

// AccuracyActive reports whether the aim guide is on.
func (pm *PowerupManager) AccuracyActive() bool {
	return pm.accuracyTimer > 0
}

// Reset clears all effect timers, used on level transitions.
func (pm *PowerupManager) Reset() {
	pm.accuracyTimer = 0
}
