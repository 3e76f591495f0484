package game

// DefaultOrbRadius is the orb hitbox radius in pixels. Chain spacing is
// twice this value, center to center.
const DefaultOrbRadius = 17.0

// OrbColor identifies an orb's color or powerup type.
// uint8 keeps orbs and snapshots compact.
type OrbColor uint8

const (
	ColorRed OrbColor = iota
	ColorBlue
	ColorGreen
	ColorYellow
	ColorPurple
	ColorRainbow // matches any playable color
	PowerBomb    // powerups never color-match; they trigger on direct hit
	PowerSlow
	PowerReverse
	PowerAccuracy
)

// String returns a human-readable color name.
func (c OrbColor) String() string {
	switch c {
	case ColorRed:
		return "red"
	case ColorBlue:
		return "blue"
	case ColorGreen:
		return "green"
	case ColorYellow:
		return "yellow"
	case ColorPurple:
		return "purple"
	case ColorRainbow:
		return "rainbow"
	case PowerBomb:
		return "bomb"
	case PowerSlow:
		return "slow"
	case PowerReverse:
		return "reverse"
	case PowerAccuracy:
		return "accuracy"
	default:
		return "unknown"
	}
}

// IsPowerup reports whether the orb type is a powerup rather than a
// matchable color.
func (c OrbColor) IsPowerup() bool { return c >= PowerBomb }

// Matches reports whether two orb types form a color match.
// Powerups never match; Rainbow matches every playable color.
func (c OrbColor) Matches(other OrbColor) bool {
	if c.IsPowerup() || other.IsPowerup() {
		return false
	}
	if c == ColorRainbow || other == ColorRainbow {
		return true
	}
	return c == other
}

// PlayableColors lists the five colors eligible for spawning and firing.
// Callers must not modify the returned slice.
func PlayableColors() []OrbColor {
	return playableColors
}

var playableColors = []OrbColor{ColorRed, ColorBlue, ColorGreen, ColorYellow, ColorPurple}

// Orb is a single chain unit. Distance along the path is the single
// source of truth for its position; screen coordinates are always
// derived through a Path lookup and never stored here.
type Orb struct {
	ID       uint64
	Color    OrbColor
	Distance float64
	Radius   float64
}

// NewOrb creates an orb at the given path distance with the default radius.
func NewOrb(id uint64, color OrbColor, distance float64) *Orb {
	return &Orb{
		ID:       id,
		Color:    color,
		Distance: distance,
		Radius:   DefaultOrbRadius,
	}
}
