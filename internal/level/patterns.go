package level

import (
	"math"

	"chainshot/internal/game"
)

// Path pattern names, in rotation order.
const (
	PatternSine       = "sine"
	PatternSCurve     = "s-curve"
	PatternSpiral     = "spiral"
	PatternZigzag     = "zigzag"
	PatternDoubleWave = "double-wave"
)

var patternOrder = []string{
	PatternSine,
	PatternSCurve,
	PatternSpiral,
	PatternZigzag,
	PatternDoubleWave,
}

// patternFor rotates through the pattern set by level number.
func patternFor(n int) string {
	return patternOrder[(n-1)%len(patternOrder)]
}

// Waypoints samples a pattern into a polyline running left to right
// across the board. The spawn edge sits 50px in, the portal 100px
// from the right edge. Amplitudes are fractions of board height small
// enough that every point stays on the board.
func Waypoints(pattern string, width, height float64, segments int) []game.Vec2 {
	if segments < 2 {
		segments = 2
	}
	startX := 50.0
	endX := width - 100.0
	mid := height / 2

	pts := make([]game.Vec2, 0, segments+1)
	for i := 0; i <= segments; i++ {
		p := float64(i) / float64(segments)
		pts = append(pts, game.Vec2{
			X: startX + (endX-startX)*p,
			Y: mid + patternOffset(pattern, p, height, i),
		})
	}
	return pts
}

// patternOffset returns the vertical offset from mid-height at
// progress p in [0,1]. seg disambiguates zigzag parity.
func patternOffset(pattern string, p, h float64, seg int) float64 {
	switch pattern {
	case PatternSine:
		return math.Sin(3*math.Pi*p) * 0.30 * h
	case PatternSCurve:
		return math.Sin(2*math.Pi*p)*0.25*h + (p-0.5)*0.2*h
	case PatternSpiral:
		// Amplitude decays toward the portal, echoing an inward coil.
		return math.Sin(4*math.Pi*p) * 0.20 * h * (1 - p)
	case PatternZigzag:
		off := 0.20 * h
		if seg%2 == 1 {
			off = -off
		}
		return off + math.Sin(2*math.Pi*p)*50
	case PatternDoubleWave:
		return math.Sin(3*math.Pi*p)*0.20*h + math.Sin(5*math.Pi*p)*0.10*h
	default:
		return 0
	}
}
