package game

import (
	"fmt"
)

// lutSamplesPerSegment controls the density of the arc-length lookup
// table. Four samples per segment keeps the forward walk in segmentAt
// to at most one step in practice.
const lutSamplesPerSegment = 4

// Path is an immutable polyline the chain travels along. Distance 0 is
// the spawn end, Length() is the portal end. Construction precomputes
// cumulative segment lengths plus a uniform arc-length lookup table so
// position and tangent queries are O(1) amortized.
type Path struct {
	points  []Vec2
	cumLen  []float64 // cumLen[i] = arc length from start to points[i]
	length  float64
	lut     []int // uniform distance sample -> containing segment index
	lutStep float64
}

// NewPath builds a path from ordered waypoints. Consecutive duplicate
// points are dropped; at least two distinct points are required.
func NewPath(waypoints []Vec2) (*Path, error) {
	pts := make([]Vec2, 0, len(waypoints))
	for _, p := range waypoints {
		if len(pts) > 0 && pts[len(pts)-1] == p {
			continue
		}
		pts = append(pts, p)
	}
	if len(pts) < 2 {
		return nil, fmt.Errorf("path: need at least 2 distinct waypoints, got %d", len(pts))
	}

	cum := make([]float64, len(pts))
	for i := 1; i < len(pts); i++ {
		cum[i] = cum[i-1] + pts[i].Dist(pts[i-1])
	}
	total := cum[len(cum)-1]
	if total <= 0 {
		return nil, fmt.Errorf("path: zero total length")
	}

	p := &Path{points: pts, cumLen: cum, length: total}
	p.buildLUT()
	return p, nil
}

// buildLUT samples the path at uniform arc-length steps and records the
// segment containing each sample.
func (p *Path) buildLUT() {
	n := (len(p.points) - 1) * lutSamplesPerSegment
	if n < 64 {
		n = 64
	}
	p.lut = make([]int, n+1)
	p.lutStep = p.length / float64(n)

	seg := 0
	for i := 0; i <= n; i++ {
		d := float64(i) * p.lutStep
		for seg < len(p.points)-2 && p.cumLen[seg+1] < d {
			seg++
		}
		p.lut[i] = seg
	}
}

// segmentAt returns the index of the segment containing distance d.
// d must already be clamped to [0, length].
func (p *Path) segmentAt(d float64) int {
	i := int(d / p.lutStep)
	if i >= len(p.lut) {
		i = len(p.lut) - 1
	}
	seg := p.lut[i]
	for seg < len(p.points)-2 && p.cumLen[seg+1] < d {
		seg++
	}
	return seg
}

// Length returns the total arc length.
func (p *Path) Length() float64 { return p.length }

// PositionAt returns the point at arc-length distance d, clamped to
// [0, Length()]. Pure; no side effects.
func (p *Path) PositionAt(d float64) Vec2 {
	d = clampF(d, 0, p.length)
	seg := p.segmentAt(d)
	segLen := p.cumLen[seg+1] - p.cumLen[seg]
	if segLen <= 0 {
		return p.points[seg]
	}
	t := (d - p.cumLen[seg]) / segLen
	return p.points[seg].Lerp(p.points[seg+1], t)
}

// TangentAt returns the unit travel direction at arc-length distance d,
// clamped like PositionAt. The tangent points toward the portal end.
func (p *Path) TangentAt(d float64) Vec2 {
	d = clampF(d, 0, p.length)
	seg := p.segmentAt(d)
	return p.points[seg+1].Sub(p.points[seg]).Normalize()
}

// Start returns the spawn-end point.
func (p *Path) Start() Vec2 { return p.points[0] }

// End returns the portal point.
func (p *Path) End() Vec2 { return p.points[len(p.points)-1] }

// Waypoints returns a copy of the path's control points, for rendering.
func (p *Path) Waypoints() []Vec2 {
	out := make([]Vec2, len(p.points))
	copy(out, p.points)
	return out
}
