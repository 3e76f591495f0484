package game

import (
	"sync/atomic"
	"time"
)

// Limits defines hard caps so malformed levels or floods of input
// cannot balloon memory.
type Limits struct {
	MaxChainOrbs     int // Hard cap on orbs alive at once
	MaxSubSteps      int // Collision sweep sub-step cap per tick
	MaxEventsPerTick int // Events buffered per tick before dropping
}

// DefaultLimits is the sizing NewEngine falls back to when the config
// leaves Limits unset.
var DefaultLimits = Limits{
	MaxChainOrbs:     512,
	MaxSubSteps:      64,
	MaxEventsPerTick: 256,
}

// OrbSnapshot is an immutable copy of one chain orb for rendering and
// the API surface. Position is resolved from the path so consumers
// never need the path geometry.
type OrbSnapshot struct {
	ID        uint64   `json:"id"`
	Color     OrbColor `json:"color"`
	ColorName string   `json:"colorName"`
	Distance  float64  `json:"distance"`
	Position  Vec2     `json:"position"`
	Radius    float64  `json:"radius"`
	Powerup   bool     `json:"powerup"`
}

// ShooterSnapshot is an immutable copy of the shooter state.
type ShooterSnapshot struct {
	Position       Vec2     `json:"position"`
	Angle          float64  `json:"angle"`
	Current        OrbColor `json:"current"`
	CurrentName    string   `json:"currentName"`
	Next           OrbColor `json:"next"`
	NextName       string   `json:"nextName"`
	AccuracyActive bool     `json:"accuracyActive"`
}

// GameSnapshot is a complete immutable game state for rendering and
// the REST/WS surface. The orb slice is pre-allocated and capped.
type GameSnapshot struct {
	Sequence   uint64    `json:"sequence"`
	Timestamp  time.Time `json:"timestamp"`
	TickNumber uint64    `json:"tickNumber"`
	RNGSeed    int64     `json:"rngSeed"`

	RunID   string `json:"runId"`
	Level   int    `json:"level"`
	Pattern string `json:"pattern"`
	State   string `json:"state"`
	Paused  bool   `json:"paused"`

	// Waypoints is the active level's path polyline. The slice is
	// immutable once a level loads, so snapshots share it by reference.
	Waypoints []Vec2 `json:"waypoints"`

	Score      int `json:"score"`
	Lives      int `json:"lives"`
	Combo      int `json:"combo"`
	Multiplier int `json:"multiplier"`

	DangerRatio     float64 `json:"dangerRatio"`
	SpeedMultiplier float64 `json:"speedMultiplier"`
	SpawnRemaining  int     `json:"spawnRemaining"`
	OrbCount        int     `json:"orbCount"`

	Orbs    []OrbSnapshot   `json:"orbs"`
	Shooter ShooterSnapshot `json:"shooter"`

	Projectile    ProjectileSnapshot `json:"projectile"`
	HasProjectile bool               `json:"hasProjectile"`
}

// SnapshotPool triple-buffers GameSnapshots: the tick loop fills one
// slot while readers hold the last published one, with no locks on
// either side. A published snapshot keeps its contents until two more
// writes land.
type SnapshotPool struct {
	buf    [3]GameSnapshot
	limits Limits

	write atomic.Uint32 // tick loop only
	read  atomic.Uint32
	seq   atomic.Uint64
}

// NewSnapshotPool allocates all three slots up front, each with orb
// capacity for limits.MaxChainOrbs.
func NewSnapshotPool(limits Limits) *SnapshotPool {
	p := &SnapshotPool{limits: limits}
	for i := range p.buf {
		p.buf[i].Orbs = make([]OrbSnapshot, 0, limits.MaxChainOrbs)
	}
	return p
}

// AcquireWrite hands the tick loop its next slot, length reset but
// capacity kept. Single producer; never call it concurrently.
func (p *SnapshotPool) AcquireWrite() *GameSnapshot {
	snap := &p.buf[p.write.Add(1)%3]

	snap.Orbs = snap.Orbs[:0]
	snap.Projectile = ProjectileSnapshot{}
	snap.HasProjectile = false

	snap.Sequence = p.seq.Add(1)
	snap.Timestamp = time.Now()
	return snap
}

// PublishWrite exposes the slot from the last AcquireWrite to readers.
// Call it only once the snapshot is fully populated.
func (p *SnapshotPool) PublishWrite() {
	p.read.Store(p.write.Load())
}

// AcquireRead returns the newest published snapshot. Safe from any
// goroutine; see the stability note on SnapshotPool.
func (p *SnapshotPool) AcquireRead() *GameSnapshot {
	return &p.buf[p.read.Load()%3]
}

// GetLimits reports the caps the pool was built with.
func (p *SnapshotPool) GetLimits() Limits {
	return p.limits
}
