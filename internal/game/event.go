package game

import (
	"encoding/json"
	"time"
)

// EventType tags every entry in the event stream.
type EventType uint8

const (
	EventTypeUnknown EventType = iota
	EventTypeTick              // Tick boundary with RNG seed
	EventTypeLevelStarted
	EventTypeFired
	EventTypeSwapped
	EventTypeMissed
	EventTypeInserted
	EventTypeOrbSpawned
	EventTypeGapClosed
	EventTypeMatch
	EventTypeChainReaction
	EventTypePowerup
	EventTypeDangerEntered
	EventTypeDangerExited
	EventTypeLifeLost
	EventTypeBonusLife
	EventTypeLevelCompleted
	EventTypeLevelFailed
	EventTypePaused
	EventTypeResumed
)

// EventVersion is bumped whenever a payload schema changes shape, so
// old JSONL logs stay replayable.
const EventVersion uint8 = 1

// Event is the core event structure for the event log and the per-tick
// event stream returned by Update.
type Event struct {
	Version   uint8           `json:"version"`          // Schema version
	Type      EventType       `json:"type"`             // Event type
	Name      string          `json:"name"`             // Human-readable type name
	Timestamp int64           `json:"timestamp"`        // Unix nano
	Sequence  uint64          `json:"sequence"`         // Monotonic sequence, assigned by the log
	TickNum   uint64          `json:"tickNum"`          // Tick this occurred in
	Source    string          `json:"source,omitempty"` // Input source, for rate limiting
	Payload   json.RawMessage `json:"payload"`          // JSON-encoded payload
}

// String returns the wire name written to the event log.
func (t EventType) String() string {
	switch t {
	case EventTypeTick:
		return "tick"
	case EventTypeLevelStarted:
		return "level_started"
	case EventTypeFired:
		return "fired"
	case EventTypeSwapped:
		return "swapped"
	case EventTypeMissed:
		return "missed"
	case EventTypeInserted:
		return "inserted"
	case EventTypeOrbSpawned:
		return "orb_spawned"
	case EventTypeGapClosed:
		return "gap_closed"
	case EventTypeMatch:
		return "match"
	case EventTypeChainReaction:
		return "chain_reaction"
	case EventTypePowerup:
		return "powerup"
	case EventTypeDangerEntered:
		return "danger_entered"
	case EventTypeDangerExited:
		return "danger_exited"
	case EventTypeLifeLost:
		return "life_lost"
	case EventTypeBonusLife:
		return "bonus_life"
	case EventTypeLevelCompleted:
		return "level_completed"
	case EventTypeLevelFailed:
		return "level_failed"
	case EventTypePaused:
		return "paused"
	case EventTypeResumed:
		return "resumed"
	default:
		return "unknown"
	}
}

// Payload types, one per event.

// TickPayload marks a tick boundary. The seed is enough to replay the
// tick's random draws exactly.
type TickPayload struct {
	RNGSeed     int64   `json:"rngSeed"`
	OrbCount    int     `json:"orbCount"`
	RawDt       float64 `json:"rawDt"`
	EffectiveDt float64 `json:"effectiveDt"`
	DangerRatio float64 `json:"dangerRatio"`
}

// LevelStartedPayload announces a new level going live
type LevelStartedPayload struct {
	Level      int     `json:"level"`
	Pattern    string  `json:"pattern"`
	ChainSpeed float64 `json:"chainSpeed"`
	MaxOrbs    int     `json:"maxOrbs"`
}

// FiredPayload contains launch details
type FiredPayload struct {
	ProjectileID uint64  `json:"projectileId"`
	Color        string  `json:"color"`
	Angle        float64 `json:"angle"`
	Speed        float64 `json:"speed"`
}

// SwappedPayload reports the queue after a swap
type SwappedPayload struct {
	Current string `json:"current"`
	Next    string `json:"next"`
}

// MissedPayload reports a projectile leaving the board untouched
type MissedPayload struct {
	ProjectileID uint64 `json:"projectileId"`
	Color        string `json:"color"`
}

// InsertedPayload contains splice details
type InsertedPayload struct {
	OrbID       uint64  `json:"orbId"`
	Color       string  `json:"color"`
	Index       int     `json:"index"`
	Side        string  `json:"side"`
	StruckOrbID uint64  `json:"struckOrbId"`
	Distance    float64 `json:"distance"`
}

// OrbSpawnedPayload reports a tail spawn
type OrbSpawnedPayload struct {
	OrbID     uint64 `json:"orbId"`
	Color     string `json:"color"`
	Remaining int    `json:"remaining"` // spawn budget left
}

// GapClosedPayload counts gaps that finished closing this tick
type GapClosedPayload struct {
	Count int `json:"count"`
}

// RunPayload describes one cleared run inside a match
type RunPayload struct {
	Color string `json:"color"`
	Count int    `json:"count"`
	Depth int    `json:"depth"`
}

// MatchPayload contains the full outcome of a resolution pass
type MatchPayload struct {
	Removed    int          `json:"removed"`
	Depth      int          `json:"depth"`
	Points     int          `json:"points"`
	Combo      int          `json:"combo"`
	Multiplier int          `json:"multiplier"`
	Runs       []RunPayload `json:"runs"`
}

// ChainReactionPayload flags a cascade beyond the direct match
type ChainReactionPayload struct {
	Depth   int `json:"depth"`
	Removed int `json:"removed"`
}

// PowerupPayload contains powerup trigger details
type PowerupPayload struct {
	Kind     string  `json:"kind"`
	Removed  int     `json:"removed"`
	Bonus    int     `json:"bonus"`
	Duration float64 `json:"duration"`
}

// DangerPayload reports danger zone transitions
type DangerPayload struct {
	Ratio      float64 `json:"ratio"`
	Multiplier float64 `json:"multiplier"`
}

// LifeLostPayload reports a portal breach
type LifeLostPayload struct {
	OrbID     uint64 `json:"orbId"`
	Color     string `json:"color"`
	LivesLeft int    `json:"livesLeft"`
}

// BonusLifePayload reports milestone lives
type BonusLifePayload struct {
	Lives int `json:"lives"`
	Score int `json:"score"`
}

// LevelEndPayload is shared by level completed and failed events
type LevelEndPayload struct {
	Level int `json:"level"`
	Score int `json:"score"`
	Lives int `json:"lives"`
}

// EncodePayload marshals a payload, returning nil when it cannot be
// encoded rather than failing the tick.
func EncodePayload(payload interface{}) json.RawMessage {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	return data
}

// NewEvent stamps an event with the current time. Sequence stays zero
// until the event log assigns one.
func NewEvent(eventType EventType, tickNum uint64, source string, payload interface{}) Event {
	return Event{
		Version:   EventVersion,
		Type:      eventType,
		Name:      eventType.String(),
		Timestamp: time.Now().UnixNano(),
		TickNum:   tickNum,
		Source:    source,
		Payload:   EncodePayload(payload),
	}
}
