// Package input decouples transport handlers from the engine: REST and
// WebSocket handlers enqueue commands, a single worker applies them in
// arrival order.
package input

import "time"

// Op identifies what a command asks the engine to do.
type Op int

const (
	OpUnknown Op = iota
	OpAim        // absolute angle in radians
	OpAimAt      // board coordinates
	OpFire
	OpSwap
	OpPause
	OpResume
	OpRestart
)

// Command is one queued input. Source attributes it for rate limiting
// and event logs; ReceivedAt feeds queue latency tracking.
type Command struct {
	Op         Op
	Angle      float64 // OpAim
	X, Y       float64 // OpAimAt
	Source     string
	ReceivedAt time.Time
}

// opNames maps wire names to ops, for WebSocket JSON messages.
var opNames = map[string]Op{
	"aim":     OpAim,
	"aim_at":  OpAimAt,
	"fire":    OpFire,
	"shoot":   OpFire,
	"swap":    OpSwap,
	"pause":   OpPause,
	"resume":  OpResume,
	"restart": OpRestart,
}

// ParseOp resolves a wire name to an op.
func ParseOp(name string) Op {
	if op, ok := opNames[name]; ok {
		return op
	}
	return OpUnknown
}

// String returns the canonical wire name.
func (op Op) String() string {
	switch op {
	case OpAim:
		return "aim"
	case OpAimAt:
		return "aim_at"
	case OpFire:
		return "fire"
	case OpSwap:
		return "swap"
	case OpPause:
		return "pause"
	case OpResume:
		return "resume"
	case OpRestart:
		return "restart"
	default:
		return "unknown"
	}
}
