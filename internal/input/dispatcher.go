package input

import (
	"log"

	"chainshot/internal/game"
)

// Dispatcher applies queued commands to the engine. Rejections are
// logged and counted but never propagate; a fire during flight is a
// legal input that happens to do nothing.
type Dispatcher struct {
	engine      *game.Engine
	rateLimiter *RateLimiter
}

// NewDispatcher creates a dispatcher for the engine.
func NewDispatcher(engine *game.Engine) *Dispatcher {
	return &Dispatcher{
		engine:      engine,
		rateLimiter: NewRateLimiter(DefaultRateLimitConfig),
	}
}

// Apply runs one command against the engine.
func (d *Dispatcher) Apply(cmd Command) {
	// Rate limit check
	if !d.rateLimiter.Allow(cmd.Source) {
		log.Printf("🚫 Rate limited: %s (%s)", cmd.Source, cmd.Op)
		return
	}

	switch cmd.Op {
	case OpAim:
		d.engine.Aim(cmd.Angle, cmd.Source)
	case OpAimAt:
		d.engine.AimAt(cmd.X, cmd.Y, cmd.Source)
	case OpFire:
		d.engine.Fire(cmd.Source)
	case OpSwap:
		d.engine.SwapOrbs(cmd.Source)
	case OpPause:
		d.engine.SetPaused(true, cmd.Source)
	case OpResume:
		d.engine.SetPaused(false, cmd.Source)
	case OpRestart:
		if err := d.engine.Restart(cmd.Source); err != nil {
			log.Printf("⚠️ Restart from %s failed: %v", cmd.Source, err)
		}
	default:
		// Unparsed ops are dropped without effect
	}
}
