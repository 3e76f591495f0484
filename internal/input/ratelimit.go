package input

import (
	"sync"
	"time"
)

const (
	// sweepEvery bounds how often Allow scans for stale sources.
	sweepEvery = time.Minute
	// staleAfter is how long a silent source stays in the map.
	staleAfter = 5 * time.Minute
)

// RateLimiter throttles commands per source with a fixed window plus a
// cooldown between consecutive commands. Stale sources are swept
// during later Allow calls, so no background goroutine is needed.
type RateLimiter struct {
	mu        sync.Mutex
	cfg       RateLimitConfig
	sources   map[string]*sourceState
	lastSweep time.Time
}

type sourceState struct {
	used      int
	windowEnd time.Time
	last      time.Time
}

// RateLimitConfig configures per-source throttling.
type RateLimitConfig struct {
	// MaxPerWindow caps commands per WindowDuration.
	MaxPerWindow int
	// WindowDuration is the budget window size.
	WindowDuration time.Duration
	// CooldownDuration is the minimum spacing between two commands
	// from the same source.
	CooldownDuration time.Duration
}

// DefaultRateLimitConfig leaves room for a continuous 10 Hz aim stream
// plus fire and swap from a single player.
var DefaultRateLimitConfig = RateLimitConfig{
	MaxPerWindow:     150,
	WindowDuration:   5 * time.Second,
	CooldownDuration: 10 * time.Millisecond,
}

// NewRateLimiter builds a limiter with the given budget.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		cfg:       cfg,
		sources:   make(map[string]*sourceState),
		lastSweep: time.Now(),
	}
}

// Allow reports whether source may execute a command right now, and
// charges its budget when it may.
func (rl *RateLimiter) Allow(source string) bool {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if now.Sub(rl.lastSweep) >= sweepEvery {
		rl.sweepLocked(now)
	}

	st := rl.sources[source]
	if st == nil {
		rl.sources[source] = &sourceState{
			used:      1,
			windowEnd: now.Add(rl.cfg.WindowDuration),
			last:      now,
		}
		return true
	}

	if now.Sub(st.last) < rl.cfg.CooldownDuration {
		return false
	}
	if now.After(st.windowEnd) {
		st.used = 0
		st.windowEnd = now.Add(rl.cfg.WindowDuration)
	}
	if st.used >= rl.cfg.MaxPerWindow {
		return false
	}

	st.used++
	st.last = now
	return true
}

// sweepLocked drops sources that have been silent past staleAfter.
// Callers hold mu.
func (rl *RateLimiter) sweepLocked(now time.Time) {
	cutoff := now.Add(-staleAfter)
	for source, st := range rl.sources {
		if st.last.Before(cutoff) {
			delete(rl.sources, source)
		}
	}
	rl.lastSweep = now
}
