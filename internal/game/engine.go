package game

import (
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"
)

// LevelSource supplies parameters for each level number. The engine
// calls it on construction, on restart, and at every level transition.
type LevelSource func(level int) (LevelParams, error)

// EngineConfig carries board geometry and tuning that outlives any
// single level. Zero values fall back to the defaults.
type EngineConfig struct {
	TickRate int

	BoardWidth     float64
	BoardHeight    float64
	CullMargin     float64
	ShooterOffsetY float64
	GridCellSize   float64

	DangerThreshold    float64
	MinSpeedMultiplier float64

	ComboWindow        float64
	MaxComboMultiplier int
	StartingLives      int
	BonusLifeEvery     int

	// Seconds between clearing a level and the next one starting.
	LevelTransitionDelay float64

	RNGSeed int64 // 0 seeds from the wall clock
	Limits  Limits
}

// DefaultEngineConfig returns the standard board and tuning.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		TickRate:             60,
		BoardWidth:           1366,
		BoardHeight:          768,
		CullMargin:           50,
		ShooterOffsetY:       100,
		GridCellSize:         68,
		DangerThreshold:      0.85,
		MinSpeedMultiplier:   0.6,
		ComboWindow:          2.0,
		MaxComboMultiplier:   10,
		StartingLives:        5,
		BonusLifeEvery:       5000,
		LevelTransitionDelay: 2.0,
		Limits:               DefaultLimits,
	}
}

func (cfg *EngineConfig) applyDefaults() {
	def := DefaultEngineConfig()
	if cfg.TickRate <= 0 {
		cfg.TickRate = def.TickRate
	}
	if cfg.BoardWidth <= 0 {
		cfg.BoardWidth = def.BoardWidth
	}
	if cfg.BoardHeight <= 0 {
		cfg.BoardHeight = def.BoardHeight
	}
	if cfg.CullMargin <= 0 {
		cfg.CullMargin = def.CullMargin
	}
	if cfg.ShooterOffsetY <= 0 {
		cfg.ShooterOffsetY = def.ShooterOffsetY
	}
	if cfg.GridCellSize <= 0 {
		cfg.GridCellSize = def.GridCellSize
	}
	if cfg.DangerThreshold <= 0 || cfg.DangerThreshold >= 1 {
		cfg.DangerThreshold = def.DangerThreshold
	}
	if cfg.MinSpeedMultiplier <= 0 || cfg.MinSpeedMultiplier > 1 {
		cfg.MinSpeedMultiplier = def.MinSpeedMultiplier
	}
	if cfg.ComboWindow <= 0 {
		cfg.ComboWindow = def.ComboWindow
	}
	if cfg.MaxComboMultiplier <= 0 {
		cfg.MaxComboMultiplier = def.MaxComboMultiplier
	}
	if cfg.StartingLives <= 0 {
		cfg.StartingLives = def.StartingLives
	}
	if cfg.BonusLifeEvery < 0 {
		cfg.BonusLifeEvery = def.BonusLifeEvery
	}
	if cfg.LevelTransitionDelay <= 0 {
		cfg.LevelTransitionDelay = def.LevelTransitionDelay
	}
	if cfg.Limits.MaxChainOrbs <= 0 {
		cfg.Limits = DefaultLimits
	}
}

// Engine owns the simulation: the chain, shooter, projectile, and the
// resolvers connecting them. One tick runs a fixed update order:
// clock, chain advance, tail spawn, gap closing, projectile flight,
// collision, insertion, match resolution, powerups, scoring, danger
// transitions. All mutation goes through the mutex; renderers and the
// API read the lock-free snapshot pool instead.
type Engine struct {
	mu  sync.RWMutex
	cfg EngineConfig

	source  LevelSource
	level   LevelParams
	path    *Path
	chain   *Chain
	shooter *Shooter

	projectile *Projectile
	detector   *CollisionDetector
	resolver   *MatchResolver
	powerups   *PowerupManager
	clock      *SimulationClock
	session    *Session

	running  bool
	ticker   *time.Ticker
	stopChan chan struct{}

	tickCount       uint64
	transitionTimer float64

	// Seeded RNG; the per-tick seed lands in TickPayload so runs replay.
	rng         *rand.Rand
	rngSeed     int64
	initialSeed int64

	projectileSeq uint64
	queued        []Event // input events folded into the next tick

	// Stats
	shotsFired   uint64
	orbsCleared  uint64
	powerupsUsed uint64
	maxComboSeen int

	onEvents func([]Event)

	snapshotPool *SnapshotPool
	eventLog     *EventLog
}

// NewEngine builds an engine and loads level 1 from the source.
func NewEngine(cfg EngineConfig, source LevelSource) (*Engine, error) {
	if source == nil {
		return nil, fmt.Errorf("engine: nil level source")
	}
	cfg.applyDefaults()

	seed := cfg.RNGSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	e := &Engine{
		cfg:         cfg,
		source:      source,
		stopChan:    make(chan struct{}),
		rng:         rand.New(rand.NewSource(seed)),
		rngSeed:     seed,
		initialSeed: seed,
		resolver:    NewMatchResolver(),
		powerups:    NewPowerupManager(),
		clock:       NewSimulationClock(cfg.DangerThreshold, cfg.MinSpeedMultiplier),
		detector: NewCollisionDetector(cfg.BoardWidth, cfg.BoardHeight,
			cfg.GridCellSize, cfg.Limits.MaxChainOrbs, cfg.Limits.MaxSubSteps),
		queued:       make([]Event, 0, 16),
		snapshotPool: NewSnapshotPool(cfg.Limits),
		eventLog:     NewEventLog(),
	}
	e.session = NewSession(cfg)

	if err := e.loadLevel(1, &e.queued); err != nil {
		return nil, err
	}
	e.produceSnapshot()
	return e, nil
}

// loadLevel fetches, validates, and installs level n. The level
// started event lands in the supplied slice so callers control when
// it surfaces.
func (e *Engine) loadLevel(n int, events *[]Event) error {
	params, err := e.source(n)
	if err != nil {
		return fmt.Errorf("level %d: %w", n, err)
	}
	if err := params.Validate(); err != nil {
		return err
	}
	path, err := NewPath(params.Waypoints)
	if err != nil {
		return fmt.Errorf("level %d: %w", n, err)
	}

	e.level = params
	e.path = path
	e.chain = NewChain(path, params, e.cfg.Limits.MaxChainOrbs, e.rng)
	e.shooter = NewShooter(Vec2{
		X: e.cfg.BoardWidth / 2,
		Y: e.cfg.BoardHeight - e.cfg.ShooterOffsetY,
	}, params, e.rng)
	e.projectile = nil
	e.powerups.Reset()
	e.transitionTimer = 0

	e.appendEvent(events, EventTypeLevelStarted, "", LevelStartedPayload{
		Level:      params.Level,
		Pattern:    params.Pattern,
		ChainSpeed: params.ChainSpeed,
		MaxOrbs:    params.MaxOrbs,
	})
	log.Printf("🎯 Level %d started: pattern=%s speed=%.1f budget=%d",
		params.Level, params.Pattern, params.ChainSpeed, params.MaxOrbs)
	return nil
}

// Start launches the tick loop. Calling it twice is a no-op.
func (e *Engine) Start() {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return
	}
	e.running = true
	e.mu.Unlock()

	e.ticker = time.NewTicker(time.Second / time.Duration(e.cfg.TickRate))

	go func() {
		dt := 1.0 / float64(e.cfg.TickRate)
		for {
			select {
			case <-e.ticker.C:
				e.Update(dt)
			case <-e.stopChan:
				return
			}
		}
	}()

	log.Printf("🎮 Simulation engine started at %d TPS", e.cfg.TickRate)
}

// Stop halts the tick loop and waits for the current tick to finish.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.running {
		return
	}

	e.running = false
	if e.ticker != nil {
		e.ticker.Stop()
	}
	close(e.stopChan)
	log.Println("🛑 Simulation engine stopped")
}

// Update advances the simulation by dt seconds and returns the events
// the tick produced, in emission order. Start drives it from a ticker;
// headless tools and tests call it directly.
func (e *Engine) Update(dt float64) []Event {
	e.mu.Lock()
	events := e.step(dt)
	e.produceSnapshot()
	cb := e.onEvents
	e.mu.Unlock()

	if cb != nil && len(events) > 0 {
		cb(events)
	}
	return events
}

// step runs one tick in the fixed update order. Caller holds the lock.
func (e *Engine) step(raw float64) []Event {
	if raw < 0 {
		raw = 0
	}
	e.tickCount++

	events := make([]Event, 0, 8)
	if len(e.queued) > 0 {
		events = append(events, e.queued...)
		e.queued = e.queued[:0]
	}

	// Level transition countdown runs on raw time so danger slow-mo
	// cannot stall it.
	if e.session.State == SessionLevelComplete {
		e.transitionTimer -= raw
		if e.transitionTimer <= 0 {
			e.advanceLevel(&events)
		}
	}

	startDanger := e.chain.DangerRatio()
	edt, entered, exited := e.clock.Advance(raw, startDanger)
	if e.session.State != SessionPlaying {
		edt = 0
	}

	// Tick marker for deterministic replay.
	e.appendEvent(&events, EventTypeTick, "", TickPayload{
		RNGSeed:     e.rngSeed,
		OrbCount:    e.chain.Len(),
		RawDt:       raw,
		EffectiveDt: edt,
		DangerRatio: startDanger,
	})

	// Next tick's seed is drawn from this tick's stream, so the whole
	// run unwinds from the initial seed alone.
	e.rngSeed = e.rng.Int63()
	e.rng.Seed(e.rngSeed)

	// 1. Chain advance; orbs that breach the portal cost lives.
	for _, o := range e.chain.Advance(edt) {
		remaining, failed := e.session.LifeLost()
		e.appendEvent(&events, EventTypeLifeLost, "", LifeLostPayload{
			OrbID:     o.ID,
			Color:     o.Color.String(),
			LivesLeft: remaining,
		})
		log.Printf("💔 Orb breached the portal, %d lives left", remaining)
		if failed {
			e.appendEvent(&events, EventTypeLevelFailed, "", LevelEndPayload{
				Level: e.session.Level,
				Score: e.session.Score,
				Lives: 0,
			})
			log.Printf("🛑 Level %d failed at score %d", e.session.Level, e.session.Score)
			edt = 0
			break
		}
	}

	// 2. Tail spawn.
	if o := e.chain.SpawnTail(edt); o != nil {
		e.appendEvent(&events, EventTypeOrbSpawned, "", OrbSpawnedPayload{
			OrbID:     o.ID,
			Color:     o.Color.String(),
			Remaining: e.chain.SpawnRemaining(),
		})
	}

	// 3. Gap closing.
	if closed := e.chain.CloseGaps(edt); closed > 0 {
		e.appendEvent(&events, EventTypeGapClosed, "", GapClosedPayload{Count: closed})
	}

	// 4. Projectile flight, collision sweep, insertion, matching.
	if e.projectile != nil && edt > 0 {
		prev := e.projectile.Position
		alive := e.projectile.Update(edt)
		hit := e.detector.Sweep(e.chain, prev, e.projectile.Position,
			e.projectile.Radius, e.projectile.Velocity)
		switch {
		case hit != nil:
			e.resolveHit(hit, &events)
			e.projectile = nil
		case !alive:
			e.appendEvent(&events, EventTypeMissed, "", MissedPayload{
				ProjectileID: e.projectile.ID,
				Color:        e.projectile.Color.String(),
			})
			e.projectile = nil
		}
	}

	// 5. Effect timers and the combo window.
	e.powerups.Update(edt)
	e.session.Update(edt)

	// 6. Victory check: chain gone and spawn budget spent.
	if e.session.State == SessionPlaying && e.chain.Cleared() {
		e.session.CompleteLevel()
		e.transitionTimer = e.cfg.LevelTransitionDelay
		e.appendEvent(&events, EventTypeLevelCompleted, "", LevelEndPayload{
			Level: e.session.Level,
			Score: e.session.Score,
			Lives: e.session.Lives,
		})
		log.Printf("✅ Level %d cleared at score %d", e.session.Level, e.session.Score)
	}

	// 7. Danger zone transitions.
	if entered {
		e.appendEvent(&events, EventTypeDangerEntered, "", DangerPayload{
			Ratio:      startDanger,
			Multiplier: e.clock.Multiplier(),
		})
		log.Printf("⚠️ Chain entered danger zone (%.0f%%)", startDanger*100)
	}
	if exited {
		e.appendEvent(&events, EventTypeDangerExited, "", DangerPayload{
			Ratio:      startDanger,
			Multiplier: e.clock.Multiplier(),
		})
	}

	if len(events) > e.cfg.Limits.MaxEventsPerTick {
		events = events[:e.cfg.Limits.MaxEventsPerTick]
	}
	e.eventLog.EmitAll(events)
	return events
}

// advanceLevel installs the next level after a clear. A failing source
// pauses the run and leaves the session in the transition state, so the
// load is retried on the transition cadence instead of crashing.
func (e *Engine) advanceLevel(events *[]Event) {
	next := e.session.Level + 1
	if err := e.loadLevel(next, events); err != nil {
		log.Printf("⚠️ Failed to load level %d: %v", next, err)
		e.transitionTimer = e.cfg.LevelTransitionDelay
		if e.clock.SetPaused(true) {
			e.appendEvent(events, EventTypePaused, "", nil)
		}
		return
	}
	e.session.AdvanceLevel()
	if e.clock.SetPaused(false) {
		e.appendEvent(events, EventTypeResumed, "", nil)
	}
}

// resolveHit handles first contact: powerup orbs trigger their effect
// and consume the projectile, anything else takes an insertion and a
// resolution pass.
func (e *Engine) resolveHit(hit *Hit, events *[]Event) {
	struck := e.chain.At(hit.OrbIndex)
	if struck == nil {
		return
	}

	if struck.Color.IsPowerup() {
		e.triggerPowerups(hit.OrbIndex, struck, events)
		return
	}

	orb, idx := e.chain.Insert(hit.OrbIndex, hit.Side, e.projectile.Color)
	if orb == nil {
		return
	}
	e.appendEvent(events, EventTypeInserted, "", InsertedPayload{
		OrbID:       orb.ID,
		Color:       orb.Color.String(),
		Index:       idx,
		Side:        hit.Side.String(),
		StruckOrbID: hit.OrbID,
		Distance:    orb.Distance,
	})
	e.applyMatch(e.resolver.ResolveAt(e.chain, idx), events)
}

// triggerPowerups runs the struck powerup and any further powerups its
// blast uncovers, then probes every removal gap for follow-up matches.
func (e *Engine) triggerPowerups(index int, struck *Orb, events *[]Event) {
	type trigger struct {
		kind   OrbColor
		center int
		gap    int
	}
	var queue []trigger

	if struck.Color == PowerBomb {
		queue = append(queue, trigger{kind: PowerBomb, center: index, gap: -1})
	} else {
		// Timed powerups leave the chain untouched, so the struck orb
		// comes out first and its gap gets probed like any removal.
		e.chain.RemoveRange(index, index+1)
		queue = append(queue, trigger{kind: struck.Color, center: index, gap: index})
	}

	for len(queue) > 0 {
		t := queue[0]
		queue = queue[1:]

		act := e.powerups.Trigger(t.kind, e.chain, t.center)
		e.powerupsUsed++
		e.appendEvent(events, EventTypePowerup, "", PowerupPayload{
			Kind:     GetPowerup(t.kind).Name,
			Removed:  len(act.Removed),
			Bonus:    act.Bonus,
			Duration: act.Duration,
		})
		log.Printf("💥 Powerup %s triggered: removed=%d bonus=%d",
			GetPowerup(t.kind).Name, len(act.Removed), act.Bonus)

		if act.Bonus > 0 {
			if lives := e.session.AddBonus(act.Bonus); lives > 0 {
				e.appendEvent(events, EventTypeBonusLife, "", BonusLifePayload{
					Lives: e.session.Lives,
					Score: e.session.Score,
				})
			}
		}
		e.orbsCleared += uint64(len(act.Removed))

		for _, o := range act.Removed {
			if o.Color.IsPowerup() && o.ID != struck.ID {
				queue = append(queue, trigger{kind: o.Color, center: t.center, gap: -1})
			}
		}

		gap := act.GapIndex
		if gap < 0 {
			gap = t.gap
		}
		if gap >= 0 {
			e.applyMatch(e.resolver.ResolveGap(e.chain, gap), events)
		}
	}
}

// applyMatch scores a resolution pass and emits its events.
func (e *Engine) applyMatch(res MatchResult, events *[]Event) {
	if !res.Matched() {
		return
	}
	points, bonusLives := e.session.ScoreMatch(len(res.Removed))
	e.orbsCleared += uint64(len(res.Removed))
	if e.session.Combo > e.maxComboSeen {
		e.maxComboSeen = e.session.Combo
	}

	runs := make([]RunPayload, 0, len(res.Runs))
	for _, r := range res.Runs {
		runs = append(runs, RunPayload{Color: r.Color.String(), Count: len(r.Orbs), Depth: r.Depth})
	}
	e.appendEvent(events, EventTypeMatch, "", MatchPayload{
		Removed:    len(res.Removed),
		Depth:      res.MaxDepth,
		Points:     points,
		Combo:      e.session.Combo,
		Multiplier: e.session.Multiplier,
		Runs:       runs,
	})
	if res.MaxDepth > 1 {
		e.appendEvent(events, EventTypeChainReaction, "", ChainReactionPayload{
			Depth:   res.MaxDepth,
			Removed: len(res.Removed),
		})
	}
	if bonusLives > 0 {
		e.appendEvent(events, EventTypeBonusLife, "", BonusLifePayload{
			Lives: e.session.Lives,
			Score: e.session.Score,
		})
		log.Printf("💚 Bonus life at %d points (%d lives)", e.session.Score, e.session.Lives)
	}
}

func (e *Engine) appendEvent(events *[]Event, t EventType, source string, payload interface{}) {
	*events = append(*events, NewEvent(t, e.tickCount, source, payload))
}

// queueEvent stages an input-driven event for the next tick's stream.
// Caller holds the lock.
func (e *Engine) queueEvent(t EventType, source string, payload interface{}) {
	if len(e.queued) >= e.cfg.Limits.MaxEventsPerTick {
		return
	}
	e.queued = append(e.queued, NewEvent(t, e.tickCount, source, payload))
}

// Aim points the shooter at an absolute angle in radians. Source
// identifies the caller for event attribution and rate limiting.
func (e *Engine) Aim(angle float64, source string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.shooter.Aim(angle)
}

// AimAt points the shooter at a board position.
func (e *Engine) AimAt(x, y float64, source string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.shooter.AimAt(Vec2{X: x, Y: y})
}

// Fire launches the loaded orb. Rejected while paused, between levels,
// or while another projectile is in flight.
func (e *Engine) Fire(source string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.clock.Paused() || e.session.State != SessionPlaying || e.projectile != nil {
		return false
	}

	e.projectileSeq++
	p := e.shooter.Fire(e.projectileSeq, e.chain.ColorsPresent())
	p.setBounds(e.cfg.BoardWidth, e.cfg.BoardHeight, e.cfg.CullMargin)
	e.projectile = p
	e.shotsFired++

	e.queueEvent(EventTypeFired, source, FiredPayload{
		ProjectileID: p.ID,
		Color:        p.Color.String(),
		Angle:        p.Rotation,
		Speed:        e.shooter.ProjectileSpeed(),
	})
	return true
}

// SwapOrbs exchanges the loaded orb with the preview.
func (e *Engine) SwapOrbs(source string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.clock.Paused() || e.session.State != SessionPlaying {
		return false
	}
	e.shooter.Swap()
	e.queueEvent(EventTypeSwapped, source, SwappedPayload{
		Current: e.shooter.Current.String(),
		Next:    e.shooter.Next.String(),
	})
	return true
}

// SetPaused flips the pause gate. Returns false when already in the
// requested state.
func (e *Engine) SetPaused(paused bool, source string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.clock.SetPaused(paused) {
		return false
	}
	if paused {
		e.queueEvent(EventTypePaused, source, nil)
		log.Println("⏸️ Simulation paused")
	} else {
		e.queueEvent(EventTypeResumed, source, nil)
		log.Println("▶️ Simulation resumed")
	}
	return true
}

// Restart throws the whole run away and starts over at level 1.
func (e *Engine) Restart(source string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.session.Restart()
	e.clock.SetPaused(false)
	if err := e.loadLevel(1, &e.queued); err != nil {
		return err
	}
	e.produceSnapshot()
	log.Println("🔄 Run restarted")
	return nil
}

// produceSnapshot publishes the current state to the lock-free pool.
// Caller holds the lock.
func (e *Engine) produceSnapshot() {
	snap := e.snapshotPool.AcquireWrite()
	snap.TickNumber = e.tickCount
	snap.RNGSeed = e.rngSeed
	snap.RunID = e.session.RunID
	snap.Level = e.session.Level
	snap.Pattern = e.level.Pattern
	snap.Waypoints = e.level.Waypoints
	snap.State = e.session.State.String()
	snap.Paused = e.clock.Paused()
	snap.Score = e.session.Score
	snap.Lives = e.session.Lives
	snap.Combo = e.session.Combo
	snap.Multiplier = e.session.Multiplier
	snap.DangerRatio = e.chain.DangerRatio()
	snap.SpeedMultiplier = e.clock.Multiplier()
	snap.SpawnRemaining = e.chain.SpawnRemaining()
	snap.OrbCount = e.chain.Len()

	for i := 0; i < e.chain.Len(); i++ {
		if len(snap.Orbs) >= e.cfg.Limits.MaxChainOrbs {
			break
		}
		o := e.chain.At(i)
		snap.Orbs = append(snap.Orbs, OrbSnapshot{
			ID:        o.ID,
			Color:     o.Color,
			ColorName: o.Color.String(),
			Distance:  o.Distance,
			Position:  e.chain.OrbPosition(i),
			Radius:    o.Radius,
			Powerup:   o.Color.IsPowerup(),
		})
	}

	snap.Shooter = ShooterSnapshot{
		Position:       e.shooter.Position,
		Angle:          e.shooter.Angle,
		Current:        e.shooter.Current,
		CurrentName:    e.shooter.Current.String(),
		Next:           e.shooter.Next,
		NextName:       e.shooter.Next.String(),
		AccuracyActive: e.powerups.AccuracyActive(),
	}
	if e.projectile != nil {
		snap.Projectile = e.projectile.ToSnapshot()
		snap.HasProjectile = true
	}

	e.snapshotPool.PublishWrite()
}

// GetSnapshot returns the latest immutable snapshot for lock-free
// rendering and the API surface.
func (e *Engine) GetSnapshot() *GameSnapshot {
	return e.snapshotPool.AcquireRead()
}

// CurrentLevel returns a copy of the active level parameters.
func (e *Engine) CurrentLevel() LevelParams {
	e.mu.RLock()
	defer e.mu.RUnlock()

	params := e.level
	params.Waypoints = append([]Vec2(nil), e.level.Waypoints...)
	params.Colors = append([]OrbColor(nil), e.level.Colors...)
	return params
}

// SetEventCallback registers a sink invoked with each tick's events,
// outside the engine lock.
func (e *Engine) SetEventCallback(fn func([]Event)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onEvents = fn
}

// TickRate returns ticks per second.
func (e *Engine) TickRate() int { return e.cfg.TickRate }

// TickCount returns the number of ticks stepped so far.
func (e *Engine) TickCount() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tickCount
}

// Seed returns the seed the run started from, for replay.
func (e *Engine) Seed() int64 { return e.initialSeed }

// StartEventLog opens the JSONL event log at filePath.
func (e *Engine) StartEventLog(filePath string) error {
	return e.eventLog.Start(filePath)
}

// StopEventLog flushes and closes the event log.
func (e *Engine) StopEventLog() {
	e.eventLog.Stop()
}

// GetEventLogStats reports event log counters for the stats endpoint.
func (e *Engine) GetEventLogStats() map[string]interface{} {
	return e.eventLog.GetStats()
}

// GetLimits exposes the resource limits the engine was built with.
func (e *Engine) GetLimits() Limits {
	return e.cfg.Limits
}

// Stats returns run counters for the stats endpoint.
func (e *Engine) Stats() map[string]interface{} {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return map[string]interface{}{
		"runId":        e.session.RunID,
		"ticks":        e.tickCount,
		"seed":         e.initialSeed,
		"level":        e.session.Level,
		"score":        e.session.Score,
		"lives":        e.session.Lives,
		"state":        e.session.State.String(),
		"shotsFired":   e.shotsFired,
		"orbsCleared":  e.orbsCleared,
		"powerupsUsed": e.powerupsUsed,
		"maxCombo":     e.maxComboSeen,
		"orbCount":     e.chain.Len(),
	}
}
