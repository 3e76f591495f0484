// Package config is the one place simulation and server tuning lives.
// Everything else takes these values as parameters instead of reading
// the environment on its own.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// =============================================================================
// BOARD
// =============================================================================

// BoardConfig is the logical play-field geometry, shared by the
// simulation core and the renderer.
type BoardConfig struct {
	Width          int     // Logical board width in pixels
	Height         int     // Logical board height in pixels
	PortalRadius   float64 // Visual radius of the portal at the path end
	ShooterOffsetY float64 // Shooter distance from the bottom edge
	CullMargin     float64 // How far outside the board a projectile may fly
}

// DefaultBoard is the logical resolution everything else derives from.
func DefaultBoard() BoardConfig {
	return BoardConfig{
		Width:          1366,
		Height:         768,
		PortalRadius:   40,
		ShooterOffsetY: 100,
		CullMargin:     50,
	}
}

// BoardFromEnv applies BOARD_WIDTH and BOARD_HEIGHT on top of the
// defaults.
func BoardFromEnv() BoardConfig {
	cfg := DefaultBoard()

	if w := getEnvInt("BOARD_WIDTH", 0); w > 0 {
		cfg.Width = w
	}
	if h := getEnvInt("BOARD_HEIGHT", 0); h > 0 {
		cfg.Height = h
	}

	return cfg
}

// =============================================================================
// SIMULATION
// =============================================================================

// SimulationConfig holds the tuning constants of the gameplay core.
type SimulationConfig struct {
	TickRate           int     // Simulation ticks per second
	GapCloseFactor     float64 // Gap-closing speed as a multiple of chain speed
	DangerThreshold    float64 // Danger ratio at which slow motion begins
	MinSpeedMultiplier float64 // Slow-motion floor; must stay above zero
	ComboWindow        float64 // Seconds between matches that keep a combo alive
	MaxComboMultiplier int     // Score multiplier cap
	StartingLives      int
	BonusLifeEvery     int // Points per bonus life
	RNGSeed            int64
}

// DefaultSimulation is the tuning the game ships with.
func DefaultSimulation() SimulationConfig {
	return SimulationConfig{
		TickRate:           60,
		GapCloseFactor:     3.0,
		DangerThreshold:    0.85,
		MinSpeedMultiplier: 0.6,
		ComboWindow:        2.0,
		MaxComboMultiplier: 10,
		StartingLives:      5,
		BonusLifeEvery:     5000,
		RNGSeed:            0, // 0 = seed from wall clock
	}
}

// SimulationFromEnv applies TICK_RATE, GAP_CLOSE_FACTOR,
// DANGER_THRESHOLD, MIN_SPEED_MULTIPLIER and RNG_SEED.
func SimulationFromEnv() SimulationConfig {
	cfg := DefaultSimulation()

	if tr := getEnvInt("TICK_RATE", 0); tr > 0 {
		cfg.TickRate = tr
	}
	if f := getEnvFloat("GAP_CLOSE_FACTOR", -1); f > 0 {
		cfg.GapCloseFactor = f
	}
	if f := getEnvFloat("DANGER_THRESHOLD", -1); f > 0 && f < 1 {
		cfg.DangerThreshold = f
	}
	if f := getEnvFloat("MIN_SPEED_MULTIPLIER", -1); f > 0 {
		cfg.MinSpeedMultiplier = f
	}
	if s := getEnvInt("RNG_SEED", 0); s != 0 {
		cfg.RNGSeed = int64(s)
	}

	return cfg
}

// Validate rejects configurations the core cannot run with.
func (c SimulationConfig) Validate() error {
	if c.TickRate <= 0 {
		return fmt.Errorf("config: tick rate must be positive, got %d", c.TickRate)
	}
	if c.MinSpeedMultiplier <= 0 || c.MinSpeedMultiplier > 1 {
		return fmt.Errorf("config: min speed multiplier must be in (0, 1], got %g", c.MinSpeedMultiplier)
	}
	if c.DangerThreshold <= 0 || c.DangerThreshold >= 1 {
		return fmt.Errorf("config: danger threshold must be in (0, 1), got %g", c.DangerThreshold)
	}
	if c.GapCloseFactor < 1 {
		return fmt.Errorf("config: gap close factor must be >= 1, got %g", c.GapCloseFactor)
	}
	return nil
}

// =============================================================================
// LIMITS
// =============================================================================

// ResourceLimits bounds what a malformed level or an input flood can
// make the engine allocate.
type ResourceLimits struct {
	MaxChainOrbs     int // Hard cap on orbs in the chain (spawn stops at cap)
	MaxEventsPerTick int // Events buffered per tick before dropping
	MaxSubSteps      int // Upper bound on collision sub-steps per tick
}

// DefaultLimits matches game.DefaultLimits.
func DefaultLimits() ResourceLimits {
	return ResourceLimits{
		MaxChainOrbs:     512,
		MaxEventsPerTick: 256,
		MaxSubSteps:      64,
	}
}

// =============================================================================
// SERVER
// =============================================================================

// ServerConfig carries the HTTP listener settings.
type ServerConfig struct {
	Port             int
	SnapshotInterval int // WebSocket broadcast interval in milliseconds
}

// DefaultServer listens on 3000 and broadcasts snapshots at 10 Hz.
func DefaultServer() ServerConfig {
	return ServerConfig{
		Port:             3000,
		SnapshotInterval: 100,
	}
}

// ServerFromEnv applies PORT and SNAPSHOT_INTERVAL_MS.
func ServerFromEnv() ServerConfig {
	cfg := DefaultServer()

	if p := getEnvInt("PORT", 0); p > 0 {
		cfg.Port = p
	}
	if iv := getEnvInt("SNAPSHOT_INTERVAL_MS", 0); iv > 0 {
		cfg.SnapshotInterval = iv
	}

	return cfg
}

// =============================================================================
// SPATIAL INDEX
// =============================================================================

// SpatialConfig tunes the collision broad phase.
type SpatialConfig struct {
	GridCellSize int // Broad-phase grid cell size for projectile collision
}

// DefaultSpatial uses cells of two orb diameters.
func DefaultSpatial() SpatialConfig {
	return SpatialConfig{
		GridCellSize: 68,
	}
}

// =============================================================================
// ASSEMBLY
// =============================================================================

// AppConfig aggregates every section.
type AppConfig struct {
	Board      BoardConfig
	Simulation SimulationConfig
	Server     ServerConfig
	Limits     ResourceLimits
	Spatial    SpatialConfig
}

// Load assembles the full configuration, env overrides applied, and
// validates the simulation section.
func Load() (AppConfig, error) {
	cfg := AppConfig{
		Board:      BoardFromEnv(),
		Simulation: SimulationFromEnv(),
		Server:     ServerFromEnv(),
		Limits:     DefaultLimits(),
		Spatial:    DefaultSpatial(),
	}
	if err := cfg.Simulation.Validate(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// =============================================================================
// ENV HELPERS
// =============================================================================

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
