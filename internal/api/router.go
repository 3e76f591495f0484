package api

import (
	"chainshot/internal/game"
	"chainshot/internal/input"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// EngineInterface is the slice of the engine the transport layer needs.
// Tests swap in a stub instead of running the tick loop.
type EngineInterface interface {
	// GetSnapshot hands out the published snapshot without locking.
	GetSnapshot() *game.GameSnapshot
	// CurrentLevel copies the parameters of the level in play.
	CurrentLevel() game.LevelParams
	// Stats reports run counters for /api/stats.
	Stats() map[string]interface{}
	// GetEventLogStats reports event log counters alongside Stats.
	GetEventLogStats() map[string]interface{}
}

// InputSink is where transport handlers push commands. Implemented by
// input.CommandQueue; tests substitute a recorder.
type InputSink interface {
	Enqueue(cmd input.Command) bool
	Stats() input.QueueStats
}

// FrameRenderer renders a snapshot to a PNG for the frame endpoint.
type FrameRenderer interface {
	RenderPNG(snap *game.GameSnapshot) ([]byte, error)
}

// RouterConfig carries the router's dependencies. Everything optional
// has a production default, so the server passes Engine and Input and
// leaves the rest zero; tests override the rate limit so assertions
// don't trip 429s.
type RouterConfig struct {
	// Engine is the simulation engine (required)
	Engine EngineInterface

	// Input receives player commands (required)
	Input InputSink

	// Renderer serves /api/frame.png; nil disables the endpoint.
	Renderer FrameRenderer

	// RateLimiter to reuse; nil builds one from RateLimitConfig or the
	// package default. A built limiter runs a janitor goroutine that is
	// never stopped, so long-lived servers should pass their own.
	RateLimiter *IPRateLimiter

	// RateLimitConfig overrides DefaultRateLimitConfig when RateLimiter
	// is nil.
	RateLimitConfig *RateLimitConfig

	// CORSOrigins overrides the local-development origin patterns.
	CORSOrigins []string

	// DisableLogging drops the request logger (benchmarks, quiet tests).
	DisableLogging bool
}

// apiHandlers binds the route handlers to their dependencies.
type apiHandlers struct {
	engine   EngineInterface
	input    InputSink
	renderer FrameRenderer
}

// NewRouter builds the chi router. It starts no goroutines and opens
// no listeners (the one exception is noted on RouterConfig.RateLimiter),
// so httptest can serve it directly.
//
// Middleware runs logger, recoverer, rate limit, CORS, in that order:
// over-limit clients are refused before CORS spends anything on them.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)

	rateLimiter := cfg.RateLimiter
	if rateLimiter == nil {
		rateLimitCfg := DefaultRateLimitConfig
		if cfg.RateLimitConfig != nil {
			rateLimitCfg = *cfg.RateLimitConfig
		}
		rateLimiter = NewIPRateLimiter(rateLimitCfg)
	}
	r.Use(rateLimiter.Middleware)

	corsOrigins := cfg.CORSOrigins
	if corsOrigins == nil {
		corsOrigins = []string{
			"http://localhost:*",
			"http://127.0.0.1:*",
		}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	h := &apiHandlers{
		engine:   cfg.Engine,
		input:    cfg.Input,
		renderer: cfg.Renderer,
	}

	r.Get("/health", h.handleHealth)

	r.Route("/api", func(r chi.Router) {
		// Read side
		r.Get("/state", h.handleGetState)
		r.Get("/level", h.handleGetLevel)
		r.Get("/stats", h.handleGetStats)
		r.Get("/frame.png", h.handleGetFrame)

		// Player input
		r.Post("/input/aim", h.handleAim)
		r.Post("/input/fire", h.handleFire)
		r.Post("/input/swap", h.handleSwap)

		// Run control
		r.Post("/control/pause", h.handlePause)
		r.Post("/control/resume", h.handleResume)
		r.Post("/control/restart", h.handleRestart)
	})

	return r
}
