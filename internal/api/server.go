package api

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"chainshot/internal/game"
	"chainshot/internal/input"

	"github.com/go-chi/chi/v5"
)

// Server bundles the REST router with the spectator WebSocket hub and
// wires engine events into metrics and the broadcast stream.
type Server struct {
	engine      *game.Engine
	queue       *input.CommandQueue
	router      *chi.Mux
	wsHub       *WebSocketHub
	rateLimiter *IPRateLimiter

	// Snapshot broadcast cadence for spectators.
	broadcastInterval time.Duration
}

// NewServer assembles the full serving surface but starts nothing:
// no goroutines, no listeners, no engine callback. Tests construct a
// Server and drive Router() through httptest; production calls Start.
func NewServer(engine *game.Engine, queue *input.CommandQueue, renderer FrameRenderer) *Server {
	s := &Server{
		engine:            engine,
		queue:             queue,
		wsHub:             NewWebSocketHub(queue),
		rateLimiter:       NewIPRateLimiter(DefaultRateLimitConfig),
		broadcastInterval: 100 * time.Millisecond,
	}

	s.router = NewRouter(RouterConfig{
		Engine:      engine,
		Input:       queue,
		Renderer:    renderer,
		RateLimiter: s.rateLimiter,
	})

	// The hub route lives outside NewRouter: it needs this hub instance
	s.router.Get("/ws", s.wsHub.HandleWebSocket)

	return s
}

// SetBroadcastInterval adjusts the spectator snapshot cadence. Must be
// called before Start.
func (s *Server) SetBroadcastInterval(d time.Duration) {
	if d > 0 {
		s.broadcastInterval = d
	}
}

// Start launches the hub and broadcast workers, subscribes to engine
// events and serves HTTP on addr. It blocks until the listener fails.
// Call it once; stop the process to stop the server.
func (s *Server) Start(addr string) error {
	go s.wsHub.Run()
	s.wsHub.StartBroadcastLoop(s.engine, s.broadcastInterval)

	// Engine events feed metrics and the spectator stream.
	s.engine.SetEventCallback(s.onEngineEvents)

	log.Printf("🌐 Serving on %s", addr)
	log.Printf("   - state:  http://localhost%s/api/state", addr)
	log.Printf("   - frame:  http://localhost%s/api/frame.png", addr)
	log.Printf("   - ws:     ws://localhost%s/ws", addr)

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}

// Router exposes the handler for httptest; integration tests use this
// instead of Start so nothing leaks between cases.
func (s *Server) Router() http.Handler {
	return s.router
}

// Stop shuts down the background workers the constructor owns. The hub
// goroutines end with the process; their sockets need no teardown.
func (s *Server) Stop() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
}

// onEngineEvents runs outside the engine lock on every tick that
// produced events. Gameplay moments go to spectators; aggregates go to
// Prometheus.
func (s *Server) onEngineEvents(events []game.Event) {
	RecordEventsEmitted(len(events))

	for i := range events {
		ev := &events[i]
		switch ev.Type {
		case game.EventTypeTick:
			// Tick markers are replay plumbing, not spectator material.
			continue
		case game.EventTypeMatch:
			var p game.MatchPayload
			if unmarshalPayload(ev, &p) {
				RecordOrbsDestroyed(p.Removed)
				RecordCascadeDepth(p.Depth)
			}
		case game.EventTypePowerup:
			var p game.PowerupPayload
			if unmarshalPayload(ev, &p) {
				RecordOrbsDestroyed(p.Removed)
			}
		}
		s.wsHub.Broadcast("game:event", ev)
	}
}

func unmarshalPayload(ev *game.Event, out interface{}) bool {
	if ev.Payload == nil {
		return false
	}
	return json.Unmarshal(ev.Payload, out) == nil
}
