package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"chainshot/internal/game"
	"chainshot/internal/input"
	"chainshot/internal/level"
)

// newServerFixture builds a full server around a real engine and queue,
// the way main wires it, without starting any workers.
func newServerFixture(t *testing.T) *Server {
	t.Helper()

	gen := level.NewGenerator(1366, 768)
	engine, err := game.NewEngine(game.EngineConfig{RNGSeed: 1}, gen.Generate)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	queue := input.NewCommandQueue(input.NewDispatcher(engine), input.DefaultQueueConfig())

	s := NewServer(engine, queue, nil)
	t.Cleanup(s.Stop)
	return s
}

// TestNewServerConstructionIsInert verifies a constructed server answers
// HTTP through Router() without Start having run.
func TestNewServerConstructionIsInert(t *testing.T) {
	s := newServerFixture(t)

	ts := httptest.NewServer(s.Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected 200, got %d", resp.StatusCode)
	}
}

// TestServerStateThroughRealEngine verifies the state endpoint serves
// snapshots produced by the real engine.
func TestServerStateThroughRealEngine(t *testing.T) {
	s := newServerFixture(t)

	// One manual tick loads level 1 and publishes the first snapshot.
	s.engine.Update(1.0 / 60.0)

	ts := httptest.NewServer(s.Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/state")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected 200, got %d", resp.StatusCode)
	}

	var snap game.GameSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatalf("Failed to decode snapshot: %v", err)
	}
	if snap.Level != 1 {
		t.Errorf("Expected level 1, got %d", snap.Level)
	}
	if snap.State != "playing" {
		t.Errorf("Expected state 'playing', got '%s'", snap.State)
	}
	if snap.RunID == "" {
		t.Error("Snapshot should carry a run id")
	}
}

// TestServerBroadcastInterval verifies the cadence setter ignores
// non-positive values.
func TestServerBroadcastInterval(t *testing.T) {
	s := newServerFixture(t)

	s.SetBroadcastInterval(50 * time.Millisecond)
	if s.broadcastInterval != 50*time.Millisecond {
		t.Errorf("Expected 50ms, got %v", s.broadcastInterval)
	}

	s.SetBroadcastInterval(0)
	if s.broadcastInterval != 50*time.Millisecond {
		t.Error("Zero interval should be ignored")
	}
	s.SetBroadcastInterval(-time.Second)
	if s.broadcastInterval != 50*time.Millisecond {
		t.Error("Negative interval should be ignored")
	}
}

// TestServerEngineEventFanout verifies the event callback tolerates every
// payload shape, including missing payloads, without the hub running.
func TestServerEngineEventFanout(t *testing.T) {
	s := newServerFixture(t)

	matchPayload, _ := json.Marshal(game.MatchPayload{Removed: 3, Depth: 1, Points: 30})
	powerupPayload, _ := json.Marshal(game.PowerupPayload{Kind: "bomb", Removed: 5})

	events := []game.Event{
		{Type: game.EventTypeTick},
		{Type: game.EventTypeMatch, Payload: matchPayload},
		{Type: game.EventTypePowerup, Payload: powerupPayload},
		{Type: game.EventTypeMatch}, // nil payload is skipped, not fatal
	}

	s.onEngineEvents(events)
}
