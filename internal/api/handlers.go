package api

import (
	"encoding/json"
	"math"
	"net/http"

	"chainshot/internal/input"
)

// Route handlers. NewRouter wires these up directly; Server reuses the
// same router, so every handler works without a hub or renderer present.

func (h *apiHandlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func (h *apiHandlers) handleGetState(w http.ResponseWriter, r *http.Request) {
	// Lock-free snapshot; polling clients never contend with the tick loop.
	writeJSON(w, h.engine.GetSnapshot())
}

func (h *apiHandlers) handleGetLevel(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.engine.CurrentLevel())
}

func (h *apiHandlers) handleGetStats(w http.ResponseWriter, r *http.Request) {
	stats := map[string]interface{}{
		"engine":   h.engine.Stats(),
		"eventLog": h.engine.GetEventLogStats(),
		"input":    h.input.Stats(),
	}
	writeJSON(w, stats)
}

func (h *apiHandlers) handleGetFrame(w http.ResponseWriter, r *http.Request) {
	if h.renderer == nil {
		writeError(w, "frame rendering not enabled", http.StatusNotFound)
		return
	}

	png, err := h.renderer.RenderPNG(h.engine.GetSnapshot())
	if err != nil {
		writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(png)
}

func (h *apiHandlers) handleAim(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Angle *float64 `json:"angle"`
		X     *float64 `json:"x"`
		Y     *float64 `json:"y"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	cmd := input.Command{Source: GetClientIP(r)}
	switch {
	case req.Angle != nil:
		if !finite(*req.Angle) {
			writeError(w, "angle must be finite", http.StatusBadRequest)
			return
		}
		cmd.Op = input.OpAim
		cmd.Angle = *req.Angle
	case req.X != nil && req.Y != nil:
		if !finite(*req.X) || !finite(*req.Y) {
			writeError(w, "target must be finite", http.StatusBadRequest)
			return
		}
		cmd.Op = input.OpAimAt
		cmd.X = *req.X
		cmd.Y = *req.Y
	default:
		writeError(w, "angle or x/y required", http.StatusBadRequest)
		return
	}

	h.enqueue(w, cmd)
}

func (h *apiHandlers) handleFire(w http.ResponseWriter, r *http.Request) {
	h.enqueue(w, input.Command{Op: input.OpFire, Source: GetClientIP(r)})
}

func (h *apiHandlers) handleSwap(w http.ResponseWriter, r *http.Request) {
	h.enqueue(w, input.Command{Op: input.OpSwap, Source: GetClientIP(r)})
}

func (h *apiHandlers) handlePause(w http.ResponseWriter, r *http.Request) {
	h.enqueue(w, input.Command{Op: input.OpPause, Source: GetClientIP(r)})
}

func (h *apiHandlers) handleResume(w http.ResponseWriter, r *http.Request) {
	h.enqueue(w, input.Command{Op: input.OpResume, Source: GetClientIP(r)})
}

func (h *apiHandlers) handleRestart(w http.ResponseWriter, r *http.Request) {
	h.enqueue(w, input.Command{Op: input.OpRestart, Source: GetClientIP(r)})
}

// enqueue pushes a command and answers 202 Accepted, or 503 when the
// buffer is full.
func (h *apiHandlers) enqueue(w http.ResponseWriter, cmd input.Command) {
	if !h.input.Enqueue(cmd) {
		RecordConnectionRejected("queue_full")
		writeError(w, "input queue full", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]bool{"queued": true})
}

// finite rejects NaN and infinities before they reach the queue.
func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
