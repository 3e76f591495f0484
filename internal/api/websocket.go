package api

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"chainshot/internal/input"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// MaxWSConnectionsTotal caps spectators across all IPs
	MaxWSConnectionsTotal = 500

	// MaxWSConnectionsPerIP caps spectators behind one address
	MaxWSConnectionsPerIP = 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if IsAllowedOrigin(origin) {
			return true
		}

		log.Printf("⚠️ Spectator refused, origin not allowed: %s", origin)
		RecordConnectionRejected("origin")
		return false
	},
}

// wsClient is one spectator socket. The id doubles as the command
// source so per-source limits tell tabs behind one IP apart.
type wsClient struct {
	id   string
	conn *websocket.Conn
	ip   string
}

// wsCommand is the inbound message shape: {"op":"aim","angle":1.2} or
// {"op":"aim_at","x":400,"y":300}, plus the argument-free ops.
type wsCommand struct {
	Op    string  `json:"op"`
	Angle float64 `json:"angle"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// WebSocketHub fans snapshots and events out to spectators and feeds
// their commands into the input queue. All map writes happen on the
// Run goroutine; readers take the RLock.
type WebSocketHub struct {
	clients    map[*websocket.Conn]*wsClient
	broadcast  chan []byte
	register   chan *wsClient
	unregister chan *websocket.Conn
	mu         sync.RWMutex

	input InputSink

	wsLimiter *WebSocketRateLimiter
}

// NewWebSocketHub creates a hub with per-IP connection limiting. input
// may be nil for broadcast-only hubs.
func NewWebSocketHub(input InputSink) *WebSocketHub {
	return &WebSocketHub{
		clients:    make(map[*websocket.Conn]*wsClient),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *wsClient),
		unregister: make(chan *websocket.Conn),
		input:      input,
		wsLimiter:  NewWebSocketRateLimiter(MaxWSConnectionsPerIP),
	}
}

// Run owns the client map. Start it before serving the /ws route.
func (h *WebSocketHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.conn] = client
			count := len(h.clients)
			h.mu.Unlock()

			log.Printf("📱 Spectator %s connected from %s (%d total)", client.id, client.ip, count)
			UpdateWSConnections(count)

		case conn := <-h.unregister:
			h.drop(conn)

		case message := <-h.broadcast:
			h.mu.RLock()
			var dead []*websocket.Conn
			for conn := range h.clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					dead = append(dead, conn)
				}
			}
			h.mu.RUnlock()

			for _, conn := range dead {
				h.drop(conn)
			}
			IncrementWSMessages()
		}
	}
}

// drop removes a connection, returns its per-IP slot and updates the
// gauge. Unknown connections are ignored so double unregisters are safe.
func (h *WebSocketHub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	client, ok := h.clients[conn]
	if ok {
		h.wsLimiter.Release(client.ip)
		delete(h.clients, conn)
	}
	count := len(h.clients)
	h.mu.Unlock()

	if !ok {
		return
	}
	conn.Close()
	log.Printf("📱 Spectator disconnected (%d remaining)", count)
	UpdateWSConnections(count)
}

// Broadcast queues an {"event": ..., "data": ...} envelope for every
// spectator. Drops the message instead of blocking when the hub is
// backed up.
func (h *WebSocketHub) Broadcast(event string, data interface{}) {
	msg := map[string]interface{}{
		"event": event,
		"data":  data,
	}

	jsonBytes, err := json.Marshal(msg)
	if err != nil {
		return
	}

	select {
	case h.broadcast <- jsonBytes:
	default:
	}
}

// ClientCount returns the number of connected spectators.
func (h *WebSocketHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// StartBroadcastLoop pushes snapshots to spectators at the given
// interval. Unchanged ticks and empty rooms send nothing.
func (h *WebSocketHub) StartBroadcastLoop(engine EngineInterface, interval time.Duration) {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	ticker := time.NewTicker(interval)

	go func() {
		var lastTick uint64
		for range ticker.C {
			if h.ClientCount() == 0 {
				continue
			}

			snap := engine.GetSnapshot()
			if snap == nil || snap.TickNumber == lastTick {
				continue
			}
			lastTick = snap.TickNumber

			h.Broadcast("game:state", snap)
			UpdateDangerRatio(snap.DangerRatio)
			UpdateOrbCount(snap.OrbCount)
		}
	}()
}

// HandleWebSocket upgrades a spectator connection, enforcing the total
// and per-IP caps before the upgrade spends any socket state.
func (h *WebSocketHub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	ip := GetClientIP(r)

	if h.ClientCount() >= MaxWSConnectionsTotal {
		log.Printf("⚠️ Spectator refused, hub at capacity (%d)", MaxWSConnectionsTotal)
		RecordConnectionRejected("ws_total_limit")
		http.Error(w, "Spectator slots exhausted", http.StatusServiceUnavailable)
		return
	}

	if !h.wsLimiter.Allow(ip) {
		log.Printf("⚠️ Spectator refused, IP %s at its connection cap", ip)
		RecordConnectionRejected("ws_ip_limit")
		http.Error(w, "Connection cap reached for this IP", http.StatusTooManyRequests)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade failures answer the client themselves; give back the slot
		log.Printf("WebSocket upgrade failed: %v", err)
		h.wsLimiter.Release(ip)
		return
	}

	client := &wsClient{id: uuid.NewString(), conn: conn, ip: ip}
	h.register <- client

	// Spectators may also play
	go h.readLoop(client)
}

// readLoop feeds inbound commands to the input queue until the socket
// dies. Malformed and unknown messages are skipped, not fatal.
func (h *WebSocketHub) readLoop(client *wsClient) {
	defer func() {
		h.unregister <- client.conn
	}()

	for {
		_, message, err := client.conn.ReadMessage()
		if err != nil {
			break
		}
		if h.input == nil {
			continue
		}

		var msg wsCommand
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}

		op := input.ParseOp(msg.Op)
		if op == input.OpUnknown {
			continue
		}
		h.input.Enqueue(input.Command{
			Op:     op,
			Angle:  msg.Angle,
			X:      msg.X,
			Y:      msg.Y,
			Source: client.id,
		})
	}
}
