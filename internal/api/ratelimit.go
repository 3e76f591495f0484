package api

import (
	"net"
	"net/http"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig tunes the per-IP token buckets guarding the REST surface.
type RateLimitConfig struct {
	RequestsPerSecond float64       // sustained rate per IP
	Burst             int           // bucket depth per IP
	CleanupInterval   time.Duration // janitor period for idle buckets
}

// DefaultRateLimitConfig allows a steady aim stream over REST without
// letting one IP starve the queue. WebSocket input bypasses this limiter
// and is capped by connection count instead.
var DefaultRateLimitConfig = RateLimitConfig{
	RequestsPerSecond: 30,
	Burst:             60,
	CleanupInterval:   5 * time.Minute,
}

// ipBucket pairs a token bucket with its last-use time so the janitor
// can drop buckets for IPs that stopped talking to us.
type ipBucket struct {
	lim      *rate.Limiter
	lastSeen atomic.Int64 // unix nanos
}

// IPRateLimiter hands out one token bucket per client IP.
type IPRateLimiter struct {
	buckets sync.Map // ip -> *ipBucket
	cfg     RateLimitConfig
	done    chan struct{}
	once    sync.Once

	allowed  atomic.Uint64
	rejected atomic.Uint64
}

// NewIPRateLimiter starts the limiter and its janitor goroutine.
// Call Stop when done with it.
func NewIPRateLimiter(cfg RateLimitConfig) *IPRateLimiter {
	rl := &IPRateLimiter{
		cfg:  cfg,
		done: make(chan struct{}),
	}
	go rl.janitor()
	return rl
}

// Stop terminates the janitor goroutine. Safe to call more than once.
func (rl *IPRateLimiter) Stop() {
	rl.once.Do(func() { close(rl.done) })
}

func (rl *IPRateLimiter) bucketFor(ip string) *rate.Limiter {
	now := time.Now().UnixNano()

	if v, ok := rl.buckets.Load(ip); ok {
		b := v.(*ipBucket)
		b.lastSeen.Store(now)
		return b.lim
	}

	b := &ipBucket{lim: rate.NewLimiter(rate.Limit(rl.cfg.RequestsPerSecond), rl.cfg.Burst)}
	b.lastSeen.Store(now)
	v, _ := rl.buckets.LoadOrStore(ip, b)
	return v.(*ipBucket).lim
}

func (rl *IPRateLimiter) janitor() {
	ticker := time.NewTicker(rl.cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.done:
			return
		case <-ticker.C:
			rl.sweep()
		}
	}
}

// sweep drops buckets idle for two janitor periods.
func (rl *IPRateLimiter) sweep() {
	cutoff := time.Now().Add(-2 * rl.cfg.CleanupInterval).UnixNano()

	rl.buckets.Range(func(ip, v interface{}) bool {
		if v.(*ipBucket).lastSeen.Load() < cutoff {
			rl.buckets.Delete(ip)
		}
		return true
	})
}

// Allow reports whether a request from ip fits its bucket right now.
func (rl *IPRateLimiter) Allow(ip string) bool {
	if rl.bucketFor(ip).Allow() {
		rl.allowed.Add(1)
		return true
	}
	rl.rejected.Add(1)
	return false
}

// Middleware rejects over-limit requests with 429 before they reach a handler.
func (rl *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(GetClientIP(r)) {
			RecordConnectionRejected("rate_limit")
			w.Header().Set("Retry-After", "1")
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetStats returns allowed/rejected counts for the stats endpoint.
func (rl *IPRateLimiter) GetStats() map[string]uint64 {
	return map[string]uint64{
		"allowed":  rl.allowed.Load(),
		"rejected": rl.rejected.Load(),
	}
}

// GetClientIP resolves the client address, trusting proxy headers when
// present. X-Forwarded-For is spoofable; deploy behind a proxy that
// rewrites it, or commands can dodge per-source limits.
func GetClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// WebSocketRateLimiter caps concurrent spectator sockets per IP.
type WebSocketRateLimiter struct {
	active   sync.Map // ip -> *atomic.Int32
	maxPerIP int

	rejected atomic.Uint64
}

// NewWebSocketRateLimiter creates a connection cap of maxPerIP.
func NewWebSocketRateLimiter(maxPerIP int) *WebSocketRateLimiter {
	return &WebSocketRateLimiter{maxPerIP: maxPerIP}
}

// Allow claims a connection slot for ip. The CAS loop keeps the
// check-and-increment atomic under concurrent upgrades.
func (wrl *WebSocketRateLimiter) Allow(ip string) bool {
	v, _ := wrl.active.LoadOrStore(ip, new(atomic.Int32))
	n := v.(*atomic.Int32)

	for {
		cur := n.Load()
		if int(cur) >= wrl.maxPerIP {
			wrl.rejected.Add(1)
			return false
		}
		if n.CompareAndSwap(cur, cur+1) {
			return true
		}
	}
}

// Release returns a connection slot claimed by Allow.
func (wrl *WebSocketRateLimiter) Release(ip string) {
	if v, ok := wrl.active.Load(ip); ok {
		v.(*atomic.Int32).Add(-1)
	}
}

// GetConnectionCount returns the live connection count for ip.
func (wrl *WebSocketRateLimiter) GetConnectionCount(ip string) int {
	if v, ok := wrl.active.Load(ip); ok {
		return int(v.(*atomic.Int32).Load())
	}
	return 0
}

// GetStats returns rejection counts for the stats endpoint.
func (wrl *WebSocketRateLimiter) GetStats() map[string]uint64 {
	return map[string]uint64{
		"rejected": wrl.rejected.Load(),
	}
}

// AllowedOrigins is the exact-match allow list for CORS and WebSocket
// upgrades. Extend via SetAllowedOrigins when serving a hosted front end.
var AllowedOrigins = []string{
	"http://localhost",
	"http://localhost:3000",
	"http://localhost:8080",
}

// SetAllowedOrigins appends extra origins from configuration.
func SetAllowedOrigins(origins []string) {
	AllowedOrigins = append(AllowedOrigins, origins...)
}

// IsAllowedOrigin accepts local development hosts on any port plus the
// configured allow list. Empty origins are rejected.
func IsAllowedOrigin(origin string) bool {
	if origin == "" {
		return false
	}

	if strings.HasPrefix(origin, "http://localhost") || strings.HasPrefix(origin, "http://127.0.0.1") {
		return true
	}

	return slices.Contains(AllowedOrigins, origin)
}
