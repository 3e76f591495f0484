package api

import (
	"crypto/subtle"
	"log"
	"net/http"
	"net/http/pprof"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Every label set below is bounded. Per-client values (IPs, session ids)
// never become labels, or a scraper-facing cardinality leak becomes a
// memory leak.
var (
	// Simulation metrics
	tickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "chainshot_tick_duration_seconds",
		Help:    "Time spent in one simulation tick",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05},
	})

	renderDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "chainshot_render_duration_seconds",
		Help:    "PNG frame encode time",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
	})

	orbCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chainshot_orb_count",
		Help: "Current number of orbs in the chain",
	})

	dangerRatio = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chainshot_danger_ratio",
		Help: "Head orb progress toward the portal (0..1)",
	})

	orbsDestroyed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chainshot_orbs_destroyed_total",
		Help: "Orbs removed by matches and powerups",
	})

	cascadeDepth = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "chainshot_cascade_depth",
		Help:    "Chain reaction depth per match",
		Buckets: []float64{1, 2, 3, 4, 5, 8},
	})

	eventsEmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chainshot_events_total",
		Help: "Total simulation events emitted",
	})

	// reason stays within: rate_limit, origin, ws_total_limit,
	// ws_ip_limit, queue_full
	connectionRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chainshot_connection_rejected_total",
		Help: "Connections rejected by rate limiter, origin check, or full queue",
	}, []string{"reason"})

	// endpoint is the route pattern, never the raw URL
	requestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "chainshot_http_request_duration_seconds",
		Help:    "HTTP request duration by route",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "endpoint"})

	requestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chainshot_http_requests_total",
		Help: "HTTP requests served",
	}, []string{"method", "endpoint", "status"})

	wsConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chainshot_websocket_connections_active",
		Help: "Open spectator WebSocket connections",
	})

	wsMessagesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chainshot_websocket_messages_total",
		Help: "Snapshot frames broadcast to spectators",
	})
)

// ObservabilityConfig configures the debug listener that serves pprof
// and /metrics. It stays off the public port on purpose.
type ObservabilityConfig struct {
	Enabled       bool
	ListenAddr    string // loopback unless ALLOW_DEBUG_EXTERNAL=true
	BasicAuthUser string // empty disables auth on the debug listener
	BasicAuthPass string
}

// DefaultObservabilityConfig returns a loopback-only debug listener.
func DefaultObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		Enabled:    true,
		ListenAddr: "127.0.0.1:6060",
	}
}

// localDebugAddr reports whether addr binds a loopback interface.
func localDebugAddr(addr string) bool {
	return strings.HasPrefix(addr, "127.0.0.1:") || strings.HasPrefix(addr, "localhost:")
}

// StartDebugServer serves pprof, /metrics and a trivial health probe on
// a side listener. pprof handlers are expensive; a non-loopback bind is
// rewritten to loopback unless ALLOW_DEBUG_EXTERNAL=true.
func StartDebugServer(cfg ObservabilityConfig) error {
	if !cfg.Enabled {
		log.Println("📊 Debug listener off")
		return nil
	}

	if !localDebugAddr(cfg.ListenAddr) && os.Getenv("ALLOW_DEBUG_EXTERNAL") != "true" {
		log.Println("⚠️ Debug listener rebound to loopback; set ALLOW_DEBUG_EXTERNAL=true to expose it")
		cfg.ListenAddr = "127.0.0.1:6060"
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	var handler http.Handler = mux
	if cfg.BasicAuthUser != "" {
		handler = basicAuthMiddleware(cfg.BasicAuthUser, cfg.BasicAuthPass, mux)
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("📊 Debug listener on %s (pprof under /debug/pprof/, metrics under /metrics)", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil {
			log.Printf("⚠️ Debug listener: %v", err)
		}
	}()

	return nil
}

func basicAuthMiddleware(user, pass string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, p, ok := r.BasicAuth()
		userOK := subtle.ConstantTimeCompare([]byte(u), []byte(user)) == 1
		passOK := subtle.ConstantTimeCompare([]byte(p), []byte(pass)) == 1
		if !ok || !userOK || !passOK {
			w.Header().Set("WWW-Authenticate", `Basic realm="debug"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RecordTick observes one tick's duration.
func RecordTick(duration time.Duration) {
	tickDuration.Observe(duration.Seconds())
}

// RecordRender observes one frame render's duration.
func RecordRender(duration time.Duration) {
	renderDuration.Observe(duration.Seconds())
}

// UpdateOrbCount sets the chain size gauge.
func UpdateOrbCount(count int) {
	orbCount.Set(float64(count))
}

// UpdateDangerRatio sets the danger gauge.
func UpdateDangerRatio(ratio float64) {
	dangerRatio.Set(ratio)
}

// RecordOrbsDestroyed adds removed orbs to the counter.
func RecordOrbsDestroyed(count int) {
	orbsDestroyed.Add(float64(count))
}

// RecordCascadeDepth observes a match's chain reaction depth.
func RecordCascadeDepth(depth int) {
	cascadeDepth.Observe(float64(depth))
}

// RecordEventsEmitted adds emitted events to the counter.
func RecordEventsEmitted(count int) {
	eventsEmitted.Add(float64(count))
}

// RecordConnectionRejected increments the rejection counter. reason
// must be one of the bounded values listed on the metric.
func RecordConnectionRejected(reason string) {
	connectionRejected.WithLabelValues(reason).Inc()
}

// RecordRequest records latency and count for one HTTP request.
func RecordRequest(method, endpoint string, status int, duration time.Duration) {
	requestLatency.WithLabelValues(method, endpoint).Observe(duration.Seconds())
	requestTotal.WithLabelValues(method, endpoint, http.StatusText(status)).Inc()
}

// UpdateWSConnections sets the spectator connection gauge.
func UpdateWSConnections(count int) {
	wsConnectionsActive.Set(float64(count))
}

// IncrementWSMessages counts one broadcast fan-out.
func IncrementWSMessages() {
	wsMessagesTotal.Inc()
}
