package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// metrics holds the Prometheus instrumentation for the API surface.
type metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	wsConnections   prometheus.Gauge
	rateLimitHits   prometheus.Counter
}

func newMetrics() *metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &metrics{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "roomledger_http_requests_total",
			Help: "HTTP requests by method, path pattern and status code.",
		}, []string{"method", "path", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "roomledger_http_request_duration_seconds",
			Help:    "HTTP request latency by method and path pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		wsConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "roomledger_websocket_connections",
			Help: "Currently open websocket connections.",
		}),
		rateLimitHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "roomledger_rate_limit_hits_total",
			Help: "Requests rejected by the rate limiter.",
		}),
	}

	registry.MustRegister(m.requestsTotal, m.requestDuration, m.wsConnections, m.rateLimitHits)
	return m
}

// middleware records request counts and latencies. Document ids are
// collapsed out of the path label to keep cardinality low.
func (m *metrics) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		path := collapsePath(r.URL.Path)
		m.requestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(recorder.status)).Inc()
		m.requestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// collapsePath replaces the id segment of entity routes with ":id".
// Routes are /api/<entity>[/<id>[/<action>]].
func collapsePath(path string) string {
	parts := strings.Split(path, "/")
	// parts[0] is empty, parts[1] == "api", parts[2] is the entity.
	if len(parts) >= 4 && parts[1] == "api" && parts[3] != "" {
		switch parts[3] {
		case "split", "reset", "initialize", "complete", "status":
		default:
			parts[3] = ":id"
		}
	}
	return strings.Join(parts, "/")
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
