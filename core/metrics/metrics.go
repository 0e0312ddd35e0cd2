package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// UnmatchedRoute labels requests no route matched (static files, 404s).
const UnmatchedRoute = "unmatched"

// Metrics owns a private registry with the Go and process collectors plus
// the application's HTTP metrics. Labels are limited to method, route
// pattern and status to keep cardinality bounded.
type Metrics struct {
	reg     *prometheus.Registry
	handler http.Handler

	inflight          prometheus.Gauge
	reqTotal          *prometheus.CounterVec
	reqDur            *prometheus.HistogramVec
	respBytes         *prometheus.HistogramVec
	panicTotal        prometheus.Counter
	rateLimitDenied   prometheus.Counter
	accessLogErrors   prometheus.Counter
	uploadsRejected   prometheus.Counter
	sessionsPurged    prometheus.Counter
	csrfRejectedTotal prometheus.Counter
}

// New returns metrics registered on a fresh registry.
func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		inflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_inflight_requests",
			Help:      "Current number of in-flight HTTP requests",
		}),
		reqTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by method, route, and status",
		}, []string{"method", "route", "status"}),
		reqDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Request latency by method and route",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"method", "route"}),
		respBytes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_response_size_bytes",
			Help:      "Response size by method and route",
			Buckets:   []float64{256, 1024, 4096, 16384, 65536, 262144, 1048576, 4194304},
		}, []string{"method", "route"}),
		panicTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_panic_total",
			Help:      "Total number of recovered panics",
		}),
		rateLimitDenied: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_rate_limited_total",
			Help:      "Total requests rejected by the rate limiter",
		}),
		accessLogErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "access_log_write_errors_total",
			Help:      "Access log lines that could not be written",
		}),
		uploadsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_rejected_total",
			Help:      "File uploads dropped by the type or size filter",
		}),
		sessionsPurged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_purged_total",
			Help:      "Expired sessions removed by the cleanup loop",
		}),
		csrfRejectedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "csrf_rejected_total",
			Help:      "Mutating requests rejected for a missing or invalid CSRF token",
		}),
	}
	reg.MustRegister(
		m.inflight,
		m.reqTotal,
		m.reqDur,
		m.respBytes,
		m.panicTotal,
		m.rateLimitDenied,
		m.accessLogErrors,
		m.uploadsRejected,
		m.sessionsPurged,
		m.csrfRejectedTotal,
	)

	m.handler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
	m.reg = reg
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return m.handler
}

// Registry exposes the underlying registry for additional collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

func (m *Metrics) InflightInc() { m.inflight.Inc() }
func (m *Metrics) InflightDec() { m.inflight.Dec() }

// ObserveRequest records one finished request. An empty route is recorded
// as UnmatchedRoute.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration, bytes int64) {
	if route == "" {
		route = UnmatchedRoute
	}
	m.reqTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.reqDur.WithLabelValues(method, route).Observe(d.Seconds())
	m.respBytes.WithLabelValues(method, route).Observe(float64(bytes))
}

func (m *Metrics) IncPanic()           { m.panicTotal.Inc() }
func (m *Metrics) IncRateLimitDenied() { m.rateLimitDenied.Inc() }
func (m *Metrics) IncAccessLogError()  { m.accessLogErrors.Inc() }
func (m *Metrics) IncUploadRejected()  { m.uploadsRejected.Inc() }
func (m *Metrics) IncCSRFRejected()    { m.csrfRejectedTotal.Inc() }
func (m *Metrics) AddSessionsPurged(n int64) {
	if n > 0 {
		m.sessionsPurged.Add(float64(n))
	}
}
