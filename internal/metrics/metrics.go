package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all Prometheus metrics.
type Registry struct {
	*prometheus.Registry

	// HTTP metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight prometheus.Gauge

	// Signal metrics
	fetchesTotal   *prometheus.CounterVec
	fetchDuration  prometheus.Histogram
	recordsFetched prometheus.Counter
	exportsTotal   *prometheus.CounterVec
	exportBytes    prometheus.Histogram
	archiveWrites  *prometheus.CounterVec
}

// NewRegistry creates a new metrics registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	// Register Go runtime metrics
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{
		Registry: reg,

		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),

		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		httpRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently in flight",
			},
		),
	}

	reg.MustRegister(r.httpRequestsTotal)
	reg.MustRegister(r.httpRequestDuration)
	reg.MustRegister(r.httpRequestsInFlight)

	r.fetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fxsignals_fetches_total",
			Help: "Total number of signal API requests",
		},
		[]string{"status"},
	)
	r.fetchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fxsignals_fetch_duration_seconds",
			Help:    "Signal API request duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)
	r.recordsFetched = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fxsignals_records_fetched_total",
			Help: "Total number of signal records received",
		},
	)
	r.exportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fxsignals_exports_total",
			Help: "Total number of workbook exports",
		},
		[]string{"status"},
	)
	r.exportBytes = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fxsignals_export_bytes",
			Help:    "Size of exported workbooks in bytes",
			Buckets: prometheus.ExponentialBuckets(4096, 4, 8),
		},
	)
	r.archiveWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fxsignals_archive_writes_total",
			Help: "Total number of workbooks written to the archive",
		},
		[]string{"backend", "status"},
	)

	reg.MustRegister(r.fetchesTotal)
	reg.MustRegister(r.fetchDuration)
	reg.MustRegister(r.recordsFetched)
	reg.MustRegister(r.exportsTotal)
	reg.MustRegister(r.exportBytes)
	reg.MustRegister(r.archiveWrites)

	return r
}

// Handler returns the HTTP handler exposing this registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.Registry, promhttp.HandlerOpts{})
}

// RecordRequest records metrics for an HTTP request.
func (r *Registry) RecordRequest(method, path string, status int, duration float64) {
	statusStr := statusToString(status)
	r.httpRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
	r.httpRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// InFlightInc increments in-flight requests.
func (r *Registry) InFlightInc() {
	r.httpRequestsInFlight.Inc()
}

// InFlightDec decrements in-flight requests.
func (r *Registry) InFlightDec() {
	r.httpRequestsInFlight.Dec()
}

// RecordFetch records one signal API request.
func (r *Registry) RecordFetch(status string, duration float64, records int) {
	r.fetchesTotal.WithLabelValues(status).Inc()
	r.fetchDuration.Observe(duration)
	r.recordsFetched.Add(float64(records))
}

// RecordExport records a workbook export and its size.
func (r *Registry) RecordExport(status string, size int) {
	r.exportsTotal.WithLabelValues(status).Inc()
	if status == "success" {
		r.exportBytes.Observe(float64(size))
	}
}

// RecordArchiveWrite records a workbook written to an archive backend.
func (r *Registry) RecordArchiveWrite(backend, status string) {
	r.archiveWrites.WithLabelValues(backend, status).Inc()
}

func statusToString(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return "1xx"
	}
}
