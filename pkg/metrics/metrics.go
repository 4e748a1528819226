package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Catalog metrics
	IndexesTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "vectoriadb_indexes_total",
			Help: "Number of indexes in the catalog by state",
		},
		[]string{"state"},
	)

	UploadsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "vectoriadb_uploads_in_flight",
			Help: "Number of indexes with an upload session in progress",
		},
	)

	// Build pipeline metrics
	BuildsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "vectoriadb_builds_total",
			Help: "Total number of index builds started",
		},
	)

	BuildFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "vectoriadb_build_failures_total",
			Help: "Total number of index builds that ended in BROKEN",
		},
	)

	BuildDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vectoriadb_build_duration_seconds",
			Help:    "Index build duration in seconds",
			Buckets: prometheus.ExponentialBuckets(1, 2, 14),
		},
	)

	// Query metrics
	QueriesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "vectoriadb_queries_total",
			Help: "Total number of nearest-neighbour queries served",
		},
	)

	QueryDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vectoriadb_query_duration_seconds",
			Help:    "Nearest-neighbour query duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Service mode: 1 for the active mode, 0 for the other
	ServiceMode = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "vectoriadb_service_mode",
			Help: "Active service mode (1 = active)",
		},
		[]string{"mode"},
	)

	// RPC metrics
	RPCRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vectoriadb_rpc_requests_total",
			Help: "Total RPC requests by method and status code",
		},
		[]string{"method", "code"},
	)

	RPCRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vectoriadb_rpc_request_duration_seconds",
			Help:    "RPC request duration in seconds by method",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)
)

func init() {
	// Register all metrics
	prometheus.MustRegister(IndexesTotal)
	prometheus.MustRegister(UploadsInFlight)
	prometheus.MustRegister(BuildsTotal)
	prometheus.MustRegister(BuildFailuresTotal)
	prometheus.MustRegister(BuildDuration)
	prometheus.MustRegister(QueriesTotal)
	prometheus.MustRegister(QueryDuration)
	prometheus.MustRegister(ServiceMode)
	prometheus.MustRegister(RPCRequestsTotal)
	prometheus.MustRegister(RPCRequestDuration)
}

// SetMode flags the active service mode.
func SetMode(mode string) {
	for _, m := range []string{"build", "search"} {
		if m == mode {
			ServiceMode.WithLabelValues(m).Set(1)
		} else {
			ServiceMode.WithLabelValues(m).Set(0)
		}
	}
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer measures operation durations
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer starting now
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the elapsed time in the given histogram
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	histogram.Observe(time.Since(t.start).Seconds())
}

// ObserveDurationVec records the elapsed time with labels
func (t *Timer) ObserveDurationVec(histogram prometheus.ObserverVec, labels ...string) {
	histogram.WithLabelValues(labels...).Observe(time.Since(t.start).Seconds())
}

// Duration returns the elapsed time
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
