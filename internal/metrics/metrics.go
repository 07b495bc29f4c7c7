package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "quicklink"

var (
	queriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "resolver",
			Name:      "queries_total",
			Help:      "Queries resolved, by mode.",
		},
		[]string{"mode"},
	)

	resolveDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "resolver",
			Name:      "resolve_duration_seconds",
			Help:      "Query resolution latency.",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"mode"},
	)

	dirCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dirindex",
			Name:      "cache_lookups_total",
			Help:      "Directory listing cache lookups, by result.",
		},
		[]string{"result"},
	)

	dirScanDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "dirindex",
			Name:      "scan_duration_seconds",
			Help:      "Directory enumeration latency on cache miss.",
			Buckets:   prometheus.DefBuckets,
		},
	)

	usageFlushes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "usage",
			Name:      "flushes_total",
			Help:      "Usage snapshot writes, by outcome.",
		},
		[]string{"outcome"},
	)

	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests, by route pattern, method and status class.",
		},
		[]string{"route", "method", "status"},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency, by route pattern.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	httpRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "rejected_total",
			Help:      "Requests refused by a guard middleware, by reason.",
		},
		[]string{"reason"},
	)

	usageRecords = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "usage",
			Name:      "records_total",
			Help:      "Executions recorded.",
		},
	)
)

// ObserveQuery records one resolved query.
func ObserveQuery(mode string, d time.Duration) {
	queriesTotal.WithLabelValues(mode).Inc()
	resolveDuration.WithLabelValues(mode).Observe(d.Seconds())
}

func DirCacheHit()  { dirCacheLookups.WithLabelValues("hit").Inc() }
func DirCacheMiss() { dirCacheLookups.WithLabelValues("miss").Inc() }

func ObserveDirScan(d time.Duration) { dirScanDuration.Observe(d.Seconds()) }

// UsageFlushed counts a flush attempt; err selects the outcome label.
func UsageFlushed(err error) {
	if err != nil {
		usageFlushes.WithLabelValues("error").Inc()
		return
	}
	usageFlushes.WithLabelValues("ok").Inc()
}

func UsageRecorded() { usageRecords.Inc() }

// ObserveHTTP records one served request. route is the chi pattern, never
// the raw path, so label cardinality stays bounded.
func ObserveHTTP(route, method string, status int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(route, method, statusClass(status)).Inc()
	httpDuration.WithLabelValues(route).Observe(d.Seconds())
}

// Rejected counts a request refused by reason ("cidr", "host", "rate_limit").
func Rejected(reason string) { httpRejected.WithLabelValues(reason).Inc() }

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
