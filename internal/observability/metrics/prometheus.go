package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Decision stages are store reads, so buckets start well below a millisecond.
	stageBuckets = []float64{.0001, .0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1}

	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_decision_http_requests_total",
			Help: "Total number of HTTP requests processed, labeled by endpoint and status code.",
		},
		[]string{"endpoint", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "notification_decision_http_request_duration_seconds",
			Help:    "Histogram of latencies for HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// DecisionsTotal counts terminal decisions. reason is empty for PROCESS_NOTIFICATION.
	DecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_decision_decisions_total",
			Help: "Total number of notification decisions, labeled by decision and reason.",
		},
		[]string{"decision", "reason"},
	)

	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "notification_decision_stage_duration_seconds",
			Help:    "Histogram of decision chain stage durations, by stage.",
			Buckets: stageBuckets,
		},
		[]string{"stage"},
	)

	StoreRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_decision_store_retries_total",
			Help: "Total number of retried preferences store calls, labeled by operation.",
		},
		[]string{"operation"},
	)

	AuditRecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_decision_audit_records_total",
			Help: "Total number of notification command audit records, labeled by driver and result.",
		},
		[]string{"driver", "result"},
	)

	KafkaPublishDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "notification_decision_kafka_publish_duration_seconds",
			Help:    "Histogram of Kafka publish durations.",
			Buckets: prometheus.DefBuckets,
		},
	)

	ErrorTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_decision_error_total",
			Help: "Total number of errors, labeled by type.",
		},
		[]string{"type"},
	)
)

// MetricsHandler returns the HTTP handler for the Prometheus metrics endpoint.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// ObserveStage records how long a decision chain stage took.
func ObserveStage(stage string, start time.Time) {
	StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

func RecordAudit(driver string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	AuditRecordsTotal.WithLabelValues(driver, result).Inc()
}
