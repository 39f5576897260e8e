package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for JobOperations.
const (
	OutcomeSuccess  = "success"
	OutcomeNotFound = "not_found"
	OutcomeInvalid  = "invalid"
	OutcomeError    = "error"
)

var (
	JobOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "jobs_api", Name: "job_operations_total", Help: "Number of job operations by operation and outcome."},
		[]string{"operation", "outcome"},
	)
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Namespace: "jobs_api", Name: "http_request_duration_seconds", Help: "HTTP request latency by route.", Buckets: prometheus.DefBuckets},
		[]string{"method", "route", "status"},
	)
	EventsPublishFailed = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "jobs_api", Name: "events_publish_failed_total", Help: "Number of job change events that could not be published."},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(JobOperations)
	reg.MustRegister(RequestDuration)
	reg.MustRegister(EventsPublishFailed)
}
