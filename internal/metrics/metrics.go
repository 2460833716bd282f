// Package metrics provides Prometheus metrics for the website.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SearchQueries counts search requests by surface (quick, full).
	SearchQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "website",
			Name:      "search_queries_total",
			Help:      "Total number of search queries",
		},
		[]string{"mode"},
	)

	// SearchResults observes how many results a query produced before paging.
	SearchResults = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "website",
			Name:      "search_results",
			Help:      "Distribution of result counts per query",
			Buckets:   []float64{0, 1, 2, 5, 8, 10, 25, 50, 100},
		},
		[]string{"mode"},
	)

	// FormSubmissions counts contact and newsletter submissions by outcome.
	FormSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "website",
			Name:      "form_submissions_total",
			Help:      "Total number of form submissions",
		},
		[]string{"form", "status"},
	)

	// ExternalCallDuration measures calls to third-party services.
	ExternalCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "website",
			Name:      "external_call_duration_seconds",
			Help:      "Duration of calls to external services in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "status"},
	)
)

// RecordSearch records a served search query.
func RecordSearch(mode string, results int) {
	SearchQueries.WithLabelValues(mode).Inc()
	SearchResults.WithLabelValues(mode).Observe(float64(results))
}

// RecordSubmission records the outcome of a form submission.
func RecordSubmission(form, status string) {
	FormSubmissions.WithLabelValues(form, status).Inc()
}

// ObserveExternal records the duration of an external call started at start.
func ObserveExternal(service string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	ExternalCallDuration.WithLabelValues(service, status).Observe(time.Since(start).Seconds())
}
