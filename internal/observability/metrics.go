package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// total requests per endpoint, method and status code
	RequestCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oohplanner_requests_total",
			Help: "Total API requests received",
		},
		[]string{"endpoint", "method", "status"},
	)

	// request latency in seconds per endpoint/method
	RequestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "oohplanner_request_duration_seconds",
			Help:    "Histogram of request latencies",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method"},
	)

	// allocations computed, labelled by resulting budget status
	AllocationCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oohplanner_allocations_total",
			Help: "Total budget allocations computed",
		},
		[]string{"status"},
	)

	// latency of a full allocation pass
	AllocationLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "oohplanner_allocation_duration_seconds",
			Help:    "Duration of budget allocation computations",
			Buckets: prometheus.DefBuckets,
		},
	)

	// faces funded per allocation
	AllocatedFaces = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "oohplanner_allocated_faces",
			Help:    "Histogram of faces funded per allocation",
			Buckets: prometheus.LinearBuckets(0, 10, 21),
		},
	)

	// plan cache lookups, labelled by outcome (hit/miss/error)
	PlanCacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oohplanner_plan_cache_lookups_total",
			Help: "Total plan cache lookups",
		},
		[]string{"outcome"},
	)

	// ideal plans built, labelled by taxonomy
	PlanCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oohplanner_plans_total",
			Help: "Total ideal plans built",
		},
		[]string{"taxonomy"},
	)

	// efficiency comparisons, labelled by verdict
	EfficiencyCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oohplanner_efficiency_checks_total",
			Help: "Total manual-plan efficiency comparisons",
		},
		[]string{"status"},
	)

	// number of errors persisting analytics events
	AnalyticsErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "oohplanner_analytics_errors_total",
			Help: "Total analytics persistence errors",
		},
	)

	// rate limit hits per planning block
	RateLimitHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oohplanner_ratelimit_hits_total",
			Help: "Total rate limit hits per planning block",
		},
		[]string{"block_id"},
	)

	// rate limit requests per planning block
	RateLimitRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oohplanner_ratelimit_requests_total",
			Help: "Total rate limit requests per planning block",
		},
		[]string{"block_id"},
	)
)

func init() {
	// register all metrics
	prometheus.MustRegister(
		RequestCount,
		RequestLatency,
		AllocationCount,
		AllocationLatency,
		AllocatedFaces,
		PlanCacheLookups,
		PlanCount,
		EfficiencyCount,
		AnalyticsErrors,
		RateLimitHits,
		RateLimitRequests,
	)
}
