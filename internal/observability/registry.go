package observability

import "time"

// MetricsRegistry provides an interface for recording application metrics
// This replaces direct access to global Prometheus metrics with dependency injection
type MetricsRegistry interface {
	// HTTP Request metrics
	IncrementRequests(endpoint, method, status string)
	RecordRequestLatency(endpoint, method string, duration time.Duration)

	// Allocation metrics
	IncrementAllocations(status string)
	RecordAllocationLatency(duration time.Duration)
	RecordAllocatedFaces(count int)

	// Plan metrics
	IncrementPlans(taxonomy string)
	IncrementPlanCacheLookups(outcome string)
	IncrementEfficiencyChecks(status string)

	// Analytics persistence metrics
	IncrementAnalyticsErrors()

	// Rate limiting metrics
	IncrementRateLimitRequests(blockID string)
	IncrementRateLimitHits(blockID string)
}

// PrometheusRegistry implements MetricsRegistry using the global Prometheus metrics
type PrometheusRegistry struct{}

// NewPrometheusRegistry creates a new PrometheusRegistry
func NewPrometheusRegistry() *PrometheusRegistry {
	return &PrometheusRegistry{}
}

// HTTP Request metrics
func (r *PrometheusRegistry) IncrementRequests(endpoint, method, status string) {
	RequestCount.WithLabelValues(endpoint, method, status).Inc()
}

func (r *PrometheusRegistry) RecordRequestLatency(endpoint, method string, duration time.Duration) {
	RequestLatency.WithLabelValues(endpoint, method).Observe(duration.Seconds())
}

// Allocation metrics
func (r *PrometheusRegistry) IncrementAllocations(status string) {
	AllocationCount.WithLabelValues(status).Inc()
}

func (r *PrometheusRegistry) RecordAllocationLatency(duration time.Duration) {
	AllocationLatency.Observe(duration.Seconds())
}

func (r *PrometheusRegistry) RecordAllocatedFaces(count int) {
	AllocatedFaces.Observe(float64(count))
}

// Plan metrics
func (r *PrometheusRegistry) IncrementPlans(taxonomy string) {
	PlanCount.WithLabelValues(taxonomy).Inc()
}

func (r *PrometheusRegistry) IncrementPlanCacheLookups(outcome string) {
	PlanCacheLookups.WithLabelValues(outcome).Inc()
}

func (r *PrometheusRegistry) IncrementEfficiencyChecks(status string) {
	EfficiencyCount.WithLabelValues(status).Inc()
}

// Analytics persistence metrics
func (r *PrometheusRegistry) IncrementAnalyticsErrors() {
	AnalyticsErrors.Inc()
}

// Rate limiting metrics
func (r *PrometheusRegistry) IncrementRateLimitRequests(blockID string) {
	RateLimitRequests.WithLabelValues(blockID).Inc()
}

func (r *PrometheusRegistry) IncrementRateLimitHits(blockID string) {
	RateLimitHits.WithLabelValues(blockID).Inc()
}

// NoOpRegistry implements MetricsRegistry with no-op methods for testing
type NoOpRegistry struct{}

// NewNoOpRegistry creates a new NoOpRegistry
func NewNoOpRegistry() *NoOpRegistry {
	return &NoOpRegistry{}
}

func (r *NoOpRegistry) IncrementRequests(endpoint, method, status string)                    {}
func (r *NoOpRegistry) RecordRequestLatency(endpoint, method string, duration time.Duration) {}
func (r *NoOpRegistry) IncrementAllocations(status string)                                   {}
func (r *NoOpRegistry) RecordAllocationLatency(duration time.Duration)                       {}
func (r *NoOpRegistry) RecordAllocatedFaces(count int)                                       {}
func (r *NoOpRegistry) IncrementPlans(taxonomy string)                                       {}
func (r *NoOpRegistry) IncrementPlanCacheLookups(outcome string)                             {}
func (r *NoOpRegistry) IncrementEfficiencyChecks(status string)                              {}
func (r *NoOpRegistry) IncrementAnalyticsErrors()                                            {}
func (r *NoOpRegistry) IncrementRateLimitRequests(blockID string)                            {}
func (r *NoOpRegistry) IncrementRateLimitHits(blockID string)                                {}
