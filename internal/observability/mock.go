package observability

import "time"

// MockMetricsRegistry is a mock implementation of MetricsRegistry for testing
type MockMetricsRegistry struct{}

func (m *MockMetricsRegistry) IncrementRequests(endpoint, method, status string)                    {}
func (m *MockMetricsRegistry) RecordRequestLatency(endpoint, method string, duration time.Duration) {}
func (m *MockMetricsRegistry) IncrementAllocations(status string)                                   {}
func (m *MockMetricsRegistry) RecordAllocationLatency(duration time.Duration)                       {}
func (m *MockMetricsRegistry) RecordAllocatedFaces(count int)                                       {}
func (m *MockMetricsRegistry) IncrementPlans(taxonomy string)                                       {}
func (m *MockMetricsRegistry) IncrementPlanCacheLookups(outcome string)                             {}
func (m *MockMetricsRegistry) IncrementEfficiencyChecks(status string)                              {}
func (m *MockMetricsRegistry) IncrementAnalyticsErrors()                                            {}
func (m *MockMetricsRegistry) IncrementRateLimitRequests(blockID string)                            {}
func (m *MockMetricsRegistry) IncrementRateLimitHits(blockID string)                                {}
