package analytics

import (
	"context"
	"sync"
)

var _ AnalyticsService = (*MockAnalytics)(nil)

// MockAnalytics is an in-memory AnalyticsService for testing. It records
// the events it receives so tests can assert on them.
type MockAnalytics struct {
	mu     sync.Mutex
	Events []MockPlanEvent
}

// MockPlanEvent captures the arguments of a RecordPlanEvent call.
type MockPlanEvent struct {
	EventType       string
	RequestID       string
	PlanID          string
	Taxonomy        string
	Market          string
	Budget          float64
	AllocatedBudget float64
	FacesCount      int
}

// NewMockAnalytics creates a new mock analytics instance
func NewMockAnalytics() *MockAnalytics {
	return &MockAnalytics{}
}

// RecordPlanEvent stores the event in memory.
func (m *MockAnalytics) RecordPlanEvent(ctx context.Context, eventType, requestID, planID, taxonomy, market string, budget, allocatedBudget float64, facesCount int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, MockPlanEvent{
		EventType:       eventType,
		RequestID:       requestID,
		PlanID:          planID,
		Taxonomy:        taxonomy,
		Market:          market,
		Budget:          budget,
		AllocatedBudget: allocatedBudget,
		FacesCount:      facesCount,
	})
	return nil
}

// Recorded returns a copy of the events recorded so far.
func (m *MockAnalytics) Recorded() []MockPlanEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockPlanEvent, len(m.Events))
	copy(out, m.Events)
	return out
}
