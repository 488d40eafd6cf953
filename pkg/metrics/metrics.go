// Package metrics counts koan outcomes across runs. Watch mode
// keeps one recorder for the whole session.
package metrics

import (
	"sync"
	"time"
)

// Recorder defines the interface for recording koan metrics.
type Recorder interface {
	// RecordCase records the final status of one case.
	RecordCase(topic, status string, duration time.Duration)
	// IncrementRunTotal increments the total run counter.
	IncrementRunTotal()
}

// NoopRecorder is a no-op implementation of Recorder used when
// metrics collection is disabled.
type NoopRecorder struct{}

func (NoopRecorder) RecordCase(_, _ string, _ time.Duration) {}
func (NoopRecorder) IncrementRunTotal()                     {}

// MemoryRecorder keeps counters in memory. It is safe for
// concurrent use.
type MemoryRecorder struct {
	mu        sync.Mutex
	cases     map[string]int
	durations map[string]time.Duration
	runTotal  int
}

// NewMemoryRecorder creates an empty MemoryRecorder.
func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{
		cases:     make(map[string]int),
		durations: make(map[string]time.Duration),
	}
}

// RecordCase counts status for topic and adds to the topic's
// accumulated duration.
func (m *MemoryRecorder) RecordCase(
	topic, status string,
	duration time.Duration,
) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cases[topic+":"+status]++
	m.durations[topic] += duration
}

// IncrementRunTotal increments the total run counter.
func (m *MemoryRecorder) IncrementRunTotal() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runTotal++
}

// CaseCount returns the count for a topic+status combination.
func (m *MemoryRecorder) CaseCount(topic, status string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cases[topic+":"+status]
}

// Duration returns the time spent evaluating topic.
func (m *MemoryRecorder) Duration(topic string) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.durations[topic]
}

// RunTotal returns the total number of runs.
func (m *MemoryRecorder) RunTotal() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.runTotal
}
