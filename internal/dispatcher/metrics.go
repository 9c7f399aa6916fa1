package dispatcher

import (
	"sort"
	"sync"
	"time"

	"github.com/dshills/copyline/internal/dispatcher/handler"
)

// Metrics collects dispatch statistics.
type Metrics struct {
	mu      sync.RWMutex
	actions map[string]*ActionMetrics

	totalDispatches uint64
	totalErrors     uint64
	totalPanics     uint64
}

// ActionMetrics holds metrics for one action.
type ActionMetrics struct {
	Name          string
	DispatchCount uint64
	ErrorCount    uint64
	TotalDuration time.Duration
	MaxDuration   time.Duration
	LastStatus    handler.ResultStatus
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{actions: make(map[string]*ActionMetrics)}
}

// RecordDispatch records a dispatch event.
func (m *Metrics) RecordDispatch(actionName string, duration time.Duration, status handler.ResultStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalDispatches++
	am := m.actions[actionName]
	if am == nil {
		am = &ActionMetrics{Name: actionName}
		m.actions[actionName] = am
	}

	am.DispatchCount++
	am.TotalDuration += duration
	am.LastStatus = status
	if duration > am.MaxDuration {
		am.MaxDuration = duration
	}
	if status == handler.StatusError {
		am.ErrorCount++
		m.totalErrors++
	}
}

// RecordPanic records a panic recovery.
func (m *Metrics) RecordPanic(actionName string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totalPanics++
}

// TotalDispatches returns the total number of dispatches.
func (m *Metrics) TotalDispatches() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.totalDispatches
}

// TotalErrors returns the total number of error results.
func (m *Metrics) TotalErrors() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.totalErrors
}

// TotalPanics returns the number of recovered panics.
func (m *Metrics) TotalPanics() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.totalPanics
}

// ActionStats returns a copy of the metrics of one action, or nil.
func (m *Metrics) ActionStats(actionName string) *ActionMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	am := m.actions[actionName]
	if am == nil {
		return nil
	}
	c := *am
	return &c
}

// TopActions returns the n most dispatched actions.
func (m *Metrics) TopActions(n int) []ActionMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]ActionMetrics, 0, len(m.actions))
	for _, am := range m.actions {
		out = append(out, *am)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DispatchCount != out[j].DispatchCount {
			return out[i].DispatchCount > out[j].DispatchCount
		}
		return out[i].Name < out[j].Name
	})
	if n < len(out) {
		out = out[:n]
	}
	return out
}

// AverageDuration returns the mean dispatch time of the action.
func (am ActionMetrics) AverageDuration() time.Duration {
	if am.DispatchCount == 0 {
		return 0
	}
	return am.TotalDuration / time.Duration(am.DispatchCount)
}
