package app

import (
	"sync/atomic"
	"time"
)

// Metrics counts what the event loop handled.
type Metrics struct {
	eventCount   atomic.Uint64
	eventTotalNs atomic.Int64
	eventMaxNs   atomic.Int64

	reloadCount  atomic.Uint64
	reloadFailed atomic.Uint64
	panics       atomic.Uint64

	startTime time.Time
}

// MetricsSnapshot is a point-in-time copy of Metrics.
type MetricsSnapshot struct {
	Events        uint64
	AvgEventTime  time.Duration
	MaxEventTime  time.Duration
	Reloads       uint64
	FailedReloads uint64
	Panics        uint64
	Uptime        time.Duration
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

// RecordEvent records how long one event took to handle.
func (m *Metrics) RecordEvent(duration time.Duration) {
	ns := duration.Nanoseconds()
	m.eventCount.Add(1)
	m.eventTotalNs.Add(ns)

	// Update max (atomic compare-and-swap loop)
	for {
		old := m.eventMaxNs.Load()
		if ns <= old || m.eventMaxNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordReload records a configuration reload and whether it applied.
func (m *Metrics) RecordReload(ok bool) {
	if ok {
		m.reloadCount.Add(1)
	} else {
		m.reloadFailed.Add(1)
	}
}

// RecordPanic records a recovered panic.
func (m *Metrics) RecordPanic() {
	m.panics.Add(1)
}

// Snapshot returns the current values.
func (m *Metrics) Snapshot() MetricsSnapshot {
	s := MetricsSnapshot{
		Events:        m.eventCount.Load(),
		MaxEventTime:  time.Duration(m.eventMaxNs.Load()),
		Reloads:       m.reloadCount.Load(),
		FailedReloads: m.reloadFailed.Load(),
		Panics:        m.panics.Load(),
		Uptime:        time.Since(m.startTime),
	}
	if s.Events > 0 {
		s.AvgEventTime = time.Duration(m.eventTotalNs.Load() / int64(s.Events))
	}
	return s
}
