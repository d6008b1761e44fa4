package amsauth

import "sync/atomic"

// MetricID identifies a counter in the in-process metrics system.
type MetricID uint8

const (
	// MetricCheckSuccess counts auth checks that ended authenticated.
	MetricCheckSuccess MetricID = iota
	// MetricCheckFailure counts auth checks that ended unauthenticated.
	MetricCheckFailure
	// MetricLoginSuccess counts successful logins.
	MetricLoginSuccess
	// MetricLoginFailure counts failed logins.
	MetricLoginFailure
	// MetricRefreshSuccess counts background refreshes on the fast path.
	MetricRefreshSuccess
	// MetricRefreshRecovered counts refresh failures rescued by a full check.
	MetricRefreshRecovered
	// MetricRefreshSessionLost counts refresh failures that ended the session.
	MetricRefreshSessionLost
	// MetricLogout counts logouts.
	MetricLogout

	metricIDCount
)

// Metrics holds atomic counters for session activity. When disabled,
// all operations are no-ops.
type Metrics struct {
	enabled  bool
	counters [metricIDCount]atomic.Uint64
}

// NewMetrics creates a Metrics instance per the given config.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{enabled: cfg.Enabled}
}

// Inc increments the given counter.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	m.counters[id].Add(1)
}

// Snapshot returns a point-in-time copy of all counters.
func (m *Metrics) Snapshot() map[MetricID]uint64 {
	out := make(map[MetricID]uint64, metricIDCount)
	if m == nil {
		return out
	}
	for id := MetricID(0); id < metricIDCount; id++ {
		out[id] = m.counters[id].Load()
	}
	return out
}
