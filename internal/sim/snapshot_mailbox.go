package sim

import "sync"

const snapshotStagedMetricKey = "sim_input_snapshots_total"

// SnapshotMailbox stores the most recent input snapshot for one player. It is
// safe for concurrent producers (websocket readers) and a single consumer
// (the tick loop). The latest write wins; there is no queueing, so the loop
// always observes the newest state.
type SnapshotMailbox struct {
	mu       sync.Mutex
	snapshot InputSnapshot
	metrics  telemetryMetrics
}

type telemetryMetrics interface {
	Add(string, uint64)
	Store(string, uint64)
}

// NewSnapshotMailbox constructs an empty mailbox. The initial snapshot has no
// device tag, which controllers treat as a no-op frame.
func NewSnapshotMailbox(metrics telemetryMetrics) *SnapshotMailbox {
	return &SnapshotMailbox{metrics: metrics}
}

// Store replaces the held snapshot.
func (m *SnapshotMailbox) Store(snapshot InputSnapshot) {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.snapshot = snapshot
	m.mu.Unlock()
	if m.metrics != nil {
		m.metrics.Add(snapshotStagedMetricKey, 1)
	}
}

// Latest returns the most recent snapshot without blocking.
func (m *SnapshotMailbox) Latest() InputSnapshot {
	if m == nil {
		return InputSnapshot{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot
}

// Clear resets the mailbox to the empty snapshot.
func (m *SnapshotMailbox) Clear() {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.snapshot = InputSnapshot{}
	m.mu.Unlock()
}
