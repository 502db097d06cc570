package monitoring

import (
	"sync/atomic"
)

// Metrics collects mempool-level counters. All fields are accessed only
// through atomic operations, so Metrics needs no lock of its own.
type Metrics struct {
	admitted          uint64
	replaced          uint64
	evicted           uint64
	removed           uint64
	invalidated       uint64
	familyGuardTrips  uint64
	inconsistentReads uint64
	size              int64
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RecordAdmitted records a brand-new transaction entering the pool.
func (m *Metrics) RecordAdmitted() {
	atomic.AddUint64(&m.admitted, 1)
}

// RecordReplaced records a Put that only replaced stored metadata.
func (m *Metrics) RecordReplaced() {
	atomic.AddUint64(&m.replaced, 1)
}

// RecordEvicted records an overflow eviction.
func (m *Metrics) RecordEvicted() {
	atomic.AddUint64(&m.evicted, 1)
}

// RecordRemoved records an explicit Remove.
func (m *Metrics) RecordRemoved() {
	atomic.AddUint64(&m.removed, 1)
}

// RecordInvalidated records an Invalidate call.
func (m *Metrics) RecordInvalidated() {
	atomic.AddUint64(&m.invalidated, 1)
}

// RecordFamilyGuardTrip records updateFamily bailing out on its depth or
// time budget.
func (m *Metrics) RecordFamilyGuardTrip() {
	atomic.AddUint64(&m.familyGuardTrips, 1)
}

// RecordInconsistentRead records the pool's indices disagreeing with each
// other (a registry or outputs entry with no matching ordered-index entry,
// or an ordered-index entry missing from the registry) — an
// internal-consistency violation that should never happen in practice.
func (m *Metrics) RecordInconsistentRead() {
	atomic.AddUint64(&m.inconsistentReads, 1)
}

// SetSize records the pool's current cardinality.
func (m *Metrics) SetSize(size int) {
	atomic.StoreInt64(&m.size, int64(size))
}

// Summary returns a point-in-time snapshot of all counters.
func (m *Metrics) Summary() map[string]uint64 {
	return map[string]uint64{
		"admitted":           atomic.LoadUint64(&m.admitted),
		"replaced":           atomic.LoadUint64(&m.replaced),
		"evicted":            atomic.LoadUint64(&m.evicted),
		"removed":            atomic.LoadUint64(&m.removed),
		"invalidated":        atomic.LoadUint64(&m.invalidated),
		"family_guard_trips": atomic.LoadUint64(&m.familyGuardTrips),
		"inconsistent_reads": atomic.LoadUint64(&m.inconsistentReads),
		"size":               uint64(atomic.LoadInt64(&m.size)),
	}
}
