package mempool

import (
	"sync"

	"github.com/google/btree"
	"github.com/pouria-shahmiri/weighted-mempool/pkg/monitoring"
	"github.com/pouria-shahmiri/weighted-mempool/pkg/types"
)

// btreeDegree is the branching factor passed to btree.New. google/btree
// recommends something in the 32-256 range for in-memory workloads; it
// has no bearing on external behavior, only on tree shape.
const btreeDegree = 32

// OrderedTxPool is the mempool's core structure: transactions kept live
// under five coordinated indices (ordered, registry, outputs, inputs,
// invalidated) and re-weighted as their descendants arrive. All mutating
// operations take the pool's lock and return the same pool, matching the
// node's existing call-and-reassign style for mutable, lock-guarded
// state.
type OrderedTxPool struct {
	mu sync.RWMutex

	ordered  *btree.BTree
	registry map[types.Hash]WeightedTxId
	// outputs maps an output id to the WeightedTxId of the transaction
	// that produced it.
	outputs map[types.Hash]WeightedTxId
	// inputs maps an output id to the WeightedTxId of the transaction
	// that spends it, if any transaction currently in the pool does.
	inputs map[types.Hash]WeightedTxId

	invalidated *InvalidationCache

	cfg     Config
	logger  *monitoring.Logger
	metrics *monitoring.Metrics
}

// NewOrderedTxPool constructs an empty pool. logger and metrics may be
// nil; an ERROR-level logger writing to stdout and a fresh Metrics are
// used in that case.
func NewOrderedTxPool(cfg Config, logger *monitoring.Logger, metrics *monitoring.Metrics) *OrderedTxPool {
	if logger == nil {
		logger = monitoring.NewLogger(monitoring.ERROR)
	}
	if metrics == nil {
		metrics = monitoring.NewMetrics()
	}
	return &OrderedTxPool{
		ordered:     btree.New(btreeDegree),
		registry:    make(map[types.Hash]WeightedTxId),
		outputs:     make(map[types.Hash]WeightedTxId),
		inputs:      make(map[types.Hash]WeightedTxId),
		invalidated: NewInvalidationCache(cfg.InvalidCacheSize, cfg.InvalidCacheExpiration),
		cfg:         cfg,
		logger:      logger,
		metrics:     metrics,
	}
}

// Size reports how many transactions the pool currently holds.
func (p *OrderedTxPool) Size() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.ordered.Len()
}

// Contains reports whether id names a transaction currently held by the
// pool.
func (p *OrderedTxPool) Contains(id types.Hash) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.registry[id]
	return ok
}

// IsInvalidated reports whether id was recently handed to Invalidate.
// Because the underlying cache is approximate, a false result does not
// prove id was never invalidated, only that the pool has no record of
// it within the retention window.
func (p *OrderedTxPool) IsInvalidated(id types.Hash) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.invalidated.MightContain(id)
}

// Get returns the transaction stored under id, if any.
func (p *OrderedTxPool) Get(id types.Hash) (*types.UnconfirmedTransaction, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	wtx, ok := p.registry[id]
	if !ok {
		return nil, false
	}
	item := p.ordered.Get(orderedEntry{key: wtx})
	if item == nil {
		// registry and ordered index disagree: this is an internal
		// inconsistency, not a caller error.
		p.logger.Warnf("mempool: registry has %s but ordered index does not", id)
		p.metrics.RecordInconsistentRead()
		return nil, false
	}
	return item.(orderedEntry).tx, true
}

// CanAccept reports whether tx is eligible for Put: it must not already
// be held, and the pool must not already be over capacity. It does not
// consult the invalidation list — a caller that wants to reject recently
// invalidated ids filters on IsInvalidated separately.
func (p *OrderedTxPool) CanAccept(tx *types.Transaction) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if _, ok := p.registry[tx.ID]; ok {
		return false
	}
	if p.cfg.Capacity == 0 {
		return true
	}
	return uint32(p.ordered.Len()) <= p.cfg.Capacity
}

// Put admits utx into the pool, or replaces the stored metadata for a
// transaction already present under the same id. feeFactor is the
// transaction's size or execution cost, used by the weight function.
//
// A brand-new admission re-weights every ancestor reachable by walking
// spent outputs back to their producing transactions (see updateFamily),
// then evicts lowest-weight transactions one at a time until the pool is
// back at or below capacity.
func (p *OrderedTxPool) Put(utx *types.UnconfirmedTransaction, feeFactor int64) *OrderedTxPool {
	p.mu.Lock()
	defer p.mu.Unlock()

	tx := utx.Transaction

	if existing, ok := p.registry[tx.ID]; ok {
		// Re-admission: only the caller-owned metadata may have changed.
		// Weight, position, and family contributions are untouched.
		p.ordered.ReplaceOrInsert(orderedEntry{key: existing, tx: utx})
		p.metrics.RecordReplaced()
		return p
	}

	wtx := Weighted(tx, feeFactor, p.cfg.FeePropositionBytes, p.cfg.clock()())

	p.ordered.ReplaceOrInsert(orderedEntry{key: wtx, tx: utx})
	p.registry[tx.ID] = wtx
	for _, out := range tx.Outputs {
		p.outputs[out.OutputID] = wtx
	}
	for _, in := range tx.Inputs {
		p.inputs[in.OutputID] = wtx
	}
	p.metrics.RecordAdmitted()

	p.updateFamily(tx, wtx.Weight, p.cfg.clock()(), 0)

	p.evictOverflowLocked()
	p.metrics.SetSize(p.ordered.Len())
	return p
}

// evictOverflowLocked removes lowest-weight transactions, one at a time,
// until the pool is at or below its configured capacity. Each eviction
// is a full removal: it reverses the evicted transaction's contribution
// to its ancestors' weight the same way an explicit Remove would.
// Capacity of 0 means unbounded.
func (p *OrderedTxPool) evictOverflowLocked() {
	if p.cfg.Capacity == 0 {
		return
	}
	for uint32(p.ordered.Len()) > p.cfg.Capacity {
		item := p.ordered.Max()
		if item == nil {
			return
		}
		victim := item.(orderedEntry)
		p.removeEntryLocked(victim.key, victim.tx.Transaction)
		p.metrics.RecordEvicted()
	}
}

// Remove drops utx from the pool if present, reversing its contribution
// to any ancestors' weight. Removing a transaction the pool does not
// hold is a no-op.
func (p *OrderedTxPool) Remove(utx *types.UnconfirmedTransaction) *OrderedTxPool {
	p.mu.Lock()
	defer p.mu.Unlock()

	tx := utx.Transaction
	wtx, ok := p.registry[tx.ID]
	if !ok {
		return p
	}
	p.removeEntryLocked(wtx, tx)
	p.metrics.RecordRemoved()
	p.metrics.SetSize(p.ordered.Len())
	return p
}

// RemoveAll removes every transaction in utxs, in order. Typically used
// when a block confirms a batch of transactions at once.
func (p *OrderedTxPool) RemoveAll(utxs []*types.UnconfirmedTransaction) *OrderedTxPool {
	for _, utx := range utxs {
		p.Remove(utx)
	}
	return p
}

// Invalidate removes utx if the pool holds it (propagating the weight
// reversal exactly as Remove does), and unconditionally records its id
// as invalidated so that IsInvalidated reports it until the record
// expires. CanAccept does not consult this record; a caller that wants
// to keep a freshly-invalidated id out checks IsInvalidated itself.
func (p *OrderedTxPool) Invalidate(utx *types.UnconfirmedTransaction) *OrderedTxPool {
	p.mu.Lock()
	defer p.mu.Unlock()

	tx := utx.Transaction
	if wtx, ok := p.registry[tx.ID]; ok {
		p.removeEntryLocked(wtx, tx)
	} else if stale, found := p.findStaleOrderedEntryLocked(tx.ID); found {
		// The registry and ordered index disagree: the id is stale in
		// the ordered index under some other weight. This should not
		// happen in normal operation; scrub it rather than leave an
		// orphaned entry behind.
		p.logger.Warnf("mempool: invalidating %s found in ordered index but not registry", tx.ID)
		p.metrics.RecordInconsistentRead()
		p.ordered.Delete(stale)
	}

	p.invalidated.Put(tx.ID)
	p.metrics.RecordInvalidated()
	p.metrics.SetSize(p.ordered.Len())
	return p
}

// findStaleOrderedEntryLocked scans the ordered index for an entry whose
// key names id, without the benefit of the registry's weight lookup.
// Only reached when the indices have already desynced, so a linear scan
// is acceptable: it is not on any normal-operation path.
func (p *OrderedTxPool) findStaleOrderedEntryLocked(id types.Hash) (orderedEntry, bool) {
	var found orderedEntry
	var ok bool
	p.ordered.Ascend(func(item btree.Item) bool {
		entry := item.(orderedEntry)
		if entry.key.ID == id {
			found, ok = entry, true
			return false
		}
		return true
	})
	return found, ok
}

// removeEntryLocked drops the entry keyed by wtx from every index and
// propagates the weight reversal to tx's ancestors. Callers must hold
// p.mu for writing.
func (p *OrderedTxPool) removeEntryLocked(wtx WeightedTxId, tx *types.Transaction) {
	p.ordered.Delete(orderedEntry{key: wtx})
	delete(p.registry, tx.ID)
	for _, out := range tx.Outputs {
		delete(p.outputs, out.OutputID)
	}
	for _, in := range tx.Inputs {
		delete(p.inputs, in.OutputID)
	}
	p.updateFamily(tx, -wtx.Weight, p.cfg.clock()(), 0)
}
