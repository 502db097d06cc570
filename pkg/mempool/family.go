package mempool

import (
	"time"

	"github.com/pouria-shahmiri/weighted-mempool/pkg/types"
)

// updateFamily propagates a weight delta from tx up to every ancestor
// still held by the pool: every transaction that produced an output tx
// spends, then their producers, and so on. A transaction's own Weight is
// therefore not just its own fee_per_factor but that plus the delta
// contributed by every descendant admitted after it.
//
// One transaction can spend several outputs of the same parent; that
// parent is updated once per call, not once per input edge, which is why
// parents are deduplicated by id before being applied. Two children of
// the same parent (the diamond case) each run their own call, so each
// adds its own delta to that parent.
//
// Because the spending graph isn't bounded by this package, the walk is
// guarded on two sides: MaxParentScanDepth caps how many generations up
// it will climb, and MaxParentScanTime caps how long the whole call tree
// (shared via startTime) may run. Tripping either guard abandons the
// remaining ancestors for this call's subtree: their Weight is left
// stale (under-propagated) rather than the call blocking indefinitely or
// overflowing the stack. This is logged and counted, never silent.
//
// Callers must hold p.mu for writing.
func (p *OrderedTxPool) updateFamily(tx *types.Transaction, delta int64, startTime time.Time, depth int) {
	if delta == 0 {
		return
	}
	if depth > p.cfg.maxParentScanDepth() {
		p.logger.Warnf("mempool: updateFamily stopped at depth %d for tx %s (MaxParentScanDepth)", depth, tx.ID)
		p.metrics.RecordFamilyGuardTrip()
		return
	}
	if p.cfg.clock()().Sub(startTime) >= p.cfg.maxParentScanTime() {
		p.logger.Warnf("mempool: updateFamily stopped for tx %s (MaxParentScanTime elapsed)", tx.ID)
		p.metrics.RecordFamilyGuardTrip()
		return
	}

	for _, oldKey := range p.parentKeysLocked(tx) {
		item := p.ordered.Get(orderedEntry{key: oldKey})
		if item == nil {
			// outputs and ordered disagree about a transaction the
			// registry still lists: an internal inconsistency.
			p.logger.Warnf("mempool: parent %s listed in outputs index but missing from ordered index", oldKey.ID)
			p.metrics.RecordInconsistentRead()
			continue
		}
		entry := item.(orderedEntry)
		parentTx := entry.tx.Transaction

		newKey := oldKey
		newKey.Weight = saturatingAdd(oldKey.Weight, delta)

		p.ordered.Delete(orderedEntry{key: oldKey})
		p.ordered.ReplaceOrInsert(orderedEntry{key: newKey, tx: entry.tx})
		p.registry[parentTx.ID] = newKey
		for _, out := range parentTx.Outputs {
			p.outputs[out.OutputID] = newKey
		}
		for _, in := range parentTx.Inputs {
			p.inputs[in.OutputID] = newKey
		}

		p.updateFamily(parentTx, delta, startTime, depth+1)
	}
}

// parentKeysLocked resolves tx's inputs to the WeightedTxId of whichever
// transactions currently in the pool produced the outputs tx spends,
// deduplicated by id. An input whose output wasn't produced by anything
// the pool holds (confirmed already, or simply unknown) is skipped: there
// is no ancestor to propagate to.
func (p *OrderedTxPool) parentKeysLocked(tx *types.Transaction) []WeightedTxId {
	seen := make(map[types.Hash]struct{}, len(tx.Inputs))
	var parents []WeightedTxId
	for _, in := range tx.Inputs {
		wtx, ok := p.outputs[in.OutputID]
		if !ok {
			continue
		}
		if _, dup := seen[wtx.ID]; dup {
			continue
		}
		seen[wtx.ID] = struct{}{}
		parents = append(parents, wtx)
	}
	return parents
}
