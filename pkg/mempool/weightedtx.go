package mempool

import (
	"github.com/google/btree"
	"github.com/pouria-shahmiri/weighted-mempool/pkg/types"
)

// WeightedTxId is the sort key a transaction occupies in the pool. Two
// WeightedTxIds with the same ID are considered the same transaction by
// every id-keyed index (the registry, outputs, inputs) even if their
// Weight differs — only the ordered index cares about Weight, and it is
// re-keyed explicitly whenever Weight changes (see updateFamily).
type WeightedTxId struct {
	ID           types.Hash
	Weight       int64
	FeePerFactor int64
	CreatedAt    int64 // unix millis
}

// SameID reports whether two keys name the same transaction, ignoring
// weight.
func (w WeightedTxId) SameID(other WeightedTxId) bool {
	return w.ID == other.ID
}

// orderedEntry is the btree.Item stored in OrderedTxPool.ordered. Its
// ordering depends only on key; tx is carried along for retrieval.
type orderedEntry struct {
	key WeightedTxId
	tx  *types.UnconfirmedTransaction
}

// Less implements btree.Item. The ordering is (-Weight, ID) ascending:
// a larger Weight sorts first, ties broken by ascending ID bytes. That
// makes the btree's minimum (Min()) the highest-priority transaction and
// its maximum (Max()) the eviction victim.
func (e orderedEntry) Less(than btree.Item) bool {
	other := than.(orderedEntry)
	if e.key.Weight != other.key.Weight {
		return e.key.Weight > other.key.Weight
	}
	return e.key.ID.Less(other.key.ID)
}
