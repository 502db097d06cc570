package mempool

import (
	"testing"
	"time"

	"github.com/pouria-shahmiri/weighted-mempool/pkg/types"
)

var feeProp = []byte("fee-recipient")

// chainTx builds a transaction that spends parentOutput (the zero Hash
// for a chain root, meaning "an output not held by this pool") and
// produces a single output paying feeValue to the fee recipient.
func chainTx(selfID byte, parentOutput types.Hash, feeValue uint64) (*types.Transaction, types.Hash) {
	id := hashFromByte(selfID)
	tx := &types.Transaction{
		ID:      id,
		Inputs:  []types.TxInput{{OutputID: parentOutput}},
		Outputs: []types.TxOutput{{OutputID: outputIDFor(id, 0), Value: feeValue, PropositionBytes: feeProp}},
	}
	return tx, tx.Outputs[0].OutputID
}

func outputIDFor(txID types.Hash, index uint32) types.Hash {
	var out types.Hash
	copy(out[:], txID[:])
	out[31] = byte(index)
	return out
}

func wrap(tx *types.Transaction) *types.UnconfirmedTransaction {
	return &types.UnconfirmedTransaction{Transaction: tx}
}

func newTestPool(capacity uint32) *OrderedTxPool {
	return NewOrderedTxPool(Config{
		Capacity:               capacity,
		FeePropositionBytes:    feeProp,
		InvalidCacheSize:       100,
		InvalidCacheExpiration: time.Hour,
	}, nil, nil)
}

func TestPutAndGet(t *testing.T) {
	p := newTestPool(0)
	tx, _ := chainTx(1, types.Hash{}, 10)

	p.Put(wrap(tx), 1)

	if !p.Contains(tx.ID) {
		t.Fatal("pool should contain the admitted transaction")
	}
	if p.Size() != 1 {
		t.Fatalf("Size() = %d, want 1", p.Size())
	}
	got, ok := p.Get(tx.ID)
	if !ok || got.Transaction.ID != tx.ID {
		t.Fatal("Get should return the admitted transaction")
	}
}

func TestPutDuplicateReplacesMetadataWithoutReweighing(t *testing.T) {
	p := newTestPool(0)
	tx, _ := chainTx(1, types.Hash{}, 10)

	first := wrap(tx)
	first.Metadata = "first"
	p.Put(first, 1)

	weightBefore := p.registry[tx.ID].Weight

	second := wrap(tx)
	second.Metadata = "second"
	p.Put(second, 1)

	if p.Size() != 1 {
		t.Fatalf("duplicate Put should not change Size, got %d", p.Size())
	}
	weightAfter := p.registry[tx.ID].Weight
	if weightBefore != weightAfter {
		t.Fatalf("duplicate Put must not change Weight: before=%d after=%d", weightBefore, weightAfter)
	}
	got, _ := p.Get(tx.ID)
	if got.Metadata != "second" {
		t.Fatalf("duplicate Put should replace stored metadata, got %v", got.Metadata)
	}
}

func TestEvictionOnOverflow(t *testing.T) {
	p := newTestPool(2)

	t1, _ := chainTx(1, types.Hash{0, 1}, 10)
	t2, _ := chainTx(2, types.Hash{0, 2}, 20)
	t3, _ := chainTx(3, types.Hash{0, 3}, 5)

	p.Put(wrap(t1), 1)
	p.Put(wrap(t2), 1)
	p.Put(wrap(t3), 1)

	if p.Size() != 2 {
		t.Fatalf("Size() = %d, want 2 after overflow eviction", p.Size())
	}
	if p.Contains(t3.ID) {
		t.Error("lowest-weight transaction should have been evicted")
	}
	if !p.Contains(t1.ID) || !p.Contains(t2.ID) {
		t.Error("higher-weight transactions should survive eviction")
	}
}

func TestParentWeightPromotedByChild(t *testing.T) {
	p := newTestPool(0)

	parent, parentOut := chainTx(1, types.Hash{9}, 10)
	p.Put(wrap(parent), 1)
	parentWeightBefore := p.registry[parent.ID].Weight

	child, _ := chainTx(2, parentOut, 40)
	p.Put(wrap(child), 1)

	parentWeightAfter := p.registry[parent.ID].Weight
	childWeight := p.registry[child.ID].Weight

	if parentWeightAfter != parentWeightBefore+childWeight {
		t.Fatalf("parent weight = %d, want %d (own %d + child %d)",
			parentWeightAfter, parentWeightBefore+childWeight, parentWeightBefore, childWeight)
	}
}

func TestDiamondParentUpdatedOnceForSharedChild(t *testing.T) {
	p := newTestPool(0)

	parentID := hashFromByte(1)
	parent := &types.Transaction{
		ID:     parentID,
		Inputs: []types.TxInput{{OutputID: types.Hash{9}}},
		Outputs: []types.TxOutput{
			{OutputID: outputIDFor(parentID, 0), Value: 5, PropositionBytes: feeProp},
			{OutputID: outputIDFor(parentID, 1), Value: 0, PropositionBytes: []byte("change")},
		},
	}
	p.Put(wrap(parent), 1)
	parentWeightBefore := p.registry[parent.ID].Weight

	childID := hashFromByte(2)
	child := &types.Transaction{
		ID: childID,
		// Spends both of the parent's outputs: a single transaction
		// referencing the same ancestor twice.
		Inputs:  []types.TxInput{{OutputID: parent.Outputs[0].OutputID}, {OutputID: parent.Outputs[1].OutputID}},
		Outputs: []types.TxOutput{{OutputID: outputIDFor(childID, 0), Value: 3, PropositionBytes: feeProp}},
	}
	p.Put(wrap(child), 1)

	childWeight := p.registry[child.ID].Weight
	parentWeightAfter := p.registry[parent.ID].Weight

	if parentWeightAfter != parentWeightBefore+childWeight {
		t.Fatalf("parent referenced by two inputs of the same child must be updated once: got %d, want %d",
			parentWeightAfter, parentWeightBefore+childWeight)
	}
}

func TestInvalidateIsSticky(t *testing.T) {
	p := newTestPool(0)
	tx, _ := chainTx(1, types.Hash{}, 10)
	p.Put(wrap(tx), 1)

	p.Invalidate(wrap(tx))

	if p.Contains(tx.ID) {
		t.Error("Invalidate should remove the transaction from the pool")
	}
	if !p.IsInvalidated(tx.ID) {
		t.Error("IsInvalidated should be true right after Invalidate")
	}
	if !p.CanAccept(tx) {
		t.Error("CanAccept does not consult invalidation; it should be true once the id is no longer held")
	}
}

func TestRemoveReversesFamilyWeight(t *testing.T) {
	p := newTestPool(0)

	parent, parentOut := chainTx(1, types.Hash{9}, 10)
	p.Put(wrap(parent), 1)
	parentWeightBefore := p.registry[parent.ID].Weight

	child, _ := chainTx(2, parentOut, 40)
	childUTX := wrap(child)
	p.Put(childUTX, 1)

	p.Remove(childUTX)

	if p.Contains(child.ID) {
		t.Error("Remove should drop the transaction")
	}
	if p.registry[parent.ID].Weight != parentWeightBefore {
		t.Fatalf("removing child should reverse its contribution: parent weight = %d, want %d",
			p.registry[parent.ID].Weight, parentWeightBefore)
	}
}

func TestUpdateFamilyStopsAtDepthGuard(t *testing.T) {
	p := NewOrderedTxPool(Config{
		MaxParentScanDepth:     3,
		FeePropositionBytes:    feeProp,
		InvalidCacheSize:       10,
		InvalidCacheExpiration: time.Hour,
	}, nil, nil)

	// A six-deep chain: tx0 <- tx1 <- tx2 <- tx3 <- tx4 <- tx5.
	var outputs [6]types.Hash
	var txs [6]*types.Transaction
	parent := types.Hash{42}
	for i := 0; i < 6; i++ {
		tx, out := chainTx(byte(i+1), parent, 1)
		txs[i] = tx
		outputs[i] = out
		parent = out
		p.Put(wrap(tx), 1)
	}

	if p.metrics.Summary()["family_guard_trips"] == 0 {
		t.Fatal("admitting the 6th transaction into a depth-3-limited pool should trip the family guard")
	}
	// tx0 is 5 hops away from tx5; with MaxParentScanDepth=3, propagation
	// reaches up to distance maxDepth+1 = 4 (tx1) and stops there, so tx0
	// should never receive tx5's contribution. tx1..tx4 are within 4 hops
	// of tx0 and each add their own initial weight to it; every tx in the
	// chain has the same initial weight, so tx0 ends at 5x its own.
	rootWeight := p.registry[txs[0].ID].Weight
	selfWeight := Weighted(txs[0], 1, feeProp, time.Unix(0, 0)).Weight
	want := 5 * selfWeight
	if rootWeight != want {
		t.Fatalf("root weight = %d, want %d (own weight plus tx1..tx4, unreached by the 6th admission's propagation)", rootWeight, want)
	}
}

func TestUpdateFamilyStopsAtTimeGuard(t *testing.T) {
	tick := time.Unix(0, 0)
	step := time.Duration(0)
	clock := func() time.Time {
		tick = tick.Add(step)
		return tick
	}

	p := NewOrderedTxPool(Config{
		MaxParentScanTime:      time.Millisecond,
		FeePropositionBytes:    feeProp,
		InvalidCacheSize:       10,
		InvalidCacheExpiration: time.Hour,
		Clock:                  clock,
	}, nil, nil)

	parent, parentOut := chainTx(1, types.Hash{9}, 1)
	p.Put(wrap(parent), 1)

	// From here on every clock read is a second after the previous one.
	// The next Put reads its start time from the clock and updateFamily
	// reads it again for its elapsed-time check, so the check sees a full
	// second pass: a slow call simulated without a real sleep.
	step = time.Second

	child, _ := chainTx(2, parentOut, 1)
	p.Put(wrap(child), 1)

	if p.metrics.Summary()["family_guard_trips"] == 0 {
		t.Fatal("expected the time guard to trip when the clock reports it already elapsed the budget")
	}
}

func TestCanAcceptRejectsAlreadyHeldTransaction(t *testing.T) {
	p := newTestPool(0)
	tx, _ := chainTx(1, types.Hash{}, 10)
	p.Put(wrap(tx), 1)

	if p.CanAccept(tx) {
		t.Error("CanAccept should refuse a transaction already in the pool")
	}
}
