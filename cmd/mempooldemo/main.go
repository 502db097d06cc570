package main

import (
	"fmt"
	"time"

	"github.com/pouria-shahmiri/weighted-mempool/pkg/keys"
	"github.com/pouria-shahmiri/weighted-mempool/pkg/mempool"
	"github.com/pouria-shahmiri/weighted-mempool/pkg/monitoring"
	"github.com/pouria-shahmiri/weighted-mempool/pkg/transaction"
	"github.com/pouria-shahmiri/weighted-mempool/pkg/types"
)

var feePropositionBytes = []byte("demo-fee-recipient")

func main() {
	fmt.Println("=== Weighted Mempool Demo ===")

	demoBasicAdmission()
	demoAncestorWeightPromotion()
	demoOverflowEviction()
	demoInvalidation()

	fmt.Println("\n=== All demos completed ===")
}

func demoBasicAdmission() {
	fmt.Println("\n--- Demo 1: Basic Admission ---")

	logger := monitoring.NewLogger(monitoring.INFO)
	pool := mempool.NewOrderedTxPool(mempool.Config{
		Capacity:               1000,
		FeePropositionBytes:    feePropositionBytes,
		InvalidCacheSize:       10_000,
		InvalidCacheExpiration: 10 * time.Minute,
	}, logger, monitoring.NewMetrics())

	tx := buildPaying(nil, 5000)
	pool.Put(&types.UnconfirmedTransaction{Transaction: tx, Metadata: time.Now()}, 250)

	fmt.Printf("admitted %s, pool size %d\n", tx.ID, pool.Size())
}

func demoAncestorWeightPromotion() {
	fmt.Println("\n--- Demo 2: Ancestor Weight Promotion ---")

	pool := mempool.NewOrderedTxPool(mempool.Config{
		FeePropositionBytes:    feePropositionBytes,
		InvalidCacheSize:       10_000,
		InvalidCacheExpiration: 10 * time.Minute,
	}, nil, nil)

	parent := buildPaying(nil, 1000)
	pool.Put(&types.UnconfirmedTransaction{Transaction: parent}, 250)

	child := buildPaying(&parent.Outputs[0].OutputID, 50_000)
	pool.Put(&types.UnconfirmedTransaction{Transaction: child}, 250)

	fmt.Printf("a low-fee parent gets pulled up by a high-fee child spending its output\n")
	fmt.Printf("pool size after both admissions: %d\n", pool.Size())
}

func demoOverflowEviction() {
	fmt.Println("\n--- Demo 3: Overflow Eviction ---")

	metrics := monitoring.NewMetrics()
	pool := mempool.NewOrderedTxPool(mempool.Config{
		Capacity:               2,
		FeePropositionBytes:    feePropositionBytes,
		InvalidCacheSize:       10_000,
		InvalidCacheExpiration: 10 * time.Minute,
	}, nil, metrics)

	fees := []uint64{10_000, 20_000, 5_000}
	for _, fee := range fees {
		tx := buildPaying(nil, fee)
		pool.Put(&types.UnconfirmedTransaction{Transaction: tx}, 250)
	}

	fmt.Printf("admitted 3 transactions into a capacity-2 pool\n")
	fmt.Printf("final size: %d, evicted: %d\n", pool.Size(), metrics.Summary()["evicted"])
}

func demoInvalidation() {
	fmt.Println("\n--- Demo 4: Invalidation ---")

	pool := mempool.NewOrderedTxPool(mempool.Config{
		FeePropositionBytes:    feePropositionBytes,
		InvalidCacheSize:       10_000,
		InvalidCacheExpiration: time.Minute,
	}, nil, nil)

	tx := buildPaying(nil, 1000)
	utx := &types.UnconfirmedTransaction{Transaction: tx}
	pool.Put(utx, 250)
	pool.Invalidate(utx)

	// can_accept is true here: it only checks containment and capacity,
	// never the invalidation list. A caller wanting to reject recently
	// invalidated ids checks IsInvalidated itself, as this print does.
	fmt.Printf("contains=%v is_invalidated=%v can_accept=%v\n",
		pool.Contains(tx.ID), pool.IsInvalidated(tx.ID), pool.CanAccept(tx))
}

// buildPaying constructs a fixture transaction spending spend (or an
// external, not-pool-held output if nil), paying fee to the demo's fee
// recipient proposition, plus a P2PKH change output to a fresh address.
func buildPaying(spend *types.Hash, fee uint64) *types.Transaction {
	priv, err := keys.GeneratePrivateKey()
	if err != nil {
		panic(err)
	}
	changeAddr := priv.PublicKey().P2PKHAddress()

	b := transaction.NewBuilder()
	if spend != nil {
		b.AddInput(*spend)
	} else {
		b.AddInput(types.Hash{})
	}
	b.AddOutput(fee, feePropositionBytes)
	if _, err := b.AddP2PKHOutput(1, changeAddr); err != nil {
		panic(err)
	}

	tx, err := b.Build(transaction.EstimateSize(1, 2))
	if err != nil {
		panic(err)
	}
	return tx
}
