package mempool

import (
	"bytes"
	"math"
	"time"

	"github.com/pouria-shahmiri/weighted-mempool/pkg/types"
)

// feePerFactorScale preserves precision for small fees when dividing by
// feeFactor; see Weighted.
const feePerFactorScale = 1024

// Weighted computes the initial WeightedTxId for tx given feeFactor (the
// transaction's size or cost) and the fee-recipient proposition from
// monetary settings. feeFactor must be > 0; callers are expected to
// enforce that at the boundary, same as the rest of this package's
// arithmetic.
func Weighted(tx *types.Transaction, feeFactor int64, feePropositionBytes []byte, now time.Time) WeightedTxId {
	fee := feeOf(tx, feePropositionBytes)
	feePerFactor := saturatingDiv(saturatingMul(fee, feePerFactorScale), feeFactor)

	return WeightedTxId{
		ID:           tx.ID,
		Weight:       feePerFactor,
		FeePerFactor: feePerFactor,
		CreatedAt:    now.UnixMilli(),
	}
}

// feeOf sums every output paying the fee-recipient proposition.
func feeOf(tx *types.Transaction, feePropositionBytes []byte) int64 {
	var fee int64
	for _, out := range tx.Outputs {
		if bytes.Equal(out.PropositionBytes, feePropositionBytes) {
			fee = saturatingAdd(fee, int64(out.Value))
		}
	}
	return fee
}

func saturatingAdd(a, b int64) int64 {
	sum := a + b
	// Overflow happened iff the operands share a sign and the result's
	// sign differs from theirs.
	if a > 0 && b > 0 && sum < 0 {
		return math.MaxInt64
	}
	if a < 0 && b < 0 && sum > 0 {
		return math.MinInt64
	}
	return sum
}

func saturatingMul(a, b int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}
	product := a * b
	if product/b != a {
		if (a > 0) == (b > 0) {
			return math.MaxInt64
		}
		return math.MinInt64
	}
	return product
}

func saturatingDiv(a, b int64) int64 {
	if b == 0 {
		return 0
	}
	if a == math.MinInt64 && b == -1 {
		return math.MaxInt64
	}
	return a / b
}
