package types

import "time"

// MonetarySettings carries the chain parameters the weight function
// needs. It is owned and parsed by the node process; this package only
// consumes the resulting value.
type MonetarySettings struct {
	// FeePropositionBytes identifies the fee-recipient proposition: an
	// output paying to these bytes counts towards a transaction's fee.
	FeePropositionBytes []byte
}

// NodeSettings carries the mempool's operating parameters. Like
// MonetarySettings, loading these from environment, flags, or a config
// file is the node's job, not this package's.
type NodeSettings struct {
	// MempoolCapacity is the hard cap on the number of transactions the
	// pool holds at once.
	MempoolCapacity uint32

	// InvalidModifiersCacheSize is the size hint for the invalidation
	// cache (see mempool.InvalidationCache).
	InvalidModifiersCacheSize uint32

	// InvalidModifiersCacheExpiration is the per-entry retention window
	// for the invalidation cache.
	InvalidModifiersCacheExpiration time.Duration
}
