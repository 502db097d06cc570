package mempool

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/pouria-shahmiri/weighted-mempool/pkg/types"
)

// InvalidationCache is the Approximate Expiring Cache: a size- and
// time-bounded set of transaction ids the node decided not to re-admit.
// It is a thin wrapper over a size- and TTL-bounded LRU, which gives the
// contract spec.md asks for almost for free. Membership is exact, so an
// id that was never put is never reported (no false positives). An id
// that was put is reported until its TTL elapses, or until newer ids
// push it out as least recently used once the size bound is reached.
type InvalidationCache struct {
	lru *expirable.LRU[types.Hash, struct{}]
}

// NewInvalidationCache constructs an empty cache. sizeHint of 0 means no
// size bound (only expiration applies).
func NewInvalidationCache(sizeHint uint32, expiration time.Duration) *InvalidationCache {
	return &InvalidationCache{
		lru: expirable.NewLRU[types.Hash, struct{}](int(sizeHint), nil, expiration),
	}
}

// Put records id as invalidated.
func (c *InvalidationCache) Put(id types.Hash) {
	c.lru.Add(id, struct{}{})
}

// MightContain reports whether id was put within the retention window
// and has not since been evicted. It may return false after the window
// elapses or under size pressure; it never returns false for an id put
// moments ago under normal load.
func (c *InvalidationCache) MightContain(id types.Hash) bool {
	return c.lru.Contains(id)
}
