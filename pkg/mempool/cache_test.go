package mempool

import (
	"testing"
	"time"
)

func TestInvalidationCachePutThenContains(t *testing.T) {
	c := NewInvalidationCache(10, time.Hour)
	id := hashFromByte(1)

	if c.MightContain(id) {
		t.Error("fresh cache should not contain an id that was never put")
	}

	c.Put(id)
	if !c.MightContain(id) {
		t.Error("MightContain should be true immediately after Put")
	}
}

func TestInvalidationCacheExpires(t *testing.T) {
	c := NewInvalidationCache(10, 10*time.Millisecond)
	id := hashFromByte(1)

	c.Put(id)
	time.Sleep(30 * time.Millisecond)

	if c.MightContain(id) {
		t.Error("entry should have expired after its TTL elapsed")
	}
}

func TestInvalidationCacheSizeBound(t *testing.T) {
	c := NewInvalidationCache(1, time.Hour)
	first := hashFromByte(1)
	second := hashFromByte(2)

	c.Put(first)
	c.Put(second)

	if c.MightContain(first) {
		t.Error("cache bounded to size 1 should have evicted the first entry")
	}
	if !c.MightContain(second) {
		t.Error("most recently put entry should still be present")
	}
}
