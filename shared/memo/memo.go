package memo

import (
	"sync"
	"sync/atomic"
)

// Table is a bounded, concurrency-safe memo table keyed by string.
//
// Boundedness uses dual-generation rotation: entries are written to the
// head generation, and lookups fall back to the previous generation. When
// the head fills up, generations swap and the stale one is discarded,
// giving an approximate LRU without per-entry bookkeeping.
type Table[V any] struct {
	gens    [2]*sync.Map
	headIdx uint32
	size    atomic.Uint32
	maxSize uint32
}

// New creates a table that holds at most maxSize entries per generation.
func New[V any](maxSize uint32) *Table[V] {
	if maxSize == 0 {
		panic("memo: maxSize should be greater than 0")
	}
	return &Table[V]{
		gens:    [2]*sync.Map{{}, {}},
		maxSize: maxSize,
	}
}

// Load looks a key up in the head generation, then the previous one.
func (t *Table[V]) Load(key string) (V, bool) {
	headIdx := atomic.LoadUint32(&t.headIdx)
	if v, ok := t.gens[headIdx].Load(key); ok {
		return v.(V), true
	}
	if v, ok := t.gens[1-headIdx].Load(key); ok {
		return v.(V), true
	}
	var zero V
	return zero, false
}

// Store writes a key into the head generation, rotating generations when
// the head reaches capacity.
func (t *Table[V]) Store(key string, value V) {
	if swapped := t.size.CompareAndSwap(t.maxSize, 0); swapped {
		headIdx := atomic.LoadUint32(&t.headIdx)
		t.gens[1-headIdx] = &sync.Map{}
		atomic.StoreUint32(&t.headIdx, 1-headIdx)
	}
	t.gens[atomic.LoadUint32(&t.headIdx)].Store(key, value)
	t.size.Add(1)
}
