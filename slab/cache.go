package slab

import "sync"
import "unsafe"

import "golang.org/x/sys/cpu"

// threadCache is a per-class, per-shard intrusive LIFO free list. It has
// no lock of its own; callers hold the owning shard's mu around every
// push and pop. Its free list is threaded through the same header
// byte storage a block uses for its class index while allocated; the
// two interpretations never overlap in time, exactly as in the central
// pool.
type threadCache struct {
	head  unsafe.Pointer
	count int
}

func (c *threadCache) pop() (unsafe.Pointer, bool) {
	if c.head == nil {
		return nil, false
	}
	block := c.head
	c.head = *(*unsafe.Pointer)(block)
	c.count--
	return block, true
}

func (c *threadCache) push(block unsafe.Pointer) {
	*(*unsafe.Pointer)(block) = c.head
	c.head = block
	c.count++
}

// shard holds one threadCache per size class. Padded to a cache line so
// that goroutines pinned to different shards never false-share a cache
// line's worth of counters, mirroring the per-class mutex padding in
// arena.go.
//
// Unlike true OS-thread-local storage, a shard has no guarantee that
// exactly one goroutine ever touches it: the pseudo-affinity selection
// in arena.go's shardFor bounds collisions but does not rule them out.
// mu makes concurrent access to a shard's caches safe; it is uncontended
// in the common case where live goroutine count does not exceed shard
// count, which keeps the fast path cheap without claiming a lock-free
// guarantee Go cannot actually provide here.
type shard struct {
	mu     sync.Mutex
	caches [numClasses]threadCache
	_      cpu.CacheLinePad
}

// nextPow2 rounds n up to the nearest power of two, with a floor of 1.
func nextPow2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
