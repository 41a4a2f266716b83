// Package-level Router state is safe for concurrent use; that is its
// entire purpose.
package slab

import "sync"
import "sync/atomic"
import "unsafe"

import "golang.org/x/sys/cpu"
import s "github.com/prataprc/gosettings"

import "github.com/bnclabs/slabpool/chunk"

// paddedMutex pads a sync.Mutex to its own cache line, so that threads
// hammering different classes never false-share a line's worth of lock
// state.
type paddedMutex struct {
	sync.Mutex
	_ cpu.CacheLinePad
}

// Router maps byte counts to size classes, owns the fourteen slab
// pools, and distributes shard-local thread caches across goroutines.
// It is the type backing the package's public façade (alloc.go) and is
// normally used through the process-lifetime singleton returned by
// Default, though NewRouter lets a host application build an
// independent instance (useful for tests and for processes that want
// isolated allocator domains).
type Router struct {
	pools [numClasses]*pool
	mus   [numClasses]paddedMutex
	stats [numClasses]classStats

	provider chunk.Provider
	logger   Logger

	batch     int
	highWater int

	shards    []shard
	shardMask uint32
	affinity  uint32

	mu     sync.Mutex
	closed bool
}

// NewRouter builds a Router from setts (Mixin'd over Defaultsettings)
// and provider. provider is typically chunk.Default(), or chunk.NewFake()
// in tests that want to run without a real OS mapping.
func NewRouter(setts s.Settings, provider chunk.Provider) *Router {
	setts = (s.Settings{}).Mixin(Defaultsettings(), setts)

	r := &Router{
		provider:  provider,
		batch:     int(setts.Int64("cache.batch")),
		highWater: int(setts.Int64("cache.highwater")),
		logger:    defaultLoggerFor(setts),
	}

	nshards := nextPow2(int(setts.Int64("cache.shards")))
	r.shards = make([]shard, nshards)
	r.shardMask = uint32(nshards - 1)

	for class := 0; class < numClasses; class++ {
		r.pools[class] = newPool(class, provider)
		r.stats[class] = newClassStats(r.highWater)
	}

	r.logger.Infof("slab: router ready, %v shards, batch %v, highwater %v\n",
		nshards, r.batch, r.highWater)
	return r
}

var (
	defaultRouter     *Router
	defaultRouterOnce sync.Once
)

// Default returns the process-lifetime Router singleton, building it
// lazily on first use with Defaultsettings and the platform chunk
// provider.
func Default() *Router {
	defaultRouterOnce.Do(func() {
		defaultRouter = NewRouter(Defaultsettings(), chunk.Default())
	})
	return defaultRouter
}

// shardFor picks a shard for the current call. Go has no user-visible
// thread-local storage for goroutines, so this module stands in a fast,
// racy counter for true thread affinity: the value is read once per
// call and used consistently for that call's duration. Cross-call
// movement between shards costs at most one extra refill; it never
// violates any correctness invariant, since a thread cache's identity
// is never required to be stable across calls.
func (r *Router) shardFor() *shard {
	idx := atomic.AddUint32(&r.affinity, 1) & r.shardMask
	return &r.shards[idx]
}

// Alloc returns a pointer to at least n writable bytes, or an error if n
// is zero, oversized, or the chunk provider is exhausted.
func (r *Router) Alloc(n int) (unsafe.Pointer, error) {
	class, ok := classFor(n)
	if !ok {
		if n <= 0 {
			return nil, ErrZeroSize
		}
		return nil, ErrOversize
	}

	sh := r.shardFor()

	sh.mu.Lock()
	block, ok := sh.caches[class].pop()
	sh.mu.Unlock()

	if !ok {
		r.refill(sh, class)
		sh.mu.Lock()
		block, ok = sh.caches[class].pop()
		sh.mu.Unlock()
		if !ok {
			return nil, ErrOutOfMemory
		}
	}

	*(*uint8)(block) = uint8(class)

	// r.stats[class] is shared across every shard touching this class;
	// the class mutex (otherwise reserved for pool access) doubles as
	// its guard, taken and released here rather than nested with sh.mu.
	r.mus[class].Lock()
	r.stats[class].observeAlloc(n)
	r.mus[class].Unlock()

	return unsafe.Pointer(uintptr(block) + 1), nil
}

// Free returns a block previously obtained from Alloc (directly or via
// Allocate/Calloc). A nil pointer is a no-op.
func (r *Router) Free(p unsafe.Pointer) {
	if p == nil {
		return
	}
	header := unsafe.Pointer(uintptr(p) - 1)
	class := int(*(*uint8)(header))
	if class < 0 || class >= numClasses {
		r.logger.Errorf("slab: corrupted header on free, class index %v out of range\n", class)
		return
	}

	sh := r.shardFor()

	sh.mu.Lock()
	sh.caches[class].push(header)
	count := sh.caches[class].count
	sh.mu.Unlock()

	r.mus[class].Lock()
	r.stats[class].observeFree(count)
	r.mus[class].Unlock()

	if count > r.highWater-1 {
		r.flush(sh, class)
	}
}

// refill pulls up to r.batch blocks from the class's slab pool under
// that class's mutex, then hands them to sh's cache under the shard's
// own mutex. The two locks are never held simultaneously, so refill and
// flush cannot deadlock against each other. If the pool runs out
// mid-batch, it stops early and keeps whatever it gathered.
func (r *Router) refill(sh *shard, class int) {
	r.mus[class].Lock()
	pool := r.pools[class]
	batch := make([]unsafe.Pointer, 0, r.batch)
	for i := 0; i < r.batch; i++ {
		block, err := pool.allocate()
		if err != nil {
			break
		}
		batch = append(batch, block)
	}
	r.mus[class].Unlock()

	if len(batch) == 0 {
		r.logger.Debugf("slab: class %v refill found pool exhausted\n", class)
		return
	}

	sh.mu.Lock()
	for _, block := range batch {
		sh.caches[class].push(block)
	}
	sh.mu.Unlock()
}

// flush walks the first r.batch nodes of sh's cache for class, detaches
// whatever remains beyond them under the shard's mutex, then returns
// that tail to the slab pool block-by-block under the class's mutex,
// leaving exactly r.batch nodes behind.
func (r *Router) flush(sh *shard, class int) {
	sh.mu.Lock()
	cache := &sh.caches[class]
	if cache.count <= r.batch {
		sh.mu.Unlock()
		return
	}
	node := cache.head
	for i := 1; i < r.batch; i++ {
		node = *(*unsafe.Pointer)(node)
	}
	tail := *(*unsafe.Pointer)(node)
	*(*unsafe.Pointer)(node) = nil
	cache.count = r.batch
	sh.mu.Unlock()

	r.mus[class].Lock()
	pool := r.pools[class]
	for tail != nil {
		next := *(*unsafe.Pointer)(tail)
		pool.deallocate(tail)
		tail = next
	}
	r.mus[class].Unlock()
}

// Close flushes every shard's every class back to its slab pool and
// then releases every chunk. It is the reachable, process-level
// equivalent of a per-thread destructor flush, since goroutines have no
// exit hooks of their own. It is a precondition that no outstanding
// user-held blocks remain.
func (r *Router) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}

	for class := 0; class < numClasses; class++ {
		r.mus[class].Lock()
		pool := r.pools[class]
		for i := range r.shards {
			sh := &r.shards[i]
			sh.mu.Lock()
			cache := &sh.caches[class]
			for {
				block, ok := cache.pop()
				if !ok {
					break
				}
				pool.deallocate(block)
			}
			sh.mu.Unlock()
		}
		pool.teardown()
		r.mus[class].Unlock()
	}
	r.closed = true
}

// Utilization reports, per class, the byte width and the percentage of
// that class's acquired capacity currently checked out of the central
// pool (in a shard's cache or held by a caller).
func (r *Router) Utilization() (classes []int, pct []float64) {
	classes = make([]int, numClasses)
	pct = make([]float64, numClasses)
	for class := 0; class < numClasses; class++ {
		r.mus[class].Lock()
		_, p := r.pools[class].utilization()
		r.mus[class].Unlock()
		classes[class] = classSizes[class]
		pct[class] = p
	}
	return classes, pct
}
