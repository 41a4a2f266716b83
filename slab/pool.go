// Pool operations are not safe for concurrent use by themselves;
// synchronization is the Router's job (arena.go), which holds the
// corresponding per-class mutex around every call made here.
package slab

import "fmt"
import "unsafe"

import "github.com/bnclabs/slabpool/chunk"

// pool owns one size class's chunks and the intrusive LIFO free list
// carved out of them. It grows eagerly at construction so the first
// allocation made against it is never a slow path.
type pool struct {
	class     int
	blockSize uintptr

	provider chunk.Provider

	freeHead  unsafe.Pointer
	chunkHead unsafe.Pointer
	chunks    int64
	allocated int64

	occupancy *occupancyTracker
}

func newPool(class int, provider chunk.Provider) *pool {
	p := &pool{
		class:     class,
		blockSize: uintptr(classSizes[class]),
		provider:  provider,
		occupancy: newOccupancyTracker(uintptr(classSizes[class])),
	}
	if err := p.grow(); err != nil {
		panic(fmt.Errorf("slab: eager grow for class %v failed: %w", class, err))
	}
	return p
}

// allocate pops a block off the free list, growing the pool first if it
// is empty. Returns ErrOutOfMemory if the chunk provider refuses.
func (p *pool) allocate() (unsafe.Pointer, error) {
	if p.freeHead == nil {
		if err := p.grow(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrOutOfMemory, err)
		}
		if p.freeHead == nil {
			return nil, ErrOutOfMemory
		}
	}
	block := p.freeHead
	p.freeHead = *(*unsafe.Pointer)(block)
	p.allocated++
	p.occupancy.markOccupied(block)
	return block, nil
}

// deallocate pushes block back onto the free list. A nil block is a
// no-op.
func (p *pool) deallocate(block unsafe.Pointer) {
	if block == nil {
		return
	}
	*(*unsafe.Pointer)(block) = p.freeHead
	p.freeHead = block
	p.allocated--
	p.occupancy.markFree(block)
}

// grow acquires a fresh chunk, stitches it onto the chunk list using its
// first ptrSize bytes as a back-link, and carves the remainder into
// blocks pushed onto the free list.
func (p *pool) grow() error {
	region, err := p.provider.Acquire(chunk.Size)
	if err != nil {
		return err
	}

	*(*unsafe.Pointer)(region) = p.chunkHead
	p.chunkHead = region
	p.chunks++

	avail := uintptr(chunk.Size) - ptrSize
	n := int64(avail / p.blockSize)
	base := uintptr(region) + ptrSize
	p.occupancy.addChunk(base, n)

	for i := int64(0); i < n; i++ {
		block := unsafe.Pointer(base + uintptr(i)*p.blockSize)
		*(*unsafe.Pointer)(block) = p.freeHead
		p.freeHead = block
	}
	return nil
}

// teardown releases every chunk this pool ever acquired. It is a
// precondition that no outstanding user-held blocks remain; callers
// (Router.Close) must have flushed every thread cache first.
func (p *pool) teardown() {
	for p.chunkHead != nil {
		next := *(*unsafe.Pointer)(p.chunkHead)
		p.provider.Release(p.chunkHead, chunk.Size)
		p.chunkHead = next
	}
	p.freeHead = nil
	p.chunks = 0
	p.allocated = 0
}

// utilization returns this pool's block capacity and the fraction of it
// currently checked out, as a percentage.
func (p *pool) utilization() (capacity int64, pct float64) {
	capacity = p.occupancy.capacity()
	if capacity == 0 {
		return 0, 0
	}
	return capacity, (float64(p.occupancy.live()) / float64(capacity)) * 100
}
