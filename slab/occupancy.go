package slab

import "unsafe"

import "github.com/bnclabs/slabpool/lib"

// flatbits is a flat free/occupied bitmap, one bit per block (set ==
// free). A hierarchical bitmap with summary levels would make "find the
// first free block" an O(log n) search, but this tracker never performs
// that search; callers already know the exact block index from pointer
// arithmetic, so a single level of bits is enough. The bit-twiddling
// (Setbit/Clearbit/Ones) comes from the lib toolkit.
type flatbits struct {
	nblocks int64
	bits    []uint8
}

func newflatbits(nblocks int64) *flatbits {
	fb := &flatbits{nblocks: nblocks, bits: make([]uint8, (nblocks+7)>>3)}
	for i := range fb.bits {
		fb.bits[i] = 0xff // every block starts free
	}
	if trailing := uint8(nblocks & 0x7); trailing != 0 {
		// the last byte covers up to 8 blocks but this chunk's carve
		// count may stop short of that; mask off the unused high bits
		// so they never show up as free capacity that doesn't exist.
		last := len(fb.bits) - 1
		fb.bits[last] &= (1 << trailing) - 1
	}
	return fb
}

func (fb *flatbits) occupy(nthblock int64) {
	q, r := nthblock>>3, uint8(nthblock&0x7)
	fb.bits[q] = lib.Bit8(fb.bits[q]).Clearbit(r)
}

func (fb *flatbits) free(nthblock int64) {
	q, r := nthblock>>3, uint8(nthblock&0x7)
	fb.bits[q] = lib.Bit8(fb.bits[q]).Setbit(r)
}

func (fb *flatbits) freeblocks() (n int64) {
	for _, byt := range fb.bits {
		n += int64(lib.Bit8(byt).Ones())
	}
	return
}

// occupancyTracker is an independent, pool-level "which blocks are
// currently checked out" oracle, spanning every chunk a pool has ever
// grown into. It is consulted only while the pool's class mutex is held
// (grow/refill/flush/Close/Utilization), never on the shard-cache fast
// path, so it never adds work to the shard-local pop/push in Alloc/Free.
type occupancyTracker struct {
	blockSize uintptr
	bases     []uintptr
	blocks    []int64
	maps      []*flatbits
}

func newOccupancyTracker(blockSize uintptr) *occupancyTracker {
	return &occupancyTracker{blockSize: blockSize}
}

func (t *occupancyTracker) addChunk(carveBase uintptr, nblocks int64) {
	t.bases = append(t.bases, carveBase)
	t.blocks = append(t.blocks, nblocks)
	t.maps = append(t.maps, newflatbits(nblocks))
}

// locate finds the chunk whose carve region contains ptr, picking the
// chunk with the nearest base at or below addr so that a base lying
// within a later chunk's span never shadows the chunk ptr actually
// belongs to.
func (t *occupancyTracker) locate(ptr unsafe.Pointer) (chunkIdx int, blockIdx int64, ok bool) {
	addr := uintptr(ptr)
	var bestBase uintptr
	found := false
	for i, base := range t.bases {
		if addr < base || (found && base <= bestBase) {
			continue
		}
		end := base + uintptr(t.blocks[i])*t.blockSize
		if addr >= end {
			continue
		}
		off := addr - base
		if off%t.blockSize != 0 {
			continue
		}
		chunkIdx, blockIdx = i, int64(off/t.blockSize)
		bestBase = base
		found = true
	}
	return chunkIdx, blockIdx, found
}

func (t *occupancyTracker) markOccupied(ptr unsafe.Pointer) {
	if i, idx, ok := t.locate(ptr); ok {
		t.maps[i].occupy(idx)
	}
}

func (t *occupancyTracker) markFree(ptr unsafe.Pointer) {
	if i, idx, ok := t.locate(ptr); ok {
		t.maps[i].free(idx)
	}
}

// capacity and live together give the percentage figures Router.Utilization
// reports, and let tests assert "every live block lies within exactly one
// chunk" without relying on the allocator's own free-list pointers.
func (t *occupancyTracker) capacity() int64 {
	total := int64(0)
	for _, n := range t.blocks {
		total += n
	}
	return total
}

func (t *occupancyTracker) live() int64 {
	free := int64(0)
	for _, m := range t.maps {
		free += m.freeblocks()
	}
	return t.capacity() - free
}
