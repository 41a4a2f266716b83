package slab

import "testing"
import "unsafe"

import "github.com/stretchr/testify/require"

func TestFlatbitsStartsAllFree(t *testing.T) {
	fb := newflatbits(64)
	require.Equal(t, int64(64), fb.freeblocks())
}

func TestFlatbitsOccupyFree(t *testing.T) {
	fb := newflatbits(64)
	fb.occupy(5)
	require.Equal(t, int64(63), fb.freeblocks())
	fb.free(5)
	require.Equal(t, int64(64), fb.freeblocks())
}

func TestOccupancyTrackerLiveCount(t *testing.T) {
	tr := newOccupancyTracker(8)
	tr.addChunk(1000, 64)

	require.Equal(t, int64(64), tr.capacity())
	require.Equal(t, int64(0), tr.live())

	ptr := unsafe.Pointer(uintptr(1000 + 3*8))
	tr.markOccupied(ptr)
	require.Equal(t, int64(1), tr.live())

	tr.markFree(ptr)
	require.Equal(t, int64(0), tr.live())
}

func TestOccupancyTrackerMultipleChunks(t *testing.T) {
	tr := newOccupancyTracker(8)
	tr.addChunk(1000, 64)
	tr.addChunk(2000, 64)

	require.Equal(t, int64(128), tr.capacity())

	tr.markOccupied(unsafe.Pointer(uintptr(2000 + 8)))
	chunkIdx, blockIdx, ok := tr.locate(unsafe.Pointer(uintptr(2000 + 8)))
	require.True(t, ok)
	require.Equal(t, 1, chunkIdx)
	require.Equal(t, int64(1), blockIdx)
	require.Equal(t, int64(1), tr.live())
}

func TestFlatbitsNonMultipleOfEight(t *testing.T) {
	// real carve counts (chunk.Size-ptrSize)/blockSize are essentially
	// never multiples of 8; the trailing bits of the last byte must not
	// be counted as free capacity that doesn't exist.
	fb := newflatbits(13)
	require.Equal(t, int64(13), fb.freeblocks())

	fb.occupy(12)
	require.Equal(t, int64(12), fb.freeblocks())
	fb.free(12)
	require.Equal(t, int64(13), fb.freeblocks())
}

func TestOccupancyTrackerLocateMiss(t *testing.T) {
	tr := newOccupancyTracker(8)
	tr.addChunk(1000, 64)

	_, _, ok := tr.locate(unsafe.Pointer(uintptr(1)))
	require.False(t, ok)

	_, _, ok = tr.locate(unsafe.Pointer(uintptr(1003))) // unaligned
	require.False(t, ok)
}
