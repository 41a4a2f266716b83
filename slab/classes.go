package slab

import "fmt"
import "unsafe"

// numClasses is the fixed count of size classes this allocator supports.
const numClasses = 14

// maxPayload is the largest number of user bytes a single allocation may
// request; one byte of every block is reserved for the class-index header.
const maxPayload = 511

// ptrSize is the minimum block size: large enough for a block to store a
// pointer-sized "next" link while it sits on a free list.
const ptrSize = unsafe.Sizeof(uintptr(0))

// classSizes is the fixed, compile-time size-class table. Every entry must
// be a multiple of ptrSize so the intrusive free-list trick in pool.go is
// sound; this is checked in init() below.
var classSizes = [numClasses]int{8, 16, 24, 32, 40, 48, 56, 64, 96, 128, 192, 256, 384, 512}

// indexOf[n] is the smallest class index whose block size is >= n, for n
// in [1, 512]. Index 0 of the table is unused; the table is indexed by
// requested-byte-count-plus-header.
var indexOf [maxPayload + 2]uint8

func init() {
	if classSizes[numClasses-1] != maxPayload+1 {
		panic(fmt.Sprintf("slab: largest class must equal maxPayload+1, got %v", classSizes[numClasses-1]))
	}
	for _, sz := range classSizes {
		if uintptr(sz)%ptrSize != 0 || uintptr(sz) < ptrSize {
			panic(fmt.Sprintf("slab: class size %v is not a pointer-size multiple >= %v", sz, ptrSize))
		}
	}

	class := 0
	for n := 1; n <= maxPayload+1; n++ {
		for classSizes[class] < n {
			class++
		}
		indexOf[n] = uint8(class)
	}
}

// classFor returns the size class for a request of n user bytes, or
// false if n is zero or would need more than maxPayload+1 bytes
// (header included).
func classFor(n int) (int, bool) {
	if n <= 0 {
		return 0, false
	}
	needed := n + 1
	if needed > maxPayload+1 {
		return 0, false
	}
	return int(indexOf[needed]), true
}
