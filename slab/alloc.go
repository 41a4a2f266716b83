package slab

import "unsafe"

import "github.com/bnclabs/slabpool/lib"

// Allocate returns a pointer to at least n writable bytes from the
// process-lifetime default Router. n must be in (0, 511].
func Allocate(n int) (unsafe.Pointer, error) {
	return Default().Alloc(n)
}

// Deallocate returns a pointer previously obtained from Allocate (or
// Calloc) to the default Router. A nil pointer is a no-op.
func Deallocate(p unsafe.Pointer) {
	Default().Free(p)
}

// Calloc is Allocate with the requested size expressed as count*size and
// the returned region zeroed, mirroring libc's calloc. Oversize requests
// (count*size > 511) are reported as ErrOversize; this module never
// falls through to the system allocator for them.
func Calloc(count, size int) (unsafe.Pointer, error) {
	n := count * size
	p, err := Allocate(n)
	if err != nil {
		return nil, err
	}
	b := unsafe.Slice((*byte)(p), n)
	for i := range b {
		b[i] = 0
	}
	return p, nil
}

// Realloc is provided as a convenience wrapper, not as true in-place
// resize: this allocator never grows a block in place. It allocates
// newSize bytes, copies over min(payload width of p's class, newSize)
// bytes from p, and frees p. The allocator does not track the size the
// caller originally requested, only p's class (read from its header), so
// the copy covers the class's whole payload width rather than exactly
// the bytes the caller last wrote.
func Realloc(p unsafe.Pointer, newSize int) (unsafe.Pointer, error) {
	if p == nil {
		return Allocate(newSize)
	}
	next, err := Allocate(newSize)
	if err != nil {
		return nil, err
	}

	header := unsafe.Pointer(uintptr(p) - 1)
	class := int(*(*uint8)(header))
	oldPayload := 0
	if class >= 0 && class < numClasses {
		oldPayload = classSizes[class] - 1
	}
	n := oldPayload
	if newSize < n {
		n = newSize
	}
	if n > 0 {
		lib.Memcpy(next, p, n)
	}

	Deallocate(p)
	return next, nil
}
