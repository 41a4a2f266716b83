//go:build unix

package chunk

import "fmt"
import "unsafe"

import "golang.org/x/sys/unix"

// platformProvider acquires anonymous, private mappings from the kernel.
// Anonymous mappings come back zero-filled, which is what the slab pools
// rely on when they carve a fresh chunk.
type platformProvider struct{}

func (platformProvider) Acquire(size uintptr) (unsafe.Pointer, error) {
	b, err := unix.Mmap(
		-1, 0, int(size),
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_ANON|unix.MAP_PRIVATE,
	)
	if err != nil {
		return nil, fmt.Errorf("chunk: mmap %v bytes: %w", size, err)
	}
	return unsafe.Pointer(&b[0]), nil
}

func (platformProvider) Release(ptr unsafe.Pointer, size uintptr) {
	b := unsafe.Slice((*byte)(ptr), int(size))
	if err := unix.Munmap(b); err != nil {
		panic(fmt.Errorf("chunk: munmap %v bytes: %w", size, err))
	}
}
