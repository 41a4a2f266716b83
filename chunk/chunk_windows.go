//go:build windows

package chunk

import "fmt"
import "unsafe"

import "golang.org/x/sys/windows"

// platformProvider reserves and commits memory directly from the
// Windows virtual-memory manager, bypassing the C runtime heap.
type platformProvider struct{}

func (platformProvider) Acquire(size uintptr) (unsafe.Pointer, error) {
	addr, err := windows.VirtualAlloc(
		0, size,
		windows.MEM_COMMIT|windows.MEM_RESERVE,
		windows.PAGE_READWRITE,
	)
	if err != nil {
		return nil, fmt.Errorf("chunk: VirtualAlloc %v bytes: %w", size, err)
	}
	return unsafe.Pointer(addr), nil
}

func (platformProvider) Release(ptr unsafe.Pointer, size uintptr) {
	err := windows.VirtualFree(uintptr(ptr), 0, windows.MEM_RELEASE)
	if err != nil {
		panic(fmt.Errorf("chunk: VirtualFree %v bytes: %w", size, err))
	}
}
