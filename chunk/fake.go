package chunk

import "fmt"
import "sync"
import "unsafe"

// Fake is an in-process Provider that backs every region with a Go-heap
// byte slice instead of a real OS mapping. It exists so the slab and
// cache packages can be exercised without depending on an actual mmap or
// VirtualAlloc call, and so tests can assert exact acquire/release counts.
type Fake struct {
	mu        sync.Mutex
	live      map[unsafe.Pointer][]byte
	acquired  int64
	released  int64
	failAfter int64 // Acquire fails once acquired reaches this count; 0 disables.
}

// NewFake returns a ready-to-use Fake provider.
func NewFake() *Fake {
	return &Fake{live: make(map[unsafe.Pointer][]byte)}
}

// FailAfter lets the first n Acquire calls succeed and makes every later
// one return an error, simulating OS exhaustion. n == 0 disables the
// failure.
func (f *Fake) FailAfter(n int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failAfter = n
}

func (f *Fake) Acquire(size uintptr) (unsafe.Pointer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAfter > 0 && f.acquired >= f.failAfter {
		return nil, fmt.Errorf("chunk: fake provider exhausted")
	}
	b := make([]byte, size)
	ptr := unsafe.Pointer(&b[0])
	f.live[ptr] = b
	f.acquired++
	return ptr, nil
}

func (f *Fake) Release(ptr unsafe.Pointer, size uintptr) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.live[ptr]
	if !ok {
		panic("chunk: fake provider released unknown region")
	}
	if uintptr(len(b)) != size {
		panic(fmt.Errorf("chunk: fake provider release size mismatch: got %v want %v", size, len(b)))
	}
	delete(f.live, ptr)
	f.released++
}

// Counts returns the number of Acquire and Release calls observed so far,
// used by teardown-completeness checks.
func (f *Fake) Counts() (acquired, released int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.acquired, f.released
}
