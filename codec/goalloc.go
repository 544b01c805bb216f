package codec

import (
	"sync"
	"unsafe"
)

// GoAllocator allocates boundary buffers on the Go heap and keeps them
// reachable until freed. Use it with libraries implemented in Go; buffers
// handed to C must come from a C allocator instead.
type GoAllocator struct {
	mu     sync.Mutex
	live   map[unsafe.Pointer][]byte
	allocs int
	frees  int
}

// NewGoAllocator creates an empty allocator.
func NewGoAllocator() *GoAllocator {
	return &GoAllocator{live: make(map[unsafe.Pointer][]byte)}
}

// CString copies s into a NUL-terminated buffer.
func (g *GoAllocator) CString(s string) unsafe.Pointer {
	buf := make([]byte, len(s)+1)
	copy(buf, s)
	p := unsafe.Pointer(&buf[0])

	g.mu.Lock()
	g.live[p] = buf
	g.allocs++
	g.mu.Unlock()
	return p
}

// Free releases a buffer from CString. Unknown pointers are ignored.
func (g *GoAllocator) Free(p unsafe.Pointer) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.live[p]; !ok {
		return
	}
	delete(g.live, p)
	g.frees++
}

// Outstanding returns the number of buffers not yet freed.
func (g *GoAllocator) Outstanding() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.live)
}

// Stats returns the total allocation and free counts.
func (g *GoAllocator) Stats() (allocs, frees int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.allocs, g.frees
}

// GoString reads a NUL-terminated buffer. A nil pointer reads as "".
func GoString(p unsafe.Pointer) string {
	if p == nil {
		return ""
	}
	n := 0
	for *(*byte)(unsafe.Add(p, n)) != 0 {
		n++
	}
	return string(unsafe.Slice((*byte)(p), n))
}
