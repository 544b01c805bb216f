package codec

import (
	"sync"
	"unsafe"

	osrmruntime "github.com/wippyai/osrm-runtime"
)

var ptrSlicePool = sync.Pool{
	New: func() any {
		s := make([]unsafe.Pointer, 0, 16)
		return &s
	},
}

const maxPooledArenaCapacity = 256

// StringArena owns the NUL-terminated buffers built for one native call.
// It is not safe for concurrent use; each call gets its own arena.
type StringArena struct {
	alloc osrmruntime.Allocator
	ptrs  *[]unsafe.Pointer
}

// NewStringArena creates an arena drawing buffers from alloc.
func NewStringArena(alloc osrmruntime.Allocator) *StringArena {
	return &StringArena{
		alloc: alloc,
		ptrs:  ptrSlicePool.Get().(*[]unsafe.Pointer),
	}
}

// Add copies s into a boundary buffer owned by the arena.
func (a *StringArena) Add(s string) unsafe.Pointer {
	p := a.alloc.CString(s)
	*a.ptrs = append(*a.ptrs, p)
	return p
}

// AddAll copies every string. A nil slice yields nil so "option absent"
// survives the conversion.
func (a *StringArena) AddAll(ss []string) []unsafe.Pointer {
	if ss == nil {
		return nil
	}
	out := make([]unsafe.Pointer, len(ss))
	for i, s := range ss {
		out[i] = a.Add(s)
	}
	return out
}

// Optional returns nil for an absent scalar string option.
func (a *StringArena) Optional(s *string) unsafe.Pointer {
	if s == nil {
		return nil
	}
	return a.Add(*s)
}

// Outstanding returns the number of live buffers.
func (a *StringArena) Outstanding() int {
	if a.ptrs == nil {
		return 0
	}
	return len(*a.ptrs)
}

// Release frees every buffer. Calling it again is a no-op.
func (a *StringArena) Release() {
	if a.ptrs == nil {
		return
	}
	for _, p := range *a.ptrs {
		if p != nil {
			a.alloc.Free(p)
		}
	}
	ptrs := a.ptrs
	a.ptrs = nil
	if cap(*ptrs) > maxPooledArenaCapacity {
		return
	}
	clear(*ptrs)
	*ptrs = (*ptrs)[:0]
	ptrSlicePool.Put(ptrs)
}
