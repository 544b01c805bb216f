package resource

import (
	"errors"
	"sync"
)

var (
	ErrClosed            = errors.New("resource table closed")
	ErrNotFound          = errors.New("resource not found")
	ErrDraining          = errors.New("resource is being dropped")
	ErrOutstandingBorrow = errors.New("cannot drop resource with outstanding borrows")
)

// LocalBackend is an in-memory handle store with borrow tracking.
// Drain blocks until every borrow of a handle has been returned.
type LocalBackend struct {
	cond     *sync.Cond
	entries  []entry
	freeList []Handle
	mu       sync.Mutex
	closed   bool
}

type entry struct {
	value       any
	kind        string
	borrowCount uint32
	valid       bool
	draining    bool
}

// NewLocalBackend creates an empty backend.
func NewLocalBackend() *LocalBackend {
	b := &LocalBackend{
		entries:  make([]entry, 0, 8),
		freeList: make([]Handle, 0, 4),
	}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// Create stores a value and returns its handle.
func (b *LocalBackend) Create(kind string, value any) (Handle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0, ErrClosed
	}

	e := entry{
		kind:  kind,
		value: value,
		valid: true,
	}

	if len(b.freeList) > 0 {
		handle := b.freeList[len(b.freeList)-1]
		b.freeList = b.freeList[:len(b.freeList)-1]
		b.entries[handle-1] = e
		return handle, nil
	}

	b.entries = append(b.entries, e)
	return Handle(len(b.entries)), nil
}

// lookup returns the live entry for handle. Caller holds mu.
func (b *LocalBackend) lookup(handle Handle) *entry {
	if handle == 0 || int(handle) > len(b.entries) {
		return nil
	}
	e := &b.entries[handle-1]
	if !e.valid {
		return nil
	}
	return e
}

// Get retrieves a value by handle.
func (b *LocalBackend) Get(handle Handle) (any, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	e := b.lookup(handle)
	if e == nil {
		return nil, false
	}
	return e.value, true
}

// Kind returns the kind a value was stored with.
func (b *LocalBackend) Kind(handle Handle) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	e := b.lookup(handle)
	if e == nil {
		return "", false
	}
	return e.kind, true
}

// Borrow increments the borrow count and returns the value.
// A handle that is draining accepts no new borrows.
func (b *LocalBackend) Borrow(handle Handle) (any, uint32, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, 0, ErrClosed
	}
	e := b.lookup(handle)
	if e == nil {
		return nil, 0, ErrNotFound
	}
	if e.draining {
		return nil, e.borrowCount, ErrDraining
	}

	e.borrowCount++
	return e.value, e.borrowCount, nil
}

// ReturnBorrow decrements the borrow count and wakes drainers when it
// reaches zero. It returns the remaining count.
func (b *LocalBackend) ReturnBorrow(handle Handle) (uint32, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	e := b.lookup(handle)
	if e == nil || e.borrowCount == 0 {
		return 0, false
	}

	e.borrowCount--
	if e.borrowCount == 0 && e.draining {
		b.cond.Broadcast()
	}
	return e.borrowCount, true
}

// Borrows returns the current borrow count for a handle.
func (b *LocalBackend) Borrows(handle Handle) uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()

	e := b.lookup(handle)
	if e == nil {
		return 0
	}
	return e.borrowCount
}

// Drop removes a value with no outstanding borrows and returns it.
// It never blocks.
func (b *LocalBackend) Drop(handle Handle) (any, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	e := b.lookup(handle)
	if e == nil {
		return nil, ErrNotFound
	}
	if e.draining {
		return nil, ErrDraining
	}
	if e.borrowCount > 0 {
		return nil, ErrOutstandingBorrow
	}
	return b.release(handle, e), nil
}

// Drain marks the handle draining, waits for its borrows to be returned,
// then removes it. Only the first caller for a handle receives the value;
// concurrent and later callers get ErrDraining or ErrNotFound.
func (b *LocalBackend) Drain(handle Handle, onDraining func(borrows uint32)) (any, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	e := b.lookup(handle)
	if e == nil {
		return nil, ErrNotFound
	}
	if e.draining {
		return nil, ErrDraining
	}
	e.draining = true
	if onDraining != nil {
		onDraining(e.borrowCount)
	}

	for e.borrowCount > 0 {
		b.cond.Wait()
		// entries may have been reallocated by Create while unlocked
		e = &b.entries[handle-1]
	}
	return b.release(handle, e), nil
}

func (b *LocalBackend) release(handle Handle, e *entry) any {
	value := e.value
	*e = entry{}
	b.freeList = append(b.freeList, handle)
	return value
}

// Close stops accepting values and borrows. Live values are left for the
// caller to drain; see Handles.
func (b *LocalBackend) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
}

// Handles returns every live handle.
func (b *LocalBackend) Handles() []Handle {
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []Handle
	for i, e := range b.entries {
		if e.valid {
			out = append(out, Handle(i+1))
		}
	}
	return out
}

// Len returns the number of live values.
func (b *LocalBackend) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	count := 0
	for _, e := range b.entries {
		if e.valid {
			count++
		}
	}
	return count
}
