package resource

import (
	"sync"
)

// Table owns values that hold native state and mediates access to them.
// Every use of a value is bracketed by Borrow and Return; Remove waits for
// outstanding borrows before the value's Drop runs.
type Table struct {
	backend   *LocalBackend
	observers []subscription
	nextSub   Subscription
	obsMu     sync.RWMutex
	closeOnce sync.Once
}

// Subscription identifies an observer registered with Subscribe.
type Subscription uint64

type subscription struct {
	id Subscription
	o  Observer
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{
		backend: NewLocalBackend(),
	}
}

// Insert adds a value and returns its handle.
func (t *Table) Insert(kind string, value any) (Handle, error) {
	handle, err := t.backend.Create(kind, value)
	if err != nil {
		return 0, err
	}

	t.notify(Event{
		Type:   EventCreated,
		Handle: handle,
		Kind:   kind,
		Value:  value,
	})

	return handle, nil
}

// Get retrieves a value without borrowing it.
func (t *Table) Get(handle Handle) (any, bool) {
	return t.backend.Get(handle)
}

// Borrow marks the value in use until the matching Return.
func (t *Table) Borrow(handle Handle) (any, error) {
	value, n, err := t.backend.Borrow(handle)
	if err != nil {
		return nil, err
	}
	t.notify(Event{
		Type:    EventBorrowed,
		Handle:  handle,
		Value:   value,
		Borrows: n,
	})
	return value, nil
}

// Return ends a borrow started by Borrow.
func (t *Table) Return(handle Handle) {
	n, ok := t.backend.ReturnBorrow(handle)
	if !ok {
		return
	}
	t.notify(Event{
		Type:    EventBorrowReturned,
		Handle:  handle,
		Borrows: n,
	})
}

// Borrows returns the number of outstanding borrows of handle.
func (t *Table) Borrows(handle Handle) int {
	return int(t.backend.Borrows(handle))
}

// TryRemove removes a value only if it is not borrowed.
func (t *Table) TryRemove(handle Handle) (any, error) {
	kind, _ := t.backend.Kind(handle)
	value, err := t.backend.Drop(handle)
	if err != nil {
		return nil, err
	}
	t.dropped(handle, kind, value)
	return value, nil
}

// Remove stops new borrows of handle, waits for outstanding ones to be
// returned, then drops the value. It reports false if the handle is unknown
// or another caller is already removing it.
func (t *Table) Remove(handle Handle) (any, bool) {
	kind, _ := t.backend.Kind(handle)
	value, err := t.backend.Drain(handle, func(borrows uint32) {
		t.notify(Event{
			Type:    EventDraining,
			Handle:  handle,
			Kind:    kind,
			Borrows: borrows,
		})
	})
	if err != nil {
		return nil, false
	}
	t.dropped(handle, kind, value)
	return value, true
}

func (t *Table) dropped(handle Handle, kind string, value any) {
	if d, ok := value.(Dropper); ok {
		d.Drop()
	}
	t.notify(Event{
		Type:   EventDropped,
		Handle: handle,
		Kind:   kind,
		Value:  value,
	})
}

// Subscribe adds an observer for lifecycle events and returns the
// subscription that Unsubscribe takes.
func (t *Table) Subscribe(o Observer) Subscription {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	t.nextSub++
	t.observers = append(t.observers, subscription{id: t.nextSub, o: o})
	return t.nextSub
}

// Unsubscribe removes an observer. Unknown subscriptions are ignored.
func (t *Table) Unsubscribe(id Subscription) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	for i, sub := range t.observers {
		if sub.id == id {
			t.observers = append(t.observers[:i], t.observers[i+1:]...)
			return
		}
	}
}

// Len returns the number of live values.
func (t *Table) Len() int {
	return t.backend.Len()
}

// Close stops accepting values and borrows, then removes every live value,
// waiting for in-flight borrows. Calling Close again is a no-op.
func (t *Table) Close() {
	t.closeOnce.Do(func() {
		t.backend.Close()
		for _, h := range t.backend.Handles() {
			t.Remove(h)
		}
	})
}

func (t *Table) notify(e Event) {
	t.obsMu.RLock()
	defer t.obsMu.RUnlock()
	for _, sub := range t.observers {
		sub.o.OnResourceEvent(e)
	}
}
