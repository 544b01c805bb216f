package resource

import (
	"sync"
	"testing"
	"time"
)

type testObserver struct {
	mu     sync.Mutex
	events []Event
}

func (o *testObserver) OnResourceEvent(e Event) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *testObserver) types() []EventType {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]EventType, len(o.events))
	for i, e := range o.events {
		out[i] = e.Type
	}
	return out
}

type dropCounter struct {
	mu    sync.Mutex
	count int
}

func (d *dropCounter) Drop() {
	d.mu.Lock()
	d.count++
	d.mu.Unlock()
}

func (d *dropCounter) n() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.count
}

func TestTable_Basic(t *testing.T) {
	table := NewTable()

	h, err := table.Insert("engine", "test")
	if err != nil || h == 0 {
		t.Fatalf("Insert: h=%d err=%v", h, err)
	}

	val, ok := table.Get(h)
	if !ok || val != "test" {
		t.Fatalf("Get: got %v, %v", val, ok)
	}

	val, ok = table.Remove(h)
	if !ok || val != "test" {
		t.Fatalf("Remove: got %v, %v", val, ok)
	}

	if table.Len() != 0 {
		t.Fatal("Expected Len() == 0 after Remove")
	}
}

func TestTable_Observer(t *testing.T) {
	table := NewTable()
	obs := &testObserver{}
	sub := table.Subscribe(obs)

	h, _ := table.Insert("engine", "test")
	if _, err := table.Borrow(h); err != nil {
		t.Fatal(err)
	}
	table.Return(h)
	table.Remove(h)

	want := []EventType{EventCreated, EventBorrowed, EventBorrowReturned, EventDraining, EventDropped}
	got := obs.types()
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event %d: expected %s, got %s", i, want[i], got[i])
		}
	}

	table.Unsubscribe(sub)
	table.Insert("engine", "test2")
	if len(obs.types()) != len(want) {
		t.Fatal("Should not receive events after Unsubscribe")
	}
}

func TestTable_UnsubscribeObserverFunc(t *testing.T) {
	table := NewTable()
	var first, second int
	a := table.Subscribe(ObserverFunc(func(Event) { first++ }))
	table.Subscribe(ObserverFunc(func(Event) { second++ }))

	table.Insert("engine", "a")
	table.Unsubscribe(a)
	table.Unsubscribe(a)
	table.Insert("engine", "b")

	if first != 1 {
		t.Fatalf("removed observer: expected 1 event, got %d", first)
	}
	if second != 2 {
		t.Fatalf("remaining observer: expected 2 events, got %d", second)
	}
}

func TestTable_TryRemoveRefusesBorrowed(t *testing.T) {
	table := NewTable()
	d := &dropCounter{}
	h, _ := table.Insert("engine", d)

	table.Borrow(h)
	if _, err := table.TryRemove(h); err == nil {
		t.Fatal("TryRemove should refuse a borrowed value")
	}
	table.Return(h)

	if _, err := table.TryRemove(h); err != nil {
		t.Fatalf("TryRemove failed: %v", err)
	}
	if d.n() != 1 {
		t.Fatalf("Expected Drop() once, called %d times", d.n())
	}
}

func TestTable_RemoveWaitsForBorrows(t *testing.T) {
	table := NewTable()
	d := &dropCounter{}
	h, _ := table.Insert("engine", d)

	if _, err := table.Borrow(h); err != nil {
		t.Fatal(err)
	}

	done := make(chan struct{})
	go func() {
		table.Remove(h)
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	if d.n() != 0 {
		t.Fatal("Drop ran while a borrow was outstanding")
	}

	table.Return(h)
	<-done
	if d.n() != 1 {
		t.Fatalf("Expected Drop() once, called %d times", d.n())
	}
}

func TestTable_ConcurrentRemoveDropsOnce(t *testing.T) {
	table := NewTable()
	d := &dropCounter{}
	h, _ := table.Insert("engine", d)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			table.Remove(h)
		}()
	}
	wg.Wait()

	if d.n() != 1 {
		t.Fatalf("Expected Drop() once, called %d times", d.n())
	}
}

func TestTable_Close(t *testing.T) {
	table := NewTable()
	a, b := &dropCounter{}, &dropCounter{}

	table.Insert("engine", a)
	table.Insert("engine", b)

	table.Close()
	table.Close()

	if a.n() != 1 || b.n() != 1 {
		t.Fatalf("Expected each value dropped once, got %d and %d", a.n(), b.n())
	}

	if _, err := table.Insert("engine", "c"); err == nil {
		t.Fatal("Expected Insert to fail after Close")
	}
}

func TestEventType_String(t *testing.T) {
	if EventDraining.String() != "draining" {
		t.Fatalf("unexpected %q", EventDraining.String())
	}
	if EventType(99).String() != "unknown" {
		t.Fatal("expected unknown")
	}
}
