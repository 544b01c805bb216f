package resource

// Handle is an opaque reference to a value in a table.
// Handle 0 is reserved and always invalid.
type Handle uint32

// EventType identifies a lifecycle notification.
type EventType uint8

const (
	EventCreated EventType = iota
	EventBorrowed
	EventBorrowReturned
	EventDraining
	EventDropped
)

func (t EventType) String() string {
	switch t {
	case EventCreated:
		return "created"
	case EventBorrowed:
		return "borrowed"
	case EventBorrowReturned:
		return "borrow_returned"
	case EventDraining:
		return "draining"
	case EventDropped:
		return "dropped"
	}
	return "unknown"
}

// Event represents a lifecycle event.
type Event struct {
	Value   any
	Kind    string
	Handle  Handle
	Borrows uint32
	Type    EventType
}

// Observer receives notifications about lifecycle events.
// Observers are called synchronously and must not call back into the table.
type Observer interface {
	OnResourceEvent(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) OnResourceEvent(e Event) { f(e) }

// Dropper is implemented by values that own native state.
// Drop is called exactly once, after the last borrow is returned.
type Dropper interface {
	Drop()
}
