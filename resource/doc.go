// Package resource manages values that own native state, such as engine
// instances, behind integer handles with borrow tracking.
//
// # Lifecycle
//
//	Insert   - store a value, get a handle
//	Borrow   - mark the value in use for one call
//	Return   - end the borrow
//	Remove   - stop new borrows, wait for outstanding ones, then Drop
//
// A value implementing Dropper has Drop called exactly once, after the last
// borrow has been returned. This is what keeps a native handle from being
// destroyed while a call on it is still running:
//
//	table := resource.NewTable()
//	h, _ := table.Insert("engine", inst)
//
//	v, err := table.Borrow(h)
//	if err != nil {
//	    return err // closed or being removed
//	}
//	defer table.Return(h)
//	use(v)
//
// # Observers
//
// Observers receive created, borrowed, borrow_returned, draining and dropped
// events synchronously:
//
//	sub := table.Subscribe(resource.ObserverFunc(func(e resource.Event) {
//	    logger.Debug("resource event", zap.Stringer("type", e.Type))
//	}))
//	defer table.Unsubscribe(sub)
//
// # Closing
//
// Close refuses new values and borrows, then removes every live value.
// In-flight borrows are waited for, never interrupted.
package resource
