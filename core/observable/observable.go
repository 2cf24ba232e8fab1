// Package observable provides synchronous named property-change notification.
//
// Listeners run inline on the goroutine that calls Notify. A listener may
// change observed state from inside its callback; the resulting
// notifications are delivered immediately (re-entrant, never queued or
// coalesced).
package observable

import "slices"

// Listener receives the name of the changed property, its new value and
// the object that owns the property.
type Listener[T, S any] func(property string, value T, source S)

// Subscription detaches a listener registered on an Emitter.
type Subscription struct {
	cancel func()
}

// Unsubscribe removes the listener. It is safe to call more than once.
func (s Subscription) Unsubscribe() {
	if s.cancel != nil {
		s.cancel()
	}
}

type entry[T, S any] struct {
	id       uint64
	property string // empty matches every property
	fn       Listener[T, S]
}

// Emitter keeps the listeners of one observable object.
// The zero value is ready to use. Emitter is not safe for concurrent use.
type Emitter[T, S any] struct {
	nextID  uint64
	entries []entry[T, S]
}

// On registers fn for changes of the named property.
func (e *Emitter[T, S]) On(property string, fn Listener[T, S]) Subscription {
	if fn == nil {
		return Subscription{}
	}
	e.nextID++
	id := e.nextID
	e.entries = append(e.entries, entry[T, S]{id: id, property: property, fn: fn})
	return Subscription{cancel: func() { e.remove(id) }}
}

// OnAny registers fn for changes of any property.
func (e *Emitter[T, S]) OnAny(fn Listener[T, S]) Subscription {
	return e.On("", fn)
}

// Notify delivers a change to every matching listener.
// Listeners registered while Notify runs are not called for this change.
func (e *Emitter[T, S]) Notify(property string, value T, source S) {
	// Copy before notify so listeners can (un)subscribe from their callback.
	entries := slices.Clone(e.entries)
	for _, en := range entries {
		if en.property == "" || en.property == property {
			en.fn(property, value, source)
		}
	}
}

// Len returns the number of registered listeners.
func (e *Emitter[T, S]) Len() int {
	return len(e.entries)
}

func (e *Emitter[T, S]) remove(id uint64) {
	e.entries = slices.DeleteFunc(e.entries, func(en entry[T, S]) bool {
		return en.id == id
	})
}
