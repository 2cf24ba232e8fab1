package routed

import "routed-values/core/observable"

// Property names carried by change notifications. They are stable and
// safe to filter on.
const (
	// PropertyLocalValue names the locally set value
	PropertyLocalValue = "localValue"

	// PropertyValue names the derived value
	PropertyValue = "value"
)

// ChangeKind identifies which value of a node changed
type ChangeKind int

const (
	// LocalValueChanged is emitted when the local value is replaced by a different one
	LocalValueChanged ChangeKind = iota

	// ValueChanged is emitted when the derived value is (re)raised
	ValueChanged
)

// Property returns the property name used for the kind
func (k ChangeKind) Property() string {
	if k == LocalValueChanged {
		return PropertyLocalValue
	}
	return PropertyValue
}

// String returns the kind name
func (k ChangeKind) String() string {
	switch k {
	case LocalValueChanged:
		return "local_value_changed"
	case ValueChanged:
		return "value_changed"
	default:
		return "unknown"
	}
}

// KindOf maps a property name back to its ChangeKind
func KindOf(property string) (ChangeKind, bool) {
	switch property {
	case PropertyLocalValue:
		return LocalValueChanged, true
	case PropertyValue:
		return ValueChanged, true
	default:
		return 0, false
	}
}

// Change is a single notification
type Change[T any] struct {
	Kind  ChangeKind
	Value T
	Node  *Node[T]
}

// Observer receives typed change notifications
type Observer[T any] interface {
	OnChange(c Change[T])
}

// ObserverFunc adapts a function to Observer
type ObserverFunc[T any] func(c Change[T])

// OnChange calls f(c)
func (f ObserverFunc[T]) OnChange(c Change[T]) {
	f(c)
}

// Subscription detaches a registered listener
type Subscription = observable.Subscription

// Subscribe registers o for both kinds of change.
func (n *Node[T]) Subscribe(o Observer[T]) Subscription {
	if o == nil {
		return Subscription{}
	}
	return n.events.OnAny(func(property string, value T, source *Node[T]) {
		kind, ok := KindOf(property)
		if !ok {
			return
		}
		o.OnChange(Change[T]{Kind: kind, Value: value, Node: source})
	})
}

// OnValueChanged registers fn for derived value notifications.
func (n *Node[T]) OnValueChanged(fn func(value T, node *Node[T])) Subscription {
	if fn == nil {
		return Subscription{}
	}
	return n.events.On(PropertyValue, func(_ string, value T, source *Node[T]) {
		fn(value, source)
	})
}

// OnLocalValueChanged registers fn for local value notifications.
func (n *Node[T]) OnLocalValueChanged(fn func(value T, node *Node[T])) Subscription {
	if fn == nil {
		return Subscription{}
	}
	return n.events.On(PropertyLocalValue, func(_ string, value T, source *Node[T]) {
		fn(value, source)
	})
}

// OnPropertyChanged registers fn for the named property. An empty name
// matches every property.
func (n *Node[T]) OnPropertyChanged(property string, fn func(property string, value T, node *Node[T])) Subscription {
	if fn == nil {
		return Subscription{}
	}
	return n.events.On(property, fn)
}

func (n *Node[T]) notify(kind ChangeKind, value T) {
	n.debug("value changed", kind, value)
	n.events.Notify(kind.Property(), value, n)
}
