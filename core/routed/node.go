package routed

import (
	"cmp"
	"slices"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"routed-values/core/observable"
)

// Node is a routed value over T.
type Node[T any] struct {
	name     string
	local    T
	strategy Strategy
	compare  func(a, b T) int

	parents  []*Node[T]
	children []*Node[T]

	events observable.Emitter[T, *Node[T]]
	log    *zap.Logger
}

type settings struct {
	name     string
	strategy Strategy
	logger   *zap.Logger
}

// Option configures a node at construction
type Option func(*settings)

// WithStrategy sets the router strategy (default Ascending)
func WithStrategy(s Strategy) Option {
	return func(o *settings) { o.strategy = s }
}

// WithName sets the node name (default: random uuid)
func WithName(name string) Option {
	return func(o *settings) { o.name = name }
}

// WithLogger enables debug logging of wiring and notifications
func WithLogger(l *zap.Logger) Option {
	return func(o *settings) { o.logger = l }
}

// New creates a node over an ordered type using natural ordering.
// Values that are neither less nor greater than each other, such as NaN
// against anything, compare as a tie and never override.
func New[T cmp.Ordered](opts ...Option) *Node[T] {
	return NewFunc(natural[T], opts...)
}

func natural[T cmp.Ordered](a, b T) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

// NewFunc creates a node that orders values with compare, which must
// return a negative number, zero or a positive number when a is less
// than, equal to or greater than b. Panics on a nil compare.
func NewFunc[T any](compare func(a, b T) int, opts ...Option) *Node[T] {
	if compare == nil {
		panic("routed: nil comparator")
	}
	s := settings{strategy: Ascending}
	for _, opt := range opts {
		opt(&s)
	}
	if s.name == "" {
		s.name = uuid.NewString()
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return &Node[T]{
		name:     s.name,
		strategy: s.strategy,
		compare:  compare,
		log:      s.logger.With(zap.String("node", s.name)),
	}
}

// Name returns the node name
func (n *Node[T]) Name() string {
	return n.name
}

// Strategy returns the router strategy
func (n *Node[T]) Strategy() Strategy {
	return n.strategy
}

// LocalValue returns the value set directly on the node.
func (n *Node[T]) LocalValue() T {
	return n.local
}

// Value returns the derived value: the local value, overridden by each
// parent's derived value in registration order whenever the strategy
// says the parent wins.
func (n *Node[T]) Value() T {
	result := n.local
	for _, p := range n.parents {
		pv := p.Value()
		if n.ShouldTakeParentValue(pv, result) {
			result = pv
		}
	}
	return result
}

// ShouldTakeParentValue reports whether parentValue replaces own under
// the node's strategy. Ties never replace.
func (n *Node[T]) ShouldTakeParentValue(parentValue, own T) bool {
	return n.strategy.takesParent(n.compare(own, parentValue))
}

// Parents returns the parents in registration order
func (n *Node[T]) Parents() []*Node[T] {
	return slices.Clone(n.parents)
}

// Children returns the children in registration order
func (n *Node[T]) Children() []*Node[T] {
	return slices.Clone(n.children)
}

// SetLocalValue stores v. LocalValueChanged is emitted if v differs from
// the previous local value; when the derived value changes as a result,
// ValueChanged is raised here and cascaded to every descendant.
func (n *Node[T]) SetLocalValue(v T) {
	oldLocal := n.local
	oldValue := n.Value()

	n.local = v

	if n.compare(oldLocal, v) != 0 {
		n.notify(LocalValueChanged, v)
	}
	if n.compare(oldValue, n.Value()) != 0 {
		n.raiseValueChanged()
	}
}

// AddChildren registers each non-nil child and makes this node one of
// its parents. An edge that already exists, whichever side added it, is
// skipped without error or notification. The
// first edge that would close a cycle stops the call with a graph cycle
// error; edges added before it are kept.
func (n *Node[T]) AddChildren(children ...*Node[T]) (*Node[T], error) {
	for _, c := range children {
		if c == nil {
			continue
		}
		if err := n.addChild(c); err != nil {
			return n, err
		}
	}
	return n, nil
}

// AddParents registers each non-nil parent and makes this node one of
// its children. A parent that is already registered, through AddParents
// or the parent's AddChildren, is skipped. Otherwise semantics mirror
// AddChildren.
func (n *Node[T]) AddParents(parents ...*Node[T]) (*Node[T], error) {
	for _, p := range parents {
		if p == nil {
			continue
		}
		if err := n.addParentItem(p, true); err != nil {
			return n, err
		}
	}
	return n, nil
}

// AddParent registers a single parent. An existing edge is a no-op.
func (n *Node[T]) AddParent(parent *Node[T]) error {
	if parent == nil {
		return nil
	}
	return n.addParentItem(parent, true)
}

// MustAddChildren is AddChildren that panics on error
func (n *Node[T]) MustAddChildren(children ...*Node[T]) *Node[T] {
	if _, err := n.AddChildren(children...); err != nil {
		panic(err)
	}
	return n
}

// MustAddParents is AddParents that panics on error
func (n *Node[T]) MustAddParents(parents ...*Node[T]) *Node[T] {
	if _, err := n.AddParents(parents...); err != nil {
		panic(err)
	}
	return n
}

func (n *Node[T]) addChild(c *Node[T]) error {
	if slices.Contains(n.children, c) {
		return nil
	}
	if err := checkEdge(n, c, false); err != nil {
		return err
	}
	n.children = append(n.children, c)
	return c.addParentItem(n, false)
}

// addParentItem wires parent above n. When addChild is false the caller
// has already put n into parent's child list.
func (n *Node[T]) addParentItem(parent *Node[T], addChild bool) error {
	if slices.Contains(n.parents, parent) {
		return nil
	}
	if err := checkEdge(parent, n, true); err != nil {
		return err
	}
	if addChild {
		parent.children = append(parent.children, n)
	}

	// Re-raise whenever the parent's new value would beat the local one.
	parent.events.On(PropertyValue, func(_ string, value T, _ *Node[T]) {
		if n.ShouldTakeParentValue(value, n.local) {
			n.raiseValueChanged()
		}
	})

	oldValue := n.Value()
	n.parents = append(n.parents, parent)
	n.log.Debug("parent attached",
		zap.String("parent", parent.name),
		zap.Int("parents", len(n.parents)))

	if n.ShouldTakeParentValue(parent.Value(), oldValue) {
		n.raiseValueChanged()
	}
	return nil
}

// raiseValueChanged notifies the derived value and repeats on every
// child, depth first.
func (n *Node[T]) raiseValueChanged() {
	n.notify(ValueChanged, n.Value())
	for _, c := range slices.Clone(n.children) {
		c.raiseValueChanged()
	}
}

func (n *Node[T]) debug(msg string, kind ChangeKind, value T) {
	if !n.log.Core().Enabled(zapcore.DebugLevel) {
		return
	}
	n.log.Debug(msg, zap.Stringer("kind", kind), zap.Any("value", value))
}
