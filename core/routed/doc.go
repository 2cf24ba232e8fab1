// Package routed implements routed values: observable value cells wired
// into a parent/child graph.
//
// Every Node holds a local value that is set directly. Its externally
// visible value is derived on each read by walking its parents in
// registration order and letting a parent's value override the running
// result whenever the node's Strategy says so:
//
//	Ascending   the larger value wins (maximum flows down the graph)
//	Descending  the smaller value wins (minimum flows down the graph)
//
// Ties never override. The derived value is never stored.
//
// # Propagation
//
// Setting a local value emits LocalValueChanged when the local value
// differs from the previous one. When the derived value differs as well,
// the node emits ValueChanged and then re-raises ValueChanged on every
// child, depth first in child registration order. The cascade below the
// changed node is unconditional: each descendant recomputes and notifies
// even when its own derived value stays the same.
//
// In addition each child listens to ValueChanged of its parents and
// re-raises its own ValueChanged when the parent's new value would win
// over the child's local value. Listeners therefore can observe the same
// value more than once for a single write.
//
// # Graph shape
//
// Edges are added, never removed. Adding an edge that already exists,
// from either side, is a no-op. An edge that would make a node its own
// ancestor is rejected with a graph cycle error (see IsGraphCycle) before
// anything is mutated, which keeps the synchronous cascade finite. The
// error message names the reason:
//
//   - "node cannot be its own parent" when both ends are the same node
//   - "child is already a parent" or "parent is already a child" when the
//     reverse edge exists, worded after the side that added it
//   - "child is already an ancestor" or "parent is already a descendant"
//     when the reverse path runs through other nodes
//
// The error carries the parent and child names as context.
//
// Nodes are not safe for concurrent use. All reads, writes and callbacks
// happen on the caller's goroutine.
package routed
