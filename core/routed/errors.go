package routed

import (
	"slices"

	"routed-values/internal/errors"
)

// IsGraphCycle reports whether err was caused by an edge that would
// make a node both parent and child of another node.
func IsGraphCycle(err error) bool {
	return errors.IsType(err, errors.TypeGraphCycle)
}

// checkEdge validates the edge parent -> child before anything is
// mutated. fromChild selects the wording used when the edge is added
// from the child's side.
func checkEdge[T any](parent, child *Node[T], fromChild bool) error {
	var msg string
	switch {
	case parent == child:
		msg = "node cannot be its own parent"
	case fromChild && slices.Contains(child.children, parent):
		msg = "parent is already a child"
	case !fromChild && slices.Contains(parent.parents, child):
		msg = "child is already a parent"
	case isAncestor(child, parent):
		if fromChild {
			msg = "parent is already a descendant"
		} else {
			msg = "child is already an ancestor"
		}
	default:
		return nil
	}
	return errors.GraphCycle(msg).
		WithContext("parent", parent.name).
		WithContext("child", child.name)
}

// isAncestor reports whether candidate is reachable from n by walking
// parent edges.
func isAncestor[T any](candidate, n *Node[T]) bool {
	seen := make(map[*Node[T]]struct{})
	stack := slices.Clone(n.parents)
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if p == candidate {
			return true
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		stack = append(stack, p.parents...)
	}
	return false
}
