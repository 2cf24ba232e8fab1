package routed

import "github.com/shopspring/decimal"

// NewNumber creates a numeric node with local value 0 and natural ordering.
func NewNumber(opts ...Option) *Node[float64] {
	return New[float64](opts...)
}

// NewDecimal creates an exact-decimal node with local value 0,
// ordered by decimal.Decimal.Cmp.
func NewDecimal(opts ...Option) *Node[decimal.Decimal] {
	n := NewFunc(CompareDecimal, opts...)
	n.local = decimal.Zero
	return n
}

// CompareDecimal orders decimals numerically, so 1.50 and 1.5 are equal.
func CompareDecimal(a, b decimal.Decimal) int {
	return a.Cmp(b)
}
