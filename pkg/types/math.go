package types

import "golang.org/x/exp/constraints"

// AtLeast returns v, or lo if v is smaller.
func AtLeast[T constraints.Ordered](v, lo T) T {
	if v < lo {
		return lo
	}
	return v
}

