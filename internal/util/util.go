// Package util holds small generic helpers shared across TunaCalc packages.
package util

import "sort"

// SortBy returns a copy of items sorted stably by the given less function.
// The original slice is not modified.
func SortBy[E any](items []E, less func(left, right E) bool) []E {
	sorted := make([]E, len(items))
	copy(sorted, items)

	sort.SliceStable(sorted, func(i, j int) bool {
		return less(sorted[i], sorted[j])
	})

	return sorted
}
