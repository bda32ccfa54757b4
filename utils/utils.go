// Package utils implements generic helper functions.
package utils

import (
	"sort"

	"golang.org/x/exp/constraints"
)

// GetKeys returns the keys of the input map. Order is not guaranteed.
func GetKeys[K constraints.Ordered, V any](m map[K]V) (keys []K) {
	keys = make([]K, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	return
}

// GetSortedKeys returns the sorted keys of the input map.
func GetSortedKeys[K constraints.Ordered, V any](m map[K]V) (keys []K) {
	keys = GetKeys(m)
	SortSlice(keys)
	return
}

// SortSlice sorts a slice in place in increasing order.
func SortSlice[V constraints.Ordered](s []V) {
	sort.Slice(s, func(i, j int) bool {
		return s[i] < s[j]
	})
}

// EqualSlice returns true if the two input slices have the same length and
// identical values at every position.
func EqualSlice[V comparable](a, b []V) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// GetDistincts returns the list of distinct elements in v.
// Order is not guaranteed.
func GetDistincts[V comparable](v []V) (vd []V) {
	m := map[V]bool{}
	for _, vi := range v {
		m[vi] = true
	}
	vd = make([]V, 0, len(m))
	for mi := range m {
		vd = append(vd, mi)
	}
	return
}

// Min returns the smallest of the two inputs.
func Min[V constraints.Ordered](a, b V) V {
	if a < b {
		return a
	}
	return b
}
