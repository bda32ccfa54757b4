package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeys(t *testing.T) {
	m := map[uint64]string{9: "c", 3: "a", 27: "d"}

	keys := GetKeys(m)
	require.ElementsMatch(t, []uint64{3, 9, 27}, keys)

	sorted := GetSortedKeys(m)
	require.Equal(t, []uint64{3, 9, 27}, sorted)
}

func TestSlices(t *testing.T) {
	s := []int{3, 1, 2}
	SortSlice(s)
	require.Equal(t, []int{1, 2, 3}, s)

	require.True(t, EqualSlice([]int{1, 2}, []int{1, 2}))
	require.False(t, EqualSlice([]int{1, 2}, []int{2, 1}))
	require.False(t, EqualSlice([]int{1}, []int{1, 2}))

	require.ElementsMatch(t, []int{1, 2, 3}, GetDistincts([]int{1, 2, 1, 3, 2}))

	require.Equal(t, 1, Min(1, 2))
	require.Equal(t, 1, Min(2, 1))
}
