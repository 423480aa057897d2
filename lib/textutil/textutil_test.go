package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	require.Equal(t, "veggieburger", NormalizeName("  Veggie Burger\n"))
	require.True(t, MatchName("Veggie Burger", []string{"burger"}))
	require.False(t, MatchName("Veggie Burger", []string{"pizza"}))
}

func TestContainsFold(t *testing.T) {
	require.True(t, ContainsFold("Cheese PIZZA", "pizza"))
	require.True(t, ContainsFold("Cheese Pizza", "CHEESE p"))
	require.False(t, ContainsFold("Cheese Pizza", "burger"))
}

func TestSortBySimilarity(t *testing.T) {
	names := []string{"Pepperoni Pizza", "Pizza", "Pita Chips", "Cheese Pizza"}
	SortBySimilarity(names, "pizza", func(s string) string { return s })
	require.Equal(t, "Pizza", names[0])
	require.Len(t, names, 4)

	require.InDelta(t, 1.0, Similarity("Pizza", "pizza"), 0.0001)
	require.Less(t, Similarity("Pita Chips", "pizza"), Similarity("Pizza", "pizza"))
}
