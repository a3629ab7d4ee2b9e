package sets

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSet_Basics(t *testing.T) {
	s := New("a", "b")
	require.True(t, s.Has("a"))
	require.False(t, s.Has("c"))

	s.Add("c")
	require.True(t, s.Has("c"))

	s.Delete("a")
	require.False(t, s.Has("a"))
}

func TestSet_CloneIsIndependent(t *testing.T) {
	s := New("a")
	c := s.Clone()
	c.Add("b")

	require.True(t, c.Has("b"))
	require.False(t, s.Has("b"))
}

func TestSet_Union(t *testing.T) {
	s := New("a").Union(New("b", "c"))
	require.Equal(t, New("a", "b", "c"), s)
}

func TestSortedStrings(t *testing.T) {
	require.Equal(t, []string{"a", "b", "c"}, SortedStrings(New("c", "a", "b")))
	require.Empty(t, SortedStrings(New[string]()))
}
