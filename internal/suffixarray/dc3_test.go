package suffixarray

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// naiveSuffixArray sorts suffix start positions directly, as a reference
// for Build to be checked against on small inputs.
func naiveSuffixArray(s []int32, n int) []int32 {
	sa := make([]int32, n)
	for i := range sa {
		sa[i] = int32(i)
	}
	sort.Slice(sa, func(a, b int) bool {
		i, j := int(sa[a]), int(sa[b])
		for i < n && j < n {
			if s[i] != s[j] {
				return s[i] < s[j]
			}
			i++
			j++
		}
		return i == n && j < n
	})
	return sa
}

func padded(vals []int32) []int32 {
	return append(append([]int32{}, vals...), 0, 0, 0)
}

func alphabetSizeOf(vals []int32) int32 {
	var max int32 = 1
	for _, v := range vals {
		if v > max {
			max = v
		}
	}
	return max
}

func TestBuild_MatchesNaiveSuffixArray(t *testing.T) {
	cases := [][]int32{
		{1, 1, 1, 1},
		{3, 1, 2, 1, 3},
		{5, 4, 3, 2, 1},
		{2, 2, 2, 1, 2, 2, 2, 1},
		{7, 7, 7, 7, 7, 7, 7},
		{1, 2, 3, 1, 2, 1, 4, 5, 1, 2, 3},
	}
	for _, s := range cases {
		n := len(s)
		sa, err := Build(padded(s), n, alphabetSizeOf(s))
		require.NoError(t, err)
		want := naiveSuffixArray(s, n)
		assert.Equal(t, want, sa, "input=%v", s)
	}
}

func TestBuild_ProducesAPermutation(t *testing.T) {
	s := []int32{4, 3, 5, 1, 4, 3, 5, 1, 2, 1, 6, 7, 1}
	n := len(s)
	sa, err := Build(padded(s), n, alphabetSizeOf(s))
	require.NoError(t, err)

	seen := make([]bool, n)
	for _, p := range sa {
		require.GreaterOrEqual(t, int(p), 0)
		require.Less(t, int(p), n)
		require.False(t, seen[p])
		seen[p] = true
	}
}

func TestBuild_SuffixesAreInLexicographicOrder(t *testing.T) {
	s := []int32{3, 1, 4, 1, 5, 9, 2, 6, 1, 5, 3, 5, 1}
	n := len(s)
	sa, err := Build(padded(s), n, alphabetSizeOf(s))
	require.NoError(t, err)

	lessOrEqual := func(i, j int) bool {
		for i < n && j < n {
			if s[i] != s[j] {
				return s[i] < s[j]
			}
			i++
			j++
		}
		return i == n
	}
	for k := 0; k+1 < len(sa); k++ {
		assert.True(t, lessOrEqual(int(sa[k]), int(sa[k+1])), "sa[%d]=%d sa[%d]=%d", k, sa[k], k+1, sa[k+1])
	}
}

func TestBuild_SingleSymbol(t *testing.T) {
	s := []int32{1}
	sa, err := Build(padded(s), 1, 1)
	require.NoError(t, err)
	assert.Equal(t, []int32{0}, sa)
}

func TestBuild_RejectsOversizedInput(t *testing.T) {
	_, err := Build(nil, maxLength+1, 1)
	assert.Error(t, err)
}
