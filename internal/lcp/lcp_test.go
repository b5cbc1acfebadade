package lcp

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gleb-kov/wordpiece/internal/suffixarray"
	"github.com/gleb-kov/wordpiece/internal/workerpool"
)

// naiveSuffixArray and naiveLCP are brute-force references independent of
// the suffixarray package, so this test doesn't assume that package is
// correct too.
func naiveSuffixArray(s []int32) []int32 {
	n := len(s)
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

func naiveLCP(s []int32, sa []int32) []int32 {
	n := len(sa)
	out := make([]int32, n-1)
	for k := 0; k+1 < n; k++ {
		i, j := int(sa[k]), int(sa[k+1])
		var l int32
		for i+int(l) < len(s) && j+int(l) < len(s) && s[i+int(l)] == s[j+int(l)] {
			l++
		}
		out[k] = l
	}
	return out
}

func invert(sa []int32) []int32 {
	out := make([]int32, len(sa))
	for i, p := range sa {
		out[p] = int32(i)
	}
	return out
}

func TestCompute_MatchesNaiveLCP(t *testing.T) {
	cases := [][]int32{
		{1, 1, 1, 1},
		{3, 1, 2, 1, 3},
		{2, 2, 2, 1, 2, 2, 2, 1},
		{4, 3, 5, 1, 4, 3, 5, 1, 2, 1, 6, 7, 1},
	}
	for _, s := range cases {
		sa := naiveSuffixArray(s)
		saIndex := invert(sa)
		want := naiveLCP(s, sa)
		got := Compute(s, sa, saIndex, nil)
		assert.Equal(t, want, got, "input=%v", s)
	}
}

func TestCompute_EmptyInput(t *testing.T) {
	got := Compute(nil, nil, nil, nil)
	assert.Empty(t, got)
}

func TestCompute_ParallelMatchesSerial(t *testing.T) {
	n := 2_500_000
	s := make([]int32, n)
	for i := range s {
		s[i] = int32(2 + i%5)
	}
	s[n-1] = 1

	padded := append(append([]int32{}, s...), 0, 0, 0)
	sa, err := suffixarray.Build(padded, n, 6)
	require.NoError(t, err)
	saIndex := invert(sa)

	serial := Compute(s, sa, saIndex, nil)
	parallel := Compute(s, sa, saIndex, workerpool.New(4))
	require.Equal(t, len(serial), len(parallel))
	assert.Equal(t, serial, parallel)
}
