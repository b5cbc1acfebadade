// Package lcp computes longest-common-prefix arrays from a string and its
// suffix array using Kasai's algorithm, parallelized by strip the same way
// the fast and linear encoders split their own work.
package lcp

import (
	"github.com/gleb-kov/wordpiece/internal/workerpool"
)

// workBatch mirrors the teacher algorithm's strip size: below twice this
// total length the computation runs on the calling goroutine.
const workBatch = 1_000_000

// Compute returns lcp, where lcp[suffixArrayIndex[i]] is the length of the
// longest common prefix between the suffix starting at s-position i and the
// suffix immediately following it in suffix-array order. suffixArrayIndex is
// the inverse permutation of sa (suffixArrayIndex[sa[k]] == k). The result
// has length len(sa)-1.
func Compute(s []int32, sa []int32, suffixArrayIndex []int32, pool *workerpool.Pool) []int32 {
	total := len(suffixArrayIndex)
	if total == 0 {
		return nil
	}
	out := make([]int32, total-1)

	if total < 2*workBatch || pool == nil {
		computeStrip(s, sa, suffixArrayIndex, out, 0, total)
		return out
	}

	threadCount := pool.Size()
	if total/workBatch < threadCount {
		threadCount = total / workBatch
	}
	if threadCount < 1 {
		threadCount = 1
	}
	workSize := total/threadCount + 1
	start := 0
	for start < total {
		end := start + workSize
		if end > total {
			end = total
		}
		begin, stop := start, end
		pool.Submit(func() {
			computeStrip(s, sa, suffixArrayIndex, out, begin, stop)
		})
		start = end
	}
	pool.Wait()
	return out
}

// computeStrip fills out[suffixArrayIndex[i]] for i in [begin, end). Each
// strip starts its own prefixLen accumulator at zero, which can cost up to
// the carried-over prefix length in redundant comparisons at the strip
// boundary but keeps strips independent.
func computeStrip(s, sa, suffixArrayIndex, out []int32, begin, end int) {
	prefixLen := 0
	n := len(suffixArrayIndex)
	for i := begin; i < end; i++ {
		saIndex := int(suffixArrayIndex[i])
		if saIndex+1 == n {
			continue
		}
		sufIndex := int(sa[saIndex+1])
		hi := i
		if sufIndex > hi {
			hi = sufIndex
		}
		for hi+prefixLen < n && s[i+prefixLen] == s[sufIndex+prefixLen] {
			prefixLen++
		}
		out[saIndex] = int32(prefixLen)
		if prefixLen > 0 {
			prefixLen--
		}
	}
}
