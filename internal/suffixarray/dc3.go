// Package suffixarray builds suffix arrays over small-alphabet integer
// strings using the DC3 (skew) algorithm of Kärkkäinen and Sanders,
// "Simple Linear Work Suffix Array Construction" (2003).
package suffixarray

import "fmt"

// maxLength bounds the input this construction accepts; callers use int32
// offsets internally, so anything near 2^31 risks overflow in the merge
// step's position arithmetic.
const maxLength = 2_000_000_000

// Build returns the suffix array of s, a 0-based string over symbols in
// [0, alphabetSize]. s must be padded with three trailing zero sentinels
// beyond its logical length n (s[n] == s[n+1] == s[n+2] == 0), and must not
// itself contain a zero symbol before position n — the caller's encoding
// (text and vocabulary words concatenated with Separator, per the linear
// encoder) already guarantees this.
func Build(s []int32, n int, alphabetSize int32) ([]int32, error) {
	if n > maxLength {
		return nil, fmt.Errorf("suffixarray: input length %d exceeds limit: %w", n, errTooLarge)
	}
	if n < 2 {
		// suffixArray needs n >= 2; a string of length 0 or 1 is its own
		// suffix array.
		return make([]int32, n), nil
	}
	sa := make([]int32, n+3)
	suffixArray(s, sa, n, alphabetSize)
	return sa[:n], nil
}

var errTooLarge = fmt.Errorf("input too large")

func leq2(a1, a2, b1, b2 int32) bool {
	return a1 < b1 || (a1 == b1 && a2 <= b2)
}

func leq3(a1, a2, a3, b1, b2, b3 int32) bool {
	return a1 < b1 || (a1 == b1 && leq2(a2, a3, b2, b3))
}

// radixPass stably sorts a[0:n] into b[0:n] by key r[a[i]], for keys in
// [0, alphabetSize].
func radixPass(a, b, r []int32, n int, alphabetSize int32) {
	count := make([]int32, alphabetSize+2)
	for i := 0; i < n; i++ {
		count[r[a[i]]+1]++
	}
	for i := 1; i < len(count); i++ {
		count[i] += count[i-1]
	}
	for i := 0; i < n; i++ {
		k := r[a[i]]
		b[count[k]] = a[i]
		count[k]++
	}
}

// suffixArray computes the suffix array of s[0:n] into SA[0:n]. s must
// have three trailing zero sentinels at s[n], s[n+1], s[n+2], and n must be
// at least 2.
func suffixArray(s, sa []int32, n int, alphabetSize int32) {
	n0 := int32((n + 2) / 3)
	n1 := int32((n + 1) / 3)
	n2 := n / 3
	n02 := int(n0) + n2

	s12 := make([]int32, n02+3)
	sa12 := make([]int32, n02+3)
	s0 := make([]int32, n0)
	sa0 := make([]int32, n0)

	// Positions of the mod-1 and mod-2 suffixes. A dummy mod-1 position is
	// appended when n % 3 == 1 so the recursion always sees a full triple.
	j := 0
	for i := 0; i < n+int(n0-n1); i++ {
		if i%3 != 0 {
			s12[j] = int32(i)
			j++
		}
	}

	radixPass(s12, sa12, s[2:], n02, alphabetSize)
	radixPass(sa12, s12, s[1:], n02, alphabetSize)
	radixPass(s12, sa12, s, n02, alphabetSize)

	name := int32(0)
	var c0, c1, c2 int32 = -1, -1, -1
	for i := 0; i < n02; i++ {
		p := sa12[i]
		if s[p] != c0 || s[p+1] != c1 || s[p+2] != c2 {
			name++
			c0, c1, c2 = s[p], s[p+1], s[p+2]
		}
		half := int32(0)
		if sa12[i]%3 == 1 {
			half = 0
		} else {
			half = n0
		}
		s12[sa12[i]/3+half] = name
	}

	if int(name) < n02 {
		suffixArray(s12, sa12, n02, name)
		for i := 0; i < n02; i++ {
			s12[sa12[i]] = int32(i + 1)
		}
	} else {
		for i := 0; i < n02; i++ {
			sa12[s12[i]-1] = int32(i)
		}
	}

	j = 0
	for i := 0; i < n02; i++ {
		if sa12[i] < n0 {
			s0[j] = 3 * sa12[i]
			j++
		}
	}
	radixPass(s0, sa0, s, int(n0), alphabetSize)

	getI := func(t int) int32 {
		if sa12[t] < n0 {
			return sa12[t]*3 + 1
		}
		return (sa12[t]-n0)*3 + 2
	}

	p := 0
	t := int(n0 - n1)
	for k := 0; k < n; k++ {
		i := getI(t)
		jj := sa0[p]
		var sa12FromSmaller bool
		if sa12[t] < n0 {
			sa12FromSmaller = leq2(s[i], s12[sa12[t]+n0], s[jj], s12[jj/3])
		} else {
			sa12FromSmaller = leq3(s[i], s[i+1], s12[sa12[t]-n0+1], s[jj], s[jj+1], s12[jj/3+n0])
		}
		if sa12FromSmaller {
			sa[k] = i
			t++
			if t == n02 {
				k++
				for ; p < int(n0); p, k = p+1, k+1 {
					sa[k] = sa0[p]
				}
				break
			}
		} else {
			sa[k] = jj
			p++
			if p == int(n0) {
				k++
				for ; t < n02; t, k = t+1, k+1 {
					sa[k] = getI(t)
				}
				break
			}
		}
	}
}
