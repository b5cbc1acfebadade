package wordpiece

import "github.com/gleb-kov/wordpiece/types"

// Polynomial rolling-hash constants for the hash-addressed segment index
// used by the fast encoder.
const (
	hashP uint64 = 726328703
	hashM uint64 = 2032191299
)

// segment is a read-only view over a code-point slice plus its rolling
// hash, used as a map key with content-wise equality on hash collision.
type segment struct {
	data types.CodePoints
	hash uint64
}

func newSegment(data types.CodePoints) segment {
	var h uint64
	for _, cp := range data {
		h = (h*hashP + uint64(cp)) % hashM
	}
	return segment{data: data, hash: h}
}

func (s segment) equal(other segment) bool {
	if s.hash != other.hash || len(s.data) != len(other.data) {
		return false
	}
	for i := range s.data {
		if s.data[i] != other.data[i] {
			return false
		}
	}
	return true
}

// segmentKey is the comparable form of segment suitable as a Go map key: a
// hash plus the string-encoded content, so two different-content segments
// that collide on hash never compare equal.
type segmentKey struct {
	hash    uint64
	content string
}

func (s segment) key() segmentKey {
	return segmentKey{hash: s.hash, content: codePointsToKey(s.data)}
}

func codePointsToKey(cps types.CodePoints) string {
	buf := make([]byte, len(cps)*4)
	for i, cp := range cps {
		buf[i*4] = byte(cp)
		buf[i*4+1] = byte(cp >> 8)
		buf[i*4+2] = byte(cp >> 16)
		buf[i*4+3] = byte(cp >> 24)
	}
	return string(buf)
}

// segmentBuilder is a shrinking view over a code-point slice that supports
// O(1) PopBack by precomputing the full forward prefix-hash array once at
// construction: hash[i+1] = hash[i]*P + w[i] (mod M). PopBack then only
// needs to shorten the view and read the precomputed hash at the new
// length — no modular inverse of P is required.
type segmentBuilder struct {
	data       types.CodePoints
	prefixHash []uint64
	length     int
}

func newSegmentBuilder(data types.CodePoints) *segmentBuilder {
	prefixHash := make([]uint64, len(data)+1)
	for i, cp := range data {
		prefixHash[i+1] = (prefixHash[i]*hashP + uint64(cp)) % hashM
	}
	return &segmentBuilder{data: data, prefixHash: prefixHash, length: len(data)}
}

func (b *segmentBuilder) empty() bool {
	return b.length == 0
}

func (b *segmentBuilder) size() int {
	return b.length
}

func (b *segmentBuilder) popBack() {
	if b.length > 0 {
		b.length--
	}
}

// current returns the segment the builder currently represents.
func (b *segmentBuilder) current() segment {
	return segment{data: b.data[:b.length], hash: b.prefixHash[b.length]}
}

// wordMap maps segments (by content, collision-safe) to vocabulary token
// ids, mirroring the two std::unordered_map<VectorSegment, int> tables the
// fast encoder builds for prefix and suffix vocabulary entries.
type wordMap map[segmentKey]types.Token

func buildWordMaps(vocab *Vocabulary) (prefixToID, suffixToID wordMap, maxLen int) {
	prefixToID = make(wordMap)
	suffixToID = make(wordMap)
	for _, entry := range vocab.Entries {
		if entry.IsSpecial || entry.IsMalformed {
			continue
		}
		if len(entry.Word) > maxLen {
			maxLen = len(entry.Word)
		}
		seg := newSegment(entry.Word)
		if entry.IsPrefix {
			prefixToID[seg.key()] = entry.ID
		} else {
			suffixToID[seg.key()] = entry.ID
		}
	}
	return prefixToID, suffixToID, maxLen
}
