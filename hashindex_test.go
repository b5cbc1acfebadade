package wordpiece

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gleb-kov/wordpiece/types"
)

func cps(s string) types.CodePoints {
	out := make(types.CodePoints, len(s))
	for i, r := range []rune(s) {
		out[i] = types.CodePoint(r)
	}
	return out
}

func TestSegment_EqualityIsContentWise(t *testing.T) {
	a := newSegment(cps("hello"))
	b := newSegment(cps("hello"))
	c := newSegment(cps("world"))
	assert.True(t, a.equal(b))
	assert.False(t, a.equal(c))
}

func TestSegment_DifferentLengthNeverEqual(t *testing.T) {
	a := newSegment(cps("ab"))
	b := newSegment(cps("abc"))
	assert.False(t, a.equal(b))
}

func TestSegmentKey_DistinguishesHashCollisions(t *testing.T) {
	// Two distinct contents that happen to collide on hash must still
	// produce distinct map keys, since segmentKey carries the content too.
	a := segment{data: cps("xy"), hash: 42}
	b := segment{data: cps("zz"), hash: 42}
	assert.NotEqual(t, a.key(), b.key())
}

func TestSegmentBuilder_PopBackShrinksFromTheRight(t *testing.T) {
	b := newSegmentBuilder(cps("abcdef"))
	assert.Equal(t, 6, b.size())
	assert.Equal(t, "abcdef", string(runesOf(b.current().data)))

	b.popBack()
	assert.Equal(t, 5, b.size())
	assert.Equal(t, "abcde", string(runesOf(b.current().data)))

	for !b.empty() {
		b.popBack()
	}
	assert.True(t, b.empty())
}

func TestSegmentBuilder_HashMatchesDirectSegmentHash(t *testing.T) {
	word := cps("tokenization")
	b := newSegmentBuilder(word)
	for b.size() > 0 {
		direct := newSegment(word[:b.size()])
		assert.Equal(t, direct.hash, b.current().hash, "length=%d", b.size())
		b.popBack()
	}
}

func TestBuildWordMaps_SkipsSpecialAndMalformed(t *testing.T) {
	v, _, err := BuildVocabulary([]string{"[UNK]", "ok", "##ok", ".."})
	require.NoError(t, err)

	prefixToID, suffixToID, maxLen := buildWordMaps(v)
	assert.Len(t, prefixToID, 1)
	assert.Len(t, suffixToID, 1)
	assert.Equal(t, 2, maxLen)

	id, ok := prefixToID[newSegment(cps("ok")).key()]
	assert.True(t, ok)
	assert.EqualValues(t, 1, id)
}
