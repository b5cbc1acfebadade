package wordpiece

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gleb-kov/wordpiece/types"
)

func TestBuildVocabulary_AssignsIDsByPosition(t *testing.T) {
	v, warnings, err := BuildVocabulary([]string{"aaa", "##bb", "[CLS]"})
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, v.Entries, 3)
	assert.EqualValues(t, 0, v.Entries[0].ID)
	assert.EqualValues(t, 1, v.Entries[1].ID)
	assert.EqualValues(t, 2, v.Entries[2].ID)
}

func TestBuildVocabulary_SuffixClassificationStripsHashes(t *testing.T) {
	v, _, err := BuildVocabulary([]string{"##made"})
	require.NoError(t, err)
	entry := v.Entries[0]
	assert.False(t, entry.IsPrefix)
	assert.False(t, entry.IsSpecial)
	assert.False(t, entry.IsMalformed)
	assert.Equal(t, "made", codePointsToString(entry.Word))
}

func TestBuildVocabulary_SpecialClassification(t *testing.T) {
	for _, word := range []string{"[UNK]", "[CLS]", "[SEP]", "[PAD]"} {
		v, _, err := BuildVocabulary([]string{word})
		require.NoError(t, err)
		assert.True(t, v.Entries[0].IsSpecial, "word=%q", word)
		assert.False(t, v.Entries[0].IsMalformed, "word=%q", word)
	}
}

func TestBuildVocabulary_SpecialRequiresLengthOverTwo(t *testing.T) {
	// "[]" has length 2, so it fails the is_special predicate and falls
	// through to the malformed check: both characters are punctuation, and
	// length > 1, so it is malformed rather than special.
	v, _, err := BuildVocabulary([]string{"[]"})
	require.NoError(t, err)
	assert.False(t, v.Entries[0].IsSpecial)
	assert.True(t, v.Entries[0].IsMalformed)
}

func TestBuildVocabulary_MalformedAllPunctuationOrSpace(t *testing.T) {
	v, warnings, err := BuildVocabulary([]string{"..", "ok"})
	require.NoError(t, err)
	assert.True(t, v.Entries[0].IsMalformed)
	assert.False(t, v.Entries[1].IsMalformed)
	require.Len(t, warnings, 1)
}

func TestBuildVocabulary_SingleCharPunctuationIsNotMalformed(t *testing.T) {
	// Length-1 "all spacing" entries are explicitly excluded from the
	// malformed rule (length > 1 is required).
	v, _, err := BuildVocabulary([]string{"-", "."})
	require.NoError(t, err)
	assert.False(t, v.Entries[0].IsMalformed)
	assert.False(t, v.Entries[1].IsMalformed)
}

func TestBuildVocabulary_EmptyEntryFails(t *testing.T) {
	_, _, err := BuildVocabulary([]string{"ok", ""})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidVocabulary)
}

func TestBuildVocabulary_DuplicateNonMalformedNonSpecialRejected(t *testing.T) {
	_, _, err := BuildVocabulary([]string{"abc", "abc"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidVocabulary)
}

func TestBuildVocabulary_DuplicatePrefixAndSuffixAreDistinct(t *testing.T) {
	// "abc" (prefix) and "##abc" (suffix) share a word but differ in
	// is_prefix, so they are not a duplicate pair.
	v, _, err := BuildVocabulary([]string{"abc", "##abc"})
	require.NoError(t, err)
	require.Len(t, v.Entries, 2)
}

func TestBuildVocabulary_DuplicateMalformedEntriesAllowed(t *testing.T) {
	v, _, err := BuildVocabulary([]string{"..", ".."})
	require.NoError(t, err)
	require.Len(t, v.Entries, 2)
	assert.True(t, v.Entries[0].IsMalformed)
	assert.True(t, v.Entries[1].IsMalformed)
}

func TestBuildVocabulary_UnkTokenIDDefaultsToNegativeOne(t *testing.T) {
	v, _, err := BuildVocabulary([]string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, types.UnknownTokenID, v.UnkTokenID)
}

func TestBuildVocabulary_UnkTokenIDTracksLiteralEntry(t *testing.T) {
	v, _, err := BuildVocabulary([]string{"a", "[UNK]", "b"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, v.UnkTokenID)
}

func TestBuildVocabulary_InvalidUTF8WarnsButDoesNotFail(t *testing.T) {
	v, warnings, err := BuildVocabulary([]string{string([]byte{0xff, 0xfe})})
	require.NoError(t, err)
	require.NotEmpty(t, warnings)
	assert.True(t, v.Entries[0].IsMalformed)
}

func TestLoadVocabularyFile_IdempotentAcrossReads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vocab.txt")
	contents := "[UNK]\nthe\n##s\n[CLS]\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	v1, _, err := LoadVocabularyFile(path)
	require.NoError(t, err)
	v2, _, err := LoadVocabularyFile(path)
	require.NoError(t, err)
	assert.Equal(t, v1, v2)
}

func TestLoadVocabularyFile_MissingFile(t *testing.T) {
	_, _, err := LoadVocabularyFile(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIoFailure)
}

func TestLoadVocabularyFile_OneEntryPerLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vocab.txt")
	lines := []string{"alpha", "##beta", "[SEP]", "-"}
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))

	v, _, err := LoadVocabularyFile(path)
	require.NoError(t, err)
	require.Len(t, v.Entries, len(lines))
	assert.True(t, v.Entries[0].IsPrefix)
	assert.False(t, v.Entries[1].IsPrefix)
	assert.True(t, v.Entries[2].IsSpecial)
}
