package wordpiece

import (
	"bufio"
	"fmt"
	"os"

	"github.com/gleb-kov/wordpiece/types"
)

const unkTokenLiteral = "[UNK]"

// VocabEntry is one classified vocabulary token.
type VocabEntry struct {
	Word types.CodePoints
	// IsPrefix is true for ordinary word-start tokens and false for
	// "##"-continuation tokens; meaningless when IsSpecial or IsMalformed.
	IsPrefix    bool
	IsSpecial   bool
	IsMalformed bool
	ID          types.Token
}

// Vocabulary is a classified, ordered vocabulary plus the id reserved for
// unknown tokens.
type Vocabulary struct {
	Entries    []VocabEntry
	UnkTokenID types.Token
}

// classify builds a VocabEntry from one decoded vocabulary line, following
// the rules in the data model: a leading "##" marks a suffix (continuation)
// token and is stripped from Word; a "[...]" (length > 2) entry is special;
// an entry containing an undecodable code point, or consisting entirely of
// spacing characters with length > 1, is malformed.
func classify(word types.CodePoints, id types.Token) (VocabEntry, error) {
	if len(word) == 0 {
		return VocabEntry{}, fmt.Errorf("vocab entry %d is empty: %w", id, ErrInvalidVocabulary)
	}

	entry := VocabEntry{IsPrefix: true, ID: id}

	if isSuffixVocab(word) {
		entry.IsPrefix = false
		entry.Word = append(types.CodePoints(nil), word[2:]...)
	} else if isSpecialToken(word) {
		entry.IsSpecial = true
		entry.Word = append(types.CodePoints(nil), word...)
	} else {
		entry.Word = append(types.CodePoints(nil), word...)
	}

	allSpacing := true
	for _, cp := range entry.Word {
		if cp == types.InvalidCodePoint {
			entry.IsMalformed = true
		}
		if !isPunctuation(cp) && !isSpace(cp) {
			allSpacing = false
		}
	}
	if entry.IsMalformed || (allSpacing && len(entry.Word) > 1) {
		entry.IsMalformed = true
	}

	return entry, nil
}

func isSuffixVocab(word types.CodePoints) bool {
	return len(word) >= 2 && word[0] == '#' && word[1] == '#'
}

func isSpecialToken(word types.CodePoints) bool {
	return len(word) > 2 && word[0] == '[' && word[len(word)-1] == ']'
}

// BuildVocabulary classifies each word in order, assigning ids by position.
// It returns the warning lines produced for malformed entries alongside the
// vocabulary, so callers can fold them into a single diagnostic line rather
// than logging per-entry.
func BuildVocabulary(words []string) (*Vocabulary, []string, error) {
	vocab := &Vocabulary{
		Entries:    make([]VocabEntry, 0, len(words)),
		UnkTokenID: types.UnknownTokenID,
	}
	var warnings []string
	seen := make(map[string]bool, len(words))

	for i, word := range words {
		if word == unkTokenLiteral {
			vocab.UnkTokenID = types.Token(i)
		}
		// Unlike text decoding, an undecodable byte is kept as
		// InvalidCodePoint so classify can flag the entry as malformed.
		raw := []byte(word)
		decoded := make(types.CodePoints, 0, len(raw))
		invalid := false
		for j := 0; j < len(raw); {
			cp, n := decodeOne(raw[j:])
			invalid = invalid || cp == types.InvalidCodePoint
			decoded = append(decoded, cp)
			j += n
		}
		if invalid {
			warnings = append(warnings, fmt.Sprintf("vocab word %q contains invalid UTF-8", word))
		}
		entry, err := classify(decoded, types.Token(i))
		if err != nil {
			return nil, warnings, err
		}
		if entry.IsMalformed {
			warnings = append(warnings, fmt.Sprintf("vocab word is malformed: %q", word))
		}
		if !entry.IsMalformed && !entry.IsSpecial {
			key := fmt.Sprintf("%v|%v", entry.Word, entry.IsPrefix)
			if seen[key] {
				return nil, warnings, fmt.Errorf(
					"duplicate vocab entry %q (prefix=%v): %w", word, entry.IsPrefix, ErrInvalidVocabulary)
			}
			seen[key] = true
		}
		vocab.Entries = append(vocab.Entries, entry)
	}
	return vocab, warnings, nil
}

// LoadVocabularyFile reads one vocabulary word per line, in the LF-separated
// format used throughout this package's CLI tools.
func LoadVocabularyFile(path string) (*Vocabulary, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening vocab file %q: %w", path, joinErr(ErrIoFailure, err))
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		words = append(words, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("reading vocab file %q: %w", path, joinErr(ErrIoFailure, err))
	}
	return BuildVocabulary(words)
}

func joinErr(sentinel, cause error) error {
	return fmt.Errorf("%w: %v", sentinel, cause)
}
