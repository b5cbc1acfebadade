// Package wordpiece implements a WordPiece tokenizer with two equivalent
// encoders: a greedy hash-addressed encoder ("fast") and a suffix-array +
// LCP encoder ("linear") that is worst-case linear in the combined length
// of the text and the vocabulary regardless of how adversarial the
// vocabulary's prefix/suffix overlaps are.
package wordpiece

import (
	"fmt"
	"os"

	"github.com/gleb-kov/wordpiece/internal/workerpool"
	"github.com/gleb-kov/wordpiece/resources"
	"github.com/gleb-kov/wordpiece/types"
)

func parseTextBytes(data []byte, pool *workerpool.Pool) types.CodePoints {
	if len(data) == 0 {
		return nil
	}
	cps, invalid := DecodeUTF8(data, pool)
	if invalid {
		logDecodeWarning()
	}
	return cps
}

// EncodeFast tokenizes text using the greedy hash-addressed encoder, with
// vocab classified fresh for this call.
func EncodeFast(text []byte, vocab []string) (types.Tokens, error) {
	v, warnings, err := BuildVocabulary(vocab)
	if err != nil {
		return nil, err
	}
	logVocabWarnings(warnings)

	enc, err := NewFastEncoder(v, workerpool.Default())
	if err != nil {
		return nil, err
	}
	cps := parseTextBytes(text, workerpool.Default())
	return enc.EncodeCodePoints(cps), nil
}

// EncodeLinear tokenizes text using the suffix-array encoder.
func EncodeLinear(text []byte, vocab []string) (types.Tokens, error) {
	v, warnings, err := BuildVocabulary(vocab)
	if err != nil {
		return nil, err
	}
	logVocabWarnings(warnings)

	cps := parseTextBytes(text, workerpool.Default())
	enc := NewLinearEncoder(v, workerpool.Default())
	return enc.EncodeCodePoints(cps)
}

// EncodeFastFile memory-maps textPath and tokenizes its full contents
// against the vocabulary read from vocabPath.
func EncodeFastFile(textPath, vocabPath string) (types.Tokens, error) {
	v, warnings, err := LoadVocabularyFile(vocabPath)
	if err != nil {
		return nil, err
	}
	logVocabWarnings(warnings)

	data, closeFn, err := mapFile(textPath)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	enc, err := NewFastEncoder(v, workerpool.Default())
	if err != nil {
		return nil, err
	}
	cps := parseTextBytes(*data, workerpool.Default())
	return enc.EncodeCodePoints(cps), nil
}

// EncodeLinearFile memory-maps textPath and tokenizes its full contents
// against the vocabulary read from vocabPath.
func EncodeLinearFile(textPath, vocabPath string) (types.Tokens, error) {
	v, warnings, err := LoadVocabularyFile(vocabPath)
	if err != nil {
		return nil, err
	}
	logVocabWarnings(warnings)

	data, closeFn, err := mapFile(textPath)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	cps := parseTextBytes(*data, workerpool.Default())
	enc := NewLinearEncoder(v, workerpool.Default())
	return enc.EncodeCodePoints(cps)
}

// EncodeFastExternal streams textPath through the fast encoder in chunks
// bounded by memMB megabytes, so encoding a corpus far larger than memory
// still completes in bounded space. No chunk boundary splits a word.
func EncodeFastExternal(textPath, vocabPath, outPath string, memMB int) error {
	if err := validateMemMB(memMB); err != nil {
		return err
	}

	v, warnings, err := LoadVocabularyFile(vocabPath)
	if err != nil {
		return err
	}
	logVocabWarnings(warnings)

	enc, err := NewFastEncoder(v, workerpool.Default())
	if err != nil {
		return err
	}
	chunkSize := memMB * 1024 * 1024 / fastExternalDivisor
	return runExternal(textPath, outPath, chunkSize, func(chunk []byte) (types.Tokens, error) {
		cps := parseTextBytes(chunk, workerpool.Default())
		return enc.EncodeCodePoints(cps), nil
	})
}

// EncodeLinearExternal streams textPath through the linear encoder in
// chunks bounded by memMB megabytes. The chunk budget is a tenth of the
// fast encoder's because suffix-array construction peaks at roughly 10x
// its input size.
func EncodeLinearExternal(textPath, vocabPath, outPath string, memMB int) error {
	if err := validateMemMB(memMB); err != nil {
		return err
	}

	v, warnings, err := LoadVocabularyFile(vocabPath)
	if err != nil {
		return err
	}
	logVocabWarnings(warnings)

	enc := NewLinearEncoder(v, workerpool.Default())
	chunkSize := memMB * 1024 * 1024 / linearExternalDivisor
	return runExternal(textPath, outPath, chunkSize, func(chunk []byte) (types.Tokens, error) {
		cps := parseTextBytes(chunk, workerpool.Default())
		return enc.EncodeCodePoints(cps)
	})
}

// Decode maps token ids back to their vocabulary strings, reattaching the
// "##" continuation marker for suffix tokens. An id with no corresponding
// vocabulary entry, or a malformed entry, is skipped with a warning rather
// than failing the whole call.
func Decode(vocabPath string, ids types.Tokens) ([]string, error) {
	v, warnings, err := LoadVocabularyFile(vocabPath)
	if err != nil {
		return nil, err
	}
	logVocabWarnings(warnings)

	result := make([]string, 0, len(ids))
	for _, id := range ids {
		if id < 0 || int(id) >= len(v.Entries) {
			logUnknownTokenDuringDecode(id)
			continue
		}
		entry := v.Entries[id]
		if entry.IsMalformed {
			logUnknownTokenDuringDecode(id)
			continue
		}
		text := codePointsToString(entry.Word)
		if !entry.IsPrefix {
			text = "##" + text
		}
		result = append(result, text)
	}
	return result, nil
}

func codePointsToString(cps types.CodePoints) string {
	runes := make([]rune, len(cps))
	for i, cp := range cps {
		runes[i] = rune(cp)
	}
	return string(runes)
}

func mapFile(path string) (*[]byte, func(), error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening text file %q: %w", path, joinErr(ErrIoFailure, err))
	}
	data, err := resources.ReadMmap(file)
	if err != nil {
		file.Close()
		return nil, nil, fmt.Errorf("mapping text file %q: %w", path, joinErr(ErrIoFailure, err))
	}
	return data, func() {
		resources.Unmap(data)
		file.Close()
	}, nil
}
