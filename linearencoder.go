package wordpiece

import (
	"fmt"

	"github.com/gleb-kov/wordpiece/internal/lcp"
	"github.com/gleb-kov/wordpiece/internal/suffixarray"
	"github.com/gleb-kov/wordpiece/internal/workerpool"
	"github.com/gleb-kov/wordpiece/types"
)

// linearWorkBatch is the strip size above which the linear encoder's
// sweeps and segmentation walk split across the pool.
const linearWorkBatch = 1_000_000

const noMatchedSuffix = int32(-1)

// LinearEncoder runs the suffix-array + LCP algorithm: worst-case linear in
// the combined length of the text and the vocabulary, regardless of how
// pathological the vocabulary's prefix/suffix overlaps are.
type LinearEncoder struct {
	vocab *Vocabulary
	pool  *workerpool.Pool
}

// NewLinearEncoder wraps vocab for repeated EncodeCodePoints calls. Unlike
// the fast encoder, nothing about the suffix array is reusable across
// calls — it depends on the specific text each time — so there is no
// index-building step here.
func NewLinearEncoder(vocab *Vocabulary, pool *workerpool.Pool) *LinearEncoder {
	return &LinearEncoder{vocab: vocab, pool: pool}
}

// EncodeCodePoints tokenizes already-decoded text.
func (e *LinearEncoder) EncodeCodePoints(text types.CodePoints) (types.Tokens, error) {
	if len(text) == 0 {
		return nil, nil
	}

	totalLength := len(text) + 1
	longestWordVocab := 1
	for _, entry := range e.vocab.Entries {
		totalLength += len(entry.Word) + 1
		if len(entry.Word) > longestWordVocab {
			longestWordVocab = len(entry.Word)
		}
	}

	s := make([]int32, totalLength+3)
	var alphabetSize int32 = 1
	pos := 0
	for _, cp := range text {
		s[pos] = int32(cp)
		if int32(cp) > alphabetSize {
			alphabetSize = int32(cp)
		}
		pos++
	}
	s[pos] = int32(types.Separator)
	pos++
	for _, entry := range e.vocab.Entries {
		for _, cp := range entry.Word {
			s[pos] = int32(cp)
			if int32(cp) > alphabetSize {
				alphabetSize = int32(cp)
			}
			pos++
		}
		s[pos] = int32(types.Separator)
		pos++
	}

	sa, err := suffixarray.Build(s, totalLength, alphabetSize)
	if err != nil {
		return nil, fmt.Errorf("building suffix array: %w", joinErr(ErrInputTooLarge, err))
	}

	sufArrayIndex := make([]int32, totalLength)
	for i, p := range sa {
		sufArrayIndex[p] = int32(i)
	}

	lcpArr := lcp.Compute(s[:totalLength], sa, sufArrayIndex, e.pool)

	who := make([]int32, totalLength)
	for i := range who {
		who[i] = noMatchedSuffix
	}
	vocabStartPos := len(text) + 1
	for i, entry := range e.vocab.Entries {
		who[sufArrayIndex[vocabStartPos]] = int32(i)
		vocabStartPos += len(entry.Word) + 1
	}

	var bestLeftPrefix, bestRightPrefix, bestLeftSuffix, bestRightSuffix []int32
	if totalLength < linearWorkBatch || e.pool == nil {
		bestLeftPrefix = e.getClosest(totalLength, lcpArr, who, longestWordVocab, false, true)
		bestRightPrefix = e.getClosest(totalLength, lcpArr, who, longestWordVocab, true, true)
		bestLeftSuffix = e.getClosest(totalLength, lcpArr, who, longestWordVocab, false, false)
		bestRightSuffix = e.getClosest(totalLength, lcpArr, who, longestWordVocab, true, false)
	} else {
		e.pool.Submit(func() {
			bestLeftPrefix = e.getClosest(totalLength, lcpArr, who, longestWordVocab, false, true)
		})
		e.pool.Submit(func() {
			bestRightPrefix = e.getClosest(totalLength, lcpArr, who, longestWordVocab, true, true)
		})
		e.pool.Submit(func() {
			bestLeftSuffix = e.getClosest(totalLength, lcpArr, who, longestWordVocab, false, false)
		})
		e.pool.Submit(func() {
			bestRightSuffix = e.getClosest(totalLength, lcpArr, who, longestWordVocab, true, false)
		})
		e.pool.Wait()
	}

	sweeps := linearSweeps{
		totalLength:     totalLength,
		sufArrayIndex:   sufArrayIndex,
		bestLeftPrefix:  bestLeftPrefix,
		bestRightPrefix: bestRightPrefix,
		bestLeftSuffix:  bestLeftSuffix,
		bestRightSuffix: bestRightSuffix,
	}

	if len(text) < 2*linearWorkBatch || e.pool == nil {
		return e.matchWordPiece(text, sweeps, 0, len(text)), nil
	}

	threadCount := e.pool.Size()
	if len(text)/linearWorkBatch < threadCount {
		threadCount = len(text) / linearWorkBatch
	}
	if threadCount < 1 {
		threadCount = 1
	}
	workSize := len(text)/threadCount + 1

	perStrip := make([]types.Tokens, threadCount)
	start := 0
	for stripIdx := 0; stripIdx < threadCount && start < len(text); stripIdx++ {
		end := start + workSize
		if end > len(text) {
			end = len(text)
		}
		for end < len(text) && !isSpace(text[end]) {
			end++
		}
		idx, begin, stop := stripIdx, start, end
		e.pool.Submit(func() {
			perStrip[idx] = e.matchWordPiece(text, sweeps, begin, stop)
		})
		start = end
	}
	e.pool.Wait()

	total := 0
	for _, strip := range perStrip {
		total += len(strip)
	}
	out := make(types.Tokens, 0, total)
	for _, strip := range perStrip {
		out = append(out, strip...)
	}
	return out, nil
}

type linearSweeps struct {
	totalLength     int
	sufArrayIndex   []int32
	bestLeftPrefix  []int32
	bestRightPrefix []int32
	bestLeftSuffix  []int32
	bestRightSuffix []int32
}

type stackEntry struct {
	id     int32
	length int32
}

// getClosest is the monotonic-stack sweep over suffix-array rank order
// (reversed when rightSide is set) that, for each position, finds the
// longest vocabulary word starting there whose classification matches
// isPrefixPredicate, among those sharing a long-enough common prefix with
// the current suffix.
func (e *LinearEncoder) getClosest(
	totalLength int, lcpArr, who []int32, longestWordVocab int, rightSide, isPrefixPredicate bool,
) []int32 {
	result := make([]int32, totalLength)
	for i := range result {
		result[i] = noMatchedSuffix
	}
	stack := make([]stackEntry, 0, longestWordVocab)

	for i := 0; i < totalLength; i++ {
		if i > 0 {
			idx := i - 1
			if rightSide {
				idx = totalLength - i - 1
			}
			for len(stack) > 0 && stack[len(stack)-1].length > lcpArr[idx] {
				stack = stack[:len(stack)-1]
			}
		}

		idx := i
		if rightSide {
			idx = totalLength - 1 - i
		}
		if who[idx] != noMatchedSuffix {
			entry := e.vocab.Entries[who[idx]]
			if entry.IsPrefix == isPrefixPredicate && !entry.IsMalformed && !entry.IsSpecial {
				stack = append(stack, stackEntry{id: who[idx], length: int32(len(entry.Word))})
			}
		}
		if len(stack) > 0 {
			result[i] = stack[len(stack)-1].id
		}
	}
	return result
}

// matchWordPiece walks text[begin:end], using the four sweeps to pick, at
// each position, the longer of the best left-anchored and right-anchored
// vocabulary match, with the same tokens-since-prefix rollback used by the
// fast encoder.
func (e *LinearEncoder) matchWordPiece(text types.CodePoints, sw linearSweeps, begin, end int) types.Tokens {
	vocabLength := sw.totalLength - len(text)
	tokenIDs := make(types.Tokens, 0, (end-begin)*len(e.vocab.Entries)/max(vocabLength, 1)+1)

	matchIndex := begin
	for matchIndex != end && isSpace(text[matchIndex]) {
		matchIndex++
	}

	tokensSincePrefix := 0

	for matchIndex < end {
		leftSaID := int(sw.sufArrayIndex[matchIndex])
		rightSaID := sw.totalLength - 1 - leftSaID
		prefix := isWordPrefix(text, matchIndex)

		var x, y int32
		if prefix {
			x, y = sw.bestLeftPrefix[leftSaID], sw.bestRightPrefix[rightSaID]
		} else {
			x, y = sw.bestLeftSuffix[leftSaID], sw.bestRightSuffix[rightSaID]
		}

		if x != noMatchedSuffix || y != noMatchedSuffix {
			var tokenID int32
			if x != noMatchedSuffix && y != noMatchedSuffix {
				if len(e.vocab.Entries[x].Word) > len(e.vocab.Entries[y].Word) {
					tokenID = x
				} else {
					tokenID = y
				}
			} else if x > y {
				tokenID = x
			} else {
				tokenID = y
			}
			tokensSincePrefix++
			tokenIDs = append(tokenIDs, types.Token(tokenID))
			matchIndex += len(e.vocab.Entries[tokenID].Word)

			if matchIndex != end && isWordPrefix(text, matchIndex) {
				tokensSincePrefix = 0
			}
		} else {
			for tokensSincePrefix > 0 {
				tokenIDs = tokenIDs[:len(tokenIDs)-1]
				tokensSincePrefix--
			}
			tokenIDs = append(tokenIDs, e.vocab.UnkTokenID)
			matchIndex++
			for matchIndex != end && !isWordPrefix(text, matchIndex) {
				matchIndex++
			}
		}

		for matchIndex != end && isSpace(text[matchIndex]) {
			matchIndex++
		}
	}

	return tokenIDs
}

func isWordPrefix(text types.CodePoints, index int) bool {
	return index == 0 || isSpacingChar(text[index]) || isSpacingChar(text[index-1])
}
