package wordpiece

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru"

	"github.com/gleb-kov/wordpiece/internal/workerpool"
	"github.com/gleb-kov/wordpiece/types"
)

// fastWorkBatch is the strip size above which the fast encoder splits text
// across the pool, split only at whitespace boundaries.
const fastWorkBatch = 1_000_000

// wordCacheSize bounds the fast encoder's per-encoder LRU memoization of
// already-resolved non-spacing runs. It's a pure performance optimization:
// a miss falls through to the same hash-index lookups a hit would have
// produced, so it never changes the emitted token sequence.
const wordCacheSize = 65536

// FastEncoder runs the greedy longest-match algorithm over hash-addressed
// vocabulary segments.
type FastEncoder struct {
	vocab      *Vocabulary
	prefixToID wordMap
	suffixToID wordMap
	maxLen     int
	pool       *workerpool.Pool
	cache      *lru.ARCCache
}

// NewFastEncoder builds the prefix/suffix hash indices once so they can be
// reused across many EncodeCodePoints calls.
func NewFastEncoder(vocab *Vocabulary, pool *workerpool.Pool) (*FastEncoder, error) {
	prefixToID, suffixToID, maxLen := buildWordMaps(vocab)
	cache, err := lru.NewARC(wordCacheSize)
	if err != nil {
		return nil, fmt.Errorf("allocating word cache: %w", joinErr(ErrInternal, err))
	}
	return &FastEncoder{
		vocab:      vocab,
		prefixToID: prefixToID,
		suffixToID: suffixToID,
		maxLen:     maxLen,
		pool:       pool,
		cache:      cache,
	}, nil
}

// EncodeCodePoints tokenizes already-decoded text.
func (e *FastEncoder) EncodeCodePoints(text types.CodePoints) types.Tokens {
	if len(text) == 0 {
		return nil
	}
	if len(text) < 2*fastWorkBatch || e.pool == nil {
		return e.encodeStrip(text, 0, len(text))
	}

	threadCount := e.pool.Size()
	if len(text)/fastWorkBatch < threadCount {
		threadCount = len(text) / fastWorkBatch
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
			perStrip[idx] = e.encodeStrip(text, begin, stop)
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
	return out
}

// encodeStrip tokenizes text[begin:end], a code-point range that may begin or end
// mid-run but never splits a code point (the caller only splits at
// whitespace).
func (e *FastEncoder) encodeStrip(text types.CodePoints, begin, end int) types.Tokens {
	tokenIDs := make(types.Tokens, 0, (end-begin)/max(e.maxLen, 1)+1)

	for begin != end && isSpace(text[begin]) {
		begin++
	}

	for begin != end {
		runEnd := begin
		if isPunctuation(text[begin]) {
			runEnd = begin + 1
		} else {
			for runEnd < end && !isSpacingChar(text[runEnd]) {
				runEnd++
			}
		}

		run := text[begin:runEnd]
		if cached, ok := e.cache.Get(codePointsToKey(run)); ok {
			tokenIDs = append(tokenIDs, cached.(types.Tokens)...)
		} else {
			resolved := e.matchRun(run)
			e.cache.Add(codePointsToKey(run), resolved)
			tokenIDs = append(tokenIDs, resolved...)
		}

		begin = runEnd
		for begin != end && isSpace(text[begin]) {
			begin++
		}
	}

	return tokenIDs
}

// matchRun resolves one maximal non-spacing run into a token sequence,
// shrinking each candidate from its right end on a failed lookup and
// rolling the whole run back to a single unk token as soon as some position
// has no matching vocabulary entry.
func (e *FastEncoder) matchRun(run types.CodePoints) types.Tokens {
	tokenIDs := make(types.Tokens, 0, len(run)/max(e.maxLen, 1)+1)
	begin := 0
	end := len(run)
	tokensSincePrefix := 0

	for begin != end {
		wordLen := 1
		if !isPunctuation(run[begin]) {
			limit := min(e.maxLen, end-begin)
			for wordLen < limit && !isSpacingChar(run[begin+wordLen]) {
				wordLen++
			}
		}

		wordToID := e.suffixToID
		if begin == 0 {
			wordToID = e.prefixToID
		}

		builder := newSegmentBuilder(run[begin : begin+wordLen])
		matched := false
		for !builder.empty() {
			if id, ok := wordToID[builder.current().key()]; ok {
				tokensSincePrefix++
				tokenIDs = append(tokenIDs, id)
				begin += builder.size()
				matched = true
				break
			}
			builder.popBack()
		}

		if !matched {
			for tokensSincePrefix > 0 {
				tokenIDs = tokenIDs[:len(tokenIDs)-1]
				tokensSincePrefix--
			}
			tokenIDs = append(tokenIDs, e.vocab.UnkTokenID)
			return tokenIDs
		}
	}

	return tokenIDs
}
