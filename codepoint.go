package wordpiece

import (
	"unicode"

	"github.com/gleb-kov/wordpiece/internal/workerpool"
	"github.com/gleb-kov/wordpiece/types"
)

// decodeWorkBatch is the strip size above which DecodeUTF8 splits work
// across the pool; below it, decoding a large text wouldn't recoup the
// goroutine overhead.
const decodeWorkBatch = 5_000_000

// isSpace reports whether cp is "narrow" whitespace: a C-locale space below
// 256, or the sentencepiece space marker. This is deliberately narrower
// than unicode.IsSpace — it is the predicate used to skip inter-word gaps,
// not the one used to decide where a word boundary falls.
func isSpace(cp types.CodePoint) bool {
	if cp == types.SpaceToken {
		return true
	}
	return cp < 256 && isCLocaleSpace(byte(cp))
}

func isCLocaleSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	default:
		return false
	}
}

// isPunctuation reports whether cp is Unicode punctuation or a symbol code
// point. Neither the spec nor the reference sources define this predicate
// explicitly; it's implemented on the standard unicode package's category
// tables, the same library the rest of this module's classification logic
// draws from.
func isPunctuation(cp types.CodePoint) bool {
	r := rune(cp)
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}

// isSpacingChar reports whether cp should be treated as a word boundary:
// either narrow whitespace or punctuation.
func isSpacingChar(cp types.CodePoint) bool {
	return isSpace(cp) || isPunctuation(cp)
}

func checkByte(b byte) bool {
	return b&0xc0 == 0x80
}

func checkSymbolStart(b byte) bool {
	return !checkByte(b)
}

func checkCodepoint(cp uint32) bool {
	return cp < 0xd800 || (0xdfff < cp && cp < 0x110000)
}

// utf8Length returns the byte length of the UTF-8 sequence starting with
// leading byte b, or 0 if b cannot start a valid sequence.
func utf8Length(b byte) int {
	switch {
	case b&0x80 == 0:
		return 1
	case b&0xe0 == 0xc0:
		return 2
	case b&0xf0 == 0xe0:
		return 3
	case b&0xf8 == 0xf0:
		return 4
	default:
		return 0
	}
}

// decodeOne decodes the UTF-8 sequence at the start of buf, returning the
// decoded code point (or types.InvalidCodePoint) and the number of bytes
// consumed (always >= 1, even on failure, so callers can advance).
func decodeOne(buf []byte) (types.CodePoint, int) {
	length := utf8Length(buf[0])
	if length == 1 {
		return types.CodePoint(buf[0]), 1
	}
	if length >= 2 && len(buf) >= 2 && checkByte(buf[1]) {
		switch length {
		case 2:
			cp := uint32(buf[0]&0x1f)<<6 | uint32(buf[1]&0x3f)
			if cp >= 0x80 && checkCodepoint(cp) {
				return types.CodePoint(cp), 2
			}
		case 3:
			if len(buf) >= 3 && checkByte(buf[2]) {
				cp := uint32(buf[0]&0x0f)<<12 | uint32(buf[1]&0x3f)<<6 | uint32(buf[2]&0x3f)
				if cp >= 0x800 && checkCodepoint(cp) {
					return types.CodePoint(cp), 3
				}
			}
		case 4:
			if len(buf) >= 4 && checkByte(buf[2]) && checkByte(buf[3]) {
				cp := uint32(buf[0]&0x07)<<18 | uint32(buf[1]&0x3f)<<12 |
					uint32(buf[2]&0x3f)<<6 | uint32(buf[3]&0x3f)
				if cp >= 0x10000 && checkCodepoint(cp) {
					return types.CodePoint(cp), 4
				}
			}
		}
	}
	return types.InvalidCodePoint, 1
}

// decodeRange decodes buf in full, returning the decoded code points and
// whether any invalid sequence was encountered.
func decodeRange(buf []byte) (types.CodePoints, bool) {
	out := make(types.CodePoints, 0, len(buf)/4+4)
	invalid := false
	for i := 0; i < len(buf); {
		cp, n := decodeOne(buf[i:])
		if cp != types.InvalidCodePoint {
			out = append(out, cp)
		} else {
			invalid = true
		}
		i += n
	}
	return out, invalid
}

// DecodeUTF8 decodes data into code points, splitting the work across pool
// when data is large enough to make that worthwhile. Splits only ever land
// on UTF-8 sequence-start bytes, so no strip decodes a torn code point. The
// returned bool reports whether any byte sequence in data failed to decode;
// callers fold that into a single diagnostic line rather than one per
// offending sequence.
func DecodeUTF8(data []byte, pool *workerpool.Pool) (types.CodePoints, bool) {
	size := len(data)
	if size < 2*decodeWorkBatch || pool == nil {
		return decodeRange(data)
	}

	threadCount := pool.Size()
	if size/decodeWorkBatch < threadCount {
		threadCount = size / decodeWorkBatch
	}
	if threadCount < 1 {
		threadCount = 1
	}
	workSize := size/threadCount + 1

	perStrip := make([]types.CodePoints, threadCount)
	invalidFlags := make([]bool, threadCount)

	start := 0
	for stripIdx := 0; stripIdx < threadCount && start < size; stripIdx++ {
		end := start + workSize
		if end > size {
			end = size
		}
		for end < size && !checkSymbolStart(data[end]) {
			end++
		}
		idx, begin, stop := stripIdx, start, end
		pool.Submit(func() {
			cps, invalid := decodeRange(data[begin:stop])
			perStrip[idx] = cps
			invalidFlags[idx] = invalid
		})
		start = end
	}
	pool.Wait()

	total := 0
	anyInvalid := false
	for i, strip := range perStrip {
		total += len(strip)
		anyInvalid = anyInvalid || invalidFlags[i]
	}
	out := make(types.CodePoints, 0, total)
	for _, strip := range perStrip {
		out = append(out, strip...)
	}
	return out, anyInvalid
}
