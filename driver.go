package wordpiece

import (
	"bufio"
	"fmt"
	"log"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/gleb-kov/wordpiece/resources"
	"github.com/gleb-kov/wordpiece/types"
)

// External-mode chunk sizing: the fast encoder's UTF-8 decode buffer and
// hash tables are the dominant allocation, so it can safely use half the
// memory budget per chunk. The linear encoder's suffix-array construction
// peaks at roughly 10x its input size, so its chunk budget is a tenth of
// that.
const (
	fastExternalDivisor   = 2
	linearExternalDivisor = 20
)

// minExternalMemMB is the documented lower bound on the memory budget
// external-mode entry points accept. A budget of zero or less would make
// chunkSize non-positive, sending nextChunkEnd's boundary search off the
// start of the chunk.
const minExternalMemMB = 50

func validateMemMB(memMB int) error {
	if memMB < minExternalMemMB {
		return fmt.Errorf("memory_limit_mb %d is below the minimum of %d: %w", memMB, minExternalMemMB, ErrInvalidArgument)
	}
	return nil
}

// startsWithSpace reports whether the UTF-8 sequence beginning at data[pos]
// decodes to a narrow-whitespace code point, used to find a safe chunk
// boundary that never splits a word.
func startsWithSpace(data []byte, pos int) bool {
	cp, _ := decodeOne(data[pos:])
	return isSpace(cp)
}

// nextChunkEnd returns the smallest end <= len(data), at least target, such
// that data[end-1:] starts with whitespace (or end == len(data)). Chunks
// grow rather than shrink to stay over target, matching the reference
// driver's own boundary search.
func nextChunkEnd(data []byte, target int) int {
	size := len(data)
	if target >= size {
		return size
	}
	end := target
	for end < size && !startsWithSpace(data, end-1) {
		end++
	}
	return end
}

// runExternal drives encodeFn over successive chunks of a memory-mapped
// file, writing whitespace-separated token ids to out as each chunk
// completes, so memory use never exceeds the chunk size plus whatever the
// encoder itself allocates for it.
func runExternal(textPath, outPath string, chunkSize int, encodeFn func([]byte) (types.Tokens, error)) error {
	file, err := os.Open(textPath)
	if err != nil {
		return fmt.Errorf("opening text file %q: %w", textPath, joinErr(ErrIoFailure, err))
	}
	defer file.Close()

	data, err := resources.ReadMmap(file)
	if err != nil {
		return fmt.Errorf("mapping text file %q: %w", textPath, joinErr(ErrIoFailure, err))
	}
	defer resources.Unmap(data)

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating output file %q: %w", outPath, joinErr(ErrIoFailure, err))
	}
	defer out.Close()
	writer := bufio.NewWriter(out)
	defer writer.Flush()

	bytes := *data
	processed := 0
	for len(bytes) > 0 {
		batch := len(bytes)
		if batch > chunkSize {
			batch = nextChunkEnd(bytes, chunkSize)
		}

		ids, err := encodeFn(bytes[:batch])
		if err != nil {
			return err
		}
		for i, id := range ids {
			if i > 0 {
				if _, err := writer.WriteString(" "); err != nil {
					return joinErr(ErrIoFailure, err)
				}
			}
			if _, err := fmt.Fprintf(writer, "%d", id); err != nil {
				return joinErr(ErrIoFailure, err)
			}
		}
		if len(ids) > 0 {
			if _, err := writer.WriteString(" "); err != nil {
				return joinErr(ErrIoFailure, err)
			}
		}

		processed += batch
		bytes = bytes[batch:]
		log.Printf("wordpiece: processed %s / %s", humanize.Bytes(uint64(processed)),
			humanize.Bytes(uint64(processed+len(bytes))))
	}

	return nil
}
