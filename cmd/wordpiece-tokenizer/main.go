// Command wordpiece-tokenizer is the reference CLI runner: it tokenizes a
// text file against a vocabulary file using either the fast or the linear
// encoder, optionally streaming through external (chunked) mode for inputs
// too large to hold in memory.
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/gleb-kov/wordpiece"
	"github.com/gleb-kov/wordpiece/internal/workerpool"
	"github.com/gleb-kov/wordpiece/types"
)

func usage() {
	fmt.Fprintln(os.Stderr,
		"usage: wordpiece-tokenizer <fast|linear|fast-external|linear-external> "+
			"<text_file> <vocab_file> [n_threads] [out_file] [memory_limit_mb]")
}

func main() {
	if len(os.Args) < 4 {
		usage()
		os.Exit(1)
	}

	mode := os.Args[1]
	textFile := os.Args[2]
	vocabFile := os.Args[3]

	external := strings.HasSuffix(mode, "-external")
	baseMode := strings.TrimSuffix(mode, "-external")
	if baseMode != "fast" && baseMode != "linear" {
		usage()
		os.Exit(1)
	}

	if len(os.Args) > 4 {
		nThreads, err := strconv.Atoi(os.Args[4])
		if err != nil {
			log.Fatalf("invalid n_threads %q: %v", os.Args[4], err)
		}
		workerpool.SetDefaultSize(nThreads)
	}

	var outFile string
	var memLimitMB int
	if len(os.Args) > 5 {
		outFile = os.Args[5]
	}
	if len(os.Args) > 6 {
		v, err := strconv.Atoi(os.Args[6])
		if err != nil {
			log.Fatalf("invalid memory_limit_mb %q: %v", os.Args[6], err)
		}
		memLimitMB = v
	}

	if external && outFile == "" {
		fmt.Fprintf(os.Stderr, "%s requires an out_file argument\n", mode)
		usage()
		os.Exit(1)
	}

	switch baseMode {
	case "fast":
		if external {
			if err := wordpiece.EncodeFastExternal(textFile, vocabFile, outFile, memLimitMB); err != nil {
				log.Fatal(err)
			}
			return
		}
		ids, err := wordpiece.EncodeFastFile(textFile, vocabFile)
		if err != nil {
			log.Fatal(err)
		}
		printIDs(ids)
	case "linear":
		if external {
			if err := wordpiece.EncodeLinearExternal(textFile, vocabFile, outFile, memLimitMB); err != nil {
				log.Fatal(err)
			}
			return
		}
		ids, err := wordpiece.EncodeLinearFile(textFile, vocabFile)
		if err != nil {
			log.Fatal(err)
		}
		printIDs(ids)
	}
}

func printIDs(ids types.Tokens) {
	writer := bufio.NewWriter(os.Stdout)
	defer writer.Flush()
	for _, id := range ids {
		fmt.Fprintf(writer, "%d ", id)
	}
	fmt.Fprintln(writer)
}
