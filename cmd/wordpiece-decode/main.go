// Command wordpiece-decode reads a binary token file (little-endian int32
// ids, per types.Tokens.ToBin) and writes back the decoded text.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/gleb-kov/wordpiece"
	"github.com/gleb-kov/wordpiece/types"
)

func main() {
	vocabFile := flag.String("vocab", "", "vocabulary file to decode against")
	inputFile := flag.String("input", "", "binary token file to decode")
	outputFile := flag.String("output", "decoded.txt", "output file to write decoded text")
	flag.Parse()

	if *vocabFile == "" || *inputFile == "" {
		flag.Usage()
		log.Fatal("must provide -vocab and -input")
	}

	bin, err := os.ReadFile(*inputFile)
	if err != nil {
		log.Fatal(err)
	}
	ids := types.TokensFromBin(bin)

	words, err := wordpiece.Decode(*vocabFile, ids)
	if err != nil {
		log.Fatal(err)
	}

	out, err := os.Create(*outputFile)
	if err != nil {
		log.Fatal(err)
	}
	defer out.Close()

	for i, w := range words {
		if i > 0 {
			out.WriteString(" ")
		}
		out.WriteString(w)
	}
}
