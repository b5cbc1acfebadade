// Command wordpiece-repl reads the vocabulary word list once and tokenizes
// each line of stdin with the fast encoder, echoing both the ids and their
// decoded words. Each line still re-classifies that word list for encoding
// and re-reads the vocabulary file for decoding.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gleb-kov/wordpiece"
)

func main() {
	vocabFile := flag.String("vocab", "", "vocabulary file to tokenize against")
	flag.Parse()

	if *vocabFile == "" {
		flag.Usage()
		log.Fatal("must provide -vocab")
	}

	vocab := mustReadVocab(*vocabFile)

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print(">>> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimRight(line, "\n")

		ids, err := wordpiece.EncodeFast([]byte(line), vocab)
		if err != nil {
			log.Println(err)
			continue
		}
		fmt.Printf("%v\n", ids)

		words, err := wordpiece.Decode(*vocabFile, ids)
		if err != nil {
			log.Println(err)
			continue
		}
		for _, w := range words {
			fmt.Printf("|%s", w)
		}
		fmt.Println()
	}
}

func mustReadVocab(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatal(err)
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}
