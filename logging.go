package wordpiece

import (
	"log"
	"strings"

	"github.com/gleb-kov/wordpiece/types"
)

// logDecodeWarning reports the DecodeWarning condition once per call, never
// once per offending byte sequence.
func logDecodeWarning() {
	log.Print("wordpiece: input contains invalid unicode characters")
}

// logVocabWarnings folds every vocabulary warning into a single log line.
func logVocabWarnings(warnings []string) {
	if len(warnings) == 0 {
		return
	}
	log.Print("wordpiece: " + strings.Join(warnings, "; "))
}

func logUnknownTokenDuringDecode(id types.Token) {
	log.Printf("wordpiece: no token %d", id)
}
