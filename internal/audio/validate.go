package audio

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"codeberg.org/snonux/glossa/internal/lang"
)

// MaxChunkRunes bounds a single synthesis request. OpenAI rejects input
// over 4096 characters.
const MaxChunkRunes = 4000

// ValidateText checks that text has something to say
func ValidateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("text cannot be empty")
	}
	return nil
}

// SplitText cuts text into chunks of at most max runes at display token
// boundaries (words for English, clauses for Chinese). Whitespace-only
// chunks are dropped.
func SplitText(text string, max int) []string {
	if max <= 0 {
		max = MaxChunkRunes
	}

	var chunks []string
	var current strings.Builder
	currentLen := 0

	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			chunks = append(chunks, s)
		}
		current.Reset()
		currentLen = 0
	}

	for _, tok := range lang.Tokenize(text, lang.Detect(text)) {
		n := utf8.RuneCountInString(tok.Text)
		if currentLen+n > max {
			flush()
		}
		// A single token longer than max is cut hard.
		for n > max {
			runes := []rune(tok.Text)
			chunks = append(chunks, string(runes[:max]))
			tok.Text = string(runes[max:])
			n -= max
		}
		current.WriteString(tok.Text)
		currentLen += n
	}
	flush()

	return chunks
}
