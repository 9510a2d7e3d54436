package lang

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Token is one display unit of a document. Concatenating the Text of all
// tokens returned by Tokenize reproduces the input exactly.
type Token struct {
	Text   string
	IsWord bool
}

// Tokenize splits text for display using the rules of the given language.
// Unknown text is split like English.
func Tokenize(text string, tag Tag) []Token {
	if text == "" {
		return nil
	}
	if tag == Chinese {
		return tokenizeChinese(text)
	}
	return tokenizeEnglish(text)
}

// Join concatenates token texts.
func Join(tokens []Token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(t.Text)
	}
	return b.String()
}

// sentence-terminal punctuation of the CJK set
func isChineseTerminal(r rune) bool {
	switch r {
	case '。', '！', '？', '；':
		return true
	}
	return false
}

func isLineBreak(r rune) bool {
	return r == '\n' || r == '\r'
}

// tokenizeChinese keeps runs of terminal punctuation and runs of line breaks
// as non-word tokens; the text between them forms the clauses.
func tokenizeChinese(text string) []Token {
	var tokens []Token
	start := 0
	kind := chineseKind(firstRune(text))
	for i, r := range text {
		k := chineseKind(r)
		if k == kind {
			continue
		}
		tokens = append(tokens, chineseToken(text[start:i], kind))
		start, kind = i, k
	}
	return append(tokens, chineseToken(text[start:], kind))
}

const (
	kindClause = iota
	kindTerminal
	kindBreak
)

func chineseKind(r rune) int {
	switch {
	case isChineseTerminal(r):
		return kindTerminal
	case isLineBreak(r):
		return kindBreak
	default:
		return kindClause
	}
}

func chineseToken(s string, kind int) Token {
	return Token{Text: s, IsWord: kind == kindClause && isWordText(s)}
}

// englishClass partitions runes for the English splitter: word characters
// group together, whitespace groups together, sentence punctuation stands
// alone and any other symbols group together.
type englishClass int

const (
	classWord englishClass = iota
	classSpace
	classPunct
	classSymbol
)

func classifyEnglish(r rune) englishClass {
	switch {
	case r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r):
		return classWord
	case unicode.IsSpace(r):
		return classSpace
	case strings.ContainsRune(".,!?;:", r):
		return classPunct
	default:
		return classSymbol
	}
}

func tokenizeEnglish(text string) []Token {
	var tokens []Token
	start := 0
	class := classifyEnglish(firstRune(text))
	for i, r := range text {
		if i == start {
			continue
		}
		c := classifyEnglish(r)
		if c == class && c != classPunct {
			continue
		}
		tokens = append(tokens, englishToken(text[start:i]))
		start, class = i, c
	}
	return append(tokens, englishToken(text[start:]))
}

func englishToken(s string) Token {
	return Token{Text: s, IsWord: isWordText(s)}
}

// isWordText reports a non-empty trimmed text that is not pure whitespace.
func isWordText(s string) bool {
	return strings.TrimSpace(s) != ""
}

func firstRune(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)
	return r
}
