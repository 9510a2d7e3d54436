package lang

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize_English(t *testing.T) {
	tokens := Tokenize("Hello,  world!", English)

	want := []Token{
		{Text: "Hello", IsWord: true},
		{Text: ",", IsWord: true},
		{Text: "  ", IsWord: false},
		{Text: "world", IsWord: true},
		{Text: "!", IsWord: true},
	}
	assert.Equal(t, want, tokens)
}

func TestTokenize_EnglishPunctuationStandsAlone(t *testing.T) {
	tokens := Tokenize("Wait...", English)

	texts := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		texts = append(texts, tok.Text)
	}
	assert.Equal(t, []string{"Wait", ".", ".", "."}, texts)
}

func TestTokenize_EnglishSymbolsAndApostrophes(t *testing.T) {
	tokens := Tokenize("don't (stop)", English)

	texts := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		texts = append(texts, tok.Text)
	}
	assert.Equal(t, []string{"don", "'", "t", " ", "(", "stop", ")"}, texts)
}

func TestTokenize_UnknownUsesEnglishRules(t *testing.T) {
	assert.Equal(t, Tokenize("42 + 7", English), Tokenize("42 + 7", Unknown))
}

func TestTokenize_Chinese(t *testing.T) {
	tokens := Tokenize("你好世界。今天好吗？！\n再见", Chinese)

	want := []Token{
		{Text: "你好世界", IsWord: true},
		{Text: "。", IsWord: false},
		{Text: "今天好吗", IsWord: true},
		{Text: "？！", IsWord: false},
		{Text: "\n", IsWord: false},
		{Text: "再见", IsWord: true},
	}
	assert.Equal(t, want, tokens)
}

func TestTokenize_ChineseWhitespaceClauseIsNotWord(t *testing.T) {
	tokens := Tokenize("好。  \r\n", Chinese)

	require.Len(t, tokens, 4)
	assert.Equal(t, Token{Text: "  ", IsWord: false}, tokens[2])
	assert.Equal(t, Token{Text: "\r\n", IsWord: false}, tokens[3])
}

func TestTokenize_Empty(t *testing.T) {
	assert.Empty(t, Tokenize("", English))
	assert.Empty(t, Tokenize("", Chinese))
}

func TestTokenize_Idempotent(t *testing.T) {
	text := "Hello world. 你好世界。\nSecond line!"
	for _, tag := range []Tag{English, Chinese, Unknown} {
		assert.Equal(t, Tokenize(text, tag), Tokenize(text, tag))
	}
}

func TestTokenize_RoundTrip(t *testing.T) {
	alphabet := []string{
		"a", "Z", "7", "_", " ", "  ", "\t", "\n", "\r", ".", ",", "!", "?", ";", ":",
		"'", "(", "-", "你", "好", "。", "！", "？", "；", "é", "ß", "\xff", "🙂",
	}
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 500; i++ {
		var b strings.Builder
		n := rng.Intn(40)
		for j := 0; j < n; j++ {
			b.WriteString(alphabet[rng.Intn(len(alphabet))])
		}
		text := b.String()

		for _, tag := range []Tag{English, Chinese, Unknown} {
			tokens := Tokenize(text, tag)
			require.Equal(t, text, Join(tokens), "tag %s input %q", tag, text)
			for _, tok := range tokens {
				require.NotEmpty(t, tok.Text, "tag %s input %q", tag, text)
			}
		}
	}
}
