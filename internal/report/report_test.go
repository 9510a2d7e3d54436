package report

import (
	"archive/zip"
	"image/color"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/glossa/internal/annotation"
	"codeberg.org/snonux/glossa/internal/lang"
)

func readArchive(t *testing.T, path string) string {
	t.Helper()
	r, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer r.Close()

	var sb strings.Builder
	for _, f := range r.File {
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		sb.Write(data)
	}
	return sb.String()
}

func TestDOCX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.docx")
	words := []annotation.Word{
		{Word: "fox", Phonetic: "fɒks", Meaning: "n. 狐狸\nv. 欺骗", Language: lang.English},
		{Word: "苹果", Meaning: "apple", Language: lang.Chinese},
	}
	opts := DefaultOptions()
	opts.Document = "The quick brown fox"
	opts.Now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC) }

	require.NoError(t, DOCX(path, words, opts))

	body := readArchive(t, path)
	for _, want := range []string{"Vocabulary", "2 words | 2026-01-02 03:04", "fox", "[fɒks]", "n. 狐狸", "v. 欺骗", "苹果", "apple", "The quick brown fox"} {
		assert.Contains(t, body, want)
	}
	assert.Less(t, strings.Index(body, "fox"), strings.Index(body, "苹果"), "words keep the given order")
}

func TestDOCXNoWords(t *testing.T) {
	err := DOCX(filepath.Join(t.TempDir(), "empty.docx"), nil, DefaultOptions())
	assert.ErrorIs(t, err, ErrNoWords)
}

func TestExcerpt(t *testing.T) {
	tests := []struct {
		name string
		text string
		max  int
		want string
	}{
		{"short", "hello  world", 20, "hello world"},
		{"cut", "abcdef", 3, "abc…"},
		{"runes", "我们在学习中文", 2, "我们…"},
		{"unbounded", "a\n\nb", 0, "a b"},
		{"empty", "   ", 10, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Excerpt(tt.text, tt.max))
		})
	}
}

func TestHex(t *testing.T) {
	assert.Equal(t, "93C5FD", Hex(color.RGBA{R: 0x93, G: 0xc5, B: 0xfd, A: 0xff}))
}
