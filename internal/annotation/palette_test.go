package annotation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColorIndex(t *testing.T) {
	tests := []struct {
		word string
		want int
	}{
		{"", 0},
		{"a", 1},           // 97
		{"world", 0},       // 552
		{"hello", 4},       // 532
		{"世界", 2},          // 50018
		{"Hello world", 4}, // 1084
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ColorIndex(tt.word), "word %q", tt.word)
	}
}

func TestColorFor_Stable(t *testing.T) {
	for _, w := range []string{"world", "世界", "a phrase with spaces"} {
		first := ColorFor(w)
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, ColorFor(w))
		}
	}
}

func TestPaletteSize(t *testing.T) {
	assert.Len(t, Palette, 8)
	names := make(map[string]bool)
	for _, c := range Palette {
		assert.False(t, names[c.Name])
		names[c.Name] = true
		assert.Equal(t, uint8(0xff), c.Background.A)
	}
}
