package render

import (
	"context"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"codeberg.org/snonux/glossa/internal/annotation"
	"codeberg.org/snonux/glossa/internal/export"
	"codeberg.org/snonux/glossa/internal/lang"
)

type staticSource struct {
	doc        string
	words      []annotation.Word
	highlights map[string]bool
}

func (s *staticSource) Tokens() []lang.Token           { return lang.Tokenize(s.doc, lang.Detect(s.doc)) }
func (s *staticSource) Words() []annotation.Word       { return s.words }
func (s *staticSource) IsHighlighted(text string) bool { return s.highlights[text] }

func white() color.RGBA { return color.RGBA{R: 255, G: 255, B: 255, A: 255} }

func newTestRasterizer(t *testing.T, src Source) *Rasterizer {
	t.Helper()
	r, err := NewRasterizer(src, "")
	require.NoError(t, err)
	return r
}

func longDocument() string {
	return strings.Repeat("The quick brown fox jumps over the lazy dog. ", 400)
}

func TestCapture_ClippedLayoutUsesContainerHeight(t *testing.T) {
	src := &staticSource{doc: longDocument()}
	r := newTestRasterizer(t, src)
	layout := NewLayout(nil)

	img, err := r.Capture(context.Background(), layout, export.CaptureOptions{Scale: 2, Background: white()})
	require.NoError(t, err)
	assert.Equal(t, 2400, img.Bounds().Dx())
	assert.Equal(t, 1440, img.Bounds().Dy())
}

func TestCapture_ExpandedLayoutShowsAllContent(t *testing.T) {
	src := &staticSource{doc: longDocument()}
	r := newTestRasterizer(t, src)
	layout := NewLayout(nil)

	expanded := export.Style{Overflow: export.OverflowVisible, FontSize: 14, LineHeight: 1.6, Padding: 20}
	layout.Container().SetStyle(export.Style{Overflow: export.OverflowVisible})
	for _, p := range layout.Panes() {
		p.SetStyle(expanded)
	}

	img, err := r.Capture(context.Background(), layout, export.CaptureOptions{Scale: 1, Background: white()})
	require.NoError(t, err)
	assert.Greater(t, img.Bounds().Dy(), 720)
}

func TestCapture_HighlightsUsePaletteColour(t *testing.T) {
	words := []annotation.Word{{Word: "fox", Meaning: "狐狸", Language: lang.English}}
	src := &staticSource{doc: "The quick brown fox jumps.", words: words, highlights: map[string]bool{"fox": true}}
	r := newTestRasterizer(t, src)
	layout := NewLayout(words)

	img, err := r.Capture(context.Background(), layout, export.CaptureOptions{Scale: 1, Background: white()})
	require.NoError(t, err)

	want := annotation.ColorFor("fox").Background
	article := image.Rect(16, 56, 16+576, 200)
	assert.Positive(t, countColour(img, article, want), "highlight drawn in article pane")

	src.highlights = map[string]bool{}
	img, err = r.Capture(context.Background(), layout, export.CaptureOptions{Scale: 1, Background: white()})
	require.NoError(t, err)
	assert.Zero(t, countColour(img, article, want), "no highlight once cleared")
}

func TestCapture_HiddenControlsAreNotDrawn(t *testing.T) {
	src := &staticSource{doc: "hello"}
	r := newTestRasterizer(t, src)
	layout := NewLayout(nil)
	toolbar := image.Rect(0, 0, 1200, 56)

	img, err := r.Capture(context.Background(), layout, export.CaptureOptions{Scale: 1, Background: white()})
	require.NoError(t, err)
	require.Positive(t, countColour(img, toolbar, buttonColor))

	for _, c := range layout.Controls() {
		c.SetVisible(false)
	}
	img, err = r.Capture(context.Background(), layout, export.CaptureOptions{Scale: 1, Background: white()})
	require.NoError(t, err)
	assert.Zero(t, countColour(img, toolbar, buttonColor))
}

func TestCapture_ScrollOffsetMovesContent(t *testing.T) {
	src := &staticSource{doc: longDocument()}
	r := newTestRasterizer(t, src)
	layout := NewLayout(nil)
	opts := export.CaptureOptions{Scale: 1, Background: white()}

	top, err := r.Capture(context.Background(), layout, opts)
	require.NoError(t, err)

	layout.Article().SetScrollOffset(37)
	scrolled, err := r.Capture(context.Background(), layout, opts)
	require.NoError(t, err)

	assert.NotEqual(t, top.(*image.RGBA).Pix, scrolled.(*image.RGBA).Pix)
}

func TestCapture_CancelledContext(t *testing.T) {
	r := newTestRasterizer(t, &staticSource{doc: "hello"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Capture(ctx, NewLayout(nil), export.CaptureOptions{Scale: 1})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewRasterizer_BadFontPath(t *testing.T) {
	_, err := NewRasterizer(&staticSource{}, "/nonexistent/font.ttf")
	assert.Error(t, err)
}

func TestViewportHeight(t *testing.T) {
	tests := []struct {
		name    string
		style   export.Style
		content int
		want    int
	}{
		{"fixed height clips", export.Style{Height: 100, Overflow: export.OverflowAuto}, 500, 100},
		{"fixed height pads", export.Style{Height: 100, Overflow: export.OverflowAuto}, 50, 100},
		{"max height caps content", export.Style{MaxHeight: 80, Overflow: export.OverflowHidden}, 500, 80},
		{"auto height is content", export.Style{Overflow: export.OverflowAuto}, 500, 500},
		{"visible overflow grows", export.Style{Height: 100, MaxHeight: 100, Overflow: export.OverflowVisible}, 500, 500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, viewportHeight(tt.style, tt.content, 1))
		})
	}
}

func TestSplitUnits(t *testing.T) {
	units := splitUnits("Hi  you\n你好", 10)
	var texts []string
	for _, u := range units {
		texts = append(texts, u.text)
	}
	assert.Equal(t, []string{"Hi", "  ", "you", "\n", "你", "好"}, texts)
	assert.Equal(t, 10, units[0].start)
	assert.True(t, units[1].space)
	assert.True(t, units[3].newline)
	assert.Equal(t, 18, units[4].start)
}

func TestWrap(t *testing.T) {
	f, err := opentype.Parse(goregular.TTF)
	require.NoError(t, err)
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: 12, DPI: 72})
	require.NoError(t, err)

	lines := wrap(face, splitUnits(strings.Repeat("word ", 50), 0), 100)
	require.Greater(t, len(lines), 1)
	for i, line := range lines {
		if i > 0 && len(line) > 0 {
			assert.False(t, line[0].space, "wrapped line %d starts with space", i)
		}
		for _, p := range line {
			if !p.space && p.x > 0 {
				assert.LessOrEqual(t, p.x+p.width, 100)
			}
		}
	}

	assert.Len(t, wrap(face, splitUnits("a\n\nb", 0), 100), 3)
}

func TestHighlightSpans(t *testing.T) {
	words := []annotation.Word{{Word: "world"}, {Word: "hello world"}, {Word: "absent"}}
	hl := map[string]bool{"world": true, "hello world": true, "absent": true}

	spans := highlightSpans("hello world and world", words, func(s string) bool { return hl[s] })
	require.Len(t, spans, 2)
	assert.Equal(t, span{start: 0, end: 11, word: "hello world"}, spans[0])
	assert.Equal(t, span{start: 16, end: 21, word: "world"}, spans[1])
}

func TestHighlights_DocumentOrder(t *testing.T) {
	words := []annotation.Word{{Word: "and"}, {Word: "big cat"}}
	all := func(string) bool { return true }

	got := Highlights("cat and big cat", words, all)
	assert.Equal(t, []Highlight{
		{Start: 4, End: 7, Word: "and"},
		{Start: 8, End: 15, Word: "big cat"},
	}, got)
}

func TestHighlights_WholeWordsOnly(t *testing.T) {
	all := func(string) bool { return true }

	got := Highlights("the cat sat here", []annotation.Word{{Word: "a"}, {Word: "he"}}, all)
	assert.Empty(t, got)

	got = Highlights("He said: he, (he) and 3he", []annotation.Word{{Word: "he"}}, all)
	assert.Equal(t, []Highlight{
		{Start: 9, End: 11, Word: "he"},
		{Start: 14, End: 16, Word: "he"},
	}, got)

	got = Highlights("我用AI写作", []annotation.Word{{Word: "AI"}, {Word: "写"}}, all)
	assert.Equal(t, []Highlight{
		{Start: 6, End: 8, Word: "AI"},
		{Start: 8, End: 11, Word: "写"},
	}, got)
}

func TestLayout_SyncControls(t *testing.T) {
	layout := NewLayout([]annotation.Word{{Word: "a"}, {Word: "b"}})
	require.Len(t, layout.Controls(), 4)

	c, ok := layout.Control(SpeakControlID("a"))
	require.True(t, ok)
	assert.True(t, c.Ephemeral())
	c.SetVisible(false)

	layout.SyncControls([]annotation.Word{{Word: "c"}, {Word: "a"}})
	c, ok = layout.Control(SpeakControlID("a"))
	require.True(t, ok)
	assert.False(t, c.Visible(), "visibility survives a sync")
	_, ok = layout.Control(SpeakControlID("b"))
	assert.False(t, ok)

	readAloud, ok := layout.Control(ReadAloudControl)
	require.True(t, ok)
	assert.False(t, readAloud.Ephemeral())

	word, ok := isSpeakControl(SpeakControlID("你好"))
	assert.True(t, ok)
	assert.Equal(t, "你好", word)
}

func TestPane_NegativeScrollClamped(t *testing.T) {
	p := NewPane("x", export.Style{})
	p.SetScrollOffset(-4)
	assert.Zero(t, p.ScrollOffset())
}

func countColour(img image.Image, r image.Rectangle, c color.RGBA) int {
	n := 0
	r = r.Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if color.RGBAModel.Convert(img.At(x, y)).(color.RGBA) == c {
				n++
			}
		}
	}
	return n
}
