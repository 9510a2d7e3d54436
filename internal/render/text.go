package render

import (
	"image"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/image/font"

	"codeberg.org/snonux/glossa/internal/annotation"
	"codeberg.org/snonux/glossa/internal/export"
	"codeberg.org/snonux/glossa/internal/lang"
)

// unit is the smallest piece the line breaker moves: a Latin word, a single
// wide rune, a space run or a line break. Offsets are bytes in the document.
type unit struct {
	text       string
	start, end int
	space      bool
	newline    bool
}

func isWide(r rune) bool {
	return r >= 0x2E80 || unicode.Is(unicode.Han, r)
}

// splitUnits breaks s, found at byte offset base of the document, into units.
func splitUnits(s string, base int) []unit {
	var out []unit
	i := 0
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == '\n':
			out = append(out, unit{text: "\n", start: base + i, end: base + i + size, newline: true})
			i += size
		case r == '\r':
			i += size
		case unicode.IsSpace(r):
			j := i + size
			for j < len(s) {
				r2, n := utf8.DecodeRuneInString(s[j:])
				if r2 == '\n' || !unicode.IsSpace(r2) {
					break
				}
				j += n
			}
			out = append(out, unit{text: s[i:j], start: base + i, end: base + j, space: true})
			i = j
		case isWide(r):
			out = append(out, unit{text: s[i : i+size], start: base + i, end: base + i + size})
			i += size
		default:
			j := i + size
			for j < len(s) {
				r2, n := utf8.DecodeRuneInString(s[j:])
				if unicode.IsSpace(r2) || isWide(r2) {
					break
				}
				j += n
			}
			out = append(out, unit{text: s[i:j], start: base + i, end: base + j})
			i = j
		}
	}
	return out
}

// placed is a unit positioned on a line.
type placed struct {
	unit
	x, width int
}

// wrap breaks units into lines no wider than width. Leading spaces on a
// wrapped line are dropped.
func wrap(face font.Face, units []unit, width int) [][]placed {
	lines := [][]placed{nil}
	x := 0
	for _, u := range units {
		if u.newline {
			lines = append(lines, nil)
			x = 0
			continue
		}
		w := font.MeasureString(face, u.text).Ceil()
		if x > 0 && x+w > width && !u.space {
			lines = append(lines, nil)
			x = 0
		}
		if x == 0 && u.space && len(lines) > 1 {
			continue
		}
		last := len(lines) - 1
		lines[last] = append(lines[last], placed{unit: u, x: x, width: w})
		x += w
	}
	return lines
}

// highlightSpans marks every occurrence of each highlighted word in doc.
// Longer words are marked first so phrases win over words inside them.
// Latin entries only match whole words; entries with wide runes match
// anywhere.
func highlightSpans(doc string, words []annotation.Word, isHighlighted func(string) bool) []span {
	var hl []string
	for _, w := range words {
		if w.Word != "" && isHighlighted(w.Word) {
			hl = append(hl, w.Word)
		}
	}
	sort.SliceStable(hl, func(i, j int) bool { return len(hl[i]) > len(hl[j]) })

	var spans []span
	for _, w := range hl {
		whole := !strings.ContainsFunc(w, isWide)
		for from := 0; from < len(doc); {
			i := strings.Index(doc[from:], w)
			if i < 0 {
				break
			}
			s := span{start: from + i, end: from + i + len(w), word: w}
			if whole && !atWordBoundary(doc, s) {
				_, size := utf8.DecodeRuneInString(doc[s.start:])
				from = s.start + size
				continue
			}
			if !overlapsAny(spans, s) {
				spans = append(spans, s)
			}
			from = s.end
		}
	}
	return spans
}

// atWordBoundary reports whether s is not glued to a letter or digit on
// either side. Wide runes count as boundaries.
func atWordBoundary(doc string, s span) bool {
	if s.start > 0 {
		r, _ := utf8.DecodeLastRuneInString(doc[:s.start])
		if isWordRune(r) {
			return false
		}
	}
	if s.end < len(doc) {
		r, _ := utf8.DecodeRuneInString(doc[s.end:])
		if isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return !isWide(r) && (unicode.IsLetter(r) || unicode.IsDigit(r))
}

type span struct {
	start, end int
	word       string
}

// Highlight is a byte range of the document covered by a highlighted word.
type Highlight struct {
	Start, End int
	Word       string
}

// Highlights returns the highlighted ranges of doc in document order, using
// the same matching as the export.
func Highlights(doc string, words []annotation.Word, isHighlighted func(string) bool) []Highlight {
	spans := highlightSpans(doc, words, isHighlighted)
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	out := make([]Highlight, len(spans))
	for i, s := range spans {
		out[i] = Highlight{Start: s.start, End: s.end, Word: s.word}
	}
	return out
}

func overlapsAny(spans []span, s span) bool {
	for _, o := range spans {
		if s.start < o.end && o.start < s.end {
			return true
		}
	}
	return false
}

func spanAt(spans []span, u unit) (span, bool) {
	for _, s := range spans {
		if u.start < s.end && s.start < u.end {
			return s, true
		}
	}
	return span{}, false
}

func (r *Rasterizer) layoutArticle(st export.Style, width int, scale float64) (content, error) {
	size, lineHeight, pad := styleMetrics(st, scale)
	face, err := r.face(size)
	if err != nil {
		return content{}, err
	}

	tokens := r.source.Tokens()
	doc := lang.Join(tokens)
	spans := highlightSpans(doc, r.source.Words(), r.source.IsHighlighted)

	var units []unit
	offset := 0
	for _, t := range tokens {
		units = append(units, splitUnits(t.Text, offset)...)
		offset += len(t.Text)
	}

	lines := wrap(face, units, width-2*pad)
	ascent := face.Metrics().Ascent.Ceil()
	underline := px(2, scale)

	var c content
	for i, line := range lines {
		top := pad + i*lineHeight
		baseline := top + (lineHeight+ascent)/2 - px(2, scale)
		for _, p := range line {
			if p.space {
				continue
			}
			x := pad + p.x
			if s, ok := spanAt(spans, p.unit); ok {
				col := annotation.ColorFor(s.word)
				c.ops = append(c.ops,
					op{rect: image.Rect(x, top+px(2, scale), x+p.width, top+lineHeight-px(2, scale)), fill: col.Background},
					op{rect: image.Rect(x, baseline+underline, x+p.width, baseline+2*underline), fill: col.Border},
				)
			}
			c.ops = append(c.ops, op{text: p.text, dot: image.Pt(x, baseline), color: textColor, size: size})
		}
	}
	c.height = 2*pad + len(lines)*lineHeight
	return c, nil
}

func (r *Rasterizer) layoutWords(st export.Style, width int, scale float64, visible map[string]bool) (content, error) {
	size, lineHeight, pad := styleMetrics(st, scale)
	face, err := r.face(size)
	if err != nil {
		return content{}, err
	}
	titleSize := size * 1.15

	inner := px(8, scale)
	gap := px(8, scale)
	cardWidth := width - 2*pad
	textWidth := cardWidth - 2*inner
	ascent := face.Metrics().Ascent.Ceil()

	var c content
	y := pad
	for _, w := range r.source.Words() {
		col := annotation.ColorFor(w.Word)
		var text []op
		ty := inner

		// Title line with optional speak button.
		baseline := ty + (lineHeight+ascent)/2
		text = append(text, op{text: w.Word, dot: image.Pt(inner, baseline), color: textColor, size: titleSize})
		if visible[SpeakControlID(w.Word)] {
			label := "Speak"
			lw := font.MeasureString(face, label).Ceil() + px(12, scale)
			bx := cardWidth - inner - lw
			text = append(text,
				op{rect: image.Rect(bx, ty+px(2, scale), bx+lw, ty+lineHeight-px(2, scale)), fill: buttonColor},
				op{text: label, dot: image.Pt(bx+px(6, scale), baseline), color: buttonText, size: size},
			)
		}
		ty += lineHeight

		if w.Phonetic != "" {
			text = append(text, op{text: "[" + w.Phonetic + "]", dot: image.Pt(inner, ty+(lineHeight+ascent)/2), color: mutedColor, size: size})
			ty += lineHeight
		}

		for _, line := range wrap(face, splitUnits(w.Meaning, 0), textWidth) {
			var b strings.Builder
			for _, p := range line {
				b.WriteString(p.text)
			}
			text = append(text, op{text: strings.TrimSpace(b.String()), dot: image.Pt(inner, ty+(lineHeight+ascent)/2), color: textColor, size: size})
			ty += lineHeight
		}
		ty += inner

		card := image.Rect(pad, y, pad+cardWidth, y+ty)
		c.ops = append(c.ops, op{rect: card, fill: col.Background, border: col.Border})
		for _, o := range text {
			o.rect = o.rect.Add(card.Min)
			o.dot = o.dot.Add(card.Min)
			c.ops = append(c.ops, o)
		}
		y += ty + gap
	}
	c.height = y - gap + pad
	if c.height < 2*pad {
		c.height = 2 * pad
	}
	return c, nil
}
