package render

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"os"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"codeberg.org/snonux/glossa/internal/annotation"
	"codeberg.org/snonux/glossa/internal/export"
	"codeberg.org/snonux/glossa/internal/lang"
)

// Source is the session state a Rasterizer draws.
type Source interface {
	Tokens() []lang.Token
	Words() []annotation.Word
	IsHighlighted(text string) bool
}

var (
	textColor     = color.RGBA{R: 31, G: 41, B: 55, A: 255}
	mutedColor    = color.RGBA{R: 107, G: 114, B: 128, A: 255}
	buttonColor   = color.RGBA{R: 59, G: 130, B: 246, A: 255}
	buttonText    = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	toolbarHeight = 40.0
	columnGap     = 16.0
)

// Rasterizer paints a Layout of a Source. It implements export.Rasterizer.
type Rasterizer struct {
	source Source
	font   *opentype.Font
	width  float64 // container width in layout pixels

	mu    sync.Mutex
	faces map[float64]font.Face
}

// NewRasterizer parses the font at fontPath, or uses Go Regular when empty.
// A CJK-capable font is needed to draw Chinese text.
func NewRasterizer(source Source, fontPath string) (*Rasterizer, error) {
	data := goregular.TTF
	if fontPath != "" {
		b, err := os.ReadFile(fontPath)
		if err != nil {
			return nil, fmt.Errorf("render: read font: %w", err)
		}
		data = b
	}

	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("render: parse font: %w", err)
	}

	return &Rasterizer{
		source: source,
		font:   f,
		width:  1200,
		faces:  make(map[float64]font.Face),
	}, nil
}

func (r *Rasterizer) face(size float64) (font.Face, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f, ok := r.faces[size]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(r.font, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("render: face: %w", err)
	}
	r.faces[size] = f
	return f, nil
}

// op is one drawing instruction in pane content coordinates (device pixels).
type op struct {
	rect   image.Rectangle
	fill   color.RGBA
	border color.RGBA
	text   string
	dot    image.Point // baseline origin for text
	color  color.RGBA
	size   float64
}

// content is a laid-out pane body.
type content struct {
	ops    []op
	height int
}

// Capture implements export.Rasterizer.
func (r *Rasterizer) Capture(ctx context.Context, view export.View, opts export.CaptureOptions) (image.Image, error) {
	scale := opts.Scale
	if scale <= 0 {
		scale = 1
	}

	visible := make(map[string]bool)
	for _, c := range view.Controls() {
		visible[c.ID()] = c.Visible()
	}

	container := view.Container()
	cs := container.Style()
	pad := px(cs.Padding, scale)
	width := px(r.width, scale)

	panes := view.Panes()
	if len(panes) == 0 {
		return nil, fmt.Errorf("render: view has no panes")
	}
	colWidth := (width - 2*pad - px(columnGap, scale)*(len(panes)-1)) / len(panes)

	type laidOut struct {
		pane   export.Pane
		body   content
		height int
	}
	var cols []laidOut
	tallest := 0
	for _, p := range panes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		body, err := r.layoutPane(p, colWidth, scale, visible)
		if err != nil {
			return nil, err
		}
		h := viewportHeight(p.Style(), body.height, scale)
		cols = append(cols, laidOut{pane: p, body: body, height: h})
		if h > tallest {
			tallest = h
		}
	}

	toolbar := px(toolbarHeight, scale)
	contentHeight := pad + toolbar + tallest + pad
	height := viewportHeight(cs, contentHeight, scale)

	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), &image.Uniform{C: opts.Background}, image.Point{}, draw.Src)
	if cs.Background.A > 0 {
		draw.Draw(canvas, canvas.Bounds(), &image.Uniform{C: cs.Background}, image.Point{}, draw.Over)
	}

	offset := px(container.ScrollOffset(), scale)
	if err := r.drawToolbar(canvas, image.Pt(pad, pad-offset), scale, visible); err != nil {
		return nil, err
	}

	x := pad
	for _, col := range cols {
		top := pad + toolbar - offset
		rect := image.Rect(x, top, x+colWidth, top+col.height).Intersect(canvas.Bounds())
		if !rect.Empty() {
			sub := canvas.SubImage(rect).(*image.RGBA)
			st := col.pane.Style()
			if st.Background.A > 0 {
				draw.Draw(sub, sub.Bounds(), &image.Uniform{C: st.Background}, image.Point{}, draw.Over)
			}
			origin := image.Pt(x, top-px(col.pane.ScrollOffset(), scale))
			if err := r.paint(sub, col.body.ops, origin); err != nil {
				return nil, err
			}
		}
		x += colWidth + px(columnGap, scale)
	}

	return canvas, nil
}

// viewportHeight applies a pane style to its content height.
func viewportHeight(st export.Style, contentHeight int, scale float64) int {
	h := contentHeight
	if st.Height > 0 {
		h = px(st.Height, scale)
	}
	if st.Overflow == export.OverflowVisible {
		if contentHeight > h {
			h = contentHeight
		}
		return h
	}
	if st.MaxHeight > 0 && h > px(st.MaxHeight, scale) {
		h = px(st.MaxHeight, scale)
	}
	return h
}

func (r *Rasterizer) layoutPane(p export.Pane, width int, scale float64, visible map[string]bool) (content, error) {
	st := p.Style()
	switch p.Name() {
	case ArticlePane:
		return r.layoutArticle(st, width, scale)
	case WordsPane:
		return r.layoutWords(st, width, scale, visible)
	default:
		return content{}, nil
	}
}

func (r *Rasterizer) drawToolbar(canvas *image.RGBA, origin image.Point, scale float64, visible map[string]bool) error {
	size := 14 * scale
	face, err := r.face(size)
	if err != nil {
		return err
	}

	x := origin.X
	h := px(toolbarHeight-8, scale)
	for _, b := range []struct{ id, label string }{
		{ReadAloudControl, "Read aloud"},
		{ClearControl, "Clear"},
	} {
		if !visible[b.id] {
			continue
		}
		w := font.MeasureString(face, b.label).Ceil() + px(24, scale)
		rect := image.Rect(x, origin.Y, x+w, origin.Y+h)
		draw.Draw(canvas, rect, &image.Uniform{C: buttonColor}, image.Point{}, draw.Src)
		r.drawText(canvas, face, b.label, image.Pt(x+px(12, scale), origin.Y+h/2+face.Metrics().Ascent.Ceil()/2-px(1, scale)), buttonText)
		x += w + px(8, scale)
	}
	return nil
}

func (r *Rasterizer) paint(dst *image.RGBA, ops []op, origin image.Point) error {
	for _, o := range ops {
		if !o.rect.Empty() {
			rect := o.rect.Add(origin)
			if o.fill.A > 0 {
				draw.Draw(dst, rect, &image.Uniform{C: o.fill}, image.Point{}, draw.Over)
			}
			if o.border.A > 0 {
				strokeRect(dst, rect, o.border)
			}
		}
		if o.text != "" {
			face, err := r.face(o.size)
			if err != nil {
				return err
			}
			r.drawText(dst, face, o.text, o.dot.Add(origin), o.color)
		}
	}
	return nil
}

func (r *Rasterizer) drawText(dst draw.Image, face font.Face, text string, dot image.Point, c color.RGBA) {
	d := font.Drawer{
		Dst:  dst,
		Src:  &image.Uniform{C: c},
		Face: face,
		Dot:  fixed.P(dot.X, dot.Y),
	}
	d.DrawString(text)
}

func strokeRect(dst draw.Image, r image.Rectangle, c color.RGBA) {
	u := &image.Uniform{C: c}
	for _, edge := range []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1),
		image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y),
		image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y),
	} {
		draw.Draw(dst, edge, u, image.Point{}, draw.Over)
	}
}

func px(v, scale float64) int {
	return int(math.Round(v * scale))
}

func styleMetrics(st export.Style, scale float64) (size float64, lineHeight, padding int) {
	fs := st.FontSize
	if fs <= 0 {
		fs = 14
	}
	lh := st.LineHeight
	if lh <= 0 {
		lh = 1.5
	}
	return fs * scale, px(fs*lh, scale), px(st.Padding, scale)
}

// splitLines separates text at line breaks, keeping empty lines.
func splitLines(text string) []string {
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}
