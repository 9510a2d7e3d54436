package render

import (
	"image/color"
	"strings"
	"sync"

	"codeberg.org/snonux/glossa/internal/annotation"
	"codeberg.org/snonux/glossa/internal/export"
)

// Pane and control identifiers.
const (
	ContainerPane = "container"
	ArticlePane   = "article"
	WordsPane     = "words"

	ClearControl     = "clear"
	ReadAloudControl = "read-aloud"
	speakPrefix      = "speak:"
)

// SpeakControlID names the speak affordance of a word card.
func SpeakControlID(word string) string {
	return speakPrefix + word
}

// Pane is a scrollable region with an inline style.
type Pane struct {
	mu     sync.Mutex
	name   string
	style  export.Style
	scroll float64
}

// NewPane creates a pane
func NewPane(name string, style export.Style) *Pane {
	return &Pane{name: name, style: style}
}

func (p *Pane) Name() string { return p.name }

func (p *Pane) Style() export.Style {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.style
}

func (p *Pane) SetStyle(s export.Style) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.style = s
}

func (p *Pane) ScrollOffset() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.scroll
}

// SetScrollOffset clamps negative offsets to zero.
func (p *Pane) SetScrollOffset(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if v < 0 {
		v = 0
	}
	p.scroll = v
}

// Control is a toolbar button or a per-word speak affordance.
type Control struct {
	mu        sync.Mutex
	id        string
	ephemeral bool
	visible   bool
}

func (c *Control) ID() string      { return c.id }
func (c *Control) Ephemeral() bool { return c.ephemeral }

func (c *Control) Visible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.visible
}

func (c *Control) SetVisible(v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.visible = v
}

// Layout is the exportable view of a session.
type Layout struct {
	mu        sync.Mutex
	container *Pane
	article   *Pane
	words     *Pane
	controls  []*Control
}

// DefaultStyles returns the on-screen styles of the container and both panes.
func DefaultStyles() (container, article, words export.Style) {
	container = export.Style{
		Height:     720,
		Overflow:   export.OverflowHidden,
		Padding:    16,
		Background: color.RGBA{R: 243, G: 244, B: 246, A: 255},
	}
	article = export.Style{
		Height:     600,
		MaxHeight:  600,
		Overflow:   export.OverflowAuto,
		FontSize:   16,
		LineHeight: 1.5,
		Padding:    16,
		Background: color.RGBA{R: 255, G: 255, B: 255, A: 255},
	}
	words = export.Style{
		Height:     600,
		MaxHeight:  600,
		Overflow:   export.OverflowAuto,
		FontSize:   14,
		LineHeight: 1.4,
		Padding:    12,
		Background: color.RGBA{R: 255, G: 255, B: 255, A: 255},
	}
	return container, article, words
}

// NewLayout creates a layout with the default styles and one speak control per word.
func NewLayout(words []annotation.Word) *Layout {
	cs, as, ws := DefaultStyles()
	l := &Layout{
		container: NewPane(ContainerPane, cs),
		article:   NewPane(ArticlePane, as),
		words:     NewPane(WordsPane, ws),
	}
	l.SyncControls(words)
	return l
}

// SyncControls adds and removes per-word controls to match words. Controls
// that survive are kept as the same objects so a running export can restore
// them.
func (l *Layout) SyncControls(words []annotation.Word) {
	l.mu.Lock()
	defer l.mu.Unlock()

	existing := make(map[string]*Control, len(l.controls))
	for _, c := range l.controls {
		existing[c.id] = c
	}
	get := func(id string, ephemeral bool) *Control {
		if c, ok := existing[id]; ok {
			return c
		}
		return &Control{id: id, ephemeral: ephemeral, visible: true}
	}

	controls := []*Control{get(ClearControl, true), get(ReadAloudControl, false)}
	for _, w := range words {
		controls = append(controls, get(SpeakControlID(w.Word), true))
	}
	l.controls = controls
}

// Container implements export.View.
func (l *Layout) Container() export.Pane { return l.container }

// Panes implements export.View.
func (l *Layout) Panes() []export.Pane { return []export.Pane{l.article, l.words} }

// Controls implements export.View.
func (l *Layout) Controls() []export.Control {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]export.Control, len(l.controls))
	for i, c := range l.controls {
		out[i] = c
	}
	return out
}

// Control returns the control with id.
func (l *Layout) Control(id string) (*Control, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, c := range l.controls {
		if c.id == id {
			return c, true
		}
	}
	return nil, false
}

// Article returns the article pane.
func (l *Layout) Article() *Pane { return l.article }

// Words returns the words pane.
func (l *Layout) Words() *Pane { return l.words }

// isSpeakControl reports whether id belongs to a word card.
func isSpeakControl(id string) (string, bool) {
	if !strings.HasPrefix(id, speakPrefix) {
		return "", false
	}
	return strings.TrimPrefix(id, speakPrefix), true
}
