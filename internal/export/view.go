package export

import (
	"context"
	"image"
	"image/color"
)

// Overflow controls how a pane treats content taller than its viewport.
type Overflow int

const (
	OverflowAuto Overflow = iota
	OverflowHidden
	OverflowVisible
)

// Style is the inline presentation of a pane.
type Style struct {
	Height     float64 // viewport height, 0 means content height
	MaxHeight  float64 // 0 means unbounded
	Overflow   Overflow
	FontSize   float64
	LineHeight float64
	Padding    float64
	Background color.RGBA
}

// Pane is a scrollable region of the view.
type Pane interface {
	Name() string
	Style() Style
	SetStyle(Style)
	ScrollOffset() float64
	SetScrollOffset(float64)
}

// Control is an interactive affordance. Ephemeral controls are hidden in exports.
type Control interface {
	ID() string
	Ephemeral() bool
	Visible() bool
	SetVisible(bool)
}

// View is the exportable root: a container holding scroll panes and controls.
type View interface {
	Container() Pane
	Panes() []Pane
	Controls() []Control
}

// CaptureOptions tunes rasterization.
type CaptureOptions struct {
	Scale      float64
	Background color.RGBA
}

// Rasterizer captures the view as an image; its bounds are the pixel dimensions.
type Rasterizer interface {
	Capture(ctx context.Context, view View, opts CaptureOptions) (image.Image, error)
}

// Orientation of output pages.
type Orientation int

const (
	Portrait Orientation = iota
	Landscape
)

// Writer creates output documents.
type Writer interface {
	NewDocument(pageWidth, pageHeight float64, orientation Orientation) (Document, error)
}

// Document receives page images and is saved once complete.
type Document interface {
	AddPage(img image.Image, x, y float64) error
	Save(filename string) error
}
