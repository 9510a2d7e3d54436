package export

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log/slog"
)

// Failure is an export error tagged with the stage that failed.
type Failure struct {
	Stage string // capture, paginate or write
	Err   error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("export %s: %v", f.Stage, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Config holds page geometry and capture settings. Page sizes are in points.
type Config struct {
	PageWidth   float64
	PageHeight  float64
	Orientation Orientation
	Scale       float64
	Background  color.RGBA
	Expanded    Style
}

// DefaultConfig is an A4 landscape page captured at 2x on white.
func DefaultConfig() Config {
	return Config{
		PageWidth:   842,
		PageHeight:  595,
		Orientation: Landscape,
		Scale:       2,
		Background:  color.RGBA{R: 255, G: 255, B: 255, A: 255},
		Expanded: Style{
			Overflow:   OverflowVisible,
			FontSize:   14,
			LineHeight: 1.6,
			Padding:    20,
		},
	}
}

// Pipeline exports a view to a paginated document.
type Pipeline struct {
	raster Rasterizer
	writer Writer
	config Config
	log    *slog.Logger
}

// NewPipeline creates a pipeline. A scale below 2 is raised to 2.
func NewPipeline(raster Rasterizer, writer Writer, config Config, logger *slog.Logger) *Pipeline {
	if config.Scale < 2 {
		config.Scale = 2
	}
	return &Pipeline{
		raster: raster,
		writer: writer,
		config: config,
		log:    logger.With("component", "export"),
	}
}

// Export captures view and writes it to filename, returning the page count.
// The view is back in its pre-export state when Export returns, whether or
// not it succeeded, and no file is written on failure.
func (p *Pipeline) Export(ctx context.Context, view View, filename string) (int, error) {
	pages, err := p.export(ctx, view, filename)
	if err != nil {
		p.log.ErrorContext(ctx, "export failed",
			slog.String("file", filename),
			slog.String("error", err.Error()),
		)
		return 0, err
	}
	p.log.InfoContext(ctx, "exported document", slog.String("file", filename), slog.Int("pages", pages))
	return pages, nil
}

func (p *Pipeline) export(ctx context.Context, view View, filename string) (int, error) {
	img, err := p.capture(ctx, view)
	if err != nil {
		return 0, &Failure{Stage: "capture", Err: err}
	}

	bands, err := Paginate(img, p.config.PageWidth, p.config.PageHeight, p.config.Background)
	if err != nil {
		return 0, &Failure{Stage: "paginate", Err: err}
	}

	doc, err := p.writer.NewDocument(p.config.PageWidth, p.config.PageHeight, p.config.Orientation)
	if err != nil {
		return 0, &Failure{Stage: "write", Err: err}
	}
	for i, band := range bands {
		if err := ctx.Err(); err != nil {
			return 0, &Failure{Stage: "write", Err: err}
		}
		if err := doc.AddPage(band, 0, 0); err != nil {
			return 0, &Failure{Stage: "write", Err: fmt.Errorf("page %d: %w", i+1, err)}
		}
	}
	if err := doc.Save(filename); err != nil {
		return 0, &Failure{Stage: "write", Err: err}
	}
	return len(bands), nil
}

// capture rasterizes the expanded view. The snapshot is restored on every
// path; a panicking rasterizer is reported as an error.
func (p *Pipeline) capture(ctx context.Context, view View) (img image.Image, err error) {
	snap := takeSnapshot(view)
	defer snap.restore()
	defer func() {
		if r := recover(); r != nil {
			img, err = nil, fmt.Errorf("rasterizer panic: %v", r)
		}
	}()

	prepare(view, p.config.Expanded, p.config.Background)

	img, err = p.raster.Capture(ctx, view, CaptureOptions{
		Scale:      p.config.Scale,
		Background: p.config.Background,
	})
	if err != nil {
		return nil, err
	}
	if img == nil {
		return nil, ErrEmptyCapture
	}
	p.log.DebugContext(ctx, "captured view",
		slog.Int("width", img.Bounds().Dx()),
		slog.Int("height", img.Bounds().Dy()),
	)
	return img, nil
}
