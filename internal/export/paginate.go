package export

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
)

// ErrEmptyCapture is returned when the rasterizer produced no pixels.
var ErrEmptyCapture = errors.New("export: empty capture")

// BandHeight is the pixel height of one page band for an image imgWidth
// pixels wide scaled to pageWidth.
func BandHeight(imgWidth int, pageWidth, pageHeight float64) int {
	h := int(pageHeight*float64(imgWidth)/pageWidth + 0.5)
	if h < 1 {
		h = 1
	}
	return h
}

// Paginate slices img top to bottom into page-height bands. The last band is
// padded with background so every band has the same size and no trailing
// content is dropped.
func Paginate(img image.Image, pageWidth, pageHeight float64, background color.RGBA) ([]*image.RGBA, error) {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, ErrEmptyCapture
	}
	if pageWidth <= 0 || pageHeight <= 0 {
		return nil, errors.New("export: invalid page size")
	}

	bandH := BandHeight(b.Dx(), pageWidth, pageHeight)
	count := (b.Dy() + bandH - 1) / bandH

	bands := make([]*image.RGBA, 0, count)
	for i := 0; i < count; i++ {
		band := image.NewRGBA(image.Rect(0, 0, b.Dx(), bandH))
		draw.Draw(band, band.Bounds(), &image.Uniform{C: background}, image.Point{}, draw.Src)

		src := image.Pt(b.Min.X, b.Min.Y+i*bandH)
		draw.Draw(band, band.Bounds(), img, src, draw.Over)
		bands = append(bands, band)
	}
	return bands, nil
}
