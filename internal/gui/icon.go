package gui

import (
	"bytes"
	"image"
	"image/png"
	"sync"

	"fyne.io/fyne/v2"

	"codeberg.org/snonux/glossa/internal/annotation"
)

var (
	iconOnce sync.Once
	iconData []byte
)

// GetAppIcon returns the application icon as a Fyne resource
func GetAppIcon() fyne.Resource {
	iconOnce.Do(func() {
		iconData = drawIcon(256)
	})
	return &fyne.StaticResource{
		StaticName:    "glossa.png",
		StaticContent: iconData,
	}
}

// drawIcon paints the word palette as stacked cards on a square canvas
func drawIcon(size int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	band := size / len(annotation.Palette)
	border := size / 32

	for i, c := range annotation.Palette {
		top := i * band
		for y := top; y < top+band && y < size; y++ {
			for x := 0; x < size; x++ {
				if y-top < border || top+band-y <= border || x < border || size-x <= border {
					img.SetRGBA(x, y, c.Border)
				} else {
					img.SetRGBA(x, y, c.Background)
				}
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil
	}
	return buf.Bytes()
}
