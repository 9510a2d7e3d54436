package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/jung-kurt/gofpdf"
)

// PDFWriter writes documents with gofpdf. Units are points.
type PDFWriter struct{}

// NewDocument implements Writer.
func (PDFWriter) NewDocument(pageWidth, pageHeight float64, orientation Orientation) (Document, error) {
	if pageWidth <= 0 || pageHeight <= 0 {
		return nil, fmt.Errorf("pdf: invalid page size %.0fx%.0f", pageWidth, pageHeight)
	}

	// gofpdf takes the portrait size and swaps it for landscape.
	short, long := pageWidth, pageHeight
	if short > long {
		short, long = long, short
	}
	orient := "P"
	if orientation == Landscape {
		orient = "L"
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: orient,
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: short, Ht: long},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)

	return &pdfDocument{pdf: pdf, width: pageWidth}, nil
}

type pdfDocument struct {
	pdf   *gofpdf.Fpdf
	width float64
	pages int
}

// AddPage places img at (x, y) scaled to the page width.
func (d *pdfDocument) AddPage(img image.Image, x, y float64) error {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return ErrEmptyCapture
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("pdf: encode page: %w", err)
	}

	d.pages++
	name := fmt.Sprintf("page-%d", d.pages)
	opts := gofpdf.ImageOptions{ImageType: "PNG"}

	d.pdf.AddPage()
	d.pdf.RegisterImageOptionsReader(name, opts, &buf)
	h := d.width * float64(b.Dy()) / float64(b.Dx())
	d.pdf.ImageOptions(name, x, y, d.width, h, false, opts, 0, "")

	return d.pdf.Error()
}

// Save writes the PDF. A partially written file is removed.
func (d *pdfDocument) Save(filename string) error {
	if d.pages == 0 {
		return fmt.Errorf("pdf: no pages")
	}
	if err := d.pdf.OutputFileAndClose(filename); err != nil {
		os.Remove(filename)
		return fmt.Errorf("pdf: save %s: %w", filename, err)
	}
	return nil
}
