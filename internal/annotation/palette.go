package annotation

import "image/color"

// Color is one palette entry used to paint a word card.
type Color struct {
	Name       string
	Background color.RGBA
	Border     color.RGBA
}

// Palette holds the card colours, pastel fill with a darker border.
var Palette = [...]Color{
	{"blue", rgb(0xdb, 0xea, 0xfe), rgb(0x93, 0xc5, 0xfd)},
	{"green", rgb(0xdc, 0xfc, 0xe7), rgb(0x86, 0xef, 0xac)},
	{"yellow", rgb(0xfe, 0xf9, 0xc3), rgb(0xfd, 0xe0, 0x47)},
	{"pink", rgb(0xfc, 0xe7, 0xf3), rgb(0xf9, 0xa8, 0xd4)},
	{"purple", rgb(0xf3, 0xe8, 0xff), rgb(0xd8, 0xb4, 0xfe)},
	{"indigo", rgb(0xe0, 0xe7, 0xff), rgb(0xa5, 0xb4, 0xfc)},
	{"red", rgb(0xfe, 0xe2, 0xe2), rgb(0xfc, 0xa5, 0xa5)},
	{"orange", rgb(0xff, 0xed, 0xd5), rgb(0xfd, 0xba, 0x74)},
}

// ColorIndex is the sum of the word's code points modulo the palette size.
func ColorIndex(word string) int {
	sum := 0
	for _, r := range word {
		sum += int(r)
	}
	return sum % len(Palette)
}

// ColorFor returns the palette colour of a word.
func ColorFor(word string) Color {
	return Palette[ColorIndex(word)]
}

func rgb(r, g, b uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}
