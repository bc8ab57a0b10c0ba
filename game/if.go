package game

import (
	"image"
	"image/color"
)

// WordSource gives the word list for a mode name ("easy", "hard"). A source
// that has nothing gives an empty list.
type WordSource interface {
	Load(mode string) []string
}

// Surface is the drawing canvas as the controller sees it.
type Surface interface {
	BeginStroke(p image.Point)
	ExtendStroke(p image.Point)
	EndStroke()
	SetColor(c color.Color)
	Color() color.NRGBA
	SetWidth(w int) error
	Width() int
	Clear()
	ExportTo(path string) error
	ImportFrom(data []byte) error
	Resize(width, height int)
}
