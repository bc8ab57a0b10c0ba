package canvas

import (
	"fmt"
	"image/color"
	"strings"
)

var (
	Black  = color.NRGBA{0, 0, 0, 255}
	Red    = color.NRGBA{255, 0, 0, 255}
	Green  = color.NRGBA{0, 255, 0, 255}
	Yellow = color.NRGBA{255, 255, 0, 255}
	White  = color.NRGBA{255, 255, 255, 255}

	// Background is what Clear paints, and what a new canvas starts as.
	Background = White
)

// BrushSizes are the stroke widths offered to players, in pixels.
var BrushSizes = []int{3, 5, 7, 9}

var palette = []struct {
	name string
	c    color.NRGBA
}{
	{"black", Black},
	{"red", Red},
	{"green", Green},
	{"yellow", Yellow},
	{"white", White},
}

// ParseColor accepts a palette name or #rrggbb.
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, p := range palette {
		if p.name == s {
			return p.c, nil
		}
	}

	var r, g, b uint8
	if len(s) == 7 && s[0] == '#' {
		if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err == nil {
			return color.NRGBA{r, g, b, 255}, nil
		}
	}

	return color.NRGBA{}, fmt.Errorf("unknown colour: %q", s)
}

// ColorName gives the palette name of c, or its #rrggbb form.
func ColorName(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	for _, p := range palette {
		if p.c == n {
			return p.name
		}
	}
	return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
}

// PaletteNames lists the named colours, in display order.
func PaletteNames() []string {
	names := make([]string, 0, len(palette))
	for _, p := range palette {
		names = append(names, p.name)
	}
	return names
}
