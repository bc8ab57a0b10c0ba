// Package canvas is the shared drawing surface: a raster buffer that turns
// pointer drags into freehand strokes.
package canvas

import (
	"errors"
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

const (
	DefaultWidth  = 800
	DefaultHeight = 600
	DefaultBrush  = 3

	// MaxSide bounds both sides of the buffer.
	MaxSide = 8192
)

// ErrBadWidth is returned for stroke widths below one pixel.
var ErrBadWidth = errors.New("stroke width must be positive")

// Canvas is a mutable image plus the state of the stroke being drawn. It is
// not safe for concurrent use.
type Canvas struct {
	img *image.NRGBA

	color   color.NRGBA
	width   int
	last    image.Point
	drawing bool
}

// New makes a blank canvas. Sizes that are not usable fall back to the
// defaults.
func New(width, height int) *Canvas {
	if !usableSize(width, height) {
		width, height = DefaultWidth, DefaultHeight
	}
	c := &Canvas{
		img:   image.NewNRGBA(image.Rect(0, 0, width, height)),
		color: Black,
		width: DefaultBrush,
	}
	c.Clear()
	return c
}

// BeginStroke anchors a new stroke at p. Nothing is painted yet.
func (c *Canvas) BeginStroke(p image.Point) {
	c.drawing = true
	c.last = p
}

// ExtendStroke paints from the anchor to p and moves the anchor to p. It does
// nothing unless a stroke has begun.
func (c *Canvas) ExtendStroke(p image.Point) {
	if !c.drawing {
		return
	}
	c.line(c.last, p)
	c.last = p
}

// EndStroke finishes the current stroke.
func (c *Canvas) EndStroke() {
	c.drawing = false
}

// Drawing reports whether a stroke is in progress.
func (c *Canvas) Drawing() bool {
	return c.drawing
}

func (c *Canvas) line(a, b image.Point) {
	m, ok := newCapsule(a, b, float64(c.width)/2, c.img.Bounds())
	if !ok {
		// entirely off the canvas
		return
	}
	r := c.img.Bounds().Intersect(m.Bounds())
	if r.Empty() {
		return
	}
	draw.DrawMask(c.img, r, &image.Uniform{c.color}, image.Point{}, m, r.Min, draw.Over)
}

func (c *Canvas) SetColor(col color.Color) {
	c.color = color.NRGBAModel.Convert(col).(color.NRGBA)
}

func (c *Canvas) Color() color.NRGBA {
	return c.color
}

func (c *Canvas) SetWidth(w int) error {
	if w <= 0 {
		return ErrBadWidth
	}
	c.width = w
	return nil
}

func (c *Canvas) Width() int {
	return c.width
}

// Clear paints the whole buffer with the background.
func (c *Canvas) Clear() {
	draw.Draw(c.img, c.img.Bounds(), &image.Uniform{Background}, image.Point{}, draw.Src)
}

// Size is the buffer's width and height.
func (c *Canvas) Size() image.Point {
	return c.img.Bounds().Size()
}

// Resize scales the current picture to width x height. Non-positive sizes
// and sides over MaxSide are ignored.
func (c *Canvas) Resize(width, height int) {
	if !usableSize(width, height) {
		return
	}
	c.img = scaled(c.img, width, height)
}

func usableSize(width, height int) bool {
	return width > 0 && height > 0 && width <= MaxSide && height <= MaxSide
}

// Image returns a copy of the buffer.
func (c *Canvas) Image() *image.NRGBA {
	out := image.NewNRGBA(c.img.Bounds())
	draw.Draw(out, out.Bounds(), c.img, c.img.Bounds().Min, draw.Src)
	return out
}

// scaled draws src onto a fresh width x height buffer, stretching it to fit.
func scaled(src image.Image, width, height int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	sb := src.Bounds()
	if sb.Dx() == width && sb.Dy() == height {
		draw.Draw(dst, dst.Bounds(), src, sb.Min, draw.Src)
		return dst
	}
	xdraw.BiLinear.Scale(dst, dst.Bounds(), src, sb, xdraw.Src, nil)
	return dst
}
