package qrstyle

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
)

// Canvas is the mutable pixel buffer a pipeline paints on.
type Canvas struct {
	img        *image.RGBA
	background color.RGBA
}

// NewCanvas allocates the canvas for the matrix and fills it with the style
// background (fully transparent when the style asks for it).
func NewCanvas(m *Matrix, s Style) (*Canvas, error) {
	if m == nil {
		return nil, ErrInvalidMatrix
	}
	side := s.CanvasSide(m.Size())
	if limit := s.maxSide(); side > limit {
		return nil, fmt.Errorf("%w: %dpx exceeds %dpx", ErrCanvasTooLarge, side, limit)
	}
	c := &Canvas{
		img:        image.NewRGBA(image.Rect(0, 0, side, side)),
		background: s.background(),
	}
	c.clear(c.img.Bounds())
	return c, nil
}

// Bounds returns the canvas rectangle.
func (c *Canvas) Bounds() image.Rectangle { return c.img.Bounds() }

// Size returns the canvas width and height.
func (c *Canvas) Size() (int, int) {
	b := c.img.Bounds()
	return b.Dx(), b.Dy()
}

// RGBAAt returns the color of a single pixel.
func (c *Canvas) RGBAAt(x, y int) color.RGBA { return c.img.RGBAAt(x, y) }

// clear resets the rectangle to the background color.
func (c *Canvas) clear(r image.Rectangle) {
	draw.Draw(c.img, r, &image.Uniform{C: c.background}, image.Point{}, draw.Src)
}

// freeze hands the pixel buffer over to an immutable Symbol. The canvas
// must not be used afterwards.
func (c *Canvas) freeze() *Symbol {
	s := &Symbol{img: c.img}
	c.img = nil
	return s
}

// Symbol is a frozen canvas. It is safe for concurrent reads and exposes no mutators.
type Symbol struct {
	img *image.RGBA
}

// ColorModel implements image.Image.
func (s *Symbol) ColorModel() color.Model {
	return color.RGBAModel
}

// Bounds implements image.Image.
func (s *Symbol) Bounds() image.Rectangle {
	return s.img.Bounds()
}

// At implements image.Image.
func (s *Symbol) At(x, y int) color.Color {
	return s.img.RGBAAt(x, y)
}

// RGBAAt returns the color of a single pixel.
func (s *Symbol) RGBAAt(x, y int) color.RGBA {
	return s.img.RGBAAt(x, y)
}

// Pix returns a copy of the pixel data in RGBA order.
func (s *Symbol) Pix() []uint8 {
	return append([]uint8(nil), s.img.Pix...)
}
