package qrstyle

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
)

// painter fills geometry primitives on a canvas, sampling a fill pattern per pixel.
type painter struct {
	dc *gg.Context
}

func newPainter(img *image.RGBA) *painter {
	return &painter{dc: gg.NewContextForRGBA(img)}
}

// fillMask paints the primitives with the color mask of a w x h canvas.
func (p *painter) fillMask(prims []Primitive, mask ColorMask, w, h int) {
	p.fill(prims, maskPattern{mask: mask, w: w, h: h})
}

// fillColor paints the primitives with a solid color.
func (p *painter) fillColor(prims []Primitive, c color.Color) {
	p.fill(prims, gg.NewSolidPattern(c))
}

// fill paints every solid primitive together with the holes following it.
// Each group is filled separately with the even-odd rule, so overlapping
// solids never cancel each other out.
func (p *painter) fill(prims []Primitive, pattern gg.Pattern) {
	dc := p.dc
	dc.SetFillStyle(pattern)
	dc.SetFillRuleEvenOdd()

	open := false
	for _, pr := range prims {
		if !pr.Hole && open {
			dc.Fill()
			open = false
		}
		p.path(pr)
		open = true
	}
	if open {
		dc.Fill()
	}
	dc.SetFillRuleWinding()
}

// fillUnion paints all primitives in a single pass with the non-zero
// winding rule. Holes are not supported.
func (p *painter) fillUnion(prims []Primitive, pattern gg.Pattern) {
	if len(prims) == 0 {
		return
	}
	p.dc.SetFillStyle(pattern)
	p.dc.SetFillRuleWinding()
	for _, pr := range prims {
		p.path(pr)
	}
	p.dc.Fill()
}

func (p *painter) path(pr Primitive) {
	dc := p.dc
	switch pr.Kind {
	case PrimRect:
		dc.DrawRectangle(pr.X, pr.Y, pr.W, pr.H)
	case PrimEllipse:
		dc.DrawEllipse(pr.X+pr.W/2, pr.Y+pr.H/2, pr.W/2, pr.H/2)
	case PrimPolygon:
		if len(pr.Points) < 3 {
			return
		}
		dc.NewSubPath()
		dc.MoveTo(pr.Points[0].X, pr.Points[0].Y)
		for _, pt := range pr.Points[1:] {
			dc.LineTo(pt.X, pt.Y)
		}
		dc.ClosePath()
	}
}
