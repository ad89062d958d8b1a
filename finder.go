package qrstyle

import (
	"image"
	"image/color"
	"math"

	"go.uber.org/zap"
)

// FinderReport describes what OverrideFinders did.
type FinderReport struct {
	// FrameFallback and EyeFallback are set when an unknown shape was replaced by square.
	FrameFallback bool
	EyeFallback   bool
	// Guarded lists the finder patterns painted in solid black or white
	// because the mask color lacked contrast against the background.
	Guarded []Corner
}

// OverrideFinders repaints the three finder patterns with the style's frame
// and eye shapes. Every region is first reset to the background, then the
// one module thick frame and the 3x3 module eye are filled with the color mask.
func OverrideFinders(c *Canvas, m *Matrix, s Style) FinderReport {
	var rep FinderReport

	frame, ok := frameGeometry[s.Frame]
	if !ok {
		frame = frameGeometry[FrameSquare]
		rep.FrameFallback = true
		Logger().Warn("unknown frame shape, using square", zap.String("requested", s.Frame.String()))
	}
	eye, ok := eyeGeometry[s.Eye]
	if !ok {
		eye = eyeGeometry[EyeSquare]
		rep.EyeFallback = true
		Logger().Warn("unknown eye shape, using square", zap.String("requested", s.Eye.String()))
	}

	w, h := c.Size()
	p := newPainter(c.img)
	bg := s.visibleBackground()

	for _, reg := range m.FinderRegions(s.BoxSize, s.Border) {
		c.clear(reg.Rect)

		x, y := float64(reg.Rect.Min.X), float64(reg.Rect.Min.Y)
		size := float64(reg.Rect.Dx())
		mod := size / finderModules
		prims := append(frame(x, y, size), eye(x+2*mod, y+2*mod, 3*mod)...)

		fg, ratio := weakestContrast(s.Mask, reg.Rect, w, h, bg)
		if s.MinFinderContrast > 0 && ratio < s.MinFinderContrast {
			guard := contrastingColor(bg)
			p.fillColor(prims, guard)
			rep.Guarded = append(rep.Guarded, reg.Corner)
			Logger().Warn("finder pattern lacks contrast, painting it solid",
				zap.String("corner", reg.Corner.String()),
				zap.String("mask", HexColor(fg)),
				zap.String("background", HexColor(bg)),
				zap.Float64("ratio", ratio),
			)
			continue
		}
		p.fillMask(prims, s.Mask, w, h)
	}
	return rep
}

// weakestContrast samples the mask at the center of the finder region and
// at the centers of its four corner modules, and returns the sample with the
// lowest contrast against bg.
func weakestContrast(mask ColorMask, r image.Rectangle, w, h int, bg color.RGBA) (color.RGBA, float64) {
	half := r.Dx() / finderModules / 2
	in := r.Inset(half)
	samples := [5]image.Point{
		r.Min.Add(r.Size().Div(2)),
		in.Min,
		{X: in.Max.X - 1, Y: in.Min.Y},
		{X: in.Min.X, Y: in.Max.Y - 1},
		in.Max.Sub(image.Pt(1, 1)),
	}
	var (
		weakest color.RGBA
		ratio   = math.Inf(1)
	)
	for _, pt := range samples {
		c := mask.ColorAt(pt.X, pt.Y, w, h)
		if cr := ContrastRatio(c, bg); cr < ratio {
			weakest, ratio = c, cr
		}
	}
	return weakest, ratio
}

// contrastingColor returns black or white, whichever stands out more against bg.
func contrastingColor(bg color.RGBA) color.RGBA {
	if ContrastRatio(black, bg) >= ContrastRatio(white, bg) {
		return black
	}
	return white
}
