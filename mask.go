package qrstyle

import (
	"image/color"
	"math"
	"strings"

	"github.com/esimov/qrstyle/utils"
	"github.com/fogleman/gg"
)

// MaskKind selects how a ColorMask maps a pixel to a position on its stop list.
type MaskKind uint8

const (
	MaskSolid MaskKind = iota
	MaskHorizontal
	MaskVertical
	MaskDiagonal
	MaskRadial
	MaskSquare
)

var maskNames = map[string]MaskKind{
	"solid":               MaskSolid,
	"horizontal":          MaskHorizontal,
	"horizontal_gradient": MaskHorizontal,
	"linear-horizontal":   MaskHorizontal,
	"vertical":            MaskVertical,
	"vertical_gradient":   MaskVertical,
	"linear-vertical":     MaskVertical,
	"diagonal":            MaskDiagonal,
	"diagonal_gradient":   MaskDiagonal,
	"linear-diagonal":     MaskDiagonal,
	"radial":              MaskRadial,
	"radial_gradient":     MaskRadial,
	"square":              MaskSquare,
	"square_gradient":     MaskSquare,
}

// ParseMaskKind resolves a mask name. The boolean is false for unknown names.
func ParseMaskKind(name string) (MaskKind, bool) {
	k, ok := maskNames[strings.ToLower(strings.TrimSpace(name))]
	return k, ok
}

func (k MaskKind) String() string {
	switch k {
	case MaskSolid:
		return "solid"
	case MaskHorizontal:
		return "horizontal"
	case MaskVertical:
		return "vertical"
	case MaskDiagonal:
		return "diagonal"
	case MaskRadial:
		return "radial"
	case MaskSquare:
		return "square"
	}
	return "unknown"
}

// ColorMask maps canvas coordinates to a foreground color.
// For linear kinds the first stop sits at the left (top, top-left) edge,
// for radial and square kinds at the center.
type ColorMask struct {
	Kind  MaskKind
	Stops []color.RGBA
	// Center is the normalised gradient center used by radial and square masks.
	Center gg.Point
}

// SolidMask returns a single color mask.
func SolidMask(c color.RGBA) ColorMask {
	return ColorMask{Kind: MaskSolid, Stops: []color.RGBA{c}, Center: gg.Point{X: 0.5, Y: 0.5}}
}

// GradientMask returns a mask of the given kind, centered on the canvas.
func GradientMask(kind MaskKind, stops ...color.RGBA) ColorMask {
	return ColorMask{Kind: kind, Stops: stops, Center: gg.Point{X: 0.5, Y: 0.5}}
}

// ColorAt returns the mask color of pixel (x, y) on a w x h canvas.
// It depends on nothing else, so any stage re-sampling the same pixel
// gets the same color.
func (m ColorMask) ColorAt(x, y, w, h int) color.RGBA {
	switch len(m.Stops) {
	case 0:
		return black
	case 1:
		return m.Stops[0]
	}
	if m.Kind == MaskSolid {
		return m.Stops[0]
	}
	return m.interpolate(m.position(float64(x), float64(y), float64(w), float64(h)))
}

// position returns the normalised gradient parameter of a pixel.
func (m ColorMask) position(x, y, w, h float64) float64 {
	xmax, ymax := math.Max(w-1, 1), math.Max(h-1, 1)

	var t float64
	switch m.Kind {
	case MaskHorizontal:
		t = x / xmax
	case MaskVertical:
		t = y / ymax
	case MaskDiagonal:
		t = (x + y) / (xmax + ymax)
	case MaskRadial, MaskSquare:
		cx, cy := m.Center.X*(w-1), m.Center.Y*(h-1)
		dist := func(px, py float64) float64 {
			dx, dy := utils.Abs(px-cx), utils.Abs(py-cy)
			if m.Kind == MaskSquare {
				return math.Max(dx, dy)
			}
			return math.Hypot(dx, dy)
		}
		var r float64
		for _, c := range [4][2]float64{{0, 0}, {w - 1, 0}, {0, h - 1}, {w - 1, h - 1}} {
			r = math.Max(r, dist(c[0], c[1]))
		}
		if r == 0 {
			return 0
		}
		t = dist(x, y) / r
	}
	return utils.Clamp(t, 0, 1)
}

// interpolate splits [0,1] into len(Stops)-1 equal segments and blends
// linearly inside the segment t falls into.
func (m ColorMask) interpolate(t float64) color.RGBA {
	segs := len(m.Stops) - 1
	seg := utils.Min(int(t*float64(segs)), segs-1)
	local := t*float64(segs) - float64(seg)
	return lerp(m.Stops[seg], m.Stops[seg+1], local)
}

// maskPattern adapts a ColorMask to a gg fill pattern for a fixed canvas size.
type maskPattern struct {
	mask ColorMask
	w, h int
}

func (p maskPattern) ColorAt(x, y int) color.Color {
	return p.mask.ColorAt(x, y, p.w, p.h)
}
