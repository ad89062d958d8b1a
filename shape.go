package qrstyle

import (
	"math"
	"strings"

	"github.com/fogleman/gg"
)

// PrimitiveKind enumerates the fill primitives produced by the geometry generators.
type PrimitiveKind uint8

const (
	PrimRect PrimitiveKind = iota
	PrimEllipse
	PrimPolygon
)

// Primitive is a single closed fill region. Rects and ellipses use the
// X, Y, W, H bounding box, polygons use Points. A Hole primitive is cut
// out of the solid primitive emitted right before it.
type Primitive struct {
	Kind       PrimitiveKind
	X, Y, W, H float64
	Points     []gg.Point
	Hole       bool
}

// Geometry maps a pixel origin and a square side to a set of fill primitives.
type Geometry func(x, y, size float64) []Primitive

func rect(x, y, w, h float64) Primitive {
	return Primitive{Kind: PrimRect, X: x, Y: y, W: w, H: h}
}

func ellipse(x, y, w, h float64) Primitive {
	return Primitive{Kind: PrimEllipse, X: x, Y: y, W: w, H: h}
}

func circle(cx, cy, r float64) Primitive {
	return ellipse(cx-r, cy-r, 2*r, 2*r)
}

func polygon(pts ...gg.Point) Primitive {
	return Primitive{Kind: PrimPolygon, Points: pts}
}

func hole(p Primitive) Primitive {
	p.Hole = true
	return p
}

// diamondPoints returns the four vertices of a rhombus inscribed in the square box.
func diamondPoints(x, y, size float64) []gg.Point {
	c := size / 2
	return []gg.Point{{X: x + c, Y: y}, {X: x + size, Y: y + c}, {X: x + c, Y: y + size}, {X: x, Y: y + c}}
}

// arcSegments is the number of line segments approximating a quarter circle.
const arcSegments = 8

// roundedRect approximates a rectangle with per-corner radii as a polygon.
// Radii are given clockwise from the top-left corner.
func roundedRect(x, y, w, h float64, radii [4]float64) Primitive {
	maxR := math.Min(w, h) / 2
	corners := [4]struct{ cx, cy, a0 float64 }{
		{x, y, math.Pi},
		{x + w, y, 1.5 * math.Pi},
		{x + w, y + h, 0},
		{x, y + h, 0.5 * math.Pi},
	}
	// direction from the corner towards the arc center
	dirs := [4][2]float64{{1, 1}, {-1, 1}, {-1, -1}, {1, -1}}

	pts := make([]gg.Point, 0, 4*(arcSegments+1))
	for i, c := range corners {
		r := math.Min(math.Max(radii[i], 0), maxR)
		if r == 0 {
			pts = append(pts, gg.Point{X: c.cx, Y: c.cy})
			continue
		}
		ax, ay := c.cx+dirs[i][0]*r, c.cy+dirs[i][1]*r
		for s := 0; s <= arcSegments; s++ {
			a := c.a0 + float64(s)*(math.Pi/2)/arcSegments
			pts = append(pts, gg.Point{X: ax + r*math.Cos(a), Y: ay + r*math.Sin(a)})
		}
	}
	return polygon(pts...)
}

func uniformRadii(r float64) [4]float64 {
	return [4]float64{r, r, r, r}
}

// centered returns a square of side k*size centered in the cell.
func centered(x, y, size, k float64) (float64, float64, float64) {
	s := size * k
	off := (size - s) / 2
	return x + off, y + off, s
}

// ModuleShape identifies the shape painted for every dark module.
type ModuleShape uint8

const (
	ModuleSquare ModuleShape = iota
	ModuleRoundedSquare
	ModuleCircle
	ModuleDot
	ModuleGappedSquare
	ModuleMiniSquare
	ModuleVerticalBar
	ModuleHorizontalBar
	ModuleDiamond
	ModulePixelGrid
)

var moduleShapeNames = map[string]ModuleShape{
	"square":          ModuleSquare,
	"rounded-square":  ModuleRoundedSquare,
	"rounded":         ModuleRoundedSquare,
	"circle":          ModuleCircle,
	"dot":             ModuleDot,
	"gapped-square":   ModuleGappedSquare,
	"mini-square":     ModuleMiniSquare,
	"vertical-bar":    ModuleVerticalBar,
	"vertical-bars":   ModuleVerticalBar,
	"horizontal-bar":  ModuleHorizontalBar,
	"horizontal-bars": ModuleHorizontalBar,
	"diamond":         ModuleDiamond,
	"pixel-grid":      ModulePixelGrid,
}

var moduleShapeIDs = [...]string{
	"square", "rounded-square", "circle", "dot", "gapped-square",
	"mini-square", "vertical-bar", "horizontal-bar", "diamond", "pixel-grid",
}

// normalizeID lowercases an identifier and accepts underscores for dashes.
func normalizeID(id string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(id)), "_", "-")
}

// ParseModuleShape resolves a module shape id. The boolean is false for unknown ids.
func ParseModuleShape(id string) (ModuleShape, bool) {
	s, ok := moduleShapeNames[normalizeID(id)]
	return s, ok
}

func (s ModuleShape) String() string {
	if int(s) < len(moduleShapeIDs) {
		return moduleShapeIDs[s]
	}
	return "unknown"
}

// ModuleShapes lists the canonical module shape ids.
func ModuleShapes() []string {
	return append([]string(nil), moduleShapeIDs[:]...)
}

var moduleGeometry = map[ModuleShape]Geometry{
	ModuleSquare: func(x, y, s float64) []Primitive {
		return []Primitive{rect(x, y, s, s)}
	},
	ModuleRoundedSquare: func(x, y, s float64) []Primitive {
		return []Primitive{roundedRect(x, y, s, s, uniformRadii(s/4))}
	},
	ModuleCircle: func(x, y, s float64) []Primitive {
		return []Primitive{ellipse(x, y, s, s)}
	},
	ModuleDot: func(x, y, s float64) []Primitive {
		return []Primitive{circle(x+s/2, y+s/2, 0.6*s/2)}
	},
	ModuleGappedSquare: func(x, y, s float64) []Primitive {
		gx, gy, gs := centered(x, y, s, 0.8)
		return []Primitive{rect(gx, gy, gs, gs)}
	},
	ModuleMiniSquare: func(x, y, s float64) []Primitive {
		gx, gy, gs := centered(x, y, s, 0.6)
		return []Primitive{rect(gx, gy, gs, gs)}
	},
	ModuleVerticalBar: func(x, y, s float64) []Primitive {
		w := 0.8 * s
		return []Primitive{rect(x+(s-w)/2, y, w, s)}
	},
	ModuleHorizontalBar: func(x, y, s float64) []Primitive {
		h := 0.8 * s
		return []Primitive{rect(x, y+(s-h)/2, s, h)}
	},
	ModuleDiamond: func(x, y, s float64) []Primitive {
		return []Primitive{polygon(diamondPoints(x, y, s)...)}
	},
	// 3x3 sub-squares keep the cell center dark.
	ModulePixelGrid: func(x, y, s float64) []Primitive {
		third := s / 3
		gap := s / 10
		side := third - gap
		prims := make([]Primitive, 0, 9)
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				prims = append(prims, rect(x+float64(j)*third+gap/2, y+float64(i)*third+gap/2, side, side))
			}
		}
		return prims
	},
}

// Geometry returns the generator of the shape, defaulting to square.
func (s ModuleShape) Geometry() Geometry {
	if g, ok := moduleGeometry[s]; ok {
		return g
	}
	return moduleGeometry[ModuleSquare]
}
