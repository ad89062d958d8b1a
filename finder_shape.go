package qrstyle

import (
	"math"

	"github.com/fogleman/gg"
)

// FrameShape identifies the outer ring of a finder pattern.
type FrameShape uint8

const (
	FrameSquare FrameShape = iota
	FrameRoundedSquare
	FrameCircle
	FrameRounded
	FrameDiamond
	FrameCornerCut
	FrameJagged
	FrameDots
	FramePointed
	FramePixel
)

// EyeShape identifies the 3x3 module center of a finder pattern.
type EyeShape uint8

const (
	EyeSquare EyeShape = iota
	EyeCircle
	EyeRounded
	EyeDiamond
	EyeCushion
	EyeStar
	EyeDots
	EyeRoundedRect
	EyeFlower
	EyeLeaf
)

var frameShapeIDs = [...]string{
	"square", "rounded-square", "circle", "rounded", "diamond",
	"corner-cut", "jagged", "dots", "pointed", "pixel",
}

var eyeShapeIDs = [...]string{
	"square", "circle", "rounded", "diamond", "cushion",
	"star", "dots", "rounded-rect", "flower", "leaf",
}

var frameShapeNames = map[string]FrameShape{
	"dotted":    FrameDots,
	"pixelated": FramePixel,
}

var eyeShapeNames = map[string]EyeShape{
	"dotted": EyeDots,
}

func init() {
	for i, id := range frameShapeIDs {
		frameShapeNames[id] = FrameShape(i)
	}
	for i, id := range eyeShapeIDs {
		eyeShapeNames[id] = EyeShape(i)
	}
}

// ParseFrameShape resolves a frame shape id. The boolean is false for unknown ids.
func ParseFrameShape(id string) (FrameShape, bool) {
	s, ok := frameShapeNames[normalizeID(id)]
	return s, ok
}

// ParseEyeShape resolves an eye shape id. The boolean is false for unknown ids.
func ParseEyeShape(id string) (EyeShape, bool) {
	s, ok := eyeShapeNames[normalizeID(id)]
	return s, ok
}

func (s FrameShape) String() string {
	if int(s) < len(frameShapeIDs) {
		return frameShapeIDs[s]
	}
	return "unknown"
}

func (s EyeShape) String() string {
	if int(s) < len(eyeShapeIDs) {
		return eyeShapeIDs[s]
	}
	return "unknown"
}

// FrameShapes lists the canonical frame shape ids.
func FrameShapes() []string { return append([]string(nil), frameShapeIDs[:]...) }

// EyeShapes lists the canonical eye shape ids.
func EyeShapes() []string { return append([]string(nil), eyeShapeIDs[:]...) }

// Frame generators receive the 7x7 module region. The ring is one module
// (size/7) thick.
var frameGeometry = map[FrameShape]Geometry{
	FrameSquare: func(x, y, s float64) []Primitive {
		t := s / 7
		return []Primitive{rect(x, y, s, s), hole(rect(x+t, y+t, s-2*t, s-2*t))}
	},
	FrameRoundedSquare: func(x, y, s float64) []Primitive {
		t := s / 7
		return []Primitive{
			roundedRect(x, y, s, s, uniformRadii(1.5*t)),
			hole(roundedRect(x+t, y+t, s-2*t, s-2*t, uniformRadii(0.5*t))),
		}
	},
	FrameCircle: func(x, y, s float64) []Primitive {
		t := s / 7
		return []Primitive{ellipse(x, y, s, s), hole(ellipse(x+t, y+t, s-2*t, s-2*t))}
	},
	FrameRounded: func(x, y, s float64) []Primitive {
		t := s / 7
		return []Primitive{
			roundedRect(x, y, s, s, uniformRadii(3*t)),
			hole(roundedRect(x+t, y+t, s-2*t, s-2*t, uniformRadii(2*t))),
		}
	},
	FrameDiamond: func(x, y, s float64) []Primitive {
		// an edge at 45 degrees moved inwards by t shrinks the half diagonal by t*sqrt(2)
		in := s / 7 * math.Sqrt2
		return []Primitive{
			polygon(diamondPoints(x, y, s)...),
			hole(polygon(diamondPoints(x+in, y+in, s-2*in)...)),
		}
	},
	FrameCornerCut: func(x, y, s float64) []Primitive {
		t := s / 7
		c := 2 * t
		return []Primitive{
			polygon(octagon(x, y, s, c)...),
			hole(polygon(octagon(x+t, y+t, s-2*t, c-t*(2-math.Sqrt2))...)),
		}
	},
	FrameJagged: func(x, y, s float64) []Primitive {
		t := s / 7
		return []Primitive{rect(x, y, s, s), hole(polygon(jaggedSquare(x+t, y+t, s-2*t, t/2, 5)...))}
	},
	FrameDots: func(x, y, s float64) []Primitive {
		t := s / 7
		prims := make([]Primitive, 0, 24)
		for row := 0; row < finderModules; row++ {
			for col := 0; col < finderModules; col++ {
				if row != 0 && row != finderModules-1 && col != 0 && col != finderModules-1 {
					continue
				}
				prims = append(prims, circle(x+(float64(col)+0.5)*t, y+(float64(row)+0.5)*t, t/2))
			}
		}
		return prims
	},
	FramePointed: func(x, y, s float64) []Primitive {
		t := s / 7
		return []Primitive{
			roundedRect(x, y, s, s, [4]float64{0, 3 * t, 0, 3 * t}),
			hole(roundedRect(x+t, y+t, s-2*t, s-2*t, [4]float64{0, 2 * t, 0, 2 * t})),
		}
	},
	FramePixel: func(x, y, s float64) []Primitive {
		const cells = 2 * finderModules
		p := s / cells
		gap := p / 5
		prims := make([]Primitive, 0, 4*cells)
		for row := 0; row < cells; row++ {
			for col := 0; col < cells; col++ {
				if row >= 2 && row < cells-2 && col >= 2 && col < cells-2 {
					continue
				}
				prims = append(prims, rect(x+float64(col)*p+gap/2, y+float64(row)*p+gap/2, p-gap, p-gap))
			}
		}
		return prims
	},
}

// Eye generators receive the 3x3 module center box.
var eyeGeometry = map[EyeShape]Geometry{
	EyeSquare: func(x, y, e float64) []Primitive {
		return []Primitive{rect(x, y, e, e)}
	},
	EyeCircle: func(x, y, e float64) []Primitive {
		return []Primitive{ellipse(x, y, e, e)}
	},
	EyeRounded: func(x, y, e float64) []Primitive {
		return []Primitive{roundedRect(x, y, e, e, uniformRadii(e/4))}
	},
	EyeDiamond: func(x, y, e float64) []Primitive {
		return []Primitive{polygon(diamondPoints(x, y, e)...)}
	},
	EyeCushion: func(x, y, e float64) []Primitive {
		return []Primitive{polygon(cushion(x, y, e, e/3)...)}
	},
	EyeStar: func(x, y, e float64) []Primitive {
		cx, cy := x+e/2, y+e/2
		pts := make([]gg.Point, 8)
		for i := range pts {
			r := e / 2
			if i%2 == 1 {
				r = e / 4
			}
			a := float64(i) * math.Pi / 4
			pts[i] = gg.Point{X: cx + r*math.Cos(a), Y: cy + r*math.Sin(a)}
		}
		return []Primitive{polygon(pts...)}
	},
	EyeDots: func(x, y, e float64) []Primitive {
		cx, cy := x+e/2, y+e/2
		// satellites touch the center dot and the edge of the box
		r, sr := e/4, e/8
		off := r + sr
		return []Primitive{
			circle(cx, cy, r),
			circle(cx, cy-off, sr),
			circle(cx+off, cy, sr),
			circle(cx, cy+off, sr),
			circle(cx-off, cy, sr),
		}
	},
	EyeRoundedRect: func(x, y, e float64) []Primitive {
		return []Primitive{roundedRect(x, y, e, e, uniformRadii(e/8))}
	},
	EyeFlower: func(x, y, e float64) []Primitive {
		cx, cy := x+e/2, y+e/2
		r := e / 4
		return []Primitive{
			circle(cx, cy, r),
			circle(cx, cy-r, r),
			circle(cx+r, cy, r),
			circle(cx, cy+r, r),
			circle(cx-r, cy, r),
		}
	},
	EyeLeaf: func(x, y, e float64) []Primitive {
		return []Primitive{roundedRect(x, y, e, e, [4]float64{e / 2, 0, e / 2, 0})}
	},
}

// Geometry returns the generator of the frame, defaulting to square.
func (s FrameShape) Geometry() Geometry {
	if g, ok := frameGeometry[s]; ok {
		return g
	}
	return frameGeometry[FrameSquare]
}

// Geometry returns the generator of the eye, defaulting to square.
func (s EyeShape) Geometry() Geometry {
	if g, ok := eyeGeometry[s]; ok {
		return g
	}
	return eyeGeometry[EyeSquare]
}

// octagon returns a square with its corners cut at 45 degrees by c.
func octagon(x, y, s, c float64) []gg.Point {
	return []gg.Point{
		{X: x + c, Y: y}, {X: x + s - c, Y: y},
		{X: x + s, Y: y + c}, {X: x + s, Y: y + s - c},
		{X: x + s - c, Y: y + s}, {X: x + c, Y: y + s},
		{X: x, Y: y + s - c}, {X: x, Y: y + c},
	}
}

// jaggedSquare returns the outline of a square whose sides carry n
// triangular teeth of the given depth pointing towards the center.
func jaggedSquare(x, y, s, depth float64, n int) []gg.Point {
	step := s / float64(n)
	pts := make([]gg.Point, 0, 8*n)
	// walk the sides clockwise; (dx, dy) is the side direction, (nx, ny) the inward normal
	sides := [4]struct{ ox, oy, dx, dy, nx, ny float64 }{
		{x, y, 1, 0, 0, 1},
		{x + s, y, 0, 1, -1, 0},
		{x + s, y + s, -1, 0, 0, -1},
		{x, y + s, 0, -1, 1, 0},
	}
	for _, sd := range sides {
		for i := 0; i < n; i++ {
			bx, by := sd.ox+sd.dx*float64(i)*step, sd.oy+sd.dy*float64(i)*step
			mid := (float64(i) + 0.5) * step
			pts = append(pts,
				gg.Point{X: bx, Y: by},
				gg.Point{X: sd.ox + sd.dx*mid + sd.nx*depth, Y: sd.oy + sd.dy*mid + sd.ny*depth},
			)
		}
	}
	return pts
}

// cushion returns a square whose corners are carved by quarter circles of radius c.
func cushion(x, y, e, c float64) []gg.Point {
	corners := [4]struct{ cx, cy, a0 float64 }{
		{x + e, y, math.Pi},
		{x + e, y + e, 1.5 * math.Pi},
		{x, y + e, 2 * math.Pi},
		{x, y, 0.5 * math.Pi},
	}
	pts := make([]gg.Point, 0, 4*(arcSegments+1))
	for _, k := range corners {
		for s := 0; s <= arcSegments; s++ {
			a := k.a0 - float64(s)*(math.Pi/2)/arcSegments
			pts = append(pts, gg.Point{X: k.cx + c*math.Cos(a), Y: k.cy + c*math.Sin(a)})
		}
	}
	return pts
}
