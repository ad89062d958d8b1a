package qrstyle

import "go.uber.org/zap"

// RenderModules paints every dark module of the matrix with the style's
// module shape and color mask. Light modules keep the background and the
// finder patterns are left to OverrideFinders.
// It reports whether the shape was unknown and square was used instead.
func RenderModules(c *Canvas, m *Matrix, s Style) (fallback bool) {
	geom, ok := moduleGeometry[s.Module]
	if !ok {
		geom = moduleGeometry[ModuleSquare]
		fallback = true
		Logger().Warn("unknown module shape, using square",
			zap.String("requested", s.Module.String()),
		)
	}

	w, h := c.Size()
	box := float64(s.BoxSize)
	n := m.Size()
	prims := make([]Primitive, 0, n*n/2)
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			if !m.At(row, col) || m.inFinder(row, col) {
				continue
			}
			x := float64((s.Border + col) * s.BoxSize)
			y := float64((s.Border + row) * s.BoxSize)
			prims = append(prims, geom(x, y, box)...)
		}
	}
	newPainter(c.img).fillUnion(prims, maskPattern{mask: s.Mask, w: w, h: h})
	return fallback
}
