package qrstyle

import (
	"fmt"
	"image"
)

// finderModules is the side of a finder pattern, in modules.
const finderModules = 7

// Matrix is an immutable square grid of modules. A set module is painted
// with the foreground shape, an unset one is left as background.
type Matrix struct {
	size int
	bits []bool
}

// NewMatrix copies the rows into a new Matrix. The rows must form a square
// at least as large as a finder pattern.
func NewMatrix(rows [][]bool) (*Matrix, error) {
	n := len(rows)
	if n < finderModules {
		return nil, fmt.Errorf("%w: side %d is smaller than %d", ErrInvalidMatrix, n, finderModules)
	}
	bits := make([]bool, n*n)
	for r, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("%w: row %d has %d modules, expected %d", ErrInvalidMatrix, r, len(row), n)
		}
		copy(bits[r*n:], row)
	}
	return &Matrix{size: n, bits: bits}, nil
}

// Size returns the number of modules per side.
func (m *Matrix) Size() int { return m.size }

// At reports whether the module at (row, col) is set. Out of range
// coordinates are reported as unset.
func (m *Matrix) At(row, col int) bool {
	if row < 0 || col < 0 || row >= m.size || col >= m.size {
		return false
	}
	return m.bits[row*m.size+col]
}

// Version returns the QR version matching the matrix side, or 0 if the side
// is not one of the standard 17+4v sizes.
func (m *Matrix) Version() int {
	if m.size < 21 || (m.size-17)%4 != 0 {
		return 0
	}
	if v := (m.size - 17) / 4; v <= 40 {
		return v
	}
	return 0
}

// Corner identifies one of the three finder pattern anchors.
type Corner uint8

const (
	TopLeft Corner = iota
	TopRight
	BottomLeft
)

func (c Corner) String() string {
	switch c {
	case TopLeft:
		return "top-left"
	case TopRight:
		return "top-right"
	case BottomLeft:
		return "bottom-left"
	}
	return "unknown"
}

// FinderRegion is the pixel bounding box of one finder pattern.
type FinderRegion struct {
	Corner Corner
	Rect   image.Rectangle
}

// FinderRegions returns the pixel boxes of the three finder patterns
// for the given module size and quiet zone width (in modules).
func (m *Matrix) FinderRegions(box, border int) [3]FinderRegion {
	side := finderModules * box
	far := border + m.size - finderModules
	anchors := [3]struct {
		c      Corner
		mx, my int
	}{
		{TopLeft, border, border},
		{TopRight, far, border},
		{BottomLeft, border, far},
	}
	var regions [3]FinderRegion
	for i, a := range anchors {
		x, y := a.mx*box, a.my*box
		regions[i] = FinderRegion{
			Corner: a.c,
			Rect:   image.Rect(x, y, x+side, y+side),
		}
	}
	return regions
}

// inFinder reports whether the module at (row, col) belongs to a finder pattern.
func (m *Matrix) inFinder(row, col int) bool {
	far := m.size - finderModules
	switch {
	case row < finderModules && col < finderModules:
		return true
	case row < finderModules && col >= far:
		return true
	case row >= far && col < finderModules:
		return true
	}
	return false
}
