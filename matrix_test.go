package qrstyle

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blankRows returns an n x n grid with every module light.
func blankRows(n int) [][]bool {
	rows := make([][]bool, n)
	for i := range rows {
		rows[i] = make([]bool, n)
	}
	return rows
}

// checkerMatrix returns an n x n matrix with alternating modules.
func checkerMatrix(t *testing.T, n int) *Matrix {
	rows := blankRows(n)
	for r := range rows {
		for c := range rows[r] {
			rows[r][c] = (r+c)%2 == 0
		}
	}
	m, err := NewMatrix(rows)
	require.NoError(t, err)
	return m
}

func TestMatrix_New(t *testing.T) {
	assert := assert.New(t)

	rows := blankRows(21)
	rows[3][5] = true
	m, err := NewMatrix(rows)
	assert.NoError(err)
	assert.Equal(21, m.Size())
	assert.Equal(1, m.Version())
	assert.True(m.At(3, 5))
	assert.False(m.At(5, 3))
	assert.False(m.At(-1, 0))
	assert.False(m.At(0, 21))

	// the caller's rows are copied
	rows[3][5] = false
	assert.True(m.At(3, 5))

	m, err = NewMatrix(blankRows(8))
	assert.NoError(err)
	assert.Zero(m.Version())
}

func TestMatrix_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		rows [][]bool
	}{
		{"empty", nil},
		{"too small", blankRows(6)},
		{"not square", append(blankRows(21), make([]bool, 21))},
		{"ragged", func() [][]bool { r := blankRows(21); r[4] = r[4][:20]; return r }()},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewMatrix(tc.rows)
			assert.ErrorIs(t, err, ErrInvalidMatrix)
		})
	}
}

func TestMatrix_FinderRegions(t *testing.T) {
	m, err := NewMatrix(blankRows(21))
	require.NoError(t, err)

	regions := m.FinderRegions(10, 4)
	assert.Equal(t, [3]FinderRegion{
		{Corner: TopLeft, Rect: image.Rect(40, 40, 110, 110)},
		{Corner: TopRight, Rect: image.Rect(180, 40, 250, 110)},
		{Corner: BottomLeft, Rect: image.Rect(40, 180, 110, 250)},
	}, regions)

	assert.True(t, m.inFinder(0, 0))
	assert.True(t, m.inFinder(6, 20))
	assert.True(t, m.inFinder(20, 6))
	assert.False(t, m.inFinder(20, 20))
	assert.False(t, m.inFinder(7, 7))
}
