package qrstyle

import (
	"image/color"
	"testing"

	"github.com/fogleman/gg"
	"github.com/stretchr/testify/assert"
)

var (
	red  = color.RGBA{R: 255, A: 255}
	blue = color.RGBA{B: 255, A: 255}
)

func TestColor_Parse(t *testing.T) {
	testCases := []struct {
		in   string
		want color.RGBA
	}{
		{"#000", black},
		{"#ff0000", red},
		{"#0000FF", blue},
		{"#ff000080", color.RGBA{R: 0x80, A: 0x80}},
		{"#11223344", color.RGBA{R: 0x04, G: 0x09, B: 0x0d, A: 0x44}},
		{"#ffffff00", color.RGBA{}},
		{"white", white},
		{" Navy ", color.RGBA{B: 0x80, A: 0xff}},
		{"0, 102, 204", color.RGBA{G: 102, B: 204, A: 255}},
	}
	for _, tc := range testCases {
		c, err := ParseColor(tc.in)
		assert.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, c, tc.in)
	}

	for _, in := range []string{"", "#12", "#gggggg", "1,2", "300,0,0", "blurple"} {
		_, err := ParseColor(in)
		assert.ErrorIs(t, err, ErrInvalidStyle, in)
	}
	assert.Equal(t, "#0066cc", HexColor(color.RGBA{G: 102, B: 204, A: 255}))
}

func TestColor_ContrastRatio(t *testing.T) {
	assert := assert.New(t)

	assert.InDelta(21.0, ContrastRatio(black, white), 1e-9)
	assert.InDelta(21.0, ContrastRatio(white, black), 1e-9)
	assert.InDelta(1.0, ContrastRatio(red, red), 1e-9)
	assert.Less(ContrastRatio(color.RGBA{R: 0xf0, G: 0xf0, B: 0xf0, A: 0xff}, white), 1.2)
}

func TestMask_HorizontalEndpoints(t *testing.T) {
	assert := assert.New(t)

	m := GradientMask(MaskHorizontal, red, blue)
	assert.Equal(red, m.ColorAt(0, 0, 300, 300))
	assert.Equal(red, m.ColorAt(0, 299, 300, 300))

	right := m.ColorAt(299, 150, 300, 300)
	assert.InDelta(0, int(right.R), 1)
	assert.InDelta(0, int(right.G), 1)
	assert.InDelta(255, int(right.B), 1)

	mid := m.ColorAt(150, 0, 301, 301)
	assert.Equal(color.RGBA{R: 128, B: 128, A: 255}, mid)
}

func TestMask_Boundaries(t *testing.T) {
	const w, h = 101, 101
	testCases := []struct {
		kind       MaskKind
		start, end [2]int
	}{
		{MaskVertical, [2]int{50, 0}, [2]int{50, 100}},
		{MaskDiagonal, [2]int{0, 0}, [2]int{100, 100}},
		{MaskRadial, [2]int{50, 50}, [2]int{0, 0}},
		{MaskSquare, [2]int{50, 50}, [2]int{100, 0}},
	}
	for _, tc := range testCases {
		t.Run(tc.kind.String(), func(t *testing.T) {
			m := GradientMask(tc.kind, red, blue)
			assert.Equal(t, red, m.ColorAt(tc.start[0], tc.start[1], w, h))
			assert.Equal(t, blue, m.ColorAt(tc.end[0], tc.end[1], w, h))
		})
	}

	// the square mask reaches its last stop along the whole border
	sq := GradientMask(MaskSquare, red, blue)
	assert.Equal(t, blue, sq.ColorAt(100, 37, w, h))
	// the radial one only at the corners
	rd := GradientMask(MaskRadial, red, blue)
	assert.NotEqual(t, blue, rd.ColorAt(100, 50, w, h))
}

func TestMask_OffCenterRadial(t *testing.T) {
	m := GradientMask(MaskRadial, red, blue)
	m.Center = gg.Point{X: 0, Y: 0}

	assert.Equal(t, red, m.ColorAt(0, 0, 11, 11))
	assert.Equal(t, blue, m.ColorAt(10, 10, 11, 11))
}

func TestMask_MultiStop(t *testing.T) {
	assert := assert.New(t)

	green := color.RGBA{G: 255, A: 255}
	m := GradientMask(MaskHorizontal, red, green, blue)
	assert.Equal(red, m.ColorAt(0, 0, 101, 1))
	assert.Equal(green, m.ColorAt(50, 0, 101, 1))
	assert.Equal(blue, m.ColorAt(100, 0, 101, 1))
	assert.Equal(color.RGBA{R: 128, G: 128, A: 255}, m.ColorAt(25, 0, 101, 1))
}

func TestMask_Degenerate(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(black, ColorMask{Kind: MaskRadial}.ColorAt(3, 3, 10, 10))
	assert.Equal(red, GradientMask(MaskVertical, red).ColorAt(3, 9, 10, 10))
	assert.Equal(red, ColorMask{Kind: MaskSolid, Stops: []color.RGBA{red, blue}}.ColorAt(9, 9, 10, 10))
	// a one pixel canvas must not divide by zero
	assert.Equal(red, GradientMask(MaskRadial, red, blue).ColorAt(0, 0, 1, 1))

	k, ok := ParseMaskKind("radial_gradient")
	assert.True(ok)
	assert.Equal(MaskRadial, k)
	_, ok = ParseMaskKind("plaid")
	assert.False(ok)
}
