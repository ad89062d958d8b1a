package imop

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBlend_Basic(t *testing.T) {
	assert := assert.New(t)

	op := NewBlend()
	assert.Empty(op.Get())

	op.Set("blend_mode_not_supported")
	assert.Empty(op.Get())

	op.Set(Darken)
	assert.Equal(Darken, op.Get())
	op.Set(Lighten)
	assert.Equal(Lighten, op.Get())

	assert.True(IsBlendMode(Overlay))
	assert.False(IsBlendMode("hue"))
}

func TestBlend_Modes(t *testing.T) {
	assert := assert.New(t)

	pinkFront := color.RGBA{R: 214, G: 20, B: 65, A: 255}
	orangeBack := color.RGBA{R: 250, G: 121, B: 17, A: 255}

	cases := []struct {
		mode     string
		expected []uint8
	}{
		{Darken, []uint8{214, 20, 17, 255}},
		{Lighten, []uint8{250, 121, 65, 255}},
		{Multiply, []uint8{210, 9, 4, 255}},
		{Screen, []uint8{254, 132, 78, 255}},
	}

	rect := image.Rect(0, 0, 1, 1)
	for _, tc := range cases {
		t.Run(tc.mode, func(t *testing.T) {
			backdrop := image.NewRGBA(rect)
			backdrop.SetRGBA(0, 0, orangeBack)

			blend := NewBlend()
			blend.Set(tc.mode)
			InitOp().Draw(backdrop, rect, image.NewUniform(pinkFront), image.Point{}, blend)

			assert.EqualValues(tc.expected, backdrop.Pix)
		})
	}
}

func TestBlend_TransparentBackdropKeepsSource(t *testing.T) {
	assert := assert.New(t)

	pink := color.RGBA{R: 214, G: 20, B: 65, A: 255}
	rect := image.Rect(0, 0, 1, 1)
	backdrop := image.NewRGBA(rect)

	blend := NewBlend()
	blend.Set(Multiply)
	InitOp().Draw(backdrop, rect, image.NewUniform(pink), image.Point{}, blend)

	assert.Equal(pink, backdrop.RGBAAt(0, 0))
}
