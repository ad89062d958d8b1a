package imop

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComp_Basic(t *testing.T) {
	assert := assert.New(t)

	op := InitOp()
	assert.Equal(SrcOver, op.Get())

	op.Set(Clear)
	assert.Equal(Clear, op.Get())

	op.Set("unsupported_composite_operation")
	assert.Equal(Clear, op.Get())

	op.Set(Dst)
	assert.Equal(Dst, op.Get())

	assert.True(IsCompositeOp(DstOver))
	assert.False(IsCompositeOp("dst-over"))
	assert.False(IsCompositeOp(""))
}

func TestComp_Ops(t *testing.T) {
	assert := assert.New(t)

	transparent := color.RGBA{}
	cyan := color.RGBA{R: 33, G: 150, B: 243, A: 255}
	magenta := color.RGBA{R: 233, G: 30, B: 99, A: 255}

	rect := image.Rect(0, 0, 10, 10)
	source := image.NewRGBA(rect)
	draw.Draw(source, image.Rect(0, 4, 6, 10), &image.Uniform{cyan}, image.Point{}, draw.Src)

	cases := []struct {
		op                           string
		topRight, bottomLeft, center color.RGBA
	}{
		{Clear, transparent, transparent, transparent},
		{Copy, transparent, cyan, cyan},
		{Dst, magenta, transparent, magenta},
		{SrcOver, magenta, cyan, cyan},
		{DstOver, magenta, cyan, magenta},
		{SrcIn, transparent, transparent, cyan},
		{DstIn, transparent, transparent, magenta},
		{SrcOut, transparent, cyan, transparent},
		{DstOut, magenta, transparent, transparent},
		{SrcAtop, magenta, transparent, cyan},
		{DstAtop, transparent, cyan, magenta},
		{Xor, magenta, cyan, transparent},
	}

	for _, tc := range cases {
		t.Run(tc.op, func(t *testing.T) {
			backdrop := image.NewRGBA(rect)
			draw.Draw(backdrop, image.Rect(4, 0, 10, 6), &image.Uniform{magenta}, image.Point{}, draw.Src)

			op := InitOp()
			op.Set(tc.op)
			op.Draw(backdrop, rect, source, image.Point{}, nil)

			// Pick three representative pixels: backdrop only, source only and the overlap.
			assert.Equal(tc.topRight, backdrop.RGBAAt(9, 0))
			assert.Equal(tc.bottomLeft, backdrop.RGBAAt(0, 9))
			assert.Equal(tc.center, backdrop.RGBAAt(5, 5))
		})
	}
}

func TestComp_DrawTouchesOnlyTargetRect(t *testing.T) {
	assert := assert.New(t)

	red := color.RGBA{R: 255, A: 255}
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}

	dst := image.NewRGBA(image.Rect(0, 0, 20, 20))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{white}, image.Point{}, draw.Src)
	src := image.NewUniform(red)

	target := image.Rect(5, 5, 10, 10)
	InitOp().Draw(dst, target, src, image.Point{}, nil)

	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			if (image.Point{X: x, Y: y}).In(target) {
				assert.Equal(red, dst.RGBAAt(x, y))
			} else {
				assert.Equal(white, dst.RGBAAt(x, y))
			}
		}
	}
}

func TestComp_SourceOffset(t *testing.T) {
	assert := assert.New(t)

	blue := color.RGBA{B: 255, A: 255}
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	src.SetRGBA(3, 3, blue)

	dst := image.NewRGBA(image.Rect(0, 0, 4, 4))
	InitOp().Draw(dst, image.Rect(0, 0, 1, 1), src, image.Point{X: 3, Y: 3}, nil)

	assert.Equal(blue, dst.RGBAAt(0, 0))
	assert.Equal(color.RGBA{}, dst.RGBAAt(1, 1))
}

func TestComp_HalfTransparentSourceOver(t *testing.T) {
	assert := assert.New(t)

	dst := image.NewRGBA(image.Rect(0, 0, 1, 1))
	dst.SetRGBA(0, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})

	// premultiplied black at half opacity
	src := image.NewUniform(color.RGBA{A: 128})
	InitOp().Draw(dst, dst.Bounds(), src, image.Point{}, nil)

	got := dst.RGBAAt(0, 0)
	assert.Equal(uint8(255), got.A)
	assert.InDelta(127, int(got.R), 1)
	assert.Equal(got.R, got.G)
	assert.Equal(got.G, got.B)
}
