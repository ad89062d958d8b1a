package qrstyle

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/esimov/qrstyle/imop"
	"github.com/esimov/qrstyle/utils"
	"github.com/fogleman/gg"
)

// DecodeLogo decodes the logo bytes. Any failure is reported as ErrLogoDecode.
func DecodeLogo(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: no image data", ErrLogoDecode)
	}
	if ctype := utils.DetectContentType(data); !strings.Contains(ctype, "image") {
		return nil, fmt.Errorf("%w: unexpected content type %s", ErrLogoDecode, ctype)
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLogoDecode, err)
	}
	return img, nil
}

// CompositeLogo resizes the logo and draws it, with its optional backing,
// at the requested position. Only pixels inside the returned rectangle change.
// The margin is the quiet zone width in pixels; corner positions stay inside it.
func CompositeLogo(c *Canvas, logo image.Image, spec LogoSpec, margin int) (image.Rectangle, error) {
	if logo == nil || logo.Bounds().Empty() {
		return image.Rectangle{}, fmt.Errorf("%w: empty image", ErrLogoDecode)
	}
	w, h := c.Size()
	longer := int(math.Round(spec.Ratio * float64(utils.Min(w, h))))
	if longer < 1 {
		return image.Rectangle{}, fmt.Errorf("%w: logo ratio %.3f is too small", ErrInvalidStyle, spec.Ratio)
	}

	lb := logo.Bounds()
	var resized *image.NRGBA
	if lb.Dx() >= lb.Dy() {
		resized = imaging.Resize(logo, longer, 0, imaging.Lanczos)
	} else {
		resized = imaging.Resize(logo, 0, longer, imaging.Lanczos)
	}
	lw, lh := resized.Bounds().Dx(), resized.Bounds().Dy()

	pad := spec.Padding
	box := logoBox(spec.Position, w, h, lw+2*pad, lh+2*pad, margin).Intersect(c.Bounds())
	if box.Empty() {
		return image.Rectangle{}, fmt.Errorf("%w: logo does not fit on the canvas", ErrLogoDecode)
	}

	op := imop.InitOp()
	if spec.Backing != BackingNone {
		fill := c.background
		if fill.A == 0 {
			fill = white
		}
		op.Draw(c.img, box, backingImage(spec.Backing, box.Dx(), box.Dy(), fill), image.Point{}, nil)
	}

	var blend *imop.Blend
	if spec.Blend != "" {
		blend = imop.NewBlend()
		blend.Set(spec.Blend)
	}
	if spec.Composite != "" {
		op.Set(spec.Composite)
	}
	logoRect := image.Rect(0, 0, lw, lh).Add(box.Min).Add(image.Pt(pad, pad)).Intersect(box)
	op.Draw(c.img, logoRect, resized, image.Point{}, blend)

	return box, nil
}

// logoBox returns the rectangle of a bw x bh logo at the given position.
func logoBox(pos LogoPosition, w, h, bw, bh, margin int) image.Rectangle {
	var x, y int
	switch pos {
	case LogoTopLeft:
		x, y = margin, margin
	case LogoTopRight:
		x, y = w-margin-bw, margin
	case LogoBottomLeft:
		x, y = margin, h-margin-bh
	case LogoBottomRight:
		x, y = w-margin-bw, h-margin-bh
	default:
		x, y = (w-bw)/2, (h-bh)/2
	}
	return image.Rect(x, y, x+bw, y+bh)
}

// backingImage renders the opaque shape placed under the logo.
func backingImage(b Backing, w, h int, fill color.RGBA) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	dc := gg.NewContextForRGBA(img)
	dc.SetColor(fill)
	if b == BackingCircle {
		dc.DrawEllipse(float64(w)/2, float64(h)/2, float64(w)/2, float64(h)/2)
	} else {
		dc.DrawRectangle(0, 0, float64(w), float64(h))
	}
	dc.Fill()
	return img
}
