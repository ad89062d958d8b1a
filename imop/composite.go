package imop

import (
	"image"
	"image/color"
	"math"

	"github.com/esimov/qrstyle/utils"
)

const (
	Clear   = "clear"
	Copy    = "copy"
	Dst     = "dst"
	SrcOver = "src_over"
	DstOver = "dst_over"
	SrcIn   = "src_in"
	DstIn   = "dst_in"
	SrcOut  = "src_out"
	DstOut  = "dst_out"
	SrcAtop = "src_atop"
	DstAtop = "dst_atop"
	Xor     = "xor"
)

var compOps = []string{Clear, Copy, Dst, SrcOver, DstOver, SrcIn, DstIn, SrcOut, DstOut, SrcAtop, DstAtop, Xor}

// Composite holds the currently active composition operation.
type Composite struct {
	current string
}

// InitOp returns a Composite using source-over.
func InitOp() *Composite {
	return &Composite{current: SrcOver}
}

// IsCompositeOp reports whether cop is a supported composition operation.
func IsCompositeOp(cop string) bool {
	return utils.Contains(compOps, cop)
}

// Set activates one of the supported composition operations.
// Unsupported values are ignored.
func (op *Composite) Set(cop string) {
	if IsCompositeOp(cop) {
		op.current = cop
	}
}

// Get returns the active composition operation.
func (op *Composite) Get() string {
	return op.current
}

// factors returns the Porter-Duff source and destination weights.
func (op *Composite) factors(as, ab float64) (fa, fb float64) {
	switch op.current {
	case Clear:
		return 0, 0
	case Copy:
		return 1, 0
	case Dst:
		return 0, 1
	case DstOver:
		return 1 - ab, 1
	case SrcIn:
		return ab, 0
	case DstIn:
		return 0, as
	case SrcOut:
		return 1 - ab, 0
	case DstOut:
		return 0, 1 - as
	case SrcAtop:
		return ab, 1 - as
	case DstAtop:
		return 1 - ab, as
	case Xor:
		return 1 - ab, 1 - as
	}
	return 1, 1 - as
}

// Draw composites src onto dst inside r. The point sp of src is aligned with
// r.Min. Only the pixels of dst inside r are written. When blend is set the
// source color is first mixed with the backdrop using the blend mode.
func (op *Composite) Draw(dst *image.RGBA, r image.Rectangle, src image.Image, sp image.Point, blend *Blend) {
	r = r.Intersect(dst.Bounds())
	sr := src.Bounds()
	mode := ""
	if blend != nil {
		mode = blend.Get()
	}

	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			sx, sy := sp.X+x-r.Min.X, sp.Y+y-r.Min.Y

			// premultiplied source, transparent outside its bounds
			var rs, gs, bs, as float64
			if (image.Point{X: sx, Y: sy}).In(sr) {
				r1, g1, b1, a1 := src.At(sx, sy).RGBA()
				rs, gs, bs, as = float64(r1)/0xffff, float64(g1)/0xffff, float64(b1)/0xffff, float64(a1)/0xffff
			}
			d := dst.RGBAAt(x, y)
			rb, gb, bb, ab := float64(d.R)/0xff, float64(d.G)/0xff, float64(d.B)/0xff, float64(d.A)/0xff

			if mode != "" && as > 0 && ab > 0 {
				rs = blendPremul(mode, rs, as, rb, ab)
				gs = blendPremul(mode, gs, as, gb, ab)
				bs = blendPremul(mode, bs, as, bb, ab)
			}

			fa, fb := op.factors(as, ab)
			dst.SetRGBA(x, y, color.RGBA{
				R: toByte(rs*fa + rb*fb),
				G: toByte(gs*fa + gb*fb),
				B: toByte(bs*fa + bb*fb),
				A: toByte(as*fa + ab*fb),
			})
		}
	}
}

// blendPremul applies the separable blend formula
// Cs' = (1 - ab)*Cs + ab*B(Cb, Cs) on premultiplied channels.
func blendPremul(mode string, cs, as, cb, ab float64) float64 {
	s, b := cs/as, cb/ab
	mixed := (1-ab)*s + ab*blendChannel(mode, b, s)
	return utils.Clamp(mixed, 0, 1) * as
}

func toByte(v float64) uint8 {
	return uint8(utils.Clamp(math.Round(v*0xff), 0, 0xff))
}
