package export

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/esimov/qrstyle/utils"
	"golang.org/x/image/bmp"
)

// nearWhite is the channel value above which a pixel is treated as background
// by the transparent PNG post-process.
const nearWhite = 240

// prepare copies the image into an NRGBA buffer, applying the output scale.
func prepare(img image.Image, opts Options) *image.NRGBA {
	dst := imaging.Clone(img)
	if s := opts.scale(); s != 1 {
		w := int(math.Round(float64(dst.Bounds().Dx()) * s))
		h := int(math.Round(float64(dst.Bounds().Dy()) * s))
		if w > 0 && h > 0 {
			dst = imaging.Resize(dst, w, h, imaging.NearestNeighbor)
		}
	}
	return dst
}

// clearNearWhite makes every near white pixel fully transparent.
func clearNearWhite(img *image.NRGBA) {
	for i := 0; i+3 < len(img.Pix); i += 4 {
		if img.Pix[i] > nearWhite && img.Pix[i+1] > nearWhite && img.Pix[i+2] > nearWhite {
			img.Pix[i+3] = 0
		}
	}
}

// EncodePNG writes a PNG carrying the requested density in a pHYs chunk.
func EncodePNG(img image.Image, opts Options) ([]byte, error) {
	dst := prepare(img, opts)
	if opts.Transparent {
		clearNearWhite(dst)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, dst, imaging.PNG); err != nil {
		return nil, err
	}
	return withDensity(buf.Bytes(), opts.dpi())
}

// pngHeaderEnd is the offset right after the signature and the IHDR chunk.
const pngHeaderEnd = 8 + 4 + 4 + 13 + 4

// withDensity inserts a pHYs chunk after IHDR.
func withDensity(data []byte, dpi int) ([]byte, error) {
	if len(data) < pngHeaderEnd || string(data[12:16]) != "IHDR" {
		return nil, errors.New("malformed png stream")
	}
	ppm := uint32(math.Round(float64(dpi) / 0.0254))

	chunk := make([]byte, 4+4+9+4)
	binary.BigEndian.PutUint32(chunk[0:], 9)
	copy(chunk[4:], "pHYs")
	binary.BigEndian.PutUint32(chunk[8:], ppm)
	binary.BigEndian.PutUint32(chunk[12:], ppm)
	chunk[16] = 1 // unit: meter
	binary.BigEndian.PutUint32(chunk[17:], crc32.ChecksumIEEE(chunk[4:17]))

	out := make([]byte, 0, len(data)+len(chunk))
	out = append(out, data[:pngHeaderEnd]...)
	out = append(out, chunk...)
	return append(out, data[pngHeaderEnd:]...), nil
}

// PNGDensity returns the density stored in the pHYs chunk of a PNG, in dots per inch.
func PNGDensity(data []byte) (int, bool) {
	for off := 8; off+12 <= len(data); {
		n := int(binary.BigEndian.Uint32(data[off:]))
		typ := string(data[off+4 : off+8])
		if off+12+n > len(data) {
			return 0, false
		}
		if typ == "pHYs" && n == 9 {
			body := data[off+8 : off+8+n]
			if body[8] != 1 {
				return 0, false
			}
			ppm := binary.BigEndian.Uint32(body)
			return int(math.Round(float64(ppm) * 0.0254)), true
		}
		if typ == "IDAT" || typ == "IEND" {
			return 0, false
		}
		off += 12 + n
	}
	return 0, false
}

// flatten composites the image over an opaque white background.
func flatten(img *image.NRGBA) *image.NRGBA {
	b := img.Bounds()
	bg := imaging.New(b.Dx(), b.Dy(), color.White)
	return imaging.Overlay(bg, img, image.Point{}, 1.0)
}

// EncodeJPEG writes a baseline JPEG. Transparency is flattened over white.
func EncodeJPEG(img image.Image, opts Options) ([]byte, error) {
	q := utils.Clamp(opts.quality(), 1, 100)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, flatten(prepare(img, opts)), imaging.JPEG, imaging.JPEGQuality(q)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeBMP writes an uncompressed bitmap.
func EncodeBMP(img image.Image, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, prepare(img, opts)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
