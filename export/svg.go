package export

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html"
	"image"
	"image/color"
	"time"

	"github.com/disintegration/imaging"
)

// span is a horizontal run of equally colored foreground pixels.
type span struct {
	x, y, n int
	c       color.NRGBA
}

// luminance returns the 8 bit luma of an opaque color.
func luminance(c color.NRGBA) uint8 {
	return uint8((0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)) + 0.5)
}

// threshold reduces the image to one bit per pixel. A pixel is foreground
// when its luma falls on the other side of 128 than the background's luma.
// The background is sampled at the top-left pixel, inside the quiet zone.
// Transparent pixels are always background.
func threshold(img *image.NRGBA) []bool {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	bits := make([]bool, w*h)
	if w == 0 || h == 0 {
		return bits
	}
	bg := img.NRGBAAt(b.Min.X, b.Min.Y)
	darkBg := bg.A >= 128 && luminance(bg) < 128

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := img.NRGBAAt(b.Min.X+x, b.Min.Y+y)
			if c.A < 128 {
				continue
			}
			dark := luminance(c) < 128
			bits[y*w+x] = dark != darkBg
		}
	}
	return bits
}

// traceSpans run-length encodes every row of foreground pixels. With mono
// set a span only ends at a background pixel, otherwise also at a color change.
func traceSpans(img *image.NRGBA, mono bool) []span {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	bits := threshold(img)

	var spans []span
	for y := 0; y < h; y++ {
		for x := 0; x < w; {
			if !bits[y*w+x] {
				x++
				continue
			}
			c := img.NRGBAAt(b.Min.X+x, b.Min.Y+y)
			if mono {
				c = color.NRGBA{A: 0xff}
			}
			start := x
			for x < w && bits[y*w+x] && (mono || img.NRGBAAt(b.Min.X+x, b.Min.Y+y) == c) {
				x++
			}
			spans = append(spans, span{x: start, y: y, n: x - start, c: c})
		}
	}
	return spans
}

// ExportSVG expresses the image as an SVG Tiny 1.2 document, either traced
// into rectangles or embedded as a PNG, scaled by the given factor.
func ExportSVG(img image.Image, scale float64, mode SVGMode) ([]byte, error) {
	opts := DefaultOptions()
	opts.Scale = scale
	opts.SVGMode = mode
	return EncodeSVG(img, opts)
}

// EncodeSVG is the SVG exporter.
func EncodeSVG(img image.Image, opts Options) ([]byte, error) {
	src := imaging.Clone(img)
	b := src.Bounds()
	scale := opts.scale()
	w, h := float64(b.Dx())*scale, float64(b.Dy())*scale

	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" `+
		`version="1.2" baseProfile="tiny" width="%s" height="%s" viewBox="0 0 %s %s">`+"\n",
		num(w), num(h), num(w), num(h))
	if opts.Title != "" {
		fmt.Fprintf(&buf, "<title>%s</title>\n", html.EscapeString(opts.Title))
	}
	fmt.Fprintf(&buf, "<desc>QR code generated on %s</desc>\n", opts.now().UTC().Format(time.RFC3339))

	switch opts.SVGMode {
	case SVGEmbed:
		var png bytes.Buffer
		if err := imaging.Encode(&png, src, imaging.PNG); err != nil {
			return nil, err
		}
		fmt.Fprintf(&buf, `<image x="0" y="0" width="%s" height="%s" xlink:href="data:image/png;base64,%s"/>`+"\n",
			num(w), num(h), base64.StdEncoding.EncodeToString(png.Bytes()))
	default:
		if bg := src.NRGBAAt(b.Min.X, b.Min.Y); bg.A == 0xff {
			fill := hexColor(bg)
			if opts.Mono {
				fill = "#ffffff"
			}
			fmt.Fprintf(&buf, `<rect x="0" y="0" width="%s" height="%s" fill="%s"/>`+"\n", num(w), num(h), fill)
		}
		for _, s := range traceSpans(src, opts.Mono) {
			fmt.Fprintf(&buf, `<rect x="%s" y="%s" width="%s" height="%s" fill="%s"/>`+"\n",
				num(float64(s.x)*scale), num(float64(s.y)*scale),
				num(float64(s.n)*scale), num(scale), hexColor(s.c))
		}
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

func hexColor(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// num formats a coordinate without trailing zeros.
func num(v float64) string {
	return fmt.Sprintf("%g", float64(int64(v*100+0.5))/100)
}
