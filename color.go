package qrstyle

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/esimov/qrstyle/utils"
)

var (
	black = color.RGBA{A: 0xff}
	white = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

var namedColors = map[string]color.RGBA{
	"black":   black,
	"white":   white,
	"red":     {R: 0xff, A: 0xff},
	"green":   {G: 0x80, A: 0xff},
	"lime":    {G: 0xff, A: 0xff},
	"blue":    {B: 0xff, A: 0xff},
	"yellow":  {R: 0xff, G: 0xff, A: 0xff},
	"orange":  {R: 0xff, G: 0xa5, A: 0xff},
	"purple":  {R: 0x80, B: 0x80, A: 0xff},
	"magenta": {R: 0xff, B: 0xff, A: 0xff},
	"cyan":    {G: 0xff, B: 0xff, A: 0xff},
	"gray":    {R: 0x80, G: 0x80, B: 0x80, A: 0xff},
	"grey":    {R: 0x80, G: 0x80, B: 0x80, A: 0xff},
	"navy":    {B: 0x80, A: 0xff},
	"brown":   {R: 0x8b, G: 0x45, B: 0x13, A: 0xff},
}

// ParseColor accepts #rgb, #rrggbb, #rrggbbaa, "r,g,b" triplets and a small
// set of css color names.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[s]; ok {
		return c, nil
	}
	if strings.Contains(s, ",") {
		return parseTriplet(s)
	}

	hex := strings.TrimPrefix(s, "#")
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		fallthrough
	case 6:
		hex += "ff"
	case 8:
	default:
		return color.RGBA{}, fmt.Errorf("%w: malformed color %q", ErrInvalidStyle, s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: malformed color %q", ErrInvalidStyle, s)
	}
	// hex notation is straight alpha, color.RGBA is premultiplied
	c := color.NRGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}
	return color.RGBAModel.Convert(c).(color.RGBA), nil
}

func parseTriplet(s string) (color.RGBA, error) {
	s = strings.Trim(s, "()")
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return color.RGBA{}, fmt.Errorf("%w: malformed color %q", ErrInvalidStyle, s)
	}
	var ch [3]uint8
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || v < 0 || v > 255 {
			return color.RGBA{}, fmt.Errorf("%w: malformed color %q", ErrInvalidStyle, s)
		}
		ch[i] = uint8(v)
	}
	return color.RGBA{R: ch[0], G: ch[1], B: ch[2], A: 0xff}, nil
}

// HexColor formats c as #rrggbb.
func HexColor(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}

// lerp interpolates every premultiplied channel between a and b, rounding
// to nearest.
func lerp(a, b color.RGBA, t float64) color.RGBA {
	t = utils.Clamp(t, 0, 1)
	mix := func(x, y uint8) uint8 {
		v := math.Round(float64(x) + (float64(y)-float64(x))*t)
		return uint8(utils.Clamp(v, 0, 255))
	}
	return color.RGBA{
		R: mix(a.R, b.R),
		G: mix(a.G, b.G),
		B: mix(a.B, b.B),
		A: mix(a.A, b.A),
	}
}

// luminance returns the WCAG relative luminance of c.
func luminance(c color.RGBA) float64 {
	lin := func(v uint8) float64 {
		s := float64(v) / 255
		if s <= 0.03928 {
			return s / 12.92
		}
		return math.Pow((s+0.055)/1.055, 2.4)
	}
	return 0.2126*lin(c.R) + 0.7152*lin(c.G) + 0.0722*lin(c.B)
}

// ContrastRatio returns the WCAG contrast ratio of two colors, in [1, 21].
func ContrastRatio(a, b color.RGBA) float64 {
	la, lb := luminance(a), luminance(b)
	if la < lb {
		la, lb = lb, la
	}
	return (la + 0.05) / (lb + 0.05)
}
