package qrstyle

import (
	"fmt"
	"image"
	"image/color"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

// badgeSupersample is the oversampling factor used while drawing badges.
const badgeSupersample = 4

type badge struct {
	fill  color.RGBA
	disc  bool
	label string
}

var socialBadges = map[string]badge{
	"facebook":  {fill: rgb(0x18, 0x77, 0xf2), disc: true, label: "f"},
	"twitter":   {fill: rgb(0x1d, 0xa1, 0xf2), disc: true, label: "X"},
	"instagram": {fill: rgb(0xe4, 0x40, 0x5f), label: "I"},
	"linkedin":  {fill: rgb(0x0a, 0x66, 0xc2), label: "in"},
	"youtube":   {fill: rgb(0xff, 0x00, 0x00), label: "Y"},
	"tiktok":    {fill: rgb(0x00, 0x00, 0x00), label: "T"},
	"snapchat":  {fill: rgb(0xff, 0xfc, 0x00), label: "S"},
	"pinterest": {fill: rgb(0xe6, 0x00, 0x23), disc: true, label: "P"},
	"whatsapp":  {fill: rgb(0x25, 0xd3, 0x66), disc: true, label: "W"},
	"telegram":  {fill: rgb(0x26, 0xa5, 0xe4), disc: true, label: "T"},
	"website":   {fill: rgb(0x33, 0x33, 0x33), disc: true, label: "www"},
	"email":     {fill: rgb(0xea, 0x43, 0x35), label: "@"},
	"phone":     {fill: rgb(0x34, 0xa8, 0x53), disc: true, label: "P"},
}

// SocialPlatforms returns the platforms SocialBadge can draw.
func SocialPlatforms() []string {
	names := make([]string, 0, len(socialBadges))
	for name := range socialBadges {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SocialBadge draws a size x size logo for a social platform: the platform
// color as a disc or a rounded square, with its initial in the middle.
// Unknown platforms are reported as ErrLogoDecode, like any unusable logo.
func SocialBadge(platform string, size int) (image.Image, error) {
	b, ok := socialBadges[strings.ToLower(strings.TrimSpace(platform))]
	if !ok {
		return nil, fmt.Errorf("%w: unknown social platform %q", ErrLogoDecode, platform)
	}
	if size < 1 {
		return nil, fmt.Errorf("%w: badge size %d", ErrInvalidStyle, size)
	}

	side := float64(size * badgeSupersample)
	dc := gg.NewContext(int(side), int(side))
	dc.SetColor(b.fill)
	if b.disc {
		dc.DrawCircle(side/2, side/2, side/2)
	} else {
		dc.DrawRoundedRectangle(0, 0, side, side, side/5)
	}
	dc.Fill()

	// the label fills about half of the badge height
	face := basicfont.Face7x13
	k := side * 0.5 / float64(face.Height)
	if w := float64(face.Advance * len(b.label)); w*k > side*0.7 {
		k = side * 0.7 / w
	}
	dc.SetColor(labelColor(b.fill))
	dc.SetFontFace(face)
	dc.ScaleAbout(k, k, side/2, side/2)
	dc.DrawStringAnchored(b.label, side/2, side/2, 0.5, 0.35)

	return imaging.Resize(dc.Image(), size, size, imaging.Lanczos), nil
}

// labelColor keeps the label readable on light badges.
func labelColor(fill color.RGBA) color.RGBA {
	if ContrastRatio(white, fill) < 1.5 {
		return black
	}
	return white
}
