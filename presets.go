package qrstyle

import (
	"image/color"
	"sort"
)

// Preset is a named, predefined style.
type Preset struct {
	Name        string
	Description string
	Module      ModuleShape
	Frame       FrameShape
	Eye         EyeShape
	Mask        ColorMask
	Background  color.RGBA
}

func rgb(r, g, b uint8) color.RGBA { return color.RGBA{R: r, G: g, B: b, A: 0xff} }

func radial(inner, outer color.RGBA) ColorMask { return GradientMask(MaskRadial, inner, outer) }

var presets = map[string]Preset{
	"classic": {
		Description: "black square modules on white",
		Module:      ModuleSquare,
		Mask:        SolidMask(black),
		Background:  white,
	},
	"rounded": {
		Description: "rounded black modules on white",
		Module:      ModuleRoundedSquare,
		Frame:       FrameRoundedSquare,
		Eye:         EyeRounded,
		Mask:        SolidMask(black),
		Background:  white,
	},
	"dots": {
		Description: "circular black modules on white",
		Module:      ModuleCircle,
		Frame:       FrameCircle,
		Eye:         EyeCircle,
		Mask:        SolidMask(black),
		Background:  white,
	},
	"modern_blue": {
		Description: "rounded modules with a vertical blue gradient",
		Module:      ModuleRoundedSquare,
		Frame:       FrameRounded,
		Eye:         EyeRoundedRect,
		Mask:        GradientMask(MaskVertical, rgb(0, 102, 204), rgb(0, 51, 153)),
		Background:  white,
	},
	"sunset": {
		Description: "circles fading from orange to red",
		Module:      ModuleCircle,
		Frame:       FrameRoundedSquare,
		Eye:         EyeCircle,
		Mask:        GradientMask(MaskHorizontal, rgb(255, 102, 0), rgb(204, 0, 0)),
		Background:  white,
	},
	"forest": {
		Description: "radial green gradient",
		Module:      ModuleSquare,
		Eye:         EyeLeaf,
		Mask:        radial(rgb(0, 102, 0), rgb(0, 51, 0)),
		Background:  white,
	},
	"ocean": {
		Description: "rounded modules with a radial blue gradient",
		Module:      ModuleRoundedSquare,
		Frame:       FrameRounded,
		Eye:         EyeCushion,
		Mask:        radial(rgb(0, 153, 204), rgb(0, 51, 102)),
		Background:  white,
	},
	"barcode": {
		Description: "vertical bars",
		Module:      ModuleVerticalBar,
		Mask:        SolidMask(black),
		Background:  white,
	},
	"elegant": {
		Description: "gapped dark gray squares on off-white",
		Module:      ModuleGappedSquare,
		Frame:       FrameCornerCut,
		Eye:         EyeDiamond,
		Mask:        SolidMask(rgb(51, 51, 51)),
		Background:  rgb(245, 245, 245),
	},
	"neon": {
		Description: "cyan to magenta glow on a dark background",
		Module:      ModuleRoundedSquare,
		Frame:       FrameRounded,
		Eye:         EyeFlower,
		Mask:        radial(rgb(0, 255, 204), rgb(255, 0, 255)),
		Background:  rgb(20, 20, 40),
	},
	"vintage": {
		Description: "sepia squares on cornsilk",
		Module:      ModuleSquare,
		Frame:       FrameRounded,
		Eye:         EyeLeaf,
		Mask:        SolidMask(rgb(139, 69, 19)),
		Background:  rgb(255, 248, 220),
	},
	"rainbow": {
		Description: "circles over a six color horizontal spectrum",
		Module:      ModuleCircle,
		Frame:       FrameCircle,
		Eye:         EyeCircle,
		Mask: GradientMask(MaskHorizontal,
			rgb(255, 0, 0), rgb(255, 127, 0), rgb(230, 170, 0),
			rgb(0, 160, 0), rgb(0, 0, 255), rgb(139, 0, 255),
		),
		Background: white,
	},
	"pixelated": {
		Description: "pixel grid modules with a square blue gradient",
		Module:      ModulePixelGrid,
		Frame:       FrameSquare,
		Eye:         EyeSquare,
		Mask:        GradientMask(MaskSquare, rgb(52, 152, 219), rgb(41, 128, 185)),
		Background:  rgb(236, 240, 241),
	},
	"industrial": {
		Description: "horizontal bars on steel gray",
		Module:      ModuleHorizontalBar,
		Frame:       FrameCornerCut,
		Eye:         EyeSquare,
		Mask:        SolidMask(rgb(50, 50, 50)),
		Background:  rgb(180, 180, 180),
	},
}

func init() {
	for name, p := range presets {
		p.Name = name
		presets[name] = p
	}
}

// LookupPreset returns the preset registered under name.
func LookupPreset(name string) (Preset, bool) {
	p, ok := presets[normalizePreset(name)]
	if ok {
		// stops are shared, hand out a private copy
		p.Mask.Stops = append([]color.RGBA(nil), p.Mask.Stops...)
	}
	return p, ok
}

// Presets returns the names of all presets in alphabetical order.
func Presets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply copies the preset's shapes and colors into the style.
func (p Preset) Apply(s Style) Style {
	s.Module = p.Module
	s.Frame = p.Frame
	s.Eye = p.Eye
	s.Mask = p.Mask
	s.Mask.Stops = append([]color.RGBA(nil), p.Mask.Stops...)
	s.Background = p.Background
	return s
}

// normalizePreset accepts dashes for the underscores of the preset names.
func normalizePreset(name string) string {
	id := normalizeID(name)
	out := make([]byte, len(id))
	for i := 0; i < len(id); i++ {
		if id[i] == '-' {
			out[i] = '_'
		} else {
			out[i] = id[i]
		}
	}
	return string(out)
}
