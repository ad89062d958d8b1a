package qrstyle

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/esimov/qrstyle/imop"
)

const (
	defaultBoxSize        = 10
	defaultBorder         = 4
	defaultMaxCanvasSide  = 8192
	defaultFinderContrast = 3.0
)

// LogoPosition is the anchor of the logo on the canvas.
type LogoPosition uint8

const (
	LogoCenter LogoPosition = iota
	LogoTopLeft
	LogoTopRight
	LogoBottomLeft
	LogoBottomRight
)

var logoPositionIDs = [...]string{"center", "top-left", "top-right", "bottom-left", "bottom-right"}

func (p LogoPosition) String() string {
	if int(p) < len(logoPositionIDs) {
		return logoPositionIDs[p]
	}
	return "unknown"
}

// ParseLogoPosition resolves a position id. The boolean is false for unknown ids.
func ParseLogoPosition(id string) (LogoPosition, bool) {
	id = normalizeID(id)
	if id == "centre" || id == "middle" {
		return LogoCenter, true
	}
	for i, name := range logoPositionIDs {
		if id == name {
			return LogoPosition(i), true
		}
	}
	return LogoCenter, false
}

// Backing is the opaque shape painted under the logo.
type Backing uint8

const (
	BackingNone Backing = iota
	BackingSquare
	BackingCircle
)

// ParseBacking resolves a backing id. The boolean is false for unknown ids.
func ParseBacking(id string) (Backing, bool) {
	switch normalizeID(id) {
	case "", "none":
		return BackingNone, true
	case "square":
		return BackingSquare, true
	case "circle":
		return BackingCircle, true
	}
	return BackingNone, false
}

// LogoSpec describes the optional logo overlay. Image takes precedence over
// Data; Data holds the encoded image bytes.
type LogoSpec struct {
	Data     []byte
	Image    image.Image
	Ratio    float64
	Position LogoPosition
	Padding  int
	Backing  Backing
	// Blend is one of the imop blend modes, empty for plain source-over.
	Blend string
	// Composite is the imop composition operation used to draw the logo,
	// empty for source-over. The backing is always drawn source-over.
	Composite string
}

// Fallback records a style id which was not recognised and the value used instead.
type Fallback struct {
	Field     string
	Requested string
	Used      string
	Err       error
}

func (f Fallback) String() string {
	return fmt.Sprintf("%s: %q replaced by %q", f.Field, f.Requested, f.Used)
}

// Style is the full description of how a matrix is rendered.
type Style struct {
	Module      ModuleShape
	Mask        ColorMask
	Frame       FrameShape
	Eye         EyeShape
	Background  color.RGBA
	Transparent bool
	Logo        *LogoSpec

	BoxSize int
	Border  int

	// MinFinderContrast is the minimum contrast ratio between the finder
	// patterns and the background. Zero disables the check.
	MinFinderContrast float64
	// MaxCanvasSide bounds the canvas side in pixels. Zero means the default.
	MaxCanvasSide int

	// Fallbacks lists the ids replaced while parsing options.
	Fallbacks []Fallback
}

// DefaultStyle returns black square modules on a white background.
func DefaultStyle() Style {
	return Style{
		Module:            ModuleSquare,
		Mask:              SolidMask(black),
		Frame:             FrameSquare,
		Eye:               EyeSquare,
		Background:        white,
		BoxSize:           defaultBoxSize,
		Border:            defaultBorder,
		MinFinderContrast: defaultFinderContrast,
		MaxCanvasSide:     defaultMaxCanvasSide,
	}
}

// CanvasSide returns the canvas side in pixels for an n x n matrix.
func (s Style) CanvasSide(n int) int {
	return (n + 2*s.Border) * s.BoxSize
}

// Validate checks the numeric parameters of the style.
func (s Style) Validate() error {
	var problems []string
	if s.BoxSize < 1 {
		problems = append(problems, fmt.Sprintf("box size %d", s.BoxSize))
	}
	if s.Border < 0 {
		problems = append(problems, fmt.Sprintf("border %d", s.Border))
	}
	if s.MinFinderContrast < 0 || s.MinFinderContrast > 21 {
		problems = append(problems, fmt.Sprintf("finder contrast %.2f", s.MinFinderContrast))
	}
	if s.MaxCanvasSide < 0 {
		problems = append(problems, fmt.Sprintf("max canvas side %d", s.MaxCanvasSide))
	}
	if l := s.Logo; l != nil {
		if l.Ratio <= 0 || l.Ratio > 1 {
			problems = append(problems, fmt.Sprintf("logo ratio %.2f", l.Ratio))
		}
		if l.Padding < 0 {
			problems = append(problems, fmt.Sprintf("logo padding %d", l.Padding))
		}
		if l.Blend != "" && !imop.IsBlendMode(l.Blend) {
			problems = append(problems, fmt.Sprintf("logo blend %q", l.Blend))
		}
		if l.Composite != "" && !imop.IsCompositeOp(l.Composite) {
			problems = append(problems, fmt.Sprintf("logo composite %q", l.Composite))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidStyle, strings.Join(problems, ", "))
	}
	return nil
}

func (s Style) maxSide() int {
	if s.MaxCanvasSide <= 0 {
		return defaultMaxCanvasSide
	}
	return s.MaxCanvasSide
}

// background returns the canvas fill color.
func (s Style) background() color.RGBA {
	if s.Transparent {
		return color.RGBA{}
	}
	return s.Background
}

// visibleBackground is the color a viewer sees behind the symbol.
// Transparent canvases are assumed to be shown on white.
func (s Style) visibleBackground() color.RGBA {
	if s.Transparent {
		return white
	}
	return s.Background
}
