package export

import (
	"fmt"
	"strings"
	"time"
)

// PageSize is a paper format in millimeters, portrait orientation.
type PageSize struct {
	Name          string
	Width, Height float64
}

var (
	A3     = PageSize{Name: "a3", Width: 297, Height: 420}
	A4     = PageSize{Name: "a4", Width: 210, Height: 297}
	A5     = PageSize{Name: "a5", Width: 148, Height: 210}
	Letter = PageSize{Name: "letter", Width: 215.9, Height: 279.4}
)

var pageSizes = map[string]PageSize{
	A3.Name:     A3,
	A4.Name:     A4,
	A5.Name:     A5,
	Letter.Name: Letter,
}

// ParsePageSize resolves a page size name. The boolean is false for unknown names.
func ParsePageSize(name string) (PageSize, bool) {
	p, ok := pageSizes[strings.ToLower(strings.TrimSpace(name))]
	return p, ok
}

// SVGMode selects how a raster symbol is expressed as SVG.
type SVGMode uint8

const (
	// SVGTrace emits one rectangle per run of equally colored foreground pixels.
	SVGTrace SVGMode = iota
	// SVGEmbed wraps a base64 PNG in an image element.
	SVGEmbed
)

// ParseSVGMode resolves a mode name. The boolean is false for unknown names.
func ParseSVGMode(name string) (SVGMode, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace", "vector", "":
		return SVGTrace, true
	case "embed", "raster":
		return SVGEmbed, true
	}
	return SVGTrace, false
}

func (m SVGMode) String() string {
	if m == SVGEmbed {
		return "embed"
	}
	return "trace"
}

// Millimeters is a point or extent on a page, in millimeters.
type Millimeters struct {
	X, Y float64
}

// Options configures every exporter. Each exporter reads the fields relevant to it.
type Options struct {
	// DPI is written into the PNG pHYs chunk.
	DPI int
	// Quality is the JPEG quality, in [1, 100].
	Quality int
	// Transparent maps near white pixels to transparent in PNG output.
	Transparent bool
	// Scale resizes raster output and scales SVG output.
	Scale float64

	SVGMode SVGMode
	// Mono paints every traced SVG span black.
	Mono bool

	Page      PageSize
	Landscape bool
	// SizeMM is the printed symbol size.
	SizeMM Millimeters
	// PositionMM is the bottom-left corner of the symbol, measured from
	// the bottom-left corner of the page. Nil centers the symbol.
	PositionMM  *Millimeters
	IncludeBox  bool
	Caption     string
	IncludeDate bool

	Title    string
	Author   string
	Subject  string
	Keywords []string

	// Now returns the timestamp written into documents.
	Now func() time.Time
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		DPI:     300,
		Quality: 95,
		Scale:   1,
		SVGMode: SVGTrace,
		Page:    A4,
		SizeMM:  Millimeters{X: 50, Y: 50},
		Title:   "QR Code",
		Now:     time.Now,
	}
}

// Validate checks the numeric options.
func (o Options) Validate() error {
	switch {
	case o.DPI < 0:
		return fmt.Errorf("%w: dpi %d", ErrInvalidOptions, o.DPI)
	case o.Quality < 0 || o.Quality > 100:
		return fmt.Errorf("%w: quality %d", ErrInvalidOptions, o.Quality)
	case o.Scale < 0:
		return fmt.Errorf("%w: scale %.2f", ErrInvalidOptions, o.Scale)
	case o.SizeMM.X < 0 || o.SizeMM.Y < 0:
		return fmt.Errorf("%w: size %.1fx%.1fmm", ErrInvalidOptions, o.SizeMM.X, o.SizeMM.Y)
	}
	return nil
}

func (o Options) now() time.Time {
	if o.Now == nil {
		return time.Now()
	}
	return o.Now()
}

func (o Options) scale() float64 {
	if o.Scale <= 0 {
		return 1
	}
	return o.Scale
}

func (o Options) dpi() int {
	if o.DPI <= 0 {
		return 300
	}
	return o.DPI
}

func (o Options) quality() int {
	if o.Quality <= 0 {
		return 95
	}
	return o.Quality
}
