// Package export writes a rendered symbol in raster, vector and page
// description formats. Exporters only read the image they are given, so any
// number of them may run concurrently on the same symbol.
package export

import (
	"fmt"
	"image"
	"strings"
)

// Format is the tag of an output format.
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
	BMP  Format = "bmp"
	SVG  Format = "svg"
	PDF  Format = "pdf"
	EPS  Format = "eps"
)

// Ext returns the file extension of the format, including the dot.
func (f Format) Ext() string {
	if f == JPEG {
		return ".jpg"
	}
	return "." + string(f)
}

// ParseFormat resolves a format name or file extension.
func ParseFormat(name string) (Format, error) {
	n := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(name)), ".")
	if n == "jpg" {
		n = "jpeg"
	}
	if _, ok := registry[Format(n)]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
	return Format(n), nil
}

// Artifact is the encoded output of one exporter.
type Artifact struct {
	Format Format
	Data   []byte
}

// Name returns the file name of the artifact for a base name.
func (a *Artifact) Name(base string) string {
	return base + a.Format.Ext()
}

// Exporter encodes an image into one output format. Implementations must
// not modify the image.
type Exporter interface {
	Format() Format
	Export(img image.Image, opts Options) (*Artifact, error)
}

// ExporterFunc adapts a function to the Exporter interface.
type ExporterFunc struct {
	Tag Format
	Fn  func(img image.Image, opts Options) ([]byte, error)
}

func (e ExporterFunc) Format() Format { return e.Tag }

func (e ExporterFunc) Export(img image.Image, opts Options) (*Artifact, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	data, err := e.Fn(img, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrExportIO, e.Tag, err)
	}
	return &Artifact{Format: e.Tag, Data: data}, nil
}

var registry = map[Format]Exporter{
	PNG:  ExporterFunc{PNG, EncodePNG},
	JPEG: ExporterFunc{JPEG, EncodeJPEG},
	BMP:  ExporterFunc{BMP, EncodeBMP},
	SVG:  ExporterFunc{SVG, EncodeSVG},
	PDF:  ExporterFunc{PDF, EncodePDF},
	EPS:  ExporterFunc{EPS, EncodeEPS},
}

// defaultOrder is the order used by Default and ExportAll.
var defaultOrder = []Format{PNG, JPEG, BMP, SVG, PDF, EPS}

// Lookup returns the exporter of a format.
func Lookup(f Format) (Exporter, error) {
	e, ok := registry[f]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	return e, nil
}

// Default returns the exporters of every supported format.
func Default() []Exporter {
	exps := make([]Exporter, 0, len(defaultOrder))
	for _, f := range defaultOrder {
		exps = append(exps, registry[f])
	}
	return exps
}

// Formats returns the supported format tags.
func Formats() []Format {
	return append([]Format(nil), defaultOrder...)
}

// Export encodes the image with the exporter of the format.
func Export(img image.Image, f Format, opts Options) (*Artifact, error) {
	e, err := Lookup(f)
	if err != nil {
		return nil, err
	}
	return e.Export(img, opts)
}
