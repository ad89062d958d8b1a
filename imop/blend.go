// Package imop implements the Porter-Duff composition operations and the
// separable blend modes used when mixing a graphic element with its backdrop.
// The image/draw package only offers source and source-over; this package
// covers the remaining operators and restricts writes to a target rectangle.
package imop

import (
	"github.com/esimov/qrstyle/utils"
)

const (
	Darken   = "darken"
	Lighten  = "lighten"
	Multiply = "multiply"
	Screen   = "screen"
	Overlay  = "overlay"
)

var blendModes = []string{Darken, Lighten, Multiply, Screen, Overlay}

// Blend holds the currently active blend mode.
type Blend struct {
	OpType string
}

// NewBlend initializes a new Blend.
func NewBlend() *Blend {
	return &Blend{}
}

// IsBlendMode reports whether mode is a supported blend mode.
func IsBlendMode(mode string) bool {
	return utils.Contains(blendModes, mode)
}

// Set activate one of the supported blend mode.
func (o *Blend) Set(opType string) {
	if IsBlendMode(opType) {
		o.OpType = opType
	}
}

// Get returns the currently active blend mode.
func (o *Blend) Get() string {
	return o.OpType
}

// blendChannel returns B(cb, cs) for non-premultiplied channel values in [0, 1].
func blendChannel(mode string, cb, cs float64) float64 {
	switch mode {
	case Darken:
		return utils.Min(cb, cs)
	case Lighten:
		return utils.Max(cb, cs)
	case Multiply:
		return cb * cs
	case Screen:
		return cb + cs - cb*cs
	case Overlay:
		if cb <= 0.5 {
			return 2 * cb * cs
		}
		return 1 - 2*(1-cb)*(1-cs)
	}
	return cs
}
