package qrstyle

import "errors"

// Non-fatal conditions. They never abort a render: the pipeline substitutes
// a default and records a Fallback (or sets Report.Degraded for logos).
var (
	// ErrUnknownShape reports a module, frame or eye shape id outside the catalog.
	ErrUnknownShape = errors.New("qrstyle: unknown shape id")

	// ErrUnknownMask reports a colour mask kind outside the catalog.
	ErrUnknownMask = errors.New("qrstyle: unknown color mask")

	// ErrUnknownPreset reports a preset name outside the catalog.
	ErrUnknownPreset = errors.New("qrstyle: unknown preset")

	// ErrLogoDecode reports a logo that could not be decoded or placed.
	ErrLogoDecode = errors.New("qrstyle: logo decode failed")
)

// Fatal conditions.
var (
	// ErrEncodingOverflow is returned when the payload does not fit the requested
	// version and error correction level. It is raised before any rendering.
	ErrEncodingOverflow = errors.New("qrstyle: payload exceeds symbol capacity")

	// ErrEmptyPayload is returned when there is nothing to encode.
	ErrEmptyPayload = errors.New("qrstyle: empty payload")

	// ErrInvalidMatrix is returned for matrices which are not square or too small
	// to hold the three finder patterns.
	ErrInvalidMatrix = errors.New("qrstyle: invalid module matrix")

	// ErrInvalidStyle is returned for out of range style parameters.
	ErrInvalidStyle = errors.New("qrstyle: invalid style")

	// ErrCanvasTooLarge is returned when (N+2*border)*box exceeds the configured bound.
	ErrCanvasTooLarge = errors.New("qrstyle: canvas exceeds maximum size")

	// ErrStageOrder is returned when a pipeline stage is invoked out of order.
	ErrStageOrder = errors.New("qrstyle: pipeline stage out of order")

	// ErrUnreadable is returned when a rendered symbol cannot be decoded or
	// decodes to another payload.
	ErrUnreadable = errors.New("qrstyle: symbol is unreadable")
)
