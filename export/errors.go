package export

import "errors"

var (
	// ErrExportIO reports a failure to encode or write one artifact.
	// It only affects the format it was raised for.
	ErrExportIO = errors.New("export: artifact write failed")

	// ErrUnknownFormat is returned for format tags outside the registry.
	ErrUnknownFormat = errors.New("export: unknown format")

	// ErrInvalidOptions is returned for out of range export options.
	ErrInvalidOptions = errors.New("export: invalid options")
)
