package imaging

import "errors"

var (
	// ErrUnsupportedFormat is returned for an image extension without encoder.
	ErrUnsupportedFormat = errors.New("unsupported image format")

	// ErrInvalidResolution is returned when a target resolution has a
	// non-positive side.
	ErrInvalidResolution = errors.New("invalid resolution")
)
