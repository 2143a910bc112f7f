package knee

import "errors"

var (
	ErrInvalidRange  = errors.New("invalid search resolution range")
	ErrStepTooSmall  = errors.New("search resolution step is below one pixel")
	ErrInvalidBounds = errors.New("original resolution must be positive")
)
