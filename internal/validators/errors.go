package validators

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrRequired                = errors.New("value is required")
	ErrInvalidClassID          = errors.New("class id must be non-negative")
	ErrEmptyClassName          = errors.New("class name cannot be empty")
	ErrDanglingReference       = errors.New("reference does not resolve")
	ErrUnknownMethod           = errors.New("unknown preprocessing method")
	ErrInvalidImageSize        = errors.New("image size must be positive")
	ErrInvalidStride           = errors.New("invalid stride")
	ErrUnresolvablePlaceholder = errors.New("placeholder cannot be resolved")
	ErrMissingHashedParams     = errors.New("output filename must contain {hashed_params}")
	ErrEmptyGridAxis           = errors.New("hyperparameter axis has no candidate values")
	ErrInvalidRange            = errors.New("invalid search resolution range")
	ErrInvalidStep             = errors.New("search resolution step must be positive")
	ErrStepBelowPixel          = errors.New("search resolution step is below one pixel of the image size")
	ErrUnhashableParams        = errors.New("training parameters cannot be hashed")
	ErrInvalidSearchAlgorithm  = errors.New("unknown search algorithm")
	ErrInvalidTolerance        = errors.New("tolerance must be non-negative")
	ErrInvalidTrainSplit       = errors.New("train split must be within (0, 1)")
	ErrInvalidPixelResolution  = errors.New("pixel resolution must be non-negative")
	ErrInvalidMinMAP           = errors.New("min mAP must be within [0, 1)")
)

// FieldError is a single violation bound to the dotted key path of the
// offending value, e.g. "preprocess_methods.tiling.stride".
type FieldError struct {
	Path  string
	Value any
	Err   error
}

func (e FieldError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v (got %v)", e.Path, e.Err, e.Value)
}

func (e FieldError) Unwrap() error {
	return e.Err
}

// ValidationError bundles every violation found in one document.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		msgs[i] = fe.Error()
	}
	return "invalid pipeline: " + strings.Join(msgs, "; ")
}

// Unwrap exposes the individual violations to errors.Is and errors.As.
func (e *ValidationError) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, fe := range e.Errors {
		errs[i] = fe
	}
	return errs
}

// Paths returns the key paths of all violations in report order.
func (e *ValidationError) Paths() []string {
	paths := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		paths[i] = fe.Path
	}
	return paths
}

type collector struct {
	errs []FieldError
}

func (c *collector) add(path string, value any, err error) {
	c.errs = append(c.errs, FieldError{Path: path, Value: value, Err: err})
}

func (c *collector) required(path, value string) {
	if strings.TrimSpace(value) == "" {
		c.add(path, nil, ErrRequired)
	}
}

func (c *collector) err() error {
	if len(c.errs) == 0 {
		return nil
	}
	return &ValidationError{Errors: c.errs}
}
