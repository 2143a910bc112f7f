package adapter

import "errors"

var (
	ErrToolNotConfigured   = errors.New("external tool command is not configured")
	ErrInvalidToolScript   = errors.New("external tool command is not a valid shell script")
	ErrToolFailed          = errors.New("external tool failed")
	ErrToolTimeout         = errors.New("external tool timed out")
	ErrMalformedEvalOutput = errors.New("malformed evaluator output")
)
