package config

import "errors"

// Errors returned while assembling the runtime configuration.
var (
	// ErrPipelineFileNotSet indicates that no source named a pipeline document.
	ErrPipelineFileNotSet = errors.New("pipeline config file is not set")
	// ErrInvalidStorageConfigs indicates invalid storage settings
	// (for example, an empty DSN).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidWorkerConfigs indicates invalid worker settings
	// (for example, a non-positive degradation concurrency).
	ErrInvalidWorkerConfigs = errors.New("invalid worker configuration")
	// ErrInvalidToolConfigs indicates invalid external tool settings.
	ErrInvalidToolConfigs = errors.New("invalid tool configuration")
)

// Errors returned while decoding the pipeline document. Validation failures
// are reported separately as *validators.ValidationError.
var (
	ErrReadPipeline              = errors.New("cannot read pipeline document")
	ErrMalformedPipeline         = errors.New("malformed pipeline document")
	ErrEmptyPipeline             = errors.New("pipeline document is empty")
	ErrMultiplePipelineDocuments = errors.New("pipeline file must contain a single YAML document")
	ErrUnknownPipelineField      = errors.New("unknown pipeline field")
	ErrPipelineFieldType         = errors.New("pipeline field has the wrong type")
)
