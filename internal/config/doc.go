// Package config provides configuration loading, merging, and validation
// facilities for the pipeline runner.
//
// Runtime configuration is assembled from multiple sources in the following
// priority order (later sources override earlier non-zero fields):
//  1. Built-in defaults
//  2. Environment variables
//  3. Command-line flags
//  4. The pipeline YAML document named by the sources above
//
// The pipeline document itself is decoded strictly (unknown keys are
// rejected) and validated before it is handed to any stage.
//
// The main entry points are [GetStructuredConfig] for the complete runtime
// configuration and [LoadPipeline] for the pipeline document alone.
package config
