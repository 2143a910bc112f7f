// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"context"
	"time"

	"github.com/MKhiriev/go-knee-pipeline/models"
)

// StructuredConfig is the top-level configuration container for the
// go-knee-pipeline runner. It aggregates all sub-configurations and is
// populated by merging built-in defaults, environment variables, command-line
// flags and the pipeline document.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env      : direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds process-level switches.
	App App `envPrefix:"APP_"`

	// Storage holds configuration of the evaluation results store.
	Storage Storage `envPrefix:"STORAGE_"`

	// Tools holds the shell commands of the external preprocessing,
	// training and evaluation tools.
	Tools Tools `envPrefix:"TOOLS_"`

	// Workers holds concurrency settings of in-process workers.
	Workers Workers `envPrefix:"WORKERS_"`

	// PipelineFilePath is the path to the pipeline YAML document.
	// Populated via the PIPELINE_CONFIG environment variable or the
	// -c / -config flag.
	PipelineFilePath string `env:"PIPELINE_CONFIG"`

	// Pipeline is the loaded and validated pipeline document.
	Pipeline *models.Pipeline
}

// App holds process-level switches.
type App struct {
	// Verbose enables debug logging. The pipeline document's own verbose
	// key also turns it on.
	// Env: APP_VERBOSE
	Verbose bool `env:"VERBOSE"`

	// ValidateOnly loads and validates the pipeline document, then exits
	// without running any stage.
	// Env: APP_VALIDATE_ONLY
	ValidateOnly bool `env:"VALIDATE_ONLY"`

	// Version is the semantic version string of the running binary.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Storage groups the configuration for all storage backends.
type Storage struct {
	// DB holds the relational database connection settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the evaluation results database.
type DB struct {
	// DSN selects the backend: a postgres:// or postgresql:// URL opens
	// PostgreSQL, anything else is treated as a SQLite DSN.
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Tools holds the external tool commands. Each command is a shell script
// run through an embedded POSIX interpreter; its parameters are passed as
// KP_* environment variables.
type Tools struct {
	// Env: TOOLS_PREPROCESS_CMD
	PreprocessCommand string `env:"PREPROCESS_CMD"`

	// Env: TOOLS_TRAIN_CMD
	TrainCommand string `env:"TRAIN_CMD"`

	// EvalCommand must print a JSON object mapping class name to mAP.
	// Env: TOOLS_EVAL_CMD
	EvalCommand string `env:"EVAL_CMD"`

	// WorkDir is the working directory of every tool invocation.
	// Env: TOOLS_WORKDIR
	WorkDir string `env:"WORKDIR"`

	// Timeout bounds a single tool invocation; zero disables the bound.
	// Env: TOOLS_TIMEOUT
	Timeout time.Duration `env:"TIMEOUT"`
}

// Workers holds concurrency settings of in-process workers.
type Workers struct {
	// DegradeConcurrency is the number of images degraded in parallel.
	// Env: WORKERS_DEGRADE_CONCURRENCY
	DegradeConcurrency int `env:"DEGRADE_CONCURRENCY"`

	// StoreRetries is the number of retries of a retryable store error.
	// Env: WORKERS_STORE_RETRIES
	StoreRetries uint64 `env:"STORE_RETRIES"`
}

// GetStructuredConfig loads, merges, and validates the runtime configuration
// from all available sources in the following priority order (last source
// wins for non-zero fields):
//  1. Built-in defaults
//  2. Environment variables
//  3. Command-line flags (args, without the program name)
//  4. Pipeline document (path resolved from sources 1 to 3)
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig(ctx context.Context, args []string) (*StructuredConfig, error) {
	return newConfigBuilder().
		withDefaults().
		withEnv().
		withFlags(args).
		withPipeline(ctx).
		build()
}
