// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app wires the configuration, storage, external tools and stage
// services of go-knee-pipeline into one run.
//
// The Msg* constants are the human-readable summaries printed when a run
// ends with an error. Keeping them in one place ensures consistent wording
// between the log and the exit status.
package app

import (
	"context"
	"errors"

	"github.com/MKhiriev/go-knee-pipeline/internal/adapter"
	"github.com/MKhiriev/go-knee-pipeline/internal/config"
	"github.com/MKhiriev/go-knee-pipeline/internal/service"
	"github.com/MKhiriev/go-knee-pipeline/internal/store"
	"github.com/MKhiriev/go-knee-pipeline/internal/validators"
	"github.com/MKhiriev/go-knee-pipeline/internal/workers"
)

const (
	// MsgInvalidConfiguration is printed when flags or environment variables
	// do not form a usable runtime configuration.
	MsgInvalidConfiguration = "invalid configuration"

	// MsgInvalidPipeline is printed when the pipeline document cannot be
	// decoded or fails validation.
	MsgInvalidPipeline = "invalid pipeline document"

	// MsgStorageUnavailable is printed when the results database cannot be
	// opened or migrated.
	MsgStorageUnavailable = "results database is unavailable"

	// MsgToolNotConfigured is printed when an enabled stage has no tool
	// command.
	MsgToolNotConfigured = "external tool command is not configured"

	// MsgToolFailed is printed when an external tool exits with an error or
	// prints unusable output.
	MsgToolFailed = "external tool failed"

	// MsgToolTimedOut is printed when an external tool exceeds its timeout.
	MsgToolTimedOut = "external tool timed out"

	// MsgNoTrainedModels is printed when knee discovery finds no trained
	// artifact of the selected model.
	MsgNoTrainedModels = "no trained models to evaluate"

	// MsgNoResults is printed when the report stage finds no stored
	// evaluation results.
	MsgNoResults = "no evaluation results to report"

	// MsgInterrupted is printed when the run was cancelled by a signal.
	MsgInterrupted = "run interrupted"

	// MsgStageFailed is printed for any other stage failure.
	MsgStageFailed = "pipeline stage failed"

	// MsgUnexpectedError is printed for errors outside any stage.
	MsgUnexpectedError = "unexpected error"
)

// Exit statuses of the pipeline binary.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitUsage       = 2
	ExitInterrupted = 130
)

// Describe maps err to its summary message and exit status.
func Describe(err error) (string, int) {
	var verr *validators.ValidationError

	switch {
	case err == nil:
		return "", ExitOK
	case errors.As(err, &verr),
		errors.Is(err, config.ErrPipelineFileNotSet),
		errors.Is(err, config.ErrReadPipeline),
		errors.Is(err, config.ErrMalformedPipeline),
		errors.Is(err, config.ErrEmptyPipeline),
		errors.Is(err, config.ErrMultiplePipelineDocuments),
		errors.Is(err, config.ErrUnknownPipelineField),
		errors.Is(err, config.ErrPipelineFieldType):
		return MsgInvalidPipeline, ExitUsage
	case errors.Is(err, config.ErrInvalidStorageConfigs),
		errors.Is(err, config.ErrInvalidWorkerConfigs),
		errors.Is(err, config.ErrInvalidToolConfigs):
		return MsgInvalidConfiguration, ExitUsage
	case errors.Is(err, adapter.ErrToolNotConfigured):
		return MsgToolNotConfigured, ExitUsage
	case errors.Is(err, context.Canceled):
		return MsgInterrupted, ExitInterrupted
	case errors.Is(err, adapter.ErrToolTimeout):
		return MsgToolTimedOut, ExitFailure
	case errors.Is(err, adapter.ErrToolFailed),
		errors.Is(err, adapter.ErrInvalidToolScript),
		errors.Is(err, adapter.ErrMalformedEvalOutput):
		return MsgToolFailed, ExitFailure
	case errors.Is(err, service.ErrNoTrainedModels):
		return MsgNoTrainedModels, ExitFailure
	case errors.Is(err, service.ErrNoResults):
		return MsgNoResults, ExitFailure
	case errors.Is(err, store.ErrUnsupportedDSN),
		errors.Is(err, store.ErrExecutingQuery),
		errors.Is(err, store.ErrBeginningTransaction),
		errors.Is(err, store.ErrCommitingTransaction):
		return MsgStorageUnavailable, ExitFailure
	case errors.Is(err, workers.ErrStageFailed):
		return MsgStageFailed, ExitFailure
	default:
		return MsgUnexpectedError, ExitFailure
	}
}
