// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "fmt"

// validate checks that the final merged [StructuredConfig] satisfies the
// runtime invariants before it is used at startup. Tool commands are checked
// later, against the stages the pipeline document actually enables.
//
// Returns nil if the configuration is valid, or a descriptive error otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.PipelineFilePath == "" || cfg.Pipeline == nil {
		return ErrPipelineFileNotSet
	}

	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Workers.DegradeConcurrency < 1 {
		return fmt.Errorf("%w: degrade concurrency must be positive, got %d",
			ErrInvalidWorkerConfigs, cfg.Workers.DegradeConcurrency)
	}

	if cfg.Tools.Timeout < 0 {
		return fmt.Errorf("%w: negative timeout %s", ErrInvalidToolConfigs, cfg.Tools.Timeout)
	}

	return nil
}
