// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// parseEnv fills cfg from the process environment through the `env` and
// `envPrefix` tags of [StructuredConfig]. Tool commands are trimmed, so a
// multi-line heredoc export does not leave a trailing newline in the
// script.
func parseEnv(cfg *StructuredConfig) error {
	if err := env.ParseWithOptions(cfg, env.Options{}); err != nil {
		return fmt.Errorf("error getting env configs: %w", err)
	}

	for _, cmd := range []*string{
		&cfg.Tools.PreprocessCommand,
		&cfg.Tools.TrainCommand,
		&cfg.Tools.EvalCommand,
	} {
		*cmd = strings.TrimSpace(*cmd)
	}

	return nil
}
