package config

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"dario.cat/mergo"
)

// Built-in defaults applied before any other source.
const (
	DefaultDSN          = "file:knee_pipeline.db?_foreign_keys=on"
	DefaultStoreRetries = 3
)

type configBuilder struct {
	configs []*StructuredConfig
	err     error
}

func newConfigBuilder() *configBuilder {
	return &configBuilder{
		configs: make([]*StructuredConfig, 0, 4),
	}
}

func (b *configBuilder) build() (*StructuredConfig, error) {
	if b.err != nil {
		return nil, fmt.Errorf("error occured during building config: %w", b.err)
	}

	config := new(StructuredConfig)
	for _, cfg := range b.configs {
		if err := mergo.Merge(config, cfg, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("error merging configs: %w", err)
		}
	}

	return config, config.validate()
}

func (b *configBuilder) withDefaults() *configBuilder {
	b.configs = append(b.configs, &StructuredConfig{
		Storage: Storage{DB: DB{DSN: DefaultDSN}},
		Workers: Workers{
			DegradeConcurrency: runtime.NumCPU(),
			StoreRetries:       DefaultStoreRetries,
		},
	})
	return b
}

func (b *configBuilder) withEnv() *configBuilder {
	envCfg := &StructuredConfig{}
	if err := parseEnv(envCfg); err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.configs = append(b.configs, envCfg)
	return b
}

func (b *configBuilder) withFlags(args []string) *configBuilder {
	flags, err := ParseFlags(args)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.configs = append(b.configs, flags)
	return b
}

func (b *configBuilder) withPipeline(ctx context.Context) *configBuilder {
	var pipelinePath string
	for _, cfg := range b.configs {
		if cfg.PipelineFilePath != "" {
			pipelinePath = cfg.PipelineFilePath
		}
	}

	if pipelinePath == "" {
		b.err = errors.Join(b.err, ErrPipelineFileNotSet)
		return b
	}

	pipeline, err := LoadPipeline(ctx, pipelinePath)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.configs = append(b.configs, &StructuredConfig{
		App:      App{Verbose: pipeline.Verbose},
		Pipeline: pipeline,
	})
	return b
}
