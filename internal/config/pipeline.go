// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/MKhiriev/go-knee-pipeline/internal/validators"
	"github.com/MKhiriev/go-knee-pipeline/models"
)

var pipelineValidator = validators.NewPipelineValidator()

// LoadPipeline reads, decodes and validates the pipeline document at path.
//
// Any failure is returned before a stage can observe the document: read
// errors wrap [ErrReadPipeline], decoding errors wrap one of the decoding
// sentinels, and schema violations are returned as
// *validators.ValidationError listing every offending key path.
func LoadPipeline(ctx context.Context, path string) (*models.Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrReadPipeline, path, err)
	}

	p, err := ParsePipeline(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// ParsePipeline decodes and validates a pipeline document held in memory.
func ParsePipeline(ctx context.Context, data []byte) (*models.Pipeline, error) {
	p, err := decodePipeline(data)
	if err != nil {
		return nil, err
	}

	if err := pipelineValidator.Validate(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// MarshalPipeline serializes p back to YAML. Loading the result yields a
// document equal to p.
func MarshalPipeline(p *models.Pipeline) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return nil, fmt.Errorf("error encoding pipeline: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("error encoding pipeline: %w", err)
	}
	return buf.Bytes(), nil
}

func decodePipeline(data []byte) (*models.Pipeline, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var p models.Pipeline
	if err := dec.Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyPipeline
		}
		return nil, classifyDecodeError(err)
	}

	var extra yaml.Node
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, ErrMultiplePipelineDocuments
	}

	return &p, nil
}

// classifyDecodeError maps yaml.v3 errors onto the decoding sentinels while
// keeping the decoder's line-numbered messages.
func classifyDecodeError(err error) error {
	var typeErr *yaml.TypeError
	if !errors.As(err, &typeErr) {
		return fmt.Errorf("%w: %w", ErrMalformedPipeline, err)
	}

	sentinel := ErrPipelineFieldType
	for _, msg := range typeErr.Errors {
		if strings.Contains(msg, "not found in type") {
			sentinel = ErrUnknownPipelineField
			break
		}
	}
	return fmt.Errorf("%w: %s", sentinel, strings.Join(typeErr.Errors, "; "))
}
