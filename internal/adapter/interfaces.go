// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter connects the pipeline stages to the external tools that do
// the heavy lifting: the tiler/padder, the detector trainer and the detector
// evaluator.
//
// The shipped implementation ([NewShellAdapter]) runs each tool as a shell
// script through an embedded POSIX interpreter and hands it its parameters as
// KP_* environment variables. Error values defined in errors.go let callers
// tell a missing tool, a failing tool and unreadable tool output apart with
// [errors.Is].
package adapter

import (
	"context"

	"github.com/MKhiriev/go-knee-pipeline/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/adapter_mock.go -package=mock

// Preprocessor tiles or pads the source imagery into baseline directories.
type Preprocessor interface {
	// Preprocess fills req.TrainDir and req.ValDir with images and labels
	// of the target classes at req.ImageSize.
	Preprocess(ctx context.Context, req models.PreprocessRequest) error
}

// Trainer produces one trained detector artifact.
type Trainer interface {
	// Train writes the trained weights to req.OutputPath.
	Train(ctx context.Context, req models.TrainRequest) error
}

// Evaluator measures a trained detector.
type Evaluator interface {
	// Evaluate returns the mAP per class name.
	Evaluate(ctx context.Context, req models.EvalRequest) (map[string]float64, error)
}
