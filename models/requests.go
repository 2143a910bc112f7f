// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// PreprocessRequest asks the external preprocessor to tile or pad the source
// imagery into the train and validation baseline directories.
type PreprocessRequest struct {
	Method       string
	ImagesDir    string
	LabelsDir    string
	TrainDir     string
	ValDir       string
	ImageSize    int
	Stride       int
	TrainSplit   float64
	TargetLabels map[int]string
}

// TrainRequest asks the external trainer for one model artifact.
type TrainRequest struct {
	Model        string
	Pretrained   string
	TrainDir     string
	ValDir       string
	OutputPath   string
	Params       Params
	UseGPU       bool
	TargetLabels map[int]string
}

// EvalRequest asks the external evaluator for the per-class mAP of a trained
// model on one validation directory.
type EvalRequest struct {
	ModelPath    string
	DataDir      string
	Original     Resolution
	Effective    Resolution
	UseGPU       bool
	TargetLabels map[int]string
}
