// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"fmt"
	"math"
	"time"
)

// Resolution is an image size in pixels.
type Resolution struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// String renders the resolution as WIDTHxHEIGHT.
func (r Resolution) String() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// Longer returns the longer side.
func (r Resolution) Longer() int {
	return max(r.Width, r.Height)
}

// Shorter returns the shorter side.
func (r Resolution) Shorter() int {
	return min(r.Width, r.Height)
}

// DegradationFactor is the square root of the area ratio between the
// effective and the original resolution.
func DegradationFactor(original, effective Resolution) float64 {
	if original.Width == 0 || original.Height == 0 {
		return 0
	}
	fw := float64(effective.Width) / float64(original.Width)
	fh := float64(effective.Height) / float64(original.Height)
	return math.Sqrt(fw * fh)
}

// EvalResult is one row of the evaluation results table: the mAP of one
// class for one trained model at one effective resolution.
type EvalResult struct {
	// RunID identifies the pipeline run that produced the row.
	RunID string `json:"run_id"`

	// ModelFile is the trained artifact filename that was evaluated.
	ModelFile string `json:"model_file"`

	// ObjectName is the class name from target_labels.
	ObjectName string `json:"object_name"`

	Original  Resolution `json:"original_resolution"`
	Effective Resolution `json:"effective_resolution"`

	DegradationFactor float64 `json:"degradation_factor"`
	MAP               float64 `json:"mAP"`

	// Knee marks the row at the discovered knee of its class curve.
	Knee bool `json:"knee"`

	CreatedAt time.Time `json:"created_at"`
}

// EvalKey identifies an evaluation independent of the class.
type EvalKey struct {
	ModelFile string
	Original  Resolution
	Effective Resolution
}

// Key returns the evaluation key of the row.
func (r EvalResult) Key() EvalKey {
	return EvalKey{ModelFile: r.ModelFile, Original: r.Original, Effective: r.Effective}
}

// ResultFilter narrows a results query. Empty fields match everything.
type ResultFilter struct {
	ModelFile  string
	ObjectName string
}

// Knee is a discovered knee point of one class curve.
type Knee struct {
	ModelFile         string     `json:"model_file"`
	ObjectName        string     `json:"object_name"`
	Original          Resolution `json:"original_resolution"`
	Effective         Resolution `json:"effective_resolution"`
	DegradationFactor float64    `json:"degradation_factor"`
	MAP               float64    `json:"mAP"`
}

// GSD is the ground sample distance at the knee for imagery captured at
// pixelResolution meters per pixel.
func (k Knee) GSD(pixelResolution float64) float64 {
	if k.DegradationFactor == 0 {
		return 0
	}
	return pixelResolution / k.DegradationFactor
}
