// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-knee-pipeline/internal/validators"
	"github.com/MKhiriev/go-knee-pipeline/models"
)

func loadBundled(t *testing.T) *models.Pipeline {
	t.Helper()
	p, err := LoadPipeline(context.Background(), bundledPipeline)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p
}

// ── bundled document ──────────────────────────────────────────────────────────

func TestLoadPipeline_RunFlags(t *testing.T) {
	p := loadBundled(t)

	assert.Equal(t, models.RunFlags{
		RunPreprocess:    false,
		RunTrain:         true,
		RunKneeDiscovery: true,
		GenerateReport:   true,
	}, p.RunFlags)
}

func TestLoadPipeline_TargetLabels(t *testing.T) {
	p := loadBundled(t)

	assert.Equal(t, map[int]string{
		11: "Fixed-wing Aircraft",
		12: "Small Aircraft",
		13: "Cargo Plane",
		15: "Helicopter",
	}, p.TargetLabels)
}

func TestLoadPipeline_PreprocessMethodResolves(t *testing.T) {
	p := loadBundled(t)

	assert.Equal(t, "tiling", p.PreprocessMethod)
	m, ok := p.Method()
	require.True(t, ok)
	assert.Equal(t, 640, m.ImageSize)
	assert.Equal(t, 100, m.Stride)
	assert.Contains(t, p.PreprocessMethods, "padding")
}

func TestLoadPipeline_ModelResolves(t *testing.T) {
	p := loadBundled(t)

	assert.Equal(t, "yolov8m", p.Model)
	m, ok := p.SelectedModel()
	require.True(t, ok)
	assert.Equal(t, []any{100}, m.Hyperparameters["epochs"])
	assert.Equal(t, "yolov8m_{hashed_params}.pt", m.OutputFilename)
	assert.Equal(t, 16, m.Params["batch"])
}

func TestLoadPipeline_SearchResolution(t *testing.T) {
	p := loadBundled(t)

	assert.Equal(t, []float64{0.05, 1.0}, p.KneeDiscovery.SearchResolutionRange)
	assert.Equal(t, 0.05, p.KneeDiscovery.SearchResolutionStep)
	assert.Equal(t, models.SearchAlgorithmBinary, p.KneeDiscovery.Algorithm())
}

func TestLoadPipeline_GlobalParameters(t *testing.T) {
	p := loadBundled(t)

	assert.Equal(t, "output", p.OutputDir)
	assert.Equal(t, "preprocessed", p.PreprocessDir)
	assert.True(t, p.UseGPU)
	assert.Equal(t, 0.3, p.PixelResolution)
	assert.True(t, p.CacheResults)
}

// ── round trip ────────────────────────────────────────────────────────────────

func TestMarshalPipeline_RoundTripIsIdempotent(t *testing.T) {
	original := loadBundled(t)

	data, err := MarshalPipeline(original)
	require.NoError(t, err)

	reloaded, err := ParsePipeline(context.Background(), data)
	require.NoError(t, err)

	if diff := cmp.Diff(original, reloaded); diff != "" {
		t.Fatalf("round trip changed the document (-want +got):\n%s", diff)
	}

	again, err := MarshalPipeline(reloaded)
	require.NoError(t, err)
	assert.Equal(t, string(data), string(again))
}

func TestMarshalPipeline_KeepsFloatsInOpenMaps(t *testing.T) {
	doc := loadBundled(t)
	m := doc.Models["yolov8m"]
	m.Params = models.Params{"scale": 1.0, "name": "run", "augment": map[string]any{"mosaic": 0.0}}
	m.Hyperparameters = models.Grid{"lr0": {0.01, 1.0}, "optimizer": {"SGD", "100"}}
	doc.Models["yolov8m"] = m

	data, err := MarshalPipeline(doc)
	require.NoError(t, err)

	reloaded, err := ParsePipeline(context.Background(), data)
	require.NoError(t, err)

	got := reloaded.Models["yolov8m"]
	assert.Equal(t, 1.0, got.Params["scale"])
	assert.Equal(t, models.Params{"mosaic": 0.0}, got.Params["augment"])
	assert.Equal(t, []any{0.01, 1.0}, got.Hyperparameters["lr0"])
	assert.Equal(t, []any{"SGD", "100"}, got.Hyperparameters["optimizer"])
}

func TestParsePipeline_RejectsValuesThatFailLaterStages(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(p *models.Pipeline)
		wantErr  error
		wantPath string
	}{
		{
			name: "step below one pixel",
			mutate: func(p *models.Pipeline) {
				p.KneeDiscovery.SearchResolutionStep = 0.001
			},
			wantErr:  validators.ErrStepBelowPixel,
			wantPath: "knee_discovery.search_resolution_step",
		},
		{
			name: "integer-keyed mapping in params",
			mutate: func(p *models.Pipeline) {
				m := p.Models["yolov8m"]
				m.Params = models.Params{"cls_weights": map[any]any{11: 1.0, 12: 2.0}}
				p.Models["yolov8m"] = m
			},
			wantErr:  validators.ErrUnhashableParams,
			wantPath: "models.yolov8m.params",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := loadBundled(t)
			tt.mutate(doc)

			data, err := MarshalPipeline(doc)
			require.NoError(t, err)

			_, err = ParsePipeline(context.Background(), data)
			require.ErrorIs(t, err, tt.wantErr)

			var verr *validators.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, []string{tt.wantPath}, verr.Paths())
		})
	}
}

// ── decoding failures ─────────────────────────────────────────────────────────

func TestParsePipeline_DecodingErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr error
	}{
		{name: "empty", doc: "", wantErr: ErrEmptyPipeline},
		{name: "malformed", doc: "model: [yolov8m\n", wantErr: ErrMalformedPipeline},
		{name: "unknown key", doc: "model: yolov8m\nmodle: typo\n", wantErr: ErrUnknownPipelineField},
		{name: "wrong type", doc: "run_train: maybe\n", wantErr: ErrPipelineFieldType},
		{name: "non-integer class id", doc: "target_labels:\n  plane: Plane\n", wantErr: ErrPipelineFieldType},
		{name: "two documents", doc: "model: a\n---\nmodel: b\n", wantErr: ErrMultiplePipelineDocuments},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParsePipeline(context.Background(), []byte(tt.doc))
			assert.Nil(t, p)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParsePipeline_UnknownKeyPointsAtLine(t *testing.T) {
	_, err := ParsePipeline(context.Background(), []byte("model: yolov8m\nknee_discovery:\n  serch_algorithm: binary\n"))
	require.ErrorIs(t, err, ErrUnknownPipelineField)
	assert.Contains(t, err.Error(), "line 3")
	assert.Contains(t, err.Error(), "serch_algorithm")
}

func TestParsePipeline_DanglingReference(t *testing.T) {
	data, err := os.ReadFile(bundledPipeline)
	require.NoError(t, err)

	doc := string(data) + "\n"
	doc = replaceOnce(t, doc, `preprocess_method: "tiling"`, `preprocess_method: "foo"`)

	p, err := ParsePipeline(context.Background(), []byte(doc))
	assert.Nil(t, p)

	var verr *validators.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{validators.FieldPreprocessMethod}, verr.Paths())
	assert.ErrorIs(t, err, validators.ErrDanglingReference)
}

func TestLoadPipeline_MissingFile(t *testing.T) {
	_, err := LoadPipeline(context.Background(), "/nonexistent/pipeline.yaml")
	assert.ErrorIs(t, err, ErrReadPipeline)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func replaceOnce(t *testing.T, s, old, new string) string {
	t.Helper()
	require.Contains(t, s, old)
	return strings.Replace(s, old, new, 1)
}
