package service

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-knee-pipeline/internal/store"
	"github.com/MKhiriev/go-knee-pipeline/models"
)

const (
	classFixedWing = "Fixed-wing Aircraft"
	classCargo     = "Cargo Plane"
)

// testPipeline is a small tiling experiment rooted at root: 100 px tiles
// swept from 20 to 100 px in 20 px steps.
func testPipeline(root string) *models.Pipeline {
	return &models.Pipeline{
		RunFlags: models.RunFlags{
			RunTrain:         true,
			RunKneeDiscovery: true,
			GenerateReport:   true,
		},
		InputDir:        filepath.Join(root, "input"),
		ImagesSubdir:    "images",
		LabelsSubdir:    "labels",
		OutputDir:       filepath.Join(root, "output"),
		PreprocessDir:   filepath.Join(root, "preprocessed"),
		Model:           "yolov8n",
		UseGPU:          true,
		PixelResolution: 0.3,
		TargetLabels: map[int]string{
			11: classFixedWing,
			13: classCargo,
		},
		PreprocessMethod: models.PreprocessTiling,
		PreprocessMethods: map[string]models.PreprocessMethod{
			models.PreprocessTiling: {
				ImageSize:           100,
				Stride:              20,
				TrainBaselineSubdir: "tiling/train_{maxwidth}_{maxheight}_{stride}",
				ValBaselineSubdir:   "tiling/val_{maxwidth}_{maxheight}_{stride}",
				ValDegradedSubdir:   "tiling/val_{maxwidth}_{maxheight}_{stride}_{effective_width}_{effective_height}",
			},
			models.PreprocessPadding: {
				ImageSize:           100,
				TrainBaselineSubdir: "padding/train_{maxwidth}_{maxheight}",
				ValBaselineSubdir:   "padding/val_{maxwidth}_{maxheight}",
				ValDegradedSubdir:   "padding/val_{maxwidth}_{maxheight}_{effective_width}_{effective_height}",
			},
		},
		Preprocess: models.PreprocessStage{TrainSplit: 0.8},
		Train:      models.TrainStage{OutputSubdir: "models"},
		KneeDiscovery: models.KneeDiscoveryStage{
			OutputSubdir:          "knee_discovery",
			EvalResultsFilename:   "eval_results.csv",
			SearchResolutionRange: []float64{0.2, 1.0},
			SearchResolutionStep:  0.2,
			SearchAlgorithm:       models.SearchAlgorithmNone,
		},
		Report: models.ReportStage{OutputSubdir: "report", ReportFilename: "report.md"},
		Models: map[string]models.Model{
			"yolov8n": {
				Pretrained:     "yolov8n.pt",
				OutputFilename: "yolov8n_{hashed_params}.pt",
				Params:         models.Params{"imgsz": 100, "batch": 8},
				Hyperparameters: models.Grid{
					"epochs": {10},
				},
			},
		},
	}
}

func testLayout(t *testing.T, p *models.Pipeline) *Layout {
	t.Helper()
	layout, err := NewLayout(p)
	require.NoError(t, err)
	return layout
}

// writeArtifacts creates every planned artifact of the selected model and
// returns their paths.
func writeArtifacts(t *testing.T, p *models.Pipeline, layout *Layout) []string {
	t.Helper()
	runs, err := PlanTraining(p.Models[p.Model])
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(layout.ModelsDir(), 0o755))

	paths := make([]string, 0, len(runs))
	for _, run := range runs {
		path := layout.ModelPath(run.Filename)
		require.NoError(t, os.WriteFile(path, []byte("weights"), 0o644))
		paths = append(paths, path)
	}
	return paths
}

// memResults is an in-memory ResultsRepository keyed like the SQL table.
type memResults struct {
	mu   sync.Mutex
	rows map[resultKey]models.EvalResult
}

type resultKey struct {
	eval  models.EvalKey
	class string
}

func newMemResults(rows ...models.EvalResult) *memResults {
	m := &memResults{rows: make(map[resultKey]models.EvalResult)}
	_ = m.SaveResults(context.Background(), rows...)
	return m
}

func (m *memResults) SaveResults(_ context.Context, results ...models.EvalResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range results {
		m.rows[resultKey{eval: r.Key(), class: r.ObjectName}] = r
	}
	return nil
}

func (m *memResults) ListResults(_ context.Context, filter models.ResultFilter) ([]models.EvalResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.EvalResult
	for _, r := range m.rows {
		if filter.ModelFile != "" && r.ModelFile != filter.ModelFile {
			continue
		}
		if filter.ObjectName != "" && r.ObjectName != filter.ObjectName {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.ModelFile != b.ModelFile {
			return a.ModelFile < b.ModelFile
		}
		if a.ObjectName != b.ObjectName {
			return a.ObjectName < b.ObjectName
		}
		return a.DegradationFactor < b.DegradationFactor
	})
	return out, nil
}

func (m *memResults) HasResults(_ context.Context, key models.EvalKey) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.rows {
		if k.eval == key {
			return true, nil
		}
	}
	return false, nil
}

func (m *memResults) MarkKnee(_ context.Context, modelFile, objectName string, original models.Resolution, knee *models.Resolution) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	found := false
	for k, r := range m.rows {
		if r.ModelFile != modelFile || r.ObjectName != objectName || r.Original != original {
			continue
		}
		r.Knee = knee != nil && r.Effective == *knee
		found = found || r.Knee
		m.rows[k] = r
	}
	if knee != nil && !found {
		return store.ErrKneeNotFound
	}
	return nil
}

func (m *memResults) DeleteResults(_ context.Context, filter models.ResultFilter) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, r := range m.rows {
		if filter.ModelFile != "" && r.ModelFile != filter.ModelFile {
			continue
		}
		if filter.ObjectName != "" && r.ObjectName != filter.ObjectName {
			continue
		}
		delete(m.rows, k)
	}
	return nil
}

func (m *memResults) knees() map[string]models.Resolution {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]models.Resolution)
	for _, r := range m.rows {
		if r.Knee {
			out[r.ObjectName] = r.Effective
		}
	}
	return out
}

func (m *memResults) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

var _ store.ResultsRepository = (*memResults)(nil)
