package service

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-knee-pipeline/internal/adapter"
	"github.com/MKhiriev/go-knee-pipeline/internal/imaging"
	"github.com/MKhiriev/go-knee-pipeline/internal/logger"
	"github.com/MKhiriev/go-knee-pipeline/internal/mock"
	"github.com/MKhiriev/go-knee-pipeline/internal/store"
	"github.com/MKhiriev/go-knee-pipeline/internal/utils"
	"github.com/MKhiriev/go-knee-pipeline/models"
)

// mAP by effective width: the fixed-wing curve saturates at 40 px, the cargo
// curve at 60 px.
var (
	fixedWingMAP = map[int]float64{20: 0.4, 30: 0.6, 40: 0.8, 50: 0.8, 60: 0.8, 80: 0.8, 100: 0.8}
	cargoMAP     = map[int]float64{20: 0.2, 30: 0.3, 40: 0.4, 50: 0.5, 60: 0.6, 80: 0.6, 100: 0.6}
)

type kneeFixture struct {
	pipeline  *models.Pipeline
	layout    *Layout
	results   *memResults
	evaluator *mock.MockEvaluator
	degrader  *mock.MockDegrader
	svc       KneeDiscoveryService
	artifact  string
}

func newKneeFixture(t *testing.T, ctrl *gomock.Controller, mutate func(p *models.Pipeline)) *kneeFixture {
	t.Helper()

	p := testPipeline(t.TempDir())
	if mutate != nil {
		mutate(p)
	}
	layout := testLayout(t, p)
	results := newMemResults()
	evaluator := mock.NewMockEvaluator(ctrl)
	degrader := mock.NewMockDegrader(ctrl)

	f := &kneeFixture{
		pipeline:  p,
		layout:    layout,
		results:   results,
		evaluator: evaluator,
		degrader:  degrader,
		svc:       NewKneeDiscoveryService(p, layout, evaluator, degrader, results, logger.Nop()),
	}
	if artifacts := writeArtifacts(t, p, layout); len(artifacts) > 0 {
		f.artifact = artifacts[0]
	}
	return f
}

// expectEvaluations lets the degrader succeed and has the evaluator score
// both classes from the curve tables, recording evaluated widths.
func (f *kneeFixture) expectEvaluations(t *testing.T, widths *[]int) {
	valDir, err := f.layout.ValBaselineDir()
	require.NoError(t, err)

	f.degrader.EXPECT().
		Degrade(gomock.Any(), valDir, gomock.Any(), models.Resolution{Width: 100, Height: 100}, gomock.Any()).
		AnyTimes().
		DoAndReturn(func(_ context.Context, _, dstDir string, _, effective models.Resolution) (imaging.DegradeStats, error) {
			want, err := f.layout.ValDegradedDir(effective)
			require.NoError(t, err)
			assert.Equal(t, want, dstDir)
			return imaging.DegradeStats{Images: 4, Degraded: 4}, nil
		})

	f.evaluator.EXPECT().Evaluate(gomock.Any(), gomock.Any()).AnyTimes().DoAndReturn(
		func(_ context.Context, req models.EvalRequest) (map[string]float64, error) {
			assert.Equal(t, f.artifact, req.ModelPath)
			assert.Equal(t, models.Resolution{Width: 100, Height: 100}, req.Original)
			assert.Equal(t, req.Effective.Width, req.Effective.Height)
			*widths = append(*widths, req.Effective.Width)
			return map[string]float64{
				classFixedWing: fixedWingMAP[req.Effective.Width],
				classCargo:     cargoMAP[req.Effective.Width],
			}, nil
		},
	)
}

func square(side int) models.Resolution {
	return models.Resolution{Width: side, Height: side}
}

// ── detection only ───────────────────────────────────────────────────────────

func TestKneeDiscovery_DetectsKneePerClass(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newKneeFixture(t, ctrl, nil)
	var widths []int
	f.expectEvaluations(t, &widths)

	knees, err := f.svc.DiscoverKnees(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []int{20, 40, 60, 80, 100}, widths)
	require.Len(t, knees, 2)

	assert.Equal(t, classFixedWing, knees[0].ObjectName)
	assert.Equal(t, square(40), knees[0].Effective)
	assert.InDelta(t, 0.4, knees[0].DegradationFactor, 1e-9)
	assert.InDelta(t, 0.8, knees[0].MAP, 1e-9)
	assert.Equal(t, filepath.Base(f.artifact), knees[0].ModelFile)

	assert.Equal(t, classCargo, knees[1].ObjectName)
	assert.Equal(t, square(60), knees[1].Effective)

	assert.Equal(t, map[string]models.Resolution{
		classFixedWing: square(40),
		classCargo:     square(60),
	}, f.results.knees())
	assert.Equal(t, 10, f.results.len())
}

func TestKneeDiscovery_ExportsCSV(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newKneeFixture(t, ctrl, nil)
	var widths []int
	f.expectEvaluations(t, &widths)

	_, err := f.svc.DiscoverKnees(context.Background())
	require.NoError(t, err)

	file, err := os.Open(f.layout.EvalResultsPath())
	require.NoError(t, err)
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 11)
	assert.Equal(t, store.CSVHeader, records[0])

	knees := 0
	for _, r := range records[1:] {
		if r[8] == "true" {
			knees++
		}
	}
	assert.Equal(t, 2, knees)
}

func TestKneeDiscovery_RunIDTagsRows(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newKneeFixture(t, ctrl, nil)
	var widths []int
	f.expectEvaluations(t, &widths)

	ctx := utils.WithRunID(context.Background(), "run-42")
	_, err := f.svc.DiscoverKnees(ctx)
	require.NoError(t, err)

	rows, err := f.results.ListResults(context.Background(), models.ResultFilter{})
	require.NoError(t, err)
	for _, r := range rows {
		assert.Equal(t, "run-42", r.RunID)
	}
}

// ── binary refinement ────────────────────────────────────────────────────────

func TestKneeDiscovery_BinaryRefinementProbesBetweenSamples(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newKneeFixture(t, ctrl, func(p *models.Pipeline) {
		p.KneeDiscovery.SearchAlgorithm = models.SearchAlgorithmBinary
	})
	var widths []int
	f.expectEvaluations(t, &widths)

	knees, err := f.svc.DiscoverKnees(context.Background())
	require.NoError(t, err)

	// the fixed-wing knee probes 30 px, the cargo knee probes 50 px
	assert.Equal(t, []int{20, 40, 60, 80, 100, 30, 50}, widths)

	require.Len(t, knees, 2)
	assert.Equal(t, square(40), knees[0].Effective)
	assert.Equal(t, square(60), knees[1].Effective)
	assert.Equal(t, 14, f.results.len())
}

// ── caching and cleaning ─────────────────────────────────────────────────────

func TestKneeDiscovery_CachedResultsAreNotReevaluated(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newKneeFixture(t, ctrl, func(p *models.Pipeline) {
		p.CacheResults = true
	})

	original := square(100)
	for _, side := range []int{20, 40, 60, 80, 100} {
		for class, table := range map[string]map[int]float64{classFixedWing: fixedWingMAP, classCargo: cargoMAP} {
			require.NoError(t, f.results.SaveResults(context.Background(), models.EvalResult{
				ModelFile:         filepath.Base(f.artifact),
				ObjectName:        class,
				Original:          original,
				Effective:         square(side),
				DegradationFactor: models.DegradationFactor(original, square(side)),
				MAP:               table[side],
			}))
		}
	}

	f.degrader.EXPECT().Degrade(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	f.evaluator.EXPECT().Evaluate(gomock.Any(), gomock.Any()).Times(0)

	knees, err := f.svc.DiscoverKnees(context.Background())
	require.NoError(t, err)
	assert.Len(t, knees, 2)
}

func TestKneeDiscovery_CleanSubdirDropsPreviousResults(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newKneeFixture(t, ctrl, func(p *models.Pipeline) {
		p.KneeDiscovery.CleanSubdir = true
		p.CacheResults = true
	})

	stale := models.EvalResult{
		ModelFile:  filepath.Base(f.artifact),
		ObjectName: classCargo,
		Original:   square(100),
		Effective:  square(20),
		MAP:        0.99,
	}
	require.NoError(t, f.results.SaveResults(context.Background(), stale))
	require.NoError(t, os.MkdirAll(f.layout.KneeDir(), 0o755))
	leftover := filepath.Join(f.layout.KneeDir(), "old.csv")
	require.NoError(t, os.WriteFile(leftover, []byte("x"), 0o644))

	var widths []int
	f.expectEvaluations(t, &widths)

	_, err := f.svc.DiscoverKnees(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []int{20, 40, 60, 80, 100}, widths)
	assert.NoFileExists(t, leftover)
	assert.FileExists(t, f.layout.EvalResultsPath())
}

// ── partial and failing evaluations ──────────────────────────────────────────

func TestKneeDiscovery_MissingClassScoreIsSkipped(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newKneeFixture(t, ctrl, nil)
	f.degrader.EXPECT().Degrade(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		AnyTimes().Return(imaging.DegradeStats{}, nil)
	f.evaluator.EXPECT().Evaluate(gomock.Any(), gomock.Any()).Times(5).DoAndReturn(
		func(_ context.Context, req models.EvalRequest) (map[string]float64, error) {
			return map[string]float64{classFixedWing: fixedWingMAP[req.Effective.Width]}, nil
		},
	)

	knees, err := f.svc.DiscoverKnees(context.Background())
	require.NoError(t, err)
	require.Len(t, knees, 1)
	assert.Equal(t, classFixedWing, knees[0].ObjectName)
	assert.Equal(t, 5, f.results.len())
}

func TestKneeDiscovery_FlatCurveHasNoKnee(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newKneeFixture(t, ctrl, nil)
	f.degrader.EXPECT().Degrade(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		AnyTimes().Return(imaging.DegradeStats{}, nil)
	f.evaluator.EXPECT().Evaluate(gomock.Any(), gomock.Any()).Times(5).
		Return(map[string]float64{classFixedWing: 0.5, classCargo: 0}, nil)

	knees, err := f.svc.DiscoverKnees(context.Background())
	require.NoError(t, err)
	assert.Empty(t, knees)
	assert.Empty(t, f.results.knees())
}

func TestKneeDiscovery_EvaluatorError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newKneeFixture(t, ctrl, nil)
	f.degrader.EXPECT().Degrade(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(imaging.DegradeStats{}, nil)
	f.evaluator.EXPECT().Evaluate(gomock.Any(), gomock.Any()).
		Return(nil, adapter.ErrMalformedEvalOutput)

	_, err := f.svc.DiscoverKnees(context.Background())
	assert.ErrorIs(t, err, adapter.ErrMalformedEvalOutput)
	assert.NoFileExists(t, f.layout.EvalResultsPath())
}

func TestKneeDiscovery_DegraderError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newKneeFixture(t, ctrl, nil)
	f.degrader.EXPECT().Degrade(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(imaging.DegradeStats{}, imaging.ErrInvalidResolution)

	_, err := f.svc.DiscoverKnees(context.Background())
	assert.ErrorIs(t, err, imaging.ErrInvalidResolution)
}

func TestKneeDiscovery_SaveError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	p := testPipeline(t.TempDir())
	layout := testLayout(t, p)
	writeArtifacts(t, p, layout)

	repo := mock.NewMockResultsRepository(ctrl)
	evaluator := mock.NewMockEvaluator(ctrl)
	degrader := mock.NewMockDegrader(ctrl)
	svc := NewKneeDiscoveryService(p, layout, evaluator, degrader, repo, logger.Nop())

	boom := errors.New("database is locked")
	degrader.EXPECT().Degrade(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(imaging.DegradeStats{}, nil)
	evaluator.EXPECT().Evaluate(gomock.Any(), gomock.Any()).
		Return(map[string]float64{classFixedWing: 0.4, classCargo: 0.2}, nil)
	repo.EXPECT().SaveResults(gomock.Any(), gomock.Any(), gomock.Any()).Return(boom)

	_, err := svc.DiscoverKnees(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestKneeDiscovery_NoTrainedModels(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	p := testPipeline(t.TempDir())
	layout := testLayout(t, p)
	svc := NewKneeDiscoveryService(p, layout, mock.NewMockEvaluator(ctrl), mock.NewMockDegrader(ctrl), newMemResults(), logger.Nop())

	knees, err := svc.DiscoverKnees(context.Background())
	assert.Nil(t, knees)
	assert.ErrorIs(t, err, ErrNoTrainedModels)
}

// ── helpers ──────────────────────────────────────────────────────────────────

func TestClassNames_OrderedByID(t *testing.T) {
	assert.Equal(t,
		[]string{"Fixed-wing Aircraft", "Small Aircraft", "Cargo Plane", "Helicopter"},
		classNames(map[int]string{15: "Helicopter", 11: "Fixed-wing Aircraft", 13: "Cargo Plane", 12: "Small Aircraft"}),
	)
}
