package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/MKhiriev/go-knee-pipeline/internal/adapter"
	"github.com/MKhiriev/go-knee-pipeline/internal/knee"
	"github.com/MKhiriev/go-knee-pipeline/internal/logger"
	"github.com/MKhiriev/go-knee-pipeline/internal/store"
	"github.com/MKhiriev/go-knee-pipeline/internal/utils"
	"github.com/MKhiriev/go-knee-pipeline/models"
)

type kneeDiscoveryService struct {
	pipeline  *models.Pipeline
	layout    *Layout
	evaluator adapter.Evaluator
	degrader  Degrader
	results   store.ResultsRepository

	logger *logger.Logger
}

func NewKneeDiscoveryService(
	p *models.Pipeline,
	layout *Layout,
	evaluator adapter.Evaluator,
	degrader Degrader,
	results store.ResultsRepository,
	logger *logger.Logger,
) KneeDiscoveryService {
	return &kneeDiscoveryService{
		pipeline:  p,
		layout:    layout,
		evaluator: evaluator,
		degrader:  degrader,
		results:   results,
		logger:    logger,
	}
}

// evalRun is the state of discovery on one trained artifact.
type evalRun struct {
	modelPath string
	modelFile string
	original  models.Resolution
	valDir    string

	images    int
	corrupted int
}

// DiscoverKnees sweeps every trained artifact of the selected model over the
// configured resolution range, locates the knee of each class curve and
// exports all stored rows to the eval results CSV.
func (s *kneeDiscoveryService) DiscoverKnees(ctx context.Context) ([]models.Knee, error) {
	kd := s.pipeline.KneeDiscovery.WithDefaults()

	if err := resetDir(s.layout.KneeDir(), kd.CleanSubdir); err != nil {
		return nil, err
	}
	if kd.CleanSubdir {
		if err := s.results.DeleteResults(ctx, models.ResultFilter{}); err != nil {
			return nil, fmt.Errorf("error clearing stored results: %w", err)
		}
	}

	artifacts, err := trainedArtifacts(s.pipeline, s.layout)
	if err != nil {
		return nil, err
	}
	if len(artifacts) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoTrainedModels, s.layout.ModelsDir())
	}

	valDir, err := s.layout.ValBaselineDir()
	if err != nil {
		return nil, err
	}
	original := s.layout.Baseline()
	sweep, err := knee.SweepResolutions(original, kd.SearchResolutionRange, kd.SearchResolutionStep)
	if err != nil {
		return nil, fmt.Errorf("error planning resolution sweep: %w", err)
	}

	var knees []models.Knee
	for _, artifact := range artifacts {
		run := &evalRun{
			modelPath: artifact,
			modelFile: filepath.Base(artifact),
			original:  original,
			valDir:    valDir,
		}

		s.logger.Info().Str("artifact", run.modelFile).Int("resolutions", len(sweep)).
			Str("from", sweep[0].String()).Str("to", sweep[len(sweep)-1].String()).
			Msg("sweeping degraded resolutions")

		for _, effective := range sweep {
			if err = s.evaluateAt(ctx, run, effective); err != nil {
				return knees, err
			}
		}
		if run.corrupted > 0 {
			s.logger.Warn().Str("artifact", run.modelFile).Int("corrupted", run.corrupted).Int("images", run.images).
				Msg("corrupted images were excluded from evaluation")
		}

		found, err := s.locateKnees(ctx, run, kd)
		if err != nil {
			return knees, err
		}
		knees = append(knees, found...)
	}

	if err = s.export(ctx); err != nil {
		return knees, err
	}
	return knees, nil
}

// evaluateAt degrades the validation set to effective, evaluates the run's
// model on it and stores one row per target class. With cache_results set
// an already stored evaluation is not repeated.
func (s *kneeDiscoveryService) evaluateAt(ctx context.Context, run *evalRun, effective models.Resolution) error {
	log := s.logger.With().Str("artifact", run.modelFile).Str("effective", effective.String()).Logger()

	if s.pipeline.CacheResults {
		cached, err := s.results.HasResults(ctx, models.EvalKey{
			ModelFile: run.modelFile,
			Original:  run.original,
			Effective: effective,
		})
		if err != nil {
			return fmt.Errorf("error checking cached results: %w", err)
		}
		if cached {
			log.Debug().Msg("evaluation cached, skipping")
			return nil
		}
	}

	degradedDir, err := s.layout.ValDegradedDir(effective)
	if err != nil {
		return err
	}
	stats, err := s.degrader.Degrade(ctx, run.valDir, degradedDir, run.original, effective)
	if err != nil {
		return fmt.Errorf("error degrading images to %s: %w", effective, err)
	}
	run.images = max(run.images, stats.Images)
	run.corrupted += stats.Corrupted
	log.Debug().Any("stats", stats).Msg("validation set degraded")

	scores, err := s.evaluator.Evaluate(ctx, models.EvalRequest{
		ModelPath:    run.modelPath,
		DataDir:      degradedDir,
		Original:     run.original,
		Effective:    effective,
		UseGPU:       s.pipeline.UseGPU,
		TargetLabels: s.pipeline.TargetLabels,
	})
	if err != nil {
		return fmt.Errorf("error evaluating %s at %s: %w", run.modelFile, effective, err)
	}

	runID, _ := utils.GetRunIDFromContext(ctx)
	factor := models.DegradationFactor(run.original, effective)

	rows := make([]models.EvalResult, 0, len(scores))
	for _, class := range s.classNames() {
		mAP, ok := scores[class]
		if !ok {
			log.Warn().Str("class", class).Msg("evaluator reported no score for class")
			continue
		}
		rows = append(rows, models.EvalResult{
			RunID:             runID,
			ModelFile:         run.modelFile,
			ObjectName:        class,
			Original:          run.original,
			Effective:         effective,
			DegradationFactor: factor,
			MAP:               mAP,
		})
	}
	if len(rows) == 0 {
		log.Warn().Msg("evaluation produced no scores for the target classes")
		return nil
	}

	if err = s.results.SaveResults(ctx, rows...); err != nil {
		return fmt.Errorf("error saving results of %s at %s: %w", run.modelFile, effective, err)
	}
	log.Info().Float64("degradation_factor", factor).Int("classes", len(rows)).Msg("evaluation stored")
	return nil
}

// locateKnees finds the knee of every class curve of run, refining it by
// bisection when the binary search algorithm is selected, and flags the
// knee rows in the store.
func (s *kneeDiscoveryService) locateKnees(ctx context.Context, run *evalRun, kd models.KneeDiscoveryStage) ([]models.Knee, error) {
	var knees []models.Knee

	for _, class := range s.classNames() {
		log := s.logger.With().Str("artifact", run.modelFile).Str("class", class).Logger()

		curve, err := s.curve(ctx, run, class)
		if err != nil {
			return knees, err
		}
		if len(curve) == 0 {
			log.Warn().Msg("no stored results for class")
			continue
		}

		var res knee.Result
		if kd.Algorithm() == models.SearchAlgorithmBinary {
			probe := func(ctx context.Context, effective models.Resolution) ([]knee.Sample, error) {
				if err := s.evaluateAt(ctx, run, effective); err != nil {
					return nil, err
				}
				return s.curve(ctx, run, class)
			}
			res, err = knee.Refine(ctx, run.original, curve, knee.RefineOptions{
				MaxIterations:        kd.MaxIterations,
				DegradationTolerance: kd.DegradationTolerance,
				MAPTolerance:         kd.MAPTolerance,
				MinMAP:               kd.MinMAP,
			}, probe)
			if err != nil {
				return knees, fmt.Errorf("error refining knee of %s: %w", class, err)
			}
		} else {
			res = knee.Detect(curve, kd.MinMAP)
		}

		var kneeAt *models.Resolution
		if res.Found {
			effective := res.Knee.Effective
			kneeAt = &effective
		}
		if err = s.results.MarkKnee(ctx, run.modelFile, class, run.original, kneeAt); err != nil {
			if !errors.Is(err, store.ErrKneeNotFound) {
				return knees, fmt.Errorf("error marking knee of %s: %w", class, err)
			}
			log.Warn().Err(err).Msg("knee row is missing from the store")
		}

		if !res.Found {
			log.Info().Str("reason", string(res.Reason)).Int("iterations", res.Iterations).Msg("no knee found")
			continue
		}

		k := models.Knee{
			ModelFile:         run.modelFile,
			ObjectName:        class,
			Original:          run.original,
			Effective:         res.Knee.Effective,
			DegradationFactor: res.Knee.Factor,
			MAP:               res.Knee.MAP,
		}
		knees = append(knees, k)
		log.Info().
			Float64("degradation_factor", k.DegradationFactor).
			Float64("mAP", k.MAP).
			Str("effective", k.Effective.String()).
			Str("reason", string(res.Reason)).
			Int("iterations", res.Iterations).
			Msg("knee discovered")
	}
	return knees, nil
}

// curve loads the stored samples of one class evaluated against the run's
// original resolution.
func (s *kneeDiscoveryService) curve(ctx context.Context, run *evalRun, class string) ([]knee.Sample, error) {
	rows, err := s.results.ListResults(ctx, models.ResultFilter{ModelFile: run.modelFile, ObjectName: class})
	if err != nil {
		return nil, fmt.Errorf("error loading results of %s: %w", class, err)
	}

	curve := make([]knee.Sample, 0, len(rows))
	for _, r := range rows {
		if r.Original != run.original {
			continue
		}
		curve = append(curve, knee.NewSample(r.Original, r.Effective, r.MAP))
	}
	return curve, nil
}

func (s *kneeDiscoveryService) export(ctx context.Context) error {
	rows, err := s.results.ListResults(ctx, models.ResultFilter{})
	if err != nil {
		return fmt.Errorf("error loading results for export: %w", err)
	}

	path := s.layout.EvalResultsPath()
	if err = store.ExportCSV(ctx, path, rows); err != nil {
		if errors.Is(err, store.ErrNothingToExport) {
			s.logger.Warn().Str("path", path).Msg("no results to export")
			return nil
		}
		return fmt.Errorf("error exporting results: %w", err)
	}
	s.logger.Info().Str("path", path).Int("rows", len(rows)).Msg("evaluation results exported")
	return nil
}

// classNames lists target class names ordered by class id.
func (s *kneeDiscoveryService) classNames() []string {
	return classNames(s.pipeline.TargetLabels)
}

func classNames(labels map[int]string) []string {
	ids := make([]int, 0, len(labels))
	for id := range labels {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, labels[id])
	}
	return names
}
