package service

import (
	"context"
	"fmt"
	"maps"

	"github.com/MKhiriev/go-knee-pipeline/internal/adapter"
	"github.com/MKhiriev/go-knee-pipeline/internal/logger"
	"github.com/MKhiriev/go-knee-pipeline/internal/utils"
	"github.com/MKhiriev/go-knee-pipeline/models"
)

// TrainingRun is one point of the hyperparameter grid merged over the
// model's static params.
type TrainingRun struct {
	Params   models.Params
	Hash     string
	Filename string
}

// PlanTraining expands the model's grid in its deterministic order. Runs
// that resolve to the same artifact filename are planned once.
func PlanTraining(model models.Model) ([]TrainingRun, error) {
	combos := model.Hyperparameters.Combinations()
	runs := make([]TrainingRun, 0, len(combos))
	seen := make(map[string]struct{}, len(combos))

	for _, combo := range combos {
		params := model.Params.Merge(combo)

		hash, err := utils.HashParams(params)
		if err != nil {
			return nil, fmt.Errorf("error hashing training params: %w", err)
		}
		filename, err := utils.ResolveTemplate(model.OutputFilename, map[string]any{
			utils.PlaceholderHashedParams: hash,
		})
		if err != nil {
			return nil, fmt.Errorf("error resolving output_filename: %w", err)
		}

		if _, ok := seen[filename]; ok {
			continue
		}
		seen[filename] = struct{}{}
		runs = append(runs, TrainingRun{Params: params, Hash: hash, Filename: filename})
	}
	return runs, nil
}

type trainService struct {
	pipeline *models.Pipeline
	layout   *Layout
	trainer  adapter.Trainer

	logger *logger.Logger
}

func NewTrainService(p *models.Pipeline, layout *Layout, trainer adapter.Trainer, logger *logger.Logger) TrainService {
	return &trainService{
		pipeline: p,
		layout:   layout,
		trainer:  trainer,
		logger:   logger,
	}
}

// Train skips runs whose artifact already exists unless train.clean_subdir
// is set.
func (s *trainService) Train(ctx context.Context) ([]string, error) {
	model, ok := s.pipeline.SelectedModel()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownModel, s.pipeline.Model)
	}

	runs, err := PlanTraining(model)
	if err != nil {
		return nil, err
	}

	trainDir, err := s.layout.TrainBaselineDir()
	if err != nil {
		return nil, err
	}
	valDir, err := s.layout.ValBaselineDir()
	if err != nil {
		return nil, err
	}
	if err = resetDir(s.layout.ModelsDir(), s.pipeline.Train.CleanSubdir); err != nil {
		return nil, err
	}

	artifacts := make([]string, 0, len(runs))
	for i, run := range runs {
		if err = ctx.Err(); err != nil {
			return artifacts, err
		}

		path := s.layout.ModelPath(run.Filename)
		log := s.logger.With().
			Str("model", s.pipeline.Model).
			Str("artifact", run.Filename).
			Int("run", i+1).
			Int("runs", len(runs)).
			Logger()

		exists, err := fileExists(path)
		if err != nil {
			return artifacts, err
		}
		if exists {
			log.Info().Msg("trained model found, skipping training")
			artifacts = append(artifacts, path)
			continue
		}

		log.Info().Any("params", run.Params).Msg("training model")
		err = s.trainer.Train(ctx, models.TrainRequest{
			Model:        s.pipeline.Model,
			Pretrained:   model.Pretrained,
			TrainDir:     trainDir,
			ValDir:       valDir,
			OutputPath:   path,
			Params:       run.Params,
			UseGPU:       s.pipeline.UseGPU,
			TargetLabels: maps.Clone(s.pipeline.TargetLabels),
		})
		if err != nil {
			return artifacts, fmt.Errorf("error training %s: %w", run.Filename, err)
		}
		artifacts = append(artifacts, path)
	}

	return artifacts, nil
}

// trainedArtifacts lists the planned artifacts of the selected model that
// exist on disk, in plan order.
func trainedArtifacts(p *models.Pipeline, layout *Layout) ([]string, error) {
	model, ok := p.SelectedModel()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownModel, p.Model)
	}
	runs, err := PlanTraining(model)
	if err != nil {
		return nil, err
	}

	var artifacts []string
	for _, run := range runs {
		path := layout.ModelPath(run.Filename)
		exists, err := fileExists(path)
		if err != nil {
			return nil, err
		}
		if exists {
			artifacts = append(artifacts, path)
		}
	}
	return artifacts, nil
}
