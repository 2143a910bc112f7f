package service

import (
	"context"
	"fmt"
	"maps"

	"github.com/MKhiriev/go-knee-pipeline/internal/adapter"
	"github.com/MKhiriev/go-knee-pipeline/internal/logger"
	"github.com/MKhiriev/go-knee-pipeline/models"
)

type preprocessService struct {
	pipeline     *models.Pipeline
	layout       *Layout
	preprocessor adapter.Preprocessor

	logger *logger.Logger
}

func NewPreprocessService(p *models.Pipeline, layout *Layout, preprocessor adapter.Preprocessor, logger *logger.Logger) PreprocessService {
	return &preprocessService{
		pipeline:     p,
		layout:       layout,
		preprocessor: preprocessor,
		logger:       logger,
	}
}

// Preprocess leaves populated baseline directories alone unless
// preprocess.clean_subdir is set.
func (s *preprocessService) Preprocess(ctx context.Context) error {
	trainDir, err := s.layout.TrainBaselineDir()
	if err != nil {
		return err
	}
	valDir, err := s.layout.ValBaselineDir()
	if err != nil {
		return err
	}

	clean := s.pipeline.Preprocess.CleanSubdir
	if !clean {
		trainReady, err := hasEntries(trainDir)
		if err != nil {
			return err
		}
		valReady, err := hasEntries(valDir)
		if err != nil {
			return err
		}
		if trainReady && valReady {
			s.logger.Info().Str("train_dir", trainDir).Str("val_dir", valDir).
				Msg("baseline directories already populated, skipping preprocessing")
			return nil
		}
	}

	for _, dir := range []string{trainDir, valDir} {
		if err = resetDir(dir, clean); err != nil {
			return err
		}
	}

	method, _ := s.pipeline.Method()
	req := models.PreprocessRequest{
		Method:       s.pipeline.PreprocessMethod,
		ImagesDir:    s.layout.ImagesDir(),
		LabelsDir:    s.layout.LabelsDir(),
		TrainDir:     trainDir,
		ValDir:       valDir,
		ImageSize:    method.ImageSize,
		Stride:       method.Stride,
		TrainSplit:   s.pipeline.Preprocess.TrainSplit,
		TargetLabels: maps.Clone(s.pipeline.TargetLabels),
	}

	s.logger.Info().Str("method", req.Method).Str("train_dir", trainDir).Str("val_dir", valDir).
		Msg("preprocessing source imagery")
	if err = s.preprocessor.Preprocess(ctx, req); err != nil {
		return fmt.Errorf("error preprocessing with method %s: %w", req.Method, err)
	}
	return nil
}
