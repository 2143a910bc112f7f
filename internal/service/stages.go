package service

import (
	"context"

	"github.com/MKhiriev/go-knee-pipeline/internal/logger"
	"github.com/MKhiriev/go-knee-pipeline/internal/workers"
)

// Stage names in run order.
const (
	StagePreprocess    = "preprocess"
	StageTrain         = "train"
	StageKneeDiscovery = "knee_discovery"
	StageReport        = "report"
)

type stage struct {
	name string
	run  func(ctx context.Context) error
}

func (s *stage) Name() string { return s.name }

func (s *stage) Run(ctx context.Context) error { return s.run(ctx) }

func NewPreprocessWorker(svc PreprocessService) workers.Worker {
	return &stage{name: StagePreprocess, run: svc.Preprocess}
}

func NewTrainWorker(svc TrainService) workers.Worker {
	return &stage{name: StageTrain, run: func(ctx context.Context) error {
		artifacts, err := svc.Train(ctx)
		if err != nil {
			return err
		}
		logger.FromContext(ctx).Info().Strs("artifacts", artifacts).Msg("models ready")
		return nil
	}}
}

func NewKneeDiscoveryWorker(svc KneeDiscoveryService) workers.Worker {
	return &stage{name: StageKneeDiscovery, run: func(ctx context.Context) error {
		knees, err := svc.DiscoverKnees(ctx)
		if err != nil {
			return err
		}
		logger.FromContext(ctx).Info().Int("knees", len(knees)).Msg("knee discovery done")
		return nil
	}}
}

func NewReportWorker(svc ReportService) workers.Worker {
	return &stage{name: StageReport, run: func(ctx context.Context) error {
		_, err := svc.GenerateReport(ctx)
		return err
	}}
}
