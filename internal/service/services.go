package service

import (
	"io"

	"github.com/MKhiriev/go-knee-pipeline/internal/adapter"
	"github.com/MKhiriev/go-knee-pipeline/internal/logger"
	"github.com/MKhiriev/go-knee-pipeline/internal/store"
	"github.com/MKhiriev/go-knee-pipeline/internal/workers"
	"github.com/MKhiriev/go-knee-pipeline/models"
)

// Tools groups the external collaborators of the stages.
type Tools struct {
	Preprocessor adapter.Preprocessor
	Trainer      adapter.Trainer
	Evaluator    adapter.Evaluator
}

type Services struct {
	AppInfoService       AppInfoService
	PreprocessService    PreprocessService
	TrainService         TrainService
	KneeDiscoveryService KneeDiscoveryService
	ReportService        ReportService

	flags  models.RunFlags
	logger *logger.Logger
}

// NewServices builds every stage of p. Report tables are printed to out.
func NewServices(
	p *models.Pipeline,
	buildInfo models.AppBuildInfo,
	results store.ResultsRepository,
	tools Tools,
	degrader Degrader,
	out io.Writer,
	logger *logger.Logger,
) (*Services, error) {
	layout, err := NewLayout(p)
	if err != nil {
		return nil, err
	}
	appInfo, err := NewAppInfoService(buildInfo, logger)
	if err != nil {
		return nil, err
	}

	return &Services{
		AppInfoService:       appInfo,
		PreprocessService:    NewPreprocessService(p, layout, tools.Preprocessor, logger.ForStage(StagePreprocess)),
		TrainService:         NewTrainService(p, layout, tools.Trainer, logger.ForStage(StageTrain)),
		KneeDiscoveryService: NewKneeDiscoveryService(p, layout, tools.Evaluator, degrader, results, logger.ForStage(StageKneeDiscovery)),
		ReportService:        NewReportService(p, layout, results, appInfo, out, logger.ForStage(StageReport)),
		flags:                p.RunFlags,
		logger:               logger,
	}, nil
}

// Workers schedules the stages enabled by the run flags in the fixed order
// preprocess, train, knee_discovery, report.
func (s *Services) Workers() *workers.Workers {
	return workers.NewWorkers(s.logger).
		Add(s.flags.RunPreprocess, NewPreprocessWorker(s.PreprocessService)).
		Add(s.flags.RunTrain, NewTrainWorker(s.TrainService)).
		Add(s.flags.RunKneeDiscovery, NewKneeDiscoveryWorker(s.KneeDiscoveryService)).
		Add(s.flags.GenerateReport, NewReportWorker(s.ReportService))
}
