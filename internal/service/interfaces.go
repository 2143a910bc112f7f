// Package service implements the pipeline stages: preprocessing, training,
// knee discovery and reporting. Each stage is a small service built from the
// pipeline document and the collaborators it drives; services.go assembles
// them and exposes them as workers.
package service

import (
	"context"

	"github.com/MKhiriev/go-knee-pipeline/internal/imaging"
	"github.com/MKhiriev/go-knee-pipeline/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// Degrader produces the degraded copy of a baseline directory.
type Degrader interface {
	Degrade(ctx context.Context, srcDir, dstDir string, original, effective models.Resolution) (imaging.DegradeStats, error)
}

// AppInfoService exposes the build metadata of the running binary.
type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
	GetBuildInfo(ctx context.Context) models.AppBuildInfo
}

// PreprocessService fills the train and validation baseline directories.
type PreprocessService interface {
	Preprocess(ctx context.Context) error
}

// TrainService trains one model per hyperparameter combination and returns
// the artifact paths, trained or cached.
type TrainService interface {
	Train(ctx context.Context) ([]string, error)
}

// KneeDiscoveryService evaluates every trained artifact over degraded
// resolutions and returns the knees found per class.
type KneeDiscoveryService interface {
	DiscoverKnees(ctx context.Context) ([]models.Knee, error)
}

// ReportService renders the stored results and returns the report path.
type ReportService interface {
	GenerateReport(ctx context.Context) (string, error)
}
