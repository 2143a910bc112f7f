package store

import (
	"context"

	"github.com/MKhiriev/go-knee-pipeline/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// ResultsRepository persists evaluation results of the knee-discovery stage.
type ResultsRepository interface {
	// SaveResults upserts rows keyed by model file, class and resolutions.
	SaveResults(ctx context.Context, results ...models.EvalResult) error
	// ListResults returns matching rows ordered by model file, class and
	// degradation factor.
	ListResults(ctx context.Context, filter models.ResultFilter) ([]models.EvalResult, error)
	// HasResults reports whether the evaluation identified by key was stored.
	HasResults(ctx context.Context, key models.EvalKey) (bool, error)
	// MarkKnee clears the knee flag of one class curve and, when knee is not
	// nil, sets it on the row at that effective resolution.
	MarkKnee(ctx context.Context, modelFile, objectName string, original models.Resolution, knee *models.Resolution) error
	// DeleteResults removes matching rows.
	DeleteResults(ctx context.Context, filter models.ResultFilter) error
}

// ErrorClassificator decides whether a failed database operation is worth
// retrying.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
