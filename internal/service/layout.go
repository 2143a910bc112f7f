package service

import (
	"fmt"
	"path/filepath"

	"github.com/MKhiriev/go-knee-pipeline/internal/utils"
	"github.com/MKhiriev/go-knee-pipeline/models"
)

// Layout resolves the directories and files of a pipeline run from the
// document's roots, subdirs and path templates.
type Layout struct {
	pipeline *models.Pipeline
	method   models.PreprocessMethod
}

// NewLayout fails when the selected preprocessing method is not declared.
func NewLayout(p *models.Pipeline) (*Layout, error) {
	method, ok := p.Method()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPreprocessMethod, p.PreprocessMethod)
	}
	return &Layout{pipeline: p, method: method}, nil
}

// Baseline is the resolution of every preprocessed image: a square of the
// method's image size.
func (l *Layout) Baseline() models.Resolution {
	return models.Resolution{Width: l.method.ImageSize, Height: l.method.ImageSize}
}

func (l *Layout) ImagesDir() string {
	return filepath.Join(l.pipeline.InputDir, l.pipeline.ImagesSubdir)
}

func (l *Layout) LabelsDir() string {
	return filepath.Join(l.pipeline.InputDir, l.pipeline.LabelsSubdir)
}

func (l *Layout) TrainBaselineDir() (string, error) {
	return l.preprocessed(l.method.TrainBaselineSubdir, l.baselineValues())
}

func (l *Layout) ValBaselineDir() (string, error) {
	return l.preprocessed(l.method.ValBaselineSubdir, l.baselineValues())
}

// ValDegradedDir is the validation set degraded to effective.
func (l *Layout) ValDegradedDir(effective models.Resolution) (string, error) {
	values := l.baselineValues()
	values[utils.PlaceholderEffectiveWidth] = effective.Width
	values[utils.PlaceholderEffectiveHeight] = effective.Height
	return l.preprocessed(l.method.ValDegradedSubdir, values)
}

func (l *Layout) ModelsDir() string {
	return filepath.Join(l.pipeline.OutputDir, l.pipeline.Train.OutputSubdir)
}

func (l *Layout) ModelPath(filename string) string {
	return filepath.Join(l.ModelsDir(), filename)
}

func (l *Layout) KneeDir() string {
	return filepath.Join(l.pipeline.OutputDir, l.pipeline.KneeDiscovery.OutputSubdir)
}

func (l *Layout) EvalResultsPath() string {
	return filepath.Join(l.KneeDir(), l.pipeline.KneeDiscovery.EvalResultsFilename)
}

func (l *Layout) ReportDir() string {
	return filepath.Join(l.pipeline.OutputDir, l.pipeline.Report.OutputSubdir)
}

func (l *Layout) ReportPath() string {
	return filepath.Join(l.ReportDir(), l.pipeline.Report.ReportFilename)
}

// baselineValues holds {maxwidth} and {maxheight} and, for tiling only,
// {stride}.
func (l *Layout) baselineValues() map[string]any {
	values := map[string]any{
		utils.PlaceholderMaxWidth:  l.method.ImageSize,
		utils.PlaceholderMaxHeight: l.method.ImageSize,
	}
	if l.pipeline.PreprocessMethod == models.PreprocessTiling {
		values[utils.PlaceholderStride] = l.method.Stride
	}
	return values
}

func (l *Layout) preprocessed(tmpl string, values map[string]any) (string, error) {
	subdir, err := utils.ResolveTemplate(tmpl, values)
	if err != nil {
		return "", fmt.Errorf("error resolving preprocess_methods.%s template: %w", l.pipeline.PreprocessMethod, err)
	}
	return filepath.Join(l.pipeline.PreprocessDir, subdir), nil
}
