package validators

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/MKhiriev/go-knee-pipeline/internal/utils"
	"github.com/MKhiriev/go-knee-pipeline/models"
)

// Section names accepted as field scopes by PipelineValidator.Validate.
const (
	FieldPaths             = "paths"
	FieldPixelResolution   = "pixel_resolution"
	FieldTargetLabels      = "target_labels"
	FieldPreprocessMethod  = "preprocess_method"
	FieldPreprocessMethods = "preprocess_methods"
	FieldModel             = "model"
	FieldModels            = "models"
	FieldPreprocess        = "preprocess"
	FieldTrain             = "train"
	FieldKneeDiscovery     = "knee_discovery"
	FieldReport            = "report"
)

var allFields = []string{
	FieldPaths,
	FieldPixelResolution,
	FieldTargetLabels,
	FieldPreprocessMethod,
	FieldPreprocessMethods,
	FieldModel,
	FieldModels,
	FieldPreprocess,
	FieldTrain,
	FieldKneeDiscovery,
	FieldReport,
}

var allowedMethods = []string{models.PreprocessTiling, models.PreprocessPadding}

var allowedSearchAlgorithms = []string{models.SearchAlgorithmNone, models.SearchAlgorithmBinary}

// PipelineValidator checks a pipeline document for structural and
// referential consistency. Sections whose stage is disabled by the run
// flags are only checked for values that are present.
type PipelineValidator struct {
}

// NewPipelineValidator constructs a PipelineValidator.
func NewPipelineValidator() Validator {
	return &PipelineValidator{}
}

// Validate accepts models.Pipeline or *models.Pipeline. Without fields every
// section is checked.
func (v *PipelineValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.Pipeline:
		return v.validatePipeline(ctx, &value, fields...)
	case *models.Pipeline:
		if value == nil {
			return ErrUnsupportedType
		}
		return v.validatePipeline(ctx, value, fields...)
	default:
		return ErrUnsupportedType
	}
}

func (v *PipelineValidator) validatePipeline(_ context.Context, p *models.Pipeline, fields ...string) error {
	if len(fields) == 0 {
		fields = allFields
	}

	c := &collector{}
	for _, f := range fields {
		switch f {
		case FieldPaths:
			validatePaths(c, p)
		case FieldPixelResolution:
			if p.PixelResolution < 0 {
				c.add(FieldPixelResolution, p.PixelResolution, ErrInvalidPixelResolution)
			}
		case FieldTargetLabels:
			validateTargetLabels(c, p)
		case FieldPreprocessMethod:
			c.required(FieldPreprocessMethod, p.PreprocessMethod)
			if _, ok := p.Method(); p.PreprocessMethod != "" && !ok {
				c.add(FieldPreprocessMethod, p.PreprocessMethod,
					fmt.Errorf("%w: no preprocess_methods.%s", ErrDanglingReference, p.PreprocessMethod))
			}
		case FieldPreprocessMethods:
			validatePreprocessMethods(c, p.PreprocessMethods)
		case FieldModel:
			c.required(FieldModel, p.Model)
			if _, ok := p.SelectedModel(); p.Model != "" && !ok {
				c.add(FieldModel, p.Model,
					fmt.Errorf("%w: no models.%s", ErrDanglingReference, p.Model))
			}
		case FieldModels:
			validateModels(c, p.Models)
		case FieldPreprocess:
			validatePreprocessStage(c, p)
		case FieldTrain:
			if p.RunTrain || p.RunKneeDiscovery {
				c.required("train.output_subdir", p.Train.OutputSubdir)
			}
		case FieldKneeDiscovery:
			validateKneeDiscovery(c, p)
		case FieldReport:
			if p.GenerateReport {
				c.required("report.output_subdir", p.Report.OutputSubdir)
				c.required("report.report_filename", p.Report.ReportFilename)
			}
		default:
			return fmt.Errorf("%w: %s", ErrUnknownField, f)
		}
	}

	return c.err()
}

func validatePaths(c *collector, p *models.Pipeline) {
	if p.RunPreprocess {
		c.required("input_dir", p.InputDir)
		c.required("images_subdir", p.ImagesSubdir)
		c.required("labels_subdir", p.LabelsSubdir)
	}
	if p.RunPreprocess || p.RunTrain || p.RunKneeDiscovery {
		c.required("preprocess_dir", p.PreprocessDir)
	}
	if p.RunTrain || p.RunKneeDiscovery || p.GenerateReport {
		c.required("output_dir", p.OutputDir)
	}
}

func validateTargetLabels(c *collector, p *models.Pipeline) {
	if len(p.TargetLabels) == 0 {
		if p.RunPreprocess || p.RunKneeDiscovery {
			c.add(FieldTargetLabels, nil, ErrRequired)
		}
		return
	}

	ids := make([]int, 0, len(p.TargetLabels))
	for id := range p.TargetLabels {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for _, id := range ids {
		path := FieldTargetLabels + "." + strconv.Itoa(id)
		if id < 0 {
			c.add(path, id, ErrInvalidClassID)
		}
		if strings.TrimSpace(p.TargetLabels[id]) == "" {
			c.add(path, nil, ErrEmptyClassName)
		}
	}
}

func validatePreprocessMethods(c *collector, methods map[string]models.PreprocessMethod) {
	names := make([]string, 0, len(methods))
	for name := range methods {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		m := methods[name]
		base := FieldPreprocessMethods + "." + name

		if !contains(allowedMethods, name) {
			c.add(base, name, fmt.Errorf("%w (allowed: %s)", ErrUnknownMethod, strings.Join(allowedMethods, ", ")))
			continue
		}
		if m.ImageSize <= 0 {
			c.add(base+".image_size", m.ImageSize, ErrInvalidImageSize)
		}

		baseline := []string{utils.PlaceholderMaxWidth, utils.PlaceholderMaxHeight}
		switch name {
		case models.PreprocessTiling:
			if m.Stride <= 0 {
				c.add(base+".stride", m.Stride, fmt.Errorf("%w: tiling requires a positive stride", ErrInvalidStride))
			}
			baseline = append(baseline, utils.PlaceholderStride)
		case models.PreprocessPadding:
			if m.Stride != 0 {
				c.add(base+".stride", m.Stride, fmt.Errorf("%w: padding takes no stride", ErrInvalidStride))
			}
		}
		degraded := append(append([]string{}, baseline...), utils.PlaceholderEffectiveWidth, utils.PlaceholderEffectiveHeight)

		validateTemplate(c, base+".train_baseline_subdir", m.TrainBaselineSubdir, baseline)
		validateTemplate(c, base+".val_baseline_subdir", m.ValBaselineSubdir, baseline)
		validateTemplate(c, base+".val_degraded_subdir", m.ValDegradedSubdir, degraded)
	}
}

func validateTemplate(c *collector, path, tmpl string, available []string) {
	if strings.TrimSpace(tmpl) == "" {
		c.add(path, nil, ErrRequired)
		return
	}
	if missing := utils.MissingPlaceholders(tmpl, available...); len(missing) > 0 {
		c.add(path, tmpl, fmt.Errorf("%w: {%s}", ErrUnresolvablePlaceholder, strings.Join(missing, "}, {")))
	}
}

func validateModels(c *collector, registry map[string]models.Model) {
	if len(registry) == 0 {
		c.add(FieldModels, nil, ErrRequired)
		return
	}

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		m := registry[name]
		base := FieldModels + "." + name

		c.required(base+".pretrained", m.Pretrained)

		outPath := base + ".output_filename"
		switch {
		case strings.TrimSpace(m.OutputFilename) == "":
			c.add(outPath, nil, ErrRequired)
		case !contains(utils.Placeholders(m.OutputFilename), utils.PlaceholderHashedParams):
			c.add(outPath, m.OutputFilename, ErrMissingHashedParams)
		default:
			validateTemplate(c, outPath, m.OutputFilename, []string{utils.PlaceholderHashedParams})
		}

		if _, err := utils.HashParams(m.Params); err != nil {
			c.add(base+".params", nil, fmt.Errorf("%w: %w", ErrUnhashableParams, err))
		}
		for _, axis := range m.Hyperparameters.Axes() {
			axisPath := base + ".hyperparameters." + axis
			if len(m.Hyperparameters[axis]) == 0 {
				c.add(axisPath, nil, ErrEmptyGridAxis)
				continue
			}
			for i, value := range m.Hyperparameters[axis] {
				if _, err := utils.HashParams(map[string]any{axis: value}); err != nil {
					c.add(axisPath+"."+strconv.Itoa(i), nil, fmt.Errorf("%w: %w", ErrUnhashableParams, err))
				}
			}
		}
	}
}

func validatePreprocessStage(c *collector, p *models.Pipeline) {
	if !p.RunPreprocess {
		return
	}
	if s := p.Preprocess.TrainSplit; s <= 0 || s >= 1 {
		c.add("preprocess.train_split", s, ErrInvalidTrainSplit)
	}
}

func validateKneeDiscovery(c *collector, p *models.Pipeline) {
	k := p.KneeDiscovery
	enabled := p.RunKneeDiscovery

	if enabled || p.GenerateReport {
		c.required("knee_discovery.output_subdir", k.OutputSubdir)
		c.required("knee_discovery.eval_results_filename", k.EvalResultsFilename)
	}

	rangePath := "knee_discovery.search_resolution_range"
	r := k.SearchResolutionRange
	switch {
	case len(r) == 0:
		if enabled {
			c.add(rangePath, nil, ErrRequired)
		}
	case len(r) != 2:
		c.add(rangePath, r, fmt.Errorf("%w: expected [min, max]", ErrInvalidRange))
	case r[0] <= 0 || r[1] > 1:
		c.add(rangePath, r, fmt.Errorf("%w: bounds must lie within (0, 1]", ErrInvalidRange))
	case r[0] >= r[1]:
		c.add(rangePath, r, fmt.Errorf("%w: bounds must be ascending", ErrInvalidRange))
	}

	stepPath := "knee_discovery.search_resolution_step"
	if k.SearchResolutionStep < 0 || (enabled && k.SearchResolutionStep == 0) {
		c.add(stepPath, k.SearchResolutionStep, ErrInvalidStep)
	}
	// the sweep advances floor(step * image_size) pixels at a time
	if m, ok := p.PreprocessMethods[p.PreprocessMethod]; ok && m.ImageSize > 0 && k.SearchResolutionStep > 0 {
		if math.Floor(k.SearchResolutionStep*float64(m.ImageSize)) < 1 {
			c.add(stepPath, k.SearchResolutionStep,
				fmt.Errorf("%w: %v of %d px", ErrStepBelowPixel, k.SearchResolutionStep, m.ImageSize))
		}
	}

	if k.SearchAlgorithm != "" && !contains(allowedSearchAlgorithms, k.SearchAlgorithm) {
		c.add("knee_discovery.search_algorithm", k.SearchAlgorithm,
			fmt.Errorf("%w (allowed: %s)", ErrInvalidSearchAlgorithm, strings.Join(allowedSearchAlgorithms, ", ")))
	}
	if k.MaxIterations < 0 {
		c.add("knee_discovery.max_iterations", k.MaxIterations, ErrInvalidTolerance)
	}
	if k.DegradationTolerance < 0 {
		c.add("knee_discovery.degradation_tolerance", k.DegradationTolerance, ErrInvalidTolerance)
	}
	if k.MAPTolerance < 0 {
		c.add("knee_discovery.map_tolerance", k.MAPTolerance, ErrInvalidTolerance)
	}
	if k.MinMAP < 0 || k.MinMAP >= 1 {
		c.add("knee_discovery.min_map", k.MinMAP, ErrInvalidMinMAP)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
