package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/MKhiriev/go-knee-pipeline/internal/config"
	"github.com/MKhiriev/go-knee-pipeline/internal/logger"
	"github.com/MKhiriev/go-knee-pipeline/models"
)

// Environment variables handed to the tool scripts.
const (
	EnvMethod          = "KP_METHOD"
	EnvImagesDir       = "KP_IMAGES_DIR"
	EnvLabelsDir       = "KP_LABELS_DIR"
	EnvTrainDir        = "KP_TRAIN_DIR"
	EnvValDir          = "KP_VAL_DIR"
	EnvImageSize       = "KP_IMAGE_SIZE"
	EnvStride          = "KP_STRIDE"
	EnvTrainSplit      = "KP_TRAIN_SPLIT"
	EnvTargetLabels    = "KP_TARGET_LABELS"
	EnvModel           = "KP_MODEL"
	EnvPretrained      = "KP_PRETRAINED"
	EnvOutputPath      = "KP_OUTPUT_PATH"
	EnvParams          = "KP_PARAMS"
	EnvUseGPU          = "KP_USE_GPU"
	EnvModelPath       = "KP_MODEL_PATH"
	EnvDataDir         = "KP_DATA_DIR"
	EnvOriginalWidth   = "KP_ORIGINAL_WIDTH"
	EnvOriginalHeight  = "KP_ORIGINAL_HEIGHT"
	EnvEffectiveWidth  = "KP_EFFECTIVE_WIDTH"
	EnvEffectiveHeight = "KP_EFFECTIVE_HEIGHT"
)

// Tool names used in logs and errors.
const (
	ToolPreprocess = "preprocess"
	ToolTrain      = "train"
	ToolEval       = "eval"
)

// ShellAdapter implements [Preprocessor], [Trainer] and [Evaluator] on top of
// configured shell commands.
type ShellAdapter struct {
	tools  config.Tools
	runner *shellRunner
	logger *logger.Logger
}

// NewShellAdapter constructs a ShellAdapter for the commands in cfg. Missing
// commands are reported when the corresponding stage calls them.
func NewShellAdapter(cfg config.Tools, log *logger.Logger) *ShellAdapter {
	return &ShellAdapter{
		tools:  cfg,
		runner: newShellRunner(cfg.WorkDir, cfg.Timeout),
		logger: log,
	}
}

// Preprocess implements [Preprocessor].
func (a *ShellAdapter) Preprocess(ctx context.Context, req models.PreprocessRequest) error {
	labels, err := json.Marshal(req.TargetLabels)
	if err != nil {
		return fmt.Errorf("encode target labels: %w", err)
	}

	env := map[string]string{
		EnvMethod:       req.Method,
		EnvImagesDir:    req.ImagesDir,
		EnvLabelsDir:    req.LabelsDir,
		EnvTrainDir:     req.TrainDir,
		EnvValDir:       req.ValDir,
		EnvImageSize:    strconv.Itoa(req.ImageSize),
		EnvStride:       strconv.Itoa(req.Stride),
		EnvTrainSplit:   strconv.FormatFloat(req.TrainSplit, 'f', -1, 64),
		EnvTargetLabels: string(labels),
	}

	a.logger.Debug().Str("method", req.Method).Str("train_dir", req.TrainDir).Msg("running preprocessor")
	_, err = a.runner.run(ctx, ToolPreprocess, a.tools.PreprocessCommand, env)
	return err
}

// Train implements [Trainer].
func (a *ShellAdapter) Train(ctx context.Context, req models.TrainRequest) error {
	labels, err := json.Marshal(req.TargetLabels)
	if err != nil {
		return fmt.Errorf("encode target labels: %w", err)
	}
	params, err := json.Marshal(req.Params)
	if err != nil {
		return fmt.Errorf("encode training params: %w", err)
	}

	env := map[string]string{
		EnvModel:        req.Model,
		EnvPretrained:   req.Pretrained,
		EnvTrainDir:     req.TrainDir,
		EnvValDir:       req.ValDir,
		EnvOutputPath:   req.OutputPath,
		EnvParams:       string(params),
		EnvUseGPU:       strconv.FormatBool(req.UseGPU),
		EnvTargetLabels: string(labels),
	}

	a.logger.Debug().Str("output", req.OutputPath).Msg("running trainer")
	_, err = a.runner.run(ctx, ToolTrain, a.tools.TrainCommand, env)
	return err
}

// Evaluate implements [Evaluator]. The command must print a JSON object
// mapping class name to mAP; when it prints log lines as well, the object
// must be the last line.
func (a *ShellAdapter) Evaluate(ctx context.Context, req models.EvalRequest) (map[string]float64, error) {
	labels, err := json.Marshal(req.TargetLabels)
	if err != nil {
		return nil, fmt.Errorf("encode target labels: %w", err)
	}

	env := map[string]string{
		EnvModelPath:       req.ModelPath,
		EnvDataDir:         req.DataDir,
		EnvOriginalWidth:   strconv.Itoa(req.Original.Width),
		EnvOriginalHeight:  strconv.Itoa(req.Original.Height),
		EnvEffectiveWidth:  strconv.Itoa(req.Effective.Width),
		EnvEffectiveHeight: strconv.Itoa(req.Effective.Height),
		EnvUseGPU:          strconv.FormatBool(req.UseGPU),
		EnvTargetLabels:    string(labels),
	}

	a.logger.Debug().Str("model", req.ModelPath).Str("effective", req.Effective.String()).Msg("running evaluator")
	out, err := a.runner.run(ctx, ToolEval, a.tools.EvalCommand, env)
	if err != nil {
		return nil, err
	}
	return ParseEvalOutput(out)
}

// ParseEvalOutput decodes the evaluator's {"class": mAP} object. Every mAP
// must lie within [0, 1].
func ParseEvalOutput(out []byte) (map[string]float64, error) {
	out = bytes.TrimSpace(out)
	if i := bytes.LastIndexByte(out, '\n'); i >= 0 {
		out = bytes.TrimSpace(out[i+1:])
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: empty output", ErrMalformedEvalOutput)
	}

	var scores map[string]float64
	if err := json.Unmarshal(out, &scores); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedEvalOutput, err)
	}
	if scores == nil {
		return nil, fmt.Errorf("%w: expected a JSON object", ErrMalformedEvalOutput)
	}
	for class, mAP := range scores {
		if math.IsNaN(mAP) || mAP < 0 || mAP > 1 {
			return nil, fmt.Errorf("%w: mAP of %q is %v", ErrMalformedEvalOutput, class, mAP)
		}
	}
	return scores, nil
}
