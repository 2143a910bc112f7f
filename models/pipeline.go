// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Preprocessing method names accepted in `preprocess_methods`.
const (
	PreprocessTiling  = "tiling"
	PreprocessPadding = "padding"
)

// Knee search algorithms accepted in `knee_discovery.search_algorithm`.
const (
	SearchAlgorithmNone   = "none"
	SearchAlgorithmBinary = "binary"
)

// Pipeline is the typed form of a pipeline YAML document.
//
// A Pipeline is loaded once at process start, validated, and then treated as
// immutable for the rest of the run. Stage runners receive copies of the
// sections they need and never write back into the document.
type Pipeline struct {
	// RunFlags selects which stages execute.
	RunFlags `yaml:",inline"`

	// InputDir is the root directory of the source imagery and labels.
	InputDir string `yaml:"input_dir"`

	// ImagesSubdir is the image directory under InputDir.
	ImagesSubdir string `yaml:"images_subdir"`

	// LabelsSubdir is the label directory under InputDir.
	LabelsSubdir string `yaml:"labels_subdir"`

	// OutputDir is the root for trained models, knee-discovery results and reports.
	OutputDir string `yaml:"output_dir"`

	// PreprocessDir is the root for preprocessed (tiled/padded/degraded) images.
	PreprocessDir string `yaml:"preprocess_dir"`

	// Model names the entry of Models used for training and evaluation.
	Model string `yaml:"model"`

	// UseGPU is passed to the external trainer and evaluator.
	UseGPU bool `yaml:"use_gpu"`

	// PixelResolution is the ground sample distance of the source imagery
	// in meters per pixel.
	PixelResolution float64 `yaml:"pixel_resolution"`

	// Verbose enables debug logging of stage progress.
	Verbose bool `yaml:"verbose"`

	// CacheResults keeps evaluation results in memory between knee-discovery
	// iterations and skips re-evaluation of already evaluated resolutions.
	CacheResults bool `yaml:"cache_results"`

	// TargetLabels maps class id to class name.
	TargetLabels map[int]string `yaml:"target_labels"`

	// PreprocessMethod names the entry of PreprocessMethods in use.
	PreprocessMethod string `yaml:"preprocess_method"`

	// PreprocessMethods holds the variant-specific parameters per method.
	PreprocessMethods map[string]PreprocessMethod `yaml:"preprocess_methods"`

	Preprocess    PreprocessStage    `yaml:"preprocess"`
	Train         TrainStage         `yaml:"train"`
	KneeDiscovery KneeDiscoveryStage `yaml:"knee_discovery"`
	Report        ReportStage        `yaml:"report"`

	// Models is the model registry keyed by model identifier.
	Models map[string]Model `yaml:"models"`
}

// RunFlags are the top-level stage switches.
type RunFlags struct {
	RunPreprocess    bool `yaml:"run_preprocess"`
	RunTrain         bool `yaml:"run_train"`
	RunKneeDiscovery bool `yaml:"run_knee_discovery"`
	GenerateReport   bool `yaml:"generate_report"`
}

// PreprocessMethod holds the parameters of one preprocessing variant.
//
// The *Subdir fields are path templates. Baseline templates may reference
// {maxwidth}, {maxheight} and, for tiling, {stride}; the degraded template
// may additionally reference {effective_width} and {effective_height}.
type PreprocessMethod struct {
	ImageSize           int    `yaml:"image_size"`
	Stride              int    `yaml:"stride,omitempty"`
	TrainBaselineSubdir string `yaml:"train_baseline_subdir"`
	ValBaselineSubdir   string `yaml:"val_baseline_subdir"`
	ValDegradedSubdir   string `yaml:"val_degraded_subdir"`
}

// PreprocessStage holds settings of the preprocessing stage.
type PreprocessStage struct {
	CleanSubdir bool    `yaml:"clean_subdir"`
	TrainSplit  float64 `yaml:"train_split"`
}

// TrainStage holds settings of the training stage.
type TrainStage struct {
	OutputSubdir string `yaml:"output_subdir"`
	CleanSubdir  bool   `yaml:"clean_subdir"`
}

// KneeDiscoveryStage holds settings of the knee-discovery stage.
type KneeDiscoveryStage struct {
	OutputSubdir          string    `yaml:"output_subdir"`
	EvalResultsFilename   string    `yaml:"eval_results_filename"`
	CleanSubdir           bool      `yaml:"clean_subdir"`
	SearchResolutionRange []float64 `yaml:"search_resolution_range"`
	SearchResolutionStep  float64   `yaml:"search_resolution_step"`
	SearchAlgorithm       string    `yaml:"search_algorithm,omitempty"`
	MaxIterations         int       `yaml:"max_iterations,omitempty"`
	DegradationTolerance  float64   `yaml:"degradation_tolerance,omitempty"`
	MAPTolerance          float64   `yaml:"map_tolerance,omitempty"`
	MinMAP                float64   `yaml:"min_map,omitempty"`
}

// ReportStage holds settings of the reporting stage.
type ReportStage struct {
	OutputSubdir   string `yaml:"output_subdir"`
	ReportFilename string `yaml:"report_filename"`
}

// Model is one entry of the model registry.
type Model struct {
	// Pretrained is the pretrained weights source handed to the trainer.
	Pretrained string `yaml:"pretrained"`

	// OutputFilename is a template with a {hashed_params} placeholder.
	OutputFilename string `yaml:"output_filename"`

	// Params are static training arguments.
	Params Params `yaml:"params,omitempty"`

	// Hyperparameters is the search grid: axis name to candidate values.
	Hyperparameters Grid `yaml:"hyperparameters"`
}

// Knee-discovery defaults used when the document leaves the field unset.
const (
	DefaultMaxIterations        = 10
	DefaultDegradationTolerance = 1e-2
	DefaultMAPTolerance         = 1e-3
	DefaultMinMAP               = 0.01
)

// Method returns the selected preprocessing method and whether it exists.
func (p *Pipeline) Method() (PreprocessMethod, bool) {
	m, ok := p.PreprocessMethods[p.PreprocessMethod]
	return m, ok
}

// SelectedModel returns the selected registry entry and whether it exists.
func (p *Pipeline) SelectedModel() (Model, bool) {
	m, ok := p.Models[p.Model]
	return m, ok
}

// Algorithm returns the configured search algorithm, defaulting to none.
func (k KneeDiscoveryStage) Algorithm() string {
	if k.SearchAlgorithm == "" {
		return SearchAlgorithmNone
	}
	return k.SearchAlgorithm
}

// WithDefaults returns a copy with zero tuning values replaced by defaults.
func (k KneeDiscoveryStage) WithDefaults() KneeDiscoveryStage {
	if k.MaxIterations == 0 {
		k.MaxIterations = DefaultMaxIterations
	}
	if k.DegradationTolerance == 0 {
		k.DegradationTolerance = DefaultDegradationTolerance
	}
	if k.MAPTolerance == 0 {
		k.MAPTolerance = DefaultMAPTolerance
	}
	if k.MinMAP == 0 {
		k.MinMAP = DefaultMinMAP
	}
	return k
}
