package config

import (
	"flag"
	"fmt"
	"time"
)

// ParseFlags parses the command-line configuration flags from args
// (the program name excluded).
//
// Flags:
//
//	-c/-config pipeline YAML file path
//	-v verbose logging
//	-validate validate the pipeline document and exit
//	-d results database DSN
//	-preprocess-cmd preprocessing tool command
//	-train-cmd training tool command
//	-eval-cmd evaluation tool command
//	-workdir tool working directory
//	-tool-timeout single tool invocation timeout (e.g., "2h", "30m")
//	-degrade-workers number of images degraded in parallel
func ParseFlags(args []string) (*StructuredConfig, error) {
	var pipelinePath string
	var verbose, validateOnly bool
	var databaseDSN string
	var preprocessCmd, trainCmd, evalCmd string
	var workDir string
	var toolTimeout time.Duration
	var degradeWorkers int

	fs := flag.NewFlagSet("knee-pipeline", flag.ContinueOnError)
	fs.StringVar(&pipelinePath, "c", "", "Pipeline YAML file path")
	fs.StringVar(&pipelinePath, "config", "", "Pipeline YAML file path (alias)")
	fs.BoolVar(&verbose, "v", false, "Verbose logging")
	fs.BoolVar(&validateOnly, "validate", false, "Validate the pipeline document and exit")
	fs.StringVar(&databaseDSN, "d", "", "Results database DSN")
	fs.StringVar(&preprocessCmd, "preprocess-cmd", "", "Preprocessing tool command")
	fs.StringVar(&trainCmd, "train-cmd", "", "Training tool command")
	fs.StringVar(&evalCmd, "eval-cmd", "", "Evaluation tool command")
	fs.StringVar(&workDir, "workdir", "", "Tool working directory")
	fs.DurationVar(&toolTimeout, "tool-timeout", 0, "Tool invocation timeout (e.g., 2h, 30m)")
	fs.IntVar(&degradeWorkers, "degrade-workers", 0, "Number of images degraded in parallel")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &StructuredConfig{
		App: App{
			Verbose:      verbose,
			ValidateOnly: validateOnly,
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
		},
		Tools: Tools{
			PreprocessCommand: preprocessCmd,
			TrainCommand:      trainCmd,
			EvalCommand:       evalCmd,
			WorkDir:           workDir,
			Timeout:           toolTimeout,
		},
		Workers: Workers{
			DegradeConcurrency: degradeWorkers,
		},
		PipelineFilePath: pipelinePath,
	}, nil
}
