// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package app

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-knee-pipeline/internal/adapter"
	"github.com/MKhiriev/go-knee-pipeline/internal/config"
	"github.com/MKhiriev/go-knee-pipeline/internal/imaging"
	"github.com/MKhiriev/go-knee-pipeline/internal/logger"
	"github.com/MKhiriev/go-knee-pipeline/internal/service"
	"github.com/MKhiriev/go-knee-pipeline/internal/store"
	"github.com/MKhiriev/go-knee-pipeline/internal/utils"
	"github.com/MKhiriev/go-knee-pipeline/models"
)

// App runs one pipeline document end to end.
type App struct {
	cfg       *config.StructuredConfig
	buildInfo models.AppBuildInfo
	out       io.Writer
	runIDs    utils.RunIDGenerator
	logger    *logger.Logger
}

// NewApp wires an App for cfg. Report summaries are printed to out.
func NewApp(cfg *config.StructuredConfig, buildInfo models.AppBuildInfo, out io.Writer, logger *logger.Logger) *App {
	return &App{
		cfg:       cfg,
		buildInfo: buildInfo,
		out:       out,
		runIDs:    utils.NewUUIDGenerator(),
		logger:    logger,
	}
}

// Run executes the enabled stages until they finish, one fails, or the
// process receives SIGTERM, SIGINT or SIGQUIT.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	return a.run(ctx)
}

func (a *App) run(ctx context.Context) error {
	p := a.cfg.Pipeline

	if a.cfg.App.ValidateOnly {
		a.logger.Info().Str("pipeline", a.cfg.PipelineFilePath).Msg("pipeline document is valid")
		return nil
	}
	if err := checkTools(a.cfg.Tools, p.RunFlags); err != nil {
		return err
	}

	runID := a.runIDs.Generate()
	runLog := a.logger.WithRunID(runID)
	ctx = utils.WithRunID(runLog.WithContext(ctx), runID)

	storages, err := store.NewStorages(ctx, a.cfg, runLog)
	if err != nil {
		return fmt.Errorf("error creating storages: %w", err)
	}
	defer func() {
		if err := storages.Close(); err != nil {
			runLog.Err(err).Msg("error closing storages")
		}
	}()

	tools := adapter.NewShellAdapter(a.cfg.Tools, runLog)
	services, err := service.NewServices(
		p,
		a.buildInfo,
		storages.ResultsRepository,
		service.Tools{Preprocessor: tools, Trainer: tools, Evaluator: tools},
		imaging.NewDegrader(a.cfg.Workers.DegradeConcurrency, runLog),
		a.out,
		runLog,
	)
	if err != nil {
		return fmt.Errorf("error creating services: %w", err)
	}

	stages := services.Workers()
	runLog.Info().
		Str("pipeline", a.cfg.PipelineFilePath).
		Str("model", p.Model).
		Str("preprocess_method", p.PreprocessMethod).
		Strs("stages", stages.Names()).
		Msg("starting pipeline run")

	if err = stages.Run(ctx); err != nil {
		return err
	}

	runLog.Info().Msg("pipeline run finished")
	return nil
}

// checkTools fails before any stage starts when an enabled stage has no tool
// command.
func checkTools(tools config.Tools, flags models.RunFlags) error {
	required := []struct {
		enabled bool
		tool    string
		command string
	}{
		{flags.RunPreprocess, adapter.ToolPreprocess, tools.PreprocessCommand},
		{flags.RunTrain, adapter.ToolTrain, tools.TrainCommand},
		{flags.RunKneeDiscovery, adapter.ToolEval, tools.EvalCommand},
	}
	for _, r := range required {
		if r.enabled && r.command == "" {
			return fmt.Errorf("%w: %s", adapter.ErrToolNotConfigured, r.tool)
		}
	}
	return nil
}
