package workers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-knee-pipeline/internal/logger"
)

// ErrStageFailed wraps the error of the worker that aborted a run.
var ErrStageFailed = errors.New("pipeline stage failed")

type Workers struct {
	workers []Worker
	logger  *logger.Logger
}

// NewWorkers constructs an empty Workers logging through log.
func NewWorkers(log *logger.Logger) *Workers {
	return &Workers{logger: log}
}

// Add appends w when enabled is true and returns the receiver for chaining.
func (w *Workers) Add(enabled bool, worker Worker) *Workers {
	if enabled {
		w.workers = append(w.workers, worker)
	}
	return w
}

// Names lists the scheduled workers in run order.
func (w *Workers) Names() []string {
	names := make([]string, 0, len(w.workers))
	for _, worker := range w.workers {
		names = append(names, worker.Name())
	}
	return names
}

// Run starts the workers in the order they were added and stops at the
// first error or when ctx is done.
func (w *Workers) Run(ctx context.Context) error {
	log := w.logger
	if log == nil {
		log = logger.Nop()
	}

	for _, worker := range w.workers {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrStageFailed, worker.Name(), err)
		}

		stageLog := log.ForStage(worker.Name())
		stageLog.Info().Msg("stage started")
		start := time.Now()

		if err := worker.Run(stageLog.WithContext(ctx)); err != nil {
			stageLog.Err(err).Dur("elapsed", time.Since(start)).Msg("stage failed")
			return fmt.Errorf("%w: %s: %w", ErrStageFailed, worker.Name(), err)
		}
		stageLog.Info().Dur("elapsed", time.Since(start)).Msg("stage finished")
	}
	return nil
}
