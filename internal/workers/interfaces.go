// Package workers runs the pipeline stages.
// It defines the Worker interface and a Workers aggregate that runs the
// enabled workers one after another, stopping at the first failure.
package workers

import "context"

// Worker is the interface that must be implemented by a pipeline stage.
//
// Run blocks until the stage is done. A non-nil error aborts the run and no
// later worker is started.
//
// Example implementation:
//
//	type ReportWorker struct{}
//
//	func (w *ReportWorker) Name() string { return "report" }
//
//	func (w *ReportWorker) Run(ctx context.Context) error {
//	    // write the report
//	    return nil
//	}
type Worker interface {
	Name() string
	Run(ctx context.Context) error
}
