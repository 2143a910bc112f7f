package store

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/renameio/v2"

	"github.com/MKhiriev/go-knee-pipeline/internal/logger"
	"github.com/MKhiriev/go-knee-pipeline/models"
)

// CSVHeader is the column layout of the exported results file.
var CSVHeader = []string{
	"model_file",
	"object_name",
	"original_resolution_width",
	"original_resolution_height",
	"effective_resolution_width",
	"effective_resolution_height",
	"degradation_factor",
	"mAP",
	"knee",
	"run_id",
}

// ExportCSV writes results to path, replacing any previous file atomically.
func ExportCSV(ctx context.Context, path string, results []models.EvalResult) error {
	log := logger.FromContext(ctx)

	if len(results) == 0 {
		return ErrNothingToExport
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create results dir: %w", err)
	}

	pendingFile, err := renameio.NewPendingFile(path)
	if err != nil {
		return fmt.Errorf("create pending results file: %w", err)
	}
	defer func() {
		if err := pendingFile.Cleanup(); err != nil {
			log.Debug().Err(err).Msg("cleanup pending results file")
		}
	}()

	w := csv.NewWriter(pendingFile)
	if err := w.Write(CSVHeader); err != nil {
		return fmt.Errorf("write results header: %w", err)
	}
	for _, r := range results {
		if err := w.Write(csvRecord(r)); err != nil {
			return fmt.Errorf("write results row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush results: %w", err)
	}

	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace results file: %w", err)
	}

	log.Debug().Str("path", path).Int("rows", len(results)).Msg("exported eval results")
	return nil
}

func csvRecord(r models.EvalResult) []string {
	return []string{
		r.ModelFile,
		r.ObjectName,
		strconv.Itoa(r.Original.Width),
		strconv.Itoa(r.Original.Height),
		strconv.Itoa(r.Effective.Width),
		strconv.Itoa(r.Effective.Height),
		strconv.FormatFloat(r.DegradationFactor, 'f', -1, 64),
		strconv.FormatFloat(r.MAP, 'f', -1, 64),
		strconv.FormatBool(r.Knee),
		r.RunID,
	}
}
