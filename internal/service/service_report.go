package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/renameio/v2"

	"github.com/MKhiriev/go-knee-pipeline/internal/logger"
	"github.com/MKhiriev/go-knee-pipeline/internal/store"
	"github.com/MKhiriev/go-knee-pipeline/models"
)

type reportService struct {
	pipeline *models.Pipeline
	layout   *Layout
	results  store.ResultsRepository
	appInfo  AppInfoService
	out      io.Writer
	now      func() time.Time

	logger *logger.Logger
}

// NewReportService writes the markdown report under report.output_subdir and
// prints a knee summary table to out. A nil out disables the table.
func NewReportService(
	p *models.Pipeline,
	layout *Layout,
	results store.ResultsRepository,
	appInfo AppInfoService,
	out io.Writer,
	logger *logger.Logger,
) ReportService {
	return &reportService{
		pipeline: p,
		layout:   layout,
		results:  results,
		appInfo:  appInfo,
		out:      out,
		now:      time.Now,
		logger:   logger,
	}
}

// curveKey groups rows of one class curve.
type curveKey struct {
	modelFile string
	class     string
	original  models.Resolution
}

type reportCurve struct {
	key  curveKey
	rows []models.EvalResult
	knee *models.Knee
}

func (s *reportService) GenerateReport(ctx context.Context) (string, error) {
	rows, err := s.results.ListResults(ctx, models.ResultFilter{})
	if err != nil {
		return "", fmt.Errorf("error loading results: %w", err)
	}
	if len(rows) == 0 {
		return "", ErrNoResults
	}

	curves := groupCurves(rows)
	doc := s.renderMarkdown(ctx, curves)

	path := s.layout.ReportPath()
	if err = os.MkdirAll(s.layout.ReportDir(), 0o755); err != nil {
		return "", fmt.Errorf("error creating report dir: %w", err)
	}
	if err = renameio.WriteFile(path, []byte(doc), 0o644); err != nil {
		return "", fmt.Errorf("error writing report: %w", err)
	}

	if s.out != nil {
		if _, err = fmt.Fprintln(s.out, s.renderSummary(curves)); err != nil {
			return path, fmt.Errorf("error printing report summary: %w", err)
		}
	}

	s.logger.Info().Str("path", path).Int("curves", len(curves)).Msg("report written")
	return path, nil
}

// groupCurves splits rows, already ordered by model file, class and
// degradation factor, into class curves.
func groupCurves(rows []models.EvalResult) []*reportCurve {
	var curves []*reportCurve
	index := make(map[curveKey]*reportCurve)

	for _, r := range rows {
		key := curveKey{modelFile: r.ModelFile, class: r.ObjectName, original: r.Original}
		c, ok := index[key]
		if !ok {
			c = &reportCurve{key: key}
			index[key] = c
			curves = append(curves, c)
		}
		c.rows = append(c.rows, r)
		if r.Knee {
			c.knee = &models.Knee{
				ModelFile:         r.ModelFile,
				ObjectName:        r.ObjectName,
				Original:          r.Original,
				Effective:         r.Effective,
				DegradationFactor: r.DegradationFactor,
				MAP:               r.MAP,
			}
		}
	}
	return curves
}

func (s *reportService) renderMarkdown(ctx context.Context, curves []*reportCurve) string {
	var b strings.Builder
	method, _ := s.pipeline.Method()

	b.WriteString("# Knee discovery report\n\n")
	fmt.Fprintf(&b, "- Model: `%s`\n", s.pipeline.Model)
	fmt.Fprintf(&b, "- Preprocessing: `%s`, %dx%d px\n", s.pipeline.PreprocessMethod, method.ImageSize, method.ImageSize)
	fmt.Fprintf(&b, "- Pixel resolution: %s m/px\n", formatFloat(s.pipeline.PixelResolution))
	fmt.Fprintf(&b, "- Search algorithm: `%s`\n\n", s.pipeline.KneeDiscovery.Algorithm())

	b.WriteString("## Knees\n\n")
	b.WriteString("| Model file | Class | Degradation factor | Effective resolution | GSD (m/px) | mAP |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	var missing []string
	for _, c := range curves {
		if c.knee == nil {
			missing = append(missing, fmt.Sprintf("`%s` %s", c.key.modelFile, c.key.class))
			continue
		}
		fmt.Fprintf(&b, "| %s | %s | %.4f | %s | %s | %.4f |\n",
			c.key.modelFile, c.key.class, c.knee.DegradationFactor, c.knee.Effective,
			s.gsd(*c.knee), c.knee.MAP)
	}
	if len(missing) > 0 {
		b.WriteString("\nNo knee was found for:\n\n")
		for _, m := range missing {
			fmt.Fprintf(&b, "- %s\n", m)
		}
	}

	b.WriteString("\n## Curves\n")
	for _, c := range curves {
		fmt.Fprintf(&b, "\n### %s: %s\n\n", c.key.class, c.key.modelFile)
		fmt.Fprintf(&b, "Original resolution %s.\n\n", c.key.original)
		b.WriteString("| Degradation factor | Effective resolution | mAP | Knee |\n")
		b.WriteString("|---|---|---|---|\n")
		for _, r := range c.rows {
			mark := ""
			if r.Knee {
				mark = "yes"
			}
			fmt.Fprintf(&b, "| %.4f | %s | %.4f | %s |\n", r.DegradationFactor, r.Effective, r.MAP, mark)
		}
	}

	fmt.Fprintf(&b, "\n---\nGenerated %s by go-knee-pipeline %s.\n",
		s.now().UTC().Format(time.RFC3339), s.appInfo.GetBuildInfo(ctx))
	return b.String()
}

func (s *reportService) renderSummary(curves []*reportCurve) string {
	rows := make([][]string, 0, len(curves))
	for _, c := range curves {
		row := []string{c.key.modelFile, c.key.class, strconv.Itoa(len(c.rows)), "-", "-", "-", "-"}
		if c.knee != nil {
			row[3] = fmt.Sprintf("%.4f", c.knee.DegradationFactor)
			row[4] = c.knee.Effective.String()
			row[5] = s.gsd(*c.knee)
			row[6] = fmt.Sprintf("%.4f", c.knee.MAP)
		}
		rows = append(rows, row)
	}

	headers := []string{"Model file", "Class", "Samples", "Factor", "Effective", "GSD (m/px)", "mAP"}
	return titleStyle.Render("Knee discovery") + "\n" +
		renderTable(headers, rows) + "\n" +
		faintStyle.Render("report: "+s.layout.ReportPath())
}

func (s *reportService) gsd(k models.Knee) string {
	if s.pipeline.PixelResolution <= 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.3f", k.GSD(s.pipeline.PixelResolution))
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
