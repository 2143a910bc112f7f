package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-knee-pipeline/internal/logger"
	"github.com/MKhiriev/go-knee-pipeline/internal/mock"
	"github.com/MKhiriev/go-knee-pipeline/models"
)

func reportRows() []models.EvalResult {
	original := square(100)
	var rows []models.EvalResult
	for _, side := range []int{20, 40, 60} {
		rows = append(rows,
			models.EvalResult{
				ModelFile:         "yolov8n_abc.pt",
				ObjectName:        classFixedWing,
				Original:          original,
				Effective:         square(side),
				DegradationFactor: models.DegradationFactor(original, square(side)),
				MAP:               fixedWingMAP[side],
				Knee:              side == 40,
			},
			models.EvalResult{
				ModelFile:         "yolov8n_abc.pt",
				ObjectName:        classCargo,
				Original:          original,
				Effective:         square(side),
				DegradationFactor: models.DegradationFactor(original, square(side)),
				MAP:               cargoMAP[side],
			},
		)
	}
	return rows
}

func newTestReportSvc(t *testing.T, ctrl *gomock.Controller, results *memResults, out io.Writer) (*reportService, *Layout) {
	t.Helper()
	p := testPipeline(t.TempDir())
	layout := testLayout(t, p)

	appInfo := mock.NewMockAppInfoService(ctrl)
	appInfo.EXPECT().GetBuildInfo(gomock.Any()).
		Return(models.NewAppBuildInfo("1.4.0", "2026-10-01", "cafe01")).AnyTimes()

	svc := NewReportService(p, layout, results, appInfo, out, logger.Nop()).(*reportService)
	svc.now = func() time.Time { return time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC) }
	return svc, layout
}

// ── GenerateReport ───────────────────────────────────────────────────────────

func TestReportService_WritesMarkdown(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	var out bytes.Buffer
	svc, layout := newTestReportSvc(t, ctrl, newMemResults(reportRows()...), &out)

	path, err := svc.GenerateReport(context.Background())
	require.NoError(t, err)
	assert.Equal(t, layout.ReportPath(), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	doc := string(data)

	assert.True(t, strings.HasPrefix(doc, "# Knee discovery report\n"))
	assert.Contains(t, doc, "- Model: `yolov8n`")
	assert.Contains(t, doc, "- Pixel resolution: 0.3 m/px")
	// GSD at the knee: 0.3 m/px / 0.4
	assert.Contains(t, doc, "| yolov8n_abc.pt | Fixed-wing Aircraft | 0.4000 | 40x40 | 0.750 | 0.8000 |")
	assert.Contains(t, doc, "No knee was found for:\n\n- `yolov8n_abc.pt` Cargo Plane\n")
	assert.Contains(t, doc, "### Cargo Plane: yolov8n_abc.pt")
	assert.Contains(t, doc, "| 0.4000 | 40x40 | 0.8000 | yes |")
	assert.Contains(t, doc, "Generated 2026-10-17T12:00:00Z by go-knee-pipeline 1.4.0 (commit cafe01, built 2026-10-01).")
}

func TestReportService_PrintsSummaryTable(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	var out bytes.Buffer
	svc, _ := newTestReportSvc(t, ctrl, newMemResults(reportRows()...), &out)

	_, err := svc.GenerateReport(context.Background())
	require.NoError(t, err)

	summary := out.String()
	assert.Contains(t, summary, "Knee discovery")
	assert.Contains(t, summary, "Fixed-wing Aircraft")
	assert.Contains(t, summary, "40x40")
	assert.Contains(t, summary, "0.750")
	assert.Contains(t, summary, "Cargo Plane")
}

func TestReportService_UnknownPixelResolution(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _ := newTestReportSvc(t, ctrl, newMemResults(reportRows()...), nil)
	svc.pipeline.PixelResolution = 0

	path, err := svc.GenerateReport(context.Background())
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "| 40x40 | n/a |")
}

func TestReportService_NoResults(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, layout := newTestReportSvc(t, ctrl, newMemResults(), nil)

	_, err := svc.GenerateReport(context.Background())
	assert.ErrorIs(t, err, ErrNoResults)
	assert.NoFileExists(t, layout.ReportPath())
}

func TestReportService_StoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	p := testPipeline(t.TempDir())
	repo := mock.NewMockResultsRepository(ctrl)
	svc := NewReportService(p, testLayout(t, p), repo, mock.NewMockAppInfoService(ctrl), nil, logger.Nop())

	boom := errors.New("connection refused")
	repo.EXPECT().ListResults(gomock.Any(), models.ResultFilter{}).Return(nil, boom)

	_, err := svc.GenerateReport(context.Background())
	assert.ErrorIs(t, err, boom)
}

// ── groupCurves ──────────────────────────────────────────────────────────────

func TestGroupCurves_KeepsRowOrderAndKnee(t *testing.T) {
	rows, err := newMemResults(reportRows()...).ListResults(context.Background(), models.ResultFilter{})
	require.NoError(t, err)

	curves := groupCurves(rows)
	require.Len(t, curves, 2)

	assert.Equal(t, classCargo, curves[0].key.class)
	assert.Nil(t, curves[0].knee)
	assert.Len(t, curves[0].rows, 3)

	assert.Equal(t, classFixedWing, curves[1].key.class)
	require.NotNil(t, curves[1].knee)
	assert.Equal(t, square(40), curves[1].knee.Effective)
}
