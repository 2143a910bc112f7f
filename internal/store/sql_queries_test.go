// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"strings"
	"testing"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-knee-pipeline/models"
)

var (
	dollar   = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	question = sq.StatementBuilder.PlaceholderFormat(sq.Question)
)

func sampleResult(effective int, mAP float64) models.EvalResult {
	return models.EvalResult{
		RunID:             "run-1",
		ModelFile:         "yolov8m_abc.pt",
		ObjectName:        "Cargo Plane",
		Original:          models.Resolution{Width: 800, Height: 600},
		Effective:         models.Resolution{Width: effective, Height: effective * 3 / 4},
		DegradationFactor: float64(effective) / 800,
		MAP:               mAP,
		CreatedAt:         time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func Test_buildUpsertResultsQuery(t *testing.T) {
	rows := []models.EvalResult{sampleResult(400, 0.5), sampleResult(800, 0.7)}

	query, args, err := buildUpsertResultsQuery(dollar, rows)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(query, "INSERT INTO eval_results (run_id,model_file,object_name,"))
	assert.Contains(t, query, "ON CONFLICT (model_file, object_name, original_width, original_height, effective_width, effective_height)")
	assert.Contains(t, query, "map = excluded.map")
	assert.Contains(t, query, "$22")
	assert.NotContains(t, query, "$23")

	require.Len(t, args, 2*len(evalResultColumns))
	assert.Equal(t, []any{
		"run-1", "yolov8m_abc.pt", "Cargo Plane",
		800, 600, 400, 300,
		0.5, 0.5, false,
		rows[0].CreatedAt,
	}, args[:len(evalResultColumns)])
}

func Test_buildSelectResultsQuery(t *testing.T) {
	tests := []struct {
		name      string
		filter    models.ResultFilter
		wantWhere string
		wantArgs  []any
	}{
		{
			name:      "empty filter matches everything",
			filter:    models.ResultFilter{},
			wantWhere: "WHERE (1=1)",
			wantArgs:  nil,
		},
		{
			name:      "model file only",
			filter:    models.ResultFilter{ModelFile: "m.pt"},
			wantWhere: "WHERE (model_file = ?)",
			wantArgs:  []any{"m.pt"},
		},
		{
			name:      "model file and class",
			filter:    models.ResultFilter{ModelFile: "m.pt", ObjectName: "Helicopter"},
			wantWhere: "WHERE (model_file = ? AND object_name = ?)",
			wantArgs:  []any{"m.pt", "Helicopter"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := buildSelectResultsQuery(question, tt.filter)
			require.NoError(t, err)

			assert.True(t, strings.HasPrefix(query, "SELECT run_id, model_file, object_name,"))
			assert.Contains(t, query, "FROM eval_results")
			assert.Contains(t, query, tt.wantWhere)
			assert.True(t, strings.HasSuffix(query, "ORDER BY model_file, object_name, degradation_factor, effective_width, effective_height"))
			if tt.wantArgs == nil {
				assert.Empty(t, args)
				return
			}
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func Test_buildCountResultsQuery(t *testing.T) {
	key := sampleResult(400, 0.5).Key()

	query, args, err := buildCountResultsQuery(dollar, key)
	require.NoError(t, err)

	assert.Contains(t, query, "SELECT COUNT(*) FROM eval_results WHERE")
	assert.NotContains(t, query, "object_name")
	// squirrel sorts the keys of sq.Eq
	assert.Equal(t, []any{300, 400, "yolov8m_abc.pt", 600, 800}, args)
}

func Test_buildKneeQueries(t *testing.T) {
	original := models.Resolution{Width: 800, Height: 600}

	clearQuery, clearArgs, err := buildClearKneeQuery(dollar, "m.pt", "Plane", original)
	require.NoError(t, err)
	assert.Equal(t, "UPDATE eval_results SET is_knee = $1 WHERE model_file = $2 AND object_name = $3 AND original_height = $4 AND original_width = $5", clearQuery)
	assert.Equal(t, []any{false, "m.pt", "Plane", 600, 800}, clearArgs)

	setQuery, setArgs, err := buildSetKneeQuery(dollar, "m.pt", "Plane", original, models.Resolution{Width: 400, Height: 300})
	require.NoError(t, err)
	assert.Contains(t, setQuery, "SET is_knee = $1")
	assert.Contains(t, setQuery, "effective_height = $6 AND effective_width = $7")
	assert.Equal(t, []any{true, "m.pt", "Plane", 600, 800, 300, 400}, setArgs)
}

func Test_buildDeleteResultsQuery(t *testing.T) {
	query, args, err := buildDeleteResultsQuery(question, models.ResultFilter{ModelFile: "m.pt"})
	require.NoError(t, err)

	assert.Equal(t, "DELETE FROM eval_results WHERE (model_file = ?)", query)
	assert.Equal(t, []any{"m.pt"}, args)
}
