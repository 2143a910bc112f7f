package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lastEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

// ── NewLogger ────────────────────────────────────────────────────────────────

func TestNewLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, "knee-pipeline", false)

	l.Info().Msg("hello")

	entry := lastEntry(t, &buf)
	assert.Equal(t, "knee-pipeline", entry["role"])
	assert.Contains(t, entry, "time")
	assert.Contains(t, entry["func"], "TestNewLogger_Fields")
	assert.Equal(t, "func", zerolog.CallerFieldName)
}

func TestNewLogger_Levels(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.DebugLevel) })

	tests := []struct {
		name    string
		verbose bool
		level   zerolog.Level
		debug   bool
	}{
		{"quiet", false, zerolog.InfoLevel, false},
		{"verbose", true, zerolog.DebugLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := newLogger(&buf, "knee-pipeline", tt.verbose)

			assert.Equal(t, tt.level, zerolog.GlobalLevel())
			l.Debug().Msg("sweep point")
			assert.Equal(t, tt.debug, buf.Len() > 0)
		})
	}
}

func TestNop_DiscardsOutput(t *testing.T) {
	var buf bytes.Buffer
	l := Nop()
	l.Logger = l.Output(&buf)

	l.Info().Msg("discarded")

	assert.Empty(t, buf.String())
}

// ── child loggers ────────────────────────────────────────────────────────────

func TestWithRunID_AddsRunIDField(t *testing.T) {
	var buf bytes.Buffer
	parent := newLogger(&buf, "knee-pipeline", false)

	child := parent.WithRunID("0192f0c4-run")
	assert.NotSame(t, parent, child)

	child.Info().Msg("starting pipeline run")
	entry := lastEntry(t, &buf)
	assert.Equal(t, "0192f0c4-run", entry["run_id"])
	assert.Equal(t, "knee-pipeline", entry["role"])
}

func TestForStage_AddsStageField(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, "knee-pipeline", true).ForStage("train")

	l.Info().Msg("stage message")

	entry := lastEntry(t, &buf)
	assert.Equal(t, "train", entry["stage"])
	assert.Equal(t, "knee-pipeline", entry["role"])
}

// ── FromContext ──────────────────────────────────────────────────────────────

func TestFromContext_WithoutLogger(t *testing.T) {
	require.NotNil(t, FromContext(context.Background()))
}

func TestFromContext_ReturnsAttachedLogger(t *testing.T) {
	var buf bytes.Buffer
	stage := newLogger(&buf, "knee-pipeline", false).ForStage("knee_discovery")
	ctx := stage.WithContext(context.Background())

	FromContext(ctx).Info().Msg("from context")

	assert.Equal(t, "knee_discovery", lastEntry(t, &buf)["stage"])
}
