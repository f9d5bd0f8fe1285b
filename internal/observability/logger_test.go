package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"", zerolog.InfoLevel},
		{"bogus", zerolog.InfoLevel},
		{"off", zerolog.Disabled},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestLoggerJSONFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogConfig{Level: "debug", Format: "json", Output: &buf, ServiceName: "studio-test"})

	ctx := ContextWithTraceID(context.Background(), "abc123")
	logger.WithContext(ctx).WithComponent("pipeline").WithOperation("convert").Info().
		Int("page", 3).
		Float64("scale", 1.5).
		Msg("page converted")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "studio-test", entry["service"])
	assert.Equal(t, "abc123", entry["trace_id"])
	assert.Equal(t, "pipeline", entry["component"])
	assert.Equal(t, "convert", entry["operation"])
	assert.Equal(t, float64(3), entry["page"])
	assert.Equal(t, 1.5, entry["scale"])
	assert.Equal(t, "page converted", entry["message"])
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogConfig{Level: "error", Format: "json", Output: &buf})

	logger.Info().Msg("hidden")
	assert.Zero(t, buf.Len())

	logger.Error().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestTraceIDMissing(t *testing.T) {
	assert.Empty(t, TraceIDFromContext(context.Background()))
	logger := Nop()
	assert.Same(t, logger, logger.WithContext(context.Background()))
}
