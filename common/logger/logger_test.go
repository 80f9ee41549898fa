package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_AddsServiceAttribute(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "artstore", "INFO")

	log.Info("order finalized", slog.String("order_number", "DN-20250101-AB12CD34"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "artstore", entry["service"])
	assert.Equal(t, "order finalized", entry["msg"])
	assert.Equal(t, "DN-20250101-AB12CD34", entry["order_number"])
}

func TestNew_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "artstore", "warn")

	log.Info("hidden")
	assert.Zero(t, buf.Len())

	log.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestGetLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, getLogLevel("DEBUG"))
	assert.Equal(t, slog.LevelError, getLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, getLogLevel(""))
	assert.Equal(t, slog.LevelInfo, getLogLevel("verbose"))
}
