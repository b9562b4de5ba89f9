package logging

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("info"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}

func TestNewFileLoggerWritesJSONWithServiceAttr(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "service.log")

	logger, closeLog, err := NewFileLogger(logPath, "unit-test", slog.LevelInfo)
	require.NoError(t, err)

	logger.Info("hello", "key", "value")
	require.NoError(t, closeLog())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, "unit-test", entry["service"])
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "value", entry["key"])
}

func TestNewDiscardLoggerDropsEverything(t *testing.T) {
	logger := NewDiscardLogger("quiet")
	// Must not panic or write anywhere.
	logger.Error("this goes nowhere")
}

func TestForServiceUsesDefaultLogger(t *testing.T) {
	logger := ForService("api")
	assert.NotNil(t, logger)
}
