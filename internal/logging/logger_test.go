package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askdb/askdb/internal/config"
)

func newBufferLogger(level, format string) (*Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	logger := &Logger{
		level:  parseLogLevel(level),
		format: format,
		output: buf,
		fields: make(map[string]interface{}),
	}

	return logger, buf
}

func TestLogger_LevelFiltering(t *testing.T) {
	logger, buf := newBufferLogger("warn", "text")

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	out := buf.String()
	assert.NotContains(t, out, "debug message")
	assert.NotContains(t, out, "info message")
	assert.Contains(t, out, "warn message")
	assert.Contains(t, out, "error message")
}

func TestLogger_TextFormat(t *testing.T) {
	logger, buf := newBufferLogger("debug", "text")

	logger.WithField("session", "abc123").Infof("executed query in %dms", 42)

	out := buf.String()
	assert.Contains(t, out, "INFO")
	assert.Contains(t, out, "executed query in 42ms")
	assert.Contains(t, out, "session=abc123")
}

func TestLogger_JSONFormat(t *testing.T) {
	logger, buf := newBufferLogger("debug", "json")

	logger.WithFields(map[string]interface{}{"attempt": 1}).Warn("retrying")

	var entry LogEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "WARN", entry.Level)
	assert.Equal(t, "retrying", entry.Message)
	assert.EqualValues(t, 1, entry.Fields["attempt"])
}

func TestLogger_WithError(t *testing.T) {
	logger, buf := newBufferLogger("debug", "text")

	logger.WithError(errors.New("connection refused")).Error("query failed")

	assert.Contains(t, buf.String(), "connection refused")
}

func TestLogger_WithFieldsDoesNotMutateParent(t *testing.T) {
	logger, buf := newBufferLogger("debug", "text")

	child := logger.WithField("key", "value")
	logger.Info("parent message")

	assert.NotContains(t, buf.String(), "key=value")

	buf.Reset()
	child.Info("child message")
	assert.Contains(t, buf.String(), "key=value")
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  LogLevel
	}{
		{"debug", DebugLevel},
		{"info", InfoLevel},
		{"warn", WarnLevel},
		{"warning", WarnLevel},
		{"error", ErrorLevel},
		{"unknown", InfoLevel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLogLevel(tt.input), tt.input)
	}
}

func TestNewLogger_InvalidOutput(t *testing.T) {
	_, err := NewLogger(config.LoggingConfig{Level: "info", Format: "text", Output: "syslog"})
	assert.Error(t, err)
}

func TestNewLogger_FileOutput(t *testing.T) {
	path := t.TempDir() + "/logs/app.log"

	logger, err := NewLogger(config.LoggingConfig{
		Level:  "info",
		Format: "text",
		Output: "file",
		File:   path,
	})
	require.NoError(t, err)

	logger.Info("written to file")
	require.NoError(t, logger.Close())

	assert.FileExists(t, path)
}
