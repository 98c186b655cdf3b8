package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(level LogLevel, format string) (*ArgMeshLogger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	cfg := DefaultLoggerConfig()
	cfg.Level = level
	cfg.Format = format
	cfg.Output = buf
	return NewLogger(cfg), buf
}

func TestArgMeshLogger_JSONAttributes(t *testing.T) {
	logger, buf := newBufferLogger(LogLevelDebug, "json")
	logger.WithComponent("prompt").WithCommand("order", "size").WithContext("shard", 3).
		Info("prompt.turn.start", "retry_count", 2)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "prompt.turn.start", entry["msg"])
	assert.Equal(t, "prompt", entry["component"])
	assert.Equal(t, "order", entry["command"])
	assert.Equal(t, "size", entry["argument"])
	assert.EqualValues(t, 3, entry["shard"])
	assert.EqualValues(t, 2, entry["retry_count"])
}

func TestArgMeshLogger_LevelFiltering(t *testing.T) {
	logger, buf := newBufferLogger(LogLevelWarn, "text")
	logger.Debug("hidden")
	logger.Info("hidden")
	assert.Zero(t, buf.Len())

	logger.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestArgMeshLogger_CloneIsolation(t *testing.T) {
	base, buf := newBufferLogger(LogLevelInfo, "json")
	_ = base.WithContext("k", "v")
	base.Info("plain")
	assert.NotContains(t, buf.String(), `"k"`)
}

func TestEventLogger(t *testing.T) {
	logger, buf := newBufferLogger(LogLevelDebug, "json")
	events := Events(logger)
	events.LogCast("integer", time.Millisecond, false, errors.New("boom"))
	events.LogPromptOutcome("size", "cancelled", 2, time.Second, errors.New("cancel"))
	events.LogPromptTurn("size", 1, 0, true)

	out := buf.String()
	assert.Contains(t, out, "cast.error")
	assert.Contains(t, out, "boom")
	assert.Contains(t, out, "prompt.end")
	assert.Contains(t, out, "prompt.turn.start")
	assert.Contains(t, out, `"argument":"size"`)
}

func TestEvents_NilLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		Events(nil).LogCast("integer", time.Millisecond, true, nil)
	})
}

func TestArgMeshLogger_ConsoleFormat(t *testing.T) {
	logger, buf := newBufferLogger(LogLevelInfo, "console")
	logger.Info("prompt.end", "outcome", "value")
	assert.Contains(t, buf.String(), "prompt.end")
	assert.Contains(t, buf.String(), "outcome")
}

func TestArgMeshLogger_FileRotationOutput(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultLoggerConfig()
	cfg.Output = &bytes.Buffer{}
	cfg.File = filepath.Join(dir, "argmesh.log")
	logger := NewLogger(cfg)
	logger.Info("written.to.file")

	matches, err := filepath.Glob(filepath.Join(dir, "*.log"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]LogLevel{"DEBUG": LogLevelDebug, "": LogLevelInfo, "warning": LogLevelWarn, "error": LogLevelError} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLevel("loud")
	assert.Error(t, err)
	assert.True(t, strings.HasPrefix(LogLevelWarn.String(), "WARN"))
}

func TestOrNoOp(t *testing.T) {
	assert.IsType(t, NoOpLogger{}, OrNoOp(nil))
	l := NewDefaultSlogLogger()
	assert.Same(t, l, OrNoOp(l))
}
