package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/argmesh/logging"
	"github.com/hupe1980/argmesh/prompt"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "argmesh.yaml", `
prompt:
  retries: 3
  time: 45s
  cancel_word: abort
  limit: 5
  text:
    retry: "{{quote .Word}} is not valid."
    ended: "Too many attempts."
logging:
  level: debug
  format: json
engine:
  prefix: "?"
`)
	cfg, err := Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Prompt.Retries)
	assert.Equal(t, 45*time.Second, cfg.Prompt.Time)
	assert.Equal(t, "abort", cfg.Prompt.CancelWord)
	assert.Equal(t, prompt.DefaultStopWord, cfg.Prompt.StopWord)
	assert.Equal(t, 5, cfg.Prompt.Limit)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 64, cfg.Logging.Rotation.MaxSizeMB)
	assert.Equal(t, "?", cfg.Engine.Prefix)
	assert.Equal(t, 10, cfg.Engine.MaxConcurrentInvocations)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("ARGMESH_PROMPT_RETRIES", "7")
	t.Setenv("ARGMESH_ENGINE_PREFIX", "/")

	cfg, err := Load(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Prompt.Retries)
	assert.Equal(t, "/", cfg.Engine.Prefix)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	path := writeFile(t, "bad.yaml", "prompt:\n  retries: -1\nlogging:\n  format: xml\n")
	_, err = Load(context.Background(), path)
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "prompt.retries")
	assert.Contains(t, err.Error(), "logging.format")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Load(ctx, "")
	require.ErrorIs(t, err, context.Canceled)
}

func TestPromptConfig_Options(t *testing.T) {
	p := DefaultConfig().Prompt
	p.Retries = 2
	p.Text.Retry = "again"

	settings := prompt.Resolve(p.Options(), &prompt.Options{Retries: prompt.Int(4)})
	assert.Equal(t, 4, settings.Retries)
	assert.Equal(t, prompt.DefaultTime, settings.Time)
	assert.True(t, settings.Start.IsZero())

	text, err := settings.Retry.Resolve(context.Background(), nil, nil, prompt.Meta{})
	require.NoError(t, err)
	assert.Equal(t, "again", text)
}

func TestLoggingConfig_LoggerConfig(t *testing.T) {
	l := LoggingConfig{Level: "warn", Format: "text", File: "argmesh.log", Rotation: RotationConfig{MaxSizeMB: 1, Compress: true}}
	cfg, err := l.LoggerConfig()
	require.NoError(t, err)
	assert.Equal(t, logging.LogLevelWarn, cfg.Level)
	assert.Equal(t, "text", cfg.Format)
	assert.Equal(t, os.Stderr, cfg.Output)
	assert.Equal(t, "argmesh.log", cfg.File)
	assert.Equal(t, logging.Rotation{MaxSizeMB: 1, Compress: true}, cfg.Rotation)

	_, err = LoggingConfig{Level: "loud"}.LoggerConfig()
	assert.Error(t, err)
}

func TestEngineConfig(t *testing.T) {
	e := EngineConfig{MaxConcurrentInvocations: 3, Prefix: "$"}.EngineConfig()
	assert.Equal(t, 3, e.MaxConcurrentInvocations)
	assert.Equal(t, "$", e.Prefix)
}
