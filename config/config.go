package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/hupe1980/argmesh/engine"
	"github.com/hupe1980/argmesh/logging"
	"github.com/hupe1980/argmesh/prompt"
)

// EnvPrefix prefixes environment overrides, e.g. ARGMESH_PROMPT_RETRIES.
const EnvPrefix = "ARGMESH"

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

type (
	// TextConfig holds static prompt texts. Empty values are unset.
	TextConfig struct {
		Start   string `json:"start" mapstructure:"start"`
		Retry   string `json:"retry" mapstructure:"retry"`
		Timeout string `json:"timeout" mapstructure:"timeout"`
		Ended   string `json:"ended" mapstructure:"ended"`
		Cancel  string `json:"cancel" mapstructure:"cancel"`
	}

	// PromptConfig holds the handler-wide prompt defaults.
	PromptConfig struct {
		Retries    int           `json:"retries" mapstructure:"retries"`
		Time       time.Duration `json:"time" mapstructure:"time"`
		CancelWord string        `json:"cancel_word" mapstructure:"cancel_word"`
		StopWord   string        `json:"stop_word" mapstructure:"stop_word"`
		Optional   bool          `json:"optional" mapstructure:"optional"`
		Infinite   bool          `json:"infinite" mapstructure:"infinite"`
		Limit      int           `json:"limit" mapstructure:"limit"`
		Text       TextConfig    `json:"text" mapstructure:"text"`
	}

	// RotationConfig configures log file rotation.
	RotationConfig struct {
		MaxSizeMB  int  `json:"max_size_mb" mapstructure:"max_size_mb"`
		MaxBackups int  `json:"max_backups" mapstructure:"max_backups"`
		MaxAgeDays int  `json:"max_age_days" mapstructure:"max_age_days"`
		Compress   bool `json:"compress" mapstructure:"compress"`
	}

	// LoggingConfig configures the structured logger.
	LoggingConfig struct {
		Level     string         `json:"level" mapstructure:"level"`
		Format    string         `json:"format" mapstructure:"format"`
		File      string         `json:"file" mapstructure:"file"`
		AddSource bool           `json:"add_source" mapstructure:"add_source"`
		Rotation  RotationConfig `json:"rotation" mapstructure:"rotation"`
	}

	// EngineConfig tunes command dispatch.
	EngineConfig struct {
		MaxConcurrentInvocations int    `json:"max_concurrent_invocations" mapstructure:"max_concurrent_invocations"`
		Prefix                   string `json:"prefix" mapstructure:"prefix"`
	}

	// Config is the root configuration.
	Config struct {
		Prompt  PromptConfig  `json:"prompt" mapstructure:"prompt"`
		Logging LoggingConfig `json:"logging" mapstructure:"logging"`
		Engine  EngineConfig  `json:"engine" mapstructure:"engine"`
	}
)

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Prompt: PromptConfig{
			Retries:    prompt.DefaultRetries,
			Time:       prompt.DefaultTime,
			CancelWord: prompt.DefaultCancelWord,
			StopWord:   prompt.DefaultStopWord,
		},
		Logging: LoggingConfig{
			Level:    logging.LogLevelInfo.String(),
			Format:   "console",
			Rotation: RotationConfig{MaxSizeMB: 64, MaxBackups: 5, MaxAgeDays: 14},
		},
		Engine: EngineConfig{
			MaxConcurrentInvocations: engine.DefaultConfig.MaxConcurrentInvocations,
			Prefix:                   engine.DefaultConfig.Prefix,
		},
	}
}

// Load reads the configuration file at path (format inferred from its
// extension) on top of the defaults and applies ARGMESH_* environment
// overrides. An empty path loads defaults and environment only.
func Load(ctx context.Context, path string) (*Config, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("prompt.retries", defaults.Prompt.Retries)
	v.SetDefault("prompt.time", defaults.Prompt.Time)
	v.SetDefault("prompt.cancel_word", defaults.Prompt.CancelWord)
	v.SetDefault("prompt.stop_word", defaults.Prompt.StopWord)
	v.SetDefault("prompt.optional", defaults.Prompt.Optional)
	v.SetDefault("prompt.infinite", defaults.Prompt.Infinite)
	v.SetDefault("prompt.limit", defaults.Prompt.Limit)
	v.SetDefault("prompt.text.start", "")
	v.SetDefault("prompt.text.retry", "")
	v.SetDefault("prompt.text.timeout", "")
	v.SetDefault("prompt.text.ended", "")
	v.SetDefault("prompt.text.cancel", "")
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.format", defaults.Logging.Format)
	v.SetDefault("logging.file", defaults.Logging.File)
	v.SetDefault("logging.add_source", defaults.Logging.AddSource)
	v.SetDefault("logging.rotation.max_size_mb", defaults.Logging.Rotation.MaxSizeMB)
	v.SetDefault("logging.rotation.max_backups", defaults.Logging.Rotation.MaxBackups)
	v.SetDefault("logging.rotation.max_age_days", defaults.Logging.Rotation.MaxAgeDays)
	v.SetDefault("logging.rotation.compress", defaults.Logging.Rotation.Compress)
	v.SetDefault("engine.max_concurrent_invocations", defaults.Engine.MaxConcurrentInvocations)
	v.SetDefault("engine.prefix", defaults.Engine.Prefix)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports values the runtime would reject or silently clamp.
func (c *Config) Validate() error {
	var errs []error
	if c.Prompt.Retries < 0 {
		errs = append(errs, fmt.Errorf("prompt.retries must not be negative: %d", c.Prompt.Retries))
	}
	if c.Prompt.Time <= 0 {
		errs = append(errs, fmt.Errorf("prompt.time must be positive: %s", c.Prompt.Time))
	}
	if c.Prompt.Limit < 0 {
		errs = append(errs, fmt.Errorf("prompt.limit must not be negative: %d", c.Prompt.Limit))
	}
	if strings.TrimSpace(c.Prompt.CancelWord) == "" {
		errs = append(errs, errors.New("prompt.cancel_word must not be empty"))
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}
	switch c.Logging.Format {
	case "json", "text", "console":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be json, text or console: %q", c.Logging.Format))
	}
	if c.Engine.MaxConcurrentInvocations < 0 {
		errs = append(errs, fmt.Errorf("engine.max_concurrent_invocations must not be negative: %d", c.Engine.MaxConcurrentInvocations))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// Options converts the prompt defaults into a handler-wide options layer.
func (p PromptConfig) Options() *prompt.Options {
	o := &prompt.Options{
		Retries:    prompt.Int(p.Retries),
		Time:       prompt.Duration(p.Time),
		CancelWord: prompt.String(p.CancelWord),
		StopWord:   prompt.String(p.StopWord),
		Optional:   prompt.Bool(p.Optional),
		Infinite:   prompt.Bool(p.Infinite),
		Limit:      prompt.Int(p.Limit),
	}
	setText(&o.Start, p.Text.Start)
	setText(&o.Retry, p.Text.Retry)
	setText(&o.Timeout, p.Text.Timeout)
	setText(&o.Ended, p.Text.Ended)
	setText(&o.Cancel, p.Text.Cancel)
	return o
}

func setText(dst *prompt.Text, s string) {
	if s != "" {
		*dst = prompt.Template(s)
	}
}

// LoggerConfig converts the logging section. Output defaults to stderr so
// log lines do not interleave with console prompts.
func (l LoggingConfig) LoggerConfig() (*logging.LoggerConfig, error) {
	level, err := logging.ParseLevel(l.Level)
	if err != nil {
		return nil, err
	}
	cfg := logging.DefaultLoggerConfig()
	cfg.Level = level
	cfg.Format = l.Format
	cfg.Output = os.Stderr
	cfg.File = l.File
	cfg.AddSource = l.AddSource
	cfg.Rotation = logging.Rotation{
		MaxSizeMB:  l.Rotation.MaxSizeMB,
		MaxBackups: l.Rotation.MaxBackups,
		MaxAgeDays: l.Rotation.MaxAgeDays,
		Compress:   l.Rotation.Compress,
	}
	return cfg, nil
}

// EngineConfig converts the dispatch section.
func (e EngineConfig) EngineConfig() engine.Config {
	return engine.Config{
		MaxConcurrentInvocations: e.MaxConcurrentInvocations,
		Prefix:                   e.Prefix,
	}
}
