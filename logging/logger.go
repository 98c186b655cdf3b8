package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	charmlog "github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogLevel is a thin enum for user friendly level configuration decoupled from slog.
type LogLevel int

const (
	// LogLevelDebug is the debug logging level.
	LogLevelDebug LogLevel = iota
	// LogLevelInfo is the informational logging level.
	LogLevelInfo
	// LogLevelWarn is the warning logging level.
	LogLevelWarn
	// LogLevelError is the error logging level.
	LogLevelError
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a case-insensitive level name into a LogLevel.
// Unknown names yield LogLevelInfo and an error.
func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LogLevelDebug, nil
	case "info", "":
		return LogLevelInfo, nil
	case "warn", "warning":
		return LogLevelWarn, nil
	case "error":
		return LogLevelError, nil
	default:
		return LogLevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// Logger defines the minimal logging interface for argmesh.
// This allows users to provide their own logger implementation or use the built-in adapters.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// SlogAdapter wraps *slog.Logger to implement the Logger interface.
type SlogAdapter struct {
	*slog.Logger
}

// Debug logs a debug message.
func (s *SlogAdapter) Debug(msg string, args ...any) { s.Logger.Debug(msg, args...) }

// Info logs an informational message.
func (s *SlogAdapter) Info(msg string, args ...any) { s.Logger.Info(msg, args...) }

// Warn logs a warning message.
func (s *SlogAdapter) Warn(msg string, args ...any) { s.Logger.Warn(msg, args...) }

// Error logs an error message.
func (s *SlogAdapter) Error(msg string, args ...any) { s.Logger.Error(msg, args...) }

// NewSlogAdapter creates a Logger from *slog.Logger.
func NewSlogAdapter(logger *slog.Logger) Logger {
	return &SlogAdapter{Logger: logger}
}

// NewDefaultSlogLogger creates a Logger using slog.Default().
func NewDefaultSlogLogger() Logger {
	return NewSlogAdapter(slog.Default())
}

// Rotation configures rotating file output.
type Rotation struct {
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// LoggerConfig configures construction of an ArgMeshLogger.
type LoggerConfig struct {
	Level       LogLevel
	Format      string // json, text or console
	Output      io.Writer
	File        string // optional rotating log file, written in addition to Output
	Rotation    Rotation
	AddSource   bool
	Component   string
	CustomAttrs map[string]any
}

// DefaultLoggerConfig returns a baseline JSON info level configuration.
func DefaultLoggerConfig() *LoggerConfig {
	return &LoggerConfig{
		Level:       LogLevelInfo,
		Format:      "json",
		Output:      os.Stdout,
		Rotation:    Rotation{MaxSizeMB: 64, MaxBackups: 5, MaxAgeDays: 14},
		CustomAttrs: map[string]any{},
	}
}

// ArgMeshLogger wraps slog.Logger adding contextual cloning helpers and
// domain convenience methods for casting and prompting. It is cheap to copy
// via the With* methods.
type ArgMeshLogger struct {
	logger    *slog.Logger
	level     LogLevel
	context   map[string]any
	component string
	command   string
	argument  string
}

// NewLogger builds an ArgMeshLogger from a config (or defaults if nil).
func NewLogger(cfg *LoggerConfig) *ArgMeshLogger {
	if cfg == nil {
		cfg = DefaultLoggerConfig()
	}
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	if cfg.File != "" {
		out = io.MultiWriter(out, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.Rotation.MaxSizeMB,
			MaxBackups: cfg.Rotation.MaxBackups,
			MaxAge:     cfg.Rotation.MaxAgeDays,
			Compress:   cfg.Rotation.Compress,
		})
	}

	l := &ArgMeshLogger{
		logger:    slog.New(newHandler(cfg, out)),
		level:     cfg.Level,
		context:   map[string]any{},
		component: cfg.Component,
	}
	for k, v := range cfg.CustomAttrs {
		l.context[k] = v
	}
	return l
}

func newHandler(cfg *LoggerConfig, out io.Writer) slog.Handler {
	opts := &slog.HandlerOptions{Level: slogLevel(cfg.Level), AddSource: cfg.AddSource}
	switch cfg.Format {
	case "text":
		return slog.NewTextHandler(out, opts)
	case "console":
		return charmlog.NewWithOptions(out, charmlog.Options{
			Level:           charmLevel(cfg.Level),
			ReportTimestamp: true,
			ReportCaller:    cfg.AddSource,
			Prefix:          cfg.Component,
		})
	default:
		return slog.NewJSONHandler(out, opts)
	}
}

func slogLevel(l LogLevel) slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelInfo:
		return slog.LevelInfo
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func charmLevel(l LogLevel) charmlog.Level {
	switch l {
	case LogLevelDebug:
		return charmlog.DebugLevel
	case LogLevelWarn:
		return charmlog.WarnLevel
	case LogLevelError:
		return charmlog.ErrorLevel
	default:
		return charmlog.InfoLevel
	}
}

func (l *ArgMeshLogger) clone() *ArgMeshLogger {
	nl := *l
	nl.context = make(map[string]any, len(l.context))
	for k, v := range l.context {
		nl.context[k] = v
	}
	return &nl
}

// WithContext adds a key/value attribute that will be attached to every log entry.
func (l *ArgMeshLogger) WithContext(key string, value any) *ArgMeshLogger {
	nl := l.clone()
	nl.context[key] = value
	return nl
}

// WithComponent sets the logical component (caster, prompt, command, etc.).
func (l *ArgMeshLogger) WithComponent(c string) *ArgMeshLogger {
	nl := l.clone()
	nl.component = c
	return nl
}

// WithCommand attaches the command and argument identifiers.
func (l *ArgMeshLogger) WithCommand(commandID, argumentID string) *ArgMeshLogger {
	nl := l.clone()
	nl.command = commandID
	nl.argument = argumentID
	return nl
}

func (l *ArgMeshLogger) buildAttrs() []slog.Attr {
	attrs := make([]slog.Attr, 0, len(l.context)+3)
	if l.component != "" {
		attrs = append(attrs, slog.String("component", l.component))
	}
	if l.command != "" {
		attrs = append(attrs, slog.String("command", l.command))
	}
	if l.argument != "" {
		attrs = append(attrs, slog.String("argument", l.argument))
	}
	for k, v := range l.context {
		attrs = append(attrs, slog.Any(k, v))
	}
	return attrs
}

func (l *ArgMeshLogger) log(level slog.Level, allowed bool, msg string, args ...any) {
	if !allowed {
		return
	}
	r := slog.NewRecord(time.Now(), level, msg, 0)
	r.AddAttrs(l.buildAttrs()...)
	r.Add(args...)
	_ = l.logger.Handler().Handle(context.Background(), r)
}

// Debug logs at debug level.
func (l *ArgMeshLogger) Debug(msg string, args ...any) {
	l.log(slog.LevelDebug, l.level <= LogLevelDebug, msg, args...)
}

// Info logs at info level.
func (l *ArgMeshLogger) Info(msg string, args ...any) {
	l.log(slog.LevelInfo, l.level <= LogLevelInfo, msg, args...)
}

// Warn logs at warn level.
func (l *ArgMeshLogger) Warn(msg string, args ...any) {
	l.log(slog.LevelWarn, l.level <= LogLevelWarn, msg, args...)
}

// Error logs at error level.
func (l *ArgMeshLogger) Error(msg string, args ...any) {
	l.log(slog.LevelError, l.level <= LogLevelError, msg, args...)
}

// EventLogger adds the structured casting and prompting events to any Logger.
type EventLogger struct {
	Logger
}

// Events wraps l. A nil l discards every event.
func Events(l Logger) EventLogger { return EventLogger{Logger: OrNoOp(l)} }

// LogCast records the outcome of one casting attempt.
func (e EventLogger) LogCast(typeName string, dur time.Duration, success bool, err error) {
	args := []any{"type", typeName, "duration", dur, "success", success}
	if err != nil {
		e.Error("cast.error", append(args, "error", err.Error())...)
		return
	}
	e.Debug("cast.done", args...)
}

// LogPromptTurn records the start of one prompt turn.
func (e EventLogger) LogPromptTurn(argumentID string, retryCount, collected int, infinite bool) {
	e.Debug("prompt.turn.start", "argument", argumentID, "retry_count", retryCount, "collected", collected, "infinite", infinite)
}

// LogPromptOutcome records how a prompt session ended.
func (e EventLogger) LogPromptOutcome(argumentID, outcome string, turns int, dur time.Duration, err error) {
	args := []any{"argument", argumentID, "outcome", outcome, "turns", turns, "duration", dur}
	if err != nil {
		e.Warn("prompt.end", append(args, "error", err.Error())...)
		return
	}
	e.Info("prompt.end", args...)
}

// NoOpLogger discards all log messages. Useful for testing or when logging is disabled.
type NoOpLogger struct{}

// Debug logs a debug message.
func (NoOpLogger) Debug(string, ...any) {}

// Info logs an informational message.
func (NoOpLogger) Info(string, ...any) {}

// Warn logs a warning message.
func (NoOpLogger) Warn(string, ...any) {}

// Error logs an error message.
func (NoOpLogger) Error(string, ...any) {}

// OrNoOp returns l, or a NoOpLogger when l is nil.
func OrNoOp(l Logger) Logger {
	if l == nil {
		return NoOpLogger{}
	}
	return l
}

// NewSlogLogger creates a new ArgMeshLogger with the specified configuration.
func NewSlogLogger(level LogLevel, format string, addSource bool) *ArgMeshLogger {
	cfg := DefaultLoggerConfig()
	cfg.Level = level
	if format != "" {
		cfg.Format = format
	}
	cfg.AddSource = addSource
	return NewLogger(cfg)
}
