// Package logging provides a minimal logging interface and adapters for argmesh.
//
// The Logger interface defines the standard logging methods (Debug, Info, Warn, Error)
// that the caster, the prompt engine and the command runner use for observability.
// This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - ArgMeshLogger with json, text and console (charmbracelet/log) formats and
//     optional rotating file output (lumberjack)
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "console", false)
//	mesh := argmesh.New(func(o *argmesh.Options) { o.Logger = logger })
//
// Messages are short dotted event names ("prompt.turn.start") followed by
// key/value pairs.
package logging
