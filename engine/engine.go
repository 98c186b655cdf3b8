package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hupe1980/argmesh/command"
	"github.com/hupe1980/argmesh/core"
	"github.com/hupe1980/argmesh/logging"
	"github.com/hupe1980/argmesh/session"
)

// ErrUnknownCommand is returned when no registered command matches.
var ErrUnknownCommand = errors.New("unknown command")

// Config defines tuning parameters for the Engine's operational behavior.
//
// Example:
//
//	cfg := Config{
//	    MaxConcurrentInvocations: 50,
//	    Prefix: "!",
//	}
type Config struct {
	// MaxConcurrentInvocations limits the number of command invocations that
	// resolve simultaneously. Invocations beyond the limit wait for a free
	// slot or for their context to end. Set to 0 for unlimited.
	MaxConcurrentInvocations int

	// Prefix marks message content as a command invocation in Dispatch,
	// e.g. "!" for "!order large".
	Prefix string
}

// DefaultConfig provides default configuration values.
//
// Configuration values:
//   - MaxConcurrentInvocations: 10
//   - Prefix: "!"
var DefaultConfig = Config{
	MaxConcurrentInvocations: 10,
	Prefix:                   "!",
}

// Options configures an Engine instance using the functional options pattern.
type Options struct {
	// Config contains operational parameters. Defaults to DefaultConfig.
	Config Config

	// Tracker records outstanding prompts. Invocations for a channel/author
	// pair with an outstanding prompt are refused with core.ErrPromptActive.
	// Defaults to an in-memory tracker.
	Tracker core.PromptTracker

	// Callbacks hook into the invocation lifecycle. Optional.
	Callbacks *CallbackManager

	// Logger defaults to NoOpLogger when nil.
	Logger logging.Logger
}

// Result is the terminal outcome of one invocation.
type Result struct {
	InvocationID string
	CommandID    string
	Args         core.Args
	Err          error
}

// Engine dispatches messages to registered commands and runs their argument
// resolution, one goroutine per invocation.
//
// Concurrency Model:
//   - Thread-safe command registration and lookup via RWMutex
//   - Bounded concurrent invocations via a semaphore
//   - Per-invocation goroutines with cancellation via StopInvocation
//   - Re-entrant invocations are suppressed through the prompt tracker
type Engine struct {
	tracker   core.PromptTracker
	callbacks *CallbackManager
	logger    logging.Logger
	config    Config
	sem       chan struct{}

	commands map[string]*command.Command
	mu       sync.RWMutex

	activeInvocations map[string]context.CancelFunc
	invocationsMu     sync.RWMutex
}

// New creates a new Engine instance with defaults and optional configuration.
//
// Examples:
//
//	// Minimal setup with all defaults
//	engine := New()
//
//	// Shared tracker and structured logger
//	engine := New(func(o *Options) {
//	    o.Tracker = tracker
//	    o.Logger = logger
//	})
func New(optFns ...func(o *Options)) *Engine {
	opts := Options{
		Config:    DefaultConfig,
		Tracker:   session.NewInMemoryTracker(),
		Callbacks: NewCallbackManager(),
		Logger:    logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	e := &Engine{
		tracker:           opts.Tracker,
		callbacks:         opts.Callbacks,
		logger:            logging.OrNoOp(opts.Logger),
		config:            opts.Config,
		commands:          make(map[string]*command.Command),
		activeInvocations: make(map[string]context.CancelFunc),
	}
	if e.callbacks == nil {
		e.callbacks = NewCallbackManager()
	}
	if n := opts.Config.MaxConcurrentInvocations; n > 0 {
		e.sem = make(chan struct{}, n)
	}
	return e
}

// Register adds a command to the registry. A command with the same ID is
// replaced.
func (e *Engine) Register(cmd *command.Command) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.commands[cmd.ID()] = cmd
}

// GetCommand retrieves a registered command by ID.
func (e *Engine) GetCommand(id string) (*command.Command, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	c, ok := e.commands[id]
	return c, ok
}

// Find returns the registered command invoked by word (ID or alias).
func (e *Engine) Find(word string) (*command.Command, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if c, ok := e.commands[word]; ok {
		return c, true
	}
	for _, c := range e.commands {
		if c.Matches(word) {
			return c, true
		}
	}
	return nil, false
}

// Invoke resolves a command asynchronously. Tokens keyed by argument ID are
// used when non-nil; otherwise tokens are parsed from the message content.
//
// Immediate errors (unknown command, outstanding prompt) are returned
// directly. The terminal Result is delivered on the returned channel, which
// is closed afterwards.
func (e *Engine) Invoke(
	ctx context.Context,
	commandID string,
	msg *core.Message,
	tokens map[string]string,
) (string, <-chan Result, error) {
	cmd, ok := e.GetCommand(commandID)
	if !ok {
		return "", nil, fmt.Errorf("%w: %s", ErrUnknownCommand, commandID)
	}
	return e.start(ctx, cmd, msg, tokens)
}

// Dispatch finds the command invoked by the message content (prefix plus
// command word) and resolves it asynchronously with parsed tokens.
func (e *Engine) Dispatch(ctx context.Context, msg *core.Message) (string, <-chan Result, error) {
	if msg == nil {
		return "", nil, errors.New("dispatch: no message")
	}
	content := strings.TrimSpace(msg.Content)
	if !strings.HasPrefix(content, e.config.Prefix) {
		return "", nil, fmt.Errorf("%w: missing prefix %q", ErrUnknownCommand, e.config.Prefix)
	}
	fields := strings.Fields(strings.TrimPrefix(content, e.config.Prefix))
	if len(fields) == 0 {
		return "", nil, fmt.Errorf("%w: empty invocation", ErrUnknownCommand)
	}
	cmd, ok := e.Find(fields[0])
	if !ok {
		return "", nil, fmt.Errorf("%w: %s", ErrUnknownCommand, fields[0])
	}
	return e.start(ctx, cmd, msg, nil)
}

func (e *Engine) start(ctx context.Context, cmd *command.Command, msg *core.Message, tokens map[string]string) (string, <-chan Result, error) {
	if msg == nil {
		return "", nil, fmt.Errorf("invoke %s: no message", cmd.ID())
	}
	if e.tracker.Active(msg) {
		e.logger.Debug("engine.invocation.suppressed", "command", cmd.ID(), "channel", msg.ChannelID, "author", msg.AuthorID)
		return "", nil, core.ErrPromptActive
	}

	invocationID := uuid.NewString()
	resultCh := make(chan Result, 1)
	invocationCtx, cancel := context.WithCancel(ctx)

	e.invocationsMu.Lock()
	e.activeInvocations[invocationID] = cancel
	e.invocationsMu.Unlock()

	go func() {
		defer func() {
			cancel()
			e.invocationsMu.Lock()
			delete(e.activeInvocations, invocationID)
			e.invocationsMu.Unlock()
			close(resultCh)
		}()

		args, err := e.run(invocationCtx, invocationID, cmd, msg, tokens)
		resultCh <- Result{InvocationID: invocationID, CommandID: cmd.ID(), Args: args, Err: err}
	}()

	return invocationID, resultCh, nil
}

func (e *Engine) run(ctx context.Context, invocationID string, cmd *command.Command, msg *core.Message, tokens map[string]string) (core.Args, error) {
	if e.sem != nil {
		select {
		case e.sem <- struct{}{}:
			defer func() { <-e.sem }()
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	cbCtx := &CallbackContext{InvocationID: invocationID, CommandID: cmd.ID(), Message: msg}
	if err := e.callbacks.ExecuteCallbacks(ctx, CallbackBeforeCommand, cbCtx); err != nil {
		return nil, fmt.Errorf("before command %s: %w", cmd.ID(), err)
	}

	start := time.Now()
	var (
		args core.Args
		err  error
	)
	if tokens != nil {
		args, err = cmd.Resolve(ctx, msg, tokens)
	} else {
		args, err = cmd.Parse(ctx, msg)
	}
	cbCtx.Args, cbCtx.Err = args, err

	switch {
	case core.IsCancelled(err):
		e.logger.Info("engine.invocation.cancelled", "invocation_id", invocationID, "command", cmd.ID(), "reason", string(core.CancelReasonOf(err)))
		if cbErr := e.callbacks.ExecuteCallbacks(ctx, CallbackOnCancel, cbCtx); cbErr != nil {
			e.logger.Warn("engine.callback.failed", "type", string(CallbackOnCancel), "error", cbErr.Error())
		}
		return nil, err
	case err != nil:
		e.logger.Error("engine.invocation.failed", "invocation_id", invocationID, "command", cmd.ID(), "error", err.Error())
		if cbErr := e.callbacks.ExecuteCallbacks(ctx, CallbackOnError, cbCtx); cbErr != nil {
			e.logger.Warn("engine.callback.failed", "type", string(CallbackOnError), "error", cbErr.Error())
		}
		return nil, err
	}

	if err := e.callbacks.ExecuteCallbacks(ctx, CallbackAfterCommand, cbCtx); err != nil {
		return nil, fmt.Errorf("after command %s: %w", cmd.ID(), err)
	}
	e.logger.Info("engine.invocation.done", "invocation_id", invocationID, "command", cmd.ID(), "duration", time.Since(start))
	return args, nil
}

// InvokeSync resolves a command and waits for the result.
func (e *Engine) InvokeSync(
	ctx context.Context,
	commandID string,
	msg *core.Message,
	tokens map[string]string,
) (string, core.Args, error) {
	invocationID, resultCh, err := e.Invoke(ctx, commandID, msg, tokens)
	if err != nil {
		return "", nil, err
	}
	return wait(ctx, invocationID, resultCh)
}

// DispatchSync dispatches a message and waits for the result.
func (e *Engine) DispatchSync(ctx context.Context, msg *core.Message) (string, core.Args, error) {
	invocationID, resultCh, err := e.Dispatch(ctx, msg)
	if err != nil {
		return "", nil, err
	}
	return wait(ctx, invocationID, resultCh)
}

func wait(ctx context.Context, invocationID string, resultCh <-chan Result) (string, core.Args, error) {
	select {
	case <-ctx.Done():
		return invocationID, nil, ctx.Err()
	case res, ok := <-resultCh:
		if !ok {
			return invocationID, nil, fmt.Errorf("invocation %s ended without result", invocationID)
		}
		return invocationID, res.Args, res.Err
	}
}

// StopInvocation cancels a running invocation by ID. The invocation's
// pending transport calls observe the cancelled context.
func (e *Engine) StopInvocation(invocationID string) error {
	e.invocationsMu.RLock()
	cancel, exists := e.activeInvocations[invocationID]
	e.invocationsMu.RUnlock()

	if !exists {
		return fmt.Errorf("invocation %s not found", invocationID)
	}

	cancel()
	return nil
}

// ActiveInvocations returns the number of running invocations.
func (e *Engine) ActiveInvocations() int {
	e.invocationsMu.RLock()
	defer e.invocationsMu.RUnlock()
	return len(e.activeInvocations)
}

// Tracker returns the prompt tracker shared with the prompt engine.
func (e *Engine) Tracker() core.PromptTracker { return e.tracker }
