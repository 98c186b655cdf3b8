package engine

import (
	"context"
	"sync"

	"github.com/hupe1980/argmesh/core"
	"github.com/hupe1980/argmesh/logging"
)

// CallbackType defines the lifecycle points where callbacks run.
//
// Available callback types:
//   - BeforeCommand/AfterCommand: around argument resolution
//   - OnCancel: when a prompt cancels the command
//   - OnError: when resolution fails unexpectedly
//
// BeforeCommand and AfterCommand callbacks can abort the invocation by
// returning an error; errors from OnCancel and OnError are only logged.
type CallbackType string

const (
	// CallbackBeforeCommand is triggered before argument resolution begins.
	CallbackBeforeCommand CallbackType = "before_command"

	// CallbackAfterCommand is triggered after every argument was resolved.
	// Use it to validate the resolved arguments as a whole.
	CallbackAfterCommand CallbackType = "after_command"

	// CallbackOnCancel is triggered when a prompt raised a cancellation.
	CallbackOnCancel CallbackType = "on_cancel"

	// CallbackOnError is triggered when resolution failed unexpectedly.
	CallbackOnError CallbackType = "on_error"
)

// CallbackContext carries the invocation a callback runs for.
type CallbackContext struct {
	InvocationID string
	CommandID    string
	Message      *core.Message

	// Args holds the resolved arguments (AfterCommand only).
	Args core.Args

	// Err holds the failure (OnCancel and OnError only).
	Err error
}

// Callback defines the interface for invocation lifecycle hooks.
type Callback interface {
	// Type returns the callback type this implementation handles.
	Type() CallbackType

	// Execute performs the callback logic with the provided context.
	Execute(ctx context.Context, callbackCtx *CallbackContext) error
}

// FunctionCallback wraps a function as a callback implementation.
//
// Example:
//
//	audit := NewFunctionCallback(
//	    CallbackAfterCommand,
//	    func(ctx context.Context, callbackCtx *CallbackContext) error {
//	        log.Printf("%s resolved %v", callbackCtx.CommandID, callbackCtx.Args)
//	        return nil
//	    },
//	)
type FunctionCallback struct {
	callbackType CallbackType
	fn           func(ctx context.Context, callbackCtx *CallbackContext) error
}

// NewFunctionCallback creates a new function-based callback.
func NewFunctionCallback(
	callbackType CallbackType,
	fn func(ctx context.Context, callbackCtx *CallbackContext) error,
) *FunctionCallback {
	return &FunctionCallback{
		callbackType: callbackType,
		fn:           fn,
	}
}

// Type returns the callback type this function handles.
func (c *FunctionCallback) Type() CallbackType {
	return c.callbackType
}

// Execute calls the wrapped function with the provided context.
func (c *FunctionCallback) Execute(ctx context.Context, callbackCtx *CallbackContext) error {
	return c.fn(ctx, callbackCtx)
}

// CallbackManager holds callbacks per type and runs them in registration
// order. The first error stops execution. It is safe for concurrent use.
type CallbackManager struct {
	mu        sync.RWMutex
	callbacks map[CallbackType][]Callback
}

// NewCallbackManager creates an empty callback manager.
func NewCallbackManager() *CallbackManager {
	return &CallbackManager{
		callbacks: make(map[CallbackType][]Callback),
	}
}

// RegisterCallback adds a callback for its type.
func (cm *CallbackManager) RegisterCallback(callback Callback) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	callbackType := callback.Type()
	cm.callbacks[callbackType] = append(cm.callbacks[callbackType], callback)
}

// ExecuteCallbacks runs every callback registered for callbackType and
// returns the first error.
func (cm *CallbackManager) ExecuteCallbacks(
	ctx context.Context,
	callbackType CallbackType,
	callbackCtx *CallbackContext,
) error {
	cm.mu.RLock()
	callbacks := append([]Callback(nil), cm.callbacks[callbackType]...)
	cm.mu.RUnlock()

	for _, callback := range callbacks {
		if err := callback.Execute(ctx, callbackCtx); err != nil {
			return err
		}
	}

	return nil
}

// LoggingCallback logs invocation lifecycle events.
type LoggingCallback struct {
	callbackType CallbackType
	logger       logging.Logger
}

// NewLoggingCallback creates a logging callback for callbackType.
func NewLoggingCallback(callbackType CallbackType, logger logging.Logger) *LoggingCallback {
	return &LoggingCallback{
		callbackType: callbackType,
		logger:       logging.OrNoOp(logger),
	}
}

// Type returns the callback type this logger handles.
func (c *LoggingCallback) Type() CallbackType {
	return c.callbackType
}

// Execute logs the lifecycle event. It never fails.
func (c *LoggingCallback) Execute(_ context.Context, callbackCtx *CallbackContext) error {
	kv := []any{"invocation_id", callbackCtx.InvocationID, "command", callbackCtx.CommandID}
	if callbackCtx.Message != nil {
		kv = append(kv, "channel", callbackCtx.Message.ChannelID, "author", callbackCtx.Message.AuthorID)
	}
	if callbackCtx.Args != nil {
		kv = append(kv, "arguments", len(callbackCtx.Args))
	}
	if callbackCtx.Err != nil {
		kv = append(kv, "error", callbackCtx.Err.Error())
	}
	c.logger.Info("engine.callback."+string(c.callbackType), kv...)
	return nil
}

// ArgsValidationCallback validates resolved arguments after a command
// resolved. A validation error fails the invocation.
//
// Example:
//
//	validator := func(args core.Args) error {
//	    if args["quantity"].(int) > 10 {
//	        return errors.New("at most 10 pizzas per order")
//	    }
//	    return nil
//	}
//	callback := NewArgsValidationCallback(validator)
type ArgsValidationCallback struct {
	validator func(args core.Args) error
}

// NewArgsValidationCallback creates an AfterCommand validation callback.
func NewArgsValidationCallback(validator func(args core.Args) error) *ArgsValidationCallback {
	return &ArgsValidationCallback{
		validator: validator,
	}
}

// Type returns CallbackAfterCommand.
func (c *ArgsValidationCallback) Type() CallbackType {
	return CallbackAfterCommand
}

// Execute runs the validator against the resolved arguments.
func (c *ArgsValidationCallback) Execute(_ context.Context, callbackCtx *CallbackContext) error {
	if c.validator != nil {
		return c.validator(callbackCtx.Args)
	}
	return nil
}
