package core

import (
	"errors"
	"fmt"
)

var (
	// ErrCancelled marks the abort of a whole command invocation. Every
	// *CancelError matches it via errors.Is.
	ErrCancelled = errors.New("command cancelled")

	// ErrReplyTimeout is returned by Transport.AwaitReply when no matching
	// message arrived within the reply window.
	ErrReplyTimeout = errors.New("reply window elapsed")

	// ErrPromptActive is returned when a command is dispatched for a
	// channel/author pair that already has an outstanding prompt.
	ErrPromptActive = errors.New("prompt already active")
)

// CancelReason describes why a prompt aborted its command.
type CancelReason string

const (
	// CancelReasonUser means the user replied with the cancel word.
	CancelReasonUser CancelReason = "user"
	// CancelReasonTimeout means no reply arrived within the reply window.
	CancelReasonTimeout CancelReason = "timeout"
	// CancelReasonEnded means the retry budget was exhausted.
	CancelReasonEnded CancelReason = "ended"
)

// CancelError is the cancellation signal raised by the prompt loop. It is not
// a recoverable failure: callers must propagate it to the outermost command
// invocation and abort all remaining argument processing.
type CancelError struct {
	Reason     CancelReason `json:"reason"`
	ArgumentID string       `json:"argument_id,omitempty"`
}

// NewCancelError creates a CancelError for the given reason.
func NewCancelError(reason CancelReason, argumentID string) *CancelError {
	return &CancelError{Reason: reason, ArgumentID: argumentID}
}

func (e *CancelError) Error() string {
	if e.ArgumentID != "" {
		return fmt.Sprintf("command cancelled [%s] while prompting for %s", e.Reason, e.ArgumentID)
	}
	return fmt.Sprintf("command cancelled [%s]", e.Reason)
}

// Is reports ErrCancelled as a match so callers can test with errors.Is.
func (e *CancelError) Is(target error) bool { return target == ErrCancelled }

// IsCancelled reports whether err carries the cancellation signal.
func IsCancelled(err error) bool { return errors.Is(err, ErrCancelled) }

// CancelReasonOf extracts the reason of a cancellation error. It returns the
// empty reason when err is not a cancellation.
func CancelReasonOf(err error) CancelReason {
	var ce *CancelError
	if errors.As(err, &ce) {
		return ce.Reason
	}
	return ""
}
