package core

import (
	"context"
	"time"
)

// CastFunc converts one token into a typed value. A nil value means "could
// not cast" and is never an error; a non-nil error is an unexpected failure
// that callers propagate unchanged.
type CastFunc func(ctx context.Context, token string, msg *Message, args Args) (any, error)

// TypeResolver maps named types to casting functions.
type TypeResolver interface {
	Lookup(name string) (CastFunc, bool)
}

// Transport sends prompt text and collects replies.
//
// Send returns the message that was delivered so the engine can exclude it
// from reply collection. AwaitReply blocks until a message accepted by filter
// arrives, the window elapses (ErrReplyTimeout) or ctx is done.
type Transport interface {
	Send(ctx context.Context, origin *Message, text string) (*Message, error)
	AwaitReply(ctx context.Context, origin *Message, filter func(*Message) bool, window time.Duration) (*Message, error)
}

// PromptTracker records which conversation slots have an outstanding prompt
// so the dispatcher can suppress re-entrant command invocations.
type PromptTracker interface {
	Register(msg *Message)
	Deregister(msg *Message)
	Active(msg *Message) bool
}
