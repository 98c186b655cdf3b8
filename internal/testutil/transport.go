package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/hupe1980/argmesh/core"
)

// BotID is the author of every message sent through a ScriptedTransport.
const BotID = "argmesh"

// Step is one scripted event delivered to AwaitReply.
type Step struct {
	authorID string
	content  string
	timeout  bool
	err      error
}

// Reply scripts a message from the prompted author.
func Reply(content string) Step { return Step{content: content} }

// ReplyFrom scripts a message from another author in the same channel. The
// engine's reply filter is expected to skip it.
func ReplyFrom(authorID, content string) Step { return Step{authorID: authorID, content: content} }

// Timeout scripts an elapsed reply window.
func Timeout() Step { return Step{timeout: true} }

// Fail scripts a transport failure.
func Fail(err error) Step { return Step{err: err} }

// ScriptedTransport is a core.Transport that replays a fixed conversation.
// When the script runs out AwaitReply reports a timeout.
type ScriptedTransport struct {
	mu      sync.Mutex
	steps   []Step
	sent    []string
	windows []time.Duration
	sendErr error

	// OnAwait, when set, is invoked at the start of every AwaitReply call.
	OnAwait func(origin *core.Message)
}

// NewScriptedTransport creates a transport replaying steps in order.
func NewScriptedTransport(steps ...Step) *ScriptedTransport {
	return &ScriptedTransport{steps: steps}
}

// FailSends makes every subsequent Send return err.
func (t *ScriptedTransport) FailSends(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sendErr = err
}

// Send records text and returns the delivered message.
func (t *ScriptedTransport) Send(_ context.Context, origin *core.Message, text string) (*core.Message, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.sendErr != nil {
		return nil, t.sendErr
	}
	t.sent = append(t.sent, text)
	return origin.NewReply(BotID, text), nil
}

// AwaitReply pops scripted steps until one is accepted by filter.
func (t *ScriptedTransport) AwaitReply(ctx context.Context, origin *core.Message, filter func(*core.Message) bool, window time.Duration) (*core.Message, error) {
	if t.OnAwait != nil {
		t.OnAwait(origin)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.windows = append(t.windows, window)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if len(t.steps) == 0 {
			return nil, core.ErrReplyTimeout
		}
		step := t.steps[0]
		t.steps = t.steps[1:]

		switch {
		case step.timeout:
			return nil, core.ErrReplyTimeout
		case step.err != nil:
			return nil, step.err
		}

		author := step.authorID
		if author == "" {
			author = origin.AuthorID
		}
		msg := origin.NewReply(author, step.content)
		if filter == nil || filter(msg) {
			return msg, nil
		}
	}
}

// Sent returns a copy of every text sent so far.
func (t *ScriptedTransport) Sent() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.sent...)
}

// Awaits returns the number of AwaitReply calls so far.
func (t *ScriptedTransport) Awaits() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.windows)
}

// Windows returns the reply window of every AwaitReply call so far.
func (t *ScriptedTransport) Windows() []time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]time.Duration(nil), t.windows...)
}

// Remaining returns the number of unconsumed steps.
func (t *ScriptedTransport) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.steps)
}
