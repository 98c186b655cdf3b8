package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hupe1980/argmesh/caster"
	"github.com/hupe1980/argmesh/core"
	"github.com/hupe1980/argmesh/logging"
)

// EngineOptions configures an Engine.
type EngineOptions struct {
	// Transport sends prompt text and awaits replies. Required.
	Transport core.Transport

	// Tracker records outstanding prompts. Defaults to a tracker that
	// records nothing.
	Tracker core.PromptTracker

	// Caster casts replies. Defaults to caster.New() without named types.
	Caster *caster.Caster

	// Logger defaults to NoOpLogger when nil.
	Logger logging.Logger
}

// Engine runs the interactive retry loop for one argument at a time.
type Engine struct {
	transport core.Transport
	tracker   core.PromptTracker
	caster    *caster.Caster
	logger    logging.EventLogger
}

// NewEngine creates an Engine.
func NewEngine(optFns ...func(o *EngineOptions)) *Engine {
	opts := EngineOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Tracker == nil {
		opts.Tracker = nopTracker{}
	}
	if opts.Caster == nil {
		opts.Caster = caster.New(func(o *caster.Options) { o.Logger = opts.Logger })
	}
	return &Engine{
		transport: opts.Transport,
		tracker:   opts.Tracker,
		caster:    opts.Caster,
		logger:    logging.Events(opts.Logger),
	}
}

// Request describes one prompt session.
type Request struct {
	ArgumentID string
	Type       caster.TypeSpec
	Settings   Settings
	Message    *core.Message // Triggering command message
	Args       core.Args     // Values resolved so far in this invocation
	Word       string        // Token whose cast failed; empty if nothing was typed

	// ForceInfinite collects a sequence even when Settings.Infinite is false.
	ForceInfinite bool
}

// Infinite reports whether the session accumulates a sequence.
func (r Request) Infinite() bool { return r.Settings.Infinite || r.ForceInfinite }

// promptState is the ephemeral state of one Collect call.
type promptState struct {
	req        Request
	retryCount int
	values     []any
	lastMsg    *core.Message
	lastWord   string
	lastSent   *core.Message
	turns      int
}

func (s *promptState) meta() Meta {
	return Meta{
		ArgumentID: s.req.ArgumentID,
		Retries:    s.retryCount - 1,
		Infinite:   s.req.Infinite(),
		Collected:  len(s.values),
		Message:    s.lastMsg,
		Word:       s.lastWord,
		Suggestion: s.req.Type.Suggest(s.lastWord),
	}
}

// invalid records a reply that did not produce a value and reports whether
// another turn is allowed.
func (s *promptState) invalid(reply *core.Message, word string) bool {
	if s.retryCount > s.req.Settings.Retries {
		return false
	}
	s.lastMsg, s.lastWord = reply, word
	s.retryCount++
	return true
}

// Collect prompts until a value is cast, the user cancels, the reply window
// elapses or the retry budget is exhausted. It returns a single value, or a
// []any in infinite mode. Cancellation, timeout and exhaustion are returned as
// *core.CancelError; transport and casting failures are returned wrapped.
func (e *Engine) Collect(ctx context.Context, req Request) (any, error) {
	if e.transport == nil {
		return nil, errors.New("prompt engine: no transport configured")
	}
	if req.Message == nil {
		return nil, errors.New("prompt engine: request has no message")
	}

	s := &promptState{req: req, retryCount: 1, lastMsg: req.Message, lastWord: req.Word}
	if req.Word != "" {
		s.retryCount = 2
	}

	start := time.Now()
	defer e.tracker.Deregister(req.Message)

	v, outcome, err := e.loop(ctx, s)
	if err != nil {
		e.logger.LogPromptOutcome(req.ArgumentID, outcome, s.turns, time.Since(start), err)
		return nil, err
	}
	e.logger.LogPromptOutcome(req.ArgumentID, outcome, s.turns, time.Since(start), nil)
	return v, nil
}

func (e *Engine) loop(ctx context.Context, s *promptState) (any, string, error) {
	req := s.req
	settings := req.Settings
	infinite := req.Infinite()

	for {
		s.turns++
		e.tracker.Register(req.Message)
		e.logger.LogPromptTurn(req.ArgumentID, s.retryCount, len(s.values), infinite)

		s.lastSent = nil
		if s.retryCount != 1 || !infinite || len(s.values) == 0 {
			text := settings.Start
			if s.retryCount != 1 {
				text = settings.Retry
			}
			sent, err := e.send(ctx, s, text)
			if err != nil {
				return nil, "error", err
			}
			s.lastSent = sent
		}

		reply, err := e.transport.AwaitReply(ctx, req.Message, e.replyFilter(s), settings.Time)
		if errors.Is(err, core.ErrReplyTimeout) {
			if _, sendErr := e.send(ctx, s, settings.Timeout); sendErr != nil {
				return nil, "error", sendErr
			}
			return nil, "timeout", core.NewCancelError(core.CancelReasonTimeout, req.ArgumentID)
		}
		if err != nil {
			return nil, "error", fmt.Errorf("await reply for %s: %w", req.ArgumentID, err)
		}

		if reply.ContentEquals(settings.CancelWord) {
			s.lastMsg, s.lastWord = reply, reply.Content
			if _, err := e.send(ctx, s, settings.Cancel); err != nil {
				return nil, "error", err
			}
			return nil, "cancelled", core.NewCancelError(core.CancelReasonUser, req.ArgumentID)
		}

		word := strings.TrimSpace(reply.Content)

		if infinite && reply.ContentEquals(settings.StopWord) {
			if len(s.values) > 0 {
				return s.values, "stopped", nil
			}
			// Nothing collected yet: always retry, the budget is not checked here.
			s.lastMsg, s.lastWord = reply, word
			s.retryCount++
			continue
		}

		v, err := e.caster.Cast(ctx, req.Type, word, reply, req.Args)
		if err != nil {
			return nil, "error", fmt.Errorf("cast reply for %s: %w", req.ArgumentID, err)
		}
		if v == nil {
			if s.invalid(reply, word) {
				continue
			}
			return e.exhausted(ctx, s, reply, word)
		}

		if !infinite {
			return v, "value", nil
		}
		s.values = append(s.values, v)
		if settings.Limit > 0 && len(s.values) >= settings.Limit {
			return s.values, "limit", nil
		}
		s.retryCount = 1
		s.lastMsg, s.lastWord = req.Message, word
	}
}

func (e *Engine) exhausted(ctx context.Context, s *promptState, reply *core.Message, word string) (any, string, error) {
	s.lastMsg, s.lastWord = reply, word
	if _, err := e.send(ctx, s, s.req.Settings.Ended); err != nil {
		return nil, "error", err
	}
	return nil, "ended", core.NewCancelError(core.CancelReasonEnded, s.req.ArgumentID)
}

// replyFilter accepts messages from the prompted author in the same channel,
// excluding the message the engine sent this turn. Other bot messages are
// excluded only through their author identity.
func (e *Engine) replyFilter(s *promptState) func(*core.Message) bool {
	origin, sent := s.req.Message, s.lastSent
	return func(m *core.Message) bool {
		if sent != nil && m.ID == sent.ID {
			return false
		}
		return origin.SameAuthor(m)
	}
}

// send resolves text for the current turn and transmits it unless empty.
func (e *Engine) send(ctx context.Context, s *promptState, text Text) (*core.Message, error) {
	if text.IsZero() {
		return nil, nil
	}
	body, err := text.Resolve(ctx, s.req.Message, s.req.Args, s.meta())
	if err != nil {
		return nil, fmt.Errorf("prompt text for %s: %w", s.req.ArgumentID, err)
	}
	if strings.TrimSpace(body) == "" {
		return nil, nil
	}
	sent, err := e.transport.Send(ctx, s.req.Message, body)
	if err != nil {
		return nil, fmt.Errorf("send prompt for %s: %w", s.req.ArgumentID, err)
	}
	return sent, nil
}

type nopTracker struct{}

func (nopTracker) Register(*core.Message)    {}
func (nopTracker) Deregister(*core.Message)  {}
func (nopTracker) Active(*core.Message) bool { return false }
