package argument

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/argmesh/caster"
	"github.com/hupe1980/argmesh/core"
	"github.com/hupe1980/argmesh/logging"
	"github.com/hupe1980/argmesh/prompt"
)

// MatchMode describes how the command parser extracts the argument's token.
type MatchMode string

const (
	MatchWord     MatchMode = "word"     // next whitespace separated word
	MatchRest     MatchMode = "rest"     // everything left
	MatchSeparate MatchMode = "separate" // everything left, cast word by word
	MatchPrefix   MatchMode = "prefix"   // --name=value
	MatchFlag     MatchMode = "flag"     // presence of --name
	MatchText     MatchMode = "text"     // content without the command prefix
	MatchContent  MatchMode = "content"  // full message content
	MatchNone     MatchMode = "none"     // no token; prompt or default only
)

// MatchFunc chooses the match mode at invocation time.
type MatchFunc func(msg *core.Message, args core.Args) MatchMode

// DefaultFunc computes the value used when no token was cast and no prompt
// collected one.
type DefaultFunc func(ctx context.Context, msg *core.Message, args core.Args) (any, error)

// AllowFunc gates whether the argument is processed at all.
type AllowFunc func(msg *core.Message, args core.Args) bool

// Value wraps a constant as a DefaultFunc.
func Value(v any) DefaultFunc {
	return func(context.Context, *core.Message, core.Args) (any, error) { return v, nil }
}

// Options configures an Argument.
type Options struct {
	Match     MatchMode // Defaults to MatchWord
	MatchFunc MatchFunc // Overrides Match when set
	Type      caster.TypeSpec
	Default   DefaultFunc
	Allow     AllowFunc

	// Prompt enables interactive prompting. Nil disables it entirely.
	Prompt *prompt.Options

	// Defaults are lower precedence option layers (handler, then command)
	// merged beneath Prompt.
	Defaults []*prompt.Options

	// Caster casts tokens. Defaults to caster.New() without named types.
	Caster *caster.Caster

	// Engine collects values interactively. Required when Prompt is set.
	Engine *prompt.Engine

	// Logger defaults to NoOpLogger when nil.
	Logger logging.Logger
}

// Argument is one declared command argument.
type Argument struct {
	id       string
	match    MatchMode
	matchFn  MatchFunc
	typ      caster.TypeSpec
	def      DefaultFunc
	allow    AllowFunc
	prompt   *prompt.Options
	defaults []*prompt.Options
	caster   *caster.Caster
	engine   *prompt.Engine
	logger   logging.Logger
}

// New creates an Argument.
func New(id string, optFns ...func(o *Options)) *Argument {
	opts := Options{Match: MatchWord}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Caster == nil {
		opts.Caster = caster.New(func(o *caster.Options) { o.Logger = opts.Logger })
	}
	return &Argument{
		id:       id,
		match:    opts.Match,
		matchFn:  opts.MatchFunc,
		typ:      opts.Type,
		def:      opts.Default,
		allow:    opts.Allow,
		prompt:   opts.Prompt,
		defaults: opts.Defaults,
		caster:   opts.Caster,
		engine:   opts.Engine,
		logger:   logging.OrNoOp(opts.Logger),
	}
}

// ID returns the key of the argument in the resolved argument map.
func (a *Argument) ID() string { return a.id }

// Type returns the casting spec.
func (a *Argument) Type() caster.TypeSpec { return a.typ }

// Prompts reports whether the argument prompts on missing or invalid input.
func (a *Argument) Prompts() bool { return a.prompt != nil }

// WithDefaults returns a copy of a whose prompt options are layered on top
// of the given defaults (lowest precedence first).
func (a *Argument) WithDefaults(layers ...*prompt.Options) *Argument {
	c := *a
	c.defaults = append([]*prompt.Options(nil), layers...)
	return &c
}

// ResolveMatch returns the match mode for this invocation.
func (a *Argument) ResolveMatch(msg *core.Message, args core.Args) MatchMode {
	if a.matchFn != nil {
		if m := a.matchFn(msg, args); m != "" {
			return m
		}
	}
	if a.match == "" {
		return MatchWord
	}
	return a.match
}

// Allowed reports whether the argument runs for this invocation.
func (a *Argument) Allowed(msg *core.Message, args core.Args) bool {
	return a.allow == nil || a.allow(msg, args)
}

// Settings returns the effective prompt settings, or false when prompting is
// disabled.
func (a *Argument) Settings() (prompt.Settings, bool) {
	if a.prompt == nil {
		return prompt.Settings{}, false
	}
	layers := make([]*prompt.Options, 0, len(a.defaults)+1)
	layers = append(layers, a.defaults...)
	layers = append(layers, a.prompt)
	return prompt.Resolve(layers...), true
}

// DefaultValue evaluates the default. A missing default yields nil.
func (a *Argument) DefaultValue(ctx context.Context, msg *core.Message, args core.Args) (any, error) {
	if a.def == nil {
		return nil, nil
	}
	v, err := a.def(ctx, msg, args)
	if err != nil {
		return nil, fmt.Errorf("default for %s: %w", a.id, err)
	}
	return v, nil
}

// Cast casts token without prompting or defaults.
func (a *Argument) Cast(ctx context.Context, token string, msg *core.Message, args core.Args) (any, error) {
	v, err := a.caster.Cast(ctx, a.typ, token, msg, args)
	if err != nil {
		return nil, fmt.Errorf("cast %s: %w", a.id, err)
	}
	return v, nil
}

// Process resolves the value of the argument from token. A token that is
// empty or fails to cast is replaced by a prompted value when prompting is
// enabled, otherwise by the default. Separate match tokens are cast word by
// word into a []any.
func (a *Argument) Process(ctx context.Context, token string, msg *core.Message, args core.Args) (any, error) {
	token = strings.TrimSpace(token)
	settings, prompts := a.Settings()

	if token == "" && prompts && settings.Optional {
		a.logger.Debug("argument.optional", "argument", a.id)
		return a.DefaultValue(ctx, msg, args)
	}

	separate := a.ResolveMatch(msg, args) == MatchSeparate
	if separate && token != "" {
		return a.processWords(ctx, strings.Fields(token), msg, args, settings, prompts)
	}

	v, err := a.Cast(ctx, token, msg, args)
	if err != nil {
		return nil, err
	}
	if v != nil {
		return v, nil
	}

	if prompts {
		return a.collect(ctx, token, msg, args, settings, separate && token == "")
	}
	a.logger.Debug("argument.default", "argument", a.id, "token", token)
	return a.DefaultValue(ctx, msg, args)
}

// processWords casts each word of a separate match. A failing word is
// replaced by a single prompted value; without prompting the whole argument
// falls back to its default.
func (a *Argument) processWords(ctx context.Context, words []string, msg *core.Message, args core.Args, settings prompt.Settings, prompts bool) (any, error) {
	settings.Infinite = false
	values := make([]any, 0, len(words))
	for _, w := range words {
		v, err := a.Cast(ctx, w, msg, args)
		if err != nil {
			return nil, err
		}
		if v == nil {
			if !prompts {
				a.logger.Debug("argument.default", "argument", a.id, "token", w)
				return a.DefaultValue(ctx, msg, args)
			}
			if v, err = a.collect(ctx, w, msg, args, settings, false); err != nil {
				return nil, err
			}
		}
		values = append(values, v)
	}
	return values, nil
}

func (a *Argument) collect(ctx context.Context, word string, msg *core.Message, args core.Args, settings prompt.Settings, forceInfinite bool) (any, error) {
	if a.engine == nil {
		return nil, fmt.Errorf("argument %s: prompting requires an engine", a.id)
	}
	a.logger.Debug("argument.prompt", "argument", a.id, "word", word, "infinite", settings.Infinite || forceInfinite)
	return a.engine.Collect(ctx, prompt.Request{
		ArgumentID:    a.id,
		Type:          a.typ,
		Settings:      settings,
		Message:       msg,
		Args:          args,
		Word:          word,
		ForceInfinite: forceInfinite,
	})
}
