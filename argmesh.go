// Package argmesh provides a high-level façade over the argument resolution
// engine: named types, casting, interactive prompting and command dispatch.
// Most applications interact with this package by:
//  1. Creating a Mesh via New() with a transport (optionally overriding the
//     default type registry, tracker and logger)
//  2. Declaring commands with NewCommand and Argument
//  3. Resolving commands synchronously (Resolve, Dispatch) or asynchronously
//     through Engine()
//
// A cancellation raised while prompting is returned as *core.CancelError;
// test for it with core.IsCancelled.
package argmesh

import (
	"context"

	"github.com/hupe1980/argmesh/argument"
	"github.com/hupe1980/argmesh/caster"
	"github.com/hupe1980/argmesh/command"
	"github.com/hupe1980/argmesh/core"
	"github.com/hupe1980/argmesh/engine"
	"github.com/hupe1980/argmesh/logging"
	"github.com/hupe1980/argmesh/prompt"
	"github.com/hupe1980/argmesh/session"
	"github.com/hupe1980/argmesh/types"
)

// Options configures the Mesh instance.
type Options struct {
	// Types resolves named types. Defaults to a registry with the built-ins.
	Types *types.Registry

	// Tracker records outstanding prompts. Defaults to an in-memory tracker.
	Tracker core.PromptTracker

	// Transport sends prompts and awaits replies. Required for prompting.
	Transport core.Transport

	// Defaults are the handler-wide prompt options, the lowest precedence
	// layer above the built-in defaults.
	Defaults *prompt.Options

	// EngineConfig tunes command dispatch.
	EngineConfig engine.Config

	// Callbacks hook into the invocation lifecycle. Optional.
	Callbacks *engine.CallbackManager

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// CommandOptions configures a command created by Mesh.NewCommand.
type CommandOptions struct {
	// Aliases are extra words that invoke the command.
	Aliases []string

	// Defaults are command-wide prompt options.
	Defaults *prompt.Options

	// Arguments in declaration order, usually built with Mesh.Argument.
	Arguments []*argument.Argument
}

// Mesh is the high-level façade aggregating casting, prompting and dispatch.
type Mesh struct {
	opts    Options
	caster  *caster.Caster
	prompts *prompt.Engine
	engine  *engine.Engine
}

// New creates a new Mesh instance with optional overrides.
func New(optFns ...func(o *Options)) *Mesh {
	opts := Options{
		Types:        types.NewRegistry(),
		Tracker:      session.NewInMemoryTracker(),
		EngineConfig: engine.DefaultConfig,
		Logger:       logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}
	opts.Logger = logging.OrNoOp(opts.Logger)

	c := caster.New(func(o *caster.Options) {
		o.Resolver = opts.Types
		o.Logger = opts.Logger
	})

	p := prompt.NewEngine(func(o *prompt.EngineOptions) {
		o.Transport = opts.Transport
		o.Tracker = opts.Tracker
		o.Caster = c
		o.Logger = opts.Logger
	})

	e := engine.New(func(o *engine.Options) {
		o.Config = opts.EngineConfig
		o.Tracker = opts.Tracker
		o.Callbacks = opts.Callbacks
		o.Logger = opts.Logger
	})

	return &Mesh{opts: opts, caster: c, prompts: p, engine: e}
}

// Types returns the named type registry.
func (m *Mesh) Types() *types.Registry { return m.opts.Types }

// Caster returns the caster bound to the type registry.
func (m *Mesh) Caster() *caster.Caster { return m.caster }

// Engine returns the underlying dispatcher.
func (m *Mesh) Engine() *engine.Engine { return m.engine }

// Argument declares an argument bound to this mesh's caster and prompt
// engine. Handler defaults are applied; command defaults are layered in when
// the argument is passed to NewCommand.
func (m *Mesh) Argument(id string, optFns ...func(o *argument.Options)) *argument.Argument {
	bind := func(o *argument.Options) {
		o.Caster = m.caster
		o.Engine = m.prompts
		o.Logger = m.opts.Logger
		o.Defaults = []*prompt.Options{m.opts.Defaults}
	}
	return argument.New(id, append([]func(o *argument.Options){bind}, optFns...)...)
}

// NewCommand declares a command and registers it for dispatch. Every
// argument's prompt options are layered handler defaults, then command
// defaults, then its own.
func (m *Mesh) NewCommand(id string, optFns ...func(o *CommandOptions)) *command.Command {
	opts := CommandOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}

	args := make([]*argument.Argument, 0, len(opts.Arguments))
	for _, a := range opts.Arguments {
		args = append(args, a.WithDefaults(m.opts.Defaults, opts.Defaults))
	}

	cmd := command.New(id, func(o *command.Options) {
		o.Aliases = opts.Aliases
		o.Defaults = opts.Defaults
		o.Arguments = args
		o.Logger = m.opts.Logger
	})
	m.engine.Register(cmd)
	return cmd
}

// Resolve resolves a registered command against tokens keyed by argument ID
// and waits for the result. It returns core.ErrPromptActive when the
// message's channel/author pair already has an outstanding prompt.
func (m *Mesh) Resolve(ctx context.Context, commandID string, msg *core.Message, tokens map[string]string) (core.Args, error) {
	if tokens == nil {
		tokens = map[string]string{}
	}
	_, args, err := m.engine.InvokeSync(ctx, commandID, msg, tokens)
	return args, err
}

// Dispatch parses the message content ("!order large 2"), resolves the
// invoked command and waits for the result. It returns the ID of the
// command that ran.
func (m *Mesh) Dispatch(ctx context.Context, msg *core.Message) (string, core.Args, error) {
	_, resultCh, err := m.engine.Dispatch(ctx, msg)
	if err != nil {
		return "", nil, err
	}
	select {
	case <-ctx.Done():
		return "", nil, ctx.Err()
	case res := <-resultCh:
		return res.CommandID, res.Args, res.Err
	}
}

// Active reports whether msg's channel/author pair has an outstanding prompt.
func (m *Mesh) Active(msg *core.Message) bool { return m.opts.Tracker.Active(msg) }
