package command

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hupe1980/argmesh/argument"
	"github.com/hupe1980/argmesh/core"
	"github.com/hupe1980/argmesh/logging"
	"github.com/hupe1980/argmesh/prompt"
)

// Options configures a Command.
type Options struct {
	// Aliases are the words that invoke the command, e.g. "order" for "!order".
	// The command ID is always an alias.
	Aliases []string

	// Defaults are command-wide prompt options layered between the handler
	// defaults and each argument's own options.
	Defaults *prompt.Options

	// Arguments in declaration order.
	Arguments []*argument.Argument

	// Logger defaults to NoOpLogger when nil.
	Logger logging.Logger
}

// Command is an ordered set of arguments.
type Command struct {
	id        string
	aliases   []string
	defaults  *prompt.Options
	arguments []*argument.Argument
	logger    logging.Logger
}

// New creates a Command.
func New(id string, optFns ...func(o *Options)) *Command {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}
	aliases := []string{id}
	for _, a := range opts.Aliases {
		if a != "" && !strings.EqualFold(a, id) {
			aliases = append(aliases, a)
		}
	}
	return &Command{
		id:        id,
		aliases:   aliases,
		defaults:  opts.Defaults,
		arguments: opts.Arguments,
		logger:    logging.OrNoOp(opts.Logger),
	}
}

// ID returns the command identifier.
func (c *Command) ID() string { return c.id }

// Aliases returns the words that invoke the command.
func (c *Command) Aliases() []string { return append([]string(nil), c.aliases...) }

// Defaults returns the command-wide prompt options.
func (c *Command) Defaults() *prompt.Options { return c.defaults }

// Arguments returns the declared arguments in order.
func (c *Command) Arguments() []*argument.Argument {
	return append([]*argument.Argument(nil), c.arguments...)
}

// Add appends arguments.
func (c *Command) Add(args ...*argument.Argument) { c.arguments = append(c.arguments, args...) }

// Matches reports whether word invokes the command.
func (c *Command) Matches(word string) bool {
	for _, a := range c.aliases {
		if strings.EqualFold(a, word) {
			return true
		}
	}
	return false
}

// Resolve processes every argument against explicitly supplied tokens keyed
// by argument ID. Missing tokens are empty.
func (c *Command) Resolve(ctx context.Context, msg *core.Message, tokens map[string]string) (core.Args, error) {
	return c.resolve(ctx, msg, mapSource(tokens))
}

// Parse processes every argument against tokens extracted from the message
// content according to each argument's match mode. The first word of the
// content is taken to be the command invocation.
func (c *Command) Parse(ctx context.Context, msg *core.Message) (core.Args, error) {
	return c.resolve(ctx, msg, newContentSource(msg.Content))
}

func (c *Command) resolve(ctx context.Context, msg *core.Message, src tokenSource) (core.Args, error) {
	if msg == nil {
		return nil, fmt.Errorf("command %s: no message", c.id)
	}
	start := time.Now()
	args := core.Args{}

	for _, a := range c.arguments {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !a.Allowed(msg, args) {
			c.logger.Debug("command.argument.skipped", "command", c.id, "argument", a.ID())
			continue
		}

		mode := a.ResolveMatch(msg, args)
		token := src.token(a.ID(), mode)

		if mode == argument.MatchFlag {
			args[a.ID()] = token != ""
			continue
		}

		v, err := a.Process(ctx, token, msg, args)
		if err != nil {
			if core.IsCancelled(err) {
				c.logger.Info("command.cancelled", "command", c.id, "argument", a.ID(), "reason", string(core.CancelReasonOf(err)))
				return nil, err
			}
			c.logger.Error("command.failed", "command", c.id, "argument", a.ID(), "error", err.Error())
			return nil, fmt.Errorf("command %s: %w", c.id, err)
		}
		args[a.ID()] = v
	}

	c.logger.Debug("command.resolved", "command", c.id, "arguments", len(args), "duration", time.Since(start))
	return args, nil
}
