package command

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/argmesh/argument"
	"github.com/hupe1980/argmesh/caster"
	"github.com/hupe1980/argmesh/core"
	"github.com/hupe1980/argmesh/internal/testutil"
	"github.com/hupe1980/argmesh/prompt"
)

var integer = caster.Func(func(_ context.Context, token string, _ *core.Message, _ core.Args) (any, error) {
	n, err := strconv.Atoi(token)
	if err != nil {
		return nil, nil
	}
	return n, nil
})

func order(engine *prompt.Engine, calls *[]string) *Command {
	track := func(id string) argument.AllowFunc {
		return func(*core.Message, core.Args) bool {
			if calls != nil {
				*calls = append(*calls, id)
			}
			return true
		}
	}
	return New("order", func(o *Options) {
		o.Aliases = []string{"buy"}
		o.Arguments = []*argument.Argument{
			argument.New("size", func(o *argument.Options) {
				o.Type = caster.Strings("small", "medium", "large")
				o.Default = argument.Value("medium")
				o.Allow = track("size")
				o.Engine = engine
			}),
			argument.New("quantity", func(o *argument.Options) {
				o.Type = integer
				o.Default = argument.Value(1)
				o.Allow = track("quantity")
				o.Engine = engine
				o.Prompt = &prompt.Options{Optional: prompt.Bool(true)}
			}),
			argument.New("toppings", func(o *argument.Options) {
				o.Match = argument.MatchSeparate
				o.Type = caster.Strings("cheese", "ham", "olives")
				o.Default = argument.Value([]any{})
				o.Allow = track("toppings")
				o.Engine = engine
			}),
			argument.New("delivery", func(o *argument.Options) {
				o.Match = argument.MatchFlag
				o.Allow = track("delivery")
			}),
			argument.New("note", func(o *argument.Options) {
				o.Match = argument.MatchPrefix
				o.Type = caster.Named("anything")
				o.Allow = track("note")
			}),
		}
	})
}

func TestCommand_AliasesAndAccessors(t *testing.T) {
	c := order(nil, nil)
	assert.Equal(t, "order", c.ID())
	assert.Equal(t, []string{"order", "buy"}, c.Aliases())
	assert.True(t, c.Matches("BUY"))
	assert.False(t, c.Matches("sell"))
	assert.Len(t, c.Arguments(), 5)
	assert.Nil(t, c.Defaults())
}

func TestCommand_ResolveInDeclarationOrder(t *testing.T) {
	var calls []string
	c := order(nil, &calls)
	msg := testutil.NewMessageBuilder().Content("!order").Build()

	args, err := c.Resolve(context.Background(), msg, map[string]string{
		"size":     "LARGE",
		"quantity": "3",
		"toppings": "ham olives",
		"delivery": "yes",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"size", "quantity", "toppings", "delivery", "note"}, calls)
	assert.Equal(t, core.Args{
		"size":     "large",
		"quantity": 3,
		"toppings": []any{"ham", "olives"},
		"delivery": true,
		"note":     nil,
	}, args)
}

func TestCommand_Parse(t *testing.T) {
	c := order(nil, nil)
	msg := testutil.NewMessageBuilder().Content("!order small 2 cheese ham --delivery --note=ring_twice").Build()

	args, err := c.Parse(context.Background(), msg)
	require.NoError(t, err)
	assert.Equal(t, "small", args["size"])
	assert.Equal(t, 2, args["quantity"])
	assert.Equal(t, []any{"cheese", "ham"}, args["toppings"])
	assert.Equal(t, true, args["delivery"])
	assert.Equal(t, "ring_twice", args["note"])
}

func TestCommand_ParseDefaults(t *testing.T) {
	c := order(nil, nil)
	args, err := c.Parse(context.Background(), testutil.NewMessageBuilder().Content("!order").Build())
	require.NoError(t, err)
	assert.Equal(t, "medium", args["size"])
	assert.Equal(t, 1, args["quantity"])
	assert.Equal(t, []any{}, args["toppings"])
	assert.Equal(t, false, args["delivery"])
}

func TestCommand_SkipsDisallowed(t *testing.T) {
	c := New("admin", func(o *Options) {
		o.Arguments = []*argument.Argument{
			argument.New("force", func(o *argument.Options) {
				o.Type = caster.Named("anything")
				o.Allow = func(msg *core.Message, _ core.Args) bool { return msg.AuthorID == "root" }
			}),
		}
	})
	args, err := c.Resolve(context.Background(), testutil.NewMessageBuilder().Author("alice").Build(), map[string]string{"force": "yes"})
	require.NoError(t, err)
	_, ok := args.Get("force")
	assert.False(t, ok)
}

func TestCommand_LaterArgumentsSeeEarlierValues(t *testing.T) {
	c := New("pay", func(o *Options) {
		o.Arguments = []*argument.Argument{
			argument.New("method", func(o *argument.Options) {
				o.Type = caster.Strings("card", "cash")
			}),
			argument.New("card", func(o *argument.Options) {
				o.Type = caster.Named("anything")
				o.Allow = func(_ *core.Message, args core.Args) bool { return args["method"] == "card" }
			}),
		}
	})
	msg := testutil.NewMessageBuilder().Build()

	args, err := c.Resolve(context.Background(), msg, map[string]string{"method": "cash", "card": "1234"})
	require.NoError(t, err)
	assert.NotContains(t, args, "card")

	args, err = c.Resolve(context.Background(), msg, map[string]string{"method": "card", "card": "1234"})
	require.NoError(t, err)
	assert.Equal(t, "1234", args["card"])
}

func TestCommand_CancellationAbortsRemainingArguments(t *testing.T) {
	tr := testutil.NewScriptedTransport(testutil.Reply("cancel"))
	engine := prompt.NewEngine(func(o *prompt.EngineOptions) { o.Transport = tr })

	var calls []string
	c := New("order", func(o *Options) {
		o.Arguments = []*argument.Argument{
			argument.New("size", func(o *argument.Options) {
				o.Type = caster.Strings("small", "large")
				o.Engine = engine
				o.Prompt = &prompt.Options{}
			}),
			argument.New("quantity", func(o *argument.Options) {
				o.Type = integer
				o.Allow = func(*core.Message, core.Args) bool {
					calls = append(calls, "quantity")
					return true
				}
			}),
		}
	})

	args, err := c.Resolve(context.Background(), testutil.NewMessageBuilder().Build(), map[string]string{"size": "huge"})
	assert.Nil(t, args)
	require.Error(t, err)
	assert.Equal(t, core.CancelReasonUser, core.CancelReasonOf(err))
	assert.Empty(t, calls)
}

func TestCommand_UnexpectedErrorIsWrapped(t *testing.T) {
	boom := errors.New("boom")
	c := New("x", func(o *Options) {
		o.Arguments = []*argument.Argument{
			argument.New("a", func(o *argument.Options) {
				o.Type = caster.Func(func(context.Context, string, *core.Message, core.Args) (any, error) { return nil, boom })
			}),
		}
	})
	_, err := c.Resolve(context.Background(), testutil.NewMessageBuilder().Build(), nil)
	require.ErrorIs(t, err, boom)
	assert.False(t, core.IsCancelled(err))
}

func TestContentSource(t *testing.T) {
	s := newContentSource("!cmd  one two --flag --key=Value three")
	assert.Equal(t, "one two --flag --key=Value three", s.token("x", argument.MatchText))
	assert.Equal(t, "!cmd  one two --flag --key=Value three", s.token("x", argument.MatchContent))
	assert.Equal(t, "Value", s.token("KEY", argument.MatchPrefix))
	assert.Equal(t, "true", s.token("flag", argument.MatchFlag))
	assert.Equal(t, "", s.token("other", argument.MatchFlag))
	assert.Equal(t, "one", s.token("x", argument.MatchWord))
	assert.Equal(t, "two three", s.token("x", argument.MatchRest))
	assert.Equal(t, "", s.token("x", argument.MatchWord))
	assert.Equal(t, "", s.token("x", argument.MatchNone))
}
