package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hupe1980/argmesh"
	"github.com/hupe1980/argmesh/argument"
	"github.com/hupe1980/argmesh/caster"
	"github.com/hupe1980/argmesh/core"
	"github.com/hupe1980/argmesh/engine"
	"github.com/hupe1980/argmesh/model"
	"github.com/hupe1980/argmesh/model/anthropic"
	"github.com/hupe1980/argmesh/model/openai"
	"github.com/hupe1980/argmesh/prompt"
	"github.com/hupe1980/argmesh/transport/console"
	"github.com/hupe1980/argmesh/types"
)

func newDemoCommand(a *app) *cobra.Command {
	var provider string

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Order a pizza interactively",
		Long: `Runs an interactive pizza order on the terminal.

Type "!order large 2 --delivery" or just "!order" and answer the prompts.
Reply "cancel" to abort an order. With --model, delivery cities are
normalised by a language model (ANTHROPIC_API_KEY or OPENAI_API_KEY).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := newModel(provider)
			if err != nil {
				return err
			}
			return runDemo(cmd.Context(), a, m, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&provider, "model", "", "language model for the city type: anthropic or openai")
	return cmd
}

func newModel(provider string) (model.Model, error) {
	switch strings.ToLower(provider) {
	case "":
		return nil, nil
	case "anthropic":
		return anthropic.NewModel(), nil
	case "openai":
		return openai.NewModel(), nil
	default:
		return nil, fmt.Errorf("unknown model provider %q", provider)
	}
}

var demoTexts = &prompt.Options{
	Retry:   prompt.Template("{{quote .Word}} doesn't work here.{{if .Suggestion}} Did you mean {{.Suggestion}}?{{end}}"),
	Timeout: prompt.Literal("No answer, order cancelled."),
	Ended:   prompt.Literal("Too many attempts, order cancelled."),
	Cancel:  prompt.Literal("Order cancelled."),
}

var errPickupLimit = errors.New("orders of more than 5 pizzas must be delivered")

func validateOrder(args core.Args) error {
	if n, ok := args["quantity"].(int); ok && n > 5 && args["delivery"] != true {
		return errPickupLimit
	}
	return nil
}

func newPizzaMesh(a *app, tr core.Transport, m model.Model) (*argmesh.Mesh, error) {
	callbacks := engine.NewCallbackManager()
	callbacks.RegisterCallback(engine.NewLoggingCallback(engine.CallbackOnCancel, a.logger))
	callbacks.RegisterCallback(engine.NewLoggingCallback(engine.CallbackOnError, a.logger))
	callbacks.RegisterCallback(engine.NewArgsValidationCallback(validateOrder))

	mesh := argmesh.New(func(o *argmesh.Options) {
		o.Transport = tr
		o.Defaults = prompt.Merge(demoTexts, a.cfg.Prompt.Options())
		o.EngineConfig = a.cfg.Engine.EngineConfig()
		o.Callbacks = callbacks
		o.Logger = a.logger
	})

	city := core.CastFunc(func(_ context.Context, token string, _ *core.Message, _ core.Args) (any, error) {
		if token == "" {
			return nil, nil
		}
		return token, nil
	})
	if m != nil {
		city = types.ModelType(m, "Convert the input into the English name of a city.")
	}
	if err := mesh.Types().Register("city", city); err != nil {
		return nil, err
	}

	mesh.NewCommand("order", func(o *argmesh.CommandOptions) {
		o.Aliases = []string{"pizza"}
		o.Arguments = []*argument.Argument{
			mesh.Argument("size", func(o *argument.Options) {
				o.Type = caster.Choices(
					caster.Choice("small", "s"),
					caster.Choice("medium", "m", "regular"),
					caster.Choice("large", "l", "big"),
				)
				o.Prompt = &prompt.Options{Start: prompt.Literal("What size? (small, medium, large)")}
			}),
			mesh.Argument("quantity", func(o *argument.Options) {
				o.Type = caster.Range(caster.Named(types.Integer), 1, 10, true)
				o.Default = argument.Value(1)
				o.Prompt = &prompt.Options{
					Optional: prompt.Bool(true),
					Retry:    prompt.Literal("We bake between 1 and 10 pizzas per order. How many?"),
				}
			}),
			mesh.Argument("delivery", func(o *argument.Options) {
				o.Match = argument.MatchFlag
			}),
			mesh.Argument("city", func(o *argument.Options) {
				o.Match = argument.MatchPrefix
				o.Type = caster.Named("city")
				o.Allow = func(_ *core.Message, args core.Args) bool { return args["delivery"] == true }
				o.Prompt = &prompt.Options{Start: prompt.Literal("Which city should we deliver to?")}
			}),
			mesh.Argument("toppings", func(o *argument.Options) {
				o.Match = argument.MatchSeparate
				o.Type = caster.Strings("cheese", "ham", "mushrooms", "olives", "peppers", "salami")
				o.Default = argument.Value([]any{})
				o.Prompt = &prompt.Options{
					Limit: prompt.Int(5),
					Start: prompt.Lines(
						"Toppings? One per message (cheese, ham, mushrooms, olives, peppers, salami).",
						"Type stop when you are done.",
					),
				}
			}),
		}
	})
	return mesh, nil
}

func runDemo(ctx context.Context, a *app, m model.Model, in io.Reader, out io.Writer) error {
	tr := console.New(func(o *console.Options) {
		o.In = in
		o.Out = out
	})
	mesh, err := newPizzaMesh(a, tr, m)
	if err != nil {
		return err
	}

	if err := tr.Notice(`Type "!order" to order a pizza, e.g. "!order large 2 --delivery". Ctrl-D quits.`); err != nil {
		return err
	}

	for {
		msg, err := tr.ReadMessage(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if strings.TrimSpace(msg.Content) == "" {
			continue
		}

		id, args, err := mesh.Dispatch(ctx, msg)
		switch {
		case errors.Is(err, engine.ErrUnknownCommand):
			err = tr.Notice("Unknown command. Try !order.")
		case errors.Is(err, errPickupLimit):
			err = tr.Notice("Sorry, " + errPickupLimit.Error() + ".")
		case core.IsCancelled(err):
			a.logger.Info("demo.order.cancelled", "reason", string(core.CancelReasonOf(err)))
			continue
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return err
		default:
			err = tr.Notice(summarize(id, args))
		}
		if err != nil {
			return err
		}
	}
}

func summarize(id string, args core.Args) string {
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(id)
	sb.WriteString(":")
	for _, k := range keys {
		fmt.Fprintf(&sb, " %s=%v", k, args[k])
	}
	return sb.String()
}
