// Package argument implements the per-argument resolution step of a command
// invocation: cast the raw token, and when it is missing or invalid either
// fall back to a default or prompt the user through a prompt.Engine.
//
//	size := argument.New("size", func(o *argument.Options) {
//		o.Type = caster.Strings("small", "medium", "large")
//		o.Prompt = &prompt.Options{Start: prompt.Literal("Which size?")}
//	})
//	v, err := size.Process(ctx, token, msg, args)
//
// Cancellation raised while prompting is returned as *core.CancelError and
// must abort the whole command.
package argument
