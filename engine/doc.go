// Package engine dispatches messages to registered commands and resolves
// their arguments, one goroutine per invocation.
//
// Architecture:
//
//	Message ──► Engine.Dispatch ──► Command.Parse ──► Argument.Process ──► prompt.Engine
//	                  │                                                        │
//	                  └──────────── PromptTracker (shared) ◄───────────────────┘
//
// The engine refuses an invocation with core.ErrPromptActive while the same
// channel/author pair has an outstanding prompt, so replies to a prompt are
// never mistaken for new commands. Concurrency is bounded by
// Config.MaxConcurrentInvocations; running invocations can be cancelled with
// StopInvocation.
//
// Usage:
//
//	e := engine.New(func(o *engine.Options) { o.Tracker = tracker })
//	e.Register(order)
//
//	id, results, err := e.Dispatch(ctx, msg)
//	if err != nil {
//	    return err
//	}
//	res := <-results
//	if core.IsCancelled(res.Err) {
//	    // the user cancelled, timed out or ran out of retries
//	}
//
// Lifecycle hooks are registered on a CallbackManager (BeforeCommand,
// AfterCommand, OnCancel, OnError).
package engine
