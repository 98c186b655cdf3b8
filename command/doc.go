// Package command groups ordered arguments into a command and resolves them
// for one invocation.
//
// Arguments are processed strictly in declaration order so later arguments
// (their match functions, defaults, allow gates and prompt generators) can
// see the values resolved before them. The first error stops resolution;
// a *core.CancelError aborts the whole command.
package command
