// Package prompt implements the interactive retry loop used when an argument
// token is missing or fails to cast.
//
// An Engine sends start and retry text through a core.Transport, collects
// replies from the prompted author, casts them with a caster.Caster and
// either returns a value, accumulates a sequence (infinite mode) or raises a
// *core.CancelError on cancel word, reply timeout or retry exhaustion.
//
// Options are layered handler, command and argument with later layers
// overriding earlier ones field by field:
//
//	settings := prompt.Resolve(handlerDefaults, commandDefaults, argumentOptions)
//
// Prompt text is a Text value: a literal, a list of lines, a template or a
// generator. Literals and lines are sent verbatim; templates reference the
// current turn through text/template markers:
//
//	prompt.Template("{{quote .Word}} is not a valid size. Did you mean {{.Suggestion}}?")
package prompt
