package prompt

import (
	"context"
	"strings"

	"github.com/hupe1980/argmesh/core"
	"github.com/hupe1980/argmesh/internal/util"
)

// Meta describes the prompt turn a text is generated for.
type Meta struct {
	ArgumentID string        // Argument being prompted for
	Retries    int           // Retry turns already used (0 on the first turn)
	Infinite   bool          // Whether values are being accumulated
	Collected  int           // Values accumulated so far in infinite mode
	Message    *core.Message // Most recent inbound message relevant to this turn
	Word       string        // Best available prior input
	Suggestion string        // Closest enumerated choice to Word, if any
}

// Generator produces prompt text at runtime.
type Generator func(ctx context.Context, msg *core.Message, args core.Args, meta Meta) (string, error)

// LinesGenerator produces prompt text as lines that are joined with newlines.
type LinesGenerator func(ctx context.Context, msg *core.Message, args core.Args, meta Meta) ([]string, error)

// Text is either static text (a literal, a list of lines or a template) or a
// generator. The zero Text is unset.
type Text struct {
	lines []string
	gen   LinesGenerator
	tmpl  bool
	set   bool
}

// Literal creates static text sent as is.
func Literal(s string) Text { return Text{lines: []string{s}, set: true} }

// Lines creates static text from lines joined with newlines.
func Lines(lines ...string) Text { return Text{lines: lines, set: true} }

// Template creates static text rendered as a text/template against Meta, e.g.
// "{{quote .Word}} is not a valid size.".
func Template(s string) Text { return Text{lines: []string{s}, tmpl: true, set: true} }

// FromGenerator creates text produced by fn.
func FromGenerator(fn Generator) Text {
	return Text{set: true, gen: func(ctx context.Context, msg *core.Message, args core.Args, meta Meta) ([]string, error) {
		s, err := fn(ctx, msg, args, meta)
		if err != nil {
			return nil, err
		}
		return []string{s}, nil
	}}
}

// FromLinesGenerator creates text produced by fn, joined with newlines.
func FromLinesGenerator(fn LinesGenerator) Text { return Text{gen: fn, set: true} }

// IsZero reports whether t was never set. Unset text does not override a
// lower precedence default when options are merged.
func (t Text) IsZero() bool { return !t.set }

// IsStatic reports whether t is backed by static lines.
func (t Text) IsStatic() bool { return t.gen == nil }

// Resolve returns the text for a turn. Empty text means nothing is sent.
func (t Text) Resolve(ctx context.Context, msg *core.Message, args core.Args, meta Meta) (string, error) {
	if t.gen != nil {
		lines, err := t.gen(ctx, msg, args, meta)
		if err != nil {
			return "", err
		}
		return strings.Join(lines, "\n"), nil
	}
	text := strings.Join(t.lines, "\n")
	if !t.tmpl {
		return text, nil
	}
	return util.RenderTemplate(text, meta)
}
