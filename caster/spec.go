package caster

import (
	"regexp"
	"strings"

	"github.com/hupe1980/argmesh/core"
)

// Kind enumerates the variants of a TypeSpec.
type Kind int

const (
	// KindNone is the zero TypeSpec; it casts like an unknown named type.
	KindNone Kind = iota
	// KindNamed looks the type up in the TypeResolver.
	KindNamed
	// KindChoices matches the token against enumerated aliases.
	KindChoices
	// KindPattern applies a regular expression.
	KindPattern
	// KindFunc invokes a casting function.
	KindFunc
	// KindUnion tries several specs in order.
	KindUnion
	// KindValidate casts with an inner spec and filters the result.
	KindValidate
	// KindCompose pipes the result of each spec into the next.
	KindCompose
)

// Alias is one enumerated choice. The first element is the canonical value,
// every element (including the first) is accepted as input.
type Alias []string

// Choice builds an Alias from its canonical value and extra spellings.
func Choice(canonical string, aliases ...string) Alias {
	return append(Alias{canonical}, aliases...)
}

// Canonical returns the value produced when the alias matches.
func (a Alias) Canonical() string {
	if len(a) == 0 {
		return ""
	}
	return a[0]
}

// Matches reports whether token equals any spelling, ignoring case.
func (a Alias) Matches(token string) bool {
	for _, s := range a {
		if strings.EqualFold(s, token) {
			return true
		}
	}
	return false
}

// Predicate filters a cast result for Validate.
type Predicate func(value any, token string, msg *core.Message, args core.Args) bool

// TypeSpec describes how a token is converted into a value. It is a closed
// tagged union; build values with Named, Choices, Pattern, GlobalPattern,
// Func, Union, Validate, Range or Compose.
type TypeSpec struct {
	kind     Kind
	name     string
	choices  []Alias
	pattern  *regexp.Regexp
	global   bool
	fn       core.CastFunc
	children []TypeSpec
	pred     Predicate
}

// Named refers to a built-in or registered type by name.
func Named(name string) TypeSpec { return TypeSpec{kind: KindNamed, name: name} }

// Choices enumerates the accepted values. Plain strings can be passed as
// single-element aliases via Strings.
func Choices(aliases ...Alias) TypeSpec { return TypeSpec{kind: KindChoices, choices: aliases} }

// Strings is a shorthand for Choices where every choice has a single spelling.
func Strings(values ...string) TypeSpec {
	aliases := make([]Alias, len(values))
	for i, v := range values {
		aliases[i] = Alias{v}
	}
	return Choices(aliases...)
}

// Pattern matches the token against re and yields the first match only.
func Pattern(re *regexp.Regexp) TypeSpec { return TypeSpec{kind: KindPattern, pattern: re} }

// GlobalPattern matches the token against re and also collects every
// non-overlapping match.
func GlobalPattern(re *regexp.Regexp) TypeSpec {
	return TypeSpec{kind: KindPattern, pattern: re, global: true}
}

// Func wraps a casting function.
func Func(fn core.CastFunc) TypeSpec { return TypeSpec{kind: KindFunc, fn: fn} }

// Union yields the result of the first spec that casts successfully.
func Union(specs ...TypeSpec) TypeSpec { return TypeSpec{kind: KindUnion, children: specs} }

// Validate casts with spec and keeps the result only if pred accepts it.
func Validate(spec TypeSpec, pred Predicate) TypeSpec {
	return TypeSpec{kind: KindValidate, children: []TypeSpec{spec}, pred: pred}
}

// Compose casts with the first spec, then feeds the string form of each
// result into the next spec. Any failure fails the whole chain.
func Compose(specs ...TypeSpec) TypeSpec { return TypeSpec{kind: KindCompose, children: specs} }

// Kind returns the variant of t.
func (t TypeSpec) Kind() Kind { return t.kind }

// Name returns the type name of a named spec.
func (t TypeSpec) Name() string { return t.name }

// IsZero reports whether t was never set.
func (t TypeSpec) IsZero() bool { return t.kind == KindNone }

// Global reports whether a pattern spec collects every match.
func (t TypeSpec) Global() bool { return t.global }

// Aliases returns the enumerated choices of a choices spec.
func (t TypeSpec) Aliases() []Alias { return t.choices }

// String returns a short description used in logs.
func (t TypeSpec) String() string {
	switch t.kind {
	case KindNamed:
		return t.name
	case KindChoices:
		return "choices"
	case KindPattern:
		expr := "<nil>"
		if t.pattern != nil {
			expr = t.pattern.String()
		}
		if t.global {
			return "pattern(global):" + expr
		}
		return "pattern:" + expr
	case KindFunc:
		return "func"
	case KindUnion:
		return "union"
	case KindValidate:
		return "validate"
	case KindCompose:
		return "compose"
	default:
		return "none"
	}
}

// PatternMatch is the cast result of a pattern type. Match holds the first
// match with its submatches; Matches holds every match for global patterns
// and is empty otherwise.
type PatternMatch struct {
	Match   []string   `json:"match"`
	Matches [][]string `json:"matches"`
}
