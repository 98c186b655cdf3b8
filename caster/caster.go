// Package caster implements the type casting pipeline that converts one
// input token into a typed value according to a TypeSpec.
//
// Cast failure is never an error: a nil value means the token could not be
// cast. Errors are reserved for unexpected failures raised by user supplied
// casting functions or named type resolvers, which are propagated unchanged.
package caster

import (
	"context"
	"fmt"
	"math"
	"math/big"
	"time"
	"unicode/utf8"

	"github.com/hupe1980/argmesh/core"
	"github.com/hupe1980/argmesh/logging"
)

// Options configures a Caster.
type Options struct {
	// Resolver maps named types to casting functions. Nil disables named
	// lookup; unknown names then fall back to the raw token.
	Resolver core.TypeResolver

	// Logger defaults to NoOpLogger when nil.
	Logger logging.Logger
}

// Caster converts tokens into typed values. It holds no mutable state after
// construction and is safe for concurrent use.
type Caster struct {
	resolver core.TypeResolver
	logger   logging.EventLogger
}

// New creates a Caster.
func New(optFns ...func(o *Options)) *Caster {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Caster{resolver: opts.Resolver, logger: logging.Events(opts.Logger)}
}

// Cast converts token according to spec. Resolution order: choices, function,
// pattern, named lookup, then the raw token if it is non-empty.
func (c *Caster) Cast(ctx context.Context, spec TypeSpec, token string, msg *core.Message, args core.Args) (any, error) {
	start := time.Now()
	v, err := c.cast(ctx, spec, token, msg, args)
	if err != nil {
		c.logger.LogCast(spec.String(), time.Since(start), false, err)
		return nil, err
	}
	c.logger.LogCast(spec.String(), time.Since(start), v != nil, nil)
	return v, nil
}

func (c *Caster) cast(ctx context.Context, spec TypeSpec, token string, msg *core.Message, args core.Args) (any, error) {
	switch spec.kind {
	case KindChoices:
		for _, alias := range spec.choices {
			if alias.Matches(token) {
				return alias.Canonical(), nil
			}
		}
		return nil, nil

	case KindFunc:
		return callCast(ctx, spec.fn, token, msg, args)

	case KindPattern:
		return matchPattern(spec, token), nil

	case KindUnion:
		for _, child := range spec.children {
			v, err := c.cast(ctx, child, token, msg, args)
			if err != nil || v != nil {
				return v, err
			}
		}
		return nil, nil

	case KindValidate:
		v, err := c.cast(ctx, spec.children[0], token, msg, args)
		if err != nil || v == nil {
			return nil, err
		}
		if spec.pred != nil && !spec.pred(v, token, msg, args) {
			return nil, nil
		}
		return v, nil

	case KindCompose:
		var v any = token
		for _, child := range spec.children {
			var err error
			v, err = c.cast(ctx, child, stringify(v), msg, args)
			if err != nil || v == nil {
				return nil, err
			}
		}
		return v, nil
	}

	if spec.kind == KindNamed && c.resolver != nil {
		if fn, ok := c.resolver.Lookup(spec.name); ok {
			return callCast(ctx, fn, token, msg, args)
		}
	}
	if token != "" {
		return token, nil
	}
	return nil, nil
}

func callCast(ctx context.Context, fn core.CastFunc, token string, msg *core.Message, args core.Args) (any, error) {
	if fn == nil {
		return nil, nil
	}
	v, err := fn(ctx, token, msg, args)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func matchPattern(spec TypeSpec, token string) any {
	if spec.pattern == nil {
		return nil
	}
	first := spec.pattern.FindStringSubmatch(token)
	if first == nil {
		return nil
	}
	res := &PatternMatch{Match: first, Matches: [][]string{}}
	if spec.global {
		res.Matches = spec.pattern.FindAllStringSubmatch(token, -1)
	}
	return res
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case *PatternMatch:
		if len(t.Match) > 0 {
			return t.Match[0]
		}
		return ""
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(v)
	}
}

// Range validates that the result of spec lies within [min, max] (or
// [min, max) when inclusive is false). Numbers are compared by value, strings
// by rune count and slices by length.
func Range(spec TypeSpec, min, max float64, inclusive bool) TypeSpec {
	return Validate(spec, func(v any, _ string, _ *core.Message, _ core.Args) bool {
		n, ok := measure(v)
		if !ok {
			return false
		}
		if inclusive {
			return n >= min && n <= max
		}
		return n >= min && n < max
	})
}

func measure(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case float64:
		return t, true
	case *big.Int:
		f, _ := new(big.Float).SetInt(t).Float64()
		return f, !math.IsInf(f, 0)
	case time.Duration:
		return float64(t), true
	case string:
		return float64(utf8.RuneCountInString(t)), true
	case []any:
		return float64(len(t)), true
	case *PatternMatch:
		return float64(len(t.Matches)), true
	default:
		return 0, false
	}
}
