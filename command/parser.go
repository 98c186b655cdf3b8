package command

import (
	"strings"

	"github.com/hupe1980/argmesh/argument"
)

// tokenSource yields the raw token for one argument.
type tokenSource interface {
	token(id string, mode argument.MatchMode) string
}

type mapSource map[string]string

func (m mapSource) token(id string, _ argument.MatchMode) string { return m[id] }

// contentSource splits message content into the invocation word, positional
// words and --name / --name=value options. Positional words are consumed in
// order by word, rest and separate matches.
type contentSource struct {
	content    string
	text       string
	positional []string
	options    map[string]string
	flags      map[string]bool
}

func newContentSource(content string) *contentSource {
	s := &contentSource{
		content: content,
		options: map[string]string{},
		flags:   map[string]bool{},
	}

	trimmed := strings.TrimSpace(content)
	if i := strings.IndexFunc(trimmed, isSpace); i >= 0 {
		s.text = strings.TrimSpace(trimmed[i:])
	}

	for _, w := range strings.Fields(s.text) {
		if !strings.HasPrefix(w, "--") || len(w) == 2 {
			s.positional = append(s.positional, w)
			continue
		}
		name, value, hasValue := strings.Cut(w[2:], "=")
		name = strings.ToLower(name)
		if hasValue {
			s.options[name] = value
		} else {
			s.flags[name] = true
		}
	}
	return s
}

func (s *contentSource) token(id string, mode argument.MatchMode) string {
	switch mode {
	case argument.MatchWord:
		if len(s.positional) == 0 {
			return ""
		}
		w := s.positional[0]
		s.positional = s.positional[1:]
		return w
	case argument.MatchRest, argument.MatchSeparate:
		w := strings.Join(s.positional, " ")
		s.positional = nil
		return w
	case argument.MatchPrefix:
		return s.options[strings.ToLower(id)]
	case argument.MatchFlag:
		if s.flags[strings.ToLower(id)] {
			return "true"
		}
		return ""
	case argument.MatchText:
		return s.text
	case argument.MatchContent:
		return s.content
	default:
		return ""
	}
}

func isSpace(r rune) bool { return r == ' ' || r == '\t' || r == '\n' || r == '\r' }
