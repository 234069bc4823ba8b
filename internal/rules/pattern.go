package rules

import (
	"regexp"
	"strings"
)

// Matcher is the compiled form of a single pattern specification.
type Matcher struct {
	spec string
	re   *regexp.Regexp
}

// Compile parses and compiles a pattern specification. Two forms are
// accepted: a bare regular expression ("WIP"), and a delimited expression
// with a trailing flag suffix ("/wip/i"). Flags are the engine's inline
// flags (i, m, s, U); any other flag character is rejected. Matching is
// always an unanchored search.
func Compile(spec string) (*Matcher, error) {
	expr := spec
	if body, flags, ok := splitDelimited(spec); ok {
		for _, f := range flags {
			switch f {
			case 'i', 'm', 's', 'U':
			default:
				return nil, &PatternError{Spec: spec, Flag: f}
			}
		}
		expr = body
		if flags != "" {
			expr = "(?" + flags + ")" + body
		}
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, &PatternError{Spec: spec, Err: err}
	}
	return &Matcher{spec: spec, re: re}, nil
}

// splitDelimited splits "/body/flags" into its parts. A spec is delimited
// when it starts with a slash and another slash follows; the flag suffix
// is whatever comes after the last slash, so the body may itself contain
// slashes.
func splitDelimited(spec string) (body, flags string, ok bool) {
	if len(spec) < 2 || spec[0] != '/' {
		return "", "", false
	}
	end := strings.LastIndexByte(spec, '/')
	if end == 0 {
		return "", "", false
	}
	return spec[1:end], spec[end+1:], true
}

// Match reports whether the pattern matches anywhere in text.
func (m *Matcher) Match(text string) bool {
	return m.re.MatchString(text)
}

// String returns the original specification.
func (m *Matcher) String() string { return m.spec }

// ValidatePatterns eagerly compiles every pattern in the rule set and
// returns the first failure. Resolution compiles lazily; this is for
// checking a configuration up front.
func ValidatePatterns(rs RuleSet) error {
	for _, r := range rs {
		for _, spec := range r.Patterns {
			if _, err := Compile(spec); err != nil {
				return err
			}
		}
	}
	return nil
}
