package rules

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// RuleDecl is the YAML shape of a single rule before validation. The
// list fields accept either a single scalar or a sequence.
type RuleDecl struct {
	Label    string     `yaml:"label"`
	Events   StringList `yaml:"events"`
	Targets  StringList `yaml:"targets"`
	Patterns StringList `yaml:"patterns"`
}

// StringList is a []string that also accepts a single YAML scalar.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *StringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		*l = StringList{s}
	case yaml.SequenceNode:
		var ss []string
		if err := value.Decode(&ss); err != nil {
			return err
		}
		*l = StringList(ss)
	default:
		return fmt.Errorf("line %d: expected a string or a list of strings", value.Line)
	}
	return nil
}

// ParseEventKind maps a selector token to an event kind. Singular and
// plural issue tokens are accepted, and "pr" as pull request shorthand.
func ParseEventKind(token string) (EventKind, error) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "issue", "issues":
		return EventIssue, nil
	case "pull_request", "pull-request", "pr":
		return EventPullRequest, nil
	}
	return "", fmt.Errorf("unknown event kind %q", token)
}

// ParseTarget maps a selector token to a match target.
func ParseTarget(token string) (MatchTarget, error) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "title":
		return TargetTitle, nil
	case "body":
		return TargetBody, nil
	}
	return "", fmt.Errorf("unknown target %q", token)
}

// ParseRules validates rule declarations and builds the executable rule
// set, preserving declaration order. Duplicate labels across rules are
// allowed; resolution deduplicates. Patterns are not compiled here,
// compilation happens during resolution (or via ValidatePatterns).
func ParseRules(decls []RuleDecl) (RuleSet, error) {
	rs := make(RuleSet, 0, len(decls))
	for i, d := range decls {
		name := ruleName(i, d.Label)

		label := strings.TrimSpace(d.Label)
		if label == "" {
			return nil, &ConfigError{Rule: name, Field: "label", Reason: "required"}
		}

		if len(d.Events) == 0 {
			return nil, &ConfigError{Rule: name, Field: "events", Reason: "at least one event kind is required"}
		}
		events := make(EventKindSet, len(d.Events))
		for _, tok := range d.Events {
			kind, err := ParseEventKind(tok)
			if err != nil {
				return nil, &ConfigError{Rule: name, Field: "events", Reason: err.Error()}
			}
			events[kind] = struct{}{}
		}

		if len(d.Targets) == 0 {
			return nil, &ConfigError{Rule: name, Field: "targets", Reason: "at least one target is required"}
		}
		targets := make(TargetSet, len(d.Targets))
		for _, tok := range d.Targets {
			target, err := ParseTarget(tok)
			if err != nil {
				return nil, &ConfigError{Rule: name, Field: "targets", Reason: err.Error()}
			}
			targets[target] = struct{}{}
		}

		if len(d.Patterns) == 0 {
			return nil, &ConfigError{Rule: name, Field: "patterns", Reason: "at least one pattern is required"}
		}
		patterns := make([]string, 0, len(d.Patterns))
		for _, p := range d.Patterns {
			if strings.TrimSpace(p) == "" {
				return nil, &ConfigError{Rule: name, Field: "patterns", Reason: "empty pattern"}
			}
			patterns = append(patterns, p)
		}

		rs = append(rs, Rule{
			Label:    label,
			Events:   events,
			Targets:  targets,
			Patterns: patterns,
		})
	}
	return rs, nil
}

func ruleName(index int, label string) string {
	if strings.TrimSpace(label) == "" {
		return fmt.Sprintf("#%d", index+1)
	}
	return fmt.Sprintf("%q", label)
}
