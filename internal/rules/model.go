// Package rules implements the declarative labeling rules: the
// configuration model, pattern compilation, and label resolution for
// issue and pull request events.
package rules

// EventKind identifies the kind of event a rule applies to.
type EventKind string

const (
	// EventIssue is an issue event.
	EventIssue EventKind = "issue"
	// EventPullRequest is a pull request event.
	EventPullRequest EventKind = "pull_request"
)

// MatchTarget identifies which text field of an item a rule matches
// against.
type MatchTarget string

const (
	// TargetTitle matches against the item title.
	TargetTitle MatchTarget = "title"
	// TargetBody matches against the item body.
	TargetBody MatchTarget = "body"
)

// EventKindSet is a membership set of event kinds.
type EventKindSet map[EventKind]struct{}

// NewEventKindSet builds a set from the given kinds.
func NewEventKindSet(kinds ...EventKind) EventKindSet {
	s := make(EventKindSet, len(kinds))
	for _, k := range kinds {
		s[k] = struct{}{}
	}
	return s
}

// Contains reports whether k is in the set.
func (s EventKindSet) Contains(k EventKind) bool {
	_, ok := s[k]
	return ok
}

// TargetSet is a membership set of match targets.
type TargetSet map[MatchTarget]struct{}

// NewTargetSet builds a set from the given targets.
func NewTargetSet(targets ...MatchTarget) TargetSet {
	s := make(TargetSet, len(targets))
	for _, t := range targets {
		s[t] = struct{}{}
	}
	return s
}

// Contains reports whether t is in the set.
func (s TargetSet) Contains(t MatchTarget) bool {
	_, ok := s[t]
	return ok
}

// Rule is a single labeling directive: apply Label when one of Patterns
// matches one of the Targets of an event whose kind is in Events.
type Rule struct {
	Label    string
	Events   EventKindSet
	Targets  TargetSet
	Patterns []string
}

// RuleSet is an ordered collection of rules. Declaration order is
// significant: resolution walks the rules first to last.
type RuleSet []Rule

// MatchContext is the input to one resolution: the event kind plus the
// text fields of the triggering item. Body is nil when the item has no
// body at all, which is distinct from an empty body.
type MatchContext struct {
	Kind  EventKind
	Title string
	Body  *string
}
