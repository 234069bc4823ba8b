package rules

// Resolve evaluates the rule set against the context and returns the
// labels to apply, in first-match order with duplicates removed.
//
// Rules are walked in declaration order. A rule is skipped outright when
// its label was already resolved, or when the context's event kind is not
// among the rule's kinds. Within a rule, each pattern is tried in order
// against the title first and then the body (for the targets the rule
// names); the first matching pattern settles the rule and the rest are
// never evaluated. A nil body never matches the body target.
//
// Patterns are compiled on first use, with a per-call cache so a spec
// shared between rules compiles once. Any compile failure aborts the
// whole resolution with a PatternError and no partial result.
func Resolve(mc MatchContext, rs RuleSet) ([]string, error) {
	labels := make([]string, 0, len(rs))
	seen := make(map[string]struct{}, len(rs))
	compiled := make(map[string]*Matcher, len(rs))

	for _, rule := range rs {
		if _, done := seen[rule.Label]; done {
			continue
		}
		if !rule.Events.Contains(mc.Kind) {
			continue
		}

		for _, spec := range rule.Patterns {
			m, ok := compiled[spec]
			if !ok {
				var err error
				m, err = Compile(spec)
				if err != nil {
					return nil, err
				}
				compiled[spec] = m
			}

			hit := rule.Targets.Contains(TargetTitle) && m.Match(mc.Title)
			if !hit && rule.Targets.Contains(TargetBody) && mc.Body != nil {
				hit = m.Match(*mc.Body)
			}
			if hit {
				seen[rule.Label] = struct{}{}
				labels = append(labels, rule.Label)
				break
			}
		}
	}
	return labels, nil
}
