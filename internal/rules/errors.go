package rules

import "fmt"

// ConfigError reports an invalid rule declaration.
type ConfigError struct {
	Rule   string // label of the offending rule, or "#n" when it has none
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid rule %s: %s: %s", e.Rule, e.Field, e.Reason)
}

// PatternError reports a pattern specification that failed to compile.
type PatternError struct {
	Spec string
	Flag rune  // offending flag character, zero unless a flag was rejected
	Err  error // underlying compile error, nil for flag rejections
}

func (e *PatternError) Error() string {
	if e.Flag != 0 {
		return fmt.Sprintf("pattern %q: unknown flag %q", e.Spec, e.Flag)
	}
	return fmt.Sprintf("pattern %q: %v", e.Spec, e.Err)
}

func (e *PatternError) Unwrap() error { return e.Err }
