package steps

import (
	"log"

	"github.com/labelgh/labeler-bot/internal/core/pipeline"
	"github.com/labelgh/labeler-bot/internal/rules"
)

// RulesLoader parses the configured rule declarations into the executable
// rule set used by the resolver.
type RulesLoader struct{}

// NewRulesLoader creates a new rules_loader step.
func NewRulesLoader(deps *pipeline.Dependencies) *RulesLoader {
	return &RulesLoader{}
}

// Name returns the step name.
func (s *RulesLoader) Name() string {
	return "rules_loader"
}

// Run validates the declarations and stores the rule set on the context.
// A config without rules skips the run; an invalid declaration fails it.
func (s *RulesLoader) Run(ctx *pipeline.Context) error {
	decls := ctx.Config.Rules
	if len(decls) == 0 {
		log.Printf("[rules_loader] No rules configured, nothing to do")
		ctx.Result.Skipped = true
		ctx.Result.SkipReason = "no rules configured"
		return pipeline.ErrSkipPipeline
	}

	rs, err := rules.ParseRules(decls)
	if err != nil {
		return err
	}

	ctx.Rules = rs
	log.Printf("[rules_loader] Loaded %d rule(s)", len(rs))
	return nil
}
