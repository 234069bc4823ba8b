package steps

import (
	"log"
	"strings"

	"github.com/labelgh/labeler-bot/internal/core/pipeline"
	"github.com/labelgh/labeler-bot/internal/rules"
)

// LabelResolver evaluates the rule set against the item and records the
// labels to apply.
type LabelResolver struct{}

// NewLabelResolver creates a new label_resolver step.
func NewLabelResolver(deps *pipeline.Dependencies) *LabelResolver {
	return &LabelResolver{}
}

// Name returns the step name.
func (s *LabelResolver) Name() string {
	return "label_resolver"
}

// Run resolves labels for the item. A pattern that fails to compile
// aborts the run with no labels resolved.
func (s *LabelResolver) Run(ctx *pipeline.Context) error {
	item := ctx.Item
	mc := rules.MatchContext{
		Kind:  item.Kind,
		Title: item.Title,
		Body:  item.Body,
	}

	labels, err := rules.Resolve(mc, ctx.Rules)
	if err != nil {
		return err
	}

	ctx.Result.Labels = labels
	if len(labels) == 0 {
		log.Printf("[label_resolver] No rules matched #%d", item.Number)
		return nil
	}

	log.Printf("[label_resolver] Resolved %d label(s) for #%d: %s",
		len(labels), item.Number, strings.Join(labels, ", "))
	return nil
}
