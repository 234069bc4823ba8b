package steps

import (
	"github.com/labelgh/labeler-bot/internal/core/pipeline"
)

// RegisterAll registers all built-in steps with the registry.
func RegisterAll(r *pipeline.Registry) {
	r.Register("gatekeeper", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		return NewGatekeeper(deps), nil
	})

	r.Register("rules_loader", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		return NewRulesLoader(deps), nil
	})

	r.Register("label_resolver", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		return NewLabelResolver(deps), nil
	})

	r.Register("label_applier", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		return NewLabelApplier(deps), nil
	})
}
