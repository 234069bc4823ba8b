package pipeline

import (
	"context"
	"fmt"
	"sync"
)

// Registry holds registered step factories.
// Step factories create Step instances, allowing for dependency injection.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]StepFactory
}

// StepFactory is a function that creates a Step.
// It receives dependencies (like clients, config) as parameters.
type StepFactory func(deps *Dependencies) (Step, error)

// LabelSink submits labels to the hosting platform. The GitHub client
// satisfies this; tests use fakes.
type LabelSink interface {
	AddLabels(ctx context.Context, org, repo string, number int, labels []string) error
}

// Dependencies holds the dependencies that can be injected into steps.
type Dependencies struct {
	// Labels applies resolved labels to the triggering item. May be nil
	// for workflows that never reach the applier step.
	Labels LabelSink

	// DryRun makes mutating steps log what they would do instead of
	// doing it.
	DryRun bool
}

// NewRegistry creates a new step registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]StepFactory),
	}
}

// Register adds a step factory to the registry.
func (r *Registry) Register(name string, factory StepFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Get retrieves a step factory by name.
func (r *Registry) Get(name string) (StepFactory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	factory, ok := r.factories[name]
	return factory, ok
}

// BuildFromNames creates a pipeline from a list of step names.
func (r *Registry) BuildFromNames(names []string, deps *Dependencies) (*Pipeline, error) {
	var steps []Step
	for _, name := range names {
		factory, ok := r.Get(name)
		if !ok {
			return nil, fmt.Errorf("unknown step: %s", name)
		}
		step, err := factory(deps)
		if err != nil {
			return nil, fmt.Errorf("failed to create step '%s': %w", name, err)
		}
		steps = append(steps, step)
	}
	return New(steps...), nil
}

// Presets defines the built-in workflow presets.
var Presets = map[string][]string{
	// auto-label: resolve labels from the rules and apply them
	"auto-label": {
		"gatekeeper",
		"rules_loader",
		"label_resolver",
		"label_applier",
	},

	// preview: resolve labels but never touch the repository
	"preview": {
		"gatekeeper",
		"rules_loader",
		"label_resolver",
	},
}

// GetPreset returns the step names for a preset workflow.
func GetPreset(name string) ([]string, bool) {
	steps, ok := Presets[name]
	return steps, ok
}

// ResolveSteps determines the steps to use based on config.
// Priority: explicit steps > workflow preset > default
func ResolveSteps(explicitSteps []string, workflow string) []string {
	if len(explicitSteps) > 0 {
		return explicitSteps
	}
	if workflow != "" {
		if preset, ok := GetPreset(workflow); ok {
			return preset
		}
	}
	// Default to auto-label
	return Presets["auto-label"]
}
