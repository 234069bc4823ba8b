// Package pipeline provides the core pipeline engine for the labeler.
// It defines the Step interface and Context structure used by all pipeline steps.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/labelgh/labeler-bot/internal/core/config"
	"github.com/labelgh/labeler-bot/internal/rules"
)

// ErrSkipPipeline indicates that the pipeline should stop gracefully.
// This is not an error condition, just an early exit (e.g., bot author,
// disabled repo, nothing to label).
var ErrSkipPipeline = errors.New("skip remaining pipeline steps")

// Step defines the interface that all pipeline steps must implement.
type Step interface {
	// Name returns the unique identifier for this step.
	Name() string

	// Run executes the step's logic.
	// It should return ErrSkipPipeline to stop the pipeline gracefully,
	// or any other error to indicate failure.
	Run(ctx *Context) error
}

// Item represents the issue or pull request being labeled.
type Item struct {
	Kind        rules.EventKind `json:"kind"`
	Org         string          `json:"org"`
	Repo        string          `json:"repo"`
	Number      int             `json:"number"`
	Title       string          `json:"title"`
	Body        *string         `json:"body,omitempty"` // nil when the item has no body
	Author      string          `json:"author,omitempty"`
	Labels      []string        `json:"labels,omitempty"` // labels already on the item
	EventAction string          `json:"event_action,omitempty"`
	URL         string          `json:"url,omitempty"`
}

// Result holds the accumulated results from pipeline execution.
type Result struct {
	RunID      string   `json:"run_id"`
	ItemNumber int      `json:"item_number"`
	Skipped    bool     `json:"skipped"`
	SkipReason string   `json:"skip_reason,omitempty"`
	Labels     []string `json:"labels"`            // labels the rules resolved
	Applied    []string `json:"applied,omitempty"` // labels actually submitted
}

// Context carries data through the pipeline steps.
type Context struct {
	// Ctx is the Go context for cancellation and timeouts.
	Ctx context.Context

	// Item is the issue or pull request being processed.
	Item *Item

	// Config is the loaded configuration.
	Config *config.Config

	// Rules is the parsed rule set, populated by the rules_loader step.
	Rules rules.RuleSet

	// Result accumulates the processing results.
	Result *Result
}

// NewContext creates a new pipeline context for an item.
func NewContext(ctx context.Context, item *Item, cfg *config.Config) *Context {
	return &Context{
		Ctx:    ctx,
		Item:   item,
		Config: cfg,
		Result: &Result{
			RunID:      uuid.New().String(),
			ItemNumber: item.Number,
		},
	}
}

// Pipeline executes a sequence of steps.
type Pipeline struct {
	steps []Step
}

// New creates a new pipeline with the given steps.
func New(steps ...Step) *Pipeline {
	return &Pipeline{steps: steps}
}

// Run executes all steps in order.
// Stops on the first error (unless it's ErrSkipPipeline, which is graceful).
func (p *Pipeline) Run(ctx *Context) error {
	for _, step := range p.steps {
		if err := step.Run(ctx); err != nil {
			if errors.Is(err, ErrSkipPipeline) {
				// Graceful early exit
				return nil
			}
			return fmt.Errorf("step '%s' failed: %w", step.Name(), err)
		}
	}
	return nil
}

// AddStep appends a step to the pipeline.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// Steps returns the list of steps (for introspection).
func (p *Pipeline) Steps() []Step {
	return p.steps
}
