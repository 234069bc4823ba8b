package steps

import (
	"fmt"
	"log"
	"strings"

	"github.com/labelgh/labeler-bot/internal/core/pipeline"
)

// LabelApplyError reports a failed label submission.
type LabelApplyError struct {
	Org    string
	Repo   string
	Number int
	Labels []string
	Err    error
}

func (e *LabelApplyError) Error() string {
	return fmt.Sprintf("failed to apply labels %v to %s/%s#%d: %v",
		e.Labels, e.Org, e.Repo, e.Number, e.Err)
}

func (e *LabelApplyError) Unwrap() error { return e.Err }

// LabelApplier submits the resolved labels to GitHub.
type LabelApplier struct {
	sink   pipeline.LabelSink
	dryRun bool
}

// NewLabelApplier creates a new label_applier step.
func NewLabelApplier(deps *pipeline.Dependencies) *LabelApplier {
	return &LabelApplier{
		sink:   deps.Labels,
		dryRun: deps.DryRun,
	}
}

// Name returns the step name.
func (s *LabelApplier) Name() string {
	return "label_applier"
}

// Run applies the resolved labels, minus the ones already on the item.
// A submission failure surfaces as a LabelApplyError; there is no retry.
func (s *LabelApplier) Run(ctx *pipeline.Context) error {
	item := ctx.Item

	labels := missingLabels(ctx.Result.Labels, item.Labels)
	if len(labels) == 0 {
		log.Printf("[label_applier] Nothing to apply to #%d", item.Number)
		return nil
	}

	if s.dryRun {
		log.Printf("[label_applier] Dry run: would apply %s to %s/%s#%d",
			strings.Join(labels, ", "), item.Org, item.Repo, item.Number)
		return nil
	}

	if s.sink == nil {
		return fmt.Errorf("no GitHub client configured, cannot apply labels")
	}

	if err := s.sink.AddLabels(ctx.Ctx, item.Org, item.Repo, item.Number, labels); err != nil {
		return &LabelApplyError{
			Org:    item.Org,
			Repo:   item.Repo,
			Number: item.Number,
			Labels: labels,
			Err:    err,
		}
	}

	ctx.Result.Applied = labels
	log.Printf("[label_applier] Applied %s to %s/%s#%d",
		strings.Join(labels, ", "), item.Org, item.Repo, item.Number)
	return nil
}

// missingLabels filters out labels already present on the item
// (case-insensitive, matching GitHub's label semantics).
func missingLabels(resolved, existing []string) []string {
	if len(resolved) == 0 {
		return nil
	}

	present := make(map[string]bool, len(existing))
	for _, l := range existing {
		present[strings.ToLower(l)] = true
	}

	missing := make([]string, 0, len(resolved))
	for _, l := range resolved {
		if !present[strings.ToLower(l)] {
			missing = append(missing, l)
		}
	}
	return missing
}
