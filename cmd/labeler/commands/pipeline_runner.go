package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/labelgh/labeler-bot/internal/core/config"
	"github.com/labelgh/labeler-bot/internal/core/pipeline"
	"github.com/labelgh/labeler-bot/internal/integrations/github"
	"github.com/labelgh/labeler-bot/internal/steps"
	"github.com/labelgh/labeler-bot/internal/tui"
)

// ExecutePipeline runs the labeling pipeline headlessly and returns the
// final result. When quiet is true, per-item progress is not printed
// (backfill workers print their own lines).
func ExecutePipeline(ctx context.Context, item *pipeline.Item, cfg *config.Config, deps *pipeline.Dependencies, stepNames []string, quiet bool) (*pipeline.Result, error) {
	pCtx := pipeline.NewContext(ctx, item, cfg)

	registry := pipeline.NewRegistry()
	steps.RegisterAll(registry)

	p, err := registry.BuildFromNames(stepNames, deps)
	if err != nil {
		return nil, err
	}

	if !quiet {
		fmt.Printf("Processing %s %s/%s#%d\n", item.Kind, item.Org, item.Repo, item.Number)
	}

	err = p.Run(pCtx)
	return pCtx.Result, err
}

// itemFromEvent converts a normalized GitHub event into a pipeline item.
func itemFromEvent(ev *github.Event) *pipeline.Item {
	return &pipeline.Item{
		Kind:        ev.Kind,
		Org:         ev.Org,
		Repo:        ev.Repo,
		Number:      ev.Number,
		Title:       ev.Title,
		Body:        ev.Body,
		Author:      ev.Author,
		Labels:      ev.Labels,
		EventAction: ev.Action,
		URL:         ev.URL,
	}
}

// statusReportingStep wraps a step to send status updates to the TUI.
type statusReportingStep struct {
	inner      pipeline.Step
	statusChan chan<- tui.PipelineStatusMsg
}

func (s *statusReportingStep) Name() string {
	return s.inner.Name()
}

func (s *statusReportingStep) Run(ctx *pipeline.Context) error {
	s.statusChan <- tui.PipelineStatusMsg{Step: s.Name(), Status: "started", Message: "Starting..."}
	time.Sleep(100 * time.Millisecond) // Artificial delay for visual effect

	err := s.inner.Run(ctx)

	if err != nil {
		if errors.Is(err, pipeline.ErrSkipPipeline) {
			s.statusChan <- tui.PipelineStatusMsg{Step: s.Name(), Status: "skipped", Message: ctx.Result.SkipReason}
			return err
		}
		s.statusChan <- tui.PipelineStatusMsg{Step: s.Name(), Status: "error", Message: err.Error()}
		return err
	}

	s.statusChan <- tui.PipelineStatusMsg{Step: s.Name(), Status: "success", Message: "Completed"}
	return nil
}

// runPipeline executes the pipeline while feeding status updates to the
// TUI program.
func runPipeline(p *tea.Program, deps *pipeline.Dependencies, stepNames []string, item *pipeline.Item, cfg *config.Config, statusChan chan tui.PipelineStatusMsg) {
	defer close(statusChan)

	pCtx := pipeline.NewContext(context.Background(), item, cfg)

	registry := pipeline.NewRegistry()
	steps.RegisterAll(registry)

	builtSteps, err := registry.BuildFromNames(stepNames, deps)
	if err != nil {
		statusChan <- tui.PipelineStatusMsg{Step: "init", Status: "error", Message: err.Error()}
		p.Send(tui.ResultMsg{Success: false, Output: err.Error()})
		return
	}

	// Wrap steps with status reporting
	var wrappedSteps []pipeline.Step
	for _, step := range builtSteps.Steps() {
		wrappedSteps = append(wrappedSteps, &statusReportingStep{inner: step, statusChan: statusChan})
	}

	finalPipeline := pipeline.New(wrappedSteps...)

	if err := finalPipeline.Run(pCtx); err != nil {
		p.Send(tui.ResultMsg{Success: false, Output: err.Error()})
		return
	}

	resultBytes, _ := json.MarshalIndent(pCtx.Result, "", "  ")
	p.Send(tui.ResultMsg{Success: true, Output: string(resultBytes)})
}
