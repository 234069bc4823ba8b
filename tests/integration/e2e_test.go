package integration

import (
	"context"
	"testing"
	"time"

	"github.com/labelgh/labeler-bot/internal/core/config"
	"github.com/labelgh/labeler-bot/internal/core/pipeline"
	"github.com/labelgh/labeler-bot/internal/rules"
	"github.com/labelgh/labeler-bot/internal/steps"
)

// recordingSink captures label applications so tests can assert on the
// final write without a live GitHub client.
type recordingSink struct {
	calls  int
	org    string
	repo   string
	number int
	labels []string
}

func (r *recordingSink) AddLabels(ctx context.Context, org, repo string, number int, labels []string) error {
	r.calls++
	r.org = org
	r.repo = repo
	r.number = number
	r.labels = labels
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Defaults: config.DefaultsConfig{Actions: []string{"opened", "edited", "reopened"}},
		Rules: []rules.RuleDecl{
			{Label: "bug", Events: rules.StringList{"issue"}, Targets: rules.StringList{"title", "body"}, Patterns: rules.StringList{"/crash|panic/i"}},
			{Label: "docs", Events: rules.StringList{"issue", "pr"}, Targets: rules.StringList{"title"}, Patterns: rules.StringList{"/docs?:/i"}},
		},
	}
}

func buildPipeline(t *testing.T, deps *pipeline.Dependencies) *pipeline.Pipeline {
	t.Helper()

	registry := pipeline.NewRegistry()
	steps.RegisterAll(registry)

	stepNames := pipeline.ResolveSteps(nil, "auto-label")
	p, err := registry.BuildFromNames(stepNames, deps)
	if err != nil {
		t.Fatalf("Failed to build pipeline: %v", err)
	}
	return p
}

func TestEndToEndPipeline(t *testing.T) {
	cfg := testConfig()

	body := "The server panics when the config file is missing."
	item := &pipeline.Item{
		Kind:        rules.EventIssue,
		Org:         "test-org",
		Repo:        "test-repo",
		Number:      1337,
		Title:       "Integration test failure",
		Body:        &body,
		Author:      "alice",
		EventAction: "opened",
	}

	pCtx := pipeline.NewContext(context.Background(), item, cfg)

	sink := &recordingSink{}
	p := buildPipeline(t, &pipeline.Dependencies{Labels: sink})

	startTime := time.Now()
	err := p.Run(pCtx)
	duration := time.Since(startTime)

	if err != nil {
		t.Fatalf("Pipeline execution failed: %v", err)
	}

	t.Logf("Pipeline passed in %v", duration)
	t.Logf("Result: %+v", pCtx.Result)

	if pCtx.Result.Skipped {
		t.Fatalf("Pipeline skipped: %s", pCtx.Result.SkipReason)
	}
	if pCtx.Result.ItemNumber != 1337 {
		t.Errorf("Expected item number 1337, got %d", pCtx.Result.ItemNumber)
	}
	if len(pCtx.Result.Labels) != 1 || pCtx.Result.Labels[0] != "bug" {
		t.Errorf("Expected resolved labels [bug], got %v", pCtx.Result.Labels)
	}
	if sink.calls != 1 {
		t.Fatalf("Expected 1 label application, got %d", sink.calls)
	}
	if sink.org != "test-org" || sink.repo != "test-repo" || sink.number != 1337 {
		t.Errorf("Labels applied to %s/%s#%d", sink.org, sink.repo, sink.number)
	}
	if len(sink.labels) != 1 || sink.labels[0] != "bug" {
		t.Errorf("Expected applied labels [bug], got %v", sink.labels)
	}
	if len(pCtx.Result.Applied) != 1 || pCtx.Result.Applied[0] != "bug" {
		t.Errorf("Expected Applied [bug], got %v", pCtx.Result.Applied)
	}
}

func TestEndToEndDryRun(t *testing.T) {
	item := &pipeline.Item{
		Kind:        rules.EventPullRequest,
		Org:         "test-org",
		Repo:        "test-repo",
		Number:      7,
		Title:       "docs: rewrite the quickstart",
		Author:      "bob",
		EventAction: "opened",
	}

	pCtx := pipeline.NewContext(context.Background(), item, testConfig())

	sink := &recordingSink{}
	p := buildPipeline(t, &pipeline.Dependencies{Labels: sink, DryRun: true})

	if err := p.Run(pCtx); err != nil {
		t.Fatalf("Pipeline execution failed: %v", err)
	}

	if len(pCtx.Result.Labels) != 1 || pCtx.Result.Labels[0] != "docs" {
		t.Errorf("Expected resolved labels [docs], got %v", pCtx.Result.Labels)
	}
	if sink.calls != 0 {
		t.Errorf("Dry run must not call the sink, got %d calls", sink.calls)
	}
}

func TestEndToEndBotSkip(t *testing.T) {
	item := &pipeline.Item{
		Kind:        rules.EventIssue,
		Org:         "test-org",
		Repo:        "test-repo",
		Number:      8,
		Title:       "chore: bump deps before the panic fix",
		Author:      "dependabot[bot]",
		EventAction: "opened",
	}

	pCtx := pipeline.NewContext(context.Background(), item, testConfig())

	sink := &recordingSink{}
	p := buildPipeline(t, &pipeline.Dependencies{Labels: sink})

	if err := p.Run(pCtx); err != nil {
		t.Fatalf("Pipeline execution failed: %v", err)
	}

	if !pCtx.Result.Skipped {
		t.Fatal("Expected the pipeline to skip bot events")
	}
	if sink.calls != 0 {
		t.Errorf("Sink should not be called for skipped events, got %d calls", sink.calls)
	}
}
