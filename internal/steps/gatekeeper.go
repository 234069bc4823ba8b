// Package steps contains the modular "Lego block" pipeline steps.
// Each step implements the pipeline.Step interface.
package steps

import (
	"log"
	"strings"

	"github.com/labelgh/labeler-bot/internal/core/config"
	"github.com/labelgh/labeler-bot/internal/core/pipeline"
)

// Gatekeeper decides whether the triggering item should be labeled at all.
type Gatekeeper struct{}

// NewGatekeeper creates a new gatekeeper step.
func NewGatekeeper(deps *pipeline.Dependencies) *Gatekeeper {
	return &Gatekeeper{}
}

// Name returns the step name.
func (s *Gatekeeper) Name() string {
	return "gatekeeper"
}

// Run checks the author, the event action and the repository configuration.
func (s *Gatekeeper) Run(ctx *pipeline.Context) error {
	item := ctx.Item

	// Skip events triggered by bot authors to prevent labeling loops:
	// the bot applying a label can itself trigger a new workflow run.
	if item.Author != "" && isBotAuthor(item.Author, ctx.Config.BotUsers) {
		log.Printf("[gatekeeper] Skipping event from bot author %q", item.Author)
		ctx.Result.Skipped = true
		ctx.Result.SkipReason = "event triggered by bot"
		return pipeline.ErrSkipPipeline
	}

	// Skip actions outside the configured trigger list. Backfill items
	// carry no action and always pass.
	if item.EventAction != "" && !actionAllowed(item.EventAction, ctx.Config.Defaults.Actions) {
		log.Printf("[gatekeeper] Action %q is not configured to trigger labeling", item.EventAction)
		ctx.Result.Skipped = true
		ctx.Result.SkipReason = "event action not configured"
		return pipeline.ErrSkipPipeline
	}

	// If repositories list is empty, allow all (single-repo mode)
	if len(ctx.Config.Repositories) == 0 {
		return nil
	}

	// Check if the repository is configured
	repoConfig := findRepoConfig(ctx)
	if repoConfig == nil {
		ctx.Result.Skipped = true
		ctx.Result.SkipReason = "repository not configured"
		return pipeline.ErrSkipPipeline
	}

	// Check if processing is enabled for this repo
	if !repoConfig.Enabled {
		ctx.Result.Skipped = true
		ctx.Result.SkipReason = "repository processing disabled"
		return pipeline.ErrSkipPipeline
	}

	log.Printf("[gatekeeper] Repository %s/%s is enabled, proceeding", item.Org, item.Repo)
	return nil
}

// isBotAuthor returns true if the given username matches a known bot pattern
// or is in the user-configured bot_users list.
func isBotAuthor(author string, configBotUsers []string) bool {
	// Built-in heuristics
	if strings.HasSuffix(author, "[bot]") ||
		strings.EqualFold(author, "labeler-bot") {
		return true
	}
	// User-configured bot users
	for _, u := range configBotUsers {
		if strings.EqualFold(author, u) {
			return true
		}
	}
	return false
}

// actionAllowed returns true if the event action is in the configured list.
func actionAllowed(action string, allowed []string) bool {
	for _, a := range allowed {
		if strings.EqualFold(action, a) {
			return true
		}
	}
	return false
}

// findRepoConfig looks up the repository configuration.
func findRepoConfig(ctx *pipeline.Context) *config.RepositoryConfig {
	for i := range ctx.Config.Repositories {
		repo := &ctx.Config.Repositories[i]
		if repo.Org == ctx.Item.Org && repo.Repo == ctx.Item.Repo {
			return repo
		}
	}
	return nil
}
