package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/labelgh/labeler-bot/internal/core/pipeline"
	"github.com/labelgh/labeler-bot/internal/integrations/github"
	"github.com/labelgh/labeler-bot/internal/rules"
	"github.com/labelgh/labeler-bot/internal/tui"
)

var (
	itemFile  string
	eventName string
	eventPath string
	dryRun    bool
	workflow  string
	orgName   string
	repoName  string
	itemNum   int
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the labeling pipeline for a single issue or pull request",
	Long: `Run the labeling pipeline for a single issue or pull request.

The item can come from three places:
  - the GitHub Actions event (default inside a workflow, or --event-name/--event-path)
  - a JSON file describing the item (--item)
  - the GitHub API (--org, --repo and --number, requires GITHUB_TOKEN)`,
	Run: func(cmd *cobra.Command, args []string) {
		runRun()
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&itemFile, "item", "", "Path to item JSON file")
	runCmd.Flags().StringVar(&eventName, "event-name", "", "GitHub event name (default: GITHUB_EVENT_NAME)")
	runCmd.Flags().StringVar(&eventPath, "event-path", "", "Path to event payload JSON (default: GITHUB_EVENT_PATH)")
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Resolve labels without applying them")
	runCmd.Flags().StringVar(&workflow, "workflow", "auto-label", "Workflow preset to run")
	runCmd.Flags().StringVar(&orgName, "org", "", "Organization name (fetch mode / override)")
	runCmd.Flags().StringVar(&repoName, "repo", "", "Repository name (fetch mode / override)")
	runCmd.Flags().IntVar(&itemNum, "number", 0, "Item number (fetch mode / override)")
}

func runRun() {
	cfg := loadConfigOrDefault()

	item, err := resolveRunItem()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	// Flag overrides, mainly useful with --item files
	if orgName != "" {
		item.Org = orgName
	}
	if repoName != "" {
		item.Repo = repoName
	}
	if itemNum != 0 {
		item.Number = itemNum
	}

	stepNames := pipeline.ResolveSteps(cfg.Steps, workflow)

	deps := &pipeline.Dependencies{DryRun: dryRun}
	if github.HasToken() {
		deps.Labels = github.NewClientFromEnv(context.Background())
	} else if !dryRun {
		fmt.Println("Warning: GITHUB_TOKEN not set, resolved labels cannot be applied")
	}

	// Check if running in CI/non-interactive environment
	isCI := os.Getenv("CI") == "true" || os.Getenv("GITHUB_ACTIONS") == "true"

	if isCI {
		// Run pipeline directly without TUI in CI environments
		fmt.Println("[labeler] Running in CI mode (no TUI)")
		result, err := ExecutePipeline(context.Background(), item, cfg, deps, stepNames, false)
		if err != nil {
			fmt.Printf("[labeler] Pipeline failed: %v\n", err)
			os.Exit(1)
		}
		out, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(out))
		fmt.Println("[labeler] Pipeline completed")
		return
	}

	statusChan := make(chan tui.PipelineStatusMsg)
	model := tui.NewModel(stepNames, statusChan)
	p := tea.NewProgram(model)

	go func() {
		runPipeline(p, deps, stepNames, item, cfg, statusChan)
	}()

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

// resolveRunItem determines the item to process from the flag set and the
// Actions environment.
func resolveRunItem() (*pipeline.Item, error) {
	ctx := context.Background()

	if itemFile != "" {
		data, err := os.ReadFile(itemFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read item file: %w", err)
		}
		var item pipeline.Item
		if err := json.Unmarshal(data, &item); err != nil {
			return nil, fmt.Errorf("failed to parse item JSON: %w", err)
		}
		if item.Kind == "" {
			item.Kind = rules.EventIssue
		}
		if item.Org == "" || item.Repo == "" || item.Number == 0 {
			return nil, fmt.Errorf("item file missing required fields (org, repo, number)")
		}
		return &item, nil
	}

	if eventName != "" || eventPath != "" {
		if eventName == "" || eventPath == "" {
			return nil, fmt.Errorf("--event-name and --event-path must be used together")
		}
		payload, err := os.ReadFile(eventPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read event payload: %w", err)
		}
		ev, err := github.ParseEvent(eventName, payload)
		if err != nil {
			return nil, err
		}
		return itemFromEvent(ev), nil
	}

	if os.Getenv("GITHUB_EVENT_NAME") != "" && os.Getenv("GITHUB_EVENT_PATH") != "" {
		ev, err := github.ParseEventFromEnv()
		if err != nil {
			return nil, err
		}
		return itemFromEvent(ev), nil
	}

	if orgName != "" && repoName != "" && itemNum != 0 {
		if !github.HasToken() {
			return nil, fmt.Errorf("GITHUB_TOKEN required to fetch %s/%s#%d", orgName, repoName, itemNum)
		}
		client := github.NewClientFromEnv(ctx)
		issue, err := client.GetItem(ctx, orgName, repoName, itemNum)
		if err != nil {
			return nil, err
		}
		return itemFromEvent(github.EventFromIssue(orgName, repoName, issue)), nil
	}

	return nil, fmt.Errorf("no item source: provide --item, --event-name/--event-path, or --org/--repo/--number (or run inside GitHub Actions)")
}
