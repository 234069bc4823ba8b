package commands

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/labelgh/labeler-bot/internal/core/config"
	"github.com/labelgh/labeler-bot/internal/core/pipeline"
	"github.com/labelgh/labeler-bot/internal/integrations/github"
)

var (
	backfillOrg      string
	backfillRepo     string
	backfillWorkers  int
	backfillDryRun   bool
	backfillWorkflow string
	backfillOutFile  string
	backfillFormat   string
)

// BackfillJob represents one item to process in the worker pool
type BackfillJob struct {
	Index int
	Item  pipeline.Item
}

// BackfillResult represents the outcome of processing a single item
type BackfillResult struct {
	Index  int
	Item   pipeline.Item
	Result *pipeline.Result
	Error  error
}

// BackfillOutput represents the JSON output structure
type BackfillOutput struct {
	ProcessedAt time.Time       `json:"processed_at"`
	TotalItems  int             `json:"total_items"`
	Labeled     int             `json:"labeled"`
	Skipped     int             `json:"skipped"`
	Failed      int             `json:"failed"`
	Results     []BackfillEntry `json:"results"`
}

// BackfillEntry represents a single result entry in JSON output
type BackfillEntry struct {
	Item   pipeline.Item    `json:"item"`
	Result *pipeline.Result `json:"result,omitempty"`
	Error  string           `json:"error,omitempty"`
}

// backfillCmd represents the backfill command
var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Label every open issue and pull request in a repository",
	Long: `Label every open issue and pull request in a repository.

Lists the open items via the GitHub API and runs each through the labeling
pipeline with a worker pool. Items fetched this way carry no event action,
so the configured trigger actions do not filter them.

Use cases:
- Adopt the bot on a repository with an existing backlog
- Re-run after changing the rules to pick up new labels
- Audit rule coverage with --dry-run before turning the bot on`,
	Run: runBackfill,
}

func init() {
	rootCmd.AddCommand(backfillCmd)

	backfillCmd.Flags().StringVar(&backfillOrg, "org", "", "Organization name (default: from GITHUB_REPOSITORY)")
	backfillCmd.Flags().StringVar(&backfillRepo, "repo", "", "Repository name (default: from GITHUB_REPOSITORY)")
	backfillCmd.Flags().IntVar(&backfillWorkers, "workers", 3, "Number of concurrent workers")
	backfillCmd.Flags().BoolVar(&backfillDryRun, "dry-run", false, "Resolve labels without applying them")
	backfillCmd.Flags().StringVar(&backfillWorkflow, "workflow", "auto-label", "Workflow preset to run")
	backfillCmd.Flags().StringVar(&backfillOutFile, "out-file", "", "Write detailed results to a file")
	backfillCmd.Flags().StringVar(&backfillFormat, "format", "", "Detailed results format: json or csv")
}

func runBackfill(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	org, repo, err := resolveBackfillRepo()
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}

	if !github.HasToken() {
		fmt.Println("❌ GITHUB_TOKEN required to list repository items")
		os.Exit(1)
	}
	client := github.NewClientFromEnv(ctx)

	cfg := loadConfigOrDefault()

	stepNames := pipeline.ResolveSteps(cfg.Steps, backfillWorkflow)
	if verbose {
		fmt.Printf("Pipeline steps: %v\n", stepNames)
	}

	deps := &pipeline.Dependencies{Labels: client, DryRun: backfillDryRun}
	if backfillDryRun && verbose {
		fmt.Println("✓ Dry-run mode enabled (no labels will be applied)")
	}

	fmt.Printf("Listing open items in %s/%s...\n", org, repo)
	issues, err := client.ListOpenItems(ctx, org, repo)
	if err != nil {
		fmt.Printf("❌ Error listing items: %v\n", err)
		os.Exit(1)
	}
	if len(issues) == 0 {
		fmt.Println("Nothing to process")
		return
	}

	items := make([]pipeline.Item, 0, len(issues))
	for _, issue := range issues {
		items = append(items, *itemFromEvent(github.EventFromIssue(org, repo, issue)))
	}

	fmt.Printf("Processing %d items with %d workers...\n", len(items), backfillWorkers)
	results := processBackfill(ctx, items, cfg, deps, stepNames)

	if err := outputBackfillResults(results); err != nil {
		fmt.Printf("❌ Error writing results: %v\n", err)
		os.Exit(1)
	}

	var labeled, unmatched, skipped, failed int
	for _, r := range results {
		switch {
		case r.Error != nil:
			failed++
		case r.Result != nil && r.Result.Skipped:
			skipped++
		case r.Result != nil && len(r.Result.Labels) > 0:
			labeled++
		default:
			unmatched++
		}
	}
	fmt.Printf("\n✓ Backfill completed: %d labeled, %d unmatched, %d skipped, %d failed\n",
		labeled, unmatched, skipped, failed)
	if failed > 0 {
		os.Exit(1)
	}
}

// resolveBackfillRepo determines the target repository from flags or the
// Actions environment.
func resolveBackfillRepo() (string, string, error) {
	if backfillOrg != "" && backfillRepo != "" {
		return backfillOrg, backfillRepo, nil
	}
	if env := os.Getenv("GITHUB_REPOSITORY"); env != "" {
		parts := strings.SplitN(env, "/", 2)
		if len(parts) == 2 && parts[0] != "" && parts[1] != "" {
			return parts[0], parts[1], nil
		}
		return "", "", fmt.Errorf("malformed GITHUB_REPOSITORY value %q", env)
	}
	return "", "", fmt.Errorf("repository not specified: use --org and --repo or set GITHUB_REPOSITORY")
}

// processBackfill processes all items using a worker pool pattern
func processBackfill(ctx context.Context, items []pipeline.Item, cfg *config.Config, deps *pipeline.Dependencies, stepNames []string) []BackfillResult {
	jobs := make(chan BackfillJob, backfillWorkers)
	results := make(chan BackfillResult, backfillWorkers)
	var wg sync.WaitGroup

	// Start workers
	for i := 0; i < backfillWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for job := range jobs {
				if verbose {
					fmt.Printf("[Worker %d] Processing %s/%s#%d\n", workerID, job.Item.Org, job.Item.Repo, job.Item.Number)
				}

				result, err := ExecutePipeline(ctx, &job.Item, cfg, deps, stepNames, true)

				results <- BackfillResult{
					Index:  job.Index,
					Item:   job.Item,
					Result: result,
					Error:  err,
				}

				if verbose {
					switch {
					case err != nil:
						fmt.Printf("[Worker %d] ❌ #%d failed: %v\n", workerID, job.Item.Number, err)
					case result.Skipped:
						fmt.Printf("[Worker %d] ○ #%d skipped: %s\n", workerID, job.Item.Number, result.SkipReason)
					default:
						fmt.Printf("[Worker %d] ✓ #%d resolved %d label(s)\n", workerID, job.Item.Number, len(result.Labels))
					}
				}
			}
		}(i)
	}

	// Send jobs
	go func() {
		for i, item := range items {
			jobs <- BackfillJob{Index: i, Item: item}
		}
		close(jobs)
	}()

	// Collect results
	go func() {
		wg.Wait()
		close(results)
	}()

	// Gather results in order
	resultMap := make(map[int]BackfillResult)
	for result := range results {
		resultMap[result.Index] = result
	}

	orderedResults := make([]BackfillResult, len(items))
	for i := range items {
		orderedResults[i] = resultMap[i]
	}

	return orderedResults
}

// outputBackfillResults writes detailed results when the caller asked for
// them. Without --out-file or --format only the summary line is printed.
func outputBackfillResults(results []BackfillResult) error {
	if backfillOutFile == "" && backfillFormat == "" {
		return nil
	}

	format := backfillFormat
	if format == "" && backfillOutFile != "" {
		// Infer from file extension
		if strings.ToLower(filepath.Ext(backfillOutFile)) == ".csv" {
			format = "csv"
		} else {
			format = "json"
		}
	}

	var data []byte
	var err error
	switch format {
	case "csv":
		data, err = formatBackfillCSV(results)
	case "json":
		data, err = formatBackfillJSON(results)
	default:
		return fmt.Errorf("unsupported format: %s (use json or csv)", format)
	}
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	if backfillOutFile != "" {
		if err := os.WriteFile(backfillOutFile, data, 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Printf("✓ Results written to %s\n", backfillOutFile)
		return nil
	}

	fmt.Println("\n=== Backfill Results ===")
	fmt.Println(string(data))
	return nil
}

// formatBackfillJSON formats results as JSON
func formatBackfillJSON(results []BackfillResult) ([]byte, error) {
	var labeled, skipped, failed int
	entries := make([]BackfillEntry, len(results))

	for i, r := range results {
		entry := BackfillEntry{
			Item:   r.Item,
			Result: r.Result,
		}
		switch {
		case r.Error != nil:
			entry.Error = r.Error.Error()
			failed++
		case r.Result != nil && r.Result.Skipped:
			skipped++
		case r.Result != nil && len(r.Result.Labels) > 0:
			labeled++
		}
		entries[i] = entry
	}

	output := BackfillOutput{
		ProcessedAt: time.Now(),
		TotalItems:  len(results),
		Labeled:     labeled,
		Skipped:     skipped,
		Failed:      failed,
		Results:     entries,
	}

	return json.MarshalIndent(output, "", "  ")
}

// formatBackfillCSV formats results as CSV
func formatBackfillCSV(results []BackfillResult) ([]byte, error) {
	var buf strings.Builder
	writer := csv.NewWriter(&buf)

	header := []string{
		"number",
		"kind",
		"org",
		"repo",
		"title",
		"author",
		"skipped",
		"skip_reason",
		"labels",
		"applied",
		"error",
	}
	if err := writer.Write(header); err != nil {
		return nil, err
	}

	for _, r := range results {
		row := make([]string, len(header))
		row[0] = strconv.Itoa(r.Item.Number)
		row[1] = string(r.Item.Kind)
		row[2] = r.Item.Org
		row[3] = r.Item.Repo
		row[4] = r.Item.Title
		row[5] = r.Item.Author

		if r.Error != nil {
			row[10] = r.Error.Error()
		} else if r.Result != nil {
			row[6] = strconv.FormatBool(r.Result.Skipped)
			row[7] = r.Result.SkipReason
			row[8] = strings.Join(r.Result.Labels, ";")
			row[9] = strings.Join(r.Result.Applied, ";")
		}

		if err := writer.Write(row); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	return []byte(buf.String()), nil
}
