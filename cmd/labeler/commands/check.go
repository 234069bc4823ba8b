package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/labelgh/labeler-bot/internal/rules"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the labeling configuration",
	Long: `Validate the labeling configuration without touching GitHub.

Parses the rule declarations and compiles every pattern, reporting the
first problem it finds. Exits non-zero when the configuration is invalid.`,
	Run: func(cmd *cobra.Command, args []string) {
		runCheck()
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck() {
	cfg, cfgPath, err := loadConfigStrict()
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Checking %s\n", cfgPath)

	rs, err := rules.ParseRules(cfg.Rules)
	if err != nil {
		fmt.Printf("❌ Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	if len(rs) == 0 {
		fmt.Println("✓ Configuration valid (no labeling rules configured)")
		return
	}

	if err := rules.ValidatePatterns(rs); err != nil {
		fmt.Printf("❌ Invalid pattern: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✓ Configuration valid: %d rule(s)\n\n", len(rs))
	for _, rule := range rs {
		fmt.Printf("  %-24s events: %-20s targets: %-12s patterns: %d\n",
			rule.Label, formatEvents(rule.Events), formatTargets(rule.Targets), len(rule.Patterns))
	}
}

func formatEvents(s rules.EventKindSet) string {
	var parts []string
	for _, k := range []rules.EventKind{rules.EventIssue, rules.EventPullRequest} {
		if s.Contains(k) {
			parts = append(parts, string(k))
		}
	}
	return strings.Join(parts, ", ")
}

func formatTargets(s rules.TargetSet) string {
	var parts []string
	for _, tgt := range []rules.MatchTarget{rules.TargetTitle, rules.TargetBody} {
		if s.Contains(tgt) {
			parts = append(parts, string(tgt))
		}
	}
	return strings.Join(parts, ", ")
}
