package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/labelgh/labeler-bot/internal/rules"
)

var (
	matchKind     string
	matchTitle    string
	matchBody     string
	matchBodyFile string
	matchJSON     bool
)

// matchCmd represents the match command
var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Resolve labels for ad-hoc text without touching GitHub",
	Long: `Resolve labels for ad-hoc text against the configured rules.

Useful for trying out rule changes locally: feed it a title (and optionally
a body) and it prints the labels the rules would assign, one per line.
Omitting both --body and --body-file means the item has no body at all,
which is not the same as an empty one.`,
	Run: func(cmd *cobra.Command, args []string) {
		runMatch(cmd)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().StringVar(&matchKind, "kind", "issue", "Item kind: issue or pr")
	matchCmd.Flags().StringVar(&matchTitle, "title", "", "Item title")
	matchCmd.Flags().StringVar(&matchBody, "body", "", "Item body text")
	matchCmd.Flags().StringVar(&matchBodyFile, "body-file", "", "Read the item body from a file")
	matchCmd.Flags().BoolVar(&matchJSON, "json", false, "Print the result as JSON")
}

func runMatch(cmd *cobra.Command) {
	cfg, _, err := loadConfigStrict()
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}

	kind, err := rules.ParseEventKind(matchKind)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}

	rs, err := rules.ParseRules(cfg.Rules)
	if err != nil {
		fmt.Printf("❌ Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	var body *string
	switch {
	case matchBodyFile != "":
		data, err := os.ReadFile(matchBodyFile)
		if err != nil {
			fmt.Printf("❌ Failed to read body file: %v\n", err)
			os.Exit(1)
		}
		s := string(data)
		body = &s
	case cmd.Flags().Changed("body"):
		body = &matchBody
	}

	labels, err := rules.Resolve(rules.MatchContext{Kind: kind, Title: matchTitle, Body: body}, rs)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}

	if matchJSON {
		out, _ := json.Marshal(struct {
			Labels []string `json:"labels"`
		}{Labels: labels})
		fmt.Println(string(out))
		return
	}

	for _, label := range labels {
		fmt.Println(label)
	}
	if len(labels) == 0 && verbose {
		fmt.Fprintln(os.Stderr, "No rules matched")
	}
}
