package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/labelgh/labeler-bot/internal/core/config"
	"github.com/labelgh/labeler-bot/internal/integrations/github"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "labeler",
	Short: "Rule-driven label automation for GitHub issues and pull requests",
	Long: `Labeler applies labels to GitHub issues and pull requests based on
declarative rules. Each rule pairs a label with regular expressions that are
matched against the item's title and body.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// configFetcher returns the fetcher used to resolve extends references
// (org/repo@branch:path) through the GitHub contents API.
func configFetcher() func(ref string) ([]byte, error) {
	return func(ref string) ([]byte, error) {
		org, repo, branch, path, err := config.ParseExtendsRef(ref)
		if err != nil {
			return nil, err
		}
		token := os.Getenv("GITHUB_TOKEN")
		if token == "" {
			return nil, fmt.Errorf("GITHUB_TOKEN required to fetch remote config %s", ref)
		}
		ghClient := github.NewClient(context.Background(), token)
		return ghClient.GetFileContent(context.Background(), org, repo, path, branch)
	}
}

// loadConfigStrict loads the configuration and fails when no file is found
// or the file does not parse. Used by commands that exist to inspect the
// configuration itself.
func loadConfigStrict() (*config.Config, string, error) {
	cfgPath := cfgFile
	if cfgPath == "" {
		cfgPath = config.FindConfigPath("")
	}
	if cfgPath == "" {
		return nil, "", fmt.Errorf("no configuration file found (use --config or add .github/labeler-bot.yaml)")
	}

	cfg, err := config.LoadWithInheritance(cfgPath, configFetcher())
	if err != nil {
		return nil, cfgPath, err
	}
	return cfg, cfgPath, nil
}

// loadConfigOrDefault loads the configuration, falling back to an empty
// config with a warning when loading fails. Pipeline commands keep running
// so the gatekeeper and loader steps can report the situation per item.
func loadConfigOrDefault() *config.Config {
	cfgPath := cfgFile
	if cfgPath == "" {
		cfgPath = config.FindConfigPath("")
	}
	if cfgPath == "" {
		if verbose {
			fmt.Println("No configuration file found. Using defaults and environment variables.")
		}
		return &config.Config{}
	}

	cfg, err := config.LoadWithInheritance(cfgPath, configFetcher())
	if err != nil {
		fmt.Printf("Warning: Failed to load config from %s: %v. Proceeding with defaults.\n", cfgPath, err)
		return &config.Config{}
	}
	if verbose {
		fmt.Printf("Loaded config from %s\n", cfgPath)
	}
	return cfg
}
