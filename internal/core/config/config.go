// Package config handles loading and merging labeler configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/labelgh/labeler-bot/internal/rules"
)

// Config is the root configuration structure.
type Config struct {
	// Extends allows inheriting from a remote config (e.g., "org/repo@branch").
	Extends string `yaml:"extends,omitempty"`

	// Workflow is a preset workflow name (e.g., "auto-label").
	Workflow string `yaml:"workflow,omitempty"`

	// Steps is a custom list of pipeline steps (overrides workflow).
	Steps []string `yaml:"steps,omitempty"`

	// Defaults contains default behavior settings.
	Defaults DefaultsConfig `yaml:"defaults"`

	// BotUsers lists additional usernames treated as bots and skipped.
	BotUsers []string `yaml:"bot_users,omitempty"`

	// Repositories lists the repositories this config applies to.
	Repositories []RepositoryConfig `yaml:"repositories,omitempty"`

	// Rules are the labeling rule declarations, in evaluation order.
	Rules []rules.RuleDecl `yaml:"rules,omitempty"`
}

// DefaultsConfig holds default behavior settings.
type DefaultsConfig struct {
	// Actions lists the event actions that trigger labeling.
	Actions []string `yaml:"actions,omitempty"`
}

// RepositoryConfig defines a repository and its settings.
type RepositoryConfig struct {
	Org     string `yaml:"org"`
	Repo    string `yaml:"repo"`
	Enabled bool   `yaml:"enabled"`
}

// Load reads a config file from the given path and expands environment variables.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return parseRaw(data)
}

// parseRaw parses config YAML after expanding environment variables.
func parseRaw(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, nil
}

// LoadWithInheritance loads a config and resolves the 'extends' chain.
// The fetcher function is used to retrieve remote configs.
func LoadWithInheritance(path string, fetcher func(ref string) ([]byte, error)) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if cfg.Extends == "" {
		return cfg, nil
	}

	// Fetch and parse the parent config
	parentData, err := fetcher(cfg.Extends)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch parent config '%s': %w", cfg.Extends, err)
	}

	expanded := os.ExpandEnv(string(parentData))
	var parentCfg Config
	if err := yaml.Unmarshal([]byte(expanded), &parentCfg); err != nil {
		return nil, fmt.Errorf("failed to parse parent config: %w", err)
	}

	// Merge: child overrides parent
	merged := mergeConfigs(&parentCfg, cfg)
	merged.applyDefaults()

	return merged, nil
}

// FindConfigPath searches for a config file in standard locations.
func FindConfigPath(explicit string) string {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit
		}
		return ""
	}

	// Search in common locations
	candidates := []string{
		".github/labeler-bot.yaml",
		".github/labeler-bot.yml",
		".labeler-bot.yaml",
		".labeler-bot.yml",
	}

	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			abs, _ := filepath.Abs(c)
			return abs
		}
	}

	return ""
}

// applyDefaults sets default values for unset fields.
func (c *Config) applyDefaults() {
	if len(c.Defaults.Actions) == 0 {
		c.Defaults.Actions = []string{"opened", "edited", "reopened"}
	}
}

// mergeConfigs merges a child config onto a parent config.
// Non-zero values in child override parent.
func mergeConfigs(parent, child *Config) *Config {
	result := *parent

	// String fields: override if non-empty
	if child.Workflow != "" {
		result.Workflow = child.Workflow
	}
	if len(child.Steps) > 0 {
		result.Steps = child.Steps
	}

	// Defaults: override if set
	if len(child.Defaults.Actions) > 0 {
		result.Defaults.Actions = child.Defaults.Actions
	}

	// Bot users: child completely overrides if non-empty
	if len(child.BotUsers) > 0 {
		result.BotUsers = child.BotUsers
	}

	// Repositories: child completely overrides if non-empty
	if len(child.Repositories) > 0 {
		result.Repositories = child.Repositories
	}

	// Rules: child completely overrides if non-empty. Rule lists are ordered,
	// so merging entries from two files would scramble evaluation order.
	if len(child.Rules) > 0 {
		result.Rules = child.Rules
	}

	return &result
}

// ParseExtendsRef parses "org/repo@branch" into components.
func ParseExtendsRef(ref string) (org, repo, branch, path string, err error) {
	// Format: org/repo@branch or org/repo@branch:path
	parts := strings.SplitN(ref, "@", 2)
	if len(parts) != 2 {
		return "", "", "", "", fmt.Errorf("invalid extends reference: %s (expected org/repo@branch)", ref)
	}

	orgRepo := strings.SplitN(parts[0], "/", 2)
	if len(orgRepo) != 2 {
		return "", "", "", "", fmt.Errorf("invalid extends reference: %s (expected org/repo)", ref)
	}

	org = orgRepo[0]
	repo = orgRepo[1]

	// Check for path
	branchPath := strings.SplitN(parts[1], ":", 2)
	branch = branchPath[0]
	if len(branchPath) == 2 {
		path = branchPath[1]
	} else {
		path = ".github/labeler-bot.yaml" // default path
	}

	return org, repo, branch, path, nil
}
