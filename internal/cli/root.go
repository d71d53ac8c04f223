// Package cli implements the prrev command line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sprite-ai/prrev/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "prrev",
	Short: "AI-assisted pull request review",
	Long: `prrev reviews code changes with static checks and an AI backend,
scores the result per category, and can post the review back to
GitHub or GitLab.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "path to config file (default .prrev.yaml if present)")

	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig builds the effective configuration for a command run.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// disableAIWithoutKey turns AI analysis off when no key is available,
// with a note on stderr so the downgrade is visible.
func disableAIWithoutKey(cfg *config.Config) {
	if cfg.AI.Enabled && cfg.AI.APIKey == "" {
		fmt.Fprintln(os.Stderr, "No AI API key configured; running static analysis only.")
		cfg.AI.Enabled = false
	}
}
