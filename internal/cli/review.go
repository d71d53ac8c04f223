package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sprite-ai/prrev/internal/engine"
	"github.com/sprite-ai/prrev/internal/provider"
	"github.com/sprite-ai/prrev/internal/render"
)

var reviewCmd = &cobra.Command{
	Use:   "review <owner>/<repo> <number>",
	Short: "Review a pull request on GitHub or GitLab",
	Long: `Fetch a pull request from the configured provider, review its
changed files, and print the scored report. With --post, the review
is also posted back as comments.

Examples:
  prrev review acme/widgets 42
  prrev review --provider gitlab acme/widgets 17
  prrev review --post acme/widgets 42`,
	Args: cobra.ExactArgs(2),
	RunE: runReview,
}

func init() {
	reviewCmd.Flags().String("provider", "github", "git hosting provider: github, gitlab, bitbucket, fake")
	reviewCmd.Flags().Bool("post", false, "post the review back to the provider")
	reviewCmd.Flags().StringP("format", "f", "text", "output format: text, json, markdown")
	reviewCmd.Flags().StringP("output", "o", "", "also write the full result as JSON to a file")
}

func runReview(cmd *cobra.Command, args []string) error {
	owner, repo, found := strings.Cut(args[0], "/")
	if !found || owner == "" || repo == "" {
		return fmt.Errorf("expected <owner>/<repo>, got %q", args[0])
	}
	number, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid PR number %q", args[1])
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	disableAIWithoutKey(&cfg)

	providerName, _ := cmd.Flags().GetString("provider")
	pcfg := cfg.Providers[providerName]
	client, err := provider.New(providerName, pcfg.BaseURL, pcfg.Token)
	if err != nil {
		return err
	}

	eng, err := engine.New(cfg)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Reviewing %s/%s#%d via %s...\n", owner, repo, number, client.Name())

	res, err := eng.ReviewPull(cmd.Context(), client, owner, repo, number)
	if err != nil {
		return err
	}
	if len(res.Degraded) > 0 {
		fmt.Fprintf(os.Stderr, "Warning: AI analysis degraded for %d file(s)\n", len(res.Degraded))
	}

	if outPath, _ := cmd.Flags().GetString("output"); outPath != "" {
		out, err := render.JSON(res)
		if err != nil {
			return err
		}
		if err := os.WriteFile(outPath, []byte(out), 0644); err != nil {
			return fmt.Errorf("writing result: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Result written to %s\n", outPath)
	}

	title := ""
	if res.PR != nil {
		title = fmt.Sprintf("%s (#%d)", res.PR.Title, res.PR.Number)
	}

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "json":
		out, err := render.JSON(res)
		if err != nil {
			return err
		}
		fmt.Print(out)
	case "markdown":
		fmt.Print(render.Markdown(res.Report, title))
	default:
		fmt.Print(render.Text(res.Report, title))
	}

	post, _ := cmd.Flags().GetBool("post")
	if post || cfg.Review.PostReviews {
		comments := eng.BuildComments(res)
		if err := client.PostReview(cmd.Context(), owner, repo, number, comments); err != nil {
			return fmt.Errorf("posting review: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Posted %d comment(s)\n", len(comments))
	}

	return nil
}
