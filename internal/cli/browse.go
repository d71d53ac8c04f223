package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sprite-ai/prrev/internal/engine"
	"github.com/sprite-ai/prrev/internal/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse <result.json>",
	Short: "Browse a saved review result interactively",
	Long: `Open an interactive TUI over a review result saved with
'prrev check -o' or 'prrev review -o'.`,
	Args: cobra.ExactArgs(1),
	RunE: runBrowse,
}

func runBrowse(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading result: %w", err)
	}

	var res engine.Result
	if err := json.Unmarshal(data, &res); err != nil {
		return fmt.Errorf("parsing result: %w", err)
	}
	if len(res.Files) == 0 {
		fmt.Println("No files in result.")
		return nil
	}

	return tui.Run(&res)
}
