package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sprite-ai/prrev/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP server exposing the prrev review engine.

Endpoints:
  GET  /health      — Health check
  POST /api/review  — Review a diff and return the scored report
  POST /api/score   — Score pre-computed findings
  GET  /api/ws      — WebSocket streaming per-file review progress`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("addr", "a", "", "address to listen on (default from config)")
	serveCmd.Flags().IntP("port", "p", 0, "port to listen on (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	disableAIWithoutKey(&cfg)

	addr := cfg.Server.Addr
	port := cfg.Server.Port
	if v, _ := cmd.Flags().GetString("addr"); v != "" {
		addr = v
	}
	if v, _ := cmd.Flags().GetInt("port"); v != 0 {
		port = v
	}

	srv := api.New(fmt.Sprintf("%s:%d", addr, port), cfg)
	return srv.ListenAndServe()
}
