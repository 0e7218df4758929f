package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/antopolskiy/taskboard/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the board as a JSON API",
	Long: `Starts an HTTP server exposing the board under /api: tasks, moves,
subtasks, custom fields, packages, stats and CSV export. The address
defaults to server.addr from the config. Stops on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = cfg.Server.Addr
	}

	st := openStore(cfg)
	if _, err := st.Load(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return api.New(st, logger).Run(ctx, addr)
}
