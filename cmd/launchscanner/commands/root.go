package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"launchscanner/internal/app"
	"launchscanner/internal/config"
	"launchscanner/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:           "launchscanner",
	Short:         "launchscanner builds and enriches a dataset of indie-startup launches.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// ExecuteContext runs the CLI; any command error exits with status 1.
func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func buildApp() (*app.Application, config.Config) {
	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)
	return app.New(cfg, logger), cfg
}
