package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/joestump/tool-advisor/internal/config"
	"github.com/joestump/tool-advisor/internal/logging"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "tool-advisor",
		Short:         "Machining tool recommendation front-end",
		Long:          "Tool Advisor: a web form and CLI for the machining tool recommendation server.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newOptionsCmd())
	rootCmd.AddCommand(newRecommendCmd())
	rootCmd.AddCommand(newVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration and builds the logger every command
// shares.
func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}
