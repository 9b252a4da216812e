package main

import (
	"fmt"
	"os"

	"github.com/eazyque/eazyque-api/internal/config"
	"github.com/eazyque/eazyque-api/internal/logger"
	"github.com/spf13/cobra"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "eazyque-api",
	Short: "EazyQue point of sale API",
	Long: `EazyQue is the point of sale backend for Indian retail counters.

It computes GST, takes orders against live stock and keeps an audit
trail of every stock movement.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
}

// loadConfig reads configuration and applies the log settings
func loadConfig() *config.Config {
	cfg := config.Load()
	if err := logger.Setup(cfg.Log.Level, cfg.Log.Format); err != nil {
		logger.WithComponent("cmd").WithError(err).Warn("invalid log level, keeping default")
	}
	return cfg
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.WithComponent("cmd").WithError(err).Error("command execution failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
