package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/eleven-am/cortexview/internal/bootstrap"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cortexview",
	Short: "Capture a window, detect visual change and ask an AI model about it.",
	Long: `cortexview captures a display or window region, skips frames that have not
changed enough, and sends the rest to a vision model under a persona prompt.

Configuration comes from the environment (and .env), the same keys the server reads.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("loglevel", "l", "", "Override LOG_LEVEL. Available: debug, info, warn, error")
	rootCmd.PersistentFlags().String("prompts", "", "Override PROMPTS_DIR")
}

// loadConfig reads the environment and applies global flag overrides.
func loadConfig(cmd *cobra.Command) (*bootstrap.Config, *slog.Logger, error) {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	if level, _ := cmd.Flags().GetString("loglevel"); level != "" {
		cfg.LogLevel = level
	}
	if dir, _ := cmd.Flags().GetString("prompts"); dir != "" {
		cfg.PromptsDir = dir
	}
	return cfg, bootstrap.ProvideLogger(cfg), nil
}
