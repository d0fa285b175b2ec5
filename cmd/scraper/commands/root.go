package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/qepting91/reddit-harvester/internal/config"
	"github.com/spf13/cobra"
)

var (
	configPath string
	assumeYes  bool

	cfg    config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:           "scraper",
	Short:         "scraper collects highly discussed reddit posts into spreadsheets.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		logger = cfg.NewLogger(os.Stdout)
		slog.SetDefault(logger)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a config file (default ./scraper.yaml if present).")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "Never prompt; use defaults for every flag not given.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
