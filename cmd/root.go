package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/movie-collector/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "movie-collector",
	Short: "Collect movie metadata into raw and prepared tables",
	Long: `Downloads movie metadata for a range of catalog ids, persists the raw table,
projects and enriches it (genre indicators, release date parts) and persists
the prepared table. Without a subcommand it runs a fresh download.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := c.Validate(); err != nil {
			return fmt.Errorf("validate config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(cmd, true)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
