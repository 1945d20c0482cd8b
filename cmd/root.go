package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/perception-cli/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "perception-cli",
	Short: "Brand perception monitoring across LLM providers",
	Long:  "Queries multiple LLM providers about a brand, normalizes the answers into tagged mentions, citations, and bounded ratings, and aggregates them into a cross-model consensus view.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
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
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
