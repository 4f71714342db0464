package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jameela786/pubmed-papers/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "pubmed-papers",
	Short: "Fetch PubMed papers with pharma/biotech-affiliated authors",
	Long:  "Searches PubMed, fetches matching records, classifies author affiliations as academic or commercial, and exports papers that have at least one industry author.",
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
