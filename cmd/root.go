package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/resume-intel/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "resume-intel",
	Short: "GitHub identity extraction and enrichment for resumes",
	Long:  "Scans free-form resume text for GitHub handles and owner/repo mentions, picks the most confident match, and enriches it with live profile and repository metadata.",
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
