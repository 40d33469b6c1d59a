package main

import (
	"encoding/json"
	"io"
	"mime"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/resume-intel/internal/doctext"
	"github.com/sells-group/resume-intel/internal/pipeline"
	"github.com/sells-group/resume-intel/pkg/github"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Analyze a resume file (or stdin) and print the result as JSON",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var text string
		if len(args) == 1 {
			payload, err := os.ReadFile(args[0])
			if err != nil {
				return eris.Wrapf(err, "analyze: read %s", args[0])
			}
			mediaType := mime.TypeByExtension(filepath.Ext(args[0]))
			svc := doctext.New(cfg.DocText.PdfToTextPath)
			text = svc.Extract(ctx, payload, mediaType, args[0])
		} else {
			raw, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return eris.Wrap(err, "analyze: read stdin")
			}
			text = string(raw)
		}

		gh := github.NewClient(cfg.GitHub.Token, github.WithBaseURL(cfg.GitHub.BaseURL))
		result, err := pipeline.New(gh).AnalyzeText(ctx, text)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return eris.Wrap(err, "analyze: encode result")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}
