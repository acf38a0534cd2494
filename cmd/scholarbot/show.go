// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/scholarbot/internal/dataset"
)

var showCmd = &cobra.Command{
	Use:   "show <papers|summaries|insights|related-work>",
	Short: "Display a stage's artifact",
	Long: `Show renders an existing artifact for --topic: the papers table, the
per-paper summaries or insights, or the related-work document. A missing
artifact is reported as a warning. With --csv, show summaries writes the
summarized CSV to stdout unchanged.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"papers", "summaries", "insights", "related-work"},
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, _ := cmd.Flags().GetString("topic")
		p := newPrinter()

		if args[0] == "related-work" {
			path, _ := cmd.Flags().GetString("input")
			if path == "" {
				path = filepath.Join(cfg.Output.Dir, cfg.Output.RelatedWorkFile)
			}
			p.RelatedWork(path)
			return nil
		}

		if topic == "" {
			return fmt.Errorf("provide --topic")
		}
		paths := dataset.PathsFor(cfg.Output.Dir, topic)

		switch args[0] {
		case "papers":
			p.Papers(paths.Papers)
		case "summaries":
			if asCSV, _ := cmd.Flags().GetBool("csv"); asCSV {
				return p.CSV(paths.Summarized)
			}
			p.Summaries(paths.Summarized)
		case "insights":
			p.Insights(paths.Insights)
		default:
			return fmt.Errorf("unknown artifact %q", args[0])
		}
		return nil
	},
}

func init() {
	showCmd.Flags().String("topic", "", "research topic")
	showCmd.Flags().String("input", "", "related-work document path (default <output-dir>/related_work.md)")
	showCmd.Flags().Bool("csv", false, "write the summarized CSV to stdout (summaries only)")
	rootCmd.AddCommand(showCmd)
}
