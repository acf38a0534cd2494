// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/scholarbot/internal/config"
	"github.com/pdiddy/scholarbot/internal/dataset"
	"github.com/pdiddy/scholarbot/internal/display"
	"github.com/pdiddy/scholarbot/internal/pipeline"
	"github.com/pdiddy/scholarbot/pkg/types"
)

// newRunner validates cfg for stages and builds the production runner.
func newRunner(stages ...types.Stage) (*pipeline.Runner, error) {
	if err := config.Validate(cfg, stages...); err != nil {
		return nil, err
	}
	return pipeline.New(cfg, logger)
}

func newPrinter() *display.Printer {
	return display.New(os.Stdout, logger)
}

// inputPath resolves a stage's input from --input, or from --topic using
// the artifact naming scheme.
func inputPath(cmd *cobra.Command, pick func(dataset.TopicPaths) string) (string, error) {
	if in, _ := cmd.Flags().GetString("input"); in != "" {
		return in, nil
	}
	topic, _ := cmd.Flags().GetString("topic")
	if strings.TrimSpace(topic) == "" {
		return "", fmt.Errorf("provide --topic or --input")
	}
	return pick(dataset.PathsFor(cfg.Output.Dir, topic)), nil
}

func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().String("topic", "", "research topic whose artifact to read")
	cmd.Flags().String("input", "", "explicit input CSV path (overrides --topic)")
}

// --- collect ---

var collectCmd = &cobra.Command{
	Use:   "collect <topic...>",
	Short: "Search Semantic Scholar and write the papers CSV",
	Long: `Collect queries the Semantic Scholar paper search for the topic and writes
<topic>_papers.csv with columns title, authors, abstract, year, venue, doi
and url. An existing file for the same topic is replaced.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := newRunner(types.StageCollect)
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")
		path, err := r.Collect(cmd.Context(), strings.Join(args, " "), limit)
		if err != nil {
			return err
		}
		newPrinter().Papers(path)
		return nil
	},
}

// --- summarize ---

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Condense each abstract into a short summary",
	Long: `Summarize reads a papers CSV and writes <input>_summarized.csv with a
summary column. Rows without an abstract get a placeholder; rows that fail
get an error message. Abstracts are condensed concurrently.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := inputPath(cmd, func(p dataset.TopicPaths) string { return p.Papers })
		if err != nil {
			return err
		}
		r, err := newRunner(types.StageSummarize)
		if err != nil {
			return err
		}
		out, err := r.Summarize(cmd.Context(), in)
		if err != nil {
			return err
		}
		newPrinter().Summaries(out)
		return nil
	},
}

// --- insights ---

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Generate key insights and a hypothesis per summary",
	Long: `Insights reads a summarized CSV and writes <input>_insights.csv with an
insights_hypotheses column. Each non-empty summary costs one completion
request; failures are recorded in the row as [[API_ERROR: ...]] text.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := inputPath(cmd, func(p dataset.TopicPaths) string { return p.Summarized })
		if err != nil {
			return err
		}
		r, err := newRunner(types.StageInsights)
		if err != nil {
			return err
		}
		out, err := r.Insights(cmd.Context(), in)
		if err != nil {
			return err
		}
		newPrinter().Insights(out)
		return nil
	},
}

// --- related-work ---

var relatedWorkCmd = &cobra.Command{
	Use:   "related-work",
	Short: "Synthesize a Related Work section from all insights",
	Long: `Related-work joins every non-empty insight from an insights CSV, asks the
completion service for a ~300-word Related Work section, and writes the
response to related_work.md (or --output).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := inputPath(cmd, func(p dataset.TopicPaths) string { return p.Insights })
		if err != nil {
			return err
		}
		r, err := newRunner(types.StageRelatedWork)
		if err != nil {
			return err
		}
		outFlag, _ := cmd.Flags().GetString("output")
		out, _, err := r.RelatedWork(cmd.Context(), in, outFlag)
		if err != nil {
			return err
		}
		newPrinter().RelatedWork(out)
		return nil
	},
}

// --- run ---

var runCmd = &cobra.Command{
	Use:   "run <topic...>",
	Short: "Run all four stages for a topic",
	Long: `Run collects papers for the topic, summarizes them, generates insights and
writes the related-work section, stopping at the first stage that fails.
With --index the results are also recorded in the local library.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := newRunner(types.AllStages...)
		if err != nil {
			return err
		}
		topic := strings.Join(args, " ")
		limit, _ := cmd.Flags().GetInt("limit")

		rep, err := r.Run(cmd.Context(), topic, limit)
		if err != nil {
			return err
		}

		p := newPrinter()
		p.Papers(rep.Paths.Papers)
		p.Summaries(rep.Paths.Summarized)
		p.Insights(rep.Paths.Insights)
		p.RelatedWork(rep.RelatedWork)

		if index, _ := cmd.Flags().GetBool("index"); index {
			return indexTopic(cmd, topic, rep.RelatedWork)
		}
		return nil
	},
}

func init() {
	collectCmd.Flags().Int("limit", 0, "maximum number of papers (default from config, 20)")

	addInputFlags(summarizeCmd)
	addInputFlags(insightsCmd)
	addInputFlags(relatedWorkCmd)
	relatedWorkCmd.Flags().String("output", "", "document path (default <output-dir>/related_work.md)")

	runCmd.Flags().Int("limit", 0, "maximum number of papers (default from config, 20)")
	runCmd.Flags().Bool("index", false, "record the results in the local library")

	rootCmd.AddCommand(collectCmd, summarizeCmd, insightsCmd, relatedWorkCmd, runCmd)
}
