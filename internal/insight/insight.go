// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package insight derives key insights and a research hypothesis for each
// summary through the completion service and writes the Insights dataset.
package insight

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pdiddy/scholarbot/internal/completion"
	"github.com/pdiddy/scholarbot/internal/dataset"
	"github.com/pdiddy/scholarbot/internal/summarize"
	"github.com/pdiddy/scholarbot/pkg/types"
)

const promptTemplate = `Based on this literature summary, format your output with clear headings:

Summary:
%s

1. Key Insights (3 points)
2. Research Hypothesis (1 point)`

// Prompt returns the insight request for one summary.
func Prompt(summary string) string {
	return fmt.Sprintf(promptTemplate, summary)
}

// Options controls an insights run.
type Options struct {
	// SkipPlaceholders treats the "no abstract" summary placeholder as an
	// empty summary, so no completion call is made for it.
	SkipPlaceholders bool
}

// Generate reads the Summarized dataset at inPath, adds an
// insights_hypotheses column and writes the result with the _insights
// suffix. It returns the output path.
//
// Rows are processed one at a time. A failed call stores the result's
// sentinel text for that row and the batch continues.
func Generate(ctx context.Context, c completion.Completer, inPath string, opts Options, logger zerolog.Logger) (string, error) {
	tbl, err := dataset.ReadFile(inPath)
	if err != nil {
		return "", err
	}

	out, err := Table(ctx, c, tbl, opts, logger)
	if err != nil {
		return "", fmt.Errorf("generating insights for %s: %w", inPath, err)
	}

	outPath := dataset.InsightsPath(inPath)
	if err := out.WriteFile(outPath); err != nil {
		return "", err
	}
	logger.Info().Int("rows", out.Len()).Str("path", outPath).Msg("insights written")
	return outPath, nil
}

// Table returns a copy of tbl with an insights_hypotheses column. A table
// without a summary column yields an empty value for every row.
func Table(ctx context.Context, c completion.Completer, tbl *dataset.Table, opts Options, logger zerolog.Logger) (*dataset.Table, error) {
	if !tbl.Has(types.ColSummary) {
		logger.Warn().Msg("input has no summary column; every row is treated as empty")
	}
	summaries := tbl.Column(types.ColSummary)

	results := make([]string, len(summaries))
	failed := 0
	for i, summary := range summaries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rowLog := logger.With().Int("row", i).Logger()

		s := strings.TrimSpace(summary)
		if s == summarize.PlaceholderNoAbstract {
			if opts.SkipPlaceholders {
				s = ""
			} else {
				rowLog.Warn().Msg("sending no-abstract placeholder to the insight service")
			}
		}
		if s == "" {
			continue
		}

		res := c.Complete(ctx, Prompt(summary))
		if !res.OK() {
			failed++
			rowLog.Warn().Str("kind", res.Kind.String()).Msg("insight generation failed")
		}
		results[i] = res.Text()
	}
	if failed > 0 {
		logger.Warn().Int("failed", failed).Int("rows", len(summaries)).Msg("some insight requests failed")
	}

	out := tbl.Clone()
	if err := out.SetColumn(types.ColInsights, results); err != nil {
		return nil, err
	}
	return out, nil
}
