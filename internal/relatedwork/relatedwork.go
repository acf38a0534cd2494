// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package relatedwork combines the per-paper insights into one "Related
// Work" document with a single completion call.
package relatedwork

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pdiddy/scholarbot/internal/completion"
	"github.com/pdiddy/scholarbot/internal/dataset"
	"github.com/pdiddy/scholarbot/pkg/types"
)

// DefaultOutput is the document written when no path is given.
const DefaultOutput = "related_work.md"

const promptTemplate = "Using the following research insights, write a 300-word 'Related Work' section for an academic paper:\n\n%s"

// Prompt returns the synthesis request for the combined insights.
func Prompt(combined string) string {
	return fmt.Sprintf(promptTemplate, combined)
}

// Combine joins the non-empty insight values in row order with a blank line
// between them.
func Combine(insights []string) string {
	parts := make([]string, 0, len(insights))
	for _, s := range insights {
		if strings.TrimSpace(s) != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n\n")
}

// Synthesize reads the Insights dataset at inPath, makes exactly one
// completion call and writes the returned text to outPath, replacing any
// earlier document. A failed call writes the sentinel text. The input must
// have an insights_hypotheses column.
func Synthesize(ctx context.Context, c completion.Completer, inPath, outPath string, logger zerolog.Logger) (completion.Result, error) {
	tbl, err := dataset.ReadFile(inPath)
	if err != nil {
		return completion.Result{}, err
	}
	if err := tbl.Require(types.ColInsights); err != nil {
		return completion.Result{}, fmt.Errorf("synthesizing related work from %s: %w", inPath, err)
	}
	if outPath == "" {
		outPath = DefaultOutput
	}

	insights := tbl.Column(types.ColInsights)
	combined := Combine(insights)
	if combined == "" {
		logger.Warn().Int("rows", len(insights)).Msg("no insights to synthesize; sending an empty prompt body")
	}

	res := c.Complete(ctx, Prompt(combined))
	if !res.OK() {
		logger.Warn().Str("kind", res.Kind.String()).Msg("related work synthesis failed")
	}

	err = dataset.WriteAtomic(outPath, func(w io.Writer) error {
		_, err := io.WriteString(w, res.Text())
		return err
	})
	if err != nil {
		return res, err
	}
	logger.Info().Str("path", outPath).Msg("related work written")
	return res, nil
}
