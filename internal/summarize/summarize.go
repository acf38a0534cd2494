// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package summarize condenses each paper abstract into a short summary and
// writes the Summarized dataset. Rows are processed concurrently but the
// output keeps input row order, and a failing row never aborts the batch.
package summarize

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/pdiddy/scholarbot/internal/dataset"
	"github.com/pdiddy/scholarbot/internal/parallel"
	"github.com/pdiddy/scholarbot/pkg/types"
)

// PlaceholderNoAbstract is the summary stored for rows without an abstract.
const PlaceholderNoAbstract = "No abstract available for summarization."

// ErrorPrefix starts the summary stored for rows whose condensation failed.
const ErrorPrefix = "Error summarizing: "

// ErrorPlaceholder returns the summary stored when condensing fails.
func ErrorPlaceholder(err error) string {
	return ErrorPrefix + err.Error()
}

// Bounds is the target summary length in tokens.
type Bounds struct {
	Min int
	Max int
}

// Condenser produces a summary of text within the given bounds.
type Condenser interface {
	Condense(ctx context.Context, text string, b Bounds) (string, error)
}

// Options controls a summarize run.
type Options struct {
	// Workers bounds concurrent condensations. Zero means one per CPU.
	Workers int

	// MaxInputChars truncates each abstract before condensing.
	MaxInputChars int

	Bounds Bounds
}

// OptionsFrom builds Options from the summarizer config.
func OptionsFrom(cfg types.SummarizerConfig) Options {
	return Options{
		Workers:       cfg.Workers,
		MaxInputChars: cfg.MaxInputChars,
		Bounds:        Bounds{Min: cfg.MinLength, Max: cfg.MaxLength},
	}
}

// Summarize reads the Paper dataset at inPath, adds a summary column and
// writes the result next to it with the _summarized suffix. It returns the
// output path. Nothing is written if the input is unreadable, lacks the
// abstract column, or ctx is cancelled.
func Summarize(ctx context.Context, c Condenser, inPath string, opts Options, logger zerolog.Logger) (string, error) {
	tbl, err := dataset.ReadFile(inPath)
	if err != nil {
		return "", err
	}

	out, err := Table(ctx, c, tbl, opts, logger)
	if err != nil {
		return "", fmt.Errorf("summarizing %s: %w", inPath, err)
	}

	outPath := dataset.SummarizedPath(inPath)
	if err := out.WriteFile(outPath); err != nil {
		return "", err
	}
	logger.Info().Int("rows", out.Len()).Str("path", outPath).Msg("summaries written")
	return outPath, nil
}

// Table returns a copy of tbl with a summary column holding one summary per
// row, in row order.
func Table(ctx context.Context, c Condenser, tbl *dataset.Table, opts Options, logger zerolog.Logger) (*dataset.Table, error) {
	if err := tbl.Require(types.ColAbstract); err != nil {
		return nil, err
	}

	abstracts := tbl.Column(types.ColAbstract)
	summaries, err := parallel.Map(ctx, abstracts, opts.Workers, func(ctx context.Context, i int, abstract string) string {
		return summarizeOne(ctx, c, abstract, opts, logger.With().Int("row", i).Logger())
	})
	if err != nil {
		return nil, err
	}

	out := tbl.Clone()
	if err := out.SetColumn(types.ColSummary, summaries); err != nil {
		return nil, err
	}
	return out, nil
}

func summarizeOne(ctx context.Context, c Condenser, abstract string, opts Options, logger zerolog.Logger) string {
	if strings.TrimSpace(abstract) == "" {
		return PlaceholderNoAbstract
	}

	summary, err := c.Condense(ctx, Truncate(abstract, opts.MaxInputChars), opts.Bounds)
	if err != nil {
		logger.Warn().Err(err).Msg("condensing abstract failed")
		return ErrorPlaceholder(err)
	}
	return summary
}

// Truncate returns at most n characters of s. A non-positive n leaves s
// unchanged.
func Truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
