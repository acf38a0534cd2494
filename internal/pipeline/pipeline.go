// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline wires the four stages together. Each stage reads the
// previous stage's artifact from disk, so any stage can also be run on
// its own against an existing file.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pdiddy/scholarbot/internal/completion"
	"github.com/pdiddy/scholarbot/internal/dataset"
	"github.com/pdiddy/scholarbot/internal/insight"
	"github.com/pdiddy/scholarbot/internal/observability"
	"github.com/pdiddy/scholarbot/internal/relatedwork"
	"github.com/pdiddy/scholarbot/internal/search"
	"github.com/pdiddy/scholarbot/internal/summarize"
	"github.com/pdiddy/scholarbot/pkg/types"
)

// Runner executes pipeline stages with explicitly supplied clients.
type Runner struct {
	Searcher  search.Searcher
	Condenser summarize.Condenser
	Completer completion.Completer
	Config    *types.Config
	Logger    zerolog.Logger
}

// New builds a Runner with the production clients described by cfg.
func New(cfg *types.Config, logger zerolog.Logger) (*Runner, error) {
	condenser, err := summarize.NewCondenser(cfg.Summarizer, logger)
	if err != nil {
		return nil, err
	}
	return &Runner{
		Searcher:  search.NewSemanticScholar(nil, cfg.Search, logger),
		Condenser: condenser,
		Completer: completion.NewClient(cfg.Completion, logger),
		Config:    cfg,
		Logger:    logger,
	}, nil
}

// Report describes one full run.
type Report struct {
	RunID       string
	Topic       string
	Paths       dataset.TopicPaths
	RelatedWork string
	Result      completion.Result
	Started     time.Time
	Finished    time.Time
}

// Collect runs the retrieval stage for topic. A limit <= 0 uses the
// configured maximum.
func (r *Runner) Collect(ctx context.Context, topic string, limit int) (string, error) {
	if limit <= 0 {
		limit = r.Config.Search.MaxResults
	}
	logger := observability.WithTopic(observability.WithStage(r.Logger, types.StageCollect), topic)
	return search.Collect(ctx, r.Searcher, topic, limit, r.Config.Output.Dir, logger)
}

// Summarize runs the summarize stage on a Paper dataset.
func (r *Runner) Summarize(ctx context.Context, papersPath string) (string, error) {
	logger := observability.WithStage(r.Logger, types.StageSummarize)
	return summarize.Summarize(ctx, r.Condenser, papersPath, summarize.OptionsFrom(r.Config.Summarizer), logger)
}

// Insights runs the insights stage on a Summarized dataset.
func (r *Runner) Insights(ctx context.Context, summarizedPath string) (string, error) {
	logger := observability.WithStage(r.Logger, types.StageInsights)
	opts := insight.Options{SkipPlaceholders: r.Config.Insights.SkipPlaceholderSummaries}
	return insight.Generate(ctx, r.Completer, summarizedPath, opts, logger)
}

// RelatedWork runs the synthesis stage on an Insights dataset. An empty
// outPath writes the configured document under the output directory.
func (r *Runner) RelatedWork(ctx context.Context, insightsPath, outPath string) (string, completion.Result, error) {
	if outPath == "" {
		outPath = r.RelatedWorkPath()
	}
	logger := observability.WithStage(r.Logger, types.StageRelatedWork)
	res, err := relatedwork.Synthesize(ctx, r.Completer, insightsPath, outPath, logger)
	return outPath, res, err
}

// RelatedWorkPath returns the configured document path.
func (r *Runner) RelatedWorkPath() string {
	return filepath.Join(r.Config.Output.Dir, r.Config.Output.RelatedWorkFile)
}

// Run executes all four stages for topic in order and stops at the first
// stage that fails.
func (r *Runner) Run(ctx context.Context, topic string, limit int) (*Report, error) {
	rep := &Report{
		RunID:   uuid.NewString(),
		Topic:   topic,
		Started: time.Now().UTC(),
	}
	r.Logger.Info().Str("run_id", rep.RunID).Str("topic", topic).Msg("pipeline started")

	var err error
	if rep.Paths.Papers, err = r.Collect(ctx, topic, limit); err != nil {
		return rep, fmt.Errorf("%s: %w", types.StageCollect, err)
	}
	if rep.Paths.Summarized, err = r.Summarize(ctx, rep.Paths.Papers); err != nil {
		return rep, fmt.Errorf("%s: %w", types.StageSummarize, err)
	}
	if rep.Paths.Insights, err = r.Insights(ctx, rep.Paths.Summarized); err != nil {
		return rep, fmt.Errorf("%s: %w", types.StageInsights, err)
	}
	if rep.RelatedWork, rep.Result, err = r.RelatedWork(ctx, rep.Paths.Insights, ""); err != nil {
		return rep, fmt.Errorf("%s: %w", types.StageRelatedWork, err)
	}

	rep.Finished = time.Now().UTC()
	r.Logger.Info().
		Str("run_id", rep.RunID).
		Dur("elapsed", rep.Finished.Sub(rep.Started)).
		Msg("pipeline finished")
	return rep, nil
}
