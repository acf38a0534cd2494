// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search retrieves candidate papers for a topic and writes them as
// the Paper dataset, the first artifact of the pipeline.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pdiddy/scholarbot/internal/dataset"
	"github.com/pdiddy/scholarbot/pkg/types"
)

// DefaultLimit is the number of results requested when none is configured.
const DefaultLimit = 20

// ErrNoResults is returned when the search succeeds but finds nothing.
var ErrNoResults = errors.New("no papers found for this query")

// ErrEmptyTopic is returned for a blank topic.
var ErrEmptyTopic = errors.New("topic is empty: provide a research topic")

// StatusError reports a non-success response from the search service.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("search API request failed with HTTP %d: %s", e.StatusCode, e.Body)
}

// Searcher finds papers for a topic.
type Searcher interface {
	Search(ctx context.Context, topic string, limit int) ([]types.Paper, error)
}

// Collect searches for topic and writes the Paper dataset to
// dir/<sanitized-topic>_papers.csv, replacing any earlier file. It returns
// the artifact path. Nothing is written when the search fails or finds no
// papers.
func Collect(ctx context.Context, s Searcher, topic string, limit int, dir string, logger zerolog.Logger) (string, error) {
	if strings.TrimSpace(topic) == "" {
		return "", ErrEmptyTopic
	}

	papers, err := s.Search(ctx, topic, limit)
	if err != nil {
		return "", err
	}
	if len(papers) == 0 {
		return "", ErrNoResults
	}
	if limit > 0 && len(papers) > limit {
		papers = papers[:limit]
	}

	tbl := Table(papers)
	path := dataset.PapersPath(dir, topic)
	if err := tbl.WriteFile(path); err != nil {
		return "", err
	}

	logger.Info().
		Int("papers", len(papers)).
		Str("path", path).
		Msg("papers collected")
	return path, nil
}

// Table converts papers into a Paper dataset with exactly the seven
// paper columns, one row per paper in order.
func Table(papers []types.Paper) *dataset.Table {
	tbl := dataset.New(types.PaperColumns...)
	for _, p := range papers {
		tbl.Append(p.Row())
	}
	return tbl
}
