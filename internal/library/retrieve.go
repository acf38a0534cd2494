// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pdiddy/scholarbot/pkg/types"
)

// QueryOptions filters library lookups.
type QueryOptions struct {
	// Query is an FTS5 match expression over title, abstract, summary
	// and insights.
	Query string

	// Topic restricts results to one indexed topic.
	Topic string

	// Year restricts results to one publication year.
	Year string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// Entry is one indexed paper with the stage outputs recorded for it.
type Entry struct {
	RunID       string `json:"run_id" yaml:"run_id"`
	Topic       string `json:"topic" yaml:"topic"`
	Position    int    `json:"position" yaml:"position"`
	types.Paper `yaml:",inline"`
	Summary     string `json:"summary,omitempty" yaml:"summary,omitempty"`
	Insights    string `json:"insights,omitempty" yaml:"insights,omitempty"`
}

// Search returns entries matching opts. Full-text queries are ranked by
// relevance; filter-only queries are ordered by topic and row position.
func (s *Store) Search(ctx context.Context, opts QueryOptions) ([]Entry, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	const cols = `r.id, r.topic, e.position, e.title, e.authors, e.abstract, e.year,
		e.venue, e.doi, e.url, e.summary, e.insights`

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != ""
	)
	if useFTS {
		qb.WriteString(`SELECT ` + cols + `
			FROM entries_fts
			JOIN entries e ON e.rowid = entries_fts.rowid
			JOIN runs r ON r.id = e.run_id
			WHERE entries_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(`SELECT ` + cols + `
			FROM entries e
			JOIN runs r ON r.id = e.run_id
			WHERE 1=1`)
	}

	if opts.Topic != "" {
		qb.WriteString(` AND r.topic = ?`)
		args = append(args, opts.Topic)
	}
	if opts.Year != "" {
		qb.WriteString(` AND e.year = ?`)
		args = append(args, opts.Year)
	}

	if useFTS {
		qb.WriteString(` ORDER BY entries_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY r.topic, e.position`)
	}
	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying library: %w", err)
	}
	defer rows.Close()

	var results []Entry
	for rows.Next() {
		var (
			e        Entry
			summary  sql.NullString
			insights sql.NullString
		)
		if err := rows.Scan(
			&e.RunID, &e.Topic, &e.Position, &e.Title, &e.Authors, &e.Abstract, &e.Year,
			&e.Venue, &e.DOI, &e.URL, &summary, &insights,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		e.Summary = summary.String
		e.Insights = insights.String
		results = append(results, e)
	}
	return results, rows.Err()
}

// Run describes one indexed topic.
type Run struct {
	ID          string `json:"id" yaml:"id"`
	Topic       string `json:"topic" yaml:"topic"`
	Source      string `json:"source" yaml:"source"`
	IndexedAt   string `json:"indexed_at" yaml:"indexed_at"`
	Entries     int    `json:"entries" yaml:"entries"`
	RelatedWork string `json:"related_work,omitempty" yaml:"related_work,omitempty"`
}

// Runs lists indexed topics in alphabetical order.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT r.id, r.topic, r.source_path, r.indexed_at, r.related_work,
			(SELECT count(*) FROM entries e WHERE e.run_id = r.id)
		 FROM runs r ORDER BY r.topic`)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r  Run
			rw sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.Topic, &r.Source, &r.IndexedAt, &rw, &r.Entries); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.RelatedWork = rw.String
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
