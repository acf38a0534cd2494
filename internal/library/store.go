// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package library keeps a local SQLite index of pipeline results so papers,
// summaries and insights from earlier topics can be searched and exported.
package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/pdiddy/scholarbot/internal/dataset"
	"github.com/pdiddy/scholarbot/pkg/types"
)

const dbFile = "library.db"

// ErrNoArtifacts is returned when a topic has no dataset to index.
var ErrNoArtifacts = errors.New("no artifacts found for topic")

// Store manages the library SQLite database.
type Store struct {
	db         *sql.DB
	dir        string
	maxResults int
	logger     zerolog.Logger
}

// NewStore opens or creates the library database at cfg.Dir/library.db and
// creates the schema if it does not exist.
func NewStore(cfg types.LibraryConfig, logger zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating library directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, dir: cfg.Dir, maxResults: maxResults, logger: logger}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			topic TEXT NOT NULL UNIQUE,
			source_path TEXT NOT NULL,
			source_mod_time TEXT NOT NULL,
			related_work TEXT,
			indexed_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS entries (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			title TEXT,
			authors TEXT,
			abstract TEXT,
			year TEXT,
			venue TEXT,
			doi TEXT,
			url TEXT,
			summary TEXT,
			insights TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_run_id ON entries(run_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='entries_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}
	if ftsExists > 0 {
		return nil
	}

	ftsStatements := []string{
		`CREATE VIRTUAL TABLE entries_fts USING fts5(title, abstract, summary, insights, content=entries, content_rowid=rowid)`,
		`CREATE TRIGGER entries_ai AFTER INSERT ON entries BEGIN
			INSERT INTO entries_fts(rowid, title, abstract, summary, insights)
			VALUES (new.rowid, new.title, new.abstract, new.summary, new.insights);
		END`,
		`CREATE TRIGGER entries_ad AFTER DELETE ON entries BEGIN
			INSERT INTO entries_fts(entries_fts, rowid, title, abstract, summary, insights)
			VALUES ('delete', old.rowid, old.title, old.abstract, old.summary, old.insights);
		END`,
	}
	for _, stmt := range ftsStatements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("creating FTS infrastructure: %w", err)
		}
	}
	return nil
}

// IndexResult reports what Index did for one topic.
type IndexResult struct {
	RunID   string
	Source  string
	Entries int
	Skipped bool
	Updated bool
}

// Index records the most complete dataset available for topic under dir
// (insights, then summarized, then papers), plus the related-work document
// when relatedWorkPath exists. A topic whose source file is unchanged since
// the last index is skipped; a changed one replaces the earlier entries.
func (s *Store) Index(ctx context.Context, dir, topic, relatedWorkPath string) (IndexResult, error) {
	paths := dataset.PathsFor(dir, topic)

	var (
		source string
		info   os.FileInfo
	)
	for _, p := range []string{paths.Insights, paths.Summarized, paths.Papers} {
		fi, err := os.Stat(p)
		if err == nil {
			source, info = p, fi
			break
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return IndexResult{}, err
		}
	}
	if source == "" {
		return IndexResult{}, fmt.Errorf("%w: %q in %s", ErrNoArtifacts, topic, dir)
	}
	modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

	var prevID, prevSource, prevMod string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, source_path, source_mod_time FROM runs WHERE topic = ?`, topic,
	).Scan(&prevID, &prevSource, &prevMod)
	switch {
	case err == nil && prevSource == source && prevMod == modTime:
		s.logger.Debug().Str("topic", topic).Msg("library entry up to date")
		return IndexResult{RunID: prevID, Source: source, Skipped: true}, nil
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return IndexResult{}, fmt.Errorf("looking up topic: %w", err)
	}
	updated := err == nil

	tbl, err := dataset.ReadFile(source)
	if err != nil {
		return IndexResult{}, err
	}

	var relatedWork string
	if relatedWorkPath != "" {
		if b, err := os.ReadFile(relatedWorkPath); err == nil {
			relatedWork = string(b)
		}
	}

	res := IndexResult{RunID: uuid.NewString(), Source: source, Entries: tbl.Len(), Updated: updated}
	if err := s.insertRun(ctx, res.RunID, topic, source, modTime, relatedWork, tbl); err != nil {
		return IndexResult{}, err
	}

	s.logger.Info().
		Str("topic", topic).
		Str("run_id", res.RunID).
		Int("entries", res.Entries).
		Bool("updated", updated).
		Msg("topic indexed")
	return res, nil
}

func (s *Store) insertRun(ctx context.Context, runID, topic, source, modTime, relatedWork string, tbl *dataset.Table) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM entries WHERE run_id IN (SELECT id FROM runs WHERE topic = ?)`, topic); err != nil {
		return fmt.Errorf("deleting old entries: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE topic = ?`, topic); err != nil {
		return fmt.Errorf("deleting old run: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, topic, source_path, source_mod_time, related_work, indexed_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		runID, topic, source, modTime, relatedWork, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO entries (run_id, position, title, authors, abstract, year, venue, doi, url, summary, insights)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i := range tbl.Rows {
		_, err := stmt.ExecContext(ctx,
			runID, i,
			tbl.Get(i, types.ColTitle), tbl.Get(i, types.ColAuthors), tbl.Get(i, types.ColAbstract),
			tbl.Get(i, types.ColYear), tbl.Get(i, types.ColVenue), tbl.Get(i, types.ColDOI),
			tbl.Get(i, types.ColURL), tbl.Get(i, types.ColSummary), tbl.Get(i, types.ColInsights),
		)
		if err != nil {
			return fmt.Errorf("inserting entry %d: %w", i, err)
		}
	}

	return tx.Commit()
}
