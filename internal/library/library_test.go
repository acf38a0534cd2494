// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/scholarbot/internal/dataset"
	"github.com/pdiddy/scholarbot/pkg/types"
)

func testStore(t *testing.T) (*Store, string) {
	t.Helper()
	tmp := t.TempDir()
	s, err := NewStore(types.LibraryConfig{Dir: filepath.Join(tmp, "library"), MaxResults: 20}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	out := filepath.Join(tmp, "out")
	require.NoError(t, os.MkdirAll(out, 0o755))
	return s, out
}

func writeInsightsArtifact(t *testing.T, dir, topic string, rows ...[]string) string {
	t.Helper()
	header := append(append([]string{}, types.PaperColumns...), types.ColSummary, types.ColInsights)
	tbl := dataset.New(header...)
	for _, r := range rows {
		tbl.Append(r)
	}
	path := dataset.PathsFor(dir, topic).Insights
	require.NoError(t, tbl.WriteFile(path))
	return path
}

func gnnRows() [][]string {
	return [][]string{
		{"Graph Convolutional Networks", "Thomas Kipf", "Spectral convolutions on graphs.", "2017", "ICLR", "10.1/gcn", "u1", "GCN summary.", "Insight about spectral filters."},
		{"Graph Attention Networks", "Petar Velickovic", "", "2018", "ICLR", "", "u2", "No abstract available for summarization.", "Insight about attention."},
	}
}

func TestIndexAndSearch(t *testing.T) {
	s, dir := testStore(t)
	ctx := context.Background()
	writeInsightsArtifact(t, dir, "graph neural networks", gnnRows()...)
	rw := filepath.Join(dir, "related_work.md")
	require.NoError(t, os.WriteFile(rw, []byte("Related work text."), 0o644))

	res, err := s.Index(ctx, dir, "graph neural networks", rw)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Entries)
	assert.False(t, res.Skipped)
	assert.False(t, res.Updated)
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, dataset.PathsFor(dir, "graph neural networks").Insights, res.Source)

	got, err := s.Search(ctx, QueryOptions{Query: "spectral"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Graph Convolutional Networks", got[0].Title)
	assert.Equal(t, "graph neural networks", got[0].Topic)
	assert.Equal(t, "GCN summary.", got[0].Summary)
	assert.Equal(t, "Insight about spectral filters.", got[0].Insights)

	got, err = s.Search(ctx, QueryOptions{Query: "attention"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].Position)

	runs, err := s.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 2, runs[0].Entries)
	assert.Equal(t, "Related work text.", runs[0].RelatedWork)
}

func TestIndexFallsBackToPapers(t *testing.T) {
	s, dir := testStore(t)
	tbl := dataset.New(types.PaperColumns...)
	tbl.Append(types.Paper{Title: "Only Papers", Year: "2020"}.Row())
	require.NoError(t, tbl.WriteFile(dataset.PapersPath(dir, "gnn")))

	res, err := s.Index(context.Background(), dir, "gnn", "")
	require.NoError(t, err)
	assert.Equal(t, dataset.PapersPath(dir, "gnn"), res.Source)

	got, err := s.Search(context.Background(), QueryOptions{Topic: "gnn"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Empty(t, got[0].Summary)
}

func TestIndexNoArtifacts(t *testing.T) {
	s, dir := testStore(t)
	_, err := s.Index(context.Background(), dir, "missing", "")
	assert.ErrorIs(t, err, ErrNoArtifacts)
}

func TestIndexIncremental(t *testing.T) {
	s, dir := testStore(t)
	ctx := context.Background()
	path := writeInsightsArtifact(t, dir, "gnn", gnnRows()...)

	first, err := s.Index(ctx, dir, "gnn", "")
	require.NoError(t, err)

	again, err := s.Index(ctx, dir, "gnn", "")
	require.NoError(t, err)
	assert.True(t, again.Skipped)
	assert.Equal(t, first.RunID, again.RunID)

	// Rewrite with one row and a newer mtime.
	writeInsightsArtifact(t, dir, "gnn", gnnRows()[0])
	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, later, later))

	updated, err := s.Index(ctx, dir, "gnn", "")
	require.NoError(t, err)
	assert.True(t, updated.Updated)
	assert.NotEqual(t, first.RunID, updated.RunID)

	got, err := s.Search(ctx, QueryOptions{Topic: "gnn"})
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = s.Search(ctx, QueryOptions{Query: "attention"})
	require.NoError(t, err)
	assert.Empty(t, got, "replaced entries leave the full-text index")
}

func TestSearchFilters(t *testing.T) {
	s, dir := testStore(t)
	ctx := context.Background()
	writeInsightsArtifact(t, dir, "gnn", gnnRows()...)
	writeInsightsArtifact(t, dir, "transformers",
		[]string{"Attention Is All You Need", "Ashish Vaswani", "Attention only.", "2017", "NeurIPS", "", "u3", "s", "i"},
	)
	_, err := s.Index(ctx, dir, "gnn", "")
	require.NoError(t, err)
	_, err = s.Index(ctx, dir, "transformers", "")
	require.NoError(t, err)

	got, err := s.Search(ctx, QueryOptions{Query: "attention"})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = s.Search(ctx, QueryOptions{Query: "attention", Topic: "transformers"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Attention Is All You Need", got[0].Title)

	got, err = s.Search(ctx, QueryOptions{Year: "2017"})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = s.Search(ctx, QueryOptions{MaxResults: 1})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestExportYAMLAndJSON(t *testing.T) {
	s, dir := testStore(t)
	ctx := context.Background()
	writeInsightsArtifact(t, dir, "gnn", gnnRows()...)
	_, err := s.Index(ctx, dir, "gnn", "")
	require.NoError(t, err)

	yamlPath, err := s.ExportYAML(ctx, QueryOptions{})
	require.NoError(t, err)
	data, err := os.ReadFile(yamlPath)
	require.NoError(t, err)
	var fromYAML Export
	require.NoError(t, yaml.Unmarshal(data, &fromYAML))
	require.Len(t, fromYAML.Entries, 2)
	assert.Equal(t, "Graph Convolutional Networks", fromYAML.Entries[0].Title)
	require.Len(t, fromYAML.Runs, 1)

	jsonPath, err := s.ExportJSON(ctx, QueryOptions{Topic: "other"})
	require.NoError(t, err)
	data, err = os.ReadFile(jsonPath)
	require.NoError(t, err)
	var fromJSON Export
	require.NoError(t, json.Unmarshal(data, &fromJSON))
	assert.Empty(t, fromJSON.Entries)
	assert.Empty(t, fromJSON.Runs)
}
