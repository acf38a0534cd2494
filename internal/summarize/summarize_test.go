// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarize

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/scholarbot/internal/dataset"
	"github.com/pdiddy/scholarbot/pkg/types"
)

// fakeCondenser echoes a prefix of its input and fails on inputs
// containing "FAIL".
type fakeCondenser struct {
	mu     sync.Mutex
	inputs []string
	bounds []Bounds
}

func (f *fakeCondenser) Condense(_ context.Context, text string, b Bounds) (string, error) {
	f.mu.Lock()
	f.inputs = append(f.inputs, text)
	f.bounds = append(f.bounds, b)
	f.mu.Unlock()
	if strings.Contains(text, "FAIL") {
		return "", errors.New("model unavailable")
	}
	return "sum:" + text[:min(10, len(text))], nil
}

func writePapers(t *testing.T, rows ...[]string) string {
	t.Helper()
	tbl := dataset.New(types.PaperColumns...)
	for _, r := range rows {
		tbl.Append(r)
	}
	path := filepath.Join(t.TempDir(), "gnn_papers.csv")
	require.NoError(t, tbl.WriteFile(path))
	return path
}

func paperRow(title, abstract string) []string {
	return []string{title, "A. Author", abstract, "2020", "Venue", "", ""}
}

var testOpts = Options{Workers: 4, MaxInputChars: 2000, Bounds: Bounds{Min: 50, Max: 60}}

func TestSummarizePreservesOrderAndPlaceholders(t *testing.T) {
	in := writePapers(t,
		paperRow("P1", "First abstract about graphs."),
		paperRow("P2", ""),
		paperRow("P3", "   "),
		paperRow("P4", "This one will FAIL."),
		paperRow("P5", "Fifth abstract text."),
	)
	fc := &fakeCondenser{}

	out, err := Summarize(context.Background(), fc, in, testOpts, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, strings.TrimSuffix(in, ".csv")+"_summarized.csv", out)

	tbl, err := dataset.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, append(append([]string{}, types.PaperColumns...), types.ColSummary), tbl.Header)
	require.Equal(t, 5, tbl.Len())

	assert.Equal(t, []string{"P1", "P2", "P3", "P4", "P5"}, tbl.Column(types.ColTitle))
	assert.Equal(t, []string{
		"sum:First abst",
		PlaceholderNoAbstract,
		PlaceholderNoAbstract,
		"Error summarizing: model unavailable",
		"sum:Fifth abst",
	}, tbl.Column(types.ColSummary))

	// Empty abstracts never reach the condenser.
	fc.mu.Lock()
	assert.Len(t, fc.inputs, 3)
	for _, b := range fc.bounds {
		assert.Equal(t, Bounds{Min: 50, Max: 60}, b)
	}
	fc.mu.Unlock()
}

func TestPlaceholderText(t *testing.T) {
	// Later stages and existing artifacts compare against these exact strings.
	assert.Equal(t, "No abstract available for summarization.", PlaceholderNoAbstract)
	assert.Equal(t, "Error summarizing: boom", ErrorPlaceholder(errors.New("boom")))
}

func TestSummarizeTruncatesInput(t *testing.T) {
	long := strings.Repeat("é", 2500)
	in := writePapers(t, paperRow("P1", long))
	fc := &fakeCondenser{}

	_, err := Summarize(context.Background(), fc, in, testOpts, zerolog.Nop())
	require.NoError(t, err)

	fc.mu.Lock()
	defer fc.mu.Unlock()
	require.Len(t, fc.inputs, 1)
	assert.Equal(t, 2000, len([]rune(fc.inputs[0])))
}

func TestSummarizeMissingAbstractColumn(t *testing.T) {
	tbl := dataset.New("title", "authors")
	tbl.Append([]string{"P1", "A"})
	in := filepath.Join(t.TempDir(), "x_papers.csv")
	require.NoError(t, tbl.WriteFile(in))

	_, err := Summarize(context.Background(), &fakeCondenser{}, in, testOpts, zerolog.Nop())
	assert.ErrorIs(t, err, dataset.ErrMissingColumn)

	_, statErr := os.Stat(dataset.SummarizedPath(in))
	assert.True(t, os.IsNotExist(statErr))
}

func TestSummarizeMissingInput(t *testing.T) {
	_, err := Summarize(context.Background(), &fakeCondenser{}, filepath.Join(t.TempDir(), "nope.csv"), testOpts, zerolog.Nop())
	assert.Error(t, err)
}

func TestSummarizeEmptyTable(t *testing.T) {
	in := writePapers(t)
	out, err := Summarize(context.Background(), &fakeCondenser{}, in, testOpts, zerolog.Nop())
	require.NoError(t, err)

	tbl, err := dataset.ReadFile(out)
	require.NoError(t, err)
	assert.Zero(t, tbl.Len())
	assert.True(t, tbl.Has(types.ColSummary))
}

func TestSummarizeIdempotentOnUnchangedInput(t *testing.T) {
	in := writePapers(t,
		paperRow("P1", "Graph networks learn node embeddings. They aggregate neighbor features. Results improve."),
		paperRow("P2", ""),
	)

	out1, err := Summarize(context.Background(), Extractive{}, in, testOpts, zerolog.Nop())
	require.NoError(t, err)
	first, err := os.ReadFile(out1)
	require.NoError(t, err)

	out2, err := Summarize(context.Background(), Extractive{}, in, testOpts, zerolog.Nop())
	require.NoError(t, err)
	second, err := os.ReadFile(out2)
	require.NoError(t, err)

	assert.Equal(t, out1, out2)
	assert.Equal(t, string(first), string(second))
}

func TestSummarizeCancelled(t *testing.T) {
	in := writePapers(t, paperRow("P1", "Some abstract."))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Summarize(ctx, &fakeCondenser{}, in, testOpts, zerolog.Nop())
	assert.ErrorIs(t, err, context.Canceled)

	_, statErr := os.Stat(dataset.SummarizedPath(in))
	assert.True(t, os.IsNotExist(statErr))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abcdef", 3))
	assert.Equal(t, "abc", Truncate("abc", 3))
	assert.Equal(t, "abc", Truncate("abc", 0))
	assert.Equal(t, "日本", Truncate("日本語", 2))
}

func TestOptionsFrom(t *testing.T) {
	cfg := types.DefaultConfig().Summarizer
	cfg.Workers = 3
	assert.Equal(t, Options{Workers: 3, MaxInputChars: 2000, Bounds: Bounds{Min: 50, Max: 60}}, OptionsFrom(cfg))
}

func TestNewCondenser(t *testing.T) {
	cfg := types.DefaultConfig().Summarizer

	c, err := NewCondenser(cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, Extractive{}, c)

	cfg.Backend = types.SummarizerHuggingFace
	c, err = NewCondenser(cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &HuggingFace{}, c)

	cfg.Backend = "bogus"
	_, err = NewCondenser(cfg, zerolog.Nop())
	assert.Error(t, err)
}
