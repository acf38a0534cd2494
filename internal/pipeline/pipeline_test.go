// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/scholarbot/internal/completion"
	"github.com/pdiddy/scholarbot/internal/dataset"
	"github.com/pdiddy/scholarbot/internal/search"
	"github.com/pdiddy/scholarbot/internal/summarize"
	"github.com/pdiddy/scholarbot/pkg/types"
)

const gnnSearchResponse = `{"total":4,"offset":0,"data":[
  {"paperId":"p1","title":"Semi-Supervised Classification with Graph Convolutional Networks","abstract":"We present a scalable approach for semi-supervised learning on graph-structured data that is based on an efficient variant of convolutional neural networks which operate directly on graphs. We motivate the choice of our convolutional architecture via a localized first-order approximation of spectral graph convolutions. Our model scales linearly in the number of graph edges and learns hidden layer representations that encode both local graph structure and features of nodes. In a number of experiments on citation networks we demonstrate that our approach outperforms related methods by a significant margin.","year":2017,"venue":"ICLR","url":"https://s2/p1","authors":[{"name":"Thomas Kipf"},{"name":"Max Welling"}],"externalIds":{"DOI":"10.1/gcn"}},
  {"paperId":"p2","title":"Graph Attention Networks","abstract":null,"year":2018,"venue":"ICLR","url":"https://s2/p2","authors":[{"name":"Petar Velickovic"}],"externalIds":{}},
  {"paperId":"p3","title":"Inductive Representation Learning on Large Graphs","abstract":"Low-dimensional embeddings of nodes in large graphs have proved extremely useful. GraphSAGE generates embeddings inductively.","year":2017,"venue":"NeurIPS","url":"https://s2/p3","authors":[{"name":"William L. Hamilton"}],"externalIds":{"DOI":"10.1/sage"}},
  {"paperId":"p4","title":"How Powerful are Graph Neural Networks?","abstract":"","year":2019,"venue":"ICLR","url":"https://s2/p4","authors":[{"name":"Keyulu Xu"}],"externalIds":{}}
]}`

// countingCompleter returns a numbered insight per call and records prompts.
type countingCompleter struct {
	mu      sync.Mutex
	prompts []string
}

func (c *countingCompleter) Complete(_ context.Context, prompt string) completion.Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prompts = append(c.prompts, prompt)
	return completion.Result{Kind: completion.Success, Content: fmt.Sprintf("response %d", len(c.prompts))}
}

func newTestRunner(t *testing.T, searchURL string, cmp completion.Completer) *Runner {
	t.Helper()
	cfg := types.DefaultConfig()
	cfg.Output.Dir = t.TempDir()
	cfg.Search.BaseURL = searchURL
	cfg.Search.MaxResults = 4
	cfg.Summarizer.Workers = 2

	return &Runner{
		Searcher:  search.NewSemanticScholar(nil, cfg.Search, zerolog.Nop()),
		Condenser: summarize.Extractive{},
		Completer: cmp,
		Config:    &cfg,
		Logger:    zerolog.Nop(),
	}
}

func TestRunGraphNeuralNetworks(t *testing.T) {
	var query, limit string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query().Get("query")
		limit = r.URL.Query().Get("limit")
		fmt.Fprint(w, gnnSearchResponse)
	}))
	defer ts.Close()

	cmp := &countingCompleter{}
	r := newTestRunner(t, ts.URL, cmp)

	rep, err := r.Run(context.Background(), "graph neural networks", 0)
	require.NoError(t, err)
	assert.Equal(t, "graph neural networks", query)
	assert.Equal(t, "4", limit)
	assert.NotEmpty(t, rep.RunID)

	dir := r.Config.Output.Dir
	assert.Equal(t, dataset.PathsFor(dir, "graph neural networks"), rep.Paths)
	assert.Equal(t, filepath.Join(dir, "graph_neural_networks_papers.csv"), rep.Paths.Papers)
	assert.Equal(t, filepath.Join(dir, "graph_neural_networks_papers_summarized.csv"), rep.Paths.Summarized)
	assert.Equal(t, filepath.Join(dir, "graph_neural_networks_papers_summarized_insights.csv"), rep.Paths.Insights)

	papers, err := dataset.ReadFile(rep.Paths.Papers)
	require.NoError(t, err)
	assert.Equal(t, types.PaperColumns, papers.Header)
	require.Equal(t, 4, papers.Len())
	assert.Equal(t, "", papers.Column(types.ColAbstract)[3])

	summarized, err := dataset.ReadFile(rep.Paths.Summarized)
	require.NoError(t, err)
	require.Equal(t, 4, summarized.Len())
	summaries := summarized.Column(types.ColSummary)
	assert.Equal(t, summarize.PlaceholderNoAbstract, summaries[1])
	assert.Equal(t, summarize.PlaceholderNoAbstract, summaries[3])
	for _, i := range []int{0, 2} {
		n := len(strings.Fields(summaries[i]))
		assert.Positive(t, n, "row %d", i)
		assert.LessOrEqual(t, n, r.Config.Summarizer.MaxLength, "row %d", i)
	}
	assert.GreaterOrEqual(t, len(strings.Fields(summaries[0])), r.Config.Summarizer.MinLength)

	insights, err := dataset.ReadFile(rep.Paths.Insights)
	require.NoError(t, err)
	require.Equal(t, 4, insights.Len())
	assert.Equal(t, papers.Column(types.ColTitle), insights.Column(types.ColTitle))

	// Four insight calls (the placeholder is non-empty) plus one synthesis call.
	require.Len(t, cmp.prompts, 5)
	assert.Contains(t, cmp.prompts[1], summarize.PlaceholderNoAbstract)
	assert.Contains(t, cmp.prompts[3], summarize.PlaceholderNoAbstract)
	assert.Equal(t, []string{"response 1", "response 2", "response 3", "response 4"}, insights.Column(types.ColInsights))
	assert.True(t, strings.HasSuffix(cmp.prompts[4], "response 1\n\nresponse 2\n\nresponse 3\n\nresponse 4"))

	doc, err := os.ReadFile(filepath.Join(dir, "related_work.md"))
	require.NoError(t, err)
	assert.Equal(t, "response 5", string(doc))
	assert.Equal(t, filepath.Join(dir, "related_work.md"), rep.RelatedWork)
}

func TestRunSkipsPlaceholderWhenConfigured(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, gnnSearchResponse)
	}))
	defer ts.Close()

	cmp := &countingCompleter{}
	r := newTestRunner(t, ts.URL, cmp)
	r.Config.Insights.SkipPlaceholderSummaries = true

	rep, err := r.Run(context.Background(), "graph neural networks", 3)
	require.NoError(t, err)
	assert.Len(t, cmp.prompts, 3)

	insights, err := dataset.ReadFile(rep.Paths.Insights)
	require.NoError(t, err)
	assert.Equal(t, "", insights.Column(types.ColInsights)[1])
}

func TestRunStopsOnNoResults(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"total":0,"data":[]}`)
	}))
	defer ts.Close()

	cmp := &countingCompleter{}
	r := newTestRunner(t, ts.URL, cmp)

	_, err := r.Run(context.Background(), "nothing here", 0)
	assert.ErrorIs(t, err, search.ErrNoResults)
	assert.Contains(t, err.Error(), "collect")
	assert.Empty(t, cmp.prompts)

	entries, err := os.ReadDir(r.Config.Output.Dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRelatedWorkCustomOutput(t *testing.T) {
	cmp := &countingCompleter{}
	r := newTestRunner(t, "http://unused", cmp)

	tbl := dataset.New(types.ColTitle, types.ColInsights)
	tbl.Append([]string{"a", "x"})
	in := filepath.Join(r.Config.Output.Dir, "t_insights.csv")
	require.NoError(t, tbl.WriteFile(in))

	out := filepath.Join(r.Config.Output.Dir, "sub", "rw.md")
	path, res, err := r.RelatedWork(context.Background(), in, out)
	require.NoError(t, err)
	assert.Equal(t, out, path)
	assert.True(t, res.OK())
	assert.FileExists(t, out)
}

func TestNewBuildsClients(t *testing.T) {
	cfg := types.DefaultConfig()
	r, err := New(&cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &search.SemanticScholar{}, r.Searcher)
	assert.IsType(t, summarize.Extractive{}, r.Condenser)
	assert.IsType(t, &completion.Client{}, r.Completer)

	cfg.Summarizer.Backend = "nope"
	_, err = New(&cfg, zerolog.Nop())
	assert.Error(t, err)
}
