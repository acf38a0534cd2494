// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarize

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gcnAbstract = `We present a scalable approach for semi-supervised learning on graph-structured data that is based on an efficient variant of convolutional neural networks which operate directly on graphs. We motivate the choice of our convolutional architecture via a localized first-order approximation of spectral graph convolutions. Our model scales linearly in the number of graph edges and learns hidden layer representations that encode both local graph structure and features of nodes. In a number of experiments on citation networks and on a knowledge graph dataset we demonstrate that our approach outperforms related methods by a significant margin.`

func TestExtractiveWithinBounds(t *testing.T) {
	got, err := Extractive{}.Condense(context.Background(), gcnAbstract, Bounds{Min: 50, Max: 60})
	require.NoError(t, err)

	n := len(strings.Fields(got))
	assert.LessOrEqual(t, n, 60)
	assert.GreaterOrEqual(t, n, 50)
}

func TestExtractiveDeterministic(t *testing.T) {
	a, err := Extractive{}.Condense(context.Background(), gcnAbstract, Bounds{Min: 20, Max: 40})
	require.NoError(t, err)
	b, err := Extractive{}.Condense(context.Background(), gcnAbstract, Bounds{Min: 20, Max: 40})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestExtractiveKeepsWordsFromSource(t *testing.T) {
	got, err := Extractive{}.Condense(context.Background(), gcnAbstract, Bounds{Min: 10, Max: 60})
	require.NoError(t, err)
	require.NotEmpty(t, got)

	for _, w := range strings.Fields(got) {
		assert.Contains(t, gcnAbstract, w)
	}
}

func TestExtractiveShortInputStaysShort(t *testing.T) {
	got, err := Extractive{}.Condense(context.Background(), "Short abstract. Two sentences!", Bounds{Min: 50, Max: 60})
	require.NoError(t, err)

	require.NotEmpty(t, got)
	assert.LessOrEqual(t, len(strings.Fields(got)), 4)
	assert.Contains(t, got, "abstract")
}

func TestExtractiveEmptyInput(t *testing.T) {
	got, err := Extractive{}.Condense(context.Background(), "  \n ", Bounds{Min: 50, Max: 60})
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestExtractiveCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Extractive{}.Condense(ctx, gcnAbstract, Bounds{Min: 50, Max: 60})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLimitWords(t *testing.T) {
	assert.Equal(t, "a b", limitWords("a  b c", 2))
	assert.Equal(t, "a b c", limitWords("a b c", 0))
}
