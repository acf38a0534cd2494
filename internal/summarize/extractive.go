// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarize

import (
	"context"
	"strings"

	"github.com/didasy/tldr"
)

// Extractive condenses text in-process by keeping its highest-ranked
// sentences. Sentences are ranked with tldr (a PageRank-style graph over
// sentence similarity) and returned in their original order. Word counts
// stand in for tokens. The output is deterministic for a given input and
// bounds.
type Extractive struct{}

// Condense implements Condenser. It asks tldr for one more sentence at a
// time until the selection reaches b.Min words or the text runs out, then
// trims the result to b.Max words.
func (Extractive) Condense(ctx context.Context, text string, b Bounds) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", nil
	}

	minWords := b.Min
	if b.Max > 0 && minWords > b.Max {
		minWords = b.Max
	}

	// A Bag holds per-text state, so each ranking gets a fresh one.
	bag := tldr.New()
	first, err := bag.Summarize(text, 1)
	if err != nil || len(first) == 0 {
		// Too little text to rank; keep it whole.
		return limitWords(text, b.Max), nil
	}
	total := len(bag.OriginalSentences)

	best := strings.Join(first, " ")
	for n := 2; n <= total && wordCount(best) < minWords; n++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		picked, err := tldr.New().Summarize(text, n)
		if err != nil {
			break
		}
		joined := strings.Join(picked, " ")
		if wordCount(joined) <= wordCount(best) {
			break
		}
		best = joined
	}
	return limitWords(best, b.Max), nil
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}

// limitWords cuts s to at most max whitespace-separated words.
func limitWords(s string, max int) string {
	fields := strings.Fields(s)
	if max <= 0 || len(fields) <= max {
		return strings.Join(fields, " ")
	}
	return strings.Join(fields[:max], " ")
}
