// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dataset

import (
	"path/filepath"
	"strings"
	"unicode"
)

// Artifact name suffixes.
const (
	PapersSuffix     = "_papers"
	SummarizedSuffix = "_summarized"
	InsightsSuffix   = "_insights"
	csvExt           = ".csv"
)

// SanitizeTopic replaces every rune that is not a letter, digit, underscore,
// or hyphen with an underscore, so the topic is safe in a file name.
func SanitizeTopic(topic string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' {
			return r
		}
		return '_'
	}, topic)
}

// PapersPath returns the Paper dataset path for topic under dir,
// e.g. "out/graph_neural_networks_papers.csv".
func PapersPath(dir, topic string) string {
	return filepath.Join(dir, SanitizeTopic(topic)+PapersSuffix+csvExt)
}

// DerivedPath inserts suffix before the extension of path:
// DerivedPath("a_papers.csv", "_summarized") is "a_papers_summarized.csv".
func DerivedPath(path, suffix string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + suffix + ext
}

// SummarizedPath returns the summarize stage output path for a Paper dataset.
func SummarizedPath(papersPath string) string {
	return DerivedPath(papersPath, SummarizedSuffix)
}

// InsightsPath returns the insights stage output path for a Summarized dataset.
func InsightsPath(summarizedPath string) string {
	return DerivedPath(summarizedPath, InsightsSuffix)
}

// TopicPaths bundles the artifact paths of one topic.
type TopicPaths struct {
	Papers     string
	Summarized string
	Insights   string
}

// PathsFor returns every CSV artifact path for topic under dir.
func PathsFor(dir, topic string) TopicPaths {
	p := PapersPath(dir, topic)
	s := SummarizedPath(p)
	return TopicPaths{Papers: p, Summarized: s, Insights: InsightsPath(s)}
}
