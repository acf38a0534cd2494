// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the scholarbot pipeline:
// the Paper record produced by retrieval, the artifact column names shared
// by every stage, and the pipeline configuration.
package types

// Column names used in the tabular artifacts. The first seven make up the
// Paper dataset; each later stage appends exactly one column.
const (
	ColTitle    = "title"
	ColAuthors  = "authors"
	ColAbstract = "abstract"
	ColYear     = "year"
	ColVenue    = "venue"
	ColDOI      = "doi"
	ColURL      = "url"

	// ColSummary is appended by the summarize stage.
	ColSummary = "summary"

	// ColInsights is appended by the insights stage.
	ColInsights = "insights_hypotheses"
)

// PaperColumns is the exact column set of the Paper dataset, in order.
var PaperColumns = []string{ColTitle, ColAuthors, ColAbstract, ColYear, ColVenue, ColDOI, ColURL}

// Paper holds the metadata for one search result. One Paper becomes one row
// of the Paper dataset and is never modified after it is written.
type Paper struct {
	// Title is the paper title.
	Title string `json:"title" yaml:"title"`

	// Authors is the author list joined into a single display string
	// (e.g. "Ashish Vaswani, Noam Shazeer").
	Authors string `json:"authors" yaml:"authors"`

	// Abstract is the paper abstract. Empty when the source has none.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Year is the publication year, empty when unknown.
	Year string `json:"year" yaml:"year"`

	// Venue is the journal or conference.
	Venue string `json:"venue" yaml:"venue"`

	// DOI is the Digital Object Identifier from the source's external IDs.
	DOI string `json:"doi" yaml:"doi"`

	// URL is the source landing page for the paper.
	URL string `json:"url" yaml:"url"`
}

// Row returns the paper's fields in PaperColumns order.
func (p Paper) Row() []string {
	return []string{p.Title, p.Authors, p.Abstract, p.Year, p.Venue, p.DOI, p.URL}
}
