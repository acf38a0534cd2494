// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package display renders pipeline artifacts for the terminal. A missing
// artifact is reported as a warning, never as an error.
package display

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rs/zerolog"

	"github.com/pdiddy/scholarbot/internal/dataset"
	"github.com/pdiddy/scholarbot/pkg/types"
)

var (
	headingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF")).Bold(true).MarginBottom(1)
	itemStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801")).Bold(true)
	bodyStyle    = lipgloss.NewStyle().PaddingLeft(3)
	headerCell   = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true).Padding(0, 1)
	cell         = lipgloss.NewStyle().Padding(0, 1)
	borderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#999999"))
)

// Columns shown in the papers table; the abstract is too long for a cell.
var paperTableColumns = []string{types.ColTitle, types.ColAuthors, types.ColYear, types.ColVenue, types.ColURL}

// maxCellWidth bounds any single cell of the papers table.
const maxCellWidth = 48

// Printer writes rendered artifacts to w.
type Printer struct {
	w      io.Writer
	logger zerolog.Logger
}

// New returns a Printer writing to w.
func New(w io.Writer, logger zerolog.Logger) *Printer {
	return &Printer{w: w, logger: logger}
}

// Papers renders the Paper dataset as a table. It reports whether the
// artifact was found.
func (p *Printer) Papers(path string) bool {
	tbl, ok := p.load(path, "papers file not found; collect papers first")
	if !ok {
		return false
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(paperTableColumns...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerCell
			}
			return cell
		})
	for i := range tbl.Rows {
		cells := make([]string, len(paperTableColumns))
		for j, c := range paperTableColumns {
			cells[j] = clip(tbl.Get(i, c), maxCellWidth)
		}
		t.Row(cells...)
	}

	fmt.Fprintln(p.w, headingStyle.Render("Collected Papers"))
	fmt.Fprintln(p.w, t.Render())
	return true
}

// Summaries renders one numbered entry per paper with its summary.
func (p *Printer) Summaries(path string) bool {
	return p.entries(path, "Summaries", types.ColSummary, "no summarized file found yet")
}

// Insights renders one numbered entry per paper with its insights.
func (p *Printer) Insights(path string) bool {
	return p.entries(path, "Insights & Hypotheses", types.ColInsights, "no insights file found")
}

// RelatedWork prints the related-work document.
func (p *Printer) RelatedWork(path string) bool {
	b, err := os.ReadFile(path)
	if err != nil {
		p.missing(path, err, "no related work section found")
		return false
	}
	fmt.Fprintln(p.w, headingStyle.Render("Related Work Section"))
	fmt.Fprintln(p.w, strings.TrimRight(string(b), "\n"))
	return true
}

// CSV copies the artifact at path to the writer unchanged.
func (p *Printer) CSV(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(p.w, f)
	return err
}

func (p *Printer) entries(path, heading, column, notFound string) bool {
	tbl, ok := p.load(path, notFound)
	if !ok {
		return false
	}

	fmt.Fprintln(p.w, headingStyle.Render(heading))
	for i := range tbl.Rows {
		fmt.Fprintln(p.w, itemStyle.Render(fmt.Sprintf("%d. %s", i+1, tbl.Get(i, types.ColTitle))))
		fmt.Fprintln(p.w, bodyStyle.Render(tbl.Get(i, column)))
		fmt.Fprintln(p.w)
	}
	return true
}

func (p *Printer) load(path, notFound string) (*dataset.Table, bool) {
	tbl, err := dataset.ReadFile(path)
	if err != nil {
		p.missing(path, err, notFound)
		return nil, false
	}
	return tbl, true
}

func (p *Printer) missing(path string, err error, notFound string) {
	if errors.Is(err, fs.ErrNotExist) {
		p.logger.Warn().Str("path", path).Msg(notFound)
		return
	}
	p.logger.Warn().Err(err).Str("path", path).Msg("artifact could not be read")
}

// clip shortens s to at most n runes, marking the cut with an ellipsis.
func clip(s string, n int) string {
	r := []rune(strings.Join(strings.Fields(s), " "))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n-1]) + "…"
}
