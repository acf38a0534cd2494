// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/scholarbot/internal/library"
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Manage the local library of pipeline results (index, search, export)",
	Long: `Library keeps a SQLite index of collected papers together with their
summaries and insights, so results from earlier topics can be searched with
full-text queries and exported.`,
}

// --- index subcommand ---

var libraryIndexCmd = &cobra.Command{
	Use:   "index <topic...>",
	Short: "Record a topic's artifacts in the library",
	Long: `Index reads the most complete CSV artifact for the topic (insights, then
summarized, then papers) and the related-work document, and stores them in
the library. A topic whose artifact is unchanged since the last index is
skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return indexTopic(cmd, strings.Join(args, " "), "")
	},
}

// indexTopic records topic in the library. An empty relatedWork uses the
// configured document path.
func indexTopic(cmd *cobra.Command, topic, relatedWork string) error {
	store, err := library.NewStore(cfg.Library, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	if relatedWork == "" {
		relatedWork = filepath.Join(cfg.Output.Dir, cfg.Output.RelatedWorkFile)
	}
	res, err := store.Index(cmd.Context(), cfg.Output.Dir, topic, relatedWork)
	if err != nil {
		return err
	}

	switch {
	case res.Skipped:
		fmt.Printf("skipped %s (unchanged)\n", topic)
	case res.Updated:
		fmt.Printf("updated %s (%d papers from %s)\n", topic, res.Entries, res.Source)
	default:
		fmt.Printf("indexed %s (%d papers from %s)\n", topic, res.Entries, res.Source)
	}
	return nil
}

// --- search subcommand ---

var librarySearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the library with full-text queries and filters",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := queryOptsFromFlags(cmd, args)
		if opts.Query == "" && opts.Topic == "" && opts.Year == "" {
			return fmt.Errorf("query or filter required: provide a search query, --topic, or --year")
		}

		store, err := library.NewStore(cfg.Library, logger)
		if err != nil {
			return err
		}
		defer store.Close()

		results, err := store.Search(cmd.Context(), opts)
		if err != nil {
			return err
		}

		jsonOutput, _ := cmd.Flags().GetBool("json")
		return formatSearchOutput(results, jsonOutput)
	},
}

func formatSearchOutput(results []library.Entry, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-50s  %-4s  %-24s  %s\n", "Rank", "Title", "Year", "Topic", "DOI")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))
	for i, r := range results {
		fmt.Fprintf(os.Stdout, "%-4d  %-50s  %-4s  %-24s  %s\n",
			i+1, shorten(r.Title, 50), r.Year, shorten(r.Topic, 24), r.DOI)
	}
	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
	return nil
}

func shorten(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// --- export subcommand ---

var libraryExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the library to YAML or JSON",
	Long: `Export writes the library (or a filtered subset) to export.yaml or
export.json in the library directory. Supports the same filter flags as
search for partial exports.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		store, err := library.NewStore(cfg.Library, logger)
		if err != nil {
			return err
		}
		defer store.Close()

		opts := queryOptsFromFlags(cmd, args)

		var path string
		switch format {
		case "yaml", "":
			path, err = store.ExportYAML(cmd.Context(), opts)
		case "json":
			path, err = store.ExportJSON(cmd.Context(), opts)
		default:
			return fmt.Errorf("unsupported format %q: use yaml or json", format)
		}
		if err != nil {
			return err
		}
		fmt.Println("Exported to", path)
		return nil
	},
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) library.QueryOptions {
	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) > 0 {
		queryText = strings.Join(args, " ")
	}
	topic, _ := cmd.Flags().GetString("topic")
	year, _ := cmd.Flags().GetString("year")
	limit, _ := cmd.Flags().GetInt("limit")

	return library.QueryOptions{
		Query:      queryText,
		Topic:      topic,
		Year:       year,
		MaxResults: limit,
	}
}

func init() {
	for _, c := range []*cobra.Command{librarySearchCmd, libraryExportCmd} {
		c.Flags().String("query", "", "full-text search query")
		c.Flags().String("topic", "", "filter by indexed topic")
		c.Flags().String("year", "", "filter by publication year")
	}
	librarySearchCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	librarySearchCmd.Flags().Bool("json", false, "output results as JSON")
	libraryExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	libraryCmd.AddCommand(libraryIndexCmd, librarySearchCmd, libraryExportCmd)
	rootCmd.AddCommand(libraryCmd)
}
