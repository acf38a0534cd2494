// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/scholarbot/internal/dataset"
)

// Export is the document written by ExportYAML and ExportJSON.
type Export struct {
	Runs    []Run   `json:"runs" yaml:"runs"`
	Entries []Entry `json:"entries" yaml:"entries"`
}

const exportLimit = 100000

// ExportYAML writes the library to dir/export.yaml and returns the path.
// It supports the same filters as Search.
func (s *Store) ExportYAML(ctx context.Context, opts QueryOptions) (string, error) {
	doc, err := s.export(ctx, opts)
	if err != nil {
		return "", err
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	return s.writeExport("export.yaml", data)
}

// ExportJSON writes the library to dir/export.json and returns the path.
// It supports the same filters as Search.
func (s *Store) ExportJSON(ctx context.Context, opts QueryOptions) (string, error) {
	doc, err := s.export(ctx, opts)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	return s.writeExport("export.json", data)
}

func (s *Store) writeExport(name string, data []byte) (string, error) {
	path := filepath.Join(s.dir, name)
	err := dataset.WriteAtomic(path, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
	return path, err
}

func (s *Store) export(ctx context.Context, opts QueryOptions) (*Export, error) {
	opts.MaxResults = exportLimit
	entries, err := s.Search(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}

	runs, err := s.Runs(ctx)
	if err != nil {
		return nil, err
	}
	if opts.Topic != "" {
		filtered := runs[:0]
		for _, r := range runs {
			if r.Topic == opts.Topic {
				filtered = append(filtered, r)
			}
		}
		runs = filtered
	}

	if entries == nil {
		entries = []Entry{}
	}
	if runs == nil {
		runs = []Run{}
	}
	return &Export{Runs: runs, Entries: entries}, nil
}
