// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pdiddy/scholarbot/internal/httputil"
	"github.com/pdiddy/scholarbot/pkg/types"
)

// semanticFields is the field selection sent with every search.
const semanticFields = "title,abstract,authors,year,venue,url,externalIds"

// maxErrorBody bounds how much of a failed response is kept for reporting.
const maxErrorBody = 64 << 10

// SemanticScholar queries the Semantic Scholar Graph API paper search.
type SemanticScholar struct {
	// Retry governs resends after HTTP 429.
	Retry httputil.RetryPolicy

	client *http.Client
	cfg    types.SearchConfig
	logger zerolog.Logger
}

// NewSemanticScholar returns a client for the API rooted at cfg.BaseURL.
// A nil client gets one with cfg.Timeout.
func NewSemanticScholar(client *http.Client, cfg types.SearchConfig, logger zerolog.Logger) *SemanticScholar {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &SemanticScholar{
		Retry:  httputil.RetryPolicy{MaxAttempts: 3, Delay: httputil.DefaultRetryDelay},
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

// Search returns up to limit papers for topic in the order the API ranks
// them. A limit <= 0 uses the configured MaxResults, then 20.
func (s *SemanticScholar) Search(ctx context.Context, topic string, limit int) ([]types.Paper, error) {
	if limit <= 0 {
		limit = s.cfg.MaxResults
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	params := url.Values{
		"query":  {topic},
		"limit":  {strconv.Itoa(limit)},
		"fields": {semanticFields},
	}
	reqURL := strings.TrimRight(s.cfg.BaseURL, "/") + "/paper/search?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if s.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", s.cfg.UserAgent)
	}
	if s.cfg.APIKey != "" {
		req.Header.Set("x-api-key", s.cfg.APIKey)
	}

	resp, _, err := httputil.DoWithRetry(ctx, s.client, req, s.Retry, s.logger)
	if err != nil {
		return nil, fmt.Errorf("Semantic Scholar API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var sr semanticResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing Semantic Scholar response: %w", err)
	}

	papers := make([]types.Paper, 0, len(sr.Data))
	for _, p := range sr.Data {
		papers = append(papers, p.toPaper())
	}
	return papers, nil
}

func (p semanticPaper) toPaper() types.Paper {
	names := make([]string, 0, len(p.Authors))
	for _, a := range p.Authors {
		names = append(names, a.Name)
	}

	year := ""
	if p.Year != nil {
		year = strconv.Itoa(*p.Year)
	}

	return types.Paper{
		Title:    p.Title,
		Authors:  strings.Join(names, ", "),
		Abstract: p.Abstract,
		Year:     year,
		Venue:    p.Venue,
		DOI:      p.ExternalIDs.DOI,
		URL:      p.URL,
	}
}

// Semantic Scholar API JSON structures.
type semanticResponse struct {
	Total  int             `json:"total"`
	Offset int             `json:"offset"`
	Data   []semanticPaper `json:"data"`
}

type semanticPaper struct {
	PaperID     string              `json:"paperId"`
	Title       string              `json:"title"`
	Abstract    string              `json:"abstract"`
	Year        *int                `json:"year"`
	Venue       string              `json:"venue"`
	URL         string              `json:"url"`
	Authors     []semanticAuthor    `json:"authors"`
	ExternalIDs semanticExternalIDs `json:"externalIds"`
}

type semanticAuthor struct {
	AuthorID string `json:"authorId"`
	Name     string `json:"name"`
}

type semanticExternalIDs struct {
	DOI   string `json:"DOI"`
	ArXiv string `json:"ArXiv"`
}
