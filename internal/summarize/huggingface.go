// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pdiddy/scholarbot/internal/httputil"
	"github.com/pdiddy/scholarbot/pkg/types"
)

// HuggingFace condenses text with a hosted summarization model.
type HuggingFace struct {
	// Retry governs resends after HTTP 429.
	Retry httputil.RetryPolicy

	client *http.Client
	cfg    types.HuggingFaceConfig
	logger zerolog.Logger
}

// NewHuggingFace returns a condenser for cfg.BaseURL/cfg.Model.
func NewHuggingFace(cfg types.HuggingFaceConfig, logger zerolog.Logger) *HuggingFace {
	return &HuggingFace{
		Retry:  httputil.RetryPolicy{MaxAttempts: 3, Delay: httputil.DefaultRetryDelay},
		client: &http.Client{Timeout: cfg.Timeout},
		cfg:    cfg,
		logger: logger,
	}
}

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
}

type hfParameters struct {
	MinLength int  `json:"min_length"`
	MaxLength int  `json:"max_length"`
	DoSample  bool `json:"do_sample"`
}

type hfSummary struct {
	SummaryText string `json:"summary_text"`
}

type hfError struct {
	Error string `json:"error"`
}

// Condense implements Condenser.
func (h *HuggingFace) Condense(ctx context.Context, text string, b Bounds) (string, error) {
	body, err := json.Marshal(hfRequest{
		Inputs:     text,
		Parameters: hfParameters{MinLength: b.Min, MaxLength: b.Max},
	})
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	endpoint := strings.TrimRight(h.cfg.BaseURL, "/") + "/" + h.cfg.Model
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if h.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+h.cfg.APIKey)
	}
	if h.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", h.cfg.UserAgent)
	}

	resp, _, err := httputil.DoWithRetry(ctx, h.client, req, h.Retry, h.logger)
	if err != nil {
		return "", fmt.Errorf("summarization request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := string(raw)
		var he hfError
		if json.Unmarshal(raw, &he) == nil && he.Error != "" {
			msg = he.Error
		}
		return "", fmt.Errorf("summarization API returned HTTP %d: %s", resp.StatusCode, msg)
	}

	var out []hfSummary
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("parsing summarization response: %w", err)
	}
	if len(out) == 0 {
		return "", fmt.Errorf("summarization response is empty")
	}
	return strings.TrimSpace(out[0].SummaryText), nil
}

// NewCondenser returns the condenser selected by cfg.Backend.
func NewCondenser(cfg types.SummarizerConfig, logger zerolog.Logger) (Condenser, error) {
	switch cfg.Backend {
	case types.SummarizerExtractive, "":
		return Extractive{}, nil
	case types.SummarizerHuggingFace:
		return NewHuggingFace(cfg.HuggingFace, logger), nil
	default:
		return nil, fmt.Errorf("unknown summarizer backend %q", cfg.Backend)
	}
}
