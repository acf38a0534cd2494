// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package completion is the client for the remote chat-completion service
// used by the insights and related-work stages. Failures never surface as Go
// errors from Complete; they come back as a classified Result whose Text is
// a sentinel string safe to store in an artifact.
package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/pdiddy/scholarbot/internal/httputil"
	"github.com/pdiddy/scholarbot/pkg/types"
)

// Completer turns a prompt into generated text.
type Completer interface {
	Complete(ctx context.Context, prompt string) Result
}

// Client calls an OpenAI-compatible /chat/completions endpoint.
type Client struct {
	httpClient *http.Client
	cfg        types.CompletionConfig
	limiter    *rate.Limiter
	logger     zerolog.Logger
}

// NewClient builds a Client from cfg. When cfg.RequestsPerMinute is
// positive, calls are paced client-side to that rate.
func NewClient(cfg types.CompletionConfig, logger zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	c := &Client{
		httpClient: &http.Client{Timeout: timeout},
		cfg:        cfg,
		logger:     logger.With().Str("component", "completion").Str("model", cfg.Model).Logger(),
	}
	if cfg.RequestsPerMinute > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerMinute/60), 1)
	}
	return c
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message *struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends prompt as a single user message and classifies the answer.
// HTTP 429 is retried after the configured fixed delay, up to MaxAttempts
// calls in total.
func (c *Client) Complete(ctx context.Context, prompt string) Result {
	body, err := json.Marshal(chatRequest{
		Model:    c.cfg.Model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return Result{Kind: ServiceError, Message: fmt.Sprintf("encoding request: %v", err)}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return Result{Kind: ServiceError, Message: err.Error()}
		}
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return Result{Kind: ServiceError, Message: fmt.Sprintf("creating request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	policy := httputil.RetryPolicy{MaxAttempts: c.cfg.MaxAttempts, Delay: c.cfg.RetryDelay}
	resp, attempts, err := httputil.DoWithRetry(ctx, c.httpClient, req, policy, c.logger)
	if err != nil {
		c.logger.Error().Err(err).Int("attempts", attempts).Msg("completion request failed")
		return Result{Kind: ServiceError, Message: err.Error(), Attempts: attempts}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{Kind: ServiceError, StatusCode: resp.StatusCode, Message: fmt.Sprintf("reading response: %v", err), Attempts: attempts}
	}

	res := classify(resp.StatusCode, raw)
	res.Attempts = attempts
	if !res.OK() {
		c.logger.Warn().
			Str("kind", res.Kind.String()).
			Int("status", res.StatusCode).
			Int("attempts", attempts).
			Msg("completion failed")
	}
	return res
}

// classify maps a final response to a Result.
func classify(status int, raw []byte) Result {
	switch status {
	case http.StatusOK:
		content, err := parseContent(raw)
		if err != nil {
			return Result{Kind: ParseError, StatusCode: status, Body: string(raw)}
		}
		return Result{Kind: Success, StatusCode: status, Content: content}
	case http.StatusTooManyRequests:
		return Result{Kind: RetriesExhausted, StatusCode: status}
	default:
		msg := string(raw)
		var er errorResponse
		if json.Unmarshal(raw, &er) == nil && er.Error.Message != "" {
			msg = er.Error.Message
		}
		return Result{Kind: ServiceError, StatusCode: status, Message: msg}
	}
}

var (
	errNoChoices = errors.New("response has no choices")
	errNoContent = errors.New("response choice has no message content")
)

func parseContent(raw []byte) (string, error) {
	var cr chatResponse
	if err := json.Unmarshal(raw, &cr); err != nil {
		return "", err
	}
	if len(cr.Choices) == 0 {
		return "", errNoChoices
	}
	msg := cr.Choices[0].Message
	if msg == nil || msg.Content == nil {
		return "", errNoContent
	}
	return *msg.Content, nil
}
