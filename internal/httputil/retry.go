// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across stages.
package httputil

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// DefaultRetryDelay is the fixed wait between attempts after an HTTP 429.
const DefaultRetryDelay = 10 * time.Second

// DefaultMaxAttempts caps the total number of calls for one request.
const DefaultMaxAttempts = 5

// RetryPolicy controls DoWithRetry.
type RetryPolicy struct {
	// MaxAttempts is the total number of calls, including the first.
	// Zero or negative selects DefaultMaxAttempts.
	MaxAttempts int

	// Delay is the fixed wait after each 429 before the next attempt.
	// Zero retries immediately; callers wanting the usual pause pass
	// DefaultRetryDelay.
	Delay time.Duration
}

func (p RetryPolicy) withDefaults() RetryPolicy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = DefaultMaxAttempts
	}
	if p.Delay < 0 {
		p.Delay = 0
	}
	return p
}

// DoWithRetry executes an HTTP request and retries on HTTP 429 (Too Many
// Requests) with a fixed delay between attempts. It makes at most
// policy.MaxAttempts calls and does not wait after the last one.
//
// Each retry is logged with its attempt number. On each 429 that will be
// retried the response body is drained and closed. If the context is
// cancelled during a wait the function returns ctx.Err(). When attempts are
// exhausted the last 429 response is returned so the caller can inspect
// it. The second return value is the number of calls made.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, policy RetryPolicy, logger zerolog.Logger) (*http.Response, int, error) {
	policy = policy.withDefaults()

	for attempt := 1; ; attempt++ {
		attemptReq := req.Clone(ctx)
		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, attempt - 1, err
			}
			attemptReq.Body = body
		}

		resp, err := client.Do(attemptReq)
		if err != nil {
			return nil, attempt, err
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, attempt, nil
		}

		if attempt >= policy.MaxAttempts {
			logger.Warn().
				Int("attempts", attempt).
				Str("url", req.URL.Redacted()).
				Msg("rate limited, max retries exceeded")
			return resp, attempt, nil
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		logger.Warn().
			Int("attempt", attempt).
			Int("max_attempts", policy.MaxAttempts).
			Dur("delay", policy.Delay).
			Msgf("rate limited, retry %d/%d after %v", attempt, policy.MaxAttempts, policy.Delay)

		select {
		case <-ctx.Done():
			return nil, attempt, ctx.Err()
		case <-time.After(policy.Delay):
		}
	}
}
