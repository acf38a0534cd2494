// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarize

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/scholarbot/internal/httputil"
	"github.com/pdiddy/scholarbot/pkg/types"
)

func testHF(ts *httptest.Server, key string) *HuggingFace {
	cfg := types.DefaultConfig().Summarizer.HuggingFace
	cfg.BaseURL = ts.URL + "/models"
	cfg.APIKey = key
	h := NewHuggingFace(cfg, zerolog.Nop())
	h.Retry = httputil.RetryPolicy{MaxAttempts: 2, Delay: time.Millisecond}
	return h
}

func TestHuggingFaceCondense(t *testing.T) {
	var gotPath, gotAuth string
	var gotReq hfRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &gotReq)
		fmt.Fprint(w, `[{"summary_text":" A short summary. "}]`)
	}))
	defer ts.Close()

	got, err := testHF(ts, "hf-key").Condense(context.Background(), "long abstract", Bounds{Min: 50, Max: 60})
	require.NoError(t, err)
	assert.Equal(t, "A short summary.", got)

	assert.Equal(t, "/models/sshleifer/distilbart-cnn-12-6", gotPath)
	assert.Equal(t, "Bearer hf-key", gotAuth)
	assert.Equal(t, "long abstract", gotReq.Inputs)
	assert.Equal(t, hfParameters{MinLength: 50, MaxLength: 60, DoSample: false}, gotReq.Parameters)
}

func TestHuggingFaceNoKey(t *testing.T) {
	var gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		fmt.Fprint(w, `[{"summary_text":"ok"}]`)
	}))
	defer ts.Close()

	_, err := testHF(ts, "").Condense(context.Background(), "x", Bounds{Min: 1, Max: 2})
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestHuggingFaceErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"model loading", http.StatusServiceUnavailable, `{"error":"Model is currently loading"}`, "HTTP 503: Model is currently loading"},
		{"raw error body", http.StatusInternalServerError, `boom`, "HTTP 500: boom"},
		{"bad json", http.StatusOK, `{`, "parsing summarization response"},
		{"empty list", http.StatusOK, `[]`, "summarization response is empty"},
		{"rate limited", http.StatusTooManyRequests, `slow`, "HTTP 429: slow"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer ts.Close()

			_, err := testHF(ts, "k").Condense(context.Background(), "x", Bounds{Min: 1, Max: 2})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
