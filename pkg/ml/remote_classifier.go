package ml

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/Jaysinh146/Riskify/pkg/httputil"
	"github.com/Jaysinh146/Riskify/pkg/logger"
)

// RemoteClassifier calls a hosted inference API implementing the
// HuggingFace text-classification contract: POST {"inputs": text} returns
// [[{"label": ..., "score": ...}, ...]] with candidates sorted by score.
// This mirrors the demo's hosted-model deployment mode; the local Hugot
// classifier is the default.
type RemoteClassifier struct {
	url    string
	apiKey string
	client *http.Client
	ready  atomic.Bool
	log    *logger.Logger
}

// NewRemoteClassifier creates a classifier backed by an inference API.
func NewRemoteClassifier(url, apiKey string, log *logger.Logger) *RemoteClassifier {
	return &RemoteClassifier{
		url:    url,
		apiKey: apiKey,
		client: httputil.Client(httputil.TierSlow),
		log:    log.WithComponent("remote-classifier"),
	}
}

// Init warms the endpoint with one throwaway classification. Hosted
// models cold-start; doing it here keeps the first real prediction fast
// and surfaces configuration errors at startup rather than mid-request.
func (r *RemoteClassifier) Init(ctx context.Context) error {
	if r.ready.Load() {
		return nil
	}
	if _, err := r.infer(ctx, "hello"); err != nil {
		return fmt.Errorf("warm up inference endpoint: %w", err)
	}
	r.ready.Store(true)
	r.log.Info().Str("url", r.url).Msg("remote classifier ready")
	return nil
}

// Ready reports whether the warmup call has succeeded.
func (r *RemoteClassifier) Ready() bool {
	return r.ready.Load()
}

// Classify sends text to the inference API and returns the top candidate.
func (r *RemoteClassifier) Classify(ctx context.Context, text string) (SentimentResult, error) {
	return r.infer(ctx, text)
}

func (r *RemoteClassifier) infer(ctx context.Context, text string) (SentimentResult, error) {
	payload, err := json.Marshal(map[string]string{"inputs": text})
	if err != nil {
		return SentimentResult{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(payload))
	if err != nil {
		return SentimentResult{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.apiKey)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return SentimentResult{}, fmt.Errorf("call inference API: %w", err)
	}
	defer httputil.DrainAndClose(resp.Body)

	body, err := httputil.ReadResponseBody(resp.Body, 0)
	if err != nil {
		return SentimentResult{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return SentimentResult{}, fmt.Errorf("inference API returned %d: %s", resp.StatusCode, body)
	}

	var candidates [][]SentimentResult
	if err := json.Unmarshal(body, &candidates); err != nil {
		return SentimentResult{}, fmt.Errorf("decode response: %w", err)
	}
	if len(candidates) == 0 || len(candidates[0]) == 0 {
		return SentimentResult{}, fmt.Errorf("inference API returned no candidates")
	}

	top := candidates[0][0]
	top.Score = clamp01(top.Score)
	return top, nil
}

// Close is a no-op; the HTTP client pool is shared process-wide.
func (r *RemoteClassifier) Close() error {
	r.ready.Store(false)
	return nil
}
