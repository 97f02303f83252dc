// Package classifier calls the Hugging Face inference API to score text with
// cardiffnlp/twitter-roberta-base-sentiment.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sentiscope/sentiment-api/internal/core/domain"
	"github.com/sentiscope/sentiment-api/internal/metrics"
)

const (
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 1 << 20
	maxErrorBody   = 512
)

// Config holds the endpoint and credentials of the inference API.
type Config struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

// HuggingFaceClient implements ports.SentimentClassifier.
type HuggingFaceClient struct {
	url        string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
}

func NewHuggingFaceClient(cfg Config) *HuggingFaceClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HuggingFaceClient{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		timeout:    timeout,
		httpClient: &http.Client{},
	}
}

type inferenceRequest struct {
	Inputs string `json:"inputs"`
}

// Classify posts text to the model and returns the scored labels of the first
// input, most likely first. Every failure, including the call timeout, wraps
// domain.ErrUpstream.
func (c *HuggingFaceClient) Classify(ctx context.Context, text string) ([]domain.ScoredLabel, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	labels, err := c.classify(ctx, text)

	outcome := "ok"
	if err != nil {
		outcome = "error"
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			outcome = "timeout"
			err = fmt.Errorf("%w: timed out after %s", domain.ErrUpstream, c.timeout)
		}
	}
	metrics.ClassifierRequestDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())

	return labels, err
}

func (c *HuggingFaceClient) classify(ctx context.Context, text string) ([]domain.ScoredLabel, error) {
	body, err := json.Marshal(inferenceRequest{Inputs: text})
	if err != nil {
		return nil, fmt.Errorf("%w: encode request: %w", domain.ErrUpstream, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", domain.ErrUpstream, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrUpstream, resp.StatusCode, bytes.TrimSpace(msg))
	}

	// The model answers one list of scored labels per input: [[{label,score},...]].
	var out [][]domain.ScoredLabel
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: invalid response: %w", domain.ErrUpstream, err)
	}
	if len(out) == 0 || len(out[0]) == 0 {
		return nil, fmt.Errorf("%w: invalid response: no scored labels", domain.ErrUpstream)
	}
	return out[0], nil
}
