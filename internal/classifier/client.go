// Package classifier asks the Gemini API to assign a priority and category to
// free-text task descriptions.
package classifier

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

	"github.com/sethvargo/go-retry"
	"golang.org/x/time/rate"

	"github.com/smarttask/smarttask-go/internal/model"
)

const (
	DefaultEndpoint = "https://generativelanguage.googleapis.com"
	DefaultModel    = "gemini-3-flash-preview"

	maxResponseBytes = 1 << 20 // 1MB
)

var (
	// ErrUnavailable covers transport errors, timeouts, non-2xx statuses and a
	// missing API key: the call did not produce an answer.
	ErrUnavailable = errors.New("classification unavailable")
	// ErrMalformedResponse means an answer arrived but could not be parsed.
	ErrMalformedResponse = errors.New("malformed classification response")
)

// Config holds the client settings.
type Config struct {
	APIKey     string
	Model      string
	Endpoint   string
	Timeout    time.Duration
	MaxRetries uint64
	RetryBase  time.Duration
	RPS        float64
	HTTPClient *http.Client
}

// Client calls the generateContent endpoint with a JSON response schema.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
}

// New creates a Client, filling unset fields with defaults.
func New(cfg Config) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RetryBase <= 0 {
		cfg.RetryBase = 200 * time.Millisecond
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	limit := rate.Inf
	if cfg.RPS > 0 {
		limit = rate.Limit(cfg.RPS)
	}

	return &Client{
		cfg:     cfg,
		http:    httpClient,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Classify returns the raw classification for text. The whole call, retries
// included, is bounded by the configured timeout.
func (c *Client) Classify(ctx context.Context, text string) (model.Classification, error) {
	if c.cfg.APIKey == "" {
		return model.Classification{}, fmt.Errorf("%w: api key not configured", ErrUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return model.Classification{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	payload, err := json.Marshal(newRequest(text))
	if err != nil {
		return model.Classification{}, err
	}

	var body []byte
	backoff := retry.WithMaxRetries(c.cfg.MaxRetries, retry.NewExponential(c.cfg.RetryBase))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		var callErr error
		body, callErr = c.call(ctx, payload)
		return callErr
	})
	if err != nil {
		return model.Classification{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return parseResponse(body)
}

func (c *Client) call(ctx context.Context, payload []byte) ([]byte, error) {
	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", strings.TrimSuffix(c.cfg.Endpoint, "/"), c.cfg.Model)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, retry.RetryableError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, retry.RetryableError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := fmt.Errorf("unexpected status %d", resp.StatusCode)
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return nil, retry.RetryableError(statusErr)
		}
		return nil, statusErr
	}

	return body, nil
}
