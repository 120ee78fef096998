package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/granabot/grana-bot/internal/apperr"
)

const maxResponseBytes = 64 << 10

// HTTPClient calls the classification endpoint. A circuit breaker keeps a
// dead endpoint from stalling every incoming message.
type HTTPClient struct {
	url     string
	apiKey  string
	model   string
	http    *http.Client
	breaker *apperr.CircuitBreaker
	log     *slog.Logger
}

// Config configures the HTTP classifier client.
type Config struct {
	URL     string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// NewHTTPClient builds a classifier backed by an HTTP service.
func NewHTTPClient(cfg Config, log *slog.Logger) *HTTPClient {
	if log == nil {
		log = slog.Default()
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 8 * time.Second
	}

	return &HTTPClient{
		url:     cfg.URL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		http:    &http.Client{Timeout: timeout},
		breaker: apperr.NewCircuitBreaker(),
		log:     log,
	}
}

type classifyRequest struct {
	Model string `json:"model,omitempty"`
	Text  string `json:"text"`
}

// Classify posts the text to the service and decodes the structured intent.
// Any transport or decode failure surfaces as an external API error.
func (c *HTTPClient) Classify(ctx context.Context, text string) (*Result, error) {
	if c.url == "" {
		return &Result{Intent: IntentUnknown}, nil
	}

	var result *Result
	err := c.breaker.Call(func() error {
		r, callErr := c.doClassify(ctx, text)
		if callErr != nil {
			return callErr
		}
		result = r
		return nil
	})
	if err != nil {
		c.log.Warn("intent classification failed", slog.Any("error", err))
		return nil, apperr.NewExternalAPIError("classifier", err)
	}

	return result, nil
}

func (c *HTTPClient) doClassify(ctx context.Context, text string) (*Result, error) {
	payload, err := json.Marshal(classifyRequest{Model: c.model, Text: text})
	if err != nil {
		return nil, fmt.Errorf("encode classify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build classify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call classifier: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("classifier returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read classifier response: %w", err)
	}

	var result Result
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode classifier response: %w", err)
	}

	if result.Intent == "" {
		result.Intent = IntentUnknown
	}

	return &result, nil
}
