// Package resolver calls the remote voice command resolution endpoint.
package resolver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spherical/flipbook-studio/internal/config"
	"github.com/spherical/flipbook-studio/internal/domain"
	"github.com/spherical/flipbook-studio/internal/observability"
)

// maxResponseBytes bounds how much of a reply is read.
const maxResponseBytes = 64 * 1024

// Request is the body posted to the resolver.
type Request struct {
	Command string `json:"command"`
}

// Client posts transcripts to a command resolution endpoint.
type Client struct {
	url        string
	httpClient *http.Client
	retry      *RetryConfig
	logger     *observability.Logger
}

// NewClient creates a client for cfg.URL.
func NewClient(cfg config.ResolverConfig, logger *observability.Logger) *Client {
	if logger == nil {
		logger = observability.Nop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	retry := DefaultRetryConfig()
	retry.MaxRetries = cfg.MaxRetries
	if cfg.InitialBackoff > 0 {
		retry.InitialBackoff = cfg.InitialBackoff
	}
	if cfg.MaxBackoff > 0 {
		retry.MaxBackoff = cfg.MaxBackoff
	}

	return &Client{
		url:        cfg.URL,
		httpClient: &http.Client{Timeout: timeout},
		retry:      retry,
		logger:     logger.WithComponent("resolver"),
	}
}

// Resolve posts command and decodes the reply. Transport failures, error
// statuses and malformed replies are returned as ResolutionUnavailable.
func (c *Client) Resolve(ctx context.Context, command string) (*domain.CommandResolution, error) {
	body, err := json.Marshal(Request{Command: command})
	if err != nil {
		return nil, domain.ResolutionUnavailableError("failed to marshal request", err)
	}

	resp, err := c.retryWithBackoff(ctx, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		if traceID := observability.TraceIDFromContext(ctx); traceID != "" {
			req.Header.Set("X-Request-Id", traceID)
		}
		return c.httpClient.Do(req)
	})
	if err != nil {
		return nil, domain.ResolutionUnavailableError("command service unreachable", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, domain.ResolutionUnavailableError("failed to read response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, domain.ResolutionUnavailableError(
			fmt.Sprintf("command service returned HTTP %d", resp.StatusCode), nil)
	}

	var res domain.CommandResolution
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, domain.ResolutionUnavailableError("malformed response", err)
	}

	c.logger.Debug().Str("command", command).Str("action", res.Action).Str("page", res.Page).Msg("command resolved")
	return &res, nil
}
