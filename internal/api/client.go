// Copyright Redwood Labs, 2026. All rights reserved.

package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/redwoodlabs/convertapi-cli/pkg/types"
)

// defaultTimeout bounds the conversion call and each result download.
const defaultTimeout = 60 * time.Second

// Client executes requests against the remote conversion service. It owns
// the bearer credential and the Accept/User-Agent headers; request bodies
// are assembled elsewhere and never carry the credential.
type Client struct {
	httpClient *http.Client
	cfg        types.ClientConfig
}

// NewClient builds a client from cfg, applying the default timeout when
// none is configured.
func NewClient(cfg types.ClientConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
	}
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string { return c.cfg.BaseURL }

// Convert sends an assembled conversion request and decodes the JSON
// response. A non-2xx status becomes an *APIError carrying status and body;
// a transport failure becomes a *TransportError.
func (c *Client) Convert(req *http.Request) (*types.ConversionResult, error) {
	c.setHeaders(req)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportErr(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportErr(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{Status: resp.StatusCode, Body: string(body)}
	}

	var result types.ConversionResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decoding conversion response: %w", err)
	}
	return &result, nil
}

// Get fetches a result file URL with the bearer credential attached. The
// caller owns the response body and must close it.
func (c *Client) Get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportErr(err)
	}
	return resp, nil
}

func (c *Client) setHeaders(req *http.Request) {
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}
}

// transportErr classifies a client error, marking deadline and I/O timeouts
// so callers can tell "the request never completed" from "the service said
// no".
func transportErr(err error) error {
	var nerr net.Error
	timeout := errors.Is(err, context.DeadlineExceeded) ||
		(errors.As(err, &nerr) && nerr.Timeout())
	return &TransportError{Timeout: timeout, Err: err}
}
