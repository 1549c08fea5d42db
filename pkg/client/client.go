// Package client is a small typed client for the dockgate operational API,
// used by the CLI.
package client

import (
	"net/http"
	"strings"
	"time"
)

type Client struct {
	baseURL    string
	credential string
	httpClient *http.Client
}

type Option func(*Client)

// WithCredential attaches the shared gateway credential to every request.
func WithCredential(credential string) Option {
	return func(c *Client) { c.credential = credential }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
