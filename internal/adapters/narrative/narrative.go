// Package narrative calls the external text-generation collaborator
// that turns a finished plan into coaching prose. The collaborator is
// optional; an unconfigured client reports itself disabled and the
// pipeline completes without narrative text.
package narrative

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Generator produces race-plan prose from a prompt.
type Generator interface {
	// Generate returns prose for the prompt. Returns ErrDisabled when no
	// collaborator is configured.
	Generate(ctx context.Context, prompt string) (string, error)
	// Enabled reports whether a collaborator is configured.
	Enabled() bool
}

// Sentinel kinds for narrative errors.
var (
	ErrDisabled = errors.New("narrative generation disabled")
	ErrUpstream = errors.New("narrative service error")
)

const defaultTimeout = 10 * time.Second

// Client is the HTTP Generator implementation.
type Client struct {
	url        string
	httpClient *http.Client
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithTimeout bounds each generation call.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// New builds a narrative client. An empty url yields a disabled client.
func New(url string, opts ...Option) *Client {
	c := &Client{
		url:        url,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Enabled reports whether a service URL is configured.
func (c *Client) Enabled() bool { return c.url != "" }

// Generate posts the prompt and returns the generated text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if !c.Enabled() {
		return "", ErrDisabled
	}

	body, err := json.Marshal(map[string]string{"prompt": prompt})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	var out struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	return out.Text, nil
}
