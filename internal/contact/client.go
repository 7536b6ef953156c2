package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// DefaultTimeout bounds a single relay request.
const DefaultTimeout = 10 * time.Second

// maxResponseBytes caps how much of a relay reply is read.
const maxResponseBytes = 64 << 10

// Sender dispatches a validated submission.
type Sender interface {
	Send(ctx context.Context, s Submission) error
}

// relayResponse is the body the relay answers with.
type relayResponse struct {
	Success *bool  `json:"success"`
	Error   string `json:"error"`
}

// Client posts submissions to the email relay endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithClientLogger sets the logger used for request diagnostics.
func WithClientLogger(l *slog.Logger) ClientOption {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a relay client for endpoint.
func NewClient(endpoint string, opts ...ClientOption) *Client {
	c := &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the relay URL the client posts to.
func (c *Client) Endpoint() string { return c.endpoint }

// Send posts s as JSON. It returns nil on {"success": true}, a *ServerError
// when the relay returns a failure payload, and a *TransportError otherwise.
func (c *Client) Send(ctx context.Context, s Submission) error {
	body, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return &TransportError{Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("contact relay unreachable", "endpoint", c.endpoint, "error", err)
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &TransportError{Err: fmt.Errorf("read response: %w", err)}
	}

	var out relayResponse
	if err := json.Unmarshal(raw, &out); err != nil || out.Success == nil {
		c.logger.Warn("contact relay returned no usable payload",
			"status", resp.StatusCode,
			"body_len", len(raw),
		)
		return &TransportError{Err: fmt.Errorf("unexpected response: status %d", resp.StatusCode)}
	}

	if !*out.Success {
		return &ServerError{StatusCode: resp.StatusCode, Message: out.Error}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &TransportError{Err: fmt.Errorf("unexpected response: status %d", resp.StatusCode)}
	}
	return nil
}
