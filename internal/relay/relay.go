// Package relay forwards chat messages from the shell to the local
// Mastermind backend over HTTP.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/mastermind-ai/mastermind/internal/logging"
)

const (
	// DefaultBaseURL is where the backend listens unless configured otherwise.
	DefaultBaseURL = "http://localhost:8000"

	processPath = "/process_message"
	healthPath  = "/health"

	// Upper bound on how much of an error body is kept.
	maxErrorBody = 64 << 10
	// Appended to an error body cut at maxErrorBody.
	truncatedMarker = "…(truncated)"
	// Health probes never wait on transport defaults.
	healthTimeout = 3 * time.Second
)

// Request is the JSON body posted to /process_message.
type Request struct {
	APIKey  string `json:"apiKey"`
	Message string `json:"message"`
	Context string `json:"context"`
	Model   string `json:"model"`
}

// Response is the backend's reply to a processed message.
type Response struct {
	Content  string   `json:"content"`
	Memories []string `json:"memories"`
}

// Client talks to the backend. It is safe for concurrent use; each call
// issues exactly one independent HTTP request and nothing is retried.
type Client struct {
	http      *http.Client
	baseURL   atomic.Pointer[string]
	userAgent string
	log       logging.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds each request. Zero leaves the transport defaults in place.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			hc := *c.http
			hc.Timeout = d
			c.http = &hc
		}
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// New returns a client for the backend at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		http:      &http.Client{},
		userAgent: "mastermind",
		log:       logging.With("component", "relay"),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.SetBaseURL(baseURL)
	return c
}

// BaseURL returns the backend address currently in use.
func (c *Client) BaseURL() string {
	return *c.baseURL.Load()
}

// SetBaseURL points subsequent requests at a different backend. Requests
// already in flight are unaffected.
func (c *Client) SetBaseURL(u string) {
	u = strings.TrimRight(strings.TrimSpace(u), "/")
	if u == "" {
		u = DefaultBaseURL
	}
	if old := c.baseURL.Swap(&u); old != nil && *old != u {
		c.log.Info("backend address changed", "from", *old, "to", u)
	}
}

// ProcessMessage posts req to the backend and returns its reply.
//
// A non-2xx status yields *StatusError carrying the raw body. Connection
// and I/O failures yield *TransportError, an undecodable body *DecodeError.
func (c *Client) ProcessMessage(ctx context.Context, req Request) (*Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("relay: encode request: %w", err)
	}

	endpoint := c.BaseURL() + processPath
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("relay: create request: %w", err)
	}
	reqID := uuid.NewString()
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("X-Request-ID", reqID)

	log := c.log
	start := time.Now()
	log.Debug("sending message", "request_id", reqID, "model", req.Model, "endpoint", endpoint)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		log.Warn("backend unreachable", "request_id", reqID, "error", err)
		return nil, &TransportError{Op: "post " + processPath, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Warn("backend rejected message", "request_id", reqID, "status", resp.StatusCode)
		return nil, &StatusError{Code: resp.StatusCode, Body: readErrorBody(resp.Body)}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: "read response", Err: err}
	}
	var out Response
	if err := json.Unmarshal(raw, &out); err != nil {
		log.Error("backend reply is not valid JSON", "request_id", reqID, "error", err)
		return nil, &DecodeError{Err: err}
	}
	if out.Memories == nil {
		out.Memories = []string{}
	}

	log.Debug("message processed", "request_id", reqID, "memories", len(out.Memories), "elapsed", time.Since(start))
	return &out, nil
}

// healthResponse is the subset of the /health payload we read.
type healthResponse struct {
	Status string `json:"status"`
}

// Health probes the backend's /health endpoint. It returns nil only when
// the backend answers 200 with status "healthy".
func (c *Client) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL()+healthPath, nil)
	if err != nil {
		return fmt.Errorf("relay: create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Op: "get " + healthPath, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Code: resp.StatusCode, Body: readErrorBody(resp.Body)}
	}

	var h healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		return &DecodeError{Err: err}
	}
	if h.Status != "healthy" {
		return fmt.Errorf("relay: backend reports status %q", h.Status)
	}
	return nil
}

// readErrorBody returns the body as text, cut at maxErrorBody with
// truncatedMarker appended when it was longer.
func readErrorBody(r io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(r, maxErrorBody+1))
	if len(raw) > maxErrorBody {
		return string(raw[:maxErrorBody]) + truncatedMarker
	}
	return string(raw)
}
