// Package api holds the typed clients for the task backend. Every call is
// a single HTTP round trip with no caching and no retries; the credential
// is passed in by the caller on each call.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultBaseURL is used when no API URL is configured
const DefaultBaseURL = "http://localhost:4000/api"

// Client talks to the task backend
type Client struct {
	baseURL   string
	client    *http.Client
	userAgent string
	now       func() time.Time
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithClock sets the clock used for timezone offsets
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// New creates a client for baseURL (e.g. https://host/api).
// The default http.Client has no timeout: a hanging request stays pending.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:   strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		client:    &http.Client{},
		userAgent: "taskdesk",
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured base URL
func (c *Client) BaseURL() string { return c.baseURL }

// TZOffsetMinutes is the local offset east of UTC, in minutes
func TZOffsetMinutes(t time.Time) int {
	_, offset := t.Zone()
	return offset / 60
}

type request struct {
	method string
	path   string
	query  url.Values
	body   any
	token  string
}

func (r request) op() string {
	return r.method + " " + r.path
}

// do performs the round trip. Only transport failures are errors here.
func (c *Client) do(ctx context.Context, r request) (int, []byte, error) {
	u := c.baseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		b, err := json.Marshal(r.body)
		if err != nil {
			return 0, nil, fmt.Errorf("%s: failed to marshal request: %w", r.op(), err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u, body)
	if err != nil {
		return 0, nil, fmt.Errorf("%s: failed to create request: %w", r.op(), err)
	}

	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", reqID)
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		log.Printf("[api] %s failed (%s): %v", r.op(), reqID, err)
		return 0, nil, &TransportError{Op: r.op(), Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, &TransportError{Op: r.op(), Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	log.Printf("[api] %s -> %d (%s)", r.op(), resp.StatusCode, reqID)
	return resp.StatusCode, respBody, nil
}

// call performs the round trip and turns non-2xx statuses into RequestFailed
func (c *Client) call(ctx context.Context, r request) ([]byte, error) {
	status, body, err := c.do(ctx, r)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, &RequestFailed{Op: r.op(), Status: status, Message: failureMessage(status, body)}
	}
	return body, nil
}

// envelope is the {success, data, message} wrapper most endpoints use
type envelope struct {
	Success    *bool           `json:"success"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Total      *int            `json:"total"`
	Page       *int            `json:"page"`
	TotalPages *int            `json:"totalPages"`

	// login/register also come back flattened as {success, token, user}
	Token string          `json:"token"`
	User  json.RawMessage `json:"user"`
}

// callEnvelope requires a 2xx status and success:true
func (c *Client) callEnvelope(ctx context.Context, r request) (*envelope, error) {
	status, body, err := c.do(ctx, r)
	if err != nil {
		return nil, err
	}
	var env envelope
	decodeErr := json.Unmarshal(body, &env)
	if status < 200 || status > 299 || decodeErr != nil || env.Success == nil || !*env.Success {
		return nil, &RequestFailed{Op: r.op(), Status: status, Message: failureMessage(status, body)}
	}
	return &env, nil
}

// decodeJSON decodes a 2xx body, reporting shape problems as MalformedResponse
func decodeJSON(op string, raw []byte, out any) error {
	if len(bytes.TrimSpace(raw)) == 0 || string(bytes.TrimSpace(raw)) == "null" {
		return &MalformedResponse{Op: op, Reason: "empty body"}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &MalformedResponse{Op: op, Reason: err.Error()}
	}
	return nil
}

type validator interface {
	Validate() error
}

func check(op string, v validator) error {
	if err := v.Validate(); err != nil {
		return &MalformedResponse{Op: op, Reason: err.Error()}
	}
	return nil
}
