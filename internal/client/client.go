// Package client calls a remote interview-coach server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/timvw/interview-coach/internal/interview"
	"github.com/timvw/interview-coach/internal/model"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 4 << 20

// Client runs interview actions against a server's /api routes.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ interview.Interviewer = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default traced client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the overall per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// New returns a Client for the server at baseURL, e.g. "http://localhost:3001".
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing server URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("server URL %q: scheme must be http or https", baseURL)
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   60 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// APIError is a non-2xx reply from the server.
type APIError struct {
	StatusCode int
	Message    string
	// Raw is the provider text the server could not use, if reported.
	Raw    *string
	Detail string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s (HTTP %d)", e.Message, e.StatusCode)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Generate requests interview questions.
func (c *Client) Generate(ctx context.Context, req model.GenerateRequest) (*model.Questions, error) {
	var out model.Questions
	if err := c.post(ctx, model.ActionGenerate, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Evaluate requests a score for one answer.
func (c *Client) Evaluate(ctx context.Context, req model.EvaluateRequest) (*model.Evaluation, error) {
	var out model.Evaluation
	if err := c.post(ctx, model.ActionEvaluate, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Analyze requests a track inferred from a free-text profile.
func (c *Client) Analyze(ctx context.Context, req model.AnalyzeRequest) (*model.Profile, error) {
	var out model.Profile
	if err := c.post(ctx, model.ActionAnalyze, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health fetches the server's health report.
func (c *Client) Health(ctx context.Context) (*model.Health, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/health", nil)
	if err != nil {
		return nil, err
	}
	var out model.Health
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) post(ctx context.Context, action model.Action, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding %s request: %w", action, err)
	}
	target := c.baseURL + "/api/interview?action=" + url.QueryEscape(string(action))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var er model.ErrorResponse
		if json.Unmarshal(body, &er) == nil && er.Error != "" {
			apiErr.Message = er.Error
			apiErr.Raw = er.Raw
			apiErr.Detail = er.Detail
		} else {
			apiErr.Message = strings.TrimSpace(string(body))
			if apiErr.Message == "" {
				apiErr.Message = http.StatusText(resp.StatusCode)
			}
		}
		return apiErr
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
