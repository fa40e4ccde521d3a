package electionapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is the single outbound path to the remote Election API. Every attempt
// gets its own hard timeout; server-side failures (>=500) and network-level
// failures are retried with a fixed delay up to the attempt budget. 4xx
// responses are returned to the caller untouched and never retried.
type Client struct {
	baseURL  string
	http     *http.Client
	attempts int
	delay    time.Duration
	logger   *slog.Logger
}

type Options struct {
	BaseURL    string
	Timeout    time.Duration
	Attempts   int
	RetryDelay time.Duration
	Logger     *slog.Logger
	Transport  http.RoundTripper
}

type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   any
}

type Response struct {
	StatusCode int
	Body       []byte
}

func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Attempts <= 0 {
		opts.Attempts = 3
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		http: &http.Client{
			Timeout:   opts.Timeout,
			Transport: opts.Transport,
		},
		attempts: opts.Attempts,
		delay:    opts.RetryDelay,
		logger:   opts.Logger,
	}
}

// Do performs one logical request. The payload is marshalled once and every
// retry replays the same bytes, so a retried call is always the same
// unacknowledged attempt rather than a new request. A non-nil error means the
// transport failed on every attempt; non-2xx statuses are not errors here.
func (c *Client) Do(ctx context.Context, req Request) (Response, error) {
	var payload []byte
	if req.Body != nil {
		raw, err := json.Marshal(req.Body)
		if err != nil {
			return Response{}, fmt.Errorf("encode request body: %w", err)
		}
		payload = raw
	}

	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var lastErr error
	for attempt := 1; attempt <= c.attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return Response{}, ctx.Err()
			case <-time.After(c.delay):
			}
		}

		resp, err := c.attemptOnce(ctx, req, target, payload)
		if err != nil {
			lastErr = err
			c.logger.Warn("election api attempt failed",
				"event", "election_api_attempt_failed",
				"module", "internal/platform/electionapi",
				"layer", "platform",
				"method", req.Method,
				"path", req.Path,
				"attempt", attempt,
				"error", err.Error(),
			)
			continue
		}
		if resp.StatusCode >= http.StatusInternalServerError && attempt < c.attempts {
			c.logger.Warn("election api server error, retrying",
				"event", "election_api_server_error",
				"module", "internal/platform/electionapi",
				"layer", "platform",
				"method", req.Method,
				"path", req.Path,
				"attempt", attempt,
				"status", resp.StatusCode,
			)
			continue
		}
		return resp, nil
	}
	return Response{}, fmt.Errorf("election api %s %s: %w", req.Method, req.Path, lastErr)
}

func (c *Client) attemptOnce(ctx context.Context, req Request, target string, payload []byte) (Response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return Response{}, err
	}
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")
	for key, values := range req.Header {
		for _, value := range values {
			httpReq.Header.Add(key, value)
		}
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return Response{}, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, err
	}
	return Response{StatusCode: resp.StatusCode, Body: raw}, nil
}

// DoJSON runs Do and decodes a 2xx body into out when out is non-nil.
func (c *Client) DoJSON(ctx context.Context, req Request, out any) (Response, error) {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return resp, err
	}
	if out != nil && resp.StatusCode >= 200 && resp.StatusCode < 300 && len(resp.Body) > 0 {
		if err := json.Unmarshal(resp.Body, out); err != nil {
			return resp, fmt.Errorf("decode response body: %w", err)
		}
	}
	return resp, nil
}

// ServerMessage extracts the server-provided message from an error payload so
// it can be shown to the operator verbatim. Falls back to the raw body.
func ServerMessage(body []byte) string {
	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if strings.TrimSpace(envelope.Message) != "" {
			return strings.TrimSpace(envelope.Message)
		}
		if strings.TrimSpace(envelope.Error) != "" {
			return strings.TrimSpace(envelope.Error)
		}
	}
	return strings.TrimSpace(string(body))
}
