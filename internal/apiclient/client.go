// Package apiclient talks to the game REST API.
//
// Fetch issues plain requests. FetchWithAuth decorates a request with the
// stored bearer token and fails before any network I/O when there is none.
// Authorized adds the one shared reaction to a 401: the token is cleared and
// ErrSessionInvalid is returned, so every caller handles an expired session
// the same way.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mcoot/bvzombies/internal/endpoints"
	"github.com/mcoot/bvzombies/internal/metrics"
	"github.com/mcoot/bvzombies/internal/tokenstore"
)

// Errors
var (
	ErrUnauthenticated = errors.New("no authentication token found")
	ErrSessionInvalid  = errors.New("session is no longer valid")
)

// APIError is a non-2xx response from the API
type APIError struct {
	Status int
	Msg    string
}

func (e *APIError) Error() string {
	return e.Msg
}

// IsStatus reports whether err is an APIError with the given status
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// Options mirrors the optional parts of a request
type Options struct {
	Method  string
	Headers http.Header
	Body    any
}

// Config holds configuration for the API client
type Config struct {
	Endpoints  *endpoints.Resolver
	HTTPClient *http.Client
	Metrics    *metrics.Metrics
	Logger     *slog.Logger
}

// Client is an HTTP client for the game API
type Client struct {
	endpoints  *endpoints.Resolver
	httpClient *http.Client
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// New creates a new API client
func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	resolver := cfg.Endpoints
	if resolver == nil {
		resolver = endpoints.New("")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Client{
		endpoints:  resolver,
		httpClient: httpClient,
		metrics:    cfg.Metrics,
		logger:     logger.With(slog.String("component", "apiclient")),
	}
}

// Endpoints returns the resolver used to build URLs
func (c *Client) Endpoints() *endpoints.Resolver {
	return c.endpoints
}

// Fetch issues a request without credentials
func (c *Client) Fetch(ctx context.Context, rawURL string, opts Options) (*http.Response, error) {
	req, err := c.newRequest(ctx, rawURL, opts)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

// FetchWithAuth issues a request carrying the stored bearer token.
// With no token it returns ErrUnauthenticated and makes no request.
// Content-Type and Authorization override caller-supplied values.
// The status code is not interpreted.
func (c *Client) FetchWithAuth(ctx context.Context, tokens tokenstore.Store, rawURL string, opts Options) (*http.Response, error) {
	token, err := tokens.Get(ctx)
	if err != nil {
		if errors.Is(err, tokenstore.ErrNoToken) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("read token: %w", err)
	}

	req, err := c.newRequest(ctx, rawURL, opts)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	return c.do(req)
}

// Authorized is FetchWithAuth plus the shared 401 handling: the token (and
// cached profile, if the store keeps one) is cleared and ErrSessionInvalid
// is returned in place of the response.
func (c *Client) Authorized(ctx context.Context, tokens tokenstore.Store, rawURL string, opts Options) (*http.Response, error) {
	resp, err := c.FetchWithAuth(ctx, tokens, rawURL, opts)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}

	drain(resp)
	if err := tokens.Clear(ctx); err != nil {
		c.logger.Error("failed to clear token after 401", slog.String("error", err.Error()))
	}
	if cache, ok := tokens.(tokenstore.ProfileCache); ok {
		_ = cache.ClearProfile(ctx)
	}
	c.metrics.SessionEvent("invalidated")
	return nil, ErrSessionInvalid
}

func (c *Client) newRequest(ctx context.Context, rawURL string, opts Options) (*http.Request, error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	var bodyReader io.Reader
	if opts.Body != nil {
		data, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, values := range opts.Headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if opts.Body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if req.Header.Get("X-Request-ID") == "" {
		req.Header.Set("X-Request-ID", uuid.NewString())
	}
	return req, nil
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	label := c.endpointLabel(req.URL)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveUpstream(label, 0, time.Since(start))
		c.logger.Warn("api request failed",
			slog.String("method", req.Method),
			slog.String("endpoint", label),
			slog.String("request_id", req.Header.Get("X-Request-ID")),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("request failed: %w", err)
	}

	c.metrics.ObserveUpstream(label, resp.StatusCode, time.Since(start))
	c.logger.Debug("api request",
		slog.String("method", req.Method),
		slog.String("endpoint", label),
		slog.String("request_id", req.Header.Get("X-Request-ID")),
		slog.Int("status", resp.StatusCode),
	)
	return resp, nil
}

// endpointLabel maps a URL to a low-cardinality metrics label
func (c *Client) endpointLabel(u *url.URL) string {
	path := u.Path
	if base, err := url.Parse(c.endpoints.BaseURL()); err == nil {
		path = strings.TrimPrefix(path, strings.TrimSuffix(base.Path, "/"))
	}
	if strings.HasPrefix(path, "/stats/") {
		return "/stats"
	}
	for _, key := range endpoints.Keys() {
		if endpoints.Path(key) == path {
			return string(key)
		}
	}
	return "other"
}

// decodeJSON reads the body into out and closes it
func decodeJSON(resp *http.Response, out any) error {
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// errorFromResponse converts a non-2xx response to an APIError and closes the body
func errorFromResponse(resp *http.Response, fallback string) error {
	var envelope struct {
		Msg string `json:"msg"`
	}
	_ = decodeJSON(resp, &envelope)
	msg := envelope.Msg
	if msg == "" {
		msg = fallback
	}
	return &APIError{Status: resp.StatusCode, Msg: msg}
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}

func ok(resp *http.Response) bool {
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}
