// Package ojapi is the HTTP client for the online-judge backend API.
//
// Every endpoint answers with the envelope {code, data, message}; code 0 is
// success. Numeric identifiers are 64-bit longs and are decoded with
// jsonx so they never lose precision.
package ojapi

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

	"github.com/group38/ojweb/internal/jsonx"
)

const (
	defaultTimeout  = 10 * time.Second
	maxResponseBody = 8 << 20
)

// Config configures a Client.
type Config struct {
	// BaseURL is the API origin, e.g. "http://localhost:8121". Paths such as
	// "/api/user/get/login" are resolved against it.
	BaseURL string
	// Timeout bounds each call when HTTPClient is nil. Default 10s.
	Timeout time.Duration
	// HTTPClient overrides the transport (tests, cookie jars).
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client issues envelope-style calls against the OJ API.
type Client struct {
	base   *url.URL
	http   *http.Client
	logger *slog.Logger
}

// NewClient validates cfg and builds a Client.
func NewClient(cfg Config) (*Client, error) {
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		return nil, errors.New("ojapi: base URL is required")
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("ojapi: parse base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("ojapi: base URL must be http or https, got %q", base.Scheme)
	}
	base.Path = strings.TrimSuffix(base.Path, "/")

	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{base: base, http: hc, logger: logger}, nil
}

// BaseURL returns a copy of the API origin.
func (c *Client) BaseURL() *url.URL {
	u := *c.base
	return &u
}

// Request describes one API call.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
	Header http.Header
}

// CallOption adjusts a Request before it is sent.
type CallOption func(*Request)

// WithCookieHeader forwards the browser's Cookie header so the API sees the
// same login session as the browser.
func WithCookieHeader(v string) CallOption {
	return func(r *Request) {
		if v == "" {
			return
		}
		if r.Header == nil {
			r.Header = http.Header{}
		}
		r.Header.Set("Cookie", v)
	}
}

// WithHeader sets an arbitrary request header.
func WithHeader(key, value string) CallOption {
	return func(r *Request) {
		if r.Header == nil {
			r.Header = http.Header{}
		}
		r.Header.Set(key, value)
	}
}

// Response carries transport-level details of a completed call.
type Response struct {
	StatusCode int
	Header     http.Header
	// Cookies are the Set-Cookie values the API issued (login, logout).
	Cookies []*http.Cookie
	// Body is the raw payload, kept even when decoding fails.
	Body []byte
}

// Do sends req and decodes the JSON body into out (which may be nil).
// A request that cannot be built returns *RequestError; a transport failure returns *TransportError; a non-2xx status returns
// *APIError. A body that is not valid JSON returns ErrUndecodable together
// with the Response so callers can fall back to the raw bytes.
func (c *Client) Do(ctx context.Context, req Request, out any) (*Response, error) {
	httpReq, err := c.newHTTPRequest(ctx, req)
	if err != nil {
		return nil, &RequestError{Err: err}
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Method: req.Method, URL: httpReq.URL.Redacted(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, &TransportError{Method: req.Method, URL: httpReq.URL.Redacted(), Err: fmt.Errorf("read body: %w", err)}
	}

	result := &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Cookies:    resp.Cookies(),
		Body:       body,
	}
	c.logger.DebugContext(ctx, "ojapi response",
		slog.String("method", req.Method),
		slog.String("path", req.Path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
		slog.Int("bytes", len(body)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return result, newStatusError(resp.StatusCode, body)
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return result, nil
	}
	if decodeErr := jsonx.Decode(body, out); decodeErr != nil {
		return result, fmt.Errorf("%w: %w", ErrUndecodable, decodeErr)
	}
	return result, nil
}

func (c *Client) newHTTPRequest(ctx context.Context, req Request) (*http.Request, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	if !strings.HasPrefix(req.Path, "/") {
		return nil, fmt.Errorf("ojapi: path must start with '/': %q", req.Path)
	}

	u := *c.base
	u.Path = c.base.Path + req.Path
	if len(req.Query) > 0 {
		u.RawQuery = req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("ojapi: marshal request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("ojapi: build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	return httpReq, nil
}

func applyOptions(req Request, opts []CallOption) Request {
	for _, opt := range opts {
		if opt != nil {
			opt(&req)
		}
	}
	return req
}
