// Package apiclient talks to the remote LearnOva authentication API.
//
// A single Client is configured with the API origin and shared by the whole
// process. Each visitor gets a Session bound to its own Credentials so that
// bearer tokens and API cookies never leak between browsers.
package apiclient

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

// Credentials supplies what a Session attaches to outgoing requests.
// Token may return "" when the visitor is not logged in; Jar may return nil
// when cookie-based credentials are not used.
type Credentials interface {
	Token() string
	Jar() http.CookieJar
}

// TokenSetter is implemented by Credentials that accept a refreshed token.
type TokenSetter interface {
	SetToken(token string)
}

// Client holds the shared transport configuration.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	timeout    time.Duration
	logger     *slog.Logger
}

const defaultTimeout = 10 * time.Second

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the http.Client requests are based on. The Client
// keeps its own copy, so later options never change hc.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout. It wins over the timeout of a
// client given with WithHTTPClient.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLogger sets the logger used for refresh diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a Client for the API at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid api base url %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid api base url %q: scheme and host are required", baseURL)
	}

	c := &Client{baseURL: u, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}

	hc := http.Client{Timeout: defaultTimeout}
	if c.httpClient != nil {
		hc = *c.httpClient
	}
	if c.timeout > 0 {
		hc.Timeout = c.timeout
	}
	c.httpClient = &hc
	return c, nil
}

// BaseURL returns the configured API origin.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// URL resolves an API path against the base origin.
func (c *Client) URL(path string) string {
	return c.baseURL.String() + "/" + strings.TrimLeft(path, "/")
}

// For binds the client to a visitor's credentials.
func (c *Client) For(creds Credentials) *Session {
	hc := *c.httpClient
	if creds != nil {
		if jar := creds.Jar(); jar != nil {
			hc.Jar = jar
		}
	}
	return &Session{client: c, http: &hc, creds: creds}
}

// Session performs requests on behalf of one visitor.
type Session struct {
	client *Client
	http   *http.Client
	creds  Credentials
}

// Do sends a JSON request and decodes the response envelope.
//
// A 401 on a request that is not already a retry triggers exactly one call to
// the refresh endpoint. If the refresh succeeds the original request is sent
// once more; otherwise the original 401 error is returned unchanged.
func (s *Session) Do(ctx context.Context, method, path string, payload any) (*Response, error) {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s %s request: %w", method, path, err)
		}
	}
	return s.do(ctx, method, path, body, false)
}

func (s *Session) do(ctx context.Context, method, path string, body []byte, retry bool) (*Response, error) {
	status, data, err := s.send(ctx, method, path, body)
	if err != nil {
		return nil, err
	}

	if status == http.StatusUnauthorized && !retry && path != PathRefreshToken {
		if rerr := s.refresh(ctx); rerr != nil {
			s.client.logger.Debug("Session refresh failed", "path", path, "error", rerr)
		} else {
			return s.do(ctx, method, path, body, true)
		}
	}

	return decode(status, data)
}

func (s *Session) send(ctx context.Context, method, path string, body []byte) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.client.URL(path), reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create %s %s request: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.creds != nil {
		if token := s.creds.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to send %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read %s %s response: %w", method, path, err)
	}
	return resp.StatusCode, data, nil
}

// refresh counts any 2xx as success. The API may only rotate the cookie and
// answer with an empty body; a token in the body is picked up when present.
func (s *Session) refresh(ctx context.Context) error {
	status, data, err := s.send(ctx, http.MethodGet, PathRefreshToken, nil)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		_, err := decode(status, data)
		return err
	}

	var resp Response
	if err := json.Unmarshal(data, &resp); err == nil && resp.Token != "" {
		if setter, ok := s.creds.(TokenSetter); ok {
			setter.SetToken(resp.Token)
		}
	}
	return nil
}

// decode turns a raw response into an envelope or an *APIError.
func decode(status int, data []byte) (*Response, error) {
	var resp Response
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, &resp); err != nil {
			if status < 200 || status >= 300 {
				return nil, &APIError{Status: status, Message: http.StatusText(status)}
			}
			return nil, fmt.Errorf("failed to decode api response: %w", err)
		}
	}

	if status < 200 || status >= 300 {
		msg := resp.Message
		if msg == "" {
			msg = http.StatusText(status)
		}
		return nil, &APIError{Status: status, Message: msg}
	}
	if !resp.Success {
		return nil, &APIError{Status: status, Message: resp.Message}
	}
	return &resp, nil
}
