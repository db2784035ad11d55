// Package api is the HTTP client the terminal host uses to reach energyd.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jask/energylog/internal/energy"
)

// DefaultTimeout bounds each request when the caller sets none.
const DefaultTimeout = 5 * time.Second

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Method  string
	Path    string
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Code, http.StatusText(e.Code))
}

// Client talks to the energyd HTTP API.
type Client struct {
	base    *url.URL
	token   string
	timeout time.Duration
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithToken sends token as a bearer token.
func WithToken(token string) Option { return func(c *Client) { c.token = token } }

// WithTimeout bounds every request.
func WithTimeout(d time.Duration) Option { return func(c *Client) { c.timeout = d } }

// WithHTTPClient replaces the transport client.
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }

// New returns a client for baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("api base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("api base url %q: scheme and host required", baseURL)
	}
	c := &Client{base: u, timeout: DefaultTimeout, http: http.DefaultClient}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// LoadItems fetches every reading.
func (c *Client) LoadItems(ctx context.Context) ([]energy.Energy, error) {
	var out []energy.Energy
	err := c.do(ctx, http.MethodGet, "/energies", nil, nil, &out)
	return out, err
}

// LastRows fetches the n newest readings.
func (c *Client) LastRows(ctx context.Context, n int) ([]energy.Energy, error) {
	var out []energy.Energy
	q := url.Values{"count": {strconv.Itoa(n)}}
	err := c.do(ctx, http.MethodGet, "/lastenergies", q, nil, &out)
	return out, err
}

// Kinds fetches the kind list.
func (c *Client) Kinds(ctx context.Context) ([]energy.KindInfo, error) {
	var out []energy.KindInfo
	err := c.do(ctx, http.MethodGet, "/kinds", nil, nil, &out)
	return out, err
}

// Save stores e and returns the stored record.
func (c *Client) Save(ctx context.Context, e energy.Energy) (energy.Energy, error) {
	var out energy.Energy
	err := c.do(ctx, http.MethodPost, "/energies", nil, e, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, body, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	u := *c.base
	u.Path = c.base.Path + path
	u.RawQuery = q.Encode()

	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		rd = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), rd)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var payload struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&payload)
		return &StatusError{Method: method, Path: path, Code: resp.StatusCode, Message: payload.Error}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
