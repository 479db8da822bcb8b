// Package api talks to a posts collection over plain REST/JSON.
package api

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

	"github.com/idilsaglam/postboard/internal/model"
)

// Client is bound to one collection endpoint, e.g. http://localhost:3000/posts.
type Client struct {
	base    string
	hc      *http.Client
	timeout time.Duration
	lenient bool
	log     *slog.Logger
}

type Option func(*Client)

// WithHTTPClient swaps the underlying *http.Client (tests use the httptest one).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

// WithTimeout bounds every request. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLenientStatus decodes every response as if it succeeded, whatever its
// status code. Off by default.
func WithLenientStatus() Option {
	return func(c *Client) { c.lenient = true }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New returns a client for the collection at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url: unsupported scheme %q", u.Scheme)
	}
	c := &Client{
		base: baseURL,
		hc:   &http.Client{},
		log:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opts {
		o(c)
	}
	if c.timeout > 0 {
		hc := *c.hc
		hc.Timeout = c.timeout
		c.hc = &hc
	}
	return c, nil
}

// BaseURL returns the collection endpoint.
func (c *Client) BaseURL() string { return c.base }

func (c *Client) itemURL(id model.ID) string {
	return c.base + "/" + url.PathEscape(id.String())
}

// List fetches the whole collection in server order.
func (c *Client) List(ctx context.Context) ([]model.Post, error) {
	var posts []model.Post
	if err := c.do(ctx, "list", http.MethodGet, c.base, nil, &posts, false); err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []model.Post{}
	}
	return posts, nil
}

// Get fetches one post.
func (c *Client) Get(ctx context.Context, id model.ID) (model.Post, error) {
	var p model.Post
	err := c.do(ctx, "get", http.MethodGet, c.itemURL(id), nil, &p, false)
	return p, err
}

// Create posts in to the collection and returns the stored post with its id.
func (c *Client) Create(ctx context.Context, in model.PostInput) (model.Post, error) {
	var p model.Post
	err := c.do(ctx, "create", http.MethodPost, c.base, in, &p, false)
	return p, err
}

// Update sends a PATCH carrying only title, author and content.
// The returned post is whatever the server answered, possibly zero.
func (c *Client) Update(ctx context.Context, id model.ID, patch model.PostPatch) (model.Post, error) {
	var p model.Post
	err := c.do(ctx, "update", http.MethodPatch, c.itemURL(id), patch, &p, true)
	return p, err
}

// Delete removes a post. The response body is ignored.
func (c *Client) Delete(ctx context.Context, id model.ID) error {
	return c.do(ctx, "delete", http.MethodDelete, c.itemURL(id), nil, nil, true)
}

// do performs one round trip. out may be nil; allowEmpty accepts a bodiless response.
func (c *Client) do(ctx context.Context, op, method, target string, body, out any, allowEmpty bool) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return &FetchError{Op: op, Method: method, URL: target, Err: fmt.Errorf("encode body: %w", err)}
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, rd)
	if err != nil {
		return &FetchError{Op: op, Method: method, URL: target, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		c.log.Debug("request failed", slog.String("op", op), slog.String("url", target), slog.String("error", err.Error()))
		return &FetchError{Op: op, Method: method, URL: target, Err: fmt.Errorf("%w: %w", ErrTransport, err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &FetchError{Op: op, Method: method, URL: target, StatusCode: resp.StatusCode, Err: fmt.Errorf("%w: read body: %w", ErrTransport, err)}
	}
	c.log.Debug("request done",
		slog.String("op", op),
		slog.String("method", method),
		slog.String("url", target),
		slog.Int("status", resp.StatusCode),
		slog.Duration("took", time.Since(start)))

	if !c.lenient && (resp.StatusCode < 200 || resp.StatusCode > 299) {
		return &FetchError{Op: op, Method: method, URL: target, StatusCode: resp.StatusCode, Err: statusErr(resp.StatusCode, raw)}
	}
	if out == nil {
		return nil
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		if allowEmpty {
			return nil
		}
		return &FetchError{Op: op, Method: method, URL: target, StatusCode: resp.StatusCode, Err: fmt.Errorf("%w: empty body", ErrDecode)}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &FetchError{Op: op, Method: method, URL: target, StatusCode: resp.StatusCode, Err: fmt.Errorf("%w: %w", ErrDecode, err)}
	}
	return nil
}

func statusErr(code int, raw []byte) error {
	var apiErr struct {
		Message string `json:"message"`
	}
	msg := http.StatusText(code)
	if json.Unmarshal(raw, &apiErr) == nil && apiErr.Message != "" {
		msg = apiErr.Message
	}
	return fmt.Errorf("%w %d: %s", ErrStatus, code, msg)
}
