// Package gateway is the client's only channel to the remote news store.
//
// Every call performs exactly one HTTP request. Nothing is retried, and no
// timeout is applied unless the caller configures one on the client or the
// context.
package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vanderheijden86/newsboard/pkg/model"
)

// RequestIDHeader carries a per-request id so client and server logs can be
// correlated.
const RequestIDHeader = "X-Request-ID"

// StatusError is returned when the store answers with a non-2xx status.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// Client talks to the REST API rooted at a base URL.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	log     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets an overall per-request timeout. Zero means none.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.http
		hc.Timeout = d
		c.http = &hc
	}
}

// WithLogger attaches a logger for request tracing.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l.With().Str("component", "gateway").Logger() }
}

// New creates a Client for baseURL, e.g. "http://localhost:3000".
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse api url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("api url %q: scheme must be http or https", baseURL)
	}
	c := &Client{
		baseURL: u,
		http:    &http.Client{},
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string { return c.baseURL.String() }

// ListUsers fetches the full roster.
func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := c.do(ctx, http.MethodGet, "/users", nil, &users); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// ListNews fetches every article.
func (c *Client) ListNews(ctx context.Context) ([]model.NewsItem, error) {
	var items []model.NewsItem
	if err := c.do(ctx, http.MethodGet, "/news", nil, &items); err != nil {
		return nil, fmt.Errorf("list news: %w", err)
	}
	return items, nil
}

// GetNews fetches a single article.
func (c *Client) GetNews(ctx context.Context, id model.ID) (model.NewsItem, error) {
	var item model.NewsItem
	if err := c.do(ctx, http.MethodGet, newsPath(id), nil, &item); err != nil {
		return model.NewsItem{}, fmt.Errorf("get news %s: %w", id, err)
	}
	return item, nil
}

// CreateNews posts a new article and returns it as stored.
func (c *Client) CreateNews(ctx context.Context, draft model.NewsDraft) (model.NewsItem, error) {
	if draft.Comments == nil {
		draft.Comments = []model.Comment{}
	}
	var item model.NewsItem
	if err := c.do(ctx, http.MethodPost, "/news", draft, &item); err != nil {
		return model.NewsItem{}, fmt.Errorf("create news: %w", err)
	}
	return item, nil
}

// UpdateNews patches the fields set in p. The store keeps everything else.
func (c *Client) UpdateNews(ctx context.Context, id model.ID, p model.NewsPatch) (model.NewsItem, error) {
	var item model.NewsItem
	if err := c.do(ctx, http.MethodPatch, newsPath(id), p, &item); err != nil {
		return model.NewsItem{}, fmt.Errorf("update news %s: %w", id, err)
	}
	return item, nil
}

// DeleteNews removes an article.
func (c *Client) DeleteNews(ctx context.Context, id model.ID) error {
	if err := c.do(ctx, http.MethodDelete, newsPath(id), nil, nil); err != nil {
		return fmt.Errorf("delete news %s: %w", id, err)
	}
	return nil
}

func newsPath(id model.ID) string {
	return "/news/" + url.PathEscape(id.String())
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, body)
	if err != nil {
		return err
	}
	reqID := uuid.NewString()
	req.Header.Set(RequestIDHeader, reqID)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Str("method", method).Str("path", path).Str("request_id", reqID).Msg("request failed")
		return err
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Str("request_id", reqID).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
