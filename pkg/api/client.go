// Package api is the HTTP client for the remote review service.
package api

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

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Dicklesworthstone/review_viewer/pkg/model"
)

// DefaultTimeout is the per-request timeout when none is configured
const DefaultTimeout = 10 * time.Second

// maxBodySize caps how much of a response body is read (4MB)
const maxBodySize = 4 * 1024 * 1024

// Client talks to the review API. The access token is passed through on
// every call and never inspected.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	maxRetries int
	backoff    time.Duration
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger used for request tracing
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRetries sets how many times idempotent requests are retried and the base backoff
func WithRetries(n int, backoff time.Duration) Option {
	return func(c *Client) {
		if n >= 0 {
			c.maxRetries = n
		}
		if backoff > 0 {
			c.backoff = backoff
		}
	}
}

// NewClient creates a client rooted at baseURL
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base URL must be http or https, got %q", baseURL)
	}

	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     zap.NewNop(),
		maxRetries: DefaultMaxRetries,
		backoff:    500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalized base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// collectionURL picks the public or private review collection
func (c *Client) collectionURL(private bool) string {
	if private {
		return c.baseURL + "/private/reviews"
	}
	return c.baseURL + "/reviews"
}

func (c *Client) itemURL(id string, private bool) string {
	return c.collectionURL(private) + "/" + url.PathEscape(id)
}

// List fetches every review visible under the given privacy mode
func (c *Client) List(ctx context.Context, private bool, token string) ([]model.Review, error) {
	var reviews []model.Review
	if err := c.do(ctx, http.MethodGet, c.collectionURL(private), token, nil, &reviews); err != nil {
		return nil, fmt.Errorf("listing reviews: %w", err)
	}
	if reviews == nil {
		reviews = []model.Review{}
	}
	return reviews, nil
}

// Get fetches a single review
func (c *Client) Get(ctx context.Context, id string, private bool, token string) (model.Review, error) {
	var r model.Review
	if err := c.do(ctx, http.MethodGet, c.itemURL(id, private), token, nil, &r); err != nil {
		return model.Review{}, fmt.Errorf("getting review %s: %w", id, err)
	}
	return r, nil
}

// Create adds a review. The returned review is zero if the server sends no body.
func (c *Client) Create(ctx context.Context, in model.ReviewInput, private bool, token string) (model.Review, error) {
	var r model.Review
	if err := c.do(ctx, http.MethodPost, c.collectionURL(private), token, in.Normalized(), &r); err != nil {
		return model.Review{}, fmt.Errorf("creating review: %w", err)
	}
	return r, nil
}

// Update replaces the editable fields of a review
func (c *Client) Update(ctx context.Context, id string, in model.ReviewInput, private bool, token string) (model.Review, error) {
	var r model.Review
	if err := c.do(ctx, http.MethodPut, c.itemURL(id, private), token, in.Normalized(), &r); err != nil {
		return model.Review{}, fmt.Errorf("updating review %s: %w", id, err)
	}
	if r.ID == "" {
		r.ID = id
	}
	return r, nil
}

// Delete removes a review
func (c *Client) Delete(ctx context.Context, id string, private bool, token string) error {
	if err := c.do(ctx, http.MethodDelete, c.itemURL(id, private), token, nil, nil); err != nil {
		return fmt.Errorf("deleting review %s: %w", id, err)
	}
	return nil
}

// do sends one logical request. POST is not retried since it is not idempotent.
func (c *Client) do(ctx context.Context, method, target, token string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
	}

	retries := c.maxRetries
	if method == http.MethodPost {
		retries = 0
	}

	requestID := uuid.NewString()
	return retryWithBackoff(ctx, retries, c.backoff, func() error {
		start := time.Now()
		err := c.once(ctx, method, target, token, requestID, payload, out)
		c.logger.Debug("api request",
			zap.String("method", method),
			zap.String("url", target),
			zap.String("request_id", requestID),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return err
	})
}

func (c *Client) once(ctx context.Context, method, target, token, requestID string, payload []byte, out any) error {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{
			Method:     method,
			URL:        target,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(respBody)),
		}
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}
