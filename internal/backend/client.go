// Package backend forwards contact and newsletter submissions to the
// PrognoCore API.
package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"prognocore.com/web/internal/forms"
)

const (
	defaultTimeout    = 10 * time.Second
	idempotencyHeader = "Idempotency-Key"
	maxErrorBody      = 512
)

// Endpoint names a submission resource under /api.
type Endpoint string

const (
	EndpointContact    Endpoint = "contact"
	EndpointNewsletter Endpoint = "newsletter"
)

// ErrNoBaseURL is returned when the API location was never configured.
var ErrNoBaseURL = errors.New("backend: base url not configured")

// StatusError carries a non-2xx response.
type StatusError struct {
	Endpoint Endpoint
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend: %s status %d: %s", e.Endpoint, e.Code, e.Body)
}

// Client posts submissions to {base}/api/{endpoint}. It never retries.
type Client struct {
	baseURL string
	http    *resty.Client
	logger  *zap.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient swaps the transport, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = resty.NewWithClient(hc)
		}
	}
}

// WithTimeout bounds every outbound request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.SetTimeout(d)
		}
	}
}

// WithLogger sets the logger used for failure detail.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient builds a client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    resty.New().SetTimeout(defaultTimeout),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http.
		SetRetryCount(0).
		SetLogger(c.logger.Named("resty").Sugar()).
		SetHeader("Accept", "application/json")
	return c
}

// Submit sends one submission and reports the outcome. Failure detail is
// logged and never returned to the caller.
func (c *Client) Submit(ctx context.Context, endpoint Endpoint, payload any) forms.Status {
	if err := c.Send(ctx, endpoint, payload); err != nil {
		c.logger.Warn("submission failed",
			zap.String("endpoint", string(endpoint)),
			zap.Error(err),
		)
		return forms.Failure
	}
	c.logger.Info("submission accepted", zap.String("endpoint", string(endpoint)))
	return forms.Success
}

// Send posts payload as JSON to {base}/api/{endpoint}. Any transport error,
// timeout or non-2xx response is an error.
func (c *Client) Send(ctx context.Context, endpoint Endpoint, payload any) error {
	if c == nil || c.baseURL == "" {
		return ErrNoBaseURL
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader(idempotencyHeader, ulid.Make().String()).
		SetBody(payload).
		Post(c.baseURL + "/api/" + string(endpoint))
	if err != nil {
		return fmt.Errorf("backend: post %s: %w", endpoint, err)
	}
	if !resp.IsSuccess() {
		return &StatusError{Endpoint: endpoint, Code: resp.StatusCode(), Body: truncate(resp.String())}
	}
	return nil
}

// Ping calls GET {base}/api/ and succeeds on any 2xx.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.baseURL == "" {
		return ErrNoBaseURL
	}
	resp, err := c.http.R().SetContext(ctx).Get(c.baseURL + "/api/")
	if err != nil {
		return fmt.Errorf("backend: ping: %w", err)
	}
	if !resp.IsSuccess() {
		return &StatusError{Endpoint: "", Code: resp.StatusCode(), Body: truncate(resp.String())}
	}
	return nil
}

func truncate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxErrorBody {
		return s[:maxErrorBody]
	}
	return s
}
