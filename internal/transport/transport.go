//go:generate go run github.com/golang/mock/mockgen -destination=./mocks/transport.go -package=mocks . Transport

// Package transport is the HTTP boundary of the client. Everything above it
// works with Request/Response values, so tests can swap the real HTTP stack
// for a mock and the orchestration layer never touches net/http directly.
package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const userAgent = "entsoe-go"

// Request describes one API call before it is handed to the HTTP stack.
type Request struct {
	Method string
	URL    string
	Params url.Values
}

// Response is the raw outcome of one API call. Body is fully read; callers
// never deal with streams.
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// Transport executes one request against the platform. Implementations must
// honor ctx cancellation and return an error only for failures below HTTP:
// a response with a non-2xx status is still a Response, not an error.
type Transport interface {
	Send(ctx context.Context, req *Request) (*Response, error)
}

// Client is the production Transport. It serializes request admission
// through a token-bucket rate limiter so a single client instance stays
// under the platform's request quota no matter how many fetches run
// concurrently.
type Client struct {
	http    *http.Client
	limiter *rate.Limiter
	logger  *logrus.Logger
}

// NewClient builds a rate-limited HTTP transport around hc. A nil hc falls
// back to http.DefaultClient; a nil limiter disables client-side rate
// limiting.
func NewClient(hc *http.Client, limiter *rate.Limiter, logger *logrus.Logger) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{
		http:    hc,
		limiter: limiter,
		logger:  logger,
	}
}

// Send waits for rate-limiter admission, performs the request and returns
// the fully-read response.
func (c *Client) Send(ctx context.Context, req *Request) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait: %w", err)
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.URL.RawQuery = req.Params.Encode()
	httpReq.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if c.logger != nil {
		c.logger.WithFields(logrus.Fields{
			"status":   resp.StatusCode,
			"bytes":    len(body),
			"duration": time.Since(start).String(),
		}).Debug("API request completed")
	}

	return &Response{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

// Compile-time interface implementation check
var _ Transport = (*Client)(nil)
