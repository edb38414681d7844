package httpclient

import (
	"net/http"
	"time"
)

// DefaultTimeout bounds a single request when no timeout is configured
const DefaultTimeout = 30 * time.Second

// Client is the subset of *http.Client used by API clients.
// Tests substitute it with a RoundTripper-backed fake or an httptest server.
type Client interface {
	Do(req *http.Request) (*http.Response, error)
}

// StandardHTTPClient wraps http.Client with a request timeout
type StandardHTTPClient struct {
	client *http.Client
}

// NewStandardClient creates an HTTP client with the given timeout.
// A zero timeout uses DefaultTimeout.
func NewStandardClient(timeout time.Duration) Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &StandardHTTPClient{
		client: &http.Client{Timeout: timeout},
	}
}

// Do executes an HTTP request
func (c *StandardHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return c.client.Do(req)
}
