// Package webhooksapi is an HTTP client for the webhooks administration API.
package webhooksapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/getmentor/webhook-admin/internal/models"
	"github.com/getmentor/webhook-admin/pkg/circuitbreaker"
	"github.com/getmentor/webhook-admin/pkg/errors"
	"github.com/getmentor/webhook-admin/pkg/httpclient"
	"github.com/getmentor/webhook-admin/pkg/logger"
	"github.com/getmentor/webhook-admin/pkg/metrics"
	"github.com/getmentor/webhook-admin/pkg/tracing"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"
)

const (
	serviceName = "webhooks-api"

	listPath   = "/api/webhooks/list"
	createPath = "/api/webhooks/create"
	updatePath = "/api/webhooks/update"
	deletePath = "/api/webhooks/delete"

	// error bodies larger than this are truncated
	maxErrorBody = 64 << 10
)

// Client talks to the webhooks API over HTTP
type Client struct {
	baseURL    string
	token      string
	httpClient httpclient.Client
	breaker    *gobreaker.CircuitBreaker
}

// NewClient creates a client for the API at baseURL.
// An empty token sends requests without an Authorization header.
func NewClient(baseURL, token string, httpClient httpclient.Client) *Client {
	if httpClient == nil {
		httpClient = httpclient.NewStandardClient(0)
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: httpClient,
		breaker:    circuitbreaker.NewCircuitBreaker(circuitbreaker.DefaultConfig(serviceName)),
	}
}

// SearchWebhooks lists the webhooks of scope
func (c *Client) SearchWebhooks(ctx context.Context, scope models.Scope) (*models.SearchWebhooksResponse, error) {
	query := url.Values{}
	setIfPresent(query, "organization", scope.Organization)
	setIfPresent(query, "project", scope.Project)

	endpoint := c.baseURL + listPath
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var resp models.SearchWebhooksResponse
	err := c.call(ctx, "list", http.MethodGet, endpoint, nil, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Webhooks == nil {
		resp.Webhooks = []models.Webhook{}
	}
	return &resp, nil
}

// CreateWebhook creates a webhook and returns the stored record
func (c *Client) CreateWebhook(ctx context.Context, req models.CreateWebhookRequest) (*models.CreateWebhookResponse, error) {
	form := url.Values{}
	form.Set("name", req.Name)
	form.Set("url", req.URL)
	setIfPresent(form, "organization", req.Organization)
	setIfPresent(form, "project", req.Project)

	var resp models.CreateWebhookResponse
	if err := c.call(ctx, "create", http.MethodPost, c.baseURL+createPath, form, &resp); err != nil {
		return nil, err
	}
	if resp.Webhook.Key == "" {
		return nil, errors.InternalError("create webhook: response has no key")
	}
	return &resp, nil
}

// UpdateWebhook changes the name and url of an existing webhook
func (c *Client) UpdateWebhook(ctx context.Context, req models.UpdateWebhookRequest) error {
	form := url.Values{}
	form.Set("key", req.Key)
	form.Set("name", req.Name)
	form.Set("url", req.URL)
	return c.call(ctx, "update", http.MethodPost, c.baseURL+updatePath, form, nil)
}

// DeleteWebhook removes a webhook
func (c *Client) DeleteWebhook(ctx context.Context, req models.DeleteWebhookRequest) error {
	form := url.Values{}
	form.Set("key", req.Key)
	return c.call(ctx, "delete", http.MethodPost, c.baseURL+deletePath, form, nil)
}

// call sends one request, decoding a 2xx body into out when out is not nil
func (c *Client) call(ctx context.Context, operation, method, endpoint string, form url.Values, out interface{}) (err error) {
	ctx, span := tracing.StartSpan(ctx, "webhooksapi."+operation,
		attribute.String("http.request.method", method),
		attribute.String("url.full", endpoint))
	start := time.Now()
	defer func() {
		duration := metrics.MeasureDuration(start)
		status := metrics.Status(err)
		metrics.APIClientDuration.WithLabelValues(operation, status).Observe(duration)
		metrics.APIClientTotal.WithLabelValues(operation, status).Inc()
		logger.LogAPICall(ctx, serviceName, operation, status, duration, zap.Error(err))
		tracing.EndSpan(span, err)
	}()

	// 4xx answers mean the API is healthy and must not trip the breaker
	var clientErr error
	_, err = circuitbreaker.Execute(c.breaker, func() (struct{}, error) {
		sendErr := c.send(ctx, method, endpoint, form, out)
		var apiErr *errors.APIError
		if errors.As(sendErr, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError {
			clientErr = sendErr
			return struct{}{}, nil
		}
		return struct{}{}, sendErr
	})
	if err == nil {
		err = clientErr
	}
	if err != nil {
		return fmt.Errorf("%s webhook: %w", operation, err)
	}
	return nil
}

// send performs one HTTP exchange
func (c *Client) send(ctx context.Context, method, endpoint string, form url.Values, out interface{}) error {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	tracing.InjectHeaders(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// errorBody is the JSON error envelope returned by the API
type errorBody struct {
	Error   string `json:"error"`
	Details []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"details"`
}

func decodeError(resp *http.Response) *errors.APIError {
	apiErr := &errors.APIError{StatusCode: resp.StatusCode}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return apiErr
	}

	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		apiErr.Message = strings.TrimSpace(string(raw))
		return apiErr
	}

	apiErr.Message = body.Error
	for _, d := range body.Details {
		apiErr.Details = append(apiErr.Details, d.Message)
	}
	return apiErr
}

func setIfPresent(values url.Values, key, value string) {
	if value != "" {
		values.Set(key, value)
	}
}
