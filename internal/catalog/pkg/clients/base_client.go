package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"golang.org/x/time/rate"
	"gomarketplace_admin/internal/catalog/business/services"
	"gomarketplace_admin/pkg/logger"
	"gomarketplace_admin/pkg/middleware"
	"io"
	"net/http"
	"strings"
	"time"
)

// APIError ответ API со статусом вне 2xx.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("catalog api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("catalog api: status %d: %s", e.StatusCode, e.Message)
}

// envelope общий конверт ответов API: {"success": ..., "message": ...}.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type BaseClient struct {
	ApiURL  string
	log     logger.Logger
	client  *http.Client
	limiter *rate.Limiter
	auth    services.AuthEngine
}

type Options struct {
	Timeout           time.Duration
	RequestsPerMinute int
	Burst             int
	Transport         http.RoundTripper
}

func NewBaseClient(apiURL string, auth services.AuthEngine, log logger.Logger, opts Options) *BaseClient {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	limit := rate.Inf
	if opts.RequestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(opts.RequestsPerMinute))
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}
	return &BaseClient{
		ApiURL:  strings.TrimRight(apiURL, "/"),
		log:     log,
		client:  &http.Client{Timeout: opts.Timeout, Transport: middleware.PrometheusTransport(opts.Transport)},
		limiter: rate.NewLimiter(limit, opts.Burst),
		auth:    auth,
	}
}

func (c *BaseClient) newRequest(ctx context.Context, method, endpoint string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.ApiURL+endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.auth != nil {
		if err := c.auth.SetApiKey(req); err != nil {
			return nil, fmt.Errorf("failed to authorize request: %w", err)
		}
	}
	return req, nil
}

// do ждёт лимитер, выполняет запрос и декодирует JSON-ответ в response.
func (c *BaseClient) do(ctx context.Context, req *http.Request, response interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("limiter: %w", err)
	}

	c.log.Log("%s %s", req.Method, req.URL.Path)
	resp, err := c.client.Do(req)
	if err != nil {
		select {
		case <-ctx.Done():
			return fmt.Errorf("request was cancelled: %w", ctx.Err())
		default:
			return fmt.Errorf("failed to execute request: %w", err)
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var env envelope
		if json.Unmarshal(body, &env) == nil {
			apiErr.Message = env.Message
		}
		c.log.Log("%s %s failed: %s", req.Method, req.URL.Path, apiErr)
		return apiErr
	}

	if response == nil {
		return nil
	}
	if err := json.Unmarshal(body, response); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

func (c *BaseClient) getJSON(ctx context.Context, endpoint string, response interface{}) error {
	req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	return c.do(ctx, req, response)
}
