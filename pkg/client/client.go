package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/blockpilot/rpckit/pkg/types"
)

// Config configures an HTTP JSON-RPC client
type Config struct {
	// URL is the endpoint address. Required.
	URL string `yaml:"url" json:"url"`

	// Timeout bounds each HTTP request. Defaults to 30s.
	Timeout time.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`

	// Backoff controls transport-level retries of retryable failures.
	// Zero MaxAttempts disables retries; the other fields default from
	// DefaultBackoffConfig.
	Backoff BackoffConfig `yaml:"-" json:"-"`

	// MaxRetries mirrors Backoff.MaxAttempts for config files.
	MaxRetries int `yaml:"max_retries,omitempty" json:"max_retries,omitempty"`

	// Headers are set on every request.
	Headers map[string]string `yaml:"headers,omitempty" json:"headers,omitempty"`

	// UserAgent overrides the default User-Agent header.
	UserAgent string `yaml:"user_agent,omitempty" json:"user_agent,omitempty"`

	// RequestsPerMinute enables a client-side rate limiter when > 0.
	RequestsPerMinute int `yaml:"requests_per_minute,omitempty" json:"requests_per_minute,omitempty"`

	// Auth describes endpoint authentication.
	Auth AuthConfig `yaml:"auth,omitempty" json:"auth,omitempty"`
}

// Metrics is a point-in-time copy of the client's counters.
type Metrics struct {
	TotalRequests  int64         `json:"total_requests"`
	SuccessfulReqs int64         `json:"successful_requests"`
	FailedReqs     int64         `json:"failed_requests"`
	AvgLatency     time.Duration `json:"avg_latency"`
}

// Client is an HTTP JSON-RPC 2.0 client for one endpoint.
// It implements types.RPCClient and is safe for concurrent use.
type Client struct {
	endpoint   string
	config     Config
	httpClient *http.Client
	auth       *authenticator
	limiter    *rate.Limiter

	requestCount int64
	successCount int64
	errorCount   int64
	totalLatency int64 // Nanoseconds
}

// New creates a client for the configured endpoint. The endpoint URL must
// be present and parse as an absolute http(s) URL.
func New(config Config) (*Client, error) {
	if config.URL == "" {
		return nil, fmt.Errorf("client config requires a url")
	}
	parsed, err := url.Parse(config.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint url %q: %w", config.URL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("endpoint url %q must use http or https", config.URL)
	}

	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	defaults := DefaultBackoffConfig()
	if config.Backoff.BaseDelay == 0 {
		config.Backoff.BaseDelay = defaults.BaseDelay
	}
	if config.Backoff.MaxDelay == 0 {
		config.Backoff.MaxDelay = defaults.MaxDelay
	}
	if config.Backoff.Multiplier == 0 {
		config.Backoff.Multiplier = defaults.Multiplier
	}
	if config.Backoff.MaxAttempts == 0 {
		config.Backoff.MaxAttempts = config.MaxRetries
	}

	auth, err := newAuthenticator(context.Background(), config.Auth)
	if err != nil {
		return nil, fmt.Errorf("configuring auth for %s: %w", config.URL, err)
	}

	c := &Client{
		endpoint: config.URL,
		config:   config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		auth: auth,
	}
	if config.RequestsPerMinute > 0 {
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(config.RequestsPerMinute)), config.RequestsPerMinute)
	}

	return c, nil
}

// URL implements types.RPCClient.
func (c *Client) URL() string {
	return c.endpoint
}

// GetMetrics returns a copy of the client's request counters.
func (c *Client) GetMetrics() Metrics {
	m := Metrics{
		TotalRequests:  atomic.LoadInt64(&c.requestCount),
		SuccessfulReqs: atomic.LoadInt64(&c.successCount),
		FailedReqs:     atomic.LoadInt64(&c.errorCount),
	}
	if m.TotalRequests > 0 {
		m.AvgLatency = time.Duration(atomic.LoadInt64(&c.totalLatency) / m.TotalRequests)
	}
	return m
}

// Call implements types.RPCClient. It performs one JSON-RPC call,
// retrying retryable transport failures per the backoff config. JSON-RPC
// application errors are never retried; their message is surfaced
// verbatim in the returned *types.ClientError.
func (c *Client) Call(ctx context.Context, method string, params []any) (json.RawMessage, error) {
	start := time.Now()
	atomic.AddInt64(&c.requestCount, 1)

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			atomic.AddInt64(&c.errorCount, 1)
			return nil, err
		}
	}

	if params == nil {
		params = []any{}
	}
	requestID := uuid.NewString()
	body, err := json.Marshal(rpcRequest{
		Jsonrpc: jsonrpcVersion,
		ID:      requestID,
		Method:  method,
		Params:  params,
	})
	if err != nil {
		atomic.AddInt64(&c.errorCount, 1)
		return nil, types.NewClientError(c.endpoint, types.ErrCodeInvalidRequest,
			fmt.Sprintf("encoding request for %s failed: %v", method, err)).
			WithMethod(method).WithOriginalErr(err)
	}

	var result json.RawMessage
	var callErr *types.ClientError

	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(CalculateBackoff(c.config.Backoff, attempt)):
			case <-ctx.Done():
				atomic.AddInt64(&c.errorCount, 1)
				return nil, ctx.Err()
			}
		}

		result, callErr = c.doCall(ctx, method, requestID, body)
		if callErr == nil || attempt >= c.config.Backoff.MaxAttempts || !callErr.IsRetryable() {
			break
		}
		if ctx.Err() != nil {
			break
		}
	}

	atomic.AddInt64(&c.totalLatency, time.Since(start).Nanoseconds())
	if callErr != nil {
		atomic.AddInt64(&c.errorCount, 1)
		return nil, callErr
	}
	atomic.AddInt64(&c.successCount, 1)
	return result, nil
}

// doCall performs one HTTP round trip and decodes the response envelope.
func (c *Client) doCall(ctx context.Context, method, requestID string, body []byte) (json.RawMessage, *types.ClientError) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, types.NewClientError(c.endpoint, types.ErrCodeInvalidRequest,
			fmt.Sprintf("building request failed: %v", err)).
			WithMethod(method).WithRequestID(requestID).WithOriginalErr(err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	} else {
		req.Header.Set("User-Agent", "rpckit/1.0")
	}
	for key, value := range c.config.Headers {
		req.Header.Set(key, value)
	}
	if err := c.auth.apply(req, c.endpoint); err != nil {
		var clientErr *types.ClientError
		if errors.As(err, &clientErr) {
			return nil, clientErr.WithMethod(method).WithRequestID(requestID)
		}
		return nil, types.NewClientError(c.endpoint, types.ErrCodeAuthentication, err.Error()).
			WithMethod(method).WithRequestID(requestID).WithOriginalErr(err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var transportErr *types.ClientError
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			transportErr = types.NewTimeoutError(c.endpoint, err)
		} else {
			transportErr = types.NewNetworkError(c.endpoint, err)
		}
		return nil, transportErr.WithMethod(method).WithRequestID(requestID)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, types.NewNetworkError(c.endpoint, err).
			WithMethod(method).WithRequestID(requestID).WithStatusCode(resp.StatusCode)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, httpStatusError(c.endpoint, resp.StatusCode).
			WithMethod(method).WithRequestID(requestID)
	}

	var envelope rpcResponse
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return nil, types.NewClientError(c.endpoint, types.ErrCodeMalformed,
			fmt.Sprintf("malformed JSON-RPC response from %s: %v", c.endpoint, err)).
			WithMethod(method).WithRequestID(requestID).WithStatusCode(resp.StatusCode).WithOriginalErr(err)
	}

	if envelope.Error != nil {
		return nil, types.NewRPCError(c.endpoint, envelope.Error.Code, envelope.Error.Message).
			WithMethod(method).WithRequestID(requestID).WithStatusCode(resp.StatusCode)
	}

	return envelope.Result, nil
}

// httpStatusError maps a non-2xx HTTP status to a categorized error.
func httpStatusError(endpoint string, statusCode int) *types.ClientError {
	code := types.ErrCodeServerError
	switch {
	case statusCode == http.StatusTooManyRequests:
		code = types.ErrCodeRateLimit
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		code = types.ErrCodeAuthentication
	case statusCode >= 400 && statusCode < 500:
		code = types.ErrCodeInvalidRequest
	}
	return types.NewClientError(endpoint, code,
		fmt.Sprintf("%s returned HTTP %d %s", endpoint, statusCode, http.StatusText(statusCode))).
		WithStatusCode(statusCode)
}

// isTimeout reports whether err is a transport timeout.
func isTimeout(err error) bool {
	var timeoutErr interface{ Timeout() bool }
	return errors.As(err, &timeoutErr) && timeoutErr.Timeout()
}
