// Package httpx provides the HTTP transport shared by the Eloqua API services.
package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/eloquacloud/eloqua-sdk-go/internal/version"
)

// API selects which Eloqua API root a request path is resolved against.
// The rest and bulk roots are instance-specific and only become available
// after login discovery (or an explicit base URL).
type API string

const (
	// APILogin targets the login service (https://login.eloqua.com).
	APILogin API = "login"
	// APIRest targets the instance's standard REST API root.
	APIRest API = "rest"
	// APIBulk targets the instance's Bulk API root.
	APIBulk API = "bulk"
)

// ErrNotConnected is returned when a request targets an API root that has
// not been discovered yet.
var ErrNotConnected = errors.New("not connected: API roots unknown, call Connect first")

// Logger is an interface for debug logging.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
}

// OAuthConfig configures resource owner password credentials auth against
// the Eloqua login service. When present the transport sends bearer tokens
// instead of basic auth.
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
}

// Config holds configuration for the transport.
type Config struct {
	LoginURL string
	Company  string
	Username string
	Password string

	OAuth *OAuthConfig

	UserAgent      string
	Headers        map[string]string
	Timeout        time.Duration
	Retry          RetryConfig
	CircuitBreaker CircuitBreakerConfig
	Logger         Logger
}

// RetryConfig configures retry behavior.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Factor     float64
	Jitter     bool
}

// CircuitBreakerConfig configures the circuit breaker.
type CircuitBreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	SuccessThreshold int
	Timeout          time.Duration
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		BaseDelay:  1 * time.Second,
		MaxDelay:   60 * time.Second,
		Factor:     2.0,
		Jitter:     true,
	}
}

// DefaultCircuitBreakerConfig returns the default circuit breaker configuration.
func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 5,
		SuccessThreshold: 3,
		Timeout:          30 * time.Second,
	}
}

// Transport wraps an http.Client with Eloqua auth, retry, and circuit
// breaker handling. One transport is shared by all services of a client.
type Transport struct {
	client    *http.Client
	loginURL  string
	company   string
	username  string
	password  string
	userAgent string
	headers   map[string]string
	retry     *RetryPolicy
	breaker   *CircuitBreaker
	logger    Logger
	refresher *TokenRefresher

	mu       sync.RWMutex
	restBase string
	bulkBase string
}

// NewTransport creates a new Transport with the given configuration.
func NewTransport(cfg Config) *Transport {
	if cfg.UserAgent == "" {
		cfg.UserAgent = version.UserAgent()
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	t := &Transport{
		client:    &http.Client{Timeout: cfg.Timeout},
		loginURL:  strings.TrimSuffix(cfg.LoginURL, "/"),
		company:   cfg.Company,
		username:  cfg.Username,
		password:  cfg.Password,
		userAgent: cfg.UserAgent,
		headers:   cfg.Headers,
		logger:    cfg.Logger,
	}

	retryConfig := cfg.Retry
	if retryConfig.BaseDelay == 0 && retryConfig.MaxDelay == 0 && retryConfig.Factor == 0 {
		// MaxRetries=0 with explicit delays is a valid "no retries" config,
		// an all-zero block means nothing was provided.
		retryConfig = DefaultRetryConfig()
	}
	t.retry = NewRetryPolicy(retryConfig)

	if cfg.CircuitBreaker.Enabled {
		t.breaker = NewCircuitBreaker(cfg.CircuitBreaker)
	}

	if cfg.OAuth != nil {
		t.refresher = NewTokenRefresher(*cfg.OAuth, SiteUser(cfg.Company, cfg.Username), cfg.Password, cfg.Logger)
	}

	return t
}

// SiteUser returns the company-qualified username Eloqua expects in
// credentials ("company\username").
func SiteUser(company, username string) string {
	return company + `\` + username
}

// SetAPIRoots stores the instance API roots resolved by login discovery.
func (t *Transport) SetAPIRoots(rest, bulk string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.restBase = strings.TrimSuffix(rest, "/")
	t.bulkBase = strings.TrimSuffix(bulk, "/")
}

// Connected reports whether API roots are known.
func (t *Transport) Connected() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.restBase != "" && t.bulkBase != ""
}

// resolveBase returns the base URL for the requested API.
func (t *Transport) resolveBase(api API) (string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	switch api {
	case APILogin:
		return t.loginURL, nil
	case APIRest:
		if t.restBase == "" {
			return "", ErrNotConnected
		}
		return t.restBase, nil
	case APIBulk:
		if t.bulkBase == "" {
			return "", ErrNotConnected
		}
		return t.bulkBase, nil
	default:
		return "", fmt.Errorf("unknown API %q", api)
	}
}

// Request represents an HTTP request to be made.
type Request struct {
	API     API
	Method  string
	Path    string
	Body    any
	Query   url.Values
	Headers map[string]string
	// Idempotent marks a POST as safe to retry.
	Idempotent bool
}

// Response represents an HTTP response.
type Response struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
}

// Do executes an HTTP request with retry and circuit breaker logic.
func (t *Transport) Do(ctx context.Context, req *Request) (*Response, error) {
	if t.breaker != nil && !t.breaker.Allow() {
		return nil, NewCircuitBreakerOpenError()
	}

	var lastErr error
	maxAttempts := t.retry.MaxRetries + 1
	refreshAttempted := false

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			delay := t.retry.Delay(attempt - 1)
			if ra := retryAfter(lastErr); ra > 0 {
				delay = ra
			}
			t.log("retrying request", "attempt", attempt, "delay", delay, "path", req.Path)

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		resp, err := t.doOnce(ctx, req)
		if err == nil {
			if t.breaker != nil {
				t.breaker.RecordSuccess()
			}
			return resp, nil
		}

		lastErr = err

		// A 401 under OAuth usually means the token expired mid-flight.
		if IsAuthenticationError(err) && t.refresher != nil && !refreshAttempted {
			refreshAttempted = true
			t.log("received 401, forcing token refresh")
			if refreshErr := t.refresher.ForceRefresh(ctx); refreshErr == nil {
				attempt--
				continue
			} else {
				t.log("token refresh failed", "error", refreshErr)
			}
		}

		if t.breaker != nil {
			t.breaker.RecordFailure()
		}

		if !t.shouldRetry(req, err, attempt) {
			break
		}
	}

	return nil, lastErr
}

// doOnce executes a single HTTP request.
func (t *Transport) doOnce(ctx context.Context, req *Request) (*Response, error) {
	base, err := t.resolveBase(req.API)
	if err != nil {
		return nil, err
	}

	fullURL := base + req.Path
	if len(req.Query) > 0 {
		fullURL += "?" + req.Query.Encode()
	}

	var bodyReader io.Reader
	if req.Body != nil {
		bodyBytes, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, fullURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("User-Agent", t.userAgent)
	httpReq.Header.Set("Accept", "application/json")
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	if err := t.setAuth(ctx, httpReq); err != nil {
		return nil, err
	}

	for k, v := range t.headers {
		httpReq.Header.Set(k, v)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	t.log("executing request", "method", req.Method, "url", fullURL)
	httpResp, err := t.client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, NewTimeoutError(t.client.Timeout, ctx.Err())
		}
		return nil, NewNetworkError(err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, NewNetworkError(fmt.Errorf("read response body: %w", err))
	}

	t.log("received response", "status", httpResp.StatusCode, "path", req.Path)

	if httpResp.StatusCode >= 400 {
		return nil, ParseErrorFromResponse(httpResp.StatusCode, body, httpResp.Header)
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Body:       body,
		Headers:    httpResp.Header,
	}, nil
}

// setAuth attaches credentials to the request. OAuth takes precedence over
// basic auth when configured.
func (t *Transport) setAuth(ctx context.Context, httpReq *http.Request) error {
	if t.refresher != nil {
		token, err := t.refresher.Token(ctx)
		if err != nil {
			return err
		}
		httpReq.Header.Set("Authorization", "Bearer "+token)
		return nil
	}
	httpReq.SetBasicAuth(SiteUser(t.company, t.username), t.password)
	return nil
}

// shouldRetry determines if a request should be retried.
func (t *Transport) shouldRetry(req *Request, err error, attempt int) bool {
	if attempt >= t.retry.MaxRetries {
		return false
	}

	// Import data POSTs are not idempotent unless explicitly marked.
	if req.Method == http.MethodPost && !req.Idempotent {
		return false
	}

	return IsRetryable(err)
}

// retryAfter extracts the server-requested retry delay, if any.
func retryAfter(err error) time.Duration {
	var rateErr *RateLimitError
	if errors.As(err, &rateErr) {
		return rateErr.RetryAfter
	}
	return 0
}

// log logs a debug message.
func (t *Transport) log(msg string, keysAndValues ...any) {
	if t.logger != nil {
		t.logger.Debug(msg, keysAndValues...)
	}
}

// JSON decodes a response body into a target value.
func JSON[T any](resp *Response) (*T, error) {
	if len(resp.Body) == 0 {
		return nil, nil
	}
	var result T
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return &result, nil
}
