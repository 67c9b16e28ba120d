package eloqua

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"

	"github.com/eloquacloud/eloqua-sdk-go/eloqua/bulk"
	"github.com/eloquacloud/eloqua-sdk-go/eloqua/rest"
	"github.com/eloquacloud/eloqua-sdk-go/internal/httpx"
)

// Site identifies the Eloqua instance resolved at login.
type Site struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// User is the authenticated user returned by login discovery.
type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress"`
}

// loginInfo is the discovery document served at <login>/id.
type loginInfo struct {
	Site Site `json:"site"`
	User User `json:"user"`
	URLs struct {
		Base string `json:"base"`
		APIs struct {
			REST struct {
				Standard string `json:"standard"`
				Bulk     string `json:"bulk"`
			} `json:"rest"`
		} `json:"apis"`
	} `json:"urls"`
}

// Client is the main Eloqua SDK client.
//
// Eloqua instances live on per-customer pods, so the REST and Bulk API
// roots are not known up front: call Connect to resolve them through the
// login service, or pin them with WithBaseURL.
type Client struct {
	cfg       *Config
	transport *httpx.Transport

	bulk *bulk.Service
	rest *rest.Service

	mu     sync.RWMutex
	site   Site
	user   User
	closed bool
}

// NewClient creates a new Eloqua client with the given options.
func NewClient(opts ...Option) (*Client, error) {
	cfg := resolveConfig(opts...)

	if cfg.Company == "" || cfg.Username == "" || cfg.Password == "" {
		return nil, ErrNoCredentials
	}

	var oauth *httpx.OAuthConfig
	if cfg.OAuth != nil {
		oauth = &httpx.OAuthConfig{
			ClientID:     cfg.OAuth.ClientID,
			ClientSecret: cfg.OAuth.ClientSecret,
			TokenURL:     cfg.OAuth.TokenURL,
		}
	}

	transport := httpx.NewTransport(httpx.Config{
		LoginURL:  cfg.LoginURL,
		Company:   cfg.Company,
		Username:  cfg.Username,
		Password:  cfg.Password,
		OAuth:     oauth,
		UserAgent: cfg.UserAgent,
		Headers:   cfg.Headers,
		Timeout:   cfg.Timeout,
		Retry: httpx.RetryConfig{
			MaxRetries: cfg.Retry.MaxRetries,
			BaseDelay:  cfg.Retry.BaseDelay,
			MaxDelay:   cfg.Retry.MaxDelay,
			Factor:     cfg.Retry.Factor,
			Jitter:     cfg.Retry.Jitter,
		},
		CircuitBreaker: httpx.CircuitBreakerConfig{
			Enabled:          cfg.CircuitBreaker.Enabled,
			FailureThreshold: cfg.CircuitBreaker.FailureThreshold,
			SuccessThreshold: cfg.CircuitBreaker.SuccessThreshold,
			Timeout:          cfg.CircuitBreaker.Timeout,
		},
		Logger: wrapLogger(cfg.Logger),
	})

	c := &Client{
		cfg:       cfg,
		transport: transport,
		bulk:      bulk.NewService(transport),
		rest:      rest.NewService(transport),
	}

	if cfg.BaseURL != "" {
		transport.SetAPIRoots(apiRoot(cfg.BaseURL, "rest", RestVersion), apiRoot(cfg.BaseURL, "bulk", BulkVersion))
	}

	return c, nil
}

// NewClientFromEnv builds a client from ELOQUA_* environment variables,
// loading a .env file first when one is present. Recognized variables:
// ELOQUA_COMPANY, ELOQUA_USER, ELOQUA_PASSWORD, and optionally
// ELOQUA_BASE_URL.
func NewClientFromEnv(opts ...Option) (*Client, error) {
	_ = godotenv.Load()

	envOpts := []Option{
		WithCompany(os.Getenv("ELOQUA_COMPANY")),
		WithUsername(os.Getenv("ELOQUA_USER")),
		WithPassword(os.Getenv("ELOQUA_PASSWORD")),
	}
	if base := os.Getenv("ELOQUA_BASE_URL"); base != "" {
		envOpts = append(envOpts, WithBaseURL(base))
	}

	return NewClient(append(envOpts, opts...)...)
}

// wrapLogger wraps an eloqua.Logger to an httpx.Logger.
func wrapLogger(l Logger) httpx.Logger {
	if l == nil {
		return nil
	}
	return &loggerWrapper{l}
}

type loggerWrapper struct {
	Logger
}

func (w *loggerWrapper) Debug(msg string, keysAndValues ...any) {
	w.Logger.Debug(msg, keysAndValues...)
}

// apiRoot forms an instance API root from a pinned base URL.
func apiRoot(base, api, apiVersion string) string {
	return fmt.Sprintf("%s/api/%s/%s", strings.TrimSuffix(base, "/"), api, apiVersion)
}

// Connect resolves the instance API roots through the login service.
// It is not required when the client was built with WithBaseURL.
func (c *Client) Connect(ctx context.Context) error {
	resp, err := c.transport.Do(ctx, &httpx.Request{
		API:    httpx.APILogin,
		Method: http.MethodGet,
		Path:   "/id",
	})
	if err != nil {
		return err
	}

	// The login service reports bad credentials as a 200 whose body is the
	// bare JSON string "Not authenticated."
	var notAuth string
	if json.Unmarshal(resp.Body, &notAuth) == nil && strings.EqualFold(notAuth, "Not authenticated.") {
		return &AuthenticationError{APIError: &APIError{
			StatusCode: http.StatusUnauthorized,
			Message:    "not authenticated",
		}}
	}

	var info loginInfo
	if err := json.Unmarshal(resp.Body, &info); err != nil {
		return fmt.Errorf("decode login response: %w", err)
	}

	restRoot := strings.TrimSuffix(strings.ReplaceAll(info.URLs.APIs.REST.Standard, "{version}", RestVersion), "/")
	bulkRoot := strings.TrimSuffix(strings.ReplaceAll(info.URLs.APIs.REST.Bulk, "{version}", BulkVersion), "/")
	if restRoot == "" || bulkRoot == "" {
		return fmt.Errorf("login response missing API urls")
	}
	c.transport.SetAPIRoots(restRoot, bulkRoot)

	c.mu.Lock()
	c.site = info.Site
	c.user = info.User
	c.mu.Unlock()

	c.log("connected", "site", info.Site.Name, "rest", restRoot, "bulk", bulkRoot)
	return nil
}

// Connected reports whether API roots have been resolved.
func (c *Client) Connected() bool {
	return c.transport.Connected()
}

// Site returns the instance resolved by Connect. Zero until connected.
func (c *Client) Site() Site {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.site
}

// User returns the authenticated user resolved by Connect. Zero until connected.
func (c *Client) User() User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.user
}

// Bulk returns the Bulk API service.
func (c *Client) Bulk() *bulk.Service {
	return c.bulk
}

// Rest returns the REST API service.
func (c *Client) Rest() *rest.Service {
	return c.rest
}

// GetConfig returns a copy of the client configuration.
func (c *Client) GetConfig() Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return *c.cfg
}

// Close closes the client and releases any resources.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// log logs a debug message if logging is enabled.
func (c *Client) log(msg string, keysAndValues ...any) {
	if c.cfg.Logger != nil {
		c.cfg.Logger.Debug(msg, keysAndValues...)
	}
}
