package eloqua

import (
	"fmt"
	"strings"
	"time"

	"github.com/eloquacloud/eloqua-sdk-go/internal/version"
)

// Default configuration values
const (
	DefaultLoginURL = "https://login.eloqua.com"
	DefaultTimeout  = 30 * time.Second

	// API versions substituted into the discovered URL templates.
	BulkVersion = "2.0"
	RestVersion = "2.0"
)

// RetryConfig configures retry behavior for failed requests.
type RetryConfig struct {
	// MaxRetries is the maximum number of retry attempts.
	MaxRetries int
	// BaseDelay is the initial delay before the first retry.
	BaseDelay time.Duration
	// MaxDelay is the maximum delay between retries.
	MaxDelay time.Duration
	// Factor is the exponential backoff multiplier.
	Factor float64
	// Jitter enables randomized jitter on retry delays.
	Jitter bool
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

// CircuitBreakerConfig configures the circuit breaker.
type CircuitBreakerConfig struct {
	// Enabled determines if circuit breaker is active.
	Enabled bool
	// FailureThreshold is the number of failures before opening the circuit.
	FailureThreshold int
	// SuccessThreshold is the number of successes needed to close the circuit.
	SuccessThreshold int
	// Timeout is the duration the circuit stays open before allowing a test request.
	Timeout time.Duration
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

// Logger is the interface for debug logging.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
}

// LoggerFunc is a function adapter for Logger.
type LoggerFunc func(msg string, keysAndValues ...any)

// Debug implements Logger.
func (f LoggerFunc) Debug(msg string, keysAndValues ...any) {
	f(msg, keysAndValues...)
}

// OAuthConfig holds OAuth2 client credentials for the resource owner
// password grant. When set, the client exchanges the username and password
// for bearer tokens instead of sending basic auth on every request.
type OAuthConfig struct {
	// ClientID is the OAuth application id.
	ClientID string
	// ClientSecret is the OAuth application secret.
	ClientSecret string
	// TokenURL overrides the Eloqua token endpoint.
	TokenURL string
}

// Config holds the SDK configuration.
type Config struct {
	// Company is the Eloqua company (site) name.
	Company string
	// Username is the Eloqua user name.
	Username string
	// Password is the Eloqua user password.
	Password string

	// OAuth enables OAuth2 bearer auth when non-nil.
	OAuth *OAuthConfig

	// BaseURL pins the instance base URL (e.g. https://secure.p01.eloqua.com),
	// skipping login discovery. Leave empty to resolve it via Connect.
	BaseURL string
	// LoginURL is the login service used for discovery.
	LoginURL string

	// Timeout is the request timeout.
	Timeout time.Duration
	// Retry is the retry configuration.
	Retry RetryConfig
	// CircuitBreaker is the circuit breaker configuration.
	CircuitBreaker CircuitBreakerConfig

	// Headers are additional headers to include in all requests.
	Headers map[string]string
	// UserAgent is the custom user agent string.
	UserAgent string
	// Logger is the debug logger.
	Logger Logger
}

// Option is a functional option for configuring the client.
type Option func(*Config)

// WithCompany sets the Eloqua company (site) name.
func WithCompany(company string) Option {
	return func(c *Config) {
		c.Company = company
	}
}

// WithUsername sets the Eloqua user name.
func WithUsername(username string) Option {
	return func(c *Config) {
		c.Username = username
	}
}

// WithPassword sets the Eloqua user password.
func WithPassword(password string) Option {
	return func(c *Config) {
		c.Password = password
	}
}

// WithCredentials sets company, username, and password in one call.
func WithCredentials(company, username, password string) Option {
	return func(c *Config) {
		c.Company = company
		c.Username = username
		c.Password = password
	}
}

// WithOAuth enables OAuth2 bearer auth with the given application credentials.
func WithOAuth(clientID, clientSecret string) Option {
	return func(c *Config) {
		c.OAuth = &OAuthConfig{ClientID: clientID, ClientSecret: clientSecret}
	}
}

// WithTokenURL overrides the OAuth2 token endpoint.
func WithTokenURL(url string) Option {
	return func(c *Config) {
		if c.OAuth == nil {
			c.OAuth = &OAuthConfig{}
		}
		c.OAuth.TokenURL = url
	}
}

// WithBaseURL pins the instance base URL and skips login discovery.
func WithBaseURL(url string) Option {
	return func(c *Config) {
		c.BaseURL = strings.TrimSuffix(url, "/")
	}
}

// WithLoginURL sets the login service URL used for discovery.
func WithLoginURL(url string) Option {
	return func(c *Config) {
		c.LoginURL = strings.TrimSuffix(url, "/")
	}
}

// WithTimeout sets the request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.Timeout = d
	}
}

// WithRetry sets the retry configuration.
func WithRetry(cfg RetryConfig) Option {
	return func(c *Config) {
		c.Retry = cfg
	}
}

// WithCircuitBreaker sets the circuit breaker configuration.
func WithCircuitBreaker(cfg CircuitBreakerConfig) Option {
	return func(c *Config) {
		c.CircuitBreaker = cfg
	}
}

// WithHeaders sets additional headers for all requests.
func WithHeaders(headers map[string]string) Option {
	return func(c *Config) {
		if c.Headers == nil {
			c.Headers = make(map[string]string)
		}
		for k, v := range headers {
			c.Headers[k] = v
		}
	}
}

// WithUserAgent sets a custom user agent string.
func WithUserAgent(ua string) Option {
	return func(c *Config) {
		c.UserAgent = ua
	}
}

// WithLogger sets the debug logger.
func WithLogger(l Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

// WithDebug enables debug logging to stdout.
func WithDebug(enabled bool) Option {
	return func(c *Config) {
		if enabled {
			c.Logger = LoggerFunc(func(msg string, keysAndValues ...any) {
				parts := []any{"[eloqua-sdk]", msg}
				for i := 0; i < len(keysAndValues); i += 2 {
					if i+1 < len(keysAndValues) {
						parts = append(parts, fmt.Sprintf("%v=%v", keysAndValues[i], keysAndValues[i+1]))
					}
				}
				fmt.Println(parts...)
			})
		}
	}
}

// newDefaultConfig creates a new config with default values.
func newDefaultConfig() *Config {
	return &Config{
		LoginURL:       DefaultLoginURL,
		Timeout:        DefaultTimeout,
		Retry:          DefaultRetryConfig(),
		CircuitBreaker: DefaultCircuitBreakerConfig(),
		Headers:        make(map[string]string),
		UserAgent:      version.UserAgent(),
	}
}

// resolveConfig applies options over the defaults.
func resolveConfig(opts ...Option) *Config {
	cfg := newDefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
