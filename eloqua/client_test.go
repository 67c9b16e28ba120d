package eloqua

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/eloquacloud/eloqua-sdk-go/internal/testutil"
)

// loginDoc installs a discovery document on the mock login service whose
// API url templates point back at the same server.
func loginDoc(ms *testutil.MockServer) {
	ms.HandleJSON(http.MethodGet, "/id", http.StatusOK, map[string]any{
		"site": map[string]any{"id": 42, "name": "TestCompany"},
		"user": map[string]any{
			"id":           7,
			"username":     "Test.User",
			"displayName":  "Test User",
			"emailAddress": "test.user@example.com",
		},
		"urls": map[string]any{
			"base": ms.URL,
			"apis": map[string]any{
				"rest": map[string]any{
					"standard": ms.URL + "/API/REST/{version}/",
					"bulk":     ms.URL + "/API/Bulk/{version}/",
				},
			},
		},
	})
}

func TestNewClient_MissingCredentials(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
	}{
		{"no options", nil},
		{"company only", []Option{WithCompany("TestCompany")}},
		{"no password", []Option{WithCompany("TestCompany"), WithUsername("Test.User")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.opts...)
			if !errors.Is(err, ErrNoCredentials) {
				t.Errorf("NewClient() error = %v, want ErrNoCredentials", err)
			}
		})
	}
}

func TestNewClient_Defaults(t *testing.T) {
	c, err := NewClient(WithCredentials("TestCompany", "Test.User", "secret"))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	defer c.Close()

	cfg := c.GetConfig()
	if cfg.LoginURL != DefaultLoginURL {
		t.Errorf("LoginURL = %q, want %q", cfg.LoginURL, DefaultLoginURL)
	}
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", cfg.Timeout, DefaultTimeout)
	}
	if cfg.Retry != DefaultRetryConfig() {
		t.Errorf("Retry = %+v, want defaults", cfg.Retry)
	}
	if cfg.CircuitBreaker != DefaultCircuitBreakerConfig() {
		t.Errorf("CircuitBreaker = %+v, want defaults", cfg.CircuitBreaker)
	}
	if c.Connected() {
		t.Error("Connected() = true before Connect")
	}
}

func TestNewClient_Options(t *testing.T) {
	c, err := NewClient(
		WithCredentials("TestCompany", "Test.User", "secret"),
		WithTimeout(5*time.Second),
		WithUserAgent("custom-agent/1.0"),
		WithHeaders(map[string]string{"X-Custom": "yes"}),
		WithOAuth("client-id", "client-secret"),
		WithTokenURL("https://login.eloqua.example/auth/oauth2/token"),
	)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	defer c.Close()

	cfg := c.GetConfig()
	if cfg.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", cfg.Timeout)
	}
	if cfg.UserAgent != "custom-agent/1.0" {
		t.Errorf("UserAgent = %q, want custom-agent/1.0", cfg.UserAgent)
	}
	if cfg.Headers["X-Custom"] != "yes" {
		t.Errorf("Headers[X-Custom] = %q, want yes", cfg.Headers["X-Custom"])
	}
	if cfg.OAuth == nil || cfg.OAuth.ClientID != "client-id" {
		t.Errorf("OAuth = %+v, want client-id", cfg.OAuth)
	}
	if cfg.OAuth.TokenURL != "https://login.eloqua.example/auth/oauth2/token" {
		t.Errorf("TokenURL = %q", cfg.OAuth.TokenURL)
	}
}

func TestNewClient_WithBaseURL(t *testing.T) {
	ms := testutil.NewMockServer(t)
	ms.HandleJSON(http.MethodGet, "/api/bulk/2.0/contacts/fields", http.StatusOK,
		testutil.SearchPage([]map[string]any{}, 0, 1000, 0, 0, false))

	c, err := NewClient(
		WithCredentials("TestCompany", "Test.User", "secret"),
		WithBaseURL(ms.URL+"/"),
	)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	defer c.Close()

	if !c.Connected() {
		t.Fatal("Connected() = false with pinned base URL")
	}

	if _, err := c.Bulk().ListFieldsFor(context.Background(), "contacts"); err != nil {
		t.Fatalf("ListFieldsFor() error = %v", err)
	}
	ms.AssertLastRequestPath(t, "/api/bulk/2.0/contacts/fields")
}

func TestClient_Connect(t *testing.T) {
	ms := testutil.NewMockServer(t)
	loginDoc(ms)
	ms.HandleJSON(http.MethodGet, "/API/Bulk/2.0/contacts/fields", http.StatusOK,
		testutil.SearchPage([]map[string]any{}, 0, 1000, 0, 0, false))

	var logs []string
	c, err := NewClient(
		WithCredentials("TestCompany", "Test.User", "secret"),
		WithLoginURL(ms.URL),
		WithLogger(LoggerFunc(func(msg string, keysAndValues ...any) {
			logs = append(logs, msg)
		})),
	)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	defer c.Close()

	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}

	if !c.Connected() {
		t.Error("Connected() = false after Connect")
	}
	if site := c.Site(); site.ID != 42 || site.Name != "TestCompany" {
		t.Errorf("Site() = %+v", site)
	}
	if user := c.User(); user.Username != "Test.User" {
		t.Errorf("User() = %+v", user)
	}

	// The discovered url templates get the version substituted in.
	if _, err := c.Bulk().ListFieldsFor(context.Background(), "contacts"); err != nil {
		t.Fatalf("ListFieldsFor() error = %v", err)
	}
	ms.AssertLastRequestPath(t, "/API/Bulk/2.0/contacts/fields")

	found := false
	for _, msg := range logs {
		if msg == "connected" {
			found = true
		}
	}
	if !found {
		t.Errorf("logs = %v, want a connected entry", logs)
	}
}

func TestClient_Connect_NotAuthenticated(t *testing.T) {
	ms := testutil.NewMockServer(t)
	ms.HandleJSON(http.MethodGet, "/id", http.StatusOK, "Not authenticated.")

	c, err := NewClient(
		WithCredentials("TestCompany", "Test.User", "wrong"),
		WithLoginURL(ms.URL),
	)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	defer c.Close()

	err = c.Connect(context.Background())
	if !IsAuthenticationError(err) {
		t.Errorf("Connect() error = %v, want authentication error", err)
	}
	if c.Connected() {
		t.Error("Connected() = true after failed Connect")
	}
}

func TestClient_Connect_MissingURLs(t *testing.T) {
	ms := testutil.NewMockServer(t)
	ms.HandleJSON(http.MethodGet, "/id", http.StatusOK, map[string]any{
		"site": map[string]any{"id": 42, "name": "TestCompany"},
	})

	c, err := NewClient(
		WithCredentials("TestCompany", "Test.User", "secret"),
		WithLoginURL(ms.URL),
	)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	defer c.Close()

	err = c.Connect(context.Background())
	if err == nil {
		t.Fatal("Connect() error = nil, want missing urls error")
	}
}

func TestClient_NotConnected(t *testing.T) {
	c, err := NewClient(WithCredentials("TestCompany", "Test.User", "secret"))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	defer c.Close()

	_, err = c.Bulk().ListFieldsFor(context.Background(), "contacts")
	if !errors.Is(err, ErrNotConnected) {
		t.Errorf("ListFieldsFor() error = %v, want ErrNotConnected", err)
	}
}

func TestNewClientFromEnv(t *testing.T) {
	t.Setenv("ELOQUA_COMPANY", "EnvCompany")
	t.Setenv("ELOQUA_USER", "Env.User")
	t.Setenv("ELOQUA_PASSWORD", "env-secret")
	t.Setenv("ELOQUA_BASE_URL", "https://secure.p03.eloqua.com")

	c, err := NewClientFromEnv()
	if err != nil {
		t.Fatalf("NewClientFromEnv() error = %v", err)
	}
	defer c.Close()

	cfg := c.GetConfig()
	if cfg.Company != "EnvCompany" || cfg.Username != "Env.User" || cfg.Password != "env-secret" {
		t.Errorf("config = %q/%q, want env values", cfg.Company, cfg.Username)
	}
	if cfg.BaseURL != "https://secure.p03.eloqua.com" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if !c.Connected() {
		t.Error("Connected() = false with ELOQUA_BASE_URL set")
	}
}

func TestNewClientFromEnv_Missing(t *testing.T) {
	t.Setenv("ELOQUA_COMPANY", "")
	t.Setenv("ELOQUA_USER", "")
	t.Setenv("ELOQUA_PASSWORD", "")

	_, err := NewClientFromEnv()
	if !errors.Is(err, ErrNoCredentials) {
		t.Errorf("NewClientFromEnv() error = %v, want ErrNoCredentials", err)
	}
}
