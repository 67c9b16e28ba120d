package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
)

// DefaultTokenURL is the Eloqua OAuth2 token endpoint.
const DefaultTokenURL = "https://login.eloqua.com/auth/oauth2/token"

// expirySkew refreshes tokens a minute before their actual expiry.
const expirySkew = time.Minute

// TokenRefresher obtains and renews OAuth2 access tokens from the Eloqua
// login service using the resource owner password credentials grant.
// Safe for concurrent use; refreshes are single-flight.
type TokenRefresher struct {
	mu         sync.Mutex
	refreshing bool
	done       chan struct{}

	clientID     string
	clientSecret string
	tokenURL     string
	siteUser     string
	password     string

	accessToken  string
	refreshToken string
	expiresAt    time.Time

	client *http.Client
	logger Logger
}

// NewTokenRefresher creates a new token refresher.
func NewTokenRefresher(cfg OAuthConfig, siteUser, password string, logger Logger) *TokenRefresher {
	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}
	return &TokenRefresher{
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		tokenURL:     tokenURL,
		siteUser:     siteUser,
		password:     password,
		client:       &http.Client{Timeout: 30 * time.Second},
		logger:       logger,
	}
}

// Token returns a valid access token, performing the initial grant or a
// refresh when needed.
func (tr *TokenRefresher) Token(ctx context.Context) (string, error) {
	tr.mu.Lock()
	token := tr.accessToken
	valid := token != "" && (tr.expiresAt.IsZero() || time.Now().Before(tr.expiresAt))
	tr.mu.Unlock()

	if valid {
		return token, nil
	}
	if err := tr.refresh(ctx, false); err != nil {
		return "", err
	}

	tr.mu.Lock()
	defer tr.mu.Unlock()
	if tr.accessToken == "" {
		return "", fmt.Errorf("no access token after refresh")
	}
	return tr.accessToken, nil
}

// ForceRefresh renews the token regardless of expiry. Used after a 401.
func (tr *TokenRefresher) ForceRefresh(ctx context.Context) error {
	return tr.refresh(ctx, true)
}

// refresh performs the grant with single-flight coordination: only one
// goroutine talks to the token endpoint, the rest wait for it.
func (tr *TokenRefresher) refresh(ctx context.Context, force bool) error {
	tr.mu.Lock()

	if tr.refreshing {
		done := tr.done
		tr.mu.Unlock()

		select {
		case <-done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	// Another goroutine may have refreshed while we waited for the lock.
	if !force && tr.accessToken != "" && (tr.expiresAt.IsZero() || time.Now().Before(tr.expiresAt)) {
		tr.mu.Unlock()
		return nil
	}

	tr.refreshing = true
	tr.done = make(chan struct{})
	refreshToken := tr.refreshToken
	tr.mu.Unlock()

	defer func() {
		tr.mu.Lock()
		tr.refreshing = false
		close(tr.done)
		tr.mu.Unlock()
	}()

	if refreshToken != "" {
		if err := tr.grant(ctx, map[string]string{
			"grant_type":    "refresh_token",
			"refresh_token": refreshToken,
			"scope":         "full",
		}); err == nil {
			return nil
		}
		tr.log("refresh grant failed, falling back to password grant")
	}

	return tr.grant(ctx, map[string]string{
		"grant_type": "password",
		"scope":      "full",
		"username":   tr.siteUser,
		"password":   tr.password,
	})
}

// grant posts a token request and stores the resulting tokens.
func (tr *TokenRefresher) grant(ctx context.Context, params map[string]string) error {
	body, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("marshal token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tr.tokenURL, strings.NewReader(string(body)))
	if err != nil {
		return fmt.Errorf("create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(tr.clientID, tr.clientSecret)

	resp, err := tr.client.Do(req)
	if err != nil {
		return fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("token grant %q failed with status %d", params["grant_type"], resp.StatusCode)
	}

	var result struct {
		AccessToken  string `json:"access_token"`
		TokenType    string `json:"token_type"`
		ExpiresIn    int    `json:"expires_in"`
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode token response: %w", err)
	}
	if result.AccessToken == "" {
		return fmt.Errorf("token response contained no access token")
	}

	tr.mu.Lock()
	tr.accessToken = result.AccessToken
	if result.RefreshToken != "" {
		tr.refreshToken = result.RefreshToken
	}
	if result.ExpiresIn > 0 {
		tr.expiresAt = time.Now().Add(time.Duration(result.ExpiresIn)*time.Second - expirySkew)
	} else {
		tr.expiresAt = time.Time{}
	}
	tr.mu.Unlock()

	tr.log("token obtained", "grant", params["grant_type"], "expires_in", result.ExpiresIn)
	return nil
}

// log logs a debug message.
func (tr *TokenRefresher) log(msg string, keysAndValues ...any) {
	if tr.logger != nil {
		tr.logger.Debug(msg, keysAndValues...)
	}
}
