// Package oauth2 wraps golang.org/x/oauth2 with the redirect/callback
// handlers for third-party login providers. Providers fetch a raw profile
// from the provider's user-info endpoint and hand it to the application
// through HandleProfileFunc; they make no decisions about users, storage
// or credentials.
package oauth2

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// HandleProfileFunc receives the raw provider profile after a successful
// exchange. The application normalizes it and issues its own credential.
type HandleProfileFunc func(provider string, profile map[string]any, w http.ResponseWriter, r *http.Request)

// DefaultAuthFailureURL is where failed callbacks land. The error code is
// generic on purpose - provider internals are logged, never surfaced.
const DefaultAuthFailureURL = "/?error=oauth_failed"

// DefaultExchangeTimeout bounds the code exchange plus the profile fetch.
// Exceeding it is treated as an exchange failure, never a hung request.
const DefaultExchangeTimeout = 10 * time.Second

// BaseOAuth2 carries the pieces shared by all providers.
type BaseOAuth2 struct {
	ClientID     string
	ClientSecret string
	CallbackURL  string

	// AuthFailureURL overrides DefaultAuthFailureURL when set.
	AuthFailureURL string

	// ExchangeTimeout overrides DefaultExchangeTimeout when set.
	ExchangeTimeout time.Duration

	// HandleProfile is called with the raw profile on success.
	HandleProfile HandleProfileFunc

	// HTTPClient overrides the default client. Used by tests.
	HTTPClient *http.Client

	// Config is the underlying oauth2 configuration. Endpoint URLs can
	// be overridden for testing against a mock provider.
	Config oauth2.Config
}

// Configured reports whether the provider has everything it needs. An
// unconfigured provider must answer 503, never crash or silently no-op.
func (b *BaseOAuth2) Configured() bool {
	return b.ClientID != "" && b.ClientSecret != "" && b.CallbackURL != ""
}

func (b *BaseOAuth2) failureURL() string {
	if b.AuthFailureURL != "" {
		return b.AuthFailureURL
	}
	return DefaultAuthFailureURL
}

func (b *BaseOAuth2) timeout() time.Duration {
	if b.ExchangeTimeout > 0 {
		return b.ExchangeTimeout
	}
	return DefaultExchangeTimeout
}

func (b *BaseOAuth2) httpClient() *http.Client {
	if b.HTTPClient != nil {
		return b.HTTPClient
	}
	return http.DefaultClient
}

// exchangeContext derives a bounded context for the token exchange and
// wires in the injectable HTTP client for the oauth2 library.
func (b *BaseOAuth2) exchangeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, b.httpClient())
	return context.WithTimeout(ctx, b.timeout())
}

// Redirector starts the flow: it plants the state cookie and sends the
// browser to the provider's authorization endpoint.
func (b *BaseOAuth2) Redirector() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := setStateCookie(w)
		http.Redirect(w, r, b.Config.AuthCodeURL(state), http.StatusFound)
	}
}

// handleCallback completes the flow for a provider: state check, bounded
// code exchange, profile fetch, then hand-off to the application. Every
// failure redirects to the failure URL with the cause kept in the logs.
func (b *BaseOAuth2) handleCallback(provider, userInfoURL string, w http.ResponseWriter, r *http.Request) {
	if !validState(r) {
		slog.Warn("oauth callback state mismatch", "provider", provider)
		clearStateCookie(w)
		http.Redirect(w, r, b.failureURL(), http.StatusFound)
		return
	}
	clearStateCookie(w)

	if errParam := r.FormValue("error"); errParam != "" {
		slog.Warn("oauth callback returned error", "provider", provider, "error", errParam)
		http.Redirect(w, r, b.failureURL(), http.StatusFound)
		return
	}

	code := r.FormValue("code")
	if code == "" {
		slog.Warn("oauth callback missing code", "provider", provider)
		http.Redirect(w, r, b.failureURL(), http.StatusFound)
		return
	}

	ctx, cancel := b.exchangeContext(r.Context())
	defer cancel()

	token, err := b.Config.Exchange(ctx, code)
	if err != nil {
		slog.Warn("oauth code exchange failed", "provider", provider, "err", err)
		http.Redirect(w, r, b.failureURL(), http.StatusFound)
		return
	}

	profile, err := b.fetchProfile(ctx, userInfoURL, token)
	if err != nil {
		slog.Warn("oauth profile fetch failed", "provider", provider, "err", err)
		http.Redirect(w, r, b.failureURL(), http.StatusFound)
		return
	}

	b.HandleProfile(provider, profile, w, r)
}

// fetchProfile retrieves and decodes the provider's user-info document.
func (b *BaseOAuth2) fetchProfile(ctx context.Context, userInfoURL string, token *oauth2.Token) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := b.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("user info endpoint returned %d", resp.StatusCode)
	}

	contents, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read user info: %w", err)
	}

	var profile map[string]any
	if err := json.Unmarshal(contents, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse user info: %w", err)
	}
	return profile, nil
}
