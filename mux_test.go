package recipeapi_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	xoauth2 "golang.org/x/oauth2"

	api "github.com/openmeal/recipeapi"
	oa "github.com/openmeal/recipeapi/oauth2"
)

func TestHomeEndpoint(t *testing.T) {
	server, _, _ := newTestServer(t)

	w := doJSON(t, server.Handler(), http.MethodGet, "/", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body["message"] != "Recipe Manager API" {
		t.Errorf("unexpected message: %v", body)
	}
	if body["version"] != api.Version {
		t.Errorf("expected version %q, got %v", api.Version, body["version"])
	}
}

// TestUnconfiguredProvidersAnswer503 verifies that OAuth routes exist even
// without provider credentials and answer with a clear error.
func TestUnconfiguredProvidersAnswer503(t *testing.T) {
	server, _, _ := newTestServer(t)

	tests := []struct {
		path      string
		wantError string
	}{
		{path: "/auth/github", wantError: "GitHub OAuth not configured"},
		{path: "/auth/github/callback", wantError: "GitHub OAuth not configured"},
		{path: "/auth/google", wantError: "Google OAuth not configured"},
		{path: "/auth/google/callback", wantError: "Google OAuth not configured"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := doJSON(t, server.Handler(), http.MethodGet, tt.path, nil)
			if w.Code != http.StatusServiceUnavailable {
				t.Fatalf("expected 503, got %d", w.Code)
			}
			var body map[string]any
			json.Unmarshal(w.Body.Bytes(), &body)
			if body["error"] != tt.wantError {
				t.Errorf("expected error %q, got %v", tt.wantError, body["error"])
			}
		})
	}
}

func TestConfiguredProviderRedirects(t *testing.T) {
	root := t.TempDir()
	cfg := api.Config{
		Environment:        "test",
		SessionSecret:      "test-secret",
		DataDir:            root,
		GithubClientID:     "client-id",
		GithubClientSecret: "client-secret",
		GithubCallbackURL:  "http://localhost:3000/auth/github/callback",
	}
	server := api.NewServer(cfg, nil, nil)

	w := doJSON(t, server.Handler(), http.MethodGet, "/auth/github", nil)
	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", w.Code)
	}
	loc := w.Header().Get("Location")
	if loc == "" {
		t.Fatal("redirect has no Location header")
	}
	req := httptest.NewRequest(http.MethodGet, loc, nil)
	if req.URL.Host != "github.com" {
		t.Errorf("expected redirect to github.com, got %q", loc)
	}
}

// TestOAuthCallbackIssuesCredential drives a full GitHub callback against
// mock provider endpoints and checks the server's own glue: profile
// normalized, cookie issued, browser sent to /protected.
func TestOAuthCallbackIssuesCredential(t *testing.T) {
	server, _, _ := newTestServer(t)

	providerMux := http.NewServeMux()
	providerMux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "mock-access-token",
			"token_type":   "bearer",
		})
	})
	providerMux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":    float64(42),
			"login": "octocat",
			"name":  "The Octocat",
		})
	})
	provider := httptest.NewServer(providerMux)
	t.Cleanup(provider.Close)

	g := oa.NewGithubOAuth2("client-id", "client-secret",
		"http://localhost:3000/auth/github/callback", server.HandleOAuthProfile)
	g.Config.Endpoint = xoauth2.Endpoint{
		AuthURL:  provider.URL + "/auth",
		TokenURL: provider.URL + "/token",
	}
	g.UserInfoURL = provider.URL + "/user"

	req := httptest.NewRequest(http.MethodGet, "/auth/github/callback?state=s&code=c", nil)
	req.AddCookie(&http.Cookie{Name: "oauthstate", Value: "s"})
	w := httptest.NewRecorder()
	g.HandleCallback(w, req)

	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d: %s", w.Code, w.Body.String())
	}
	if loc := w.Header().Get("Location"); loc != "/protected" {
		t.Fatalf("expected redirect to /protected, got %q", loc)
	}

	var authCookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == api.DefaultCookieName {
			authCookie = c
		}
	}
	if authCookie == nil {
		t.Fatal("callback did not set the auth cookie")
	}
	ident, err := server.Auth().Verify(authCookie.Value)
	if err != nil {
		t.Fatalf("issued cookie does not verify: %v", err)
	}
	if ident.SubjectID != "42" || ident.Username != "octocat" || ident.Provider != api.ProviderGithub {
		t.Errorf("unexpected identity: %+v", ident)
	}
}

// A profile the server cannot normalize follows the generic failure
// redirect and never issues a cookie.
func TestOAuthProfileNormalizationFailure(t *testing.T) {
	server, _, _ := newTestServer(t)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/auth/github/callback", nil)
	server.HandleOAuthProfile("github", map[string]any{
		"id":    "u3",
		"email": "anon@example.com",
	}, w, r)

	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != oa.DefaultAuthFailureURL {
		t.Errorf("expected redirect to %q, got %q", oa.DefaultAuthFailureURL, loc)
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == api.DefaultCookieName {
			t.Error("failed normalization must not issue a cookie")
		}
	}
}

func TestProtectedEndpoint(t *testing.T) {
	server, users, _ := newTestServer(t)
	id := insertTestUser(t, users, "john_doe", "john@example.com", "password123")

	w := doJSON(t, server.Handler(), http.MethodGet, "/protected", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: expected 401, got %d", w.Code)
	}

	w = doJSON(t, server.Handler(), http.MethodGet, "/protected", nil, loginCookie(t, server, id))
	if w.Code != http.StatusOK {
		t.Fatalf("authenticated: expected 200, got %d", w.Code)
	}
	var body struct {
		Message string       `json:"message"`
		User    api.Identity `json:"user"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Message != "You are authenticated!" {
		t.Errorf("unexpected message %q", body.Message)
	}
	if body.User.SubjectID != id {
		t.Errorf("expected subject %q, got %q", id, body.User.SubjectID)
	}
}

func TestLogoutClearsCookieAndRedirects(t *testing.T) {
	server, users, _ := newTestServer(t)
	id := insertTestUser(t, users, "john_doe", "john@example.com", "password123")

	w := doJSON(t, server.Handler(), http.MethodGet, "/logout", nil, loginCookie(t, server, id))
	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/" {
		t.Errorf("expected redirect to /, got %q", loc)
	}

	var cleared bool
	for _, c := range w.Result().Cookies() {
		if c.Name == api.DefaultCookieName && c.MaxAge < 0 && c.Value == "" {
			cleared = true
		}
	}
	if !cleared {
		t.Error("logout must clear the auth cookie")
	}
}
