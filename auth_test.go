package recipeapi_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	api "github.com/openmeal/recipeapi"
)

func testIdentity() *api.Identity {
	return &api.Identity{
		SubjectID:   "12345",
		Username:    "octocat",
		DisplayName: "The Octocat",
		Emails:      []string{"octocat@example.com"},
		Provider:    api.ProviderGithub,
	}
}

// TestTokenRoundTrip verifies that a signed credential decodes back to the
// identity it was issued for.
func TestTokenRoundTrip(t *testing.T) {
	auth := &api.Authenticator{Secret: []byte("test-secret")}

	token, err := auth.IssueToken(testIdentity())
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	ident, err := auth.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if ident.SubjectID != "12345" {
		t.Errorf("expected subject 12345, got %q", ident.SubjectID)
	}
	if ident.Provider != api.ProviderGithub {
		t.Errorf("expected provider github, got %q", ident.Provider)
	}
	if ident.Username != "octocat" {
		t.Errorf("expected username octocat, got %q", ident.Username)
	}
	if len(ident.Emails) != 1 || ident.Emails[0] != "octocat@example.com" {
		t.Errorf("unexpected emails: %v", ident.Emails)
	}
}

func TestIssueTokenRejectsBadInput(t *testing.T) {
	tests := []struct {
		name  string
		auth  *api.Authenticator
		ident *api.Identity
	}{
		{
			name:  "no secret",
			auth:  &api.Authenticator{},
			ident: testIdentity(),
		},
		{
			name:  "nil identity",
			auth:  &api.Authenticator{Secret: []byte("s")},
			ident: nil,
		},
		{
			name:  "missing subject",
			auth:  &api.Authenticator{Secret: []byte("s")},
			ident: &api.Identity{Provider: api.ProviderLocal},
		},
		{
			name:  "missing provider",
			auth:  &api.Authenticator{Secret: []byte("s")},
			ident: &api.Identity{SubjectID: "u1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.auth.IssueToken(tt.ident); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

// TestVerifyExpired moves the verification clock past the TTL.
func TestVerifyExpired(t *testing.T) {
	issued := time.Now()
	auth := &api.Authenticator{
		Secret: []byte("test-secret"),
		TTL:    time.Hour,
		Now:    func() time.Time { return issued },
	}

	token, err := auth.IssueToken(testIdentity())
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	// Still valid just before expiry.
	auth.Now = func() time.Time { return issued.Add(59 * time.Minute) }
	if _, err := auth.Verify(token); err != nil {
		t.Fatalf("token should still be valid: %v", err)
	}

	auth.Now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = auth.Verify(token)
	if !errors.Is(err, api.ErrInvalidCredential) {
		t.Errorf("expected ErrInvalidCredential for expired token, got %v", err)
	}
}

func TestVerifyRejectsTampering(t *testing.T) {
	auth := &api.Authenticator{Secret: []byte("test-secret")}
	token, err := auth.IssueToken(testIdentity())
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	tests := []struct {
		name  string
		token string
		auth  *api.Authenticator
	}{
		{
			name:  "garbage token",
			token: "not.a.token",
			auth:  auth,
		},
		{
			name:  "empty token",
			token: "",
			auth:  auth,
		},
		{
			name: "tampered payload",
			token: func() string {
				parts := strings.Split(token, ".")
				payload := []byte(parts[1])
				payload[0] ^= 0x01
				parts[1] = string(payload)
				return strings.Join(parts, ".")
			}(),
			auth: auth,
		},
		{
			name:  "wrong secret",
			token: token,
			auth:  &api.Authenticator{Secret: []byte("other-secret")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.auth.Verify(tt.token)
			if !errors.Is(err, api.ErrInvalidCredential) {
				t.Errorf("expected ErrInvalidCredential, got %v", err)
			}
		})
	}
}

func TestIssueSetsCookie(t *testing.T) {
	auth := &api.Authenticator{Secret: []byte("test-secret")}
	w := httptest.NewRecorder()

	if _, err := auth.Issue(w, testIdentity()); err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	c := cookies[0]
	if c.Name != api.DefaultCookieName {
		t.Errorf("expected cookie %q, got %q", api.DefaultCookieName, c.Name)
	}
	if !c.HttpOnly {
		t.Error("cookie should be HttpOnly")
	}
	if c.Secure {
		t.Error("cookie should not be Secure outside production")
	}
	if c.SameSite != http.SameSiteLaxMode {
		t.Errorf("expected SameSite=Lax, got %v", c.SameSite)
	}
	if c.MaxAge != int(api.DefaultTokenTTL.Seconds()) {
		t.Errorf("expected MaxAge %d, got %d", int(api.DefaultTokenTTL.Seconds()), c.MaxAge)
	}

	if _, err := auth.Verify(c.Value); err != nil {
		t.Errorf("issued cookie does not verify: %v", err)
	}
}

func TestSecureCookiesInProduction(t *testing.T) {
	auth := &api.Authenticator{Secret: []byte("test-secret"), SecureCookies: true}
	w := httptest.NewRecorder()
	if _, err := auth.Issue(w, testIdentity()); err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if !w.Result().Cookies()[0].Secure {
		t.Error("cookie should be Secure when SecureCookies is set")
	}
}

func TestRevokeClearsCookie(t *testing.T) {
	auth := &api.Authenticator{Secret: []byte("test-secret")}
	w := httptest.NewRecorder()
	auth.Revoke(w)

	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	if cookies[0].Value != "" || cookies[0].MaxAge != -1 {
		t.Errorf("expected cleared cookie, got value=%q maxage=%d", cookies[0].Value, cookies[0].MaxAge)
	}
}

// TestRevokeDoesNotInvalidateToken documents the stateless design: a token
// copied before logout keeps working until it expires.
func TestRevokeDoesNotInvalidateToken(t *testing.T) {
	auth := &api.Authenticator{Secret: []byte("test-secret")}
	token, err := auth.IssueToken(testIdentity())
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	auth.Revoke(httptest.NewRecorder())

	if _, err := auth.Verify(token); err != nil {
		t.Errorf("token should remain valid after Revoke: %v", err)
	}
}
