package recipeapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Defaults for credential issuance.
const (
	DefaultCookieName = "auth_token"
	DefaultTokenTTL   = 24 * time.Hour
	DefaultIssuer     = "recipeapi"
)

// Claims is the signed payload of a credential: the Identity fields plus
// the registered issued-at/expiry claims.
type Claims struct {
	jwt.RegisteredClaims
	Provider    string   `json:"provider"`
	Username    string   `json:"username,omitempty"`
	DisplayName string   `json:"name,omitempty"`
	Emails      []string `json:"emails,omitempty"`
}

// Authenticator converts a verified Identity into a signed, time-bounded
// credential and validates credentials presented on later requests. It is
// stateless - the only shared piece is the process-wide signing secret,
// loaded once at startup and read-only afterwards.
type Authenticator struct {
	// Secret signs and verifies every credential. Must be non-empty.
	Secret []byte

	// Issuer is stamped into the "iss" claim and checked on verify.
	Issuer string

	// TTL bounds credential lifetime. Defaults to 24 hours.
	TTL time.Duration

	// CookieName is the cookie the credential travels in.
	CookieName string

	// SecureCookies marks cookies Secure. Set in production.
	SecureCookies bool

	// Now overrides the clock in tests. Nil means time.Now.
	Now func() time.Time
}

func (a *Authenticator) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *Authenticator) ttl() time.Duration {
	if a.TTL > 0 {
		return a.TTL
	}
	return DefaultTokenTTL
}

func (a *Authenticator) issuer() string {
	if a.Issuer != "" {
		return a.Issuer
	}
	return DefaultIssuer
}

func (a *Authenticator) cookieName() string {
	if a.CookieName != "" {
		return a.CookieName
	}
	return DefaultCookieName
}

// IssueToken signs a credential for the given identity. Signing only fails
// on process misconfiguration (unusable secret) and callers should surface
// that as a 500, never swallow it.
func (a *Authenticator) IssueToken(ident *Identity) (string, error) {
	if len(a.Secret) == 0 {
		return "", fmt.Errorf("authenticator has no signing secret")
	}
	if ident == nil || ident.SubjectID == "" || ident.Provider == "" {
		return "", fmt.Errorf("identity missing subject or provider")
	}

	now := a.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   ident.SubjectID,
			Issuer:    a.issuer(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl())),
		},
		Provider:    ident.Provider,
		Username:    ident.Username,
		DisplayName: ident.DisplayName,
		Emails:      ident.Emails,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.Secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign credential: %w", err)
	}
	return signed, nil
}

// Issue signs a credential and delivers it as the auth cookie.
func (a *Authenticator) Issue(w http.ResponseWriter, ident *Identity) (string, error) {
	signed, err := a.IssueToken(ident)
	if err != nil {
		return "", err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     a.cookieName(),
		Value:    signed,
		Path:     "/",
		MaxAge:   int(a.ttl().Seconds()),
		Expires:  a.now().Add(a.ttl()),
		HttpOnly: true,
		Secure:   a.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	return signed, nil
}

// Revoke clears the auth cookie on this client. Tokens already copied
// elsewhere stay valid until expiry - there is no server-side blacklist,
// which is an accepted limitation of the stateless design.
func (a *Authenticator) Revoke(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     a.cookieName(),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// Verify checks signature, issuer and expiry and decodes the payload back
// into an Identity. Every failure mode collapses into ErrInvalidCredential;
// the underlying cause is wrapped for logs but must not reach clients.
func (a *Authenticator) Verify(tokenString string) (*Identity, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return a.Secret, nil },
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(a.issuer()),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCredential, err)
	}

	if claims.Subject == "" || claims.Provider == "" {
		return nil, fmt.Errorf("%w: missing subject or provider claim", ErrInvalidCredential)
	}

	return &Identity{
		SubjectID:   claims.Subject,
		Username:    claims.Username,
		DisplayName: claims.DisplayName,
		Emails:      claims.Emails,
		Provider:    claims.Provider,
	}, nil
}
