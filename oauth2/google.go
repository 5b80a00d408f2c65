package oauth2

import (
	"net/http"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// GoogleProvider is the provider tag for identities minted from a Google
// exchange.
const GoogleProvider = "google"

type GoogleOAuth2 struct {
	*BaseOAuth2

	// UserInfoURL defaults to Google's userinfo endpoint. Overridable
	// for testing.
	UserInfoURL string
}

// NewGoogleOAuth2 builds the Google provider. Empty arguments fall back to
// the GOOGLE_CLIENT_ID / GOOGLE_CLIENT_SECRET / GOOGLE_CALLBACK_URL
// environment variables.
func NewGoogleOAuth2(clientID, clientSecret, callbackURL string, handleProfile HandleProfileFunc) *GoogleOAuth2 {
	if clientID == "" {
		clientID = strings.TrimSpace(os.Getenv("GOOGLE_CLIENT_ID"))
	}
	if clientSecret == "" {
		clientSecret = strings.TrimSpace(os.Getenv("GOOGLE_CLIENT_SECRET"))
	}
	if callbackURL == "" {
		callbackURL = strings.TrimSpace(os.Getenv("GOOGLE_CALLBACK_URL"))
	}

	return &GoogleOAuth2{
		BaseOAuth2: &BaseOAuth2{
			ClientID:      clientID,
			ClientSecret:  clientSecret,
			CallbackURL:   callbackURL,
			HandleProfile: handleProfile,
			Config: oauth2.Config{
				ClientID:     clientID,
				ClientSecret: clientSecret,
				RedirectURL:  callbackURL,
				Scopes: []string{
					"https://www.googleapis.com/auth/userinfo.email",
					"https://www.googleapis.com/auth/userinfo.profile",
				},
				Endpoint: google.Endpoint,
			},
		},
		UserInfoURL: "https://www.googleapis.com/oauth2/v2/userinfo",
	}
}

// HandleCallback completes the Google exchange.
func (g *GoogleOAuth2) HandleCallback(w http.ResponseWriter, r *http.Request) {
	g.handleCallback(GoogleProvider, g.UserInfoURL, w, r)
}
