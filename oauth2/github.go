package oauth2

import (
	"net/http"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

// GithubProvider is the provider tag stamped on identities minted from a
// GitHub exchange.
const GithubProvider = "github"

type GithubOAuth2 struct {
	*BaseOAuth2

	// UserInfoURL is the endpoint user profiles are fetched from.
	// Defaults to GitHub's API. Can be overridden for testing.
	UserInfoURL string
}

// NewGithubOAuth2 builds the GitHub provider. Empty arguments fall back to
// the GITHUB_CLIENT_ID / GITHUB_CLIENT_SECRET / GITHUB_CALLBACK_URL
// environment variables.
func NewGithubOAuth2(clientID, clientSecret, callbackURL string, handleProfile HandleProfileFunc) *GithubOAuth2 {
	if clientID == "" {
		clientID = strings.TrimSpace(os.Getenv("GITHUB_CLIENT_ID"))
	}
	if clientSecret == "" {
		clientSecret = strings.TrimSpace(os.Getenv("GITHUB_CLIENT_SECRET"))
	}
	if callbackURL == "" {
		callbackURL = strings.TrimSpace(os.Getenv("GITHUB_CALLBACK_URL"))
	}

	return &GithubOAuth2{
		BaseOAuth2: &BaseOAuth2{
			ClientID:      clientID,
			ClientSecret:  clientSecret,
			CallbackURL:   callbackURL,
			HandleProfile: handleProfile,
			Config: oauth2.Config{
				ClientID:     clientID,
				ClientSecret: clientSecret,
				RedirectURL:  callbackURL,
				Scopes:       []string{"read:user", "user:email"},
				Endpoint:     github.Endpoint,
			},
		},
		UserInfoURL: "https://api.github.com/user",
	}
}

// HandleCallback completes the GitHub exchange.
func (g *GithubOAuth2) HandleCallback(w http.ResponseWriter, r *http.Request) {
	g.handleCallback(GithubProvider, g.UserInfoURL, w, r)
}
