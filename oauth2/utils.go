package oauth2

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"time"
)

const (
	stateCookieName = "oauthstate"
	stateTTL        = 5 * time.Minute
)

// setStateCookie plants the CSRF state cookie and returns the state value
// to embed in the authorization URL.
func setStateCookie(w http.ResponseWriter) string {
	b := make([]byte, 16)
	rand.Read(b)
	state := base64.RawURLEncoding.EncodeToString(b)

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   int(stateTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return state
}

// validState compares the state echoed by the provider to the cookie.
func validState(r *http.Request) bool {
	state := r.FormValue("state")
	if state == "" {
		return false
	}
	cookie, err := r.Cookie(stateCookieName)
	if err != nil || cookie.Value == "" {
		return false
	}
	return cookie.Value == state
}

func clearStateCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:   stateCookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
}
