package recipeapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

// LocalAuth handles email/password login. A successful login produces the
// same credential cookie as a completed OAuth exchange, so downstream
// guards cannot tell the two apart.
type LocalAuth struct {
	Users UserStore
	Auth  *Authenticator
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin verifies credentials and issues the auth cookie. Unknown
// email and wrong password produce the same response body on purpose.
func (l *LocalAuth) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Email and password required")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Email and password required")
		return
	}

	user, err := l.Users.FindUserByEmail(r.Context(), req.Email)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			slog.Error("user lookup failed during login", "err", err)
			writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
			return
		}
		writeMessage(w, http.StatusBadRequest, "Invalid email or password")
		return
	}

	if err := CheckPassword(user.PasswordHash, req.Password); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid email or password")
		return
	}

	if _, err := l.Auth.Issue(w, user.Identity()); err != nil {
		slog.Error("failed to issue credential", "err", err)
		writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"user":    user,
	})
}
