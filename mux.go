package recipeapi

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	oa "github.com/openmeal/recipeapi/oauth2"
)

// Version is reported by the root endpoint.
const Version = "1.0.0"

// Server assembles the auth core, the OAuth providers and the resource
// handlers into one HTTP handler. All shared state is read-only after
// construction, so requests need no cross-request coordination.
type Server struct {
	cfg        Config
	auth       *Authenticator
	middleware *Middleware
	users      UserStore
	recipes    RecipeStore
	router     *mux.Router
}

// NewServer wires routes against the given stores. The signing secret must
// already be validated by Config.Validate - an empty one only gets here in
// tests that intend it.
func NewServer(cfg Config, users UserStore, recipes RecipeStore) *Server {
	auth := &Authenticator{
		Secret:        []byte(cfg.SessionSecret),
		SecureCookies: cfg.IsProduction(),
	}

	s := &Server{
		cfg:        cfg,
		auth:       auth,
		middleware: &Middleware{Auth: auth},
		users:      users,
		recipes:    recipes,
		router:     mux.NewRouter(),
	}
	s.routes()
	return s
}

// Auth exposes the authenticator, mainly so callers can bind the gRPC
// interceptor or tests can mint credentials directly.
func (s *Server) Auth() *Authenticator { return s.auth }

func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() {
	r := s.router

	r.HandleFunc("/", s.handleHome).Methods(http.MethodGet)
	r.HandleFunc("/logout", s.handleLogout).Methods(http.MethodGet)
	r.Handle("/protected",
		s.middleware.EnsureAuthenticated(http.HandlerFunc(s.handleProtected))).
		Methods(http.MethodGet)

	s.mountProvider("github", s.cfg.GithubConfigured(), func() (http.HandlerFunc, http.HandlerFunc) {
		p := oa.NewGithubOAuth2(s.cfg.GithubClientID, s.cfg.GithubClientSecret, s.cfg.GithubCallbackURL, s.HandleOAuthProfile)
		return p.Redirector(), p.HandleCallback
	})
	s.mountProvider("google", s.cfg.GoogleConfigured(), func() (http.HandlerFunc, http.HandlerFunc) {
		p := oa.NewGoogleOAuth2(s.cfg.GoogleClientID, s.cfg.GoogleClientSecret, s.cfg.GoogleCallbackURL, s.HandleOAuthProfile)
		return p.Redirector(), p.HandleCallback
	})

	local := &LocalAuth{Users: s.users, Auth: s.auth}
	userHandlers := &UserHandlers{Store: s.users}
	r.HandleFunc("/users", userHandlers.List).Methods(http.MethodGet)
	r.HandleFunc("/users", userHandlers.Create).Methods(http.MethodPost)
	r.HandleFunc("/users/login", local.HandleLogin).Methods(http.MethodPost)
	r.HandleFunc("/users/{id}", userHandlers.Get).Methods(http.MethodGet)
	r.Handle("/users/{id}",
		s.middleware.EnsureAuthenticated(http.HandlerFunc(userHandlers.Update))).
		Methods(http.MethodPut)
	r.Handle("/users/{id}",
		s.middleware.EnsureAuthenticated(http.HandlerFunc(userHandlers.Delete))).
		Methods(http.MethodDelete)

	recipeHandlers := &RecipeHandlers{Store: s.recipes}
	r.HandleFunc("/recipes", recipeHandlers.List).Methods(http.MethodGet)
	r.HandleFunc("/recipes", recipeHandlers.Create).Methods(http.MethodPost)
	r.HandleFunc("/recipes/{id}", recipeHandlers.Get).Methods(http.MethodGet)
	r.HandleFunc("/recipes/{id}", recipeHandlers.Update).Methods(http.MethodPut)
	r.HandleFunc("/recipes/{id}", recipeHandlers.Delete).Methods(http.MethodDelete)
}

// mountProvider registers the initiation and callback routes for one OAuth
// provider, or 503 stubs when its credentials are missing. Missing config
// must never crash the process or fall through to a 404.
func (s *Server) mountProvider(name string, configured bool, build func() (redirect, callback http.HandlerFunc)) {
	initPath := "/auth/" + name
	callbackPath := initPath + "/callback"

	if !configured {
		stub := s.notConfigured(name)
		s.router.HandleFunc(initPath, stub).Methods(http.MethodGet)
		s.router.HandleFunc(callbackPath, stub).Methods(http.MethodGet)
		slog.Warn("oauth provider not configured, mounting 503 stubs", "provider", name)
		return
	}

	redirect, callback := build()
	s.router.HandleFunc(initPath, redirect).Methods(http.MethodGet)
	s.router.HandleFunc(callbackPath, callback).Methods(http.MethodGet)
}

func (s *Server) notConfigured(name string) http.HandlerFunc {
	display := name
	if name == "github" {
		display = "GitHub"
	} else if name == "google" {
		display = "Google"
	}
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"error": fmt.Sprintf("%s OAuth not configured", display),
		})
	}
}

// HandleOAuthProfile finishes a provider exchange: normalize the raw
// profile, issue the credential cookie and land on the protected page.
// Normalization failures follow the same generic-redirect path as exchange
// failures. Exported so custom providers can be wired against the same
// glue the built-in ones use.
func (s *Server) HandleOAuthProfile(provider string, profile map[string]any, w http.ResponseWriter, r *http.Request) {
	ident, err := IdentityFromProfile(provider, profile)
	if err != nil {
		slog.Warn("could not normalize provider profile", "provider", provider, "err", err)
		http.Redirect(w, r, oa.DefaultAuthFailureURL, http.StatusFound)
		return
	}

	if _, err := s.auth.Issue(w, ident); err != nil {
		slog.Error("failed to issue credential", "provider", provider, "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "Internal Server Error"})
		return
	}

	slog.Info("login succeeded", "provider", provider, "subject", ident.SubjectID)
	http.Redirect(w, r, "/protected", http.StatusFound)
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Recipe Manager API",
		"version": Version,
	})
}

func (s *Server) handleProtected(w http.ResponseWriter, r *http.Request) {
	ident, _ := IdentityFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "You are authenticated!",
		"user":    ident,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.auth.Revoke(w)
	http.Redirect(w, r, "/", http.StatusFound)
}
