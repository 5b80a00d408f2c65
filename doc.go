// Package recipeapi implements the Recipe Manager API: a CRUD REST service
// over two document collections (recipes, users) with cookie-based
// authentication via local passwords or third-party OAuth providers.
//
// # Architecture
//
// Authenticator: converts a verified Identity into a signed, time-bounded
// JWT credential delivered as an HTTP-only cookie, and validates credentials
// on later requests. The design is stateless - there is no server-side
// session table and no revocation list; the only shared state is the
// process-wide signing secret.
//
// Middleware: the access guard. Protected routes are wrapped in
// EnsureAuthenticated, which verifies the cookie and attaches the decoded
// Identity to the request context.
//
// Identity: the normalized principal shape shared by every credential
// source. IdentityFromProfile bridges raw OAuth provider profiles into it.
//
// Stores: UserStore and RecipeStore describe the document-store surface the
// handlers depend on. Implementations live in stores/fs (JSON files, good
// for development and tests), stores/mongo and stores/gorm.
//
// # Basic Usage
//
//	cfg, err := recipeapi.LoadConfig()
//	if err != nil {
//	    // ...
//	}
//	users := fs.NewUserStore(cfg.DataDir)
//	recipes := fs.NewRecipeStore(cfg.DataDir)
//	srv := recipeapi.NewServer(cfg, users, recipes)
//	http.ListenAndServe(":"+cfg.Port, srv.Handler())
//
// OAuth providers are mounted automatically when their client credentials
// are configured; without them the /auth/<provider> routes answer 503
// rather than crashing.
//
// # Security
//
// Passwords are hashed with bcrypt at default cost. Credentials are HS256
// JWTs with a 24 hour lifetime, bound to the subject and provider that
// authenticated. Guard rejections are deliberately uniform: clients see a
// generic 401 regardless of which check failed.
package recipeapi
