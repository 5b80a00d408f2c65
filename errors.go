package recipeapi

import "errors"

// Authentication failures are collapsed into these values at the boundary
// of each flow step. Handlers map them to generic responses so the client
// never learns which sub-check failed.
var (
	// ErrNoCredential means the request carried no auth cookie at all.
	ErrNoCredential = errors.New("no credential presented")

	// ErrInvalidCredential covers bad signature, malformed payload and
	// expiry. Deliberately indistinguishable in responses.
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrNotConfigured is returned when an OAuth provider is mounted
	// without its client credentials or callback URL.
	ErrNotConfigured = errors.New("oauth provider not configured")

	// ErrNotFound is the sentinel returned by all store backends when a
	// document does not exist (including malformed ids).
	ErrNotFound = errors.New("not found")
)
