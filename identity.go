package recipeapi

import (
	"fmt"
	"strconv"
	"strings"
)

// Known credential providers. The set is open ended - any provider that can
// produce a normalized profile map can be wired in via the oauth2 package.
const (
	ProviderLocal  = "local"
	ProviderGithub = "github"
	ProviderGoogle = "google"
)

// Identity is the normalized principal produced by a successful
// authentication event, either a local password login or a completed
// OAuth exchange. SubjectID together with Provider uniquely identifies
// the principal for the lifetime of one issued credential.
type Identity struct {
	SubjectID   string   `json:"id"`
	Username    string   `json:"username,omitempty"`
	DisplayName string   `json:"displayName,omitempty"`
	Emails      []string `json:"emails,omitempty"`
	Provider    string   `json:"provider"`
}

// IdentityFromProfile maps a raw provider profile (the decoded JSON of the
// provider's user-info endpoint) onto an Identity. GitHub profiles carry the
// handle in either "username" or "login"; "username" wins when both are set.
// A profile carrying neither is rejected - there is nothing stable to bind
// the credential to.
func IdentityFromProfile(provider string, profile map[string]any) (*Identity, error) {
	if profile == nil {
		return nil, fmt.Errorf("empty profile from %s", provider)
	}

	subject := stringValue(profile["id"])
	if subject == "" {
		return nil, fmt.Errorf("profile from %s has no id", provider)
	}

	emails := profileEmails(profile)

	username := stringValue(profile["username"])
	if username == "" {
		username = stringValue(profile["login"])
	}
	if username == "" && provider == ProviderGoogle && len(emails) > 0 {
		// Google's userinfo endpoint has no handle field.
		username = strings.SplitN(emails[0], "@", 2)[0]
	}
	if username == "" {
		return nil, fmt.Errorf("profile from %s has neither username nor login", provider)
	}

	displayName := stringValue(profile["displayName"])
	if displayName == "" {
		displayName = stringValue(profile["name"])
	}

	return &Identity{
		SubjectID:   subject,
		Username:    username,
		DisplayName: displayName,
		Emails:      emails,
		Provider:    provider,
	}, nil
}

// profileEmails collects emails from the shapes providers actually send:
// a plain "email" string, a list of strings, or a list of {value: ...}
// objects.
func profileEmails(profile map[string]any) []string {
	var out []string
	switch v := profile["emails"].(type) {
	case []any:
		for _, e := range v {
			switch entry := e.(type) {
			case string:
				if entry != "" {
					out = append(out, entry)
				}
			case map[string]any:
				if value := stringValue(entry["value"]); value != "" {
					out = append(out, value)
				}
			}
		}
	case []string:
		for _, e := range v {
			if e != "" {
				out = append(out, e)
			}
		}
	}
	if email := stringValue(profile["email"]); email != "" {
		for _, existing := range out {
			if existing == email {
				return out
			}
		}
		out = append(out, email)
	}
	return out
}

// stringValue renders the loosely typed values found in provider profiles.
// GitHub sends numeric ids, so numbers are formatted without an exponent.
func stringValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return ""
	}
}
