// Package grpc provides authentication context utilities for passing
// identity information between HTTP handlers and gRPC services via metadata.
package grpc

import (
	"context"

	"google.golang.org/grpc/metadata"
)

// Default metadata keys for authentication context.
// These can be customized via Config if needed.
const (
	// DefaultMetadataKeySubjectID is the default gRPC metadata key for the authenticated subject ID
	DefaultMetadataKeySubjectID = "x-subject-id"

	// DefaultMetadataKeyProvider is the default gRPC metadata key for the authentication provider
	DefaultMetadataKeyProvider = "x-auth-provider"

	// MetadataKeyAuthorization carries a bearer token when the caller
	// authenticates with a signed token instead of pre-verified metadata.
	MetadataKeyAuthorization = "authorization"
)

// Config holds the metadata key configuration for auth context.
type Config struct {
	// MetadataKeySubjectID is the gRPC metadata key for the authenticated subject ID.
	// Defaults to "x-subject-id".
	MetadataKeySubjectID string

	// MetadataKeyProvider is the gRPC metadata key for the authentication provider.
	// Defaults to "x-auth-provider".
	MetadataKeyProvider string
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		MetadataKeySubjectID: DefaultMetadataKeySubjectID,
		MetadataKeyProvider:  DefaultMetadataKeyProvider,
	}
}

// EnsureDefaults fills in default values for any unset fields.
func (c *Config) EnsureDefaults() {
	if c.MetadataKeySubjectID == "" {
		c.MetadataKeySubjectID = DefaultMetadataKeySubjectID
	}
	if c.MetadataKeyProvider == "" {
		c.MetadataKeyProvider = DefaultMetadataKeyProvider
	}
}

// SubjectFromContext extracts the authenticated subject ID from the gRPC
// context metadata. Returns empty string if no subject is authenticated.
func SubjectFromContext(ctx context.Context) string {
	return SubjectFromContextWithConfig(ctx, nil)
}

// SubjectFromContextWithConfig extracts the authenticated subject ID using the specified config.
func SubjectFromContextWithConfig(ctx context.Context, config *Config) string {
	if config == nil {
		config = DefaultConfig()
	}
	config.EnsureDefaults()

	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	if values := md.Get(config.MetadataKeySubjectID); len(values) > 0 {
		return values[0]
	}
	return ""
}

// ProviderFromContext extracts the authentication provider from the gRPC
// context metadata. Returns empty string if none is set.
func ProviderFromContext(ctx context.Context) string {
	return ProviderFromContextWithConfig(ctx, nil)
}

// ProviderFromContextWithConfig extracts the authentication provider using the specified config.
func ProviderFromContextWithConfig(ctx context.Context, config *Config) string {
	if config == nil {
		config = DefaultConfig()
	}
	config.EnsureDefaults()

	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	if values := md.Get(config.MetadataKeyProvider); len(values) > 0 {
		return values[0]
	}
	return ""
}

// SubjectToOutgoingContext adds the subject ID to outgoing gRPC context metadata.
func SubjectToOutgoingContext(ctx context.Context, subjectID string) context.Context {
	return SubjectToOutgoingContextWithKey(ctx, subjectID, DefaultMetadataKeySubjectID)
}

// SubjectToOutgoingContextWithKey adds the subject ID to outgoing gRPC context metadata with a custom key.
func SubjectToOutgoingContextWithKey(ctx context.Context, subjectID string, key string) context.Context {
	return metadata.AppendToOutgoingContext(ctx, key, subjectID)
}

// TokenToOutgoingContext attaches a bearer token to outgoing gRPC context metadata.
func TokenToOutgoingContext(ctx context.Context, token string) context.Context {
	return metadata.AppendToOutgoingContext(ctx, MetadataKeyAuthorization, "Bearer "+token)
}

// IsAuthenticated returns true if there is an authenticated subject in the context.
func IsAuthenticated(ctx context.Context) bool {
	return SubjectFromContext(ctx) != ""
}
