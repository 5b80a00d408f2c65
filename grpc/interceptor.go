package grpc

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	api "github.com/openmeal/recipeapi"
)

// InterceptorConfig configures the auth interceptor behavior.
type InterceptorConfig struct {
	// Config holds the metadata key configuration.
	*Config

	// Authenticator verifies bearer tokens carried in the authorization
	// metadata. When nil, only pre-verified subject metadata is honored.
	Authenticator *api.Authenticator

	// RequireAuth when true rejects unauthenticated requests.
	// When false, requests proceed but SubjectFromContext returns empty.
	RequireAuth bool

	// PublicMethods is a set of method names that don't require auth.
	// Only used when RequireAuth is true.
	// Keys should be full method names like "/package.Service/Method".
	PublicMethods map[string]bool
}

// DefaultInterceptorConfig returns a config that requires auth for all methods.
func DefaultInterceptorConfig() *InterceptorConfig {
	return &InterceptorConfig{
		Config:        DefaultConfig(),
		RequireAuth:   true,
		PublicMethods: make(map[string]bool),
	}
}

// NewPublicMethodsConfig creates a config with the specified public methods.
func NewPublicMethodsConfig(publicMethods ...string) *InterceptorConfig {
	config := DefaultInterceptorConfig()
	for _, method := range publicMethods {
		config.PublicMethods[method] = true
	}
	return config
}

// OptionalAuthConfig returns a config that allows unauthenticated requests.
func OptionalAuthConfig() *InterceptorConfig {
	return &InterceptorConfig{
		Config:        DefaultConfig(),
		RequireAuth:   false,
		PublicMethods: make(map[string]bool),
	}
}

// UnaryAuthInterceptor returns a gRPC unary interceptor that processes auth
// metadata. Bearer tokens are verified against the configured Authenticator
// and resolved into subject/provider metadata for downstream handlers.
func UnaryAuthInterceptor(config *InterceptorConfig) grpc.UnaryServerInterceptor {
	if config == nil {
		config = DefaultInterceptorConfig()
	}
	if config.Config == nil {
		config.Config = DefaultConfig()
	}
	config.Config.EnsureDefaults()

	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		ctx, subjectID, err := resolveSubject(ctx, config)
		if err != nil {
			return nil, err
		}

		if config.RequireAuth && !config.PublicMethods[info.FullMethod] {
			if subjectID == "" {
				return nil, status.Error(codes.Unauthenticated, "authentication required")
			}
		}

		return handler(ctx, req)
	}
}

// StreamAuthInterceptor returns a gRPC stream interceptor that processes auth metadata.
func StreamAuthInterceptor(config *InterceptorConfig) grpc.StreamServerInterceptor {
	if config == nil {
		config = DefaultInterceptorConfig()
	}
	if config.Config == nil {
		config.Config = DefaultConfig()
	}
	config.Config.EnsureDefaults()

	return func(srv interface{}, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		ctx, subjectID, err := resolveSubject(ss.Context(), config)
		if err != nil {
			return err
		}

		if config.RequireAuth && !config.PublicMethods[info.FullMethod] {
			if subjectID == "" {
				return status.Error(codes.Unauthenticated, "authentication required")
			}
		}

		if subjectID != "" {
			ss = &wrappedStream{ServerStream: ss, ctx: ctx}
		}
		return handler(srv, ss)
	}
}

// resolveSubject determines the authenticated subject for a request. A valid
// bearer token wins over pre-verified metadata; an invalid token is an error
// regardless of RequireAuth.
func resolveSubject(ctx context.Context, config *InterceptorConfig) (context.Context, string, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ctx, "", nil
	}

	if config.Authenticator != nil {
		if token := bearerToken(md); token != "" {
			ident, err := config.Authenticator.Verify(token)
			if err != nil {
				return ctx, "", status.Error(codes.Unauthenticated, "invalid credential")
			}
			md = md.Copy()
			md.Set(config.Config.MetadataKeySubjectID, ident.SubjectID)
			md.Set(config.Config.MetadataKeyProvider, ident.Provider)
			return metadata.NewIncomingContext(ctx, md), ident.SubjectID, nil
		}
	}

	if values := md.Get(config.Config.MetadataKeySubjectID); len(values) > 0 {
		return ctx, values[0], nil
	}
	return ctx, "", nil
}

func bearerToken(md metadata.MD) string {
	values := md.Get(MetadataKeyAuthorization)
	if len(values) == 0 {
		return ""
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(values[0], prefix) {
		return ""
	}
	return strings.TrimPrefix(values[0], prefix)
}

type wrappedStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (w *wrappedStream) Context() context.Context {
	return w.ctx
}
