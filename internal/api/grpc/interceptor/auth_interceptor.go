package interceptor

import (
	"context"
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"vehicle-rental-backend/internal/config"
	"vehicle-rental-backend/internal/logger"
	"vehicle-rental-backend/internal/security"
)

type AuthInterceptor struct {
	resolver *security.PrincipalResolver
}

func NewAuthInterceptor(resolver *security.PrincipalResolver) *AuthInterceptor {
	return &AuthInterceptor{resolver: resolver}
}

// Unary returns a server interceptor that resolves the caller's principal
// and stores it in the context for the handlers.
func (i *AuthInterceptor) Unary() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		// Public endpoint - skip auth
		if config.GetSecurityLevel(info.FullMethod) == config.SecurityPublic {
			return handler(ctx, req)
		}

		p, err := i.resolver.Resolve(ctx, extractToken(ctx))
		if err != nil {
			switch {
			case security.IsUnauthenticated(err):
				return nil, status.Errorf(codes.Unauthenticated, "invalid token: %v", err)
			case errors.Is(err, security.ErrPrincipalDisabled):
				return nil, status.Error(codes.PermissionDenied, err.Error())
			default:
				logger.ErrorContext(ctx, "Failed to resolve principal", "method", info.FullMethod, "error", err)
				return nil, status.Error(codes.Internal, "internal error")
			}
		}

		return handler(security.WithPrincipal(ctx, p), req)
	}
}

// extractToken returns the bearer credential from the authorization
// metadata, or "" when none was sent.
func extractToken(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	authHeader := md.Get("authorization")
	if len(authHeader) == 0 {
		return ""
	}
	return security.BearerToken(authHeader[0])
}
