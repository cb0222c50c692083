package grpc

import (
	"context"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/security"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// principalFromContext returns the principal the auth interceptor resolved.
func principalFromContext(ctx context.Context) (*domain.Principal, error) {
	p, ok := security.PrincipalFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "principal not found in context")
	}
	return p, nil
}
