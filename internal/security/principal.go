package security

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/repository"
)

var (
	ErrMissingToken      = errors.New("authorization token is not provided")
	ErrUnknownPrincipal  = errors.New("principal does not exist")
	ErrPrincipalDisabled = errors.New("principal is disabled")
)

// PrincipalResolver turns a bearer credential into the principal the rental
// core works with.
type PrincipalResolver struct {
	tokens     TokenManager
	principals repository.PrincipalRepository
}

func NewPrincipalResolver(tokens TokenManager, principals repository.PrincipalRepository) *PrincipalResolver {
	return &PrincipalResolver{tokens: tokens, principals: principals}
}

// Resolve validates the token and loads its principal. Disabled principals
// are rejected with ErrPrincipalDisabled.
func (r *PrincipalResolver) Resolve(ctx context.Context, token string) (*domain.Principal, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	claims, err := r.tokens.ValidateToken(token)
	if err != nil {
		return nil, err
	}

	p, err := r.principals.GetByID(ctx, claims.UserID)
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return nil, ErrUnknownPrincipal
		}
		return nil, fmt.Errorf("load principal %d: %w", claims.UserID, err)
	}
	if p.Disabled {
		return nil, ErrPrincipalDisabled
	}
	return p, nil
}

// BearerToken strips an optional case-insensitive "Bearer " prefix.
func BearerToken(header string) string {
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return strings.TrimSpace(header)
}

// IsUnauthenticated reports whether err means the caller did not present a
// usable credential, as opposed to a disabled account or a storage failure.
func IsUnauthenticated(err error) bool {
	return errors.Is(err, ErrMissingToken) ||
		errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrExpiredToken) ||
		errors.Is(err, ErrWrongTokenType) ||
		errors.Is(err, ErrUnknownPrincipal)
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p *domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFromContext(ctx context.Context) (*domain.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*domain.Principal)
	return p, ok && p != nil
}
