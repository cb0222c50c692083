package service

import (
	"context"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/logger"
	"vehicle-rental-backend/internal/repository"
)

type historyService struct {
	repos repository.Repositories
}

func NewHistoryService(repos repository.Repositories) HistoryService {
	return &historyService{repos: repos}
}

func (s *historyService) ByRenter(ctx context.Context, p *domain.Principal) ([]domain.Rent, error) {
	return s.repos.Rents.ListByRenter(ctx, p.ID)
}

func (s *historyService) ByTransportForOwner(ctx context.Context, p *domain.Principal, transportID int32) ([]domain.Rent, error) {
	transport, err := s.repos.Transports.GetByID(ctx, transportID)
	if err != nil {
		return nil, err
	}
	if transport.OwnerID != p.ID {
		logger.WarnContext(ctx, "Transport history denied", "principalID", p.ID, "transportID", transportID)
		return nil, domain.NewForbiddenError(domain.MsgNotTransportOwner)
	}
	return s.repos.Rents.ListByTransport(ctx, transportID)
}

func (s *historyService) AdminByRenter(ctx context.Context, p *domain.Principal, userID int32) ([]domain.Rent, error) {
	if !CanAdminister(p) {
		return nil, domain.NewForbiddenError(domain.MsgAdminRequired)
	}
	return s.repos.Rents.ListByRenter(ctx, userID)
}

func (s *historyService) AdminByTransport(ctx context.Context, p *domain.Principal, transportID int32) ([]domain.Rent, error) {
	if !CanAdminister(p) {
		return nil, domain.NewForbiddenError(domain.MsgAdminRequired)
	}
	if _, err := s.repos.Transports.GetByID(ctx, transportID); err != nil {
		return nil, err
	}
	return s.repos.Rents.ListByTransport(ctx, transportID)
}
