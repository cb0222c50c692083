package service

import (
	"context"

	"vehicle-rental-backend/internal/domain"
)

type AvailabilityService interface {
	ListAvailable(ctx context.Context, filter domain.AvailabilityFilter) ([]domain.Transport, error)
}

// RentService is the rent ledger: the only component that moves a transport
// between available and rented.
type RentService interface {
	CreateRent(ctx context.Context, p *domain.Principal, req domain.CreateRentRequest) (*domain.Rent, error)
	EndRent(ctx context.Context, p *domain.Principal, req domain.EndRentRequest) (*domain.Rent, error)
	GetRent(ctx context.Context, p *domain.Principal, rentID int32) (*domain.Rent, error)

	AdminGetRent(ctx context.Context, p *domain.Principal, rentID int32) (*domain.Rent, error)
	AdminEndRent(ctx context.Context, p *domain.Principal, req domain.EndRentRequest) (*domain.Rent, error)
	AdminUpdateRent(ctx context.Context, p *domain.Principal, rentID int32, override domain.RentOverride) (*domain.Rent, error)
	AdminDeleteRent(ctx context.Context, p *domain.Principal, rentID int32) error
}

type HistoryService interface {
	ByRenter(ctx context.Context, p *domain.Principal) ([]domain.Rent, error)
	ByTransportForOwner(ctx context.Context, p *domain.Principal, transportID int32) ([]domain.Rent, error)
	AdminByRenter(ctx context.Context, p *domain.Principal, userID int32) ([]domain.Rent, error)
	AdminByTransport(ctx context.Context, p *domain.Principal, transportID int32) ([]domain.Rent, error)
}
