package service

import (
	"context"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/repository"
)

type availabilityService struct {
	transports repository.TransportRepository
}

func NewAvailabilityService(transports repository.TransportRepository) AvailabilityService {
	return &availabilityService{transports: transports}
}

// ListAvailable never fails for lack of matches; it returns an empty slice.
func (s *availabilityService) ListAvailable(ctx context.Context, filter domain.AvailabilityFilter) ([]domain.Transport, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	transports, err := s.transports.ListAvailable(ctx, filter)
	if err != nil {
		return nil, err
	}
	if transports == nil {
		transports = []domain.Transport{}
	}
	return transports, nil
}
