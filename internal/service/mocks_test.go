package service_test

import (
	"context"
	"time"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/repository"

	"github.com/stretchr/testify/mock"
)

// MockTransportRepo
type MockTransportRepo struct {
	mock.Mock
}

func (m *MockTransportRepo) GetByID(ctx context.Context, id int32) (*domain.Transport, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transport), args.Error(1)
}
func (m *MockTransportRepo) ListAvailable(ctx context.Context, filter domain.AvailabilityFilter) ([]domain.Transport, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transport), args.Error(1)
}
func (m *MockTransportRepo) MarkRented(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockTransportRepo) MarkAvailable(ctx context.Context, id int32, latitude, longitude float64) error {
	args := m.Called(ctx, id, latitude, longitude)
	return args.Error(0)
}
func (m *MockTransportRepo) Release(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockRentRepo
type MockRentRepo struct {
	mock.Mock
}

func (m *MockRentRepo) Create(ctx context.Context, rent *domain.Rent) error {
	args := m.Called(ctx, rent)
	return args.Error(0)
}
func (m *MockRentRepo) GetByID(ctx context.Context, id int32) (*domain.Rent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rent), args.Error(1)
}
func (m *MockRentRepo) Complete(ctx context.Context, id int32, endTime time.Time) (int32, error) {
	args := m.Called(ctx, id, endTime)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockRentRepo) Update(ctx context.Context, rent *domain.Rent) error {
	args := m.Called(ctx, rent)
	return args.Error(0)
}
func (m *MockRentRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockRentRepo) ListByRenter(ctx context.Context, renterID int32) ([]domain.Rent, error) {
	args := m.Called(ctx, renterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Rent), args.Error(1)
}
func (m *MockRentRepo) ListByTransport(ctx context.Context, transportID int32) ([]domain.Rent, error) {
	args := m.Called(ctx, transportID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Rent), args.Error(1)
}
func (m *MockRentRepo) MarkOverdue(ctx context.Context, now time.Time) ([]domain.Rent, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Rent), args.Error(1)
}

// passthroughTx runs the unit of work directly against the mocked
// repositories and counts how often it was opened.
type passthroughTx struct {
	repos repository.Repositories
	calls int
}

func (t *passthroughTx) WithinTx(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	t.calls++
	return fn(ctx, t.repos)
}
