package repository

import (
	"context"
	"time"

	"vehicle-rental-backend/internal/domain"
)

type PrincipalRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.Principal, error)
}

type TransportRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.Transport, error)
	ListAvailable(ctx context.Context, filter domain.AvailabilityFilter) ([]domain.Transport, error)

	// MarkRented flips canBeRented from true to false in a single
	// compare-and-set. A transport that is already rented yields a Conflict.
	MarkRented(ctx context.Context, id int32) error
	// MarkAvailable releases the transport and records where it was left.
	MarkAvailable(ctx context.Context, id int32, latitude, longitude float64) error
	// Release sets canBeRented back to true without moving the transport.
	Release(ctx context.Context, id int32) error
}

type RentRepository interface {
	Create(ctx context.Context, rent *domain.Rent) error
	GetByID(ctx context.Context, id int32) (*domain.Rent, error)

	// Complete records the actual end of an open rent and returns the
	// transport it is bound to at that moment. A rent that is already
	// completed yields a Conflict.
	Complete(ctx context.Context, id int32, endTime time.Time) (int32, error)
	Update(ctx context.Context, rent *domain.Rent) error
	Delete(ctx context.Context, id int32) error

	// Lists are ordered by start time, newest first.
	ListByRenter(ctx context.Context, renterID int32) ([]domain.Rent, error)
	ListByTransport(ctx context.Context, transportID int32) ([]domain.Rent, error)

	// MarkOverdue flags active rents whose scheduled end is before now and
	// returns the rents it changed.
	MarkOverdue(ctx context.Context, now time.Time) ([]domain.Rent, error)
}

// Repositories is the set of repositories bound to one unit of work.
type Repositories struct {
	Transports TransportRepository
	Rents      RentRepository
}

// Transactor runs fn inside a unit of work. Every write fn makes through
// repos is committed together when fn returns nil and discarded otherwise.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
