package service

import (
	"context"
	"time"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/logger"
	"vehicle-rental-backend/internal/repository"
	"vehicle-rental-backend/internal/utils"
)

type Option func(*rentService)

// WithClock replaces time.Now as the source of rent start and end times.
func WithClock(now func() time.Time) Option {
	return func(s *rentService) {
		s.now = now
	}
}

type rentService struct {
	repos repository.Repositories
	tx    repository.Transactor
	now   func() time.Time
}

func NewRentService(repos repository.Repositories, tx repository.Transactor, opts ...Option) RentService {
	s := &rentService{
		repos: repos,
		tx:    tx,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// clock returns the current instant at the precision the database keeps.
func (s *rentService) clock() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func (s *rentService) CreateRent(ctx context.Context, p *domain.Principal, req domain.CreateRentRequest) (*domain.Rent, error) {
	terms := req.Terms()
	logger.EnterMethod(ctx, "rentService.CreateRent", "principalID", p.ID, "transportID", terms.TransportID, "rentType", terms.RentType, "duration", terms.Duration)

	rent, err := s.createRent(ctx, p, req)
	if err != nil {
		logger.ExitMethodWithError(ctx, "rentService.CreateRent", err, "principalID", p.ID, "transportID", terms.TransportID)
		return nil, err
	}

	logger.InfoContext(ctx, "Rent created", "rentID", rent.ID, "transportID", rent.TransportID, "renterID", rent.RenterUserID, "finalPrice", rent.FinalPrice.String())
	logger.ExitMethod(ctx, "rentService.CreateRent", "rentID", rent.ID)
	return rent, nil
}

func (s *rentService) createRent(ctx context.Context, p *domain.Principal, req domain.CreateRentRequest) (*domain.Rent, error) {
	if _, admin := req.(domain.AdminCreateRentRequest); admin && !CanAdminister(p) {
		return nil, domain.NewForbiddenError(domain.MsgAdminRequired)
	}
	terms := req.Terms()

	transport, err := s.repos.Transports.GetByID(ctx, terms.TransportID)
	if err != nil {
		return nil, err
	}
	if !transport.CanBeRented {
		return nil, domain.NewConflictError(domain.MsgTransportRented)
	}
	if !CanCreateRent(p, transport.OwnerID, req) {
		return nil, domain.NewForbiddenError(domain.MsgCannotRentOwn)
	}

	quote, err := utils.QuoteTransport(transport, terms.RentType, terms.Duration)
	if err != nil {
		return nil, err
	}
	start := s.clock()
	end, err := utils.ScheduledEnd(start, terms.RentType, terms.Duration)
	if err != nil {
		return nil, err
	}

	rent := &domain.Rent{
		RentType:     terms.RentType,
		TransportID:  transport.ID,
		RenterUserID: EffectiveRenter(p, req),
		StartTime:    start,
		EndTime:      end,
		Status:       domain.RentStatusActive,
		PriceOfUnit:  quote.UnitPrice,
		FinalPrice:   quote.FinalPrice,
		CreatedOn:    start,
	}

	// The availability read above is advisory; MarkRented is the
	// authoritative check-and-set.
	err = s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		if err := repos.Transports.MarkRented(ctx, transport.ID); err != nil {
			return err
		}
		return repos.Rents.Create(ctx, rent)
	})
	if err != nil {
		return nil, err
	}
	return rent, nil
}

func (s *rentService) EndRent(ctx context.Context, p *domain.Principal, req domain.EndRentRequest) (*domain.Rent, error) {
	logger.EnterMethod(ctx, "rentService.EndRent", "principalID", p.ID, "rentID", req.RentID)

	rent, err := s.endRent(ctx, p, req)
	if err != nil {
		logger.ExitMethodWithError(ctx, "rentService.EndRent", err, "principalID", p.ID, "rentID", req.RentID)
		return nil, err
	}

	logger.InfoContext(ctx, "Rent ended", "rentID", rent.ID, "transportID", rent.TransportID)
	logger.ExitMethod(ctx, "rentService.EndRent", "rentID", rent.ID)
	return rent, nil
}

func (s *rentService) AdminEndRent(ctx context.Context, p *domain.Principal, req domain.EndRentRequest) (*domain.Rent, error) {
	if !CanAdminister(p) {
		return nil, domain.NewForbiddenError(domain.MsgAdminRequired)
	}
	return s.EndRent(ctx, p, req)
}

func (s *rentService) endRent(ctx context.Context, p *domain.Principal, req domain.EndRentRequest) (*domain.Rent, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	rent, err := s.repos.Rents.GetByID(ctx, req.RentID)
	if err != nil {
		return nil, err
	}
	if !CanEndRent(p, rent) {
		return nil, domain.NewForbiddenError(domain.MsgCannotEndRent)
	}

	// A rent counts as ended once its scheduled window has passed, whether
	// or not termination was recorded.
	now := s.clock()
	if now.After(rent.EndTime) {
		return nil, domain.NewConflictError(domain.MsgRentalEnded)
	}

	// The rent may have been moved to another transport since it was read;
	// release whichever one the completed row points at.
	var transportID int32
	err = s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		var err error
		if transportID, err = repos.Rents.Complete(ctx, rent.ID, now); err != nil {
			return err
		}
		return repos.Transports.MarkAvailable(ctx, transportID, req.Latitude, req.Longitude)
	})
	if err != nil {
		return nil, err
	}

	rent.TransportID = transportID
	rent.EndTime = now
	rent.Status = domain.RentStatusCompleted
	rent.UpdatedOn = now
	return rent, nil
}

func (s *rentService) GetRent(ctx context.Context, p *domain.Principal, rentID int32) (*domain.Rent, error) {
	rent, err := s.repos.Rents.GetByID(ctx, rentID)
	if err != nil {
		return nil, err
	}

	var ownerID int32
	transport, err := s.repos.Transports.GetByID(ctx, rent.TransportID)
	switch {
	case err == nil:
		ownerID = transport.OwnerID
	case !domain.IsKind(err, domain.KindNotFound):
		return nil, err
	}

	if !CanViewRent(p, rent, ownerID) {
		return nil, domain.NewForbiddenError(domain.MsgCannotViewRent)
	}
	return rent, nil
}

func (s *rentService) AdminGetRent(ctx context.Context, p *domain.Principal, rentID int32) (*domain.Rent, error) {
	if !CanAdminister(p) {
		return nil, domain.NewForbiddenError(domain.MsgAdminRequired)
	}
	return s.repos.Rents.GetByID(ctx, rentID)
}

func (s *rentService) AdminUpdateRent(ctx context.Context, p *domain.Principal, rentID int32, override domain.RentOverride) (*domain.Rent, error) {
	logger.EnterMethod(ctx, "rentService.AdminUpdateRent", "principalID", p.ID, "rentID", rentID)

	if !CanAdminister(p) {
		err := domain.NewForbiddenError(domain.MsgAdminRequired)
		logger.ExitMethodWithError(ctx, "rentService.AdminUpdateRent", err, "principalID", p.ID)
		return nil, err
	}
	if err := override.Validate(); err != nil {
		logger.ExitMethodWithError(ctx, "rentService.AdminUpdateRent", err, "rentID", rentID)
		return nil, err
	}

	var updated *domain.Rent
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		rent, err := repos.Rents.GetByID(ctx, rentID)
		if err != nil {
			return err
		}
		if _, err := repos.Transports.GetByID(ctx, override.TransportID); err != nil {
			return err
		}

		// An open rent moved to another transport takes the availability
		// lock with it.
		if rent.IsOpen() && rent.TransportID != override.TransportID {
			if err := repos.Transports.MarkRented(ctx, override.TransportID); err != nil {
				return err
			}
			if err := repos.Transports.Release(ctx, rent.TransportID); err != nil {
				return err
			}
		}

		rent.RentType = override.RentType
		rent.TransportID = override.TransportID
		rent.RenterUserID = override.RenterUserID
		rent.StartTime = override.StartTime.UTC()
		rent.EndTime = override.EndTime.UTC()
		rent.PriceOfUnit = override.PriceOfUnit
		rent.FinalPrice = override.FinalPrice
		if err := repos.Rents.Update(ctx, rent); err != nil {
			return err
		}
		updated = rent
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError(ctx, "rentService.AdminUpdateRent", err, "rentID", rentID)
		return nil, err
	}

	logger.ExitMethod(ctx, "rentService.AdminUpdateRent", "rentID", rentID)
	return updated, nil
}

func (s *rentService) AdminDeleteRent(ctx context.Context, p *domain.Principal, rentID int32) error {
	logger.EnterMethod(ctx, "rentService.AdminDeleteRent", "principalID", p.ID, "rentID", rentID)

	if !CanAdminister(p) {
		err := domain.NewForbiddenError(domain.MsgAdminRequired)
		logger.ExitMethodWithError(ctx, "rentService.AdminDeleteRent", err, "principalID", p.ID)
		return err
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		rent, err := repos.Rents.GetByID(ctx, rentID)
		if err != nil {
			return err
		}
		if err := repos.Rents.Delete(ctx, rentID); err != nil {
			return err
		}
		if rent.IsOpen() {
			return repos.Transports.Release(ctx, rent.TransportID)
		}
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError(ctx, "rentService.AdminDeleteRent", err, "rentID", rentID)
		return err
	}

	logger.ExitMethod(ctx, "rentService.AdminDeleteRent", "rentID", rentID)
	return nil
}
