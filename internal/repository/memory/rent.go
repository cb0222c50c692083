package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"vehicle-rental-backend/internal/domain"
)

type rentRepository struct {
	s    *Store
	inTx bool
}

func (r *rentRepository) Create(ctx context.Context, rent *domain.Rent) error {
	return r.s.write(r.inTx, func(st *state) error {
		if !st.references(rent) {
			return domain.NewValidationError("create rent: referenced record does not exist")
		}
		for _, open := range st.rents {
			if open.TransportID == rent.TransportID && open.IsOpen() {
				return domain.NewConflictError(domain.MsgTransportRented)
			}
		}

		if rent.CreatedOn.IsZero() {
			rent.CreatedOn = time.Now().UTC()
		}
		rent.UpdatedOn = rent.CreatedOn
		rent.ID = st.nextRentID
		st.nextRentID++
		st.rents[rent.ID] = *rent
		return nil
	})
}

func (r *rentRepository) GetByID(ctx context.Context, id int32) (*domain.Rent, error) {
	var (
		rent domain.Rent
		ok   bool
	)
	r.s.read(func(st *state) { rent, ok = st.rents[id] })
	if !ok {
		return nil, domain.NewNotFoundError(domain.MsgRentNotFound)
	}
	return &rent, nil
}

func (r *rentRepository) Complete(ctx context.Context, id int32, endTime time.Time) (int32, error) {
	var transportID int32
	err := r.s.write(r.inTx, func(st *state) error {
		rent, ok := st.rents[id]
		if !ok {
			return domain.NewNotFoundError(domain.MsgRentNotFound)
		}
		if !rent.IsOpen() {
			return domain.NewConflictError(domain.MsgRentalEnded)
		}
		rent.EndTime = endTime
		rent.Status = domain.RentStatusCompleted
		rent.UpdatedOn = endTime
		st.rents[id] = rent
		transportID = rent.TransportID
		return nil
	})
	return transportID, err
}

func (r *rentRepository) Update(ctx context.Context, rent *domain.Rent) error {
	return r.s.write(r.inTx, func(st *state) error {
		if _, ok := st.rents[rent.ID]; !ok {
			return domain.NewNotFoundError(domain.MsgRentNotFound)
		}
		if !st.references(rent) {
			return domain.NewValidationError("update rent: referenced record does not exist")
		}
		rent.UpdatedOn = time.Now().UTC()
		st.rents[rent.ID] = *rent
		return nil
	})
}

func (r *rentRepository) Delete(ctx context.Context, id int32) error {
	return r.s.write(r.inTx, func(st *state) error {
		if _, ok := st.rents[id]; !ok {
			return domain.NewNotFoundError(domain.MsgRentNotFound)
		}
		delete(st.rents, id)
		return nil
	})
}

func (r *rentRepository) ListByRenter(ctx context.Context, renterID int32) ([]domain.Rent, error) {
	return r.list(func(rent domain.Rent) bool { return rent.RenterUserID == renterID }), nil
}

func (r *rentRepository) ListByTransport(ctx context.Context, transportID int32) ([]domain.Rent, error) {
	return r.list(func(rent domain.Rent) bool { return rent.TransportID == transportID }), nil
}

func (r *rentRepository) MarkOverdue(ctx context.Context, now time.Time) ([]domain.Rent, error) {
	marked := []domain.Rent{}
	err := r.s.write(r.inTx, func(st *state) error {
		for id, rent := range st.rents {
			if rent.Status == domain.RentStatusActive && rent.EndTime.Before(now) {
				rent.Status = domain.RentStatusOverdue
				rent.UpdatedOn = now
				st.rents[id] = rent
				marked = append(marked, rent)
			}
		}
		return nil
	})
	sortNewestFirst(marked)
	return marked, err
}

func (r *rentRepository) list(keep func(domain.Rent) bool) []domain.Rent {
	rents := []domain.Rent{}
	r.s.read(func(st *state) {
		for _, rent := range st.rents {
			if keep(rent) {
				rents = append(rents, rent)
			}
		}
	})
	sortNewestFirst(rents)
	return rents
}

// references mirrors the rents foreign keys on transport and renter.
func (st *state) references(rent *domain.Rent) bool {
	_, transport := st.transports[rent.TransportID]
	_, renter := st.principals[rent.RenterUserID]
	return transport && renter
}

func sortNewestFirst(rents []domain.Rent) {
	slices.SortFunc(rents, func(a, b domain.Rent) int {
		if c := b.StartTime.Compare(a.StartTime); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
}
