package memory

import (
	"context"
	"slices"

	"vehicle-rental-backend/internal/domain"
)

type transportRepository struct {
	s    *Store
	inTx bool
}

func (r *transportRepository) GetByID(ctx context.Context, id int32) (*domain.Transport, error) {
	var (
		t  domain.Transport
		ok bool
	)
	r.s.read(func(st *state) { t, ok = st.transports[id] })
	if !ok {
		return nil, domain.NewNotFoundError(domain.MsgTransportNotFound)
	}
	return &t, nil
}

func (r *transportRepository) ListAvailable(ctx context.Context, filter domain.AvailabilityFilter) ([]domain.Transport, error) {
	transports := []domain.Transport{}
	r.s.read(func(st *state) {
		for _, t := range st.transports {
			if filter.Matches(t) {
				transports = append(transports, t)
			}
		}
	})
	slices.SortFunc(transports, func(a, b domain.Transport) int { return int(a.ID) - int(b.ID) })
	return transports, nil
}

func (r *transportRepository) MarkRented(ctx context.Context, id int32) error {
	return r.s.write(r.inTx, func(st *state) error {
		t, ok := st.transports[id]
		if !ok || !t.CanBeRented {
			return domain.NewConflictError(domain.MsgTransportRented)
		}
		t.CanBeRented = false
		st.transports[id] = t
		return nil
	})
}

func (r *transportRepository) MarkAvailable(ctx context.Context, id int32, latitude, longitude float64) error {
	return r.s.write(r.inTx, func(st *state) error {
		t, ok := st.transports[id]
		if !ok {
			return domain.NewNotFoundError(domain.MsgTransportNotFound)
		}
		t.CanBeRented = true
		t.Latitude = latitude
		t.Longitude = longitude
		st.transports[id] = t
		return nil
	})
}

func (r *transportRepository) Release(ctx context.Context, id int32) error {
	return r.s.write(r.inTx, func(st *state) error {
		t, ok := st.transports[id]
		if !ok {
			return domain.NewNotFoundError(domain.MsgTransportNotFound)
		}
		t.CanBeRented = true
		st.transports[id] = t
		return nil
	})
}
