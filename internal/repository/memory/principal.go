package memory

import (
	"context"

	"vehicle-rental-backend/internal/domain"
)

type principalRepository struct {
	s *Store
}

func (r *principalRepository) GetByID(ctx context.Context, id int32) (*domain.Principal, error) {
	var (
		p  domain.Principal
		ok bool
	)
	r.s.read(func(st *state) { p, ok = st.principals[id] })
	if !ok {
		return nil, domain.NewNotFoundError("principal not found")
	}
	return &p, nil
}
