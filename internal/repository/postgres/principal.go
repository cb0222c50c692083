package postgres

import (
	"context"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/repository"
)

type principalRepository struct {
	db DBTX
}

// NewPrincipalRepository reads principals from the users table owned by the
// account subsystem. It never writes.
func NewPrincipalRepository(db DBTX) repository.PrincipalRepository {
	return &principalRepository{db: db}
}

func (r *principalRepository) GetByID(ctx context.Context, id int32) (*domain.Principal, error) {
	p := &domain.Principal{}
	query := `SELECT id, is_admin, disabled, balance FROM users WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.IsAdmin, &p.Disabled, &p.Balance)
	if err != nil {
		return nil, classify("get principal", err, "principal not found")
	}
	return p, nil
}
