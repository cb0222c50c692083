package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/logger"
	"vehicle-rental-backend/internal/repository"
)

const rentColumns = `id, rent_type, transport_id, renter_user_id, start_time, end_time, status, price_of_unit, final_price, created_on, updated_on`

type rentRepository struct {
	db DBTX
}

func NewRentRepository(db DBTX) repository.RentRepository {
	return &rentRepository{db: db}
}

func scanRent(row rowScanner) (*domain.Rent, error) {
	rt := &domain.Rent{}
	err := row.Scan(&rt.ID, &rt.RentType, &rt.TransportID, &rt.RenterUserID, &rt.StartTime, &rt.EndTime, &rt.Status, &rt.PriceOfUnit, &rt.FinalPrice, &rt.CreatedOn, &rt.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return rt, nil
}

func (r *rentRepository) Create(ctx context.Context, rt *domain.Rent) error {
	query := `INSERT INTO rents (rent_type, transport_id, renter_user_id, start_time, end_time, status, price_of_unit, final_price, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	logger.DatabaseCall(ctx, "CreateRent", query, "transport_id", rt.TransportID, "renter_user_id", rt.RenterUserID)

	if rt.CreatedOn.IsZero() {
		rt.CreatedOn = time.Now().UTC()
	}
	rt.UpdatedOn = rt.CreatedOn
	err := r.db.QueryRowContext(ctx, query, rt.RentType, rt.TransportID, rt.RenterUserID, rt.StartTime, rt.EndTime, rt.Status, rt.PriceOfUnit, rt.FinalPrice, rt.CreatedOn, rt.UpdatedOn).Scan(&rt.ID)
	if err != nil {
		logger.DatabaseResult(ctx, "CreateRent", 0, err)
		return classify("create rent", err, domain.MsgRentNotFound)
	}
	logger.DatabaseResult(ctx, "CreateRent", 1, nil, "rent_id", rt.ID)
	return nil
}

func (r *rentRepository) GetByID(ctx context.Context, id int32) (*domain.Rent, error) {
	query := `SELECT ` + rentColumns + ` FROM rents WHERE id = $1`
	rt, err := scanRent(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, classify("get rent", err, domain.MsgRentNotFound)
	}
	return rt, nil
}

func (r *rentRepository) Complete(ctx context.Context, id int32, endTime time.Time) (int32, error) {
	query := `UPDATE rents SET end_time = $2, status = 'COMPLETED', updated_on = $2
	          WHERE id = $1 AND status IN ('ACTIVE', 'OVERDUE') RETURNING transport_id`
	logger.DatabaseCall(ctx, "CompleteRent", query, "rent_id", id)

	var transportID int32
	err := r.db.QueryRowContext(ctx, query, id, endTime).Scan(&transportID)
	if errors.Is(err, sql.ErrNoRows) {
		logger.DatabaseResult(ctx, "CompleteRent", 0, nil, "rent_id", id)
		return 0, domain.NewConflictError(domain.MsgRentalEnded)
	}
	if err != nil {
		logger.DatabaseResult(ctx, "CompleteRent", 0, err, "rent_id", id)
		return 0, classify("complete rent", err, domain.MsgRentNotFound)
	}
	logger.DatabaseResult(ctx, "CompleteRent", 1, nil, "rent_id", id, "transport_id", transportID)
	return transportID, nil
}

func (r *rentRepository) Update(ctx context.Context, rt *domain.Rent) error {
	query := `UPDATE rents SET rent_type = $2, transport_id = $3, renter_user_id = $4, start_time = $5, end_time = $6,
	          status = $7, price_of_unit = $8, final_price = $9, updated_on = $10 WHERE id = $1`
	logger.DatabaseCall(ctx, "UpdateRent", query, "rent_id", rt.ID)

	rt.UpdatedOn = time.Now().UTC()
	n, err := execAffected(ctx, r.db, query, rt.ID, rt.RentType, rt.TransportID, rt.RenterUserID, rt.StartTime, rt.EndTime, rt.Status, rt.PriceOfUnit, rt.FinalPrice, rt.UpdatedOn)
	logger.DatabaseResult(ctx, "UpdateRent", n, err, "rent_id", rt.ID)
	if err != nil {
		return classify("update rent", err, domain.MsgRentNotFound)
	}
	if n == 0 {
		return domain.NewNotFoundError(domain.MsgRentNotFound)
	}
	return nil
}

func (r *rentRepository) Delete(ctx context.Context, id int32) error {
	query := `DELETE FROM rents WHERE id = $1`
	logger.DatabaseCall(ctx, "DeleteRent", query, "rent_id", id)

	n, err := execAffected(ctx, r.db, query, id)
	logger.DatabaseResult(ctx, "DeleteRent", n, err, "rent_id", id)
	if err != nil {
		return classify("delete rent", err, domain.MsgRentNotFound)
	}
	if n == 0 {
		return domain.NewNotFoundError(domain.MsgRentNotFound)
	}
	return nil
}

func (r *rentRepository) ListByRenter(ctx context.Context, renterID int32) ([]domain.Rent, error) {
	query := `SELECT ` + rentColumns + ` FROM rents WHERE renter_user_id = $1 ORDER BY start_time DESC, id DESC`
	return r.list(ctx, "list rents by renter", query, renterID)
}

func (r *rentRepository) ListByTransport(ctx context.Context, transportID int32) ([]domain.Rent, error) {
	query := `SELECT ` + rentColumns + ` FROM rents WHERE transport_id = $1 ORDER BY start_time DESC, id DESC`
	return r.list(ctx, "list rents by transport", query, transportID)
}

func (r *rentRepository) MarkOverdue(ctx context.Context, now time.Time) ([]domain.Rent, error) {
	query := `UPDATE rents SET status = 'OVERDUE', updated_on = $1
	          WHERE status = 'ACTIVE' AND end_time < $1
	          RETURNING ` + rentColumns
	logger.DatabaseCall(ctx, "MarkOverdue", query)
	rents, err := r.list(ctx, "mark overdue rents", query, now)
	logger.DatabaseResult(ctx, "MarkOverdue", int64(len(rents)), err)
	return rents, err
}

func (r *rentRepository) list(ctx context.Context, op, query string, args ...any) ([]domain.Rent, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	rents := []domain.Rent{}
	for rows.Next() {
		rt, err := scanRent(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		rents = append(rents, *rt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rents, nil
}
