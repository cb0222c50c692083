package postgres

import (
	"context"
	"fmt"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/logger"
	"vehicle-rental-backend/internal/repository"

	"github.com/shopspring/decimal"
)

const transportColumns = `id, owner_id, can_be_rented, transport_type, model, color, identifier, COALESCE(description, ''), latitude, longitude, minute_price, day_price`

type transportRepository struct {
	db DBTX
}

func NewTransportRepository(db DBTX) repository.TransportRepository {
	return &transportRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransport(row rowScanner) (*domain.Transport, error) {
	t := &domain.Transport{}
	var minutePrice, dayPrice decimal.NullDecimal
	err := row.Scan(&t.ID, &t.OwnerID, &t.CanBeRented, &t.TransportType, &t.Model, &t.Color, &t.Identifier, &t.Description, &t.Latitude, &t.Longitude, &minutePrice, &dayPrice)
	if err != nil {
		return nil, err
	}
	// NULL prices read as zero; the Decimal of an invalid NullDecimal is zero.
	t.MinutePrice = minutePrice.Decimal
	t.DayPrice = dayPrice.Decimal
	return t, nil
}

func (r *transportRepository) GetByID(ctx context.Context, id int32) (*domain.Transport, error) {
	query := `SELECT ` + transportColumns + ` FROM transports WHERE id = $1`
	t, err := scanTransport(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, classify("get transport", err, domain.MsgTransportNotFound)
	}
	return t, nil
}

func (r *transportRepository) ListAvailable(ctx context.Context, filter domain.AvailabilityFilter) ([]domain.Transport, error) {
	query := `SELECT ` + transportColumns + ` FROM transports WHERE can_be_rented = true`

	var args []any
	if filter.Type != nil {
		args = append(args, string(*filter.Type))
		query += fmt.Sprintf(" AND transport_type = $%d", len(args))
	}
	if filter.HasArea() {
		args = append(args, filter.Center.Latitude, filter.Center.Longitude, *filter.Radius)
		n := len(args)
		query += fmt.Sprintf(" AND power(latitude - $%d::float8, 2) + power(longitude - $%d::float8, 2) <= power($%d::float8, 2)", n-2, n-1, n)
	}
	query += " ORDER BY id"

	logger.DatabaseCall(ctx, "ListAvailable", query, "args", len(args))
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list available transports: %w", err)
	}
	defer rows.Close()

	transports := []domain.Transport{}
	for rows.Next() {
		t, err := scanTransport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transport: %w", err)
		}
		transports = append(transports, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list available transports: %w", err)
	}
	logger.DatabaseResult(ctx, "ListAvailable", int64(len(transports)), nil)
	return transports, nil
}

func (r *transportRepository) MarkRented(ctx context.Context, id int32) error {
	query := `UPDATE transports SET can_be_rented = false WHERE id = $1 AND can_be_rented = true`
	logger.DatabaseCall(ctx, "MarkRented", query, "transport_id", id)

	n, err := r.exec(ctx, query, id)
	logger.DatabaseResult(ctx, "MarkRented", n, err, "transport_id", id)
	if err != nil {
		return classify("mark transport rented", err, domain.MsgTransportNotFound)
	}
	if n == 0 {
		return domain.NewConflictError(domain.MsgTransportRented)
	}
	return nil
}

func (r *transportRepository) MarkAvailable(ctx context.Context, id int32, latitude, longitude float64) error {
	query := `UPDATE transports SET can_be_rented = true, latitude = $2, longitude = $3 WHERE id = $1`
	logger.DatabaseCall(ctx, "MarkAvailable", query, "transport_id", id)

	n, err := r.exec(ctx, query, id, latitude, longitude)
	logger.DatabaseResult(ctx, "MarkAvailable", n, err, "transport_id", id)
	if err != nil {
		return classify("mark transport available", err, domain.MsgTransportNotFound)
	}
	if n == 0 {
		return domain.NewNotFoundError(domain.MsgTransportNotFound)
	}
	return nil
}

func (r *transportRepository) Release(ctx context.Context, id int32) error {
	query := `UPDATE transports SET can_be_rented = true WHERE id = $1`
	logger.DatabaseCall(ctx, "Release", query, "transport_id", id)

	n, err := r.exec(ctx, query, id)
	logger.DatabaseResult(ctx, "Release", n, err, "transport_id", id)
	if err != nil {
		return classify("release transport", err, domain.MsgTransportNotFound)
	}
	if n == 0 {
		return domain.NewNotFoundError(domain.MsgTransportNotFound)
	}
	return nil
}

func (r *transportRepository) exec(ctx context.Context, query string, args ...any) (int64, error) {
	return execAffected(ctx, r.db, query, args...)
}

func execAffected(ctx context.Context, db DBTX, query string, args ...any) (int64, error) {
	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
