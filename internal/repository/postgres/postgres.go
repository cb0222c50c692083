package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	"vehicle-rental-backend/internal/logger"
	"vehicle-rental-backend/internal/repository"

	_ "github.com/lib/pq"
)

// DBTX is the part of *sql.DB and *sql.Tx the repositories use, so the same
// repository code runs inside and outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

//go:embed schema.sql
var schema string

// Migrate creates the rental tables when they do not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	logger.DatabaseCall(ctx, "Migrate", "schema.sql")
	_, err := db.ExecContext(ctx, schema)
	logger.DatabaseResult(ctx, "Migrate", 0, err)
	if err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

type Store struct {
	db         *sql.DB
	Principals repository.PrincipalRepository
	Transports repository.TransportRepository
	Rents      repository.RentRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:         db,
		Principals: NewPrincipalRepository(db),
		Transports: NewTransportRepository(db),
		Rents:      NewRentRepository(db),
	}
}

// Repositories returns the non-transactional repositories for reads.
func (s *Store) Repositories() repository.Repositories {
	return repository.Repositories{
		Transports: s.Transports,
		Rents:      s.Rents,
	}
}

// WithinTx runs fn in a database transaction. The transaction is committed
// only when fn returns nil.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	repos := repository.Repositories{
		Transports: NewTransportRepository(tx),
		Rents:      NewRentRepository(tx),
	}
	if err := fn(ctx, repos); err != nil {
		logger.DebugContext(ctx, "Transaction rolled back", "error", err)
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
