package storage

import (
	"context"
	"database/sql"
	"fmt"

	"vehicle-rental-backend/internal/config"
	"vehicle-rental-backend/internal/logger"
	"vehicle-rental-backend/internal/repository"
	"vehicle-rental-backend/internal/repository/memory"
	"vehicle-rental-backend/internal/repository/postgres"

	_ "github.com/lib/pq"
)

// Backend is the store the rental core runs on. Postgres backs production;
// the in-memory store serves demos and local runs.
type Backend struct {
	Repositories repository.Repositories
	Transactor   repository.Transactor
	Principals   repository.PrincipalRepository

	close func() error
}

// Close releases the database connection, if any.
func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// Open selects the backend named by cfg.Driver.
func Open(ctx context.Context, cfg *config.Config) (*Backend, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		return openPostgres(ctx, cfg)
	case config.DriverMemory:
		return openMemory(cfg.Database)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

func openPostgres(ctx context.Context, cfg *config.Config) (*Backend, error) {
	logger.Debug("Connecting to database...", "connection_string", fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database))
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test database connection
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	logger.Info("Database connection established")

	if cfg.Database.Migrate {
		if err := postgres.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		logger.Info("Database schema applied")
	}

	store := postgres.NewStore(db)
	return &Backend{
		Repositories: store.Repositories(),
		Transactor:   store,
		Principals:   store.Principals,
		close:        db.Close,
	}, nil
}

func openMemory(cfg config.DatabaseConfig) (*Backend, error) {
	store := memory.NewStore()
	if cfg.SeedFile != "" {
		if err := store.LoadSeedFile(cfg.SeedFile); err != nil {
			return nil, err
		}
		logger.Info("In-memory store seeded", "seed_file", cfg.SeedFile)
	}
	logger.Info("Using in-memory store")
	return &Backend{
		Repositories: store.Repositories(),
		Transactor:   store,
		Principals:   store.Principals,
	}, nil
}
