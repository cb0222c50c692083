package memory

import (
	"context"
	"maps"
	"sync"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/logger"
	"vehicle-rental-backend/internal/repository"
)

type state struct {
	principals map[int32]domain.Principal
	transports map[int32]domain.Transport
	rents      map[int32]domain.Rent
	nextRentID int32
}

func (st *state) clone() *state {
	return &state{
		principals: maps.Clone(st.principals),
		transports: maps.Clone(st.transports),
		rents:      maps.Clone(st.rents),
		nextRentID: st.nextRentID,
	}
}

// Store keeps principals, transports and rents in process memory. Units of
// work are serialised on txMu and undone from a snapshot when they fail;
// writes made outside WithinTx take txMu as well so a rollback never drops
// them.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex
	st   *state

	Principals repository.PrincipalRepository
	Transports repository.TransportRepository
	Rents      repository.RentRepository
}

func NewStore() *Store {
	s := &Store{
		st: &state{
			principals: make(map[int32]domain.Principal),
			transports: make(map[int32]domain.Transport),
			rents:      make(map[int32]domain.Rent),
			nextRentID: 1,
		},
	}
	s.Principals = &principalRepository{s: s}
	s.Transports = &transportRepository{s: s}
	s.Rents = &rentRepository{s: s}
	return s
}

func (s *Store) Repositories() repository.Repositories {
	return repository.Repositories{
		Transports: s.Transports,
		Rents:      s.Rents,
	}
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.st.clone()
	s.mu.RUnlock()

	repos := repository.Repositories{
		Transports: &transportRepository{s: s, inTx: true},
		Rents:      &rentRepository{s: s, inTx: true},
	}
	if err := fn(ctx, repos); err != nil {
		s.mu.Lock()
		s.st = snapshot
		s.mu.Unlock()
		logger.DebugContext(ctx, "Transaction rolled back", "error", err)
		return err
	}
	return nil
}

// write runs fn with exclusive access to the data. Outside a unit of work it
// also waits for any running one to finish.
func (s *Store) write(inTx bool, fn func(st *state) error) error {
	if !inTx {
		s.txMu.Lock()
		defer s.txMu.Unlock()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.st)
}

func (s *Store) read(fn func(st *state)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.st)
}
