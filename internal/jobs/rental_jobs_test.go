package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"vehicle-rental-backend/internal/config"
	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/repository"
	"vehicle-rental-backend/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func seed(t *testing.T) *memory.Store {
	t.Helper()
	store := memory.NewStore()
	store.AddPrincipal(domain.Principal{ID: 7})
	for _, id := range []int32{1, 2, 3} {
		store.AddTransport(domain.Transport{ID: id, OwnerID: 5, CanBeRented: false, TransportType: domain.TransportTypeBike})
	}

	rents := []domain.Rent{
		{TransportID: 1, EndTime: now.Add(-time.Minute), Status: domain.RentStatusActive},
		{TransportID: 2, EndTime: now.Add(time.Hour), Status: domain.RentStatusActive},
		{TransportID: 3, EndTime: now.Add(-time.Hour), Status: domain.RentStatusCompleted},
	}
	for i := range rents {
		rents[i].RentType = domain.RentTypeMinutes
		rents[i].RenterUserID = 7
		rents[i].StartTime = now.Add(-2 * time.Hour)
		require.NoError(t, store.Rents.Create(context.Background(), &rents[i]))
	}
	return store
}

func TestMarkOverdueRents(t *testing.T) {
	store := seed(t)
	jr := NewJobRunner(store.Rents, &config.Config{})
	jr.now = func() time.Time { return now }

	count, err := jr.markOverdueRents(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	rents, err := store.Rents.ListByRenter(context.Background(), 7)
	require.NoError(t, err)
	byTransport := map[int32]domain.RentStatus{}
	for _, r := range rents {
		byTransport[r.TransportID] = r.Status
	}
	assert.Equal(t, domain.RentStatusOverdue, byTransport[1])
	assert.Equal(t, domain.RentStatusActive, byTransport[2])
	assert.Equal(t, domain.RentStatusCompleted, byTransport[3])

	transport, err := store.Transports.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, transport.CanBeRented, "overdue rents keep the transport locked")

	count, err = jr.markOverdueRents(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count, "already overdue rents are not marked twice")
}

type failingRents struct {
	repository.RentRepository
}

func (failingRents) MarkOverdue(context.Context, time.Time) ([]domain.Rent, error) {
	return nil, errors.New("db down")
}

type panickingRents struct {
	repository.RentRepository
}

func (panickingRents) MarkOverdue(context.Context, time.Time) ([]domain.Rent, error) {
	panic("boom")
}

func TestMarkOverdueRents_Failures(t *testing.T) {
	jr := NewJobRunner(failingRents{}, &config.Config{})
	_, err := jr.markOverdueRents(context.Background())
	assert.ErrorContains(t, err, "db down")
	assert.NotPanics(t, jr.MarkOverdueRents)

	jr = NewJobRunner(panickingRents{}, &config.Config{})
	assert.NotPanics(t, jr.RunAll)
}
