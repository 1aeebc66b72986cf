package repository

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"raffler/events"
	"raffler/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitOfWork_CommitFlushesEvents(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	bus := events.NewBus()
	var delivered atomic.Int32
	bus.Subscribe(events.EventTypeParticipantRegistered, func(ctx context.Context, e events.Event) {
		delivered.Add(1)
	})

	factory := NewUnitOfWorkFactory(testDB.DB, bus)

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	_, err := uow.ParticipantRepository().Create(ctx, 1)
	require.NoError(t, err)
	uow.EventBus().Publish(events.ParticipantRegisteredEvent{UserID: 1})
	require.NoError(t, uow.Commit())
	require.NoError(t, uow.Rollback())

	bus.Wait()
	assert.Equal(t, int32(1), delivered.Load())

	exists, err := NewParticipantRepository(testDB.DB).Exists(ctx, 1)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestUnitOfWork_RollbackDiscards(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	bus := events.NewBus()
	var delivered atomic.Int32
	bus.Subscribe(events.EventTypeParticipantRegistered, func(ctx context.Context, e events.Event) {
		delivered.Add(1)
	})

	uow := NewUnitOfWorkFactory(testDB.DB, bus).Create()
	require.NoError(t, uow.Begin(ctx))
	_, err := uow.ParticipantRepository().Create(ctx, 1)
	require.NoError(t, err)
	uow.EventBus().Publish(events.ParticipantRegisteredEvent{UserID: 1})
	require.NoError(t, uow.Rollback())

	bus.Wait()
	assert.Zero(t, delivered.Load())

	exists, err := NewParticipantRepository(testDB.DB).Exists(ctx, 1)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUnitOfWork_RepositoriesRequireBegin(t *testing.T) {
	uow := NewUnitOfWorkFactory(nil, nil).Create()

	assert.Panics(t, func() { uow.ParticipantRepository() })
	assert.Panics(t, func() { uow.CodeRepository() })
	assert.Panics(t, func() { uow.RaffleRepository() })
	assert.Error(t, uow.Commit())
	assert.NoError(t, uow.Rollback())
	assert.Error(t, uow.LockShared())
}

func TestUnitOfWork_ExclusiveLockWaitsForShared(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	factory := NewUnitOfWorkFactory(testDB.DB, events.NewBus())

	shared := factory.Create()
	require.NoError(t, shared.Begin(ctx))
	require.NoError(t, shared.LockShared())

	// A second shared holder does not block
	otherShared := factory.Create()
	require.NoError(t, otherShared.Begin(ctx))
	require.NoError(t, otherShared.LockShared())
	require.NoError(t, otherShared.Rollback())

	acquired := make(chan struct{})
	go func() {
		exclusive := factory.Create()
		if err := exclusive.Begin(ctx); err != nil {
			return
		}
		defer exclusive.Rollback()
		if err := exclusive.LockExclusive(); err == nil {
			close(acquired)
		}
	}()

	select {
	case <-acquired:
		t.Fatal("exclusive lock acquired while a shared holder was active")
	case <-time.After(200 * time.Millisecond):
	}

	require.NoError(t, shared.Commit())

	select {
	case <-acquired:
	case <-time.After(5 * time.Second):
		t.Fatal("exclusive lock was not acquired after shared holder committed")
	}
}
