package events

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// TestEventDeliveryIntegration tests the complete event flow from TransactionalBus to main Bus
func TestEventDeliveryIntegration(t *testing.T) {
	defer goleak.VerifyNone(t)

	mainBus := NewBus()
	transactionalBus := NewTransactionalBus(mainBus)

	var mu sync.Mutex
	var received []RaffleStoppedEvent
	mainBus.Subscribe(EventTypeRaffleStopped, func(ctx context.Context, event Event) {
		stopped, ok := event.(RaffleStoppedEvent)
		if !ok {
			t.Errorf("Expected RaffleStoppedEvent, got %T", event)
			return
		}
		mu.Lock()
		received = append(received, stopped)
		mu.Unlock()
	})

	testEvent := RaffleStoppedEvent{
		RaffleID: 42,
		Winners: []RaffleWinnerInfo{
			{UserID: 100, Position: 0, Priority: 3},
		},
		TotalParticipants: 5,
	}

	// Publish inside the "transaction"
	transactionalBus.Publish(testEvent)
	assert.Equal(t, 1, transactionalBus.Pending())

	// Nothing is delivered before commit
	mainBus.Wait()
	mu.Lock()
	assert.Empty(t, received)
	mu.Unlock()

	// Commit
	require.NoError(t, transactionalBus.Flush(context.Background()))
	mainBus.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, received, 1)
	assert.Equal(t, testEvent, received[0])
	assert.Equal(t, 0, transactionalBus.Pending())
}

func TestTransactionalBus_DiscardDropsEvents(t *testing.T) {
	defer goleak.VerifyNone(t)

	mainBus := NewBus()
	transactionalBus := NewTransactionalBus(mainBus)

	var mu sync.Mutex
	calls := 0
	mainBus.Subscribe(EventTypeCodeRedeemed, func(ctx context.Context, event Event) {
		mu.Lock()
		calls++
		mu.Unlock()
	})

	transactionalBus.Publish(CodeRedeemedEvent{UserID: 1, CodeID: 2})
	transactionalBus.Discard()
	require.NoError(t, transactionalBus.Flush(context.Background()))
	mainBus.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 0, calls)
}

func TestBus_OnlyMatchingHandlersReceiveEvents(t *testing.T) {
	defer goleak.VerifyNone(t)

	bus := NewBus()

	var mu sync.Mutex
	got := map[EventType]int{}
	record := func(ctx context.Context, event Event) {
		mu.Lock()
		got[event.Type()]++
		mu.Unlock()
	}
	bus.Subscribe(EventTypeParticipantRegistered, record)
	bus.Subscribe(EventTypeParticipantRegistered, record)
	bus.Subscribe(EventTypeParticipantRemoved, record)

	bus.Emit(context.Background(), ParticipantRegisteredEvent{UserID: 7})
	bus.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, got[EventTypeParticipantRegistered])
	assert.Equal(t, 0, got[EventTypeParticipantRemoved])
}

func TestBus_HandlerPanicIsRecovered(t *testing.T) {
	defer goleak.VerifyNone(t)

	bus := NewBus()
	done := make(chan struct{})

	bus.Subscribe(EventTypeRaffleCreated, func(ctx context.Context, event Event) {
		panic("boom")
	})
	bus.Subscribe(EventTypeRaffleCreated, func(ctx context.Context, event Event) {
		close(done)
	})

	assert.NotPanics(t, func() {
		bus.Emit(context.Background(), RaffleCreatedEvent{RaffleID: 1, Name: "Spring"})
		bus.Wait()
	})
	<-done
}
