package events

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeParticipantRegistered EventType = "participant_registered"
	EventTypeParticipantRemoved    EventType = "participant_removed"
	EventTypeCodeGenerated         EventType = "code_generated"
	EventTypeCodeRedeemed          EventType = "code_redeemed"
	EventTypeCodeDeleted           EventType = "code_deleted"
	EventTypeRaffleCreated         EventType = "raffle_created"
	EventTypeRaffleStopped         EventType = "raffle_stopped"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// ParticipantRegisteredEvent is emitted after a new participant joins
type ParticipantRegisteredEvent struct {
	UserID     int64
	ReferrerID *int64 // Set only when the referral was recorded
}

func (e ParticipantRegisteredEvent) Type() EventType {
	return EventTypeParticipantRegistered
}

// ParticipantRemovedEvent is emitted after a participant leaves
type ParticipantRemovedEvent struct {
	UserID int64
}

func (e ParticipantRemovedEvent) Type() EventType {
	return EventTypeParticipantRemoved
}

// CodeGeneratedEvent is emitted after a redeemable code is created
type CodeGeneratedEvent struct {
	CodeID        int64
	RemainingUses int
}

func (e CodeGeneratedEvent) Type() EventType {
	return EventTypeCodeGenerated
}

// CodeRedeemedEvent is emitted after a successful redemption
type CodeRedeemedEvent struct {
	UserID int64
	CodeID int64
	Purged bool // The redemption exhausted the code
}

func (e CodeRedeemedEvent) Type() EventType {
	return EventTypeCodeRedeemed
}

// CodeDeletedEvent is emitted after a code is deleted by an operator
type CodeDeletedEvent struct {
	CodeID int64
}

func (e CodeDeletedEvent) Type() EventType {
	return EventTypeCodeDeleted
}

// RaffleCreatedEvent is emitted after a raffle starts
type RaffleCreatedEvent struct {
	RaffleID int64
	Name     string
}

func (e RaffleCreatedEvent) Type() EventType {
	return EventTypeRaffleCreated
}

// RaffleWinnerInfo is a winner as carried by RaffleStoppedEvent
type RaffleWinnerInfo struct {
	UserID   int64
	Position int
	Priority int
}

// RaffleStoppedEvent is emitted after a raffle is stopped and the ledger reset
type RaffleStoppedEvent struct {
	RaffleID          int64
	Winners           []RaffleWinnerInfo
	TotalParticipants int
}

func (e RaffleStoppedEvent) Type() EventType {
	return EventTypeRaffleStopped
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
	inflight sync.WaitGroup
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	log.WithFields(log.Fields{
		"eventType":    event.Type(),
		"handlerCount": len(handlers),
	}).Debug("Emitting event to handlers")

	// Call handlers asynchronously to avoid blocking the caller
	for i, handler := range handlers {
		b.inflight.Add(1)
		go func(h Handler, handlerIndex int) {
			defer b.inflight.Done()
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// Wait blocks until every handler started by Emit has returned
func (b *Bus) Wait() {
	b.inflight.Wait()
}

// TransactionalBus holds events raised inside a unit of work until it commits.
type TransactionalBus struct {
	real    *Bus
	pending []Event // stashed until Flush
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	log.WithFields(log.Fields{
		"eventType":    e.Type(),
		"pendingCount": len(b.pending),
	}).Debug("Adding event to transactional bus pending queue")
	b.pending = append(b.pending, e)
}

// Flush emits pending events; called after a successful commit
func (b *TransactionalBus) Flush(ctx context.Context) error {
	log.WithFields(log.Fields{
		"pendingEventCount": len(b.pending),
	}).Debug("Flushing pending events from transactional bus")

	// Handlers outlive the transaction, so they must not inherit its deadline
	eventCtx := context.WithoutCancel(ctx)

	if b.real != nil {
		for _, ev := range b.pending {
			b.real.Emit(eventCtx, ev)
		}
	}
	b.pending = nil
	return nil
}

// Discard drops pending events; called after a rollback
func (b *TransactionalBus) Discard() {
	b.pending = nil
}

// Pending returns the number of events waiting for Flush
func (b *TransactionalBus) Pending() int {
	return len(b.pending)
}
