package cmd

import (
	"context"
	"fmt"

	"raffler/config"
	"raffler/database"
	"raffler/events"
	"raffler/repository"
	"raffler/service"

	log "github.com/sirupsen/logrus"
)

// app holds the wired ledger for the lifetime of one command
type app struct {
	db           *database.DB
	eventBus     *events.Bus
	participants service.ParticipantService
	codes        service.CodeService
	raffles      service.RaffleService
}

// newApp connects to the database and builds the services
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	log.Debug("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	eventBus := events.NewBus()
	subscribeAuditLog(eventBus)

	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	return &app{
		db:           db,
		eventBus:     eventBus,
		participants: service.NewParticipantService(uowFactory),
		codes:        service.NewCodeService(uowFactory, cfg),
		raffles:      service.NewRaffleService(uowFactory),
	}, nil
}

// Close waits for event handlers to finish and releases the pool
func (a *app) Close() {
	a.eventBus.Wait()
	a.db.Close()
}

// subscribeAuditLog logs every committed ledger change
func subscribeAuditLog(bus *events.Bus) {
	audit := func(ctx context.Context, event events.Event) {
		log.WithFields(log.Fields{
			"eventType": event.Type(),
			"event":     fmt.Sprintf("%+v", event),
		}).Info("Ledger changed")
	}

	for _, eventType := range []events.EventType{
		events.EventTypeParticipantRegistered,
		events.EventTypeParticipantRemoved,
		events.EventTypeCodeGenerated,
		events.EventTypeCodeRedeemed,
		events.EventTypeCodeDeleted,
		events.EventTypeRaffleCreated,
		events.EventTypeRaffleStopped,
	} {
		bus.Subscribe(eventType, audit)
	}
}

// withApp runs fn against a freshly wired ledger
func withApp(ctx context.Context, fn func(a *app) error) error {
	cfg := loadedConfig
	if cfg == nil {
		cfg = config.Get()
	}

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(a)
}
