package infrastructure

import (
	"context"
	"time"

	"plantid-bot-go/internal/domain/eventbus"
	"plantid-bot-go/internal/domain/eventbus/repository"
	"plantid-bot-go/internal/platform/logging"
)

const storeTimeout = 5 * time.Second

// Persister writes every published event to the repository.
type Persister struct {
	repo   repository.EventRepository
	logger logging.Interface
}

func NewPersister(repo repository.EventRepository, logger logging.Interface) *Persister {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &Persister{repo: repo, logger: logger}
}

// Attach subscribes the persister to every bot topic.
func (p *Persister) Attach(bus *eventbus.AsyncEventBus) error {
	for _, topic := range eventbus.Topics {
		if err := bus.Subscribe(topic, p.Handle); err != nil {
			return err
		}
	}
	return nil
}

// Handle stores one event. Failures are logged; the bus has no caller to report to.
func (p *Persister) Handle(ev eventbus.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	err := p.repo.Store(ctx, repository.Event{
		ID:        ev.ID,
		EventType: ev.Type,
		UserID:    ev.UserID,
		Data:      ev.Data,
		CreatedAt: ev.CreatedAt,
	})
	if err != nil {
		p.logger.Error("persist event %s (%s) failed: %v", ev.ID, ev.Type, err)
	}
}
