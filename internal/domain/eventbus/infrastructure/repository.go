package infrastructure

import (
	"context"

	"github.com/bytedance/sonic"
	"gorm.io/gorm"

	"plantid-bot-go/internal/domain/eventbus/repository"
	"plantid-bot-go/internal/platform/errors"
	"plantid-bot-go/internal/platform/storage"
)

type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository stores events in the domain_events table.
func NewEventRepository(db *gorm.DB) repository.EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Store(ctx context.Context, event repository.Event) error {
	data, err := sonic.Marshal(event.Data)
	if err != nil {
		return errors.Wrap(errors.KindStorage, "event.store.marshal", "failed to marshal event data", err)
	}

	row := &storage.DomainEvent{
		EventID:   event.ID,
		EventType: event.EventType,
		UserID:    event.UserID,
		Data:      data,
		CreatedAt: event.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return errors.Wrap(errors.KindStorage, "event.store.create", "failed to store event", err)
	}
	return nil
}

func (r *eventRepository) CountByType(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		EventType string
		Count     int64
	}
	if err := r.db.WithContext(ctx).
		Model(&storage.DomainEvent{}).
		Select("event_type, count(*) as count").
		Group("event_type").
		Scan(&rows).Error; err != nil {
		return nil, errors.Wrap(errors.KindStorage, "event.count", "failed to count events", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.EventType] = row.Count
	}
	return counts, nil
}
