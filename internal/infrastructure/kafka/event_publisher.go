package kafka

import (
	"context"
	"fmt"

	"github.com/wms-platform/pallet-service/internal/domain"
	"github.com/wms-platform/pallet-service/pkg/cloudevents"
	pkgkafka "github.com/wms-platform/pallet-service/pkg/kafka"
	"github.com/wms-platform/pallet-service/pkg/logging"
)

// EventPublisher maps domain events to CloudEvents on the pallet events topic
type EventPublisher struct {
	producer     pkgkafka.EventProducer
	eventFactory *cloudevents.EventFactory
	topic        string
	logger       *logging.Logger
}

// NewEventPublisher creates a publisher writing to kafka.Topics.PalletEvents
func NewEventPublisher(producer pkgkafka.EventProducer, logger *logging.Logger) *EventPublisher {
	return &EventPublisher{
		producer:     producer,
		eventFactory: cloudevents.NewEventFactory(cloudevents.SourcePallet),
		topic:        pkgkafka.Topics.PalletEvents,
		logger:       logger.WithComponent("event-publisher"),
	}
}

// Publish publishes a single domain event
func (p *EventPublisher) Publish(ctx context.Context, event domain.DomainEvent) error {
	ce, err := p.toCloudEvent(ctx, event)
	if err != nil {
		return err
	}
	return p.producer.PublishEvent(ctx, p.topic, ce)
}

// PublishAll publishes the events as one batch, keeping their order
func (p *EventPublisher) PublishAll(ctx context.Context, events []domain.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	batch := make([]*cloudevents.WMSCloudEvent, 0, len(events))
	for _, event := range events {
		ce, err := p.toCloudEvent(ctx, event)
		if err != nil {
			p.logger.WithContext(ctx).WithError(err).Warn("Skipping unmapped domain event", "eventType", event.EventType())
			continue
		}
		batch = append(batch, ce)
	}
	if len(batch) == 0 {
		return nil
	}
	return p.producer.PublishBatch(ctx, p.topic, batch)
}

func (p *EventPublisher) toCloudEvent(ctx context.Context, event domain.DomainEvent) (*cloudevents.WMSCloudEvent, error) {
	var subject string
	switch e := event.(type) {
	case *domain.ItemAddedEvent:
		subject = "item/" + e.ItemID
	case *domain.ItemPackedEvent:
		subject = "item/" + e.ItemID
	case *domain.ItemShippedEvent:
		subject = "item/" + e.ItemID
	case *domain.ItemDeletedEvent:
		subject = "item/" + e.ItemID
	case *domain.PalletRegisteredEvent:
		subject = "pallet/" + e.PalletID
	case *domain.PalletShippedEvent:
		subject = "pallet/" + e.PalletID
	case *domain.PalletDeletedEvent:
		subject = "pallet/" + e.PalletID
	case *domain.AllocationCompletedEvent:
		subject = "allocation/" + e.RunID
	default:
		return nil, fmt.Errorf("unsupported domain event %T", event)
	}
	return p.eventFactory.CreateEvent(ctx, event.EventType(), subject, event), nil
}

var _ domain.EventPublisher = (*EventPublisher)(nil)
