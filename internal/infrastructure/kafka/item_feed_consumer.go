package kafka

import (
	"context"

	"github.com/wms-platform/pallet-service/internal/application"
	"github.com/wms-platform/pallet-service/pkg/cloudevents"
	"github.com/wms-platform/pallet-service/pkg/contracts/asyncapi"
	pkgkafka "github.com/wms-platform/pallet-service/pkg/kafka"
	"github.com/wms-platform/pallet-service/pkg/logging"
)

// Subscriber registers event handlers on a topic
type Subscriber interface {
	Subscribe(topic string, eventType string, handler pkgkafka.EventHandler)
}

// ItemAdder adds items to the catalog
type ItemAdder interface {
	AddItem(ctx context.Context, cmd application.AddItemCommand) (*application.ItemDTO, error)
}

// ItemFeedConsumer turns item-requested events into catalog items.
// Payloads that fail the schema or the catalog's validation are logged and
// dropped so the offset still advances.
type ItemFeedConsumer struct {
	service   ItemAdder
	validator *asyncapi.EventValidator
	logger    *logging.Logger
}

// NewItemFeedConsumer creates the consumer
func NewItemFeedConsumer(service ItemAdder, validator *asyncapi.EventValidator, logger *logging.Logger) *ItemFeedConsumer {
	return &ItemFeedConsumer{
		service:   service,
		validator: validator,
		logger:    logger.WithComponent("item-feed"),
	}
}

// Register subscribes the consumer to the item request topic
func (c *ItemFeedConsumer) Register(subscriber Subscriber) {
	subscriber.Subscribe(pkgkafka.Topics.PalletItemRequests, cloudevents.PalletItemRequested, c.Handle)
}

// Handle processes one item-requested event
func (c *ItemFeedConsumer) Handle(ctx context.Context, event *cloudevents.WMSCloudEvent) error {
	log := c.logger.WithContext(ctx).WithFields(map[string]any{
		"eventId":   event.ID,
		"eventType": event.Type,
	})

	if c.validator != nil {
		if err := c.validator.ValidateData(event.Type, event.Data); err != nil {
			log.WithError(err).Warn("Dropping item request that does not match its schema")
			return nil
		}
	}

	var data cloudevents.ItemRequestedData
	if err := event.DecodeData(&data); err != nil {
		log.WithError(err).Warn("Dropping undecodable item request")
		return nil
	}

	item, err := c.service.AddItem(ctx, application.AddItemCommand{
		Name:       data.Name,
		SKU:        data.SKU,
		Category:   data.Category,
		Quantity:   data.Quantity,
		UnitWeight: data.UnitWeight,
		Dimensions: application.DimensionsInput{
			Length: data.Length,
			Width:  data.Width,
			Height: data.Height,
		},
		Priority: data.Priority,
		Units: application.UnitsInput{
			Length: data.LengthUnit,
			Weight: data.WeightUnit,
		},
	})
	if err != nil {
		log.WithError(err).Warn("Item request rejected", "sku", data.SKU, "requestId", data.RequestID)
		return nil
	}

	c.logger.Event(ctx, "item.requested", map[string]any{
		"itemId":    item.ItemID,
		"sku":       item.SKU,
		"requestId": data.RequestID,
	})
	return nil
}
