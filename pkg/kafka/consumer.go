package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/segmentio/kafka-go"

	"github.com/wms-platform/pallet-service/pkg/cloudevents"
	"github.com/wms-platform/pallet-service/pkg/logging"
)

// EventHandler handles one CloudEvent. Returning an error leaves the message uncommitted.
type EventHandler func(ctx context.Context, event *cloudevents.WMSCloudEvent) error

// Consumer reads CloudEvents from Kafka topics and dispatches them by type
type Consumer struct {
	config   *Config
	logger   *logging.Logger
	handlers map[string]map[string]EventHandler // topic -> event type

	mu      sync.Mutex
	readers map[string]*kafka.Reader
}

// NewConsumer creates a consumer in config.ConsumerGroup
func NewConsumer(config *Config, logger *logging.Logger) *Consumer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Consumer{
		config:   config,
		logger:   logger.WithComponent("kafka-consumer"),
		handlers: make(map[string]map[string]EventHandler),
		readers:  make(map[string]*kafka.Reader),
	}
}

// Subscribe registers a handler for one event type on a topic. Call it
// before Start.
func (c *Consumer) Subscribe(topic string, eventType string, handler EventHandler) {
	if c.handlers[topic] == nil {
		c.handlers[topic] = make(map[string]EventHandler)
	}
	c.handlers[topic][eventType] = handler
}

func (c *Consumer) reader(topic string) *kafka.Reader {
	c.mu.Lock()
	defer c.mu.Unlock()

	if r, ok := c.readers[topic]; ok {
		return r
	}
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        c.config.Brokers,
		GroupID:        c.config.ConsumerGroup,
		Topic:          topic,
		MinBytes:       c.config.MinBytes,
		MaxBytes:       c.config.MaxBytes,
		MaxWait:        c.config.MaxWait,
		CommitInterval: c.config.CommitInterval,
	})
	c.readers[topic] = r
	return r
}

// Start consumes every subscribed topic until ctx is cancelled
func (c *Consumer) Start(ctx context.Context) error {
	var wg sync.WaitGroup
	for topic := range c.handlers {
		wg.Add(1)
		go func(topic string) {
			defer wg.Done()
			c.consume(ctx, topic)
		}(topic)
	}

	<-ctx.Done()
	wg.Wait()
	return ctx.Err()
}

func (c *Consumer) consume(ctx context.Context, topic string) {
	r := c.reader(topic)
	log := c.logger.WithFields(map[string]any{"topic": topic, "group": c.config.ConsumerGroup})
	log.Info("Consuming topic")

	for {
		msg, err := r.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("Stopped consuming topic")
				return
			}
			log.WithError(err).Error("Failed to fetch message")
			continue
		}

		event, err := ParseMessage(msg)
		if err != nil {
			// an unparseable message would block the partition forever
			log.WithError(err).Error("Dropping unparseable message", "offset", msg.Offset)
			c.commit(ctx, r, msg)
			continue
		}

		if err := c.dispatch(ctx, topic, event); err != nil {
			log.WithError(err).Error("Event handler failed", "eventType", event.Type, "eventId", event.ID)
			continue
		}
		c.commit(ctx, r, msg)
	}
}

func (c *Consumer) commit(ctx context.Context, r *kafka.Reader, msg kafka.Message) {
	if err := r.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
		c.logger.WithError(err).Error("Failed to commit message", "topic", msg.Topic, "offset", msg.Offset)
	}
}

func (c *Consumer) dispatch(ctx context.Context, topic string, event *cloudevents.WMSCloudEvent) error {
	if event.CorrelationID != "" {
		ctx = logging.ContextWithCorrelationID(ctx, event.CorrelationID)
	}

	handler, ok := c.handlers[topic][event.Type]
	if !ok {
		c.logger.WithContext(ctx).Warn("No handler for event type", "topic", topic, "eventType", event.Type)
		return nil
	}
	return handler(ctx, event)
}

// headerFallbacks lets ce- headers fill attributes the JSON body left empty
var headerFallbacks = map[string]func(*cloudevents.WMSCloudEvent) *string{
	"ce-type": func(e *cloudevents.WMSCloudEvent) *string { return &e.Type },
	"ce-" + cloudevents.ExtCorrelationID: func(e *cloudevents.WMSCloudEvent) *string { return &e.CorrelationID },
	"ce-" + cloudevents.ExtWorkflowID:    func(e *cloudevents.WMSCloudEvent) *string { return &e.WorkflowID },
	"ce-" + cloudevents.ExtTraceParent:   func(e *cloudevents.WMSCloudEvent) *string { return &e.TraceParent },
	"ce-" + cloudevents.ExtTraceState:    func(e *cloudevents.WMSCloudEvent) *string { return &e.TraceState },
}

// ParseMessage decodes a Kafka message into a CloudEvent
func ParseMessage(msg kafka.Message) (*cloudevents.WMSCloudEvent, error) {
	var event cloudevents.WMSCloudEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}

	for _, header := range msg.Headers {
		field, ok := headerFallbacks[header.Key]
		if !ok {
			continue
		}
		if target := field(&event); *target == "" {
			*target = string(header.Value)
		}
	}

	if event.Type == "" {
		return nil, fmt.Errorf("event %q has no type", event.ID)
	}
	return &event, nil
}

// Close closes all readers
func (c *Consumer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var firstErr error
	for topic, r := range c.readers {
		if err := r.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close reader for topic %s: %w", topic, err)
		}
	}
	return firstErr
}
