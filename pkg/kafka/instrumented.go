package kafka

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wms-platform/pallet-service/pkg/cloudevents"
	"github.com/wms-platform/pallet-service/pkg/logging"
	"github.com/wms-platform/pallet-service/pkg/metrics"
	"github.com/wms-platform/pallet-service/pkg/tracing"
)

// instruments is the metrics, logging and tracing shared by both directions.
// metrics and logger may be nil.
type instruments struct {
	metrics *metrics.Metrics
	logger  *logging.Logger
	tracer  trace.Tracer
}

func (in instruments) span(ctx context.Context, name string, kind trace.SpanKind, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return in.tracer.Start(ctx, name, trace.WithSpanKind(kind), trace.WithAttributes(attrs...))
}

func finish(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// InstrumentedProducer measures, logs and traces every publish
type InstrumentedProducer struct {
	producer EventProducer
	instruments
}

// NewInstrumentedProducer wraps producer
func NewInstrumentedProducer(producer EventProducer, m *metrics.Metrics, logger *logging.Logger) *InstrumentedProducer {
	return &InstrumentedProducer{
		producer:    producer,
		instruments: instruments{metrics: m, logger: logger, tracer: tracing.Tracer("kafka-producer")},
	}
}

func (p *InstrumentedProducer) record(ctx context.Context, topic, eventType string, err error, duration time.Duration) {
	if p.metrics != nil {
		p.metrics.RecordKafkaPublish(topic, eventType, err == nil, duration)
	}
	if p.logger != nil {
		p.logger.KafkaPublish(ctx, topic, eventType, err == nil, duration)
	}
}

// PublishEvent publishes one event inside a producer span
func (p *InstrumentedProducer) PublishEvent(ctx context.Context, topic string, event *cloudevents.WMSCloudEvent) error {
	start := time.Now()
	ctx, span := p.span(ctx, "kafka.publish", trace.SpanKindProducer,
		append(tracing.MessagingSpanAttributes(topic, "publish"),
			attribute.String("messaging.kafka.event_type", event.Type),
			attribute.String("messaging.message_id", event.ID),
		)...)
	defer span.End()

	err := p.producer.PublishEvent(ctx, topic, event)
	p.record(ctx, topic, event.Type, err, time.Since(start))
	finish(span, err)
	return err
}

// PublishBatch publishes events in one write and records each event's type
func (p *InstrumentedProducer) PublishBatch(ctx context.Context, topic string, events []*cloudevents.WMSCloudEvent) error {
	start := time.Now()
	ctx, span := p.span(ctx, "kafka.publish.batch", trace.SpanKindProducer,
		append(tracing.MessagingSpanAttributes(topic, "publish"),
			attribute.Int("messaging.batch.message_count", len(events)),
		)...)
	defer span.End()

	err := p.producer.PublishBatch(ctx, topic, events)
	duration := time.Since(start)
	for _, event := range events {
		p.record(ctx, topic, event.Type, err, duration)
	}
	finish(span, err)
	return err
}

// Close closes the underlying producer
func (p *InstrumentedProducer) Close() error {
	return p.producer.Close()
}

// InstrumentedConsumer measures, logs and traces every handler call
type InstrumentedConsumer struct {
	consumer *Consumer
	instruments
}

// NewInstrumentedConsumer wraps consumer
func NewInstrumentedConsumer(consumer *Consumer, m *metrics.Metrics, logger *logging.Logger) *InstrumentedConsumer {
	return &InstrumentedConsumer{
		consumer:    consumer,
		instruments: instruments{metrics: m, logger: logger, tracer: tracing.Tracer("kafka-consumer")},
	}
}

// Subscribe registers handler for eventType on topic
func (c *InstrumentedConsumer) Subscribe(topic string, eventType string, handler EventHandler) {
	c.consumer.Subscribe(topic, eventType, func(ctx context.Context, event *cloudevents.WMSCloudEvent) error {
		start := time.Now()
		ctx, span := c.span(cloudevents.ContextWithTraceParent(ctx, event), "kafka.consume", trace.SpanKindConsumer,
			append(tracing.MessagingSpanAttributes(topic, "receive"),
				attribute.String("messaging.kafka.event_type", event.Type),
				attribute.String("messaging.message_id", event.ID),
				attribute.String("messaging.kafka.consumer_group", c.consumer.config.ConsumerGroup),
			)...)
		defer span.End()

		err := handler(ctx, event)
		if c.metrics != nil {
			c.metrics.RecordKafkaConsume(topic, event.Type, err == nil)
		}
		if c.logger != nil {
			c.logger.KafkaConsume(ctx, topic, event.Type, err == nil, time.Since(start))
		}
		finish(span, err)
		return err
	})
}

// Start consumes until ctx is cancelled
func (c *InstrumentedConsumer) Start(ctx context.Context) error {
	return c.consumer.Start(ctx)
}

// Close closes the underlying consumer
func (c *InstrumentedConsumer) Close() error {
	return c.consumer.Close()
}
