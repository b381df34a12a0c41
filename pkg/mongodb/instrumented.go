package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wms-platform/pallet-service/pkg/logging"
	"github.com/wms-platform/pallet-service/pkg/metrics"
	"github.com/wms-platform/pallet-service/pkg/tracing"
)

// InstrumentedClient hands out collections whose calls are measured,
// traced and logged
type InstrumentedClient struct {
	client  *Client
	metrics *metrics.Metrics
	logger  *logging.Logger
	tracer  trace.Tracer
}

// NewInstrumentedClient wraps client. m and logger may be nil.
func NewInstrumentedClient(client *Client, m *metrics.Metrics, logger *logging.Logger) *InstrumentedClient {
	return &InstrumentedClient{
		client:  client,
		metrics: m,
		logger:  logger,
		tracer:  tracing.Tracer("mongodb"),
	}
}

// Collection returns an instrumented collection
func (c *InstrumentedClient) Collection(name string) *InstrumentedCollection {
	return &InstrumentedCollection{
		collection: c.client.Collection(name),
		name:       name,
		owner:      c,
	}
}

// Close disconnects the client
func (c *InstrumentedClient) Close(ctx context.Context) error {
	return c.client.Close(ctx)
}

// HealthCheck pings the primary inside a span
func (c *InstrumentedClient) HealthCheck(ctx context.Context) error {
	ctx, span := c.tracer.Start(ctx, "mongodb.ping",
		trace.WithAttributes(tracing.DatabaseSpanAttributes(c.client.config.Database, "ping", "")...))
	defer span.End()

	err := c.client.HealthCheck(ctx)
	endSpan(span, err)
	return err
}

// InstrumentedCollection exposes the collection calls the state repository makes
type InstrumentedCollection struct {
	collection *mongo.Collection
	name       string
	owner      *InstrumentedClient
}

// observe wraps one driver call in a client span, then records its latency
// and outcome
func observe[T any](ctx context.Context, c *InstrumentedCollection, operation string, call func(context.Context, trace.Span) (T, error)) (T, error) {
	start := time.Now()
	ctx, span := c.owner.tracer.Start(ctx, "mongodb."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(tracing.DatabaseSpanAttributes(c.owner.client.config.Database, operation, c.name)...),
	)
	defer span.End()

	result, err := call(ctx, span)

	duration := time.Since(start)
	if c.owner.metrics != nil {
		c.owner.metrics.RecordMongoDBOperation(c.name, operation, err == nil, duration)
	}
	if c.owner.logger != nil {
		c.owner.logger.DatabaseQuery(ctx, c.name, operation, duration, err == nil)
	}
	endSpan(span, err)
	return result, err
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// Find decodes every matching document into results
func (c *InstrumentedCollection) Find(ctx context.Context, filter interface{}, results interface{}, opts ...*options.FindOptions) error {
	_, err := observe(ctx, c, "find", func(ctx context.Context, _ trace.Span) (struct{}, error) {
		cursor, err := c.collection.Find(ctx, filter, opts...)
		if err != nil {
			return struct{}{}, err
		}
		return struct{}{}, cursor.All(ctx, results)
	})
	return err
}

// ReplaceOne replaces, or with SetUpsert inserts, a single document
func (c *InstrumentedCollection) ReplaceOne(ctx context.Context, filter interface{}, replacement interface{}, opts ...*options.ReplaceOptions) (*mongo.UpdateResult, error) {
	return observe(ctx, c, "replaceOne", func(ctx context.Context, _ trace.Span) (*mongo.UpdateResult, error) {
		return c.collection.ReplaceOne(ctx, filter, replacement, opts...)
	})
}

// DeleteOne deletes a single document
func (c *InstrumentedCollection) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	return observe(ctx, c, "deleteOne", func(ctx context.Context, span trace.Span) (*mongo.DeleteResult, error) {
		result, err := c.collection.DeleteOne(ctx, filter, opts...)
		if err == nil {
			span.SetAttributes(attribute.Int64("db.rows_affected", result.DeletedCount))
		}
		return result, err
	})
}

// BulkWrite executes several write models in one round trip
func (c *InstrumentedCollection) BulkWrite(ctx context.Context, models []mongo.WriteModel, opts ...*options.BulkWriteOptions) (*mongo.BulkWriteResult, error) {
	return observe(ctx, c, "bulkWrite", func(ctx context.Context, span trace.Span) (*mongo.BulkWriteResult, error) {
		span.SetAttributes(attribute.Int("db.batch_size", len(models)))
		return c.collection.BulkWrite(ctx, models, opts...)
	})
}

// CreateIndexes creates the given indexes
func (c *InstrumentedCollection) CreateIndexes(ctx context.Context, models []mongo.IndexModel) ([]string, error) {
	return observe(ctx, c, "createIndexes", func(ctx context.Context, _ trace.Span) ([]string, error) {
		return c.collection.Indexes().CreateMany(ctx, models)
	})
}

// Name returns the collection name
func (c *InstrumentedCollection) Name() string {
	return c.name
}
