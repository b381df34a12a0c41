package cloudevents

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// EventFactory creates CloudEvents for one source
type EventFactory struct {
	source string
}

// NewEventFactory creates a new EventFactory for a specific source
func NewEventFactory(source string) *EventFactory {
	return &EventFactory{source: source}
}

// Source returns the factory's event source
func (f *EventFactory) Source() string {
	return f.source
}

// CreateEvent creates an event and stamps it with the trace context of ctx
func (f *EventFactory) CreateEvent(ctx context.Context, eventType, subject string, data interface{}) *WMSCloudEvent {
	event := &WMSCloudEvent{
		SpecVersion:     "1.0",
		Type:            eventType,
		Source:          f.source,
		Subject:         subject,
		ID:              uuid.New().String(),
		Time:            time.Now().UTC(),
		DataContentType: "application/json",
		Data:            data,
	}

	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	event.TraceParent = carrier.Get(ExtTraceParent)
	event.TraceState = carrier.Get(ExtTraceState)

	return event
}

// CreateEventWithCorrelation creates an event with correlation tracking
func (f *EventFactory) CreateEventWithCorrelation(ctx context.Context, eventType, subject string, data interface{}, correlationID, workflowID string) *WMSCloudEvent {
	event := f.CreateEvent(ctx, eventType, subject, data)
	event.CorrelationID = correlationID
	event.WorkflowID = workflowID
	return event
}

// ContextWithTraceParent restores the trace context carried by an event
func ContextWithTraceParent(ctx context.Context, event *WMSCloudEvent) context.Context {
	if event.TraceParent == "" {
		return ctx
	}
	carrier := propagation.MapCarrier{ExtTraceParent: event.TraceParent}
	if event.TraceState != "" {
		carrier[ExtTraceState] = event.TraceState
	}
	return otel.GetTextMapPropagator().Extract(ctx, carrier)
}
