package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service collectors. Each instance owns its registry,
// so tests can build as many as they like.
type Metrics struct {
	serviceName string
	namespace   string
	registry    *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Kafka metrics
	KafkaEventsPublished *prometheus.CounterVec
	KafkaEventsConsumed  *prometheus.CounterVec
	KafkaPublishDuration *prometheus.HistogramVec

	// MongoDB metrics
	MongoDBOperations        *prometheus.CounterVec
	MongoDBOperationDuration *prometheus.HistogramVec

	// Temporal metrics
	WorkflowsStarted *prometheus.CounterVec

	// Circuit breaker metrics
	CircuitBreakerState *prometheus.GaugeVec
	CircuitBreakerTrips *prometheus.CounterVec

	pallet
}

// Config holds metrics configuration
type Config struct {
	ServiceName string
	Namespace   string
}

// DefaultConfig exports under the wms namespace
func DefaultConfig(serviceName string) *Config {
	return &Config{
		ServiceName: serviceName,
		Namespace:   "wms",
	}
}

// New creates and registers every collector on a fresh registry
func New(config *Config) *Metrics {
	m := &Metrics{
		serviceName: config.ServiceName,
		namespace:   config.Namespace,
		registry:    prometheus.NewRegistry(),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m.HTTPRequestsTotal = m.counterVec("http_requests_total", "Total number of HTTP requests", "method", "path", "status")
	m.HTTPRequestDuration = m.histogramVec("http_request_duration_seconds", "HTTP request duration in seconds",
		[]float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5}, "method", "path")
	m.HTTPRequestsInFlight = m.gauge("http_requests_in_flight", "Number of HTTP requests currently being processed")

	m.KafkaEventsPublished = m.counterVec("kafka_events_published_total", "Total number of Kafka events published", "topic", "event_type", "status")
	m.KafkaEventsConsumed = m.counterVec("kafka_events_consumed_total", "Total number of Kafka events consumed", "topic", "event_type", "status")
	m.KafkaPublishDuration = m.histogramVec("kafka_publish_duration_seconds", "Kafka publish duration in seconds",
		[]float64{.001, .005, .01, .025, .05, .1, .25, .5, 1}, "topic")

	m.MongoDBOperations = m.counterVec("mongodb_operations_total", "Total number of MongoDB operations", "collection", "operation", "status")
	m.MongoDBOperationDuration = m.histogramVec("mongodb_operation_duration_seconds", "MongoDB operation duration in seconds",
		[]float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5}, "collection", "operation")

	m.WorkflowsStarted = m.counterVec("temporal_workflows_started_total", "Temporal workflows started by this service", "workflow_type")

	m.CircuitBreakerState = m.gaugeVec("circuit_breaker_state", "Circuit breaker state (0=closed, 1=half-open, 2=open)", "name")
	m.CircuitBreakerTrips = m.counterVec("circuit_breaker_trips_total", "Total number of circuit breaker trips", "name")

	m.registerPallet()
	return m
}

// Collector constructors. Every series carries a service label.

func (m *Metrics) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	c := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: m.namespace, Name: name, Help: help},
		append([]string{"service"}, labels...))
	m.registry.MustRegister(c)
	return c
}

func (m *Metrics) histogramVec(name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
	h := prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: m.namespace, Name: name, Help: help, Buckets: buckets},
		append([]string{"service"}, labels...))
	m.registry.MustRegister(h)
	return h
}

func (m *Metrics) gaugeVec(name, help string, labels ...string) *prometheus.GaugeVec {
	g := prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: m.namespace, Name: name, Help: help},
		append([]string{"service"}, labels...))
	m.registry.MustRegister(g)
	return g
}

func (m *Metrics) gauge(name, help string) prometheus.Gauge {
	g := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Name:        name,
		Help:        help,
		ConstLabels: prometheus.Labels{"service": m.serviceName},
	})
	m.registry.MustRegister(g)
	return g
}

// Handler serves the registry in the Prometheus/OpenMetrics text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// Registry returns the prometheus registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func statusLabel(success bool) string {
	if success {
		return "success"
	}
	return "error"
}

// RecordHTTPRequest records an HTTP request against its route template
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(m.serviceName, method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(m.serviceName, method, path).Observe(duration.Seconds())
}

// IncrementHTTPRequestsInFlight increments in-flight requests
func (m *Metrics) IncrementHTTPRequestsInFlight() {
	m.HTTPRequestsInFlight.Inc()
}

// DecrementHTTPRequestsInFlight decrements in-flight requests
func (m *Metrics) DecrementHTTPRequestsInFlight() {
	m.HTTPRequestsInFlight.Dec()
}

// RecordKafkaPublish records a Kafka publish
func (m *Metrics) RecordKafkaPublish(topic, eventType string, success bool, duration time.Duration) {
	m.KafkaEventsPublished.WithLabelValues(m.serviceName, topic, eventType, statusLabel(success)).Inc()
	m.KafkaPublishDuration.WithLabelValues(m.serviceName, topic).Observe(duration.Seconds())
}

// RecordKafkaConsume records a handled item feed message
func (m *Metrics) RecordKafkaConsume(topic, eventType string, success bool) {
	m.KafkaEventsConsumed.WithLabelValues(m.serviceName, topic, eventType, statusLabel(success)).Inc()
}

// RecordMongoDBOperation records a MongoDB operation
func (m *Metrics) RecordMongoDBOperation(collection, operation string, success bool, duration time.Duration) {
	m.MongoDBOperations.WithLabelValues(m.serviceName, collection, operation, statusLabel(success)).Inc()
	m.MongoDBOperationDuration.WithLabelValues(m.serviceName, collection, operation).Observe(duration.Seconds())
}

// RecordWorkflowStarted records a workflow start
func (m *Metrics) RecordWorkflowStarted(workflowType string) {
	m.WorkflowsStarted.WithLabelValues(m.serviceName, workflowType).Inc()
}

// SetCircuitBreakerState sets the circuit breaker state gauge
func (m *Metrics) SetCircuitBreakerState(name string, state int) {
	m.CircuitBreakerState.WithLabelValues(m.serviceName, name).Set(float64(state))
}

// RecordCircuitBreakerTrip records a breaker opening
func (m *Metrics) RecordCircuitBreakerTrip(name string) {
	m.CircuitBreakerTrips.WithLabelValues(m.serviceName, name).Inc()
}
