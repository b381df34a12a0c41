package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/wms-platform/pallet-service/internal/api"
	"github.com/wms-platform/pallet-service/internal/api/handlers"
	"github.com/wms-platform/pallet-service/internal/application"
	"github.com/wms-platform/pallet-service/internal/domain"
	kafkaAdapter "github.com/wms-platform/pallet-service/internal/infrastructure/kafka"
	mongoRepo "github.com/wms-platform/pallet-service/internal/infrastructure/mongodb"
	"github.com/wms-platform/pallet-service/internal/infrastructure/seed"
	temporalAdapter "github.com/wms-platform/pallet-service/internal/infrastructure/temporal"
	"github.com/wms-platform/pallet-service/pkg/contracts/asyncapi"
	"github.com/wms-platform/pallet-service/pkg/contracts/openapi"
	"github.com/wms-platform/pallet-service/pkg/kafka"
	"github.com/wms-platform/pallet-service/pkg/logging"
	"github.com/wms-platform/pallet-service/pkg/metrics"
	"github.com/wms-platform/pallet-service/pkg/middleware"
	"github.com/wms-platform/pallet-service/pkg/mongodb"
	"github.com/wms-platform/pallet-service/pkg/temporal"
	"github.com/wms-platform/pallet-service/pkg/tracing"
)

const serviceName = "pallet-service"

func main() {
	// Setup enhanced logger
	logConfig := logging.DefaultConfig(serviceName)
	logConfig.Level = logging.LogLevel(getEnv("LOG_LEVEL", "info"))
	logger := logging.New(logConfig)
	logger.SetDefault()

	logger.Info("Starting pallet-service API")

	config := loadConfig()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize OpenTelemetry tracing
	tracingConfig := tracing.DefaultConfig(serviceName)
	tracingConfig.OTLPEndpoint = config.OTLPEndpoint
	tracingConfig.Environment = config.Environment
	tracingConfig.Enabled = config.TracingEnabled

	tracerProvider, err := tracing.Initialize(ctx, tracingConfig)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize tracing")
	} else if tracerProvider != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
				logger.WithError(err).Error("Failed to shutdown tracer")
			}
		}()
		logger.Info("Tracing initialized", "endpoint", tracingConfig.OTLPEndpoint)
	}

	m := metrics.New(metrics.DefaultConfig(serviceName))

	// Persistence
	var (
		repo      domain.StateRepository
		readiness = func() error { return nil }
	)
	if config.PersistenceEnabled {
		mongoClient, err := mongodb.NewClient(ctx, config.MongoDB)
		if err != nil {
			logger.WithError(err).Error("Failed to connect to MongoDB")
			os.Exit(1)
		}
		instrumentedMongo := mongodb.NewInstrumentedClient(mongoClient, m, logger)
		defer instrumentedMongo.Close(context.Background())

		stateRepo := mongoRepo.NewStateRepository(instrumentedMongo)
		if err := stateRepo.EnsureIndexes(ctx); err != nil {
			logger.WithError(err).Warn("Failed to create indexes")
		}
		repo = stateRepo
		readiness = func() error { return instrumentedMongo.HealthCheck(ctx) }
		logger.Info("Connected to MongoDB", "database", config.MongoDB.Database)
	}

	// Events out
	var publisher domain.EventPublisher
	if config.KafkaEnabled {
		producer := kafka.NewProductionProducer(config.Kafka, m, logger)
		defer producer.Close()
		publisher = kafkaAdapter.NewEventPublisher(producer, logger)
		logger.Info("Kafka producer initialized", "brokers", config.Kafka.Brokers)
	}

	palletService := application.NewPalletApplicationService(config.Service, repo, publisher, m, logger)

	restored, err := palletService.Restore(ctx)
	if err != nil {
		logger.WithError(err).Error("Failed to restore persisted state")
		os.Exit(1)
	}
	if !restored && config.SeedFile != "" {
		doc, err := seed.Load(config.SeedFile)
		if err != nil {
			logger.WithError(err).Error("Failed to load seed file", "path", config.SeedFile)
			os.Exit(1)
		}
		if err := seed.Apply(ctx, palletService, doc, logger); err != nil {
			logger.WithError(err).Error("Failed to apply seed file", "path", config.SeedFile)
			os.Exit(1)
		}
	}

	// Inbound item feed
	if config.KafkaEnabled {
		eventValidator, err := asyncapi.NewEventValidatorFromBytes(api.AsyncAPISpec)
		if err != nil {
			logger.WithError(err).Error("Failed to load event contracts")
			os.Exit(1)
		}
		consumer := kafka.NewProductionConsumer(config.Kafka, m, logger)
		defer consumer.Close()
		kafkaAdapter.NewItemFeedConsumer(palletService, eventValidator, logger).Register(consumer)
		go func() {
			if err := consumer.Start(ctx); err != nil && err != context.Canceled {
				logger.WithError(err).Error("Item feed consumer stopped")
			}
		}()
		logger.Info("Item feed consumer started", "topic", kafka.Topics.PalletItemRequests)
	}

	// Orchestration
	var starter handlers.WorkflowStarter
	if config.TemporalEnabled {
		config.Temporal.Logger = logger.WithComponent("temporal").Logger
		temporalClient, err := temporal.NewClient(ctx, config.Temporal)
		if err != nil {
			logger.WithError(err).Warn("Temporal unavailable, workflow starts disabled")
		} else {
			defer temporalClient.Close()
			starter = temporalAdapter.NewAllocationStarter(temporalClient, m, logger)
			logger.Info("Connected to Temporal", "host", config.Temporal.HostPort)
		}
	}

	var contractValidator *openapi.Validator
	if config.OpenAPIValidation {
		contractValidator, err = openapi.NewValidatorFromBytes(api.OpenAPISpec)
		if err != nil {
			logger.WithError(err).Error("Failed to load API contract")
			os.Exit(1)
		}
	}

	router := setupRouter(config, logger, m, handlers.NewHandlers(palletService, starter, logger), contractValidator, readiness)

	srv := &http.Server{
		Addr:         config.ServerAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server error", "error", err)
			stop()
		}
	}()
	logger.Info("Server started", "addr", config.ServerAddr)

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server stopped")
}

// setupRouter builds the gin engine with the middleware chain and all routes
func setupRouter(
	config *Config,
	logger *logging.Logger,
	m *metrics.Metrics,
	h *handlers.Handlers,
	contractValidator *openapi.Validator,
	readiness func() error,
) *gin.Engine {
	router := gin.New()

	middleware.Setup(router, middleware.DefaultConfig(serviceName, logger))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = config.CORSAllowedOrigins
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "X-Request-ID", "X-Correlation-ID")
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "X-Correlation-ID"}
	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	}
	router.Use(cors.New(corsConfig))

	router.Use(middleware.MetricsMiddleware(m))
	router.Use(middleware.SimpleTracingMiddleware(serviceName))

	router.NoRoute(middleware.NoRoute())
	router.NoMethod(middleware.NoMethod())
	router.HandleMethodNotAllowed = true

	router.GET("/health", middleware.HealthCheck(serviceName))
	router.GET("/ready", middleware.ReadinessCheck(serviceName, readiness))
	router.GET("/metrics", middleware.MetricsEndpoint(m))

	v1 := router.Group("/api/v1")
	if contractValidator != nil {
		v1.Use(middleware.OpenAPIValidation(contractValidator))
	}
	h.RegisterRoutes(v1)

	return router
}

// Config holds application configuration
type Config struct {
	ServerAddr         string
	Environment        string
	OTLPEndpoint       string
	TracingEnabled     bool
	PersistenceEnabled bool
	KafkaEnabled       bool
	TemporalEnabled    bool
	OpenAPIValidation  bool
	SeedFile           string
	CORSAllowedOrigins []string
	MongoDB            *mongodb.Config
	Kafka              *kafka.Config
	Temporal           *temporal.Config
	Service            application.Config
}

func loadConfig() *Config {
	mongoConfig := mongodb.DefaultConfig()
	mongoConfig.URI = getEnv("MONGODB_URI", mongoConfig.URI)
	mongoConfig.Database = getEnv("MONGODB_DATABASE", "pallet_db")

	kafkaConfig := kafka.DefaultConfig()
	kafkaConfig.Brokers = splitList(getEnv("KAFKA_BROKERS", "localhost:9092"))
	kafkaConfig.ConsumerGroup = serviceName
	kafkaConfig.ClientID = serviceName

	temporalConfig := temporal.DefaultConfig()
	temporalConfig.HostPort = getEnv("TEMPORAL_HOST", temporalConfig.HostPort)
	temporalConfig.Namespace = getEnv("TEMPORAL_NAMESPACE", temporalConfig.Namespace)

	serviceConfig := application.DefaultConfig()
	display, err := domain.ParseUnitSystem(
		getEnv("DISPLAY_LENGTH_UNIT", string(domain.LengthUnitInch)),
		getEnv("DISPLAY_WEIGHT_UNIT", string(domain.WeightUnitPound)),
		domain.Canonical,
	)
	if err == nil {
		serviceConfig.Display = display
	}
	serviceConfig.DefaultCapacity = domain.Capacity{
		Weight: getEnvFloat("DEFAULT_PALLET_MAX_WEIGHT", serviceConfig.DefaultCapacity.Weight),
		Height: getEnvFloat("DEFAULT_PALLET_MAX_HEIGHT", serviceConfig.DefaultCapacity.Height),
	}

	return &Config{
		ServerAddr:         getEnv("SERVER_ADDR", ":8010"),
		Environment:        getEnv("ENVIRONMENT", "development"),
		OTLPEndpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		TracingEnabled:     getEnv("TRACING_ENABLED", "true") == "true",
		PersistenceEnabled: getEnv("PERSISTENCE_ENABLED", "true") == "true",
		KafkaEnabled:       getEnv("KAFKA_ENABLED", "true") == "true",
		TemporalEnabled:    getEnv("TEMPORAL_ENABLED", "true") == "true",
		OpenAPIValidation:  getEnv("OPENAPI_VALIDATION", "false") == "true",
		SeedFile:           getEnv("SEED_FILE", ""),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "")),
		MongoDB:            mongoConfig,
		Kafka:              kafkaConfig,
		Temporal:           temporalConfig,
		Service:            serviceConfig,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
