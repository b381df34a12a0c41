package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.temporal.io/sdk/workflow"

	"github.com/wms-platform/pallet-service/internal/activities"
	"github.com/wms-platform/pallet-service/internal/activities/clients"
	"github.com/wms-platform/pallet-service/internal/workflows"
	"github.com/wms-platform/pallet-service/pkg/logging"
	"github.com/wms-platform/pallet-service/pkg/temporal"
	"github.com/wms-platform/pallet-service/pkg/tracing"
)

const serviceName = "pallet-worker"

func main() {
	logConfig := logging.DefaultConfig(serviceName)
	logConfig.Level = logging.LogLevel(getEnv("LOG_LEVEL", "info"))
	logger := logging.New(logConfig)
	logger.SetDefault()

	logger.Info("Starting pallet allocation worker")

	config := loadConfig()
	ctx := context.Background()

	// Spans started here carry trace context to the pallet service
	tracingConfig := tracing.DefaultConfig(serviceName)
	tracingConfig.OTLPEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")
	tracingConfig.Environment = getEnv("ENVIRONMENT", "development")
	tracingConfig.Enabled = getEnv("TRACING_ENABLED", "true") == "true"
	tracerProvider, err := tracing.Initialize(ctx, tracingConfig)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize tracing")
	} else if tracerProvider != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = tracerProvider.Shutdown(shutdownCtx)
		}()
	}

	config.Temporal.Logger = logger.WithComponent("temporal").Logger
	temporalClient, err := temporal.NewClient(ctx, config.Temporal)
	if err != nil {
		logger.WithError(err).Error("Failed to create Temporal client")
		os.Exit(1)
	}
	defer temporalClient.Close()
	logger.Info("Connected to Temporal", "hostPort", config.Temporal.HostPort, "namespace", config.Temporal.Namespace)

	palletClient := clients.NewPalletServiceClient(&clients.Config{
		PalletServiceURL: config.PalletServiceURL,
	}, logger.Logger)
	allocationActivities := activities.NewAllocationActivities(palletClient, logger.Logger)

	w := temporalClient.NewWorker(temporal.DefaultWorkerOptions(temporal.TaskQueues.PalletAllocation))

	w.RegisterWorkflowWithOptions(workflows.PalletAllocationWorkflow, workflow.RegisterOptions{
		Name: temporal.WorkflowNames.PalletAllocation,
	})
	w.RegisterActivity(allocationActivities)
	logger.Info("Registered workflow and activities",
		"workflow", temporal.WorkflowNames.PalletAllocation,
		"activities", []string{"RunAllocation", "ShipFullPallets", "GetSummary"},
	)

	go func() {
		if err := w.Run(nil); err != nil {
			logger.Error("Worker failed", "error", err)
			os.Exit(1)
		}
	}()
	logger.Info("Worker started", "taskQueue", temporal.TaskQueues.PalletAllocation, "palletService", config.PalletServiceURL)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down worker...")

	w.Stop()
	logger.Info("Worker stopped")
}

// Config holds worker configuration
type Config struct {
	Temporal         *temporal.Config
	PalletServiceURL string
}

func loadConfig() *Config {
	return &Config{
		Temporal: &temporal.Config{
			HostPort:  getEnv("TEMPORAL_HOST", "localhost:7233"),
			Namespace: getEnv("TEMPORAL_NAMESPACE", "default"),
			Identity:  serviceName,
		},
		PalletServiceURL: getEnv("PALLET_SERVICE_URL", "http://localhost:8010"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
