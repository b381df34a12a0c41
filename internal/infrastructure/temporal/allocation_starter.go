package temporal

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.temporal.io/sdk/client"

	"github.com/wms-platform/pallet-service/internal/application"
	"github.com/wms-platform/pallet-service/internal/workflows"
	"github.com/wms-platform/pallet-service/pkg/logging"
	"github.com/wms-platform/pallet-service/pkg/metrics"
	pkgtemporal "github.com/wms-platform/pallet-service/pkg/temporal"
)

// WorkflowClient starts workflows by name
type WorkflowClient interface {
	StartWorkflow(ctx context.Context, workflowID, taskQueue, workflowName string, args ...interface{}) (client.WorkflowRun, error)
}

// AllocationStarter starts the pallet allocation workflow
type AllocationStarter struct {
	client  WorkflowClient
	metrics *metrics.Metrics
	logger  *logging.Logger
}

// NewAllocationStarter creates a starter on the given client. m may be nil.
func NewAllocationStarter(c WorkflowClient, m *metrics.Metrics, logger *logging.Logger) *AllocationStarter {
	return &AllocationStarter{
		client:  c,
		metrics: m,
		logger:  logger.WithComponent("allocation-starter"),
	}
}

// StartAllocationWorkflow starts one workflow run with a fresh id
func (s *AllocationStarter) StartAllocationWorkflow(ctx context.Context, cmd application.StartAllocationWorkflowCommand) (*application.WorkflowExecutionDTO, error) {
	workflowID := "pallet-allocation-" + uuid.New().String()
	input := workflows.PalletAllocationInput{
		MaxRounds:       cmd.MaxRounds,
		RetryInterval:   time.Duration(cmd.RetryIntervalSeconds) * time.Second,
		ShipFullPallets: cmd.ShipFullPallets,
	}

	run, err := s.client.StartWorkflow(ctx, workflowID,
		pkgtemporal.TaskQueues.PalletAllocation,
		pkgtemporal.WorkflowNames.PalletAllocation,
		input,
	)
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("Failed to start allocation workflow", "workflowId", workflowID)
		return nil, fmt.Errorf("failed to start allocation workflow: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordWorkflowStarted(pkgtemporal.WorkflowNames.PalletAllocation)
	}
	s.logger.WithContext(ctx).Info("Started allocation workflow", "workflowId", run.GetID(), "runId", run.GetRunID())

	return &application.WorkflowExecutionDTO{
		WorkflowID: run.GetID(),
		RunID:      run.GetRunID(),
	}, nil
}
