package temporal

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/client"

	"github.com/wms-platform/pallet-service/internal/application"
	"github.com/wms-platform/pallet-service/internal/workflows"
	"github.com/wms-platform/pallet-service/pkg/logging"
	"github.com/wms-platform/pallet-service/pkg/metrics"
	pkgtemporal "github.com/wms-platform/pallet-service/pkg/temporal"
)

type fakeRun struct {
	client.WorkflowRun
	id string
}

func (r fakeRun) GetID() string    { return r.id }
func (r fakeRun) GetRunID() string { return "run-" + r.id }

type recordingClient struct {
	workflowID   string
	taskQueue    string
	workflowName string
	args         []interface{}
	err          error
}

func (c *recordingClient) StartWorkflow(ctx context.Context, workflowID, taskQueue, workflowName string, args ...interface{}) (client.WorkflowRun, error) {
	c.workflowID, c.taskQueue, c.workflowName, c.args = workflowID, taskQueue, workflowName, args
	if c.err != nil {
		return nil, c.err
	}
	return fakeRun{id: workflowID}, nil
}

func TestStartAllocationWorkflow(t *testing.T) {
	c := &recordingClient{}
	starter := NewAllocationStarter(c, nil, logging.NewNop())

	execution, err := starter.StartAllocationWorkflow(context.Background(), application.StartAllocationWorkflowCommand{
		MaxRounds:            4,
		RetryIntervalSeconds: 30,
		ShipFullPallets:      true,
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(c.workflowID, "pallet-allocation-"))
	assert.Equal(t, c.workflowID, execution.WorkflowID)
	assert.Equal(t, "run-"+c.workflowID, execution.RunID)
	assert.Equal(t, pkgtemporal.TaskQueues.PalletAllocation, c.taskQueue)
	assert.Equal(t, pkgtemporal.WorkflowNames.PalletAllocation, c.workflowName)

	require.Len(t, c.args, 1)
	assert.Equal(t, workflows.PalletAllocationInput{
		MaxRounds:       4,
		RetryInterval:   30 * time.Second,
		ShipFullPallets: true,
	}, c.args[0])
}

func TestStartAllocationWorkflow_RecordsMetric(t *testing.T) {
	m := metrics.New(metrics.DefaultConfig("pallet-service-test"))
	starter := NewAllocationStarter(&recordingClient{}, m, logging.NewNop())

	_, err := starter.StartAllocationWorkflow(context.Background(), application.StartAllocationWorkflowCommand{})
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(
		m.WorkflowsStarted.WithLabelValues("pallet-service-test", pkgtemporal.WorkflowNames.PalletAllocation)))
}

func TestStartAllocationWorkflow_FreshIDs(t *testing.T) {
	c := &recordingClient{}
	starter := NewAllocationStarter(c, nil, logging.NewNop())

	first, err := starter.StartAllocationWorkflow(context.Background(), application.StartAllocationWorkflowCommand{})
	require.NoError(t, err)
	second, err := starter.StartAllocationWorkflow(context.Background(), application.StartAllocationWorkflowCommand{})
	require.NoError(t, err)
	assert.NotEqual(t, first.WorkflowID, second.WorkflowID)
}

func TestStartAllocationWorkflow_Error(t *testing.T) {
	starter := NewAllocationStarter(&recordingClient{err: assert.AnError}, nil, logging.NewNop())

	_, err := starter.StartAllocationWorkflow(context.Background(), application.StartAllocationWorkflowCommand{})
	assert.ErrorIs(t, err, assert.AnError)
}
