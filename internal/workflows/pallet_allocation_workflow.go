package workflows

import (
	"time"

	"go.temporal.io/sdk/workflow"

	"github.com/wms-platform/pallet-service/internal/activities/clients"
	pkgtemporal "github.com/wms-platform/pallet-service/pkg/temporal"
)

// Defaults applied to zero input fields
const (
	DefaultMaxRounds     = 10
	DefaultRetryInterval = time.Minute
)

// ProgressQuery returns the workflow's PalletAllocationProgress
const ProgressQuery = "allocation-progress"

// PalletAllocationInput configures the allocation loop
type PalletAllocationInput struct {
	MaxRounds       int           `json:"maxRounds"`
	RetryInterval   time.Duration `json:"retryInterval"`
	ShipFullPallets bool          `json:"shipFullPallets"`
}

// PalletAllocationProgress is the live state exposed through ProgressQuery
type PalletAllocationProgress struct {
	Round       int    `json:"round"`
	PackedCount int    `json:"packedCount"`
	Pending     int    `json:"pending"`
	LastRunID   string `json:"lastRunId"`
	Stage       string `json:"stage"`
}

// PalletAllocationResult is what the workflow returns
type PalletAllocationResult struct {
	Rounds         int              `json:"rounds"`
	PackedCount    int              `json:"packedCount"`
	Unallocated    int              `json:"unallocated"`
	RunIDs         []string         `json:"runIds"`
	ShippedPallets []string         `json:"shippedPallets,omitempty"`
	Summary        *clients.Summary `json:"summary,omitempty"`
}

func allocationActivityOptions() workflow.ActivityOptions {
	return workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Minute,
		HeartbeatTimeout:    30 * time.Second,
		RetryPolicy:         pkgtemporal.DefaultRetryPolicy(),
	}
}

// PalletAllocationWorkflow repeats allocation passes until every pending item
// is placed or the rounds run out, waiting between passes for pallets to be
// registered. It can then ship every full pallet.
func PalletAllocationWorkflow(ctx workflow.Context, input PalletAllocationInput) (*PalletAllocationResult, error) {
	logger := workflow.GetLogger(ctx)

	if input.MaxRounds <= 0 {
		input.MaxRounds = DefaultMaxRounds
	}
	if input.RetryInterval <= 0 {
		input.RetryInterval = DefaultRetryInterval
	}

	progress := PalletAllocationProgress{Stage: "allocating"}
	if err := workflow.SetQueryHandler(ctx, ProgressQuery, func() (PalletAllocationProgress, error) {
		return progress, nil
	}); err != nil {
		return nil, err
	}

	ctx = workflow.WithActivityOptions(ctx, allocationActivityOptions())
	result := &PalletAllocationResult{}

	for round := 1; round <= input.MaxRounds; round++ {
		var run clients.AllocationResult
		if err := workflow.ExecuteActivity(ctx, "RunAllocation").Get(ctx, &run); err != nil {
			logger.Error("Allocation round failed", "round", round, "error", err)
			return nil, err
		}

		result.Rounds = round
		result.PackedCount += run.PackedCount
		result.Unallocated = run.UnallocatedCount
		result.RunIDs = append(result.RunIDs, run.RunID)

		progress.Round = round
		progress.PackedCount = result.PackedCount
		progress.Pending = run.UnallocatedCount
		progress.LastRunID = run.RunID

		logger.Info("Allocation round completed",
			"round", round,
			"packed", run.PackedCount,
			"pending", run.UnallocatedCount,
		)

		if run.UnallocatedCount == 0 || round == input.MaxRounds {
			break
		}

		progress.Stage = "waiting"
		if err := workflow.Sleep(ctx, input.RetryInterval); err != nil {
			return nil, err
		}
		progress.Stage = "allocating"
	}

	if input.ShipFullPallets {
		progress.Stage = "shipping"
		if err := workflow.ExecuteActivity(ctx, "ShipFullPallets").Get(ctx, &result.ShippedPallets); err != nil {
			logger.Error("Shipping full pallets failed", "error", err)
			return nil, err
		}
	}

	progress.Stage = "summarizing"
	var summary clients.Summary
	if err := workflow.ExecuteActivity(ctx, "GetSummary").Get(ctx, &summary); err != nil {
		// the allocation itself succeeded
		logger.Warn("Summary unavailable", "error", err)
	} else {
		result.Summary = &summary
	}

	progress.Stage = "completed"
	logger.Info("Pallet allocation workflow completed",
		"rounds", result.Rounds,
		"packed", result.PackedCount,
		"unallocated", result.Unallocated,
	)
	return result, nil
}
