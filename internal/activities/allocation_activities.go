package activities

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/wms-platform/pallet-service/internal/activities/clients"
	pkgtemporal "github.com/wms-platform/pallet-service/pkg/temporal"
)

// PalletServiceAPI is the part of the pallet service HTTP API the activities use
type PalletServiceAPI interface {
	RunAllocation(ctx context.Context) (*clients.AllocationResult, error)
	ListPallets(ctx context.Context, status string) ([]clients.Pallet, error)
	ShipPallet(ctx context.Context, palletID string) (*clients.Pallet, error)
	GetSummary(ctx context.Context) (*clients.Summary, error)
}

// AllocationActivities drive the pallet service on behalf of the allocation workflow
type AllocationActivities struct {
	client PalletServiceAPI
	logger *slog.Logger
}

// NewAllocationActivities creates a new AllocationActivities instance
func NewAllocationActivities(client PalletServiceAPI, logger *slog.Logger) *AllocationActivities {
	return &AllocationActivities{
		client: client,
		logger: logger,
	}
}

// RunAllocation runs one allocation pass
func (a *AllocationActivities) RunAllocation(ctx context.Context) (*clients.AllocationResult, error) {
	logger := activity.GetLogger(ctx)

	result, err := a.client.RunAllocation(ctx)
	if err != nil {
		logger.Error("Allocation run failed", "error", err)
		return nil, toActivityError("run allocation", err)
	}

	logger.Info("Allocation run completed",
		"runId", result.RunID,
		"packed", result.PackedCount,
		"unallocated", result.UnallocatedCount,
	)
	return result, nil
}

// ShipFullPallets ships every pallet whose derived status is full and returns
// their ids. A pallet already shipped by an earlier attempt is skipped.
func (a *AllocationActivities) ShipFullPallets(ctx context.Context) ([]string, error) {
	logger := activity.GetLogger(ctx)

	pallets, err := a.client.ListPallets(ctx, "full")
	if err != nil {
		return nil, toActivityError("list full pallets", err)
	}

	shipped := make([]string, 0, len(pallets))
	for _, pallet := range pallets {
		activity.RecordHeartbeat(ctx, pallet.PalletID)

		if _, err := a.client.ShipPallet(ctx, pallet.PalletID); err != nil {
			var apiErr *clients.APIError
			if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusConflict {
				logger.Warn("Pallet no longer shippable", "palletId", pallet.PalletID, "error", err)
				continue
			}
			return shipped, toActivityError("ship pallet "+pallet.PalletID, err)
		}
		shipped = append(shipped, pallet.PalletID)
	}

	logger.Info("Full pallets shipped", "count", len(shipped))
	return shipped, nil
}

// GetSummary fetches the final totals
func (a *AllocationActivities) GetSummary(ctx context.Context) (*clients.Summary, error) {
	summary, err := a.client.GetSummary(ctx)
	if err != nil {
		return nil, toActivityError("get summary", err)
	}
	return summary, nil
}

// toActivityError maps client errors onto the application error types the
// retry policies know. Everything else stays retryable.
func toActivityError(operation string, err error) error {
	var apiErr *clients.APIError
	if !errors.As(err, &apiErr) {
		return fmt.Errorf("failed to %s: %w", operation, err)
	}

	message := fmt.Sprintf("failed to %s: %s", operation, apiErr.Message)
	switch apiErr.StatusCode {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return temporal.NewApplicationError(message, pkgtemporal.ErrTypeValidation, apiErr)
	case http.StatusNotFound:
		return temporal.NewApplicationError(message, pkgtemporal.ErrTypeNotFound, apiErr)
	case http.StatusConflict:
		return temporal.NewApplicationError(message, pkgtemporal.ErrTypeConflict, apiErr)
	default:
		return fmt.Errorf("failed to %s: %w", operation, err)
	}
}
