package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wms-platform/pallet-service/internal/application"
	"github.com/wms-platform/pallet-service/pkg/middleware"
)

// WorkflowStarter starts the durable allocation workflow
type WorkflowStarter interface {
	StartAllocationWorkflow(ctx context.Context, cmd application.StartAllocationWorkflowCommand) (*application.WorkflowExecutionDTO, error)
}

// RunAllocation runs one first-fit pass over the pending items
func (h *Handlers) RunAllocation(c *gin.Context) {
	result, err := h.service.RunAllocation(c.Request.Context())
	if err != nil {
		respond(h.responder(c), err)
		return
	}

	middleware.AddSpanAttributes(c, map[string]interface{}{
		"allocation.run_id":      result.RunID,
		"allocation.packed":      result.PackedCount,
		"allocation.unallocated": result.UnallocatedCount,
	})

	c.JSON(http.StatusOK, result)
}

// StartAllocationWorkflow starts the Temporal allocation workflow
func (h *Handlers) StartAllocationWorkflow(c *gin.Context) {
	responder := h.responder(c)

	if h.starter == nil {
		responder.RespondServiceUnavailable("temporal")
		return
	}

	var cmd application.StartAllocationWorkflowCommand
	if c.Request.ContentLength > 0 {
		if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}
	}

	execution, err := h.starter.StartAllocationWorkflow(c.Request.Context(), cmd)
	if err != nil {
		respond(responder, err)
		return
	}

	middleware.AddSpanAttributes(c, map[string]interface{}{
		"workflow.id": execution.WorkflowID,
	})
	h.logger.Event(c.Request.Context(), "allocation.workflow_started", map[string]any{
		"workflowId": execution.WorkflowID,
		"runId":      execution.RunID,
	})

	c.JSON(http.StatusAccepted, execution)
}
