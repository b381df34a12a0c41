package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wms-platform/pallet-service/internal/application"
	"github.com/wms-platform/pallet-service/pkg/middleware"
)

// AddPallet handles pallet registration
func (h *Handlers) AddPallet(c *gin.Context) {
	responder := h.responder(c)

	var cmd application.AddPalletCommand
	if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}
	view, appErr := bindView(c)
	if appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}
	cmd.View = view

	pallet, err := h.service.AddPallet(c.Request.Context(), cmd)
	if err != nil {
		respond(responder, err)
		return
	}

	c.JSON(http.StatusCreated, pallet)
}

// ListPallets handles pallet listing, optionally filtered by derived status
func (h *Handlers) ListPallets(c *gin.Context) {
	responder := h.responder(c)

	var query application.ListPalletsQuery
	if appErr := bindQuery(c, &query); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}
	view, appErr := bindView(c)
	if appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}
	query.View = view

	pallets, err := h.service.ListPallets(c.Request.Context(), query)
	if err != nil {
		respond(responder, err)
		return
	}

	c.JSON(http.StatusOK, pallets)
}

// GetPallet handles getting a pallet by ID
func (h *Handlers) GetPallet(c *gin.Context) {
	responder := h.responder(c)

	palletID := c.Param("palletId")
	middleware.AddSpanAttributes(c, map[string]interface{}{
		"pallet.id": palletID,
	})

	view, appErr := bindView(c)
	if appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}

	pallet, err := h.service.GetPallet(c.Request.Context(), application.GetPalletQuery{PalletID: palletID, View: view})
	if err != nil {
		respond(responder, err)
		return
	}

	c.JSON(http.StatusOK, pallet)
}

// GetCapacity returns the remaining weight and height of a pallet
func (h *Handlers) GetCapacity(c *gin.Context) {
	responder := h.responder(c)

	palletID := c.Param("palletId")
	view, appErr := bindView(c)
	if appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}

	capacity, err := h.service.GetCapacity(c.Request.Context(), application.GetPalletQuery{PalletID: palletID, View: view})
	if err != nil {
		respond(responder, err)
		return
	}

	c.JSON(http.StatusOK, capacity)
}

// ShipPallet ships a pallet and its packed items
func (h *Handlers) ShipPallet(c *gin.Context) {
	responder := h.responder(c)

	palletID := c.Param("palletId")
	middleware.AddSpanAttributes(c, map[string]interface{}{
		"pallet.id": palletID,
	})

	view, appErr := bindView(c)
	if appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}

	pallet, err := h.service.ShipPallet(c.Request.Context(), application.ShipPalletCommand{PalletID: palletID, View: view})
	if err != nil {
		respond(responder, err)
		return
	}

	c.JSON(http.StatusOK, pallet)
}

// DeletePallet handles deletion of an empty pallet
func (h *Handlers) DeletePallet(c *gin.Context) {
	palletID := c.Param("palletId")
	middleware.AddSpanAttributes(c, map[string]interface{}{
		"pallet.id": palletID,
	})

	if err := h.service.DeletePallet(c.Request.Context(), application.DeletePalletCommand{PalletID: palletID}); err != nil {
		respond(h.responder(c), err)
		return
	}

	c.Status(http.StatusNoContent)
}
