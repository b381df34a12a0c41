package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wms-platform/pallet-service/internal/application"
	"github.com/wms-platform/pallet-service/pkg/api"
	"github.com/wms-platform/pallet-service/pkg/middleware"
)

// AddItem handles item creation
func (h *Handlers) AddItem(c *gin.Context) {
	responder := h.responder(c)

	var cmd application.AddItemCommand
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

	middleware.AddSpanAttributes(c, map[string]interface{}{
		"item.sku":      cmd.SKU,
		"item.category": cmd.Category,
	})

	item, err := h.service.AddItem(c.Request.Context(), cmd)
	if err != nil {
		respond(responder, err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

// ListItems handles filtered, paginated item listing
func (h *Handlers) ListItems(c *gin.Context) {
	responder := h.responder(c)

	var query application.ListItemsQuery
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

	items, err := h.service.ListItems(c.Request.Context(), query)
	if err != nil {
		respond(responder, err)
		return
	}

	c.JSON(http.StatusOK, api.Paginate(items, api.ParsePagination(c)))
}

// ListCategories returns the distinct item categories
func (h *Handlers) ListCategories(c *gin.Context) {
	categories, err := h.service.ListCategories(c.Request.Context())
	if err != nil {
		respond(h.responder(c), err)
		return
	}

	c.JSON(http.StatusOK, categories)
}

// GetItem handles getting an item by ID
func (h *Handlers) GetItem(c *gin.Context) {
	responder := h.responder(c)

	itemID := c.Param("itemId")
	middleware.AddSpanAttributes(c, map[string]interface{}{
		"item.id": itemID,
	})

	view, appErr := bindView(c)
	if appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}

	item, err := h.service.GetItem(c.Request.Context(), application.GetItemQuery{ItemID: itemID, View: view})
	if err != nil {
		respond(responder, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// UpdateItemStatus handles an external status change
func (h *Handlers) UpdateItemStatus(c *gin.Context) {
	responder := h.responder(c)

	itemID := c.Param("itemId")
	middleware.AddSpanAttributes(c, map[string]interface{}{
		"item.id": itemID,
	})

	var cmd application.UpdateItemStatusCommand
	if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}
	view, appErr := bindView(c)
	if appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}
	cmd.ItemID = itemID
	cmd.View = view

	item, err := h.service.UpdateItemStatus(c.Request.Context(), cmd)
	if err != nil {
		respond(responder, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// DeleteItem handles item deletion
func (h *Handlers) DeleteItem(c *gin.Context) {
	itemID := c.Param("itemId")
	middleware.AddSpanAttributes(c, map[string]interface{}{
		"item.id": itemID,
	})

	if err := h.service.DeleteItem(c.Request.Context(), application.DeleteItemCommand{ItemID: itemID}); err != nil {
		respond(h.responder(c), err)
		return
	}

	c.Status(http.StatusNoContent)
}
