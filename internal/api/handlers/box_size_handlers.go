package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wms-platform/pallet-service/internal/application"
	"github.com/wms-platform/pallet-service/pkg/middleware"
)

// AddBoxSize handles box size creation
func (h *Handlers) AddBoxSize(c *gin.Context) {
	responder := h.responder(c)

	var cmd application.AddBoxSizeCommand
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

	box, err := h.service.AddBoxSize(c.Request.Context(), cmd)
	if err != nil {
		respond(responder, err)
		return
	}

	c.JSON(http.StatusCreated, box)
}

// ListBoxSizes lists the reference box sizes
func (h *Handlers) ListBoxSizes(c *gin.Context) {
	responder := h.responder(c)

	view, appErr := bindView(c)
	if appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}

	boxes, err := h.service.ListBoxSizes(c.Request.Context(), view)
	if err != nil {
		respond(responder, err)
		return
	}

	c.JSON(http.StatusOK, boxes)
}

// SuggestBoxSize returns the smallest box that holds one unit of an item
func (h *Handlers) SuggestBoxSize(c *gin.Context) {
	responder := h.responder(c)

	var query application.SuggestBoxSizeQuery
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

	box, err := h.service.SuggestBoxSize(c.Request.Context(), query)
	if err != nil {
		respond(responder, err)
		return
	}

	c.JSON(http.StatusOK, box)
}

// DeleteBoxSize handles box size deletion
func (h *Handlers) DeleteBoxSize(c *gin.Context) {
	cmd := application.DeleteBoxSizeCommand{BoxSizeID: c.Param("boxSizeId")}
	if err := h.service.DeleteBoxSize(c.Request.Context(), cmd); err != nil {
		respond(h.responder(c), err)
		return
	}

	c.Status(http.StatusNoContent)
}
