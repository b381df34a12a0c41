package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wms-platform/pallet-service/internal/application"
	"github.com/wms-platform/pallet-service/pkg/middleware"
)

// GetManifest exports the packing manifest as JSON or YAML
func (h *Handlers) GetManifest(c *gin.Context) {
	responder := h.responder(c)

	view, appErr := bindView(c)
	if appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}

	manifest, err := h.service.Manifest(c.Request.Context(), view)
	if err != nil {
		respond(responder, err)
		return
	}

	data, contentType, err := application.MarshalManifest(manifest, c.Query("format"))
	if err != nil {
		respond(responder, err)
		return
	}

	c.Data(http.StatusOK, contentType, data)
}

// GetSummary returns the aggregate counts and utilisation
func (h *Handlers) GetSummary(c *gin.Context) {
	responder := h.responder(c)

	view, appErr := bindView(c)
	if appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}

	summary, err := h.service.Summary(c.Request.Context(), view)
	if err != nil {
		respond(responder, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetSettings returns display units and default pallet limits
func (h *Handlers) GetSettings(c *gin.Context) {
	settings, err := h.service.Settings(c.Request.Context())
	if err != nil {
		respond(h.responder(c), err)
		return
	}

	c.JSON(http.StatusOK, settings)
}

// UpdateSettings toggles display units and default pallet limits
func (h *Handlers) UpdateSettings(c *gin.Context) {
	responder := h.responder(c)

	var cmd application.UpdateSettingsCommand
	if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}

	settings, err := h.service.UpdateSettings(c.Request.Context(), cmd)
	if err != nil {
		respond(responder, err)
		return
	}

	c.JSON(http.StatusOK, settings)
}
