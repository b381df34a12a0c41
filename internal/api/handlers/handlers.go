package handlers

import (
	"context"
	stderrors "errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/wms-platform/pallet-service/internal/application"
	"github.com/wms-platform/pallet-service/pkg/errors"
	"github.com/wms-platform/pallet-service/pkg/logging"
	"github.com/wms-platform/pallet-service/pkg/middleware"
)

// PalletService is the application service the handlers drive
type PalletService interface {
	AddItem(ctx context.Context, cmd application.AddItemCommand) (*application.ItemDTO, error)
	GetItem(ctx context.Context, query application.GetItemQuery) (*application.ItemDTO, error)
	ListItems(ctx context.Context, query application.ListItemsQuery) ([]application.ItemDTO, error)
	ListCategories(ctx context.Context) ([]string, error)
	UpdateItemStatus(ctx context.Context, cmd application.UpdateItemStatusCommand) (*application.ItemDTO, error)
	DeleteItem(ctx context.Context, cmd application.DeleteItemCommand) error

	AddPallet(ctx context.Context, cmd application.AddPalletCommand) (*application.PalletDTO, error)
	GetPallet(ctx context.Context, query application.GetPalletQuery) (*application.PalletDTO, error)
	ListPallets(ctx context.Context, query application.ListPalletsQuery) ([]application.PalletDTO, error)
	GetCapacity(ctx context.Context, query application.GetPalletQuery) (*application.CapacityDTO, error)
	ShipPallet(ctx context.Context, cmd application.ShipPalletCommand) (*application.PalletDTO, error)
	DeletePallet(ctx context.Context, cmd application.DeletePalletCommand) error

	AddBoxSize(ctx context.Context, cmd application.AddBoxSizeCommand) (*application.BoxSizeDTO, error)
	ListBoxSizes(ctx context.Context, view application.View) ([]application.BoxSizeDTO, error)
	DeleteBoxSize(ctx context.Context, cmd application.DeleteBoxSizeCommand) error
	SuggestBoxSize(ctx context.Context, query application.SuggestBoxSizeQuery) (*application.BoxSizeDTO, error)

	RunAllocation(ctx context.Context) (*application.AllocationResultDTO, error)

	Summary(ctx context.Context, view application.View) (*application.SummaryDTO, error)
	Manifest(ctx context.Context, view application.View) (*application.ManifestDTO, error)
	Settings(ctx context.Context) (*application.SettingsDTO, error)
	UpdateSettings(ctx context.Context, cmd application.UpdateSettingsCommand) (*application.SettingsDTO, error)
}

// Handlers groups every route of the pallet service
type Handlers struct {
	service PalletService
	starter WorkflowStarter
	logger  *logging.Logger
}

// NewHandlers creates the handlers. starter may be nil when Temporal is disabled.
func NewHandlers(service PalletService, starter WorkflowStarter, logger *logging.Logger) *Handlers {
	return &Handlers{
		service: service,
		starter: starter,
		logger:  logger,
	}
}

// RegisterRoutes registers every route on the /api/v1 group
func (h *Handlers) RegisterRoutes(router *gin.RouterGroup) {
	items := router.Group("/items")
	{
		items.POST("", h.AddItem)
		items.GET("", h.ListItems)
		items.GET("/categories", h.ListCategories)
		items.GET("/:itemId", h.GetItem)
		items.PUT("/:itemId/status", h.UpdateItemStatus)
		items.DELETE("/:itemId", h.DeleteItem)
	}

	pallets := router.Group("/pallets")
	{
		pallets.POST("", h.AddPallet)
		pallets.GET("", h.ListPallets)
		pallets.GET("/:palletId", h.GetPallet)
		pallets.GET("/:palletId/capacity", h.GetCapacity)
		pallets.POST("/:palletId/ship", h.ShipPallet)
		pallets.DELETE("/:palletId", h.DeletePallet)
	}

	boxSizes := router.Group("/box-sizes")
	{
		boxSizes.POST("", h.AddBoxSize)
		boxSizes.GET("", h.ListBoxSizes)
		boxSizes.GET("/suggest", h.SuggestBoxSize)
		boxSizes.DELETE("/:boxSizeId", h.DeleteBoxSize)
	}

	allocations := router.Group("/allocations")
	{
		allocations.POST("", h.RunAllocation)
		allocations.POST("/workflows", h.StartAllocationWorkflow)
	}

	router.GET("/manifest", h.GetManifest)
	router.GET("/summary", h.GetSummary)
	router.GET("/settings", h.GetSettings)
	router.PUT("/settings", h.UpdateSettings)
}

func (h *Handlers) responder(c *gin.Context) *middleware.ErrorResponder {
	return middleware.NewErrorResponder(c, h.logger)
}

// respond writes err as an AppError, falling back to 500
func respond(responder *middleware.ErrorResponder, err error) {
	if appErr, ok := errors.AsAppError(err); ok {
		responder.RespondWithAppError(appErr)
		return
	}
	responder.RespondInternalError(err)
}

// bindQuery binds and validates query parameters
func bindQuery(c *gin.Context, obj interface{}) *errors.AppError {
	if err := c.ShouldBindQuery(obj); err != nil {
		var validationErrors validator.ValidationErrors
		if stderrors.As(err, &validationErrors) {
			return errors.ErrValidationWithFields("invalid query parameters", middleware.FormatValidationErrors(validationErrors))
		}
		return errors.ErrBadRequest("invalid query parameters: " + err.Error())
	}
	return nil
}

// bindView reads the per-request ?lengthUnit=&weightUnit= override
func bindView(c *gin.Context) (application.View, *errors.AppError) {
	var view application.View
	if appErr := bindQuery(c, &view); appErr != nil {
		return application.View{}, appErr
	}
	return view, nil
}
