package application

// UnitsInput names the units a request body is written in. Empty fields
// fall back to the current display units.
type UnitsInput struct {
	Length string `json:"length,omitempty" yaml:"length,omitempty" binding:"omitempty,lengthunit"`
	Weight string `json:"weight,omitempty" yaml:"weight,omitempty" binding:"omitempty,weightunit"`
}

// View overrides the display units of a single response
type View struct {
	LengthUnit string `form:"lengthUnit" json:"-" binding:"omitempty,lengthunit"`
	WeightUnit string `form:"weightUnit" json:"-" binding:"omitempty,weightunit"`
}

// DimensionsInput is length x width x height in the request units
type DimensionsInput struct {
	Length float64 `json:"length" binding:"gte=0"`
	Width  float64 `json:"width" binding:"gte=0"`
	Height float64 `json:"height" binding:"gte=0"`
}

// Item Commands

// AddItemCommand adds an item to the catalog
type AddItemCommand struct {
	Name       string          `json:"name" binding:"required"`
	SKU        string          `json:"sku" binding:"required"`
	Category   string          `json:"category" binding:"required"`
	Quantity   int             `json:"quantity" binding:"required,min=1"`
	UnitWeight float64         `json:"unitWeight" binding:"gte=0"`
	Dimensions DimensionsInput `json:"dimensions"`
	Priority   string          `json:"priority,omitempty" binding:"omitempty,priority"`
	Units      UnitsInput      `json:"units"`
	View       View            `json:"-"`
}

// UpdateItemStatusCommand requests a status change
type UpdateItemStatusCommand struct {
	ItemID string `json:"-"`
	Status string `json:"status" binding:"required,itemstatus"`
	View   View   `json:"-"`
}

// DeleteItemCommand removes an item
type DeleteItemCommand struct {
	ItemID string `json:"itemId"`
}

// Item Queries

// GetItemQuery retrieves an item by ID
type GetItemQuery struct {
	ItemID string `json:"itemId"`
	View   View   `json:"-"`
}

// ListItemsQuery filters the catalog. Empty fields match everything.
type ListItemsQuery struct {
	Search   string `form:"search"`
	Category string `form:"category"`
	Status   string `form:"status" binding:"omitempty,itemstatus"`
	View     View   `form:"-"`
}

// Pallet Commands

// AddPalletCommand registers a pallet. Zero limits take the configured defaults.
type AddPalletCommand struct {
	Name      string     `json:"name" binding:"required"`
	MaxWeight float64    `json:"maxWeight,omitempty" binding:"gte=0"`
	MaxHeight float64    `json:"maxHeight,omitempty" binding:"gte=0"`
	Units     UnitsInput `json:"units"`
	View      View       `json:"-"`
}

// ShipPalletCommand ships a pallet and everything packed on it
type ShipPalletCommand struct {
	PalletID string `json:"palletId"`
	View     View   `json:"-"`
}

// DeletePalletCommand removes an empty pallet
type DeletePalletCommand struct {
	PalletID string `json:"palletId"`
}

// Pallet Queries

// GetPalletQuery retrieves a pallet by ID
type GetPalletQuery struct {
	PalletID string `json:"palletId"`
	View     View   `json:"-"`
}

// ListPalletsQuery lists pallets, optionally by derived status
type ListPalletsQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=available full shipped"`
	View   View   `form:"-"`
}

// Box Size Commands

// AddBoxSizeCommand adds a reference box size
type AddBoxSizeCommand struct {
	Name       string          `json:"name" binding:"required"`
	Dimensions DimensionsInput `json:"dimensions"`
	MaxWeight  float64         `json:"maxWeight" binding:"gt=0"`
	Units      UnitsInput      `json:"units"`
	View       View            `json:"-"`
}

// DeleteBoxSizeCommand removes a box size
type DeleteBoxSizeCommand struct {
	BoxSizeID string `json:"boxSizeId"`
}

// SuggestBoxSizeQuery asks for the smallest box holding one unit of an item
type SuggestBoxSizeQuery struct {
	ItemID string `form:"itemId" binding:"required"`
	View   View   `form:"-"`
}

// Settings Commands

// UpdateSettingsCommand changes display units and default pallet limits.
// Capacities are read in the new display units.
type UpdateSettingsCommand struct {
	Units            UnitsInput `json:"units"`
	DefaultMaxWeight float64    `json:"defaultMaxWeight,omitempty" binding:"gte=0"`
	DefaultMaxHeight float64    `json:"defaultMaxHeight,omitempty" binding:"gte=0"`
}

// Workflow Commands

// StartAllocationWorkflowCommand starts a durable allocation loop. Zero values
// take the workflow defaults.
type StartAllocationWorkflowCommand struct {
	MaxRounds            int  `json:"maxRounds,omitempty" binding:"gte=0"`
	RetryIntervalSeconds int  `json:"retryIntervalSeconds,omitempty" binding:"gte=0"`
	ShipFullPallets      bool `json:"shipFullPallets,omitempty"`
}
