package application

import "time"

// UnitsDTO names the units the numbers of a response are expressed in
type UnitsDTO struct {
	Length string `json:"length" yaml:"length"`
	Weight string `json:"weight" yaml:"weight"`
}

// DimensionsDTO is length x width x height
type DimensionsDTO struct {
	Length float64 `json:"length" yaml:"length"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// ItemDTO represents a packing item
type ItemDTO struct {
	ItemID         string        `json:"itemId" yaml:"itemId"`
	Name           string        `json:"name" yaml:"name"`
	SKU            string        `json:"sku" yaml:"sku"`
	Category       string        `json:"category" yaml:"category"`
	Quantity       int           `json:"quantity" yaml:"quantity"`
	UnitWeight     float64       `json:"unitWeight" yaml:"unitWeight"`
	TotalWeight    float64       `json:"totalWeight" yaml:"totalWeight"`
	Dimensions     DimensionsDTO `json:"dimensions" yaml:"dimensions"`
	Priority       string        `json:"priority" yaml:"priority"`
	Status         string        `json:"status" yaml:"status"`
	AssignedPallet string        `json:"assignedPallet,omitempty" yaml:"assignedPallet,omitempty"`
	Units          UnitsDTO      `json:"units" yaml:"-"`
	CreatedAt      time.Time     `json:"createdAt" yaml:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt" yaml:"-"`
	PackedAt       *time.Time    `json:"packedAt,omitempty" yaml:"packedAt,omitempty"`
	ShippedAt      *time.Time    `json:"shippedAt,omitempty" yaml:"shippedAt,omitempty"`
}

// PalletDTO represents a pallet with its derived status
type PalletDTO struct {
	PalletID        string     `json:"palletId" yaml:"palletId"`
	Name            string     `json:"name" yaml:"name"`
	Status          string     `json:"status" yaml:"status"`
	MaxWeight       float64    `json:"maxWeight" yaml:"maxWeight"`
	MaxHeight       float64    `json:"maxHeight" yaml:"maxHeight"`
	CurrentWeight   float64    `json:"currentWeight" yaml:"currentWeight"`
	CurrentHeight   float64    `json:"currentHeight" yaml:"currentHeight"`
	RemainingWeight float64    `json:"remainingWeight" yaml:"remainingWeight"`
	RemainingHeight float64    `json:"remainingHeight" yaml:"remainingHeight"`
	ItemIDs         []string   `json:"itemIds" yaml:"-"`
	ItemCount       int        `json:"itemCount" yaml:"itemCount"`
	Units           UnitsDTO   `json:"units" yaml:"-"`
	CreatedAt       time.Time  `json:"createdAt" yaml:"createdAt"`
	ShippedAt       *time.Time `json:"shippedAt,omitempty" yaml:"shippedAt,omitempty"`
}

// CapacityDTO is the room left on a pallet
type CapacityDTO struct {
	PalletID        string   `json:"palletId"`
	RemainingWeight float64  `json:"remainingWeight"`
	RemainingHeight float64  `json:"remainingHeight"`
	Units           UnitsDTO `json:"units"`
}

// BoxSizeDTO represents a reference box size
type BoxSizeDTO struct {
	BoxSizeID  string        `json:"boxSizeId"`
	Name       string        `json:"name"`
	Dimensions DimensionsDTO `json:"dimensions"`
	Volume     float64       `json:"volume"`
	MaxWeight  float64       `json:"maxWeight"`
	Units      UnitsDTO      `json:"units"`
	CreatedAt  time.Time     `json:"createdAt"`
}

// AssignmentDTO is one item placed on one pallet
type AssignmentDTO struct {
	ItemID   string `json:"itemId"`
	PalletID string `json:"palletId"`
}

// AllocationResultDTO describes an allocation run
type AllocationResultDTO struct {
	RunID            string          `json:"runId"`
	Assignments      []AssignmentDTO `json:"assignments"`
	Unallocated      []string        `json:"unallocated"`
	PackedCount      int             `json:"packedCount"`
	UnallocatedCount int             `json:"unallocatedCount"`
	StartedAt        time.Time       `json:"startedAt"`
	DurationMs       float64         `json:"durationMs"`
}

// PalletUtilizationDTO is the used fraction of a pallet's limits
type PalletUtilizationDTO struct {
	PalletID    string  `json:"palletId"`
	Name        string  `json:"name"`
	Status      string  `json:"status"`
	WeightRatio float64 `json:"weightRatio"`
	HeightRatio float64 `json:"heightRatio"`
}

// SummaryDTO aggregates catalog and registry state
type SummaryDTO struct {
	TotalItems      int                    `json:"totalItems"`
	TotalPallets    int                    `json:"totalPallets"`
	ItemsByStatus   map[string]int         `json:"itemsByStatus"`
	PalletsByStatus map[string]int         `json:"palletsByStatus"`
	PendingWeight   float64                `json:"pendingWeight"`
	PackedWeight    float64                `json:"packedWeight"`
	ShippedWeight   float64                `json:"shippedWeight"`
	Utilization     []PalletUtilizationDTO `json:"utilization"`
	Units           UnitsDTO               `json:"units"`
}

// SettingsDTO holds the runtime presentation settings
type SettingsDTO struct {
	Units            UnitsDTO `json:"units"`
	DefaultMaxWeight float64  `json:"defaultMaxWeight"`
	DefaultMaxHeight float64  `json:"defaultMaxHeight"`
}

// ManifestPalletDTO is a pallet together with the items on it
type ManifestPalletDTO struct {
	PalletDTO `yaml:",inline"`
	Items     []ItemDTO `json:"items" yaml:"items"`
}

// ManifestDTO is the exportable packing manifest
type ManifestDTO struct {
	GeneratedAt   time.Time           `json:"generatedAt" yaml:"generatedAt"`
	Units         UnitsDTO            `json:"units" yaml:"units"`
	Pallets       []ManifestPalletDTO `json:"pallets" yaml:"pallets"`
	Unallocated   []ItemDTO           `json:"unallocated" yaml:"unallocated"`
	TotalItems    int                 `json:"totalItems" yaml:"totalItems"`
	PackedWeight  float64             `json:"packedWeight" yaml:"packedWeight"`
	PendingWeight float64             `json:"pendingWeight" yaml:"pendingWeight"`
}

// WorkflowExecutionDTO identifies a started workflow run
type WorkflowExecutionDTO struct {
	WorkflowID string `json:"workflowId"`
	RunID      string `json:"runId"`
}
