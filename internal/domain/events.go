package domain

import "time"

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	EventType() string
	OccurredAt() time.Time
}

// Event types
const (
	EventTypeItemAdded           = "wms.pallet.item-added"
	EventTypeItemPacked          = "wms.pallet.item-packed"
	EventTypeItemShipped         = "wms.pallet.item-shipped"
	EventTypeItemDeleted         = "wms.pallet.item-deleted"
	EventTypePalletRegistered    = "wms.pallet.pallet-registered"
	EventTypePalletShipped       = "wms.pallet.pallet-shipped"
	EventTypePalletDeleted       = "wms.pallet.pallet-deleted"
	EventTypeAllocationCompleted = "wms.pallet.allocation-completed"
)

// ItemAddedEvent is published when an item enters the catalog
type ItemAddedEvent struct {
	ItemID      string    `json:"itemId"`
	SKU         string    `json:"sku"`
	Category    string    `json:"category"`
	Quantity    int       `json:"quantity"`
	TotalWeight float64   `json:"totalWeight"`
	AddedAt     time.Time `json:"addedAt"`
}

func (e *ItemAddedEvent) EventType() string     { return EventTypeItemAdded }
func (e *ItemAddedEvent) OccurredAt() time.Time { return e.AddedAt }

// ItemPackedEvent is published when allocation places an item on a pallet
type ItemPackedEvent struct {
	ItemID      string    `json:"itemId"`
	PalletID    string    `json:"palletId"`
	TotalWeight float64   `json:"totalWeight"`
	Height      float64   `json:"height"`
	PackedAt    time.Time `json:"packedAt"`
}

func (e *ItemPackedEvent) EventType() string     { return EventTypeItemPacked }
func (e *ItemPackedEvent) OccurredAt() time.Time { return e.PackedAt }

// ItemShippedEvent is published when a packed item ships
type ItemShippedEvent struct {
	ItemID    string    `json:"itemId"`
	PalletID  string    `json:"palletId"`
	ShippedAt time.Time `json:"shippedAt"`
}

func (e *ItemShippedEvent) EventType() string     { return EventTypeItemShipped }
func (e *ItemShippedEvent) OccurredAt() time.Time { return e.ShippedAt }

// ItemDeletedEvent is published when an item is removed
type ItemDeletedEvent struct {
	ItemID    string    `json:"itemId"`
	Status    string    `json:"status"`
	PalletID  string    `json:"palletId,omitempty"`
	DeletedAt time.Time `json:"deletedAt"`
}

func (e *ItemDeletedEvent) EventType() string     { return EventTypeItemDeleted }
func (e *ItemDeletedEvent) OccurredAt() time.Time { return e.DeletedAt }

// PalletRegisteredEvent is published when a pallet is registered
type PalletRegisteredEvent struct {
	PalletID     string    `json:"palletId"`
	Name         string    `json:"name"`
	MaxWeight    float64   `json:"maxWeight"`
	MaxHeight    float64   `json:"maxHeight"`
	RegisteredAt time.Time `json:"registeredAt"`
}

func (e *PalletRegisteredEvent) EventType() string     { return EventTypePalletRegistered }
func (e *PalletRegisteredEvent) OccurredAt() time.Time { return e.RegisteredAt }

// PalletShippedEvent is published when a pallet leaves
type PalletShippedEvent struct {
	PalletID    string    `json:"palletId"`
	ItemIDs     []string  `json:"itemIds"`
	TotalWeight float64   `json:"totalWeight"`
	ShippedAt   time.Time `json:"shippedAt"`
}

func (e *PalletShippedEvent) EventType() string     { return EventTypePalletShipped }
func (e *PalletShippedEvent) OccurredAt() time.Time { return e.ShippedAt }

// PalletDeletedEvent is published when an empty pallet is removed
type PalletDeletedEvent struct {
	PalletID  string    `json:"palletId"`
	DeletedAt time.Time `json:"deletedAt"`
}

func (e *PalletDeletedEvent) EventType() string     { return EventTypePalletDeleted }
func (e *PalletDeletedEvent) OccurredAt() time.Time { return e.DeletedAt }

// AllocationCompletedEvent is published after every allocation run
type AllocationCompletedEvent struct {
	RunID            string    `json:"runId"`
	PackedCount      int       `json:"packedCount"`
	UnallocatedCount int       `json:"unallocatedCount"`
	PendingWeight    float64   `json:"pendingWeight"`
	CompletedAt      time.Time `json:"completedAt"`
}

func (e *AllocationCompletedEvent) EventType() string     { return EventTypeAllocationCompleted }
func (e *AllocationCompletedEvent) OccurredAt() time.Time { return e.CompletedAt }
