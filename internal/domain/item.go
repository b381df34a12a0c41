package domain

import (
	"math"
	"sort"
	"strings"
	"time"
)

// ItemStatus represents the lifecycle state of a packing item
type ItemStatus string

const (
	ItemStatusPending ItemStatus = "pending"
	ItemStatusPacked  ItemStatus = "packed"
	ItemStatusShipped ItemStatus = "shipped"
)

// IsValid checks if the status is one of the lifecycle states
func (s ItemStatus) IsValid() bool {
	switch s {
	case ItemStatusPending, ItemStatusPacked, ItemStatusShipped:
		return true
	}
	return false
}

// Priority is informational only. Allocation order never depends on it.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// IsValid checks if the priority is known
func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Dimensions holds length, width and height. Stored values are always inches.
type Dimensions struct {
	Length float64 `bson:"length"`
	Width  float64 `bson:"width"`
	Height float64 `bson:"height"`
}

// Volume returns length x width x height
func (d Dimensions) Volume() float64 {
	return d.Length * d.Width * d.Height
}

// sorted returns the three edges in ascending order, for orientation-free comparisons
func (d Dimensions) sorted() [3]float64 {
	edges := []float64{d.Length, d.Width, d.Height}
	sort.Float64s(edges)
	return [3]float64{edges[0], edges[1], edges[2]}
}

// PackingItem is a physical item waiting to be placed on a pallet
type PackingItem struct {
	ItemID         string        `bson:"itemId"`
	Name           string        `bson:"name"`
	SKU            string        `bson:"sku"`
	Category       string        `bson:"category"`
	Quantity       int           `bson:"quantity"`
	UnitWeight     float64       `bson:"unitWeight"` // pounds
	Dimensions     Dimensions    `bson:"dimensions"`
	Priority       Priority      `bson:"priority"`
	Status         ItemStatus    `bson:"status"`
	AssignedPallet string        `bson:"assignedPallet,omitempty"`
	Sequence       int64         `bson:"sequence"`
	CreatedAt      time.Time     `bson:"createdAt"`
	UpdatedAt      time.Time     `bson:"updatedAt"`
	PackedAt       *time.Time    `bson:"packedAt,omitempty"`
	ShippedAt      *time.Time    `bson:"shippedAt,omitempty"`
	DomainEvents   []DomainEvent `bson:"-"`
}

// ItemSpec is the caller supplied description of a new item.
// Weight and dimensions are expressed in Units; a zero Units means canonical.
type ItemSpec struct {
	Name       string
	SKU        string
	Category   string
	Quantity   int
	UnitWeight float64
	Dimensions Dimensions
	Priority   Priority
	Units      UnitSystem
}

// Validate checks the spec and returns the first offending field
func (s ItemSpec) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return NewValidationError("name", "is required")
	}
	if strings.TrimSpace(s.SKU) == "" {
		return NewValidationError("sku", "is required")
	}
	if strings.TrimSpace(s.Category) == "" {
		return NewValidationError("category", "is required")
	}
	if s.Quantity < 1 {
		return NewValidationError("quantity", "must be at least 1")
	}
	if !nonNegative(s.UnitWeight) {
		return NewValidationError("unitWeight", "must be a non-negative number")
	}
	if !nonNegative(s.Dimensions.Length) || !nonNegative(s.Dimensions.Width) || !nonNegative(s.Dimensions.Height) {
		return NewValidationError("dimensions", "must be non-negative numbers")
	}
	if s.Priority != "" && !s.Priority.IsValid() {
		return NewValidationError("priority", "must be one of high, medium, low")
	}
	if s.Units.Length != "" && !s.Units.Length.IsValid() {
		return NewValidationError("lengthUnit", "unsupported length unit")
	}
	if s.Units.Weight != "" && !s.Units.Weight.IsValid() {
		return NewValidationError("weightUnit", "unsupported weight unit")
	}
	return nil
}

func newPackingItem(id string, seq int64, spec ItemSpec, now time.Time) *PackingItem {
	units := spec.Units.withDefaults()
	priority := spec.Priority
	if priority == "" {
		priority = PriorityMedium
	}

	item := &PackingItem{
		ItemID:       id,
		Name:         strings.TrimSpace(spec.Name),
		SKU:          strings.TrimSpace(spec.SKU),
		Category:     strings.TrimSpace(spec.Category),
		Quantity:     spec.Quantity,
		UnitWeight:   units.WeightToCanonical(spec.UnitWeight),
		Dimensions:   units.DimensionsToCanonical(spec.Dimensions),
		Priority:     priority,
		Status:       ItemStatusPending,
		Sequence:     seq,
		CreatedAt:    now,
		UpdatedAt:    now,
		DomainEvents: make([]DomainEvent, 0),
	}

	item.AddDomainEvent(&ItemAddedEvent{
		ItemID:      item.ItemID,
		SKU:         item.SKU,
		Category:    item.Category,
		Quantity:    item.Quantity,
		TotalWeight: item.TotalWeight(),
		AddedAt:     now,
	})

	return item
}

// TotalWeight is unitWeight x quantity, in pounds
func (i *PackingItem) TotalWeight() float64 {
	return i.UnitWeight * float64(i.Quantity)
}

// Height is the height the item adds to a pallet, in inches
func (i *PackingItem) Height() float64 {
	return i.Dimensions.Height
}

// IsAssigned reports whether the item sits on a pallet
func (i *PackingItem) IsAssigned() bool {
	return i.AssignedPallet != ""
}

// markPacked is the pending -> packed edge. Only the allocation engine calls it.
func (i *PackingItem) markPacked(palletID string, now time.Time) error {
	if i.Status != ItemStatusPending {
		return &IllegalTransitionError{From: i.Status, To: ItemStatusPacked}
	}

	i.Status = ItemStatusPacked
	i.AssignedPallet = palletID
	i.PackedAt = &now
	i.UpdatedAt = now

	i.AddDomainEvent(&ItemPackedEvent{
		ItemID:      i.ItemID,
		PalletID:    palletID,
		TotalWeight: i.TotalWeight(),
		Height:      i.Height(),
		PackedAt:    now,
	})
	return nil
}

// MarkShipped is the packed -> shipped edge
func (i *PackingItem) MarkShipped() error {
	if i.Status != ItemStatusPacked {
		return &IllegalTransitionError{From: i.Status, To: ItemStatusShipped}
	}

	now := time.Now()
	i.Status = ItemStatusShipped
	i.ShippedAt = &now
	i.UpdatedAt = now

	i.AddDomainEvent(&ItemShippedEvent{
		ItemID:    i.ItemID,
		PalletID:  i.AssignedPallet,
		ShippedAt: now,
	})
	return nil
}

// RequestStatus applies an externally requested status change.
// Packing is owned by the allocation engine, so only shipping can be requested.
func (i *PackingItem) RequestStatus(to ItemStatus) error {
	if !to.IsValid() {
		return NewValidationError("status", "must be one of pending, packed, shipped")
	}
	if to == ItemStatusShipped {
		return i.MarkShipped()
	}
	return &IllegalTransitionError{From: i.Status, To: to}
}

// AddDomainEvent adds a domain event
func (i *PackingItem) AddDomainEvent(event DomainEvent) {
	i.DomainEvents = append(i.DomainEvents, event)
}

// PullDomainEvents returns and clears the pending domain events
func (i *PackingItem) PullDomainEvents() []DomainEvent {
	events := i.DomainEvents
	i.DomainEvents = make([]DomainEvent, 0)
	return events
}

func nonNegative(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

func (us UnitSystem) withDefaults() UnitSystem {
	if us.Length == "" {
		us.Length = LengthUnitInch
	}
	if us.Weight == "" {
		us.Weight = WeightUnitPound
	}
	return us
}
