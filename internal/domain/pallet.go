package domain

import (
	"strings"
	"time"
)

// PalletStatus is the display state of a pallet. It is derived, never stored.
type PalletStatus string

const (
	PalletStatusAvailable PalletStatus = "available"
	PalletStatusFull      PalletStatus = "full"
	PalletStatusShipped   PalletStatus = "shipped"
)

// IsValid checks if the pallet status is known
func (s PalletStatus) IsValid() bool {
	switch s {
	case PalletStatusAvailable, PalletStatusFull, PalletStatusShipped:
		return true
	}
	return false
}

// Pallet accumulates assigned items up to its weight and height limits.
// Invariant: CurrentWeight <= MaxWeight and CurrentHeight <= MaxHeight.
type Pallet struct {
	PalletID      string        `bson:"palletId"`
	Name          string        `bson:"name"`
	MaxWeight     float64       `bson:"maxWeight"` // pounds
	MaxHeight     float64       `bson:"maxHeight"` // inches
	CurrentWeight float64       `bson:"currentWeight"`
	CurrentHeight float64       `bson:"currentHeight"`
	ItemIDs       []string      `bson:"itemIds"`
	Shipped       bool          `bson:"shipped"`
	Sequence      int64         `bson:"sequence"`
	CreatedAt     time.Time     `bson:"createdAt"`
	UpdatedAt     time.Time     `bson:"updatedAt"`
	ShippedAt     *time.Time    `bson:"shippedAt,omitempty"`
	DomainEvents  []DomainEvent `bson:"-"`
}

// PalletSpec describes a pallet to register. Zero limits take the registry defaults.
type PalletSpec struct {
	Name      string
	MaxWeight float64
	MaxHeight float64
	Units     UnitSystem
}

// Validate checks the spec
func (s PalletSpec) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return NewValidationError("name", "is required")
	}
	if s.MaxWeight != 0 && !positive(s.MaxWeight) {
		return NewValidationError("maxWeight", "must be positive")
	}
	if s.MaxHeight != 0 && !positive(s.MaxHeight) {
		return NewValidationError("maxHeight", "must be positive")
	}
	return nil
}

// Capacity is a weight/height pair in canonical units
type Capacity struct {
	Weight float64
	Height float64
}

// DerivedStatus computes the display status from the running totals
func (p *Pallet) DerivedStatus() PalletStatus {
	if p.Shipped {
		return PalletStatusShipped
	}
	if p.CurrentWeight >= p.MaxWeight || p.CurrentHeight >= p.MaxHeight {
		return PalletStatusFull
	}
	return PalletStatusAvailable
}

// CapacityRemaining returns (maxWeight - currentWeight, maxHeight - currentHeight)
func (p *Pallet) CapacityRemaining() Capacity {
	return Capacity{
		Weight: p.MaxWeight - p.CurrentWeight,
		Height: p.MaxHeight - p.CurrentHeight,
	}
}

// Fits reports whether the item can be added without breaking either limit
func (p *Pallet) Fits(item *PackingItem) bool {
	return p.CurrentWeight+item.TotalWeight() <= p.MaxWeight &&
		p.CurrentHeight+item.Height() <= p.MaxHeight
}

// IsEmpty reports whether no items are assigned
func (p *Pallet) IsEmpty() bool {
	return len(p.ItemIDs) == 0
}

// Utilization returns the used fraction of weight and height
func (p *Pallet) Utilization() Capacity {
	u := Capacity{}
	if p.MaxWeight > 0 {
		u.Weight = p.CurrentWeight / p.MaxWeight
	}
	if p.MaxHeight > 0 {
		u.Height = p.CurrentHeight / p.MaxHeight
	}
	return u
}

// assign appends the item and grows the totals. The caller has already checked Fits.
func (p *Pallet) assign(item *PackingItem, now time.Time) {
	p.ItemIDs = append(p.ItemIDs, item.ItemID)
	p.CurrentWeight += item.TotalWeight()
	p.CurrentHeight += item.Height()
	p.UpdatedAt = now
}

// release removes the item and shrinks the totals
func (p *Pallet) release(item *PackingItem, now time.Time) {
	for idx, id := range p.ItemIDs {
		if id == item.ItemID {
			p.ItemIDs = append(p.ItemIDs[:idx], p.ItemIDs[idx+1:]...)
			break
		}
	}
	p.CurrentWeight = clampZero(p.CurrentWeight - item.TotalWeight())
	p.CurrentHeight = clampZero(p.CurrentHeight - item.Height())
	if len(p.ItemIDs) == 0 {
		p.CurrentWeight = 0
		p.CurrentHeight = 0
	}
	p.UpdatedAt = now
}

// AddDomainEvent adds a domain event
func (p *Pallet) AddDomainEvent(event DomainEvent) {
	p.DomainEvents = append(p.DomainEvents, event)
}

// PullDomainEvents returns and clears the pending domain events
func (p *Pallet) PullDomainEvents() []DomainEvent {
	events := p.DomainEvents
	p.DomainEvents = make([]DomainEvent, 0)
	return events
}

// float subtraction can leave -1e-14 behind
func clampZero(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
