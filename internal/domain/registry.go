package domain

import (
	"time"

	"github.com/google/uuid"
)

// PalletRegistry owns the pallets in registration order.
// It is not safe for concurrent use; callers serialize access.
type PalletRegistry struct {
	pallets  []*Pallet
	index    map[string]*Pallet
	seq      int64
	defaults Capacity
}

// NewPalletRegistry creates a registry. defaults is used for pallets registered
// without explicit limits and must be in canonical units.
func NewPalletRegistry(defaults Capacity) *PalletRegistry {
	return &PalletRegistry{
		pallets:  make([]*Pallet, 0),
		index:    make(map[string]*Pallet),
		defaults: defaults,
	}
}

// Defaults returns the default pallet capacity
func (r *PalletRegistry) Defaults() Capacity {
	return r.defaults
}

// SetDefaults changes the capacity given to pallets registered from now on.
// Existing pallets keep their limits.
func (r *PalletRegistry) SetDefaults(defaults Capacity) error {
	if !positive(defaults.Weight) {
		return NewValidationError("defaultMaxWeight", "must be positive")
	}
	if !positive(defaults.Height) {
		return NewValidationError("defaultMaxHeight", "must be positive")
	}
	r.defaults = defaults
	return nil
}

// Add registers a new, empty pallet
func (r *PalletRegistry) Add(spec PalletSpec) (*Pallet, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	units := spec.Units.withDefaults()

	maxWeight := r.defaults.Weight
	if spec.MaxWeight > 0 {
		maxWeight = units.WeightToCanonical(spec.MaxWeight)
	}
	maxHeight := r.defaults.Height
	if spec.MaxHeight > 0 {
		maxHeight = units.LengthToCanonical(spec.MaxHeight)
	}
	if !positive(maxWeight) || !positive(maxHeight) {
		return nil, NewValidationError("capacity", "pallet limits must be positive")
	}

	now := time.Now()
	r.seq++
	pallet := &Pallet{
		PalletID:     "PLT-" + uuid.New().String(),
		Name:         spec.Name,
		MaxWeight:    maxWeight,
		MaxHeight:    maxHeight,
		ItemIDs:      make([]string, 0),
		Sequence:     r.seq,
		CreatedAt:    now,
		UpdatedAt:    now,
		DomainEvents: make([]DomainEvent, 0),
	}
	pallet.AddDomainEvent(&PalletRegisteredEvent{
		PalletID:     pallet.PalletID,
		Name:         pallet.Name,
		MaxWeight:    pallet.MaxWeight,
		MaxHeight:    pallet.MaxHeight,
		RegisteredAt: now,
	})

	r.pallets = append(r.pallets, pallet)
	r.index[pallet.PalletID] = pallet
	return pallet, nil
}

// Get returns the pallet with the given id
func (r *PalletRegistry) Get(id string) (*Pallet, error) {
	p, ok := r.index[id]
	if !ok {
		return nil, ErrPalletNotFound
	}
	return p, nil
}

// List returns pallets in registration order, optionally restricted to one derived status
func (r *PalletRegistry) List(status PalletStatus) []*Pallet {
	result := make([]*Pallet, 0, len(r.pallets))
	for _, p := range r.pallets {
		if status != "" && p.DerivedStatus() != status {
			continue
		}
		result = append(result, p)
	}
	return result
}

// Len returns the number of registered pallets
func (r *PalletRegistry) Len() int {
	return len(r.pallets)
}

// CapacityRemaining returns the weight and height still available on a pallet
func (r *PalletRegistry) CapacityRemaining(id string) (Capacity, error) {
	p, err := r.Get(id)
	if err != nil {
		return Capacity{}, err
	}
	return p.CapacityRemaining(), nil
}

// Delete removes an empty pallet. Pallets holding items cannot be deleted.
func (r *PalletRegistry) Delete(id string) (*Pallet, error) {
	p, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	if !p.IsEmpty() {
		return nil, ErrPalletNotEmpty
	}

	for idx, candidate := range r.pallets {
		if candidate.PalletID == id {
			r.pallets = append(r.pallets[:idx], r.pallets[idx+1:]...)
			break
		}
	}
	delete(r.index, id)

	p.AddDomainEvent(&PalletDeletedEvent{PalletID: id, DeletedAt: time.Now()})
	return p, nil
}

// Ship marks the pallet shipped and advances its packed items to shipped.
// It returns the items whose status changed.
func (r *PalletRegistry) Ship(id string, catalog *ItemCatalog) (*Pallet, []*PackingItem, error) {
	p, err := r.Get(id)
	if err != nil {
		return nil, nil, err
	}
	if p.Shipped {
		return nil, nil, ErrPalletShipped
	}
	if p.IsEmpty() {
		return nil, nil, ErrPalletEmpty
	}

	shipped := make([]*PackingItem, 0, len(p.ItemIDs))
	for _, itemID := range p.ItemIDs {
		item, err := catalog.Get(itemID)
		if err != nil || item.Status != ItemStatusPacked {
			continue
		}
		if err := item.MarkShipped(); err != nil {
			return nil, nil, err
		}
		shipped = append(shipped, item)
	}

	now := time.Now()
	p.Shipped = true
	p.ShippedAt = &now
	p.UpdatedAt = now
	p.AddDomainEvent(&PalletShippedEvent{
		PalletID:    p.PalletID,
		ItemIDs:     append([]string(nil), p.ItemIDs...),
		TotalWeight: p.CurrentWeight,
		ShippedAt:   now,
	})

	return p, shipped, nil
}

// Restore replaces the registry content with previously persisted pallets,
// which must already be in registration order.
func (r *PalletRegistry) Restore(pallets []*Pallet) {
	r.pallets = make([]*Pallet, 0, len(pallets))
	r.index = make(map[string]*Pallet, len(pallets))
	r.seq = 0
	for _, p := range pallets {
		if p.ItemIDs == nil {
			p.ItemIDs = make([]string, 0)
		}
		r.pallets = append(r.pallets, p)
		r.index[p.PalletID] = p
		if p.Sequence > r.seq {
			r.seq = p.Sequence
		}
	}
}
