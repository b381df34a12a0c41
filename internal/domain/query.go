package domain

import "strings"

// ItemFilter selects catalog items. Empty fields match everything.
type ItemFilter struct {
	// Search is matched case-insensitively as a substring of name or sku
	Search   string
	Category string
	Status   ItemStatus
}

// Matches reports whether the item satisfies every set field
func (f ItemFilter) Matches(item *PackingItem) bool {
	if f.Category != "" && item.Category != f.Category {
		return false
	}
	if f.Status != "" && item.Status != f.Status {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(item.Name), needle) &&
			!strings.Contains(strings.ToLower(item.SKU), needle) {
			return false
		}
	}
	return true
}

// List returns the items matching the filter in insertion order
func (c *ItemCatalog) List(filter ItemFilter) []*PackingItem {
	result := make([]*PackingItem, 0)
	for _, item := range c.items {
		if filter.Matches(item) {
			result = append(result, item)
		}
	}
	return result
}

// PalletUtilization is the used fraction of a pallet's limits
type PalletUtilization struct {
	PalletID string
	Name     string
	Status   PalletStatus
	Weight   float64
	Height   float64
}

// Summary is an aggregate view over the catalog and registry
type Summary struct {
	ItemsByStatus   map[ItemStatus]int
	PalletsByStatus map[PalletStatus]int
	PendingWeight   float64
	PackedWeight    float64
	ShippedWeight   float64
	Utilization     []PalletUtilization
}

// Summarize builds the summary view. It does not modify anything.
func Summarize(catalog *ItemCatalog, registry *PalletRegistry) Summary {
	s := Summary{
		ItemsByStatus: map[ItemStatus]int{
			ItemStatusPending: 0,
			ItemStatusPacked:  0,
			ItemStatusShipped: 0,
		},
		PalletsByStatus: map[PalletStatus]int{
			PalletStatusAvailable: 0,
			PalletStatusFull:      0,
			PalletStatusShipped:   0,
		},
		Utilization: make([]PalletUtilization, 0, registry.Len()),
	}

	for _, item := range catalog.items {
		s.ItemsByStatus[item.Status]++
		switch item.Status {
		case ItemStatusPending:
			s.PendingWeight += item.TotalWeight()
		case ItemStatusPacked:
			s.PackedWeight += item.TotalWeight()
		case ItemStatusShipped:
			s.ShippedWeight += item.TotalWeight()
		}
	}

	for _, p := range registry.pallets {
		status := p.DerivedStatus()
		s.PalletsByStatus[status]++
		u := p.Utilization()
		s.Utilization = append(s.Utilization, PalletUtilization{
			PalletID: p.PalletID,
			Name:     p.Name,
			Status:   status,
			Weight:   u.Weight,
			Height:   u.Height,
		})
	}

	return s
}
